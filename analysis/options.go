package analysis

import "context"

type Option func(*Options)

type Options struct {
	Location string
	Schema   string
	Context  context.Context
}

func WithLocation(loc string) Option {
	return func(o *Options) {
		o.Location = loc
	}
}

func WithSchema(schema string) Option {
	return func(o *Options) {
		o.Schema = schema
	}
}

func NewOptions(opts ...Option) Options {
	options := Options{
		Schema:  "ai",
		Context: context.Background(),
	}
	for _, opt := range opts {
		opt(&options)
	}
	return options
}
