package standards

import (
	"context"

	"github.com/w-h-a/swimbench/benchmark"
)

type Option func(*Options)

type Options struct {
	Location   string
	Schema     string
	Entries    []benchmark.StandardEntry
	Recruiting []benchmark.RecruitingThreshold
	Context    context.Context
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

func WithEntries(entries ...benchmark.StandardEntry) Option {
	return func(o *Options) {
		o.Entries = append(o.Entries, entries...)
	}
}

func WithRecruiting(thresholds ...benchmark.RecruitingThreshold) Option {
	return func(o *Options) {
		o.Recruiting = append(o.Recruiting, thresholds...)
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
