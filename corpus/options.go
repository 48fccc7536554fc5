package corpus

import (
	"context"

	"github.com/w-h-a/swimbench/embedder"
)

type Option func(*Options)

type Options struct {
	Location  string
	Source    Source
	Embedder  embedder.Embedder
	ChunkSize int
	Context   context.Context
}

func WithLocation(loc string) Option {
	return func(o *Options) {
		o.Location = loc
	}
}

func WithSource(source Source) Option {
	return func(o *Options) {
		o.Source = source
	}
}

func WithEmbedder(embedder embedder.Embedder) Option {
	return func(o *Options) {
		o.Embedder = embedder
	}
}

func WithChunkSize(size int) Option {
	return func(o *Options) {
		o.ChunkSize = size
	}
}

func NewOptions(opts ...Option) Options {
	options := Options{
		// conservative limit so chunks stay inside embedding token budgets
		ChunkSize: 2000,
		Context:   context.Background(),
	}
	for _, opt := range opts {
		opt(&options)
	}
	return options
}
