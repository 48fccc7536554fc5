package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/w-h-a/swimbench/corpus"
)

type generation struct {
	chunks []corpus.Chunk
}

type memoryCorpus struct {
	options corpus.Options
	live    *generation
	staged  *generation
	mtx     sync.RWMutex
}

func (c *memoryCorpus) Clear(ctx context.Context) error {
	c.mtx.Lock()
	defer c.mtx.Unlock()

	// Readers stay on the live generation until the next ingest promotes
	// the staged one.
	c.staged = &generation{}

	if len(c.live.chunks) == 0 {
		c.live = c.staged
		c.staged = nil
	}

	return nil
}

func (c *memoryCorpus) Ingest(ctx context.Context, doc corpus.Document) (int, error) {
	chunks, err := corpus.Prepare(ctx, c.options.Source, c.options.Embedder, doc, c.options.ChunkSize)
	if err != nil {
		return 0, err
	}

	c.mtx.Lock()
	defer c.mtx.Unlock()

	if c.staged != nil {
		c.staged.chunks = append(c.staged.chunks, chunks...)
		c.live = c.staged
		c.staged = nil
	} else {
		c.live = &generation{chunks: append(append([]corpus.Chunk(nil), c.live.chunks...), chunks...)}
	}

	return len(chunks), nil
}

func (c *memoryCorpus) Search(ctx context.Context, query string, k int) ([]corpus.Chunk, error) {
	if k < 1 {
		return nil, nil
	}

	vec, err := c.options.Embedder.Embed(ctx, query)
	if err != nil {
		return nil, err
	}

	c.mtx.RLock()
	gen := c.live
	c.mtx.RUnlock()

	candidates := make([]corpus.Chunk, len(gen.chunks))
	copy(candidates, gen.chunks)

	for i := range candidates {
		candidates[i].Score = float32(corpus.CosineSimilarity(vec, candidates[i].Embedding))
	}

	sort.Slice(candidates, func(i, j int) bool {
		return candidates[i].Score > candidates[j].Score
	})

	if len(candidates) > k {
		candidates = candidates[:k]
	}

	return candidates, nil
}

func NewCorpus(opts ...corpus.Option) corpus.Corpus {
	options := corpus.NewOptions(opts...)

	return &memoryCorpus{
		options: options,
		live:    &generation{},
	}
}
