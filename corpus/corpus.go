package corpus

import (
	"context"
	"fmt"
)

// Corpus holds ingested knowledge chunks and serves nearest-neighbor search.
//
// Clear stages a fresh generation rather than deleting in place: readers keep
// the previous generation until the next successful Ingest promotes the new
// one, so a concurrent Search never observes a half-cleared corpus.
type Corpus interface {
	Clear(ctx context.Context) error
	Ingest(ctx context.Context, doc Document) (int, error)
	Search(ctx context.Context, query string, k int) ([]Chunk, error)
}

// Source fetches and parses a document reference into raw text. Fetch quality
// is the source's problem; the corpus only cares that text comes back.
type Source interface {
	Fetch(ctx context.Context, ref string) (string, error)
}

type Document struct {
	Id       string
	Name     string
	Ref      string
	Metadata Metadata
}

type Metadata struct {
	ContentType string `json:"content_type,omitempty"`
	Source      string `json:"source,omitempty"`
	Year        string `json:"year,omitempty"`
}

// Chunk is one retrievable span of an ingested document. Immutable.
type Chunk struct {
	Id         string
	DocumentId string
	Text       string
	Embedding  []float32
	Metadata   Metadata
	Score      float32
}

// IngestionError reports a per-document failure without touching what other
// documents already committed.
type IngestionError struct {
	Doc    string
	Reason string
	Err    error
}

func (e *IngestionError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("ingestion of %s failed (%s): %v", e.Doc, e.Reason, e.Err)
	}
	return fmt.Sprintf("ingestion of %s failed: %s", e.Doc, e.Reason)
}

func (e *IngestionError) Unwrap() error {
	return e.Err
}
