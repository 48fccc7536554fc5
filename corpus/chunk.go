package corpus

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/w-h-a/swimbench/embedder"
)

// SplitText breaks raw text into chunks of at most maxLen characters,
// preferring paragraph boundaries and falling back to a hard split for
// paragraphs that are themselves too long.
func SplitText(text string, maxLen int) []string {
	if maxLen <= 0 {
		maxLen = 2000
	}

	var chunks []string
	var current strings.Builder

	flush := func() {
		if trimmed := strings.TrimSpace(current.String()); len(trimmed) > 0 {
			chunks = append(chunks, trimmed)
		}
		current.Reset()
	}

	for _, paragraph := range strings.Split(text, "\n\n") {
		paragraph = strings.TrimSpace(paragraph)
		if len(paragraph) == 0 {
			continue
		}

		for len(paragraph) > maxLen {
			cut := strings.LastIndex(paragraph[:maxLen], " ")
			if cut <= 0 {
				cut = maxLen
			}
			flush()
			current.WriteString(paragraph[:cut])
			flush()
			paragraph = strings.TrimSpace(paragraph[cut:])
		}

		if current.Len()+len(paragraph)+2 > maxLen {
			flush()
		}

		if current.Len() > 0 {
			current.WriteString("\n\n")
		}
		current.WriteString(paragraph)
	}

	flush()

	return chunks
}

// Prepare runs the fetch, chunk, and embed stages for one document. Any
// failure aborts the whole document so providers commit all chunks or none.
func Prepare(ctx context.Context, source Source, emb embedder.Embedder, doc Document, chunkSize int) ([]Chunk, error) {
	if source == nil {
		return nil, &IngestionError{Doc: doc.Name, Reason: "no document source configured"}
	}
	if emb == nil {
		return nil, &IngestionError{Doc: doc.Name, Reason: "no embedder configured"}
	}

	text, err := source.Fetch(ctx, doc.Ref)
	if err != nil {
		return nil, &IngestionError{Doc: doc.Name, Reason: "fetch failed", Err: err}
	}

	spans := SplitText(text, chunkSize)
	if len(spans) == 0 {
		return nil, &IngestionError{Doc: doc.Name, Reason: "document produced no content"}
	}

	chunks := make([]Chunk, 0, len(spans))
	for _, span := range spans {
		vec, err := emb.Embed(ctx, span)
		if err != nil {
			return nil, &IngestionError{Doc: doc.Name, Reason: "embedding failed", Err: err}
		}
		chunks = append(chunks, Chunk{
			Id:         uuid.New().String(),
			DocumentId: doc.Id,
			Text:       span,
			Embedding:  vec,
			Metadata:   doc.Metadata,
		})
	}

	return chunks, nil
}
