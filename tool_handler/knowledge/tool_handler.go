package knowledge

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/w-h-a/swimbench/corpus"
	toolhandler "github.com/w-h-a/swimbench/tool_handler"
	getsafe "github.com/w-h-a/swimbench/util/get_safe"
)

const defaultTopK = 5

// SearchResult is the wire shape of a knowledge_search response.
type SearchResult struct {
	Chunks []Snippet `json:"chunks"`
}

type Snippet struct {
	Text        string  `json:"text"`
	ContentType string  `json:"content_type,omitempty"`
	Source      string  `json:"source,omitempty"`
	Score       float32 `json:"score"`
}

type knowledgeToolHandler struct {
	corpus corpus.Corpus
}

func (th *knowledgeToolHandler) Spec() toolhandler.ToolSpec {
	return toolhandler.ToolSpec{
		Name:        "knowledge_search",
		Description: "Semantic search over the swim knowledge corpus; returns the most similar chunks first.",
		InputSchema: map[string]any{
			"query": "free-text question",
			"k":     "optional number of chunks, default 5",
		},
	}
}

func (th *knowledgeToolHandler) Invoke(ctx context.Context, req toolhandler.ToolRequest) (toolhandler.ToolResponse, error) {
	query := getsafe.String(req.Arguments, "query")
	if len(query) == 0 {
		return toolhandler.ToolResponse{}, fmt.Errorf("query argument is required")
	}

	k := getsafe.Int(req.Arguments, "k")
	if k < 1 {
		k = defaultTopK
	}

	chunks, err := th.corpus.Search(ctx, query, k)
	if err != nil {
		return toolhandler.ToolResponse{}, fmt.Errorf("knowledge search: %w", err)
	}

	result := SearchResult{Chunks: make([]Snippet, 0, len(chunks))}
	for _, chunk := range chunks {
		result.Chunks = append(result.Chunks, Snippet{
			Text:        chunk.Text,
			ContentType: chunk.Metadata.ContentType,
			Source:      chunk.Metadata.Source,
			Score:       chunk.Score,
		})
	}

	content, err := json.Marshal(result)
	if err != nil {
		return toolhandler.ToolResponse{}, err
	}

	return toolhandler.ToolResponse{
		Content: string(content),
		Metadata: map[string]string{
			"chunks": fmt.Sprintf("%d", len(result.Chunks)),
		},
	}, nil
}

func NewToolHandler(c corpus.Corpus) toolhandler.ToolHandler {
	return &knowledgeToolHandler{
		corpus: c,
	}
}
