package standards

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/w-h-a/swimbench/benchmark"
	"github.com/w-h-a/swimbench/standards"
	toolhandler "github.com/w-h-a/swimbench/tool_handler"
	getsafe "github.com/w-h-a/swimbench/util/get_safe"
)

// QueryResult is the wire shape of a standards_query response.
type QueryResult struct {
	Standards  []benchmark.StandardEntry       `json:"standards"`
	Recruiting []benchmark.RecruitingThreshold `json:"recruiting"`
}

var writeVerbs = []string{
	"insert", "update", "delete", "drop", "alter", "create", "truncate", "grant", ";",
}

type standardsToolHandler struct {
	store standards.Store
}

func (th *standardsToolHandler) Spec() toolhandler.ToolSpec {
	return toolhandler.ToolSpec{
		Name:        "standards_query",
		Description: "Read-only lookup of USA Swimming motivational standards and college recruiting cuts for one event, course, and gender.",
		InputSchema: map[string]any{
			"event":     "canonical event name, e.g. 100_freestyle",
			"course":    "SCY, SCM, or LCM",
			"gender":    "M or F",
			"age_group": "optional age band, e.g. 13-14",
		},
		Examples: []map[string]any{
			{"event": "100_freestyle", "course": "SCY", "gender": "F"},
		},
	}
}

func (th *standardsToolHandler) Invoke(ctx context.Context, req toolhandler.ToolRequest) (toolhandler.ToolResponse, error) {
	for key, value := range req.Arguments {
		s, ok := value.(string)
		if !ok {
			continue
		}
		lower := strings.ToLower(s)
		for _, verb := range writeVerbs {
			if strings.Contains(lower, verb) {
				return toolhandler.ToolResponse{}, fmt.Errorf("argument %q rejected: standards store is read-only", key)
			}
		}
	}

	query := standards.Query{
		Event:    benchmark.Event(getsafe.String(req.Arguments, "event")),
		Course:   benchmark.Course(getsafe.String(req.Arguments, "course")),
		Gender:   benchmark.Gender(getsafe.String(req.Arguments, "gender")),
		AgeGroup: benchmark.AgeGroup(getsafe.String(req.Arguments, "age_group")),
	}

	entries, err := th.store.Standards(ctx, query)
	if err != nil {
		return toolhandler.ToolResponse{}, fmt.Errorf("standards lookup: %w", err)
	}

	recruiting, err := th.store.Recruiting(ctx, query)
	if err != nil {
		return toolhandler.ToolResponse{}, fmt.Errorf("recruiting lookup: %w", err)
	}

	result := QueryResult{Standards: entries, Recruiting: recruiting}

	content, err := json.Marshal(result)
	if err != nil {
		return toolhandler.ToolResponse{}, err
	}

	return toolhandler.ToolResponse{
		Content: string(content),
		Metadata: map[string]string{
			"rows": fmt.Sprintf("%d", len(entries)+len(recruiting)),
		},
	}, nil
}

func NewToolHandler(store standards.Store) toolhandler.ToolHandler {
	return &standardsToolHandler{
		store: store,
	}
}
