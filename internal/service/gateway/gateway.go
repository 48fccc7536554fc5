package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	toolhandler "github.com/w-h-a/swimbench/tool_handler"
)

const maxLoggedArgs = 200

var ErrToolTimeout = errors.New("tool call exceeded its deadline")

// ToolError wraps a failed invocation with the capability that failed so the
// orchestrator can surface a scoped message instead of the raw cause.
type ToolError struct {
	Tool string
	Err  error
}

func (e *ToolError) Error() string {
	return fmt.Sprintf("tool %s failed: %v", e.Tool, e.Err)
}

func (e *ToolError) Unwrap() error {
	return e.Err
}

// Gateway dispatches named tool calls, bounding each with a timeout and
// logging every outcome.
type Gateway struct {
	tools   map[string]toolhandler.ToolHandler
	specs   map[string]toolhandler.ToolSpec
	order   []string
	timeout time.Duration
	logger  *slog.Logger
	mtx     sync.RWMutex
}

func (g *Gateway) Register(th toolhandler.ToolHandler) error {
	if th == nil {
		return fmt.Errorf("tool is nil")
	}

	g.mtx.Lock()
	defer g.mtx.Unlock()

	spec := th.Spec()
	key := strings.ToLower(strings.TrimSpace(spec.Name))
	if len(key) == 0 {
		return fmt.Errorf("tool name is required")
	}

	if _, ok := g.tools[key]; ok {
		return fmt.Errorf("tool %s already registered", key)
	}

	g.tools[key] = th
	g.specs[key] = spec
	g.order = append(g.order, key)

	return nil
}

func (g *Gateway) ListSpecs() []toolhandler.ToolSpec {
	g.mtx.RLock()
	defer g.mtx.RUnlock()

	specs := make([]toolhandler.ToolSpec, 0, len(g.specs))
	for _, key := range g.order {
		specs = append(specs, g.specs[key])
	}

	return specs
}

func (g *Gateway) Invoke(ctx context.Context, name string, req toolhandler.ToolRequest) (toolhandler.ToolResponse, error) {
	key := strings.ToLower(strings.TrimSpace(name))

	g.mtx.RLock()
	th, ok := g.tools[key]
	g.mtx.RUnlock()

	if !ok {
		return toolhandler.ToolResponse{}, &ToolError{Tool: name, Err: fmt.Errorf("unknown tool")}
	}

	callCtx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	type outcome struct {
		rsp toolhandler.ToolResponse
		err error
	}

	done := make(chan outcome, 1)
	go func() {
		rsp, err := th.Invoke(callCtx, req)
		done <- outcome{rsp: rsp, err: err}
	}()

	var rsp toolhandler.ToolResponse
	var err error

	select {
	case out := <-done:
		rsp, err = out.rsp, out.err
		if errors.Is(err, context.DeadlineExceeded) {
			err = ErrToolTimeout
		}
	case <-callCtx.Done():
		if errors.Is(callCtx.Err(), context.DeadlineExceeded) {
			err = ErrToolTimeout
		} else {
			err = callCtx.Err()
		}
	}

	if err != nil {
		g.logger.ErrorContext(ctx, "tool call failed", "tool", key, "args", truncateArgs(req.Arguments), "error", err)
		if errors.Is(err, ErrToolTimeout) {
			return toolhandler.ToolResponse{}, err
		}
		return toolhandler.ToolResponse{}, &ToolError{Tool: key, Err: err}
	}

	g.logger.InfoContext(ctx, "tool call succeeded", "tool", key, "args", truncateArgs(req.Arguments))

	return rsp, nil
}

func truncateArgs(args map[string]any) string {
	b, err := json.Marshal(args)
	if err != nil {
		return "?"
	}
	s := string(b)
	if len(s) > maxLoggedArgs {
		s = s[:maxLoggedArgs] + "..."
	}
	return s
}

func New(timeout time.Duration, logger *slog.Logger) *Gateway {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &Gateway{
		tools:   map[string]toolhandler.ToolHandler{},
		specs:   map[string]toolhandler.ToolSpec{},
		order:   []string{},
		timeout: timeout,
		logger:  logger,
	}
}
