package agent

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/w-h-a/swimbench/analysis"
	"github.com/w-h-a/swimbench/benchmark"
	"github.com/w-h-a/swimbench/generator"
	"github.com/w-h-a/swimbench/internal/service/gateway"
	"github.com/w-h-a/swimbench/session"
	toolhandler "github.com/w-h-a/swimbench/tool_handler"
	knowledgetool "github.com/w-h-a/swimbench/tool_handler/knowledge"
	standardstool "github.com/w-h-a/swimbench/tool_handler/standards"
)

// state is the per-turn machine. Every turn ends in stateComplete, error or
// not.
type state int

const (
	stateAwaitingInput state = iota
	stateIntentRouting
	stateToolExecution
	stateSynthesis
	stateComplete
)

func (s state) String() string {
	switch s {
	case stateAwaitingInput:
		return "awaiting_input"
	case stateIntentRouting:
		return "intent_routing"
	case stateToolExecution:
		return "tool_execution"
	case stateSynthesis:
		return "synthesis"
	case stateComplete:
		return "complete"
	default:
		return "unknown"
	}
}

const (
	defaultToolBudget = 4
	defaultTopK       = 5
)

// Service drives one conversation turn: route intent, execute tools through
// the gateway, run the benchmarking computation, synthesize the reply.
type Service struct {
	gateway    *gateway.Gateway
	sessions   session.Store
	analyses   analysis.Store
	generator  generator.Generator
	logger     *slog.Logger
	window     int
	toolBudget int
}

func (s *Service) Respond(ctx context.Context, sessionId string, message string) (string, error) {
	if len(strings.TrimSpace(message)) == 0 {
		return "", errors.New("user input is required")
	}

	st := s.transition(ctx, sessionId, stateAwaitingInput)

	s.appendTurn(ctx, sessionId, session.RoleUser, message)

	history, err := s.sessions.Recent(ctx, sessionId, s.window)
	if err != nil {
		s.logger.ErrorContext(ctx, "history read failed", "session", sessionId, "error", err)
		history = nil
	}

	st = s.transition(ctx, sessionId, stateIntentRouting)
	// The current message is already at the tail of history.
	turnIntent, f := route(message, history[:max(0, len(history)-1)])

	var reply string
	switch turnIntent {
	case intentOutOfScope:
		reply = redirectReply
	case intentDomainQuestion:
		st = s.transition(ctx, sessionId, stateToolExecution)
		reply = s.answerDomainQuestion(ctx, sessionId, message)
	default:
		st = s.transition(ctx, sessionId, stateToolExecution)
		reply = s.runAnalysis(ctx, sessionId, f)
	}

	st = s.transition(ctx, sessionId, stateSynthesis)
	st = s.transition(ctx, sessionId, stateComplete)

	s.appendTurn(ctx, sessionId, session.RoleAssistant, reply)

	s.logger.DebugContext(ctx, "turn finished", "session", sessionId, "state", st, "intent", turnIntent)

	return reply, nil
}

// runAnalysis executes the structured-lookup path. All failures resolve into
// user-facing text; the turn always completes.
func (s *Service) runAnalysis(ctx context.Context, sessionId string, f fields) string {
	if missing := f.missing(); len(missing) > 0 {
		return renderReprompt(missing)
	}

	// Gender and course fall back to fixed defaults, never a reprompt.
	if !f.hasGender {
		f.gender = benchmark.GenderMale
	}
	if !f.hasCourse {
		f.course = benchmark.CourseSCY
	}

	budget := s.toolBudget
	rsp, err := s.invokeWithRetry(ctx, sessionId, "standards_query", map[string]any{
		"event":  string(f.event),
		"course": string(f.course),
		"gender": string(f.gender),
	}, &budget)
	if err != nil {
		return renderFailure("the standards lookup")
	}

	var rows standardstool.QueryResult
	if err := json.Unmarshal([]byte(rsp.Content), &rows); err != nil {
		s.logger.ErrorContext(ctx, "standards result decode failed", "error", err)
		return renderFailure("the standards lookup")
	}

	result, err := benchmark.Analyze(benchmark.Input{
		Seconds: f.seconds,
		Event:   f.event,
		Age:     f.age,
		Gender:  f.gender,
		Course:  f.course,
	}, rows.Standards, rows.Recruiting)
	if err != nil {
		return explainAnalysisError(err)
	}

	record := analysis.Record{
		Id:        uuid.New().String(),
		SessionId: sessionId,
		Result:    result,
	}
	if err := s.analyses.Save(ctx, record); err != nil {
		s.logger.ErrorContext(ctx, "analysis persist failed", "id", record.Id, "error", err)
	}

	return renderReport(result)
}

func (s *Service) answerDomainQuestion(ctx context.Context, sessionId string, message string) string {
	budget := s.toolBudget
	rsp, err := s.invokeWithRetry(ctx, sessionId, "knowledge_search", map[string]any{
		"query": message,
		"k":     defaultTopK,
	}, &budget)
	if err != nil {
		return renderFailure("the knowledge search")
	}

	var result knowledgetool.SearchResult
	if err := json.Unmarshal([]byte(rsp.Content), &result); err != nil {
		s.logger.ErrorContext(ctx, "knowledge result decode failed", "error", err)
		return renderFailure("the knowledge search")
	}

	prose := s.composeProse(ctx, message, result.Chunks)

	return renderDomainAnswer(prose, result.Chunks)
}

// composeProse asks the generator to phrase the answer from retrieved chunks.
// The generator never drives control flow or numbers; with none configured
// the chunks are stitched deterministically by the renderer.
func (s *Service) composeProse(ctx context.Context, question string, chunks []knowledgetool.Snippet) string {
	if s.generator == nil || len(chunks) == 0 {
		return ""
	}

	var sb strings.Builder
	sb.WriteString("Answer the swimming question using only the reference notes below.\n\nQuestion: ")
	sb.WriteString(question)
	sb.WriteString("\n\nReference notes:\n")
	for i, chunk := range chunks {
		sb.WriteString(fmt.Sprintf("%d. %s\n", i+1, chunk.Text))
	}

	prose, err := s.generator.Generate(ctx, sb.String())
	if err != nil {
		s.logger.ErrorContext(ctx, "generator failed, falling back to stitched chunks", "error", err)
		return ""
	}

	return prose
}

// invokeWithRetry applies the bounded tool budget and the retry-once policy:
// a transient failure is retried with identical arguments, a second failure
// surfaces to the caller.
func (s *Service) invokeWithRetry(ctx context.Context, sessionId string, tool string, args map[string]any, budget *int) (toolhandler.ToolResponse, error) {
	var lastErr error

	for attempt := 0; attempt < 2; attempt++ {
		if *budget <= 0 {
			return toolhandler.ToolResponse{}, fmt.Errorf("tool budget exhausted")
		}
		*budget--

		rsp, err := s.gateway.Invoke(ctx, tool, toolhandler.ToolRequest{
			SessionId: sessionId,
			Arguments: args,
		})
		if err == nil {
			s.appendTurn(ctx, sessionId, session.RoleTool, fmt.Sprintf("%s => %s", tool, truncate(rsp.Content, 500)))
			return rsp, nil
		}

		lastErr = err
		s.logger.WarnContext(ctx, "tool call attempt failed", "tool", tool, "attempt", attempt+1, "error", err)
	}

	return toolhandler.ToolResponse{}, lastErr
}

func (s *Service) transition(ctx context.Context, sessionId string, next state) state {
	s.logger.DebugContext(ctx, "turn state", "session", sessionId, "state", next)
	return next
}

func (s *Service) appendTurn(ctx context.Context, sessionId string, role string, content string) {
	if err := s.sessions.Append(ctx, session.Turn{
		SessionId: sessionId,
		Role:      role,
		Content:   content,
	}); err != nil {
		s.logger.ErrorContext(ctx, "history append failed", "session", sessionId, "role", role, "error", err)
	}
}

func explainAnalysisError(err error) string {
	switch {
	case errors.Is(err, benchmark.ErrUnknownEvent):
		return fmt.Sprintf("I couldn't place that event. %s", capitalizeEventList(err))
	case errors.Is(err, benchmark.ErrInvalidTime):
		return "That time doesn't look right. Please give it as MM:SS.SS or SS.SS, for example 55.00 or 1:02.50."
	case errors.Is(err, benchmark.ErrInvalidAge):
		return "I benchmark USA Swimming age-group swimmers, ages 1 through 18. What is the swimmer's age?"
	case errors.Is(err, benchmark.ErrStandardsUnavailable):
		return "I don't have standards on file for that event, course, and gender combination, even after checking nearby age groups."
	default:
		return renderFailure("the performance analysis")
	}
}

func capitalizeEventList(err error) string {
	var unknown *benchmark.UnknownEventError
	if errors.As(err, &unknown) {
		return unknown.Error()
	}
	return err.Error()
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}

func New(
	gw *gateway.Gateway,
	sessions session.Store,
	analyses analysis.Store,
	gen generator.Generator,
	window int,
	toolBudget int,
	logger *slog.Logger,
) *Service {
	if gw == nil {
		panic("gateway is required")
	}

	if sessions == nil {
		panic("session store is required")
	}

	if analyses == nil {
		panic("analysis store is required")
	}

	if window <= 0 {
		window = session.DefaultWindow
	}

	if toolBudget <= 0 {
		toolBudget = defaultToolBudget
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &Service{
		gateway:    gw,
		sessions:   sessions,
		analyses:   analyses,
		generator:  gen,
		window:     window,
		toolBudget: toolBudget,
		logger:     logger,
	}
}
