package agent

import (
	"context"
	"encoding/json"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	analysismemory "github.com/w-h-a/swimbench/analysis/memory"
	"github.com/w-h-a/swimbench/benchmark"
	"github.com/w-h-a/swimbench/internal/service/gateway"
	"github.com/w-h-a/swimbench/session"
	sessionmemory "github.com/w-h-a/swimbench/session/memory"
	"github.com/w-h-a/swimbench/standards"
	standardsmemory "github.com/w-h-a/swimbench/standards/memory"
	toolhandler "github.com/w-h-a/swimbench/tool_handler"
	knowledgetool "github.com/w-h-a/swimbench/tool_handler/knowledge"
	standardstool "github.com/w-h-a/swimbench/tool_handler/standards"
)

type fakeToolHandler struct {
	name   string
	invoke func(ctx context.Context, req toolhandler.ToolRequest) (toolhandler.ToolResponse, error)
	calls  atomic.Int32
}

func (th *fakeToolHandler) Spec() toolhandler.ToolSpec {
	return toolhandler.ToolSpec{Name: th.name, Description: "test double"}
}

func (th *fakeToolHandler) Invoke(ctx context.Context, req toolhandler.ToolRequest) (toolhandler.ToolResponse, error) {
	th.calls.Add(1)
	return th.invoke(ctx, req)
}

func girls100FreeStandards() []benchmark.StandardEntry {
	return []benchmark.StandardEntry{
		{Event: benchmark.Event100Freestyle, Course: benchmark.CourseSCY, Gender: benchmark.GenderFemale, AgeGroup: benchmark.AgeGroup13to14, Level: benchmark.LevelB, Seconds: 65.00},
		{Event: benchmark.Event100Freestyle, Course: benchmark.CourseSCY, Gender: benchmark.GenderFemale, AgeGroup: benchmark.AgeGroup13to14, Level: benchmark.LevelBB, Seconds: 61.00},
		{Event: benchmark.Event100Freestyle, Course: benchmark.CourseSCY, Gender: benchmark.GenderFemale, AgeGroup: benchmark.AgeGroup13to14, Level: benchmark.LevelA, Seconds: 58.00},
		{Event: benchmark.Event100Freestyle, Course: benchmark.CourseSCY, Gender: benchmark.GenderFemale, AgeGroup: benchmark.AgeGroup13to14, Level: benchmark.LevelAA, Seconds: 56.00},
		{Event: benchmark.Event100Freestyle, Course: benchmark.CourseSCY, Gender: benchmark.GenderFemale, AgeGroup: benchmark.AgeGroup13to14, Level: benchmark.LevelAAA, Seconds: 54.50},
		{Event: benchmark.Event100Freestyle, Course: benchmark.CourseSCY, Gender: benchmark.GenderFemale, AgeGroup: benchmark.AgeGroup13to14, Level: benchmark.LevelAAAA, Seconds: 52.00},
	}
}

func girls100FreeRecruiting() []benchmark.RecruitingThreshold {
	return []benchmark.RecruitingThreshold{
		{Event: benchmark.Event100Freestyle, Course: benchmark.CourseSCY, Gender: benchmark.GenderFemale, Division: benchmark.DivisionD1Elite, Seconds: 49.50},
		{Event: benchmark.Event100Freestyle, Course: benchmark.CourseSCY, Gender: benchmark.GenderFemale, Division: benchmark.DivisionD1MidMajor, Seconds: 51.50},
		{Event: benchmark.Event100Freestyle, Course: benchmark.CourseSCY, Gender: benchmark.GenderFemale, Division: benchmark.DivisionD2, Seconds: 53.00},
		{Event: benchmark.Event100Freestyle, Course: benchmark.CourseSCY, Gender: benchmark.GenderFemale, Division: benchmark.DivisionD3, Seconds: 55.00},
	}
}

func newTestService(t *testing.T, timeout time.Duration, handlers ...toolhandler.ToolHandler) (*Service, session.Store, *analysismemory.Store) {
	t.Helper()

	gw := gateway.New(timeout, nil)
	for _, th := range handlers {
		require.NoError(t, gw.Register(th))
	}

	sessions := sessionmemory.NewStore()
	analyses := analysismemory.NewStore()

	return New(gw, sessions, analyses, nil, 0, 0, nil), sessions, analyses
}

func standardsBackedService(t *testing.T) (*Service, session.Store, *analysismemory.Store) {
	t.Helper()

	store := standardsmemory.NewStore(
		standards.WithEntries(girls100FreeStandards()...),
		standards.WithRecruiting(girls100FreeRecruiting()...),
	)

	return newTestService(t, time.Second, standardstool.NewToolHandler(store))
}

func TestRespondRunsFullAnalysis(t *testing.T) {
	svc, sessions, analyses := standardsBackedService(t)

	reply, err := svc.Respond(context.Background(), "s1", "Analyze my 100 free, 55.00, age 14, female")
	require.NoError(t, err)

	assert.Contains(t, reply, "Swim Performance Analysis")
	assert.Contains(t, reply, "USA Swimming Standard: AA")
	assert.Contains(t, reply, "Next Standard: AAA at 54.50")
	assert.Contains(t, reply, "Time Drop Needed: 0.50 seconds")
	assert.Contains(t, reply, "D3: Qualified")
	assert.Contains(t, reply, "D2: Not Qualified")

	records := analyses.Records()
	require.Len(t, records, 1)
	assert.Equal(t, "s1", records[0].SessionId)
	assert.Equal(t, benchmark.LevelAA, records[0].Result.StandardLevel)

	turns, err := sessions.Recent(context.Background(), "s1", session.DefaultWindow)
	require.NoError(t, err)
	require.Len(t, turns, 3)
	assert.Equal(t, session.RoleUser, turns[0].Role)
	assert.Equal(t, session.RoleTool, turns[1].Role)
	assert.Equal(t, session.RoleAssistant, turns[2].Role)
}

func TestRespondRepromptsWithoutToolCalls(t *testing.T) {
	counting := &fakeToolHandler{
		name: "standards_query",
		invoke: func(ctx context.Context, req toolhandler.ToolRequest) (toolhandler.ToolResponse, error) {
			return toolhandler.ToolResponse{Content: "{}"}, nil
		},
	}

	svc, _, analyses := newTestService(t, time.Second, counting)

	reply, err := svc.Respond(context.Background(), "s1", "Can you analyze my swim for me?")
	require.NoError(t, err)

	assert.Contains(t, reply, repromptMarker)
	assert.Contains(t, reply, "event")
	assert.Contains(t, reply, "age")
	assert.Contains(t, reply, "time")
	assert.Equal(t, int32(0), counting.calls.Load())
	assert.Empty(t, analyses.Records())
}

func TestRespondCompletesAnalysisAcrossTurns(t *testing.T) {
	svc, _, analyses := standardsBackedService(t)

	reply, err := svc.Respond(context.Background(), "s1", "Analyze a 100 free of 55.00 for a girl")
	require.NoError(t, err)
	assert.Contains(t, reply, repromptMarker)
	assert.Contains(t, reply, "age")

	reply, err = svc.Respond(context.Background(), "s1", "She is 14 years old")
	require.NoError(t, err)

	assert.Contains(t, reply, "Swim Performance Analysis")
	assert.Contains(t, reply, "USA Swimming Standard: AA")
	require.Len(t, analyses.Records(), 1)
}

func TestRespondRedirectsOffTopic(t *testing.T) {
	counting := &fakeToolHandler{
		name: "knowledge_search",
		invoke: func(ctx context.Context, req toolhandler.ToolRequest) (toolhandler.ToolResponse, error) {
			return toolhandler.ToolResponse{Content: "{}"}, nil
		},
	}

	svc, _, _ := newTestService(t, time.Second, counting)

	reply, err := svc.Respond(context.Background(), "s1", "What's the weather like today?")
	require.NoError(t, err)

	assert.Equal(t, redirectReply, reply)
	assert.Equal(t, int32(0), counting.calls.Load())
}

func TestRespondAnswersDomainQuestion(t *testing.T) {
	content, err := json.Marshal(knowledgetool.SearchResult{
		Chunks: []knowledgetool.Snippet{
			{Text: "AAAA is the highest motivational standard.", Score: 0.91},
		},
	})
	require.NoError(t, err)

	knowledge := &fakeToolHandler{
		name: "knowledge_search",
		invoke: func(ctx context.Context, req toolhandler.ToolRequest) (toolhandler.ToolResponse, error) {
			assert.Equal(t, "What are USA swimming motivational time standards?", req.Arguments["query"])
			return toolhandler.ToolResponse{Content: string(content)}, nil
		},
	}

	svc, _, _ := newTestService(t, time.Second, knowledge)

	reply, err := svc.Respond(context.Background(), "s1", "What are USA swimming motivational time standards?")
	require.NoError(t, err)

	assert.Contains(t, reply, "AAAA is the highest motivational standard.")
	assert.Contains(t, reply, standingOffer)
	assert.Equal(t, int32(1), knowledge.calls.Load())
}

func TestRespondRetriesOnceThenScopesFailure(t *testing.T) {
	failing := &fakeToolHandler{
		name: "standards_query",
		invoke: func(ctx context.Context, req toolhandler.ToolRequest) (toolhandler.ToolResponse, error) {
			return toolhandler.ToolResponse{}, fmt.Errorf("connection refused")
		},
	}

	svc, _, analyses := newTestService(t, time.Second, failing)

	reply, err := svc.Respond(context.Background(), "s1", "Analyze my 100 free, 55.00, age 14")
	require.NoError(t, err)

	assert.Contains(t, reply, "standards lookup")
	assert.Contains(t, reply, "unavailable")
	assert.Equal(t, int32(2), failing.calls.Load())
	assert.Empty(t, analyses.Records())
}

func TestRespondSurfacesTimeoutAsScopedFailure(t *testing.T) {
	slow := &fakeToolHandler{
		name: "knowledge_search",
		invoke: func(ctx context.Context, req toolhandler.ToolRequest) (toolhandler.ToolResponse, error) {
			select {
			case <-ctx.Done():
				return toolhandler.ToolResponse{}, ctx.Err()
			case <-time.After(time.Second):
				return toolhandler.ToolResponse{Content: "{}"}, nil
			}
		},
	}

	svc, _, _ := newTestService(t, 10*time.Millisecond, slow)

	reply, err := svc.Respond(context.Background(), "s1", "What does a good taper week look like?")
	require.NoError(t, err)

	assert.Contains(t, reply, "knowledge search")
	assert.Contains(t, reply, "unavailable")
	assert.Equal(t, int32(2), slow.calls.Load())
}

func TestRespondStandardsTimeoutNamesCapability(t *testing.T) {
	slow := &fakeToolHandler{
		name: "standards_query",
		invoke: func(ctx context.Context, req toolhandler.ToolRequest) (toolhandler.ToolResponse, error) {
			<-ctx.Done()
			return toolhandler.ToolResponse{}, ctx.Err()
		},
	}

	svc, _, analyses := newTestService(t, 10*time.Millisecond, slow)

	reply, err := svc.Respond(context.Background(), "s1", "Analyze my 100 free, 55.00, age 14")
	require.NoError(t, err)

	assert.Contains(t, reply, "standards lookup")
	assert.Equal(t, int32(2), slow.calls.Load())
	assert.Empty(t, analyses.Records())
}

func TestRespondExplainsMissingStandards(t *testing.T) {
	empty := standardsmemory.NewStore()

	svc, _, analyses := newTestService(t, time.Second, standardstool.NewToolHandler(empty))

	reply, err := svc.Respond(context.Background(), "s1", "Analyze my 200 fly, 2:05.00, age 16")
	require.NoError(t, err)

	assert.Contains(t, reply, "don't have standards on file")
	assert.Empty(t, analyses.Records())
}

func TestRespondRejectsEmptyInput(t *testing.T) {
	svc, _, _ := newTestService(t, time.Second)

	_, err := svc.Respond(context.Background(), "s1", "   ")
	require.Error(t, err)
}
