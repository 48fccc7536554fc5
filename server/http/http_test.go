package http

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/w-h-a/swimbench"
	analysismemory "github.com/w-h-a/swimbench/analysis/memory"
	"github.com/w-h-a/swimbench/benchmark"
	"github.com/w-h-a/swimbench/corpus"
	corpusmemory "github.com/w-h-a/swimbench/corpus/memory"
	sessionmemory "github.com/w-h-a/swimbench/session/memory"
	"github.com/w-h-a/swimbench/standards"
	standardsmemory "github.com/w-h-a/swimbench/standards/memory"
)

type fixedEmbedder struct{}

func (e *fixedEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	return []float32{1, 0, 0}, nil
}

type fixedSource struct {
	texts map[string]string
}

func (s *fixedSource) Fetch(ctx context.Context, ref string) (string, error) {
	text, ok := s.texts[ref]
	if !ok {
		return "", fmt.Errorf("fetch %s: not found", ref)
	}
	return text, nil
}

func newTestServer(t *testing.T, source corpus.Source, documents []corpus.Document) *Server {
	t.Helper()

	store := standardsmemory.NewStore(standards.WithEntries(
		benchmark.StandardEntry{Event: benchmark.Event100Freestyle, Course: benchmark.CourseSCY, Gender: benchmark.GenderMale, AgeGroup: benchmark.AgeGroup13to14, Level: benchmark.LevelAA, Seconds: 52.00},
		benchmark.StandardEntry{Event: benchmark.Event100Freestyle, Course: benchmark.CourseSCY, Gender: benchmark.GenderMale, AgeGroup: benchmark.AgeGroup13to14, Level: benchmark.LevelAAA, Seconds: 50.00},
	))

	c := corpusmemory.NewCorpus(
		corpus.WithSource(source),
		corpus.WithEmbedder(&fixedEmbedder{}),
	)

	sb := swimbench.New(swimbench.Config{
		Standards:   store,
		Corpus:      c,
		Sessions:    sessionmemory.NewStore(),
		Analyses:    analysismemory.NewStore(),
		Documents:   documents,
		ToolTimeout: time.Second,
	})

	return NewServer(sb, "test", nil)
}

func postJSON(t *testing.T, handler http.Handler, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	b, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(b))
	req.Header.Set("Content-Type", "application/json")

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func TestHealth(t *testing.T) {
	srv := newTestServer(t, &fixedSource{}, nil)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestChatReturnsReply(t *testing.T) {
	srv := newTestServer(t, &fixedSource{}, nil)

	rec := postJSON(t, srv.Handler(), "/chat", chatRequest{
		SessionId: "s1",
		Message:   "Analyze my 100 free, 51.00, age 14",
	})

	require.Equal(t, http.StatusOK, rec.Code)

	var rsp chatResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &rsp))
	assert.Equal(t, "s1", rsp.SessionId)
	assert.Contains(t, rsp.Reply, "Swim Performance Analysis")
}

func TestChatRequiresSessionId(t *testing.T) {
	srv := newTestServer(t, &fixedSource{}, nil)

	rec := postJSON(t, srv.Handler(), "/chat", chatRequest{Message: "hi"})
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestLoadKnowledgeReportsPerSource(t *testing.T) {
	documents := []corpus.Document{
		{Id: "d1", Name: "standards doc", Ref: "good"},
		{Id: "d2", Name: "recruiting doc", Ref: "missing"},
	}
	source := &fixedSource{texts: map[string]string{
		"good": "AAAA is the highest motivational standard.",
	}}

	srv := newTestServer(t, source, documents)

	rec := postJSON(t, srv.Handler(), "/loadknowledge", nil)
	require.Equal(t, http.StatusInternalServerError, rec.Code)

	var rsp reloadResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &rsp))
	assert.Equal(t, "error", rsp.Status)
	require.Len(t, rsp.Reports, 2)
	assert.Equal(t, "standards doc", rsp.Reports[0].Document)
	assert.Empty(t, rsp.Reports[0].Error)
	assert.Equal(t, "recruiting doc", rsp.Reports[1].Document)
	assert.NotEmpty(t, rsp.Reports[1].Error)
}

func TestLoadKnowledgeSuccess(t *testing.T) {
	documents := []corpus.Document{
		{Id: "d1", Name: "standards doc", Ref: "good"},
	}
	source := &fixedSource{texts: map[string]string{
		"good": "AAAA is the highest motivational standard.",
	}}

	srv := newTestServer(t, source, documents)

	rec := postJSON(t, srv.Handler(), "/loadknowledge", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var rsp reloadResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &rsp))
	assert.Equal(t, "success", rsp.Status)
	require.Len(t, rsp.Reports, 1)
	assert.Equal(t, 1, rsp.Reports[0].Chunks)
}
