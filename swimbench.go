package swimbench

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/w-h-a/swimbench/analysis"
	"github.com/w-h-a/swimbench/corpus"
	"github.com/w-h-a/swimbench/generator"
	agentservice "github.com/w-h-a/swimbench/internal/service/agent"
	"github.com/w-h-a/swimbench/internal/service/gateway"
	"github.com/w-h-a/swimbench/session"
	"github.com/w-h-a/swimbench/standards"
	toolhandler "github.com/w-h-a/swimbench/tool_handler"
	knowledgetool "github.com/w-h-a/swimbench/tool_handler/knowledge"
	standardstool "github.com/w-h-a/swimbench/tool_handler/standards"
)

// DefaultDocuments are the two sources the knowledge base is seeded from.
func DefaultDocuments() []corpus.Document {
	return []corpus.Document{
		{
			Id:   uuid.New().String(),
			Name: "USA Swimming Motivational Time Standards 2024-2028",
			Ref:  "https://websitedevsa.blob.core.windows.net/sitefinity/docs/default-source/timesdocuments/time-standards/2025/2028-motivational-standards-age-group.pdf",
			Metadata: corpus.Metadata{
				ContentType: "standards",
				Source:      "PDF",
				Year:        "2024-2028",
			},
		},
		{
			Id:   uuid.New().String(),
			Name: "College Swimming Recruiting Standards",
			Ref:  "https://www.ncsasports.org/mens-swimming/college-swimming-recruiting-times",
			Metadata: corpus.Metadata{
				ContentType: "recruiting",
				Source:      "NCSA",
			},
		},
	}
}

// SourceReport describes one document's outcome during a knowledge reload.
type SourceReport struct {
	Document string `json:"document"`
	Chunks   int    `json:"chunks"`
	Error    string `json:"error,omitempty"`
}

// SwimBench bundles the conversation service, the tool gateway, and the
// knowledge corpus behind one handle.
type SwimBench struct {
	agent     *agentservice.Service
	gateway   *gateway.Gateway
	corpus    corpus.Corpus
	documents []corpus.Document
	logger    *slog.Logger
	reloadMtx sync.Mutex
}

// Respond runs one conversation turn for the given session.
func (s *SwimBench) Respond(ctx context.Context, sessionId string, userInput string) (string, error) {
	return s.agent.Respond(ctx, sessionId, userInput)
}

// ListTools exposes the registered tool specs.
func (s *SwimBench) ListTools() []toolhandler.ToolSpec {
	return s.gateway.ListSpecs()
}

// ReloadKnowledge clears the corpus and re-ingests the configured documents.
// It returns a per-source report; the error is non-nil when any source
// failed. Reads keep serving the previous corpus until the reload lands.
func (s *SwimBench) ReloadKnowledge(ctx context.Context) ([]SourceReport, error) {
	s.reloadMtx.Lock()
	defer s.reloadMtx.Unlock()

	s.logger.InfoContext(ctx, "knowledge reload started", "documents", len(s.documents))

	if err := s.corpus.Clear(ctx); err != nil {
		return nil, fmt.Errorf("failed to clear corpus: %w", err)
	}

	reports := make([]SourceReport, 0, len(s.documents))

	var failures int
	for _, doc := range s.documents {
		chunks, err := s.corpus.Ingest(ctx, doc)
		report := SourceReport{Document: doc.Name, Chunks: chunks}
		if err != nil {
			report.Error = err.Error()
			failures++
			s.logger.ErrorContext(ctx, "document ingest failed", "document", doc.Name, "error", err)
		} else {
			s.logger.InfoContext(ctx, "document ingested", "document", doc.Name, "chunks", chunks)
		}
		reports = append(reports, report)
	}

	if failures > 0 {
		return reports, fmt.Errorf("%d of %d documents failed to load", failures, len(s.documents))
	}

	s.logger.InfoContext(ctx, "knowledge reload completed")

	return reports, nil
}

type Config struct {
	Standards   standards.Store
	Corpus      corpus.Corpus
	Sessions    session.Store
	Analyses    analysis.Store
	Generator   generator.Generator
	Documents   []corpus.Document
	Window      int
	ToolBudget  int
	ToolTimeout time.Duration
	Logger      *slog.Logger
}

func New(cfg Config) *SwimBench {
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}

	if len(cfg.Documents) == 0 {
		cfg.Documents = DefaultDocuments()
	}

	gw := gateway.New(cfg.ToolTimeout, cfg.Logger)

	if err := gw.Register(standardstool.NewToolHandler(cfg.Standards)); err != nil {
		panic(err)
	}

	if err := gw.Register(knowledgetool.NewToolHandler(cfg.Corpus)); err != nil {
		panic(err)
	}

	svc := agentservice.New(
		gw,
		cfg.Sessions,
		cfg.Analyses,
		cfg.Generator,
		cfg.Window,
		cfg.ToolBudget,
		cfg.Logger,
	)

	return &SwimBench{
		agent:     svc,
		gateway:   gw,
		corpus:    cfg.Corpus,
		documents: cfg.Documents,
		logger:    cfg.Logger,
	}
}
