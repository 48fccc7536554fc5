package http

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/w-h-a/swimbench"
)

const (
	readHeaderTimeout = 10 * time.Second
	readTimeout       = 30 * time.Second
	writeTimeout      = 2 * time.Minute
	idleTimeout       = 2 * time.Minute
	shutdownTimeout   = 10 * time.Second
)

type chatRequest struct {
	SessionId string `json:"session_id"`
	Message   string `json:"message"`
}

type chatResponse struct {
	SessionId string `json:"session_id"`
	Reply     string `json:"reply"`
}

type reloadResponse struct {
	Status  string                  `json:"status"`
	Reports []swimbench.SourceReport `json:"reports"`
	Error   string                  `json:"error,omitempty"`
}

// Server is the HTTP transport over a SwimBench handle.
type Server struct {
	sb     *swimbench.SwimBench
	router *mux.Router
	logger *slog.Logger
	env    string
}

func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "request body must be JSON with session_id and message")
		return
	}

	if len(req.SessionId) == 0 {
		s.writeError(w, http.StatusBadRequest, "session_id is required")
		return
	}

	reply, err := s.sb.Respond(r.Context(), req.SessionId, req.Message)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	s.writeJSON(w, http.StatusOK, chatResponse{SessionId: req.SessionId, Reply: reply})
}

func (s *Server) handleLoadKnowledge(w http.ResponseWriter, r *http.Request) {
	reports, err := s.sb.ReloadKnowledge(r.Context())
	if err != nil {
		s.writeJSON(w, http.StatusInternalServerError, reloadResponse{
			Status:  "error",
			Reports: reports,
			Error:   err.Error(),
		})
		return
	}

	s.writeJSON(w, http.StatusOK, reloadResponse{Status: "success", Reports: reports})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		s.logger.Error("response write failed", "error", err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, message string) {
	s.writeJSON(w, status, map[string]string{"error": message})
}

func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		s.logger.InfoContext(r.Context(), "request handled", "method", r.Method, "path", r.URL.Path, "duration", time.Since(start))
	})
}

func (s *Server) recoveryMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				s.logger.ErrorContext(r.Context(), "handler panicked", "path", r.URL.Path, "panic", rec)
				s.writeError(w, http.StatusInternalServerError, "internal error")
			}
		}()
		next.ServeHTTP(w, r)
	})
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// Run serves until the context is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: readHeaderTimeout,
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.InfoContext(ctx, "http server listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		s.logger.InfoContext(ctx, "http server shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

func NewServer(sb *swimbench.SwimBench, env string, logger *slog.Logger) *Server {
	if sb == nil {
		panic("swimbench handle is required")
	}

	if logger == nil {
		logger = slog.Default()
	}

	s := &Server{
		sb:     sb,
		router: mux.NewRouter(),
		logger: logger,
		env:    env,
	}

	s.router.HandleFunc("/chat", s.handleChat).Methods(http.MethodPost)
	s.router.HandleFunc("/loadknowledge", s.handleLoadKnowledge).Methods(http.MethodPost)
	s.router.HandleFunc("/health", s.handleHealth).Methods(http.MethodGet)

	s.router.Use(s.recoveryMiddleware, s.loggingMiddleware)

	// The hosted deployment fronts a browser client.
	if env == "production" {
		s.router.Use(corsMiddleware)
	}

	return s
}
