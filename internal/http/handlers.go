// Package http wraps the triage engine in an HTTP API.  The engine owns the
// dialog semantics; this layer owns only transport concerns: routing, JSON
// serialisation, status codes, and fire-and-forget persistence.
package http

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"fever-helpline/internal/db"
	"fever-helpline/internal/metrics"
	"fever-helpline/internal/triage"
	"fever-helpline/pkg"
)

// Store is what the handlers need from the persistence collaborator.
type Store interface {
	SaveConversation(ctx context.Context, sessionID string, turns []pkg.ConversationTurn, triageLevel, summary, redFlag string) error
	GetConversation(ctx context.Context, sessionID string) (*pkg.ConversationRecord, error)
}

// Notifier announces escalating sessions to whoever is on call.
type Notifier interface {
	Notify(ctx context.Context, sessionID string) error
}

// sessionEntry pairs a session with the mutex that enforces exclusive
// ownership during a turn.  Independent sessions proceed in parallel.
type sessionEntry struct {
	mu         sync.Mutex
	session    *pkg.Session
	lastActive time.Time
}

// sessionIdleTimeout is how long an untouched session survives in memory.
// Completed or abandoned conversations are swept out on session creation so
// the map cannot grow without bound in a long-running process.
const sessionIdleTimeout = time.Hour

// Server bundles the dependencies required by the HTTP handlers.
type Server struct {
	engine   *triage.Engine
	store    Store
	notifier Notifier
	logger   *slog.Logger

	mu       sync.Mutex
	sessions map[string]*sessionEntry
}

// NewServer constructs a Server.  store and notifier may be nil when the
// service runs without a database; persistence is then skipped.
func NewServer(engine *triage.Engine, store Store, notifier Notifier, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{
		engine:   engine,
		store:    store,
		notifier: notifier,
		logger:   logger,
		sessions: make(map[string]*sessionEntry),
	}
}

// Routes returns the chi router for the API.
func (s *Server) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/", s.handleRoot)
	r.Get("/health", s.handleHealth)
	r.Method(http.MethodGet, "/metrics", metrics.Handler())
	r.Route("/api", func(r chi.Router) {
		r.Post("/sessions", s.handleCreateSession)
		r.Post("/triage", s.handleTriage)
		r.Get("/summary/{sessionID}", s.handleSummary)
	})
	return r
}

func (s *Server) handleRoot(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"message": "Fever Helpline API is running",
		"version": "1.0.0",
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "healthy",
		"service": "fever-helpline",
	})
}

// handleCreateSession starts a new conversation and returns the greeting.
func (s *Server) handleCreateSession(w http.ResponseWriter, _ *http.Request) {
	id := uuid.NewString()
	now := time.Now()
	entry := &sessionEntry{session: triage.NewSession(id, now), lastActive: now}

	s.mu.Lock()
	s.evictIdle(now)
	s.sessions[id] = entry
	s.mu.Unlock()

	writeJSON(w, http.StatusCreated, map[string]string{
		"session_id": id,
		"message":    triage.Greeting,
	})
}

// evictIdle drops sessions that have seen no turn for sessionIdleTimeout.
// The caller must hold s.mu.
func (s *Server) evictIdle(now time.Time) {
	for id, entry := range s.sessions {
		if now.Sub(entry.lastActive) > sessionIdleTimeout {
			delete(s.sessions, id)
		}
	}
}

// handleTriage processes one user turn through the engine.
func (s *Server) handleTriage(w http.ResponseWriter, r *http.Request) {
	var req pkg.TriageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if strings.TrimSpace(req.Message) == "" {
		writeError(w, http.StatusBadRequest, "message must not be empty")
		return
	}

	s.mu.Lock()
	entry, ok := s.sessions[req.SessionID]
	if ok {
		entry.lastActive = time.Now()
	}
	s.mu.Unlock()
	if !ok {
		writeError(w, http.StatusNotFound, "unknown session")
		return
	}

	// Exclusive ownership of the session for the duration of the turn.
	entry.mu.Lock()
	response, complete, verdict := s.engine.ProcessTurn(r.Context(), entry.session, req.Message)
	turns := append([]pkg.ConversationTurn(nil), entry.session.History...)
	entry.mu.Unlock()

	// A turn against an already-terminal conversation changes nothing, and
	// saving it would overwrite the stored verdict with an empty one.
	if verdict != nil || !complete {
		s.persistTurn(req.SessionID, turns, verdict)
	}

	writeJSON(w, http.StatusOK, pkg.TriageResponse{
		SessionID:            req.SessionID,
		Message:              response,
		TriageResult:         verdict,
		ConversationComplete: complete,
	})
}

// persistTurn saves the conversation and announces escalations without
// blocking the response.  Persistence failures are logged, never surfaced.
func (s *Server) persistTurn(sessionID string, turns []pkg.ConversationTurn, verdict *pkg.TriageVerdict) {
	if s.store == nil {
		return
	}
	var level, summary, redFlag string
	escalate := false
	if verdict != nil {
		level = string(verdict.Level)
		summary = verdict.Summary
		redFlag = verdict.RedFlag
		escalate = verdict.Escalate
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := s.store.SaveConversation(ctx, sessionID, turns, level, summary, redFlag); err != nil {
			s.logger.Error("failed to persist conversation", "session_id", sessionID, "error", err)
		}
		if escalate && s.notifier != nil {
			if err := s.notifier.Notify(ctx, sessionID); err != nil {
				s.logger.Error("failed to notify escalation", "session_id", sessionID, "error", err)
			}
		}
	}()
}

// handleSummary returns the persisted summary for a session.
func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		writeError(w, http.StatusServiceUnavailable, "persistence is not configured")
		return
	}
	sessionID := chi.URLParam(r, "sessionID")
	record, err := s.store.GetConversation(r.Context(), sessionID)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			writeError(w, http.StatusNotFound, "conversation not found")
			return
		}
		s.logger.Error("failed to load conversation", "session_id", sessionID, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to load conversation")
		return
	}

	level := pkg.TriageLevel(record.TriageLevel)
	if !pkg.ValidLevel(level) {
		level = pkg.LevelFollowUp
	}
	summary := record.Summary
	if summary == "" {
		summary = "Fever-related symptoms discussed"
	}
	writeJSON(w, http.StatusOK, pkg.SummaryResponse{
		SessionID:   sessionID,
		Summary:     summary,
		TriageLevel: level,
		RecommendedNextSteps: []string{
			"Monitor your symptoms",
			"Stay hydrated",
			"Get plenty of rest",
			"Consult a healthcare provider if symptoms persist",
		},
		ConversationCount: len(record.Turns),
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
