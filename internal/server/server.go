package server

import (
	"context"
	"encoding/json"
	"net/http"
	"runtime"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/aliyabuddy/aliyabuddy/internal/chat"
)

// SessionHeader carries the conversation id on requests and responses.
const SessionHeader = "X-Session-ID"

// maxBodyBytes caps the /chat request body.
const maxBodyBytes = 64 << 10

// Pipeline is the part of chat.Pipeline the HTTP layer needs.
type Pipeline interface {
	Handle(ctx context.Context, session, message string) (chat.Result, error)
}

// Info is reported by /health.
type Info struct {
	Version  string
	Provider string
	HasKey   bool
}

type Server struct {
	pipeline Pipeline
	info     Info
	logger   *zap.Logger
}

func New(p Pipeline, info Info, logger *zap.Logger) *Server {
	return &Server{pipeline: p, info: info, logger: logger.Named("http")}
}

type chatRequest struct {
	Message   string `json:"message"`
	SessionID string `json:"session_id"`
}

type chatResponse struct {
	Reply     string `json:"reply"`
	SessionID string `json:"session_id"`
}

type errorResponse struct {
	Error string `json:"error"`
}

type healthResponse struct {
	Version  string `json:"version"`
	OK       bool   `json:"ok"`
	Go       string `json:"go"`
	HasKey   bool   `json:"hasKey"`
	Provider string `json:"provider"`
}

// Routes returns the router with CORS applied to every response.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.requestLogger)
	r.Use(middleware.Recoverer)
	r.Use(cors)

	r.Get("/health", s.handleHealth)
	r.Post("/chat", s.handleChat)

	r.NotFound(methodNotAllowed)
	r.MethodNotAllowed(methodNotAllowed)
	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, healthResponse{
		Version:  s.info.Version,
		OK:       true,
		Go:       runtime.Version(),
		HasKey:   s.info.HasKey,
		Provider: s.info.Provider,
	})
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	// A missing or malformed body is an empty message, not an error.
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		s.logger.Debug("chat body not decoded", zap.Error(err))
	}

	session := sessionID(req.SessionID, r)
	w.Header().Set(SessionHeader, session)

	res, err := s.pipeline.Handle(r.Context(), session, req.Message)
	if err != nil {
		kind, status, msg := chat.Classify(err)
		s.logger.Error("chat failed",
			zap.String("kind", string(kind)),
			zap.Int("status", status),
			zap.String("request_id", middleware.GetReqID(r.Context())),
			zap.Error(err))
		writeJSON(w, status, errorResponse{Error: msg})
		return
	}

	writeJSON(w, http.StatusOK, chatResponse{Reply: res.Reply, SessionID: session})
}

// sessionID prefers the body, then the header, and mints a new id otherwise.
func sessionID(fromBody string, r *http.Request) string {
	if id := strings.TrimSpace(fromBody); id != "" {
		return id
	}
	if id := strings.TrimSpace(r.Header.Get(SessionHeader)); id != "" {
		return id
	}
	return uuid.NewString()
}

func methodNotAllowed(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusMethodNotAllowed, errorResponse{Error: "Method not allowed"})
}

func cors(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()
		h.Set("Access-Control-Allow-Origin", "*")
		h.Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		h.Set("Access-Control-Allow-Headers", "Content-Type, Authorization, "+SessionHeader)
		h.Set("Access-Control-Expose-Headers", SessionHeader)
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		defer func() {
			s.logger.Info("request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
				zap.Int("bytes", ww.BytesWritten()),
				zap.Duration("elapsed", time.Since(start)),
				zap.String("remote", r.RemoteAddr),
				zap.String("request_id", middleware.GetReqID(r.Context())))
		}()
		next.ServeHTTP(ww, r)
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
