// Package handler exposes the chat service over HTTP.
package handler

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/google/uuid"
)

// ChatService answers a single chat message. The reply is always a plain
// string; transport-level failure signaling is deliberately absent.
type ChatService interface {
	Chat(ctx context.Context, message string) string
}

type chatRequest struct {
	Message string `json:"message"`
}

type chatResponse struct {
	Reply string `json:"reply"`
}

type statusResponse struct {
	Status string `json:"status"`
}

type errorResponse struct {
	Detail string `json:"detail"`
}

// Server routes chat, liveness, and static image requests.
type Server struct {
	service   ChatService
	imagesDir string
	router    chi.Router
}

// New creates a Server serving static files from imagesDir.
func New(service ChatService, imagesDir string) (*Server, error) {
	if service == nil {
		return nil, errors.New("handler: chat service must not be nil")
	}
	s := &Server{service: service, imagesDir: imagesDir}
	s.setupRoutes()
	return s, nil
}

func (s *Server) setupRoutes() {
	r := chi.NewRouter()

	r.Use(middleware.Recoverer)
	r.Use(requestLogger)
	// Provider calls dominate latency; cap the whole request well above it.
	r.Use(middleware.Timeout(2 * time.Minute))

	// All origins, methods, and headers: the widget embeds anywhere.
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "HEAD", "OPTIONS"},
		AllowedHeaders: []string{"*"},
		MaxAge:         300,
	}))

	r.Post("/chat", s.handleChat)
	r.Get("/", s.handleRoot)
	r.Head("/", s.handleLiveness)
	r.Handle("/images/*", http.StripPrefix("/images/", http.FileServer(http.Dir(s.imagesDir))))

	s.router = r
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// handleChat always answers 200 with a reply string for well-formed
// bodies; only an undecodable body gets the 422 validation response.
func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusUnprocessableEntity, errorResponse{Detail: "invalid request body"})
		return
	}

	reply := s.service.Chat(r.Context(), req.Message)
	writeJSON(w, http.StatusOK, chatResponse{Reply: reply})
}

func (s *Server) handleRoot(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, statusResponse{Status: "Chatbot server is running"})
}

func (s *Server) handleLiveness(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("writing response failed", "err", err)
	}
}

// requestLogger tags each request with a UUID and logs method, path, and
// duration on completion.
func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		requestID := uuid.NewString()
		next.ServeHTTP(w, r)
		slog.Info("request handled",
			"request_id", requestID,
			"method", r.Method,
			"path", r.URL.Path,
			"duration", time.Since(start),
		)
	})
}
