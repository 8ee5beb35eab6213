// Package server exposes the assistant over HTTP: ingestion and query
// endpoints plus a WebSocket chat that keeps a bounded per-connection
// conversation.
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/google/uuid"

	"docchat/internal/catalog"
	"docchat/internal/document"
	"docchat/internal/engine"
)

// Config holds server configuration.
type Config struct {
	Port         int
	AllowAll     bool // allow all CORS origins (dev mode)
	HistoryTurns int  // per-chat-session history bound
}

// Server is the docchat HTTP server.
type Server struct {
	cfg        Config
	engine     *engine.Engine
	catalog    *catalog.Catalog
	router     chi.Router
	httpServer *http.Server
}

// New creates a server. catalog may be nil; document listings then come
// from the in-memory engine only.
func New(cfg Config, eng *engine.Engine, cat *catalog.Catalog) *Server {
	s := &Server{cfg: cfg, engine: eng, catalog: cat}
	s.router = s.buildRouter()
	return s
}

func (s *Server) buildRouter() chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(120 * time.Second))

	corsOpts := cors.Options{
		AllowedOrigins:   []string{"http://localhost:*", "http://127.0.0.1:*"},
		AllowedMethods:   []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}
	if s.cfg.AllowAll {
		corsOpts.AllowedOrigins = []string{"*"}
	}
	r.Use(cors.Handler(corsOpts))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	})

	r.Route("/api", func(r chi.Router) {
		r.Post("/ingest", s.handleIngest)
		r.Post("/query", s.handleQuery)
		r.Post("/ask", s.handleAsk)
		r.Get("/stats", s.handleStats)
		r.Get("/documents", s.handleDocuments)
	})

	r.Get("/ws", s.handleWebSocket)

	return r
}

// Router returns the chi router, for tests and route registration.
func (s *Server) Router() chi.Router { return s.router }

// Start begins listening on the configured port.
func (s *Server) Start() error {
	addr := fmt.Sprintf(":%d", s.cfg.Port)
	s.httpServer = &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      120 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	log.Printf("docchat server listening on %s", addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpServer != nil {
		return s.httpServer.Shutdown(ctx)
	}
	return nil
}

type ingestRequest struct {
	Path  string `json:"path"`
	ID    string `json:"id,omitempty"`
	Title string `json:"title,omitempty"`
}

func (s *Server) handleIngest(w http.ResponseWriter, r *http.Request) {
	var req ingestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Path == "" {
		writeError(w, http.StatusBadRequest, "path is required")
		return
	}
	if req.ID == "" {
		req.ID = uuid.NewString()
	}

	res, err := s.engine.Ingest(r.Context(), req.Path, req.ID, req.Title)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	if s.catalog != nil {
		if err := s.catalog.Save(req.ID, res); err != nil {
			log.Printf("cataloging %s: %v", req.ID, err)
		}
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"id":             req.ID,
		"title":          res.Doc.Title,
		"pages":          len(res.Doc.Pages),
		"chunks_indexed": res.ChunksIndexed,
		"ocr_pages":      res.OCRPages,
		"warnings":       res.Warnings,
	})
}

// selectionPayload describes an optional user selection on a query. Text
// selections carry the selected text; area selections carry a rectangle.
type selectionPayload struct {
	Text string         `json:"text,omitempty"`
	Page int            `json:"page"`
	Kind string         `json:"kind,omitempty"`
	Rect *document.Rect `json:"rect,omitempty"`
}

func (p *selectionPayload) toSelection() document.Selection {
	if p == nil {
		return nil
	}
	if p.Text != "" {
		sel := document.TextSelection{Text: p.Text, Page: p.Page}
		if p.Rect != nil {
			sel.Rect = *p.Rect
		}
		return sel
	}
	if p.Rect != nil {
		return document.AreaSelection{Page: p.Page, Rect: *p.Rect, Kind: document.ImageKind(p.Kind)}
	}
	return nil
}

type queryRequest struct {
	DocumentID string            `json:"document_id"`
	Question   string            `json:"question"`
	Selection  *selectionPayload `json:"selection,omitempty"`
}

func (s *Server) handleQuery(w http.ResponseWriter, r *http.Request) {
	var req queryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.DocumentID == "" || req.Question == "" {
		writeError(w, http.StatusBadRequest, "document_id and question are required")
		return
	}

	groundingText, res := s.engine.GroundingContext(r.Context(), req.DocumentID, req.Question, req.Selection.toSelection(), nil)
	writeJSON(w, http.StatusOK, map[string]any{
		"grounding": groundingText,
		"excerpts":  res.Excerpts,
		"fallback":  res.Fallback,
	})
}

func (s *Server) handleAsk(w http.ResponseWriter, r *http.Request) {
	var req queryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.DocumentID == "" || req.Question == "" {
		writeError(w, http.StatusBadRequest, "document_id and question are required")
		return
	}

	rec, err := s.engine.Answer(r.Context(), req.DocumentID, req.Question, req.Selection.toSelection(), nil)
	if err != nil {
		writeError(w, http.StatusBadGateway, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.engine.IndexStats())
}

func (s *Server) handleDocuments(w http.ResponseWriter, r *http.Request) {
	if s.catalog != nil {
		entries, err := s.catalog.List()
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		if entries == nil {
			entries = []*catalog.Entry{}
		}
		writeJSON(w, http.StatusOK, entries)
		return
	}

	type docSummary struct {
		ID    string `json:"id"`
		Title string `json:"title"`
		Pages int    `json:"pages"`
	}
	out := []docSummary{}
	for _, d := range s.engine.Documents() {
		out = append(out, docSummary{ID: d.ID, Title: d.Title, Pages: len(d.Pages)})
	}
	writeJSON(w, http.StatusOK, out)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("encoding response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
