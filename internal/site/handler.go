package site

import (
	"log/slog"
	"net/http"
	"sync/atomic"

	"github.com/vango-dev/portfolio/internal/visitor"
)

// Handler serves the page and the intro endpoint.
type Handler struct {
	renderer   atomic.Pointer[Renderer]
	logger     *slog.Logger
	trustProxy bool
}

// NewHandler creates a Handler. With trustProxy the intro cookie is marked
// Secure when X-Forwarded-Proto is https.
func NewHandler(r *Renderer, logger *slog.Logger, trustProxy bool) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	h := &Handler{logger: logger, trustProxy: trustProxy}
	h.renderer.Store(r)
	return h
}

// SetRenderer swaps the renderer, e.g. after the content file changed.
func (h *Handler) SetRenderer(r *Renderer) {
	h.renderer.Store(r)
}

// Renderer returns the current renderer.
func (h *Handler) Renderer() *Renderer {
	return h.renderer.Load()
}

// Page renders GET /. The visitor comes from visitor.Middleware.
func (h *Handler) Page(w http.ResponseWriter, r *http.Request) {
	v := visitor.FromContext(r.Context())
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Add("Vary", "Cookie")
	w.Header().Add("Vary", "User-Agent")
	if err := h.renderer.Load().Render(w, v); err != nil {
		h.logger.Error("render page", "error", err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
	}
}

// Intro handles POST /api/intro by remembering the intro for the session.
func (h *Handler) Intro(w http.ResponseWriter, r *http.Request) {
	secure := r.TLS != nil || (h.trustProxy && r.Header.Get("X-Forwarded-Proto") == "https")
	visitor.MarkIntroPlayed(w, secure)
	w.WriteHeader(http.StatusNoContent)
}
