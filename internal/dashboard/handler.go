package dashboard

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"
	"sync"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/CharlesIC/fourth-wall/internal/metrics"
	"github.com/CharlesIC/fourth-wall/internal/pulls"
	"github.com/CharlesIC/fourth-wall/internal/service"
)

// StateSource provides the current dashboard state.
type StateSource interface {
	Snapshot() service.Snapshot
}

// PolicySource provides the importance and WIP rules.
type PolicySource interface {
	Policy() pulls.Policy
}

// RefreshTrigger starts an out-of-band refresh.
type RefreshTrigger interface {
	Trigger() error
}

// ChangeSource publishes state changes to subscribers.
type ChangeSource interface {
	Subscribe(buffer int) (<-chan service.Change, func())
}

// eventBuffer is the per-stream change buffer; a stream that falls further behind
// misses changes until it catches up.
const eventBuffer = 8

// Handler handles HTTP requests for the dashboard.
type Handler struct {
	renderer       Renderer
	logger         *zap.Logger
	state          StateSource
	policy         PolicySource
	refresher      RefreshTrigger
	changes        ChangeSource
	refreshSeconds int

	closing   chan struct{}
	closeOnce sync.Once
}

// HandlerConfig holds configuration for creating a new Handler.
type HandlerConfig struct {
	Renderer  Renderer
	Logger    *zap.Logger
	State     StateSource
	Policy    PolicySource
	Refresher RefreshTrigger
	// Changes feeds /api/events; nil disables the stream.
	Changes ChangeSource
	// RefreshSeconds is how often the page reloads itself; 0 disables reloading.
	RefreshSeconds int
}

// NewHandler creates a new Handler with injected dependencies.
func NewHandler(cfg HandlerConfig) *Handler {
	return &Handler{
		renderer:       cfg.Renderer,
		logger:         cfg.Logger.Named("dashboard"),
		state:          cfg.State,
		policy:         cfg.Policy,
		refresher:      cfg.Refresher,
		changes:        cfg.Changes,
		refreshSeconds: cfg.RefreshSeconds,
		closing:        make(chan struct{}),
	}
}

// Close ends open event streams so the server can shut down.
func (h *Handler) Close() {
	h.closeOnce.Do(func() { close(h.closing) })
}

// Router builds the chi router with all dashboard routes and /metrics.
func (h *Handler) Router() chi.Router {
	r := chi.NewRouter()
	h.RegisterRoutes(r)
	metrics.Register(r)
	return r
}

// RegisterRoutes registers all HTTP routes.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.handleList)
	r.Route("/api", func(api chi.Router) {
		api.Get("/health", h.handleHealth)
		api.Get("/items", h.handleItems)
		api.Get("/repos", h.handleRepos)
		api.Post("/refresh", h.handleRefresh)
		api.Get("/events", h.handleEvents)
	})
}

// handleHealth serves the health check endpoint.
func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	if err := h.renderer.RenderHealth(w); err != nil {
		h.logger.Error("failed to render health", zap.Error(err))
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
	}
}

// handleList serves the wall.
func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	snap := h.state.Snapshot()
	page := Page{
		Items:          snap.Items,
		Stylesheet:     snap.Stylesheet,
		Policy:         h.policy.Policy(),
		RefreshSeconds: h.refreshSeconds,
	}

	var buf bytes.Buffer
	if err := h.renderer.RenderList(&buf, page); err != nil {
		h.logger.Error("failed to render list", zap.Error(err))
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(buf.Bytes())
}

type itemsResponse struct {
	Items    any    `json:"items"`
	StatusAt string `json:"statusAt,omitempty"`
	Cycle    string `json:"cycle,omitempty"`
}

// handleItems returns the ordered list items as JSON.
func (h *Handler) handleItems(w http.ResponseWriter, r *http.Request) {
	snap := h.state.Snapshot()
	resp := itemsResponse{Items: snap.Items, Cycle: snap.Cycle}
	if snap.Items == nil {
		resp.Items = []any{}
	}
	if !snap.StatusAt.IsZero() {
		resp.StatusAt = snap.StatusAt.UTC().Format("2006-01-02T15:04:05Z")
	}
	h.writeJSON(w, resp)
}

// handleRepos returns the merged repository set as JSON.
func (h *Handler) handleRepos(w http.ResponseWriter, r *http.Request) {
	snap := h.state.Snapshot()
	if snap.Repos == nil {
		h.writeJSON(w, []any{})
		return
	}
	h.writeJSON(w, snap.Repos)
}

// handleRefresh starts a refresh of repositories and status in the background.
func (h *Handler) handleRefresh(w http.ResponseWriter, r *http.Request) {
	err := h.refresher.Trigger()
	switch {
	case err == nil:
		w.WriteHeader(http.StatusAccepted)
	case errors.Is(err, service.ErrRefreshBusy):
		http.Error(w, "refresh already running", http.StatusConflict)
	default:
		http.Error(w, "refresh unavailable", http.StatusServiceUnavailable)
	}
}

type changeEvent struct {
	Fields []service.Field `json:"fields"`
	Cycle  string          `json:"cycle,omitempty"`
}

// handleEvents streams state changes as server-sent events until the client goes away.
func (h *Handler) handleEvents(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok || h.changes == nil {
		http.Error(w, "event stream unavailable", http.StatusNotImplemented)
		return
	}

	changes, cancel := h.changes.Subscribe(eventBuffer)
	defer cancel()

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			return
		case <-h.closing:
			return
		case change, ok := <-changes:
			if !ok {
				return
			}
			var buf bytes.Buffer
			if err := h.renderer.RenderJSON(&buf, changeEvent{Fields: change.Fields, Cycle: change.Snapshot.Cycle}); err != nil {
				h.logger.Error("failed to encode change", zap.Error(err))
				return
			}
			if _, err := fmt.Fprintf(w, "event: change\ndata: %s\n\n", bytes.TrimSpace(buf.Bytes())); err != nil {
				return
			}
			flusher.Flush()
		}
	}
}

func (h *Handler) writeJSON(w http.ResponseWriter, v any) {
	var buf bytes.Buffer
	if err := h.renderer.RenderJSON(&buf, v); err != nil {
		h.logger.Error("failed to encode response", zap.Error(err))
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-cache")
	_, _ = w.Write(buf.Bytes())
}
