package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/foomo/contentserver-booknav/service"
	"github.com/foomo/contentserver-booknav/service/vo"
	"go.uber.org/zap"
)

// SSEEvent represents an SSE event structure
type SSEEvent struct {
	ID        string      `json:"id"`
	Event     string      `json:"event"`
	Data      interface{} `json:"data"`
	Timestamp time.Time   `json:"timestamp"`
}

// SSEServerConfig holds configuration for the SSE server
type SSEServerConfig struct {
	// MaxPages caps how many pages one infinite scroll request streams.
	MaxPages int
}

// DefaultSSEServerConfig returns the default configuration for SSE server
func DefaultSSEServerConfig() *SSEServerConfig {
	return &SSEServerConfig{
		MaxPages: 10,
	}
}

// PageSSEServer streams rendered pages to readers scrolling through the book
type PageSSEServer struct {
	logger  *zap.Logger
	service service.Service
	config  *SSEServerConfig
}

func NewPageSSEServer(logger *zap.Logger, serviceInstance service.Service, config *SSEServerConfig) *PageSSEServer {
	if config == nil {
		config = DefaultSSEServerConfig()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PageSSEServer{
		logger:  logger,
		service: serviceInstance,
		config:  config,
	}
}

type eventStream struct {
	w       http.ResponseWriter
	flusher http.Flusher
}

func openEventStream(w http.ResponseWriter) (*eventStream, bool) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming unsupported", http.StatusInternalServerError)
		return nil, false
	}
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("Access-Control-Allow-Origin", "*")
	return &eventStream{w: w, flusher: flusher}, true
}

func (es *eventStream) send(event string, data interface{}) error {
	now := time.Now()
	e := SSEEvent{
		ID:        fmt.Sprintf("%s_%d", event, now.UnixNano()),
		Event:     event,
		Data:      data,
		Timestamp: now,
	}
	eventJSON, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}
	if _, err := fmt.Fprintf(es.w, "id: %s\nevent: %s\ndata: %s\n\n", e.ID, e.Event, string(eventJSON)); err != nil {
		return err
	}
	es.flusher.Flush()
	return nil
}

// HandleNextPagesSSE streams the pages following ?after=<id>, up to ?count
// of them, each rendered to markdown. An "end" event marks the end of the
// book.
func (s *PageSSEServer) HandleNextPagesSSE(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	after := query.Get("after")
	if after == "" {
		http.Error(w, "after is required", http.StatusBadRequest)
		return
	}
	count := 1
	if v := query.Get("count"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			http.Error(w, "count must be a positive number", http.StatusBadRequest)
			return
		}
		count = n
	}
	if count > s.config.MaxPages {
		count = s.config.MaxPages
	}
	frontPage := query.Get("frontPage") == "true"

	es, ok := openEventStream(w)
	if !ok {
		return
	}
	if err := s.streamNextPages(r.Context(), es, after, count, frontPage); err != nil {
		s.logger.Warn("next pages stream aborted", zap.String("after", after), zap.Error(err))
	}
}

func (s *PageSSEServer) streamNextPages(ctx context.Context, es *eventStream, after string, count int, frontPage bool) error {
	if err := es.send("scroll_start", map[string]interface{}{"after": after, "count": count}); err != nil {
		return err
	}
	current := after
	for i := 0; i < count; i++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		next, err := s.service.Navigate(ctx, current, service.NavigateOptions{
			Direction: vo.DirectionNext,
			FrontPage: frontPage && i == 0,
		})
		if err != nil {
			_ = es.send("scroll_error", map[string]string{"error": err.Error()})
			return err
		}
		if next == nil {
			return es.send("end", map[string]string{"last": current})
		}
		page, err := s.service.GetPage(ctx, next.ID, service.PageOptions{Render: true})
		if err != nil {
			_ = es.send("scroll_error", map[string]string{"error": err.Error()})
			return err
		}
		if err := es.send("page", page); err != nil {
			return err
		}
		current = next.ID
	}
	return es.send("scroll_complete", map[string]string{"last": current})
}

// HandleGetPageSSE streams a single page, ?id=<id>
func (s *PageSSEServer) HandleGetPageSSE(w http.ResponseWriter, r *http.Request) {
	id := r.URL.Query().Get("id")
	if id == "" {
		http.Error(w, "id is required", http.StatusBadRequest)
		return
	}

	es, ok := openEventStream(w)
	if !ok {
		return
	}
	if err := es.send("page_start", map[string]string{"id": id}); err != nil {
		return
	}

	page, err := s.service.GetPage(r.Context(), id, service.PageOptions{Render: true})
	if err != nil {
		status := "error"
		if errors.Is(err, service.ErrNotFound) {
			status = "not_found"
		}
		_ = es.send("page_error", map[string]string{"error": err.Error(), "status": status})
		return
	}
	if err := es.send("page", page); err != nil {
		s.logger.Warn("failed to send page", zap.String("id", id), zap.Error(err))
		return
	}
	_ = es.send("page_complete", map[string]string{"status": "completed"})
}
