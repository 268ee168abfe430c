package mcp

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap/zaptest"
)

func events(body string) []string {
	var names []string
	for _, line := range strings.Split(body, "\n") {
		if name, ok := strings.CutPrefix(line, "event: "); ok {
			names = append(names, name)
		}
	}
	return names
}

func TestHandleNextPagesSSE(t *testing.T) {
	s := NewPageSSEServer(zaptest.NewLogger(t), newFakeService(), nil)

	rec := httptest.NewRecorder()
	s.HandleNextPagesSSE(rec, httptest.NewRequest(http.MethodGet, "/mcp/sse/next?after=p1&count=5", nil))

	assert.Equal(t, "text/event-stream", rec.Header().Get("Content-Type"))
	assert.Equal(t, []string{"scroll_start", "page", "page", "end"}, events(rec.Body.String()))
	assert.Contains(t, rec.Body.String(), `# p3`)

	rec = httptest.NewRecorder()
	s.HandleNextPagesSSE(rec, httptest.NewRequest(http.MethodGet, "/mcp/sse/next?after=p1", nil))
	assert.Equal(t, []string{"scroll_start", "page", "scroll_complete"}, events(rec.Body.String()))
}

func TestHandleNextPagesSSEMaxPages(t *testing.T) {
	svc := &fakeService{order: []string{"a", "b", "c", "d", "e"}}
	s := NewPageSSEServer(nil, svc, &SSEServerConfig{MaxPages: 2})

	rec := httptest.NewRecorder()
	s.HandleNextPagesSSE(rec, httptest.NewRequest(http.MethodGet, "/?after=a&count=4", nil))
	assert.Equal(t, []string{"scroll_start", "page", "page", "scroll_complete"}, events(rec.Body.String()))
}

func TestHandleNextPagesSSEValidation(t *testing.T) {
	s := NewPageSSEServer(nil, newFakeService(), nil)

	for _, target := range []string{"/", "/?after=p1&count=0", "/?after=p1&count=many"} {
		rec := httptest.NewRecorder()
		s.HandleNextPagesSSE(rec, httptest.NewRequest(http.MethodGet, target, nil))
		assert.Equal(t, http.StatusBadRequest, rec.Code, target)
	}
}

func TestHandleGetPageSSE(t *testing.T) {
	s := NewPageSSEServer(nil, newFakeService(), nil)

	rec := httptest.NewRecorder()
	s.HandleGetPageSSE(rec, httptest.NewRequest(http.MethodGet, "/?id=p2", nil))
	assert.Equal(t, []string{"page_start", "page", "page_complete"}, events(rec.Body.String()))

	rec = httptest.NewRecorder()
	s.HandleGetPageSSE(rec, httptest.NewRequest(http.MethodGet, "/?id=missing", nil))
	assert.Equal(t, []string{"page_start", "page_error"}, events(rec.Body.String()))
	assert.Contains(t, rec.Body.String(), "not_found")
}

func TestMcpHTTPSSEServerRoutes(t *testing.T) {
	handler := NewMcpHTTPSSEServer(nil, NewServer(nil, newFakeService()), newFakeService(), "/mcp", nil)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/mcp/sse/page?id=p1", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, events(rec.Body.String()), "page")

	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/elsewhere", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
