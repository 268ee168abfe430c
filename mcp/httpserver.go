package mcp

import (
	"net/http"

	"github.com/foomo/contentserver-booknav/service"
	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"
)

// NewMcpHTTPServer creates a new MCP HTTP server with traditional MCP endpoints
func NewMcpHTTPServer(s *server.MCPServer, endpoint string) *server.StreamableHTTPServer {
	return server.NewStreamableHTTPServer(
		s,
		server.WithEndpointPath(endpoint),
	)
}

// McpHTTPSSEServer combines the MCP HTTP server with the page streams
type McpHTTPSSEServer struct {
	mux *http.ServeMux
}

// NewMcpHTTPSSEServer serves MCP on endpoint and the page streams below it
func NewMcpHTTPSSEServer(logger *zap.Logger, s *server.MCPServer, serviceInstance service.Service, endpoint string, config *SSEServerConfig) *McpHTTPSSEServer {
	mux := http.NewServeMux()
	mux.Handle(endpoint, NewMcpHTTPServer(s, endpoint))

	if serviceInstance != nil {
		sseServer := NewPageSSEServer(logger, serviceInstance, config)
		mux.HandleFunc(endpoint+"/sse/next", sseServer.HandleNextPagesSSE)
		mux.HandleFunc(endpoint+"/sse/page", sseServer.HandleGetPageSSE)
	}

	return &McpHTTPSSEServer{mux: mux}
}

// ServeHTTP implements http.Handler
func (s *McpHTTPSSEServer) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}
