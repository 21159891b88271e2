package application

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/sirupsen/logrus"

	"youtrack-mcp-server/internal/domain"
)

// ServerName identifies the server in the MCP initialize handshake.
const (
	ServerName      = "youtrack-mcp-server"
	ServerVersion   = "1.0.0"
	protocolVersion = "2024-11-05"
)

// Server is the main MCP server implementation.
// It connects the transport layer to the request router and implements the
// protocol methods (initialize, tools/list, tools/call).
type Server struct {
	transport domain.Transport
	router    *RequestRouter
	config    *domain.Config
	log       *logrus.Entry
}

// NewServer creates a new MCP server instance.
func NewServer(transport domain.Transport, router *RequestRouter, config *domain.Config) *Server {
	return &Server{
		transport: transport,
		router:    router,
		config:    config,
		log:       logrus.WithField("component", "server"),
	}
}

// Start begins the server operation: the transport is started and request
// processing runs until the context is cancelled.
func (s *Server) Start(ctx context.Context) error {
	if err := s.transport.Start(ctx); err != nil {
		s.log.WithError(err).WithField("transport", s.config.Transport.Type).Error("failed to start transport")
		return fmt.Errorf("failed to start transport: %w", err)
	}

	s.log.WithField("transport", s.config.Transport.Type).Info("server started")

	go s.processRequests(ctx)
	return nil
}

// processRequests consumes incoming JSON-RPC requests until shutdown.
// Each tool call is dispatched on its own goroutine, so a slow YouTrack
// call never blocks unrelated invocations.
func (s *Server) processRequests(ctx context.Context) {
	reqChan := s.transport.Receive()

	for {
		select {
		case <-ctx.Done():
			s.log.Info("server shutting down")
			return
		case req, ok := <-reqChan:
			if !ok {
				return
			}
			go s.handleRequest(ctx, req)
		}
	}
}

// handleRequest processes a single JSON-RPC request.
func (s *Server) handleRequest(ctx context.Context, req *domain.Request) {
	s.log.WithFields(logrus.Fields{
		"method":     req.Method,
		"request_id": req.ID,
	}).Info("received request")

	if req.JSONRPC != "2.0" || req.Method == "" {
		s.sendErrorResponse(req.ID, domain.InvalidRequest, "Invalid Request", "jsonrpc must be 2.0 and method is required")
		return
	}

	var response *domain.Response
	switch req.Method {
	case "initialize":
		response = s.handleInitialize(req)
	case "tools/list":
		response = s.handleToolsList(req)
	case "tools/call":
		response = s.handleToolsCall(ctx, req)
	default:
		s.sendErrorResponse(req.ID, domain.MethodNotFound, "Method not found", fmt.Sprintf("unknown method: %s", req.Method))
		return
	}

	if response == nil {
		// Error response already sent.
		return
	}

	if err := s.transport.Send(response); err != nil {
		s.log.WithError(err).WithField("request_id", req.ID).Error("failed to send response")
	}
}

// handleInitialize answers the MCP handshake with server capabilities.
func (s *Server) handleInitialize(req *domain.Request) *domain.Response {
	return &domain.Response{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"protocolVersion": protocolVersion,
			"capabilities": map[string]interface{}{
				"tools": map[string]interface{}{},
			},
			"serverInfo": map[string]interface{}{
				"name":    ServerName,
				"version": ServerVersion,
			},
		},
	}
}

// handleToolsList returns all registered tool definitions.
func (s *Server) handleToolsList(req *domain.Request) *domain.Response {
	return &domain.Response{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"tools": s.router.ListAllTools(),
		},
	}
}

// handleToolsCall routes a tool invocation to its handler. API faults are
// already carried inside the tool response as error envelopes; only
// malformed requests produce JSON-RPC errors here.
func (s *Server) handleToolsCall(ctx context.Context, req *domain.Request) *domain.Response {
	toolReq, err := parseToolRequest(req.Params)
	if err != nil {
		s.sendErrorResponse(req.ID, domain.InvalidParams, "Invalid params", err.Error())
		return nil
	}

	toolResp, err := s.router.Route(ctx, toolReq)
	if err != nil {
		s.log.WithError(err).WithFields(logrus.Fields{
			"tool":       toolReq.Name,
			"request_id": req.ID,
		}).Error("tool execution failed")
		s.sendError(req.ID, domain.MapError(err))
		return nil
	}

	return &domain.Response{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result:  toolResp,
	}
}

// parseToolRequest parses the params field into a ToolRequest.
func parseToolRequest(params interface{}) (*domain.ToolRequest, error) {
	if params == nil {
		return nil, fmt.Errorf("params is required for tools/call")
	}

	// Round-trip through JSON to accept both raw maps and typed structs.
	jsonData, err := json.Marshal(params)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal params: %w", err)
	}

	var toolReq domain.ToolRequest
	if err := json.Unmarshal(jsonData, &toolReq); err != nil {
		return nil, fmt.Errorf("failed to unmarshal tool request: %w", err)
	}

	if toolReq.Name == "" {
		return nil, fmt.Errorf("tool name is required")
	}
	if toolReq.Arguments == nil {
		toolReq.Arguments = make(map[string]interface{})
	}

	return &toolReq, nil
}

// sendErrorResponse sends a JSON-RPC error response.
func (s *Server) sendErrorResponse(id interface{}, code int, message string, data interface{}) {
	s.sendError(id, &domain.Error{Code: code, Message: message, Data: data})
}

// sendError sends a prepared JSON-RPC error object.
func (s *Server) sendError(id interface{}, rpcErr *domain.Error) {
	response := &domain.Response{
		JSONRPC: "2.0",
		ID:      id,
		Error:   rpcErr,
	}

	if err := s.transport.Send(response); err != nil {
		s.log.WithError(err).WithFields(logrus.Fields{
			"request_id": id,
			"error_code": rpcErr.Code,
		}).Error("failed to send error response")
	}
}

// Close gracefully shuts down the server.
func (s *Server) Close() error {
	s.log.Info("closing server")
	return s.transport.Close()
}
