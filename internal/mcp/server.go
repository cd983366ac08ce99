package mcp

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/rs/zerolog"

	"github.com/jojohnathon/canvas-mcp/internal/prompts"
	"github.com/jojohnathon/canvas-mcp/internal/tools"
)

// maxLineBytes bounds a single inbound request line.
const maxLineBytes = 4 * 1024 * 1024

// Server reads newline-delimited JSON-RPC requests from in and writes
// responses to out. Requests are processed strictly one at a time: a tool
// invocation runs to completion before the next request is read.
type Server struct {
	registry *tools.Registry
	name     string
	version  string
	logger   zerolog.Logger

	writeMu sync.Mutex
}

// NewServer constructs the stdio server around a tool registry.
func NewServer(registry *tools.Registry, name, version string, logger zerolog.Logger) *Server {
	return &Server{
		registry: registry,
		name:     name,
		version:  version,
		logger:   logger.With().Str("component", "mcp_server").Logger(),
	}
}

// Serve runs the read-dispatch-write loop until in is exhausted or ctx is
// cancelled.
func (s *Server) Serve(ctx context.Context, in io.Reader, out io.Writer) error {
	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 64*1024), maxLineBytes)

	for scanner.Scan() {
		if ctx.Err() != nil {
			return ctx.Err()
		}

		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}

		var req request
		if err := json.Unmarshal(line, &req); err != nil {
			s.writeResponse(out, response{
				JSONRPC: "2.0",
				ID:      json.RawMessage("null"),
				Error:   &responseError{Code: codeParseError, Message: fmt.Sprintf("parse request: %v", err)},
			})
			continue
		}

		resp, reply := s.dispatch(ctx, req)
		if reply {
			s.writeResponse(out, resp)
		}
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("read request stream: %w", err)
	}
	return nil
}

// dispatch routes one request. The second return value is false for
// notifications, which expect no response.
func (s *Server) dispatch(ctx context.Context, req request) (response, bool) {
	if req.notification() {
		s.logger.Debug().Str("method", req.Method).Msg("notification received")
		return response{}, false
	}

	resp := response{JSONRPC: "2.0", ID: req.ID}

	switch req.Method {
	case "initialize":
		resp.Result = map[string]interface{}{
			"protocolVersion": protocolVersion,
			"capabilities": map[string]interface{}{
				"tools":   map[string]interface{}{},
				"prompts": map[string]interface{}{},
			},
			"serverInfo": map[string]interface{}{
				"name":    s.name,
				"version": s.version,
			},
		}
	case "ping":
		resp.Result = map[string]interface{}{}
	case "tools/list":
		resp.Result = s.listTools()
	case "tools/call":
		resp = s.callTool(ctx, req)
	case "prompts/list":
		resp.Result = map[string]interface{}{"prompts": prompts.Catalog()}
	case "prompts/get":
		resp = s.getPrompt(req)
	default:
		resp.Error = &responseError{
			Code:    codeMethodNotFound,
			Message: fmt.Sprintf("method not found: %s", req.Method),
		}
	}

	return resp, true
}

func (s *Server) listTools() map[string]interface{} {
	catalog := s.registry.List()
	descriptors := make([]toolDescriptor, 0, len(catalog))
	for _, tool := range catalog {
		descriptors = append(descriptors, toolDescriptor{
			Name:        tool.Name,
			Description: tool.Description,
			InputSchema: tool.InputSchema,
		})
	}
	return map[string]interface{}{"tools": descriptors}
}

// callTool is the single point where handler failures become the uniform
// error envelope. The original failure text is always preserved.
func (s *Server) callTool(ctx context.Context, req request) response {
	resp := response{JSONRPC: "2.0", ID: req.ID}

	var params callParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		resp.Error = &responseError{Code: codeInvalidParams, Message: fmt.Sprintf("parse tool call params: %v", err)}
		return resp
	}

	result, err := s.registry.Call(ctx, params.Name, params.Arguments)
	if err != nil {
		resp.Error = &responseError{Code: errorCode(err), Message: err.Error()}
		return resp
	}

	resp.Result = callResult{Content: []textContent{{Type: "text", Text: result}}}
	return resp
}

func (s *Server) getPrompt(req request) response {
	resp := response{JSONRPC: "2.0", ID: req.ID}

	var params promptParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		resp.Error = &responseError{Code: codeInvalidParams, Message: fmt.Sprintf("parse prompt params: %v", err)}
		return resp
	}

	prompt, err := prompts.Get(params.Name)
	if err != nil {
		resp.Error = &responseError{Code: codeInvalidParams, Message: err.Error()}
		return resp
	}

	resp.Result = promptResult{
		Description: prompt.Description,
		Messages: []promptMessage{
			{Role: "user", Content: textContent{Type: "text", Text: prompt.Render(params.Arguments)}},
		},
	}
	return resp
}

// errorCode maps dispatcher-level failures (unknown tool, invalid arguments)
// to the invalid-params code and everything else to internal-error.
func errorCode(err error) int {
	var validationErr *tools.ValidationError
	if errors.Is(err, tools.ErrUnknownTool) || errors.As(err, &validationErr) {
		return codeInvalidParams
	}
	return codeInternalError
}

func (s *Server) writeResponse(out io.Writer, resp response) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	encoded, err := json.Marshal(resp)
	if err != nil {
		s.logger.Error().Err(err).Msg("encode response failed")
		return
	}
	if _, err := out.Write(append(encoded, '\n')); err != nil {
		s.logger.Error().Err(err).Msg("write response failed")
	}
}
