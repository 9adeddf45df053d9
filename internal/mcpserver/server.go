// Package mcpserver exposes the engine as Model Context Protocol tools.
package mcpserver

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/marcelocantos/minibash/internal/builtin"
	"github.com/marcelocantos/minibash/internal/engine"
)

// Server runs lines on behalf of MCP clients. Children write to a capture
// file, the engine's saved stdout and stderr, which is read back after
// each call.
type Server struct {
	eng     *engine.Engine
	capture *os.File

	mu sync.Mutex
}

// New creates a server around eng. capture must be the file the engine's
// job table holds as its stdout.
func New(eng *engine.Engine, capture *os.File) *Server {
	return &Server{eng: eng, capture: capture}
}

// MCPServer builds the protocol server with the minibash tools registered.
func (s *Server) MCPServer(version string) *server.MCPServer {
	srv := server.NewMCPServer("minibash", version, server.WithToolCapabilities(false))

	srv.AddTool(mcp.NewTool("run_line",
		mcp.WithDescription("Run one minibash input line and return its output and status."),
		mcp.WithString("line",
			mcp.Required(),
			mcp.Description("The input line, e.g. \"ls -l | wc -l\""),
		),
		mcp.WithBoolean("script",
			mcp.Description("Run in non-interactive script mode"),
		),
	), s.handleRunLine)

	srv.AddTool(mcp.NewTool("jobs",
		mcp.WithDescription("List the background jobs started by run_line."),
	), s.handleJobs)

	return srv
}

// ServeStdio serves the tools over stdin and stdout until the client
// disconnects.
func (s *Server) ServeStdio(version string) error {
	return server.ServeStdio(s.MCPServer(version))
}

func (s *Server) handleRunLine(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	line, err := req.RequireString("line")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	script := req.GetBool("script", false)

	s.mu.Lock()
	defer s.mu.Unlock()

	start, err := s.capture.Seek(0, io.SeekCurrent)
	if err != nil {
		return nil, fmt.Errorf("capture offset: %w", err)
	}
	out := s.eng.RunLine(ctx, line, script)
	text, err := s.readFrom(start)
	if err != nil {
		return nil, err
	}

	switch out.Kind {
	case engine.Ignored:
		return mcp.NewToolResultText("ignored: empty line"), nil
	case engine.Rejected:
		return mcp.NewToolResultError(text), nil
	default:
		return mcp.NewToolResultText(fmt.Sprintf("%sstatus: %d", text, out.Status)), nil
	}
}

func (s *Server) handleJobs(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var buf bytes.Buffer
	env := &builtin.Env{Stdout: &buf, Stderr: &buf, Jobs: s.eng.Jobs()}
	if err := (&builtin.Jobs{}).Run(ctx, env, nil); err != nil {
		return nil, err
	}
	return mcp.NewToolResultText(buf.String()), nil
}

// readFrom returns everything written to the capture file since offset.
func (s *Server) readFrom(offset int64) (string, error) {
	end, err := s.capture.Seek(0, io.SeekCurrent)
	if err != nil {
		return "", fmt.Errorf("capture offset: %w", err)
	}
	if end <= offset {
		return "", nil
	}
	buf := make([]byte, end-offset)
	if _, err := s.capture.ReadAt(buf, offset); err != nil && err != io.EOF {
		return "", fmt.Errorf("read capture: %w", err)
	}
	return string(buf), nil
}
