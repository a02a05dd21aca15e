// Package mcpserver provides an MCP (Model Context Protocol) server
// that exposes the notebook to LLM clients over stdio.
package mcpserver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/starford/notebook/internal/apperr"
	"github.com/starford/notebook/internal/noteservice"
)

const searchRulesURI = "notebook://search-rules"

// Server wraps the MCP server with notebook tools.
type Server struct {
	mcp *server.MCPServer
	svc *noteservice.Service
}

// New creates a new MCP server with all notebook tools registered.
func New(svc *noteservice.Service, version string) *Server {
	s := &Server{svc: svc}

	s.mcp = server.NewMCPServer(
		"Notebook",
		version,
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
	)

	s.mcp.AddTool(mcp.NewTool("list_notes",
		mcp.WithDescription("List the names of all notes in insertion order."),
	), s.listNotes)

	s.mcp.AddTool(mcp.NewTool("read_note",
		mcp.WithDescription("Read the contents of a note."),
		mcp.WithString("name", mcp.Required(), mcp.Description("Name of the note")),
	), s.readNote)

	s.mcp.AddTool(mcp.NewTool("add_note",
		mcp.WithDescription("Add a note. A note with the same name is replaced."),
		mcp.WithString("name", mcp.Required(), mcp.Description("Name of the note")),
		mcp.WithString("contents", mcp.Required(), mcp.Description("Text of the note")),
	), s.addNote)

	s.mcp.AddTool(mcp.NewTool("update_note",
		mcp.WithDescription("Replace the contents of an existing note."),
		mcp.WithString("name", mcp.Required(), mcp.Description("Name of an existing note")),
		mcp.WithString("contents", mcp.Required(), mcp.Description("New text of the note")),
	), s.updateNote)

	s.mcp.AddTool(mcp.NewTool("find_notes",
		mcp.WithDescription("Find notes containing a word. Matching is whole-word against lowercased "+
			"contents; pass the term in lowercase. See the "+searchRulesURI+" resource."),
		mcp.WithString("term", mcp.Required(), mcp.Description("Lowercase word to search for")),
	), s.findNotes)

	s.mcp.AddTool(mcp.NewTool("clear_notes",
		mcp.WithDescription("Delete every note. This cannot be undone."),
	), s.clearNotes)

	s.mcp.AddResource(
		mcp.NewResource(searchRulesURI, "Search Rules",
			mcp.WithResourceDescription("How find_notes tokenizes and matches note contents."),
			mcp.WithMIMEType("text/markdown"),
		),
		s.readSearchRules,
	)

	return s
}

// ServeStdio starts the MCP server on stdin/stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcp)
}

func (s *Server) listNotes(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return jsonResult(s.svc.ListNotes(ctx))
}

func (s *Server) readNote(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name, err := req.RequireString("name")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	note, err := s.svc.GetNote(ctx, name)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("not found: %s", name)), nil
	}
	return mcp.NewToolResultText(note.Contents), nil
}

func (s *Server) addNote(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name, err := req.RequireString("name")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	contents, err := req.RequireString("contents")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if _, err := s.svc.AddNote(ctx, name, contents); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("added: %s", name)), nil
}

func (s *Server) updateNote(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name, err := req.RequireString("name")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	contents, err := req.RequireString("contents")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if _, err := s.svc.UpdateNote(ctx, name, contents); err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return mcp.NewToolResultError(fmt.Sprintf("not found: %s", name)), nil
		}
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("updated: %s", name)), nil
}

func (s *Server) findNotes(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	term, err := req.RequireString("term")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(s.svc.Find(ctx, term))
}

func (s *Server) clearNotes(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if err := s.svc.Clear(ctx); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText("cleared"), nil
}

func (s *Server) readSearchRules(_ context.Context, _ mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      searchRulesURI,
			MIMEType: "text/markdown",
			Text:     SearchRules,
		},
	}, nil
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	out, err := json.Marshal(v)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(string(out)), nil
}
