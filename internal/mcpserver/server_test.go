package mcpserver

import (
	"context"
	"encoding/json"
	"reflect"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/starford/notebook/internal/noteservice"
	"github.com/starford/notebook/internal/testutil"
)

func testServer(t *testing.T) (*Server, *noteservice.Service) {
	t.Helper()
	svc := testutil.TestService(t, nil)
	return New(svc, "test"), svc
}

func callTool(t *testing.T, srv *Server, name string, args map[string]interface{}) *mcp.CallToolResult {
	t.Helper()
	ctx := context.Background()
	req := mcp.CallToolRequest{}
	req.Method = "tools/call"
	req.Params.Name = name
	req.Params.Arguments = args

	// mcp-go has no direct "call tool" helper, so dispatch to the handlers.
	var result *mcp.CallToolResult
	var err error

	switch name {
	case "list_notes":
		result, err = srv.listNotes(ctx, req)
	case "read_note":
		result, err = srv.readNote(ctx, req)
	case "add_note":
		result, err = srv.addNote(ctx, req)
	case "update_note":
		result, err = srv.updateNote(ctx, req)
	case "find_notes":
		result, err = srv.findNotes(ctx, req)
	case "clear_notes":
		result, err = srv.clearNotes(ctx, req)
	default:
		t.Fatalf("unknown tool: %s", name)
	}

	if err != nil {
		t.Fatalf("tool %s error: %v", name, err)
	}
	return result
}

func resultText(r *mcp.CallToolResult) string {
	if len(r.Content) > 0 {
		if tc, ok := r.Content[0].(mcp.TextContent); ok {
			return tc.Text
		}
	}
	return ""
}

func resultNames(t *testing.T, r *mcp.CallToolResult) []string {
	t.Helper()
	var names []string
	if err := json.Unmarshal([]byte(resultText(r)), &names); err != nil {
		t.Fatalf("decode %q: %v", resultText(r), err)
	}
	return names
}

func TestAddAndReadNote(t *testing.T) {
	srv, _ := testServer(t)

	r := callTool(t, srv, "add_note", map[string]interface{}{
		"name":     "Wed",
		"contents": "It's a rainy day.",
	})
	if text := resultText(r); text != "added: Wed" {
		t.Errorf("add result = %q", text)
	}

	r = callTool(t, srv, "read_note", map[string]interface{}{"name": "Wed"})
	if text := resultText(r); text != "It's a rainy day." {
		t.Errorf("read result = %q", text)
	}
}

func TestListNotes(t *testing.T) {
	srv, svc := testServer(t)
	ctx := context.Background()
	_, _ = svc.AddNote(ctx, "1", "first")
	_, _ = svc.AddNote(ctx, "2", "second")

	r := callTool(t, srv, "list_notes", map[string]interface{}{})
	if got := resultNames(t, r); !reflect.DeepEqual(got, []string{"1", "2"}) {
		t.Errorf("list = %v", got)
	}
}

func TestReadNoteMissing(t *testing.T) {
	srv, _ := testServer(t)
	r := callTool(t, srv, "read_note", map[string]interface{}{"name": "nope"})
	if !r.IsError {
		t.Error("expected error for missing note")
	}
}

func TestAddNoteRequiresContents(t *testing.T) {
	srv, _ := testServer(t)
	r := callTool(t, srv, "add_note", map[string]interface{}{"name": "x"})
	if !r.IsError {
		t.Error("expected error for missing contents")
	}
}

func TestUpdateNote(t *testing.T) {
	srv, svc := testServer(t)
	ctx := context.Background()

	r := callTool(t, srv, "update_note", map[string]interface{}{"name": "ghost", "contents": "boo"})
	if !r.IsError {
		t.Error("expected error updating a missing note")
	}

	_, _ = svc.AddNote(ctx, "a", "old")
	r = callTool(t, srv, "update_note", map[string]interface{}{"name": "a", "contents": "new"})
	if r.IsError {
		t.Fatalf("update failed: %s", resultText(r))
	}
	note, _ := svc.GetNote(ctx, "a")
	if note.Contents != "new" {
		t.Errorf("contents = %q", note.Contents)
	}
}

func TestFindNotes(t *testing.T) {
	srv, svc := testServer(t)
	ctx := context.Background()
	_, _ = svc.AddNote(ctx, "1", "Today is Friday.")
	_, _ = svc.AddNote(ctx, "2", "I passed my exam!")

	r := callTool(t, srv, "find_notes", map[string]interface{}{"term": "friday"})
	if got := resultNames(t, r); !reflect.DeepEqual(got, []string{"1"}) {
		t.Errorf("find = %v", got)
	}
	r = callTool(t, srv, "find_notes", map[string]interface{}{"term": "Monday"})
	if got := resultNames(t, r); len(got) != 0 {
		t.Errorf("find Monday = %v", got)
	}
}

func TestClearNotes(t *testing.T) {
	srv, svc := testServer(t)
	ctx := context.Background()
	_, _ = svc.AddNote(ctx, "a", "b")

	r := callTool(t, srv, "clear_notes", map[string]interface{}{})
	if resultText(r) != "cleared" {
		t.Errorf("clear result = %q", resultText(r))
	}
	if n := len(svc.ListNotes(ctx)); n != 0 {
		t.Errorf("notes after clear = %d", n)
	}
}

func TestSearchRulesResource(t *testing.T) {
	srv, _ := testServer(t)
	contents, err := srv.readSearchRules(context.Background(), mcp.ReadResourceRequest{})
	if err != nil {
		t.Fatal(err)
	}
	if len(contents) != 1 {
		t.Fatalf("contents = %d", len(contents))
	}
	tc, ok := contents[0].(mcp.TextResourceContents)
	if !ok || tc.Text != SearchRules {
		t.Errorf("unexpected resource contents: %+v", contents[0])
	}
}
