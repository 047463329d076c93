package lsp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"
)

// syncBuffer is a bytes.Buffer safe for the server's background publishers.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func frame(content string) string {
	return fmt.Sprintf("Content-Length: %d\r\n\r\n%s", len(content), content)
}

func newTestServer() (*Server, *syncBuffer) {
	out := &syncBuffer{}
	server := NewServerWithIO(strings.NewReader(""), out, nil)
	server.initialized = true
	return server, out
}

// TestReadMessage tests the LSP message reading.
func TestReadMessage(t *testing.T) {
	input := frame(`{"jsonrpc":"2.0","id":1,"method":"initialize"}`)

	server := NewServerWithIO(strings.NewReader(input), &bytes.Buffer{}, nil)

	msg, err := server.readMessage()
	if err != nil {
		t.Fatalf("readMessage failed: %v", err)
	}

	var req Request
	if err := json.Unmarshal(msg, &req); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}

	if req.Method != "initialize" {
		t.Errorf("expected method 'initialize', got '%s'", req.Method)
	}
	if req.ID != float64(1) { // JSON numbers are float64
		t.Errorf("expected id 1, got %v", req.ID)
	}
}

func TestReadMessageMissingLength(t *testing.T) {
	server := NewServerWithIO(strings.NewReader("Content-Type: x\r\n\r\n{}"), &bytes.Buffer{}, nil)

	if _, err := server.readMessage(); err == nil {
		t.Fatal("expected error for missing Content-Length")
	}
}

// TestWriteMessage tests the LSP message writing.
func TestWriteMessage(t *testing.T) {
	var output bytes.Buffer
	server := NewServerWithIO(strings.NewReader(""), &output, nil)

	resp := &Response{
		JSONRPC: "2.0",
		ID:      1,
		Result:  map[string]string{"test": "value"},
	}

	if err := server.writeMessage(resp); err != nil {
		t.Fatalf("writeMessage failed: %v", err)
	}

	result := output.String()
	if !strings.HasPrefix(result, "Content-Length:") {
		t.Error("expected Content-Length header")
	}
	if !strings.Contains(result, `"test":"value"`) {
		t.Error("expected result in output")
	}
}

// TestInitialize tests the initialize request handling.
func TestInitialize(t *testing.T) {
	paramsJSON, _ := json.Marshal(InitializeParams{ProcessID: 1234})
	req := Request{
		JSONRPC: "2.0",
		ID:      1,
		Method:  "initialize",
		Params:  paramsJSON,
	}

	server := NewServerWithIO(strings.NewReader(""), &bytes.Buffer{}, nil)
	server.SetVersion("1.2.3")
	resp := server.handleInitialize(req)

	if resp.Error != nil {
		t.Fatalf("initialize returned error: %v", resp.Error)
	}

	result, ok := resp.Result.(InitializeResult)
	if !ok {
		t.Fatalf("expected InitializeResult, got %T", resp.Result)
	}

	if result.ServerInfo.Name != ServerName {
		t.Errorf("expected server name %q, got %q", ServerName, result.ServerInfo.Name)
	}
	if result.ServerInfo.Version != "1.2.3" {
		t.Errorf("expected version 1.2.3, got %q", result.ServerInfo.Version)
	}
	if !result.Capabilities.HoverProvider {
		t.Error("expected HoverProvider to be true")
	}
	if got := result.Capabilities.ExecuteCommandProvider.Commands; len(got) != 4 {
		t.Errorf("expected 4 commands, got %v", got)
	}
}

// TestDocumentLifecycle tests document open/change/close.
func TestDocumentLifecycle(t *testing.T) {
	server, _ := newTestServer()

	openJSON, _ := json.Marshal(DidOpenTextDocumentParams{
		TextDocument: TextDocumentItem{
			URI:        "file:///test/counter.dart",
			LanguageID: "dart",
			Version:    1,
			Text:       "void main() {}",
		},
	})
	server.handleDidOpen(Request{Params: openJSON})

	doc := server.getDocument("file:///test/counter.dart")
	if doc == nil {
		t.Fatal("document should be open")
	}
	if doc.Content != "void main() {}" {
		t.Errorf("expected content 'void main() {}', got '%s'", doc.Content)
	}

	changeJSON, _ := json.Marshal(DidChangeTextDocumentParams{
		TextDocument: VersionedTextDocumentIdentifier{
			TextDocumentIdentifier: TextDocumentIdentifier{URI: "file:///test/counter.dart"},
			Version:                2,
		},
		ContentChanges: []TextDocumentContentChangeEvent{
			{Text: "class A extends Velo<S> {}"},
		},
	})
	server.handleDidChange(Request{Params: changeJSON})

	changed := server.getDocument("file:///test/counter.dart")
	if changed.Version != 2 {
		t.Errorf("expected version 2, got %d", changed.Version)
	}
	if !strings.Contains(changed.Content, "extends Velo<S>") {
		t.Error("expected changed content")
	}
	if doc.Version != 1 {
		t.Error("earlier snapshot must not be mutated")
	}

	closeJSON, _ := json.Marshal(DidCloseTextDocumentParams{
		TextDocument: TextDocumentIdentifier{URI: "file:///test/counter.dart"},
	})
	server.handleDidClose(Request{Params: closeJSON})

	if server.getDocument("file:///test/counter.dart") != nil {
		t.Error("document should be closed")
	}
}

// TestMethodDispatch tests that methods are correctly dispatched.
func TestMethodDispatch(t *testing.T) {
	server := NewServerWithIO(strings.NewReader(""), &bytes.Buffer{}, nil)

	resp := server.handleMessage([]byte(`{"jsonrpc":"2.0","id":1,"method":"textDocument/hover"}`))
	if resp.Error == nil || resp.Error.Code != ErrCodeServerNotInitialized {
		t.Error("expected ServerNotInitialized error before initialization")
	}

	server.handleMessage([]byte(`{"jsonrpc":"2.0","id":1,"method":"initialize","params":{"processId":1}}`))
	server.handleMessage([]byte(`{"jsonrpc":"2.0","method":"initialized"}`))

	resp = server.handleMessage([]byte(`{"jsonrpc":"2.0","id":2,"method":"textDocument/hover","params":{"textDocument":{"uri":"file:///test.dart"},"position":{"line":0,"character":0}}}`))
	if resp.Error != nil {
		t.Errorf("expected no error after initialization, got: %v", resp.Error)
	}

	resp = server.handleMessage([]byte(`{"jsonrpc":"2.0","id":3,"method":"unknown/method"}`))
	if resp.Error == nil || resp.Error.Code != ErrCodeMethodNotFound {
		t.Error("expected MethodNotFound error for unknown method")
	}

	if resp := server.handleMessage([]byte(`{"jsonrpc":"2.0","method":"$/cancelRequest","params":{"id":2}}`)); resp != nil {
		t.Errorf("expected no response for notification, got %+v", resp)
	}

	resp = server.handleMessage([]byte(`not json`))
	if resp.Error == nil || resp.Error.Code != ErrCodeParseError {
		t.Error("expected ParseError for malformed message")
	}
}

func TestRunShutdown(t *testing.T) {
	input := frame(`{"jsonrpc":"2.0","id":1,"method":"initialize","params":{"processId":1}}`) +
		frame(`{"jsonrpc":"2.0","method":"initialized"}`) +
		frame(`{"jsonrpc":"2.0","id":2,"method":"shutdown"}`)
	out := &syncBuffer{}
	server := NewServerWithIO(strings.NewReader(input), out, nil)

	if err := server.Run(context.Background()); err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if !strings.Contains(out.String(), `"id":2`) {
		t.Errorf("expected shutdown response, got %s", out.String())
	}
}

func TestRunEOF(t *testing.T) {
	server := NewServerWithIO(strings.NewReader(""), &bytes.Buffer{}, nil)

	if err := server.Run(context.Background()); err != nil {
		t.Fatalf("expected nil on EOF, got %v", err)
	}
}

func TestDebouncedDiagnosticsPublished(t *testing.T) {
	server, out := newTestServer()
	server.SetDebounceDelay(time.Millisecond)
	server.setDocument(&TextDocument{URI: "file:///a.dart", Version: 1, Content: "class A extends Velo<S> {}"})

	server.debounceDiagnostics("file:///a.dart")

	deadline := time.Now().Add(2 * time.Second)
	for !strings.Contains(out.String(), CodeMissingImport) {
		if time.Now().After(deadline) {
			t.Fatal("diagnostics were not published")
		}
		time.Sleep(5 * time.Millisecond)
	}
	if !strings.Contains(out.String(), "textDocument/publishDiagnostics") {
		t.Error("expected publishDiagnostics notification")
	}
}
