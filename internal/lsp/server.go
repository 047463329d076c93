package lsp

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/spf13/afero"
	"go.uber.org/zap"

	"github.com/mehmetkoksal-w/velo-assist/internal/actions"
	"github.com/mehmetkoksal-w/velo-assist/internal/config"
	"github.com/mehmetkoksal-w/velo-assist/internal/document"
)

// Server is the LSP server for Velo projects.
type Server struct {
	// I/O
	reader *bufio.Reader
	writer io.Writer
	mu     sync.Mutex // protects writes

	// State
	initialized bool
	shutdown    bool
	rootURI     string
	version     string

	// Document management
	documents map[string]*TextDocument
	docMu     sync.RWMutex

	logger *zap.Logger

	// Workspace
	fs       afero.Fs
	cfg      *config.Config
	proposer *actions.Proposer

	// Performance: debouncing
	debounceTimers map[string]*time.Timer
	debounceMu     sync.Mutex
	debounceDelay  time.Duration

	// Performance: diagnostics cache
	diagnosticsCache map[string]cachedDiagnostics
	cacheMu          sync.RWMutex
}

// cachedDiagnostics remembers the document version diagnostics were computed for.
type cachedDiagnostics struct {
	resultID string
	items    []Diagnostic
}

// TextDocument represents an open text document. Documents are replaced,
// never mutated, so a snapshot can be read without holding docMu.
type TextDocument struct {
	URI        string
	LanguageID string
	Version    int
	Content    string
}

func (d *TextDocument) text() *document.Document {
	return document.New(d.Content)
}

// NewServer creates an LSP server on stdio.
func NewServer(log *zap.Logger) *Server {
	return NewServerWithIO(os.Stdin, os.Stdout, log)
}

// NewServerWithIO creates an LSP server with custom I/O. A nil log discards
// output.
func NewServerWithIO(reader io.Reader, writer io.Writer, log *zap.Logger) *Server {
	if log == nil {
		log = zap.NewNop()
	}
	s := &Server{
		reader:           bufio.NewReader(reader),
		writer:           writer,
		version:          "dev",
		documents:        make(map[string]*TextDocument),
		logger:           log,
		fs:               afero.NewOsFs(),
		debounceTimers:   make(map[string]*time.Timer),
		diagnosticsCache: make(map[string]cachedDiagnostics),
	}
	s.SetConfig(config.Default())
	return s
}

// SetFS replaces the file system used for configuration and scaffolding.
func (s *Server) SetFS(fsys afero.Fs) {
	s.fs = fsys
}

// SetVersion sets the version reported in serverInfo.
func (s *Server) SetVersion(v string) {
	s.version = v
}

// SetConfig applies a workspace configuration.
func (s *Server) SetConfig(cfg *config.Config) {
	s.cfg = cfg
	s.proposer = actions.NewProposer(cfg.Defaults.NotifierType, cfg.Defaults.StateType)
	s.SetDebounceDelay(cfg.DebounceDelay())
}

// SetDebounceDelay sets the debounce delay for diagnostics.
func (s *Server) SetDebounceDelay(delay time.Duration) {
	s.debounceMu.Lock()
	defer s.debounceMu.Unlock()
	s.debounceDelay = delay
}

// Run starts the LSP server main loop.
func (s *Server) Run(ctx context.Context) error {
	s.logger.Info("LSP server starting")
	defer s.stopTimers()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("context cancelled, shutting down")
			return ctx.Err()
		default:
		}

		msg, err := s.readMessage()
		if err != nil {
			if errors.Is(err, io.EOF) {
				s.logger.Info("EOF received, shutting down")
				return nil
			}
			s.logger.Warn("read error", zap.Error(err))
			continue
		}

		resp := s.handleMessage(msg)
		if resp != nil {
			if err := s.writeMessage(resp); err != nil {
				s.logger.Error("write error", zap.Error(err))
				return err
			}
		}

		if s.shutdown {
			s.logger.Info("shutdown requested")
			return nil
		}
	}
}

// readMessage reads an LSP message from the input.
// LSP uses Content-Length headers followed by the JSON payload.
func (s *Server) readMessage() ([]byte, error) {
	var contentLength int
	for {
		line, err := s.reader.ReadString('\n')
		if err != nil {
			return nil, err
		}

		line = strings.TrimSpace(line)
		if line == "" {
			break
		}

		if strings.HasPrefix(line, "Content-Length:") {
			value := strings.TrimSpace(strings.TrimPrefix(line, "Content-Length:"))
			contentLength, err = strconv.Atoi(value)
			if err != nil {
				return nil, fmt.Errorf("invalid Content-Length: %w", err)
			}
		}
		// Ignore other headers (like Content-Type)
	}

	if contentLength == 0 {
		return nil, fmt.Errorf("missing Content-Length header")
	}

	content := make([]byte, contentLength)
	if _, err := io.ReadFull(s.reader, content); err != nil {
		return nil, fmt.Errorf("read content: %w", err)
	}

	s.logger.Debug("received", zap.ByteString("message", content))
	return content, nil
}

// writeMessage writes an LSP message to the output.
func (s *Server) writeMessage(msg any) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	content, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("marshal response: %w", err)
	}

	s.logger.Debug("sending", zap.ByteString("message", content))

	header := fmt.Sprintf("Content-Length: %d\r\n\r\n", len(content))
	if _, err := s.writer.Write([]byte(header)); err != nil {
		return err
	}
	if _, err := s.writer.Write(content); err != nil {
		return err
	}
	return nil
}

// handleMessage processes an incoming message and returns a response (if any).
func (s *Server) handleMessage(msg []byte) *Response {
	var req Request
	if err := json.Unmarshal(msg, &req); err != nil {
		return s.errorResponse(nil, ErrCodeParseError, "Parse error", err.Error())
	}

	s.logger.Debug("handling method", zap.String("method", req.Method))

	if !s.initialized && req.Method != "initialize" && req.Method != "initialized" && req.Method != "exit" {
		return s.errorResponse(req.ID, ErrCodeServerNotInitialized, "Server not initialized", nil)
	}

	switch req.Method {
	// Lifecycle
	case "initialize":
		return s.handleInitialize(req)
	case "initialized":
		return s.handleInitialized(req)
	case "shutdown":
		return s.handleShutdown(req)
	case "exit":
		return s.handleExit(req)

	// Document sync
	case "textDocument/didOpen":
		return s.handleDidOpen(req)
	case "textDocument/didChange":
		return s.handleDidChange(req)
	case "textDocument/didClose":
		return s.handleDidClose(req)
	case "textDocument/didSave":
		return s.handleDidSave(req)

	// Features
	case "textDocument/hover":
		return s.handleHover(req)
	case "textDocument/codeAction":
		return s.handleCodeAction(req)
	case "textDocument/documentSymbol":
		return s.handleDocumentSymbol(req)
	case "textDocument/diagnostic":
		return s.handleDiagnostic(req)
	case "workspace/executeCommand":
		return s.handleExecuteCommand(req)

	// Notifications (no response)
	case "$/cancelRequest":
		return nil
	case "$/setTrace":
		return nil

	default:
		s.logger.Debug("unknown method", zap.String("method", req.Method))
		if req.ID == nil {
			return nil
		}
		return s.errorResponse(req.ID, ErrCodeMethodNotFound, "Method not found", req.Method)
	}
}

// Helper functions

func (s *Server) successResponse(id any, result any) *Response {
	return &Response{
		JSONRPC: "2.0",
		ID:      id,
		Result:  result,
	}
}

func (s *Server) errorResponse(id any, code int, message string, data any) *Response {
	return &Response{
		JSONRPC: "2.0",
		ID:      id,
		Error: &RPCError{
			Code:    code,
			Message: message,
			Data:    data,
		},
	}
}

// publishDiagnostics sends diagnostics for a document.
func (s *Server) publishDiagnostics(uri string, diagnostics []Diagnostic) error {
	if diagnostics == nil {
		diagnostics = []Diagnostic{}
	}
	notification := map[string]any{
		"jsonrpc": "2.0",
		"method":  "textDocument/publishDiagnostics",
		"params": PublishDiagnosticsParams{
			URI:         uri,
			Diagnostics: diagnostics,
		},
	}
	return s.writeMessage(notification)
}

// Document helpers

func (s *Server) getDocument(uri string) *TextDocument {
	s.docMu.RLock()
	defer s.docMu.RUnlock()
	return s.documents[uri]
}

func (s *Server) setDocument(doc *TextDocument) {
	s.docMu.Lock()
	defer s.docMu.Unlock()
	s.documents[doc.URI] = doc
}

func (s *Server) removeDocument(uri string) {
	s.docMu.Lock()
	defer s.docMu.Unlock()
	delete(s.documents, uri)
}

// debounceDiagnostics schedules diagnostics computation with debouncing.
func (s *Server) debounceDiagnostics(uri string) {
	s.debounceMu.Lock()
	defer s.debounceMu.Unlock()

	if timer, exists := s.debounceTimers[uri]; exists {
		timer.Stop()
	}

	s.debounceTimers[uri] = time.AfterFunc(s.debounceDelay, func() {
		s.computeAndPublishDiagnosticsImmediate(uri)
	})
}

func (s *Server) cancelDebounce(uri string) {
	s.debounceMu.Lock()
	defer s.debounceMu.Unlock()
	if timer, exists := s.debounceTimers[uri]; exists {
		timer.Stop()
		delete(s.debounceTimers, uri)
	}
}

func (s *Server) stopTimers() {
	s.debounceMu.Lock()
	defer s.debounceMu.Unlock()
	for uri, timer := range s.debounceTimers {
		timer.Stop()
		delete(s.debounceTimers, uri)
	}
}

// computeAndPublishDiagnosticsImmediate computes and publishes diagnostics immediately.
func (s *Server) computeAndPublishDiagnosticsImmediate(uri string) {
	doc := s.getDocument(uri)
	if doc == nil {
		return
	}

	diagnostics := s.computeDiagnostics(doc)
	s.cacheDiagnostics(uri, resultID(doc), diagnostics)

	if err := s.publishDiagnostics(uri, diagnostics); err != nil {
		s.logger.Error("publish diagnostics", zap.String("uri", uri), zap.Error(err))
	}
}

// getCachedDiagnostics returns cached diagnostics for a URI when they were
// computed for the given result id.
func (s *Server) getCachedDiagnostics(uri, resultID string) ([]Diagnostic, bool) {
	s.cacheMu.RLock()
	defer s.cacheMu.RUnlock()
	cached, exists := s.diagnosticsCache[uri]
	if !exists || cached.resultID != resultID {
		return nil, false
	}
	return cached.items, true
}

func (s *Server) cacheDiagnostics(uri, resultID string, items []Diagnostic) {
	s.cacheMu.Lock()
	defer s.cacheMu.Unlock()
	s.diagnosticsCache[uri] = cachedDiagnostics{resultID: resultID, items: items}
}

// clearDiagnosticsCache clears the diagnostics cache for a URI.
func (s *Server) clearDiagnosticsCache(uri string) {
	s.cacheMu.Lock()
	defer s.cacheMu.Unlock()
	delete(s.diagnosticsCache, uri)
}
