package lsp

import (
	"encoding/json"

	"go.uber.org/zap"
)

// handleDidOpen handles textDocument/didOpen notification.
func (s *Server) handleDidOpen(req Request) *Response {
	var params DidOpenTextDocumentParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		s.logger.Warn("parse didOpen params", zap.Error(err))
		return nil // Notifications don't get error responses
	}

	doc := &TextDocument{
		URI:        params.TextDocument.URI,
		LanguageID: params.TextDocument.LanguageID,
		Version:    params.TextDocument.Version,
		Content:    params.TextDocument.Text,
	}

	s.setDocument(doc)
	s.logger.Debug("document opened",
		zap.String("uri", doc.URI),
		zap.String("lang", doc.LanguageID),
		zap.Int("version", doc.Version))

	// No debounce for the initial load.
	if s.cfg.DiagnosticsEnabled() {
		go s.computeAndPublishDiagnosticsImmediate(doc.URI)
	}
	return nil
}

// handleDidChange handles textDocument/didChange notification.
func (s *Server) handleDidChange(req Request) *Response {
	var params DidChangeTextDocumentParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		s.logger.Warn("parse didChange params", zap.Error(err))
		return nil
	}

	old := s.getDocument(params.TextDocument.URI)
	if old == nil {
		s.logger.Debug("document not found for change", zap.String("uri", params.TextDocument.URI))
		return nil
	}

	// Full sync: the last change carries the whole text.
	if len(params.ContentChanges) > 0 {
		s.setDocument(&TextDocument{
			URI:        old.URI,
			LanguageID: old.LanguageID,
			Version:    params.TextDocument.Version,
			Content:    params.ContentChanges[len(params.ContentChanges)-1].Text,
		})
	}
	s.clearDiagnosticsCache(old.URI)

	s.logger.Debug("document changed",
		zap.String("uri", old.URI),
		zap.Int("version", params.TextDocument.Version))

	if s.cfg.DiagnosticsEnabled() {
		s.debounceDiagnostics(old.URI)
	}
	return nil
}

// handleDidClose handles textDocument/didClose notification.
func (s *Server) handleDidClose(req Request) *Response {
	var params DidCloseTextDocumentParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		s.logger.Warn("parse didClose params", zap.Error(err))
		return nil
	}

	uri := params.TextDocument.URI
	s.cancelDebounce(uri)
	s.removeDocument(uri)
	s.clearDiagnosticsCache(uri)
	s.logger.Debug("document closed", zap.String("uri", uri))

	_ = s.publishDiagnostics(uri, []Diagnostic{})
	return nil
}

// handleDidSave handles textDocument/didSave notification.
func (s *Server) handleDidSave(req Request) *Response {
	var params DidSaveTextDocumentParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		s.logger.Warn("parse didSave params", zap.Error(err))
		return nil
	}

	s.logger.Debug("document saved", zap.String("uri", params.TextDocument.URI))

	if s.cfg.DiagnosticsEnabled() {
		s.cancelDebounce(params.TextDocument.URI)
		go s.computeAndPublishDiagnosticsImmediate(params.TextDocument.URI)
	}
	return nil
}
