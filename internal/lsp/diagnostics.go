package lsp

import (
	"encoding/json"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/mehmetkoksal-w/velo-assist/internal/analysis"
)

// Diagnostic identity.
const (
	DiagnosticSource     = "velo"
	CodeMissingImport    = "missing-import"
	missingImportMessage = "Velo types are used but '" + analysis.LibraryImport + "' is not imported"
)

// computeDiagnostics reports every binding line of a document that uses
// Velo types without importing the library.
func (s *Server) computeDiagnostics(doc *TextDocument) []Diagnostic {
	text := doc.text()
	facts := analysis.Analyze(text.Text())
	if !facts.MissingImport() {
		return []Diagnostic{}
	}

	diagnostics := make([]Diagnostic, 0, len(facts.Bindings))
	for _, b := range facts.Bindings {
		diagnostics = append(diagnostics, Diagnostic{
			Range:    text.LineRange(b.Line),
			Severity: DiagnosticSeverityWarning,
			Code:     CodeMissingImport,
			Source:   DiagnosticSource,
			Message:  missingImportMessage,
			Data: map[string]any{
				"type":        CodeMissingImport,
				"primaryType": b.PrimaryType,
				"stateType":   b.StateType,
			},
		})
	}
	return diagnostics
}

func isMissingImport(d Diagnostic) bool {
	code, _ := d.Code.(string)
	return d.Source == DiagnosticSource && code == CodeMissingImport
}

// URI/Path conversion utilities

// uriToPath converts a file:// URI to a file path.
func uriToPath(uri string) string {
	path := strings.TrimPrefix(uri, "file:///")
	path = strings.TrimPrefix(path, "file://")
	// Handle Windows drive letters
	if len(path) >= 2 && path[0] != '/' && path[1] == ':' {
		return filepath.FromSlash(path)
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return filepath.FromSlash(path)
}

// pathToURI converts a file path to a file:// URI.
func pathToURI(path string) string {
	absPath, err := filepath.Abs(path)
	if err != nil {
		absPath = path
	}
	absPath = filepath.ToSlash(absPath)
	if !strings.HasPrefix(absPath, "/") {
		// Windows path
		return "file:///" + absPath
	}
	return "file://" + absPath
}

// handleDiagnostic handles the textDocument/diagnostic request (pull diagnostics).
func (s *Server) handleDiagnostic(req Request) *Response {
	var params DocumentDiagnosticParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return s.errorResponse(req.ID, ErrCodeInvalidParams, "Invalid params", err.Error())
	}

	uri := params.TextDocument.URI
	doc := s.getDocument(uri)
	if doc == nil || !s.cfg.DiagnosticsEnabled() {
		return s.successResponse(req.ID, DocumentDiagnosticReport{
			Kind:  "full",
			Items: []Diagnostic{},
		})
	}

	id := resultID(doc)
	diagnostics, hasCached := s.getCachedDiagnostics(uri, id)
	if hasCached && params.PreviousResultID == id {
		return s.successResponse(req.ID, DocumentDiagnosticReport{
			Kind:     "unchanged",
			ResultID: id,
		})
	}
	if !hasCached {
		diagnostics = s.computeDiagnostics(doc)
		s.cacheDiagnostics(uri, id, diagnostics)
	}

	return s.successResponse(req.ID, DocumentDiagnosticReport{
		Kind:     "full",
		ResultID: id,
		Items:    diagnostics,
	})
}

// resultID identifies a diagnostic result by document version.
func resultID(doc *TextDocument) string {
	return doc.URI + ":" + strconv.Itoa(doc.Version)
}
