package lsp

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mehmetkoksal-w/velo-assist/internal/actions"
	"github.com/mehmetkoksal-w/velo-assist/internal/analysis"
	"github.com/mehmetkoksal-w/velo-assist/internal/document"
	"github.com/mehmetkoksal-w/velo-assist/internal/templates"
)

// LabelAddImport titles the missing-import quick fix.
const LabelAddImport = "Add Velo import"

// handleHover handles textDocument/hover request.
func (s *Server) handleHover(req Request) *Response {
	var params HoverParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return s.errorResponse(req.ID, ErrCodeInvalidParams, "Invalid params", err.Error())
	}

	doc := s.getDocument(params.TextDocument.URI)
	if doc == nil {
		return s.successResponse(req.ID, nil)
	}

	hover := s.getHoverInfo(doc, params.Position)
	if hover == nil {
		return s.successResponse(req.ID, nil)
	}
	return s.successResponse(req.ID, hover)
}

// getHoverInfo describes the binding or context usage on the hovered line.
func (s *Server) getHoverInfo(doc *TextDocument, pos Position) *Hover {
	text := doc.text()
	facts := analysis.Analyze(text.Text())

	for _, b := range facts.Bindings {
		if b.Line != pos.Line {
			continue
		}
		r := text.LineRange(b.Line)
		if b.Source == analysis.BindingDeclaration {
			return markdownHover(declarationHover(text.Text(), b), &r)
		}
		return markdownHover(fmt.Sprintf("## %s\n\n**Notifier:** `%s`\n\n**State:** `%s`\n", b.Widget, b.PrimaryType, b.StateType), &r)
	}

	for _, u := range facts.Usages {
		if u.Line != pos.Line {
			continue
		}
		r := text.LineRange(u.Line)
		content := fmt.Sprintf("## context.%s<%s>()\n\n", u.Kind, u.PrimaryType)
		if state, ok := stateTypeOf(facts.Bindings, u.PrimaryType); ok {
			content += fmt.Sprintf("**State:** `%s`\n", state)
		}
		return markdownHover(content, &r)
	}
	return nil
}

func declarationHover(text string, b analysis.TypeBinding) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "## %s\n\n**State:** `%s`\n", b.PrimaryType, b.StateType)

	if methods := analysis.FindMethods(text, b.PrimaryType); len(methods) > 0 {
		sb.WriteString("\n**Methods:**\n")
		for _, m := range methods {
			if m.Async {
				fmt.Fprintf(&sb, "- `%s()` (async)\n", m.Name)
			} else {
				fmt.Fprintf(&sb, "- `%s()`\n", m.Name)
			}
		}
	}
	if props := analysis.FindStateProperties(text, b.StateType); len(props) > 0 {
		sb.WriteString("\n**State properties:**\n")
		for _, p := range props {
			fmt.Fprintf(&sb, "- `%s %s`\n", p.Type, p.Name)
		}
	}
	return sb.String()
}

func stateTypeOf(bindings []analysis.TypeBinding, primaryType string) (string, bool) {
	for _, b := range bindings {
		if b.PrimaryType == primaryType {
			return b.StateType, true
		}
	}
	return "", false
}

func markdownHover(content string, r *Range) *Hover {
	return &Hover{
		Contents: MarkupContent{
			Kind:  MarkupKindMarkdown,
			Value: content,
		},
		Range: r,
	}
}

// handleCodeAction handles textDocument/codeAction request.
func (s *Server) handleCodeAction(req Request) *Response {
	var params CodeActionParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return s.errorResponse(req.ID, ErrCodeInvalidParams, "Invalid params", err.Error())
	}

	doc := s.getDocument(params.TextDocument.URI)
	if doc == nil {
		return s.successResponse(req.ID, []CodeAction{})
	}

	return s.successResponse(req.ID, s.getCodeActions(doc, params))
}

// getCodeActions returns the import quick fix for reported diagnostics
// followed by the wrap and conversion candidates for the selection.
func (s *Server) getCodeActions(doc *TextDocument, params CodeActionParams) []CodeAction {
	result := []CodeAction{}
	text := doc.text()

	var missing []Diagnostic
	for _, diag := range params.Context.Diagnostics {
		if isMissingImport(diag) {
			missing = append(missing, diag)
		}
	}
	if len(missing) > 0 && !analysis.HasVeloImport(text.Text()) {
		at := Position{Line: analysis.ImportInsertLine(text.Text())}
		result = append(result, CodeAction{
			Title:       LabelAddImport,
			Kind:        CodeActionKindQuickFix,
			Diagnostics: missing,
			IsPreferred: true,
			Edit: singleEdit(doc.URI, TextEdit{
				Range:   Range{Start: at, End: at},
				NewText: templates.ImportLine(analysis.LibraryImport) + "\n",
			}),
		})
	}

	for _, c := range s.proposer.Propose(text, params.Range) {
		kind := candidateKind(c.Kind)
		if !allowed(params.Context.Only, kind) {
			continue
		}
		result = append(result, CodeAction{
			Title:       c.Label,
			Kind:        kind,
			IsPreferred: c.Preferred,
			Edit:        singleEdit(doc.URI, TextEdit{Range: params.Range, NewText: c.Replacement}),
		})
	}
	return result
}

func candidateKind(k actions.CandidateKind) CodeActionKind {
	if k == actions.KindConvert {
		return CodeActionKindQuickFix
	}
	return CodeActionKindRefactor
}

// allowed applies the client's kind filter, where "refactor" also admits
// "refactor.rewrite" and friends.
func allowed(only []CodeActionKind, kind CodeActionKind) bool {
	if len(only) == 0 {
		return true
	}
	for _, o := range only {
		if o == kind || strings.HasPrefix(string(kind), string(o)+".") {
			return true
		}
	}
	return false
}

func singleEdit(uri string, edit TextEdit) *WorkspaceEdit {
	return &WorkspaceEdit{Changes: map[string][]TextEdit{uri: {edit}}}
}

// handleDocumentSymbol handles textDocument/documentSymbol request.
func (s *Server) handleDocumentSymbol(req Request) *Response {
	var params DocumentSymbolParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return s.errorResponse(req.ID, ErrCodeInvalidParams, "Invalid params", err.Error())
	}

	doc := s.getDocument(params.TextDocument.URI)
	if doc == nil {
		return s.successResponse(req.ID, []DocumentSymbol{})
	}
	return s.successResponse(req.ID, documentSymbols(doc.text()))
}

// documentSymbols returns one class symbol per notifier declaration with
// its methods as children.
func documentSymbols(text *document.Document) []DocumentSymbol {
	symbols := []DocumentSymbol{}
	for _, b := range analysis.FindTypeBindings(text.Text()) {
		if b.Source != analysis.BindingDeclaration {
			continue
		}
		classRange := text.LineRange(b.Line)
		symbol := DocumentSymbol{
			Name:           b.PrimaryType,
			Detail:         fmt.Sprintf("%s<%s>", analysis.BaseClass, b.StateType),
			Kind:           SymbolKindClass,
			Range:          classRange,
			SelectionRange: classRange,
		}
		for _, m := range analysis.FindMethods(text.Text(), b.PrimaryType) {
			r := text.LineRange(methodLine(text, b.Line, m.Name))
			detail := ""
			if m.Async {
				detail = "async"
			}
			symbol.Children = append(symbol.Children, DocumentSymbol{
				Name:           m.Name,
				Detail:         detail,
				Kind:           SymbolKindMethod,
				Range:          r,
				SelectionRange: r,
			})
		}
		symbols = append(symbols, symbol)
	}
	return symbols
}

// methodLine finds the first line after the class declaration that mentions
// name followed by a parenthesis, falling back to the class line.
func methodLine(text *document.Document, classLine int, name string) int {
	for i := classLine + 1; i < text.LineCount(); i++ {
		if strings.Contains(text.Line(i), name+"(") {
			return i
		}
	}
	return classLine
}
