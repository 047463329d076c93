package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/mehmetkoksal-w/velo-assist/internal/actions"
	"github.com/mehmetkoksal-w/velo-assist/internal/analysis"
	"github.com/mehmetkoksal-w/velo-assist/internal/document"
)

// analyzeResult is the --json shape of velo analyze.
type analyzeResult struct {
	File          string                 `json:"file"`
	Facts         analysis.DocumentFacts `json:"facts"`
	MissingImport bool                   `json:"missingImport"`
	Class         string                 `json:"class,omitempty"`
	Methods       []analysis.Method      `json:"methods,omitempty"`
	Properties    []analysis.Property    `json:"properties,omitempty"`
}

func (a *app) analyzeCommand() *cobra.Command {
	var (
		class  string
		asJSON bool
	)
	cmd := &cobra.Command{
		Use:   "analyze FILE",
		Short: "Report Velo bindings, imports and context usages of a Dart file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := a.resolve(args[0])
			text, err := a.readText(path)
			if err != nil {
				return err
			}

			facts := analysis.Analyze(text)
			res := analyzeResult{File: path, Facts: facts, MissingImport: facts.MissingImport(), Class: class}
			if class != "" {
				res.Methods = analysis.FindMethods(text, class)
				res.Properties = analysis.FindStateProperties(text, class)
			}

			if asJSON {
				return writeJSON(a.out, res)
			}
			return writeAnalysis(a.out, res)
		},
	}
	cmd.Flags().StringVar(&class, "class", "", "also list methods and state properties of this class")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON")
	return cmd
}

func writeAnalysis(w io.Writer, res analyzeResult) error {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s\n", res.File)
	if len(res.Facts.Bindings) > 0 {
		sb.WriteString("bindings:\n")
		for _, b := range res.Facts.Bindings {
			fmt.Fprintf(&sb, "  %d: %s -> %s (%s)\n", b.Line+1, b.PrimaryType, b.StateType, bindingLabel(b))
		}
	}
	if len(res.Facts.Imports) > 0 {
		sb.WriteString("imports:\n")
		for _, imp := range res.Facts.Imports {
			fmt.Fprintf(&sb, "  %s\n", imp)
		}
	}
	if len(res.Facts.Usages) > 0 {
		sb.WriteString("usages:\n")
		for _, u := range res.Facts.Usages {
			fmt.Fprintf(&sb, "  %d: context.%s<%s>()\n", u.Line+1, u.Kind, u.PrimaryType)
		}
	}
	if res.Class != "" {
		fmt.Fprintf(&sb, "class %s:\n", res.Class)
		for _, m := range res.Methods {
			async := ""
			if m.Async {
				async = " async"
			}
			fmt.Fprintf(&sb, "  method %s()%s\n", m.Name, async)
		}
		for _, p := range res.Properties {
			fmt.Fprintf(&sb, "  property %s %s\n", p.Type, p.Name)
		}
	}
	if res.MissingImport {
		fmt.Fprintf(&sb, "warning: Velo types used without importing %s\n", analysis.LibraryImport)
	}
	_, err := io.WriteString(w, sb.String())
	return err
}

func bindingLabel(b analysis.TypeBinding) string {
	if b.Source == analysis.BindingWidget {
		return b.Widget
	}
	return string(b.Source)
}

func (a *app) actionsCommand() *cobra.Command {
	var (
		rangeSpec string
		asJSON    bool
	)
	cmd := &cobra.Command{
		Use:   "actions FILE",
		Short: "Propose wrap and conversion edits for a selection",
		Long: `Prints the edits an editor would offer for the selected text.

The range uses zero-based line:character positions, with characters counted
in UTF-16 code units: --range 4:2-4:13`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := parseRange(rangeSpec)
			if err != nil {
				return err
			}
			text, err := a.readText(a.resolve(args[0]))
			if err != nil {
				return err
			}
			cfg, _, err := a.loadConfig()
			if err != nil {
				return err
			}

			proposer := actions.NewProposer(cfg.Defaults.NotifierType, cfg.Defaults.StateType)
			doc := document.New(text)
			candidates := proposer.Propose(doc, r)
			if asJSON {
				if candidates == nil {
					candidates = []actions.Candidate{}
				}
				return writeJSON(a.out, candidates)
			}
			return writeCandidates(a.out, doc.TextInRange(r), candidates)
		},
	}
	cmd.Flags().StringVar(&rangeSpec, "range", "", "selection as L:C-L:C")
	_ = cmd.MarkFlagRequired("range")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON")
	return cmd
}

// parseRange reads "L:C-L:C".
func parseRange(s string) (document.Range, error) {
	var r document.Range
	n, err := fmt.Sscanf(s, "%d:%d-%d:%d", &r.Start.Line, &r.Start.Character, &r.End.Line, &r.End.Character)
	if err != nil || n != 4 {
		return document.Range{}, fmt.Errorf("invalid range %q: want L:C-L:C", s)
	}
	if r.Start.Line < 0 || r.Start.Character < 0 || r.End.Line < 0 || r.End.Character < 0 {
		return document.Range{}, fmt.Errorf("invalid range %q: positions must not be negative", s)
	}
	return r, nil
}

func writeCandidates(w io.Writer, selection string, candidates []actions.Candidate) error {
	if len(candidates) == 0 {
		_, err := fmt.Fprintln(w, "no actions for an empty selection")
		return err
	}
	var sb strings.Builder
	if analysis.LooksLikeWidget(selection) {
		if name, ok := analysis.ExtractWidgetTypeName(selection); ok {
			fmt.Fprintf(&sb, "selection: %s widget\n\n", name)
		}
	}
	for i, c := range candidates {
		if i > 0 {
			sb.WriteString("\n")
		}
		marker := ""
		if c.Preferred {
			marker = " (preferred)"
		}
		fmt.Fprintf(&sb, "== %s [%s]%s\n%s\n", c.Label, c.Kind, marker, c.Replacement)
	}
	_, err := io.WriteString(w, sb.String())
	return err
}

func (a *app) readText(path string) (string, error) {
	data, err := afero.ReadFile(a.fs, path)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", path, err)
	}
	return string(data), nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
