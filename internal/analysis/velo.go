package analysis

import (
	"regexp"
	"strings"
)

const (
	// BaseClass is the generic base every notifier extends.
	BaseClass = "Velo"
	// EquatableBase is the base class of generated state classes.
	EquatableBase = "Equatable"
	// LibraryImport is the package path of the Velo library.
	LibraryImport = "package:velo/velo.dart"
	// FuturePrefix marks an asynchronous return type.
	FuturePrefix = "Future"
)

var (
	veloClassRegex    = regexp.MustCompile(`class\s+(\w+)\s+extends\s+Velo<(\w+)>`)
	veloWidgetRegex   = regexp.MustCompile(`(Velo(?:Builder|Consumer|Listener))<(\w+),\s*(\w+)>`)
	veloImportRegex   = regexp.MustCompile(`import\s+['"]package:velo/velo\.dart['"]`)
	importRegex       = regexp.MustCompile(`import\s+['"]([^'"]+)['"];`)
	importLineRegex   = regexp.MustCompile(`^import\s+['"]`)
	widgetTypeRegex   = regexp.MustCompile(`(\w+)\s*\(`)
	contextReadRegex  = regexp.MustCompile(`context\.read<(\w+)>\(\)`)
	contextWatchRegex = regexp.MustCompile(`context\.watch<(\w+)>\(\)`)
)

var widgetIndicators = []string{
	"Widget",
	"StatelessWidget",
	"StatefulWidget",
	"Container",
	"Text",
	"Column",
	"Row",
	"Scaffold",
	"AppBar",
	"FloatingActionButton",
	"ElevatedButton",
	"TextButton",
	"IconButton",
}

func splitLines(text string) []string {
	return strings.Split(text, "\n")
}

// FindTypeBindings returns every notifier/state pairing declared or used in text.
// Recognition is single-line: a declaration split across lines is not found.
func FindTypeBindings(text string) []TypeBinding {
	var bindings []TypeBinding
	for i, line := range splitLines(text) {
		if m := veloClassRegex.FindStringSubmatch(line); m != nil {
			bindings = append(bindings, TypeBinding{
				PrimaryType: m[1],
				StateType:   m[2],
				Line:        i,
				Source:      BindingDeclaration,
			})
		}
		if m := veloWidgetRegex.FindStringSubmatch(line); m != nil {
			bindings = append(bindings, TypeBinding{
				PrimaryType: m[2],
				StateType:   m[3],
				Line:        i,
				Source:      BindingWidget,
				Widget:      m[1],
			})
		}
	}
	return bindings
}

// HasVeloImport reports whether text imports the Velo library.
func HasVeloImport(text string) bool {
	return veloImportRegex.MatchString(text)
}

// ListImports returns every quoted import path in order of appearance.
func ListImports(text string) []string {
	var imports []string
	for _, m := range importRegex.FindAllStringSubmatch(text, -1) {
		imports = append(imports, m[1])
	}
	return imports
}

// ImportInsertLine returns the line an additional import should be inserted at:
// the line after the last top-level import, or 0 when there is none.
func ImportInsertLine(text string) int {
	insert := 0
	for i, line := range splitLines(text) {
		if importLineRegex.MatchString(line) {
			insert = i + 1
		}
	}
	return insert
}

// LooksLikeWidget reports whether text mentions a well-known Flutter widget.
func LooksLikeWidget(text string) bool {
	for _, indicator := range widgetIndicators {
		if strings.Contains(text, indicator) {
			return true
		}
	}
	return false
}

// ExtractWidgetTypeName returns the identifier before the first opening parenthesis.
func ExtractWidgetTypeName(text string) (string, bool) {
	m := widgetTypeRegex.FindStringSubmatch(text)
	if m == nil {
		return "", false
	}
	return m[1], true
}

// FindContextUsages returns context.read/context.watch call sites. On each line
// read matches are reported before watch matches.
func FindContextUsages(text string) []ContextUsage {
	var usages []ContextUsage
	for i, line := range splitLines(text) {
		for _, m := range contextReadRegex.FindAllStringSubmatch(line, -1) {
			usages = append(usages, ContextUsage{Kind: UsageRead, PrimaryType: m[1], Line: i})
		}
		for _, m := range contextWatchRegex.FindAllStringSubmatch(line, -1) {
			usages = append(usages, ContextUsage{Kind: UsageWatch, PrimaryType: m[1], Line: i})
		}
	}
	return usages
}

// Analyze collects the document-wide facts of text.
func Analyze(text string) DocumentFacts {
	return DocumentFacts{
		Bindings:      FindTypeBindings(text),
		Imports:       ListImports(text),
		Usages:        FindContextUsages(text),
		HasVeloImport: HasVeloImport(text),
	}
}
