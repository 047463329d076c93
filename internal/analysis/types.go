// Package analysis recognizes Velo usage in Dart source with line-oriented
// regular expressions. It never builds a syntax tree: facts are extracted from
// the raw text of a single document and rebuilt on every call.
package analysis

// BindingSource tells where a type binding was found.
type BindingSource string

const (
	// BindingDeclaration is a `class X extends Velo<S>` declaration.
	BindingDeclaration BindingSource = "declaration"
	// BindingWidget is a `VeloBuilder<X, S>`-style widget usage.
	BindingWidget BindingSource = "widget"
)

// TypeBinding pairs a notifier type with the state type it manages.
type TypeBinding struct {
	PrimaryType string        `json:"primaryType"`
	StateType   string        `json:"stateType"`
	Line        int           `json:"line"`
	Source      BindingSource `json:"source"`
	Widget      string        `json:"widget,omitempty"`
}

// Property is a `final` field declared inside a state class.
type Property struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

// Method is a method signature found inside a notifier class body.
type Method struct {
	Name  string `json:"name"`
	Async bool   `json:"async"`
}

// UsageKind is the accessor used at a context call site.
type UsageKind string

const (
	UsageRead  UsageKind = "read"
	UsageWatch UsageKind = "watch"
)

// ContextUsage is a `context.read<T>()` or `context.watch<T>()` call site.
type ContextUsage struct {
	Kind        UsageKind `json:"kind"`
	PrimaryType string    `json:"primaryType"`
	Line        int       `json:"line"`
}

// DocumentFacts aggregates the document-wide facts for one source text.
type DocumentFacts struct {
	Bindings      []TypeBinding  `json:"bindings"`
	Imports       []string       `json:"imports"`
	Usages        []ContextUsage `json:"usages"`
	HasVeloImport bool           `json:"hasVeloImport"`
}

// MissingImport reports whether Velo types are referenced without importing the library.
func (f DocumentFacts) MissingImport() bool {
	return len(f.Bindings) > 0 && !f.HasVeloImport
}
