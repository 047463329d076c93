// Package actions proposes wrap and convert edits for a selection in a Dart
// document.
package actions

import (
	"strings"

	"github.com/mehmetkoksal-w/velo-assist/internal/analysis"
	"github.com/mehmetkoksal-w/velo-assist/internal/convert"
	"github.com/mehmetkoksal-w/velo-assist/internal/document"
	"github.com/mehmetkoksal-w/velo-assist/internal/templates"
)

// Candidate labels.
const (
	LabelWrapBuilder     = "Wrap with VeloBuilder"
	LabelWrapListener    = "Wrap with VeloListener"
	LabelWrapConsumer    = "Wrap with VeloConsumer"
	LabelWrapProvider    = "Wrap with Provider"
	LabelToConsumer      = "Convert to VeloConsumer"
	LabelToBuilder       = "Convert to VeloBuilder"
	LabelToMultiProvider = "Convert to MultiProvider"
)

// Fallback type names for documents without a binding.
const (
	DefaultPrimaryType = "MyNotifier"
	DefaultStateType   = "MyState"
)

const (
	veloBuilderToken     = "VeloBuilder"
	veloConsumerToken    = "VeloConsumer"
	providerGenericToken = "Provider<"
	multiProviderToken   = "MultiProvider"
)

// CandidateKind classifies a candidate edit.
type CandidateKind string

const (
	KindWrap    CandidateKind = "wrap"
	KindConvert CandidateKind = "convert"
)

// Candidate is one proposed replacement for the selected range.
type Candidate struct {
	Label       string        `json:"label"`
	Replacement string        `json:"replacement"`
	Kind        CandidateKind `json:"kind"`
	Preferred   bool          `json:"preferred,omitempty"`
}

// Document is the read side of an editor buffer.
type Document interface {
	Text() string
	TextInRange(r document.Range) string
}

// Defaults are the type names used when the document declares no binding.
type Defaults struct {
	PrimaryType string
	StateType   string
}

// Proposer builds candidates from the selected text.
type Proposer struct {
	Defaults Defaults
}

// NewProposer returns a Proposer with the given fallback names. Empty names
// fall back to MyNotifier and MyState.
func NewProposer(primaryType, stateType string) *Proposer {
	if primaryType == "" {
		primaryType = DefaultPrimaryType
	}
	if stateType == "" {
		stateType = DefaultStateType
	}
	return &Proposer{Defaults: Defaults{PrimaryType: primaryType, StateType: stateType}}
}

// Propose returns the candidates for range r of doc: four wrap candidates
// followed by the conversions the selection qualifies for. An empty or
// whitespace-only selection yields nil.
func (p *Proposer) Propose(doc Document, r document.Range) []Candidate {
	selection := strings.TrimSpace(doc.TextInRange(r))
	if selection == "" {
		return nil
	}

	primary, state := p.typesFor(doc.Text())

	candidates := []Candidate{
		{
			Label:       LabelWrapBuilder,
			Replacement: templates.Wrap(templates.WrapBuilder, selection, primary, state),
			Kind:        KindWrap,
			Preferred:   analysis.LooksLikeWidget(selection),
		},
		{
			Label:       LabelWrapListener,
			Replacement: templates.Wrap(templates.WrapListener, selection, primary, state),
			Kind:        KindWrap,
		},
		{
			Label:       LabelWrapConsumer,
			Replacement: templates.Wrap(templates.WrapConsumer, selection, primary, state),
			Kind:        KindWrap,
		},
		{
			Label:       LabelWrapProvider,
			Replacement: templates.Provider(selection, primary),
			Kind:        KindWrap,
		},
	}

	if strings.Contains(selection, veloBuilderToken) {
		candidates = append(candidates, Candidate{
			Label:       LabelToConsumer,
			Replacement: convert.BuilderToConsumer(selection),
			Kind:        KindConvert,
		})
	}
	if strings.Contains(selection, veloConsumerToken) {
		candidates = append(candidates, Candidate{
			Label:       LabelToBuilder,
			Replacement: convert.ConsumerToBuilder(selection),
			Kind:        KindConvert,
		})
	}
	if strings.Contains(selection, providerGenericToken) && !strings.Contains(selection, multiProviderToken) {
		candidates = append(candidates, Candidate{
			Label:       LabelToMultiProvider,
			Replacement: convert.ProviderToMultiProvider(selection),
			Kind:        KindConvert,
		})
	}

	return candidates
}

// typesFor picks the first binding found in text, else the defaults.
func (p *Proposer) typesFor(text string) (string, string) {
	if bindings := analysis.FindTypeBindings(text); len(bindings) > 0 {
		return bindings[0].PrimaryType, bindings[0].StateType
	}
	primary, state := p.Defaults.PrimaryType, p.Defaults.StateType
	if primary == "" {
		primary = DefaultPrimaryType
	}
	if state == "" {
		state = DefaultStateType
	}
	return primary, state
}
