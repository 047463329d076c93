package actions

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mehmetkoksal-w/velo-assist/internal/document"
)

func labels(candidates []Candidate) []string {
	out := make([]string, 0, len(candidates))
	for _, c := range candidates {
		out = append(out, c.Label)
	}
	return out
}

func wholeRange(doc *document.Document) document.Range {
	last := doc.LineCount() - 1
	return document.Range{End: document.Position{Line: last, Character: len(doc.Line(last))}}
}

func TestProposeEmptySelection(t *testing.T) {
	p := NewProposer("", "")

	doc := document.New("")
	assert.Empty(t, p.Propose(doc, document.Range{}))

	doc = document.New("  \n\t  \n")
	assert.Empty(t, p.Propose(doc, wholeRange(doc)))
}

func TestProposeWrapActions(t *testing.T) {
	content := "\nclass CounterVelo extends Velo<CounterState> {}\nContainer()\n      "
	doc := document.New(content)
	r := document.Range{Start: document.Position{Line: 2}, End: document.Position{Line: 2, Character: 11}}

	got := NewProposer("", "").Propose(doc, r)

	assert.Equal(t, []string{
		LabelWrapBuilder,
		LabelWrapListener,
		LabelWrapConsumer,
		LabelWrapProvider,
	}, labels(got))
	assert.Contains(t, got[0].Replacement, "VeloBuilder<CounterVelo, CounterState>(")
	assert.Contains(t, got[0].Replacement, "return Container();")
	assert.True(t, got[0].Preferred)
	assert.Contains(t, got[3].Replacement, "create: (_) => CounterVelo(),")
	for _, c := range got {
		assert.Equal(t, KindWrap, c.Kind)
	}
}

func TestProposeFallsBackToDefaults(t *testing.T) {
	doc := document.New("count + 1")

	got := NewProposer("", "").Propose(doc, wholeRange(doc))

	require.Len(t, got, 4)
	assert.Contains(t, got[0].Replacement, "VeloBuilder<MyNotifier, MyState>(")
	assert.False(t, got[0].Preferred)

	got = NewProposer("AppNotifier", "AppState").Propose(doc, wholeRange(doc))
	assert.Contains(t, got[1].Replacement, "VeloListener<AppNotifier, AppState>(")
}

func TestProposeConversions(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
		absent  []string
	}{
		{
			name:    "builder",
			content: "VeloBuilder<CounterVelo, CounterState>(\n  builder: (context, state) => Container(),\n)",
			want:    LabelToConsumer,
			absent:  []string{LabelToBuilder, LabelToMultiProvider},
		},
		{
			name:    "consumer",
			content: "VeloConsumer<CounterVelo, CounterState>(\n  listener: (context, state) {},\n  builder: (context, state) => Container(),\n)",
			want:    LabelToBuilder,
			absent:  []string{LabelToConsumer, LabelToMultiProvider},
		},
		{
			name:    "provider",
			content: "Provider<CounterVelo>(\n  create: (_) => CounterVelo(),\n  child: MyWidget(),\n)",
			want:    LabelToMultiProvider,
			absent:  []string{LabelToConsumer, LabelToBuilder},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := document.New(tt.content)

			got := labels(NewProposer("", "").Propose(doc, wholeRange(doc)))

			require.Len(t, got, 5)
			assert.Equal(t, tt.want, got[4])
			for _, label := range tt.absent {
				assert.NotContains(t, got, label)
			}
		})
	}
}

func TestProposeSkipsMultiProvider(t *testing.T) {
	doc := document.New("MultiProvider(providers: [Provider<A>(create: (_) => A())], child: B())")

	got := labels(NewProposer("", "").Propose(doc, wholeRange(doc)))

	assert.NotContains(t, got, LabelToMultiProvider)
}

func TestProposeConversionReplacement(t *testing.T) {
	content := "VeloConsumer<CounterVelo, CounterState>(\n  listener: (context, state) {\n    // Some listener logic\n  },\n  builder: (context, state) {\n    return Container();\n  },\n)"
	doc := document.New(content)

	got := NewProposer("", "").Propose(doc, wholeRange(doc))

	require.Len(t, got, 5)
	assert.Equal(t, KindConvert, got[4].Kind)
	assert.NotContains(t, got[4].Replacement, "listener:")
	assert.Contains(t, got[4].Replacement, "VeloBuilder<CounterVelo, CounterState>(")
}
