package convert

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mehmetkoksal-w/velo-assist/internal/templates"
)

func TestBuilderToConsumer(t *testing.T) {
	builder := `VeloBuilder<CounterVelo, CounterState>(
  builder: (context, state) {
    return Container();
  },
)`

	got := BuilderToConsumer(builder)

	want := `VeloConsumer<CounterVelo, CounterState>(
  listener: (context, state) {
    // TODO: Add your listener logic here
  },
  builder: (context, state) {
    return Container();
  },
)`
	assert.Equal(t, want, got)
}

func TestBuilderToConsumerNoMatch(t *testing.T) {
	tests := []string{
		"",
		"Container()",
		"VeloBuilder<A, B>(\n  builder: (context, state) => Text('x'),\n)",
	}
	for _, text := range tests {
		assert.Equal(t, text, BuilderToConsumer(text))
	}
}

func TestBuilderToConsumerRewritesFirstOnly(t *testing.T) {
	text := "VeloBuilder<A, B>(builder: (c, s) {\nVeloBuilder<C, D>(builder: (c, s) {"

	got := BuilderToConsumer(text)

	assert.Equal(t, 1, strings.Count(got, "VeloConsumer"))
	assert.Contains(t, got, "VeloBuilder<C, D>")
}

func TestConsumerToBuilder(t *testing.T) {
	consumer := `VeloConsumer<CounterVelo, CounterState>(
  listener: (context, state) {
    // Some listener logic
  },
  builder: (context, state) {
    return Container();
  },
)`

	got := ConsumerToBuilder(consumer)

	want := `VeloBuilder<CounterVelo, CounterState>(
  builder: (context, state) {
    return Container();
  },
)`
	assert.Equal(t, want, got)
	assert.NotContains(t, got, "listener:")
	assert.NotContains(t, got, "// Some listener logic")
}

func TestConsumerToBuilderWithoutListener(t *testing.T) {
	assert.Equal(t, "VeloBuilder<A, B>()", ConsumerToBuilder("VeloConsumer<A, B>()"))
	assert.Equal(t, "Container()", ConsumerToBuilder("Container()"))
}

func TestConsumerRoundTrip(t *testing.T) {
	wrapped := templates.Wrap(templates.WrapConsumer, "Container()", "CounterNotifier", "CounterState")

	got := ConsumerToBuilder(wrapped)

	assert.Contains(t, got, "VeloBuilder")
	assert.NotContains(t, got, "listener:")
	assert.Contains(t, got, "return Container();")
}

func TestBuilderRoundTrip(t *testing.T) {
	wrapped := templates.Wrap(templates.WrapBuilder, "Container()", "CounterNotifier", "CounterState")

	got := ConsumerToBuilder(BuilderToConsumer(wrapped))

	assert.Equal(t, wrapped, got)
}

func TestProviderToMultiProvider(t *testing.T) {
	provider := "Provider<CounterNotifier>(\n  create: (_) => CounterNotifier(),\n  child: MyWidget(),\n)"

	got := ProviderToMultiProvider(provider)

	want := `MultiProvider(
  providers: [
    Provider<CounterNotifier>(
      create: (_) => CounterNotifier(),
      child: MyWidget(),
    ),
  ],
  child: MyWidget(),
)`
	assert.Equal(t, want, got)
	assert.Contains(t, got, "MultiProvider(")
	assert.Contains(t, got, "providers: [")
	assert.Contains(t, got, "child: MyWidget(),")
}

func TestProviderToMultiProviderWithDispose(t *testing.T) {
	provider := templates.Provider("MyWidget()", "CounterVelo")

	got := ProviderToMultiProvider(provider)

	assert.Contains(t, got, "Provider<CounterVelo>(")
	assert.Contains(t, got, "dispose: (_, velo) => velo.dispose(),")
	assert.Contains(t, got, "child: MyWidget(),")
}

func TestProviderToMultiProviderDefaultChild(t *testing.T) {
	got := ProviderToMultiProvider("Provider<CounterNotifier>(create: (_) => CounterNotifier())")

	assert.Contains(t, got, "Provider<CounterNotifier>(create: (_) => CounterNotifier()),")
	assert.Contains(t, got, "  child: child,\n")
}

func TestProviderToMultiProviderUnchanged(t *testing.T) {
	for _, text := range []string{
		"Container()",
		"Provider<CounterNotifier>(\n  create: (_) => CounterNotifier(),\n",
	} {
		assert.Equal(t, text, ProviderToMultiProvider(text))
	}
}
