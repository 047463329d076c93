package templates

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStateClassWithoutProperties(t *testing.T) {
	got := StateClass("CounterState", nil)

	assert.Contains(t, got, "import 'package:equatable/equatable.dart';")
	assert.Contains(t, got, "class CounterState extends Equatable")
	assert.Contains(t, got, "const CounterState({});")
	assert.Contains(t, got, "// TODO: Add your properties here")
	assert.Contains(t, got, "List<Object?> get props => [/* TODO: Add your properties here */];")
	assert.NotContains(t, got, "{{")
}

func TestStateClassWithProperties(t *testing.T) {
	props := []Property{
		{Name: "count", Type: "int", Default: "0"},
		{Name: "isLoading", Type: "bool", Default: "false"},
		{Name: "data", Type: "String"},
	}

	got := StateClass("CounterState", props)

	for _, want := range []string{
		"final int count;",
		"final bool isLoading;",
		"final String data;",
		"this.count = 0",
		"this.isLoading = false",
		"required this.data",
		"List<Object?> get props => [count, isLoading, data];",
		"int? count,",
		"bool? isLoading,",
		"String? data",
		"count: count ?? this.count",
		"CounterState copyWith({",
		"return CounterState(",
	} {
		assert.Contains(t, got, want)
	}
}

func TestStateClassSingleProperty(t *testing.T) {
	got := StateClass("CounterState", []Property{{Name: "count", Type: "int", Default: "0"}})

	assert.Contains(t, got, "final int count;")
	assert.Contains(t, got, "this.count = 0")
	assert.Contains(t, got, "[count]")
}

func TestStateClassNullableType(t *testing.T) {
	got := StateClass("UserState", []Property{{Name: "name", Type: "String?"}})

	assert.Contains(t, got, "String? name")
	assert.NotContains(t, got, "String?? name")
}

func TestStateClassDoesNotExpandUserText(t *testing.T) {
	got := StateClass("UserState", []Property{{Name: "tags", Type: "Map<String, int>", Default: "const {'{{className}}': 1}"}})

	assert.Contains(t, got, "this.tags = const {'{{className}}': 1}")
}

func TestNotifierClass(t *testing.T) {
	t.Run("without state import", func(t *testing.T) {
		got := NotifierClass("CounterVelo", "")

		assert.Contains(t, got, "class CounterVelo extends Velo<CounterState>")
		assert.Contains(t, got, "CounterVelo() : super(const CounterState());")
		assert.Contains(t, got, "import 'package:velo/velo.dart';")
		assert.Contains(t, got, "// TODO: Add your methods here")
		assert.Contains(t, got, "// import 'counter_state.dart';")
		assert.Contains(t, got, "// Example async method:")
	})

	t.Run("with state import", func(t *testing.T) {
		got := NotifierClass("CounterNotifier", "./counter_state.dart")

		assert.Contains(t, got, "import 'package:velo/velo.dart';")
		assert.Contains(t, got, "import './counter_state.dart';")
		assert.Contains(t, got, "class CounterNotifier extends Velo<CounterState>")
		assert.Contains(t, got, "CounterNotifier() : super(const CounterState());")
		assert.Contains(t, got, "// Example async method:")
		assert.NotContains(t, got, "// TODO: Import your state class")
	})
}

func TestStateName(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"CounterNotifier", "CounterState"},
		{"CounterVelo", "CounterState"},
		{"NotifierNotifier", "StateNotifier"},
		{"Counter", "CounterState"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, StateName(tt.in))
		})
	}
}

func TestTestFile(t *testing.T) {
	got := TestFile("counter_velo")

	assert.Contains(t, got, "import 'package:flutter_test/flutter_test.dart';")
	assert.Contains(t, got, "import 'package:velo_test/velo_test.dart';")
	assert.Contains(t, got, "group('CounterVelo', () {")
	assert.Contains(t, got, "late CounterVelo velo;")
	assert.Contains(t, got, "setUp(() {")
	assert.Contains(t, got, "tearDown(() {")
	assert.Contains(t, got, "velo.dispose();")
	assert.Contains(t, got, "// import '../lib/counter_velo.dart';")
}

func TestWrap(t *testing.T) {
	t.Run("builder", func(t *testing.T) {
		got := Wrap(WrapBuilder, "Container()", "CounterVelo", "CounterState")

		assert.True(t, strings.HasPrefix(got, "VeloBuilder<CounterVelo, CounterState>("))
		assert.Contains(t, got, "builder: (context, state) {")
		assert.Contains(t, got, "return Container();")
		assert.True(t, strings.HasSuffix(got, ")"))
	})

	t.Run("listener", func(t *testing.T) {
		got := Wrap(WrapListener, "Container()", "CounterVelo", "CounterState")

		assert.Contains(t, got, "VeloListener<CounterVelo, CounterState>(")
		assert.Contains(t, got, "listener: (context, state) {")
		assert.Contains(t, got, "child: Container(),")
	})

	t.Run("consumer", func(t *testing.T) {
		got := Wrap(WrapConsumer, "Container()", "CounterVelo", "CounterState")

		assert.Contains(t, got, "VeloConsumer<CounterVelo, CounterState>(")
		assert.Contains(t, got, "listener: (context, state) {")
		assert.Contains(t, got, "builder: (context, state) {")
		assert.Contains(t, got, "return Container();")
	})
}

func TestProvider(t *testing.T) {
	got := Provider("MyWidget()", "CounterVelo")

	assert.Contains(t, got, "Provider<CounterVelo>(")
	assert.Contains(t, got, "create: (_) => CounterVelo(),")
	assert.Contains(t, got, "dispose: (_, velo) => velo.dispose(),")
	assert.Contains(t, got, "child: MyWidget(),")
}

func TestGeneratorsAreDeterministic(t *testing.T) {
	props := []Property{{Name: "count", Type: "int", Default: "0"}, {Name: "label", Type: "String"}}
	first := StateClass("CounterState", props)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, StateClass("CounterState", props))
	}
}

func TestApply(t *testing.T) {
	got := Apply("{{a}}-{{b}}-{{a}}", map[string]string{"a": "{{b}}", "b": "x"})

	assert.Equal(t, "{{b}}-x-{{b}}", got)
}

func TestImportLine(t *testing.T) {
	assert.Equal(t, "import 'package:velo/velo.dart';", ImportLine("package:velo/velo.dart"))
}
