// Package templates generates Velo boilerplate source text.
//
// Every generator is a pure function of its arguments: shapes are embedded
// Dart templates with {{key}} placeholders filled in a single pass.
package templates

import (
	"embed"
	"fmt"
	"sort"
	"strings"

	"github.com/mehmetkoksal-w/velo-assist/internal/naming"
)

//go:embed dart/*.dart.tmpl
var templateFS embed.FS

const (
	stateClassTemplate    = "state_class"
	notifierClassTemplate = "notifier_class"
	testFileTemplate      = "test_file"
	builderTemplate       = "wrap_builder"
	listenerTemplate      = "wrap_listener"
	consumerTemplate      = "wrap_consumer"
	providerTemplate      = "wrap_provider"
)

// Property describes one field of a generated state class.
type Property struct {
	Name    string `json:"name"`
	Type    string `json:"type"`
	Default string `json:"default,omitempty"`
}

// WrapKind selects the widget a selection is wrapped in.
type WrapKind string

const (
	WrapBuilder  WrapKind = "builder"
	WrapListener WrapKind = "listener"
	WrapConsumer WrapKind = "consumer"
)

// get returns the embedded template content for name.
func get(name string) string {
	data, err := templateFS.ReadFile(fmt.Sprintf("dart/%s.dart.tmpl", name))
	if err != nil {
		// Templates are compiled into the binary; a miss is a programming error.
		panic(fmt.Sprintf("templates: missing %s: %v", name, err))
	}
	return string(data)
}

// Apply replaces {{key}} placeholders in template with the provided values.
// Keys are applied in sorted order in one pass, so values are never re-expanded.
func Apply(template string, replacements map[string]string) string {
	keys := make([]string, 0, len(replacements))
	for k := range replacements {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	pairs := make([]string, 0, 2*len(keys))
	for _, k := range keys {
		pairs = append(pairs, "{{"+k+"}}", replacements[k])
	}
	return strings.NewReplacer(pairs...).Replace(template)
}

// snippet renders a template meant to replace a selection, without the
// trailing newline of the template file.
func snippet(name string, replacements map[string]string) string {
	return strings.TrimSuffix(Apply(get(name), replacements), "\n")
}

// StateClass generates an Equatable state class with the given properties.
// copyWith parameters take the nullable form of each property type; a type
// already ending in "?" is used as is, so `String?` stays `String?` rather
// than becoming `String??`.
func StateClass(className string, props []Property) string {
	r := map[string]string{"className": className}

	if len(props) == 0 {
		r["constructorParams"] = "{}"
		r["fields"] = "  // TODO: Add your properties here"
		r["props"] = "/* TODO: Add your properties here */"
		r["copyWithParams"] = "// TODO: Add your copyWith parameters here"
		r["copyWithBody"] = "      // TODO: Add your copyWith logic here"
		return Apply(get(stateClassTemplate), r)
	}

	var params, fields, names, copyParams, copyBody []string
	for _, p := range props {
		if p.Default != "" {
			params = append(params, fmt.Sprintf("this.%s = %s", p.Name, p.Default))
		} else {
			params = append(params, "required this."+p.Name)
		}
		fields = append(fields, fmt.Sprintf("  final %s %s;", p.Type, p.Name))
		names = append(names, p.Name)
		copyParams = append(copyParams, fmt.Sprintf("%s %s", nullable(p.Type), p.Name))
		copyBody = append(copyBody, fmt.Sprintf("      %s: %s ?? this.%s", p.Name, p.Name, p.Name))
	}

	r["constructorParams"] = "{\n    " + strings.Join(params, ",\n    ") + ",\n  }"
	r["fields"] = strings.Join(fields, "\n")
	r["props"] = strings.Join(names, ", ")
	r["copyWithParams"] = strings.Join(copyParams, ",\n    ")
	r["copyWithBody"] = strings.Join(copyBody, ",\n")
	return Apply(get(stateClassTemplate), r)
}

func nullable(typ string) string {
	if strings.HasSuffix(typ, "?") {
		return typ
	}
	return typ + "?"
}

// StateName derives the state class name managed by a notifier class.
func StateName(className string) string {
	for _, marker := range []string{"Notifier", "Velo"} {
		if strings.Contains(className, marker) {
			return strings.Replace(className, marker, "State", 1)
		}
	}
	return className + "State"
}

// NotifierClass generates a notifier class. When stateImport is empty a
// commented placeholder import is emitted instead.
func NotifierClass(className, stateImport string) string {
	stateName := StateName(className)

	importLine := ImportLine(stateImport)
	if stateImport == "" {
		importLine = fmt.Sprintf("\n// TODO: Import your state class\n// import '%s.dart';", naming.ToSnakeCase(stateName))
	}

	return Apply(get(notifierClassTemplate), map[string]string{
		"className":   className,
		"stateName":   stateName,
		"stateImport": importLine,
	})
}

// TestFile generates a test scaffold for the snake_case base name testName.
func TestFile(testName string) string {
	return Apply(get(testFileTemplate), map[string]string{
		"className": testClassName(testName),
		"testName":  testName,
	})
}

func testClassName(testName string) string {
	var b strings.Builder
	for _, word := range strings.Split(testName, "_") {
		if word == "" {
			continue
		}
		b.WriteString(strings.ToUpper(word[:1]) + word[1:])
	}
	return b.String()
}

// Wrap wraps expr in the widget selected by kind.
func Wrap(kind WrapKind, expr, primaryType, stateType string) string {
	name := builderTemplate
	switch kind {
	case WrapListener:
		name = listenerTemplate
	case WrapConsumer:
		name = consumerTemplate
	}
	return snippet(name, map[string]string{
		"expr":        expr,
		"primaryType": primaryType,
		"stateType":   stateType,
	})
}

// Provider wraps expr in a Provider that creates and disposes primaryType.
func Provider(expr, primaryType string) string {
	return snippet(providerTemplate, map[string]string{
		"expr":        expr,
		"primaryType": primaryType,
	})
}

// ImportLine renders an import statement for path.
func ImportLine(path string) string {
	return fmt.Sprintf("import '%s';", path)
}
