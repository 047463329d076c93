// Package convert rewrites recognized Velo widget snippets from one shape to
// another. Every rewrite returns its input unchanged when the source shape is
// not found.
package convert

import (
	"regexp"
	"strings"
)

var (
	builderRegex  = regexp.MustCompile(`VeloBuilder<([^>]+)>\s*\(\s*builder:\s*\(([^)]+)\)\s*\{`)
	listenerRegex = regexp.MustCompile(`(?s)listener:\s*\([^)]+\)\s*\{[^}]*\},?\s*`)
	providerRegex = regexp.MustCompile(`Provider<([^>]+)>\s*\(`)
	childRegex    = regexp.MustCompile(`child:\s*([^,}\n]+)`)
)

const consumerReplacement = "VeloConsumer<$1>(\n" +
	"  listener: ($2) {\n" +
	"    // TODO: Add your listener logic here\n" +
	"  },\n" +
	"  builder: ($2) {"

// BuilderToConsumer turns the first VeloBuilder opening into a VeloConsumer
// opening with an empty listener callback.
func BuilderToConsumer(text string) string {
	loc := builderRegex.FindStringSubmatchIndex(text)
	if loc == nil {
		return text
	}
	var out []byte
	out = append(out, text[:loc[0]]...)
	out = builderRegex.ExpandString(out, consumerReplacement, text, loc)
	out = append(out, text[loc[1]:]...)
	return string(out)
}

// ConsumerToBuilder renames the first VeloConsumer to VeloBuilder and drops the
// first listener argument. The listener body must not contain a closing brace.
func ConsumerToBuilder(text string) string {
	text = strings.Replace(text, "VeloConsumer", "VeloBuilder", 1)
	loc := listenerRegex.FindStringIndex(text)
	if loc == nil {
		return text
	}
	return text[:loc[0]] + text[loc[1]:]
}

// ProviderToMultiProvider moves the first Provider into the providers list of a
// MultiProvider whose child is the provider's child argument.
func ProviderToMultiProvider(text string) string {
	m := providerRegex.FindStringSubmatchIndex(text)
	if m == nil {
		return text
	}
	end, ok := closingParen(text, m[1])
	if !ok {
		return text
	}

	typ := text[m[2]:m[3]]
	args := strings.ReplaceAll(text[m[1]:end], "\n", "\n    ")

	child := "child"
	if cm := childRegex.FindStringSubmatch(text); cm != nil {
		child = strings.TrimSpace(cm[1])
	}

	var b strings.Builder
	b.WriteString("MultiProvider(\n")
	b.WriteString("  providers: [\n")
	b.WriteString("    Provider<" + typ + ">(" + args + "),\n")
	b.WriteString("  ],\n")
	b.WriteString("  child: " + child + ",\n")
	b.WriteString(")")
	return b.String()
}

// closingParen returns the index of the parenthesis closing the one opened just
// before start.
func closingParen(text string, start int) (int, bool) {
	depth := 1
	for i := start; i < len(text); i++ {
		switch text[i] {
		case '(':
			depth++
		case ')':
			depth--
			if depth == 0 {
				return i, true
			}
		}
	}
	return 0, false
}
