package analysis

import (
	"regexp"
	"strings"
)

var (
	classOpenRegex  = regexp.MustCompile(`^class\s+(\w+)`)
	finalFieldRegex = regexp.MustCompile(`final\s+(\w+(?:\?|<[^>]*>)*)\s+(\w+);`)
	methodRegex     = regexp.MustCompile(`(Future<.*?>|void)\s+(\w+)\s*\([^)]*\)\s*(?:async\s*)?\{`)
)

// scanState is the position of the property scanner relative to the target class.
type scanState int

const (
	scanOutside scanState = iota
	scanInsideTarget
)

// propertyScanner walks lines and collects final fields of one state class.
type propertyScanner struct {
	className string
	opening   string
	state     scanState
	props     []Property
}

func newPropertyScanner(className string) *propertyScanner {
	return &propertyScanner{
		className: className,
		opening:   "class " + className + " extends " + EquatableBase,
	}
}

func (s *propertyScanner) feed(line string) {
	switch s.state {
	case scanOutside:
		if strings.Contains(line, s.opening) {
			s.state = scanInsideTarget
		}
	case scanInsideTarget:
		if m := classOpenRegex.FindStringSubmatch(line); m != nil && m[1] != s.className {
			s.state = scanOutside
			return
		}
		if m := finalFieldRegex.FindStringSubmatch(line); m != nil {
			s.props = append(s.props, Property{Type: m[1], Name: m[2]})
		}
	}
}

// FindStateProperties returns the final fields declared in the Equatable class
// named className. The class is considered closed when a line starts another
// class declaration with a different name; nested classes are not told apart.
func FindStateProperties(text, className string) []Property {
	scanner := newPropertyScanner(className)
	for _, line := range splitLines(text) {
		scanner.feed(line)
	}
	return scanner.props
}

// FindMethods returns the void and Future methods declared in the notifier
// class named className, excluding its constructor. A method signature must
// fit on one line; Future type arguments may nest.
func FindMethods(text, className string) []Method {
	anchor, err := regexp.Compile(`class\s+` + regexp.QuoteMeta(className) + `\s+extends\s+Velo<[^>]+>\s*\{`)
	if err != nil {
		return nil
	}
	loc := anchor.FindStringIndex(text)
	if loc == nil {
		return nil
	}
	body := blockBody(text, loc[1])

	var methods []Method
	for _, m := range methodRegex.FindAllStringSubmatch(body, -1) {
		if m[2] == className {
			continue
		}
		methods = append(methods, Method{
			Name:  m[2],
			Async: strings.HasPrefix(m[1], FuturePrefix),
		})
	}
	return methods
}

// blockBody returns the text from start up to the brace closing the block that
// was opened just before start. Unbalanced input runs to the end of text.
func blockBody(text string, start int) string {
	depth := 1
	for i := start; i < len(text); i++ {
		switch text[i] {
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return text[start:i]
			}
		}
	}
	return text[start:]
}
