package prompt

import (
	"regexp"
	"strings"

	"github.com/mehmetkoksal-w/velo-assist/internal/templates"
)

// Validation messages shown to the user.
const (
	MsgNameRequired     = "Name is required"
	MsgNotifierName     = `Name must be PascalCase and end with "Notifier"`
	MsgStateName        = `Name must be PascalCase and end with "State"`
	MsgBaseName         = "Name must be PascalCase and start with uppercase letter"
	MsgTestName         = "Name must be snake_case and start with lowercase letter"
	MsgPropertyFormat   = `Invalid format. Use "name:type" or "name:type:defaultValue"`
	propertySeparator   = ":"
	maxPropertySegments = 3
)

var (
	notifierNameRegex = regexp.MustCompile(`^[A-Z][a-zA-Z0-9]*Notifier$`)
	stateNameRegex    = regexp.MustCompile(`^[A-Z][a-zA-Z0-9]*State$`)
	baseNameRegex     = regexp.MustCompile(`^[A-Z][a-zA-Z0-9]*$`)
	testNameRegex     = regexp.MustCompile(`^[a-z][a-z0-9_]*$`)
)

// Validator returns a message describing why value is invalid, or "" when it
// is acceptable.
type Validator func(value string) string

func nameValidator(re *regexp.Regexp, msg string) Validator {
	return func(value string) string {
		if value == "" {
			return MsgNameRequired
		}
		if !re.MatchString(value) {
			return msg
		}
		return ""
	}
}

var (
	// ValidateNotifierName accepts PascalCase names ending in Notifier.
	ValidateNotifierName = nameValidator(notifierNameRegex, MsgNotifierName)
	// ValidateStateName accepts PascalCase names ending in State.
	ValidateStateName = nameValidator(stateNameRegex, MsgStateName)
	// ValidateBaseName accepts any PascalCase name.
	ValidateBaseName = nameValidator(baseNameRegex, MsgBaseName)
	// ValidateTestName accepts snake_case names.
	ValidateTestName = nameValidator(testNameRegex, MsgTestName)
)

// ValidateProperty accepts an empty value, which ends property entry, or a
// name:type[:default] descriptor.
func ValidateProperty(value string) string {
	if value == "" {
		return ""
	}
	if _, ok := ParseProperty(value); !ok {
		return MsgPropertyFormat
	}
	return ""
}

// ParseProperty parses a name:type[:default] descriptor. The default keeps any
// further colons.
func ParseProperty(value string) (templates.Property, bool) {
	parts := strings.SplitN(value, propertySeparator, maxPropertySegments)
	if len(parts) < 2 {
		return templates.Property{}, false
	}
	p := templates.Property{
		Name: strings.TrimSpace(parts[0]),
		Type: strings.TrimSpace(parts[1]),
	}
	if len(parts) == maxPropertySegments {
		p.Default = strings.TrimSpace(parts[2])
	}
	return p, true
}
