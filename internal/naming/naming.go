// Package naming converts identifiers and derives file locations for
// generated Dart sources.
package naming

import (
	"errors"
	"path/filepath"
	"regexp"
	"strings"
)

// DefaultExtension is appended to generated file names.
const DefaultExtension = ".dart"

// ErrNoTargetDirectory is returned when no directory can be derived for new files.
var ErrNoTargetDirectory = errors.New("No target directory found")

var (
	pascalRegex    = regexp.MustCompile(`^[A-Z][a-zA-Z0-9]*$`)
	separatorRegex = regexp.MustCompile(`[-_\s]`)
	upperRegex     = regexp.MustCompile(`([A-Z])`)
)

// ToPascalCase converts snake, kebab or space separated input to PascalCase.
// Input that is already PascalCase is returned unchanged.
func ToPascalCase(input string) string {
	if pascalRegex.MatchString(input) {
		return input
	}
	var b strings.Builder
	for _, word := range separatorRegex.Split(input, -1) {
		if word == "" {
			continue
		}
		b.WriteString(strings.ToUpper(word[:1]))
		b.WriteString(strings.ToLower(word[1:]))
	}
	return b.String()
}

// ToSnakeCase converts PascalCase or camelCase input to snake_case.
func ToSnakeCase(input string) string {
	s := strings.ToLower(upperRegex.ReplaceAllString(input, "_$1"))
	return strings.TrimPrefix(s, "_")
}

// FilePath returns dir joined with the snake_case form of name plus ext.
// An empty ext selects DefaultExtension.
func FilePath(dir, name, ext string) string {
	if ext == "" {
		ext = DefaultExtension
	}
	return filepath.Join(dir, ToSnakeCase(name)+ext)
}

// RelativeImport returns the slash-separated path of to relative to the
// directory containing from.
func RelativeImport(from, to string) (string, error) {
	rel, err := filepath.Rel(filepath.Dir(from), to)
	if err != nil {
		return "", err
	}
	return filepath.ToSlash(rel), nil
}

// TargetDirectory picks the directory new files go to: the explicit directory,
// else the directory of the active file, else the workspace root.
func TargetDirectory(explicit, activeFile, workspaceRoot string) (string, error) {
	switch {
	case explicit != "":
		return explicit, nil
	case activeFile != "":
		return filepath.Dir(activeFile), nil
	case workspaceRoot != "":
		return workspaceRoot, nil
	}
	return "", ErrNoTargetDirectory
}
