// Package document holds editor text with LSP-style positions.
//
// Characters are counted in UTF-16 code units, the default position encoding
// of the Language Server Protocol.
package document

import (
	"strings"
	"unicode/utf16"
	"unicode/utf8"
)

// Position is a zero-based line and UTF-16 character offset.
type Position struct {
	Line      int `json:"line"`
	Character int `json:"character"`
}

// Range is a half-open span between two positions.
type Range struct {
	Start Position `json:"start"`
	End   Position `json:"end"`
}

// Document is an immutable snapshot of a text buffer.
type Document struct {
	text       string
	lineStarts []int
}

// New indexes text for position lookups.
func New(text string) *Document {
	starts := []int{0}
	for i := 0; i < len(text); i++ {
		if text[i] == '\n' {
			starts = append(starts, i+1)
		}
	}
	return &Document{text: text, lineStarts: starts}
}

// Text returns the full document text.
func (d *Document) Text() string {
	return d.text
}

// LineCount returns the number of lines, counting a trailing empty line.
func (d *Document) LineCount() int {
	return len(d.lineStarts)
}

// Line returns line i without its terminator, or "" when out of range.
func (d *Document) Line(i int) string {
	if i < 0 || i >= len(d.lineStarts) {
		return ""
	}
	end := len(d.text)
	if i+1 < len(d.lineStarts) {
		end = d.lineStarts[i+1] - 1
	}
	return strings.TrimSuffix(d.text[d.lineStarts[i]:end], "\r")
}

// Offset converts p to a byte offset. Positions past the end of a line clamp
// to the line end; lines past the end of the document clamp to the text end.
func (d *Document) Offset(p Position) int {
	if p.Line < 0 {
		return 0
	}
	if p.Line >= len(d.lineStarts) {
		return len(d.text)
	}
	start := d.lineStarts[p.Line]
	end := len(d.text)
	if p.Line+1 < len(d.lineStarts) {
		end = d.lineStarts[p.Line+1] - 1
	}

	units := 0
	for i := start; i < end; {
		if units >= p.Character {
			return i
		}
		r, size := utf8.DecodeRuneInString(d.text[i:end])
		if n := utf16.RuneLen(r); n > 0 {
			units += n
		} else {
			units++
		}
		i += size
	}
	return end
}

// TextInRange returns the text between r.Start and r.End. A reversed range is
// normalized.
func (d *Document) TextInRange(r Range) string {
	start, end := d.Offset(r.Start), d.Offset(r.End)
	if start > end {
		start, end = end, start
	}
	return d.text[start:end]
}

// LineRange spans the whole of line i.
func (d *Document) LineRange(i int) Range {
	return Range{
		Start: Position{Line: i},
		End:   Position{Line: i, Character: utf16Len(d.Line(i))},
	}
}

func utf16Len(s string) int {
	n := 0
	for _, r := range s {
		if l := utf16.RuneLen(r); l > 0 {
			n += l
		} else {
			n++
		}
	}
	return n
}
