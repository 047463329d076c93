package document

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLines(t *testing.T) {
	doc := New("first\nsecond\r\n\nlast")

	assert.Equal(t, 4, doc.LineCount())
	assert.Equal(t, "first", doc.Line(0))
	assert.Equal(t, "second", doc.Line(1))
	assert.Equal(t, "", doc.Line(2))
	assert.Equal(t, "last", doc.Line(3))
	assert.Equal(t, "", doc.Line(4))
	assert.Equal(t, "", doc.Line(-1))
}

func TestOffset(t *testing.T) {
	doc := New("ab\ncd")

	tests := []struct {
		name string
		pos  Position
		want int
	}{
		{"origin", Position{0, 0}, 0},
		{"mid line", Position{0, 1}, 1},
		{"second line", Position{1, 1}, 4},
		{"clamp character", Position{0, 10}, 2},
		{"clamp line", Position{5, 0}, 5},
		{"negative line", Position{-1, 3}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, doc.Offset(tt.pos))
		})
	}
}

func TestOffsetCountsUTF16Units(t *testing.T) {
	// "é" is one UTF-16 unit, the emoji two.
	doc := New("é😀x")

	assert.Equal(t, len("é"), doc.Offset(Position{0, 1}))
	assert.Equal(t, len("é😀"), doc.Offset(Position{0, 3}))
	assert.Equal(t, "x", doc.TextInRange(Range{Start: Position{0, 3}, End: Position{0, 4}}))
}

func TestTextInRange(t *testing.T) {
	doc := New("\nclass CounterVelo extends Velo<CounterState> {}\nContainer()\n")

	got := doc.TextInRange(Range{Start: Position{2, 0}, End: Position{2, 11}})
	assert.Equal(t, "Container()", got)

	got = doc.TextInRange(Range{Start: Position{2, 11}, End: Position{2, 0}})
	assert.Equal(t, "Container()", got)

	got = doc.TextInRange(Range{Start: Position{0, 0}, End: Position{0, 0}})
	assert.Empty(t, got)
}

func TestLineRange(t *testing.T) {
	doc := New("import 'a.dart';\nvoid main() {}")

	assert.Equal(t, Range{Start: Position{1, 0}, End: Position{1, 14}}, doc.LineRange(1))
}
