package markdown

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToLinkedInTextFixture(t *testing.T) {
	got := ToLinkedInText("# Title\n\n- a\n- b\n\n#tag1 #tag2")

	assert.Contains(t, got, "Title")
	assert.Contains(t, got, "• a\n")
	assert.Contains(t, got, "• b\n")

	lines := strings.Split(got, "\n")
	assert.Equal(t, "#tag1 #tag2", lines[len(lines)-1])
}

func TestToLinkedInTextPlainTextIdempotent(t *testing.T) {
	in := "Just a plain sentence.\n\nAnd another paragraph."
	assert.Equal(t, in, ToLinkedInText(in))
}

func TestToLinkedInTextTrimsWhitespace(t *testing.T) {
	assert.Equal(t, "hello", ToLinkedInText("\n\n  hello  \n\n"))
}

func TestToLinkedInTextOrderedLists(t *testing.T) {
	got := ToLinkedInText("1. first\n2. second\n\nthen\n\n1. other\n2. list")

	// Numbering restarts per list.
	assert.Contains(t, got, "1. first\n2. second")
	assert.Contains(t, got, "1. other\n2. list")
}

func TestToLinkedInTextStripsInlineMarkup(t *testing.T) {
	got := ToLinkedInText("Some **bold** and *italic* and a [link](https://example.com).")
	assert.Equal(t, "Some bold and italic and a link.", got)
}

func TestToLinkedInTextCollapsesNewlines(t *testing.T) {
	got := ToLinkedInText("para one\n\n\n\n\npara two")
	assert.NotContains(t, got, "\n\n\n")
	assert.Contains(t, got, "para one")
	assert.Contains(t, got, "para two")
}

func TestToLinkedInTextHashtagsDedupedInOrder(t *testing.T) {
	got := ToLinkedInText("Intro with #go then #ai then #go again.")

	lines := strings.Split(got, "\n")
	require.NotEmpty(t, lines)
	assert.Equal(t, "#go #ai", lines[len(lines)-1])
	// Hashtag line is separated by a blank line.
	assert.Equal(t, "", lines[len(lines)-2])
}

func TestToLinkedInTextNoHashtagsNoTrailer(t *testing.T) {
	got := ToLinkedInText("nothing to see here")
	assert.Equal(t, "nothing to see here", got)
}

func TestToLinkedInTextMalformedInputDoesNotPanic(t *testing.T) {
	assert.NotPanics(t, func() {
		ToLinkedInText("[unclosed ***weird ``` <div><<>")
	})
}
