package passage

import (
	"testing"

	"github.com/jonathan/lifeofword/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func verses(items []types.ParsedItem) []types.Verse {
	var out []types.Verse
	for _, item := range items {
		if v, ok := item.(types.Verse); ok {
			out = append(out, v)
		}
	}
	return out
}

func TestParse_BasicVerses(t *testing.T) {
	items := Parse("[1]In the beginning [2]And the earth", "Genesis 1:1-2")

	require.Len(t, items, 3)
	assert.Equal(t, types.Chapter{Label: "1장"}, items[0])
	assert.Equal(t, types.Verse{Ref: "1", Text: "In the beginning", Chapter: 1, Number: 1}, items[1])
	assert.Equal(t, types.Verse{Ref: "2", Text: "And the earth", Chapter: 1, Number: 2}, items[2])
}

func TestParse_EmptyInput(t *testing.T) {
	for _, raw := range []string{"", "   \n\t "} {
		items := Parse(raw, "Genesis 1:1")
		require.Len(t, items, 1)
		assert.Equal(t, types.Verse{Ref: "Genesis 1:1", Text: NoPassageMessage}, items[0])
	}
}

func TestParse_NoTokens(t *testing.T) {
	items := Parse("  In the beginning\n\n God created  ", "Genesis 3")

	require.Len(t, items, 1)
	assert.Equal(t, types.Verse{Ref: "Genesis 3", Text: "In the beginning God created", Chapter: 3}, items[0])
}

func TestParse_DiscardsLeadingBoilerplate(t *testing.T) {
	raw := "Genesis 1:1-3\n\n  [1] In the beginning, God created the heavens and the earth.\n\n  [2] The earth was without form and void,\n and darkness was over the face of the deep.  (ESV)"
	items := Parse(raw, "Genesis 1:1-2")

	vs := verses(items)
	require.Len(t, vs, 2)
	assert.Equal(t, "In the beginning, God created the heavens and the earth.", vs[0].Text)
	assert.Equal(t, "The earth was without form and void, and darkness was over the face of the deep. (ESV)", vs[1].Text)
}

func TestParse_ExplicitChapterLabels(t *testing.T) {
	raw := "[1:30] And to every beast [31] And God saw [2:1] Thus the heavens [2] And on the seventh day"
	items := Parse(raw, "Genesis 1:30-2:2")

	require.Len(t, items, 6)
	assert.Equal(t, types.NewChapter(1), items[0])
	assert.Equal(t, types.Verse{Ref: "1:30", Text: "And to every beast", Chapter: 1, Number: 30}, items[1])
	assert.Equal(t, types.Verse{Ref: "31", Text: "And God saw", Chapter: 1, Number: 31}, items[2])
	assert.Equal(t, types.NewChapter(2), items[3])
	assert.Equal(t, types.Verse{Ref: "2:1", Text: "Thus the heavens", Chapter: 2, Number: 1}, items[4])
	assert.Equal(t, types.Verse{Ref: "2", Text: "And on the seventh day", Chapter: 2, Number: 2}, items[5])
}

func TestParse_ExplicitLabelSameChapterNoMarker(t *testing.T) {
	items := Parse("[3:1] Now the serpent [2] And the woman", "Genesis 3:1-2")

	require.Len(t, items, 3)
	assert.Equal(t, types.NewChapter(3), items[0])
	assert.Equal(t, 3, items[1].(types.Verse).Chapter)
}

func TestParse_ChapterRolloverHeuristic(t *testing.T) {
	items := Parse("[30] verse thirty [31] verse thirty-one [1] next chapter [2] second", "Genesis 1:30-2:2")

	require.Len(t, items, 6)
	assert.Equal(t, types.NewChapter(1), items[0])
	assert.Equal(t, types.NewChapter(2), items[3])
	assert.Equal(t, types.Verse{Ref: "1", Text: "next chapter", Chapter: 2, Number: 1}, items[4])
	assert.Equal(t, 2, items[5].(types.Verse).Chapter)
}

// A translation that repeats label "1" inside a chapter is misread as a new
// chapter. This documents the assumption rather than guarding against it.
func TestParse_ChapterRolloverAssumption(t *testing.T) {
	items := Parse("[1] first [2] second [1] repeated", "Psalms 3")

	vs := verses(items)
	require.Len(t, vs, 3)
	assert.Equal(t, 3, vs[1].Chapter)
	assert.Equal(t, 4, vs[2].Chapter)
}

func TestParse_FirstVerseOneDoesNotRollOver(t *testing.T) {
	items := Parse("[1] first [2] second", "Exodus 6")

	require.Len(t, items, 3)
	assert.Equal(t, types.NewChapter(6), items[0])
	assert.Equal(t, 6, items[1].(types.Verse).Chapter)
}

func TestParse_NoStartChapter(t *testing.T) {
	items := Parse("[1] first [2] second [1] third", "Genesis")

	// No starting chapter: no markers and no rollover.
	require.Len(t, items, 3)
	for _, item := range items {
		v, ok := item.(types.Verse)
		require.True(t, ok)
		assert.Equal(t, 0, v.Chapter)
	}
}

func TestParse_SkipsEmptyVerseText(t *testing.T) {
	items := Parse("[1]   [2] only this", "Genesis 1:1-2")

	vs := verses(items)
	require.Len(t, vs, 1)
	assert.Equal(t, "2", vs[0].Ref)
}

func TestParse_UnparsableVerseNumber(t *testing.T) {
	items := Parse("[99999999999999999999] too big", "Genesis 1")

	vs := verses(items)
	require.Len(t, vs, 1)
	assert.Equal(t, 0, vs[0].Number)
	assert.Equal(t, 1, vs[0].Chapter)
}
