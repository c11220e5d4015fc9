package types

import (
	"encoding/json"
	"strconv"
)

// ItemKind tags the variants of a display item.
type ItemKind string

const (
	// KindChapter marks a chapter heading.
	KindChapter ItemKind = "chapter"
	// KindVerse marks a verse entry.
	KindVerse ItemKind = "verse"
)

// ParsedItem is produced by the passage tokenizer: either a Chapter or a Verse.
type ParsedItem interface {
	Kind() ItemKind
	parsedItem()
}

// MergedItem is produced by the segment assembler: either a Chapter or a MergedVerse.
type MergedItem interface {
	Kind() ItemKind
	mergedItem()
}

// ChapterLabel renders the heading shown for a chapter, e.g. "3장".
func ChapterLabel(chapter int) string {
	return strconv.Itoa(chapter) + "장"
}

// Chapter is a synthetic heading inserted before the first verse of a chapter.
type Chapter struct {
	Label string
}

// NewChapter returns the heading for a chapter number.
func NewChapter(chapter int) Chapter {
	return Chapter{Label: ChapterLabel(chapter)}
}

// Kind implements ParsedItem and MergedItem.
func (Chapter) Kind() ItemKind { return KindChapter }
func (Chapter) parsedItem()    {}
func (Chapter) mergedItem()    {}

// MarshalJSON adds the variant tag.
func (c Chapter) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type  ItemKind `json:"type"`
		Label string   `json:"label"`
	}{KindChapter, c.Label})
}

// Verse is one verse of translated text. Chapter and Number are 0 when
// they could not be resolved from the passage.
type Verse struct {
	Ref     string
	Text    string
	Chapter int
	Number  int
}

// Kind implements ParsedItem.
func (Verse) Kind() ItemKind { return KindVerse }
func (Verse) parsedItem()    {}

// MarshalJSON adds the variant tag.
func (v Verse) MarshalJSON() ([]byte, error) {
	return json.Marshal(verseJSON{
		Type:           KindVerse,
		Ref:            v.Ref,
		TranslatedText: v.Text,
		Chapter:        optionalInt(v.Chapter),
		Verse:          optionalInt(v.Number),
	})
}

// MergedVerse is a Verse joined with the local corpus text. LocalText is empty
// when the corpus has no matching key. Fallback is set when the translated text
// is a placeholder because the remote service was unavailable.
type MergedVerse struct {
	Verse     Verse
	LocalText string
	Fallback  bool
}

// Kind implements MergedItem.
func (MergedVerse) Kind() ItemKind { return KindVerse }
func (MergedVerse) mergedItem()    {}

// MarshalJSON adds the variant tag and always emits local_text.
func (m MergedVerse) MarshalJSON() ([]byte, error) {
	local := m.LocalText
	return json.Marshal(verseJSON{
		Type:           KindVerse,
		Ref:            m.Verse.Ref,
		TranslatedText: m.Verse.Text,
		Chapter:        optionalInt(m.Verse.Chapter),
		Verse:          optionalInt(m.Verse.Number),
		LocalText:      &local,
		IsFallback:     m.Fallback,
	})
}

type verseJSON struct {
	Type           ItemKind `json:"type"`
	Ref            string   `json:"ref"`
	TranslatedText string   `json:"translated_text"`
	Chapter        *int     `json:"chapter"`
	Verse          *int     `json:"verse"`
	LocalText      *string  `json:"local_text,omitempty"`
	IsFallback     bool     `json:"is_fallback,omitempty"`
}

func optionalInt(n int) *int {
	if n == 0 {
		return nil
	}
	return &n
}

// SegmentResult is the merged rendering of one plan segment.
type SegmentResult struct {
	Title string       `json:"title"`
	Query string       `json:"query"`
	Items []MergedItem `json:"items"`
}

// VerseCount returns the number of verse items in the result.
func (r *SegmentResult) VerseCount() int {
	n := 0
	for _, item := range r.Items {
		if item.Kind() == KindVerse {
			n++
		}
	}
	return n
}
