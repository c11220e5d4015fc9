// Package types provides the data structures shared across the reading pipeline:
// verse references, reading plans and the chapter/verse display items.
package types

import (
	"fmt"
	"regexp"
	"strconv"
)

// VerseRef identifies one verse within a book.
type VerseRef struct {
	Chapter int `json:"chapter"`
	Verse   int `json:"verse"`
}

// String renders the ref as "chapter:verse".
func (r VerseRef) String() string {
	return fmt.Sprintf("%d:%d", r.Chapter, r.Verse)
}

// Less orders refs by chapter, then verse.
func (r VerseRef) Less(other VerseRef) bool {
	if r.Chapter != other.Chapter {
		return r.Chapter < other.Chapter
	}
	return r.Verse < other.Verse
}

var verseKeyPattern = regexp.MustCompile(`^(\D+)(\d+):(\d+)$`)

// VerseKey builds the corpus-wide key "<bookKey><chapter>:<verse>".
func VerseKey(bookKey string, chapter, verse int) string {
	return bookKey + strconv.Itoa(chapter) + ":" + strconv.Itoa(verse)
}

// ParseVerseKey splits a corpus key into book key, chapter and verse.
// ok is false for keys that do not have the "<book><chapter>:<verse>" shape.
func ParseVerseKey(key string) (bookKey string, ref VerseRef, ok bool) {
	m := verseKeyPattern.FindStringSubmatch(key)
	if m == nil {
		return "", VerseRef{}, false
	}
	chapter, err := strconv.Atoi(m[2])
	if err != nil {
		return "", VerseRef{}, false
	}
	verse, err := strconv.Atoi(m[3])
	if err != nil {
		return "", VerseRef{}, false
	}
	return m[1], VerseRef{Chapter: chapter, Verse: verse}, true
}
