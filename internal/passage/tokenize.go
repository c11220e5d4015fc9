// Package passage turns remote passage text with inline "[n]" / "[c:n]" verse
// markers into chapter and verse items.
package passage

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/jonathan/lifeofword/internal/reference"
	"github.com/jonathan/lifeofword/internal/types"
)

// NoPassageMessage is the text of the single item returned for empty input.
const NoPassageMessage = "No passage returned from the API."

var verseToken = regexp.MustCompile(`\[(\d+(?::\d+)?)\]`)

// labeled is one verse marker with the text that follows it.
type labeled struct {
	label string
	text  string
}

// Parse tokenizes raw passage text. fallbackReference supplies the starting
// chapter (the first chapter of its trailing range) and the ref used when the
// text carries no markers.
//
// A bare label "1" after at least one verse is read as the start of the next
// chapter. This assumes verse numbering restarts at 1 for every chapter and
// that "1" never repeats inside a chapter.
func Parse(raw string, fallbackReference string) []types.ParsedItem {
	raw = strings.TrimSpace(raw)
	startChapter := reference.StartChapter(fallbackReference)

	if raw == "" {
		return []types.ParsedItem{
			types.Verse{Ref: fallbackReference, Text: NoPassageMessage},
		}
	}

	verses := split(raw)
	if len(verses) == 0 {
		return []types.ParsedItem{
			types.Verse{Ref: fallbackReference, Text: collapse(raw), Chapter: startChapter},
		}
	}

	items := make([]types.ParsedItem, 0, len(verses)+1)
	currentChapter := startChapter
	if currentChapter > 0 {
		items = append(items, types.NewChapter(currentChapter))
	}

	for i, v := range verses {
		chapterLabel, verseLabel, explicit := strings.Cut(v.label, ":")
		if !explicit {
			verseLabel = chapterLabel
		}
		verseNumber := atoi(verseLabel)

		switch {
		case explicit:
			if chapter := atoi(chapterLabel); chapter != currentChapter {
				currentChapter = chapter
				items = append(items, types.NewChapter(currentChapter))
			}
		case verseNumber == 1 && i > 0 && currentChapter > 0:
			currentChapter++
			items = append(items, types.NewChapter(currentChapter))
		}

		items = append(items, types.Verse{
			Ref:     v.label,
			Text:    v.text,
			Chapter: currentChapter,
			Number:  verseNumber,
		})
	}

	return items
}

// split pairs each marker with the text up to the next marker. Text before the
// first marker is dropped, as are markers followed by no text.
func split(raw string) []labeled {
	matches := verseToken.FindAllStringSubmatchIndex(raw, -1)
	verses := make([]labeled, 0, len(matches))

	for i, m := range matches {
		end := len(raw)
		if i+1 < len(matches) {
			end = matches[i+1][0]
		}
		text := collapse(raw[m[1]:end])
		if text == "" {
			continue
		}
		verses = append(verses, labeled{label: raw[m[2]:m[3]], text: text})
	}
	return verses
}

func collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// atoi returns 0 for labels that do not fit an int.
func atoi(s string) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return n
}
