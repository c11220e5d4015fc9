// Package reference parses human reading references such as "Genesis 1-10".
package reference

import (
	"regexp"
	"strconv"
	"strings"
)

// Parsed is the result of parsing a reference. A zero StartChapter or
// EndChapter means the range could not be parsed and the reference must be
// rejected by the caller.
type Parsed struct {
	BookName     string `json:"book_name"`
	StartChapter int    `json:"start_chapter"`
	EndChapter   int    `json:"end_chapter"`
}

// Valid reports whether both chapter bounds were resolved.
func (p Parsed) Valid() bool {
	return p.StartChapter > 0 && p.EndChapter > 0
}

// rangeStart matches the whitespace before the first number so that ordinal
// book prefixes ("1 Samuel") stay part of the name.
var rangeStart = regexp.MustCompile(`\s+\d.*$`)

// Parse splits "<BookName> <start>[-<end>]" into book name and chapter range.
// start and end may carry a ":verse" suffix, which is ignored. A bare book
// name means chapter 1.
func Parse(reference string) Parsed {
	bookName := strings.TrimSpace(rangeStart.ReplaceAllString(reference, ""))
	rangePart := strings.TrimSpace(strings.TrimPrefix(strings.TrimLeft(reference, " \t\r\n"), bookName))

	if rangePart == "" {
		return Parsed{BookName: bookName, StartChapter: 1, EndChapter: 1}
	}

	parts := strings.Split(rangePart, "-")
	startRaw := parts[0]
	endRaw := ""
	if len(parts) > 1 {
		endRaw = parts[1]
	}

	start := chapterOf(startRaw)
	end := chapterOf(endRaw)
	if end == 0 {
		end = start
	}

	return Parsed{BookName: bookName, StartChapter: start, EndChapter: end}
}

// chapterOf parses the chapter part of "chapter[:verse]"; 0 when not a positive number.
func chapterOf(part string) int {
	chapter, _, _ := strings.Cut(part, ":")
	n, err := strconv.Atoi(strings.TrimSpace(chapter))
	if err != nil || n < 0 {
		return 0
	}
	return n
}

var trailingRange = regexp.MustCompile(`(\d+)(?::\d+)?(?:\s*[-–]\s*\d+(?::\d+)?)?\s*$`)

// StartChapter returns the first chapter of the range at the end of a
// reference ("Genesis 1:1-2" -> 1, "1 Samuel 3" -> 3), or 0 if there is none.
func StartChapter(reference string) int {
	m := trailingRange.FindStringSubmatch(reference)
	if m == nil {
		return 0
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return 0
	}
	return n
}
