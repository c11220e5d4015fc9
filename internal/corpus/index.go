package corpus

import (
	"slices"
	"strings"

	"github.com/jonathan/lifeofword/internal/types"
)

// Book summarizes one book of the corpus. Verse lists are sorted ascending.
type Book struct {
	VerseCount int
	Chapters   map[int][]int
}

// ChapterCount returns the number of indexed chapters.
func (b *Book) ChapterCount() int {
	return len(b.Chapters)
}

// ChapterNumbers returns the indexed chapter numbers in ascending order.
func (b *Book) ChapterNumbers() []int {
	chapters := make([]int, 0, len(b.Chapters))
	for chapter := range b.Chapters {
		chapters = append(chapters, chapter)
	}
	slices.Sort(chapters)
	return chapters
}

// Verses returns the verse numbers of a chapter, or nil if the chapter is not indexed.
func (b *Book) Verses(chapter int) []int {
	return b.Chapters[chapter]
}

// Index groups the corpus by book key and chapter. It is read-only after Build.
type Index struct {
	data   map[string]string
	books  map[string]*Book
	digest string
}

// Build indexes raw corpus data. Keys that are not shaped like
// "<bookKey><chapter>:<verse>" are skipped.
func Build(data map[string]string) *Index {
	books := make(map[string]*Book)

	for key := range data {
		bookKey, ref, ok := types.ParseVerseKey(key)
		if !ok {
			continue
		}

		book, exists := books[bookKey]
		if !exists {
			book = &Book{Chapters: make(map[int][]int)}
			books[bookKey] = book
		}
		book.VerseCount++
		book.Chapters[ref.Chapter] = append(book.Chapters[ref.Chapter], ref.Verse)
	}

	for _, book := range books {
		for _, verses := range book.Chapters {
			slices.Sort(verses)
		}
	}

	return &Index{data: data, books: books, digest: Digest(data)}
}

// Book returns the summary for a book key.
func (i *Index) Book(bookKey string) (*Book, bool) {
	book, ok := i.books[bookKey]
	return book, ok
}

// BookKeys returns the indexed book keys in sorted order.
func (i *Index) BookKeys() []string {
	keys := make([]string, 0, len(i.books))
	for key := range i.books {
		keys = append(keys, key)
	}
	slices.Sort(keys)
	return keys
}

// Len returns the number of raw entries, including skipped keys.
func (i *Index) Len() int {
	return len(i.data)
}

// Lookup returns the raw text stored under a verse key.
func (i *Index) Lookup(key string) (string, bool) {
	text, ok := i.data[key]
	return text, ok
}

// Text returns the trimmed text of a verse, or "" when the corpus has no entry.
func (i *Index) Text(bookKey string, ref types.VerseRef) string {
	text, ok := i.data[types.VerseKey(bookKey, ref.Chapter, ref.Verse)]
	if !ok {
		return ""
	}
	return strings.TrimSpace(text)
}
