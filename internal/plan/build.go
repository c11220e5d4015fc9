package plan

import (
	"github.com/jonathan/lifeofword/internal/corpus"
	"github.com/jonathan/lifeofword/internal/reference"
	"github.com/jonathan/lifeofword/internal/types"
)

// MaxSegmentVerses is the upper bound on verses per remote request.
const MaxSegmentVerses = 500

// Build parses a reference and partitions its verses into segments.
func Build(ref string, index *corpus.Index) (*types.ReadingPlan, error) {
	parsed := reference.Parse(ref)

	book, ok := reference.LookupBook(parsed.BookName)
	if !ok {
		return nil, &UnknownBookError{BookName: parsed.BookName}
	}

	bookData, ok := index.Book(book.Key)
	if !ok {
		return nil, &BookNotIndexedError{BookName: parsed.BookName, BookKey: book.Key}
	}
	if !parsed.Valid() {
		return nil, &InvalidReferenceError{Reference: ref}
	}

	verses := collectVerses(bookData, parsed.StartChapter, parsed.EndChapter)
	if len(verses) == 0 {
		return nil, &NoVersesFoundError{Reference: ref}
	}

	maxVerses := ChunkSize(bookData)

	return &types.ReadingPlan{
		Reference:   ref,
		BookName:    parsed.BookName,
		BookKey:     book.Key,
		TotalVerses: len(verses),
		MaxVerses:   maxVerses,
		Segments:    Partition(verses, maxVerses),
	}, nil
}

// collectVerses lists every indexed verse in [start, end], chapter then verse
// ascending. Only indexed chapters are visited, so an absurd end bound costs
// nothing and chapters missing from the index contribute nothing.
func collectVerses(book *corpus.Book, start, end int) []types.VerseRef {
	var verses []types.VerseRef
	for _, chapter := range book.ChapterNumbers() {
		if chapter < start {
			continue
		}
		if chapter > end {
			break
		}
		for _, verse := range book.Verses(chapter) {
			verses = append(verses, types.VerseRef{Chapter: chapter, Verse: verse})
		}
	}
	return verses
}

// ChunkSize returns the per-segment verse limit for a book: half the book's
// verses capped at MaxSegmentVerses. Single-chapter books are never halved.
func ChunkSize(book *corpus.Book) int {
	if book.ChapterCount() == 1 {
		return MaxSegmentVerses
	}
	half := book.VerseCount / 2
	if half == 0 {
		return MaxSegmentVerses
	}
	return min(MaxSegmentVerses, half)
}

// Partition splits verses into contiguous segments of at most size verses.
func Partition(verses []types.VerseRef, size int) []types.Segment {
	if size <= 0 {
		size = MaxSegmentVerses
	}
	segments := make([]types.Segment, 0, (len(verses)+size-1)/size)
	for i := 0; i < len(verses); i += size {
		end := min(i+size, len(verses))
		chunk := verses[i:end:end]
		segments = append(segments, types.Segment{
			Start:  chunk[0],
			End:    chunk[len(chunk)-1],
			Length: len(chunk),
			Verses: chunk,
		})
	}
	return segments
}
