package plan

import (
	"fmt"
	"testing"
	"time"

	"github.com/jonathan/lifeofword/internal/corpus"
	"github.com/jonathan/lifeofword/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// buildIndex creates a corpus where book key has len(chapters) chapters and
// chapters[i] verses in chapter i+1.
func buildIndex(books map[string][]int) *corpus.Index {
	data := make(map[string]string)
	for key, chapters := range books {
		for c, count := range chapters {
			for v := 1; v <= count; v++ {
				data[types.VerseKey(key, c+1, v)] = fmt.Sprintf("%s %d:%d", key, c+1, v)
			}
		}
	}
	return corpus.Build(data)
}

func repeat(n, count int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = count
	}
	return out
}

func TestBuild_SmallRangeSingleSegment(t *testing.T) {
	index := buildIndex(map[string][]int{"창": repeat(50, 30)}) // 1500 verses

	p, err := Build("Genesis 1-2", index)
	require.NoError(t, err)

	assert.Equal(t, "Genesis 1-2", p.Reference)
	assert.Equal(t, "Genesis", p.BookName)
	assert.Equal(t, "창", p.BookKey)
	assert.Equal(t, 60, p.TotalVerses)
	assert.Equal(t, 500, p.MaxVerses)
	require.Len(t, p.Segments, 1)
	assert.Equal(t, types.VerseRef{Chapter: 1, Verse: 1}, p.Segments[0].Start)
	assert.Equal(t, types.VerseRef{Chapter: 2, Verse: 30}, p.Segments[0].End)
	assert.Equal(t, 60, p.Segments[0].Length)
}

func TestBuild_SplitsLargeRanges(t *testing.T) {
	index := buildIndex(map[string][]int{"창": repeat(50, 30)})

	p, err := Build("Genesis 1-50", index)
	require.NoError(t, err)

	assert.Equal(t, 1500, p.TotalVerses)
	assert.Equal(t, 500, p.MaxVerses)
	require.Len(t, p.Segments, 3)
	assert.Equal(t, types.VerseRef{Chapter: 17, Verse: 20}, p.Segments[0].End)
	assert.Equal(t, types.VerseRef{Chapter: 17, Verse: 21}, p.Segments[1].Start)
}

func TestBuild_HalfBookChunking(t *testing.T) {
	// 4 chapters of 25 verses: chunk = floor(100/2) = 50
	index := buildIndex(map[string][]int{"룻": repeat(4, 25)})

	p, err := Build("Ruth 1-4", index)
	require.NoError(t, err)
	assert.Equal(t, 50, p.MaxVerses)
	require.Len(t, p.Segments, 2)
	assert.Equal(t, 50, p.Segments[0].Length)
	assert.Equal(t, 50, p.Segments[1].Length)
}

func TestBuild_SegmentsCoverRangeExactly(t *testing.T) {
	index := buildIndex(map[string][]int{"출": {22, 25, 22, 31, 23, 30, 25, 32, 35, 29, 10}})

	p, err := Build("Exodus 2-10", index)
	require.NoError(t, err)

	var all []types.VerseRef
	for _, seg := range p.Segments {
		assert.LessOrEqual(t, len(seg.Verses), p.MaxVerses)
		assert.Equal(t, seg.Length, len(seg.Verses))
		assert.Equal(t, seg.Verses[0], seg.Start)
		assert.Equal(t, seg.Verses[len(seg.Verses)-1], seg.End)
		all = append(all, seg.Verses...)
	}

	var want []types.VerseRef
	counts := []int{22, 25, 22, 31, 23, 30, 25, 32, 35, 29, 10}
	for c := 2; c <= 10; c++ {
		for v := 1; v <= counts[c-1]; v++ {
			want = append(want, types.VerseRef{Chapter: c, Verse: v})
		}
	}
	assert.Equal(t, want, all)
	assert.Equal(t, len(want), p.TotalVerses)

	for i := 1; i < len(all); i++ {
		assert.True(t, all[i-1].Less(all[i]), "verses out of order at %d", i)
	}
}

func TestBuild_SingleChapterBookNeverSplits(t *testing.T) {
	for _, count := range []int{1, 2, 21, 250, 499, 500} {
		t.Run(fmt.Sprintf("%d verses", count), func(t *testing.T) {
			index := buildIndex(map[string][]int{"옵": {count}})

			p, err := Build("Obadiah", index)
			require.NoError(t, err)
			assert.Equal(t, 500, p.MaxVerses)
			assert.Len(t, p.Segments, 1)
			assert.Equal(t, count, p.TotalVerses)
		})
	}
}

func TestBuild_RangeOverrunsBook(t *testing.T) {
	index := buildIndex(map[string][]int{"룻": {22, 23, 18, 22}})

	p, err := Build("Ruth 3-9", index)
	require.NoError(t, err)
	assert.Equal(t, 40, p.TotalVerses)
}

func TestBuild_Errors(t *testing.T) {
	index := buildIndex(map[string][]int{"창": repeat(3, 10)})

	t.Run("unknown book", func(t *testing.T) {
		_, err := Build("Hezekiah 1-2", index)
		var target *UnknownBookError
		require.ErrorAs(t, err, &target)
		assert.Equal(t, "Hezekiah", target.BookName)
	})

	t.Run("book not indexed", func(t *testing.T) {
		_, err := Build("Exodus 1", index)
		var target *BookNotIndexedError
		require.ErrorAs(t, err, &target)
		assert.Equal(t, "출", target.BookKey)
	})

	t.Run("invalid range", func(t *testing.T) {
		_, err := Build("Genesis 0-2", index)
		var target *InvalidReferenceError
		require.ErrorAs(t, err, &target)
	})

	t.Run("end before start", func(t *testing.T) {
		_, err := Build("Genesis 3-1", index)
		var target *NoVersesFoundError
		require.ErrorAs(t, err, &target)
	})

	t.Run("chapters beyond book", func(t *testing.T) {
		_, err := Build("Genesis 40-50", index)
		var target *NoVersesFoundError
		require.ErrorAs(t, err, &target)
		assert.Contains(t, err.Error(), "Genesis 40-50")
	})
}

func TestBuild_HugeChapterBounds(t *testing.T) {
	index := buildIndex(map[string][]int{"창": {3, 2, 4}})

	type outcome struct {
		plan *types.ReadingPlan
		err  error
	}
	run := func(ref string) outcome {
		done := make(chan outcome, 1)
		go func() {
			p, err := Build(ref, index)
			done <- outcome{p, err}
		}()
		select {
		case o := <-done:
			return o
		case <-time.After(2 * time.Second):
			t.Fatalf("Build(%q) did not return", ref)
			return outcome{}
		}
	}

	o := run("Genesis 1-9223372036854775807")
	require.NoError(t, o.err)
	assert.Equal(t, 9, o.plan.TotalVerses)
	assert.Equal(t, types.VerseRef{Chapter: 3, Verse: 4}, o.plan.Segments[len(o.plan.Segments)-1].End)

	o = run("Genesis 2-300000000")
	require.NoError(t, o.err)
	assert.Equal(t, 6, o.plan.TotalVerses)

	o = run("Genesis 9223372036854775807")
	var target *NoVersesFoundError
	require.ErrorAs(t, o.err, &target)
}

func TestChunkSize(t *testing.T) {
	assert.Equal(t, 500, ChunkSize(&corpus.Book{VerseCount: 1, Chapters: map[int][]int{1: {1}, 2: {}}}))
	assert.Equal(t, 5, ChunkSize(&corpus.Book{VerseCount: 11, Chapters: map[int][]int{1: nil, 2: nil}}))
	assert.Equal(t, 500, ChunkSize(&corpus.Book{VerseCount: 1533, Chapters: map[int][]int{1: nil, 2: nil}}))
	assert.Equal(t, 500, ChunkSize(&corpus.Book{VerseCount: 9000, Chapters: map[int][]int{1: nil}}))
}

func TestPartition(t *testing.T) {
	verses := []types.VerseRef{
		{Chapter: 1, Verse: 1}, {Chapter: 1, Verse: 2}, {Chapter: 1, Verse: 3},
		{Chapter: 2, Verse: 1}, {Chapter: 2, Verse: 2},
	}

	segments := Partition(verses, 2)
	require.Len(t, segments, 3)
	assert.Equal(t, []types.VerseRef{{Chapter: 1, Verse: 3}, {Chapter: 2, Verse: 1}}, segments[1].Verses)
	assert.Equal(t, 1, segments[2].Length)

	assert.Empty(t, Partition(nil, 2))
	assert.Len(t, Partition(verses, 0), 1)
}
