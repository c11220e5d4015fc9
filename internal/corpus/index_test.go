package corpus

import (
	"testing"

	"github.com/jonathan/lifeofword/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleData() map[string]string {
	return map[string]string{
		"창1:3":   "하나님이 이르시되 빛이 있으라 하시니 빛이 있었고",
		"창1:1":   " 태초에 하나님이 천지를 창조하시니라 ",
		"창1:2":   "땅이 혼돈하고 공허하며",
		"창2:1":   "천지와 만물이 다 이루어지니라",
		"옵1:1":   "오바댜의 묵시라",
		"옵1:2":   "보라 내가 너를 나라들 가운데에 매우 작게 하였으므로",
		"broken": "skipped",
		"창:1":    "skipped",
	}
}

func TestBuild_GroupsAndSorts(t *testing.T) {
	index := Build(sampleData())

	gen, ok := index.Book("창")
	require.True(t, ok)
	assert.Equal(t, 4, gen.VerseCount)
	assert.Equal(t, 2, gen.ChapterCount())
	assert.Equal(t, []int{1, 2, 3}, gen.Verses(1))
	assert.Equal(t, []int{1}, gen.Verses(2))
	assert.Nil(t, gen.Verses(3))

	obad, ok := index.Book("옵")
	require.True(t, ok)
	assert.Equal(t, 1, obad.ChapterCount())

	assert.Equal(t, []string{"옵", "창"}, index.BookKeys())
	assert.Equal(t, 8, index.Len())
}

func TestBuild_SkipsMalformedKeys(t *testing.T) {
	index := Build(map[string]string{"nonsense": "x", "12:3": "y"})
	assert.Empty(t, index.BookKeys())
}

func TestBuild_NumericSortNotLexical(t *testing.T) {
	index := Build(map[string]string{"시119:10": "a", "시119:9": "b", "시119:100": "c"})
	ps, ok := index.Book("시")
	require.True(t, ok)
	assert.Equal(t, []int{9, 10, 100}, ps.Verses(119))
}

func TestBook_ChapterNumbers(t *testing.T) {
	index := Build(map[string]string{"시10:1": "a", "시9:1": "b", "시119:1": "c"})
	ps, ok := index.Book("시")
	require.True(t, ok)
	assert.Equal(t, []int{9, 10, 119}, ps.ChapterNumbers())

	assert.Empty(t, (&Book{}).ChapterNumbers())
}

func TestIndex_Text(t *testing.T) {
	index := Build(sampleData())

	assert.Equal(t, "태초에 하나님이 천지를 창조하시니라", index.Text("창", types.VerseRef{Chapter: 1, Verse: 1}))
	assert.Equal(t, "", index.Text("창", types.VerseRef{Chapter: 9, Verse: 9}))
	assert.Equal(t, "", index.Text("없음", types.VerseRef{Chapter: 1, Verse: 1}))

	raw, ok := index.Lookup("창1:1")
	assert.True(t, ok)
	assert.Equal(t, " 태초에 하나님이 천지를 창조하시니라 ", raw)
}
