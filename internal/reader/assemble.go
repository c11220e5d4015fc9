// Package reader assembles plan segments into merged bilingual item sequences.
package reader

import (
	"context"
	"strconv"
	"strings"

	"go.opentelemetry.io/otel/attribute"

	"github.com/jonathan/lifeofword/internal/corpus"
	"github.com/jonathan/lifeofword/internal/esv"
	"github.com/jonathan/lifeofword/internal/logging"
	"github.com/jonathan/lifeofword/internal/observability"
	"github.com/jonathan/lifeofword/internal/passage"
	"github.com/jonathan/lifeofword/internal/types"
)

// FallbackText is the translated text of every verse rendered without the
// remote service.
const FallbackText = "ESV text unavailable (API error)"

// Assembler merges remote passage text with the local corpus.
type Assembler struct {
	Client esv.Fetcher
	Index  *corpus.Index
	Logger *logging.Logger
}

// NewAssembler creates an Assembler.
func NewAssembler(client esv.Fetcher, index *corpus.Index, logger *logging.Logger) *Assembler {
	return &Assembler{Client: client, Index: index, Logger: logging.OrNop(logger)}
}

// Assemble renders segment i of the plan. A failed remote fetch is not an
// error: the segment is rendered from the local corpus with placeholder
// translated text instead. Only an out-of-range index or a cancelled ctx fails.
func (a *Assembler) Assemble(ctx context.Context, p *types.ReadingPlan, i int) (*types.SegmentResult, error) {
	seg, ok := p.Segment(i)
	if !ok {
		count := 0
		if p != nil {
			count = len(p.Segments)
		}
		return nil, &SegmentRangeError{Index: i, Count: count}
	}

	query := esv.FormatQuery(p.BookName, seg)
	result := &types.SegmentResult{Title: p.Reference, Query: query}

	ctx, span := observability.Tracer().Start(ctx, "reader.Assemble")
	defer span.End()
	span.SetAttributes(
		attribute.String("reading.reference", p.Reference),
		attribute.Int("reading.segment", i),
		attribute.String("passage.query", query),
	)

	pass, err := a.fetch(ctx, query)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			observability.RecordError(span, ctxErr)
			return nil, ctxErr
		}
		logging.OrNop(a.Logger).Warn("remote passage unavailable, using local fallback",
			"reference", p.Reference, "segment", i, "query", query, "error", err)
		span.SetAttributes(attribute.Bool("reading.fallback", true))
		result.Items = a.fallback(p.BookKey, seg)
		return result, nil
	}

	if canonical := strings.TrimSpace(pass.Canonical); canonical != "" {
		result.Query = canonical
	}
	result.Items = a.merge(p.BookKey, passage.Parse(pass.Text(), result.Query))
	return result, nil
}

func (a *Assembler) fetch(ctx context.Context, query string) (*types.Passage, error) {
	if a.Client == nil {
		return nil, &esv.FetchError{Query: query, Message: "no remote client configured"}
	}
	return a.Client.Fetch(ctx, query)
}

// merge attaches local text to every parsed verse.
func (a *Assembler) merge(bookKey string, parsed []types.ParsedItem) []types.MergedItem {
	items := make([]types.MergedItem, 0, len(parsed))
	for _, item := range parsed {
		switch v := item.(type) {
		case types.Chapter:
			items = append(items, v)
		case types.Verse:
			items = append(items, types.MergedVerse{
				Verse:     v,
				LocalText: a.localText(bookKey, v.Chapter, v.Number),
			})
		}
	}
	return items
}

// fallback renders the segment's known verses without remote text.
func (a *Assembler) fallback(bookKey string, seg types.Segment) []types.MergedItem {
	items := make([]types.MergedItem, 0, len(seg.Verses)+1)
	current := 0
	for _, ref := range seg.Verses {
		if ref.Chapter != current {
			current = ref.Chapter
			items = append(items, types.NewChapter(current))
		}
		items = append(items, types.MergedVerse{
			Verse: types.Verse{
				Ref:     strconv.Itoa(ref.Verse),
				Text:    FallbackText,
				Chapter: ref.Chapter,
				Number:  ref.Verse,
			},
			LocalText: a.localText(bookKey, ref.Chapter, ref.Verse),
			Fallback:  true,
		})
	}
	return items
}

func (a *Assembler) localText(bookKey string, chapter, verse int) string {
	if a.Index == nil || bookKey == "" || chapter == 0 || verse == 0 {
		return ""
	}
	return a.Index.Text(bookKey, types.VerseRef{Chapter: chapter, Verse: verse})
}
