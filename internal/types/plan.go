package types

// Segment is a contiguous, size-bounded slice of a book's verses in canonical order.
// It is the unit sent to the remote text service as one request.
type Segment struct {
	Start  VerseRef   `json:"start"`
	End    VerseRef   `json:"end"`
	Length int        `json:"length"`
	Verses []VerseRef `json:"verses"`
}

// ReadingPlan describes every segment needed to render one reference.
// A plan is built once per request and never modified afterwards.
type ReadingPlan struct {
	Reference   string    `json:"reference"`
	BookName    string    `json:"book_name"`
	BookKey     string    `json:"book_key"`
	TotalVerses int       `json:"total_verses"`
	MaxVerses   int       `json:"max_verses"`
	Segments    []Segment `json:"segments"`
}

// Segment returns the segment at index i.
func (p *ReadingPlan) Segment(i int) (Segment, bool) {
	if p == nil || i < 0 || i >= len(p.Segments) {
		return Segment{}, false
	}
	return p.Segments[i], true
}
