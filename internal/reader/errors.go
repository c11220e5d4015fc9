package reader

import "fmt"

// SegmentRangeError is returned when a segment index is outside the plan.
type SegmentRangeError struct {
	Index int
	Count int
}

func (e *SegmentRangeError) Error() string {
	return fmt.Sprintf("segment index %d out of range (plan has %d segments)", e.Index, e.Count)
}
