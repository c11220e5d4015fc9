package esv

import (
	"fmt"
	"net/url"

	"github.com/jonathan/lifeofword/internal/types"
)

// FormatQuery renders the remote query for one segment, a single verse ref
// when the segment starts and ends on the same verse.
func FormatQuery(bookName string, seg types.Segment) string {
	if seg.Start == seg.End {
		return fmt.Sprintf("%s %s", bookName, seg.Start)
	}
	return fmt.Sprintf("%s %s-%s", bookName, seg.Start, seg.End)
}

// QueryParams returns the request parameters for a passage query.
func QueryParams(query string) url.Values {
	params := url.Values{}
	params.Set("q", query)
	params.Set("include-passage-references", "false")
	params.Set("include-verse-numbers", "true")
	params.Set("include-first-verse-numbers", "true")
	params.Set("include-footnotes", "false")
	params.Set("include-headings", "false")
	params.Set("include-short-copyright", "true")
	params.Set("line-length", "0")
	return params
}
