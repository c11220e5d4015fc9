package types

import (
	"strings"

	"github.com/go-playground/validator/v10"
)

// Passage is the body returned by the remote passage endpoint.
type Passage struct {
	Passages  []string `json:"passages"`
	Canonical string   `json:"canonical"`
}

// Text joins all passages into one trimmed block.
func (p *Passage) Text() string {
	if p == nil {
		return ""
	}
	return strings.TrimSpace(strings.Join(p.Passages, "\n"))
}

// PassageQuery is the incoming proxy request.
type PassageQuery struct {
	Q string `json:"q" validate:"required,max=200"`
}

// Validate validates the PassageQuery using the validator.
func (q *PassageQuery) Validate() error {
	validate := validator.New()
	return validate.Struct(q)
}
