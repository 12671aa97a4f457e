package model

import "github.com/rotisserie/eris"

// Pipeline error taxonomy. Fatal errors propagate to the assembler's caller
// unmodified; UnresolvedIndustry degrades benchmark comparison to an empty
// result set and is never fatal.
var (
	ErrInvalidReview      = eris.New("review not found")
	ErrNoData             = eris.New("review has no KPI inputs")
	ErrConfig             = eris.New("registry configuration missing or malformed")
	ErrUnresolvedIndustry = eris.New("industry not present in benchmark reference")
)
