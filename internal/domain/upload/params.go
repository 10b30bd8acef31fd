package upload

import (
	"fmt"
	"math"
)

const (
	SortByCreatedAt = "createdAt"

	SortAsc  = "asc"
	SortDesc = "desc"

	DefaultPage     = 1
	DefaultPageSize = 20
	MaxPageSize     = 1000
)

type ListParams struct {
	Filter
	SortBy        string
	SortDirection string
	Page          int
	PageSize      int
}

// WithDefaults fills in the page and page size the caller left out.
func (p ListParams) WithDefaults() ListParams {
	if p.Page == 0 {
		p.Page = DefaultPage
	}
	if p.PageSize == 0 {
		p.PageSize = DefaultPageSize
	}
	return p
}

func (p ListParams) Validate() error {
	issues := make(map[string]string)

	switch p.SortBy {
	case "", SortByCreatedAt:
	default:
		issues["sortBy"] = fmt.Sprintf("must be %q", SortByCreatedAt)
	}
	switch p.SortDirection {
	case "", SortAsc, SortDesc:
	default:
		issues["sortDirection"] = fmt.Sprintf("must be %q or %q", SortAsc, SortDesc)
	}
	if p.Page < 1 {
		issues["page"] = "must be greater than or equal to 1"
	}
	switch {
	case p.PageSize < 1:
		issues["pageSize"] = "must be greater than or equal to 1"
	case p.PageSize > MaxPageSize:
		issues["pageSize"] = fmt.Sprintf("must be less than or equal to %d", MaxPageSize)
	case p.Page > 1 && p.Page-1 > math.MaxInt/p.PageSize:
		// offset would overflow
		issues["page"] = "is out of range"
	}

	if len(issues) == 0 {
		return nil
	}
	return &Error{Kind: KindValidation, Op: "upload.ListParams.Validate", Fields: issues}
}

func (p ListParams) Offset() int { return (p.Page - 1) * p.PageSize }
