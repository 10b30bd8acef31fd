package validator

import (
	"strconv"
	"strings"

	domain "upload-server/internal/domain/upload"
	"upload-server/internal/interface/api/rest/dto/upload"
)

// ParseListQuery converts raw query values into list params. Only syntax is
// checked here; ranges and enums are checked by domain.ListParams.Validate.
// The search query is passed through verbatim, as the export does.
func ParseListQuery(q upload.ListQuery) (domain.ListParams, map[string]string) {
	errs := make(map[string]string)

	p := domain.ListParams{
		Filter:        domain.Filter{SearchQuery: q.SearchQuery},
		SortBy:        strings.TrimSpace(q.SortBy),
		SortDirection: strings.ToLower(strings.TrimSpace(q.SortDirection)),
	}

	var ok bool
	if p.Page, ok = parseInt(q.Page); !ok {
		errs["page"] = "must be an integer"
	}
	if p.PageSize, ok = parseInt(q.PageSize); !ok {
		errs["pageSize"] = "must be an integer"
	}

	if len(errs) == 0 {
		return p, nil
	}

	return p, errs
}

// parseInt treats an absent value as 0 so that defaults apply.
func parseInt(s string) (int, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, true
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, false
	}
	return n, true
}
