package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"

	domain "upload-server/internal/domain/upload"
	"upload-server/internal/interface/api/rest/dto/upload"
)

func TestParseListQuery(t *testing.T) {
	tests := []struct {
		name     string
		in       upload.ListQuery
		want     domain.ListParams
		wantErrs map[string]string
	}{
		{
			name: "empty",
			in:   upload.ListQuery{},
			want: domain.ListParams{},
		},
		{
			name: "full",
			in: upload.ListQuery{
				SearchQuery:   "  cat ",
				SortBy:        "createdAt",
				SortDirection: "ASC",
				Page:          "2",
				PageSize:      "50",
			},
			want: domain.ListParams{
				Filter:        domain.Filter{SearchQuery: "  cat "},
				SortBy:        domain.SortByCreatedAt,
				SortDirection: domain.SortAsc,
				Page:          2,
				PageSize:      50,
			},
		},
		{
			name:     "non numeric paging",
			in:       upload.ListQuery{Page: "one", PageSize: "1.5"},
			want:     domain.ListParams{},
			wantErrs: map[string]string{"page": "must be an integer", "pageSize": "must be an integer"},
		},
		{
			name: "negative page passes syntax check",
			in:   upload.ListQuery{Page: "-3"},
			want: domain.ListParams{Page: -3},
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			got, errs := ParseListQuery(tt.in)
			assert.Equal(t, tt.wantErrs, errs)
			assert.Equal(t, tt.want, got)
		})
	}
}
