package upload

type (
	ListQuery struct {
		SearchQuery   string
		SortBy        string
		SortDirection string
		Page          string
		PageSize      string
	}
	ExportRequest struct {
		SearchQuery string `json:"searchQuery"`
	}
)
