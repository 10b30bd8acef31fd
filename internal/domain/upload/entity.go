package upload

import (
	"io"
	"time"
)

type (
	ID     = string
	Upload struct {
		ID        ID
		Name      string
		RemoteKey string
		RemoteURL string

		CreatedAt time.Time
	}
	Uploads []*Upload

	// Filter is shared by the paginated listing and the unpaginated export.
	Filter struct {
		SearchQuery string
	}

	Page struct {
		Uploads Uploads
		Total   int
	}

	ImageInput struct {
		FileName    string
		ContentType string
		Body        io.Reader
	}

	Report struct {
		URL string
	}
)
