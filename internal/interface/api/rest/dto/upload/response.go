package upload

import (
	"time"
)

type (
	Upload struct {
		ID        string    `json:"id"`
		Name      string    `json:"name"`
		RemoteKey string    `json:"remoteKey"`
		RemoteURL string    `json:"remoteUrl"`
		CreatedAt time.Time `json:"createdAt"`
	}
	Uploads      []Upload
	ListResponse struct {
		Uploads Uploads `json:"uploads"`
		Total   int     `json:"total"`
	}
	ExportResponse struct {
		ReportURL string `json:"reportUrl"`
	}

	ErrorResponse struct {
		Message string            `json:"message"`
		Issues  map[string]string `json:"issues,omitempty"`
	}
)
