package upload

import (
	"time"
)

type (
	Upload struct {
		ID        string
		Name      string
		RemoteKey string
		RemoteURL string

		CreatedAt time.Time
	}
	Uploads []*Upload
)
