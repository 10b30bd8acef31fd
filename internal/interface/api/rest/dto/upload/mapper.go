package upload

import (
	domain "upload-server/internal/domain/upload"
)

func ToResponseUpload(u domain.Upload) Upload {
	return Upload{
		ID:        u.ID,
		Name:      u.Name,
		RemoteKey: u.RemoteKey,
		RemoteURL: u.RemoteURL,
		CreatedAt: u.CreatedAt.UTC(),
	}
}

// ToResponseList never returns a nil slice so an empty page encodes as [].
func ToResponseList(p *domain.Page) ListResponse {
	us := make(Uploads, len(p.Uploads))
	for idx, u := range p.Uploads {
		us[idx] = ToResponseUpload(*u)
	}

	return ListResponse{Uploads: us, Total: p.Total}
}
