package upload

import (
	domain "upload-server/internal/domain/upload"
)

func fromDBModel(model *Upload) *domain.Upload {
	var u = &domain.Upload{
		ID:        model.ID,
		Name:      model.Name,
		RemoteKey: model.RemoteKey,
		RemoteURL: model.RemoteURL,

		CreatedAt: model.CreatedAt,
	}

	return u
}

func fromDBModels(models Uploads) domain.Uploads {
	us := make(domain.Uploads, len(models))
	for idx, u := range models {
		us[idx] = fromDBModel(u)
	}

	return us
}
