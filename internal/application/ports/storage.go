package ports

import (
	"context"

	"upload-server/internal/infrastructure/storage"
)

type Storage interface {
	Upload(ctx context.Context, in storage.UploadInput) (*storage.Object, error)
}
