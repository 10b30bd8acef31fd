package ports

import (
	"context"

	"upload-server/internal/domain/upload"
)

type UploadService interface {
	ListUploads(ctx context.Context, params upload.ListParams) (*upload.Page, error)
	UploadImage(ctx context.Context, in upload.ImageInput) (*upload.Upload, error)
}

type ExportService interface {
	ExportUploads(ctx context.Context, filter upload.Filter) (*upload.Report, error)
}
