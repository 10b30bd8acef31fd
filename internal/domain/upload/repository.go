package upload

import (
	"context"
)

type Repository interface {
	FetchUploads(ctx context.Context, params ListParams) (Uploads, int, error)
	CreateUpload(ctx context.Context, req *Upload) (*Upload, error)
	// StreamUploads sends the filtered rows in batches of at most batchSize,
	// ordered newest first, and closes out when it returns.
	StreamUploads(ctx context.Context, filter Filter, batchSize int, out chan<- Uploads) error
}
