package services

import (
	"context"
	"mime"
	"strings"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"upload-server/internal/application/ports"
	"upload-server/internal/domain/upload"
	"upload-server/internal/infrastructure/mq"
	"upload-server/internal/infrastructure/storage"
)

var allowedImageTypes = map[string]struct{}{
	"image/jpg":  {},
	"image/jpeg": {},
	"image/png":  {},
	"image/webp": {},
}

type UploadService struct {
	logger           *zap.Logger
	storage          ports.Storage
	uploadRepository upload.Repository
	events           ports.EventEmitter
	mCounter         *prometheus.CounterVec
}

func NewUploadService(
	logger *zap.Logger,
	storage ports.Storage,
	uploadRepository upload.Repository,
	events ports.EventEmitter,
	mCounter *prometheus.CounterVec,
) ports.UploadService {
	return &UploadService{
		logger:           logger,
		storage:          storage,
		uploadRepository: uploadRepository,
		events:           events,
		mCounter:         mCounter,
	}
}

func (us *UploadService) ListUploads(ctx context.Context, params upload.ListParams) (*upload.Page, error) {
	params = params.WithDefaults()
	if err := params.Validate(); err != nil {
		return nil, err
	}

	uploads, total, err := us.uploadRepository.FetchUploads(ctx, params)
	if err != nil {
		us.logger.Error("fetch uploads failed", zap.String("search_query", params.SearchQuery), zap.Error(err))
		return nil, upload.IOError("ListUploads", err)
	}

	return &upload.Page{Uploads: uploads, Total: total}, nil
}

// UploadImage stores the image under the images folder and records it. Content
// types outside the image whitelist are rejected before storage is touched.
func (us *UploadService) UploadImage(ctx context.Context, in upload.ImageInput) (*upload.Upload, error) {
	if !isAllowedImage(in.ContentType) {
		return nil, &upload.Error{
			Kind:   upload.KindInvalidFileFormat,
			Op:     "UploadImage",
			Fields: map[string]string{"contentType": in.ContentType},
		}
	}

	obj, err := us.storage.Upload(ctx, storage.UploadInput{
		Folder:      storage.FolderImages,
		FileName:    in.FileName,
		ContentType: in.ContentType,
		Body:        in.Body,
	})
	if err != nil {
		us.logger.Error("image upload to storage failed",
			zap.String("file_name", in.FileName),
			zap.String("content_type", in.ContentType),
			zap.Error(err),
		)
		return nil, upload.IOError("UploadImage", err)
	}

	id, err := uuid.NewV7()
	if err != nil {
		return nil, upload.IOError("UploadImage", err)
	}

	out, err := us.uploadRepository.CreateUpload(ctx, &upload.Upload{
		ID:        id.String(),
		Name:      in.FileName,
		RemoteKey: obj.Key,
		RemoteURL: obj.URL,
	})
	if err != nil {
		// the object is stored but unreferenced
		us.logger.Error("insert upload failed", zap.String("remote_key", obj.Key), zap.Error(err))
		return nil, upload.IOError("UploadImage", err)
	}

	us.mCounter.WithLabelValues("uploads_created_total").Inc()
	us.events.Emit(mq.NewEvent(mq.ActionUploadCreated, map[string]string{
		"id":        out.ID,
		"remoteKey": out.RemoteKey,
	}))

	return out, nil
}

func isAllowedImage(contentType string) bool {
	mt, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		mt = strings.ToLower(strings.TrimSpace(contentType))
	}
	_, ok := allowedImageTypes[mt]
	return ok
}
