package storage

import (
	"context"
	"fmt"
	"io"
	"net/url"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"upload-server/internal/domain/upload"
)

type Folder string

const (
	FolderImages    Folder = "images"
	FolderDownloads Folder = "downloads"
)

type (
	UploadInput struct {
		Folder      Folder
		FileName    string
		ContentType string
		Body        io.Reader
	}
	Object struct {
		Key string
		URL string
	}

	// Backend persists body under key with all-or-nothing visibility: a failed
	// Put must not leave an object at key.
	Backend interface {
		Put(ctx context.Context, key string, body io.Reader, contentType string) error
	}
)

type Sink struct {
	logger    *zap.Logger
	backend   Backend
	publicURL *url.URL
	newID     func() uuid.UUID
}

func NewSink(logger *zap.Logger, backend Backend, publicURL string) (*Sink, error) {
	u, err := url.Parse(publicURL)
	if err != nil {
		return nil, fmt.Errorf("parse public url: %w", err)
	}
	if !u.IsAbs() {
		return nil, fmt.Errorf("public url %q must be absolute", publicURL)
	}

	return &Sink{
		logger:    logger,
		backend:   backend,
		publicURL: u,
		newID:     uuid.New,
	}, nil
}

// Upload streams in.Body to the backend under a freshly generated key and
// returns the key with its public URL.
func (s *Sink) Upload(ctx context.Context, in UploadInput) (*Object, error) {
	switch in.Folder {
	case FolderImages, FolderDownloads:
	default:
		return nil, upload.ValidationError("storage.Upload", map[string]string{
			"folder": fmt.Sprintf("must be %q or %q", FolderImages, FolderDownloads),
		})
	}
	if in.Body == nil {
		return nil, upload.ValidationError("storage.Upload", map[string]string{"body": "is required"})
	}

	key := objectKey(in.Folder, s.newID(), in.FileName)
	if err := s.backend.Put(ctx, key, in.Body, in.ContentType); err != nil {
		return nil, upload.IOError("storage.Upload", err)
	}

	obj := &Object{Key: key, URL: s.PublicURL(key)}
	s.logger.Debug("object stored", zap.String("key", obj.Key), zap.String("content_type", in.ContentType))

	return obj, nil
}

// PublicURL resolves key against the public base URL the same way a browser
// resolves a relative link.
func (s *Sink) PublicURL(key string) string {
	return s.publicURL.ResolveReference(&url.URL{Path: key}).String()
}
