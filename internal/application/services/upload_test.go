package services

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"upload-server/internal/domain/upload"
	"upload-server/internal/infrastructure/mq"
	"upload-server/internal/infrastructure/storage"
)

func TestUploadService_ListUploads(t *testing.T) {
	created := time.Date(2026, 10, 1, 12, 0, 0, 0, time.UTC)
	rows := upload.Uploads{{ID: "b", Name: "cat.png", CreatedAt: created}, {ID: "a", Name: "cat2.png", CreatedAt: created}}

	tests := []struct {
		name       string
		params     upload.ListParams
		fetchErr   error
		wantParams upload.ListParams
		wantKind   upload.Kind
		wantCalled bool
	}{
		{
			name:       "defaults applied",
			params:     upload.ListParams{Filter: upload.Filter{SearchQuery: "cat"}},
			wantParams: upload.ListParams{Filter: upload.Filter{SearchQuery: "cat"}, Page: 1, PageSize: 20},
			wantCalled: true,
		},
		{
			name:       "explicit paging and sort",
			params:     upload.ListParams{SortBy: upload.SortByCreatedAt, SortDirection: upload.SortAsc, Page: 3, PageSize: 5},
			wantParams: upload.ListParams{SortBy: upload.SortByCreatedAt, SortDirection: upload.SortAsc, Page: 3, PageSize: 5},
			wantCalled: true,
		},
		{
			name:     "invalid sort direction",
			params:   upload.ListParams{SortBy: upload.SortByCreatedAt, SortDirection: "sideways"},
			wantKind: upload.KindValidation,
		},
		{
			name:     "negative page",
			params:   upload.ListParams{Page: -1},
			wantKind: upload.KindValidation,
		},
		{
			name:       "repository failure",
			params:     upload.ListParams{},
			fetchErr:   errors.New("connection reset"),
			wantParams: upload.ListParams{Page: 1, PageSize: 20},
			wantKind:   upload.KindIO,
			wantCalled: true,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			called := false
			repo := &FakeUploadRepository{
				FetchUploadsFunc: func(_ context.Context, p upload.ListParams) (upload.Uploads, int, error) {
					called = true
					assert.Equal(t, tt.wantParams, p)
					if tt.fetchErr != nil {
						return nil, 0, tt.fetchErr
					}
					return rows, 42, nil
				},
			}
			svc := NewUploadService(zap.NewNop(), &FakeStorage{}, repo, &FakeEmitter{}, newTestCounter())

			page, err := svc.ListUploads(context.Background(), tt.params)
			assert.Equal(t, tt.wantCalled, called)
			if tt.wantKind != upload.KindUnknown {
				require.Error(t, err)
				assert.Equal(t, tt.wantKind, upload.KindOf(err))
				assert.Nil(t, page)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, rows, page.Uploads)
			assert.Equal(t, 42, page.Total)
		})
	}
}

func TestUploadService_UploadImage(t *testing.T) {
	tests := []struct {
		name        string
		contentType string
		wantErr     error
	}{
		{name: "png", contentType: "image/png"},
		{name: "jpeg", contentType: "image/jpeg"},
		{name: "jpg", contentType: "image/jpg"},
		{name: "webp with params", contentType: "image/webp; charset=binary"},
		{name: "upper case", contentType: "IMAGE/PNG"},
		{name: "pdf", contentType: "application/pdf", wantErr: upload.ErrInvalidFileFormat},
		{name: "gif", contentType: "image/gif", wantErr: upload.ErrInvalidFileFormat},
		{name: "empty", contentType: "", wantErr: upload.ErrInvalidFileFormat},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			st := &FakeStorage{}
			st.UploadFunc = readingStorage(st)
			var stored *upload.Upload
			repo := &FakeUploadRepository{
				CreateUploadFunc: func(_ context.Context, u *upload.Upload) (*upload.Upload, error) {
					stored = u
					out := *u
					out.CreatedAt = time.Now().UTC()
					return &out, nil
				},
			}
			events := &FakeEmitter{}
			counter := newTestCounter()
			svc := NewUploadService(zap.NewNop(), st, repo, events, counter)

			got, err := svc.UploadImage(context.Background(), upload.ImageInput{
				FileName:    "photo.png",
				ContentType: tt.contentType,
				Body:        strings.NewReader("\x89PNG"),
			})

			if tt.wantErr != nil {
				require.Error(t, err)
				assert.True(t, errors.Is(err, tt.wantErr))
				assert.Empty(t, st.inputs, "storage must not be touched")
				assert.Nil(t, stored, "no record must be created")
				assert.Empty(t, events.Actions())
				return
			}

			require.NoError(t, err)
			require.Len(t, st.inputs, 1)
			assert.Equal(t, storage.FolderImages, st.inputs[0].Folder)
			assert.Equal(t, "photo.png", st.inputs[0].FileName)
			assert.Equal(t, []string{"\x89PNG"}, st.bodies)

			require.NotNil(t, stored)
			assert.Equal(t, "photo.png", stored.Name)
			assert.Equal(t, "images/photo.png", stored.RemoteKey)
			assert.Equal(t, "https://pub.example.com/images/photo.png", stored.RemoteURL)
			assert.NotEmpty(t, stored.ID)
			assert.Equal(t, stored.ID, got.ID)
			assert.False(t, got.CreatedAt.IsZero())

			assert.Equal(t, []string{mq.ActionUploadCreated}, events.Actions())
			assert.Equal(t, 1.0, testutil.ToFloat64(counter.WithLabelValues("uploads_created_total")))
		})
	}
}

func TestUploadService_UploadImage_Failures(t *testing.T) {
	t.Run("storage failure creates no record", func(t *testing.T) {
		st := &FakeStorage{UploadFunc: func(context.Context, storage.UploadInput) (*storage.Object, error) {
			return nil, errors.New("bucket unavailable")
		}}
		repo := &FakeUploadRepository{CreateUploadFunc: func(context.Context, *upload.Upload) (*upload.Upload, error) {
			t.Fatal("CreateUpload must not be called")
			return nil, nil
		}}
		svc := NewUploadService(zap.NewNop(), st, repo, &FakeEmitter{}, newTestCounter())

		_, err := svc.UploadImage(context.Background(), upload.ImageInput{FileName: "a.png", ContentType: "image/png", Body: strings.NewReader("x")})
		require.Error(t, err)
		assert.True(t, errors.Is(err, upload.ErrIO))
	})

	t.Run("insert failure", func(t *testing.T) {
		st := &FakeStorage{}
		st.UploadFunc = readingStorage(st)
		repo := &FakeUploadRepository{CreateUploadFunc: func(context.Context, *upload.Upload) (*upload.Upload, error) {
			return nil, errors.New("duplicate key")
		}}
		events := &FakeEmitter{}
		svc := NewUploadService(zap.NewNop(), st, repo, events, newTestCounter())

		_, err := svc.UploadImage(context.Background(), upload.ImageInput{FileName: "a.png", ContentType: "image/png", Body: strings.NewReader("x")})
		require.Error(t, err)
		assert.Equal(t, upload.KindIO, upload.KindOf(err))
		assert.Empty(t, events.Actions())
	})
}

func TestUploadService_UploadImage_LogsFailures(t *testing.T) {
	t.Run("storage failure", func(t *testing.T) {
		core, logs := observer.New(zap.ErrorLevel)
		st := &FakeStorage{UploadFunc: func(context.Context, storage.UploadInput) (*storage.Object, error) {
			return nil, errors.New("bucket unavailable")
		}}
		svc := NewUploadService(zap.New(core), st, &FakeUploadRepository{}, &FakeEmitter{}, newTestCounter())

		_, err := svc.UploadImage(context.Background(), upload.ImageInput{FileName: "a.png", ContentType: "image/png", Body: strings.NewReader("x")})
		require.Error(t, err)

		entries := logs.FilterMessage("image upload to storage failed").All()
		require.Len(t, entries, 1)
		assert.Equal(t, "a.png", entries[0].ContextMap()["file_name"])
	})

	t.Run("insert failure logs the orphaned key", func(t *testing.T) {
		core, logs := observer.New(zap.ErrorLevel)
		st := &FakeStorage{}
		st.UploadFunc = readingStorage(st)
		repo := &FakeUploadRepository{CreateUploadFunc: func(context.Context, *upload.Upload) (*upload.Upload, error) {
			return nil, errors.New("duplicate key")
		}}
		svc := NewUploadService(zap.New(core), st, repo, &FakeEmitter{}, newTestCounter())

		_, err := svc.UploadImage(context.Background(), upload.ImageInput{FileName: "a.png", ContentType: "image/png", Body: strings.NewReader("x")})
		require.Error(t, err)

		entries := logs.FilterMessage("insert upload failed").All()
		require.Len(t, entries, 1)
		assert.Equal(t, "images/a.png", entries[0].ContextMap()["remote_key"])
	})
}
