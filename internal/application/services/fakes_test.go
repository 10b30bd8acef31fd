package services

import (
	"context"
	"io"
	"sync"

	"github.com/prometheus/client_golang/prometheus"

	"upload-server/internal/domain/upload"
	"upload-server/internal/infrastructure/mq"
	"upload-server/internal/infrastructure/storage"
)

type FakeUploadRepository struct {
	FetchUploadsFunc  func(ctx context.Context, params upload.ListParams) (upload.Uploads, int, error)
	CreateUploadFunc  func(ctx context.Context, u *upload.Upload) (*upload.Upload, error)
	StreamUploadsFunc func(ctx context.Context, f upload.Filter, batchSize int, out chan<- upload.Uploads) error
}

func (f *FakeUploadRepository) FetchUploads(ctx context.Context, params upload.ListParams) (upload.Uploads, int, error) {
	return f.FetchUploadsFunc(ctx, params)
}

func (f *FakeUploadRepository) CreateUpload(ctx context.Context, u *upload.Upload) (*upload.Upload, error) {
	return f.CreateUploadFunc(ctx, u)
}

func (f *FakeUploadRepository) StreamUploads(ctx context.Context, fl upload.Filter, batchSize int, out chan<- upload.Uploads) error {
	return f.StreamUploadsFunc(ctx, fl, batchSize, out)
}

// fakeCursor serves rows in batches the way the postgres cursor does and
// records how it was released.
type fakeCursor struct {
	rows upload.Uploads

	mu        sync.Mutex
	released  bool
	releaseBy error
	sent      int
	filter    upload.Filter
}

func (c *fakeCursor) Stream(ctx context.Context, f upload.Filter, batchSize int, out chan<- upload.Uploads) (err error) {
	defer close(out)
	defer func() {
		c.mu.Lock()
		c.released = true
		c.releaseBy = err
		c.filter = f
		c.mu.Unlock()
	}()

	for start := 0; start < len(c.rows); start += batchSize {
		end := min(start+batchSize, len(c.rows))
		select {
		case out <- c.rows[start:end]:
			c.mu.Lock()
			c.sent += end - start
			c.mu.Unlock()
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return nil
}

type FakeStorage struct {
	UploadFunc func(ctx context.Context, in storage.UploadInput) (*storage.Object, error)

	mu     sync.Mutex
	inputs []storage.UploadInput
	bodies []string
}

func (f *FakeStorage) Upload(ctx context.Context, in storage.UploadInput) (*storage.Object, error) {
	f.mu.Lock()
	f.inputs = append(f.inputs, in)
	f.mu.Unlock()
	return f.UploadFunc(ctx, in)
}

// readingStorage behaves like a real backend: it consumes the whole body and
// only then makes the object visible.
func readingStorage(f *FakeStorage) func(ctx context.Context, in storage.UploadInput) (*storage.Object, error) {
	return func(ctx context.Context, in storage.UploadInput) (*storage.Object, error) {
		b, err := io.ReadAll(in.Body)
		if err != nil {
			return nil, err
		}
		f.mu.Lock()
		f.bodies = append(f.bodies, string(b))
		f.mu.Unlock()
		key := string(in.Folder) + "/" + in.FileName
		return &storage.Object{Key: key, URL: "https://pub.example.com/" + key}, nil
	}
}

type FakeEmitter struct {
	mu     sync.Mutex
	events []mq.Event
}

func (f *FakeEmitter) Emit(e mq.Event) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, e)
}

func (f *FakeEmitter) Actions() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []string
	for _, e := range f.events {
		out = append(out, e.Action)
	}
	return out
}

func newTestCounter() *prometheus.CounterVec {
	return prometheus.NewCounterVec(prometheus.CounterOpts{Name: "test_counters"}, []string{"result"})
}

func newTestHistogram() *prometheus.HistogramVec {
	return prometheus.NewHistogramVec(prometheus.HistogramOpts{Name: "test_duration_seconds"}, []string{"status"})
}
