package services

import (
	"context"
	"io"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"upload-server/internal/application/ports"
	"upload-server/internal/domain/upload"
	"upload-server/internal/infrastructure/mq"
	"upload-server/internal/infrastructure/storage"
	"upload-server/pkg/stream"
)

const (
	reportContentType = "text/csv"
	reportTimeLayout  = "2006-01-02T15:04:05.000Z"
)

type ExportService struct {
	logger           *zap.Logger
	storage          ports.Storage
	uploadRepository upload.Repository
	events           ports.EventEmitter
	mCounter         *prometheus.CounterVec
	mDuration        *prometheus.HistogramVec
	batchSize        int
	now              func() time.Time
}

func NewExportService(
	logger *zap.Logger,
	storage ports.Storage,
	uploadRepository upload.Repository,
	events ports.EventEmitter,
	mCounter *prometheus.CounterVec,
	mDuration *prometheus.HistogramVec,
	batchSize int,
) ports.ExportService {
	return &ExportService{
		logger:           logger,
		storage:          storage,
		uploadRepository: uploadRepository,
		events:           events,
		mCounter:         mCounter,
		mDuration:        mDuration,
		batchSize:        batchSize,
		now:              time.Now,
	}
}

// ExportUploads streams every upload matching filter into a CSV report and
// stores it under the downloads folder. The report becomes visible only after
// the whole chain succeeded; any failure aborts the stored object and releases
// the database cursor.
func (es *ExportService) ExportUploads(ctx context.Context, filter upload.Filter) (*upload.Report, error) {
	start := time.Now()

	report, err := es.export(ctx, filter)

	status := "ok"
	if err != nil {
		status = "error"
	}
	es.mDuration.WithLabelValues(status).Observe(time.Since(start).Seconds())

	if err != nil {
		es.logger.Error("export failed", zap.String("search_query", filter.SearchQuery), zap.Error(err))
		return nil, upload.IOError("ExportUploads", err)
	}

	es.mCounter.WithLabelValues("reports_exported_total").Inc()
	es.events.Emit(mq.NewEvent(mq.ActionReportExported, map[string]string{"reportUrl": report.URL}))
	es.logger.Info("export finished",
		zap.String("search_query", filter.SearchQuery),
		zap.String("report_url", report.URL),
		zap.Duration("took", time.Since(start)),
	)

	return report, nil
}

func (es *ExportService) export(ctx context.Context, filter upload.Filter) (*upload.Report, error) {
	pr, pw := io.Pipe()
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		err := es.encode(gctx, filter, pw)
		// A nil err closes with EOF, which is what lets the upload complete.
		_ = pw.CloseWithError(err)
		return err
	})

	var obj *storage.Object
	g.Go(func() error {
		var err error
		obj, err = es.storage.Upload(gctx, storage.UploadInput{
			Folder:      storage.FolderDownloads,
			FileName:    reportFileName(es.now()),
			ContentType: reportContentType,
			Body:        pr,
		})
		// Unblocks the encoder if the upload stopped reading early.
		_ = pr.CloseWithError(err)
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return &upload.Report{URL: obj.URL}, nil
}

// encode runs cursor, flattener and CSV encoder as one chain. It returns nil
// only when every stage finished, so a truncated report never reaches EOF.
func (es *ExportService) encode(ctx context.Context, filter upload.Filter, w io.Writer) error {
	batches := make(chan upload.Uploads, 1)
	rows := make(chan *upload.Upload)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return es.uploadRepository.StreamUploads(gctx, filter, es.batchSize, batches)
	})
	g.Go(func() error {
		return stream.Flatten[upload.Uploads](gctx, batches, rows)
	})
	g.Go(func() error {
		return encodeReport(gctx, rows, w)
	})

	return g.Wait()
}

func reportFileName(t time.Time) string {
	return t.UTC().Format(reportTimeLayout) + "-uploads.csv"
}
