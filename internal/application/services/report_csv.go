package services

import (
	"context"
	"encoding/csv"
	"errors"
	"io"
	"time"

	"upload-server/internal/domain/upload"
)

var (
	reportHeader = []string{"ID", "Name", "URL", "Uploaded at"}

	errMalformedRow = errors.New("malformed report row")
)

// encodeReport writes the header and then one record per row, flushing after
// each so that w sees bytes as soon as a row is encoded.
func encodeReport(ctx context.Context, rows <-chan *upload.Upload, w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := writeRecord(cw, reportHeader); err != nil {
		return err
	}

	for {
		select {
		case u, ok := <-rows:
			if !ok {
				return nil
			}
			if u == nil {
				return errMalformedRow
			}
			if err := writeRecord(cw, reportRecord(u)); err != nil {
				return err
			}
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

func reportRecord(u *upload.Upload) []string {
	return []string{
		u.ID,
		u.Name,
		u.RemoteURL,
		u.CreatedAt.UTC().Format(time.RFC3339Nano),
	}
}

func writeRecord(cw *csv.Writer, record []string) error {
	if err := cw.Write(record); err != nil {
		return err
	}
	cw.Flush()
	return cw.Error()
}
