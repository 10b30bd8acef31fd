package services

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"upload-server/internal/domain/upload"
)

func sendRows(rows ...*upload.Upload) <-chan *upload.Upload {
	ch := make(chan *upload.Upload, len(rows))
	for _, r := range rows {
		ch <- r
	}
	close(ch)
	return ch
}

func TestEncodeReport(t *testing.T) {
	at := time.Date(2026, 10, 17, 9, 30, 0, 123000000, time.FixedZone("CEST", 2*60*60))

	tests := []struct {
		name string
		rows []*upload.Upload
		want string
	}{
		{
			name: "header only",
			want: "ID,Name,URL,Uploaded at\n",
		},
		{
			name: "rows in order, time in utc",
			rows: []*upload.Upload{
				{ID: "2", Name: "b.png", RemoteURL: "https://pub.example.com/images/b.png", CreatedAt: at},
				{ID: "1", Name: "a.png", RemoteURL: "https://pub.example.com/images/a.png", CreatedAt: at},
			},
			want: "ID,Name,URL,Uploaded at\n" +
				"2,b.png,https://pub.example.com/images/b.png,2026-10-17T07:30:00.123Z\n" +
				"1,a.png,https://pub.example.com/images/a.png,2026-10-17T07:30:00.123Z\n",
		},
		{
			name: "quoting",
			rows: []*upload.Upload{
				{ID: "3", Name: "a,b\"c\nd.png", RemoteURL: "u", CreatedAt: at},
			},
			want: "ID,Name,URL,Uploaded at\n" +
				"3,\"a,b\"\"c\nd.png\",u,2026-10-17T07:30:00.123Z\n",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, encodeReport(context.Background(), sendRows(tt.rows...), &buf))
			assert.Equal(t, tt.want, buf.String())

			records, err := csv.NewReader(&buf).ReadAll()
			require.NoError(t, err)
			assert.Len(t, records, len(tt.rows)+1)
		})
	}
}

func TestEncodeReport_NilRow(t *testing.T) {
	var buf bytes.Buffer
	err := encodeReport(context.Background(), sendRows(&upload.Upload{ID: "1"}, nil), &buf)
	assert.True(t, errors.Is(err, errMalformedRow))
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("disk full") }

func TestEncodeReport_WriteError(t *testing.T) {
	err := encodeReport(context.Background(), sendRows(), failingWriter{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk full")
}

func TestEncodeReport_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var buf bytes.Buffer
	err := encodeReport(ctx, make(chan *upload.Upload), &buf)
	assert.True(t, errors.Is(err, context.Canceled))
}
