package rest

import (
	"errors"
	"io"
	"sync/atomic"
)

// 5MB
const maxImageSize = int64(5 << 20)

var errFileTooLarge = errors.New("file size limit reached")

// sizeLimitReader fails the read that crosses limit. The flag survives error
// wrapping by storage SDKs that do not implement Unwrap.
type sizeLimitReader struct {
	r        io.Reader
	limit    int64
	read     int64
	exceeded atomic.Bool
}

func newSizeLimitReader(r io.Reader, limit int64) *sizeLimitReader {
	return &sizeLimitReader{r: r, limit: limit}
}

func (l *sizeLimitReader) Read(p []byte) (int, error) {
	if l.exceeded.Load() {
		return 0, errFileTooLarge
	}
	n, err := l.r.Read(p)
	l.read += int64(n)
	if l.read > l.limit {
		l.exceeded.Store(true)
		return 0, errFileTooLarge
	}
	return n, err
}

func (l *sizeLimitReader) Exceeded() bool { return l.exceeded.Load() }
