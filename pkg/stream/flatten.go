// Package stream holds small channel stages for linear pipelines.
package stream

import (
	"context"
	"errors"
)

var ErrMalformedBatch = errors.New("stream: malformed batch")

// Flatten forwards every item of every batch from in to out, keeping batch
// order and order inside a batch. It holds one item at a time and closes out
// when it returns. A nil batch fails with ErrMalformedBatch.
func Flatten[S ~[]T, T any](ctx context.Context, in <-chan S, out chan<- T) error {
	defer close(out)

	for {
		var (
			batch S
			ok    bool
		)
		select {
		case batch, ok = <-in:
			if !ok {
				return nil
			}
		case <-ctx.Done():
			return ctx.Err()
		}

		if batch == nil {
			return ErrMalformedBatch
		}
		for _, item := range batch {
			select {
			case out <- item:
			case <-ctx.Done():
				return ctx.Err()
			}
		}
	}
}
