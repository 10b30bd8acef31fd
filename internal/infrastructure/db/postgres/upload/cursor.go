package upload

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	domain "upload-server/internal/domain/upload"
)

// StreamUploads reads the export query through a server-side cursor inside a
// read-only transaction, so at most batchSize rows are held at a time. The
// transaction is rolled back (closing the cursor and releasing the connection)
// on any error, including cancellation of ctx by a failing consumer.
func (r *Repository) StreamUploads(
	ctx context.Context,
	filter domain.Filter,
	batchSize int,
	out chan<- domain.Uploads,
) (err error) {
	defer close(out)

	if batchSize <= 0 {
		return domain.ValidationError("StreamUploads", map[string]string{"batchSize": "must be greater than 0"})
	}

	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{AccessMode: pgx.ReadOnly})
	if err != nil {
		return fmt.Errorf("begin export tx: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(context.WithoutCancel(ctx))
		}
	}()

	query, args := exportQuery(filter)
	if _, err = tx.Exec(ctx, declareCursorQuery(query), args...); err != nil {
		return fmt.Errorf("declare export cursor: %w", err)
	}

	fetch := fetchCursorQuery(batchSize)
	for {
		rows, qerr := tx.Query(ctx, fetch)
		if qerr != nil {
			return fmt.Errorf("fetch export cursor: %w", qerr)
		}
		batch, serr := scanExportRows(rows)
		if serr != nil {
			return fmt.Errorf("scan export batch: %w", serr)
		}
		if len(batch) > 0 {
			select {
			case out <- fromDBModels(batch):
			case <-ctx.Done():
				return ctx.Err()
			}
		}
		// a short batch means the cursor is exhausted
		if len(batch) < batchSize {
			break
		}
	}

	if _, err = tx.Exec(ctx, closeCursorQuery()); err != nil {
		return fmt.Errorf("close export cursor: %w", err)
	}
	if err = tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit export tx: %w", err)
	}

	return nil
}
