package upload

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"golang.org/x/sync/errgroup"

	domain "upload-server/internal/domain/upload"
	"upload-server/internal/infrastructure/db/postgres"
)

type Repository struct {
	db postgres.DBTX
}

func NewRepository(db postgres.DBTX) domain.Repository {
	return &Repository{db: db}
}

// FetchUploads runs the page query and the count query concurrently. Both use
// the same filter; they are not wrapped in a shared snapshot.
func (r *Repository) FetchUploads(ctx context.Context, params domain.ListParams) (domain.Uploads, int, error) {
	var (
		us    Uploads
		total int
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		query, args := selectUploadsQuery(params)
		rows, err := r.db.Query(gctx, query, args...)
		if err != nil {
			return fmt.Errorf("select uploads: %w", err)
		}
		defer rows.Close()

		for rows.Next() {
			u := new(Upload)
			if err = rows.Scan(
				&u.ID,
				&u.Name,
				&u.RemoteKey,
				&u.RemoteURL,

				&u.CreatedAt,
			); err != nil {
				return fmt.Errorf("scan upload: %w", err)
			}
			us = append(us, u)
		}
		if err = rows.Err(); err != nil {
			return fmt.Errorf("iterate uploads: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		query, args := countUploadsQuery(params.Filter)
		if err := r.db.QueryRow(gctx, query, args...).Scan(&total); err != nil {
			return fmt.Errorf("count uploads: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, 0, err
	}

	return fromDBModels(us), total, nil
}

func (r *Repository) CreateUpload(ctx context.Context, req *domain.Upload) (*domain.Upload, error) {
	u := new(Upload)

	err := r.db.QueryRow(
		ctx,
		InsertUpload,
		req.ID, req.Name, req.RemoteKey, req.RemoteURL,
	).Scan(
		&u.ID,
		&u.Name,
		&u.RemoteKey,
		&u.RemoteURL,

		&u.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("insert upload: %w", err)
	}

	return fromDBModel(u), nil
}

func scanExportRows(rows pgx.Rows) (Uploads, error) {
	defer rows.Close()

	var us Uploads
	for rows.Next() {
		u := new(Upload)
		if err := rows.Scan(
			&u.ID,
			&u.Name,
			&u.RemoteURL,

			&u.CreatedAt,
		); err != nil {
			return nil, err
		}
		us = append(us, u)
	}

	return us, rows.Err()
}
