package upload

import (
	"fmt"
	"strings"

	domain "upload-server/internal/domain/upload"
)

const (
	uploadColumns = `id::text, name, remote_key, remote_url, created_at`
	exportColumns = `id::text, name, remote_url, created_at`

	InsertUpload = `
		INSERT INTO uploads (id, name, remote_key, remote_url)
		VALUES ($1, $2, $3, $4)
		RETURNING
		  id::text, name, remote_key, remote_url, created_at
	`

	exportCursor = "upload_export"
)

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// buildFilter is the only place the search predicate is built; listing, count
// and export all go through it.
func buildFilter(f domain.Filter, startArg int) (where string, args []any) {
	if f.SearchQuery == "" {
		return "", nil
	}
	return fmt.Sprintf("WHERE name ILIKE $%d", startArg), []any{"%" + likeEscaper.Replace(f.SearchQuery) + "%"}
}

// buildOrderBy only accepts whitelisted columns. Without both sortBy and
// sortDirection it falls back to newest id first.
func buildOrderBy(sortBy, sortDirection string) string {
	if sortBy == domain.SortByCreatedAt && sortDirection != "" {
		direction := "DESC"
		if sortDirection == domain.SortAsc {
			direction = "ASC"
		}
		return fmt.Sprintf("ORDER BY created_at %s, id DESC", direction)
	}
	return "ORDER BY id DESC"
}

func selectUploadsQuery(p domain.ListParams) (string, []any) {
	where, args := buildFilter(p.Filter, 1)
	argNum := len(args) + 1

	query := fmt.Sprintf(
		`SELECT %s FROM uploads %s %s LIMIT $%d OFFSET $%d`,
		uploadColumns, where, buildOrderBy(p.SortBy, p.SortDirection), argNum, argNum+1,
	)
	return query, append(args, p.PageSize, p.Offset())
}

func countUploadsQuery(f domain.Filter) (string, []any) {
	where, args := buildFilter(f, 1)
	return fmt.Sprintf(`SELECT count(*) FROM uploads %s`, where), args
}

// exportQuery is the listing query without pagination and with the default order.
func exportQuery(f domain.Filter) (string, []any) {
	where, args := buildFilter(f, 1)
	return fmt.Sprintf(`SELECT %s FROM uploads %s %s`, exportColumns, where, buildOrderBy("", "")), args
}

func declareCursorQuery(query string) string {
	return fmt.Sprintf("DECLARE %s NO SCROLL CURSOR FOR %s", exportCursor, query)
}

func fetchCursorQuery(batchSize int) string {
	return fmt.Sprintf("FETCH FORWARD %d FROM %s", batchSize, exportCursor)
}

func closeCursorQuery() string {
	return "CLOSE " + exportCursor
}
