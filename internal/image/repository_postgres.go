package image

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	// Table
	recordsTable = "uploaded_images"

	// Columns
	idColumn         = "id"
	urlColumn        = "url"
	uploadedAtColumn = "uploaded_at"
)

// PostgresRepository stores records in the uploaded_images table.
type PostgresRepository struct {
	db      *pgxpool.Pool
	builder squirrel.StatementBuilderType
}

// NewPostgresRepository creates a new PostgresRepository with the given connection pool.
func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{
		db:      db,
		builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// Insert adds a row and returns its generated UUID.
func (r *PostgresRepository) Insert(ctx context.Context, rec Record) (string, error) {
	sql, args, err := r.builder.
		Insert(recordsTable).
		Columns(urlColumn, uploadedAtColumn).
		Values(rec.URL, rec.UploadedAt).
		Suffix("RETURNING " + idColumn + "::text").
		ToSql()
	if err != nil {
		return "", fmt.Errorf("build insert: %w", err)
	}

	var id string
	if err := r.db.QueryRow(ctx, sql, args...).Scan(&id); err != nil {
		return "", fmt.Errorf("insert row: %w", err)
	}
	return id, nil
}

// Recent returns the newest rows.
func (r *PostgresRepository) Recent(ctx context.Context, limit int) ([]Record, error) {
	sql, args, err := r.recentQuery(limit)
	if err != nil {
		return nil, fmt.Errorf("build select: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("query rows: %w", err)
	}
	defer rows.Close()

	out := make([]Record, 0, limit)
	for rows.Next() {
		var rec Record
		if err := rows.Scan(&rec.ID, &rec.URL, &rec.UploadedAt); err != nil {
			return nil, fmt.Errorf("scan row: %w", err)
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rows: %w", err)
	}
	return out, nil
}

func (r *PostgresRepository) recentQuery(limit int) (string, []interface{}, error) {
	return r.builder.
		Select(idColumn+"::text", urlColumn, uploadedAtColumn).
		From(recordsTable).
		OrderBy(uploadedAtColumn + " DESC").
		Limit(uint64(limit)).
		ToSql()
}
