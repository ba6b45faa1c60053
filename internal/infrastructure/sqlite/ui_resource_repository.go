package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/zjrosen/rulekit/internal/domain/uiresource"
)

const uiResourceColumns = `id, content_type, content, etag, size, fetched_at`

// uiResourceRepository implements uiresource.Repository using SQLite.
type uiResourceRepository struct {
	db *sql.DB
}

func newUIResourceRepository(db *sql.DB) *uiResourceRepository {
	return &uiResourceRepository{db: db}
}

var _ uiresource.Repository = (*uiResourceRepository)(nil)

func scanUIResource(scanner interface{ Scan(...any) error }) (*UIResourceModel, error) {
	var m UIResourceModel
	err := scanner.Scan(&m.ID, &m.ContentType, &m.Content, &m.ETag, &m.Size, &m.FetchedAt)
	return &m, err
}

// Get returns the stored resource or uiresource.ErrNotFound.
func (r *uiResourceRepository) Get(ctx context.Context, id string) (*uiresource.Resource, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+uiResourceColumns+` FROM ui_resources WHERE id = ?`, id)
	m, err := scanUIResource(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", uiresource.ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get ui resource: %w", err)
	}
	return m.toDomain(), nil
}

// Save inserts or replaces the resource.
func (r *uiResourceRepository) Save(ctx context.Context, res *uiresource.Resource) error {
	m := toUIResourceModel(res)
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO ui_resources (`+uiResourceColumns+`) VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			content_type = excluded.content_type,
			content = excluded.content,
			etag = excluded.etag,
			size = excluded.size,
			fetched_at = excluded.fetched_at`,
		m.ID, m.ContentType, m.Content, m.ETag, m.Size, m.FetchedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save ui resource: %w", err)
	}
	return nil
}

func (r *uiResourceRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM ui_resources WHERE id = ?`, id); err != nil {
		return fmt.Errorf("failed to delete ui resource: %w", err)
	}
	return nil
}

// List returns every stored resource, most recently fetched first.
func (r *uiResourceRepository) List(ctx context.Context) ([]*uiresource.Resource, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+uiResourceColumns+` FROM ui_resources ORDER BY fetched_at DESC, id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list ui resources: %w", err)
	}
	defer rows.Close()

	var out []*uiresource.Resource
	for rows.Next() {
		m, err := scanUIResource(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan ui resource: %w", err)
		}
		out = append(out, m.toDomain())
	}
	return out, rows.Err()
}
