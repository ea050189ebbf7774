// ABOUTME: SQLite site storage keeps hosted documents on disk
// ABOUTME: Each save replaces the whole row; view counting is a single atomic update

package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"hostgenie-api/core/domain"
	coreerrors "hostgenie-api/core/errors"
	"hostgenie-api/infrastructure/sqlitedb"
)

const schema = `
	CREATE TABLE IF NOT EXISTS sites (
		id TEXT PRIMARY KEY,
		owner_id TEXT NOT NULL,
		author_name TEXT NOT NULL DEFAULT '',
		title TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		html_content TEXT NOT NULL,
		created_at INTEGER NOT NULL,
		updated_at INTEGER NOT NULL,
		views INTEGER NOT NULL DEFAULT 0,
		is_public INTEGER NOT NULL DEFAULT 1,
		allow_source_download INTEGER NOT NULL DEFAULT 1
	);
	CREATE INDEX IF NOT EXISTS idx_sites_public_updated ON sites(is_public, updated_at DESC);
`

const columns = `id, owner_id, author_name, title, description, html_content,
	created_at, updated_at, views, is_public, allow_source_download`

// SiteStore implements interfaces.SiteStorage on SQLite
type SiteStore struct {
	db *sql.DB
}

// NewSiteStore opens (and if needed creates) the database at path
func NewSiteStore(path string) (*SiteStore, error) {
	db, err := sqlitedb.Open(path, schema)
	if err != nil {
		return nil, err
	}
	return &SiteStore{db: db}, nil
}

// Save inserts or replaces a site as a whole
func (s *SiteStore) Save(ctx context.Context, site *domain.Site) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO sites (`+columns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			owner_id = excluded.owner_id,
			author_name = excluded.author_name,
			title = excluded.title,
			description = excluded.description,
			html_content = excluded.html_content,
			updated_at = excluded.updated_at,
			views = excluded.views,
			is_public = excluded.is_public,
			allow_source_download = excluded.allow_source_download`,
		site.ID, site.OwnerID, site.AuthorName, site.Title, site.Description, site.HTMLContent,
		site.CreatedAt.UnixNano(), site.UpdatedAt.UnixNano(), site.Views,
		site.IsPublic, site.AllowSourceDownload,
	)
	if err != nil {
		return fmt.Errorf("failed to save site: %w", err)
	}
	return nil
}

// Get retrieves a site by id
func (s *SiteStore) Get(ctx context.Context, id string) (*domain.Site, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+columns+" FROM sites WHERE id = ?", id)
	site, err := scanSite(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, &coreerrors.NotFoundError{Resource: "site", ID: id}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load site: %w", err)
	}
	return site, nil
}

// IncrementViews bumps the view counter and returns the new value
func (s *SiteStore) IncrementViews(ctx context.Context, id string) (int64, error) {
	var views int64
	err := s.db.QueryRowContext(ctx,
		"UPDATE sites SET views = views + 1 WHERE id = ? RETURNING views", id,
	).Scan(&views)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, &coreerrors.NotFoundError{Resource: "site", ID: id}
	}
	if err != nil {
		return 0, fmt.Errorf("failed to count view: %w", err)
	}
	return views, nil
}

// ListPublic returns the most recently updated public sites
func (s *SiteStore) ListPublic(ctx context.Context, limit int) ([]*domain.Site, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT "+columns+" FROM sites WHERE is_public = 1 ORDER BY updated_at DESC, id LIMIT ?", limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list sites: %w", err)
	}
	defer rows.Close()

	var out []*domain.Site
	for rows.Next() {
		site, err := scanSite(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to read site: %w", err)
		}
		out = append(out, site)
	}
	return out, rows.Err()
}

// Delete removes a site
func (s *SiteStore) Delete(ctx context.Context, id string) error {
	if _, err := s.db.ExecContext(ctx, "DELETE FROM sites WHERE id = ?", id); err != nil {
		return fmt.Errorf("failed to delete site: %w", err)
	}
	return nil
}

// Close closes the database
func (s *SiteStore) Close() error {
	return s.db.Close()
}

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanSite(row scanner) (*domain.Site, error) {
	var (
		site             domain.Site
		created, updated int64
		public, allowSrc bool
	)
	err := row.Scan(&site.ID, &site.OwnerID, &site.AuthorName, &site.Title, &site.Description,
		&site.HTMLContent, &created, &updated, &site.Views, &public, &allowSrc)
	if err != nil {
		return nil, err
	}
	site.CreatedAt = time.Unix(0, created).UTC()
	site.UpdatedAt = time.Unix(0, updated).UTC()
	site.IsPublic = public
	site.AllowSourceDownload = allowSrc
	return &site, nil
}
