package sqlite

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hostgenie-api/core/domain"
	coreerrors "hostgenie-api/core/errors"
)

func newTestStore(t *testing.T) *SiteStore {
	t.Helper()
	store, err := NewSiteStore(filepath.Join(t.TempDir(), "sites.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestSiteStore_RoundTrip(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	site := &domain.Site{
		ID:                  "abc123",
		OwnerID:             "user-1",
		AuthorName:          "Ana",
		Title:               "Bakery",
		Description:         "Fresh bread",
		HTMLContent:         "<html><body>hi</body></html>",
		CreatedAt:           now,
		UpdatedAt:           now,
		IsPublic:            true,
		AllowSourceDownload: false,
	}

	require.NoError(t, store.Save(ctx, site))
	got, err := store.Get(ctx, "abc123")

	require.NoError(t, err)
	assert.Equal(t, site, got)
}

func TestSiteStore_SaveReplacesWholeRow(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	created := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

	require.NoError(t, store.Save(ctx, &domain.Site{ID: "a", OwnerID: "u", Title: "v1", HTMLContent: "<p>1</p>", CreatedAt: created, UpdatedAt: created}))
	require.NoError(t, store.Save(ctx, &domain.Site{ID: "a", OwnerID: "u", Title: "v2", HTMLContent: "<p>2</p>", CreatedAt: created.Add(time.Hour), UpdatedAt: created.Add(time.Hour)}))

	got, err := store.Get(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, "v2", got.Title)
	assert.Equal(t, "<p>2</p>", got.HTMLContent)
	assert.Equal(t, created, got.CreatedAt)
}

func TestSiteStore_NotFound(t *testing.T) {
	store := newTestStore(t)

	_, err := store.Get(context.Background(), "missing")
	assert.True(t, coreerrors.IsNotFound(err))

	_, err = store.IncrementViews(context.Background(), "missing")
	assert.True(t, coreerrors.IsNotFound(err))
}

func TestSiteStore_IncrementViews(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	require.NoError(t, store.Save(ctx, &domain.Site{ID: "a", OwnerID: "u", Title: "t", HTMLContent: "x"}))

	_, err := store.IncrementViews(ctx, "a")
	require.NoError(t, err)
	n, err := store.IncrementViews(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)
}

func TestSiteStore_ListPublicAndDelete(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 4; i++ {
		require.NoError(t, store.Save(ctx, &domain.Site{
			ID:          fmt.Sprintf("s%d", i),
			OwnerID:     "u",
			Title:       "t",
			HTMLContent: "x",
			IsPublic:    i != 1,
			UpdatedAt:   base.Add(time.Duration(i) * time.Minute),
		}))
	}

	sites, err := store.ListPublic(ctx, 10)
	require.NoError(t, err)
	ids := make([]string, len(sites))
	for i, s := range sites {
		ids[i] = s.ID
	}
	assert.Equal(t, []string{"s3", "s2", "s0"}, ids)

	require.NoError(t, store.Delete(ctx, "s3"))
	sites, err = store.ListPublic(ctx, 1)
	require.NoError(t, err)
	require.Len(t, sites, 1)
	assert.Equal(t, "s2", sites[0].ID)
}
