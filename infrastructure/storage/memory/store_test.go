package memory

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hostgenie-api/core/domain"
	coreerrors "hostgenie-api/core/errors"
)

func TestSiteStore_SaveGetIsolated(t *testing.T) {
	store := NewSiteStore()
	ctx := context.Background()
	site := &domain.Site{ID: "abc", Title: "Bakery", HTMLContent: "<p>x</p>"}

	require.NoError(t, store.Save(ctx, site))
	site.Title = "mutated"

	got, err := store.Get(ctx, "abc")
	require.NoError(t, err)
	assert.Equal(t, "Bakery", got.Title)

	got.Title = "also mutated"
	again, _ := store.Get(ctx, "abc")
	assert.Equal(t, "Bakery", again.Title)
}

func TestSiteStore_NotFound(t *testing.T) {
	store := NewSiteStore()

	_, err := store.Get(context.Background(), "nope")
	assert.True(t, coreerrors.IsNotFound(err))

	_, err = store.IncrementViews(context.Background(), "nope")
	assert.True(t, coreerrors.IsNotFound(err))
}

func TestSiteStore_IncrementViews(t *testing.T) {
	store := NewSiteStore()
	ctx := context.Background()
	require.NoError(t, store.Save(ctx, &domain.Site{ID: "abc"}))

	for i := 1; i <= 3; i++ {
		n, err := store.IncrementViews(ctx, "abc")
		require.NoError(t, err)
		assert.Equal(t, int64(i), n)
	}
}

func TestSiteStore_ListPublic(t *testing.T) {
	store := NewSiteStore()
	ctx := context.Background()
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		require.NoError(t, store.Save(ctx, &domain.Site{
			ID:        fmt.Sprintf("s%d", i),
			IsPublic:  i != 2,
			UpdatedAt: base.Add(time.Duration(i) * time.Hour),
		}))
	}

	sites, err := store.ListPublic(ctx, 3)
	require.NoError(t, err)
	require.Len(t, sites, 3)
	assert.Equal(t, "s4", sites[0].ID)
	assert.Equal(t, "s3", sites[1].ID)
	assert.Equal(t, "s1", sites[2].ID)
}

func TestSiteStore_Delete(t *testing.T) {
	store := NewSiteStore()
	ctx := context.Background()
	require.NoError(t, store.Save(ctx, &domain.Site{ID: "abc"}))

	require.NoError(t, store.Delete(ctx, "abc"))
	require.NoError(t, store.Delete(ctx, "abc"))

	_, err := store.Get(ctx, "abc")
	assert.True(t, coreerrors.IsNotFound(err))
}
