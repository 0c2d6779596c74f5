package archive

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blackmichael/go-plurk"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "archive.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func postedAt(t time.Time) plurk.Time {
	return plurk.Time{Time: t.UTC()}
}

func TestSaveAndQueryPlurks(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	base := time.Date(2009, 6, 5, 12, 0, 0, 0, time.UTC)

	plurks := []plurk.Plurk{
		{ID: 1, OwnerID: 7, Qualifier: "says", ContentRaw: "first", Posted: postedAt(base)},
		{ID: 2, OwnerID: 7, Qualifier: "says", ContentRaw: "second", Posted: postedAt(base.Add(time.Hour))},
		{ID: 3, OwnerID: 8, Qualifier: "asks", ContentRaw: "third", Posted: postedAt(base.Add(2 * time.Hour))},
	}
	require.NoError(t, store.SavePlurks(ctx, plurks))

	got, cursor, err := store.RecentPlurks(ctx, 10, "")
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Empty(t, cursor, "no next page when results fit the limit")

	// Newest first.
	assert.Equal(t, int64(3), got[0].ID)
	assert.Equal(t, int64(2), got[1].ID)
	assert.Equal(t, int64(1), got[2].ID)
	assert.Equal(t, "third", got[0].ContentRaw)
	assert.Equal(t, base.Add(2*time.Hour), got[0].Posted.Time)
}

func TestSavePlurksUpsert(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	posted := postedAt(time.Date(2009, 6, 5, 12, 0, 0, 0, time.UTC))

	require.NoError(t, store.SavePlurks(ctx, []plurk.Plurk{
		{ID: 1, ContentRaw: "original", ResponseCount: 0, Posted: posted},
	}))
	require.NoError(t, store.SavePlurks(ctx, []plurk.Plurk{
		{ID: 1, ContentRaw: "edited", ResponseCount: 4, Posted: posted},
	}))

	got, _, err := store.RecentPlurks(ctx, 10, "")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "edited", got[0].ContentRaw)
	assert.Equal(t, 4, got[0].ResponseCount)
}

func TestRecentPlurksPagination(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	base := time.Date(2009, 6, 5, 12, 0, 0, 0, time.UTC)

	var plurks []plurk.Plurk
	for i := int64(1); i <= 5; i++ {
		plurks = append(plurks, plurk.Plurk{
			ID:     i,
			Posted: postedAt(base.Add(time.Duration(i) * time.Minute)),
		})
	}
	require.NoError(t, store.SavePlurks(ctx, plurks))

	page1, cursor, err := store.RecentPlurks(ctx, 2, "")
	require.NoError(t, err)
	require.Len(t, page1, 2)
	require.NotEmpty(t, cursor)
	assert.Equal(t, int64(5), page1[0].ID)
	assert.Equal(t, int64(4), page1[1].ID)

	page2, cursor, err := store.RecentPlurks(ctx, 2, cursor)
	require.NoError(t, err)
	require.Len(t, page2, 2)
	assert.Equal(t, int64(3), page2[0].ID)
	assert.Equal(t, int64(2), page2[1].ID)

	page3, cursor, err := store.RecentPlurks(ctx, 2, cursor)
	require.NoError(t, err)
	require.Len(t, page3, 1)
	assert.Equal(t, int64(1), page3[0].ID)
	assert.Empty(t, cursor)
}

func TestRecentPlurksNonPositiveLimit(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.SavePlurks(ctx, []plurk.Plurk{
		{ID: 1, OwnerID: 7, Posted: postedAt(time.Date(2009, 6, 5, 12, 0, 0, 0, time.UTC))},
	}))

	_, _, err := store.RecentPlurks(ctx, 0, "")
	assert.Error(t, err)

	_, _, err = store.RecentPlurks(ctx, -1, "")
	assert.Error(t, err)
}

func TestRecentPlurksBadCursor(t *testing.T) {
	store := newTestStore(t)

	_, _, err := store.RecentPlurks(context.Background(), 10, "garbage")
	assert.Error(t, err)
}

func TestSaveAndQueryResponses(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	base := time.Date(2009, 6, 5, 12, 0, 0, 0, time.UTC)

	require.NoError(t, store.SaveResponses(ctx, 42, []plurk.Response{
		{ID: 201, UserID: 5, ContentRaw: "second", Posted: postedAt(base.Add(time.Minute))},
		{ID: 200, UserID: 6, ContentRaw: "first", Posted: postedAt(base)},
	}))

	got, err := store.Responses(ctx, 42)
	require.NoError(t, err)
	require.Len(t, got, 2)

	// Oldest first.
	assert.Equal(t, "first", got[0].ContentRaw)
	assert.Equal(t, "second", got[1].ContentRaw)

	other, err := store.Responses(ctx, 99)
	require.NoError(t, err)
	assert.Empty(t, other)
}

func TestPruneByCount(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	base := time.Date(2009, 6, 5, 12, 0, 0, 0, time.UTC)

	var plurks []plurk.Plurk
	for i := int64(1); i <= 5; i++ {
		plurks = append(plurks, plurk.Plurk{
			ID:     i,
			Posted: postedAt(base.Add(time.Duration(i) * time.Minute)),
		})
	}
	require.NoError(t, store.SavePlurks(ctx, plurks))
	require.NoError(t, store.SaveResponses(ctx, 1, []plurk.Response{{ID: 100}}))

	deleted, err := store.Prune(ctx, 24*time.Hour, 2)
	require.NoError(t, err)
	assert.Equal(t, int64(3), deleted)

	got, _, err := store.RecentPlurks(ctx, 10, "")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, int64(5), got[0].ID)
	assert.Equal(t, int64(4), got[1].ID)

	// Responses of pruned plurks go with them.
	responses, err := store.Responses(ctx, 1)
	require.NoError(t, err)
	assert.Empty(t, responses)
}
