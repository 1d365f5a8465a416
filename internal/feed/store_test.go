package feed

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2016, 5, 6, 12, 0, 0, 0, time.UTC)

func openStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "feed.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestStore_Empty(t *testing.T) {
	s := openStore(t)
	ctx := context.Background()

	entries, err := s.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, entries)

	n, err := s.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, n)
}

func TestStore_PrependAndAppendOrder(t *testing.T) {
	s := openStore(t)
	ctx := context.Background()

	middle, err := s.Append(ctx, now)
	require.NoError(t, err)
	top, err := s.Prepend(ctx, now.Add(time.Minute))
	require.NoError(t, err)
	bottom, err := s.Append(ctx, now.Add(2*time.Minute))
	require.NoError(t, err)

	assert.Less(t, top.Position, middle.Position)
	assert.Less(t, middle.Position, bottom.Position)

	entries, err := s.List(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.Equal(t, []int64{top.ID, middle.ID, bottom.ID}, []int64{entries[0].ID, entries[1].ID, entries[2].ID})
	assert.True(t, entries[0].FetchedAt.Equal(now.Add(time.Minute)))
}

func TestStore_PrependIntoEmpty(t *testing.T) {
	s := openStore(t)
	ctx := context.Background()

	e, err := s.Prepend(ctx, now)
	require.NoError(t, err)
	assert.Equal(t, int64(0), e.Position)
}

func TestStore_Seed(t *testing.T) {
	s := openStore(t)
	ctx := context.Background()

	require.NoError(t, s.Seed(ctx, 4, now))

	entries, err := s.List(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 4)
	for i, e := range entries {
		want := now.Add(-time.Duration(i) * SeedInterval)
		assert.True(t, e.FetchedAt.Equal(want), "entry %d: got %v, want %v", i, e.FetchedAt, want)
	}
}

func TestStore_Clear(t *testing.T) {
	s := openStore(t)
	ctx := context.Background()

	require.NoError(t, s.Seed(ctx, 3, now))
	require.NoError(t, s.Clear(ctx))

	n, err := s.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, n)
}

func TestStore_ReopenKeepsEntries(t *testing.T) {
	path := filepath.Join(t.TempDir(), "feed.db")
	ctx := context.Background()

	s, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, s.Seed(ctx, 2, now))
	require.NoError(t, s.Close())

	s, err = Open(path)
	require.NoError(t, err)
	defer s.Close()

	n, err := s.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}
