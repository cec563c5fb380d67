package repository_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/user/movierate/internal/repository"
	"github.com/user/movierate/internal/testutil"
)

func TestWatchlistRepository_AddAllowsDuplicates(t *testing.T) {
	db := testutil.NewDB(t)
	ctx := context.Background()
	repo := repository.NewWatchlistRepository(db)

	user := testutil.MustUser(t, db, "u@example.com", "u")
	movie := testutil.MustMovie(t, db, "M")

	_, err := repo.Add(ctx, user.ID, movie.ID)
	require.NoError(t, err)
	_, err = repo.Add(ctx, user.ID, movie.ID)
	require.NoError(t, err)

	entries, err := repo.ListByUser(ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	require.NotNil(t, entries[0].Movie)
	assert.Equal(t, "M", entries[0].Movie.Title)

	count, err := repo.CountByUser(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)

	removed, err := repo.Remove(ctx, user.ID, movie.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), removed)
}
