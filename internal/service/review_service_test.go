package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/user/movierate/internal/model"
	"github.com/user/movierate/internal/repository"
	"github.com/user/movierate/internal/testutil"
	"gorm.io/gorm"
)

func TestReviewService_CreateMaintainsAggregates(t *testing.T) {
	svc, db := newTestServices(t)
	ctx := context.Background()

	user := testutil.MustUser(t, db, "u@example.com", "u")
	movie := testutil.MustMovie(t, db, "M")

	ratings := []int{5, 3, 4, 1, 2}
	sum := 0
	for i, rating := range ratings {
		_, err := svc.Review.Create(ctx, user.ID, CreateReviewInput{MovieID: movie.ID, Rating: rating})
		require.NoError(t, err)
		sum += rating

		got, err := svc.Movie.Get(ctx, movie.ID)
		require.NoError(t, err)
		assert.Equal(t, i+1, got.ReviewCount)
		assert.InDelta(t, repository.RoundRating(float64(sum)/float64(i+1)), got.RatingAverage, 1e-9)
	}
}

func TestReviewService_RoundsToTwoDecimals(t *testing.T) {
	svc, db := newTestServices(t)
	ctx := context.Background()

	user := testutil.MustUser(t, db, "u@example.com", "u")
	movie := testutil.MustMovie(t, db, "M")

	for _, rating := range []int{5, 4, 4} {
		_, err := svc.Review.Create(ctx, user.ID, CreateReviewInput{MovieID: movie.ID, Rating: rating})
		require.NoError(t, err)
	}

	got, err := svc.Movie.Get(ctx, movie.ID)
	require.NoError(t, err)
	assert.Equal(t, 4.33, got.RatingAverage)
}

func TestReviewService_CreateRejectsMissingMovieAndUser(t *testing.T) {
	svc, db := newTestServices(t)
	ctx := context.Background()

	user := testutil.MustUser(t, db, "u@example.com", "u")
	movie := testutil.MustMovie(t, db, "M")

	_, err := svc.Review.Create(ctx, user.ID, CreateReviewInput{MovieID: movie.ID + 100, Rating: 3})
	assert.True(t, errors.Is(err, ErrNotFound))

	_, err = svc.Review.Create(ctx, user.ID+100, CreateReviewInput{MovieID: movie.ID, Rating: 3})
	assert.True(t, errors.Is(err, ErrNotFound))

	var count int64
	db.Model(&model.Review{}).Count(&count)
	assert.Zero(t, count)

	got, err := svc.Movie.Get(ctx, movie.ID)
	require.NoError(t, err)
	assert.Zero(t, got.ReviewCount)
	assert.Zero(t, got.RatingAverage)
}

func TestReviewService_CreateValidatesRating(t *testing.T) {
	svc, db := newTestServices(t)
	ctx := context.Background()

	user := testutil.MustUser(t, db, "u@example.com", "u")
	movie := testutil.MustMovie(t, db, "M")

	for _, rating := range []int{0, 6, -1} {
		_, err := svc.Review.Create(ctx, user.ID, CreateReviewInput{MovieID: movie.ID, Rating: rating})
		assert.True(t, errors.Is(err, ErrValidation), "rating %d", rating)
	}
}

func TestReviewService_Like(t *testing.T) {
	svc, db := newTestServices(t)
	ctx := context.Background()

	user := testutil.MustUser(t, db, "u@example.com", "u")
	movie := testutil.MustMovie(t, db, "M")
	review, err := svc.Review.Create(ctx, user.ID, CreateReviewInput{MovieID: movie.ID, Rating: 4})
	require.NoError(t, err)
	assert.Zero(t, review.Likes)

	liked, err := svc.Review.Like(ctx, review.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, liked.Likes)

	liked, err = svc.Review.Like(ctx, review.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, liked.Likes)

	_, err = svc.Review.Like(ctx, review.ID+100)
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestReviewService_ListByMovie(t *testing.T) {
	svc, db := newTestServices(t)
	ctx := context.Background()

	user := testutil.MustUser(t, db, "u@example.com", "reviewer")
	movie := testutil.MustMovie(t, db, "M")
	_, err := svc.Review.Create(ctx, user.ID, CreateReviewInput{MovieID: movie.ID, Rating: 4, Comment: "solid"})
	require.NoError(t, err)

	reviews, err := svc.Review.ListByMovie(ctx, movie.ID)
	require.NoError(t, err)
	require.Len(t, reviews, 1)
	assert.Equal(t, "reviewer", reviews[0].UserUsername)
	assert.Equal(t, "solid", reviews[0].Comment)

	_, err = svc.Review.ListByMovie(ctx, movie.ID+100)
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestReviewService_InvalidatesTopCache(t *testing.T) {
	svc, db := newTestServices(t)
	ctx := context.Background()

	user := testutil.MustUser(t, db, "u@example.com", "u")
	first := testutil.MustMovie(t, db, "First")
	second := testutil.MustMovie(t, db, "Second")

	top, err := svc.Movie.Top(ctx, 1)
	require.NoError(t, err)
	require.Len(t, top, 1)
	assert.Equal(t, first.ID, top[0].ID)

	_, err = svc.Review.Create(ctx, user.ID, CreateReviewInput{MovieID: second.ID, Rating: 5})
	require.NoError(t, err)

	top, err = svc.Movie.Top(ctx, 1)
	require.NoError(t, err)
	require.Len(t, top, 1)
	assert.Equal(t, second.ID, top[0].ID)
	assert.Equal(t, 5.0, top[0].RatingAverage)
}

func TestReviewService_CreateRollsBackWhenAggregateUpdateFails(t *testing.T) {
	svc, db := newTestServices(t)
	ctx := context.Background()

	user := testutil.MustUser(t, db, "u@example.com", "u")
	movie := testutil.MustMovie(t, db, "M")
	_, err := svc.Review.Create(ctx, user.ID, CreateReviewInput{MovieID: movie.ID, Rating: 4})
	require.NoError(t, err)

	require.NoError(t, db.Callback().Update().Before("gorm:update").Register("test:fail_movie_update", func(tx *gorm.DB) {
		if tx.Statement.Table == "movies" {
			_ = tx.AddError(errors.New("aggregate write failed"))
		}
	}))

	_, err = svc.Review.Create(ctx, user.ID, CreateReviewInput{MovieID: movie.ID, Rating: 1, Comment: "lost"})
	assert.True(t, errors.Is(err, ErrInternal))

	var count int64
	db.Model(&model.Review{}).Where("movie_id = ?", movie.ID).Count(&count)
	assert.Equal(t, int64(1), count)

	var got model.Movie
	require.NoError(t, db.First(&got, movie.ID).Error)
	assert.Equal(t, 1, got.ReviewCount)
	assert.Equal(t, 4.0, got.RatingAverage)
}
