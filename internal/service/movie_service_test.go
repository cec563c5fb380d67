package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/user/movierate/internal/model"
	"github.com/user/movierate/internal/testutil"
)

func movieTitles(movies []model.Movie) []string {
	out := make([]string, 0, len(movies))
	for _, m := range movies {
		out = append(out, m.Title)
	}
	return out
}

func TestMovieService_TopScenario(t *testing.T) {
	svc, db := newTestServices(t)
	ctx := context.Background()

	user := testutil.MustUser(t, db, "u@example.com", "u")
	a := testutil.MustMovie(t, db, "A")
	b := testutil.MustMovie(t, db, "B")
	c := testutil.MustMovie(t, db, "C")

	review := func(movieID int, ratings ...int) {
		for _, r := range ratings {
			_, err := svc.Review.Create(ctx, user.ID, CreateReviewInput{MovieID: movieID, Rating: r})
			require.NoError(t, err)
		}
	}
	review(a.ID, 5, 5, 5, 5, 4)
	review(b.ID, 4, 4, 4, 4, 5)
	review(c.ID, 5)

	top, err := svc.Movie.Top(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, []string{"C", "A"}, movieTitles(top))
	assert.Equal(t, 5.0, top[0].RatingAverage)
	assert.Equal(t, 4.8, top[1].RatingAverage)

	gotB, err := svc.Movie.Get(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, 4.2, gotB.RatingAverage)
	assert.Equal(t, 5, gotB.ReviewCount)
}

func TestMovieService_TopOrderingAndClamp(t *testing.T) {
	svc, db := newTestServices(t)
	ctx := context.Background()

	for _, title := range []string{"A", "B", "C", "D"} {
		testutil.MustMovie(t, db, title)
	}
	require.NoError(t, db.Model(&model.Movie{}).Where("title = ?", "A").
		Updates(map[string]interface{}{"rating_average": 4.5, "review_count": 2}).Error)
	require.NoError(t, db.Model(&model.Movie{}).Where("title = ?", "B").
		Updates(map[string]interface{}{"rating_average": 4.5, "review_count": 9}).Error)
	require.NoError(t, db.Model(&model.Movie{}).Where("title = ?", "C").
		Updates(map[string]interface{}{"rating_average": 3.0, "review_count": 1}).Error)

	top, err := svc.Movie.Top(ctx, 3)
	require.NoError(t, err)
	assert.Equal(t, []string{"B", "A", "C"}, movieTitles(top))

	top, err = svc.Movie.Top(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, top, 1)

	assert.Equal(t, MaxListLimit, ClampTopLimit(1000))
	assert.Equal(t, 1, ClampTopLimit(-5))
	assert.Equal(t, 7, ClampTopLimit(7))
}

func TestMovieService_List(t *testing.T) {
	svc, db := newTestServices(t)
	ctx := context.Background()

	drama := testutil.MustGenre(t, db, "drama")
	crime := testutil.MustGenre(t, db, "crime")
	testutil.MustMovie(t, db, "The Godfather", drama, crime)
	testutil.MustMovie(t, db, "Forrest Gump", drama)

	all, err := svc.Movie.List(ctx, ListFilter{Genre: AllGenres})
	require.NoError(t, err)
	assert.Equal(t, []string{"The Godfather", "Forrest Gump"}, movieTitles(all))

	crimes, err := svc.Movie.List(ctx, ListFilter{Genre: "crime"})
	require.NoError(t, err)
	assert.Equal(t, []string{"The Godfather"}, movieTitles(crimes))

	byTitle, err := svc.Movie.List(ctx, ListFilter{Search: "  forrest "})
	require.NoError(t, err)
	assert.Equal(t, []string{"Forrest Gump"}, movieTitles(byTitle))
}

func TestMovieService_Search(t *testing.T) {
	svc, db := newTestServices(t)
	ctx := context.Background()

	testutil.MustMovie(t, db, "Heat")
	testutil.MustMovie(t, db, "Alien")

	found, err := svc.Movie.Search(ctx, "HEAT")
	require.NoError(t, err)
	assert.Equal(t, []string{"Heat"}, movieTitles(found))

	// 缓存在新增电影后失效
	_, err = svc.Movie.Create(ctx, CreateMovieInput{Title: "Heat 2"})
	require.NoError(t, err)
	found, err = svc.Movie.Search(ctx, "heat")
	require.NoError(t, err)
	assert.Equal(t, []string{"Heat", "Heat 2"}, movieTitles(found))

	_, err = svc.Movie.Search(ctx, "   ")
	assert.True(t, errors.Is(err, ErrValidation))
}

func TestMovieService_RecommendedExcludesReviewed(t *testing.T) {
	svc, db := newTestServices(t)
	ctx := context.Background()

	reviewer := testutil.MustUser(t, db, "r@example.com", "r")
	other := testutil.MustUser(t, db, "o@example.com", "o")
	drama := testutil.MustGenre(t, db, "drama")
	horror := testutil.MustGenre(t, db, "horror")
	seen := testutil.MustMovie(t, db, "Seen Drama", drama)
	testutil.MustMovie(t, db, "Unseen Drama", drama)
	scary := testutil.MustMovie(t, db, "Unseen Horror", horror)

	_, err := svc.Review.Create(ctx, reviewer.ID, CreateReviewInput{MovieID: seen.ID, Rating: 5})
	require.NoError(t, err)
	_, err = svc.Review.Create(ctx, other.ID, CreateReviewInput{MovieID: scary.ID, Rating: 4})
	require.NoError(t, err)

	recs, err := svc.Movie.Recommended(ctx, reviewer.ID, 0)
	require.NoError(t, err)
	// 不考虑类型偏好，只按评分排序
	assert.Equal(t, []string{"Unseen Horror", "Unseen Drama"}, movieTitles(recs))

	recs, err = svc.Movie.Recommended(ctx, reviewer.ID, 1)
	require.NoError(t, err)
	assert.Equal(t, []string{"Unseen Horror"}, movieTitles(recs))

	fresh, err := svc.Movie.Recommended(ctx, 9999, 10)
	require.NoError(t, err)
	assert.Len(t, fresh, 3)
}

func TestMovieService_CreateDropsUnknownGenres(t *testing.T) {
	svc, db := newTestServices(t)
	ctx := context.Background()

	drama := testutil.MustGenre(t, db, "drama")

	movie, err := svc.Movie.Create(ctx, CreateMovieInput{
		Title:    "New",
		Director: "Someone",
		Year:     2024,
		GenreIDs: []int{drama.ID, 424242},
	})
	require.NoError(t, err)
	assert.Zero(t, movie.RatingAverage)
	assert.Zero(t, movie.ReviewCount)

	got, err := svc.Movie.Get(ctx, movie.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"drama"}, got.GenreNames())

	_, err = svc.Movie.Create(ctx, CreateMovieInput{Title: "  "})
	assert.True(t, errors.Is(err, ErrValidation))
}

func TestMovieService_GetNotFound(t *testing.T) {
	svc, _ := newTestServices(t)

	_, err := svc.Movie.Get(context.Background(), 12345)
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestMovieService_CachedResultsAreCopies(t *testing.T) {
	svc, db := newTestServices(t)
	ctx := context.Background()

	testutil.MustMovie(t, db, "Heat")

	first, err := svc.Movie.Top(ctx, 1)
	require.NoError(t, err)
	first[0].Title = "changed"

	again, err := svc.Movie.Top(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "Heat", again[0].Title)

	found, err := svc.Movie.Search(ctx, "heat")
	require.NoError(t, err)
	found[0].Title = "changed"

	found, err = svc.Movie.Search(ctx, "heat")
	require.NoError(t, err)
	assert.Equal(t, "Heat", found[0].Title)
}

func TestMovieService_TopIgnoresCallerCancellation(t *testing.T) {
	svc, db := newTestServices(t)

	testutil.MustMovie(t, db, "Heat")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	top, err := svc.Movie.Top(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, []string{"Heat"}, movieTitles(top))
}
