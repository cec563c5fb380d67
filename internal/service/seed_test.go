package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/user/movierate/internal/model"
	"github.com/user/movierate/internal/testutil"
	"gorm.io/gorm"
)

func TestDefaultCatalog(t *testing.T) {
	catalog, err := DefaultCatalog()
	require.NoError(t, err)
	assert.Len(t, catalog, 20)
	for _, f := range catalog {
		assert.NotEmpty(t, f.Title)
		assert.NotEmpty(t, f.Genres, f.Title)
	}
}

func TestLoadCatalog(t *testing.T) {
	catalog, err := LoadCatalog(strings.NewReader(`
movies:
  - title: Heat
    director: Michael Mann
    year: 1995
    genres: [crime, drama]
`))
	require.NoError(t, err)
	require.Len(t, catalog, 1)
	assert.Equal(t, "Heat", catalog[0].Title)
	assert.Equal(t, 1995, catalog[0].Year)
	assert.Equal(t, []string{"crime", "drama"}, catalog[0].Genres)

	empty, err := LoadCatalog(strings.NewReader(""))
	require.NoError(t, err)
	assert.Empty(t, empty)

	_, err = LoadCatalog(strings.NewReader("movies:\n  - title: X\n    rating: 5\n"))
	assert.True(t, errors.Is(err, ErrValidation))
}

func TestSeeder_SeedIsIdempotent(t *testing.T) {
	db := testutil.NewDB(t)
	ctx := context.Background()
	seeder := NewSeeder(db)

	catalog := []Fixture{
		{Title: "Heat", Director: "Michael Mann", Year: 1995, Genres: []string{"crime", "drama"}},
		{Title: "Alien", Director: "Ridley Scott", Year: 1979, Genres: []string{"horror", "crime", "horror"}},
	}

	result, err := seeder.Seed(ctx, catalog)
	require.NoError(t, err)
	assert.False(t, result.Skipped)
	assert.Equal(t, 2, result.MoviesCreated)
	assert.Equal(t, 3, result.GenresCreated)

	again, err := seeder.Seed(ctx, catalog)
	require.NoError(t, err)
	assert.True(t, again.Skipped)

	var movies, genres, links int64
	db.Model(&model.Movie{}).Count(&movies)
	db.Model(&model.Genre{}).Count(&genres)
	db.Table("movie_genres").Count(&links)
	assert.Equal(t, int64(2), movies)
	assert.Equal(t, int64(3), genres)
	assert.Equal(t, int64(4), links)
}

func TestSeeder_ReusesExistingGenres(t *testing.T) {
	db := testutil.NewDB(t)
	ctx := context.Background()

	existing := testutil.MustGenre(t, db, "drama")

	result, err := NewSeeder(db).Seed(ctx, []Fixture{{Title: "Gump", Genres: []string{"drama"}}})
	require.NoError(t, err)
	assert.Zero(t, result.GenresCreated)

	var movie model.Movie
	require.NoError(t, db.Preload("Genres").First(&movie).Error)
	require.Len(t, movie.Genres, 1)
	assert.Equal(t, existing.ID, movie.Genres[0].ID)
}

func TestSeeder_SkipsWhenMoviesExist(t *testing.T) {
	db := testutil.NewDB(t)
	testutil.MustMovie(t, db, "Already here")

	result, err := NewSeeder(db).Seed(context.Background(), []Fixture{{Title: "Heat", Genres: []string{"crime"}}})
	require.NoError(t, err)
	assert.True(t, result.Skipped)

	var genres int64
	db.Model(&model.Genre{}).Count(&genres)
	assert.Zero(t, genres)
}

func TestSeeder_RejectsInvalidFixture(t *testing.T) {
	db := testutil.NewDB(t)

	_, err := NewSeeder(db).Seed(context.Background(), []Fixture{{Title: "Ok"}, {Title: ""}})
	assert.True(t, errors.Is(err, ErrValidation))

	var movies int64
	db.Model(&model.Movie{}).Count(&movies)
	assert.Zero(t, movies)
}

func TestBootstrap_RunSeedsDefaultCatalog(t *testing.T) {
	db := testutil.NewDB(t)
	catalog, err := DefaultCatalog()
	require.NoError(t, err)

	result, err := NewBootstrap(db, catalog).Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 20, result.MoviesCreated)

	result, err = NewBootstrap(db, catalog).Run(context.Background())
	require.NoError(t, err)
	assert.True(t, result.Skipped)
}

func TestSeeder_RollsBackOnMidwayFailure(t *testing.T) {
	db := testutil.NewDB(t)

	inserts := 0
	require.NoError(t, db.Callback().Create().Before("gorm:create").Register("test:fail_second_movie", func(tx *gorm.DB) {
		if tx.Statement.Table != "movies" {
			return
		}
		inserts++
		if inserts == 2 {
			_ = tx.AddError(errors.New("insert failed"))
		}
	}))

	_, err := NewSeeder(db).Seed(context.Background(), []Fixture{
		{Title: "Heat", Genres: []string{"crime"}},
		{Title: "Alien", Genres: []string{"horror"}},
		{Title: "Gump", Genres: []string{"drama"}},
	})
	assert.True(t, errors.Is(err, ErrInternal))

	var movies, genres, links int64
	db.Model(&model.Movie{}).Count(&movies)
	db.Model(&model.Genre{}).Count(&genres)
	db.Table("movie_genres").Count(&links)
	assert.Zero(t, movies)
	assert.Zero(t, genres)
	assert.Zero(t, links)
}
