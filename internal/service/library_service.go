package service

import (
	"context"
	"fmt"

	"github.com/user/movierate/internal/model"
	"github.com/user/movierate/internal/repository"
)

// LibraryService 用户的片单：看过、想看、评过分
type LibraryService struct {
	repos *repository.Repositories
}

// NewLibraryService 创建片单服务
func NewLibraryService(repos *repository.Repositories) *LibraryService {
	return &LibraryService{repos: repos}
}

// Watched 用户评论过的电影，同一部只出现一次
func (s *LibraryService) Watched(ctx context.Context, userID int) ([]model.Movie, error) {
	movies, err := s.repos.Movie.ReviewedBy(ctx, userID)
	if err != nil {
		return nil, internal("watched movies", err)
	}
	return movies, nil
}

// Watchlist 想看列表中的电影，按加入顺序，每个条目对应一项
func (s *LibraryService) Watchlist(ctx context.Context, userID int) ([]model.Movie, error) {
	entries, err := s.repos.Watchlist.ListByUser(ctx, userID)
	if err != nil {
		return nil, internal("watchlist", err)
	}

	movies := make([]model.Movie, 0, len(entries))
	for _, e := range entries {
		if e.Movie != nil {
			movies = append(movies, *e.Movie)
		}
	}
	return movies, nil
}

// RatedMovies 用户评过分的电影及其打分，每条评论对应一项
func (s *LibraryService) RatedMovies(ctx context.Context, userID int) ([]model.RatedMovie, error) {
	reviews, err := s.repos.Review.ListByUser(ctx, userID)
	if err != nil {
		return nil, internal("rated movies", err)
	}

	rated := make([]model.RatedMovie, 0, len(reviews))
	for _, r := range reviews {
		if r.Movie == nil {
			continue
		}
		rated = append(rated, model.RatedMovie{
			Movie:      *r.Movie,
			YourRating: r.Rating,
		})
	}
	return rated, nil
}

// AddToWatchlist 加入想看；不去重，重复加入会产生多条记录
func (s *LibraryService) AddToWatchlist(ctx context.Context, userID, movieID int) (*model.Watchlist, error) {
	exists, err := s.repos.Movie.Exists(ctx, movieID)
	if err != nil {
		return nil, internal("check movie", err)
	}
	if !exists {
		return nil, fmt.Errorf("%w: movie %d", ErrNotFound, movieID)
	}

	entry, err := s.repos.Watchlist.Add(ctx, userID, movieID)
	if err != nil {
		return nil, internal("add to watchlist", err)
	}
	return entry, nil
}

// RemoveFromWatchlist 移出想看（同一部电影的所有条目）
func (s *LibraryService) RemoveFromWatchlist(ctx context.Context, userID, movieID int) error {
	removed, err := s.repos.Watchlist.Remove(ctx, userID, movieID)
	if err != nil {
		return internal("remove from watchlist", err)
	}
	if removed == 0 {
		return fmt.Errorf("%w: movie %d is not in watchlist", ErrNotFound, movieID)
	}
	return nil
}
