package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/patrickmn/go-cache"
	"github.com/user/movierate/internal/model"
	"github.com/user/movierate/internal/repository"
)

const genresCacheKey = "genres:all"

// CreateGenreInput 新建类型参数
type CreateGenreInput struct {
	Name string `json:"name" validate:"required,max=100"`
}

// GenreService 类型
type GenreService struct {
	repos *repository.Repositories
	cache *cache.Cache
}

// NewGenreService 创建类型服务
func NewGenreService(repos *repository.Repositories) *GenreService {
	return &GenreService{
		repos: repos,
		cache: cache.New(10*time.Minute, 20*time.Minute),
	}
}

// Create 新建类型，名称区分大小写且不可重复
func (s *GenreService) Create(ctx context.Context, input CreateGenreInput) (*model.Genre, error) {
	input.Name = strings.TrimSpace(input.Name)
	if err := validateInput(&input); err != nil {
		return nil, err
	}

	existing, err := s.repos.Genre.FindByName(ctx, input.Name)
	if err != nil {
		return nil, internal("find genre", err)
	}
	if existing != nil {
		return nil, fmt.Errorf("%w: genre %q already exists", ErrConflict, input.Name)
	}

	genre, err := s.repos.Genre.Create(ctx, input.Name)
	if err != nil {
		return nil, internal("create genre", err)
	}

	s.cache.Delete(genresCacheKey)
	return genre, nil
}

// List 全部类型
func (s *GenreService) List(ctx context.Context) ([]model.Genre, error) {
	if cached, ok := s.cache.Get(genresCacheKey); ok {
		return cached.([]model.Genre), nil
	}

	genres, err := s.repos.Genre.ListAll(ctx)
	if err != nil {
		return nil, internal("list genres", err)
	}
	s.cache.SetDefault(genresCacheKey, genres)
	return genres, nil
}
