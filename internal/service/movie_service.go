package service

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"sync/atomic"
	"time"

	"github.com/patrickmn/go-cache"
	"github.com/user/movierate/internal/model"
	"github.com/user/movierate/internal/repository"
	"github.com/user/movierate/internal/utils"
	"golang.org/x/sync/singleflight"
)

const (
	DefaultListLimit = 10
	MaxListLimit     = 100

	// AllGenres 页面下拉框里“全部类型”的取值，等同于不过滤
	AllGenres = "All Genres"
)

// ListFilter 电影列表筛选
type ListFilter struct {
	Search string
	Genre  string
}

// CreateMovieInput 新建电影参数
type CreateMovieInput struct {
	Title    string `json:"title" validate:"required,max=255"`
	Director string `json:"director" validate:"max=255"`
	Year     int    `json:"year" validate:"gte=0,lte=3000"`
	Synopsis string `json:"synopsis"`
	GenreIDs []int  `json:"genre_ids"`
}

// MovieService 电影查询与创建
// 排行榜与搜索结果有进程内缓存，任何改动评分或片库的写操作后都会失效
type MovieService struct {
	repos       *repository.Repositories
	topCache    *cache.Cache
	searchCache *utils.LRUCache[string, []model.Movie]
	generation  atomic.Uint64
	sf          singleflight.Group
}

// NewMovieService 创建电影服务
func NewMovieService(repos *repository.Repositories) *MovieService {
	return &MovieService{
		repos:       repos,
		topCache:    cache.New(time.Minute, 5*time.Minute),
		searchCache: utils.NewLRUCache[string, []model.Movie](256, 5*time.Minute),
	}
}

// Invalidate 清空缓存
func (s *MovieService) Invalidate() {
	s.generation.Add(1)
	s.topCache.Flush()
	s.searchCache.Purge()
}

// ClampTopLimit 排行榜条数限制在 [1, 100]
func ClampTopLimit(limit int) int {
	if limit < 1 {
		return 1
	}
	if limit > MaxListLimit {
		return MaxListLimit
	}
	return limit
}

// Get 电影详情
func (s *MovieService) Get(ctx context.Context, id int) (*model.Movie, error) {
	movie, err := s.repos.Movie.FindByID(ctx, id)
	if err != nil {
		return nil, internal("get movie", err)
	}
	if movie == nil {
		return nil, fmt.Errorf("%w: movie %d", ErrNotFound, id)
	}
	return movie, nil
}

// List 按标题与类型筛选，都为空时返回全部电影
func (s *MovieService) List(ctx context.Context, filter ListFilter) ([]model.Movie, error) {
	genre := strings.TrimSpace(filter.Genre)
	if genre == AllGenres {
		genre = ""
	}

	movies, err := s.repos.Movie.List(ctx, repository.MovieFilter{
		Title: utils.NormalizeKeyword(filter.Search),
		Genre: genre,
	})
	if err != nil {
		return nil, internal("list movies", err)
	}
	return movies, nil
}

// Search 在标题、导演、简介中搜索
func (s *MovieService) Search(ctx context.Context, query string) ([]model.Movie, error) {
	keyword := utils.NormalizeKeyword(query)
	if keyword == "" {
		return nil, fmt.Errorf("%w: query is required", ErrValidation)
	}

	key := strings.ToLower(keyword)
	if movies, ok := s.searchCache.Get(key); ok {
		return slices.Clone(movies), nil
	}

	gen := s.generation.Load()
	movies, err := s.repos.Movie.Search(ctx, keyword)
	if err != nil {
		return nil, internal("search movies", err)
	}
	if s.generation.Load() == gen {
		s.searchCache.Set(key, movies)
	}
	return slices.Clone(movies), nil
}

// Top 评分排行，评分相同时评论多的在前
func (s *MovieService) Top(ctx context.Context, limit int) ([]model.Movie, error) {
	limit = ClampTopLimit(limit)
	key := fmt.Sprintf("top:%d", limit)

	if cached, ok := s.topCache.Get(key); ok {
		return slices.Clone(cached.([]model.Movie)), nil
	}

	// 并发请求同一榜单时只查一次库；查询不跟随首个请求取消
	sfCtx := context.WithoutCancel(ctx)
	val, err, _ := s.sf.Do(key, func() (interface{}, error) {
		gen := s.generation.Load()
		movies, err := s.repos.Movie.Top(sfCtx, limit)
		if err != nil {
			return nil, err
		}
		if s.generation.Load() == gen {
			s.topCache.Set(key, movies, cache.DefaultExpiration)
		}
		return movies, nil
	})
	if err != nil {
		return nil, internal("top movies", err)
	}
	return slices.Clone(val.([]model.Movie)), nil
}

// Recommended 推荐：排除用户评过的电影后按评分取前 N 部
// 不做类型偏好计算
func (s *MovieService) Recommended(ctx context.Context, userID, limit int) ([]model.Movie, error) {
	if limit <= 0 {
		limit = DefaultListLimit
	}
	if limit > MaxListLimit {
		limit = MaxListLimit
	}

	movies, err := s.repos.Movie.NotReviewedBy(ctx, userID, limit)
	if err != nil {
		return nil, internal("recommended movies", err)
	}
	return movies, nil
}

// Create 新建电影；genre_ids 中查不到的 ID 会被忽略
func (s *MovieService) Create(ctx context.Context, input CreateMovieInput) (*model.Movie, error) {
	input.Title = strings.TrimSpace(input.Title)
	if err := validateInput(&input); err != nil {
		return nil, err
	}

	genres, err := s.repos.Genre.FindByIDs(ctx, input.GenreIDs)
	if err != nil {
		return nil, internal("resolve genres", err)
	}

	movie := &model.Movie{
		Title:    input.Title,
		Director: strings.TrimSpace(input.Director),
		Year:     input.Year,
		Synopsis: input.Synopsis,
		Genres:   genres,
	}
	if err := s.repos.Movie.Create(ctx, movie); err != nil {
		return nil, internal("create movie", err)
	}

	s.Invalidate()
	return movie, nil
}
