package service

import (
	"github.com/user/movierate/internal/repository"
)

// Services 服务集合
type Services struct {
	Movie   *MovieService
	Genre   *GenreService
	Review  *ReviewService
	User    *UserService
	Library *LibraryService
}

// NewServices 创建服务集合，评论写入或删除用户后自动让电影缓存失效
func NewServices(repos *repository.Repositories) *Services {
	movies := NewMovieService(repos)
	return &Services{
		Movie:   movies,
		Genre:   NewGenreService(repos),
		Review:  NewReviewService(repos, movies.Invalidate),
		User:    NewUserService(repos, movies.Invalidate),
		Library: NewLibraryService(repos),
	}
}
