package service

import (
	"context"
	"fmt"
	"log"

	"github.com/user/movierate/internal/model"
	"github.com/user/movierate/internal/repository"
	"gorm.io/gorm"
)

// CreateReviewInput 新建评论参数
type CreateReviewInput struct {
	MovieID int    `json:"movie_id" validate:"required,gt=0"`
	Rating  int    `json:"rating" validate:"gte=1,lte=5"`
	Comment string `json:"comment" validate:"max=5000"`
}

// ReviewService 评论与评分聚合
type ReviewService struct {
	repos        *repository.Repositories
	onAggregates func()
}

// NewReviewService onAggregates 在评分聚合变化并提交后调用，可为 nil
func NewReviewService(repos *repository.Repositories, onAggregates func()) *ReviewService {
	return &ReviewService{repos: repos, onAggregates: onAggregates}
}

// Create 写入评论并重算电影的 review_count 与 rating_average
// 锁定电影行后在同一事务里插入评论并用聚合查询重算，任一步失败整体回滚
func (s *ReviewService) Create(ctx context.Context, userID int, input CreateReviewInput) (*model.Review, error) {
	if err := validateInput(&input); err != nil {
		return nil, err
	}

	var review *model.Review
	err := s.repos.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repos := repository.NewRepositories(tx)

		movie, err := repos.Movie.FindByIDForUpdate(ctx, input.MovieID)
		if err != nil {
			return err
		}
		if movie == nil {
			return fmt.Errorf("%w: movie %d", ErrNotFound, input.MovieID)
		}

		user, err := repos.User.FindByID(ctx, userID)
		if err != nil {
			return err
		}
		if user == nil {
			return fmt.Errorf("%w: user %d", ErrNotFound, userID)
		}

		review = &model.Review{
			Rating:  input.Rating,
			Comment: input.Comment,
			UserID:  userID,
			MovieID: input.MovieID,
		}
		if err := repos.Review.Create(ctx, review); err != nil {
			return err
		}

		return repos.Movie.RecomputeAggregates(ctx, input.MovieID)
	})
	if err != nil {
		if !isClassified(err) {
			log.Printf("[ReviewService] 写入评论失败 movie=%d user=%d: %v", input.MovieID, userID, err)
		}
		return nil, internal("create review", err)
	}

	if s.onAggregates != nil {
		s.onAggregates()
	}
	return review, nil
}

// Like 点赞数加一
func (s *ReviewService) Like(ctx context.Context, reviewID int) (*model.Review, error) {
	affected, err := s.repos.Review.IncrementLikes(ctx, reviewID)
	if err != nil {
		return nil, internal("like review", err)
	}
	if affected == 0 {
		return nil, fmt.Errorf("%w: review %d", ErrNotFound, reviewID)
	}

	review, err := s.repos.Review.FindByID(ctx, reviewID)
	if err != nil {
		return nil, internal("reload review", err)
	}
	if review == nil {
		return nil, fmt.Errorf("%w: review %d", ErrNotFound, reviewID)
	}
	return review, nil
}

// ListByMovie 电影的评论（带作者用户名）
func (s *ReviewService) ListByMovie(ctx context.Context, movieID int) ([]model.ReviewWithAuthor, error) {
	exists, err := s.repos.Movie.Exists(ctx, movieID)
	if err != nil {
		return nil, internal("check movie", err)
	}
	if !exists {
		return nil, fmt.Errorf("%w: movie %d", ErrNotFound, movieID)
	}

	reviews, err := s.repos.Review.ListByMovie(ctx, movieID)
	if err != nil {
		return nil, internal("list movie reviews", err)
	}
	return reviews, nil
}

// ListByUser 用户写过的评论（带电影信息）
func (s *ReviewService) ListByUser(ctx context.Context, userID int) ([]model.Review, error) {
	reviews, err := s.repos.Review.ListByUser(ctx, userID)
	if err != nil {
		return nil, internal("list user reviews", err)
	}
	return reviews, nil
}
