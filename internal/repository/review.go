package repository

import (
	"context"
	"errors"

	"github.com/user/movierate/internal/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ReviewRepository struct {
	db *gorm.DB
}

func NewReviewRepository(db *gorm.DB) *ReviewRepository {
	return &ReviewRepository{db: db}
}

// ReviewStats 单部电影的评论统计
type ReviewStats struct {
	Count   int64
	Average float64
}

// Create 写入评论（不级联写关联对象）
func (r *ReviewRepository) Create(ctx context.Context, review *model.Review) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(review).Error
}

// FindByID 根据 ID 查找评论
func (r *ReviewRepository) FindByID(ctx context.Context, id int) (*model.Review, error) {
	var review model.Review
	err := r.db.WithContext(ctx).First(&review, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &review, nil
}

// StatsByMovie 统计电影的评论数与平均分
func (r *ReviewRepository) StatsByMovie(ctx context.Context, movieID int) (ReviewStats, error) {
	var stats ReviewStats
	err := r.db.WithContext(ctx).Model(&model.Review{}).
		Select("COUNT(*) AS count, COALESCE(AVG(rating), 0) AS average").
		Where("movie_id = ?", movieID).
		Scan(&stats).Error
	return stats, err
}

// IncrementLikes 点赞数原子加一，返回受影响行数
func (r *ReviewRepository) IncrementLikes(ctx context.Context, id int) (int64, error) {
	res := r.db.WithContext(ctx).Model(&model.Review{}).
		Where("id = ?", id).
		UpdateColumn("likes", gorm.Expr("likes + ?", 1))
	return res.RowsAffected, res.Error
}

// ListByMovie 电影的评论，联表带出作者用户名
func (r *ReviewRepository) ListByMovie(ctx context.Context, movieID int) ([]model.ReviewWithAuthor, error) {
	var reviews []model.ReviewWithAuthor
	err := r.db.WithContext(ctx).Model(&model.Review{}).
		Select("reviews.id, reviews.rating, reviews.comment, reviews.likes, reviews.created_at, " +
			"reviews.user_id, reviews.movie_id, COALESCE(users.username, '') AS user_username").
		Joins("JOIN users ON users.id = reviews.user_id").
		Where("reviews.movie_id = ?", movieID).
		Order("reviews.created_at DESC").
		Order("reviews.id DESC").
		Scan(&reviews).Error
	return reviews, err
}

// ListByUser 用户的全部评论（含电影与类型）
func (r *ReviewRepository) ListByUser(ctx context.Context, userID int) ([]model.Review, error) {
	var reviews []model.Review
	err := r.db.WithContext(ctx).Preload("Movie.Genres").
		Where("user_id = ?", userID).
		Order("id ASC").
		Find(&reviews).Error
	return reviews, err
}

// CountByUser 统计用户评论数
func (r *ReviewRepository) CountByUser(ctx context.Context, userID int) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Review{}).Where("user_id = ?", userID).Count(&count).Error
	return count, err
}
