package repository

import (
	"context"
	"errors"
	"math"

	"github.com/user/movierate/internal/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type MovieRepository struct {
	db *gorm.DB
}

func NewMovieRepository(db *gorm.DB) *MovieRepository {
	return &MovieRepository{db: db}
}

// MovieFilter 列表筛选条件，空值表示不过滤
type MovieFilter struct {
	Title string
	Genre string
}

// Create 创建电影及其类型关联
func (r *MovieRepository) Create(ctx context.Context, movie *model.Movie) error {
	return r.db.WithContext(ctx).Create(movie).Error
}

// FindByID 根据 ID 查找电影（含类型）
func (r *MovieRepository) FindByID(ctx context.Context, id int) (*model.Movie, error) {
	var movie model.Movie
	err := r.db.WithContext(ctx).Preload("Genres").First(&movie, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &movie, nil
}

// FindByIDForUpdate 行锁读取，只能在事务内使用
func (r *MovieRepository) FindByIDForUpdate(ctx context.Context, id int) (*model.Movie, error) {
	var movie model.Movie
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&movie, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &movie, nil
}

// Exists 判断电影是否存在
func (r *MovieRepository) Exists(ctx context.Context, id int) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Movie{}).Where("id = ?", id).Count(&count).Error
	return count > 0, err
}

// Count 获取电影总数
func (r *MovieRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Movie{}).Count(&count).Error
	return count, err
}

// List 按标题子串与类型名筛选，按插入顺序返回
func (r *MovieRepository) List(ctx context.Context, filter MovieFilter) ([]model.Movie, error) {
	var movies []model.Movie
	q := r.db.WithContext(ctx).Model(&model.Movie{}).Preload("Genres")

	if filter.Title != "" {
		q = q.Where("LOWER(movies.title) LIKE ?", likePattern(filter.Title))
	}
	if filter.Genre != "" {
		q = q.Where("movies.id IN (?)", r.db.Table("movie_genres").
			Select("movie_genres.movie_id").
			Joins("JOIN genres ON genres.id = movie_genres.genre_id").
			Where("genres.name = ?", filter.Genre))
	}

	err := q.Order("movies.id ASC").Find(&movies).Error
	return movies, err
}

// Search 在标题、导演、简介中做不区分大小写的子串匹配
func (r *MovieRepository) Search(ctx context.Context, keyword string) ([]model.Movie, error) {
	var movies []model.Movie
	pattern := likePattern(keyword)
	err := r.db.WithContext(ctx).Preload("Genres").
		Where("LOWER(title) LIKE ? OR LOWER(director) LIKE ? OR LOWER(synopsis) LIKE ?", pattern, pattern, pattern).
		Order("id ASC").
		Find(&movies).Error
	return movies, err
}

// Top 评分最高的电影，评分相同按评论数
func (r *MovieRepository) Top(ctx context.Context, limit int) ([]model.Movie, error) {
	var movies []model.Movie
	err := r.db.WithContext(ctx).Preload("Genres").
		Order("rating_average DESC").
		Order("review_count DESC").
		Order("id ASC").
		Limit(limit).
		Find(&movies).Error
	return movies, err
}

// NotReviewedBy 排除用户已评论过的电影，按评分降序
func (r *MovieRepository) NotReviewedBy(ctx context.Context, userID, limit int) ([]model.Movie, error) {
	var movies []model.Movie
	reviewed := r.db.Model(&model.Review{}).Select("movie_id").Where("user_id = ?", userID)
	err := r.db.WithContext(ctx).Preload("Genres").
		Where("id NOT IN (?)", reviewed).
		Order("rating_average DESC").
		Order("id ASC").
		Limit(limit).
		Find(&movies).Error
	return movies, err
}

// ReviewedBy 用户评论过的电影（去重）
func (r *MovieRepository) ReviewedBy(ctx context.Context, userID int) ([]model.Movie, error) {
	var movies []model.Movie
	reviewed := r.db.Model(&model.Review{}).Select("movie_id").Where("user_id = ?", userID)
	err := r.db.WithContext(ctx).Preload("Genres").
		Where("id IN (?)", reviewed).
		Order("id ASC").
		Find(&movies).Error
	return movies, err
}

// UpdateAggregates 写入评论聚合字段
func (r *MovieRepository) UpdateAggregates(ctx context.Context, movieID, reviewCount int, ratingAverage float64) error {
	return r.db.WithContext(ctx).Model(&model.Movie{}).
		Where("id = ?", movieID).
		Updates(map[string]interface{}{
			"review_count":   reviewCount,
			"rating_average": ratingAverage,
		}).Error
}

// RoundRating 平均分保留两位小数
func RoundRating(avg float64) float64 {
	return math.Round(avg*100) / 100
}

// RecomputeAggregates 按当前评论重算 review_count 与 rating_average
// 需要和改动评论的写操作处于同一事务
func (r *MovieRepository) RecomputeAggregates(ctx context.Context, movieID int) error {
	stats, err := NewReviewRepository(r.db).StatsByMovie(ctx, movieID)
	if err != nil {
		return err
	}
	return r.UpdateAggregates(ctx, movieID, int(stats.Count), RoundRating(stats.Average))
}

// Delete 删除电影，评论、想看条目与类型关联随外键级联删除
func (r *MovieRepository) Delete(ctx context.Context, movieID int) error {
	return r.db.WithContext(ctx).Delete(&model.Movie{}, movieID).Error
}
