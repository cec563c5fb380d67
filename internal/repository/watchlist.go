package repository

import (
	"context"

	"github.com/user/movierate/internal/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type WatchlistRepository struct {
	db *gorm.DB
}

func NewWatchlistRepository(db *gorm.DB) *WatchlistRepository {
	return &WatchlistRepository{db: db}
}

// Add 加入想看，同一部电影可重复加入
func (r *WatchlistRepository) Add(ctx context.Context, userID, movieID int) (*model.Watchlist, error) {
	entry := &model.Watchlist{
		UserID:  userID,
		MovieID: movieID,
	}
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(entry).Error; err != nil {
		return nil, err
	}
	return entry, nil
}

// Remove 移出想看，返回删除条数
func (r *WatchlistRepository) Remove(ctx context.Context, userID, movieID int) (int64, error) {
	res := r.db.WithContext(ctx).Where("user_id = ? AND movie_id = ?", userID, movieID).Delete(&model.Watchlist{})
	return res.RowsAffected, res.Error
}

// ListByUser 获取用户想看列表
func (r *WatchlistRepository) ListByUser(ctx context.Context, userID int) ([]model.Watchlist, error) {
	var entries []model.Watchlist
	err := r.db.WithContext(ctx).Preload("Movie.Genres").
		Where("user_id = ?", userID).
		Order("id ASC").
		Find(&entries).Error
	return entries, err
}

// CountByUser 统计用户想看数量
func (r *WatchlistRepository) CountByUser(ctx context.Context, userID int) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Watchlist{}).Where("user_id = ?", userID).Count(&count).Error
	return count, err
}
