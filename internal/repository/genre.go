package repository

import (
	"context"
	"errors"

	"github.com/user/movierate/internal/model"
	"gorm.io/gorm"
)

type GenreRepository struct {
	db *gorm.DB
}

func NewGenreRepository(db *gorm.DB) *GenreRepository {
	return &GenreRepository{db: db}
}

// Create 创建类型
func (r *GenreRepository) Create(ctx context.Context, name string) (*model.Genre, error) {
	genre := &model.Genre{Name: name}
	if err := r.db.WithContext(ctx).Create(genre).Error; err != nil {
		return nil, err
	}
	return genre, nil
}

// FindByName 按名称查找（区分大小写）
func (r *GenreRepository) FindByName(ctx context.Context, name string) (*model.Genre, error) {
	var genre model.Genre
	err := r.db.WithContext(ctx).Where("name = ?", name).First(&genre).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &genre, nil
}

// FindOrCreate 按名称复用已有类型，不存在时创建；created 表示是否新建
func (r *GenreRepository) FindOrCreate(ctx context.Context, name string) (genre *model.Genre, created bool, err error) {
	genre, err = r.FindByName(ctx, name)
	if err != nil || genre != nil {
		return genre, false, err
	}
	genre, err = r.Create(ctx, name)
	if err != nil {
		return nil, false, err
	}
	return genre, true, nil
}

// FindByIDs 批量查找，不存在的 ID 直接忽略
func (r *GenreRepository) FindByIDs(ctx context.Context, ids []int) ([]model.Genre, error) {
	var genres []model.Genre
	if len(ids) == 0 {
		return genres, nil
	}
	err := r.db.WithContext(ctx).Where("id IN ?", ids).Order("id ASC").Find(&genres).Error
	return genres, err
}

// ListAll 获取全部类型
func (r *GenreRepository) ListAll(ctx context.Context) ([]model.Genre, error) {
	var genres []model.Genre
	err := r.db.WithContext(ctx).Order("name ASC").Find(&genres).Error
	return genres, err
}
