package repository

import (
	"context"
	"errors"
	"time"

	"github.com/user/movierate/internal/model"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

// Create 创建用户，只保存密码哈希
func (r *UserRepository) Create(ctx context.Context, email string, username *string, password string, bio *string) (*model.User, error) {
	// 密码哈希
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &model.User{
		Email:        email,
		Username:     username,
		PasswordHash: string(hash),
		Bio:          bio,
		CreatedAt:    time.Now(),
	}

	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		return nil, err
	}

	return user, nil
}

// FindByEmail 根据邮箱查找用户
func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	var user model.User
	err := r.db.WithContext(ctx).Where("email = ?", email).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return &user, nil
}

// FindByUsername 根据用户名查找用户
func (r *UserRepository) FindByUsername(ctx context.Context, username string) (*model.User, error) {
	var user model.User
	err := r.db.WithContext(ctx).Where("username = ?", username).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return &user, nil
}

// FindByID 根据 ID 查找用户
func (r *UserRepository) FindByID(ctx context.Context, id int) (*model.User, error) {
	var user model.User
	err := r.db.WithContext(ctx).First(&user, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return &user, nil
}

// CheckPassword 验证密码
func (r *UserRepository) CheckPassword(user *model.User, password string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password))
	return err == nil
}

// Count 获取用户总数
func (r *UserRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.User{}).Count(&count).Error
	return count, err
}

// Delete 删除用户，评论与想看条目随外键级联删除
// 被级联删掉评论的电影在同一事务内重算评分
func (r *UserRepository) Delete(ctx context.Context, userID int) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var movieIDs []int
		if err := tx.Model(&model.Review{}).
			Where("user_id = ?", userID).
			Distinct().
			Pluck("movie_id", &movieIDs).Error; err != nil {
			return err
		}

		if err := tx.Delete(&model.User{}, userID).Error; err != nil {
			return err
		}

		movies := NewMovieRepository(tx)
		for _, id := range movieIDs {
			if err := movies.RecomputeAggregates(ctx, id); err != nil {
				return err
			}
		}
		return nil
	})
}
