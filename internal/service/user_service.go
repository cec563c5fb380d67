package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/user/movierate/internal/model"
	"github.com/user/movierate/internal/repository"
	"golang.org/x/sync/errgroup"
)

// RegisterInput 注册参数，用户名可选
type RegisterInput struct {
	Email    string `json:"email" validate:"required,email,max=255"`
	Username string `json:"username" validate:"omitempty,min=2,max=50"`
	Password string `json:"password" validate:"required,min=6,max=72"`
	Bio      string `json:"bio" validate:"max=1000"`
}

// UserService 用户注册、登录与概览
type UserService struct {
	repos        *repository.Repositories
	onAggregates func()
}

// NewUserService onAggregates 在删除用户导致电影评分变化后调用，可为 nil
func NewUserService(repos *repository.Repositories, onAggregates func()) *UserService {
	return &UserService{repos: repos, onAggregates: onAggregates}
}

// Register 注册；邮箱或用户名已存在返回 ErrConflict
func (s *UserService) Register(ctx context.Context, input RegisterInput) (*model.User, error) {
	input.Email = strings.ToLower(strings.TrimSpace(input.Email))
	input.Username = strings.TrimSpace(input.Username)
	if err := validateInput(&input); err != nil {
		return nil, err
	}

	existing, err := s.repos.User.FindByEmail(ctx, input.Email)
	if err != nil {
		return nil, internal("find user by email", err)
	}
	if existing != nil {
		return nil, fmt.Errorf("%w: email already registered", ErrConflict)
	}

	var username, bio *string
	if input.Username != "" {
		existing, err := s.repos.User.FindByUsername(ctx, input.Username)
		if err != nil {
			return nil, internal("find user by username", err)
		}
		if existing != nil {
			return nil, fmt.Errorf("%w: username already taken", ErrConflict)
		}
		username = &input.Username
	}
	if b := strings.TrimSpace(input.Bio); b != "" {
		bio = &b
	}

	user, err := s.repos.User.Create(ctx, input.Email, username, input.Password, bio)
	if err != nil {
		return nil, internal("create user", err)
	}
	return user, nil
}

// Authenticate 校验邮箱与密码
func (s *UserService) Authenticate(ctx context.Context, email, password string) (*model.User, error) {
	user, err := s.repos.User.FindByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		return nil, internal("find user by email", err)
	}
	if user == nil || !s.repos.User.CheckPassword(user, password) {
		return nil, ErrInvalidCredentials
	}
	return user, nil
}

// Get 按 ID 获取用户
func (s *UserService) Get(ctx context.Context, id int) (*model.User, error) {
	user, err := s.repos.User.FindByID(ctx, id)
	if err != nil {
		return nil, internal("find user", err)
	}
	if user == nil {
		return nil, fmt.Errorf("%w: user %d", ErrNotFound, id)
	}
	return user, nil
}

// Delete 删除用户及其评论、想看条目，并重算受影响电影的评分
func (s *UserService) Delete(ctx context.Context, userID int) error {
	if _, err := s.Get(ctx, userID); err != nil {
		return err
	}
	if err := s.repos.User.Delete(ctx, userID); err != nil {
		return internal("delete user", err)
	}

	if s.onAggregates != nil {
		s.onAggregates()
	}
	return nil
}

// Profile 用户概览：基本信息与评论数、想看数
func (s *UserService) Profile(ctx context.Context, userID int) (*model.UserProfile, error) {
	user, err := s.Get(ctx, userID)
	if err != nil {
		return nil, err
	}

	profile := &model.UserProfile{
		Email: user.Email,
	}
	if user.Username != nil {
		profile.Username = *user.Username
	}
	if user.Bio != nil {
		profile.Bio = *user.Bio
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		n, err := s.repos.Review.CountByUser(gctx, userID)
		profile.ReviewsCount = n
		return err
	})
	g.Go(func() error {
		n, err := s.repos.Watchlist.CountByUser(gctx, userID)
		profile.WatchlistCount = n
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, internal("profile counts", err)
	}
	return profile, nil
}
