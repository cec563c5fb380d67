package repository

import (
	"fmt"
	"strings"
	"time"

	"github.com/user/movierate/internal/model"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Options 连接池与日志配置
type Options struct {
	MaxOpenConns int
	MaxIdleConns int
	Debug        bool
}

// InitDB 初始化数据库连接
func InitDB(databaseURL string, opts Options) (*gorm.DB, error) {
	level := logger.Warn
	if opts.Debug {
		level = logger.Info
	}

	db, err := gorm.Open(postgres.Open(databaseURL), &gorm.Config{
		Logger:         logger.Default.LogMode(level),
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("无法连接数据库: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("获取底层连接失败: %w", err)
	}

	// 测试连接
	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("数据库 ping 失败: %w", err)
	}

	// 设置连接池
	if opts.MaxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(opts.MaxOpenConns)
	}
	if opts.MaxIdleConns > 0 {
		sqlDB.SetMaxIdleConns(opts.MaxIdleConns)
	}
	sqlDB.SetConnMaxLifetime(time.Hour)

	return db, nil
}

// AutoMigrate 建表（幂等）
func AutoMigrate(db *gorm.DB) error {
	if err := db.AutoMigrate(model.All()...); err != nil {
		return fmt.Errorf("数据库迁移失败: %w", err)
	}
	return nil
}

// Repositories 仓库集合
type Repositories struct {
	DB        *gorm.DB
	User      *UserRepository
	Genre     *GenreRepository
	Movie     *MovieRepository
	Review    *ReviewRepository
	Watchlist *WatchlistRepository
}

// NewRepositories 创建仓库集合
// 传入事务句柄即可得到绑定在该事务上的仓库集合
func NewRepositories(db *gorm.DB) *Repositories {
	return &Repositories{
		DB:        db,
		User:      NewUserRepository(db),
		Genre:     NewGenreRepository(db),
		Movie:     NewMovieRepository(db),
		Review:    NewReviewRepository(db),
		Watchlist: NewWatchlistRepository(db),
	}
}

// likePattern 构造不区分大小写的子串匹配参数，配合 LOWER(col) LIKE ? 使用
func likePattern(s string) string {
	return "%" + strings.ToLower(s) + "%"
}
