package service

import (
	"context"
	"log"

	"github.com/user/movierate/internal/repository"
	"gorm.io/gorm"
)

// Bootstrap 启动初始化：建表 + 导入片库，可重复执行
type Bootstrap struct {
	db      *gorm.DB
	seeder  *Seeder
	catalog []Fixture
}

// NewBootstrap 创建启动初始化任务
func NewBootstrap(db *gorm.DB, catalog []Fixture) *Bootstrap {
	return &Bootstrap{
		db:      db,
		seeder:  NewSeeder(db),
		catalog: catalog,
	}
}

// Run 执行一次初始化
func (b *Bootstrap) Run(ctx context.Context) (*SeedResult, error) {
	log.Println("[Bootstrap] 开始初始化数据库...")

	if err := repository.AutoMigrate(b.db.WithContext(ctx)); err != nil {
		log.Printf("[Bootstrap] 建表失败: %v", err)
		return nil, internal("migrate", err)
	}

	result, err := b.seeder.Seed(ctx, b.catalog)
	if err != nil {
		log.Printf("[Bootstrap] 导入片库失败: %v", err)
		return nil, err
	}

	log.Println("[Bootstrap] 初始化完成")
	return result, nil
}
