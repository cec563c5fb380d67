// Package testutil 测试用的内存数据库与数据构造
package testutil

import (
	"context"
	"fmt"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/user/movierate/internal/model"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var dbSeq atomic.Int64

// NewDB 每个测试一个独立的内存 SQLite，已建表并开启外键
func NewDB(t testing.TB) *gorm.DB {
	t.Helper()

	name := strings.Map(func(r rune) rune {
		if r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r >= '0' && r <= '9' {
			return r
		}
		return '_'
	}, t.Name())
	dsn := fmt.Sprintf("file:%s_%d?mode=memory&cache=shared&_foreign_keys=on", name, dbSeq.Add(1))

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("sqlite handle: %v", err)
	}
	// 单连接：内存库随连接存活，事务与读写串行
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	if err := db.AutoMigrate(model.All()...); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

// MustUser 直接写入一个用户（密码哈希为占位值）
func MustUser(t testing.TB, db *gorm.DB, email, username string) *model.User {
	t.Helper()
	u := &model.User{Email: email, PasswordHash: "x"}
	if username != "" {
		u.Username = &username
	}
	if err := db.WithContext(context.Background()).Create(u).Error; err != nil {
		t.Fatalf("create user: %v", err)
	}
	return u
}

// MustMovie 直接写入一部电影
func MustMovie(t testing.TB, db *gorm.DB, title string, genres ...model.Genre) *model.Movie {
	t.Helper()
	m := &model.Movie{Title: title, Director: "Director " + title, Year: 2000, Synopsis: "About " + title, Genres: genres}
	if err := db.Create(m).Error; err != nil {
		t.Fatalf("create movie: %v", err)
	}
	return m
}

// MustGenre 直接写入一个类型
func MustGenre(t testing.TB, db *gorm.DB, name string) model.Genre {
	t.Helper()
	g := model.Genre{Name: name}
	if err := db.Create(&g).Error; err != nil {
		t.Fatalf("create genre: %v", err)
	}
	return g
}
