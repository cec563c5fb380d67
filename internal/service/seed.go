package service

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/user/movierate/internal/model"
	"github.com/user/movierate/internal/repository"
	"gorm.io/gorm"
)

// SeedResult 一次导入的结果
type SeedResult struct {
	Skipped       bool
	MoviesCreated int
	GenresCreated int
}

// Seeder 片库导入
type Seeder struct {
	db *gorm.DB
}

// NewSeeder 创建导入器
func NewSeeder(db *gorm.DB) *Seeder {
	return &Seeder{db: db}
}

// Seed 空库时导入片库；只要已有任意电影就不做任何写入
// 类型按名称首次出现时创建，已存在的复用；整个导入在一个事务内完成
func (s *Seeder) Seed(ctx context.Context, catalog []Fixture) (*SeedResult, error) {
	for i := range catalog {
		if err := validateInput(&catalog[i]); err != nil {
			return nil, fmt.Errorf("fixture #%d: %w", i, err)
		}
	}

	result := &SeedResult{}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repos := repository.NewRepositories(tx)

		count, err := repos.Movie.Count(ctx)
		if err != nil {
			return err
		}
		if count > 0 {
			result.Skipped = true
			return nil
		}

		genres := make(map[string]model.Genre)
		for _, f := range catalog {
			movie := &model.Movie{
				Title:    f.Title,
				Director: f.Director,
				Year:     f.Year,
				Synopsis: f.Synopsis,
			}

			seen := make(map[string]bool, len(f.Genres))
			for _, name := range f.Genres {
				name = strings.TrimSpace(name)
				if name == "" || seen[name] {
					continue
				}
				seen[name] = true

				genre, ok := genres[name]
				if !ok {
					found, created, err := repos.Genre.FindOrCreate(ctx, name)
					if err != nil {
						return err
					}
					if created {
						result.GenresCreated++
					}
					genre = *found
					genres[name] = genre
				}
				movie.Genres = append(movie.Genres, genre)
			}

			if err := repos.Movie.Create(ctx, movie); err != nil {
				return fmt.Errorf("导入电影 %q 失败: %w", f.Title, err)
			}
			result.MoviesCreated++
		}
		return nil
	})
	if err != nil {
		return nil, internal("seed catalog", err)
	}

	if result.Skipped {
		log.Println("[Seeder] 已存在电影数据，跳过导入")
	} else {
		log.Printf("[Seeder] 导入完成: %d 部电影, %d 个新类型", result.MoviesCreated, result.GenresCreated)
	}
	return result, nil
}
