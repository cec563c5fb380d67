package model

// Movie 电影
// rating_average / review_count 由评论聚合得出，只在写入评论时重算
type Movie struct {
	ID            int     `json:"id" gorm:"primaryKey"`
	Title         string  `json:"title" gorm:"not null;index"`
	Director      string  `json:"director"`
	Year          int     `json:"year"`
	Synopsis      string  `json:"synopsis"`
	RatingAverage float64 `json:"rating_average" gorm:"not null;default:0"`
	ReviewCount   int     `json:"review_count" gorm:"not null;default:0"`
	Genres        []Genre `json:"genres" gorm:"many2many:movie_genres;constraint:OnDelete:CASCADE"`
}

// GenreNames 返回类型名称列表
func (m Movie) GenreNames() []string {
	names := make([]string, 0, len(m.Genres))
	for _, g := range m.Genres {
		names = append(names, g.Name)
	}
	return names
}

// Genre 类型
type Genre struct {
	ID   int    `json:"id" gorm:"primaryKey"`
	Name string `json:"name" gorm:"not null;uniqueIndex"`
}

// All 返回需要迁移的全部模型
func All() []interface{} {
	return []interface{}{
		&User{},
		&Genre{},
		&Movie{},
		&Review{},
		&Watchlist{},
	}
}
