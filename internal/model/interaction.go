package model

import (
	"time"
)

// Review 评论
type Review struct {
	ID        int       `json:"id"`
	Rating    int       `json:"rating" gorm:"not null"`
	Comment   string    `json:"comment"`
	Likes     int       `json:"likes" gorm:"not null;default:0"`
	CreatedAt time.Time `json:"created_at"`
	UserID    int       `json:"user_id" gorm:"not null;index"`
	MovieID   int       `json:"movie_id" gorm:"not null;index"`
	User      *User     `json:"-" gorm:"constraint:OnDelete:CASCADE"`
	Movie     *Movie    `json:"movie,omitempty" gorm:"constraint:OnDelete:CASCADE"` // 关联查询时填充
}

// Watchlist 想看列表条目
type Watchlist struct {
	ID      int    `json:"id"`
	UserID  int    `json:"user_id" gorm:"not null;index"`
	MovieID int    `json:"movie_id" gorm:"not null;index"`
	User    *User  `json:"-" gorm:"constraint:OnDelete:CASCADE"`
	Movie   *Movie `json:"movie,omitempty" gorm:"constraint:OnDelete:CASCADE"`
}

// TableName 表名
func (Watchlist) TableName() string {
	return "watchlists"
}

// ReviewWithAuthor 带作者用户名的评论（查询时联表得到，不落库）
type ReviewWithAuthor struct {
	ID           int       `json:"id"`
	Rating       int       `json:"rating"`
	Comment      string    `json:"comment"`
	Likes        int       `json:"likes"`
	CreatedAt    time.Time `json:"created_at"`
	UserID       int       `json:"user_id"`
	MovieID      int       `json:"movie_id"`
	UserUsername string    `json:"user_username"`
}

// RatedMovie 用户评过分的电影及其打分
type RatedMovie struct {
	Movie
	YourRating int `json:"your_rating"`
}

// UserProfile 用户概览
type UserProfile struct {
	Username       string `json:"username"`
	Email          string `json:"email"`
	Bio            string `json:"bio"`
	ReviewsCount   int64  `json:"reviews_count"`
	WatchlistCount int64  `json:"watchlist_count"`
}
