package handler

import (
	"time"

	"github.com/user/movierate/internal/model"
)

// MovieResponse 电影响应，类型只返回名称
type MovieResponse struct {
	ID            int      `json:"id"`
	Title         string   `json:"title"`
	Director      string   `json:"director"`
	Year          int      `json:"year"`
	Synopsis      string   `json:"synopsis"`
	RatingAverage float64  `json:"rating_average"`
	ReviewCount   int      `json:"review_count"`
	Genres        []string `json:"genres"`
	YourRating    *int     `json:"your_rating,omitempty"`
}

// ReviewResponse 评论响应
type ReviewResponse struct {
	ID           int            `json:"id"`
	Rating       int            `json:"rating"`
	Comment      string         `json:"comment"`
	Likes        int            `json:"likes"`
	CreatedAt    time.Time      `json:"created_at"`
	UserID       int            `json:"user_id"`
	MovieID      int            `json:"movie_id"`
	UserUsername string         `json:"user_username,omitempty"`
	Movie        *MovieResponse `json:"movie,omitempty"`
}

// UserResponse 用户响应（不含密码哈希）
type UserResponse struct {
	ID        int       `json:"id"`
	Email     string    `json:"email"`
	Username  *string   `json:"username"`
	Bio       *string   `json:"bio,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// TokenResponse OAuth2 风格的登录响应
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

type tokenRequest struct {
	Username string `form:"username" binding:"required"`
	Password string `form:"password" binding:"required"`
}

type registerRequest struct {
	Email    string `json:"email" binding:"required"`
	Username string `json:"username"`
	Password string `json:"password" binding:"required"`
	Bio      string `json:"bio"`
}

type genreRequest struct {
	Name string `json:"name" binding:"required"`
}

type movieRequest struct {
	Title    string `json:"title" binding:"required"`
	Director string `json:"director"`
	Year     int    `json:"year"`
	Synopsis string `json:"synopsis"`
	GenreIDs []int  `json:"genre_ids"`
}

type reviewRequest struct {
	MovieID int    `json:"movie_id"`
	Rating  int    `json:"rating" binding:"required"`
	Comment string `json:"comment"`
}

func toMovieResponse(m *model.Movie) MovieResponse {
	return MovieResponse{
		ID:            m.ID,
		Title:         m.Title,
		Director:      m.Director,
		Year:          m.Year,
		Synopsis:      m.Synopsis,
		RatingAverage: m.RatingAverage,
		ReviewCount:   m.ReviewCount,
		Genres:        m.GenreNames(),
	}
}

func toMovieResponses(movies []model.Movie) []MovieResponse {
	out := make([]MovieResponse, 0, len(movies))
	for i := range movies {
		out = append(out, toMovieResponse(&movies[i]))
	}
	return out
}

func toRatedMovieResponses(rated []model.RatedMovie) []MovieResponse {
	out := make([]MovieResponse, 0, len(rated))
	for i := range rated {
		resp := toMovieResponse(&rated[i].Movie)
		rating := rated[i].YourRating
		resp.YourRating = &rating
		out = append(out, resp)
	}
	return out
}

func toReviewResponse(r *model.Review) ReviewResponse {
	resp := ReviewResponse{
		ID:        r.ID,
		Rating:    r.Rating,
		Comment:   r.Comment,
		Likes:     r.Likes,
		CreatedAt: r.CreatedAt,
		UserID:    r.UserID,
		MovieID:   r.MovieID,
	}
	if r.Movie != nil {
		m := toMovieResponse(r.Movie)
		resp.Movie = &m
	}
	return resp
}

func toAuthoredReviewResponses(reviews []model.ReviewWithAuthor) []ReviewResponse {
	out := make([]ReviewResponse, 0, len(reviews))
	for _, r := range reviews {
		out = append(out, ReviewResponse{
			ID:           r.ID,
			Rating:       r.Rating,
			Comment:      r.Comment,
			Likes:        r.Likes,
			CreatedAt:    r.CreatedAt,
			UserID:       r.UserID,
			MovieID:      r.MovieID,
			UserUsername: r.UserUsername,
		})
	}
	return out
}

func toUserResponse(u *model.User) UserResponse {
	return UserResponse{
		ID:        u.ID,
		Email:     u.Email,
		Username:  u.Username,
		Bio:       u.Bio,
		CreatedAt: u.CreatedAt,
	}
}
