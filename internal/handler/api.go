package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/user/movierate/internal/middleware"
	"github.com/user/movierate/internal/service"
	"github.com/user/movierate/internal/utils"
)

// ==================== 认证 ====================

// Token 表单登录换取 Bearer Token（username 字段填邮箱）
func (h *Handler) Token(c *gin.Context) {
	var req tokenRequest
	if err := c.ShouldBind(&req); err != nil {
		utils.BadRequest(c, "缺少用户名或密码")
		return
	}

	user, err := h.Services.User.Authenticate(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		h.respondError(c, err)
		return
	}

	token, err := middleware.GenerateToken(user.ID, user.Email, h.Config.AppSecret, h.Config.JWTExpiry)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, TokenResponse{AccessToken: token, TokenType: "bearer"})
}

// RegisterAPI 注册，用户名可选
func (h *Handler) RegisterAPI(c *gin.Context) {
	h.createUser(c, false)
}

// CreateUser 创建用户，用户名必填
func (h *Handler) CreateUser(c *gin.Context) {
	h.createUser(c, true)
}

func (h *Handler) createUser(c *gin.Context, requireUsername bool) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "参数错误: "+err.Error())
		return
	}
	if requireUsername && req.Username == "" {
		utils.BadRequest(c, "用户名不能为空")
		return
	}

	user, err := h.Services.User.Register(c.Request.Context(), service.RegisterInput{
		Email:    req.Email,
		Username: req.Username,
		Password: req.Password,
		Bio:      req.Bio,
	})
	if err != nil {
		h.respondError(c, err)
		return
	}

	utils.Created(c, toUserResponse(user))
}

// ==================== 类型 ====================

// ListGenres 全部类型
func (h *Handler) ListGenres(c *gin.Context) {
	genres, err := h.Services.Genre.List(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	utils.Success(c, genres)
}

// CreateGenre 新建类型
func (h *Handler) CreateGenre(c *gin.Context) {
	var req genreRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "参数错误: "+err.Error())
		return
	}

	genre, err := h.Services.Genre.Create(c.Request.Context(), service.CreateGenreInput{Name: req.Name})
	if err != nil {
		h.respondError(c, err)
		return
	}
	utils.Created(c, genre)
}

// ==================== 电影 ====================

// ListMovies 电影列表，支持 search 与 genre 筛选
func (h *Handler) ListMovies(c *gin.Context) {
	movies, err := h.Services.Movie.List(c.Request.Context(), service.ListFilter{
		Search: c.Query("search"),
		Genre:  c.Query("genre"),
	})
	if err != nil {
		h.respondError(c, err)
		return
	}
	utils.Success(c, toMovieResponses(movies))
}

// CreateMovie 新建电影
func (h *Handler) CreateMovie(c *gin.Context) {
	var req movieRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "参数错误: "+err.Error())
		return
	}

	movie, err := h.Services.Movie.Create(c.Request.Context(), service.CreateMovieInput{
		Title:    req.Title,
		Director: req.Director,
		Year:     req.Year,
		Synopsis: req.Synopsis,
		GenreIDs: req.GenreIDs,
	})
	if err != nil {
		h.respondError(c, err)
		return
	}
	utils.Created(c, toMovieResponse(movie))
}

// TopMovies 评分排行，limit 默认 10，范围 1-100
func (h *Handler) TopMovies(c *gin.Context) {
	limit := utils.ParseIntDefault(c.Query("limit"), service.DefaultListLimit)
	movies, err := h.Services.Movie.Top(c.Request.Context(), limit)
	if err != nil {
		h.respondError(c, err)
		return
	}
	utils.Success(c, toMovieResponses(movies))
}

// SearchMovies 关键词搜索
func (h *Handler) SearchMovies(c *gin.Context) {
	movies, err := h.Services.Movie.Search(c.Request.Context(), c.Query("query"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	utils.Success(c, toMovieResponses(movies))
}

// RecommendedMovies 推荐电影；未指定 user_id 时使用当前登录用户
func (h *Handler) RecommendedMovies(c *gin.Context) {
	userID := middleware.GetUserID(c)
	if raw := c.Query("user_id"); raw != "" {
		id, ok := utils.ParseID(raw)
		if !ok {
			utils.BadRequest(c, "user_id 不合法")
			return
		}
		userID = id
	}
	if userID == 0 {
		utils.BadRequest(c, "缺少 user_id")
		return
	}

	limit := utils.ParseIntDefault(c.Query("limit"), service.DefaultListLimit)
	movies, err := h.Services.Movie.Recommended(c.Request.Context(), userID, limit)
	if err != nil {
		h.respondError(c, err)
		return
	}
	utils.Success(c, toMovieResponses(movies))
}

// GetMovie 电影详情
func (h *Handler) GetMovie(c *gin.Context) {
	id, ok := utils.ParseID(c.Param("id"))
	if !ok {
		utils.NotFound(c, "电影不存在")
		return
	}

	movie, err := h.Services.Movie.Get(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, err)
		return
	}
	utils.Success(c, toMovieResponse(movie))
}

// ==================== 评论 ====================

// MovieReviews 电影的评论列表
func (h *Handler) MovieReviews(c *gin.Context) {
	id, ok := utils.ParseID(c.Param("id"))
	if !ok {
		utils.NotFound(c, "电影不存在")
		return
	}

	reviews, err := h.Services.Review.ListByMovie(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, err)
		return
	}
	utils.Success(c, toAuthoredReviewResponses(reviews))
}

// CreateMovieReview 为路径中的电影写评论
func (h *Handler) CreateMovieReview(c *gin.Context) {
	id, ok := utils.ParseID(c.Param("id"))
	if !ok {
		utils.NotFound(c, "电影不存在")
		return
	}

	var req reviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "参数错误: "+err.Error())
		return
	}
	req.MovieID = id
	h.createReview(c, req)
}

// CreateReview 写评论，movie_id 在请求体中
func (h *Handler) CreateReview(c *gin.Context) {
	var req reviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "参数错误: "+err.Error())
		return
	}
	h.createReview(c, req)
}

func (h *Handler) createReview(c *gin.Context, req reviewRequest) {
	ctx := c.Request.Context()
	userID := middleware.GetUserID(c)

	review, err := h.Services.Review.Create(ctx, userID, service.CreateReviewInput{
		MovieID: req.MovieID,
		Rating:  req.Rating,
		Comment: req.Comment,
	})
	if err != nil {
		h.respondError(c, err)
		return
	}

	resp := toReviewResponse(review)
	if user, err := h.Services.User.Get(ctx, userID); err == nil && user.Username != nil {
		resp.UserUsername = *user.Username
	}
	utils.Created(c, resp)
}

// LikeReview 点赞评论
func (h *Handler) LikeReview(c *gin.Context) {
	id, ok := utils.ParseID(c.Param("id"))
	if !ok {
		utils.NotFound(c, "评论不存在")
		return
	}

	review, err := h.Services.Review.Like(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, err)
		return
	}
	utils.SuccessWithMessage(c, "Review liked successfully", toReviewResponse(review))
}

// ==================== 我的 ====================

// Profile 当前用户概览
func (h *Handler) Profile(c *gin.Context) {
	profile, err := h.Services.User.Profile(c.Request.Context(), middleware.GetUserID(c))
	if err != nil {
		h.respondError(c, err)
		return
	}
	utils.Success(c, profile)
}

// MyReviews 当前用户的评论
func (h *Handler) MyReviews(c *gin.Context) {
	reviews, err := h.Services.Review.ListByUser(c.Request.Context(), middleware.GetUserID(c))
	if err != nil {
		h.respondError(c, err)
		return
	}

	out := make([]ReviewResponse, 0, len(reviews))
	for i := range reviews {
		out = append(out, toReviewResponse(&reviews[i]))
	}
	utils.Success(c, out)
}

// MyWatched 当前用户看过（评论过）的电影
func (h *Handler) MyWatched(c *gin.Context) {
	movies, err := h.Services.Library.Watched(c.Request.Context(), middleware.GetUserID(c))
	if err != nil {
		h.respondError(c, err)
		return
	}
	utils.Success(c, toMovieResponses(movies))
}

// MyWatchlist 当前用户的想看列表
func (h *Handler) MyWatchlist(c *gin.Context) {
	movies, err := h.Services.Library.Watchlist(c.Request.Context(), middleware.GetUserID(c))
	if err != nil {
		h.respondError(c, err)
		return
	}
	utils.Success(c, toMovieResponses(movies))
}

// MyMovies 当前用户评过分的电影，带 your_rating
func (h *Handler) MyMovies(c *gin.Context) {
	rated, err := h.Services.Library.RatedMovies(c.Request.Context(), middleware.GetUserID(c))
	if err != nil {
		h.respondError(c, err)
		return
	}
	utils.Success(c, toRatedMovieResponses(rated))
}

// AddToWatchlist 加入想看
func (h *Handler) AddToWatchlist(c *gin.Context) {
	movieID, ok := utils.ParseID(c.Param("movie_id"))
	if !ok {
		utils.NotFound(c, "电影不存在")
		return
	}

	entry, err := h.Services.Library.AddToWatchlist(c.Request.Context(), middleware.GetUserID(c), movieID)
	if err != nil {
		h.respondError(c, err)
		return
	}
	utils.Created(c, entry)
}

// RemoveFromWatchlist 移出想看
func (h *Handler) RemoveFromWatchlist(c *gin.Context) {
	movieID, ok := utils.ParseID(c.Param("movie_id"))
	if !ok {
		utils.NotFound(c, "电影不存在")
		return
	}

	if err := h.Services.Library.RemoveFromWatchlist(c.Request.Context(), middleware.GetUserID(c), movieID); err != nil {
		h.respondError(c, err)
		return
	}
	utils.SuccessWithMessage(c, "Removed from watchlist", nil)
}
