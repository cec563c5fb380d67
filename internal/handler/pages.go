package handler

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/user/movierate/internal/middleware"
	"github.com/user/movierate/internal/service"
	"github.com/user/movierate/internal/utils"
)

// ==================== 公开页面 ====================

// Home 首页：片库列表 + 评分排行
func (h *Handler) Home(c *gin.Context) {
	ctx := c.Request.Context()
	search := c.Query("search")
	genre := c.DefaultQuery("genre", service.AllGenres)

	movies, err := h.Services.Movie.List(ctx, service.ListFilter{Search: search, Genre: genre})
	if err != nil {
		_ = c.Error(err)
		c.String(http.StatusInternalServerError, "服务器内部错误")
		return
	}
	genres, _ := h.Services.Genre.List(ctx)
	top, _ := h.Services.Movie.Top(ctx, 5)

	c.HTML(http.StatusOK, "index.html", h.RenderData(c, gin.H{
		"Title":     h.Config.SiteName + " - 电影评分",
		"Movies":    movies,
		"Genres":    genres,
		"Top":       top,
		"Search":    search,
		"Genre":     genre,
		"AllGenres": service.AllGenres,
	}))
}

// MoviesRedirect /movies 跳转首页
func (h *Handler) MoviesRedirect(c *gin.Context) {
	c.Redirect(http.StatusSeeOther, "/")
}

// MoviePage 电影详情页
func (h *Handler) MoviePage(c *gin.Context) {
	id, ok := utils.ParseID(c.Param("id"))
	if !ok {
		h.notFoundPage(c, "电影未找到")
		return
	}

	ctx := c.Request.Context()
	movie, err := h.Services.Movie.Get(ctx, id)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			h.notFoundPage(c, "电影未找到")
			return
		}
		_ = c.Error(err)
		c.String(http.StatusInternalServerError, "服务器内部错误")
		return
	}
	reviews, _ := h.Services.Review.ListByMovie(ctx, id)

	c.HTML(http.StatusOK, "movie.html", h.RenderData(c, gin.H{
		"Title":   fmt.Sprintf("%s (%d) - %s", movie.Title, movie.Year, h.Config.SiteName),
		"Movie":   movie,
		"Reviews": reviews,
		"Error":   c.Query("error"),
	}))
}

// PostReviewForm 详情页表单提交评论
func (h *Handler) PostReviewForm(c *gin.Context) {
	id, ok := utils.ParseID(c.Param("id"))
	if !ok {
		h.notFoundPage(c, "电影未找到")
		return
	}

	back := fmt.Sprintf("/movie/%d", id)
	_, err := h.Services.Review.Create(c.Request.Context(), middleware.GetUserID(c), service.CreateReviewInput{
		MovieID: id,
		Rating:  utils.ParseIntDefault(c.PostForm("rating"), 0),
		Comment: strings.TrimSpace(c.PostForm("comment")),
	})
	switch {
	case err == nil:
		c.Redirect(http.StatusSeeOther, back)
	case errors.Is(err, service.ErrNotFound):
		h.notFoundPage(c, "电影未找到")
	case errors.Is(err, service.ErrValidation):
		c.Redirect(http.StatusSeeOther, back+"?error="+url.QueryEscape("评分需在 1 到 5 之间"))
	default:
		_ = c.Error(err)
		c.Redirect(http.StatusSeeOther, back+"?error="+url.QueryEscape("评论失败，请重试"))
	}
}

// AddWatchlistForm 详情页加入想看
func (h *Handler) AddWatchlistForm(c *gin.Context) {
	id, ok := utils.ParseID(c.Param("id"))
	if !ok {
		h.notFoundPage(c, "电影未找到")
		return
	}

	if _, err := h.Services.Library.AddToWatchlist(c.Request.Context(), middleware.GetUserID(c), id); err != nil {
		if errors.Is(err, service.ErrNotFound) {
			h.notFoundPage(c, "电影未找到")
			return
		}
		_ = c.Error(err)
	}
	c.Redirect(http.StatusSeeOther, "/your-movies")
}

// YourMoviesPage 我的电影：评过分的与想看的
func (h *Handler) YourMoviesPage(c *gin.Context) {
	ctx := c.Request.Context()
	userID := middleware.GetUserID(c)

	rated, err := h.Services.Library.RatedMovies(ctx, userID)
	if err != nil {
		_ = c.Error(err)
		c.String(http.StatusInternalServerError, "服务器内部错误")
		return
	}
	watchlist, _ := h.Services.Library.Watchlist(ctx, userID)
	recommended, _ := h.Services.Movie.Recommended(ctx, userID, 5)

	c.HTML(http.StatusOK, "your_movies.html", h.RenderData(c, gin.H{
		"Title":       "我的电影 - " + h.Config.SiteName,
		"Rated":       rated,
		"Watchlist":   watchlist,
		"Recommended": recommended,
	}))
}

// ==================== 认证页面 ====================

// LoginPage 登录页面
func (h *Handler) LoginPage(c *gin.Context) {
	// 如果已经登录，直接跳转到首页
	if middleware.GetUserID(c) > 0 {
		c.Redirect(http.StatusFound, "/")
		return
	}
	c.HTML(http.StatusOK, "login.html", h.RenderData(c, gin.H{
		"Title":    "登录 - " + h.Config.SiteName,
		"Redirect": c.Query("redirect"),
	}))
}

// Login 登录处理
func (h *Handler) Login(c *gin.Context) {
	email := c.PostForm("email")
	password := c.PostForm("password")
	redirect := safeRedirect(c.PostForm("redirect"))

	user, err := h.Services.User.Authenticate(c.Request.Context(), email, password)
	if err != nil {
		status := http.StatusOK
		msg := "邮箱或密码错误"
		if !errors.Is(err, service.ErrInvalidCredentials) {
			_ = c.Error(err)
			status = http.StatusInternalServerError
			msg = "登录失败，请重试"
		}
		c.HTML(status, "login.html", h.RenderData(c, gin.H{
			"Title":    "登录 - " + h.Config.SiteName,
			"Error":    msg,
			"Email":    email,
			"Redirect": redirect,
		}))
		return
	}

	if err := h.startSession(c, user); err != nil {
		_ = c.Error(err)
		c.HTML(http.StatusInternalServerError, "login.html", h.RenderData(c, gin.H{
			"Title": "登录 - " + h.Config.SiteName,
			"Error": "登录失败，请重试",
		}))
		return
	}

	c.Redirect(http.StatusFound, redirect)
}

// RegisterPage 注册页面
func (h *Handler) RegisterPage(c *gin.Context) {
	// 如果已经登录，直接跳转到首页
	if middleware.GetUserID(c) > 0 {
		c.Redirect(http.StatusFound, "/")
		return
	}
	c.HTML(http.StatusOK, "register.html", h.RenderData(c, gin.H{
		"Title": "注册 - " + h.Config.SiteName,
	}))
}

// Register 注册处理
func (h *Handler) Register(c *gin.Context) {
	email := c.PostForm("email")
	username := c.PostForm("username")
	password := c.PostForm("password")
	confirmPassword := c.PostForm("confirm_password")

	renderError := func(status int, msg string) {
		c.HTML(status, "register.html", h.RenderData(c, gin.H{
			"Title":    "注册 - " + h.Config.SiteName,
			"Error":    msg,
			"Email":    email,
			"Username": username,
		}))
	}

	// 验证
	if password != confirmPassword {
		renderError(http.StatusOK, "两次输入的密码不一致")
		return
	}

	user, err := h.Services.User.Register(c.Request.Context(), service.RegisterInput{
		Email:    email,
		Username: username,
		Password: password,
	})
	switch {
	case errors.Is(err, service.ErrConflict):
		renderError(http.StatusOK, "该邮箱或用户名已被注册")
		return
	case errors.Is(err, service.ErrValidation):
		renderError(http.StatusOK, "请填写有效的邮箱，密码至少需要 6 个字符")
		return
	case err != nil:
		_ = c.Error(err)
		renderError(http.StatusInternalServerError, "注册失败，请重试")
		return
	}

	// 注册后直接登录
	if err := h.startSession(c, user); err != nil {
		_ = c.Error(err)
	}
	c.Redirect(http.StatusFound, "/")
}

// Logout 登出
func (h *Handler) Logout(c *gin.Context) {
	c.SetCookie(middleware.TokenCookie, "", -1, "/", "", false, true)

	// 清理 Session
	session := sessions.Default(c)
	session.Clear()
	_ = session.Save()

	c.Redirect(http.StatusFound, "/")
}

// safeRedirect 只允许站内跳转
func safeRedirect(target string) string {
	if target == "" || !strings.HasPrefix(target, "/") || strings.HasPrefix(target, "//") {
		return "/"
	}
	return target
}
