package router

import (
	"fmt"
	"html/template"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gin-contrib/multitemplate"
	"github.com/gin-gonic/gin"
	"github.com/user/movierate/internal/handler"
	"github.com/user/movierate/internal/middleware"
)

// RegisterRoutes 注册所有路由
func RegisterRoutes(r *gin.Engine, h *handler.Handler) {
	secret := h.Config.AppSecret
	loginLimiter := middleware.NewIPRateLimiter(h.Config.LoginRatePerMin)

	// 健康检查
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// ==================== 公开页面 ====================
	pages := r.Group("/")
	pages.Use(middleware.OptionalAuth(secret))
	{
		pages.GET("/", h.Home)
		pages.GET("/movies", h.MoviesRedirect)
		pages.GET("/movie/:id", h.MoviePage)
	}

	// ==================== 认证页面 ====================
	auth := r.Group("/auth")
	auth.Use(middleware.OptionalAuth(secret))
	{
		auth.GET("/login", h.LoginPage)
		auth.POST("/login", middleware.RateLimit(loginLimiter), h.Login)
		auth.GET("/register", h.RegisterPage)
		auth.POST("/register", middleware.RateLimit(loginLimiter), h.Register)
		auth.POST("/logout", h.Logout)
	}

	// ==================== 用户页面（需要登录）====================
	member := r.Group("/")
	member.Use(middleware.RequireAuth(secret))
	{
		member.GET("/your-movies", h.YourMoviesPage)
		member.POST("/movie/:id/reviews", h.PostReviewForm)
		member.POST("/movie/:id/watchlist", h.AddWatchlistForm)
	}

	// ==================== JSON API ====================
	api := r.Group("/api")
	api.Use(middleware.OptionalAuth(secret))
	{
		api.POST("/token", middleware.RateLimit(loginLimiter), h.Token)
		api.POST("/register", middleware.RateLimit(loginLimiter), h.RegisterAPI)
		api.POST("/users", h.CreateUser)

		api.GET("/genres", h.ListGenres)
		api.GET("/movies", h.ListMovies)
		api.GET("/movies/top", h.TopMovies)
		api.GET("/movies/search", h.SearchMovies)
		api.GET("/movies/recommended", h.RecommendedMovies)
		api.GET("/movies/:id", h.GetMovie)
		api.GET("/movies/:id/reviews", h.MovieReviews)
		api.POST("/reviews/:id/like", h.LikeReview)
	}

	authed := r.Group("/api")
	authed.Use(middleware.RequireAuth(secret))
	{
		authed.POST("/genres", h.CreateGenre)
		authed.POST("/movies", h.CreateMovie)
		authed.POST("/movies/:id/reviews", h.CreateMovieReview)
		authed.POST("/reviews", h.CreateReview)

		authed.GET("/me", h.Profile)
		authed.GET("/me/reviews", h.MyReviews)
		authed.GET("/me/watched", h.MyWatched)
		authed.GET("/me/watchlist", h.MyWatchlist)
		authed.GET("/me/movies", h.MyMovies)

		authed.POST("/watchlist/:movie_id", h.AddToWatchlist)
		authed.DELETE("/watchlist/:movie_id", h.RemoveFromWatchlist)
	}

	r.NoRoute(middleware.OptionalAuth(secret), h.NoRoute)
}

// Pages 需要加载的页面模板
var Pages = []string{
	"index", "movie", "your_movies",
	"login", "register", "404",
}

// LoadTemplates 使用 multitemplate 加载模板，解决模板继承问题
func LoadTemplates(templatesDir string) multitemplate.Renderer {
	r := multitemplate.NewRenderer()

	// 获取布局和局部模板
	layouts, err := filepath.Glob(templatesDir + "/layouts/*.html")
	if err != nil {
		panic(err)
	}

	partials, err := filepath.Glob(templatesDir + "/partials/*.html")
	if err != nil {
		panic(err)
	}

	// 组装模板文件列表
	assemble := func(view string) []string {
		files := make([]string, 0)
		files = append(files, layouts...)
		files = append(files, partials...)
		files = append(files, view)
		return files
	}

	// 模板函数
	funcMap := template.FuncMap{
		"dict": func(values ...interface{}) (map[string]interface{}, error) {
			if len(values)%2 != 0 {
				return nil, fmt.Errorf("invalid dict call")
			}
			dict := make(map[string]interface{}, len(values)/2)
			for i := 0; i < len(values); i += 2 {
				key, ok := values[i].(string)
				if !ok {
					return nil, fmt.Errorf("dict keys must be strings")
				}
				dict[key] = values[i+1]
			}
			return dict, nil
		},
		"default": func(defaultValue, value interface{}) interface{} {
			switch v := value.(type) {
			case string:
				if v == "" {
					return defaultValue
				}
			case int:
				if v == 0 {
					return defaultValue
				}
			case nil:
				return defaultValue
			}
			return value
		},
		"stars": func(rating float64) string {
			full := int(rating + 0.5)
			if full > 5 {
				full = 5
			}
			return strings.Repeat("★", full) + strings.Repeat("☆", 5-full)
		},
		"rating": func(rating float64) string {
			return strconv.FormatFloat(rating, 'f', 2, 64)
		},
		"join": strings.Join,
	}

	// 注册所有页面模板
	for _, page := range Pages {
		viewPath := templatesDir + "/pages/" + page + ".html"
		r.AddFromFilesFuncs(page+".html", funcMap, assemble(viewPath)...)
	}

	return r
}
