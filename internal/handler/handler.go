package handler

import (
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/user/movierate/internal/config"
	"github.com/user/movierate/internal/middleware"
	"github.com/user/movierate/internal/model"
	"github.com/user/movierate/internal/service"
	"github.com/user/movierate/internal/utils"
)

// Handler HTTP 处理器
type Handler struct {
	Services *service.Services
	Config   *config.Config
}

// NewHandler 创建处理器
func NewHandler(services *service.Services, cfg *config.Config) *Handler {
	return &Handler{
		Services: services,
		Config:   cfg,
	}
}

// RenderData 统一封装公共渲染数据
func (h *Handler) RenderData(c *gin.Context, data gin.H) gin.H {
	// 基础数据
	res := gin.H{
		"SiteName": h.Config.SiteName,
		"SiteUrl":  h.Config.SiteUrl,
		"Path":     c.Request.URL.Path,
	}

	// 注入用户信息
	session := sessions.Default(c)
	if userinfo := session.Get("userinfo"); userinfo != nil {
		if su, ok := userinfo.(model.SessionUser); ok && middleware.GetUserID(c) == su.ID {
			res["UserInfo"] = su
		}
	}

	// 菜单高亮逻辑
	res["ActiveMenu"] = h.getActiveMenu(c.Request.URL.Path)

	// 合并传入的数据
	for k, v := range data {
		res[k] = v
	}

	return res
}

// getActiveMenu 根据路径判断当前高亮菜单
func (h *Handler) getActiveMenu(path string) string {
	switch {
	case path == "/":
		return "home"
	case strings.HasPrefix(path, "/your-movies"):
		return "user"
	default:
		return ""
	}
}

// respondError 将服务层错误映射为 API 响应
func (h *Handler) respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrNotFound):
		utils.NotFound(c, err.Error())
	case errors.Is(err, service.ErrConflict):
		utils.Conflict(c, err.Error())
	case errors.Is(err, service.ErrValidation):
		utils.BadRequest(c, err.Error())
	case errors.Is(err, service.ErrInvalidCredentials):
		c.Header("WWW-Authenticate", "Bearer")
		utils.Unauthorized(c, "邮箱或密码错误")
	default:
		_ = c.Error(err)
		log.Printf("[Handler] %s %s 失败: %v", c.Request.Method, c.Request.URL.Path, err)
		utils.InternalServerError(c, "")
	}
}

// notFoundPage 404 页面
func (h *Handler) notFoundPage(c *gin.Context, title string) {
	c.HTML(http.StatusNotFound, "404.html", h.RenderData(c, gin.H{
		"Title": title + " - " + h.Config.SiteName,
	}))
}

// NoRoute 未匹配路由
func (h *Handler) NoRoute(c *gin.Context) {
	if strings.HasPrefix(c.Request.URL.Path, "/api") {
		utils.NotFound(c, "")
		return
	}
	h.notFoundPage(c, "页面不存在")
}

// startSession 写入登录 Cookie 与 Session
func (h *Handler) startSession(c *gin.Context, user *model.User) error {
	token, err := middleware.GenerateToken(user.ID, user.Email, h.Config.AppSecret, h.Config.JWTExpiry)
	if err != nil {
		return err
	}

	// 设置 Cookie (JWT)
	c.SetCookie(middleware.TokenCookie, token, int(h.Config.JWTExpiry.Seconds()), "/", "", false, true)

	// 保存 UserInfo 到 Session
	session := sessions.Default(c)
	session.Set("userinfo", model.SessionUser{
		ID:       user.ID,
		Email:    user.Email,
		Username: user.DisplayName(),
	})
	return session.Save()
}
