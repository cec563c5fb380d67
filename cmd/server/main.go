package main

import (
	"context"
	"encoding/gob"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
	_ "time/tzdata" // 确保在精简镜像中也能识别时区

	"github.com/gin-contrib/gzip"
	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/user/movierate/internal/config"
	"github.com/user/movierate/internal/handler"
	"github.com/user/movierate/internal/middleware"
	"github.com/user/movierate/internal/model"
	"github.com/user/movierate/internal/repository"
	"github.com/user/movierate/internal/router"
	"github.com/user/movierate/internal/service"
)

func main() {
	// 注册 Session 模型
	gob.Register(model.SessionUser{})

	// 加载环境变量
	if err := godotenv.Load(); err != nil {
		log.Println("未找到 .env 文件，使用系统环境变量")
	}

	// 加载配置
	cfg := config.Load()

	// 初始化数据库
	db, err := repository.InitDB(cfg.DatabaseURL, repository.Options{
		MaxOpenConns: cfg.DBMaxOpenConns,
		MaxIdleConns: cfg.DBMaxIdleConns,
		Debug:        !cfg.IsProduction(),
	})
	if err != nil {
		log.Fatalf("数据库连接失败: %v", err)
	}

	sqlDB, _ := db.DB()
	defer sqlDB.Close()

	// 建表并导入片库（幂等）
	if cfg.AutoSeed {
		catalog, err := service.LoadCatalogFile(cfg.CatalogPath)
		if err != nil {
			log.Fatalf("读取片库失败: %v", err)
		}
		initCtx, cancel := context.WithTimeout(context.Background(), time.Minute)
		_, err = service.NewBootstrap(db, catalog).Run(initCtx)
		cancel()
		if err != nil {
			log.Fatalf("初始化数据库失败: %v", err)
		}
	} else if err := repository.AutoMigrate(db); err != nil {
		log.Fatalf("初始化数据库失败: %v", err)
	}

	// 初始化仓库与服务
	repos := repository.NewRepositories(db)
	services := service.NewServices(repos)

	// 初始化 Gin
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())

	// 启用 gzip，默认压缩级别
	r.Use(gzip.Gzip(gzip.DefaultCompression))

	// 设置 Session 中间件
	store := cookie.NewStore([]byte(cfg.AppSecret))
	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   int(cfg.JWTExpiry.Seconds()),
		HttpOnly: true,
		Secure:   false, // 关键：非 HTTPS 环境必须为 false
		SameSite: http.SameSiteLaxMode,
	})
	r.Use(sessions.Sessions("movierate_session", store))

	// 加载模板（使用 multitemplate 解决继承问题）
	r.HTMLRender = router.LoadTemplates("./web/templates")

	// 静态文件
	r.Static("/static", "./web/static")

	// 中间件
	r.Use(middleware.Logger())
	r.Use(middleware.Security())
	r.Use(middleware.CORS())

	// 初始化 Handler
	h := handler.NewHandler(services, cfg)

	// 注册路由
	router.RegisterRoutes(r, h)

	srv := &http.Server{
		Addr:           ":" + cfg.Port,
		Handler:        r,
		ReadTimeout:    10 * time.Second,
		WriteTimeout:   10 * time.Second,
		MaxHeaderBytes: 1 << 20,
	}

	// 在 goroutine 中启动服务器，这样我们就可以监听信号
	go func() {
		log.Printf("服务器启动于 http://localhost:%s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("服务器启动失败: %v", err)
		}
	}()

	// 等待中断信号以优雅地关闭服务器
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("正在关闭服务器...")

	// 5 秒超时上下文用于关闭过程
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("服务器强制关闭:", err)
	}

	log.Println("服务器已退出")
}
