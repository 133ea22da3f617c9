package main

import (
	"VideoForge/internal/app"
	"VideoForge/internal/config"
	"VideoForge/internal/handler"
	"VideoForge/internal/router"
	"VideoForge/internal/service"
	"VideoForge/pkg/logger"
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"
)

func main() {
	// 加载.env文件和环境变量
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("配置加载失败: %v", err)
	}
	// 初始化logger
	app.InitLogger(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// 数据库、Redis、RabbitMQ
	a, err := app.Bootstrap(ctx, cfg)
	if err != nil {
		logger.Log.Fatalf("启动失败: %v", err)
	}
	defer a.Close()

	if cfg.JWTSecret == "" {
		logger.Log.Fatal("JWT_SECRET_KEY未设置")
	}

	// 网页进程没有下载协程池，附件只由机器人进程处理；发布需要素材存储和YouTube token
	opts := []service.VideoOption{}
	store, err := a.AssetStore(ctx)
	if err != nil {
		logger.Log.Fatalf("素材存储初始化失败: %v", err)
	}
	opts = append(opts, service.WithAssetStore(store))
	pub, err := a.Publisher(ctx)
	if err != nil {
		logger.Log.WithError(err).Warn("YouTube上传初始化失败，发布接口不可用")
	} else if pub != nil {
		opts = append(opts, service.WithPublisher(pub))
	}

	userService := service.NewUserService(a.UserRepo, cfg.JWTSecret)
	videoService := service.NewVideoService(a.VideoRepo, a.UoW, a.Cache, a.QueueNotifier(), a.Channels(), opts...)
	commentService := service.NewCommentService(a.CommentRepo, a.VideoRepo)

	if err := userService.EnsureAdmin(ctx, cfg.AdminUser, cfg.AdminPass); err != nil {
		logger.Log.WithError(err).Warn("管理员账号初始化失败")
	}

	r := router.SetupRouter(cfg.JWTSecret, router.Handlers{
		User:    handler.NewUserHandler(userService),
		Video:   handler.NewVideoHandler(videoService),
		Comment: handler.NewCommentHandler(commentService),
		Rating:  handler.NewRatingHandler(a.Ratings()),
		Report:  handler.NewReportHandler(a.Reports()),
		Admin:   handler.NewAdminHandler(cfg),
	})

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		logger.Log.Printf("服务器将在: %s启动", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Log.Fatalf("服务器启动失败: %v", err)
		}
	}()

	<-ctx.Done()
	logger.Log.Info("收到退出信号，正在关闭服务器")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Log.WithError(err).Error("服务器关闭失败")
	}
}
