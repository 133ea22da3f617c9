package main

import (
	"VideoForge/internal/app"
	"VideoForge/internal/bot"
	"VideoForge/internal/config"
	"VideoForge/internal/downloader"
	"VideoForge/internal/notify"
	"VideoForge/internal/service"
	"VideoForge/internal/watcher"
	"VideoForge/pkg/logger"
	"context"
	"log"
	"os/signal"
	"sync"
	"syscall"

	"github.com/bwmarrin/discordgo"
	"github.com/gofrs/flock"
)

// 机器人进程：网关连接、附件监听、下载协程池、GitHub issue轮询都在这里
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("配置加载失败: %v", err)
	}
	app.InitLogger(cfg)

	if cfg.DiscordBot == "" {
		logger.Log.Fatal("DISCORD_TOKEN未设置")
	}

	// 同一台机器上只允许一个机器人实例，否则附件会被重复认领
	lock := flock.New(cfg.BotLockFile)
	locked, err := lock.TryLock()
	if err != nil {
		logger.Log.Fatalf("获取实例锁失败: %v", err)
	}
	if !locked {
		logger.Log.Fatalf("另一个机器人实例正在运行（锁文件 %s）", cfg.BotLockFile)
	}
	defer lock.Unlock()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a, err := app.Bootstrap(ctx, cfg)
	if err != nil {
		logger.Log.Fatalf("启动失败: %v", err)
	}
	defer a.Close()

	session, err := discordgo.New("Bot " + cfg.DiscordBot)
	if err != nil {
		logger.Log.Fatalf("Discord客户端创建失败: %v", err)
	}
	notifier := notify.NewDiscordNotifier(session, cfg.Automation.EditorChannelID, cfg.Automation.GithubIssuesChannelID)

	store, err := a.AssetStore(ctx)
	if err != nil {
		logger.Log.Fatalf("素材存储初始化失败: %v", err)
	}
	pool := downloader.NewPool(cfg.DownloadWorkers, store, cfg.DownloadTimeout)

	opts := []service.VideoOption{service.WithDispatcher(pool), service.WithAssetStore(store)}
	pub, err := a.Publisher(ctx)
	if err != nil {
		logger.Log.WithError(err).Warn("YouTube上传初始化失败，/publish不可用")
	} else if pub != nil {
		opts = append(opts, service.WithPublisher(pub))
	}

	// 自动化配置不完整时不监听频道：Channels为空，任何附件都不会匹配
	channels := service.Channels{}
	if cfg.Automation.IsComplete() {
		channels = a.Channels()
	} else {
		logger.Log.WithField("missing", cfg.Automation.Missing()).Warn("自动化配置不完整，附件监听和issue轮询不启动")
	}
	videos := service.NewVideoService(a.VideoRepo, a.UoW, a.Cache, notifier, channels, opts...)
	pool.Start(videos.HandleDownloadResult)

	var wg sync.WaitGroup
	if cfg.Automation.IsComplete() {
		w := watcher.NewIssueWatcher(
			watcher.NewGitHubLister(cfg.Automation.GithubToken, nil),
			notifier,
			seenStore(a, cfg),
			cfg.Automation.GithubUsername,
			cfg.IssuePollInterval,
		)
		wg.Add(1)
		go func() {
			defer wg.Done()
			w.Run(ctx)
		}()
	}

	b := bot.New(session, cfg, videos, a.Ratings(), a.Reports())
	if err := b.Start(ctx); err != nil {
		logger.Log.Fatalf("机器人启动失败: %v", err)
	}
	logger.Log.Info(" [*] 机器人运行中. 按 CTRL+C 退出")

	<-ctx.Done()
	logger.Log.Info("收到退出信号，正在关闭机器人")
	if err := b.Close(); err != nil {
		logger.Log.WithError(err).Warn("网关连接关闭失败")
	}
	// 先停网关再停协程池，已经排队的下载会跑完
	pool.Stop()
	wg.Wait()
}

// 关闭去重时返回nil，每轮都会重新播报全部open issue
func seenStore(a *app.App, cfg *config.Config) watcher.SeenStore {
	if !cfg.IssueDedup {
		return nil
	}
	if a.Redis != nil {
		return watcher.NewRedisSeenStore(a.Redis)
	}
	return watcher.NewMemorySeenStore()
}
