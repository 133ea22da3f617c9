// Package app 负责三个进程（网页、机器人、命令行）共用的基础设施装配
package app

import (
	"VideoForge/internal/assets"
	"VideoForge/internal/config"
	"VideoForge/internal/data"
	"VideoForge/internal/notify"
	"VideoForge/internal/publisher"
	"VideoForge/internal/repository"
	"VideoForge/internal/service"
	"VideoForge/pkg/logger"
	"VideoForge/pkg/rabbitmq"
	pkgredis "VideoForge/pkg/redis"
	"context"
	"fmt"
	"io"

	"github.com/go-redis/redis/v8"
	"github.com/streadway/amqp"
	"gorm.io/gorm"
)

// App 持有进程级别的连接和仓储，services按需从这里构造
type App struct {
	Cfg   *config.Config
	DB    *gorm.DB
	Redis *redis.Client
	AMQP  *amqp.Connection

	VideoRepo   repository.VideoRepository
	RatingRepo  repository.RatingRepository
	UserRepo    repository.UserRepository
	CommentRepo repository.CommentRepository
	Cache       repository.ReportCache
	UoW         data.UnitOfWork

	closers []io.Closer
}

// InitLogger 按配置初始化全局logger
func InitLogger(cfg *config.Config) {
	logger.InitLogger(logger.Options{
		Level:      cfg.Log.Level,
		File:       cfg.Log.File,
		MaxSize:    cfg.Log.MaxSize,
		MaxBackups: cfg.Log.MaxBackups,
		MaxAge:     cfg.Log.MaxAge,
	})
}

// Bootstrap 1、连接数据库并迁移 2、连接Redis（可选） 3、连接RabbitMQ并声明通知队列（可选） 4、构造仓储
func Bootstrap(ctx context.Context, cfg *config.Config) (*App, error) {
	a := &App{Cfg: cfg}

	db, err := data.OpenDB(cfg.Database.Driver, cfg.Database.DSN)
	if err != nil {
		return nil, fmt.Errorf("无法连接到数据库: %w", err)
	}
	a.DB = db
	logger.Log.WithField("driver", cfg.Database.Driver).Info("数据库连接成功")
	if err := data.Migrate(db); err != nil {
		a.Close()
		return nil, fmt.Errorf("数据库迁移失败: %w", err)
	}
	logger.Log.Info("数据库迁移成功")

	rdb, err := pkgredis.InitRedis(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("无法连接到Redis: %w", err)
	}
	if rdb != nil {
		a.Redis = rdb
		a.closers = append(a.closers, rdb)
		logger.Log.Info("Redis连接成功")
	} else {
		logger.Log.Warn("未配置Redis，报表不做缓存")
	}

	conn, err := rabbitmq.InitRabbitMQ(cfg.RabbitMQ.URL)
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("无法连接到RabbitMQ: %w", err)
	}
	if conn != nil {
		a.AMQP = conn
		a.closers = append(a.closers, conn)
		if err := rabbitmq.DeclareNotifyQueue(conn); err != nil {
			a.Close()
			return nil, fmt.Errorf("通知队列声明失败: %w", err)
		}
		logger.Log.Info("RabbitMQ连接成功")
	}

	a.VideoRepo = repository.NewVideoRepository(db)
	a.RatingRepo = repository.NewRatingRepository(db)
	a.UserRepo = repository.NewUserRepository(db)
	a.CommentRepo = repository.NewCommentRepository(db)
	a.Cache = repository.NewReportCache(rdb)
	a.UoW = data.NewUnitOfWork(db, a.VideoRepo, a.RatingRepo)
	return a, nil
}

func (a *App) Channels() service.Channels {
	return service.Channels{
		Editor:    a.Cfg.Automation.EditorChannelID,
		Thumbnail: a.Cfg.Automation.ThumbnailChannelID,
	}
}

func (a *App) Reports() service.ReportService {
	return service.NewReportService(a.VideoRepo, a.RatingRepo, a.Cache, a.Cfg.LeaderboardTTL, a.Cfg.AnalyticsTTL)
}

func (a *App) Ratings() service.RatingService {
	return service.NewRatingService(a.RatingRepo, a.Cache)
}

// AssetStore 配置了桶就用GCS，否则落到本地目录
func (a *App) AssetStore(ctx context.Context) (assets.Store, error) {
	if bucket := a.Cfg.Assets.GCSBucket; bucket != "" {
		store, err := assets.NewGCSStore(ctx, bucket)
		if err != nil {
			return nil, fmt.Errorf("gcs store: %w", err)
		}
		a.closers = append(a.closers, store)
		logger.Log.WithField("bucket", bucket).Info("素材存储: GCS")
		return store, nil
	}
	store, err := assets.NewLocalStore(a.Cfg.Assets.Dir)
	if err != nil {
		return nil, fmt.Errorf("local store: %w", err)
	}
	logger.Log.WithField("dir", a.Cfg.Assets.Dir).Info("素材存储: 本地目录")
	return store, nil
}

// Publisher 没配置YouTube token时返回nil，发布接口会报未启用
func (a *App) Publisher(ctx context.Context) (service.Publisher, error) {
	path := a.Cfg.Automation.YoutubeTokenPath
	if path == "" {
		return nil, nil
	}
	yt, err := publisher.NewYouTube(ctx, path, a.Cfg.Publish.Tags, a.Cfg.Publish.Privacy)
	if err != nil {
		return nil, err
	}
	return yt, nil
}

// Close 逆序关闭连接
func (a *App) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i].Close(); err != nil {
			logger.Log.WithError(err).Warn("关闭连接失败")
		}
	}
	a.closers = nil
	if a.DB != nil {
		if sqlDB, err := a.DB.DB(); err == nil {
			_ = sqlDB.Close()
		}
	}
}

// QueueNotifier 有RabbitMQ时把通知投进队列，由consumer转发到Discord；否则不通知
func (a *App) QueueNotifier() notify.Notifier {
	if a.AMQP == nil {
		logger.Log.Warn("未配置RabbitMQ，投稿通知不会发送")
		return notify.Noop{}
	}
	return notify.NewAMQPNotifier(a.AMQP, rabbitmq.QueueNotify)
}
