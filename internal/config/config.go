package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

const redacted = "[REDACTED]"

// Config 是整个进程唯一的配置对象，启动时加载并校验一次，之后只读
type Config struct {
	Env        string `env:"APP_ENV" envDefault:"development"`
	HTTPAddr   string `env:"HTTP_ADDR" envDefault:":8080"`
	JWTSecret  string `env:"JWT_SECRET_KEY"`
	AdminUser  string `env:"ADMIN_USERNAME" envDefault:"admin"`
	AdminPass  string `env:"ADMIN_PASSWORD"`
	DiscordBot string `env:"DISCORD_TOKEN"`

	Database   Database
	Redis      Redis
	RabbitMQ   RabbitMQ
	Log        Log
	Assets     Assets
	Automation Automation
	Publish    Publish

	DownloadWorkers   int           `env:"DOWNLOAD_WORKERS" envDefault:"5"`
	DownloadTimeout   time.Duration `env:"DOWNLOAD_TIMEOUT" envDefault:"10m"`
	IssuePollInterval time.Duration `env:"ISSUE_POLL_INTERVAL" envDefault:"300s"`
	IssueDedup        bool          `env:"ISSUE_DEDUP" envDefault:"true"`
	SupportChannelID  string        `env:"SUPPORT_CHANNEL_ID"`
	BotLockFile       string        `env:"BOT_LOCK_FILE" envDefault:"videoforge-bot.lock"`
	LeaderboardTTL    time.Duration `env:"LEADERBOARD_CACHE_TTL" envDefault:"300s"`
	AnalyticsTTL      time.Duration `env:"ANALYTICS_CACHE_TTL" envDefault:"3600s"`
}

type Database struct {
	Driver string `env:"DB_DRIVER" envDefault:"sqlite"`
	// mysql: user:pass@tcp(127.0.0.1:3306)/videoforge?charset=utf8mb4&parseTime=True&loc=Local
	DSN string `env:"DATABASE_DSN" envDefault:"videos.db"`
}

type Redis struct {
	Addr     string `env:"REDIS_ADDR"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB" envDefault:"0"`
}

type RabbitMQ struct {
	URL string `env:"RABBITMQ_URL"`
}

type Log struct {
	Level      string `env:"LOG_LEVEL" envDefault:"info"`
	File       string `env:"LOG_FILE" envDefault:"videoforge.log"`
	MaxSize    int    `env:"LOG_MAX_SIZE" envDefault:"100"`
	MaxBackups int    `env:"LOG_MAX_BACKUPS" envDefault:"7"`
	MaxAge     int    `env:"LOG_MAX_AGE" envDefault:"7"`
}

type Assets struct {
	Dir       string `env:"ASSET_DIR" envDefault:"assets"`
	GCSBucket string `env:"ASSET_GCS_BUCKET"`
}

type Publish struct {
	Tags    []string `env:"YOUTUBE_TAGS" envSeparator:"," envDefault:"VideoForge"`
	Privacy string   `env:"YOUTUBE_PRIVACY" envDefault:"private"`
}

// Automation 对应原先的“全有或全无”配置：只有全部非空时，监听器和自动化才会启动
type Automation struct {
	EditorChannelID       string `env:"EDITOR_CHANNEL_ID"`
	ThumbnailChannelID    string `env:"THUMBNAIL_CHANNEL_ID"`
	GithubIssuesChannelID string `env:"GITHUB_ISSUES_CHANNEL_ID"`
	TrustedRoleID         string `env:"TRUSTED_ROLE_ID"`
	GithubUsername        string `env:"GITHUB_USERNAME"`
	GithubToken           string `env:"GITHUB_TOKEN"`
	YoutubeTokenPath      string `env:"YOUTUBE_TOKEN_PATH"`
}

// Missing 返回所有为空的必填键名，顺序固定
func (a Automation) Missing() []string {
	var missing []string
	for _, kv := range a.pairs() {
		if strings.TrimSpace(kv[1]) == "" {
			missing = append(missing, kv[0])
		}
	}
	return missing
}

func (a Automation) IsComplete() bool {
	return len(a.Missing()) == 0
}

func (a Automation) pairs() [][2]string {
	return [][2]string{
		{"editor_channel_id", a.EditorChannelID},
		{"thumbnail_channel_id", a.ThumbnailChannelID},
		{"github_issues_channel_id", a.GithubIssuesChannelID},
		{"trusted_role_id", a.TrustedRoleID},
		{"github_username", a.GithubUsername},
		{"github_token", a.GithubToken},
		{"youtube_token_path", a.YoutubeTokenPath},
	}
}

// Redacted 用于展示配置，token类的值统一打码
func (c *Config) Redacted() map[string]string {
	out := make(map[string]string)
	for _, kv := range c.Automation.pairs() {
		v := kv[1]
		switch kv[0] {
		case "github_token", "youtube_token_path":
			if v != "" {
				v = redacted
			} else {
				v = "Not set"
			}
		}
		out[kv[0]] = v
	}
	out["support_channel_id"] = c.SupportChannelID
	out["db_driver"] = c.Database.Driver
	return out
}

// Load 加载.env（可选）并解析环境变量，返回校验后的配置
func Load(files ...string) (*Config, error) {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if _, err := os.Stat(f); err != nil {
			continue // .env不存在就直接读进程环境变量
		}
		if err := godotenv.Load(f); err != nil {
			return nil, fmt.Errorf("load %s: %w", f, err)
		}
	}

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	switch c.Database.Driver {
	case "mysql", "sqlite":
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q", c.Database.Driver)
	}
	if c.Database.DSN == "" {
		return errors.New("DATABASE_DSN is required")
	}
	if c.DownloadWorkers <= 0 {
		return errors.New("DOWNLOAD_WORKERS must be positive")
	}
	if c.IssuePollInterval <= 0 {
		return errors.New("ISSUE_POLL_INTERVAL must be positive")
	}
	return nil
}
