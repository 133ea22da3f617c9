// Package notify 把流水线事件推送到聊天频道
//
// 机器人进程直接用DiscordNotifier发消息；网页进程没有网关连接，
// 用AMQPNotifier把事件投递到RabbitMQ，由cmd/consumer转发到Discord。
package notify

import (
	"context"
	"time"
)

type VideoSubmittedEvent struct {
	VideoID       uint64 `json:"video_id"`
	Title         string `json:"title"`
	Description   string `json:"description"`
	StorageLink   string `json:"storage_link"`
	SubmitterID   string `json:"submitter_id"`
	SubmitterName string `json:"submitter_name"`
}

type IssueEvent struct {
	Repo      string    `json:"repo"`
	Number    int       `json:"number"`
	Title     string    `json:"title"`
	URL       string    `json:"url"`
	CreatedAt time.Time `json:"created_at"`
}

type Notifier interface {
	VideoSubmitted(ctx context.Context, ev VideoSubmittedEvent) error
	IssueOpened(ctx context.Context, ev IssueEvent) error
}

// Noop 未配置任何通道时使用
type Noop struct{}

func (Noop) VideoSubmitted(context.Context, VideoSubmittedEvent) error { return nil }
func (Noop) IssueOpened(context.Context, IssueEvent) error             { return nil }
