package main

import (
	"VideoForge/internal/app"
	"VideoForge/internal/config"
	"VideoForge/internal/notify"
	"VideoForge/pkg/logger"
	"VideoForge/pkg/rabbitmq"
	"context"
	"errors"
	"log"
	"os/signal"
	"syscall"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/streadway/amqp"
)

// 单条消息发往Discord的时限
const relayTimeout = 15 * time.Second

// 消费者进程：把网页进程投进通知队列的事件转发到Discord频道，只用REST接口，不连网关
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("配置加载失败: %v", err)
	}
	app.InitLogger(cfg)

	if cfg.DiscordBot == "" {
		logger.Log.Fatal("DISCORD_TOKEN未设置")
	}
	// 连接RabbitMQ
	conn, err := rabbitmq.InitRabbitMQ(cfg.RabbitMQ.URL)
	if err != nil {
		logger.Log.Fatalf("消费者无法连接到RabbitMQ: %v", err)
	}
	if conn == nil {
		logger.Log.Fatal("RABBITMQ_URL未设置")
	}
	defer conn.Close()
	if err := rabbitmq.DeclareNotifyQueue(conn); err != nil {
		logger.Log.Fatalf("通知队列声明失败: %v", err)
	}

	session, err := discordgo.New("Bot " + cfg.DiscordBot)
	if err != nil {
		logger.Log.Fatalf("Discord客户端创建失败: %v", err)
	}
	target := notify.NewDiscordNotifier(session, cfg.Automation.EditorChannelID, cfg.Automation.GithubIssuesChannelID)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	consumeNotifications(ctx, conn, target)
}

// 通知队列消费者：1、通过mq的TCP连接创建channel 2、注册消费者 3、逐条转发到Discord 4、按结果Ack/Nack
func consumeNotifications(ctx context.Context, conn *amqp.Connection, target notify.Notifier) {
	ch, err := conn.Channel()
	if err != nil {
		logger.Log.Fatalf("无法打开Channel: %v", err)
	}
	defer ch.Close()

	// 一次只取一条，Discord限流时不会把消息堆在本地
	if err := ch.Qos(1, 0, false); err != nil {
		logger.Log.Fatalf("设置Qos失败: %v", err)
	}
	msgs, err := ch.Consume(
		rabbitmq.QueueNotify, // queue
		"",                   // consumer
		false,                // auto-ack: 转发成功后手动确认
		false,                // exclusive
		false,                // no-local
		false,                // no-wait
		nil,                  // args
	)
	if err != nil {
		logger.Log.Fatalf("无法注册通知消费者: %v", err)
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		// msgs不是切片，而是通道channel，如果通道为空不会结束循环，而会“阻塞”
		for d := range msgs {
			handleDelivery(ctx, d, target)
		}
	}()
	logger.Log.Info(" [*] 等待通知消息中. 按 CTRL+C 退出")

	select {
	case <-ctx.Done():
		logger.Log.Info("收到退出信号，消费者退出")
	case <-done:
		logger.Log.Warn("通知队列已关闭")
	}
}

func handleDelivery(ctx context.Context, d amqp.Delivery, target notify.Notifier) {
	logCtx := logger.Log.WithField("delivery_tag", d.DeliveryTag).WithField("redelivered", d.Redelivered)
	logCtx.Info("收到一条通知消息")

	rctx, cancel := context.WithTimeout(ctx, relayTimeout)
	defer cancel()
	err := notify.Relay(rctx, d.Body, target)

	var decodeErr *notify.DecodeError
	switch {
	case err == nil:
		_ = d.Ack(false)
	case errors.As(err, &decodeErr):
		// 无法解析的“坏消息”，重试也没用，直接丢弃
		logCtx.WithError(err).Error("消息解析失败，丢弃")
		_ = d.Nack(false, false)
	case d.Redelivered:
		// 已经重投过一次还是失败，不再无限重试
		logCtx.WithError(err).Error("重投后仍然转发失败，丢弃")
		_ = d.Nack(false, false)
	default:
		logCtx.WithError(err).Warn("转发失败，将进行重试")
		_ = d.Nack(false, true)
	}
}
