package notify

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/streadway/amqp"
)

const (
	KindVideoSubmitted = "video_submitted"
	KindIssueOpened    = "issue_opened"
)

// Envelope 是队列里的消息格式，Payload按Kind解析
type Envelope struct {
	Kind    string          `json:"kind"`
	Payload json.RawMessage `json:"payload"`
}

// AMQPNotifier 把事件投递到RabbitMQ
type AMQPNotifier struct {
	conn  *amqp.Connection
	queue string
}

func NewAMQPNotifier(conn *amqp.Connection, queue string) *AMQPNotifier {
	return &AMQPNotifier{conn: conn, queue: queue}
}

func (n *AMQPNotifier) VideoSubmitted(ctx context.Context, ev VideoSubmittedEvent) error {
	return n.publish(KindVideoSubmitted, ev)
}

func (n *AMQPNotifier) IssueOpened(ctx context.Context, ev IssueEvent) error {
	return n.publish(KindIssueOpened, ev)
}

// 私有方法，发送消息到RabbitMQ：1、创建channel 2、序列化Envelope 3、发布持久化消息
func (n *AMQPNotifier) publish(kind string, payload interface{}) error {
	body, err := Encode(kind, payload)
	if err != nil {
		return err
	}
	// 为每一个消息建立一个单独的channel，消息之间互不影响
	ch, err := n.conn.Channel()
	if err != nil {
		return err
	}
	defer ch.Close()

	return ch.Publish(
		"",      // exchange默认交换机
		n.queue, // routing key
		false,   // mandatory
		false,   // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			Body:         body,
			DeliveryMode: amqp.Persistent, // 确保消息持久化
		})
}

func Encode(kind string, payload interface{}) ([]byte, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return json.Marshal(Envelope{Kind: kind, Payload: raw})
}

// Relay 把队列里的一条消息解析出来，交给target（通常是DiscordNotifier）发送
// 解析失败返回的是*DecodeError，消费者据此判断要不要重试
func Relay(ctx context.Context, body []byte, target Notifier) error {
	var env Envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return &DecodeError{Err: err}
	}
	switch env.Kind {
	case KindVideoSubmitted:
		var ev VideoSubmittedEvent
		if err := json.Unmarshal(env.Payload, &ev); err != nil {
			return &DecodeError{Err: err}
		}
		return target.VideoSubmitted(ctx, ev)
	case KindIssueOpened:
		var ev IssueEvent
		if err := json.Unmarshal(env.Payload, &ev); err != nil {
			return &DecodeError{Err: err}
		}
		return target.IssueOpened(ctx, ev)
	default:
		return &DecodeError{Err: fmt.Errorf("unknown kind %q", env.Kind)}
	}
}

// DecodeError 坏消息，重试也没用
type DecodeError struct {
	Err error
}

func (e *DecodeError) Error() string { return "decode notify message: " + e.Err.Error() }
func (e *DecodeError) Unwrap() error { return e.Err }
