package rabbitmq

import (
	"github.com/streadway/amqp"
)

// 遵循：项目名.业务领域.功能
const QueueNotify = "forge.notify.queue"

// InitRabbitMQ 初始化RabbitMQ连接，url为空时返回nil（未启用消息队列）
func InitRabbitMQ(url string) (*amqp.Connection, error) {
	if url == "" {
		return nil, nil
	}
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, err
	}
	return conn, nil
}

// DeclareNotifyQueue 创建通知队列，有就不用创建（幂等）
func DeclareNotifyQueue(conn *amqp.Connection) error {
	ch, err := conn.Channel()
	if err != nil {
		return err
	}
	// 执行完毕后，这个临时的Channel就被关闭了
	defer ch.Close()
	_, err = ch.QueueDeclare(
		QueueNotify, // name
		true,        // durable: RabbitMQ重启后队列仍在
		false,       // autoDelete
		false,       // exclusive
		false,       // noWait
		nil,         // args
	)
	return err
}
