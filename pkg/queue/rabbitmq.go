package queue

import (
	"encoding/json"
	"fmt"
	"time"

	"streamboom/pkg/config"
	"streamboom/pkg/logger"

	amqp "github.com/rabbitmq/amqp091-go"
)

const (
	Exchange = "streamboom"

	NotificationQueueName = "notification_queue"
	NotificationKey       = "notification"

	PurchaseQueueName = "purchase_queue"
	PurchaseKey       = "purchase"
)

// NotificationTask is delivered to the notification service for fan-out.
type NotificationTask struct {
	UserID     string                 `json:"user_id"`
	Type       string                 `json:"type"`
	Title      string                 `json:"title"`
	Message    string                 `json:"message"`
	CampaignID string                 `json:"campaign_id,omitempty"`
	Data       map[string]interface{} `json:"data,omitempty"`
}

// PurchaseEvent is consumed by the referral service to accumulate
// qualification progress. Key dedupes redeliveries of the same purchase.
type PurchaseEvent struct {
	Key      string `json:"key"`
	UserID   string `json:"user_id"`
	AmountBB int    `json:"amount_bb"`
}

type Client struct {
	conn    *amqp.Connection
	channel *amqp.Channel
	logger  *logger.Logger
}

func NewRabbitMQClient(cfg *config.Config, log *logger.Logger) (*Client, error) {
	url := fmt.Sprintf("amqp://%s:%s@%s:%s/",
		cfg.RabbitMQUser,
		cfg.RabbitMQPassword,
		cfg.RabbitMQHost,
		cfg.RabbitMQPort,
	)

	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}

	err = channel.ExchangeDeclare(
		Exchange, // name
		"direct", // type
		true,     // durable
		false,    // auto-deleted
		false,    // internal
		false,    // no-wait
		nil,      // arguments
	)
	if err != nil {
		channel.Close()
		conn.Close()
		return nil, fmt.Errorf("failed to declare exchange: %w", err)
	}

	for queueName, key := range map[string]string{
		NotificationQueueName: NotificationKey,
		PurchaseQueueName:     PurchaseKey,
	} {
		_, err = channel.QueueDeclare(
			queueName,
			true,  // durable
			false, // delete when unused
			false, // exclusive
			false, // no-wait
			nil,
		)
		if err != nil {
			channel.Close()
			conn.Close()
			return nil, fmt.Errorf("failed to declare queue %s: %w", queueName, err)
		}

		if err = channel.QueueBind(queueName, key, Exchange, false, nil); err != nil {
			channel.Close()
			conn.Close()
			return nil, fmt.Errorf("failed to bind queue %s: %w", queueName, err)
		}
	}

	log.Info("Connected to RabbitMQ at %s:%s", cfg.RabbitMQHost, cfg.RabbitMQPort)

	return &Client{
		conn:    conn,
		channel: channel,
		logger:  log,
	}, nil
}

func (c *Client) Close() error {
	if c.channel != nil {
		c.channel.Close()
	}
	if c.conn != nil {
		return c.conn.Close()
	}
	return nil
}

func (c *Client) publish(key string, payload interface{}) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal payload: %w", err)
	}

	err = c.channel.Publish(
		Exchange,
		key,
		false, // mandatory
		false, // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			Body:         body,
			DeliveryMode: amqp.Persistent,
			Timestamp:    time.Now(),
		},
	)
	if err != nil {
		c.logger.Error("[RABBITMQ] Failed to publish to routing_key=%s: %v", key, err)
		return fmt.Errorf("failed to publish message: %w", err)
	}

	return nil
}

func (c *Client) PublishNotificationTask(task *NotificationTask) error {
	return c.publish(NotificationKey, task)
}

func (c *Client) PublishPurchaseEvent(event *PurchaseEvent) error {
	return c.publish(PurchaseKey, event)
}

func (c *Client) consume(queueName string, handle func(body []byte) error) error {
	msgs, err := c.channel.Consume(
		queueName,
		"",    // consumer
		false, // auto-ack (manual ack after processing)
		false, // exclusive
		false, // no-local
		false, // no-wait
		nil,
	)
	if err != nil {
		return fmt.Errorf("failed to register consumer: %w", err)
	}

	c.logger.Info("[RABBITMQ] Started consuming from queue: %s", queueName)

	go func() {
		for msg := range msgs {
			if err := handle(msg.Body); err != nil {
				c.logger.Error("[RABBITMQ] Handler failed for queue=%s: %v", queueName, err)
				msg.Nack(false, true) // requeue
				continue
			}
			msg.Ack(false)
		}
	}()

	return nil
}

func (c *Client) ConsumeNotificationTasks(handler func(task *NotificationTask) error) error {
	return c.consume(NotificationQueueName, func(body []byte) error {
		var task NotificationTask
		if err := json.Unmarshal(body, &task); err != nil {
			c.logger.Error("[RABBITMQ] Failed to unmarshal notification task: %v", err)
			return nil // drop malformed messages, do not requeue
		}
		return handler(&task)
	})
}

func (c *Client) ConsumePurchaseEvents(handler func(event *PurchaseEvent) error) error {
	return c.consume(PurchaseQueueName, func(body []byte) error {
		var event PurchaseEvent
		if err := json.Unmarshal(body, &event); err != nil {
			c.logger.Error("[RABBITMQ] Failed to unmarshal purchase event: %v", err)
			return nil
		}
		return handler(&event)
	})
}
