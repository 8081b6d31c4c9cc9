package queue

import (
	"fmt"
	"strings"

	"github.com/elwarcha/gallery/internal/config"

	"github.com/hibiken/asynq"
)

const defaultMaxRetry = 5

// Client wraps an asynq client. A disabled Client silently drops tasks.
type Client struct {
	client   *asynq.Client
	enabled  bool
	maxRetry int
}

// NewClient builds a queue client from config.
func NewClient(cfg *config.QueueConfig) (*Client, error) {
	if cfg == nil || !cfg.Enabled {
		return &Client{}, nil
	}
	maxRetry := defaultMaxRetry
	if cfg.MaxRetry > 0 {
		maxRetry = cfg.MaxRetry
	}
	return &Client{
		client:   asynq.NewClient(buildRedisOpt(cfg)),
		enabled:  true,
		maxRetry: maxRetry,
	}, nil
}

// Enabled reports whether tasks are actually enqueued.
func (c *Client) Enabled() bool {
	return c != nil && c.enabled && c.client != nil
}

// Close releases the redis connection.
func (c *Client) Close() error {
	if c == nil || c.client == nil {
		return nil
	}
	return c.client.Close()
}

// EnqueueOrderConfirmationEmail schedules the order recap mail.
func (c *Client) EnqueueOrderConfirmationEmail(payload OrderConfirmationEmailPayload) error {
	if !c.Enabled() {
		return nil
	}
	task, err := NewOrderConfirmationEmailTask(payload)
	if err != nil {
		return err
	}
	return c.enqueue(task, QueueCritical)
}

// EnqueueOrderStatusEmail schedules a status change mail.
func (c *Client) EnqueueOrderStatusEmail(payload OrderStatusEmailPayload) error {
	if !c.Enabled() {
		return nil
	}
	task, err := NewOrderStatusEmailTask(payload)
	if err != nil {
		return err
	}
	return c.enqueue(task, QueueDefault)
}

// EnqueueContactMessageEmail schedules the contact form notification.
func (c *Client) EnqueueContactMessageEmail(payload ContactMessageEmailPayload) error {
	if !c.Enabled() {
		return nil
	}
	task, err := NewContactMessageEmailTask(payload)
	if err != nil {
		return err
	}
	return c.enqueue(task, QueueDefault)
}

func (c *Client) enqueue(task *asynq.Task, queue string) error {
	_, err := c.client.Enqueue(task, asynq.Queue(queue), asynq.MaxRetry(c.maxRetry))
	return err
}

// BuildServerConfig derives the worker server options.
func BuildServerConfig(cfg *config.QueueConfig) (asynq.RedisClientOpt, asynq.Config) {
	concurrency := 5
	if cfg != nil && cfg.Concurrency > 0 {
		concurrency = cfg.Concurrency
	}
	queues := map[string]int{QueueCritical: 3, QueueDefault: 5}
	if cfg != nil && len(cfg.Queues) > 0 {
		queues = cfg.Queues
	}
	return buildRedisOpt(cfg), asynq.Config{
		Concurrency: concurrency,
		Queues:      queues,
	}
}

func buildRedisOpt(cfg *config.QueueConfig) asynq.RedisClientOpt {
	opt := asynq.RedisClientOpt{Addr: "127.0.0.1:6379"}
	if cfg == nil {
		return opt
	}
	host := strings.TrimSpace(cfg.Host)
	if host == "" {
		host = "127.0.0.1"
	}
	port := cfg.Port
	if port <= 0 {
		port = 6379
	}
	opt.Addr = fmt.Sprintf("%s:%d", host, port)
	opt.Password = cfg.Password
	opt.DB = cfg.DB
	return opt
}
