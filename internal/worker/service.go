package worker

import (
	"context"
	"errors"

	"github.com/elwarcha/gallery/internal/config"
	"github.com/elwarcha/gallery/internal/logger"
	"github.com/elwarcha/gallery/internal/queue"

	"github.com/hibiken/asynq"
)

// Service runs the asynq server that consumes email tasks.
type Service struct {
	name     string
	server   *asynq.Server
	mux      *asynq.ServeMux
	consumer *Consumer
}

// NewService builds the worker. It fails when the queue is disabled.
func NewService(cfg *config.QueueConfig, consumer *Consumer) (*Service, error) {
	if cfg == nil || !cfg.Enabled {
		return nil, errors.New("queue disabled")
	}
	if consumer == nil {
		return nil, errors.New("consumer is nil")
	}
	opt, serverCfg := queue.BuildServerConfig(cfg)
	server := asynq.NewServer(opt, serverCfg)
	mux := asynq.NewServeMux()
	consumer.Register(mux)
	return &Service{
		name:     "worker",
		server:   server,
		mux:      mux,
		consumer: consumer,
	}, nil
}

func (s *Service) Name() string {
	if s == nil || s.name == "" {
		return "worker"
	}
	return s.name
}

// Start runs the server until ctx is done. Signals are left to the runner.
func (s *Service) Start(ctx context.Context) error {
	if s == nil || s.server == nil || s.mux == nil {
		return errors.New("worker not initialized")
	}
	logger.Infow("worker_starting", "tasks", []string{queue.TaskOrderConfirmationEmail, queue.TaskOrderStatusEmail})
	if err := s.server.Start(s.mux); err != nil {
		return err
	}
	<-ctx.Done()
	return nil
}

// Stop waits for in-flight tasks, then shuts down.
func (s *Service) Stop(ctx context.Context) error {
	if s == nil || s.server == nil {
		return nil
	}
	logger.Infow("worker_stopping")
	s.server.Shutdown()
	return nil
}
