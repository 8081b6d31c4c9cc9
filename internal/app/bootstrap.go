package app

import (
	"errors"
	"fmt"

	"github.com/elwarcha/gallery/internal/config"
	"github.com/elwarcha/gallery/internal/logger"
	"github.com/elwarcha/gallery/internal/provider"
	"github.com/elwarcha/gallery/internal/router"
	"github.com/elwarcha/gallery/internal/worker"
)

// BuildRunner wires the container and the services of mode. The returned
// cleanup releases the container and must be called after the runner exits.
func BuildRunner(cfg *config.Config, mode string) (*Runner, func(), error) {
	if cfg == nil {
		return nil, nil, errors.New("config is nil")
	}

	container, err := provider.NewContainer(cfg)
	if err != nil {
		return nil, nil, err
	}
	cleanup := container.Close

	var services []Service

	if mode == ModeAll || mode == ModeAPI {
		engine := router.SetupRouter(cfg, container)
		addr := cfg.Server.Host + ":" + cfg.Server.Port
		services = append(services, NewHTTPService(addr, engine))
	}

	if mode == ModeAll || mode == ModeWorker {
		consumer := worker.NewConsumer(container)
		workerService, err := worker.NewService(&cfg.Queue, consumer)
		switch {
		case err == nil:
			services = append(services, workerService)
		case mode == ModeWorker:
			cleanup()
			return nil, nil, fmt.Errorf("worker: %w", err)
		default:
			logger.Warnw("app_worker_skipped", "error", err)
		}
	}

	if len(services) == 0 {
		cleanup()
		return nil, nil, fmt.Errorf("no services for mode %q", mode)
	}

	return NewRunner(services...), cleanup, nil
}

// Run builds and runs the application until a signal arrives.
func Run(opts Options) error {
	opts = normalizeOptions(opts)
	if opts.Config == nil {
		return errors.New("config is nil")
	}

	runner, cleanup, err := BuildRunner(opts.Config, opts.Mode)
	if err != nil {
		return err
	}
	defer cleanup()

	addr := opts.Config.Server.Host + ":" + opts.Config.Server.Port
	opts.Logger.Infow("app_start", "addr", addr, "mode", opts.Mode)
	return RunWithOptions(runner, opts)
}
