package main

import (
	"flag"
	"fmt"
	"os"
	"strings"
	"syscall"

	"github.com/elwarcha/gallery/internal/app"
	"github.com/elwarcha/gallery/internal/config"
	"github.com/elwarcha/gallery/internal/logger"

	"github.com/gin-gonic/gin"
)

const (
	ansiReset = "\033[0m"
	ansiBold  = "\033[1m"
	ansiDim   = "\033[2m"
	ansiCyan  = "\033[36m"
)

func main() {
	var mode string
	flag.StringVar(&mode, "mode", app.ModeAll, "run mode: all, api or worker")
	flag.Parse()

	printStartupBanner(mode)

	cfg := config.Load()
	logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	defer logger.Sync()
	stdLog := logger.StdLogger()

	if isWeakSecret(cfg.JWT.SecretKey) {
		if cfg.Server.Mode == "release" {
			stdLog.Fatalf("jwt.secret is weak or still the default; set a long random secret")
		}
		logger.Warnw("jwt_secret_weak", "hint", "set JWT_SECRET before going to production")
	}
	if cfg.Server.Mode == "release" && strings.TrimSpace(cfg.Admin.Password) == "" {
		logger.Warnw("admin_password_default", "hint", "set ADMIN_PASSWORD; the seeded admin uses a default password")
	}
	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	if err := app.Run(app.Options{
		Config:  cfg,
		Logger:  logger.S(),
		Signals: []os.Signal{syscall.SIGINT, syscall.SIGTERM},
		Mode:    mode,
	}); err != nil {
		stdLog.Fatalf("server stopped: %v", err)
	}
}

func printStartupBanner(mode string) {
	fmt.Println(ansiCyan + ansiBold + "Elwarcha gallery API" + ansiReset)
	fmt.Println(ansiDim + "mode: " + mode + ansiReset)
}

func isWeakSecret(secret string) bool {
	if len(secret) < 32 {
		return true
	}
	normalized := strings.ToLower(secret)
	return strings.Contains(normalized, "change-me") ||
		strings.Contains(normalized, "change-in-production") ||
		strings.Contains(normalized, "your-secret-key")
}
