// Команда imageserver принимает изображения из форм сайта и сохраняет их под SEO-именами.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/InQaaaaGit/seo_image.git/internal/app"
	"github.com/InQaaaaGit/seo_image.git/internal/buildinfo"
	"github.com/InQaaaaGit/seo_image.git/internal/config"
	"github.com/InQaaaaGit/seo_image.git/internal/server"
	"go.uber.org/zap"
)

// Задаются при сборке через -ldflags "-X main.buildVersion=..."
var (
	buildVersion string
	buildDate    string
	buildCommit  string
)

func main() {
	logger, cleanup := server.InitLogger()
	defer cleanup()

	info := buildinfo.NewInfo(buildVersion, buildDate, buildCommit)
	if err := info.Print(os.Stdout); err != nil {
		logger.Warn("Error printing build info", zap.Error(err))
	}

	cfg := server.InitConfig(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM, syscall.SIGQUIT)
	defer stop()

	logger.Info("Starting image server", info.Fields()...)
	if err := run(ctx, cfg, logger); err != nil {
		logger.Fatal("Server stopped with error", zap.Error(err))
	}
	logger.Info("Server stopped")
}

// run собирает приложение и обслуживает запросы до отмены ctx.
func run(ctx context.Context, cfg *config.Config, logger *zap.Logger) error {
	application, err := app.NewApp(cfg, logger)
	if err != nil {
		return err
	}
	defer func() {
		if err := application.Close(); err != nil {
			logger.Error("Error closing application", zap.Error(err))
		}
	}()

	srv := server.NewHTTPServer(application.GetServer(), cfg, logger)
	return srv.Run(ctx)
}
