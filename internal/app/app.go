// Package app содержит основную структуру приложения и логику инициализации.
// Связывает конфигурацию, журнал загрузок, сервис и HTTP-маршруты.
package app

import (
	"fmt"
	"net/http"
	"net/http/pprof"
	"time"

	"github.com/InQaaaaGit/seo_image.git/internal/config"
	"github.com/InQaaaaGit/seo_image.git/internal/handler"
	"github.com/InQaaaaGit/seo_image.git/internal/middleware"
	"github.com/InQaaaaGit/seo_image.git/internal/service"
	"github.com/InQaaaaGit/seo_image.git/internal/storage"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"
)

// compressLevel - уровень сжатия JSON-ответов
const compressLevel = 5

// App представляет приложение сервиса загрузки изображений.
type App struct {
	config  *config.Config       // Конфигурация приложения
	router  *chi.Mux             // HTTP роутер для обработки запросов
	logger  *zap.Logger          // Логгер для записи событий приложения
	service service.ImageService // Сервис загрузки
	handler *handler.Handler     // Обработчики HTTP запросов
}

// NewApp создает приложение: выбирает журнал загрузок, создает каталоги
// и регистрирует маршруты.
func NewApp(cfg *config.Config, logger *zap.Logger) (*App, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	journal, err := storage.NewJournal(storage.Options{
		DatabaseDSN: cfg.DatabaseDSN,
		FilePath:    cfg.JournalFilePath,
		MemoryLimit: cfg.JournalMemoryLimit,
	}, logger)
	if err != nil {
		return nil, fmt.Errorf("error creating upload journal: %w", err)
	}

	svc, err := service.NewUploadService(cfg, journal, logger)
	if err != nil {
		if closeErr := journal.Close(); closeErr != nil {
			logger.Error("Error closing upload journal", zap.Error(closeErr))
		}
		return nil, fmt.Errorf("error creating service: %w", err)
	}

	a := &App{
		config:  cfg,
		router:  chi.NewRouter(),
		logger:  logger,
		service: svc,
		handler: handler.NewHandler(svc, cfg, logger),
	}
	a.setupRoutes()
	return a, nil
}

// setupRoutes настраивает HTTP маршруты и middleware для приложения.
func (a *App) setupRoutes() {
	a.router.Use(chimiddleware.RequestID)
	a.router.Use(chimiddleware.RealIP)
	a.router.Use(middleware.LoggerMiddleware(a.logger))
	a.router.Use(chimiddleware.Recoverer)
	a.router.Use(cors.Handler(cors.Options{
		AllowedOrigins: a.config.CORSAllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Requested-With"},
		MaxAge:         300,
	}))
	a.router.Use(chimiddleware.Compress(compressLevel, "application/json"))

	a.router.Get("/", a.handler.HandleHome)
	a.router.Get("/ping", a.handler.HandlePing)

	// Форма может быть настроена на любой из адресов
	for _, path := range []string{"/upload", "/submit", "/webhook"} {
		a.router.Post(path, a.handler.HandleUpload)
	}

	a.router.Route("/api/uploads", func(r chi.Router) {
		r.Get("/", a.handler.HandleListUploads)
		r.Get("/{savedName}", a.handler.HandleGetUpload)
	})

	// Отладка доступна только при включенном режиме
	if a.config.EnableDebug {
		a.router.Get("/debug", a.handler.HandleDebug)
		a.router.Post("/debug", a.handler.HandleDebug)
		a.router.Route("/debug/pprof", func(r chi.Router) {
			r.Get("/", pprof.Index)
			r.Get("/cmdline", pprof.Cmdline)
			r.Get("/profile", pprof.Profile)
			r.Get("/symbol", pprof.Symbol)
			r.Get("/trace", pprof.Trace)
			r.Get("/{name}", pprof.Index)
		})
	}
}

// Router возвращает HTTP роутер приложения.
func (a *App) Router() http.Handler {
	return a.router
}

// GetServer создает и возвращает настроенный HTTP сервер.
func (a *App) GetServer() *http.Server {
	return &http.Server{
		Addr:              a.config.ServerAddress,
		Handler:           a.router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       2 * time.Minute,
		WriteTimeout:      2 * time.Minute,
		IdleTimeout:       120 * time.Second,
	}
}

// Close освобождает ресурсы приложения.
func (a *App) Close() error {
	return a.service.Close()
}
