package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"gtdTracker/internal/config"
	"gtdTracker/internal/gitsync"
	"gtdTracker/internal/handlers"
	"gtdTracker/internal/logger"
	"gtdTracker/internal/middleware"
	"gtdTracker/internal/service"
	"gtdTracker/internal/storage"
	"gtdTracker/internal/worker"
)

func main() {
	cfg, err := config.Load("config.yml")
	if err != nil {
		panic(err)
	}

	logger.Init(cfg.Logging.Development)
	defer logger.Sync()

	gtdStorage := storage.New(cfg.Storage.Path)

	var syncer service.Syncer
	if cfg.Git.Enabled {
		gs, err := gitsync.Open(cfg.Storage.Path)
		if err != nil {
			logger.Error("Main: ошибка открытия git-репозитория", err)
			os.Exit(1)
		}
		if gs == nil {
			logger.Warn("Main: git-репозиторий не найден, синхронизация выключена",
				zap.String("path", cfg.Storage.Path))
		} else {
			syncer = gs
		}
	}

	gtdService, err := service.NewGtdService(gtdStorage, syncer)
	if err != nil {
		logger.Error("Main: ошибка загрузки файла данных", err)
		os.Exit(1)
	}
	notaHandler := handlers.NewNotaHandler(gtdService)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.Worker.Enabled {
		agendaWorker := worker.NewAgendaWorker(gtdService, cfg.Worker.Interval)
		go agendaWorker.Start(ctx)
	}

	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Logging)
	r.Use(middleware.RateLimit(100))
	r.Use(cors.Handler(cors.Options{
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE"},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-ID"},
	}))

	r.Route("/notas", func(r chi.Router) {
		r.Get("/", notaHandler.GetNotas)  // GET /notas
		r.Post("/", notaHandler.PostNota) // POST /notas

		r.Post("/status", notaHandler.ChangeStatus) // POST /notas/status
		r.Delete("/trash", notaHandler.EmptyTrash)  // DELETE /notas/trash

		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", notaHandler.GetNotaByID)    // GET /notas/{id}
			r.Put("/", notaHandler.UpdateNotaByID) // PUT /notas/{id}
		})
	})

	r.Get("/health", notaHandler.HealthCheck)

	srv := &http.Server{
		Addr:    cfg.GetServerAddr(),
		Handler: r,
	}

	go func() {
		<-ctx.Done()
		logger.Info("Main: получен сигнал остановки, завершаем сервер")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("Main: ошибка остановки сервера", err)
		}
	}()

	logger.Info("Server started",
		zap.String("addr", cfg.GetServerAddr()),
		zap.String("storage", cfg.Storage.Path),
		zap.Bool("git_sync", syncer != nil))
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("Main: сервер остановлен с ошибкой", err)
		os.Exit(1)
	}
	logger.Info("Main: сервер остановлен")
}
