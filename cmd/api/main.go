package main

import (
	"context"
	"fmt"
	"log"
	"net/http"

	"followupTracker/internal/config"
	"followupTracker/internal/handlers"
	"followupTracker/internal/logger"
	"followupTracker/internal/middleware"
	"followupTracker/internal/repository/task/inmemory"
	"followupTracker/internal/repository/task/postgres"
	"followupTracker/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Ошибка загрузки конфигурации:", err)
	}

	if err := logger.Init(cfg.Logging.Development); err != nil {
		log.Fatal("Ошибка инициализации логгера:", err)
	}
	defer logger.Sync()

	loc, err := cfg.GetLocation()
	if err != nil {
		logger.Error("Ошибка конфигурации таймзоны", err)
		return
	}

	ctx := context.Background()

	var taskRepo service.TaskRepository
	var appRepo service.ApplicationRepository

	switch cfg.Repository.Type {
	case "postgres":
		connString, err := cfg.GetConnString()
		if err != nil {
			logger.Error("Ошибка сборки строки подключения", err)
			return
		}

		if err := runMigrations(connString); err != nil {
			logger.Error("Ошибка миграций", err)
			return
		}

		storage, err := postgres.New(ctx, connString,
			int32(cfg.Database.MaxConnections),
			int32(cfg.Database.MinConnections),
			cfg.Database.IdleTimeout)
		if err != nil {
			logger.Error("Ошибка подключения к PostgreSQL", err)
			return
		}
		defer storage.Close()

		taskRepo, appRepo = storage, storage
	default:
		storage := inmemory.NewTaskStorage()
		taskRepo, appRepo = storage, storage
	}

	taskService := service.NewTaskService(taskRepo, appRepo)
	taskHandler := handlers.NewTaskHandler(&taskService, loc)

	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Logging)
	r.Use(middleware.Metrics)
	r.Use(middleware.RateLimit(100))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{cfg.Dashboard.AllowedOrigin},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-ID"},
	}))

	// 405 для не-POST отдаёт сам обработчик, поэтому HandleFunc
	r.HandleFunc("/create-task", taskHandler.CreateTask)

	r.Route("/tasks", func(r chi.Router) {
		r.Get("/", taskHandler.GetTasks) // GET /tasks?date= или ?from=&to=

		r.Post("/{id}/complete", taskHandler.CompleteTask) // POST /tasks/{id}/complete
	})

	r.Route("/dashboard", func(r chi.Router) {
		r.Get("/", taskHandler.DashboardMonth)      // GET /dashboard?month=
		r.Get("/today", taskHandler.DashboardToday) // GET /dashboard/today
	})

	// корень навсегда уводит на сегодняшний дашборд
	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/dashboard/today", http.StatusMovedPermanently)
	})

	r.Get("/health", taskHandler.HealthCheck)
	r.Handle("/metrics", middleware.MetricsHandler())

	logger.Info("Server started", zap.String("addr", cfg.GetServerAddr()))
	if err := http.ListenAndServe(cfg.GetServerAddr(), r); err != nil {
		logger.Error("Ошибка HTTP сервера", err)
	}
}

func runMigrations(dbURL string) error {
	m, err := migrate.New("file://internal/migrations", dbURL)
	if err != nil {
		return fmt.Errorf("инициализация миграций: %w", err)
	}

	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		return fmt.Errorf("применение миграций: %w", err)
	}

	logger.Info("Миграции применены")
	return nil
}
