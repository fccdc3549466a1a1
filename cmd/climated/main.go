package main

import (
	"context"
	"database/sql"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "office_climate/docs"
	"office_climate/internal/config"
	"office_climate/internal/handlers"
	"office_climate/internal/logger"
	"office_climate/internal/metrics"
	"office_climate/internal/mqtt"
	"office_climate/internal/repository"
	"office_climate/internal/repository/db"
	"office_climate/internal/server"
	"office_climate/internal/service"
	"office_climate/internal/weather"
)

const defaultPort = "3000"

// @title        Office Climate API
// @version      1.0
// @description  Weekly heating schedules, effective target temperature and heater socket recommendations.
// @BasePath     /
func main() {
	// load configs/config.yml + CLIMATE_* env
	cfg, err := config.Load()
	if err != nil {
		logger.Get(logger.InfoLevel).Fatalw("error reading config", "err", err)
	}

	log := logger.Setup(logger.Options{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		File:       cfg.Log.File,
		MaxSizeMB:  cfg.Log.MaxSizeMB,
		MaxBackups: cfg.Log.MaxBackups,
		MaxAgeDays: cfg.Log.MaxAgeDays,
	})
	defer func() { _ = log.Sync() }()

	database, err := openDB(cfg, log)
	if err != nil {
		log.Fatalw("failed to init sqlite", "err", err)
	}
	defer func() {
		if cerr := database.Close(); cerr != nil {
			log.Errorw("failed to close sqlite", "err", cerr)
		}
	}()

	m := metrics.New()
	opts := service.Options{
		Log:            log.Named("service"),
		Recorder:       m,
		WeatherTTL:     cfg.Weather.CacheTTL,
		HistoryDefault: cfg.History.DefaultLimit,
		HistoryMax:     cfg.History.MaxLimit,
	}
	if cfg.Weather.Enabled {
		opts.Fetcher = weather.NewClient(cfg.Weather.BaseURL, cfg.Weather.Timeout)
	}
	if cfg.MQTT.Enabled {
		sink, client, err := mqtt.Connect(cfg.MQTT, log.Named("mqtt"))
		if err != nil {
			log.Fatalw("failed to connect mqtt", "err", err)
		}
		defer client.Disconnect(250)
		opts.Sink = sink
	}

	// wire dependencies
	repos := repository.NewRepository(database)
	services := service.NewService(repos, opts)
	apiHandler := handlers.NewHandler(services, log.Named("http"),
		handlers.WithMetrics(m),
		handlers.WithStaticDir(cfg.Server.StaticDir),
	)

	// context for background goroutines
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go services.Publisher.Run(ctx, cfg.Publisher.Interval)

	srv := server.New(server.Timeouts{Write: cfg.Server.WriteTimeout})
	runHTTPServer(srv, cfg.Server.Port, apiHandler, log)
	log.Infow("office climate controller started", "port", cfg.Server.Port, "db", cfg.DB.Path, "mqtt", cfg.MQTT.Enabled)

	waitForShutdown(cancel, srv, cfg.Server.ShutdownTimeout, log)
}

// openDB initializes the SQLite database using configuration.
func openDB(cfg *config.Config, log *logger.Logger) (*sql.DB, error) {
	path := cfg.DB.Path
	if path == "" {
		log.Infow("db.path not set in config; using default file", "default", "climate.db")
		path = "climate.db"
	}
	return db.InitDB(path)
}

// runHTTPServer runs the HTTP server in a separate goroutine.
func runHTTPServer(srv *server.Server, port string, handler *handlers.Handler, log *logger.Logger) {
	go func() {
		if port == "" {
			port = defaultPort
		}
		if err := srv.Run(port, handler.InitRoutes()); err != nil {
			log.Fatalw("error starting server", "err", err)
		}
	}()
}

// waitForShutdown listens for termination signals and performs graceful shutdown.
func waitForShutdown(cancel context.CancelFunc, srv *server.Server, timeout time.Duration, log *logger.Logger) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Infow("shutting down server...")

	// stop background goroutines
	cancel()

	// allow in-flight requests to complete
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	ctx, shutdownCancel := context.WithTimeout(context.Background(), timeout)
	defer shutdownCancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Errorw("server forced to shutdown", "err", err)
	}
}
