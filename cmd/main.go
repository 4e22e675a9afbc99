package main

import (
	"context"
	"database/sql"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"home_temperature_control/internal/config"
	"home_temperature_control/internal/devices"
	"home_temperature_control/internal/handlers"
	"home_temperature_control/internal/logger"
	"home_temperature_control/internal/repository"
	"home_temperature_control/internal/repository/db"
	"home_temperature_control/internal/security"
	"home_temperature_control/internal/server"
	"home_temperature_control/internal/service"

	_ "home_temperature_control/docs"
)

func main() {
	// load configs/config.yml
	cfg, err := config.Load()
	if err != nil {
		logger.Get(logger.InfoLevel).Fatalw("error reading config", "err", err)
	}

	// init logger, mirroring to the configured log file when set
	log := logger.GetWithFile(cfg.Logging.Level, cfg.Logging.FilePath)

	// open DB for the action log
	sqlDB, err := db.InitDB(cfg.DB.Path)
	if err != nil {
		log.Fatalw("failed to init sqlite", "err", err)
	}
	defer func() {
		if cerr := sqlDB.Close(); cerr != nil {
			log.Errorw("failed to close sqlite", "err", cerr)
		}
	}()

	// wire dependencies
	services, apiHandler := buildApp(cfg, sqlDB, log)

	// context for background goroutines
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// load the house topology and start the control loop
	if err := services.Control.Reload(); err != nil {
		log.Fatalw("failed to load house topology", "err", err)
	}
	go services.Control.Run(ctx)

	// start HTTP server
	srv := &server.Server{}
	runHTTPServer(srv, cfg.API.Host, cfg.Port, apiHandler, log)

	// graceful shutdown; an authorized restart command re-execs the binary
	if restart := waitForShutdown(cancel, srv, services.Lifecycle, log); restart {
		execSelf(log)
	}
}

func buildApp(cfg *config.Config, sqlDB *sql.DB, log *logger.Logger) (*service.Service, *handlers.Handler) {
	repos := repository.NewRepository(sqlDB, cfg.TopologyFile)

	audit := service.NewAuthAudit(repos.Events, log)
	sec := security.New(cfg.API.ControlPin, log, audit)
	if !sec.Enabled() {
		log.Warnw("control PIN not configured; stop/restart endpoints are disabled")
	}

	gw := devices.NewHTTPGateway(
		cfg.Devices.SensorPattern,
		cfg.Devices.HeaterPattern,
		time.Duration(cfg.Devices.TimeoutSeconds)*time.Second,
	)

	services := service.NewService(cfg, repos, gw, sec, log)
	return services, handlers.NewHandler(services, log)
}

// runHTTPServer runs the HTTP server in a separate goroutine.
func runHTTPServer(srv *server.Server, host, port string, handler *handlers.Handler, log *logger.Logger) {
	go func() {
		if err := srv.Run(host, port, handler.InitRoutes()); err != nil && err != http.ErrServerClosed {
			log.Fatalw("error starting server", "err", err)
		}
	}()
}

// waitForShutdown blocks until an OS signal or an authorized control command
// arrives, then performs graceful shutdown. It reports whether the process
// should re-exec itself afterwards.
func waitForShutdown(cancel context.CancelFunc, srv *server.Server, lc service.Lifecycle, log *logger.Logger) bool {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	restart := false
	select {
	case sig := <-quit:
		log.Infow("received OS signal, shutting down", "signal", sig.String())
	case sig := <-lc.Signals():
		log.Infow("received control command, shutting down", "command", string(sig))
		restart = sig == service.SignalRestart
	}

	// stop background goroutines
	cancel()

	// allow in-flight requests to complete
	ctx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Errorw("server forced to shutdown", "err", err)
	}
	return restart
}

// execSelf replaces the current process image with a fresh copy of the binary,
// preserving arguments and environment.
func execSelf(log *logger.Logger) {
	exe, err := os.Executable()
	if err != nil {
		log.Fatalw("cannot resolve own executable for restart", "err", err)
	}
	log.Infow("restarting", "exe", exe)
	if err := syscall.Exec(exe, os.Args, os.Environ()); err != nil {
		log.Fatalw("restart failed", "err", err)
	}
}
