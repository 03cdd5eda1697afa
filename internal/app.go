package internal

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"plantao/internal/providers"
	"plantao/internal/snapshot/interfaces"
	"plantao/internal/structures"
	"plantao/internal/watcher"
	"strconv"
	"time"
)

const shutdownTimeout = 5 * time.Second

type App struct {
	WebServer *http.Server

	conf      *structures.Config
	logger    providers.Logger
	router    providers.RouterProviderInterface
	watcher   *watcher.RecordWatcher
	scheduler interfaces.SchedulerInterface
}

func NewApp(handler http.Handler, router providers.RouterProviderInterface, recordWatcher *watcher.RecordWatcher, scheduler interfaces.SchedulerInterface, conf *structures.Config, logger providers.Logger) *App {
	return &App{
		WebServer: &http.Server{
			Addr:         net.JoinHostPort(conf.WebServer.Host, strconv.Itoa(conf.WebServer.Port)),
			Handler:      handler,
			ReadTimeout:  5 * time.Second,
			WriteTimeout: 10 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		conf:      conf,
		logger:    logger,
		router:    router,
		watcher:   recordWatcher,
		scheduler: scheduler,
	}
}

// Run serves until ctx is cancelled or the listener fails, then shuts the
// server down and takes a final snapshot.
func (a *App) Run(ctx context.Context) error {
	a.logger.Infof(providers.TypeApp, "Starting %s", a.conf.AppName)

	ln, err := net.Listen("tcp", a.WebServer.Addr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", a.WebServer.Addr, err)
	}

	if a.conf.Watcher.Enabled {
		if err := a.watcher.Start(); err != nil {
			a.logger.Errorf(providers.TypeApp, "Record watcher not started: %s", err)
		}
	}
	a.scheduler.Init()

	PrintBanner(os.Stdout, a.conf, a.router.GetRoutes(), LocalIPs())

	serverErr := make(chan error, 1)
	go func() {
		a.logger.Infof(providers.TypeApp, "Listening HTTP clients on %s", ln.Addr())
		if err := a.WebServer.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	var runErr error
	select {
	case <-ctx.Done():
		a.logger.Infof(providers.TypeApp, "Shutdown signal received")
	case err := <-serverErr:
		runErr = fmt.Errorf("server error: %w", err)
	}

	a.scheduler.Stop()
	if err := a.watcher.Stop(); err != nil {
		a.logger.Warnf(providers.TypeApp, "Stop record watcher: %s", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := a.WebServer.Shutdown(shutdownCtx); err != nil {
		runErr = errors.Join(runErr, err)
	}

	if err := a.scheduler.Persist(); err != nil {
		runErr = errors.Join(runErr, err)
	}

	if runErr == nil {
		a.logger.Infof(providers.TypeApp, "gracefully stopped")
	}
	return runErr
}

func (a *App) Close() {
	a.scheduler.Close()
	a.logger.Close()
}
