package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/plexgram/internal/bot"
	"github.com/desertthunder/plexgram/internal/server"
	"github.com/desertthunder/plexgram/internal/services"
	"github.com/desertthunder/plexgram/internal/shared"
	"github.com/desertthunder/plexgram/internal/store"
	"github.com/desertthunder/plexgram/internal/transport"
	"github.com/urfave/cli/v3"
)

// Serve runs the Telegram bot until interrupted.
//
// When the operator issues /restart the process replaces itself with a fresh
// copy of the same binary, so code and config changes on disk take effect.
func (r *Runner) Serve(ctx context.Context, cmd *cli.Command) error {
	if cmd.Bool("debug") {
		shared.SetLogLevel(r.logger, log.DebugLevel)
	}

	if err := r.config.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	db, credentials, err := r.openStore()
	if err != nil {
		return err
	}
	defer db.Close()

	media, err := services.NewPlexService(r.config.Plex.ServerURL, r.config.Plex.ClientID, r.httpClient)
	if err != nil {
		return fmt.Errorf("failed to create media service: %w", err)
	}

	tp, err := transport.NewTelegramTransport(r.config.Telegram.Token, r.logger)
	if err != nil {
		return fmt.Errorf("failed to create transport: %w", err)
	}

	b := bot.New(bot.Options{
		Store:          credentials,
		Media:          media,
		Transport:      tp,
		Logger:         r.logger,
		Operator:       r.config.Telegram.Operator,
		OperatorChatID: r.config.Telegram.OperatorChatID,
		CallTimeout:    time.Duration(r.config.Plex.TimeoutSeconds) * time.Second,
		MaxResults:     r.config.Plex.MaxResults,
	})

	runCtx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	var httpServer *http.Server
	if cmd.Bool("http") {
		httpServer = r.startOpsServer(credentials)
	}

	events := tp.Updates(runCtx)
	done := make(chan struct{})
	go func() {
		b.Run(runCtx, events)
		close(done)
	}()

	r.logger.Info("bot is running", "operator", r.config.Telegram.Operator)

	restart := false
	select {
	case <-runCtx.Done():
		r.logger.Info("shutting down")
	case <-b.Restart():
		r.logger.Info("restart requested by operator")
		restart = true
	}

	stop()
	<-done
	r.shutdownOpsServer(httpServer)

	if restart {
		return r.reexec()
	}
	return nil
}

// openStore opens the configured database, runs migrations and wraps it in
// the credential store. The caller owns the returned handle.
func (r *Runner) openStore() (*sql.DB, *store.SQLiteStore, error) {
	db, err := shared.NewDatabase(r.config.Database.Path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open database: %w", err)
	}

	shared.ConfigureDatabase(db, r.config.Database.MaxOpenConns, r.config.Database.MaxIdleConns)

	if err := shared.RunMigrations(db); err != nil {
		db.Close()
		return nil, nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return db, store.NewSQLiteStore(db), nil
}

func (r *Runner) startOpsServer(credentials store.CredentialStore) *http.Server {
	router := server.NewBasicRouter()
	router.Use(server.RequestLogger(r.logger))
	router.Handler(server.NewStatusHandler(credentials, r.logger))

	addr := fmt.Sprintf("%s:%d", r.config.Server.Host, r.config.Server.Port)
	httpServer := &http.Server{Addr: addr, Handler: router}

	go func() {
		r.logger.Info("ops server listening", "addr", addr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			r.logger.Error("ops server failed", "error", err)
		}
	}()

	return httpServer
}

func (r *Runner) shutdownOpsServer(httpServer *http.Server) {
	if httpServer == nil {
		return
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		r.logger.Warn("error shutting down ops server", "error", err)
	}
}

// reexec replaces the current process with a fresh copy of the same binary.
func (r *Runner) reexec() error {
	exe, err := os.Executable()
	if err != nil {
		return fmt.Errorf("failed to locate executable: %w", err)
	}

	r.logger.Info("restarting", "exe", exe)
	if err := syscall.Exec(exe, os.Args, os.Environ()); err != nil {
		return fmt.Errorf("failed to restart: %w", err)
	}
	return nil
}
