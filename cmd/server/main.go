package main

import (
	"context"
	"errors"
	"log/slog"
	stdhttp "net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/roysafi/poll/internal/adapters/auth"
	"github.com/roysafi/poll/internal/adapters/handler/http"
	"github.com/roysafi/poll/internal/adapters/repository/memory"
	"github.com/roysafi/poll/internal/adapters/repository/postgres"
	"github.com/roysafi/poll/internal/config"
	"github.com/roysafi/poll/internal/core/ports"
	"github.com/roysafi/poll/internal/core/services"
)

type repositories struct {
	polls  ports.PollRepository
	votes  ports.VoteRepository
	visits ports.VisitRepository
	close  func() error
}

func main() {
	cfg, _, err := config.Load("server", os.Args[1:])
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(2)
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.LogLevel})))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	repos, err := openRepositories(ctx, cfg)
	if err != nil {
		slog.Error("failed to open poll store", "error", err)
		os.Exit(1)
	}
	defer repos.close()

	opts := http.Options{
		AllowedOrigins: cfg.AllowedOrigins,
		RequestTimeout: cfg.RequestTimeout,
	}
	if cfg.AdminJWTSecret != "" {
		tokens, err := auth.NewAdminTokens(cfg.AdminJWTSecret)
		if err != nil {
			slog.Error("failed to configure admin tokens", "error", err)
			os.Exit(1)
		}
		opts.AdminTokens = tokens
	} else {
		slog.Info("ADMIN_JWT_SECRET not set, admin routes disabled")
	}

	handler := http.NewHandler(
		http.NewPollHandler(services.NewPollService(repos.polls, repos.votes)),
		http.NewVoteHandler(services.NewVoteService(repos.polls, repos.votes)),
		http.NewVisitHandler(services.NewVisitService(repos.visits)),
		http.NewAdminHandler(services.NewAdminService(repos.polls)),
		opts,
	)
	server := &stdhttp.Server{Addr: cfg.Addr, Handler: handler}

	go func() {
		slog.Info("listening", "addr", cfg.Addr, "store", cfg.Store)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, stdhttp.ErrServerClosed) {
			slog.Error("server failed", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	slog.Info("gracefully shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("shutdown failed", "error", err)
	}
}

func openRepositories(ctx context.Context, cfg config.Config) (*repositories, error) {
	if cfg.Store == config.StoreMemory {
		slog.Warn("using in-memory poll store, data is lost on restart")
		store := memory.NewStore()
		return &repositories{
			polls:  store,
			votes:  store,
			visits: store,
			close:  func() error { return nil },
		}, nil
	}

	if err := cfg.Database.Validate(); err != nil {
		return nil, err
	}
	db, err := postgres.Open(ctx, cfg.Database.DSN())
	if err != nil {
		return nil, err
	}
	if err := postgres.ApplyMigrations(ctx, db); err != nil {
		db.Close()
		return nil, err
	}
	slog.Info("database schema ready")

	return &repositories{
		polls:  postgres.NewPollRepository(db),
		votes:  postgres.NewVoteRepository(db),
		visits: postgres.NewVisitRepository(db),
		close:  db.Close,
	}, nil
}
