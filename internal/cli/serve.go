package cli

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"io"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/spf13/cobra"

	"bizbook/internal/config"
	"bizbook/internal/http/handlers"
	applog "bizbook/internal/log"
	"bizbook/internal/ratelimit"
	"bizbook/internal/repos"
	"bizbook/internal/services"
)

const shutdownTimeout = 10 * time.Second

func NewServeCommand(root *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := root.load()
			if err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return serve(ctx, cfg)
		},
	}
}

// server is everything serve opens; Close releases it in reverse order.
type server struct {
	app     *fiber.App
	closers []io.Closer
}

func (s *server) Close() error {
	var errs []error
	for i := len(s.closers) - 1; i >= 0; i-- {
		errs = append(errs, s.closers[i].Close())
	}
	return errors.Join(errs...)
}

func newServer(ctx context.Context, cfg config.Config) (*server, error) {
	logf, err := applog.Setup(cfg.LogLevel, cfg.LogFile)
	if err != nil {
		applog.Logger().WithError(err).Warnf("could not open log file %s", cfg.LogFile)
	}
	s := &server{closers: []io.Closer{logf}}
	lg := applog.Logger()

	db, err := repos.OpenDB(cfg.DBDriver, cfg.DBDSN)
	if err != nil {
		_ = s.Close()
		return nil, fmt.Errorf("open store: %w", err)
	}
	s.closers = append(s.closers, db)
	store := repos.NewStore(db)

	created, err := repos.SeedAdmin(ctx, db, cfg.AdminUsername, cfg.AdminPassword)
	if err != nil {
		_ = s.Close()
		return nil, fmt.Errorf("seed admin: %w", err)
	}
	if created {
		lg.WithField("username", cfg.AdminUsername).Info("admin account created")
		if cfg.AdminPassword == config.DefaultAdminPassword {
			lg.Warn("admin password is the built-in default; change it with `bizbook admin set-password`")
		}
	}

	secret := []byte(cfg.JWTSecret)
	if len(secret) == 0 {
		secret = make([]byte, 32)
		if _, err := rand.Read(secret); err != nil {
			_ = s.Close()
			return nil, err
		}
		lg.Warn("JWT_SECRET not set; using a per-process secret, sessions end on restart")
	}
	auth := services.NewAuthService(store, secret, cfg.SessionTTL, repos.BcryptCost)

	var storage fiber.Storage
	if cfg.RedisURL != "" {
		rs, err := ratelimit.New(ctx, cfg.RedisURL, "bizbook:rl:")
		if err != nil {
			_ = s.Close()
			return nil, fmt.Errorf("redis: %w", err)
		}
		s.closers = append(s.closers, rs)
		storage = rs
		lg.Info("rate limiting backed by redis")
	}

	s.app = handlers.NewApp(cfg, handlers.NewDeps(store, auth, cfg), storage)
	return s, nil
}

func serve(ctx context.Context, cfg config.Config) error {
	s, err := newServer(ctx, cfg)
	if err != nil {
		return err
	}
	defer s.Close()

	lg := applog.Logger()
	errc := make(chan error, 1)
	go func() {
		lg.WithField("port", cfg.Port).Info("http server starting")
		errc <- s.app.Listen(":" + cfg.Port)
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	lg.Info("shutting down")
	sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return s.app.ShutdownWithContext(sctx)
}
