package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/sitesmith/sitesmith/internal/cmssrv/config"
	"github.com/sitesmith/sitesmith/internal/cmssrv/db"
	"github.com/sitesmith/sitesmith/internal/cmssrv/db/dbmanager"
	"github.com/sitesmith/sitesmith/internal/cmssrv/db/memory"
	"github.com/sitesmith/sitesmith/internal/cmssrv/db/models"
	"github.com/sitesmith/sitesmith/internal/cmssrv/db/postgresql"
	"github.com/sitesmith/sitesmith/internal/cmssrv/server"
	"github.com/sitesmith/sitesmith/internal/common/logging"
	"golang.org/x/crypto/bcrypt"
)

func init() {
	logging.Init()
}

type cmdoptions struct {
	configFile string
	devMode    bool
	devEmail   string
	devPass    string
}

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := run(ctx); err != nil {
		log.Error().Err(err).Msg("server failed")
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	slog := log.With().Str("state", "init").Logger()

	opt := parseFlags()

	slog.Info().Str("config_file", opt.configFile).Msg("loading config file")
	if err := config.LoadConfig(opt.configFile); err != nil {
		return fmt.Errorf("loading config file: %w", err)
	}
	if config.Config().ServerPort == "" {
		return fmt.Errorf("server port not defined")
	}

	store, err := createStore(opt)
	if err != nil {
		return fmt.Errorf("creating store: %w", err)
	}
	defer store.Close()

	serverErrors, shutdownServer, err := createSiteServer(ctx, store)
	if err != nil {
		return fmt.Errorf("creating server: %w", err)
	}

	// Channel to listen for an interrupt or terminate signal from the OS.
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		return fmt.Errorf("server error: %w", err)

	case sig := <-shutdown:
		slog.Info().Str("signal", sig.String()).Msg("shutdown signal received")
		shutdownServer()
	}

	slog.Info().Msg("server stopped")
	return nil
}

// createStore opens the PostgreSQL store, or an in-memory store with a
// seeded user when running in dev mode.
func createStore(opt cmdoptions) (db.Store, error) {
	if opt.devMode {
		log.Info().Str("email", opt.devEmail).Msg("dev mode: using in-memory store")
		store := memory.New()
		hash, err := bcrypt.GenerateFromPassword([]byte(opt.devPass), bcrypt.DefaultCost)
		if err != nil {
			return nil, fmt.Errorf("hashing dev password: %w", err)
		}
		user := &models.User{Email: opt.devEmail, PasswordHash: string(hash)}
		if apperr := store.CreateUser(context.Background(), user); apperr != nil {
			return nil, fmt.Errorf("seeding dev user: %w", apperr)
		}
		return store, nil
	}

	pool, err := dbmanager.NewPool(config.Config().DSN())
	if err != nil {
		return nil, err
	}
	return postgresql.New(pool), nil
}

func createSiteServer(ctx context.Context, store db.Store) (chan error, func(), error) {
	slog := log.With().Str("state", "init").Logger()

	s, err := server.CreateNewServer(store)
	if err != nil {
		return nil, nil, err
	}
	s.MountHandlers()

	srv := &http.Server{
		Addr:              ":" + config.Config().ServerPort,
		Handler:           s.Router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	serverErrors := make(chan error, 1)

	go func() {
		slog.Info().Str("port", config.Config().ServerPort).Msg("server started")
		serverErrors <- srv.ListenAndServe()
	}()

	shutdown := func() {
		// Give outstanding requests 5 seconds to complete and initiate the shutdown.
		shutdownCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()

		s.Shutdown()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			slog.Error().Err(err).Msg("could not stop server gracefully")
			if err := srv.Close(); err != nil {
				slog.Error().Err(err).Msg("could not stop server")
			}
		}
	}

	return serverErrors, shutdown, nil
}

const DefaultConfigFile = "/etc/sitesmith/sitesmithsrv.conf"

func parseFlags() cmdoptions {
	var opt cmdoptions
	flag.StringVar(&opt.configFile, "config", DefaultConfigFile, "Path to the config file")
	flag.BoolVar(&opt.devMode, "dev", false, "Run with an in-memory store and a seeded dev user")
	flag.StringVar(&opt.devEmail, "dev-email", "dev@localhost", "Dev mode login email")
	flag.StringVar(&opt.devPass, "dev-password", "sitesmith", "Dev mode login password")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "Usage: %s [options]\n\n", os.Args[0])
		fmt.Println("Options:")
		flag.PrintDefaults()
	}
	flag.Parse()
	return opt
}
