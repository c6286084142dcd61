package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"

	"github.com/g7food/client/internal/account"
	"github.com/g7food/client/internal/backend"
	"github.com/g7food/client/internal/config"
	"github.com/g7food/client/internal/storage"
	"github.com/g7food/client/internal/wallet"
)

// app holds the wired components shared by every command.
type app struct {
	cfg     config.Config
	store   storage.Store
	client  *backend.Client
	session *account.Session
	wallet  *wallet.Sync
}

func newApp(ctx context.Context, cfg config.Config) (*app, error) {
	store, err := storage.Open(ctx, cfg.DatabaseURL, cfg.StatePath)
	if err != nil {
		return nil, fmt.Errorf("opening state store: %w", err)
	}

	client := backend.NewClient(cfg.APIURL, cfg.RequestTimeout, account.NewTokenStore(store))
	return &app{
		cfg:     cfg,
		store:   store,
		client:  client,
		session: account.NewSession(client, store),
		wallet:  wallet.NewSync(ctx, client, store, cfg.WalletPollInterval),
	}, nil
}

func (a *app) Close() {
	if err := a.store.Close(); err != nil {
		slog.Warn("closing state store", "error", err)
	}
}

func main() {
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var a *app
	cliApp := &cli.App{
		Name:  "g7client",
		Usage: "food delivery and wallet client",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "verbose", Aliases: []string{"v"}, Usage: "debug logging"},
		},
		Before: func(c *cli.Context) error {
			level := slog.LevelWarn
			if c.Bool("verbose") {
				level = slog.LevelDebug
			}
			slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

			var err error
			a, err = newApp(c.Context, config.Load())
			return err
		},
		After: func(c *cli.Context) error {
			if a != nil {
				a.Close()
			}
			return nil
		},
	}
	cliApp.Commands = commands(func() *app { return a })

	if err := cliApp.RunContext(ctx, os.Args); err != nil {
		if _, ok := err.(cli.ExitCoder); ok {
			os.Exit(1)
		}
		log.Fatalf("g7client: %v", err)
	}
}

func commands(get func() *app) []*cli.Command {
	return []*cli.Command{
		pingCommand(get),
		loginCommand(get),
		logoutCommand(get),
		registerCommand(get),
		whoamiCommand(get),
		profileCommand(get),
		passwordCommand(get),
		walletCommand(get),
		cartCommand(get),
	}
}
