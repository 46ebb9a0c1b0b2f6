package main

import (
	"context"
	"log"
	"os"
	"os/signal"

	"github.com/joho/godotenv"
	ucli "github.com/urfave/cli/v2"

	"pos-billing/internal/adapters/cli"
	"pos-billing/internal/bootstrap"
	"pos-billing/internal/config"
	"pos-billing/internal/logging"
)

func main() {
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	a := cli.NewApp(func(c *ucli.Context) (*cli.Env, error) {
		cfg, err := config.Load()
		if err != nil {
			return nil, err
		}
		// Logs go to stderr so command output on stdout stays parseable.
		logger := logging.Setup(cfg.LogLevel)
		rt, err := bootstrap.Build(c.Context, cfg, logger)
		if err != nil {
			return nil, err
		}
		return &cli.Env{
			Svc:        rt.Service,
			Key:        cfg.SessionKey,
			Restaurant: cfg.RestaurantName,
			Currency:   cfg.CurrencyLabel,
			In:         os.Stdin,
			Out:        os.Stdout,
			Close:      rt.Close,
		}, nil
	})

	if err := a.RunContext(ctx, os.Args); err != nil {
		log.Fatalf("pos: %v", err)
	}
}
