// Package bootstrap wires the application service from configuration. Both
// binaries share it.
package bootstrap

import (
	"context"
	"fmt"
	"log/slog"

	"pos-billing/internal/app"
	"pos-billing/internal/auth"
	"pos-billing/internal/config"
	"pos-billing/internal/core"
	"pos-billing/internal/metrics"
	"pos-billing/internal/posapi"
	"pos-billing/internal/receipt"
	"pos-billing/internal/session"
)

// Runtime is a wired service together with the pieces the adapters need.
type Runtime struct {
	Config  *config.Config
	Logger  *slog.Logger
	Metrics *metrics.Metrics
	Tokens  *auth.TokenSource
	Service app.ApplicationService

	store session.Store
}

// Build connects the session store and assembles the service.
func Build(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Runtime, error) {
	tokens, err := auth.NewTokenSource(cfg.APIToken, cfg.APITokenFile)
	if err != nil {
		return nil, fmt.Errorf("api token: %w", err)
	}

	m := metrics.New()
	client := posapi.New(cfg.APIBaseURL, cfg.AppKey,
		posapi.WithTokenSource(tokens),
		posapi.WithTimeout(cfg.APITimeout),
		posapi.WithObserver(m.ObserveAPI),
		posapi.WithLogger(logger),
	)

	store, err := session.Open(ctx, session.Options{
		Kind:        session.Kind(cfg.SessionStore),
		SQLitePath:  cfg.SessionDBPath,
		DatabaseURL: cfg.DatabaseURL,
		TTL:         cfg.SessionTTL,
	})
	if err != nil {
		return nil, fmt.Errorf("session store: %w", err)
	}

	sink, err := newSink(cfg)
	if err != nil {
		store.Close()
		return nil, err
	}
	emitter := receipt.NewEmitter(sink, receipt.Options{
		Restaurant: cfg.RestaurantName,
		Currency:   cfg.CurrencyLabel,
		Delay:      cfg.ReceiptRedirectDelay,
		Navigate: func(path string) {
			logger.Debug("receipt done, returning to list", "path", path)
		},
		Logger: logger,
	})

	svc := app.NewAppService(client, store, emitter, auth.NewResolver(tokens, client, logger), m, app.Options{
		Rates: core.Rates{
			TaxPercent:     cfg.DefaultTaxPercent,
			ServicePercent: cfg.DefaultServicePercent,
		},
		OnlineRule:    core.ParseOnlineRule(cfg.OnlinePaymentMethods),
		Lang:          cfg.Lang,
		SettlementTTL: cfg.SessionTTL,
		Logger:        logger,
	})

	logger.Info("service ready",
		"backend", cfg.APIBaseURL,
		"session_store", cfg.SessionStore,
		"online_methods", cfg.OnlinePaymentMethods,
	)
	return &Runtime{Config: cfg, Logger: logger, Metrics: m, Tokens: tokens, Service: svc, store: store}, nil
}

// Close releases the session store.
func (r *Runtime) Close() {
	if err := r.store.Close(); err != nil {
		r.Logger.Warn("close session store", "error", err)
	}
}

func newSink(cfg *config.Config) (receipt.Sink, error) {
	if cfg.ReceiptS3Bucket != "" {
		s, err := receipt.NewS3Sink(cfg.ReceiptS3Bucket, cfg.ReceiptS3Region)
		if err != nil {
			return nil, fmt.Errorf("receipt bucket: %w", err)
		}
		return s, nil
	}
	return receipt.DirSink{Dir: cfg.ReceiptDir}, nil
}
