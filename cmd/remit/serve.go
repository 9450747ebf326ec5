package main

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"log"
	"log/slog"
	"net/http"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/mtlprog/remit/internal/api"
	"github.com/mtlprog/remit/internal/config"
	"github.com/mtlprog/remit/internal/database"
	"github.com/mtlprog/remit/internal/export"
	"github.com/mtlprog/remit/internal/external"
	"github.com/mtlprog/remit/internal/showcase"
	"github.com/mtlprog/remit/internal/simulate"
	"github.com/mtlprog/remit/internal/snapshot"
	"github.com/mtlprog/remit/internal/worker"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

func serveCommand(cfg config.Config) *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "run the HTTP API and background workers",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "port", Usage: "HTTP listen port", Value: cfg.HTTPPort},
		},
		Action: func(c *cli.Context) error {
			cfg.HTTPPort = c.String("port")
			return serve(c.Context, cfg)
		},
	}
}

func serve(ctx context.Context, cfg config.Config) error {
	ctx, stop := context.WithCancel(ctx)
	defer stop()

	if cfg.DatabaseURL == "" {
		return errors.New("DATABASE_URL is required")
	}

	pool, err := database.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("connecting to database: %w", err)
	}
	defer pool.Close()

	migrationsSub, err := fs.Sub(migrationsFS, "migrations")
	if err != nil {
		return fmt.Errorf("creating migrations sub-fs: %w", err)
	}
	if err := database.RunMigrations(ctx, pool, migrationsSub); err != nil {
		return fmt.Errorf("running migrations: %w", err)
	}

	client, err := newChainClient(cfg)
	if err != nil {
		return err
	}
	accountSvc := newAccountService(cfg, client)

	walletMgr, err := newWalletManager(cfg)
	if err != nil {
		return err
	}

	// Exchange rates
	coingecko := external.NewCoinGeckoClient(cfg.CoinGeckoURL, newRetrier(cfg))
	rateRepo := external.NewPgRateRepository(pool)
	rateSvc := external.NewService(coingecko, rateRepo, cfg.RateCurrencies)

	// Snapshots
	snapshotRepo := snapshot.NewPgRepository(pool)
	snapshotSvc := snapshot.NewService(accountSvc, snapshotRepo)
	refresher := snapshot.NewRefresher(snapshotSvc, cfg.DebounceWait, cfg.RefreshTimeout)
	defer refresher.Stop()

	var hook worker.AfterSnapshotHook
	if cfg.GoogleSheetsID != "" && cfg.GoogleCredentialsJSON != "" {
		writer, err := export.NewSheetsWriter(ctx, cfg.GoogleSheetsID, cfg.GoogleCredentialsJSON)
		if err != nil {
			return fmt.Errorf("creating sheets writer: %w", err)
		}
		hook = export.NewService(writer)
	} else {
		slog.Info("Google Sheets not configured, snapshot export disabled")
	}

	// Start workers
	quoteWorker := worker.NewQuoteWorker(rateSvc, cfg.QuoteWorkerInterval)
	go quoteWorker.Run(ctx)

	if len(cfg.WatchAddresses) > 0 {
		snapshotWorker := worker.NewSnapshotWorker(snapshotSvc, cfg.WatchAddresses, cfg.SnapshotWorkerInterval, hook)
		go snapshotWorker.Run(ctx)
	}

	simCfg := simulationConfig(cfg)
	registry := simulate.NewRegistry(func() *simulate.Transfer {
		return simulate.New(simCfg)
	}, simulate.WithMaxSessions(cfg.SimMaxSessions), simulate.WithIdleTTL(cfg.SimSessionTTL))
	sweepWorker := worker.NewSweepWorker(registry, max(cfg.SimSessionTTL/2, time.Minute))
	go sweepWorker.Run(ctx)

	if cfg.AdminAPIKey == "" {
		slog.Warn("ADMIN_API_KEY not set, wallet and submission endpoints are unprotected")
	}

	srv := api.NewServer(cfg.HTTPPort, api.Deps{
		Accounts:    accountSvc,
		Snapshots:   snapshotSvc,
		Refresher:   refresher,
		Wallet:      walletMgr,
		Transfers:   newTransferService(cfg, client),
		Simulations: registry,
		Rates:       rateSvc,
		Showcase:    showcase.New(showcase.DefaultConfig()),
		Network:     cfg.AlgodNetwork,
	}, cfg.AdminAPIKey)

	go func() {
		log.Printf("HTTP server listening on :%s", cfg.HTTPPort)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf("HTTP server error: %v", err)
			stop()
		}
	}()

	<-ctx.Done()
	log.Println("Shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("HTTP server shutdown error: %v", err)
	}

	log.Println("Shutdown complete")
	return nil
}
