package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/subosito/gotenv"

	"github.com/hcg-gdl/pedido-viveres/internal/config"
	"github.com/hcg-gdl/pedido-viveres/internal/document"
	"github.com/hcg-gdl/pedido-viveres/internal/domain/catalog"
	"github.com/hcg-gdl/pedido-viveres/internal/domain/order"
	"github.com/hcg-gdl/pedido-viveres/internal/domain/personnel"
	"github.com/hcg-gdl/pedido-viveres/internal/infra/db"
	httpx "github.com/hcg-gdl/pedido-viveres/internal/infra/http"
	"github.com/hcg-gdl/pedido-viveres/internal/infra/logger"
	"github.com/hcg-gdl/pedido-viveres/internal/infra/metrics"
	"github.com/hcg-gdl/pedido-viveres/internal/infra/telegram"
	"github.com/hcg-gdl/pedido-viveres/internal/session"
)

func main() {
	configPath := flag.String("config", "config/example.yaml", "path to config file")
	flag.Parse()

	if err := gotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		fmt.Fprintln(os.Stderr, "load .env:", err)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		panic(err)
	}

	log := logger.New(cfg.App.Env)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	src, closeSrc, err := catalogSource(ctx, cfg, log)
	if err != nil {
		log.Error("catalog source failed", "err", err)
		return
	}
	defer closeSrc()

	cat, err := catalog.Load(ctx, src, log)
	if err != nil {
		metrics.CatalogLoadFailures.Inc()
	}

	store := session.NewStore(cfg.Session.IdleTTL, session.WithSizeHook(metrics.SetSessions))
	go store.Run(ctx, cfg.Session.SweepEvery)

	api := &httpx.API{
		Log:     log,
		Catalog: cat,
		Roster:  personnel.NewRoster(cfg.Personnel.DeliveredBy, cfg.Personnel.ReceivedBy),
		Store:   store,
		Policy:  order.Policy{AllowEmptyOrder: cfg.Order.AllowEmpty},
		Rows: order.RowOptions{
			Capacity:     cfg.Order.FormCapacity,
			WordsInNotes: cfg.Order.WordsInNotes,
		},
		Header: order.HeaderDefaults{
			BudgetLine:   cfg.Header.BudgetLine,
			Facility:     cfg.Header.Facility,
			ServiceAreas: cfg.Header.ServiceAreas,
		},
		PDF: document.NewPDFRenderer(cfg.PDF.ChromePath, cfg.PDF.Timeout),
	}

	if cfg.Telegram.Token != "" {
		d, err := telegram.New(cfg.Telegram.Token, cfg.Telegram.ChatID, log)
		if err != nil {
			log.Error("telegram disabled", "err", err)
		} else {
			api.Dispatcher = d
		}
	}

	srv := httpx.New(cfg.HTTP.Addr, cfg.Metrics.Enabled, api)
	go func() {
		if err := srv.Start(); err != nil {
			log.Error("http server error", "err", err)
			stop()
		}
	}()
	log.Info("HTTP server started", "addr", cfg.HTTP.Addr)

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = srv.Shutdown(shutdownCtx)
	log.Info("graceful shutdown complete")
}

// catalogSource elige de dónde sale el catálogo. Con postgres aplica migraciones
// y, si hay catalog.seed_file, siembra la tabla antes de leerla.
func catalogSource(ctx context.Context, cfg config.Config, log *slog.Logger) (catalog.Source, func(), error) {
	noop := func() {}
	switch cfg.Catalog.Source {
	case "", "file":
		return catalog.FileSource{Path: cfg.Catalog.Path}, noop, nil
	case "url":
		return catalog.HTTPSource{URL: cfg.Catalog.URL, Timeout: cfg.Catalog.Timeout}, noop, nil
	case "postgres":
		if err := db.Migrate(cfg.Postgres.DSN); err != nil {
			return nil, noop, fmt.Errorf("migrations: %w", err)
		}
		log.Info("migrations applied")

		pool, err := db.Connect(ctx, cfg.Postgres.DSN)
		if err != nil {
			return nil, noop, fmt.Errorf("db connect: %w", err)
		}
		repo := catalog.NewRepo(pool)

		if cfg.Catalog.SeedFile != "" {
			articles, err := catalog.FileSource{Path: cfg.Catalog.SeedFile}.Load(ctx)
			if err != nil {
				log.Warn("catalog seed skipped", "file", cfg.Catalog.SeedFile, "err", err)
			} else if n, err := repo.Upsert(ctx, articles); err != nil {
				log.Warn("catalog seed failed", "err", err)
			} else {
				log.Info("catalog seeded", "articles", n)
			}
		}
		return repo, pool.Close, nil
	default:
		return nil, noop, fmt.Errorf("unknown catalog.source %q", cfg.Catalog.Source)
	}
}
