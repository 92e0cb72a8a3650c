package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	httpadapter "cv-site/internal/adapter/http"
	repo "cv-site/internal/adapter/repository"
	"cv-site/internal/adapter/source"
	"cv-site/internal/config"
	"cv-site/internal/logging"
	"cv-site/internal/parser"
	"cv-site/internal/usecase"
	"cv-site/internal/view"
	infra "cv-site/pkg/infrastructure"
	"cv-site/templates"

	_ "github.com/joho/godotenv/autoload"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

func main() {
	configPath := flag.String("config", os.Getenv("CV_CONFIG"), "path to YAML config")
	flag.Parse()

	if err := run(*configPath); err != nil {
		fmt.Fprintf(os.Stderr, "cv-site: %v\n", err)
		os.Exit(1)
	}
}

func run(configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	logger, err := logging.New(cfg.Logging)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var src usecase.Source
	if cfg.Source.URL != "" {
		src = source.NewHTTPSource(cfg.Source.URL, cfg.GetSourceTimeout(), cfg.Source.Retries, logger)
	} else {
		src = source.NewFileSource(cfg.Source.Path)
	}

	svc := usecase.NewCVService(src, parser.New(logger.Named("parser")), logger.Named("cv"))
	if err := svc.Load(ctx); err != nil {
		// the page serves the error state until a reload succeeds
		logger.Warn("initial cv load failed", zap.Error(err))
	}

	page, err := view.New()
	if err != nil {
		return err
	}

	store, err := repo.Open(ctx, cfg.Storage.DatabaseURL, logger)
	if err != nil {
		return err
	}
	defer store.Close()

	renderer := infra.NewChromedpRenderer(infra.ChromedpOptions{
		ExecPath: cfg.Snapshot.ChromePath,
		Width:    int64(cfg.Snapshot.Width),
		Height:   int64(cfg.Snapshot.Height),
		Selector: cfg.Snapshot.Selector,
		Settle:   cfg.GetSettleDelay(),
		Timeout:  cfg.GetSnapshotTimeout(),
	})
	snapshots := usecase.NewSnapshotProcessor(renderer, store, usecase.SnapshotOptions{
		OutputDir:   cfg.Snapshot.OutputDir,
		PDF:         cfg.Snapshot.PDF,
		Attempts:    cfg.Snapshot.Attempts,
		PostProcess: snapshotPostProcess(cfg),
	}, logger.Named("snapshot"))

	selfURL := cfg.Snapshot.URL
	if selfURL == "" {
		selfURL = fmt.Sprintf("http://127.0.0.1:%d", cfg.HTTP.Port)
	}
	h := httpadapter.NewHandler(svc, page, httpadapter.Options{
		Snapshots: snapshots,
		SelfURL:   selfURL,
		JobCtx:    ctx,
		Logger:    logger.Named("http"),
	})
	app := httpadapter.NewApp(h, logger.Named("http"))
	app.Server().ReadTimeout = cfg.GetReadTimeout()
	app.Server().WriteTimeout = cfg.GetWriteTimeout()

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("server listening", zap.String("addr", cfg.Addr()))
		return app.Listen(cfg.Addr())
	})

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down")
		err := app.ShutdownWithTimeout(cfg.GetShutdownTimeout())
		snapshots.Wait()
		return err
	})

	if cfg.Source.Watch && cfg.Source.URL == "" {
		w, err := source.NewWatcher(cfg.Source.Path, cfg.GetDebounce(), func(ctx context.Context) {
			_ = svc.Reload(ctx)
		}, logger.Named("watcher"))
		if err != nil {
			return err
		}
		g.Go(func() error { return w.Run(gctx) })
	}

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

func snapshotPostProcess(cfg *config.Config) usecase.PostProcessOptions {
	m := cfg.Snapshot.Meta
	return usecase.PostProcessOptions{
		BaseHref:   cfg.Snapshot.BaseHref,
		Stylesheet: templates.Style,
		Meta: usecase.Meta{
			Description: m.Description,
			Keywords:    m.Keywords,
			Author:      m.Author,
			Title:       m.Title,
			URL:         m.SiteURL,
		},
	}
}
