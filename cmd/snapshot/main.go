package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	repo "cv-site/internal/adapter/repository"
	"cv-site/internal/config"
	"cv-site/internal/domain"
	"cv-site/internal/logging"
	"cv-site/internal/parser"
	"cv-site/internal/usecase"
	"cv-site/internal/view"
	infra "cv-site/pkg/infrastructure"
	"cv-site/templates"

	_ "github.com/joho/godotenv/autoload"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	configPath string
	verbose    bool

	cfg    *config.Config
	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "cv-snapshot",
	Short: "Export the CV page as a static site",
	Long: `cv-snapshot produces a standalone index.html of the CV.

capture drives headless Chrome against a running cv-site server.
render builds the page offline straight from the XML source.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(configPath)
		if err != nil {
			return err
		}
		if verbose {
			cfg.Logging.Level = "debug"
		}
		logger, err = logging.New(cfg.Logging)
		return err
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

var captureCmd = &cobra.Command{
	Use:   "capture",
	Short: "Capture a running server's page with headless Chrome",
	RunE:  runCapture,
}

var renderCmd = &cobra.Command{
	Use:   "render",
	Short: "Render the page from XML without a browser",
	RunE:  runRender,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", os.Getenv("CV_CONFIG"), "path to YAML config")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")
	rootCmd.PersistentFlags().String("out", "", "output directory (default from config)")
	rootCmd.PersistentFlags().String("base-href", "", "base href for the exported page")
	rootCmd.PersistentFlags().Bool("pdf", false, "also export cv.pdf")

	captureCmd.Flags().String("url", "", "page to capture (default from config)")
	renderCmd.Flags().String("xml", "", "CV XML file (default from config)")

	rootCmd.AddCommand(captureCmd, renderCmd)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

// applyFlags lets explicitly set flags win over config and environment.
func applyFlags(cmd *cobra.Command) {
	flags := cmd.Flags()
	if flags.Changed("out") {
		cfg.Snapshot.OutputDir, _ = flags.GetString("out")
	}
	if flags.Changed("base-href") {
		cfg.Snapshot.BaseHref, _ = flags.GetString("base-href")
	}
	if flags.Changed("pdf") {
		cfg.Snapshot.PDF, _ = flags.GetBool("pdf")
	}
	if flags.Changed("url") {
		cfg.Snapshot.URL, _ = flags.GetString("url")
	}
	if flags.Changed("xml") {
		cfg.Source.Path, _ = flags.GetString("xml")
	}
}

func newRenderer() *infra.ChromedpRenderer {
	return infra.NewChromedpRenderer(infra.ChromedpOptions{
		ExecPath: cfg.Snapshot.ChromePath,
		Width:    int64(cfg.Snapshot.Width),
		Height:   int64(cfg.Snapshot.Height),
		Selector: cfg.Snapshot.Selector,
		Settle:   cfg.GetSettleDelay(),
		Timeout:  cfg.GetSnapshotTimeout(),
	})
}

func postProcessOptions() usecase.PostProcessOptions {
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

func runCapture(cmd *cobra.Command, args []string) error {
	applyFlags(cmd)
	ctx := cmd.Context()

	target := cfg.Snapshot.URL
	if target == "" {
		target = fmt.Sprintf("http://localhost:%d", cfg.HTTP.Port)
	}

	store, err := repo.Open(ctx, cfg.Storage.DatabaseURL, logger)
	if err != nil {
		return err
	}
	defer store.Close()

	p := usecase.NewSnapshotProcessor(newRenderer(), store, usecase.SnapshotOptions{
		OutputDir:   cfg.Snapshot.OutputDir,
		PDF:         cfg.Snapshot.PDF,
		Attempts:    cfg.Snapshot.Attempts,
		PostProcess: postProcessOptions(),
	}, logger)

	snap := domain.NewSnapshot(target)
	if err := p.Process(ctx, snap); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", snap.OutputHTML)
	if snap.OutputPDF != "" {
		fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", snap.OutputPDF)
	}
	return nil
}

func runRender(cmd *cobra.Command, args []string) error {
	applyFlags(cmd)

	data, err := os.ReadFile(cfg.Source.Path)
	if err != nil {
		return fmt.Errorf("read %s: %w", cfg.Source.Path, err)
	}
	cv, err := parser.New(logger).Parse(data)
	if err != nil {
		return err
	}
	page, err := view.New()
	if err != nil {
		return err
	}
	raw, err := page.RenderCV(cv)
	if err != nil {
		return fmt.Errorf("render page: %w", err)
	}

	opts := postProcessOptions()
	opts.GeneratedAt = time.Now()
	html := usecase.PostProcess(string(raw), opts)

	if err := os.MkdirAll(cfg.Snapshot.OutputDir, 0o755); err != nil {
		return err
	}
	out := filepath.Join(cfg.Snapshot.OutputDir, "index.html")
	if err := os.WriteFile(out, []byte(html), 0o644); err != nil {
		return err
	}
	logger.Info("static page rendered", zap.String("path", out), zap.Int("bytes", len(html)))
	fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", out)

	if cfg.Snapshot.PDF {
		pdf, err := newRenderer().RenderHTMLToPDF(cmd.Context(), html)
		if err != nil {
			return fmt.Errorf("print pdf: %w", err)
		}
		pdfPath := filepath.Join(cfg.Snapshot.OutputDir, "cv.pdf")
		if err := os.WriteFile(pdfPath, pdf, 0o644); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", pdfPath)
	}
	return nil
}
