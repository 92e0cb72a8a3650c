package infrastructure

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
)

// ChromedpOptions tunes the headless browser used for snapshots.
type ChromedpOptions struct {
	ExecPath string
	Width    int64
	Height   int64
	// Selector must be visible before the page counts as rendered.
	Selector string
	Settle   time.Duration
	Timeout  time.Duration
}

type ChromedpRenderer struct {
	opts ChromedpOptions
}

func NewChromedpRenderer(opts ChromedpOptions) *ChromedpRenderer {
	if opts.Width == 0 {
		opts.Width = 1200
	}
	if opts.Height == 0 {
		opts.Height = 800
	}
	if opts.Selector == "" {
		opts.Selector = "body"
	}
	if opts.Timeout == 0 {
		opts.Timeout = 60 * time.Second
	}
	if opts.ExecPath == "" {
		opts.ExecPath = os.Getenv("CHROME_PATH")
	}
	return &ChromedpRenderer{opts: opts}
}

// browser starts a fresh headless Chrome bound to ctx.
func (r *ChromedpRenderer) browser(ctx context.Context) (context.Context, context.CancelFunc) {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-setuid-sandbox", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.WindowSize(int(r.opts.Width), int(r.opts.Height)),
	)
	if r.opts.ExecPath != "" {
		opts = append(opts, chromedp.ExecPath(r.opts.ExecPath))
	}

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, opts...)
	cctx, cancelCtx := chromedp.NewContext(allocCtx)
	tctx, cancelTimeout := context.WithTimeout(cctx, r.opts.Timeout)
	return tctx, func() {
		cancelTimeout()
		cancelCtx()
		cancelAlloc()
	}
}

// load navigates to url and waits until the CV root is visible and the
// page has had Settle to finish late rendering.
func (r *ChromedpRenderer) load(url string) chromedp.Tasks {
	return chromedp.Tasks{
		chromedp.EmulateViewport(r.opts.Width, r.opts.Height),
		chromedp.Navigate(url),
		chromedp.WaitVisible(r.opts.Selector, chromedp.ByQuery),
		chromedp.Sleep(r.opts.Settle),
	}
}

// CaptureHTML returns the rendered document's outer HTML.
func (r *ChromedpRenderer) CaptureHTML(ctx context.Context, url string) (string, error) {
	bctx, cancel := r.browser(ctx)
	defer cancel()

	var html string
	err := chromedp.Run(bctx,
		r.load(url),
		chromedp.OuterHTML("html", &html, chromedp.ByQuery),
	)
	if err != nil {
		return "", err
	}
	return html, nil
}

// PrintPDF renders url to an A4 PDF.
func (r *ChromedpRenderer) PrintPDF(ctx context.Context, url string) ([]byte, error) {
	bctx, cancel := r.browser(ctx)
	defer cancel()

	var pdfBuf []byte
	err := chromedp.Run(bctx,
		r.load(url),
		printA4(&pdfBuf),
	)
	if err != nil {
		return nil, err
	}
	return pdfBuf, nil
}

// RenderHTMLToPDF prints a standalone HTML document, e.g. the output of
// the offline render command.
func (r *ChromedpRenderer) RenderHTMLToPDF(ctx context.Context, html string) ([]byte, error) {
	tmpDir, err := os.MkdirTemp("", "cv-")
	if err != nil {
		return nil, err
	}
	defer os.RemoveAll(tmpDir)

	htmlPath := filepath.Join(tmpDir, "index.html")
	if err := os.WriteFile(htmlPath, []byte(html), 0o644); err != nil {
		return nil, err
	}
	return r.PrintPDF(ctx, "file://"+htmlPath)
}

func printA4(out *[]byte) chromedp.Action {
	return chromedp.ActionFunc(func(ctx context.Context) error {
		var err error
		// A4: 210mm x 297mm -> inches: 8.27 x 11.69
		*out, _, err = page.PrintToPDF().WithPrintBackground(true).
			WithPaperWidth(8.27).
			WithPaperHeight(11.69).
			WithPreferCSSPageSize(true).
			Do(ctx)
		return err
	})
}
