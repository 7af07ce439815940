package export

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
	"go.uber.org/zap"
)

const defaultChromeTimeout = 30 * time.Second

// HTMLConverter prints an HTML document to PDF
type HTMLConverter interface {
	ConvertHTML(ctx context.Context, html string, opts PageOptions) ([]byte, error)
}

// PageOptions are the paper settings of a print, lengths in millimetres
type PageOptions struct {
	WidthMM     float64
	HeightMM    float64
	MarginMM    float64
	Landscape   bool
	FooterHTML  string
	PrintHeader bool
}

// A4 returns portrait A4 with 12mm margins
func A4() PageOptions {
	return PageOptions{WidthMM: 210, HeightMM: 297, MarginMM: 12}
}

// ChromedpConfig configures the headless browser
type ChromedpConfig struct {
	// RemoteURL points at a running Chrome devtools endpoint; empty launches a local browser
	RemoteURL string
	Timeout   time.Duration
	NoSandbox bool
	Logger    *zap.Logger
}

// ChromedpConverter renders HTML to PDF through the Chrome DevTools protocol
type ChromedpConverter struct {
	timeout     time.Duration
	logger      *zap.Logger
	allocCtx    context.Context
	allocCancel context.CancelFunc
}

// NewChromedpConverter prepares the browser allocator. The browser itself is
// started on first use.
func NewChromedpConverter(cfg ChromedpConfig) *ChromedpConverter {
	c := &ChromedpConverter{timeout: cfg.Timeout, logger: cfg.Logger}
	if c.timeout <= 0 {
		c.timeout = defaultChromeTimeout
	}
	if c.logger == nil {
		c.logger = zap.NewNop()
	}

	if cfg.RemoteURL != "" {
		c.allocCtx, c.allocCancel = chromedp.NewRemoteAllocator(context.Background(), cfg.RemoteURL)
		return c
	}

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("disable-extensions", true),
		chromedp.Flag("disable-dev-shm-usage", true), // small /dev/shm in containers
		chromedp.Flag("disable-background-networking", true),
		chromedp.Flag("font-render-hinting", "none"),
	)
	if cfg.NoSandbox {
		opts = append(opts, chromedp.NoSandbox)
	}
	c.allocCtx, c.allocCancel = chromedp.NewExecAllocator(context.Background(), opts...)
	return c
}

// ConvertHTML loads the document into a blank tab and prints it
func (c *ChromedpConverter) ConvertHTML(ctx context.Context, html string, opts PageOptions) ([]byte, error) {
	if strings.TrimSpace(html) == "" {
		return nil, errors.New("html document is empty")
	}
	start := time.Now()

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	tabCtx, tabCancel := chromedp.NewContext(c.allocCtx,
		chromedp.WithLogf(func(format string, args ...any) {
			c.logger.Debug(fmt.Sprintf(format, args...))
		}),
	)
	defer tabCancel()

	// stop the tab when the caller's deadline passes
	stop := context.AfterFunc(ctx, tabCancel)
	defer stop()

	params := printParams(opts)
	var pdf []byte
	err := chromedp.Run(tabCtx,
		chromedp.Navigate("about:blank"),
		chromedp.ActionFunc(func(ctx context.Context) error {
			tree, err := page.GetFrameTree().Do(ctx)
			if err != nil {
				return err
			}
			return page.SetDocumentContent(tree.Frame.ID, html).Do(ctx)
		}),
		chromedp.ActionFunc(func(ctx context.Context) error {
			data, _, err := params.Do(ctx)
			if err != nil {
				return err
			}
			pdf = data
			return nil
		}),
	)
	if err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return nil, fmt.Errorf("pdf rendering timed out after %v: %w", c.timeout, err)
		}
		c.logger.Error("chromedp rendering failed", zap.Error(err))
		return nil, fmt.Errorf("chromedp: %w", err)
	}
	if len(pdf) == 0 {
		return nil, errors.New("generated pdf is empty")
	}

	c.logger.Debug("PDF rendered",
		zap.Int("bytes", len(pdf)),
		zap.Duration("duration", time.Since(start)),
	)
	return pdf, nil
}

// Close shuts down the browser
func (c *ChromedpConverter) Close() error {
	if c.allocCancel != nil {
		c.allocCancel()
	}
	return nil
}

func printParams(opts PageOptions) *page.PrintToPDFParams {
	if opts.WidthMM <= 0 || opts.HeightMM <= 0 {
		a4 := A4()
		opts.WidthMM, opts.HeightMM = a4.WidthMM, a4.HeightMM
	}
	margin := mmToInches(opts.MarginMM)
	p := page.PrintToPDF().
		WithPrintBackground(true).
		WithPaperWidth(mmToInches(opts.WidthMM)).
		WithPaperHeight(mmToInches(opts.HeightMM)).
		WithMarginTop(margin).
		WithMarginRight(margin).
		WithMarginBottom(margin).
		WithMarginLeft(margin).
		WithLandscape(opts.Landscape)

	if opts.FooterHTML != "" {
		// chrome draws the footer inside the bottom margin
		p = p.WithDisplayHeaderFooter(true).
			WithHeaderTemplate("<span></span>").
			WithFooterTemplate(opts.FooterHTML).
			WithMarginBottom(max(margin, mmToInches(15)))
	}
	return p
}

func mmToInches(mm float64) float64 {
	return mm / 25.4
}
