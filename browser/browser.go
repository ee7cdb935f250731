package browser

import (
	"context"
	"fmt"
	"time"

	"github.com/chromedp/chromedp"
	"pkt.systems/pslog"
)

// DefaultPageLoadTimeout bounds navigation and script calls on a tab.
const DefaultPageLoadTimeout = 30 * time.Second

// Options configures the Chrome instance shared by all tabs.
type Options struct {
	Headless        bool
	NoSandbox       bool
	ExecPath        string
	UserAgent       string
	JavaScript      bool
	Cache           bool
	InjectStyles    bool
	PageLoadTimeout time.Duration
	Logger          pslog.Logger
}

// Browser owns one Chrome process. Tabs opened from it share cookies, so a
// session established in one tab carries over to the others.
type Browser struct {
	opts        Options
	log         pslog.Logger
	ctx         context.Context
	cancel      context.CancelFunc
	allocCancel context.CancelFunc
}

// New launches Chrome. The process lives until Close or until ctx is done.
func New(ctx context.Context, opts Options) (*Browser, error) {
	if opts.PageLoadTimeout <= 0 {
		opts.PageLoadTimeout = DefaultPageLoadTimeout
	}
	log := opts.Logger
	if log == nil {
		log = pslog.Ctx(ctx)
	}

	allocOpts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", opts.Headless),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", opts.NoSandbox),
	)
	if opts.UserAgent != "" {
		allocOpts = append(allocOpts, chromedp.UserAgent(opts.UserAgent))
	}
	if opts.ExecPath != "" {
		allocOpts = append(allocOpts, chromedp.ExecPath(opts.ExecPath))
	}

	allocCtx, allocCancel := chromedp.NewExecAllocator(ctx, allocOpts...)
	bctx, cancel := chromedp.NewContext(allocCtx,
		chromedp.WithErrorf(func(format string, args ...any) {
			log.Debug("chromedp", "detail", fmt.Sprintf(format, args...))
		}),
	)
	if err := chromedp.Run(bctx); err != nil {
		cancel()
		allocCancel()
		return nil, fmt.Errorf("starting chrome: %w", err)
	}
	log.Info("browser started", "headless", opts.Headless, "user_agent", opts.UserAgent)

	return &Browser{
		opts:        opts,
		log:         log,
		ctx:         bctx,
		cancel:      cancel,
		allocCancel: allocCancel,
	}, nil
}

// Open creates a new tab wired to p.
func (b *Browser) Open(p TabParams) (*Tab, error) {
	tctx, cancel := chromedp.NewContext(b.ctx)
	t := newTab(tctx, cancel, b.opts, p, b.log)
	chromedp.ListenTarget(tctx, t.listen)

	if err := chromedp.Run(tctx, t.setup()...); err != nil {
		cancel()
		return nil, fmt.Errorf("opening tab: %w", err)
	}
	if c := chromedp.FromContext(tctx); c != nil && c.Target != nil {
		t.setMainFrame(string(c.Target.TargetID))
	}
	go t.dispatch()
	return t, nil
}

// Opener exposes Open through the Opener interface.
func (b *Browser) Opener() Opener {
	return OpenerFunc(func(p TabParams) (Page, error) {
		t, err := b.Open(p)
		if err != nil {
			return nil, err
		}
		return t, nil
	})
}

// Close shuts down every tab and the Chrome process.
func (b *Browser) Close() {
	b.cancel()
	b.allocCancel()
	b.log.Info("browser stopped")
}
