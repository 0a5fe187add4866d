// Package browser provides the Playwright backed render surfaces tabs are
// built on.
//
// A Runtime owns one Playwright driver, one Chromium instance and one
// browser context. Every tab is a page in that context.
package browser

import (
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/playwright-community/playwright-go"

	"github.com/entrhq/agentbrowser/pkg/logging"
	"github.com/entrhq/agentbrowser/pkg/surface"
)

const (
	// DefaultViewportWidth is used when Options.ViewportWidth is zero.
	DefaultViewportWidth = 1280

	// DefaultViewportHeight is used when Options.ViewportHeight is zero.
	DefaultViewportHeight = 800

	// DefaultNavigationTimeout is the per-navigation timeout in milliseconds.
	DefaultNavigationTimeout = 30000
)

// ErrNotInitialized is returned by NewSurface before Initialize succeeded.
var ErrNotInitialized = errors.New("browser runtime not initialized")

// Options configures the runtime.
type Options struct {
	// Headless runs Chromium without a visible window.
	Headless bool

	ViewportWidth  int
	ViewportHeight int

	// NavigationTimeout in milliseconds (0 means DefaultNavigationTimeout)
	NavigationTimeout float64

	// SkipInstall skips downloading the driver and browsers.
	SkipInstall bool
}

// Runtime creates page surfaces. It implements surface.Factory.
type Runtime struct {
	opts   Options
	logger *logging.Logger

	mu          sync.Mutex
	playwright  *playwright.Playwright
	browser     playwright.Browser
	context     playwright.BrowserContext
	pages       map[*Page]struct{}
	initialized bool
}

var _ surface.Factory = (*Runtime)(nil)

// NewRuntime creates a runtime. Call Initialize before creating surfaces.
func NewRuntime(opts Options, logger *logging.Logger) *Runtime {
	if opts.ViewportWidth <= 0 {
		opts.ViewportWidth = DefaultViewportWidth
	}
	if opts.ViewportHeight <= 0 {
		opts.ViewportHeight = DefaultViewportHeight
	}
	if opts.NavigationTimeout <= 0 {
		opts.NavigationTimeout = DefaultNavigationTimeout
	}
	if logger == nil {
		logger = logging.Discard()
	}
	return &Runtime{
		opts:   opts,
		logger: logger,
		pages:  make(map[*Page]struct{}),
	}
}

// Initialize starts Playwright, launches Chromium and opens the browser
// context. It is safe to call more than once.
func (r *Runtime) Initialize() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.initialized {
		return nil
	}

	// Driver output would corrupt the terminal UI.
	runOpts := &playwright.RunOptions{
		Browsers: []string{"chromium"},
		Verbose:  false,
		Stdout:   io.Discard,
		Stderr:   io.Discard,
	}

	if !r.opts.SkipInstall {
		if err := playwright.Install(runOpts); err != nil {
			return fmt.Errorf("failed to install playwright: %w", err)
		}
	}

	pw, err := playwright.Run(runOpts)
	if err != nil {
		return fmt.Errorf("failed to start playwright: %w", err)
	}

	headless := r.opts.Headless
	browser, err := pw.Chromium.Launch(playwright.BrowserTypeLaunchOptions{
		Headless: &headless,
	})
	if err != nil {
		_ = pw.Stop()
		return fmt.Errorf("failed to launch browser: %w", err)
	}

	context, err := browser.NewContext(playwright.BrowserNewContextOptions{
		Viewport: &playwright.Size{
			Width:  r.opts.ViewportWidth,
			Height: r.opts.ViewportHeight,
		},
	})
	if err != nil {
		_ = browser.Close()
		_ = pw.Stop()
		return fmt.Errorf("failed to create browser context: %w", err)
	}

	r.playwright = pw
	r.browser = browser
	r.context = context
	r.initialized = true
	r.logger.Infof("chromium started (headless=%t, viewport=%dx%d)", headless, r.opts.ViewportWidth, r.opts.ViewportHeight)
	return nil
}

// NewSurface opens a page bound to initialURL. The page navigates there once
// its first listener subscribes.
func (r *Runtime) NewSurface(initialURL string) (surface.Surface, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.initialized {
		return nil, ErrNotInitialized
	}

	pwPage, err := r.context.NewPage()
	if err != nil {
		return nil, fmt.Errorf("failed to create page: %w", err)
	}
	pwPage.SetDefaultNavigationTimeout(r.opts.NavigationTimeout)

	page := newPage(pwPage, initialURL, r.logger, r.forget)
	r.pages[page] = struct{}{}
	return page, nil
}

// Pages returns the number of open pages.
func (r *Runtime) Pages() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.pages)
}

func (r *Runtime) forget(p *Page) {
	r.mu.Lock()
	delete(r.pages, p)
	r.mu.Unlock()
}

// Shutdown closes every page, the browser and the Playwright driver.
func (r *Runtime) Shutdown() error {
	r.mu.Lock()
	if !r.initialized {
		r.mu.Unlock()
		return nil
	}
	pages := make([]*Page, 0, len(r.pages))
	for p := range r.pages {
		pages = append(pages, p)
	}
	r.mu.Unlock()

	var errs []error
	for _, p := range pages {
		if err := p.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close page: %w", err))
		}
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.context.Close(); err != nil {
		errs = append(errs, fmt.Errorf("close context: %w", err))
	}
	if err := r.browser.Close(); err != nil {
		errs = append(errs, fmt.Errorf("close browser: %w", err))
	}
	if err := r.playwright.Stop(); err != nil {
		errs = append(errs, fmt.Errorf("stop playwright: %w", err))
	}

	r.playwright = nil
	r.browser = nil
	r.context = nil
	r.initialized = false
	return errors.Join(errs...)
}
