package browser

import (
	"context"
	"sync"

	"github.com/playwright-community/playwright-go"

	"github.com/entrhq/agentbrowser/pkg/logging"
	"github.com/entrhq/agentbrowser/pkg/loop"
	"github.com/entrhq/agentbrowser/pkg/surface"
	"github.com/entrhq/agentbrowser/pkg/types"
)

// Page is a surface.Surface backed by one Playwright page.
//
// Playwright event handlers must not call back into the page, so every
// handler only queues work on the page's own loop. That loop refreshes the
// cached title and fans the event out to listeners in arrival order.
type Page struct {
	page       playwright.Page
	history    *History
	logger     *logging.Logger
	initialURL string

	events *loop.Loop
	cancel context.CancelFunc

	mu        sync.Mutex
	listeners map[int]surface.Listener
	nextID    int
	started   bool
	closed    bool
	title     string
	onClose   func(*Page)
}

func newPage(page playwright.Page, initialURL string, logger *logging.Logger, onClose func(*Page)) *Page {
	ctx, cancel := context.WithCancel(context.Background())
	p := &Page{
		page:       page,
		history:    NewHistory(),
		logger:     logger,
		initialURL: initialURL,
		events:     loop.New(),
		cancel:     cancel,
		listeners:  make(map[int]surface.Listener),
		onClose:    onClose,
	}

	go func() {
		_ = p.events.Run(ctx)
	}()

	page.OnDOMContentLoaded(func(playwright.Page) {
		p.events.Post(func() {
			p.refreshTitle()
			p.emit(surface.Event{Kind: types.EventKindReadyForInteraction})
		})
	})
	page.OnLoad(func(playwright.Page) {
		p.events.Post(func() {
			p.refreshTitle()
			p.emit(surface.Event{Kind: types.EventKindFinishedLoading})
		})
	})
	page.OnFrameNavigated(func(frame playwright.Frame) {
		if frame.ParentFrame() != nil {
			return
		}
		url := frame.URL()
		p.events.Post(func() {
			p.history.Navigated(url)
			p.emit(surface.Event{Kind: types.EventKindNavigated, URL: url})
		})
	})

	return p
}

// Load navigates to url on a goroutine.
func (p *Page) Load(url string) {
	if p.isClosed() {
		return
	}
	p.history.Expect(traverseNone)
	go func() {
		if _, err := p.page.Goto(url); err != nil {
			p.logger.Debugf("load %s: %v", url, err)
		}
	}()
}

// Reload reloads the current document on a goroutine.
func (p *Page) Reload() {
	if p.isClosed() {
		return
	}
	p.history.Expect(traverseReload)
	go func() {
		if _, err := p.page.Reload(); err != nil {
			p.logger.Debugf("reload: %v", err)
		}
	}()
}

// GoBack traverses back on a goroutine.
func (p *Page) GoBack() {
	if p.isClosed() || !p.history.CanGoBack() {
		return
	}
	p.history.Expect(traverseBack)
	go func() {
		if _, err := p.page.GoBack(); err != nil {
			p.logger.Debugf("go back: %v", err)
		}
	}()
}

// GoForward traverses forward on a goroutine.
func (p *Page) GoForward() {
	if p.isClosed() || !p.history.CanGoForward() {
		return
	}
	p.history.Expect(traverseForward)
	go func() {
		if _, err := p.page.GoForward(); err != nil {
			p.logger.Debugf("go forward: %v", err)
		}
	}()
}

func (p *Page) CanGoBack() bool    { return p.history.CanGoBack() }
func (p *Page) CanGoForward() bool { return p.history.CanGoForward() }

// CurrentURL returns the URL of the last committed main-frame navigation.
func (p *Page) CurrentURL() string {
	if url := p.history.Current(); url != "" {
		return url
	}
	return p.page.URL()
}

// CurrentTitle returns the title cached at the last lifecycle event.
func (p *Page) CurrentTitle() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.title
}

// Subscribe registers l. The first subscription starts the initial
// navigation, so no lifecycle event of the initial document is missed.
func (p *Page) Subscribe(l surface.Listener) func() {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return func() {}
	}
	id := p.nextID
	p.nextID++
	p.listeners[id] = l
	start := !p.started
	p.started = true
	p.mu.Unlock()

	if start {
		p.Load(p.initialURL)
	}

	return func() {
		p.mu.Lock()
		delete(p.listeners, id)
		p.mu.Unlock()
	}
}

// Close closes the page. Further calls are no-ops.
func (p *Page) Close() error {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil
	}
	p.closed = true
	p.listeners = make(map[int]surface.Listener)
	p.mu.Unlock()

	p.events.Close()
	p.cancel()
	if p.onClose != nil {
		p.onClose(p)
	}

	if err := p.page.Close(); err != nil {
		return err
	}
	return nil
}

func (p *Page) isClosed() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.closed
}

func (p *Page) refreshTitle() {
	title, err := p.page.Title()
	if err != nil {
		p.logger.Debugf("read title: %v", err)
		return
	}
	p.mu.Lock()
	p.title = title
	p.mu.Unlock()
}

func (p *Page) emit(ev surface.Event) {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return
	}
	listeners := make([]surface.Listener, 0, len(p.listeners))
	for id := 0; id < p.nextID; id++ {
		if l, ok := p.listeners[id]; ok {
			listeners = append(listeners, l)
		}
	}
	p.mu.Unlock()

	for _, l := range listeners {
		l(ev)
	}
}
