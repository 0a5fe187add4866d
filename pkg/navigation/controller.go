// Package navigation wraps a tab's render surface with navigation intents
// and tags its lifecycle events with the owning session.
package navigation

import (
	"errors"
	"sort"

	"github.com/entrhq/agentbrowser/pkg/logging"
	"github.com/entrhq/agentbrowser/pkg/loop"
	"github.com/entrhq/agentbrowser/pkg/surface"
	"github.com/entrhq/agentbrowser/pkg/types"
)

var (
	// ErrEmptyTarget is returned by Load for empty input. It is a no-op.
	ErrEmptyTarget = errors.New("empty navigation target")

	// ErrControllerClosed is returned by Load after Close.
	ErrControllerClosed = errors.New("navigation controller closed")
)

// Sink receives tagged lifecycle events.
type Sink interface {
	Publish(ev types.SessionEvent)
}

// SinkFunc adapts a function to the Sink interface.
type SinkFunc func(ev types.SessionEvent)

// Publish calls f.
func (f SinkFunc) Publish(ev types.SessionEvent) {
	f(ev)
}

type subscription struct {
	kind types.EventKind
	fn   func(types.SessionEvent)
	once bool
}

// Controller drives one session's surface. Every surface event is hopped
// onto the scheduler, tagged with the session ID and forwarded to the sink
// and then to local subscribers. Nothing is filtered here: events of
// background tabs are forwarded too.
//
// A Controller is not safe for concurrent use; call it from the loop.
type Controller struct {
	id        types.SessionID
	surface   surface.Surface
	scheduler loop.Scheduler
	sink      Sink
	logger    *logging.Logger

	subs    map[int]*subscription
	nextSub int

	unsubscribeSurface func()
	closed             bool
}

// NewController binds a controller to s. The controller owns s and closes
// it on Close.
func NewController(id types.SessionID, s surface.Surface, scheduler loop.Scheduler, sink Sink, logger *logging.Logger) *Controller {
	c := &Controller{
		id:        id,
		surface:   s,
		scheduler: scheduler,
		sink:      sink,
		logger:    logger,
		subs:      make(map[int]*subscription),
	}
	c.unsubscribeSurface = s.Subscribe(c.onSurfaceEvent)
	return c
}

// ID returns the session the controller belongs to.
func (c *Controller) ID() types.SessionID {
	return c.id
}

// onSurfaceEvent may run on any goroutine.
func (c *Controller) onSurfaceEvent(ev surface.Event) {
	tagged := types.SessionEvent{SessionID: c.id, Kind: ev.Kind, URL: ev.URL}
	c.scheduler.Post(func() {
		c.dispatch(tagged)
	})
}

func (c *Controller) dispatch(ev types.SessionEvent) {
	c.logger.Debugf("event %s", ev)
	if c.sink != nil {
		c.sink.Publish(ev)
	}

	ids := make([]int, 0, len(c.subs))
	for id, sub := range c.subs {
		if sub.kind == ev.Kind {
			ids = append(ids, id)
		}
	}
	sort.Ints(ids)

	for _, id := range ids {
		sub, ok := c.subs[id]
		if !ok {
			continue // removed by an earlier subscriber
		}
		if sub.once {
			delete(c.subs, id)
		}
		sub.fn(ev)
	}
}

// Subscribe calls fn for every event of the given kind until the returned
// func is called or the controller is closed.
func (c *Controller) Subscribe(kind types.EventKind, fn func(types.SessionEvent)) (unsubscribe func()) {
	return c.subscribe(kind, fn, false)
}

// Once calls fn for the next event of the given kind only, then detaches.
func (c *Controller) Once(kind types.EventKind, fn func(types.SessionEvent)) (cancel func()) {
	return c.subscribe(kind, fn, true)
}

func (c *Controller) subscribe(kind types.EventKind, fn func(types.SessionEvent), once bool) func() {
	if c.closed || fn == nil {
		return func() {}
	}
	id := c.nextSub
	c.nextSub++
	c.subs[id] = &subscription{kind: kind, fn: fn, once: once}
	return func() {
		delete(c.subs, id)
	}
}

// Load normalizes target and forwards it to the surface.
func (c *Controller) Load(target string) error {
	if c.closed {
		return ErrControllerClosed
	}
	normalized := NormalizeURL(target)
	if normalized == "" {
		return ErrEmptyTarget
	}
	c.logger.Infof("%s load %s", c.id, normalized)
	c.surface.Load(normalized)
	return nil
}

// Back goes back one history entry. It reports false and does nothing when
// the surface has nothing to go back to.
func (c *Controller) Back() bool {
	if c.closed || !c.surface.CanGoBack() {
		return false
	}
	c.surface.GoBack()
	return true
}

// Forward goes forward one history entry. It reports false and does nothing
// when the surface has nothing to go forward to.
func (c *Controller) Forward() bool {
	if c.closed || !c.surface.CanGoForward() {
		return false
	}
	c.surface.GoForward()
	return true
}

// Reload reloads the current document.
func (c *Controller) Reload() {
	if c.closed {
		return
	}
	c.surface.Reload()
}

func (c *Controller) CanGoBack() bool {
	return !c.closed && c.surface.CanGoBack()
}

func (c *Controller) CanGoForward() bool {
	return !c.closed && c.surface.CanGoForward()
}

func (c *Controller) CurrentURL() string {
	return c.surface.CurrentURL()
}

func (c *Controller) CurrentTitle() string {
	return c.surface.CurrentTitle()
}

// Close detaches from the surface, drops subscriptions and releases the
// surface. Events already queued on the scheduler are still forwarded to
// the sink.
func (c *Controller) Close() error {
	if c.closed {
		return nil
	}
	c.closed = true
	c.unsubscribeSurface()
	c.subs = make(map[int]*subscription)
	return c.surface.Close()
}
