// Package shell wires the tab registry, omnibar router and UI reflector
// into one browser window and exposes the intents a front end issues.
//
// All Shell methods run on the loop owner's goroutine: front ends with
// their own event loop call them directly and Drain the loop from there,
// others use Do.
package shell

import (
	"context"
	"fmt"

	"github.com/entrhq/agentbrowser/pkg/display"
	"github.com/entrhq/agentbrowser/pkg/logging"
	"github.com/entrhq/agentbrowser/pkg/loop"
	"github.com/entrhq/agentbrowser/pkg/metrics"
	"github.com/entrhq/agentbrowser/pkg/navigation"
	"github.com/entrhq/agentbrowser/pkg/omnibar"
	"github.com/entrhq/agentbrowser/pkg/reflector"
	"github.com/entrhq/agentbrowser/pkg/session"
	"github.com/entrhq/agentbrowser/pkg/surface"
	"github.com/entrhq/agentbrowser/pkg/types"
)

// DefaultHomeURL is the first tab opened by Start.
const DefaultHomeURL = "https://www.google.com"

// Options configures a Shell. Zero values select the defaults.
type Options struct {
	HomeURL    string
	SearchURL  string
	SearchHome string
	Metrics    *metrics.Metrics
	Logger     *logging.Logger

	// Context bounds agent requests.
	Context context.Context
}

// Snapshot is everything a front end renders.
type Snapshot struct {
	Tabs    []session.Info
	Display display.State
	Pending bool
}

// ActiveTab returns the active tab from the snapshot.
func (s Snapshot) ActiveTab() (session.Info, bool) {
	for _, tab := range s.Tabs {
		if tab.Active {
			return tab, true
		}
	}
	return session.Info{}, false
}

// Shell is one browser window.
type Shell struct {
	loop      *loop.Loop
	display   *display.Display
	registry  *session.Registry
	reflector *reflector.Reflector
	router    *omnibar.Router
	metrics   *metrics.Metrics
	logger    *logging.Logger
	homeURL   string
}

// New builds a shell whose tabs render on surfaces from factory and whose
// agent requests go to agent.
func New(factory surface.Factory, agent omnibar.AgentService, opts Options) *Shell {
	logger := opts.Logger
	if logger == nil {
		logger = logging.Discard()
	}
	s := &Shell{
		loop:    loop.New(),
		display: display.New(),
		metrics: opts.Metrics,
		logger:  logger,
		homeURL: opts.HomeURL,
	}
	if s.homeURL == "" {
		s.homeURL = DefaultHomeURL
	}

	// The registry needs the reflector as its sink and the reflector needs
	// the registry, so the sink resolves it lazily.
	sink := navigation.SinkFunc(func(ev types.SessionEvent) { s.reflector.Handle(ev) })
	s.registry = session.NewRegistry(factory, s.loop, sink, logger.With("session"))
	s.reflector = reflector.New(s.registry, s.display, logger.With("reflector"))
	s.router = omnibar.NewRouter(s.registry, s.display, s.loop, agent, omnibar.Options{
		SearchURL:  opts.SearchURL,
		SearchHome: opts.SearchHome,
		Metrics:    opts.Metrics,
		Logger:     logger.With("omnibar"),
		Context:    opts.Context,
	})

	s.registry.OnCreate(func(*session.Session) {
		s.metrics.RecordSessionCreated(s.registry.Len())
	})
	s.registry.OnClose(func(types.SessionID) {
		s.metrics.RecordSessionClosed(s.registry.Len())
	})
	return s
}

// Loop returns the queue all surface events and agent completions go
// through.
func (s *Shell) Loop() *loop.Loop {
	return s.loop
}

// Do runs fn on the loop and waits for it. The loop must be driven by Run
// on another goroutine.
func (s *Shell) Do(ctx context.Context, fn func(*Shell)) error {
	return s.loop.Call(ctx, func() { fn(s) })
}

// Start opens the home tab.
func (s *Shell) Start() error {
	if _, err := s.registry.Create(s.homeURL, false); err != nil {
		return fmt.Errorf("failed to open home tab: %w", err)
	}
	s.logger.Infof("shell started at %s", s.homeURL)
	return nil
}

// NewTab opens a blank tab and activates it.
func (s *Shell) NewTab() (types.SessionID, error) {
	return s.registry.Create(session.BlankURL, false)
}

// CloseTab closes id. Closing the last tab opens a blank one.
func (s *Shell) CloseTab(id types.SessionID) error {
	return s.registry.Close(id)
}

// CloseActive closes the active tab.
func (s *Shell) CloseActive() error {
	id := s.registry.ActiveID()
	if id == "" {
		return session.ErrSessionNotFound
	}
	return s.registry.Close(id)
}

// ActivateTab switches to id. It reports whether the active tab changed.
func (s *Shell) ActivateTab(id types.SessionID) bool {
	return s.registry.Activate(id)
}

// ActivateIndex switches to the tab at display position i.
func (s *Shell) ActivateIndex(i int) bool {
	ids := s.registry.IDs()
	if i < 0 || i >= len(ids) {
		return false
	}
	return s.registry.Activate(ids[i])
}

// ActivateOffset moves the active tab by delta positions, wrapping around.
func (s *Shell) ActivateOffset(delta int) bool {
	n := s.registry.Len()
	if n == 0 {
		return false
	}
	i := s.registry.IndexOf(s.registry.ActiveID())
	return s.ActivateIndex(((i+delta)%n + n) % n)
}

func (s *Shell) Back() {
	if sess := s.registry.Active(); sess != nil && sess.Controller().Back() {
		s.metrics.RecordNavigation(metrics.NavigateBack)
	}
}

func (s *Shell) Forward() {
	if sess := s.registry.Active(); sess != nil && sess.Controller().Forward() {
		s.metrics.RecordNavigation(metrics.NavigateForward)
	}
}

func (s *Shell) Reload() {
	if sess := s.registry.Active(); sess != nil {
		sess.Controller().Reload()
		s.metrics.RecordNavigation(metrics.NavigateReload)
	}
}

// TextChanged updates the omnibar mode for the edited text.
func (s *Shell) TextChanged(text string) {
	s.router.TextChanged(text)
}

// Submit commits omnibar text in the current mode.
func (s *Shell) Submit(text string) {
	s.router.Submit(text)
}

// PressAgent commits omnibar text in agent mode.
func (s *Shell) PressAgent(text string) {
	s.router.PressAgent(text)
}

// Mode returns the omnibar mode.
func (s *Shell) Mode() types.Mode {
	return s.router.Mode()
}

// ActiveURL returns the current URL of the active tab.
func (s *Shell) ActiveURL() string {
	if sess := s.registry.Active(); sess != nil {
		return sess.Controller().CurrentURL()
	}
	return ""
}

// Snapshot returns the tabs and display state.
func (s *Shell) Snapshot() Snapshot {
	return Snapshot{
		Tabs:    s.registry.Tabs(),
		Display: s.display.Snapshot(),
		Pending: s.router.Pending(),
	}
}

// Shutdown closes every tab and stops accepting loop work.
func (s *Shell) Shutdown() error {
	err := s.registry.CloseAll()
	s.loop.Close()
	if err != nil {
		return fmt.Errorf("failed to close tabs: %w", err)
	}
	return nil
}
