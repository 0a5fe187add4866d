// Package reflector projects tagged surface events onto the display.
//
// Tab labels are updated for every event regardless of which tab is active.
// Address text and navigation control enablement are only updated for
// events of the tab that is active when the event is handled, so a late
// event from a background tab cannot overwrite what the active tab shows.
package reflector

import (
	"errors"
	"net/url"

	"github.com/entrhq/agentbrowser/pkg/display"
	"github.com/entrhq/agentbrowser/pkg/logging"
	"github.com/entrhq/agentbrowser/pkg/session"
	"github.com/entrhq/agentbrowser/pkg/types"
)

// Placeholder is shown in the address bar and as a tab label until real
// values arrive.
const Placeholder = "Loading…"

// Reflector holds no state of its own beyond what it reads from the
// registry.
type Reflector struct {
	registry *session.Registry
	display  *display.Display
	logger   *logging.Logger
}

// New creates a reflector and subscribes it to registry activations.
func New(registry *session.Registry, d *display.Display, logger *logging.Logger) *Reflector {
	r := &Reflector{registry: registry, display: d, logger: logger}
	registry.OnActivate(r.SessionActivated)
	return r
}

// Publish implements navigation.Sink.
func (r *Reflector) Publish(ev types.SessionEvent) {
	r.Handle(ev)
}

// Handle applies one tagged event.
func (r *Reflector) Handle(ev types.SessionEvent) {
	sess, err := r.registry.Get(ev.SessionID)
	if errors.Is(err, session.ErrSessionNotFound) {
		r.logger.Debugf("dropping %s: tab is gone", ev)
		return
	}

	nav := sess.Controller()
	current := ev.URL
	if ev.Kind != types.EventKindNavigated || current == "" {
		current = nav.CurrentURL()
	}

	if err := r.registry.SetLabel(ev.SessionID, Label(nav.CurrentTitle(), current)); err != nil {
		r.logger.Warnf("label update for %s: %v", ev.SessionID, err)
	}

	if !r.registry.IsActive(ev.SessionID) {
		return
	}
	r.display.SetAddress(current)
	r.display.SetNavigation(nav.CanGoBack(), nav.CanGoForward(), true)
}

// SessionActivated resets the display for a newly active tab. The tab's
// last known navigation state is not trusted; real values come back with
// its next event.
func (r *Reflector) SessionActivated(sess *session.Session) {
	r.logger.Debugf("reset display for %s", sess.ID())
	r.display.SetAddress(Placeholder)
	r.display.DisableNavigation()
	r.display.SetMode(types.ModeURL)
}

// Label derives a tab label from the page title, falling back to the host
// of rawURL and then to Placeholder.
func Label(title, rawURL string) string {
	if title != "" {
		return title
	}
	if u, err := url.Parse(rawURL); err == nil && u.Host != "" {
		return u.Host
	}
	return Placeholder
}
