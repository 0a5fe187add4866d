// Package surface defines the render surface capability a tab is built on.
//
// A Surface is an opaque navigable document host: it fetches and renders
// whatever it is told to load and reports progress through lifecycle
// events. Navigation calls are fire-and-forget; completion is observed
// only through events.
//
// Implementations may deliver events from any goroutine. Consumers that
// need single-threaded handling must hop them onto their own loop.
package surface

import "github.com/entrhq/agentbrowser/pkg/types"

// Event is a lifecycle notification from a surface. URL is only set for
// types.EventKindNavigated.
type Event struct {
	Kind types.EventKind
	URL  string
}

// Listener receives surface events.
type Listener func(Event)

// Surface is the capability exposed by one embedded page.
type Surface interface {
	// Load starts navigating to url. It does not wait for the load.
	Load(url string)

	// Reload reloads the current document.
	Reload()

	// GoBack traverses one entry back in history.
	GoBack()

	// GoForward traverses one entry forward in history.
	GoForward()

	CanGoBack() bool
	CanGoForward() bool
	CurrentURL() string
	CurrentTitle() string

	// Subscribe registers a listener for all lifecycle events and returns
	// a func that removes it.
	Subscribe(l Listener) (unsubscribe func())

	// Close releases the surface. Further calls are no-ops.
	Close() error
}

// Factory creates a surface bound to an initial URL.
type Factory interface {
	NewSurface(initialURL string) (Surface, error)
}

// FactoryFunc adapts a function to the Factory interface.
type FactoryFunc func(initialURL string) (Surface, error)

// NewSurface calls f.
func (f FactoryFunc) NewSurface(initialURL string) (Surface, error) {
	return f(initialURL)
}
