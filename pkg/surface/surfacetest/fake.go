// Package surfacetest provides a scriptable in-memory render surface for tests.
package surfacetest

import (
	"fmt"
	"sort"
	"sync"

	"github.com/entrhq/agentbrowser/pkg/surface"
	"github.com/entrhq/agentbrowser/pkg/types"
)

// Surface records navigation calls and emits events on demand. Events are
// delivered synchronously on the goroutine that calls an Emit method.
type Surface struct {
	mu        sync.Mutex
	listeners map[int]surface.Listener
	nextID    int

	InitialURL string
	URL        string
	Title      string
	Back       bool
	Forward    bool
	Closed     bool

	Loads    []string
	Reloads  int
	Backs    int
	Forwards int
}

// New creates a fake surface bound to initialURL.
func New(initialURL string) *Surface {
	return &Surface{
		listeners:  make(map[int]surface.Listener),
		InitialURL: initialURL,
		URL:        initialURL,
	}
}

func (s *Surface) Load(url string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Loads = append(s.Loads, url)
}

func (s *Surface) Reload() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Reloads++
}

func (s *Surface) GoBack() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Backs++
}

func (s *Surface) GoForward() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Forwards++
}

func (s *Surface) CanGoBack() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.Back
}

func (s *Surface) CanGoForward() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.Forward
}

func (s *Surface) CurrentURL() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.URL
}

func (s *Surface) CurrentTitle() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.Title
}

func (s *Surface) Subscribe(l surface.Listener) func() {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.nextID
	s.nextID++
	s.listeners[id] = l
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.listeners, id)
	}
}

func (s *Surface) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Closed = true
	s.listeners = make(map[int]surface.Listener)
	return nil
}

// LastLoad returns the most recent URL passed to Load, or "".
func (s *Surface) LastLoad() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.Loads) == 0 {
		return ""
	}
	return s.Loads[len(s.Loads)-1]
}

// SetPage sets what CurrentURL and CurrentTitle report.
func (s *Surface) SetPage(url, title string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.URL = url
	s.Title = title
}

// SetHistory sets what CanGoBack and CanGoForward report.
func (s *Surface) SetHistory(back, forward bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Back = back
	s.Forward = forward
}

// EmitReady emits readyForInteraction.
func (s *Surface) EmitReady() {
	s.emit(surface.Event{Kind: types.EventKindReadyForInteraction})
}

// EmitFinishedLoading emits finishedLoading.
func (s *Surface) EmitFinishedLoading() {
	s.emit(surface.Event{Kind: types.EventKindFinishedLoading})
}

// EmitNavigated updates the current URL and emits navigated(url).
func (s *Surface) EmitNavigated(url string) {
	s.mu.Lock()
	s.URL = url
	s.mu.Unlock()
	s.emit(surface.Event{Kind: types.EventKindNavigated, URL: url})
}

func (s *Surface) emit(ev surface.Event) {
	s.mu.Lock()
	ids := make([]int, 0, len(s.listeners))
	for id := range s.listeners {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	listeners := make([]surface.Listener, 0, len(ids))
	for _, id := range ids {
		listeners = append(listeners, s.listeners[id])
	}
	s.mu.Unlock()

	for _, l := range listeners {
		l(ev)
	}
}

// Factory creates fake surfaces and remembers them in creation order.
type Factory struct {
	mu       sync.Mutex
	Surfaces []*Surface
	Err      error
}

// NewFactory creates an empty fake factory.
func NewFactory() *Factory {
	return &Factory{}
}

func (f *Factory) NewSurface(initialURL string) (surface.Surface, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Err != nil {
		return nil, f.Err
	}
	s := New(initialURL)
	f.Surfaces = append(f.Surfaces, s)
	return s, nil
}

// Get returns the i-th created surface. It panics when out of range so
// test failures point at the bad index.
func (f *Factory) Get(i int) *Surface {
	f.mu.Lock()
	defer f.mu.Unlock()
	if i < 0 || i >= len(f.Surfaces) {
		panic(fmt.Sprintf("surfacetest: no surface %d (have %d)", i, len(f.Surfaces)))
	}
	return f.Surfaces[i]
}

// Last returns the most recently created surface.
func (f *Factory) Last() *Surface {
	f.mu.Lock()
	n := len(f.Surfaces)
	f.mu.Unlock()
	return f.Get(n - 1)
}

// Count returns the number of surfaces created so far.
func (f *Factory) Count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.Surfaces)
}
