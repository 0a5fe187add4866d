package browser

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/entrhq/agentbrowser/pkg/logging"
	"github.com/entrhq/agentbrowser/pkg/surface"
	"github.com/entrhq/agentbrowser/pkg/types"
)

func TestNewRuntime_Defaults(t *testing.T) {
	r := NewRuntime(Options{}, nil)

	assert.Equal(t, DefaultViewportWidth, r.opts.ViewportWidth)
	assert.Equal(t, DefaultViewportHeight, r.opts.ViewportHeight)
	assert.Equal(t, float64(DefaultNavigationTimeout), r.opts.NavigationTimeout)
	assert.Equal(t, 0, r.Pages())
}

func TestRuntime_NewSurfaceBeforeInitialize(t *testing.T) {
	r := NewRuntime(Options{Headless: true}, logging.Discard())

	s, err := r.NewSurface("about:blank")
	assert.ErrorIs(t, err, ErrNotInitialized)
	assert.Nil(t, s)
	assert.NoError(t, r.Shutdown())
}

type recorder struct {
	mu     sync.Mutex
	events []surface.Event
}

func (r *recorder) listen(ev surface.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, ev)
}

func (r *recorder) has(kind types.EventKind, url string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, ev := range r.events {
		if ev.Kind == kind && (url == "" || ev.URL == url) {
			return true
		}
	}
	return false
}

func TestRuntime_PageLifecycle(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	r := NewRuntime(Options{Headless: true}, logging.Discard())
	require.NoError(t, r.Initialize())
	defer r.Shutdown()

	s, err := r.NewSurface("about:blank")
	require.NoError(t, err)
	assert.Equal(t, 1, r.Pages())

	rec := &recorder{}
	s.Subscribe(rec.listen)

	require.Eventually(t, func() bool {
		return rec.has(types.EventKindNavigated, "about:blank")
	}, 10*time.Second, 20*time.Millisecond)

	doc := "data:text/html;charset=utf-8,%3Ctitle%3EHello%3C%2Ftitle%3E"
	s.Load(doc)

	require.Eventually(t, func() bool {
		return rec.has(types.EventKindFinishedLoading, "") && s.CurrentTitle() == "Hello"
	}, 10*time.Second, 20*time.Millisecond)
	assert.True(t, s.CanGoBack())
	assert.False(t, s.CanGoForward())

	s.GoBack()
	require.Eventually(t, func() bool {
		return s.CurrentURL() == "about:blank"
	}, 10*time.Second, 20*time.Millisecond)
	assert.True(t, s.CanGoForward())

	require.NoError(t, s.Close())
	assert.NoError(t, s.Close())
	assert.Equal(t, 0, r.Pages())
}
