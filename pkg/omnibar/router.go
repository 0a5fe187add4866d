// Package omnibar classifies committed omnibar text into url, search or
// agent intents and dispatches them.
package omnibar

import (
	"context"
	"errors"
	"net/url"
	"strings"
	"unicode"

	"github.com/entrhq/agentbrowser/pkg/display"
	"github.com/entrhq/agentbrowser/pkg/logging"
	"github.com/entrhq/agentbrowser/pkg/loop"
	"github.com/entrhq/agentbrowser/pkg/metrics"
	"github.com/entrhq/agentbrowser/pkg/navigation"
	"github.com/entrhq/agentbrowser/pkg/session"
	"github.com/entrhq/agentbrowser/pkg/types"
)

// Mode markers typed at the start of the omnibar.
const (
	MarkerSearch = "/search"
	MarkerAgent  = "/agent"
)

const (
	DefaultSearchURL  = "https://www.google.com/search?q="
	DefaultSearchHome = "https://www.google.com"
)

// AgentService is the host boundary for generated apps. It reports
// failures in the result, never by panicking.
type AgentService interface {
	SubmitAgentPrompt(ctx context.Context, text string) types.AgentResult
}

// Options configures a Router. Zero values select the defaults.
type Options struct {
	SearchURL  string
	SearchHome string
	Metrics    *metrics.Metrics
	Logger     *logging.Logger

	// Context bounds agent requests. Defaults to context.Background.
	Context context.Context
}

// Router owns the omnibar mode, which it keeps in the display so front
// ends render what the router acts on.
//
// A Router is not safe for concurrent use; call it from the loop.
type Router struct {
	registry  *session.Registry
	display   *display.Display
	scheduler loop.Scheduler
	agent     AgentService

	searchURL  string
	searchHome string
	metrics    *metrics.Metrics
	logger     *logging.Logger
	ctx        context.Context

	pending bool
}

// NewRouter creates a router and resets its mode on every activation.
func NewRouter(registry *session.Registry, d *display.Display, scheduler loop.Scheduler, agent AgentService, opts Options) *Router {
	r := &Router{
		registry:   registry,
		display:    d,
		scheduler:  scheduler,
		agent:      agent,
		searchURL:  opts.SearchURL,
		searchHome: opts.SearchHome,
		metrics:    opts.Metrics,
		logger:     opts.Logger,
		ctx:        opts.Context,
	}
	if r.searchURL == "" {
		r.searchURL = DefaultSearchURL
	}
	if r.searchHome == "" {
		r.searchHome = DefaultSearchHome
	}
	if r.logger == nil {
		r.logger = logging.Discard()
	}
	if r.ctx == nil {
		r.ctx = context.Background()
	}
	registry.OnActivate(func(*session.Session) { r.ResetMode() })
	return r
}

// Mode returns the current omnibar mode.
func (r *Router) Mode() types.Mode {
	return r.display.Snapshot().Mode
}

// ResetMode returns the omnibar to url mode.
func (r *Router) ResetMode() {
	r.display.SetMode(types.ModeURL)
}

// TextChanged re-derives the mode from the marker at the start of text.
// It runs on every keystroke.
func (r *Router) TextChanged(text string) {
	r.display.SetMode(DetectMode(text))
}

// PressAgent forces agent mode and submits text.
func (r *Router) PressAgent(text string) {
	r.display.SetMode(types.ModeAgent)
	r.Submit(text)
}

// Submit commits text in the current mode. Blank text is ignored.
func (r *Router) Submit(text string) {
	if strings.TrimSpace(text) == "" {
		return
	}

	switch r.Mode() {
	case types.ModeSearch:
		query := stripMarker(text, MarkerSearch)
		if query == "" {
			r.navigate(r.searchHome, metrics.NavigateSearch)
			return
		}
		r.navigate(r.SearchURL(query), metrics.NavigateSearch)

	case types.ModeAgent:
		command := stripMarker(text, MarkerAgent)
		if command == "" {
			r.display.SetStatus(StatusMissingCommand)
			return
		}
		r.dispatch(command)

	default:
		target := strings.TrimSpace(text)
		if IsSearchQuery(target) {
			r.navigate(r.SearchURL(target), metrics.NavigateSearch)
			r.display.SetMode(types.ModeSearch)
			return
		}
		r.navigate(target, metrics.NavigateURL)
	}
}

// SearchURL returns the search engine URL for query.
func (r *Router) SearchURL(query string) string {
	return r.searchURL + escape(query)
}

// navigate loads target in the active tab, or opens a tab for it when
// there is none.
func (r *Router) navigate(target, kind string) {
	r.metrics.RecordNavigation(kind)

	active := r.registry.Active()
	if active == nil {
		r.logger.Infof("no active tab, opening one for %s", target)
		if _, err := r.registry.Create(navigation.NormalizeURL(target), false); err != nil {
			r.logger.Errorf("open tab for %s: %v", target, err)
			r.display.SetStatus("Could not open tab: " + err.Error())
		}
		return
	}

	if err := active.Controller().Load(target); err != nil && !errors.Is(err, navigation.ErrEmptyTarget) {
		r.logger.Warnf("load %s in %s: %v", target, active.ID(), err)
	}
}

// DetectMode maps omnibar text to the mode its marker selects.
func DetectMode(text string) types.Mode {
	trimmed := strings.TrimSpace(text)
	switch {
	case strings.HasPrefix(trimmed, MarkerSearch):
		return types.ModeSearch
	case strings.HasPrefix(trimmed, MarkerAgent):
		return types.ModeAgent
	default:
		return types.ModeURL
	}
}

// IsSearchQuery guesses whether url-mode input is a search query rather
// than an address: it contains whitespace, or it has neither a dot nor an
// explicit scheme. Inputs like localhost:3000 are treated as queries.
func IsSearchQuery(text string) bool {
	if strings.IndexFunc(text, unicode.IsSpace) >= 0 {
		return true
	}
	return !strings.Contains(text, ".") && !navigation.HasExplicitScheme(text)
}

func stripMarker(text, marker string) string {
	return strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(text), marker))
}

// escape percent-encodes s for a query value or a data URL body, with
// spaces as %20.
func escape(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}
