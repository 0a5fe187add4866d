package session

import (
	"errors"
	"fmt"
	"time"

	"github.com/entrhq/agentbrowser/pkg/logging"
	"github.com/entrhq/agentbrowser/pkg/loop"
	"github.com/entrhq/agentbrowser/pkg/navigation"
	"github.com/entrhq/agentbrowser/pkg/surface"
	"github.com/entrhq/agentbrowser/pkg/types"
)

// ErrSessionNotFound is returned for operations on unknown or closed IDs.
var ErrSessionNotFound = errors.New("session not found")

// Registry tracks open tabs in display order.
//
// A Registry is not safe for concurrent use; call it from the loop.
type Registry struct {
	factory   surface.Factory
	scheduler loop.Scheduler
	sink      navigation.Sink
	logger    *logging.Logger

	sessions map[types.SessionID]*Session
	order    []types.SessionID
	activeID types.SessionID
	nextID   int

	createObservers   []func(*Session)
	activateObservers []func(*Session)
	closeObservers    []func(types.SessionID)
}

// NewRegistry creates an empty registry. Surfaces for new sessions come
// from factory; their tagged events go to sink via scheduler.
func NewRegistry(factory surface.Factory, scheduler loop.Scheduler, sink navigation.Sink, logger *logging.Logger) *Registry {
	return &Registry{
		factory:   factory,
		scheduler: scheduler,
		sink:      sink,
		logger:    logger,
		sessions:  make(map[types.SessionID]*Session),
		nextID:    1,
	}
}

// OnCreate registers fn to run after a session has been added and
// activated.
func (r *Registry) OnCreate(fn func(*Session)) {
	r.createObservers = append(r.createObservers, fn)
}

// OnActivate registers fn to run every time a session becomes active.
func (r *Registry) OnActivate(fn func(*Session)) {
	r.activateObservers = append(r.activateObservers, fn)
}

// OnClose registers fn to run after a session has been removed.
func (r *Registry) OnClose(fn func(types.SessionID)) {
	r.closeObservers = append(r.closeObservers, fn)
}

// Create opens a tab on initialURL, appends it and makes it active.
// When the surface cannot be created the registry is left unchanged.
func (r *Registry) Create(initialURL string, isGenerated bool) (types.SessionID, error) {
	id := types.SessionID(fmt.Sprintf("tab-%d", r.nextID))

	s, err := r.factory.NewSurface(initialURL)
	if err != nil {
		return "", fmt.Errorf("failed to create surface for %s: %w", id, err)
	}
	// consume the ID only once the tab exists
	r.nextID++

	sess := &Session{
		id:          id,
		controller:  navigation.NewController(id, s, r.scheduler, r.sink, r.logger),
		label:       initialLabel(isGenerated),
		isGenerated: isGenerated,
		createdAt:   time.Now(),
	}
	r.sessions[id] = sess
	r.order = append(r.order, id)
	r.logger.Infof("created %s for %s (generated=%t)", id, initialURL, isGenerated)

	r.Activate(id)
	for _, fn := range r.createObservers {
		fn(sess)
	}
	return id, nil
}

// Close removes a tab and releases its surface. If it was active, the
// first remaining tab becomes active, or a blank tab is opened when none
// remain.
func (r *Registry) Close(id types.SessionID) error {
	sess, ok := r.sessions[id]
	if !ok {
		return fmt.Errorf("close %s: %w", id, ErrSessionNotFound)
	}

	delete(r.sessions, id)
	for i, other := range r.order {
		if other == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	if err := sess.controller.Close(); err != nil {
		r.logger.Warnf("releasing surface of %s: %v", id, err)
	}
	r.logger.Infof("closed %s", id)

	for _, fn := range r.closeObservers {
		fn(id)
	}

	if r.activeID != id {
		return nil
	}
	r.activeID = ""

	if len(r.order) > 0 {
		r.Activate(r.order[0])
		return nil
	}

	r.logger.Infof("no tabs left, opening a blank tab")
	if _, err := r.Create(BlankURL, false); err != nil {
		return fmt.Errorf("failed to replace last tab: %w", err)
	}
	return nil
}

// Activate makes id the active session. It returns false when id is
// unknown or already active.
func (r *Registry) Activate(id types.SessionID) bool {
	sess, ok := r.sessions[id]
	if !ok || r.activeID == id {
		return false
	}

	previous := r.activeID
	r.activeID = id
	r.logger.Debugf("activated %s (previous %q)", id, previous)

	for _, fn := range r.activateObservers {
		fn(sess)
	}
	return true
}

// SetLabel updates a tab's display label.
func (r *Registry) SetLabel(id types.SessionID, label string) error {
	sess, ok := r.sessions[id]
	if !ok {
		return fmt.Errorf("set label of %s: %w", id, ErrSessionNotFound)
	}
	sess.label = label
	return nil
}

// Get returns the session with the given ID.
func (r *Registry) Get(id types.SessionID) (*Session, error) {
	sess, ok := r.sessions[id]
	if !ok {
		return nil, fmt.Errorf("get %s: %w", id, ErrSessionNotFound)
	}
	return sess, nil
}

// Active returns the active session, or nil when the registry is empty.
func (r *Registry) Active() *Session {
	if r.activeID == "" {
		return nil
	}
	return r.sessions[r.activeID]
}

// ActiveID returns the active session ID, or "" when the registry is empty.
func (r *Registry) ActiveID() types.SessionID {
	return r.activeID
}

// IsActive reports whether id is the active session.
func (r *Registry) IsActive(id types.SessionID) bool {
	return id != "" && id == r.activeID
}

// Len returns the number of open tabs.
func (r *Registry) Len() int {
	return len(r.order)
}

// IDs returns tab IDs in display order.
func (r *Registry) IDs() []types.SessionID {
	ids := make([]types.SessionID, len(r.order))
	copy(ids, r.order)
	return ids
}

// IndexOf returns the display position of id, or -1.
func (r *Registry) IndexOf(id types.SessionID) int {
	for i, other := range r.order {
		if other == id {
			return i
		}
	}
	return -1
}

// Tabs returns display snapshots in tab order.
func (r *Registry) Tabs() []Info {
	infos := make([]Info, 0, len(r.order))
	for _, id := range r.order {
		sess := r.sessions[id]
		infos = append(infos, Info{
			ID:          id,
			Label:       sess.label,
			Active:      id == r.activeID,
			IsGenerated: sess.isGenerated,
		})
	}
	return infos
}

// CloseAll releases every surface without opening a replacement. Used on
// shutdown only.
func (r *Registry) CloseAll() error {
	var errs []error
	for _, id := range r.order {
		if err := r.sessions[id].controller.Close(); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", id, err))
		}
	}
	r.sessions = make(map[types.SessionID]*Session)
	r.order = nil
	r.activeID = ""

	if len(errs) > 0 {
		return fmt.Errorf("errors closing sessions: %w", errors.Join(errs...))
	}
	return nil
}
