package types

import "fmt"

// SessionID identifies one tab for its whole lifetime. IDs are never reused.
type SessionID string

// EventKind defines the kind of lifecycle event emitted by a render surface.
type EventKind string

const (
	EventKindReadyForInteraction EventKind = "ready_for_interaction" // EventKindReadyForInteraction indicates the surface accepts navigation calls.
	EventKindFinishedLoading     EventKind = "finished_loading"      // EventKindFinishedLoading indicates the current document finished loading.
	EventKindNavigated           EventKind = "navigated"             // EventKindNavigated indicates the main frame committed a navigation.
)

// SessionEvent is a render surface lifecycle event tagged with the session
// that produced it.
type SessionEvent struct {
	// SessionID is the tab whose surface emitted the event.
	SessionID SessionID

	// Kind indicates which lifecycle event this is.
	Kind EventKind

	// URL is the navigated-to URL. Only populated for EventKindNavigated.
	URL string
}

// NewReadyEvent creates a readyForInteraction event for the given session.
func NewReadyEvent(id SessionID) SessionEvent {
	return SessionEvent{SessionID: id, Kind: EventKindReadyForInteraction}
}

// NewFinishedLoadingEvent creates a finishedLoading event for the given session.
func NewFinishedLoadingEvent(id SessionID) SessionEvent {
	return SessionEvent{SessionID: id, Kind: EventKindFinishedLoading}
}

// NewNavigatedEvent creates a navigated event carrying the committed URL.
func NewNavigatedEvent(id SessionID, url string) SessionEvent {
	return SessionEvent{SessionID: id, Kind: EventKindNavigated, URL: url}
}

// String implements fmt.Stringer for log lines.
func (e SessionEvent) String() string {
	if e.Kind == EventKindNavigated {
		return fmt.Sprintf("%s %s(%s)", e.SessionID, e.Kind, e.URL)
	}
	return fmt.Sprintf("%s %s", e.SessionID, e.Kind)
}
