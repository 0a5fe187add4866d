package session

import (
	"time"

	"github.com/entrhq/agentbrowser/pkg/navigation"
	"github.com/entrhq/agentbrowser/pkg/types"
)

const (
	// BlankURL is what new and replacement tabs open.
	BlankURL = "about:blank"

	// LabelNewTab is the initial label of a regular tab.
	LabelNewTab = "New Tab"

	// LabelGenerated is the initial label of a tab created for a generated app.
	LabelGenerated = "Generated App"
)

// Session is one tab. Its label only changes through Registry.SetLabel.
type Session struct {
	id          types.SessionID
	controller  *navigation.Controller
	label       string
	isGenerated bool
	createdAt   time.Time
}

func (s *Session) ID() types.SessionID {
	return s.id
}

// Controller returns the navigation controller owning the tab's surface.
func (s *Session) Controller() *navigation.Controller {
	return s.controller
}

func (s *Session) Label() string {
	return s.label
}

// IsGenerated reports whether the tab was opened for a generated app.
func (s *Session) IsGenerated() bool {
	return s.isGenerated
}

func (s *Session) CreatedAt() time.Time {
	return s.createdAt
}

func initialLabel(isGenerated bool) string {
	if isGenerated {
		return LabelGenerated
	}
	return LabelNewTab
}

// Info is a display snapshot of a tab.
type Info struct {
	ID          types.SessionID
	Label       string
	Active      bool
	IsGenerated bool
}
