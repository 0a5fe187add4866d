// Package display holds the user-visible shell state: the omnibar text and
// mode, navigation control enablement, submit control enablement and the
// status line. Front ends render a Snapshot; the core writes through the
// setters from the loop.
package display

import "github.com/entrhq/agentbrowser/pkg/types"

// State is a copy of everything a front end renders outside the tab bar.
type State struct {
	Address        string
	Mode           types.Mode
	BackEnabled    bool
	ForwardEnabled bool
	ReloadEnabled  bool
	SubmitEnabled  bool
	Status         string
}

// Display is the mutable UI state. It is not safe for concurrent use.
type Display struct {
	state State
}

// New creates a display in url mode with submit controls enabled and
// navigation controls disabled.
func New() *Display {
	return &Display{state: State{
		Mode:          types.ModeURL,
		SubmitEnabled: true,
	}}
}

// Snapshot returns a copy of the current state.
func (d *Display) Snapshot() State {
	return d.state
}

func (d *Display) SetAddress(address string) {
	d.state.Address = address
}

func (d *Display) SetMode(mode types.Mode) {
	d.state.Mode = mode
}

// SetNavigation sets the enablement of the back, forward and reload controls.
func (d *Display) SetNavigation(back, forward, reload bool) {
	d.state.BackEnabled = back
	d.state.ForwardEnabled = forward
	d.state.ReloadEnabled = reload
}

// DisableNavigation disables back, forward and reload.
func (d *Display) DisableNavigation() {
	d.SetNavigation(false, false, false)
}

func (d *Display) SetSubmitEnabled(enabled bool) {
	d.state.SubmitEnabled = enabled
}

func (d *Display) SetStatus(status string) {
	d.state.Status = status
}
