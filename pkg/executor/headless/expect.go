package headless

import (
	"fmt"
	"strings"

	"github.com/gobwas/glob"

	"github.com/entrhq/agentbrowser/pkg/shell"
	"github.com/entrhq/agentbrowser/pkg/types"
)

// Observation is the part of the shell state expectations look at.
type Observation struct {
	Address string     `json:"address"`
	Status  string     `json:"status"`
	Label   string     `json:"label"`
	Mode    types.Mode `json:"mode"`
	Tabs    int        `json:"tabs"`
}

// Observe extracts an Observation from a shell snapshot. Label is the
// active tab's label.
func Observe(snap shell.Snapshot) Observation {
	obs := Observation{
		Address: snap.Display.Address,
		Status:  snap.Display.Status,
		Mode:    snap.Display.Mode,
		Tabs:    len(snap.Tabs),
	}
	if tab, ok := snap.ActiveTab(); ok {
		obs.Label = tab.Label
	}
	return obs
}

// ExpectationFailure reports an expectation that never matched.
type ExpectationFailure struct {
	Mismatches []string
	Last       Observation
}

func (e *ExpectationFailure) Error() string {
	return fmt.Sprintf("expectation not met: %s", strings.Join(e.Mismatches, "; "))
}

// matcher is a compiled Expectation.
type matcher struct {
	address glob.Glob
	status  glob.Glob
	label   glob.Glob
	raw     Expectation
}

func compileExpectation(exp Expectation) (*matcher, error) {
	m := &matcher{raw: exp}
	var err error
	if m.address, err = compilePattern("address", exp.Address); err != nil {
		return nil, err
	}
	if m.status, err = compilePattern("status", exp.Status); err != nil {
		return nil, err
	}
	if m.label, err = compilePattern("label", exp.Label); err != nil {
		return nil, err
	}
	switch types.Mode(exp.Mode) {
	case "", types.ModeURL, types.ModeSearch, types.ModeAgent:
	default:
		return nil, fmt.Errorf("invalid mode %q (must be 'url', 'search' or 'agent')", exp.Mode)
	}
	if exp.Tabs != nil && *exp.Tabs < 1 {
		return nil, fmt.Errorf("tabs must be at least 1")
	}
	return m, nil
}

func compilePattern(field, pattern string) (glob.Glob, error) {
	if pattern == "" {
		return nil, nil
	}
	g, err := glob.Compile(pattern)
	if err != nil {
		return nil, fmt.Errorf("invalid %s pattern '%s': %w", field, pattern, err)
	}
	return g, nil
}

// mismatches lists every set field that obs does not satisfy.
func (m *matcher) mismatches(obs Observation) []string {
	var out []string
	if m.address != nil && !m.address.Match(obs.Address) {
		out = append(out, fmt.Sprintf("address %q does not match %q", obs.Address, m.raw.Address))
	}
	if m.status != nil && !m.status.Match(obs.Status) {
		out = append(out, fmt.Sprintf("status %q does not match %q", obs.Status, m.raw.Status))
	}
	if m.label != nil && !m.label.Match(obs.Label) {
		out = append(out, fmt.Sprintf("label %q does not match %q", obs.Label, m.raw.Label))
	}
	if m.raw.Mode != "" && string(obs.Mode) != m.raw.Mode {
		out = append(out, fmt.Sprintf("mode is %s, want %s", obs.Mode, m.raw.Mode))
	}
	if m.raw.Tabs != nil && obs.Tabs != *m.raw.Tabs {
		out = append(out, fmt.Sprintf("%d tabs open, want %d", obs.Tabs, *m.raw.Tabs))
	}
	return out
}
