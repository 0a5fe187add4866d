package display

import (
	"testing"

	"github.com/entrhq/agentbrowser/pkg/types"
	"github.com/stretchr/testify/assert"
)

func TestDisplay_Defaults(t *testing.T) {
	s := New().Snapshot()
	assert.Equal(t, types.ModeURL, s.Mode)
	assert.True(t, s.SubmitEnabled)
	assert.False(t, s.BackEnabled)
	assert.False(t, s.ForwardEnabled)
	assert.False(t, s.ReloadEnabled)
	assert.Empty(t, s.Address)
	assert.Empty(t, s.Status)
}

func TestDisplay_SnapshotIsACopy(t *testing.T) {
	d := New()
	d.SetAddress("https://a.example/")
	snap := d.Snapshot()

	d.SetAddress("https://b.example/")
	d.SetNavigation(true, true, true)
	d.SetStatus("done")
	d.SetSubmitEnabled(false)
	d.SetMode(types.ModeAgent)

	assert.Equal(t, "https://a.example/", snap.Address)
	now := d.Snapshot()
	assert.Equal(t, State{
		Address:        "https://b.example/",
		Mode:           types.ModeAgent,
		BackEnabled:    true,
		ForwardEnabled: true,
		ReloadEnabled:  true,
		SubmitEnabled:  false,
		Status:         "done",
	}, now)

	d.DisableNavigation()
	now = d.Snapshot()
	assert.False(t, now.BackEnabled || now.ForwardEnabled || now.ReloadEnabled)
}
