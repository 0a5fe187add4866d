package tui

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/entrhq/agentbrowser/pkg/logging"
	"github.com/entrhq/agentbrowser/pkg/omnibar"
	"github.com/entrhq/agentbrowser/pkg/shell"
	"github.com/entrhq/agentbrowser/pkg/surface/surfacetest"
	"github.com/entrhq/agentbrowser/pkg/types"
)

type agentFunc func(ctx context.Context, text string) types.AgentResult

func (f agentFunc) SubmitAgentPrompt(ctx context.Context, text string) types.AgentResult {
	return f(ctx, text)
}

func newTestModel(t *testing.T, agent omnibar.AgentService) (*model, *surfacetest.Factory) {
	t.Helper()
	factory := surfacetest.NewFactory()
	if agent == nil {
		agent = agentFunc(func(context.Context, string) types.AgentResult {
			return types.AgentResult{Error: "not configured"}
		})
	}
	sh := shell.New(factory, agent, shell.Options{})
	require.NoError(t, sh.Start())

	m := newModel(sh, logging.Discard(), func(string) error { return nil })
	m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	m.Update(loopReadyMsg{})
	return m, factory
}

func typeText(m *model, text string) {
	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(text)})
}

func press(m *model, t tea.KeyType) tea.Cmd {
	_, cmd := m.Update(tea.KeyMsg{Type: t})
	return cmd
}

func TestUpdate_TypingTracksMode(t *testing.T) {
	m, _ := newTestModel(t, nil)
	m.omnibar.SetValue("")

	typeText(m, "/search cats")
	assert.Equal(t, types.ModeSearch, m.shell.Mode())
	assert.Equal(t, types.ModeSearch.Placeholder(), m.omnibar.Placeholder)

	m.omnibar.SetValue("")
	typeText(m, "/agent")
	assert.Equal(t, types.ModeAgent, m.shell.Mode())
}

func TestUpdate_EnterSubmits(t *testing.T) {
	m, factory := newTestModel(t, nil)
	m.omnibar.SetValue("")

	typeText(m, "openai.com")
	press(m, tea.KeyEnter)

	assert.Equal(t, "https://openai.com", factory.Get(0).LastLoad())
}

func TestUpdate_AgentShortcutForcesAgent(t *testing.T) {
	release := make(chan struct{})
	var got string
	m, factory := newTestModel(t, agentFunc(func(_ context.Context, text string) types.AgentResult {
		got = text
		<-release
		return types.AgentResult{Success: true, Document: "<p>clock</p>"}
	}))
	m.omnibar.SetValue("make a clock")

	press(m, tea.KeyCtrlG)
	assert.Equal(t, types.ModeAgent, m.shell.Mode())
	assert.True(t, m.shell.Snapshot().Pending)
	assert.False(t, m.shell.Snapshot().Display.SubmitEnabled)

	close(release)
	require.Eventually(t, func() bool {
		m.Update(loopReadyMsg{})
		return !m.shell.Snapshot().Pending
	}, time.Second, 5*time.Millisecond)

	assert.Equal(t, "make a clock", got)
	assert.Equal(t, 2, factory.Count())
	assert.True(t, m.shell.Snapshot().Display.SubmitEnabled)
}

func TestUpdate_EnterIgnoredWhileAgentPending(t *testing.T) {
	release := make(chan struct{})
	m, factory := newTestModel(t, agentFunc(func(context.Context, string) types.AgentResult {
		<-release
		return types.AgentResult{Error: "boom"}
	}))
	defer close(release)

	m.omnibar.SetValue("")
	typeText(m, "/agent build it")
	press(m, tea.KeyEnter)
	require.True(t, m.shell.Snapshot().Pending)

	m.omnibar.SetValue("openai.com")
	press(m, tea.KeyEnter)
	assert.Empty(t, factory.Get(0).Loads)
}

func TestUpdate_TabShortcuts(t *testing.T) {
	m, factory := newTestModel(t, nil)

	press(m, tea.KeyCtrlT)
	press(m, tea.KeyCtrlT)
	require.Len(t, m.shell.Snapshot().Tabs, 3)
	active, _ := m.shell.Snapshot().ActiveTab()
	assert.Equal(t, types.SessionID("tab-3"), active.ID)

	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'1'}, Alt: true})
	active, _ = m.shell.Snapshot().ActiveTab()
	assert.Equal(t, types.SessionID("tab-1"), active.ID)

	press(m, tea.KeyCtrlN)
	active, _ = m.shell.Snapshot().ActiveTab()
	assert.Equal(t, types.SessionID("tab-2"), active.ID)

	press(m, tea.KeyCtrlP)
	press(m, tea.KeyCtrlP)
	active, _ = m.shell.Snapshot().ActiveTab()
	assert.Equal(t, types.SessionID("tab-3"), active.ID)

	press(m, tea.KeyCtrlW)
	assert.Len(t, m.shell.Snapshot().Tabs, 2)
	assert.True(t, factory.Get(2).Closed)
}

func TestUpdate_HistoryShortcuts(t *testing.T) {
	m, factory := newTestModel(t, nil)
	home := factory.Get(0)
	home.SetHistory(true, true)

	m.Update(tea.KeyMsg{Type: tea.KeyLeft, Alt: true})
	m.Update(tea.KeyMsg{Type: tea.KeyRight, Alt: true})
	press(m, tea.KeyCtrlR)

	assert.Equal(t, 1, home.Backs)
	assert.Equal(t, 1, home.Forwards)
	assert.Equal(t, 1, home.Reloads)
}

func TestUpdate_AddressFollowsReflector(t *testing.T) {
	m, factory := newTestModel(t, nil)
	home := factory.Get(0)

	home.SetPage("https://www.google.com/", "Google")
	home.EmitNavigated("https://www.google.com/")
	m.Update(loopReadyMsg{})

	assert.Equal(t, "https://www.google.com/", m.omnibar.Value())
	assert.Contains(t, m.View(), "Google")
}

func TestUpdate_CopyAddress(t *testing.T) {
	m, factory := newTestModel(t, nil)
	factory.Get(0).SetPage("https://example.com/", "Example")

	var copied string
	m.copy = func(s string) error {
		copied = s
		return nil
	}
	cmd := press(m, tea.KeyCtrlY)
	require.NotNil(t, cmd)
	msg := cmd()
	assert.Equal(t, "https://example.com/", copied)
	assert.Equal(t, toastMsg{message: "Copied address to clipboard"}, msg)

	m.copy = func(string) error { return errors.New("no display") }
	msg = press(m, tea.KeyCtrlY)()
	assert.True(t, msg.(toastMsg).isError)
}

func TestUpdate_SourceViewer(t *testing.T) {
	m, factory := newTestModel(t, nil)

	cmd := press(m, tea.KeyCtrlO)
	require.NotNil(t, cmd)
	assert.True(t, cmd().(toastMsg).isError)
	assert.False(t, m.sourceActive)

	doc := "<html><head><title>Clock</title></head><body>tick</body></html>"
	factory.Get(0).SetPage(omnibar.DataURL(doc), "Clock")
	press(m, tea.KeyCtrlO)
	require.True(t, m.sourceActive)
	assert.Contains(t, m.View(), "Generated source")
	assert.Contains(t, m.View(), "tick")

	press(m, tea.KeyEsc)
	assert.False(t, m.sourceActive)
}

func TestHighlightHTML_PreservesText(t *testing.T) {
	doc := "<div class=\"a\">\n  <p>hello</p>\n</div>"
	out := highlightHTML(doc)

	assert.Equal(t, strings.Count(doc, "\n"), strings.Count(out, "\n"))
	assert.Contains(t, out, "hello")
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "abcd…", truncate("abcdefgh", 5))
}
