package tui

import (
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/entrhq/agentbrowser/pkg/omnibar"
)

// Key bindings
const (
	keyQuit       = "ctrl+c"
	keySubmit     = "enter"
	keyAgent      = "ctrl+g"
	keyNewTab     = "ctrl+t"
	keyCloseTab   = "ctrl+w"
	keyNextTab    = "ctrl+n"
	keyPrevTab    = "ctrl+p"
	keyBack       = "alt+left"
	keyForward    = "alt+right"
	keyReload     = "ctrl+r"
	keyCopy       = "ctrl+y"
	keySource     = "ctrl+o"
	keyCloseModal = "esc"
)

const toastDuration = 3 * time.Second

func (m *model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.spinner.Tick)
}

// Update handles all state updates for the TUI model.
//
// It runs on Bubble Tea's update goroutine, which is also the goroutine
// that owns the shell loop: every intent is issued here and queued loop
// work is drained here.
func (m *model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.omnibar.Width = max(msg.Width-24, 10)
		m.source.Width = max(msg.Width-4, 10)
		m.source.Height = max(msg.Height-8, 3)
		m.ready = true

	case loopReadyMsg:
		m.drain()

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		cmds = append(cmds, cmd)

	case toastMsg:
		m.showToast(msg.message, msg.isError)

	case tea.KeyMsg:
		if m.sourceActive {
			return m, m.updateSource(msg)
		}
		cmd, handled := m.handleKey(msg)
		if handled {
			m.drain()
			return m, cmd
		}
		before := m.omnibar.Value()
		var inputCmd tea.Cmd
		m.omnibar, inputCmd = m.omnibar.Update(msg)
		cmds = append(cmds, inputCmd)
		if value := m.omnibar.Value(); value != before {
			m.shell.TextChanged(value)
			m.syncPlaceholder()
		}

	default:
		var cmd tea.Cmd
		m.omnibar, cmd = m.omnibar.Update(msg)
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}

// handleKey runs the shortcut bound to msg, if any.
func (m *model) handleKey(msg tea.KeyMsg) (tea.Cmd, bool) {
	switch msg.String() {
	case keyQuit:
		return tea.Quit, true
	case keySubmit:
		if m.shell.Snapshot().Display.SubmitEnabled {
			m.shell.Submit(m.omnibar.Value())
		}
	case keyAgent:
		if m.shell.Snapshot().Display.SubmitEnabled {
			m.shell.PressAgent(m.omnibar.Value())
		}
	case keyNewTab:
		if _, err := m.shell.NewTab(); err != nil {
			return toastCmd("Could not open tab: "+err.Error(), true), true
		}
	case keyCloseTab:
		if err := m.shell.CloseActive(); err != nil {
			return toastCmd("Could not close tab: "+err.Error(), true), true
		}
	case keyNextTab:
		m.shell.ActivateOffset(1)
	case keyPrevTab:
		m.shell.ActivateOffset(-1)
	case keyBack:
		m.shell.Back()
	case keyForward:
		m.shell.Forward()
	case keyReload:
		m.shell.Reload()
	case keyCopy:
		return m.copyAddress(), true
	case keySource:
		return m.openSource(), true
	default:
		if i, ok := tabShortcut(msg); ok {
			m.shell.ActivateIndex(i)
			return nil, true
		}
		return nil, false
	}
	return nil, true
}

// tabShortcut maps alt+1 .. alt+9 to a tab index.
func tabShortcut(msg tea.KeyMsg) (int, bool) {
	if !msg.Alt || msg.Type != tea.KeyRunes || len(msg.Runes) != 1 {
		return 0, false
	}
	r := msg.Runes[0]
	if r < '1' || r > '9' {
		return 0, false
	}
	return int(r - '1'), true
}

// drain applies queued surface events and agent completions, then copies
// the reflected address into the omnibar when it changed.
func (m *model) drain() {
	m.shell.Loop().Drain()

	address := m.shell.Snapshot().Display.Address
	if address != m.lastAddress {
		m.lastAddress = address
		m.omnibar.SetValue(address)
		m.omnibar.CursorEnd()
	}
	m.syncPlaceholder()
}

func (m *model) syncPlaceholder() {
	m.omnibar.Placeholder = m.shell.Mode().Placeholder()
}

func (m *model) copyAddress() tea.Cmd {
	address := m.shell.ActiveURL()
	if address == "" {
		return toastCmd("Nothing to copy", true)
	}
	copyFn := m.copy
	return func() tea.Msg {
		if err := copyFn(address); err != nil {
			return toastMsg{message: "Clipboard unavailable: " + err.Error(), isError: true}
		}
		return toastMsg{message: "Copied address to clipboard"}
	}
}

// openSource shows the generated document of the active tab.
func (m *model) openSource() tea.Cmd {
	doc, ok := omnibar.DocumentFromDataURL(m.shell.ActiveURL())
	if !ok {
		return toastCmd("Active tab is not a generated app", true)
	}
	m.source.SetContent(highlightHTML(doc))
	m.source.GotoTop()
	m.sourceActive = true
	return nil
}

func (m *model) updateSource(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case keyCloseModal, keySource:
		m.sourceActive = false
		return nil
	case keyQuit:
		return tea.Quit
	}
	var cmd tea.Cmd
	m.source, cmd = m.source.Update(msg)
	return cmd
}

func (m *model) showToast(message string, isError bool) {
	m.toast.active = true
	m.toast.message = message
	m.toast.isError = isError
	m.toast.showUntil = time.Now().Add(toastDuration)
}

func toastCmd(message string, isError bool) tea.Cmd {
	return func() tea.Msg {
		return toastMsg{message: message, isError: isError}
	}
}
