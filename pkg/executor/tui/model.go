package tui

import (
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"

	"github.com/entrhq/agentbrowser/pkg/logging"
	"github.com/entrhq/agentbrowser/pkg/shell"
)

// model represents the state of the TUI application.
type model struct {
	// Bubble Tea components
	omnibar textinput.Model
	spinner spinner.Model
	source  viewport.Model

	shell  *shell.Shell
	logger *logging.Logger

	// lastAddress is the display address last copied into the omnibar, so
	// reflector updates overwrite the input but user edits survive.
	lastAddress string

	// UI state
	sourceActive bool
	toast        *toastNotification
	copy         func(string) error

	// Window dimensions
	width  int
	height int
	ready  bool
}

// loopReadyMsg signals that the shell loop has queued work to drain.
type loopReadyMsg struct{}

// toastMsg triggers a toast notification
type toastMsg struct {
	message string
	isError bool
}

// toastNotification represents a temporary notification message
type toastNotification struct {
	active    bool
	message   string
	isError   bool
	showUntil time.Time
}

func newModel(sh *shell.Shell, logger *logging.Logger, copyFn func(string) error) *model {
	input := textinput.New()
	input.Prompt = ""
	input.Placeholder = sh.Mode().Placeholder()
	input.Focus()

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = modeStyle

	return &model{
		omnibar: input,
		spinner: sp,
		source:  viewport.New(80, 20),
		shell:   sh,
		logger:  logger,
		toast:   &toastNotification{},
		copy:    copyFn,
	}
}
