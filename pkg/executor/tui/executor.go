// Package tui provides the terminal front end of the browser shell.
//
// The TUI codebase is split into multiple files:
// - executor.go: program lifecycle and loop bridging
// - model.go: model structure and state
// - update.go: key bindings and message handling
// - view.go: rendering
// - source.go: generated source highlighting
// - styles.go: color scheme and styling
package tui

import (
	"context"
	"fmt"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/entrhq/agentbrowser/pkg/logging"
	"github.com/entrhq/agentbrowser/pkg/shell"
)

// Executor drives a shell from the terminal.
type Executor struct {
	shell   *shell.Shell
	logger  *logging.Logger
	program *tea.Program
}

// NewExecutor creates a TUI executor for sh. The shell must not be driven
// by any other goroutine while the executor runs.
func NewExecutor(sh *shell.Shell, logger *logging.Logger) *Executor {
	if logger == nil {
		logger = logging.Discard()
	}
	return &Executor{shell: sh, logger: logger}
}

// Run opens the home tab and blocks until the user exits.
func (e *Executor) Run(ctx context.Context) error {
	m := newModel(e.shell, e.logger, clipboard.WriteAll)

	if err := e.shell.Start(); err != nil {
		return err
	}

	e.program = tea.NewProgram(
		m,
		tea.WithAltScreen(),
		tea.WithContext(ctx),
	)

	// Bubble Tea owns the update goroutine, so loop work is announced to
	// it as messages and drained inside Update.
	bridgeCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	go func() {
		ready := e.shell.Loop().Ready()
		for {
			select {
			case <-bridgeCtx.Done():
				return
			case <-ready:
				e.program.Send(loopReadyMsg{})
			}
		}
	}()

	e.logger.Infof("tui started")
	if _, err := e.program.Run(); err != nil {
		return fmt.Errorf("failed to run TUI program: %w", err)
	}
	return nil
}
