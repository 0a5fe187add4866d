package headless

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/entrhq/agentbrowser/pkg/logging"
	"github.com/entrhq/agentbrowser/pkg/shell"
)

const (
	statusSuccess = "success"
	statusFailed  = "failed"

	pollInterval = 50 * time.Millisecond
)

// ErrSubmitDisabled is returned by input and agent steps issued while an
// agent request is still in flight.
var ErrSubmitDisabled = errors.New("submit controls are disabled while the agent is working")

// Executor runs a script against a shell.
type Executor struct {
	shell          *shell.Shell
	script         *Script
	logger         *logging.Logger
	out            io.Writer
	artifactWriter *ArtifactWriter
	matchers       map[int]*matcher

	summary  *ExecutionSummary
	loopDone chan struct{}
}

// NewExecutor validates script and prepares a run. The shell must not be
// started yet; Run starts it and drives its loop.
func NewExecutor(sh *shell.Shell, script *Script, logger *logging.Logger) (*Executor, error) {
	if err := script.Validate(); err != nil {
		return nil, fmt.Errorf("invalid script: %w", err)
	}
	if logger == nil {
		logger = logging.Discard()
	}

	matchers := make(map[int]*matcher)
	for i, step := range script.Steps {
		if step.Expect == nil {
			continue
		}
		m, err := compileExpectation(*step.Expect)
		if err != nil {
			return nil, fmt.Errorf("step %d: %w", i+1, err)
		}
		matchers[i] = m
	}

	e := &Executor{
		shell:    sh,
		script:   script,
		logger:   logger,
		out:      os.Stdout,
		matchers: matchers,
		summary: &ExecutionSummary{
			Script: script.Name,
			Status: "running",
		},
	}
	if script.Artifacts.Enabled {
		e.artifactWriter = NewArtifactWriter(script.Artifacts.OutputDir)
	}
	return e, nil
}

// SetOutput redirects progress lines, os.Stdout by default.
func (e *Executor) SetOutput(w io.Writer) {
	e.out = w
}

// Summary returns the run summary. It is complete once Run returned.
func (e *Executor) Summary() *ExecutionSummary {
	return e.summary
}

// Run starts the shell, executes every step in order and stops at the
// first failure.
func (e *Executor) Run(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, e.script.Timeout)

	e.summary.StartTime = time.Now()
	e.loopDone = make(chan struct{})
	go func() {
		defer close(e.loopDone)
		_ = e.shell.Loop().Run(ctx)
	}()
	// The caller may touch the shell again once Run returns.
	defer func() {
		cancel()
		<-e.loopDone
	}()

	var runErr error
	if err := e.shell.Do(ctx, func(sh *shell.Shell) { runErr = sh.Start() }); err != nil {
		return e.finish(ctx, fmt.Errorf("failed to start shell: %w", err))
	}
	if runErr != nil {
		return e.finish(ctx, runErr)
	}

	for i, step := range e.script.Steps {
		result := StepResult{Index: i + 1, Action: step.Action(), Detail: stepDetail(step)}
		fmt.Fprintf(e.out, "[%d/%d] %s %s\n", i+1, len(e.script.Steps), result.Action, result.Detail)

		start := time.Now()
		err := e.runStep(ctx, i, step)
		result.Duration = time.Since(start)
		if err != nil {
			result.Error = err.Error()
		}
		e.summary.Steps = append(e.summary.Steps, result)

		if err != nil {
			e.logger.Errorf("step %d (%s) failed: %v", i+1, result.Action, err)
			return e.finish(ctx, fmt.Errorf("step %d (%s): %w", i+1, result.Action, err))
		}
	}

	return e.finish(ctx, nil)
}

func (e *Executor) runStep(ctx context.Context, i int, step Step) error {
	switch step.Action() {
	case ActionInput:
		return e.submit(ctx, func(sh *shell.Shell) {
			sh.TextChanged(*step.Input)
			sh.Submit(*step.Input)
		})
	case ActionAgent:
		return e.submit(ctx, func(sh *shell.Shell) { sh.PressAgent(*step.Agent) })
	case ActionNewTab:
		return e.do(ctx, func(sh *shell.Shell) error {
			_, err := sh.NewTab()
			return err
		})
	case ActionCloseTab:
		return e.do(ctx, func(sh *shell.Shell) error { return sh.CloseActive() })
	case ActionActivate:
		return e.do(ctx, func(sh *shell.Shell) error {
			n := len(sh.Snapshot().Tabs)
			if *step.Activate >= n {
				return fmt.Errorf("no tab at position %d (%d open)", *step.Activate, n)
			}
			sh.ActivateIndex(*step.Activate)
			return nil
		})
	case ActionBack:
		return e.do(ctx, func(sh *shell.Shell) error { sh.Back(); return nil })
	case ActionForward:
		return e.do(ctx, func(sh *shell.Shell) error { sh.Forward(); return nil })
	case ActionReload:
		return e.do(ctx, func(sh *shell.Shell) error { sh.Reload(); return nil })
	case ActionWait:
		select {
		case <-time.After(step.Wait):
			return nil
		case <-ctx.Done():
			return ctx.Err()
		}
	case ActionExpect:
		return e.expect(ctx, e.matchers[i], step.Expect.Timeout)
	default:
		return fmt.Errorf("unknown action")
	}
}

func (e *Executor) do(ctx context.Context, fn func(*shell.Shell) error) error {
	var stepErr error
	if err := e.shell.Do(ctx, func(sh *shell.Shell) { stepErr = fn(sh) }); err != nil {
		return err
	}
	return stepErr
}

// submit runs fn only while submit controls are enabled.
func (e *Executor) submit(ctx context.Context, fn func(*shell.Shell)) error {
	return e.do(ctx, func(sh *shell.Shell) error {
		if !sh.Snapshot().Display.SubmitEnabled {
			return ErrSubmitDisabled
		}
		fn(sh)
		return nil
	})
}

// expect polls the shell until m matches or timeout elapses.
func (e *Executor) expect(ctx context.Context, m *matcher, timeout time.Duration) error {
	if timeout == 0 {
		timeout = e.script.ExpectTimeout
	}
	deadline := time.NewTimer(timeout)
	defer deadline.Stop()
	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()

	for {
		var obs Observation
		if err := e.shell.Do(ctx, func(sh *shell.Shell) { obs = Observe(sh.Snapshot()) }); err != nil {
			return err
		}
		mismatches := m.mismatches(obs)
		if len(mismatches) == 0 {
			return nil
		}

		select {
		case <-ticker.C:
		case <-deadline.C:
			return &ExpectationFailure{Mismatches: mismatches, Last: obs}
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// finish records the outcome, captures the final state and writes
// artifacts when enabled.
func (e *Executor) finish(ctx context.Context, runErr error) error {
	e.summary.EndTime = time.Now()
	e.summary.Duration = e.summary.EndTime.Sub(e.summary.StartTime)
	e.summary.Status = statusSuccess
	if runErr != nil {
		e.summary.Status = statusFailed
		e.summary.Error = runErr.Error()
	}

	if ctx.Err() == nil {
		_ = e.shell.Do(ctx, func(sh *shell.Shell) { e.summary.Final = Observe(sh.Snapshot()) })
	} else {
		// Nothing drives the loop any more, so this goroutine owns it.
		<-e.loopDone
		e.shell.Loop().Drain()
		e.summary.Final = Observe(e.shell.Snapshot())
	}

	fmt.Fprintf(e.out, "%s in %s\n", e.summary.Status, e.summary.Duration.Round(time.Millisecond))
	e.logger.Infof("script %q finished: %s", e.script.Name, e.summary.Status)

	if e.artifactWriter != nil {
		if err := e.artifactWriter.WriteAll(e.summary); err != nil {
			e.logger.Warnf("failed to write artifacts: %v", err)
		}
	}
	return runErr
}

func stepDetail(step Step) string {
	switch {
	case step.Input != nil:
		return *step.Input
	case step.Agent != nil:
		return *step.Agent
	case step.Activate != nil:
		return strconv.Itoa(*step.Activate)
	case step.Wait > 0:
		return step.Wait.String()
	default:
		return ""
	}
}
