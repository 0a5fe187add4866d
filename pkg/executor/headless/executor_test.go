package headless

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

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

func strPtr(s string) *string { return &s }
func intPtr(i int) *int       { return &i }

func newTestExecutor(t *testing.T, script *Script, agent omnibar.AgentService) (*Executor, *surfacetest.Factory) {
	t.Helper()
	if agent == nil {
		agent = agentFunc(func(context.Context, string) types.AgentResult {
			return types.AgentResult{Error: "not configured"}
		})
	}
	if script.ExpectTimeout == 0 {
		script.ExpectTimeout = time.Second
	}
	factory := surfacetest.NewFactory()
	sh := shell.New(factory, agent, shell.Options{})

	exec, err := NewExecutor(sh, script, logging.Discard())
	require.NoError(t, err)
	exec.SetOutput(io.Discard)
	return exec, factory
}

func TestExecutor_RunTabSteps(t *testing.T) {
	exec, factory := newTestExecutor(t, &Script{
		Name: "tabs",
		Steps: []Step{
			{Input: strPtr("openai.com")},
			{NewTab: true},
			{Expect: &Expectation{Tabs: intPtr(2)}},
			{Activate: intPtr(0)},
			{Reload: true},
			{CloseTab: true},
			{Expect: &Expectation{Tabs: intPtr(1), Mode: "url"}},
		},
	}, nil)

	require.NoError(t, exec.Run(context.Background()))

	assert.Equal(t, "https://openai.com", factory.Get(0).LastLoad())
	assert.Equal(t, 1, factory.Get(0).Reloads)
	assert.True(t, factory.Get(0).Closed)
	assert.False(t, factory.Get(1).Closed)

	summary := exec.Summary()
	assert.Equal(t, statusSuccess, summary.Status)
	assert.Len(t, summary.Steps, 7)
	assert.Equal(t, 1, summary.Final.Tabs)
}

func TestExecutor_ExpectWaitsForNavigation(t *testing.T) {
	exec, factory := newTestExecutor(t, &Script{
		Steps: []Step{
			{Expect: &Expectation{Address: "https://example.com/*", Label: "Example"}},
		},
	}, nil)

	go func() {
		for factory.Count() == 0 {
			time.Sleep(5 * time.Millisecond)
		}
		time.Sleep(2 * pollInterval)
		home := factory.Get(0)
		home.SetPage("https://example.com/", "Example")
		home.EmitNavigated("https://example.com/")
	}()

	require.NoError(t, exec.Run(context.Background()))
	assert.Equal(t, "https://example.com/", exec.Summary().Final.Address)
	assert.Equal(t, "Example", exec.Summary().Final.Label)
}

func TestExecutor_AgentStep(t *testing.T) {
	exec, factory := newTestExecutor(t, &Script{
		Steps: []Step{
			{Agent: strPtr("create tic tac toe app")},
			{Expect: &Expectation{Status: "Agent generated*", Tabs: intPtr(2)}},
		},
	}, agentFunc(func(_ context.Context, text string) types.AgentResult {
		return types.AgentResult{Success: true, Document: "<p>" + text + "</p>"}
	}))

	// The generated tab loads its document on the first ready event.
	done := make(chan struct{})
	go func() {
		for {
			select {
			case <-done:
				return
			case <-time.After(10 * time.Millisecond):
			}
			if factory.Count() == 2 && factory.Get(1).LastLoad() == "" {
				factory.Get(1).EmitReady()
			}
		}
	}()

	err := exec.Run(context.Background())
	close(done)
	require.NoError(t, err)

	assert.Equal(t, 2, factory.Count())
	assert.Equal(t, omnibar.DataURL("<p>create tic tac toe app</p>"), factory.Get(1).LastLoad())
	assert.Equal(t, omnibar.StatusAgentDone, exec.Summary().Final.Status)
}

func TestExecutor_InputRejectedWhileAgentPending(t *testing.T) {
	release := make(chan struct{})
	defer close(release)

	exec, _ := newTestExecutor(t, &Script{
		Steps: []Step{
			{Agent: strPtr("build a clock")},
			{Input: strPtr("openai.com")},
		},
	}, agentFunc(func(context.Context, string) types.AgentResult {
		<-release
		return types.AgentResult{Error: "cancelled"}
	}))

	err := exec.Run(context.Background())
	require.ErrorIs(t, err, ErrSubmitDisabled)
	assert.Equal(t, statusFailed, exec.Summary().Status)
}

func TestExecutor_ExpectationTimeout(t *testing.T) {
	exec, _ := newTestExecutor(t, &Script{
		Steps: []Step{
			{Expect: &Expectation{Tabs: intPtr(3), Timeout: 100 * time.Millisecond}},
			{NewTab: true},
		},
	}, nil)

	err := exec.Run(context.Background())
	require.Error(t, err)

	var failure *ExpectationFailure
	require.True(t, errors.As(err, &failure))
	assert.Equal(t, 1, failure.Last.Tabs)

	summary := exec.Summary()
	assert.Equal(t, statusFailed, summary.Status)
	require.Len(t, summary.Steps, 1)
	assert.NotEmpty(t, summary.Steps[0].Error)
}

func TestExecutor_ActivateOutOfRange(t *testing.T) {
	exec, _ := newTestExecutor(t, &Script{
		Steps: []Step{{Activate: intPtr(4)}},
	}, nil)

	err := exec.Run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no tab at position 4")
}

func TestExecutor_StartFailure(t *testing.T) {
	exec, factory := newTestExecutor(t, &Script{
		Steps: []Step{{NewTab: true}},
	}, nil)
	factory.Err = errors.New("browser gone")

	err := exec.Run(context.Background())
	require.Error(t, err)
	assert.Empty(t, exec.Summary().Steps)
	assert.Equal(t, 0, exec.Summary().Final.Tabs)
}

func TestExecutor_ScriptTimeout(t *testing.T) {
	exec, _ := newTestExecutor(t, &Script{
		Timeout: 100 * time.Millisecond,
		Steps:   []Step{{Wait: time.Minute}},
	}, nil)

	err := exec.Run(context.Background())
	require.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Equal(t, 1, exec.Summary().Final.Tabs)
}

func TestExecutor_WritesArtifacts(t *testing.T) {
	dir := t.TempDir()
	exec, _ := newTestExecutor(t, &Script{
		Name:      "artifacts",
		Steps:     []Step{{NewTab: true}, {Expect: &Expectation{Tabs: intPtr(2)}}},
		Artifacts: ArtifactConfig{Enabled: true, OutputDir: dir},
	}, nil)

	require.NoError(t, exec.Run(context.Background()))

	data, err := os.ReadFile(filepath.Join(dir, "execution.json"))
	require.NoError(t, err)
	var summary ExecutionSummary
	require.NoError(t, json.Unmarshal(data, &summary))
	assert.Equal(t, "artifacts", summary.Script)
	assert.Equal(t, statusSuccess, summary.Status)
	assert.Len(t, summary.Steps, 2)

	md, err := os.ReadFile(filepath.Join(dir, "summary.md"))
	require.NoError(t, err)
	assert.Contains(t, string(md), "# Browser Script Summary")
	assert.Contains(t, string(md), "**Tabs:** 2")
}

func TestNewExecutor_InvalidScript(t *testing.T) {
	_, err := NewExecutor(nil, &Script{}, nil)
	require.Error(t, err)
}
