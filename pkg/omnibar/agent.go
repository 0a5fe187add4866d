package omnibar

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/entrhq/agentbrowser/pkg/metrics"
	"github.com/entrhq/agentbrowser/pkg/session"
	"github.com/entrhq/agentbrowser/pkg/types"
)

// Status lines shown while and after talking to the agent.
const (
	StatusMissingCommand = "Please provide a command for the agent (e.g., /agent create tic tac toe app)"
	StatusAgentDone      = "Agent generated app in new tab!"
	statusAgentPending   = "Asking agent: \"%s\"..."
	statusAgentError     = "Agent error: %s"
	unknownAgentError    = "Unknown error"

	dataURLPrefix = "data:text/html;charset=utf-8,"
)

// DataURL encodes an HTML document so a surface can load it without
// touching the filesystem.
func DataURL(document string) string {
	return dataURLPrefix + escape(document)
}

// DocumentFromDataURL reverses DataURL. It reports false for any other URL.
func DocumentFromDataURL(u string) (string, bool) {
	if !strings.HasPrefix(u, dataURLPrefix) {
		return "", false
	}
	doc, err := url.QueryUnescape(strings.TrimPrefix(u, dataURLPrefix))
	if err != nil {
		return "", false
	}
	return doc, true
}

// Pending reports whether an agent request is in flight.
func (r *Router) Pending() bool {
	return r.pending
}

// dispatch sends command to the agent service off the loop. Submit
// controls stay disabled until the result has been applied.
func (r *Router) dispatch(command string) {
	if r.pending {
		r.logger.Warnf("agent request rejected, one is already in flight: %q", command)
		r.metrics.RecordAgentRequest(metrics.OutcomeRejected, 0)
		return
	}
	r.pending = true
	r.display.SetSubmitEnabled(false)
	r.display.SetStatus(fmt.Sprintf(statusAgentPending, command))
	r.logger.Infof("asking agent: %q", command)

	started := time.Now()
	go func() {
		result := r.submit(command)
		r.scheduler.Post(func() {
			r.complete(result, time.Since(started))
		})
	}()
}

// submit runs on its own goroutine. A panicking service is reported as a
// failed request.
func (r *Router) submit(command string) (result types.AgentResult) {
	defer func() {
		if p := recover(); p != nil {
			r.logger.Errorf("agent service panicked: %v", p)
			result = types.NewAgentFailure(fmt.Sprintf("agent service panicked: %v", p))
		}
	}()
	return r.agent.SubmitAgentPrompt(r.ctx, command)
}

func (r *Router) complete(result types.AgentResult, elapsed time.Duration) {
	defer func() {
		r.pending = false
		r.display.SetSubmitEnabled(true)
	}()

	if !result.Success {
		message := result.Error
		if message == "" {
			message = unknownAgentError
		}
		r.logger.Warnf("agent failed after %s: %s", elapsed, message)
		r.metrics.RecordAgentRequest(metrics.OutcomeFailure, elapsed)
		r.display.SetStatus(fmt.Sprintf(statusAgentError, message))
		return
	}
	r.metrics.RecordAgentRequest(metrics.OutcomeSuccess, elapsed)

	id, err := r.registry.Create(session.BlankURL, true)
	if err != nil {
		r.logger.Errorf("open tab for generated app: %v", err)
		r.display.SetStatus(fmt.Sprintf(statusAgentError, err.Error()))
		return
	}
	sess, err := r.registry.Get(id)
	if err != nil {
		return
	}

	dataURL := DataURL(result.Document)
	nav := sess.Controller()
	// The blank page must be ready before anything else is loaded into it.
	nav.Once(types.EventKindReadyForInteraction, func(types.SessionEvent) {
		if err := nav.Load(dataURL); err != nil {
			r.logger.Warnf("load generated app into %s: %v", id, err)
			return
		}
		r.logger.Infof("generated app loaded into %s (%d bytes)", id, len(result.Document))
		r.display.SetStatus(StatusAgentDone)
	})
}
