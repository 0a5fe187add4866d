package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_NilReceiver(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.RecordSessionCreated(1)
		m.RecordSessionClosed(0)
		m.RecordNavigation(NavigateURL)
		m.RecordAgentRequest(OutcomeSuccess, time.Second)
	})
}

func TestMetrics_Sessions(t *testing.T) {
	m := New()
	m.RecordSessionCreated(1)
	m.RecordSessionCreated(2)
	m.RecordSessionClosed(1)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.sessionsCreated))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.sessionsClosed))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.openSessions))
}

func TestMetrics_NavigationsByKind(t *testing.T) {
	m := New()
	m.RecordNavigation(NavigateURL)
	m.RecordNavigation(NavigateURL)
	m.RecordNavigation(NavigateSearch)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.navigations.WithLabelValues(NavigateURL)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.navigations.WithLabelValues(NavigateSearch)))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.navigations.WithLabelValues(NavigateBack)))
}

func TestMetrics_AgentRequests(t *testing.T) {
	m := New()
	m.RecordAgentRequest(OutcomeSuccess, 3*time.Second)
	m.RecordAgentRequest(OutcomeFailure, time.Second)
	m.RecordAgentRequest(OutcomeRejected, 0)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.agentRequests.WithLabelValues(OutcomeSuccess)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.agentRequests.WithLabelValues(OutcomeFailure)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.agentRequests.WithLabelValues(OutcomeRejected)))
	assert.Equal(t, 1, testutil.CollectAndCount(m.agentDuration))
}

func TestMetrics_Handler(t *testing.T) {
	m := New()
	m.RecordSessionCreated(1)

	rr := httptest.NewRecorder()
	m.Handler().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "agentbrowser_sessions_created_total 1")
	assert.Contains(t, rr.Body.String(), "agentbrowser_sessions_open 1")
}

func TestMetrics_IndependentRegistries(t *testing.T) {
	a, b := New(), New()
	a.RecordNavigation(NavigateReload)

	assert.Equal(t, 1.0, testutil.ToFloat64(a.navigations.WithLabelValues(NavigateReload)))
	assert.Equal(t, 0.0, testutil.ToFloat64(b.navigations.WithLabelValues(NavigateReload)))
}
