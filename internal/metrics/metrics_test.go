package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollector_Counters(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	c.RecordCompletion("openai", "ok", 150*time.Millisecond)
	c.RecordCompletion("openai", "error", time.Second)
	c.RecordFallback("talk", "missing_credential")
	c.RecordMessage("listen")
	c.RecordMessage("listen")
	c.RecordGuestExpired()
	c.RecordSignup(true)
	c.RecordLogin(false)

	assert.Equal(t, 1.0, testutil.ToFloat64(c.completions.WithLabelValues("openai", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.completions.WithLabelValues("openai", "error")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.fallbacks.WithLabelValues("talk", "missing_credential")))
	assert.Equal(t, 2.0, testutil.ToFloat64(c.messages.WithLabelValues("listen")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.guestExpired))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.signups.WithLabelValues("true")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.logins.WithLabelValues("false")))
}

func TestHandler_ServesMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)
	c.RecordGuestExpired()

	rec := httptest.NewRecorder()
	Handler(reg).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(body), "neurochat_guest_sessions_expired_total 1"))
}

func TestNop(t *testing.T) {
	var r Recorder = Nop{}
	r.RecordCompletion("x", "ok", time.Second)
	r.RecordLogin(true)
}
