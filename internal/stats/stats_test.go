package stats

import (
	"encoding/json"
	"expvar"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewStatsUpdater(t *testing.T) {
	su := NewStatsUpdater()
	assert.NotNil(t, su.updateChan, "expected updateChan to be initialized")
	assert.NotNil(t, su.vars.Get(ActiveConnections), "expected relay metrics to be registered")
	assert.NotNil(t, su.vars.Get("Uptime"))
}

func TestStatsUpdater_IncrDecr(t *testing.T) {
	su := NewStatsUpdater()
	su.Run()
	defer su.Stop()

	su.Incr(ActiveConnections)
	su.Incr(ActiveConnections)
	su.Decr(ActiveConnections)
	su.Incr("NotRegistered")

	assert.Eventually(t, func() bool {
		return su.Value(ActiveConnections) == 1
	}, time.Second, 5*time.Millisecond)
	assert.Equal(t, int64(0), su.Value("NotRegistered"))
}

func TestStatsUpdater_Handler(t *testing.T) {
	su := NewStatsUpdater()
	su.vars.Get(ChatMessages).(*expvar.Int).Add(3)

	rec := httptest.NewRecorder()
	su.Handler(rec, httptest.NewRequest(http.MethodGet, "/debug/vars", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json; charset=utf-8", rec.Header().Get("Content-Type"))

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.EqualValues(t, 3, body[ChatMessages])
	assert.Contains(t, body, "Uptime")
}

func TestStatsUpdater_IncrDoesNotBlockWhenNotRunning(t *testing.T) {
	su := NewStatsUpdater()
	done := make(chan struct{})
	go func() {
		for i := 0; i < 2000; i++ {
			su.Incr(ChatMessages)
		}
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Incr blocked with no consumer")
	}
}

func TestStatsUpdater_StopIsSafe(t *testing.T) {
	su := NewStatsUpdater()
	su.Run()
	su.Stop()
	su.Stop()

	assert.NotPanics(t, func() { su.Incr(ActiveConnections) })
}
