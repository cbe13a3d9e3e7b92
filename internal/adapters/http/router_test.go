package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dkeye/Meet/internal/app/orch"
	"github.com/dkeye/Meet/internal/config"
	"github.com/dkeye/Meet/internal/core"
	"github.com/dkeye/Meet/internal/stats"
	"github.com/dkeye/Meet/internal/testutil"
)

func newTestRouter(t *testing.T) (*gin.Engine, *orch.Orchestrator, *stats.StatsUpdater) {
	t.Helper()
	testutil.QuietLogs(t)

	static := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(static, "index.html"), []byte("<h1>meet</h1>"), 0o600))

	cfg := &config.Config{
		Mode:       "test",
		Secret:     "test-secret",
		StaticPath: static,
		ReadLimit:  4096,
		PingPeriod: 54 * time.Second,
		PongWait:   60 * time.Second,
		WriteWait:  time.Second,
		SendBuffer: 16,
		ICEServers: []config.ICEServer{
			{URLs: []string{"stun:stun.example.com:3478"}},
			{URLs: []string{"turn:turn.example.com:3478"}, Username: "u", Credential: "p"},
		},
	}
	su := stats.NewStatsUpdater()
	o := orch.New(orch.Options{Stats: su})
	return SetupRouter(context.Background(), cfg, o, su.Handler), o, su
}

func get(r http.Handler, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
	return w
}

func TestHealth(t *testing.T) {
	r, o, _ := newTestRouter(t)
	o.Connect(testutil.NewConn())

	w := get(r, "/healthz")
	require.Equal(t, http.StatusOK, w.Code)

	var resp HealthResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, HealthResponse{Status: "ok", Connections: 1, Rooms: 0}, resp)
}

func TestICE(t *testing.T) {
	r, _, _ := newTestRouter(t)

	w := get(r, "/api/ice")
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		ICEServers []struct {
			URLs       []string `json:"urls"`
			Username   string   `json:"username"`
			Credential any      `json:"credential"`
		} `json:"iceServers"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.ICEServers, 2)
	assert.Equal(t, []string{"stun:stun.example.com:3478"}, resp.ICEServers[0].URLs)
	assert.Empty(t, resp.ICEServers[0].Credential)
	assert.Equal(t, "u", resp.ICEServers[1].Username)
	assert.Equal(t, "p", resp.ICEServers[1].Credential)
}

func TestRooms(t *testing.T) {
	r, o, _ := newTestRouter(t)

	w := get(r, "/api/rooms")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[]`, w.Body.String())

	a := o.Connect(testutil.NewConn())
	b := o.Connect(testutil.NewConn())
	o.Dispatch(a, core.JoinCall{Room: "R1"})
	o.Dispatch(b, core.JoinCall{Room: "R1"})

	w = get(r, "/api/rooms")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[{"name":"R1","client_count":2}]`, w.Body.String())
}

func TestDebugVars(t *testing.T) {
	r, _, _ := newTestRouter(t)

	w := get(r, "/debug/vars")
	require.Equal(t, http.StatusOK, w.Code)

	var vars map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &vars))
	assert.Contains(t, vars, stats.ActiveConnections)
	assert.Contains(t, vars, "Uptime")
}

func TestIndexAndClientToken(t *testing.T) {
	r, _, _ := newTestRouter(t)

	w := get(r, "/")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "meet")

	cookies := w.Result().Cookies()
	require.NotEmpty(t, cookies)
	assert.Equal(t, sessionName, cookies[0].Name)

	// A returning browser keeps its session and gets no new cookie.
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.AddCookie(cookies[0])
	w2 := httptest.NewRecorder()
	r.ServeHTTP(w2, req)
	assert.Empty(t, w2.Result().Cookies())
}
