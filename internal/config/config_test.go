package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.test.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

// chdir changes the working directory for the duration of the test
// (equivalent of testing.T.Chdir, which needs Go 1.24).
func chdir(t *testing.T, dir string) {
	t.Helper()
	old, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(old) })
}

func TestLoad_Defaults(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("CONFIG_FILE", "")
	t.Setenv("CONFIG_ENV", "missing")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "release", cfg.Mode)
	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, 54*time.Second, cfg.PingPeriod)
	assert.Equal(t, 60*time.Second, cfg.PongWait)
	assert.Equal(t, 0, cfg.HistoryLimit)
	assert.Equal(t, "kick", cfg.BackpressurePolicy)
	require.Len(t, cfg.ICEServers, 1)
	assert.Equal(t, []string{"stun:stun.l.google.com:19302"}, cfg.ICEServers[0].URLs)
}

func TestLoad_FileAndEnvOverride(t *testing.T) {
	path := writeConfig(t, `
mode: debug
port: 9000
history_limit: 100
ice_servers:
  - urls: ["turn:turn.example.com:3478?transport=udp"]
    username: alice
    credential: secret
`)
	t.Setenv("CONFIG_FILE", path)
	t.Setenv("MEET_PORT", "9100")
	t.Setenv("MEET_ALLOWED_ORIGINS", "https://a.example,https://b.example")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.Mode)
	assert.Equal(t, 9100, cfg.Port, "env must override the file")
	assert.Equal(t, 100, cfg.HistoryLimit)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.AllowedOrigins)

	servers := cfg.WebRTCICEServers()
	require.Len(t, servers, 1)
	assert.Equal(t, []string{"turn:turn.example.com:3478?transport=udp"}, servers[0].URLs)
	assert.Equal(t, "alice", servers[0].Username)
	assert.Equal(t, "secret", servers[0].Credential)
}

func TestLoad_DotEnv(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("MEET_SEND_BUFFER=7\n"), 0o600))
	t.Setenv("CONFIG_FILE", "")
	t.Setenv("CONFIG_ENV", "missing")
	t.Cleanup(func() { os.Unsetenv("MEET_SEND_BUFFER") })

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 7, cfg.SendBuffer)
}

func TestLoad_InvalidICEURL(t *testing.T) {
	path := writeConfig(t, `
ice_servers:
  - urls: ["http://not-a-stun-server"]
`)
	t.Setenv("CONFIG_FILE", path)

	_, err := Load()
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	valid := func() Config {
		return Config{
			Port:       8080,
			PingPeriod: 54 * time.Second,
			PongWait:   60 * time.Second,
			SendBuffer: 16,
		}
	}

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr bool
	}{
		{name: "valid", mutate: func(c *Config) {}},
		{name: "bad port", mutate: func(c *Config) { c.Port = 0 }, wantErr: true},
		{name: "ping not shorter than pong", mutate: func(c *Config) { c.PingPeriod = c.PongWait }, wantErr: true},
		{name: "no send buffer", mutate: func(c *Config) { c.SendBuffer = 0 }, wantErr: true},
		{name: "negative history", mutate: func(c *Config) { c.HistoryLimit = -1 }, wantErr: true},
		{name: "ice server without urls", mutate: func(c *Config) { c.ICEServers = []ICEServer{{}} }, wantErr: true},
		{name: "stun url", mutate: func(c *Config) {
			c.ICEServers = []ICEServer{{URLs: []string{"stun:stun.example.com:3478"}}}
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := valid()
			tt.mutate(&c)
			err := c.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
