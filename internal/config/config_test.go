package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, contents string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))
	return path
}

func TestMustLoadPath(t *testing.T) {
	path := writeConfig(t, `
env: dev
http:
  address: ":9000"
cors:
  allowed_origins:
    - "https://example.com"
webrtc:
  stun_servers:
    - "stun:stun.example.com:3478"
token:
  secret: "s3cret"
  ttl: 1h
  issuer: "example"
  require: true
socket:
  write_timeout: 5s
  pong_timeout: 30s
  max_message_size: 4096
`)

	cfg := MustLoadPath(path)

	assert.Equal(t, "dev", cfg.Env)
	assert.Equal(t, ":9000", cfg.HTTP.Address)
	assert.Equal(t, []string{"https://example.com"}, cfg.CORS.AllowedOrigins)
	assert.Equal(t, []string{"stun:stun.example.com:3478"}, cfg.WebRTC.STUNServers)
	assert.Equal(t, "s3cret", cfg.Token.Secret)
	assert.Equal(t, time.Hour, cfg.Token.TTL)
	assert.True(t, cfg.Token.Require)
	assert.Equal(t, 5*time.Second, cfg.Socket.WriteTimeout)
	assert.Equal(t, int64(4096), cfg.Socket.MaxMessageSize)
}

func TestDefaultsApplied(t *testing.T) {
	path := writeConfig(t, "env: local\n")

	cfg := MustLoadPath(path)

	assert.Equal(t, ":5000", cfg.HTTP.Address)
	assert.NotEmpty(t, cfg.CORS.AllowedOrigins)
	assert.Equal(t, []string{"stun:stun.l.google.com:19302"}, cfg.WebRTC.STUNServers)
	assert.Equal(t, 24*time.Hour, cfg.Token.TTL)
	assert.False(t, cfg.Token.Require)
	assert.Equal(t, 10*time.Second, cfg.Socket.WriteTimeout)
	assert.Equal(t, 60*time.Second, cfg.Socket.PongTimeout)
	assert.Equal(t, int64(64*1024), cfg.Socket.MaxMessageSize)
}

func TestMustLoadPathMissingFile(t *testing.T) {
	assert.Panics(t, func() {
		MustLoadPath(filepath.Join(t.TempDir(), "absent.yaml"))
	})
}
