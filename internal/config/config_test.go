package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/parisxmas/OxiDB/OxiPortal/internal/service"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("PORTAL_CONFIG", "")
	c, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, ":8080", c.HTTP.Addr)
	assert.Equal(t, 24*time.Hour, c.Auth.TokenTTL)
	assert.Equal(t, service.DefaultFormConfig(), c.FormSession())
	assert.Equal(t, service.DefaultChatConfig(), c.ChatSession())
	assert.True(t, c.Metrics.Enabled)
	assert.Equal(t, "info", c.Log.Level)
}

func TestLoadFileAndEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "portal.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
http:
  addr: ":9090"
form:
  submit_delay: 1s
  simulate_failure: true
chat:
  max_pending: 4
  greeting: "Hi there"
log:
  level: debug
`), 0o600))

	t.Setenv("PORTAL_CONFIG", path)
	t.Setenv("PORTAL_CHAT_REPLY_DELAY", "50ms")
	t.Setenv("PORTAL_LOG_LEVEL", "warn")

	c, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, ":9090", c.HTTP.Addr)
	assert.Equal(t, time.Second, c.Form.SubmitDelay)
	assert.True(t, c.Form.SimulateFailure)
	assert.Equal(t, 4, c.Chat.MaxPending)
	assert.Equal(t, "Hi there", c.ChatSession().Greeting)
	assert.Equal(t, 50*time.Millisecond, c.Chat.ReplyDelay)
	assert.Equal(t, "warn", c.Log.Level)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestLoadRejectsInvalid(t *testing.T) {
	t.Setenv("PORTAL_CONFIG", "")
	t.Setenv("PORTAL_CHAT_MAX_PENDING", "0")

	_, err := Load("")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "chat.max_pending")
}
