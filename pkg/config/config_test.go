package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_Defaults(t *testing.T) {
	cfg, err := New()
	require.NoError(t, err)

	assert.Equal(t, 15, cfg.Pipeline.MaxEvents)
	assert.Equal(t, 12, cfg.Pipeline.MaxAlbumItems)
	assert.Equal(t, 20, cfg.Pipeline.MinMessageLen)
	assert.Equal(t, uint64(2), cfg.Media.RetryAttempts)
	assert.Equal(t, 2*time.Second, cfg.Media.RetryDelay)
	assert.Equal(t, 30*time.Minute, cfg.Lock.StaleAfter)
	assert.Equal(t, "/images/facebook-events", cfg.Media.PublicPrefix)
}

func TestNew_EnvOverrides(t *testing.T) {
	t.Setenv("PIPELINE_MAX_EVENTS", "3")
	t.Setenv("LOCK_STALE_AFTER", "5m")

	cfg, err := New()
	require.NoError(t, err)

	assert.Equal(t, 3, cfg.Pipeline.MaxEvents)
	assert.Equal(t, 5*time.Minute, cfg.Lock.StaleAfter)
}
