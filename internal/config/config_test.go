package config

import (
	"strings"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := LoadFrom(viper.New())
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "memory", cfg.Storage.Driver)
	assert.Equal(t, "launchpad", cfg.Platform.AuthDomain)
	assert.Equal(t, uint64(300), cfg.Platform.AuthMaxAge)
	assert.True(t, cfg.Orchestrator.RelayFunding)
	assert.Equal(t, "10000", cfg.Orchestrator.GoldThreshold)
	assert.Equal(t, 4, cfg.Task.Workers)
}

func TestLoadFromYAML(t *testing.T) {
	v := viper.New()
	v.SetConfigType("yaml")
	require.NoError(t, v.ReadConfig(strings.NewReader(`
storage:
  driver: redis
orchestrator:
  award_badges: false
task:
  interval: 5
`)))

	cfg, err := LoadFrom(v)
	require.NoError(t, err)
	assert.Equal(t, "redis", cfg.Storage.Driver)
	assert.False(t, cfg.Orchestrator.AwardBadges)
	assert.Equal(t, 5, cfg.Task.Interval)
	assert.Equal(t, "stdout", cfg.Log.Output)
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("LAUNCHPAD_SERVER_PORT", "9090")

	cfg, err := LoadFrom(viper.New())
	require.NoError(t, err)
	assert.Equal(t, "9090", cfg.Server.Port)
}
