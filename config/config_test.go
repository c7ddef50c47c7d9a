package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestConfigInt(t *testing.T) {
	t.Setenv("TEST_CONFIG_INT", "42")
	t.Setenv("TEST_CONFIG_BAD", "forty")

	assert.Equal(t, 42, ConfigInt("TEST_CONFIG_INT", 7))
	assert.Equal(t, 7, ConfigInt("TEST_CONFIG_BAD", 7))
	assert.Equal(t, 7, ConfigInt("TEST_CONFIG_UNSET", 7))
}

func TestConfigDuration(t *testing.T) {
	t.Setenv("TEST_CONFIG_DURATION", "90s")

	assert.Equal(t, 90*time.Second, ConfigDuration("TEST_CONFIG_DURATION", time.Minute))
	assert.Equal(t, time.Minute, ConfigDuration("TEST_CONFIG_DURATION_UNSET", time.Minute))
}
