package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConfigHelpers(t *testing.T) {
	t.Setenv("TT_STRING", "value")
	t.Setenv("TT_INT", "42")
	t.Setenv("TT_BAD_INT", "forty-two")
	t.Setenv("TT_BOOL", "true")

	assert.Equal(t, "value", ConfigOr("TT_STRING", "fallback"))
	assert.Equal(t, "fallback", ConfigOr("TT_MISSING", "fallback"))
	assert.Equal(t, 42, ConfigInt("TT_INT", 7))
	assert.Equal(t, 7, ConfigInt("TT_BAD_INT", 7))
	assert.Equal(t, 7, ConfigInt("TT_MISSING", 7))
	assert.True(t, ConfigBool("TT_BOOL", false))
	assert.False(t, ConfigBool("TT_MISSING", false))
}
