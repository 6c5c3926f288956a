package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flowstate-app/flowstate/server/auth"
)

func TestTokenCommand(t *testing.T) {
	viper.Set("jwt-secret", "cli-secret")
	t.Cleanup(func() { viper.Set("jwt-secret", "") })

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs([]string{"token", "--sub", "user-1", "--workspace", "team-7"})
	require.NoError(t, rootCmd.Execute())

	claims, err := auth.Parse([]byte("cli-secret"), strings.TrimSpace(out.String()))
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.Subject)
	assert.Equal(t, "team-7", claims.Workspace())
}

func TestLoadProfile_FromEnv(t *testing.T) {
	t.Setenv("FLOWSTATE_DRIVER", "postgres")
	t.Setenv("FLOWSTATE_DSN", "")

	_, err := loadProfile()
	assert.Error(t, err, "postgres without a DSN must be rejected")

	t.Setenv("FLOWSTATE_DSN", "postgres://localhost/flowstate")
	t.Setenv("FLOWSTATE_RATE_LIMIT_BURST", "3")
	p, err := loadProfile()
	require.NoError(t, err)
	assert.Equal(t, "postgres", p.Driver)
	assert.Equal(t, "postgres://localhost/flowstate", p.DSN)
	assert.Equal(t, 3, p.RateLimitBurst)
}
