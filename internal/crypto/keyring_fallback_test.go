//go:build !darwin

package crypto

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnvKeyring(t *testing.T) {
	k := NewKeyring()

	t.Setenv(EnvKey, "")
	assert.False(t, k.IsAvailable())
	_, err := k.GetKey()
	assert.ErrorContains(t, err, EnvKey)

	t.Setenv(EnvKey, "s3cret")
	assert.True(t, k.IsAvailable())
	key, err := k.GetKey()
	require.NoError(t, err)
	assert.Equal(t, "s3cret", key)

	err = k.SetKey("new")
	assert.ErrorContains(t, err, EnvKey)
	assert.NotContains(t, err.Error(), "new")
}
