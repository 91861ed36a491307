package runtime

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnvironmentLastWriteWins(t *testing.T) {
	env := NewEnvironment(DefaultCapacity)
	require.NoError(t, env.Set("x", 5))
	v, ok := env.Get("x")
	require.True(t, ok)
	assert.Equal(t, int64(5), v)

	require.NoError(t, env.Set("x", 7))
	v, _ = env.Get("x")
	assert.Equal(t, int64(7), v)
	assert.Equal(t, 1, env.Len())
}

func TestEnvironmentMissing(t *testing.T) {
	env := NewEnvironment(DefaultCapacity)
	_, ok := env.Get("nope")
	assert.False(t, ok)
}

func TestEnvironmentCapacity(t *testing.T) {
	env := NewEnvironment(DefaultCapacity)
	for n := 0; n < DefaultCapacity; n++ {
		require.NoError(t, env.Set(fmt.Sprintf("v%d", n), int64(n)))
	}

	err := env.Set("one_too_many", 1)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrCapacityExceeded))
	_, ok := env.Get("one_too_many")
	assert.False(t, ok)
	assert.Equal(t, DefaultCapacity, env.Len())

	for n := 0; n < DefaultCapacity; n++ {
		v, ok := env.Get(fmt.Sprintf("v%d", n))
		require.True(t, ok)
		assert.Equal(t, int64(n), v)
	}

	// Existing names can still be overwritten when full.
	require.NoError(t, env.Set("v0", 42))
	v, _ := env.Get("v0")
	assert.Equal(t, int64(42), v)
}

func TestEnvironmentNamesAndClear(t *testing.T) {
	env := NewEnvironment(3)
	assert.Equal(t, 3, env.Capacity())
	require.NoError(t, env.Set("b", 1))
	require.NoError(t, env.Set("a", 2))
	require.NoError(t, env.Set("b", 3))
	assert.Equal(t, []string{"b", "a"}, env.Names())

	env.Clear()
	assert.Equal(t, 0, env.Len())
	assert.Empty(t, env.Names())
	require.NoError(t, env.Set("c", 1))
	require.NoError(t, env.Set("d", 1))
	require.NoError(t, env.Set("e", 1))
	assert.Error(t, env.Set("f", 1))
}

func TestEnvironmentDefaultCapacity(t *testing.T) {
	assert.Equal(t, DefaultCapacity, NewEnvironment(0).Capacity())
	assert.Equal(t, DefaultCapacity, NewEnvironment(-4).Capacity())
}
