package handler

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCoordValue(t *testing.T) {
	// Absent field: nothing to set.
	val, set, err := coordValue(nil)
	require.NoError(t, err)
	assert.Nil(t, val)
	assert.False(t, set)

	// JSON number.
	val, set, err = coordValue(105.336)
	require.NoError(t, err)
	require.NotNil(t, val)
	assert.InDelta(t, 105.336, *val, 1e-9)
	assert.True(t, set)

	// Numeric string.
	val, set, err = coordValue(" 30.09 ")
	require.NoError(t, err)
	require.NotNil(t, val)
	assert.InDelta(t, 30.09, *val, 1e-9)
	assert.True(t, set)

	// Empty string clears the coordinate.
	val, set, err = coordValue("")
	require.NoError(t, err)
	assert.Nil(t, val)
	assert.True(t, set)

	// Garbage is rejected.
	_, _, err = coordValue("abc")
	assert.Error(t, err)
	_, _, err = coordValue(true)
	assert.Error(t, err)
}
