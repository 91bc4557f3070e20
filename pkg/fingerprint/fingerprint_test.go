package fingerprint

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateDeterministic(t *testing.T) {
	a := Generate(map[string]any{"type": "contact", "number": 20, "offset": 0})
	b := Generate(map[string]any{"offset": 0, "number": 20, "type": "contact"})

	assert.Equal(t, a, b, "key order must not affect the fingerprint")
}

func TestGenerateDifferentData(t *testing.T) {
	a := Generate(map[string]any{"type": "contact"})
	b := Generate(map[string]any{"type": "company"})

	assert.NotEqual(t, a, b)
}

func TestGenerateNested(t *testing.T) {
	a := Generate(map[string]any{"meta": map[string]any{"key": "city", "value": "Berlin"}})
	b := Generate(map[string]any{"meta": map[string]any{"value": "Berlin", "key": "city"}})

	assert.Equal(t, a, b)
}

func TestFromValueScalar(t *testing.T) {
	a, err := FromValue("jane@example.com")
	require.NoError(t, err)
	b, err := FromValue("jane@example.com")
	require.NoError(t, err)
	c, err := FromValue("john@example.com")
	require.NoError(t, err)

	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
}

func TestFromValueSliceOrderMatters(t *testing.T) {
	a, err := FromValue([]string{"a", "b"})
	require.NoError(t, err)
	b, err := FromValue([]string{"b", "a"})
	require.NoError(t, err)

	assert.NotEqual(t, a, b, "slices are positional, order is significant")
}

func TestFromValueNumbersNormalized(t *testing.T) {
	// ints and floats that encode to the same JSON hash identically
	a, err := FromValue(42)
	require.NoError(t, err)
	b, err := FromValue(float64(42))
	require.NoError(t, err)

	assert.Equal(t, a, b)
}
