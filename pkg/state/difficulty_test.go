package state

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDifficultyFor(t *testing.T) {
	prev := 0.0
	for n := 1; n <= DoorCount; n++ {
		d, err := DifficultyFor(n)
		require.NoError(t, err)
		assert.NotEmpty(t, d.RequiredVirtues, "door %d", n)
		assert.GreaterOrEqual(t, d.TargetTimeMinutes, prev, "difficulty should not decrease from door %d", n)
		prev = d.TargetTimeMinutes
	}

	_, err := DifficultyFor(0)
	assert.Error(t, err)
	_, err = DifficultyFor(7)
	assert.Error(t, err)
}

func TestDifficultyFor_CopyIsIsolated(t *testing.T) {
	d, err := DifficultyFor(6)
	require.NoError(t, err)
	d.RequiredVirtues[0] = "mischief"

	again, err := DifficultyFor(6)
	require.NoError(t, err)
	assert.Equal(t, "kindness", again.RequiredVirtues[0])
}

func TestLocationCountRange(t *testing.T) {
	lo, hi := LocationCountRange(1)
	assert.Equal(t, 3, lo)
	assert.Equal(t, 5, hi)

	lo, hi = LocationCountRange(6)
	assert.Equal(t, 12, lo)
	assert.Equal(t, 20, hi)

	// Out of range falls back to a sane default.
	lo, hi = LocationCountRange(9)
	assert.Equal(t, 5, lo)
	assert.Equal(t, 8, hi)
}

func TestRandomReferences(t *testing.T) {
	refs := RandomReferences("1980s", 2)
	require.Len(t, refs, 2)
	assert.NotEqual(t, refs[0], refs[1])

	assert.Nil(t, RandomReferences("1960s", 2))
	assert.Nil(t, RandomReferences("1980s", 0))
	assert.Len(t, RandomReferences("1980s", 100), 15)
}

func TestDecadeForDoor(t *testing.T) {
	for n := 1; n <= DoorCount; n++ {
		decade := DecadeForDoor(n)
		assert.NotEmpty(t, decade)
		assert.NotNil(t, RandomReferences(decade, 1), "decade %q for door %d has no pool", decade, n)
	}
}
