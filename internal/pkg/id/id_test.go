package id

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNew_ProducesValidSortableIDs(t *testing.T) {
	a := New()
	b := New()
	assert.True(t, Valid(a))
	assert.True(t, Valid(b))
	assert.NotEqual(t, a, b)
	// Generated later means lexicographically greater or equal, which is what
	// the replay comparison relies on.
	assert.LessOrEqual(t, a, b)
}

func TestValid(t *testing.T) {
	assert.True(t, Valid("01ARZ3NDEKTSV4RRFFQ69G5FAV"))
	assert.False(t, Valid(""))
	assert.False(t, Valid("not-a-ulid"))
	assert.False(t, Valid("01ARZ3NDEKTSV4RRFFQ69G5FA")) // too short
}
