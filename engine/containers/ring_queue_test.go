package containers

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRingQueueFIFO(t *testing.T) {
	q := NewRingQueue[int](3)
	assert.True(t, q.IsEmpty())

	require.NoError(t, q.Enqueue(1))
	require.NoError(t, q.Enqueue(2))
	require.NoError(t, q.Enqueue(3))
	assert.True(t, q.IsFull())
	assert.ErrorIs(t, q.Enqueue(4), ErrQueueFull)

	v, err := q.Peek()
	require.NoError(t, err)
	assert.Equal(t, 1, v)

	for _, want := range []int{1, 2, 3} {
		v, err := q.Dequeue()
		require.NoError(t, err)
		assert.Equal(t, want, v)
	}
	_, err = q.Dequeue()
	assert.ErrorIs(t, err, ErrQueueEmpty)
	_, err = q.Peek()
	assert.ErrorIs(t, err, ErrQueueEmpty)
}

func TestRingQueueWrapsAround(t *testing.T) {
	q := NewRingQueue[string](2)
	for i, s := range []string{"a", "b", "c", "d", "e"} {
		require.NoError(t, q.Enqueue(s))
		v, err := q.Dequeue()
		require.NoError(t, err)
		assert.Equal(t, s, v, "iteration %d", i)
	}
	assert.Equal(t, 0, q.Len())

	require.NoError(t, q.Enqueue("x"))
	require.NoError(t, q.Enqueue("y"))
	assert.Equal(t, 2, q.Len())
	v, _ := q.Dequeue()
	assert.Equal(t, "x", v)
}
