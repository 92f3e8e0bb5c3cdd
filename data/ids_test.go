package data

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"zdm_server_go/errors"
)

func sequence(ids ...int64) IDSource {
	i := 0
	return func() int64 {
		id := ids[i%len(ids)]
		i++
		return id
	}
}

func takenSet(ids ...int64) ExistsFunc {
	set := map[int64]bool{}
	for _, id := range ids {
		set[id] = true
	}
	return func(_ context.Context, id int64) (bool, error) { return set[id], nil }
}

func TestAllocateSkipsTakenAndExcluded(t *testing.T) {
	a := NewIDAllocator(sequence(7, 7, 9, 11), 4)
	id, err := a.Allocate(context.Background(), takenSet(7), 9)
	require.NoError(t, err)
	assert.Equal(t, int64(11), id)
}

func TestAllocateExhausted(t *testing.T) {
	a := NewIDAllocator(sequence(5), 3)
	_, err := a.Allocate(context.Background(), takenSet(5))
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrResourceExhausted))
}

func TestAllocatePropagatesLookupError(t *testing.T) {
	boom := errors.New("disk I/O error")
	a := NewIDAllocator(sequence(1), 3)
	_, err := a.Allocate(context.Background(), func(context.Context, int64) (bool, error) { return false, boom })
	require.Error(t, err)
	assert.True(t, errors.Is(err, boom))
}

func TestAllocateHonoursCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewIDAllocator(nil, 0).Allocate(ctx, takenSet())
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRandomIDSourceRange(t *testing.T) {
	src := RandomIDSource()
	for i := 0; i < 1000; i++ {
		id := src()
		assert.GreaterOrEqual(t, id, int64(1))
		assert.LessOrEqual(t, id, int64(1<<31-1))
	}
}
