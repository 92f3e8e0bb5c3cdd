package data

import (
	"context"
	"math"
	"math/rand"

	"zdm_server_go/errors"
)

// DefaultMaxAttempts bounds how many random candidates IDAllocator tries.
const DefaultMaxAttempts = 16

// IDSource yields candidate ids.
type IDSource func() int64

// RandomIDSource draws ids uniformly from 1..MaxInt32.
func RandomIDSource() IDSource {
	return func() int64 {
		return rand.Int63n(math.MaxInt32) + 1
	}
}

// ExistsFunc reports whether id is already taken.
type ExistsFunc func(ctx context.Context, id int64) (bool, error)

// IDAllocator hands out collision-checked random ids. The check is
// read-then-write; the PRIMARY KEY/UNIQUE constraint on the target column
// rejects the rare id taken between the check and the insert.
type IDAllocator struct {
	Source      IDSource
	MaxAttempts int
}

// NewIDAllocator returns an allocator over source. maxAttempts <= 0 means
// DefaultMaxAttempts.
func NewIDAllocator(source IDSource, maxAttempts int) *IDAllocator {
	if source == nil {
		source = RandomIDSource()
	}
	if maxAttempts <= 0 {
		maxAttempts = DefaultMaxAttempts
	}
	return &IDAllocator{Source: source, MaxAttempts: maxAttempts}
}

// Allocate returns a positive id for which exists reports false and that is
// not in exclude. It fails with ErrResourceExhausted after MaxAttempts
// collisions.
func (a *IDAllocator) Allocate(ctx context.Context, exists ExistsFunc, exclude ...int64) (int64, error) {
	for attempt := 0; attempt < a.MaxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return 0, errors.Wrap(err, "allocate id")
		}
		id := a.Source()
		if id <= 0 || contains(exclude, id) {
			continue
		}
		taken, err := exists(ctx, id)
		if err != nil {
			return 0, errors.Wrapf(err, "allocate id: check %d", id)
		}
		if !taken {
			return id, nil
		}
	}
	return 0, errors.Wrapf(errors.ErrResourceExhausted, "no free id after %d attempts", a.MaxAttempts)
}

func contains(ids []int64, id int64) bool {
	for _, x := range ids {
		if x == id {
			return true
		}
	}
	return false
}
