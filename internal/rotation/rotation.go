// Package rotation keeps per-key wraparound cursors used to vary provider
// queries across repeated requests.
package rotation

import (
	"errors"
	"sync"
)

// ErrOutOfRange signals that a cursor points past what the provider has.
// Do retries once from Base when it sees this error.
var ErrOutOfRange = errors.New("cursor out of range")

// Base is the first cursor value.
const Base = 1

// Index holds one cursor per key, each in [Base, max].
type Index struct {
	mu      sync.Mutex
	max     int
	cursors map[string]int
}

// New creates an Index whose cursors wrap after max.
// A max below Base is treated as Base.
func New(max int) *Index {
	if max < Base {
		max = Base
	}
	return &Index{
		max:     max,
		cursors: make(map[string]int),
	}
}

// Max returns the largest cursor value.
func (i *Index) Max() int {
	return i.max
}

// Next returns the current cursor for key and advances it, wrapping to
// Base after Max.
func (i *Index) Next(key string) int {
	i.mu.Lock()
	defer i.mu.Unlock()

	cur := i.current(key)
	i.cursors[key] = cur%i.max + 1
	return cur
}

// Peek returns the cursor Next would return, without advancing.
func (i *Index) Peek(key string) int {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.current(key)
}

// Advance moves the cursor for key to the value after used, wrapping to
// Base after Max. A used value outside [Base, Max] counts as Base.
func (i *Index) Advance(key string, used int) {
	i.mu.Lock()
	defer i.mu.Unlock()

	if used < Base || used > i.max {
		used = Base
	}
	i.cursors[key] = used%i.max + 1
}

// Reset sets the cursor for key back to Base.
func (i *Index) Reset(key string) {
	i.mu.Lock()
	i.cursors[key] = Base
	i.mu.Unlock()
}

// Len returns the number of keys with a cursor.
func (i *Index) Len() int {
	i.mu.Lock()
	defer i.mu.Unlock()
	return len(i.cursors)
}

func (i *Index) current(key string) int {
	cur, ok := i.cursors[key]
	if !ok || cur < Base || cur > i.max {
		return Base
	}
	return cur
}

// Do calls fn with the current cursor for key. If fn reports ErrOutOfRange,
// fn is called exactly once more with Base and that result is returned as
// is. Do never moves the cursor; it returns the cursor fn last saw so the
// caller can Advance past it once the result is actually used.
func Do[T any](idx *Index, key string, fn func(cursor int) (T, error)) (T, int, error) {
	cur := idx.Peek(key)
	v, err := fn(cur)
	if !errors.Is(err, ErrOutOfRange) {
		return v, cur, err
	}
	v, err = fn(Base)
	return v, Base, err
}
