package negamax

import (
	"testing"

	"github.com/matryer/is"
)

func TestTableStoreLookup(t *testing.T) {
	is := is.New(t)
	tt := NewTable(10)
	// Sizes clamp up so the tag plus the index covers the whole key.
	is.Equal(tt.sizePowerOf2, minSizePowerOf2)
	is.Equal(len(tt.table), 1<<minSizePowerOf2)

	key := uint64(0x1248fb0204981)
	tt.store(key, -18)
	val, ok := tt.lookup(key)
	is.True(ok)
	is.Equal(val, -18)

	// A zero score is distinguishable from an empty slot.
	tt.store(key, 0)
	val, ok = tt.lookup(key)
	is.True(ok)
	is.Equal(val, 0)
}

func TestTableCollisions(t *testing.T) {
	is := is.New(t)
	tt := NewTable(17)

	key := uint64(0x1248fb0204981)
	tt.store(key, 5)

	// Same slot, different tag: a type 2 collision, reported as a miss.
	colliding := key + (1 << 17)
	_, ok := tt.lookup(colliding)
	is.True(!ok)
	is.Equal(tt.t2collisions.Load(), uint64(1))

	// An empty slot is a plain miss, not a collision.
	_, ok = tt.lookup(key + 1)
	is.True(!ok)
	is.Equal(tt.t2collisions.Load(), uint64(1))
	is.Equal(tt.lookups.Load(), uint64(2))
	is.Equal(tt.hits.Load(), uint64(0))

	// Replace-always: the colliding key evicts the original.
	tt.store(colliding, -3)
	_, ok = tt.lookup(key)
	is.True(!ok)
	val, ok := tt.lookup(colliding)
	is.True(ok)
	is.Equal(val, -3)
}

func TestTableReset(t *testing.T) {
	is := is.New(t)
	tt := NewTable(17)
	tt.store(42, 7)
	tt.Reset()
	_, ok := tt.lookup(42)
	is.True(!ok)
	is.Equal(tt.created.Load(), uint64(0))
	is.Equal(tt.lookups.Load(), uint64(1))
}
