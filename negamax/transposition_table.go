package negamax

import (
	"math"
	"sync/atomic"

	"github.com/pbnjay/memory"
	"github.com/rs/zerolog/log"

	"github.com/domino14/connect4/position"
)

// 8 bytes per entry (the int8 score pads to the tag's alignment).
const entrySize = 8

// Position keys fit in 49 bits, so a tag of the key shifted past the
// index bits covers the whole key for any power of two of at least 17.
const minSizePowerOf2 = 17

// scoreBias maps scores onto 1..43 so that a zero byte means an empty
// slot.
const scoreBias = position.TotalCells/2 + 1

// tableEntry is one slot of the transposition table: a truncated check
// tag plus a biased score. The tag detects the overwhelming majority of
// index collisions; a false hit is impossible here because tag and index
// together reconstruct the full 49-bit key.
type tableEntry struct {
	tag uint32
	val int8
}

// TranspositionTable is a fixed-capacity, replace-always cache from a
// canonical position key to a proven score bound. Its capacity is the
// search's only memory bound; a miss (or an overwritten slot) only costs
// time, never correctness. Each Solver owns its table exclusively:
// concurrent solves need one table per worker.
type TranspositionTable struct {
	table        []tableEntry
	sizePowerOf2 int
	sizeMask     uint64

	created atomic.Uint64
	lookups atomic.Uint64
	hits    atomic.Uint64
	// "type 2" collisions: two positions sharing the same slot index but
	// not the same tag. With the full key split across tag and index,
	// type 1 collisions (same full key, different position) cannot occur.
	t2collisions atomic.Uint64
}

// NewTable allocates a table with 1<<sizePowerOf2 slots.
func NewTable(sizePowerOf2 int) *TranspositionTable {
	if sizePowerOf2 < minSizePowerOf2 {
		sizePowerOf2 = minSizePowerOf2
	}
	numElems := 1 << sizePowerOf2
	return &TranspositionTable{
		table:        make([]tableEntry, numElems),
		sizePowerOf2: sizePowerOf2,
		sizeMask:     uint64(numElems - 1),
	}
}

// DefaultSizePowerOf2 sizes a table from a small fraction of system
// memory, clamped to [20, 26] (8 MB to 512 MB of entries).
func DefaultSizePowerOf2() int {
	desiredNElems := float64(memory.TotalMemory()) / 64 / float64(entrySize)
	p := int(math.Log2(desiredNElems))
	if p < 20 {
		p = 20
	}
	if p > 26 {
		p = 26
	}
	return p
}

func (t *TranspositionTable) lookup(key uint64) (int, bool) {
	t.lookups.Add(1)
	idx := key & t.sizeMask
	entry := t.table[idx]
	if entry.val == 0 {
		return 0, false
	}
	if entry.tag != uint32(key>>t.sizePowerOf2) {
		// An unrelated position lives in this slot.
		t.t2collisions.Add(1)
		return 0, false
	}
	t.hits.Add(1)
	return int(entry.val) - scoreBias, true
}

func (t *TranspositionTable) store(key uint64, score int) {
	idx := key & t.sizeMask
	// Just overwrite whatever is there.
	t.table[idx] = tableEntry{
		tag: uint32(key >> t.sizePowerOf2),
		val: int8(score + scoreBias),
	}
	t.created.Add(1)
}

// Reset clears all slots and counters so the table can serve a fresh
// solve without reallocating.
func (t *TranspositionTable) Reset() {
	clear(t.table)
	t.created.Store(0)
	t.lookups.Store(0)
	t.hits.Store(0)
	t.t2collisions.Store(0)
}

// LogStats emits the table counters at debug level.
func (t *TranspositionTable) LogStats() {
	log.Debug().
		Int("size-power-of-2", t.sizePowerOf2).
		Uint64("ttable-created", t.created.Load()).
		Uint64("ttable-lookups", t.lookups.Load()).
		Uint64("ttable-hits", t.hits.Load()).
		Uint64("ttable-t2collisions", t.t2collisions.Load()).
		Msg("transposition-table-stats")
}
