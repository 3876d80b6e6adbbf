// Package position implements a bitboard representation of a Connect-4
// position. The board is the standard 7 columns by 6 rows with a
// four-in-a-row win condition; these are fixed constants, not configuration.
package position

import (
	"math/bits"
	"strings"
)

const (
	// Width and Height are the board dimensions.
	Width  = 7
	Height = 6
	// TotalCells is the number of stones on a full board.
	TotalCells = Width * Height
)

// Bit schema:
// Each column takes Height+1 = 7 bits; the bottom cell of column c is bit
// 7c and the cell above the column (the guard bit) is bit 7c+6. The guard
// bit is never set; it stops shift-based alignment checks from bleeding
// into the neighboring column. The whole board fits in 49 bits of a uint64.
//
//  col:    0        1        2       ...
//  bits:  .543210  .543210  .543210  (. = guard)
//
// With this layout the four alignment directions become fixed shift
// offsets: vertical 1, horizontal 7, and the two diagonals 6 and 8.
const colStride = Height + 1

const (
	bottomRow = 0x40810204081 // one bit at the base of every column
	boardMask = bottomRow * ((1 << Height) - 1)
)

func bottomMask(col int) uint64 {
	return 1 << (col * colStride)
}

func columnMask(col int) uint64 {
	return ((1 << Height) - 1) << (col * colStride)
}

// Position is an immutable value: Play returns a successor and never
// mutates the receiver, so recursive search branches can share a parent.
// The zero value is the empty board with the first player to move.
type Position struct {
	// stones holds the stones of the player about to move, not the player
	// who just moved. Play swaps roles every ply (negamax convention).
	stones  uint64
	mask    uint64 // all occupied cells
	heights [Width]uint8
	ply     uint8
}

// CanPlay returns whether col (0-indexed) has room for another stone.
func (p Position) CanPlay(col int) bool {
	return p.heights[col] < Height
}

// Play drops a stone for the current player in col and returns the
// resulting position, with current and opponent roles swapped. It must
// only be called on a playable column.
func (p Position) Play(col int) Position {
	p.stones ^= p.mask
	p.mask |= p.mask + bottomMask(col)
	p.heights[col]++
	p.ply++
	return p
}

// IsWinningMove returns whether dropping a stone in col completes a
// four-in-a-row for the current player.
func (p Position) IsWinningMove(col int) bool {
	stones := p.stones | ((p.mask + bottomMask(col)) & columnMask(col))
	return hasAlignment(stones)
}

// IsDraw returns whether the board is full. Callers check winning moves
// before playing them, so a full board reached through Play never contains
// an alignment.
func (p Position) IsDraw() bool {
	return p.ply == TotalCells
}

// Ply returns the number of stones played so far.
func (p Position) Ply() int {
	return int(p.ply)
}

// Key returns a canonical integer for this position. The sum folds the
// column heights into the stone bits: adding the bottom row puts a
// sentinel bit just above each column's stack, which makes the encoding
// injective over reachable positions.
func (p Position) Key() uint64 {
	return p.stones + p.mask + bottomRow
}

// CanonicalKey returns the smaller of the position's key and its
// left-right mirror's key. Mirrored positions are strategically identical
// and must hash identically for the transposition table to merge them.
func (p Position) CanonicalKey() uint64 {
	k := p.Key()
	m := mirror(p.stones) + mirror(p.mask) + bottomRow
	if m < k {
		return m
	}
	return k
}

// WinningCells returns the set of open cells that would complete a
// four-in-a-row for the current player.
func (p Position) WinningCells() uint64 {
	return winningCells(p.stones, p.mask)
}

// ThreatsAfter returns how many open completing cells the current player
// would own after dropping a stone in col: the one-ply threat count used
// for move ordering. It must only be called on a playable column.
func (p Position) ThreatsAfter(col int) int {
	stones := p.stones | ((p.mask + bottomMask(col)) & columnMask(col))
	return bits.OnesCount64(winningCells(stones, p.mask))
}

// MaxScore is the best score the current player can still achieve here:
// winning with their very next stone.
func (p Position) MaxScore() int {
	return (TotalCells + 1 - int(p.ply)) / 2
}

// MinScore is the worst score: the opponent winning with their next stone.
func (p Position) MinScore() int {
	return -(TotalCells - int(p.ply)) / 2
}

// hasAlignment reports whether the stone set contains four in a row in any
// direction. Each direction needs two shift-and steps: pairs first, then
// pairs of pairs.
func hasAlignment(stones uint64) bool {
	// Horizontal.
	m := stones & (stones >> colStride)
	if m&(m>>(2*colStride)) != 0 {
		return true
	}
	// Diagonal (up-left).
	m = stones & (stones >> Height)
	if m&(m>>(2*Height)) != 0 {
		return true
	}
	// Diagonal (up-right).
	m = stones & (stones >> (Height + 2))
	if m&(m>>(2*(Height+2))) != 0 {
		return true
	}
	// Vertical.
	m = stones & (stones >> 1)
	return m&(m>>2) != 0
}

// winningCells computes every open cell that would complete a
// four-in-a-row for the given stone set. For each direction it collects
// the cells adjacent to three aligned stones, in all four positions the
// missing stone can take, then masks off occupied cells.
func winningCells(stones, mask uint64) uint64 {
	// Vertical: only a cell on top of three stacked stones.
	r := (stones << 1) & (stones << 2) & (stones << 3)

	// Horizontal.
	p := (stones << colStride) & (stones << (2 * colStride))
	r |= p & (stones << (3 * colStride))
	r |= p & (stones >> colStride)
	p = (stones >> colStride) & (stones >> (2 * colStride))
	r |= p & (stones << colStride)
	r |= p & (stones >> (3 * colStride))

	// Diagonal (up-left).
	p = (stones << Height) & (stones << (2 * Height))
	r |= p & (stones << (3 * Height))
	r |= p & (stones >> Height)
	p = (stones >> Height) & (stones >> (2 * Height))
	r |= p & (stones << Height)
	r |= p & (stones >> (3 * Height))

	// Diagonal (up-right).
	p = (stones << (Height + 2)) & (stones << (2 * (Height + 2)))
	r |= p & (stones << (3 * (Height + 2)))
	r |= p & (stones >> (Height + 2))
	p = (stones >> (Height + 2)) & (stones >> (2 * (Height + 2)))
	r |= p & (stones << (Height + 2))
	r |= p & (stones >> (3 * (Height + 2)))

	return r & (boardMask ^ mask)
}

// mirror reflects a board bit set left to right.
func mirror(b uint64) uint64 {
	var r uint64
	for c := 0; c < Width; c++ {
		strip := (b >> (c * colStride)) & ((1 << colStride) - 1)
		r |= strip << ((Width - 1 - c) * colStride)
	}
	return r
}

// String renders the board for logs and test output, top row first. X is
// the first player, O the second.
func (p Position) String() string {
	first := p.stones
	if p.ply%2 == 1 {
		first = p.mask ^ p.stones
	}
	var sb strings.Builder
	for row := Height - 1; row >= 0; row-- {
		for col := 0; col < Width; col++ {
			bit := uint64(1) << (col*colStride + row)
			switch {
			case first&bit != 0:
				sb.WriteByte('X')
			case p.mask&bit != 0:
				sb.WriteByte('O')
			default:
				sb.WriteByte('.')
			}
			if col != Width-1 {
				sb.WriteByte(' ')
			}
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}
