package negamax

import "github.com/domino14/connect4/position"

// columnOrder is the static center-out exploration order. Center columns
// participate in more winning alignments, so exploring them first produces
// earlier beta cutoffs.
var columnOrder = [position.Width]int{3, 2, 4, 1, 5, 0, 6}

// moveSorter ranks the legal columns of one node by the number of threats
// the move creates, falling back to the static center-out order on ties.
// It is an insertion sort over at most seven entries, which beats any
// general-purpose sort at this size; the candidates already arrive
// semi-sorted. Purely per-node state, nothing survives between calls.
type moveSorter struct {
	size    int
	entries [position.Width]struct {
		col     int
		threats int
	}
}

// newMoveSorter scores and ranks every playable column of p. Columns are
// added in reverse static order so that equal-threat columns pop in
// center-out order.
func newMoveSorter(p position.Position) moveSorter {
	var ms moveSorter
	for i := position.Width - 1; i >= 0; i-- {
		col := columnOrder[i]
		if p.CanPlay(col) {
			ms.add(col, p.ThreatsAfter(col))
		}
	}
	return ms
}

func (ms *moveSorter) add(col, threats int) {
	pos := ms.size
	ms.size++
	for ; pos != 0 && ms.entries[pos-1].threats > threats; pos-- {
		ms.entries[pos] = ms.entries[pos-1]
	}
	ms.entries[pos].col = col
	ms.entries[pos].threats = threats
}

// next pops the best remaining column. ok is false once the node's moves
// are exhausted.
func (ms *moveSorter) next() (col int, ok bool) {
	if ms.size == 0 {
		return 0, false
	}
	ms.size--
	return ms.entries[ms.size].col, true
}
