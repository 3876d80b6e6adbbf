package negamax

import (
	"testing"

	"github.com/matryer/is"

	"github.com/domino14/connect4/position"
)

func drain(ms moveSorter) []int {
	var cols []int
	for {
		col, ok := ms.next()
		if !ok {
			return cols
		}
		cols = append(cols, col)
	}
}

func TestSorterStaticOrder(t *testing.T) {
	is := is.New(t)
	// With no threats anywhere the sorter degenerates to the center-out
	// static order.
	var p position.Position
	is.Equal(drain(newMoveSorter(p)), []int{3, 2, 4, 1, 5, 0, 6})
}

func TestSorterPrefersThreats(t *testing.T) {
	is := is.New(t)
	p, err := position.FromSequence("4455")
	is.NoErr(err)
	// Columns 2 and 5 each create a double threat, 1 and 6 a single
	// threat; ties fall back to center-out order.
	is.Equal(drain(newMoveSorter(p)), []int{2, 5, 1, 6, 3, 4, 0})
}

func TestSorterSkipsFullColumns(t *testing.T) {
	is := is.New(t)
	p, err := position.FromSequence("444444")
	is.NoErr(err)
	cols := drain(newMoveSorter(p))
	is.Equal(len(cols), 6)
	for _, col := range cols {
		is.True(col != 3)
	}
}
