package position

import (
	"errors"
	"fmt"
)

// Replay error kinds. A SequenceError wraps one of these so callers can
// match with errors.Is while still getting the offending move index.
var (
	ErrMalformedSequence = errors.New("character outside '1'..'7'")
	ErrInvalidColumn     = errors.New("column outside the 1..7 range")
	ErrColumnFull        = errors.New("column already holds six stones")
	ErrGameOver          = errors.New("game is already decided")
)

// SequenceError reports the first illegal move found while replaying a
// move sequence. Index is the 1-based move number within the sequence.
type SequenceError struct {
	Index int
	Kind  error
}

func (e *SequenceError) Error() string {
	return fmt.Sprintf("move %d: %v", e.Index, e.Kind)
}

func (e *SequenceError) Unwrap() error {
	return e.Kind
}

// FromSequence replays a string of column digits ('1'..'7', one per ply,
// left to right) from the empty board and returns the resulting position.
// Validation is eager: the first illegal move aborts the replay. A move
// that would complete a four-in-a-row is rejected with ErrGameOver; the
// solver only ever operates on open positions.
func FromSequence(seq string) (Position, error) {
	var p Position
	for i := 0; i < len(seq); i++ {
		ch := seq[i]
		if ch < '1' || ch > '7' {
			return Position{}, &SequenceError{Index: i + 1, Kind: ErrMalformedSequence}
		}
		p2, err := replayOne(p, int(ch-'0'), i)
		if err != nil {
			return Position{}, err
		}
		p = p2
	}
	return p, nil
}

// FromColumns is FromSequence for pre-parsed 1-based column numbers.
func FromColumns(cols []int) (Position, error) {
	var p Position
	for i, col := range cols {
		if col < 1 || col > Width {
			return Position{}, &SequenceError{Index: i + 1, Kind: ErrInvalidColumn}
		}
		p2, err := replayOne(p, col, i)
		if err != nil {
			return Position{}, err
		}
		p = p2
	}
	return p, nil
}

func replayOne(p Position, col1based, i int) (Position, error) {
	col := col1based - 1
	if !p.CanPlay(col) {
		return Position{}, &SequenceError{Index: i + 1, Kind: ErrColumnFull}
	}
	if p.IsWinningMove(col) {
		return Position{}, &SequenceError{Index: i + 1, Kind: ErrGameOver}
	}
	return p.Play(col), nil
}
