// Package negamax determines the game-theoretic outcome of a Connect-4
// position under perfect play: which side can force a win and in how many
// plies. The search is a negamax with alpha-beta pruning driven by an
// iterative null-window narrowing loop, with a transposition table as the
// primary pruning accelerant.
package negamax

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/domino14/connect4/position"
)

// thanks Wikipedia:
/*
function negamax(node, depth, α, β, color) is
    if depth = 0 or node is a terminal node then
        return color × the heuristic value of node

    childNodes := generateMoves(node)
    childNodes := orderMoves(childNodes)
    value := −∞
    foreach child in childNodes do
        value := max(value, −negamax(child, depth − 1, −β, −α, −color))
        α := max(α, value)
        if α ≥ β then
            break (* cut-off *)
    return value
**/

// Scores are relative to the side to move at the scored position and
// count moves until the end: a win with the mover's very next stone
// scores (TotalCells + 1 - ply) / 2, and every two plies the forced end
// recedes costs one point. Positive means the mover wins, zero is an
// exact draw. See Solve for the sign convention at the top level.

// ErrBudgetExceeded is returned when a node budget ran out before the
// search resolved the exact score.
var ErrBudgetExceeded = errors.New("node budget exceeded before search resolved")

// How many nodes we visit between context checks.
const abortCheckMask = (1 << 12) - 1

// Solver solves one position at a time. It owns its transposition table
// exclusively; concurrent solves need a Solver (and table) per worker.
type Solver struct {
	ttable *TranspositionTable

	nodes atomic.Uint64
	// nodeBudget, when non-zero, caps the nodes visited per Solve call so
	// interactive callers can get a best-effort bound instead of blocking.
	nodeBudget uint64
}

// NewSolver returns a solver using the given table, or a freshly
// allocated default-sized one if tt is nil.
func NewSolver(tt *TranspositionTable) *Solver {
	if tt == nil {
		tt = NewTable(DefaultSizePowerOf2())
	}
	return &Solver{ttable: tt}
}

// SetNodeBudget caps the nodes visited per Solve call; zero removes the
// cap.
func (s *Solver) SetNodeBudget(n uint64) {
	s.nodeBudget = n
}

// Nodes returns the node count of the last Solve call.
func (s *Solver) Nodes() uint64 {
	return s.nodes.Load()
}

// negamax scores p within the window (α, β]. The recursion depth is
// bounded by the remaining empty cells, at most 42.
func (s *Solver) negamax(ctx context.Context, p position.Position, α, β int) (int, error) {
	nodes := s.nodes.Add(1)
	if nodes&abortCheckMask == 0 && ctx.Err() != nil {
		return α, ctx.Err()
	}
	if s.nodeBudget != 0 && nodes > s.nodeBudget {
		return α, ErrBudgetExceeded
	}

	if p.IsDraw() {
		return 0, nil
	}

	// A one-ply win dominates anything deeper; this check eliminates
	// every already-decided subtree without recursing.
	for col := 0; col < position.Width; col++ {
		if p.CanPlay(col) && p.IsWinningMove(col) {
			return p.MaxScore(), nil
		}
	}

	// No immediate win, so the best we can do is win with our second
	// remaining stone. A table hit tightens this bound further; stored
	// values are proven upper bounds for the position.
	max := (position.TotalCells - 1 - p.Ply()) / 2
	key := p.CanonicalKey()
	if val, ok := s.ttable.lookup(key); ok {
		max = val
	}
	if β > max {
		β = max
		if α >= β {
			// Window saturated; no move can beat α.
			return β, nil
		}
	}

	sorter := newMoveSorter(p)
	for {
		col, ok := sorter.next()
		if !ok {
			break
		}
		score, err := s.negamax(ctx, p.Play(col), -β, -α)
		if err != nil {
			return α, err
		}
		if -score >= β {
			return -score, nil // beta cutoff
		}
		if -score > α {
			α = -score
		}
	}
	s.ttable.store(key, α)
	return α, nil
}

// Solve returns the exact score of p from the perspective of the player
// to move (the negamax convention; a front end wanting a fixed
// first-player perspective negates the result when p.Ply() is odd).
//
// The driver narrows the score interval with null-window probes, binary
// search style: each probe answers "is the true score above med", halving
// the interval until it collapses. Narrow windows prune far more than one
// full-window search. On cancellation or budget exhaustion it returns the
// tightest proven lower bound along with the error.
func (s *Solver) Solve(ctx context.Context, p position.Position) (int, error) {
	tstart := time.Now()
	s.nodes.Store(0)
	s.ttable.Reset()

	min := p.MinScore()
	max := p.MaxScore()
	for min < max {
		med := min + (max-min)/2
		// Probe near zero first; decided-late scores are the common case
		// and cheap probes there collapse the interval fastest.
		if med <= 0 && min/2 < med {
			med = min / 2
		} else if med >= 0 && max/2 > med {
			med = max / 2
		}
		r, err := s.negamax(ctx, p, med, med+1)
		if err != nil {
			return min, err
		}
		if r <= med {
			max = r
		} else {
			min = r
		}
	}

	log.Debug().
		Int("score", min).
		Int("ply", p.Ply()).
		Uint64("nodes", s.nodes.Load()).
		Float64("time-elapsed-sec", time.Since(tstart).Seconds()).
		Msg("solve-returning")
	s.ttable.LogStats()
	return min, nil
}

// SolveSequence replays a move sequence from the empty board and solves
// the resulting position with a default-sized table.
func SolveSequence(ctx context.Context, seq string) (int, error) {
	p, err := position.FromSequence(seq)
	if err != nil {
		return 0, err
	}
	return NewSolver(nil).Solve(ctx, p)
}

// ScoreEachMove scores every legal column of p: the score of the position
// after playing that column, negated back to p's mover's perspective, so
// the best move is the one with the highest score. Children are solved in
// parallel, each worker owning an independent solver and table;
// maxParallel caps the worker count (0 means no cap). Immediately winning
// columns are scored directly without search.
func ScoreEachMove(ctx context.Context, p position.Position, maxParallel int) (map[int]int, error) {
	scores := make(map[int]int)
	var mu sync.Mutex

	// Score the immediately winning columns first, before any worker
	// shares the map.
	for col := 0; col < position.Width; col++ {
		if p.CanPlay(col) && p.IsWinningMove(col) {
			scores[col] = p.MaxScore()
		}
	}

	g, ctx := errgroup.WithContext(ctx)
	if maxParallel > 0 {
		g.SetLimit(maxParallel)
	}
	// Per-worker tables are a few steps smaller than the single-solve
	// default since up to seven are live at once.
	sizePowerOf2 := DefaultSizePowerOf2() - 3

	for col := 0; col < position.Width; col++ {
		if !p.CanPlay(col) || p.IsWinningMove(col) {
			continue
		}
		col := col
		child := p.Play(col)
		g.Go(func() error {
			s := NewSolver(NewTable(sizePowerOf2))
			val, err := s.Solve(ctx, child)
			if err != nil {
				return err
			}
			mu.Lock()
			scores[col] = -val
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return scores, nil
}
