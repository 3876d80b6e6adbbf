// c4solve replays a Connect-4 move sequence (a string of column digits
// 1-7) and prints the exact score of the resulting position under perfect
// play. It is a thin front end; all solving lives in the library packages.
package main

import (
	"context"
	"fmt"
	"os"
	"sort"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/domino14/connect4/config"
	"github.com/domino14/connect4/negamax"
	"github.com/domino14/connect4/position"
)

func main() {
	cfg := &config.Config{}
	if err := cfg.Load(os.Args[1:]); err != nil {
		log.Fatal().Err(err).Msg("bad-flags")
	}
	if cfg.Debug {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}

	seq := ""
	if len(cfg.Args) > 0 {
		seq = cfg.Args[0]
	}
	pos, err := position.FromSequence(seq)
	if err != nil {
		log.Fatal().Err(err).Str("sequence", seq).Msg("bad-sequence")
	}

	if cfg.Analyze {
		scores, err := negamax.ScoreEachMove(context.Background(), pos, cfg.MaxParallel)
		if err != nil {
			log.Fatal().Err(err).Msg("analysis-failed")
		}
		cols := make([]int, 0, len(scores))
		for col := range scores {
			cols = append(cols, col)
		}
		sort.Ints(cols)
		for _, col := range cols {
			fmt.Printf("column %d: %+d\n", col+1, translate(scores[col], pos, cfg))
		}
		return
	}

	s := negamax.NewSolver(negamax.NewTable(cfg.TableSizePowerOf2))
	score, err := s.Solve(context.Background(), pos)
	if err != nil {
		log.Fatal().Err(err).Msg("solve-failed")
	}
	fmt.Printf("%+d\n", translate(score, pos, cfg))
}

// translate flips a mover-relative score to the first player's
// perspective when requested: an odd ply count means the second player is
// the mover at the queried position.
func translate(score int, pos position.Position, cfg *config.Config) int {
	if cfg.Absolute && pos.Ply()%2 == 1 {
		return -score
	}
	return score
}
