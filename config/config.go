// Package config holds runtime settings for the solver front ends.
package config

import (
	"runtime"

	"github.com/namsral/flag"
)

type Config struct {
	TableSizePowerOf2 int
	MaxParallel       int
	Debug             bool
	Analyze           bool
	Absolute          bool

	// Args holds the non-flag arguments left after parsing.
	Args []string
}

func (c *Config) Load(args []string) error {
	fs := flag.NewFlagSet("c4solve", flag.ContinueOnError)
	fs.IntVar(&c.TableSizePowerOf2, "table-size-power-of-2", 23, "transposition table slot count as a power of two")
	fs.IntVar(&c.MaxParallel, "max-parallel", runtime.NumCPU(), "max concurrent workers for per-move analysis")
	fs.BoolVar(&c.Debug, "debug", false, "enable debug logging")
	fs.BoolVar(&c.Analyze, "analyze", false, "score every legal move instead of just the position")
	fs.BoolVar(&c.Absolute, "abs", false, "report the score from the first player's perspective instead of the mover's")
	err := fs.Parse(args)
	c.Args = fs.Args()
	return err
}
