package environment

import (
	"treasurehunt/board"

	"golang.org/x/exp/rand"
)

// Generator produces the board of a new episode from the environment's random source.
type Generator interface {
	Generate(rng *rand.Rand) (*board.Board, error)
}

// RandomGenerator draws the jump count and wall density of each board from the
// config's ranges.
type RandomGenerator struct {
	Config Config
}

func (g RandomGenerator) Generate(rng *rand.Rand) (*board.Board, error) {
	cfg := g.Config
	jumps := cfg.MinJumps + rng.Intn(cfg.MaxJumps-cfg.MinJumps+1)
	density := cfg.MinDensity + rng.Float64()*(cfg.MaxDensity-cfg.MinDensity)
	return board.Generate(rng, board.Params{
		Size:        cfg.Size,
		JumpCount:   jumps,
		WallDensity: density,
	})
}

// FixedGenerator hands out copies of a prebuilt layout and ignores the random source.
type FixedGenerator struct {
	Layout *board.Board
}

func (g FixedGenerator) Generate(_ *rand.Rand) (*board.Board, error) {
	return g.Layout.Clone(), nil
}
