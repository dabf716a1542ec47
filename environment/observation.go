package environment

import (
	"fmt"

	"treasurehunt/board"

	"github.com/google/uuid"
)

// Observation is what the agent sees after a reset or step.
type Observation struct {
	Agent          board.Coord
	Target         board.Coord
	BoardSize      int
	JumpsRemaining int
	// Walls[x][y][a] is true when action a is blocked at cell (x,y).
	Walls [][][board.NumDirections]bool
}

// WallBitmap derives the per-cell blocked directions from the wall set. Each wall sets
// one bit on either side of its edge.
func WallBitmap(b *board.Board) [][][board.NumDirections]bool {
	n := b.Size()
	bitmap := make([][][board.NumDirections]bool, n)
	for x := range bitmap {
		bitmap[x] = make([][board.NumDirections]bool, n)
	}

	for _, w := range b.Walls() {
		x, y := w.Col, w.Row
		switch w.Orientation {
		case board.Horizontal:
			bitmap[x][y][board.Down] = true
			bitmap[x][y-1][board.Up] = true
		case board.Vertical:
			bitmap[x][y][board.Left] = true
			bitmap[x-1][y][board.Right] = true
		}
	}
	return bitmap
}

// WallMask packs the four blocked bits of one cell, Right as bit 0.
func (obs *Observation) WallMask(c board.Coord) (mask uint8) {
	for a, blocked := range obs.Walls[c.X][c.Y] {
		if blocked {
			mask |= 1 << a
		}
	}
	return
}

// Outcome is what happened to the attempted move of a step.
type Outcome int

const (
	Moved Outcome = iota
	Jumped
	Blocked
)

func (o Outcome) String() string {
	switch o {
	case Moved:
		return "moved"
	case Jumped:
		return "jumped"
	case Blocked:
		return "blocked"
	}
	return fmt.Sprintf("Outcome(%d)", int(o))
}

// Info is the step metadata.
type Info struct {
	EpisodeID      uuid.UUID
	StepCount      int
	Outcome        Outcome
	CollectedToken bool
}

// StepResult bundles the outputs of a step.
type StepResult struct {
	Observation Observation
	Reward      float64
	// Terminated is set when the treasure is reached.
	Terminated bool
	// Truncated is set when the step budget runs out first.
	Truncated bool
	Info      Info
}

// Done reports whether the episode ended on this step.
func (r StepResult) Done() bool {
	return r.Terminated || r.Truncated
}
