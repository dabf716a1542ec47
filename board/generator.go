package board

import (
	"fmt"

	"golang.org/x/exp/rand"
)

// MaxPlacementAttempts bounds the random draws made for a single pickup or treasure
// before falling back to a scan of the remaining cells.
const MaxPlacementAttempts = 1000

// Start is where every player begins; the treasure is never placed there.
var Start = Coord{X: 0, Y: 0}

// Params are the generation parameters of a board.
type Params struct {
	Size        int
	JumpCount   int
	WallDensity float64
}

// Validate reports the first invalid parameter as a *ConfigurationError.
func (p Params) Validate() error {
	if p.Size < MinSize {
		return &ConfigurationError{Param: "size", Value: p.Size, Reason: "must be at least 5"}
	}
	if p.JumpCount < 0 {
		return &ConfigurationError{Param: "jump count", Value: p.JumpCount, Reason: "must not be negative"}
	}
	if p.WallDensity < 0 || p.WallDensity >= 1 {
		return &ConfigurationError{Param: "wall density", Value: p.WallDensity, Reason: "must be in [0,1)"}
	}
	return nil
}

// WallBudget is floor(n² × density), clamped to the number of wall slots.
func (p Params) WallBudget() int {
	budget := int(float64(p.Size*p.Size) * p.WallDensity)
	if slots := NumWallSlots(p.Size); budget > slots {
		budget = slots
	}
	return budget
}

// Generate builds a random board: jump pickups and their aura first, then walls, then the
// treasure on an empty cell. All randomness is drawn from rng.
func Generate(rng *rand.Rand, params Params) (*Board, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}

	b := newBoard(params.Size)
	if err := b.insertPickups(rng, params.JumpCount); err != nil {
		return nil, err
	}
	b.insertWalls(rng, params.WallBudget())
	if err := b.insertTreasure(rng); err != nil {
		return nil, err
	}
	return b, nil
}

func (b *Board) insertPickups(rng *rand.Rand, count int) error {
	notPickup := func(c Coord) bool { return b.Tile(c) != JumpPickup }
	for i := 0; i < count; i++ {
		c, err := b.sampleCell(rng, notPickup)
		if err != nil {
			return fmt.Errorf("placing jump pickup %d of %d: %w", i+1, count, err)
		}
		b.colorInPickup(c)
	}
	return nil
}

// insertWalls selects budget distinct slots uniformly without replacement.
func (b *Board) insertWalls(rng *rand.Rand, budget int) {
	slots := WallSlots(b.n)
	// Partial Fisher-Yates: the first budget entries become a uniform sample.
	for i := 0; i < budget; i++ {
		j := i + rng.Intn(len(slots)-i)
		slots[i], slots[j] = slots[j], slots[i]
		b.walls[slots[i]] = struct{}{}
	}
}

func (b *Board) insertTreasure(rng *rand.Rand) error {
	c, err := b.sampleCell(rng, func(c Coord) bool {
		return b.Tile(c) == Empty && c != Start
	})
	if err != nil {
		return fmt.Errorf("placing treasure: %w", err)
	}
	b.WithTreasure(c)
	return nil
}

// sampleCell draws uniformly random cells until one satisfies eligible. After
// MaxPlacementAttempts draws it scans all cells in random order, and fails with
// ErrGenerationExhausted when none is eligible.
func (b *Board) sampleCell(rng *rand.Rand, eligible func(Coord) bool) (Coord, error) {
	for attempt := 0; attempt < MaxPlacementAttempts; attempt++ {
		c := Coord{X: rng.Intn(b.n), Y: rng.Intn(b.n)}
		if eligible(c) {
			return c, nil
		}
	}

	for _, i := range rng.Perm(b.n * b.n) {
		c := Coord{X: i / b.n, Y: i % b.n}
		if eligible(c) {
			return c, nil
		}
	}
	return Coord{}, fmt.Errorf("no eligible cell on %dx%d board: %w", b.n, b.n, ErrGenerationExhausted)
}
