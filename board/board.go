/*
Package board implements the treasure hunt maze: an n×n toroidal grid of tiles, a set of
walls between adjacent cells, and a single treasure tile.

Tiles are cell-keyed and walls are edge-keyed, so the two never conflict. The grid only
changes after generation when a jump pickup is consumed; walls never change.

A Board is not safe for concurrent use. The environment that owns it mutates it between
steps, and renderers must read it only between steps, or under external synchronization.
*/
package board

// MinSize is the smallest supported board.
const MinSize = 5

// Board is the grid, its walls and the treasure location.
type Board struct {
	n     int
	grid  [][]Tile // indexed [x][y]
	walls map[Wall]struct{}
	// The target location, recorded at generation.
	treasure    Coord
	hasTreasure bool
}

// NewEmpty returns an n×n board with no walls, pickups or treasure. It is the starting
// point of generation, and of fixed layouts built with the With* methods.
func NewEmpty(n int) (*Board, error) {
	if n < MinSize {
		return nil, &ConfigurationError{Param: "size", Value: n, Reason: "must be at least 5"}
	}
	return newBoard(n), nil
}

func newBoard(n int) *Board {
	grid := make([][]Tile, n)
	for x := range grid {
		grid[x] = make([]Tile, n)
	}
	return &Board{
		n:     n,
		grid:  grid,
		walls: map[Wall]struct{}{},
	}
}

// WithTreasure moves the treasure to c. Builder for fixed layouts; not for use during an episode.
func (b *Board) WithTreasure(c Coord) *Board {
	c = b.Wrap(c)
	if b.hasTreasure {
		b.grid[b.treasure.X][b.treasure.Y] = Empty
	}
	b.setTile(c, Treasure)
	b.treasure = c
	b.hasTreasure = true
	return b
}

// WithPickup places a jump pickup and its aura at c. Builder for fixed layouts.
func (b *Board) WithPickup(c Coord) *Board {
	b.colorInPickup(b.Wrap(c))
	return b
}

// WithWall adds a wall if it addresses a valid slot; invalid slots are ignored.
// Builder for fixed layouts.
func (b *Board) WithWall(w Wall) *Board {
	if b.validSlot(w) {
		b.walls[w] = struct{}{}
	}
	return b
}

func (b *Board) validSlot(w Wall) bool {
	switch w.Orientation {
	case Horizontal:
		return w.Row >= 1 && w.Row < b.n && w.Col >= 0 && w.Col < b.n
	case Vertical:
		return w.Row >= 0 && w.Row < b.n && w.Col >= 1 && w.Col < b.n
	}
	return false
}

// Size returns n.
func (b *Board) Size() int {
	return b.n
}

// Wrap folds c onto the torus.
func (b *Board) Wrap(c Coord) Coord {
	return Coord{X: wrap(c.X, b.n), Y: wrap(c.Y, b.n)}
}

// Tile returns the tile at c.
func (b *Board) Tile(c Coord) Tile {
	c = b.Wrap(c)
	return b.grid[c.X][c.Y]
}

func (b *Board) setTile(c Coord, t Tile) {
	b.grid[c.X][c.Y] = t
}

// Treasure returns the target location.
func (b *Board) Treasure() Coord {
	return b.treasure
}

// neighbors returns the 8 toroidal neighbors of c.
func (b *Board) neighbors(c Coord) []Coord {
	ns := make([]Coord, 0, 8)
	for dx := -1; dx <= 1; dx++ {
		for dy := -1; dy <= 1; dy++ {
			if dx == 0 && dy == 0 {
				continue
			}
			ns = append(ns, b.Wrap(Coord{X: c.X + dx, Y: c.Y + dy}))
		}
	}
	return ns
}

// colorInPickup marks c as a pickup and its neighbors as aura. Last write wins, so an
// aura can overwrite an earlier pickup.
func (b *Board) colorInPickup(c Coord) {
	b.setTile(c, JumpPickup)
	for _, nb := range b.neighbors(c) {
		b.setTile(nb, JumpAura)
	}
}

// Consume clears the pickup at c and its aura back to Empty, returning false if c holds
// no pickup. Neighboring treasure or pickup tiles are left in place.
func (b *Board) Consume(c Coord) bool {
	c = b.Wrap(c)
	if b.Tile(c) != JumpPickup {
		return false
	}
	b.setTile(c, Empty)
	for _, nb := range b.neighbors(c) {
		if b.Tile(nb) == JumpAura {
			b.setTile(nb, Empty)
		}
	}
	return true
}

// Clone returns a deep copy.
func (b *Board) Clone() *Board {
	cp := newBoard(b.n)
	for x := range b.grid {
		copy(cp.grid[x], b.grid[x])
	}
	for w := range b.walls {
		cp.walls[w] = struct{}{}
	}
	cp.treasure = b.treasure
	cp.hasTreasure = b.hasTreasure
	return cp
}

// Visit calls fn for every cell, column by column.
func (b *Board) Visit(fn func(c Coord, t Tile)) {
	for x := range b.grid {
		for y := range b.grid[x] {
			fn(Coord{X: x, Y: y}, b.grid[x][y])
		}
	}
}

// Count returns the number of cells holding t.
func (b *Board) Count(t Tile) (count int) {
	b.Visit(func(_ Coord, tile Tile) {
		if tile == t {
			count++
		}
	})
	return
}

// Stats summarizes a board for display.
type Stats struct {
	Size    int
	Pickups int
	Walls   int
}

// Stats returns the board's size, remaining pickups and wall count.
func (b *Board) Stats() Stats {
	return Stats{
		Size:    b.n,
		Pickups: b.Count(JumpPickup),
		Walls:   len(b.walls),
	}
}
