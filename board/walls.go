package board

import (
	"fmt"
	"sort"
)

// Orientation of a wall segment.
type Orientation int

const (
	// Horizontal walls separate a cell from its DOWN neighbor.
	Horizontal Orientation = iota
	// Vertical walls separate a cell from its LEFT neighbor.
	Vertical
)

func (o Orientation) String() string {
	if o == Horizontal {
		return "h"
	}
	return "v"
}

// Wall identifies one edge blocker. Row is a Y coordinate and Col an X coordinate.
//
// Walls are stored once and keyed from one side only:
//   - Horizontal{Row: y, Col: x} is the edge between (x, y) and (x, y-1).
//   - Vertical{Row: y, Col: x} is the edge between (x-1, y) and (x, y).
//
// Rows and columns of addressable slots run from 1 to n-1, so the wrapping edges of the
// torus are never walled.
type Wall struct {
	Orientation Orientation
	Row, Col    int
}

func (w Wall) String() string {
	return fmt.Sprintf("%s(%d,%d)", w.Orientation, w.Row, w.Col)
}

// WallSlots enumerates every addressable wall slot of an n×n board, in a stable order.
func WallSlots(n int) []Wall {
	slots := make([]Wall, 0, NumWallSlots(n))
	for row := 1; row < n; row++ {
		for col := 0; col < n; col++ {
			slots = append(slots, Wall{Orientation: Horizontal, Row: row, Col: col})
		}
	}
	for row := 0; row < n; row++ {
		for col := 1; col < n; col++ {
			slots = append(slots, Wall{Orientation: Vertical, Row: row, Col: col})
		}
	}
	return slots
}

// NumWallSlots is the number of distinct addressable wall slots on an n×n board:
// (n-1)×n horizontal plus n×(n-1) vertical.
func NumWallSlots(n int) int {
	return 2 * n * (n - 1)
}

// Blocked reports whether a move from one cell to a unit-adjacent cell crosses a wall.
// The direction is recovered from the wrapped delta:
//   - down checks the horizontal wall keyed at from,
//   - up checks the horizontal wall keyed at to,
//   - right checks the vertical wall keyed at column from.X+1,
//   - left checks the vertical wall keyed at from.
//
// Pairs that are not unit moves have no matching key and report false.
func (b *Board) Blocked(from, to Coord) bool {
	dx, okx := unitDelta(to.X-from.X, b.n)
	dy, oky := unitDelta(to.Y-from.Y, b.n)
	if !okx || !oky || (dx == 0) == (dy == 0) {
		return false
	}

	var key Wall
	switch {
	case dy == -1:
		key = Wall{Orientation: Horizontal, Row: from.Y, Col: from.X}
	case dy == 1:
		key = Wall{Orientation: Horizontal, Row: to.Y, Col: to.X}
	case dx == 1:
		key = Wall{Orientation: Vertical, Row: from.Y, Col: from.X + 1}
	default:
		key = Wall{Orientation: Vertical, Row: from.Y, Col: from.X}
	}
	return b.HasWall(key)
}

// BlockedDir reports whether moving from c in direction d crosses a wall.
func (b *Board) BlockedDir(c Coord, d Direction) bool {
	return b.Blocked(c, c.Step(d, b.n))
}

// HasWall reports raw slot membership.
func (b *Board) HasWall(w Wall) bool {
	_, ok := b.walls[w]
	return ok
}

// Walls returns the wall set ordered by orientation, row, then column.
func (b *Board) Walls() []Wall {
	walls := make([]Wall, 0, len(b.walls))
	for w := range b.walls {
		walls = append(walls, w)
	}
	sort.Slice(walls, func(i, j int) bool {
		wi, wj := walls[i], walls[j]
		if wi.Orientation != wj.Orientation {
			return wi.Orientation < wj.Orientation
		}
		if wi.Row != wj.Row {
			return wi.Row < wj.Row
		}
		return wi.Col < wj.Col
	})
	return walls
}

// NumWalls returns the size of the wall set.
func (b *Board) NumWalls() int {
	return len(b.walls)
}
