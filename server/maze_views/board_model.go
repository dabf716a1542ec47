// maze_views contains views derived from the Board view-model.
package maze_views

import (
	"fmt"

	"treasurehunt/board"
	"treasurehunt/server/session"
)

// CELL_DIM is the width and height of a cell in pixels.
const CELL_DIM = 48

// Board flattens a session frame into values directly usable by the view templates.
// Rows are flipped per the svg y-axis, so Cells[0] is the top row and board row 0 is drawn
// at the bottom, matching the console.
type Board struct {
	SessionID string
	Size      int
	Width     int
	Cells     [][]Cell
	// Walls has one segment per addressable slot; absent walls are hidden.
	Walls   []WallSegment
	PlayerX int
	PlayerY int
	Status  string
	Message string
}

// Cell is one svg grid square. X and Y are the board coordinate, Px and Py its top left
// corner in pixels.
type Cell struct {
	X, Y   int
	Px, Py int
	Fill   string
}

func (c Cell) Id() string {
	return fmt.Sprintf("cell-%d-%d", c.X, c.Y)
}

type WallSegment struct {
	Id             string
	X1, Y1, X2, Y2 int
	Visible        bool
}

// Visibility is the svg visibility attribute of the segment.
func (ws WallSegment) Visibility() string {
	if ws.Visible {
		return "visible"
	}
	return "hidden"
}

// Convert builds the view-model of a frame.
func Convert(frame session.Frame) (vm Board) {
	snap := frame.Snapshot
	b := snap.Board
	n := b.Size()
	vm = Board{
		SessionID: frame.SessionID.String(),
		Size:      n,
		Width:     n * CELL_DIM,
		Cells:     make([][]Cell, n),
		Message:   frame.Message,
		Status: fmt.Sprintf("Board: %dx%d | Jumps: %d | Position: %v | Steps: %d/%d | Return: %.0f",
			n, n, snap.Tokens, snap.Player, snap.Steps, snap.MaxSteps, frame.Return),
	}

	for row, y := range board.Rev(n) {
		vm.Cells[row] = make([]Cell, n)
		for x := 0; x < n; x++ {
			c := board.Coord{X: x, Y: y}
			vm.Cells[row][x] = Cell{
				X:    x,
				Y:    y,
				Px:   x * CELL_DIM,
				Py:   row * CELL_DIM,
				Fill: getFill(b.Tile(c)),
			}
		}
	}

	for _, w := range board.WallSlots(n) {
		vm.Walls = append(vm.Walls, wallSegment(w, n, b.HasWall(w)))
	}

	vm.PlayerX = snap.Player.X*CELL_DIM + CELL_DIM/2
	vm.PlayerY = (n-1-snap.Player.Y)*CELL_DIM + CELL_DIM/2
	return
}

// wallSegment places a wall on the shared edge of its two cells, in svg pixels.
func wallSegment(w board.Wall, n int, visible bool) (seg WallSegment) {
	seg = WallSegment{
		Id:      fmt.Sprintf("wall-%s-%d-%d", w.Orientation, w.Row, w.Col),
		Visible: visible,
	}
	switch w.Orientation {
	case board.Horizontal:
		// The bottom edge of cell (Col, Row).
		seg.X1, seg.X2 = w.Col*CELL_DIM, (w.Col+1)*CELL_DIM
		seg.Y1 = (n - w.Row) * CELL_DIM
		seg.Y2 = seg.Y1
	case board.Vertical:
		// The left edge of cell (Col, Row).
		seg.X1 = w.Col * CELL_DIM
		seg.X2 = seg.X1
		seg.Y1, seg.Y2 = (n-1-w.Row)*CELL_DIM, (n-w.Row)*CELL_DIM
	}
	return
}

func getFill(t board.Tile) (fill string) {
	switch t {
	case board.Empty:
		fill = "#4A90E2"
	case board.JumpAura:
		fill = "#F5D547"
	case board.JumpPickup:
		fill = "#FF8C42"
	case board.Treasure:
		fill = "#2ECC71"
	}
	return
}
