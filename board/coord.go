package board

import "fmt"

// Coord is a cell position on the torus. The orientation is cartesian: (0,0) is the
// bottom-left cell when the board is printed, X grows rightward and Y grows upward.
type Coord struct {
	X, Y int
}

func (c Coord) String() string {
	return fmt.Sprintf("(%d,%d)", c.X, c.Y)
}

// Direction is one of the four unit moves. The values match the environment's
// discrete action indices.
type Direction int

const (
	Right Direction = iota
	Up
	Left
	Down
)

// NumDirections is the size of the action space.
const NumDirections = 4

var directionNames = [NumDirections]string{"RIGHT", "UP", "LEFT", "DOWN"}

func (d Direction) String() string {
	if !d.Valid() {
		return fmt.Sprintf("Direction(%d)", int(d))
	}
	return directionNames[d]
}

// Valid reports whether d is one of the four unit moves.
func (d Direction) Valid() bool {
	return d >= Right && d <= Down
}

// Delta returns the unit displacement of d.
func (d Direction) Delta() (dx, dy int) {
	switch d {
	case Right:
		return 1, 0
	case Up:
		return 0, 1
	case Left:
		return -1, 0
	case Down:
		return 0, -1
	}
	return 0, 0
}

// Inverse returns the direction that undoes d.
func (d Direction) Inverse() Direction {
	return (d + 2) % NumDirections
}

// Step returns the neighbor of c in direction d on an n×n torus.
func (c Coord) Step(d Direction, n int) Coord {
	dx, dy := d.Delta()
	return Coord{X: wrap(c.X+dx, n), Y: wrap(c.Y+dy, n)}
}

// wrap folds i into [0,n).
func wrap(i, n int) int {
	return ((i % n) + n) % n
}

// unitDelta folds a raw coordinate difference on an n-torus into {-1,0,1}.
// Any other distance is returned as 0 with ok=false.
func unitDelta(d, n int) (unit int, ok bool) {
	switch wrap(d, n) {
	case 0:
		return 0, true
	case 1:
		return 1, true
	case n - 1:
		return -1, true
	}
	return 0, false
}
