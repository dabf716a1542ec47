package board

// Tile is the simulation kind of a cell.
type Tile int

const (
	Empty Tile = iota
	JumpPickup
	// JumpAura marks the 8 cells around a pickup. It is informational only.
	JumpAura
	Treasure
)

func (t Tile) String() string {
	switch t {
	case Empty:
		return "EMPTY"
	case JumpPickup:
		return "JUMP_PICKUP"
	case JumpAura:
		return "JUMP_AURA"
	case Treasure:
		return "TREASURE"
	}
	return "UNKNOWN"
}

// Glyph returns the console rune of the tile.
func (t Tile) Glyph() rune {
	switch t {
	case JumpPickup:
		return 'J'
	case JumpAura:
		return '*'
	case Treasure:
		return 'T'
	}
	return '.'
}
