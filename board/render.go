package board

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// Overlay holds render-only markers drawn over the grid. It is never part of
// simulation state.
type Overlay struct {
	Player    Coord
	HasPlayer bool
}

// PlayerAt returns an overlay marking the player at c.
func PlayerAt(c Coord) Overlay {
	return Overlay{Player: c, HasPlayer: true}
}

// PlayerGlyph is the console marker of the player.
const PlayerGlyph = 'P'

// Render prints the board top row first, so (0,0) lands bottom-left. Walls are drawn as
// '|' and '---'; the wrapping border is drawn with ':' and '...'.
func Render(w io.Writer, b *Board, overlay Overlay) error {
	bw := bufio.NewWriter(w)
	border := "+" + strings.Repeat("...+", b.n) + "\n"
	bw.WriteString(border)

	for _, y := range Rev(b.n) {
		bw.WriteByte(':')
		for x := 0; x < b.n; x++ {
			c := Coord{X: x, Y: y}
			if x > 0 {
				if b.HasWall(Wall{Orientation: Vertical, Row: y, Col: x}) {
					bw.WriteByte('|')
				} else {
					bw.WriteByte(' ')
				}
			}
			glyph := b.Tile(c).Glyph()
			if overlay.HasPlayer && overlay.Player == c {
				glyph = PlayerGlyph
			}
			fmt.Fprintf(bw, " %c ", glyph)
		}
		bw.WriteString(":\n")

		if y == 0 {
			bw.WriteString(border)
			continue
		}
		bw.WriteByte('+')
		for x := 0; x < b.n; x++ {
			if b.HasWall(Wall{Orientation: Horizontal, Row: y, Col: x}) {
				bw.WriteString("---+")
			} else {
				bw.WriteString("   +")
			}
		}
		bw.WriteByte('\n')
	}
	return bw.Flush()
}

// ShowStats prints the board's statistics followed by the grid.
func ShowStats(w io.Writer, b *Board) error {
	stats := b.Stats()
	if _, err := fmt.Fprintf(w,
		"Size: %dx%d\nJump Tokens: %d\nWalls: %d\nBoard Grid:\n",
		stats.Size, stats.Size, stats.Pickups, stats.Walls,
	); err != nil {
		return err
	}
	return Render(w, b, Overlay{})
}

// Rev returns reversed indices of a slice, e.g. for ranging over rows top down.
func Rev(length int) []int {
	indices := make([]int, length)
	for i := 0; i < length; i++ {
		indices[i] = length - i - 1
	}
	return indices
}
