// Package player holds the position and jump tokens of the treasure hunter.
package player

import "treasurehunt/board"

// Player is a plain data holder mutated by the environment every step. It is not safe
// for concurrent use.
type Player struct {
	pos    board.Coord
	tokens int
}

// New returns a player at the start cell with no tokens.
func New() *Player {
	return &Player{pos: board.Start}
}

func (p *Player) Position() board.Coord {
	return p.pos
}

func (p *Player) MoveTo(c board.Coord) {
	p.pos = c
}

func (p *Player) Tokens() int {
	return p.tokens
}

func (p *Player) HasToken() bool {
	return p.tokens > 0
}

func (p *Player) AddToken() {
	p.tokens++
}

// UseToken spends one token. At zero tokens it does nothing and returns false.
func (p *Player) UseToken() bool {
	if !p.HasToken() {
		return false
	}
	p.tokens--
	return true
}
