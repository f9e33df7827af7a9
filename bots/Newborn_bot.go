package bots

import "connect4/board"

// NewbornBot always plays the leftmost open column.
type NewbornBot struct{}

func NewNewbornBot() *NewbornBot {
	return &NewbornBot{}
}

func (b *NewbornBot) BestMove(pos board.Board) int {
	cols := pos.LegalColumns()
	if len(cols) > 0 {
		return cols[0]
	}
	return NoMove
}

func (b *NewbornBot) Name() string {
	return "Newborn"
}
