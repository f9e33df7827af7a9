package bots

import "connect4/board"

type DefaultEvaluator struct{}

const (
	CenterWeight      = 6
	FourWeight        = 100000
	ThreeWeight       = 100
	TwoWeight         = 10
	OpponentThreeCost = 120 // larger than ThreeWeight so blocking wins ties
)

// Evaluate is the center bonus plus the sum over every window.
func (e DefaultEvaluator) Evaluate(b *board.Board, perspective board.Piece) int {
	score := e.centerControl(b, perspective)

	opponent := perspective.Opponent()
	b.Windows(func(cells [board.WindowLen]board.Piece) bool {
		score += e.scoreWindow(cells, perspective, opponent)
		return true
	})
	return score
}

func (e DefaultEvaluator) centerControl(b *board.Board, perspective board.Piece) int {
	n := 0
	for r := 0; r < board.Rows; r++ {
		if b[r][board.CenterCol] == perspective {
			n++
		}
	}
	return n * CenterWeight
}

func (e DefaultEvaluator) scoreWindow(cells [board.WindowLen]board.Piece, own, opponent board.Piece) int {
	var mine, theirs, empty int
	for _, p := range cells {
		switch p {
		case own:
			mine++
		case opponent:
			theirs++
		default:
			empty++
		}
	}

	score := 0
	switch {
	case mine == board.WindowLen:
		score += FourWeight
	case mine == board.WindowLen-1 && empty == 1:
		score += ThreeWeight
	case mine == 2 && empty == 2:
		score += TwoWeight
	}

	if theirs == board.WindowLen-1 && empty == 1 {
		score -= OpponentThreeCost
	}
	return score
}
