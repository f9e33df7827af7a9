package bots

import (
	"math/rand"
	"sync"
	"time"

	"connect4/board"
)

type RandomBot struct {
	mu  sync.Mutex
	rng *rand.Rand
}

func NewRandomBot() *RandomBot {
	return NewSeededRandomBot(time.Now().UnixNano())
}

// NewSeededRandomBot gives a reproducible sequence of moves.
func NewSeededRandomBot(seed int64) *RandomBot {
	return &RandomBot{rng: rand.New(rand.NewSource(seed))}
}

func (b *RandomBot) BestMove(pos board.Board) int {
	cols := pos.LegalColumns()
	if len(cols) == 0 {
		return NoMove
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	return cols[b.rng.Intn(len(cols))]
}

func (b *RandomBot) Name() string {
	return "Random Bot"
}
