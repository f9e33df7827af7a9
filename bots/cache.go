package bots

import "connect4/board"

type boundFlag uint8

const (
	boundExact boundFlag = iota
	boundLower           // true score >= stored score
	boundUpper           // true score <= stored score
)

// cacheKey holds the whole grid, so two different positions can never share
// an entry.
type cacheKey struct {
	pos        board.Board
	depth      int
	maximizing bool
}

type cacheEntry struct {
	col   int
	score int
	flag  boundFlag
}

// transpositionTable lives as long as the bot that owns it. It is not safe
// for concurrent use.
type transpositionTable struct {
	entries map[cacheKey]cacheEntry
}

func newTranspositionTable() *transpositionTable {
	return &transpositionTable{entries: make(map[cacheKey]cacheEntry, 1<<12)}
}

// lookup returns an entry only when it settles the (alpha, beta) window.
func (tt *transpositionTable) lookup(key cacheKey, alpha, beta int) (cacheEntry, bool) {
	e, ok := tt.entries[key]
	if !ok {
		return cacheEntry{}, false
	}
	switch e.flag {
	case boundExact:
		return e, true
	case boundLower:
		return e, e.score >= beta
	case boundUpper:
		return e, e.score <= alpha
	}
	return cacheEntry{}, false
}

func (tt *transpositionTable) store(key cacheKey, e cacheEntry) {
	tt.entries[key] = e
}

func (tt *transpositionTable) reset() {
	clear(tt.entries)
}

func (tt *transpositionTable) len() int {
	return len(tt.entries)
}

// classify turns a fail-soft result into a bound, given the window the node
// was entered with.
func classify(score, alpha, beta int) boundFlag {
	switch {
	case score <= alpha:
		return boundUpper
	case score >= beta:
		return boundLower
	default:
		return boundExact
	}
}
