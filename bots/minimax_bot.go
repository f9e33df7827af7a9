package bots

import (
	"fmt"
	"math"
	"sort"

	"go.uber.org/zap"

	"connect4/board"
)

// WinScore is returned when the side to move can complete four in a row
// with its next piece.
const WinScore = 100000

// Window bounds for a full-width root search.
const (
	NegInf = math.MinInt
	PosInf = math.MaxInt
)

type MinimaxBot struct {
	Depth     int
	Piece     board.Piece
	Evaluator PositionEvaluator
	log       *zap.SugaredLogger
	tt        *transpositionTable
	stats     SearchStats
}

// SearchStats describes the most recent ChooseMove call.
type SearchStats struct {
	Nodes     int
	CacheHits int
	CacheSize int
}

// NewMinimaxBot builds an engine that plays piece. A nil logger disables logging.
func NewMinimaxBot(piece board.Piece, depth int, log *zap.SugaredLogger) *MinimaxBot {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &MinimaxBot{
		Depth:     depth,
		Piece:     piece,
		Evaluator: DefaultEvaluator{},
		log:       log,
		tt:        newTranspositionTable(),
	}
}

func (b *MinimaxBot) Name() string {
	return fmt.Sprintf("Minimax Bot (depth %d)", b.Depth)
}

func (b *MinimaxBot) BestMove(pos board.Board) int {
	col, _ := b.ChooseMove(pos, b.Depth, NegInf, PosInf, true)
	return col
}

// ChooseMove runs a depth-limited alpha-beta search on a private copy of pos.
// maximizing selects whether the bot's own piece is the one to move. A depth
// below one only looks for an immediate win before evaluating.
// The column is NoMove when there is nothing to play.
func (b *MinimaxBot) ChooseMove(pos board.Board, depth, alpha, beta int, maximizing bool) (int, int) {
	b.stats = SearchStats{}

	mover := b.Piece
	if !maximizing {
		mover = b.Piece.Opponent()
	}
	col, score := b.search(pos, depth, alpha, beta, mover)

	b.stats.CacheSize = b.tt.len()
	b.log.Debugw("search finished",
		"bot", b.Name(),
		"column", col,
		"score", score,
		"nodes", b.stats.Nodes,
		"cache_hits", b.stats.CacheHits,
		"cache_size", b.stats.CacheSize,
	)
	return col, score
}

// Reset drops every cached result. Call it when a new game starts.
func (b *MinimaxBot) Reset() {
	b.tt.reset()
}

func (b *MinimaxBot) CacheLen() int {
	return b.tt.len()
}

func (b *MinimaxBot) Stats() SearchStats {
	return b.stats
}

// search is one step for whichever side is moving; the bot's piece maximizes.
func (b *MinimaxBot) search(pos board.Board, depth, alpha, beta int, mover board.Piece) (int, int) {
	b.stats.Nodes++
	maximizing := mover == b.Piece

	key := cacheKey{pos: pos, depth: depth, maximizing: maximizing}
	if e, ok := b.tt.lookup(key, alpha, beta); ok {
		b.stats.CacheHits++
		return e.col, e.score
	}

	cols := orderMoves(pos.LegalColumns())

	for _, col := range cols {
		child, ok := simulate(pos, col, mover)
		if ok && child.HasFourInARow(mover) {
			score := WinScore
			if !maximizing {
				score = -WinScore
			}
			b.tt.store(key, cacheEntry{col: col, score: score, flag: boundExact})
			return col, score
		}
	}

	if depth <= 0 || len(cols) == 0 {
		score := b.Evaluator.Evaluate(&pos, b.Piece)
		b.tt.store(key, cacheEntry{col: NoMove, score: score, flag: boundExact})
		return NoMove, score
	}

	alphaOrig, betaOrig := alpha, beta
	bestCol, bestScore := NoMove, PosInf
	if maximizing {
		bestScore = NegInf
	}

	for _, col := range cols {
		child, ok := simulate(pos, col, mover)
		if !ok {
			continue
		}
		_, score := b.search(child, depth-1, alpha, beta, mover.Opponent())

		if maximizing {
			if score > bestScore {
				bestCol, bestScore = col, score
			}
			alpha = max(alpha, score)
		} else {
			if score < bestScore {
				bestCol, bestScore = col, score
			}
			beta = min(beta, score)
		}
		if alpha >= beta {
			break
		}
	}

	b.tt.store(key, cacheEntry{col: bestCol, score: bestScore, flag: classify(bestScore, alphaOrig, betaOrig)})
	return bestCol, bestScore
}

// simulate drops piece into a copy of pos. ok is false for a full column.
func simulate(pos board.Board, col int, piece board.Piece) (board.Board, bool) {
	row, ok := pos.NextOpenRow(col)
	if !ok {
		return pos, false
	}
	pos.Place(row, col, piece)
	return pos, true
}

// orderMoves sorts columns by distance from the center; the sort is stable so
// equally distant columns keep their left-to-right order.
func orderMoves(cols []int) []int {
	sort.SliceStable(cols, func(i, j int) bool {
		return centerDistance(cols[i]) < centerDistance(cols[j])
	})
	return cols
}

func centerDistance(col int) int {
	d := col - board.CenterCol
	if d < 0 {
		return -d
	}
	return d
}
