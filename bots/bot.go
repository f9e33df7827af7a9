// bot.go
package bots

import (
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"connect4/board"
)

// NoMove is returned when a bot has no legal column to play.
const NoMove = -1

// ConnectBot is implemented by every computer opponent.
type ConnectBot interface {
	// BestMove returns a legal column for the bot's own piece, or NoMove.
	BestMove(b board.Board) int
	Name() string
}

// PositionEvaluator scores a board from one player's point of view.
type PositionEvaluator interface {
	Evaluate(b *board.Board, perspective board.Piece) int
}

var ErrUnknownBot = errors.New("unknown bot")

// Bot names accepted by NewBot.
const (
	MinimaxName = "minimax"
	NewbornName = "newborn"
	RandomName  = "random"
)

// Constructor builds a bot for one side. depth is only used by the minimax bot.
type Constructor func(piece board.Piece, depth int, log *zap.SugaredLogger) ConnectBot

var constructors = map[string]Constructor{
	MinimaxName: func(piece board.Piece, depth int, log *zap.SugaredLogger) ConnectBot {
		return NewMinimaxBot(piece, depth, log)
	},
	NewbornName: func(board.Piece, int, *zap.SugaredLogger) ConnectBot {
		return NewNewbornBot()
	},
	RandomName: func(board.Piece, int, *zap.SugaredLogger) ConnectBot {
		return NewRandomBot()
	},
}

// Names lists every name accepted by NewBot and Lookup.
func Names() []string {
	return []string{MinimaxName, NewbornName, RandomName}
}

// Lookup returns the constructor registered under name. Case and surrounding
// spaces are ignored.
func Lookup(name string) (Constructor, error) {
	newBot, ok := constructors[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownBot, name)
	}
	return newBot, nil
}

// NewBot builds a bot by its configuration name.
func NewBot(name string, piece board.Piece, depth int, log *zap.SugaredLogger) (ConnectBot, error) {
	newBot, err := Lookup(name)
	if err != nil {
		return nil, err
	}
	return newBot(piece, depth, log), nil
}
