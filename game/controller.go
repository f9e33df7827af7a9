// Package game sequences a human-versus-bot match on a single board.
package game

import (
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"connect4/board"
	"connect4/bots"
)

var (
	ErrNotYourTurn = errors.New("not your turn")
	ErrGameOver    = errors.New("game is over")
	ErrNoBotMove   = errors.New("bot returned no playable column")
	ErrNoBot       = errors.New("no bot configured")
)

// Move is one applied drop.
type Move struct {
	Piece board.Piece
	Col   int
	Row   int
}

// Outcome of the current game. A finished game with no winner is a draw.
type Outcome struct {
	Over   bool
	Winner board.Piece
}

func (o Outcome) Draw() bool {
	return o.Over && o.Winner == board.Empty
}

func (o Outcome) String() string {
	switch {
	case !o.Over:
		return "in progress"
	case o.Winner == board.Empty:
		return "draw"
	default:
		return o.Winner.String() + " wins"
	}
}

type Options struct {
	Bot bots.ConnectBot
	// BotPiece is the side the bot plays. Player1 always moves first, so
	// Player1 here means the bot opens the game. Defaults to Player2.
	BotPiece board.Piece
	Log      *zap.SugaredLogger
}

// Controller owns the live board. It is safe for concurrent use: the window
// loop reads the board while a background goroutine runs PlayBot.
type Controller struct {
	botMu sync.Mutex // serializes searches, the bot is not concurrency safe
	bot   bots.ConnectBot

	mu       sync.Mutex
	id       uuid.UUID
	pos      board.Board
	turn     board.Piece
	human    board.Piece
	botPiece board.Piece
	moves    []Move
	outcome  Outcome

	baseLog *zap.SugaredLogger
	log     *zap.SugaredLogger
}

func New(opts Options) *Controller {
	if opts.Log == nil {
		opts.Log = zap.NewNop().Sugar()
	}
	if opts.BotPiece != board.Player1 {
		opts.BotPiece = board.Player2
	}
	c := &Controller{
		bot:      opts.Bot,
		botPiece: opts.BotPiece,
		human:    opts.BotPiece.Opponent(),
		baseLog:  opts.Log,
	}
	c.mu.Lock()
	c.newGameLocked()
	c.mu.Unlock()
	return c
}

// Reset starts a new game with a fresh id and clears the bot's cache.
// It waits for a running PlayBot to finish.
func (c *Controller) Reset() {
	c.botMu.Lock()
	defer c.botMu.Unlock()
	if r, ok := c.bot.(interface{ Reset() }); ok {
		r.Reset()
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.newGameLocked()
}

func (c *Controller) newGameLocked() {
	c.id = uuid.New()
	c.pos = board.New()
	c.turn = board.Player1
	c.moves = c.moves[:0]
	c.outcome = Outcome{}
	c.log = c.baseLog.With("game_id", c.id.String())

	botName := "none"
	if c.bot != nil {
		botName = c.bot.Name()
	}
	c.log.Infow("new game", "bot", botName, "bot_piece", c.botPiece.String())
}

// SetBot replaces the opponent. The board and turn are kept.
func (c *Controller) SetBot(bot bots.ConnectBot) {
	c.botMu.Lock()
	defer c.botMu.Unlock()
	c.bot = bot

	c.mu.Lock()
	defer c.mu.Unlock()
	c.log.Infow("bot changed", "bot", bot.Name())
}

func (c *Controller) Bot() bots.ConnectBot {
	c.botMu.Lock()
	defer c.botMu.Unlock()
	return c.bot
}

// PlayHuman drops the human's piece into col.
func (c *Controller) PlayHuman(col int) (Move, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.outcome.Over {
		return Move{}, ErrGameOver
	}
	if c.turn != c.human {
		return Move{}, ErrNotYourTurn
	}
	return c.applyLocked(col, c.human)
}

// PlayBot asks the bot for a column and applies it. The board is not locked
// during the search.
func (c *Controller) PlayBot() (Move, error) {
	c.botMu.Lock()
	defer c.botMu.Unlock()
	if c.bot == nil {
		return Move{}, ErrNoBot
	}

	c.mu.Lock()
	if c.outcome.Over {
		c.mu.Unlock()
		return Move{}, ErrGameOver
	}
	if c.turn != c.botPiece {
		c.mu.Unlock()
		return Move{}, ErrNotYourTurn
	}
	pos := c.pos
	c.mu.Unlock()

	// Only PlayHuman and Reset change the board. PlayHuman is rejected on
	// the bot's turn and Reset waits on botMu, so pos is still current below.
	col := c.bot.BestMove(pos)

	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.pos.IsLegal(col) {
		c.log.Warnw("bot chose an unplayable column", "bot", c.bot.Name(), "column", col)
		return Move{}, fmt.Errorf("%w: %s chose %d", ErrNoBotMove, c.bot.Name(), col)
	}
	return c.applyLocked(col, c.botPiece)
}

func (c *Controller) applyLocked(col int, p board.Piece) (Move, error) {
	row, err := c.pos.Drop(col, p)
	if err != nil {
		return Move{}, err
	}
	m := Move{Piece: p, Col: col, Row: row}
	c.moves = append(c.moves, m)
	c.log.Infow("move", "piece", p.String(), "column", col, "row", row, "ply", len(c.moves))

	switch {
	case c.pos.HasFourInARow(p):
		c.outcome = Outcome{Over: true, Winner: p}
	case c.pos.IsTerminal():
		c.outcome = Outcome{Over: true}
	default:
		c.turn = p.Opponent()
		return m, nil
	}
	c.log.Infow("game over", "outcome", c.outcome.String(), "moves", len(c.moves))
	return m, nil
}

// Board returns a copy of the live board.
func (c *Controller) Board() board.Board {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.pos
}

// Turn is the piece to move next. It does not change once the game is over.
func (c *Controller) Turn() board.Piece {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.turn
}

// BotToMove reports whether PlayBot would be accepted now.
func (c *Controller) BotToMove() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return !c.outcome.Over && c.turn == c.botPiece
}

func (c *Controller) Outcome() Outcome {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.outcome
}

func (c *Controller) GameID() uuid.UUID {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.id
}

// Moves returns a copy of the move log.
func (c *Controller) Moves() []Move {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]Move(nil), c.moves...)
}

func (c *Controller) HumanPiece() board.Piece { return c.human }

func (c *Controller) BotPiece() board.Piece { return c.botPiece }
