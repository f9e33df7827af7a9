// Package arena plays bots against each other and tallies the results.
package arena

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"connect4/board"
	"connect4/bots"
)

var (
	ErrIllegalMove = errors.New("bot played an illegal move")
	ErrBadSetup    = errors.New("invalid arena setup")
)

// Factory builds a fresh bot for one game. Every game gets its own bots, so
// bots never need to be safe for concurrent use.
type Factory func(piece board.Piece) bots.ConnectBot

type Setup struct {
	A, B    Factory
	Games   int
	Workers int
	Log     *zap.SugaredLogger
}

// Result of a single game. A moves first in even games.
type Result struct {
	Index  int
	AFirst bool
	Winner board.Piece
	Plies  int
}

// AWon reports whether bot A won this game.
func (r Result) AWon() bool {
	if r.Winner == board.Empty {
		return false
	}
	return (r.Winner == board.Player1) == r.AFirst
}

type Stats struct {
	Games          int
	AWins          int
	BWins          int
	Draws          int
	FirstMoverWins int
	Plies          int
	Results        []Result
}

// Run plays s.Games games on at most s.Workers goroutines.
func Run(ctx context.Context, s Setup) (Stats, error) {
	if s.A == nil || s.B == nil {
		return Stats{}, fmt.Errorf("%w: both bots are required", ErrBadSetup)
	}
	if s.Games < 1 {
		return Stats{}, fmt.Errorf("%w: games = %d", ErrBadSetup, s.Games)
	}
	if s.Workers < 1 {
		s.Workers = 1
	}
	if s.Log == nil {
		s.Log = zap.NewNop().Sugar()
	}

	results := make([]Result, s.Games)
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(s.Workers)
	for i := 0; i < s.Games; i++ {
		i := i
		g.Go(func() error {
			r, err := playOne(ctx, s, i)
			if err != nil {
				return err
			}
			results[i] = r
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Stats{}, err
	}

	st := tally(results)
	s.Log.Infow("arena finished",
		"games", st.Games,
		"a_wins", st.AWins,
		"b_wins", st.BWins,
		"draws", st.Draws,
		"first_mover_wins", st.FirstMoverWins,
	)
	return st, nil
}

func playOne(ctx context.Context, s Setup, index int) (Result, error) {
	aFirst := index%2 == 0
	aPiece, bPiece := board.Player1, board.Player2
	if !aFirst {
		aPiece, bPiece = bPiece, aPiece
	}
	players := map[board.Piece]bots.ConnectBot{
		aPiece: s.A(aPiece),
		bPiece: s.B(bPiece),
	}

	pos := board.New()
	turn := board.Player1
	r := Result{Index: index, AFirst: aFirst}
	for !pos.IsTerminal() {
		if err := ctx.Err(); err != nil {
			return r, err
		}
		bot := players[turn]
		col := bot.BestMove(pos)
		if _, err := pos.Drop(col, turn); err != nil {
			return r, fmt.Errorf("%w: game %d ply %d: %s played %d: %v",
				ErrIllegalMove, index, r.Plies, bot.Name(), col, err)
		}
		r.Plies++
		turn = turn.Opponent()
	}
	r.Winner = pos.Winner()

	s.Log.Debugw("game finished",
		"game", index,
		"first", players[board.Player1].Name(),
		"second", players[board.Player2].Name(),
		"winner", r.Winner.String(),
		"plies", r.Plies,
	)
	return r, nil
}

func tally(results []Result) Stats {
	st := Stats{Games: len(results), Results: results}
	for _, r := range results {
		st.Plies += r.Plies
		switch {
		case r.Winner == board.Empty:
			st.Draws++
			continue
		case r.AWon():
			st.AWins++
		default:
			st.BWins++
		}
		if r.Winner == board.Player1 {
			st.FirstMoverWins++
		}
	}
	return st
}

// BotFactory returns a Factory for a bot name accepted by bots.NewBot.
func BotFactory(name string, depth int, log *zap.SugaredLogger) (Factory, error) {
	newBot, err := bots.Lookup(name)
	if err != nil {
		return nil, err
	}
	return func(piece board.Piece) bots.ConnectBot {
		return newBot(piece, depth, log)
	}, nil
}
