package term

import (
	"bufio"
	"context"
	"errors"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/muesli/termenv"

	"connect4/board"
	"connect4/game"
)

type options struct {
	delay   time.Duration
	outOpts []termenv.OutputOption
}

type Option func(*options)

// WithDelay pauses before every bot move.
func WithDelay(d time.Duration) Option {
	return func(o *options) { o.delay = d }
}

// WithProfile forces a colour profile instead of detecting one.
func WithProfile(p termenv.Profile) Option {
	return func(o *options) { o.outOpts = append(o.outOpts, termenv.WithProfile(p)) }
}

// Play runs human-versus-bot games over a line-oriented terminal until the
// player quits, input ends or ctx is cancelled. Columns are typed 1-based.
func Play(ctx context.Context, in io.Reader, out io.Writer, ctrl *game.Controller, opts ...Option) error {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	r := NewRenderer(out, o.outOpts...)
	lines := bufio.NewScanner(in)

	r.Printf("You are %s, the bot is %s.\n", ctrl.HumanPiece(), ctrl.BotPiece())
	if err := r.Board(ctrl.Board()); err != nil {
		return err
	}

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		if res := ctrl.Outcome(); res.Over {
			r.Printf("%s\n", resultMessage(res, ctrl.HumanPiece()))
			r.Printf("Play again? [y/N]: ")
			if !lines.Scan() || !strings.EqualFold(strings.TrimSpace(lines.Text()), "y") {
				return lines.Err()
			}
			ctrl.Reset()
			if err := r.Board(ctrl.Board()); err != nil {
				return err
			}
			continue
		}

		if ctrl.BotToMove() {
			r.Printf("Bot is thinking...\n")
			if err := sleep(ctx, o.delay); err != nil {
				return err
			}
			m, err := ctrl.PlayBot()
			if err != nil {
				return err
			}
			r.Printf("Bot plays column %d.\n", m.Col+1)
			if err := r.Board(ctrl.Board()); err != nil {
				return err
			}
			continue
		}

		r.Printf("Your move (1-%d, q to quit): ", board.Cols)
		if !lines.Scan() {
			return lines.Err()
		}
		text := strings.TrimSpace(lines.Text())
		if strings.EqualFold(text, "q") {
			return nil
		}
		n, err := strconv.Atoi(text)
		if err != nil {
			r.Printf("%q is not a column number.\n", text)
			continue
		}
		if _, err := ctrl.PlayHuman(n - 1); err != nil {
			switch {
			case errors.Is(err, board.ErrColumnOutOfRange):
				r.Printf("Pick a column between 1 and %d.\n", board.Cols)
			case errors.Is(err, board.ErrColumnFull):
				r.Printf("Column %d is full.\n", n)
			default:
				return err
			}
			continue
		}
		if err := r.Board(ctrl.Board()); err != nil {
			return err
		}
	}
}

func resultMessage(res game.Outcome, human board.Piece) string {
	switch res.Winner {
	case board.Empty:
		return "It's a draw."
	case human:
		return "You win!"
	default:
		return "Bot wins."
	}
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
