package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/spf13/pflag"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"connect4/arena"
	"connect4/board"
	"connect4/bots"
	"connect4/config"
	"connect4/game"
	"connect4/term"
)

func main() {
	flags := config.Flags()
	if err := flags.Parse(os.Args[1:]); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	cfgPath, _ := flags.GetString("config")

	cfg, err := config.Load(cfgPath, flags)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Failed to setup configuration:", err)
		os.Exit(1)
	}

	logger, err := NewLogger(cfg.LogLevel)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Failed to create logger:", err)
		os.Exit(1)
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Errorw("connect4 stopped", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, log *zap.SugaredLogger) error {
	if cfg.Mode == config.ModeArena {
		return runArena(ctx, cfg, log)
	}

	botPiece := board.Player2
	if cfg.AIFirst {
		botPiece = board.Player1
	}
	bot, err := bots.NewBot(cfg.Bot, botPiece, cfg.AIDepth, log)
	if err != nil {
		return err
	}
	ctrl := game.New(game.Options{Bot: bot, BotPiece: botPiece, Log: log})

	if cfg.Mode == config.ModeTerm {
		err := term.Play(ctx, os.Stdin, os.Stdout, ctrl, term.WithDelay(cfg.AIDelay()))
		if errors.Is(err, context.Canceled) {
			return nil
		}
		return err
	}

	g := NewGame(ctrl, cfg.Bot, cfg.SquareSize, cfg.AIDepth, cfg.AIDelay(), log)
	ebiten.SetWindowSize(g.width(), g.height())
	ebiten.SetWindowTitle("Connect4 - Player vs Bot")
	if err := ebiten.RunGame(g); err != nil && !errors.Is(err, ebiten.Termination) {
		return err
	}
	return nil
}

func runArena(ctx context.Context, cfg *config.Config, log *zap.SugaredLogger) error {
	a, err := arena.BotFactory(cfg.Bot, cfg.AIDepth, log)
	if err != nil {
		return err
	}
	b, err := arena.BotFactory(cfg.ArenaOpponent, cfg.AIDepth, log)
	if err != nil {
		return err
	}
	st, err := arena.Run(ctx, arena.Setup{
		A:       a,
		B:       b,
		Games:   cfg.ArenaGames,
		Workers: cfg.ArenaWorkers,
		Log:     log,
	})
	if err != nil {
		return err
	}
	fmt.Printf("%s vs %s: %d games, %d-%d, %d draws, first mover won %d, %.1f plies per game\n",
		cfg.Bot, cfg.ArenaOpponent, st.Games, st.AWins, st.BWins, st.Draws,
		st.FirstMoverWins, float64(st.Plies)/float64(st.Games))
	return nil
}

// NewLogger builds a production logger at the given level.
func NewLogger(level string) (*zap.SugaredLogger, error) {
	var lvl zapcore.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		return nil, err
	}
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	logger, err := cfg.Build()
	if err != nil {
		return nil, err
	}
	return logger.Sugar(), nil
}
