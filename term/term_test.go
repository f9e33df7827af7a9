package term

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/muesli/termenv"

	"connect4/board"
	"connect4/bots"
	"connect4/game"
)

func TestRenderAscii(t *testing.T) {
	b := board.MustParse(
		".......",
		".......",
		".......",
		".......",
		"...O...",
		"XO.X...",
	)
	var buf bytes.Buffer
	if err := NewRenderer(&buf, termenv.WithProfile(termenv.Ascii)).Board(b); err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if len(lines) != board.Rows+1 {
		t.Fatalf("got %d lines:\n%s", len(lines), buf.String())
	}
	want := map[int]string{
		0: "| | | | | | | |",
		4: "| | | |O| | | |",
		5: "|X|O| |X| | | |",
		6: " 1 2 3 4 5 6 7",
	}
	for i, w := range want {
		if lines[i] != w {
			t.Errorf("line %d = %q, want %q", i, lines[i], w)
		}
	}
}

func TestRenderColour(t *testing.T) {
	b := board.New()
	if _, err := b.Drop(0, board.Player1); err != nil {
		t.Fatal(err)
	}
	var buf bytes.Buffer
	if err := NewRenderer(&buf, termenv.WithProfile(termenv.TrueColor)).Board(b); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "\x1b[") {
		t.Fatalf("true colour output has no escape codes: %q", buf.String())
	}
}

func play(t *testing.T, ctrl *game.Controller, input string) string {
	t.Helper()
	var out bytes.Buffer
	err := Play(context.Background(), strings.NewReader(input), &out, ctrl, WithProfile(termenv.Ascii))
	if err != nil {
		t.Fatalf("Play: %v\n%s", err, out.String())
	}
	return out.String()
}

func TestPlayHumanWins(t *testing.T) {
	ctrl := game.New(game.Options{Bot: bots.NewNewbornBot()})
	out := play(t, ctrl, "4\n4\n4\n4\nn\n")

	if !strings.Contains(out, "You win!") {
		t.Fatalf("missing win message:\n%s", out)
	}
	if strings.Count(out, "Bot plays column 1.") != 3 {
		t.Fatalf("expected three bot moves in column 1:\n%s", out)
	}
	if res := ctrl.Outcome(); res.Winner != board.Player1 {
		t.Fatalf("outcome = %v", res)
	}
}

func TestPlayRejectsBadInput(t *testing.T) {
	ctrl := game.New(game.Options{Bot: bots.NewNewbornBot()})
	out := play(t, ctrl, "abc\n0\n8\nq\n")

	for _, msg := range []string{`"abc" is not a column number.`, "Pick a column between 1 and 7."} {
		if !strings.Contains(out, msg) {
			t.Errorf("missing %q in:\n%s", msg, out)
		}
	}
	if n := len(ctrl.Moves()); n != 0 {
		t.Fatalf("bad input produced %d moves", n)
	}
}

func TestPlayFullColumn(t *testing.T) {
	// The bot stacks on top of every human move in column 1.
	ctrl := game.New(game.Options{Bot: bots.NewNewbornBot()})
	out := play(t, ctrl, "1\n1\n1\n1\nq\n")
	if !strings.Contains(out, "Column 1 is full.") {
		t.Fatalf("missing full column message:\n%s", out)
	}
}

func TestPlayAgainResets(t *testing.T) {
	ctrl := game.New(game.Options{Bot: bots.NewNewbornBot()})
	first := ctrl.GameID()
	out := play(t, ctrl, "4\n4\n4\n4\ny\nq\n")
	if ctrl.GameID() == first {
		t.Fatal("play again did not start a new game")
	}
	if len(ctrl.Moves()) != 0 {
		t.Fatalf("new game has moves: %v", ctrl.Moves())
	}
	if !strings.Contains(out, "Play again?") {
		t.Fatalf("missing prompt:\n%s", out)
	}
}

func TestPlayBotFirstAndEOF(t *testing.T) {
	ctrl := game.New(game.Options{Bot: bots.NewNewbornBot(), BotPiece: board.Player1})
	out := play(t, ctrl, "")
	if !strings.Contains(out, "Bot plays column 1.") {
		t.Fatalf("bot did not open the game:\n%s", out)
	}
	if !strings.Contains(out, "You are O, the bot is X.") {
		t.Fatalf("missing side announcement:\n%s", out)
	}
}

func TestPlayCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	ctrl := game.New(game.Options{Bot: bots.NewNewbornBot()})
	var out bytes.Buffer
	if err := Play(ctx, strings.NewReader("4\n"), &out, ctrl); err != context.Canceled {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
}
