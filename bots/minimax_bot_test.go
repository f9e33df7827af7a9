package bots

import (
	"errors"
	"math/rand"
	"strings"
	"testing"

	"connect4/board"
)

// randomPositions plays random legal moves from the empty board and keeps
// only positions that are still open.
func randomPositions(n int, seed int64) []board.Board {
	rng := rand.New(rand.NewSource(seed))
	out := make([]board.Board, 0, n)
	for len(out) < n {
		pos := board.New()
		turn := board.Player1
		moves := rng.Intn(24)
		for i := 0; i < moves; i++ {
			cols := pos.LegalColumns()
			if _, err := pos.Drop(cols[rng.Intn(len(cols))], turn); err != nil {
				panic(err)
			}
			if pos.IsTerminal() {
				break
			}
			turn = turn.Opponent()
		}
		if !pos.IsTerminal() {
			out = append(out, pos)
		}
	}
	return out
}

// sideToMove assumes Player1 moved first.
func sideToMove(pos board.Board) board.Piece {
	if pos.Count(board.Player1) > pos.Count(board.Player2) {
		return board.Player2
	}
	return board.Player1
}

// plainMinimax follows the same rules as the engine without pruning or a cache.
func plainMinimax(pos board.Board, depth int, mover, own board.Piece) (int, int) {
	maximizing := mover == own
	cols := orderMoves(pos.LegalColumns())
	for _, col := range cols {
		child, _ := simulate(pos, col, mover)
		if child.HasFourInARow(mover) {
			if maximizing {
				return col, WinScore
			}
			return col, -WinScore
		}
	}
	if depth == 0 || len(cols) == 0 {
		return NoMove, DefaultEvaluator{}.Evaluate(&pos, own)
	}
	bestCol, bestScore := NoMove, PosInf
	if maximizing {
		bestScore = NegInf
	}
	for _, col := range cols {
		child, _ := simulate(pos, col, mover)
		_, score := plainMinimax(child, depth-1, mover.Opponent(), own)
		if (maximizing && score > bestScore) || (!maximizing && score < bestScore) {
			bestCol, bestScore = col, score
		}
	}
	return bestCol, bestScore
}

func TestChooseMoveTakesWin(t *testing.T) {
	pos := board.MustParse(
		".......",
		".......",
		".......",
		".......",
		"XXX....",
		"OOO....",
	)
	for depth := 1; depth <= 4; depth++ {
		bot := NewMinimaxBot(board.Player2, depth, nil)
		col, score := bot.ChooseMove(pos, depth, NegInf, PosInf, true)
		if col != 3 || score != WinScore {
			t.Fatalf("depth %d: ChooseMove = (%d, %d), want (3, %d)", depth, col, score, WinScore)
		}
	}
}

func TestChooseMoveBlocksThree(t *testing.T) {
	pos := board.MustParse(
		".......",
		".......",
		".......",
		".......",
		"...O...",
		".XXXO..",
	)
	for depth := 1; depth <= 4; depth++ {
		bot := NewMinimaxBot(board.Player2, depth, nil)
		if col := bot.BestMove(pos); col != 0 {
			t.Fatalf("depth %d: BestMove = %d, want blocking column 0", depth, col)
		}
	}
}

func TestChooseMoveMinimizingSideSeesOpponentWin(t *testing.T) {
	pos := board.MustParse(
		".......",
		".......",
		".......",
		".......",
		"...O...",
		".XXXO..",
	)
	// Player1 to move in the tree, engine plays Player2.
	bot := NewMinimaxBot(board.Player2, 2, nil)
	col, score := bot.ChooseMove(pos, 2, NegInf, PosInf, false)
	if col != 0 || score != -WinScore {
		t.Fatalf("ChooseMove = (%d, %d), want (0, %d)", col, score, -WinScore)
	}
}

func TestChooseMoveFullBoard(t *testing.T) {
	pos := board.MustParse(
		"XOXOXOX",
		"XOXOXOX",
		"OXOXOXO",
		"OXOXOXO",
		"XOXOXOX",
		"XOXOXOX",
	)
	bot := NewMinimaxBot(board.Player1, 3, nil)
	col, score := bot.ChooseMove(pos, 3, NegInf, PosInf, true)
	want := DefaultEvaluator{}.Evaluate(&pos, board.Player1)
	if col != NoMove || score != want {
		t.Fatalf("ChooseMove = (%d, %d), want (%d, %d)", col, score, NoMove, want)
	}
	if got := bot.BestMove(pos); got != NoMove {
		t.Fatalf("BestMove = %d, want NoMove", got)
	}
}

func TestChooseMoveEmptyBoard(t *testing.T) {
	bot := NewMinimaxBot(board.Player1, 4, nil)
	pos := board.New()
	col := bot.BestMove(pos)
	if !pos.IsLegal(col) {
		t.Fatalf("BestMove on empty board = %d", col)
	}
	if pos != board.New() {
		t.Fatal("search mutated the caller's board")
	}
	if st := bot.Stats(); st.Nodes == 0 || st.CacheSize == 0 {
		t.Fatalf("stats not recorded: %+v", st)
	}
}

func TestChooseMoveNonPositiveDepth(t *testing.T) {
	win := board.MustParse(
		".......",
		".......",
		".......",
		".......",
		"XXX....",
		"OOO....",
	)
	for _, depth := range []int{0, -1, -50} {
		bot := NewMinimaxBot(board.Player2, depth, nil)

		pos := board.New()
		want := bot.Evaluator.Evaluate(&pos, board.Player2)
		col, score := bot.ChooseMove(pos, depth, NegInf, PosInf, true)
		if col != NoMove || score != want {
			t.Fatalf("depth %d: ChooseMove = (%d, %d), want (%d, %d)", depth, col, score, NoMove, want)
		}
		if n := bot.Stats().Nodes; n != 1 {
			t.Fatalf("depth %d: searched %d nodes, want 1", depth, n)
		}

		col, score = bot.ChooseMove(win, depth, NegInf, PosInf, true)
		if col != 3 || score != WinScore {
			t.Fatalf("depth %d: ChooseMove with a win = (%d, %d), want (3, %d)", depth, col, score, WinScore)
		}
	}
}

func TestChooseMoveReturnsLegalColumns(t *testing.T) {
	for i, pos := range randomPositions(60, 3) {
		piece := sideToMove(pos)
		bot := NewMinimaxBot(piece, 3, nil)
		col := bot.BestMove(pos)
		if !pos.IsLegal(col) {
			t.Fatalf("position %d: BestMove = %d is not legal\n%s", i, col, pos)
		}
	}
}

func TestChooseMoveMatchesPlainMinimax(t *testing.T) {
	positions := randomPositions(40, 11)
	for depth := 1; depth <= 3; depth++ {
		// One engine for every position, so cache entries from earlier
		// searches are reused.
		warm := map[board.Piece]*MinimaxBot{
			board.Player1: NewMinimaxBot(board.Player1, depth, nil),
			board.Player2: NewMinimaxBot(board.Player2, depth, nil),
		}
		for i, pos := range positions {
			piece := sideToMove(pos)
			wantCol, wantScore := plainMinimax(pos, depth, piece, piece)

			fresh := NewMinimaxBot(piece, depth, nil)
			col, score := fresh.ChooseMove(pos, depth, NegInf, PosInf, true)
			if col != wantCol || score != wantScore {
				t.Fatalf("depth %d position %d: fresh = (%d, %d), plain minimax = (%d, %d)\n%s",
					depth, i, col, score, wantCol, wantScore, pos)
			}

			col, score = warm[piece].ChooseMove(pos, depth, NegInf, PosInf, true)
			if col != wantCol || score != wantScore {
				t.Fatalf("depth %d position %d: warm = (%d, %d), plain minimax = (%d, %d)\n%s",
					depth, i, col, score, wantCol, wantScore, pos)
			}
		}
	}
}

func TestChooseMoveDeterministic(t *testing.T) {
	pos := board.MustParse(
		".......",
		".......",
		".......",
		"...X...",
		"..OO...",
		"..XXO..",
	)
	bot := NewMinimaxBot(board.Player1, 5, nil)
	col1, score1 := bot.ChooseMove(pos, 5, NegInf, PosInf, true)
	col2, score2 := bot.ChooseMove(pos, 5, NegInf, PosInf, true)
	if col1 != col2 || score1 != score2 {
		t.Fatalf("repeat search = (%d, %d), first = (%d, %d)", col2, score2, col1, score1)
	}
	if st := bot.Stats(); st.CacheHits == 0 {
		t.Fatal("second search did not hit the cache")
	}

	other := NewMinimaxBot(board.Player1, 5, nil)
	if col, score := other.ChooseMove(pos, 5, NegInf, PosInf, true); col != col1 || score != score1 {
		t.Fatalf("fresh engine = (%d, %d), want (%d, %d)", col, score, col1, score1)
	}
}

func TestResetClearsCache(t *testing.T) {
	bot := NewMinimaxBot(board.Player2, 3, nil)
	bot.BestMove(board.New())
	if bot.CacheLen() == 0 {
		t.Fatal("search left the cache empty")
	}
	bot.Reset()
	if n := bot.CacheLen(); n != 0 {
		t.Fatalf("cache has %d entries after Reset", n)
	}
}

func TestOrderMovesCenterFirst(t *testing.T) {
	got := orderMoves([]int{0, 1, 2, 3, 4, 5, 6})
	want := []int{3, 2, 4, 1, 5, 0, 6}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("orderMoves = %v, want %v", got, want)
		}
	}
	got = orderMoves([]int{0, 1, 5, 6})
	if got[0] != 1 || got[1] != 5 || got[2] != 0 || got[3] != 6 {
		t.Fatalf("orderMoves with gaps = %v", got)
	}
}

func TestTranspositionLookup(t *testing.T) {
	tt := newTranspositionTable()
	key := cacheKey{pos: board.New(), depth: 2, maximizing: true}
	if _, ok := tt.lookup(key, NegInf, PosInf); ok {
		t.Fatal("empty table reported a hit")
	}

	tests := []struct {
		flag        boundFlag
		alpha, beta int
		want        bool
	}{
		{boundExact, NegInf, PosInf, true},
		{boundLower, NegInf, PosInf, false},
		{boundLower, 0, 50, true},
		{boundUpper, NegInf, PosInf, false},
		{boundUpper, 50, 100, true},
	}
	for _, tc := range tests {
		tt.store(key, cacheEntry{col: 3, score: 50, flag: tc.flag})
		if _, ok := tt.lookup(key, tc.alpha, tc.beta); ok != tc.want {
			t.Errorf("flag %d window (%d, %d): hit = %v, want %v", tc.flag, tc.alpha, tc.beta, ok, tc.want)
		}
	}

	other := key
	other.maximizing = false
	if _, ok := tt.lookup(other, NegInf, PosInf); ok {
		t.Fatal("side to move is not part of the key")
	}
}

func TestClassify(t *testing.T) {
	if classify(10, 10, 20) != boundUpper {
		t.Error("score at alpha should be an upper bound")
	}
	if classify(20, 10, 20) != boundLower {
		t.Error("score at beta should be a lower bound")
	}
	if classify(15, 10, 20) != boundExact {
		t.Error("score inside the window should be exact")
	}
}

func TestSimpleBots(t *testing.T) {
	almost := board.MustParse(
		"XOXOXO.",
		"XOXOXOX",
		"OXOXOXO",
		"OXOXOXO",
		"XOXOXOX",
		"XOXOXOX",
	)
	for _, bot := range []ConnectBot{NewNewbornBot(), NewSeededRandomBot(1)} {
		if col := bot.BestMove(almost); col != 6 {
			t.Errorf("%s: BestMove = %d, want the only open column 6", bot.Name(), col)
		}
		if _, err := almost.Drop(6, board.Player1); err != nil {
			t.Fatal(err)
		}
		if col := bot.BestMove(almost); col != NoMove {
			t.Errorf("%s: BestMove on full board = %d", bot.Name(), col)
		}
		almost[0][6] = board.Empty
	}

	if got := NewNewbornBot().BestMove(board.New()); got != 0 {
		t.Fatalf("newborn bot played %d, want 0", got)
	}

	a, b := NewSeededRandomBot(42), NewSeededRandomBot(42)
	for i := 0; i < 20; i++ {
		if x, y := a.BestMove(board.New()), b.BestMove(board.New()); x != y {
			t.Fatalf("seeded random bots diverged at move %d: %d vs %d", i, x, y)
		}
	}
}

func TestNewBot(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{"minimax", "Minimax Bot (depth 3)"},
		{" Newborn ", "Newborn"},
		{"RANDOM", "Random Bot"},
	}
	for _, tc := range tests {
		bot, err := NewBot(tc.name, board.Player2, 3, nil)
		if err != nil {
			t.Fatalf("NewBot(%q): %v", tc.name, err)
		}
		if bot.Name() != tc.want {
			t.Errorf("NewBot(%q).Name() = %q, want %q", tc.name, bot.Name(), tc.want)
		}
	}
	if _, err := NewBot("stockfish", board.Player2, 3, nil); !errors.Is(err, ErrUnknownBot) {
		t.Fatalf("unknown bot err = %v", err)
	}
}

func TestLookup(t *testing.T) {
	for _, name := range Names() {
		newBot, err := Lookup(strings.ToUpper(name))
		if err != nil {
			t.Fatalf("Lookup(%q): %v", name, err)
		}
		if bot := newBot(board.Player1, 2, nil); bot == nil {
			t.Fatalf("constructor for %q returned nil", name)
		}
	}
	if _, err := Lookup(""); !errors.Is(err, ErrUnknownBot) {
		t.Fatalf("empty name err = %v", err)
	}

	newBot, err := Lookup(MinimaxName)
	if err != nil {
		t.Fatal(err)
	}
	m, ok := newBot(board.Player2, 5, nil).(*MinimaxBot)
	if !ok || m.Piece != board.Player2 || m.Depth != 5 {
		t.Fatalf("minimax constructor built %#v", m)
	}
}
