// Package board holds the Connect-Four grid: placement, legality and win detection.
package board

import (
	"errors"
	"fmt"
	"strings"
)

// Grid dimensions. Row 0 is the top of the board.
const (
	Rows      = 6
	Cols      = 7
	WindowLen = 4
)

// CenterCol is the exact center column.
const CenterCol = Cols / 2

var (
	ErrColumnOutOfRange = errors.New("column out of range")
	ErrColumnFull       = errors.New("column is full")
	ErrBadBoardText     = errors.New("malformed board text")
)

type Piece int8

const (
	Empty   Piece = 0
	Player1 Piece = 1
	Player2 Piece = 2
)

// Opponent returns the other player's piece. Empty stays Empty.
func (p Piece) Opponent() Piece {
	switch p {
	case Player1:
		return Player2
	case Player2:
		return Player1
	default:
		return Empty
	}
}

func (p Piece) String() string {
	switch p {
	case Player1:
		return "X"
	case Player2:
		return "O"
	default:
		return "."
	}
}

// Board is a value type: assigning it copies every cell, which is what the
// search relies on to keep sibling branches apart.
type Board [Rows][Cols]Piece

func New() Board {
	return Board{}
}

// IsLegal reports whether a piece can be dropped into col.
func (b *Board) IsLegal(col int) bool {
	return col >= 0 && col < Cols && b[0][col] == Empty
}

// NextOpenRow returns the lowest empty row of col, ok is false when the
// column is full or out of range.
func (b *Board) NextOpenRow(col int) (row int, ok bool) {
	if col < 0 || col >= Cols {
		return -1, false
	}
	for r := Rows - 1; r >= 0; r-- {
		if b[r][col] == Empty {
			return r, true
		}
	}
	return -1, false
}

// Place writes p into (row, col) without any checks.
func (b *Board) Place(row, col int, p Piece) {
	b[row][col] = p
}

// Drop places p into the lowest empty row of col.
// The board is left untouched when an error is returned.
func (b *Board) Drop(col int, p Piece) (int, error) {
	if col < 0 || col >= Cols {
		return -1, fmt.Errorf("%w: %d", ErrColumnOutOfRange, col)
	}
	row, ok := b.NextOpenRow(col)
	if !ok {
		return -1, fmt.Errorf("%w: %d", ErrColumnFull, col)
	}
	b.Place(row, col, p)
	return row, nil
}

// LegalColumns lists playable columns from left to right.
func (b *Board) LegalColumns() []int {
	cols := make([]int, 0, Cols)
	for c := 0; c < Cols; c++ {
		if b[0][c] == Empty {
			cols = append(cols, c)
		}
	}
	return cols
}

// HasFourInARow reports whether p owns any complete window.
func (b *Board) HasFourInARow(p Piece) bool {
	if p == Empty {
		return false
	}
	for i := range windows {
		w := &windows[i]
		if b[w[0].row][w[0].col] == p &&
			b[w[1].row][w[1].col] == p &&
			b[w[2].row][w[2].col] == p &&
			b[w[3].row][w[3].col] == p {
			return true
		}
	}
	return false
}

// Winner returns the piece holding four in a row, or Empty.
func (b *Board) Winner() Piece {
	if b.HasFourInARow(Player1) {
		return Player1
	}
	if b.HasFourInARow(Player2) {
		return Player2
	}
	return Empty
}

func (b *Board) IsFull() bool {
	for c := 0; c < Cols; c++ {
		if b[0][c] == Empty {
			return false
		}
	}
	return true
}

// IsTerminal is true once someone has won or no column is playable.
func (b *Board) IsTerminal() bool {
	return b.HasFourInARow(Player1) || b.HasFourInARow(Player2) || b.IsFull()
}

// Count returns how many cells hold p.
func (b *Board) Count(p Piece) int {
	n := 0
	for r := 0; r < Rows; r++ {
		for c := 0; c < Cols; c++ {
			if b[r][c] == p {
				n++
			}
		}
	}
	return n
}

// Mirror reflects the board left to right.
func (b Board) Mirror() Board {
	var m Board
	for r := 0; r < Rows; r++ {
		for c := 0; c < Cols; c++ {
			m[r][Cols-1-c] = b[r][c]
		}
	}
	return m
}

// String prints one line per row, top row first.
func (b Board) String() string {
	var sb strings.Builder
	sb.Grow(Rows * (Cols + 1))
	for r := 0; r < Rows; r++ {
		for c := 0; c < Cols; c++ {
			sb.WriteString(b[r][c].String())
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}

// Parse reads the String form back. Rows are given top first; '.', 'X' and
// 'O' are the only accepted cells.
func Parse(rows ...string) (Board, error) {
	var b Board
	if len(rows) != Rows {
		return b, fmt.Errorf("%w: want %d rows, got %d", ErrBadBoardText, Rows, len(rows))
	}
	for r, line := range rows {
		line = strings.TrimSpace(line)
		if len(line) != Cols {
			return b, fmt.Errorf("%w: row %d has %d cells", ErrBadBoardText, r, len(line))
		}
		for c := 0; c < Cols; c++ {
			switch line[c] {
			case '.':
				b[r][c] = Empty
			case 'X', 'x':
				b[r][c] = Player1
			case 'O', 'o':
				b[r][c] = Player2
			default:
				return b, fmt.Errorf("%w: row %d col %d: %q", ErrBadBoardText, r, c, line[c])
			}
		}
	}
	return b, nil
}

// MustParse is Parse for literals known to be valid.
func MustParse(rows ...string) Board {
	b, err := Parse(rows...)
	if err != nil {
		panic(err)
	}
	return b
}
