// Package term plays Connect Four in a terminal.
package term

import (
	"fmt"
	"io"
	"strings"

	"github.com/muesli/termenv"

	"connect4/board"
)

// Disc colours, matching the desktop window.
const (
	player1Color = "#FF0000"
	player2Color = "#FFFF00"
	gridColor    = "#0000FF"
)

type Renderer struct {
	out *termenv.Output
}

// NewRenderer writes to w. Without options the colour profile is detected
// from w, so plain buffers and pipes get no escape codes.
func NewRenderer(w io.Writer, opts ...termenv.OutputOption) *Renderer {
	return &Renderer{out: termenv.NewOutput(w, opts...)}
}

// Render writes b to w with the detected colour profile.
func Render(w io.Writer, b board.Board) error {
	return NewRenderer(w).Board(b)
}

// Board draws the grid top row first, followed by 1-based column numbers.
func (r *Renderer) Board(b board.Board) error {
	var sb strings.Builder
	edge := r.out.String("|").Foreground(r.out.Color(gridColor)).String()

	for row := 0; row < board.Rows; row++ {
		sb.WriteString(edge)
		for col := 0; col < board.Cols; col++ {
			sb.WriteString(r.disc(b[row][col]))
			sb.WriteString(edge)
		}
		sb.WriteByte('\n')
	}
	for col := 0; col < board.Cols; col++ {
		fmt.Fprintf(&sb, " %d", col+1)
	}
	sb.WriteByte('\n')

	_, err := io.WriteString(r.out, sb.String())
	return err
}

func (r *Renderer) disc(p board.Piece) string {
	switch p {
	case board.Player1:
		return r.out.String(p.String()).Foreground(r.out.Color(player1Color)).Bold().String()
	case board.Player2:
		return r.out.String(p.String()).Foreground(r.out.Color(player2Color)).Bold().String()
	default:
		return " "
	}
}

// Printf writes a plain message.
func (r *Renderer) Printf(format string, args ...any) {
	fmt.Fprintf(r.out, format, args...)
}
