package board

type cell struct {
	row, col int
}

// window is a run of WindowLen cells in one orientation.
type window [WindowLen]cell

// Orientation order: horizontal, vertical, down-right diagonal, up-right diagonal.
var windows = enumerateWindows()

func enumerateWindows() []window {
	ws := make([]window, 0, WindowCount())
	add := func(r, c, dr, dc int) {
		var w window
		for i := 0; i < WindowLen; i++ {
			w[i] = cell{r + i*dr, c + i*dc}
		}
		ws = append(ws, w)
	}

	for r := 0; r < Rows; r++ {
		for c := 0; c <= Cols-WindowLen; c++ {
			add(r, c, 0, 1)
		}
	}
	for c := 0; c < Cols; c++ {
		for r := 0; r <= Rows-WindowLen; r++ {
			add(r, c, 1, 0)
		}
	}
	for r := 0; r <= Rows-WindowLen; r++ {
		for c := 0; c <= Cols-WindowLen; c++ {
			add(r, c, 1, 1)
		}
	}
	for r := WindowLen - 1; r < Rows; r++ {
		for c := 0; c <= Cols-WindowLen; c++ {
			add(r, c, -1, 1)
		}
	}
	return ws
}

// WindowCount is the number of windows on the grid (69 for 6x7).
func WindowCount() int {
	horizontal := Rows * (Cols - WindowLen + 1)
	vertical := Cols * (Rows - WindowLen + 1)
	diagonal := (Rows - WindowLen + 1) * (Cols - WindowLen + 1)
	return horizontal + vertical + 2*diagonal
}

// Windows calls fn with the contents of every window. Iteration stops early
// when fn returns false.
func (b *Board) Windows(fn func(cells [WindowLen]Piece) bool) {
	var cells [WindowLen]Piece
	for i := range windows {
		for j, at := range windows[i] {
			cells[j] = b[at.row][at.col]
		}
		if !fn(cells) {
			return
		}
	}
}
