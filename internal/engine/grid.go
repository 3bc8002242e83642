// Package engine implements the falling-block puzzle rules: the playfield
// grid, tetromino shapes and rotation, and the controller that runs a session
// (gravity, player actions, locking, line clears, scoring and levels).
//
// The package is deterministic and UI-agnostic. Time and randomness are
// injected through Scheduler and RandomSource so sessions can be replayed in
// tests without real clocks.
package engine

// Playfield dimensions.
const (
	Width  = 10
	Height = 20
)

// Cell is one grid position. It holds the type of the piece that was locked
// there, or CellEmpty.
type Cell = PieceType

// CellEmpty marks an unoccupied cell.
const CellEmpty Cell = PieceNone

// Grid owns the playfield matrix. Row 0 is the top row.
// The zero value is an empty grid ready for use.
type Grid struct {
	cells [Height][Width]Cell
}

// NewGrid returns an empty grid.
func NewGrid() *Grid {
	return &Grid{}
}

// Reset empties every cell.
func (g *Grid) Reset() {
	g.cells = [Height][Width]Cell{}
}

// Cell returns the value at (x, y). Out-of-bounds positions read as empty.
func (g *Grid) Cell(x, y int) Cell {
	if x < 0 || x >= Width || y < 0 || y >= Height {
		return CellEmpty
	}
	return g.cells[y][x]
}

// SetCell writes c at (x, y). Out-of-bounds writes are ignored.
func (g *Grid) SetCell(x, y int, c Cell) {
	if x < 0 || x >= Width || y < 0 || y >= Height {
		return
	}
	g.cells[y][x] = c
}

// Rows returns a copy of the whole matrix.
func (g *Grid) Rows() [Height][Width]Cell {
	return g.cells
}

// IsValidPlacement reports whether shape fits at pos offset by (dx, dy).
// Side walls and the floor are hard bounds. Bits above the top row (y < 0)
// are allowed and never tested against cell contents.
func (g *Grid) IsValidPlacement(shape Shape, pos Point, dx, dy int) bool {
	for y := 0; y < shape.Rows(); y++ {
		for x := 0; x < shape.Cols(); x++ {
			if !shape.At(x, y) {
				continue
			}
			tx := pos.X + x + dx
			ty := pos.Y + y + dy
			if tx < 0 || tx >= Width || ty >= Height {
				return false
			}
			if ty >= 0 && g.cells[ty][tx] != CellEmpty {
				return false
			}
		}
	}
	return true
}

// Lock writes the piece's type into every cell it covers.
// Bits above the top row are dropped silently.
func (g *Grid) Lock(p Piece) {
	for _, c := range p.Cells() {
		if c.Y < 0 {
			continue
		}
		g.SetCell(c.X, c.Y, p.Type)
	}
}

// isRowFull reports whether row y has no empty cell.
func (g *Grid) isRowFull(y int) bool {
	for x := 0; x < Width; x++ {
		if g.cells[y][x] == CellEmpty {
			return false
		}
	}
	return true
}

// ClearFullLines removes every full row and inserts the same number of empty
// rows at the top, keeping the remaining rows in order.
// Returns the number of rows removed and their indices, bottom-up.
func (g *Grid) ClearFullLines() (int, []int) {
	var full []int
	for y := Height - 1; y >= 0; y-- {
		if g.isRowFull(y) {
			full = append(full, y)
		}
	}
	if len(full) == 0 {
		return 0, nil
	}

	var next [Height][Width]Cell
	dst := Height - 1
	for y := Height - 1; y >= 0; y-- {
		if g.isRowFull(y) {
			continue
		}
		next[dst] = g.cells[y]
		dst--
	}
	// Rows 0..dst stay empty in next.
	g.cells = next

	return len(full), full
}

// GhostDrop returns a copy of p moved straight down as far as it fits.
// Neither the grid nor p is modified.
func (g *Grid) GhostDrop(p Piece) Piece {
	ghost := p
	for g.IsValidPlacement(ghost.Shape, ghost.Pos, 0, 1) {
		ghost.Pos.Y++
	}
	return ghost
}

// FilledCount returns the number of occupied cells.
func (g *Grid) FilledCount() int {
	n := 0
	for y := range g.cells {
		for x := range g.cells[y] {
			if g.cells[y][x] != CellEmpty {
				n++
			}
		}
	}
	return n
}
