package engine

import (
	"fmt"
	"strings"

	"github.com/kamstrup/intmap"
)

// PieceType identifies one of the seven tetrominoes.
// The type also serves as the cell value written into the grid on lock,
// so renderers can style locked cells by the piece that produced them.
type PieceType uint8

const (
	PieceNone PieceType = iota
	PieceI
	PieceJ
	PieceL
	PieceO
	PieceS
	PieceT
	PieceZ
)

// PieceTypes lists the seven playable types in canonical order.
var PieceTypes = [...]PieceType{PieceI, PieceJ, PieceL, PieceO, PieceS, PieceT, PieceZ}

// String returns the single-letter name of the piece type.
func (t PieceType) String() string {
	switch t {
	case PieceI:
		return "I"
	case PieceJ:
		return "J"
	case PieceL:
		return "L"
	case PieceO:
		return "O"
	case PieceS:
		return "S"
	case PieceT:
		return "T"
	case PieceZ:
		return "Z"
	default:
		return "-"
	}
}

// Class returns the style class token for the piece type (e.g. "piece-t").
func (t PieceType) Class() string {
	if t == PieceNone {
		return ""
	}
	return "piece-" + strings.ToLower(t.String())
}

// Point is a grid coordinate. X grows to the right, Y grows downward.
type Point struct {
	X, Y int
}

// Add returns p offset by (dx, dy).
func (p Point) Add(dx, dy int) Point {
	return Point{X: p.X + dx, Y: p.Y + dy}
}

// maxShapeSize bounds the matrix of every tetromino shape.
const maxShapeSize = 4

// Shape is an occupancy matrix with value semantics.
// The bits live in a fixed array, so assigning a Shape copies it and two
// pieces can never share a mutable buffer.
type Shape struct {
	bits [maxShapeSize][maxShapeSize]bool
	rows int
	cols int
}

// NewShape builds a shape from rows of 0/1 values. All rows must have the same
// length and the matrix may not exceed 4x4.
func NewShape(rows [][]uint8) Shape {
	if len(rows) == 0 || len(rows) > maxShapeSize {
		panic(fmt.Sprintf("engine: shape must have 1..%d rows, got %d", maxShapeSize, len(rows)))
	}
	s := Shape{rows: len(rows), cols: len(rows[0])}
	if s.cols == 0 || s.cols > maxShapeSize {
		panic(fmt.Sprintf("engine: shape must have 1..%d columns, got %d", maxShapeSize, s.cols))
	}
	for y, row := range rows {
		if len(row) != s.cols {
			panic("engine: shape rows must have equal length")
		}
		for x, v := range row {
			s.bits[y][x] = v != 0
		}
	}
	return s
}

// Rows returns the matrix height.
func (s Shape) Rows() int { return s.rows }

// Cols returns the matrix width.
func (s Shape) Cols() int { return s.cols }

// At reports whether the bit at local column x, row y is occupied.
// Coordinates outside the matrix are unoccupied.
func (s Shape) At(x, y int) bool {
	if x < 0 || x >= s.cols || y < 0 || y >= s.rows {
		return false
	}
	return s.bits[y][x]
}

// Offsets returns the local offsets of all occupied bits in row-major order.
func (s Shape) Offsets() []Point {
	offsets := make([]Point, 0, 4)
	for y := 0; y < s.rows; y++ {
		for x := 0; x < s.cols; x++ {
			if s.bits[y][x] {
				offsets = append(offsets, Point{X: x, Y: y})
			}
		}
	}
	return offsets
}

// Matrix returns the shape as freshly allocated rows of 0/1 values.
func (s Shape) Matrix() [][]uint8 {
	m := make([][]uint8, s.rows)
	for y := range m {
		m[y] = make([]uint8, s.cols)
		for x := range m[y] {
			if s.bits[y][x] {
				m[y][x] = 1
			}
		}
	}
	return m
}

// RotateCW returns the shape turned 90 degrees clockwise.
// Cell (x, rows-1-y) of the result equals cell (y, x) of the source, so a
// rows x cols matrix becomes cols x rows. The receiver is not modified.
func (s Shape) RotateCW() Shape {
	r := Shape{rows: s.cols, cols: s.rows}
	for y := 0; y < s.rows; y++ {
		for x := 0; x < s.cols; x++ {
			r.bits[x][s.rows-1-y] = s.bits[y][x]
		}
	}
	return r
}

// Piece is a shape placed on the grid. Pos is the grid position of the
// shape's top-left corner and may have a negative Y above the visible field.
type Piece struct {
	Type  PieceType
	Shape Shape
	Pos   Point
}

// Cells returns the absolute grid positions of the piece's occupied bits.
func (p Piece) Cells() []Point {
	offsets := p.Shape.Offsets()
	for i := range offsets {
		offsets[i] = offsets[i].Add(p.Pos.X, p.Pos.Y)
	}
	return offsets
}

var templates = map[PieceType]Shape{
	PieceI: NewShape([][]uint8{
		{0, 0, 0, 0},
		{1, 1, 1, 1},
		{0, 0, 0, 0},
		{0, 0, 0, 0},
	}),
	PieceJ: NewShape([][]uint8{
		{1, 0, 0},
		{1, 1, 1},
		{0, 0, 0},
	}),
	PieceL: NewShape([][]uint8{
		{0, 0, 1},
		{1, 1, 1},
		{0, 0, 0},
	}),
	PieceO: NewShape([][]uint8{
		{1, 1},
		{1, 1},
	}),
	PieceS: NewShape([][]uint8{
		{0, 1, 1},
		{1, 1, 0},
		{0, 0, 0},
	}),
	PieceT: NewShape([][]uint8{
		{0, 1, 0},
		{1, 1, 1},
		{0, 0, 0},
	}),
	PieceZ: NewShape([][]uint8{
		{1, 1, 0},
		{0, 1, 1},
		{0, 0, 0},
	}),
}

// Template returns a copy of the canonical spawn-orientation shape for t.
// Panics for PieceNone or an unknown type.
func Template(t PieceType) Shape {
	s, ok := templates[t]
	if !ok {
		panic(fmt.Sprintf("engine: no shape for piece type %d", t))
	}
	return s
}

// SpawnPosition returns where a shape enters the grid: horizontally centred
// (rounded down) on the top row.
func SpawnPosition(s Shape) Point {
	return Point{X: (Width - s.Cols()) / 2, Y: 0}
}

// RandomSource supplies uniformly distributed integers in [0, n).
// *rand.Rand satisfies it.
type RandomSource interface {
	Intn(n int) int
}

// PieceFactory creates pieces and computes rotation candidates.
// It never checks collisions; callers validate candidates against a Grid.
type PieceFactory struct {
	rng   RandomSource
	stats *intmap.Map[PieceType, int]
}

// NewPieceFactory creates a factory that draws piece types from rng.
func NewPieceFactory(rng RandomSource) *PieceFactory {
	return &PieceFactory{
		rng:   rng,
		stats: intmap.New[PieceType, int](len(PieceTypes)),
	}
}

// SpawnRandom picks a type uniformly at random, counts it in the stats, and
// returns a fresh piece at the spawn position.
func (f *PieceFactory) SpawnRandom() Piece {
	t := PieceTypes[f.rng.Intn(len(PieceTypes))]
	n, _ := f.stats.Get(t)
	f.stats.Put(t, n+1)
	return f.Spawn(t)
}

// Spawn returns a piece of type t in its default orientation at the spawn
// position. Stats are not affected.
func (f *PieceFactory) Spawn(t PieceType) Piece {
	shape := Template(t)
	return Piece{Type: t, Shape: shape, Pos: SpawnPosition(shape)}
}

// Rotate returns the clockwise rotation candidate for p's shape.
// The O piece is a fixed point and comes back unchanged.
func (f *PieceFactory) Rotate(p Piece) Shape {
	if p.Type == PieceO {
		return p.Shape
	}
	return p.Shape.RotateCW()
}

// Stats returns a copy of the per-type spawn counters.
// Every playable type is present, including those never drawn.
func (f *PieceFactory) Stats() map[PieceType]int {
	out := make(map[PieceType]int, len(PieceTypes))
	for _, t := range PieceTypes {
		n, _ := f.stats.Get(t)
		out[t] = n
	}
	return out
}

// ResetStats zeroes all spawn counters.
func (f *PieceFactory) ResetStats() {
	f.stats.Clear()
}
