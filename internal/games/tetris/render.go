package tetris

import (
	"fmt"

	"github.com/vovakirdan/tui-tetris/internal/core"
	"github.com/vovakirdan/tui-tetris/internal/engine"
)

const (
	cellW    = 2 // Screen columns per grid cell
	panelW   = 14
	panelGap = 1

	boardW = engine.Width*cellW + 2
	boardH = engine.Height + 2

	minScreenW = panelW*2 + panelGap*2 + boardW
	minScreenH = boardH
)

var pieceColors = map[engine.PieceType]core.Color{
	engine.PieceI: core.ColorCyan,
	engine.PieceJ: core.ColorBlue,
	engine.PieceL: core.ColorOrange,
	engine.PieceO: core.ColorYellow,
	engine.PieceS: core.ColorGreen,
	engine.PieceT: core.ColorMagenta,
	engine.PieceZ: core.ColorRed,
}

// PieceColor returns the display color of a piece type.
func PieceColor(t engine.PieceType) core.Color {
	if c, ok := pieceColors[t]; ok {
		return c
	}
	return core.ColorDefault
}

// Render draws the session: hold and stats on the left, the well in the
// middle, next piece and score on the right.
func (g *Game) Render(dst *core.Screen) {
	dst.Clear()

	if g.ctrl == nil {
		return
	}
	if g.tooSmall {
		g.renderTooSmall(dst)
		return
	}

	snap := g.ctrl.Snapshot()

	totalW := minScreenW
	x0 := (g.screenW - totalW) / 2
	y0 := max((g.screenH-boardH)/2, 0)

	left := core.NewRect(x0, y0, panelW, boardH)
	board := core.NewRect(left.Right()+panelGap, y0, boardW, boardH)
	right := core.NewRect(board.Right()+panelGap, y0, panelW, boardH)

	g.renderBoard(dst, board, snap)
	g.renderLeft(dst, left, snap)
	g.renderRight(dst, right, snap)
	g.renderOverlays(dst, board, snap)
}

func (g *Game) renderTooSmall(dst *core.Screen) {
	y := g.screenH / 2
	dst.DrawTextCentered(y, "Window too small", core.ColorDefault)
	dst.DrawTextCentered(y+1, fmt.Sprintf("Need %dx%d", minScreenW, minScreenH), core.ColorGray)
}

func (g *Game) renderBoard(dst *core.Screen, r core.Rect, snap engine.Snapshot) {
	border := core.ColorGray
	if len(snap.ClearingRows) > 0 {
		border = core.ColorBrightWhite
	}
	dst.DrawBox(r, border)

	inner := r.Inset(1)
	drawCell := func(x, y int, ch rune, c core.Color) {
		if y < 0 || y >= engine.Height {
			return
		}
		for i := 0; i < cellW; i++ {
			dst.SetColored(inner.X+x*cellW+i, inner.Y+y, ch, c)
		}
	}

	for y := 0; y < engine.Height; y++ {
		for x := 0; x < engine.Width; x++ {
			if t := snap.Grid[y][x]; t != engine.CellEmpty {
				drawCell(x, y, '█', PieceColor(t))
			}
		}
	}

	if snap.Ghost != nil && g.cfg.Display.Ghost && !snap.GameOver {
		for _, p := range snap.Ghost.Cells() {
			drawCell(p.X, p.Y, '░', PieceColor(snap.Ghost.Type))
		}
	}
	if snap.Active != nil {
		for _, p := range snap.Active.Cells() {
			drawCell(p.X, p.Y, '█', PieceColor(snap.Active.Type))
		}
	}
}

func (g *Game) renderLeft(dst *core.Screen, r core.Rect, snap engine.Snapshot) {
	hold := core.NewRect(r.X, r.Y, r.W, 6)
	holdColor := core.ColorWhite
	if !snap.CanHold {
		holdColor = core.ColorGray
	}
	dst.DrawTitledBox(hold, "HOLD", holdColor)
	if snap.Held != engine.PieceNone {
		c := PieceColor(snap.Held)
		if !snap.CanHold {
			c = core.ColorGray
		}
		drawPreview(dst, hold.Inset(1), engine.Template(snap.Held), c)
	}

	if !g.cfg.Display.Stats {
		return
	}
	stats := core.NewRect(r.X, hold.Bottom(), r.W, len(engine.PieceTypes)+2)
	dst.DrawTitledBox(stats, "STATS", core.ColorWhite)
	for i, t := range engine.PieceTypes {
		y := stats.Y + 1 + i
		dst.DrawTextColored(stats.X+2, y, "██", PieceColor(t))
		dst.DrawText(stats.X+5, y, fmt.Sprintf("%s %5d", t, snap.Stats[t]))
	}
}

func (g *Game) renderRight(dst *core.Screen, r core.Rect, snap engine.Snapshot) {
	next := core.NewRect(r.X, r.Y, r.W, 6)
	dst.DrawTitledBox(next, "NEXT", core.ColorWhite)
	if snap.Next != nil {
		drawPreview(dst, next.Inset(1), snap.Next.Shape, PieceColor(snap.Next.Type))
	}

	info := core.NewRect(r.X, next.Bottom(), r.W, 10)
	dst.DrawTitledBox(info, "SCORE", core.ColorWhite)
	rows := []struct {
		label string
		value string
	}{
		{"Score", fmt.Sprintf("%d", snap.Score)},
		{"Level", fmt.Sprintf("%d", snap.Level)},
		{"Lines", fmt.Sprintf("%d", snap.Lines)},
		{"Speed", fmt.Sprintf("%dms", snap.Interval.Milliseconds())},
	}
	for i, row := range rows {
		y := info.Y + 1 + i*2
		dst.DrawTextColored(info.X+2, y, row.label, core.ColorGray)
		dst.DrawTextColored(info.X+2, y+1, row.value, core.ColorBrightWhite)
	}
}

// drawPreview draws a shape centred in area, trimming the empty rows and
// columns of its matrix.
func drawPreview(dst *core.Screen, area core.Rect, s engine.Shape, c core.Color) {
	cells := s.Offsets()
	if len(cells) == 0 {
		return
	}
	minX, minY := cells[0].X, cells[0].Y
	maxX, maxY := minX, minY
	for _, p := range cells[1:] {
		minX, maxX = min(minX, p.X), max(maxX, p.X)
		minY, maxY = min(minY, p.Y), max(maxY, p.Y)
	}

	box := area.CenterIn((maxX-minX+1)*cellW, maxY-minY+1)
	for _, p := range cells {
		for i := 0; i < cellW; i++ {
			dst.SetColored(box.X+(p.X-minX)*cellW+i, box.Y+p.Y-minY, '█', c)
		}
	}
}

func (g *Game) renderOverlays(dst *core.Screen, board core.Rect, snap engine.Snapshot) {
	switch {
	case snap.GameOver:
		drawMessage(dst, board, core.ColorRed,
			"GAME OVER",
			fmt.Sprintf("Score %d", snap.Score),
			"R restart  Q quit")
	case snap.Paused:
		drawMessage(dst, board, core.ColorBrightYellow, "PAUSED", "P to resume")
	case g.banner != "":
		dst.DrawTextColored(board.CenterIn(len(g.banner), 1).X, board.Y+3, g.banner, core.ColorBrightYellow)
	case len(snap.ClearingRows) > 0:
		label := clearLabel(len(snap.ClearingRows))
		dst.DrawTextColored(board.CenterIn(len(label), 1).X, board.Y+3, label, core.ColorBrightWhite)
	}
}

// drawMessage draws a boxed block of centred lines over the board.
func drawMessage(dst *core.Screen, board core.Rect, c core.Color, lines ...string) {
	w := 0
	for _, l := range lines {
		w = max(w, len(l))
	}
	box := board.CenterIn(w+4, len(lines)+2)
	dst.DrawRect(box, ' ', core.ColorDefault)
	dst.DrawBox(box, c)
	for i, l := range lines {
		dst.DrawTextColored(box.X+(box.W-len(l))/2, box.Y+1+i, l, c)
	}
}
