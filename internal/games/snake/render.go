package snake

import (
	"fmt"

	"github.com/vovakirdan/tui-lounge/internal/core"
)

const (
	hudHeight = 2
	tileWidth = 2 // one glyph plus a gap column
)

// Render draws the HUD, the board and any overlay. The board shows the last
// frame drawn by a non-terminal tick.
func (g *Game) Render(dst *core.Screen) {
	dst.Clear()
	g.renderHUD(dst)

	board, ok := g.boardRect(dst)
	if !ok {
		dst.DrawTextCentered(dst.Height()/2, "Window too small")
		return
	}
	dst.DrawBox(board, core.ColorGray)

	if g.frame.valid {
		g.drawTile(dst, board, g.frame.food, '■', core.ColorRed)
		for i := len(g.frame.snake) - 1; i >= 0; i-- {
			color := core.ColorGreen
			if i == 0 {
				color = core.ColorBrightGreen
			}
			g.drawTile(dst, board, g.frame.snake[i], '█', color)
		}
	}

	switch g.phase {
	case PhaseNotStarted:
		g.renderOverlay(dst, board, "S N A K E", "Press Enter to start")
	case PhaseGameOver:
		g.renderOverlay(dst, board, "Game Over", fmt.Sprintf("Score: %d  Enter to restart", g.score))
	}
}

// boardRect returns the framed board area centered below the HUD.
func (g *Game) boardRect(dst *core.Screen) (core.Rect, bool) {
	n := g.opts.TileCount
	w := n*tileWidth + 1 // borders, minus the trailing gap column
	h := n + 2

	if dst.Width() < w || dst.Height() < h+hudHeight {
		return core.Rect{}, false
	}
	return core.NewRect((dst.Width()-w)/2, hudHeight, w, h), true
}

func (g *Game) drawTile(dst *core.Screen, board core.Rect, s Segment, r rune, c core.Color) {
	if !g.inBounds(s) {
		return
	}
	x := board.X + 1 + s.X*tileWidth
	y := board.Y + 1 + s.Y
	dst.SetColor(x, y, r, c)
}

func (g *Game) renderHUD(dst *core.Screen) {
	hud := fmt.Sprintf(" Snake - Score: %d", g.score)
	dst.DrawTextColor(0, 0, hud, core.ColorYellow)
	for x := range dst.Width() {
		dst.Set(x, 1, '─')
	}
}

// renderOverlay draws a two-line message box centered on the board.
func (g *Game) renderOverlay(dst *core.Screen, board core.Rect, line1, line2 string) {
	width := max(len([]rune(line1)), len([]rune(line2))) + 4
	box := board.Centered(width, 5)

	dst.FillRect(box)
	dst.DrawBox(box, core.ColorDefault)
	drawCentered(dst, box, box.Y+1, line1)
	drawCentered(dst, box, box.Y+3, line2)
}

func drawCentered(dst *core.Screen, box core.Rect, y int, text string) {
	x := box.X + (box.W-len([]rune(text)))/2
	dst.DrawText(x, y, text)
}
