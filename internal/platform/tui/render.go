package tui

import (
	"fmt"
	"math"
	"strconv"
	"time"

	"github.com/vovakirdan/fragments/internal/core"
	"github.com/vovakirdan/fragments/internal/games/catch"
	"github.com/vovakirdan/fragments/internal/games/dodge"
	"github.com/vovakirdan/fragments/internal/games/sequence"
)

// Play screen layout: two HUD rows, the framed playfield, one help row.
const (
	hudRows    = 2
	footerRows = 1
	minCols    = 20
	minRows    = 8
)

// viewport maps the logical playfield onto terminal cells. A terminal cell is
// about twice as tall as it is wide, so one row spans two column units.
type viewport struct {
	x0, y0     int // top-left interior cell
	cols, rows int
	unit       float64 // logical units per column
}

func newViewport(field core.Vec, x0, y0, maxCols, maxRows int) viewport {
	maxCols = max(maxCols, 1)
	maxRows = max(maxRows, 1)
	unit := math.Max(field.X/float64(maxCols), field.Y/(2*float64(maxRows)))
	return viewport{
		x0:   x0,
		y0:   y0,
		cols: core.Clamp(int(math.Ceil(field.X/unit-1e-9)), 1, maxCols),
		rows: core.Clamp(int(math.Ceil(field.Y/(2*unit)-1e-9)), 1, maxRows),
		unit: unit,
	}
}

// toCell returns the screen cell covering a playfield point.
func (v viewport) toCell(p core.Vec) (int, int) {
	col := core.Clamp(int(math.Floor(p.X/v.unit)), 0, v.cols-1)
	row := core.Clamp(int(math.Floor(p.Y/(2*v.unit))), 0, v.rows-1)
	return v.x0 + col, v.y0 + row
}

// toField returns the playfield point at the center of a screen cell.
func (v viewport) toField(x, y int) (core.Vec, bool) {
	col, row := x-v.x0, y-v.y0
	if col < 0 || col >= v.cols || row < 0 || row >= v.rows {
		return core.Vec{}, false
	}
	return core.Vec{
		X: (float64(col) + 0.5) * v.unit,
		Y: (float64(row) + 0.5) * 2 * v.unit,
	}, true
}

// cellRect returns the inclusive cell rectangle covering r.
func (v viewport) cellRect(r core.Rect) (x0, y0, x1, y1 int) {
	x0, y0 = v.toCell(core.Vec{X: r.X, Y: r.Y})
	x1, y1 = v.toCell(core.Vec{X: r.Right() - 1e-6, Y: r.Bottom() - 1e-6})
	return x0, y0, x1, y1
}

// sequenceColumns returns the grid width for a round: 2x2 for four points,
// three per row otherwise.
func sequenceColumns(target int) int {
	if target <= 4 {
		return 2
	}
	return 3
}

// sequencePoints lays the round's points out on a grid in the middle band of
// the playfield, in tap order.
func sequencePoints(target int, field core.Vec) []core.Vec {
	if target <= 0 {
		return nil
	}
	cols := sequenceColumns(target)
	rows := (target + cols - 1) / cols
	band := field.Y * 0.4
	top := field.Y * 0.3

	points := make([]core.Vec, target)
	for i := range points {
		c, r := i%cols, i/cols
		points[i] = core.Vec{
			X: field.X * float64(c+1) / float64(cols+1),
			Y: top + (float64(r)+0.5)*band/float64(rows),
		}
	}
	return points
}

// sequenceHit returns the index of the point under p, if any.
func sequenceHit(p core.Vec, target int, field core.Vec) (int, bool) {
	if target <= 0 {
		return 0, false
	}
	cols := sequenceColumns(target)
	rows := (target + cols - 1) / cols
	halfW := field.X / float64(cols+1) / 2
	halfH := field.Y * 0.4 / float64(rows) / 2

	for i, pt := range sequencePoints(target, field) {
		if math.Abs(p.X-pt.X) < halfW && math.Abs(p.Y-pt.Y) < halfH {
			return i, true
		}
	}
	return 0, false
}

// catchHit returns the index of the newest sphere under p, if any.
func catchHit(p core.Vec, entities []core.EntityView) (int, bool) {
	for i := len(entities) - 1; i >= 0; i-- {
		if entities[i].Bounds.Contains(p) {
			return i, true
		}
	}
	return 0, false
}

// Renderer draws snapshots onto a canvas sized to the terminal.
type Renderer struct {
	canvas *Canvas
	view   viewport
}

// NewRenderer creates a renderer for a terminal of the given size.
func NewRenderer(width, height int) *Renderer {
	return &Renderer{canvas: NewCanvas(max(width, minCols), max(height, minRows))}
}

// Resize adapts the renderer to a new terminal size.
func (r *Renderer) Resize(width, height int) {
	r.canvas.Resize(max(width, minCols), max(height, minRows))
}

// Canvas returns the drawing surface.
func (r *Renderer) Canvas() *Canvas {
	return r.canvas
}

// layout fits the playfield into the space between the HUD and the footer.
func (r *Renderer) layout(field core.Vec) viewport {
	w, h := r.canvas.Width(), r.canvas.Height()
	maxCols := w - 2
	maxRows := h - hudRows - footerRows - 2
	v := newViewport(field, 0, 0, maxCols, maxRows)
	v.x0 = (w - v.cols) / 2
	v.y0 = hudRows + 1
	return v
}

// FieldAt maps a terminal cell to playfield coordinates using the last
// drawn layout.
func (r *Renderer) FieldAt(x, y int) (core.Vec, bool) {
	return r.view.toField(x, y)
}

// Draw renders the snapshot and returns the styled frame.
func (r *Renderer) Draw(snap core.Snapshot, title string, ev *core.RewardEvent, help string) string {
	c := r.canvas
	c.Clear()

	field := snap.Playfield
	if field.X <= 0 || field.Y <= 0 {
		field = core.DefaultPlayfield
	}
	r.view = r.layout(field)
	v := r.view

	r.drawHUD(snap, title)
	c.DrawBox(v.x0-1, v.y0-1, v.x0+v.cols, v.y0+v.rows, ToneFrame)

	switch snap.GameID {
	case catch.ID:
		r.drawCatch(snap)
	case sequence.ID:
		r.drawSequence(snap, field)
	case dodge.ID:
		r.drawDodge(snap)
	}

	if snap.State.Ended() {
		r.drawResult(snap, ev)
	}

	c.DrawText(1, c.Height()-1, help, ToneDim)
	return c.String()
}

func (r *Renderer) drawHUD(snap core.Snapshot, title string) {
	c := r.canvas
	st := snap.State

	head := title
	if st.Difficulty != "" {
		head = fmt.Sprintf("%s · %s", title, st.Difficulty.Title())
	}
	c.DrawText(1, 0, head, ToneAccent)

	score := fmt.Sprintf("Score %d", st.Score)
	c.DrawText(c.Width()-len(score)-1, 0, score, ToneAccent)

	var left string
	switch snap.GameID {
	case catch.ID:
		left = fmt.Sprintf("%d:%02d", st.Remaining/60, st.Remaining%60)
	case sequence.ID:
		left = fmt.Sprintf("Round %d/%d", snap.Round, snap.Rounds)
	case dodge.ID:
		left = fmt.Sprintf("Speed %.0f  %s", snap.Speed, formatElapsed(st.Elapsed))
	}
	c.DrawText(1, 1, left, ToneDefault)

	tone := ToneDim
	switch snap.Feedback {
	case "Wrong order! Try again", "Caught by a shadow!":
		tone = ToneBad
	case "Perfect!", "Time's up!":
		tone = ToneGood
	}
	c.DrawText(c.Width()-len([]rune(snap.Feedback))-1, 1, snap.Feedback, tone)
}

func (r *Renderer) drawCatch(snap core.Snapshot) {
	c, v := r.canvas, r.view
	for i, e := range snap.Entities {
		tone := ToneGood
		switch {
		case e.TTL <= time.Second:
			tone = ToneBad
		case e.TTL <= 2*time.Second:
			tone = ToneWarn
		}
		x0, y0, x1, y1 := v.cellRect(e.Bounds)
		c.Fill(x0, y0, x1, y1, '░', tone)
		if i < 9 {
			cx, cy := v.toCell(e.Bounds.Center())
			c.Set(cx, cy, rune('1'+i), tone)
		}
	}
}

func (r *Renderer) drawSequence(snap core.Snapshot, field core.Vec) {
	c, v := r.canvas, r.view
	next := len(snap.Progress)
	for i, pt := range sequencePoints(snap.Target, field) {
		tone := ToneDefault
		switch {
		case snap.Feedback == "Wrong order! Try again":
			tone = ToneBad
		case i < next:
			tone = ToneGood
		case i == next:
			tone = ToneAccent
		}
		label := "(" + strconv.Itoa(i+1) + ")"
		cx, cy := v.toCell(pt)
		c.DrawText(cx-1, cy, label, tone)
	}
}

func (r *Renderer) drawDodge(snap core.Snapshot) {
	c, v := r.canvas, r.view
	for _, e := range snap.Entities {
		x0, y0, x1, y1 := v.cellRect(e.Bounds)
		c.Fill(x0, y0, x1, y1, '█', ToneDim)
	}
	if snap.Player != nil {
		x0, y0, x1, y1 := v.cellRect(*snap.Player)
		c.Fill(x0, y0, x1, y1, '▲', TonePlayer)
	}
}

func (r *Renderer) drawResult(snap core.Snapshot, ev *core.RewardEvent) {
	c, v := r.canvas, r.view
	lines := []string{"Session over", fmt.Sprintf("Score %d", snap.State.Score)}
	if ev != nil {
		lines = append(lines, fmt.Sprintf("+%d fragments", ev.Fragments))
	}

	width := 0
	for _, l := range lines {
		width = max(width, len([]rune(l)))
	}
	width += 4
	mid := v.y0 + v.rows/2
	x0 := v.x0 + (v.cols-width)/2
	y0 := mid - len(lines)/2 - 1
	y1 := y0 + len(lines) + 1

	c.Fill(x0, y0, x0+width-1, y1, ' ', ToneDefault)
	c.DrawBox(x0, y0, x0+width-1, y1, ToneAccent)
	for i, l := range lines {
		tone := ToneDefault
		if i == len(lines)-1 && ev != nil {
			tone = ToneGood
		}
		c.DrawText(x0+(width-len([]rune(l)))/2, y0+1+i, l, tone)
	}
}

func formatElapsed(d time.Duration) string {
	s := int(d / time.Second)
	return fmt.Sprintf("%d:%02d", s/60, s%60)
}
