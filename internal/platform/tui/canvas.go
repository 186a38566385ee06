package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Tone selects the style of a canvas cell.
type Tone int

const (
	ToneDefault Tone = iota
	ToneDim
	ToneFrame
	ToneAccent
	ToneGood
	ToneWarn
	ToneBad
	TonePlayer
)

var toneStyles = map[Tone]lipgloss.Style{
	ToneDefault: lipgloss.NewStyle(),
	ToneDim:     lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
	ToneFrame:   lipgloss.NewStyle().Foreground(lipgloss.Color("240")),
	ToneAccent:  lipgloss.NewStyle().Foreground(lipgloss.Color("229")).Bold(true),
	ToneGood:    lipgloss.NewStyle().Foreground(lipgloss.Color("10")),
	ToneWarn:    lipgloss.NewStyle().Foreground(lipgloss.Color("11")),
	ToneBad:     lipgloss.NewStyle().Foreground(lipgloss.Color("9")),
	TonePlayer:  lipgloss.NewStyle().Foreground(lipgloss.Color("14")).Bold(true),
}

type cell struct {
	r    rune
	tone Tone
}

// Canvas is a 2D character buffer the play screen draws snapshots into.
type Canvas struct {
	width  int
	height int
	cells  [][]cell
}

// NewCanvas creates a blank canvas with the given dimensions.
func NewCanvas(width, height int) *Canvas {
	c := &Canvas{}
	c.Resize(width, height)
	return c
}

// Width returns the canvas width in characters.
func (c *Canvas) Width() int {
	return c.width
}

// Height returns the canvas height in characters.
func (c *Canvas) Height() int {
	return c.height
}

// Resize reallocates the buffer. Content is discarded.
func (c *Canvas) Resize(width, height int) {
	c.width = max(width, 0)
	c.height = max(height, 0)
	c.cells = make([][]cell, c.height)
	for y := range c.cells {
		c.cells[y] = make([]cell, c.width)
	}
	c.Clear()
}

// Clear fills the canvas with spaces.
func (c *Canvas) Clear() {
	for y := range c.cells {
		for x := range c.cells[y] {
			c.cells[y][x] = cell{r: ' '}
		}
	}
}

// Set places a rune at the given position.
// Out-of-bounds coordinates are silently ignored.
func (c *Canvas) Set(x, y int, r rune, tone Tone) {
	if x < 0 || x >= c.width || y < 0 || y >= c.height {
		return
	}
	c.cells[y][x] = cell{r: r, tone: tone}
}

// Get returns the rune at the given position, or a space when out of bounds.
func (c *Canvas) Get(x, y int) rune {
	if x < 0 || x >= c.width || y < 0 || y >= c.height {
		return ' '
	}
	return c.cells[y][x].r
}

// DrawText writes a string horizontally starting at (x, y).
func (c *Canvas) DrawText(x, y int, text string, tone Tone) {
	i := 0
	for _, r := range text {
		c.Set(x+i, y, r, tone)
		i++
	}
}

// DrawTextCentered draws text centered horizontally at row y.
func (c *Canvas) DrawTextCentered(y int, text string, tone Tone) {
	c.DrawText((c.width-lipgloss.Width(text))/2, y, text, tone)
}

// Fill fills the inclusive cell rectangle (x0, y0)-(x1, y1).
func (c *Canvas) Fill(x0, y0, x1, y1 int, r rune, tone Tone) {
	for y := y0; y <= y1; y++ {
		for x := x0; x <= x1; x++ {
			c.Set(x, y, r, tone)
		}
	}
}

// DrawBox draws a rounded outline around the inclusive cell rectangle.
func (c *Canvas) DrawBox(x0, y0, x1, y1 int, tone Tone) {
	for x := x0 + 1; x < x1; x++ {
		c.Set(x, y0, '─', tone)
		c.Set(x, y1, '─', tone)
	}
	for y := y0 + 1; y < y1; y++ {
		c.Set(x0, y, '│', tone)
		c.Set(x1, y, '│', tone)
	}
	c.Set(x0, y0, '╭', tone)
	c.Set(x1, y0, '╮', tone)
	c.Set(x0, y1, '╰', tone)
	c.Set(x1, y1, '╯', tone)
}

// String renders the canvas with styles applied.
// Adjacent cells sharing a tone are rendered as one run.
func (c *Canvas) String() string {
	var sb strings.Builder
	sb.Grow(c.width*c.height*2 + c.height)

	for y := range c.height {
		if y > 0 {
			sb.WriteRune('\n')
		}
		row := c.cells[y]
		x := 0
		for x < c.width {
			tone := row[x].tone
			var run strings.Builder
			for x < c.width && row[x].tone == tone {
				run.WriteRune(row[x].r)
				x++
			}
			sb.WriteString(toneStyles[tone].Render(run.String()))
		}
	}
	return sb.String()
}

// Plain returns the canvas content without styling.
func (c *Canvas) Plain() string {
	var sb strings.Builder
	for y := range c.height {
		if y > 0 {
			sb.WriteRune('\n')
		}
		for x := range c.width {
			sb.WriteRune(c.cells[y][x].r)
		}
	}
	return sb.String()
}
