package editor

import (
	"strings"

	"hexed/internal/config"

	"github.com/mattn/go-runewidth"
)

type styleID int

const (
	styleNone styleID = iota
	styleCursor
	styleHighlight
	styleCurrent
	styleAddress
	styleHeader
	styleMode
)

type cell struct {
	r     rune
	style styleID
}

// canvas is a fixed grid of cells addressed by screen column and row.
// Writes outside the grid are dropped.
type canvas struct {
	width  int
	height int
	cells  [][]cell
}

func newCanvas(width, height int) *canvas {
	c := &canvas{width: width, height: height, cells: make([][]cell, height)}
	for y := range c.cells {
		row := make([]cell, width)
		for x := range row {
			row[x] = cell{r: ' '}
		}
		c.cells[y] = row
	}
	return c
}

func (c *canvas) inside(x, y int) bool {
	return x >= 0 && x < c.width && y >= 0 && y < c.height
}

// put writes s starting at (x, y) and returns the column after it.
func (c *canvas) put(x, y int, s string, style styleID) int {
	for _, r := range s {
		w := max(runewidth.RuneWidth(r), 1)
		if c.inside(x, y) {
			c.cells[y][x] = cell{r: r, style: style}
			// continuation cells of a wide rune are skipped when rendering
			for i := 1; i < w && c.inside(x+i, y); i++ {
				c.cells[y][x+i] = cell{r: 0, style: style}
			}
		}
		x += w
	}
	return x
}

func (c *canvas) setStyle(x, y int, style styleID) {
	if c.inside(x, y) {
		c.cells[y][x].style = style
	}
}

func (c *canvas) render(styles *config.Styles) string {
	lines := make([]string, c.height)
	for y, row := range c.cells {
		// trailing unstyled blanks carry no information
		end := len(row)
		for end > 0 && row[end-1].style == styleNone && (row[end-1].r == ' ' || row[end-1].r == 0) {
			end--
		}

		var b strings.Builder
		var run strings.Builder
		cur := styleNone
		flush := func() {
			if run.Len() == 0 {
				return
			}
			b.WriteString(applyStyle(styles, cur, run.String()))
			run.Reset()
		}
		for _, cl := range row[:end] {
			if cl.style != cur {
				flush()
				cur = cl.style
			}
			if cl.r != 0 {
				run.WriteRune(cl.r)
			}
		}
		flush()
		lines[y] = b.String()
	}
	return strings.Join(lines, "\n")
}

func applyStyle(styles *config.Styles, id styleID, s string) string {
	switch id {
	case styleCursor:
		return styles.Cursor.Render(s)
	case styleHighlight:
		return styles.Highlight.Render(s)
	case styleCurrent:
		return styles.Current.Render(s)
	case styleAddress:
		return styles.Address.Render(s)
	case styleHeader:
		return styles.Header.Render(s)
	case styleMode:
		return styles.Mode.Render(s)
	}
	return s
}
