package editor

import (
	"io"
	"testing"

	"hexed/internal/config"
	"hexed/internal/viewport"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

func plainStyles() *config.Styles {
	return config.NewStyles(lipgloss.NewRenderer(io.Discard), &config.DefaultConfig().Theme)
}

func TestCanvasPutAndRender(t *testing.T) {
	c := newCanvas(10, 2)
	next := c.put(2, 0, "ab", styleNone)
	if next != 4 {
		t.Errorf("expected next column 4, got %d", next)
	}
	c.put(8, 0, "xyz", styleNone)
	c.put(-1, 1, "12", styleHeader)

	got := c.render(plainStyles())
	want := "  ab    xy\n2"
	if got != want {
		t.Errorf("render = %q, want %q", got, want)
	}
}

func TestCanvasWideRune(t *testing.T) {
	c := newCanvas(6, 1)
	next := c.put(0, 0, "世x", styleNone)
	if next != 3 {
		t.Errorf("expected wide rune to take two columns, got next %d", next)
	}
	if got := c.render(plainStyles()); got != "世x" {
		t.Errorf("render = %q", got)
	}
}

func TestSearchHighlightCells(t *testing.T) {
	m := newTestModel(t, []byte("xaaax"))
	typeText(m, "//aa")
	keys(m, key(tea.KeyEnter))

	c := newCanvas(m.width, m.height-1)
	m.drawGrid(c)
	y := viewport.FirstDataRow

	// matches at 1 and 2; the one at 1 is selected
	for col := 0; col < 5; col++ {
		x := viewport.HexCellColumn(col)
		want := styleNone
		switch col {
		case 1, 2:
			want = styleCurrent
		case 3:
			want = styleHighlight
		}
		if c.cells[y][x].style != want || c.cells[y][x+1].style != want {
			t.Errorf("hex cell %d: style %v, want %v", col, c.cells[y][x].style, want)
		}
		if c.cells[y][viewport.TextColumn+col].style != want {
			t.Errorf("ascii cell %d: style %v, want %v", col, c.cells[y][viewport.TextColumn+col].style, want)
		}
	}

	// the separator joins cells of the same style but not after the last byte
	if c.cells[y][viewport.HexCellColumn(1)+2].style != styleCurrent {
		t.Error("expected separator after byte 1 to be highlighted")
	}
	if c.cells[y][viewport.HexCellColumn(2)+2].style != styleNone {
		t.Error("expected separator between selected and other match to be plain")
	}
	if c.cells[y][viewport.HexCellColumn(3)+2].style != styleNone {
		t.Error("expected separator after the last matched byte to be plain")
	}
}

func TestHighlightAcrossGap(t *testing.T) {
	data := make([]byte, 16)
	data[7], data[8] = 0xAA, 0xBB
	m := newTestModel(t, data)
	typeText(m, "/aabb")
	keys(m, key(tea.KeyEnter))

	c := newCanvas(m.width, m.height-1)
	m.drawGrid(c)
	y := viewport.FirstDataRow
	x := viewport.HexCellColumn(7)
	for i := 0; i < 4; i++ {
		if c.cells[y][x+i].style != styleCurrent {
			t.Errorf("expected column %d to be highlighted", x+i)
		}
	}
}

func TestHighlightDisabled(t *testing.T) {
	m := newTestModel(t, []byte("aa"))
	m.opts.Highlight = false
	typeText(m, "//a")
	keys(m, key(tea.KeyEnter))
	if m.results == nil {
		t.Fatal("expected search to still find matches")
	}

	c := newCanvas(m.width, m.height-1)
	m.drawGrid(c)
	if c.cells[viewport.FirstDataRow][viewport.HexColumn].style != styleNone {
		t.Error("expected no highlight when disabled")
	}
}

func TestSelectedMatchFollowsNavigation(t *testing.T) {
	m := newTestModel(t, []byte("xyxy"))
	typeText(m, "//xy")
	keys(m, key(tea.KeyEnter))

	styleAt := func(col int) styleID {
		c := newCanvas(m.width, m.height-1)
		m.drawGrid(c)
		return c.cells[viewport.FirstDataRow][viewport.HexCellColumn(col)].style
	}

	if styleAt(0) != styleCurrent || styleAt(2) != styleHighlight {
		t.Errorf("expected first match selected, got %v and %v", styleAt(0), styleAt(2))
	}

	typeText(m, "n")
	if styleAt(0) != styleHighlight || styleAt(3) != styleCurrent {
		t.Errorf("expected second match selected, got %v and %v", styleAt(0), styleAt(3))
	}
}
