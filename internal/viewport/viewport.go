// Package viewport maps a nibble cursor and a scroll offset onto the rows
// and columns of the editor screen.
package viewport

const (
	RowWidth = 16

	// ChromeRows is the number of screen rows not used for data: the mode
	// line, the column labels, a blank separator and the status line.
	ChromeRows = 4
	MinHeight  = 5

	HexColumn     = 12
	TextColumn    = 63
	AddressColumn = 1
	FirstDataRow  = 3

	// hex cells at or past this column are shifted by the gap after byte 7
	hexGapColumn = HexColumn + 8*3
)

type Movement int

const (
	Right Movement = iota
	Left
	Up
	Down
	PageUp
	PageDown
)

// View holds the cursor in nibbles and the first visible byte. Rows is the
// number of data rows on screen and Len the buffer length.
type View struct {
	Cursor int64
	Offset int64
	Rows   int64
	Len    int64
}

// VisibleRows returns the number of data rows for a terminal height.
func VisibleRows(height int) int64 {
	rows := int64(height - ChromeRows)
	if rows < 1 {
		rows = 1
	}
	return rows
}

// Fit clamps the cursor and moves the offset so that the cursor row is
// visible. It must run before every redraw.
func (v *View) Fit() {
	v.Cursor = clamp(v.Cursor, 0, 2*v.Len-1)

	rowStart := (v.Cursor / (2 * RowWidth)) * RowWidth
	if v.Cursor < 2*v.Offset {
		v.Offset = rowStart
	} else if v.Cursor >= 2*(v.Offset+RowWidth*v.Rows) {
		v.Offset = rowStart - RowWidth*(v.Rows-1)
	}

	v.Offset = clamp(v.Offset, 0, v.Len-v.Len%RowWidth)
}

// Move applies a navigation step. PageUp saturates at zero before Fit;
// PageDown is bounded only by Fit.
func (v *View) Move(mode Mode, mv Movement) {
	rowStep := int64(2 * RowWidth)
	page := v.Rows

	switch mv {
	case Right:
		v.Cursor += mode.Step()
	case Left:
		v.Cursor -= mode.Step()
	case Up:
		v.Cursor -= rowStep
	case Down:
		v.Cursor += rowStep
	case PageUp:
		v.Cursor = max(v.Cursor-rowStep*page, 0)
		v.Offset = max(v.Offset-RowWidth*page, 0)
	case PageDown:
		v.Cursor += rowStep * page
		v.Offset += RowWidth * page
	}

	v.Fit()
}

// SetMode aligns the cursor to a whole byte when the mode changes.
func (v *View) SetMode(from, to Mode) Mode {
	if from != to {
		v.Cursor -= v.Cursor % 2
	}
	return to
}

// JumpTo places the cursor on the high nibble of addr.
func (v *View) JumpTo(addr int64) {
	v.Cursor = 2 * addr
	v.Fit()
}

// Coords returns the screen column and row of the cursor.
func (v *View) Coords(mode Mode) (int, int) {
	n := v.Cursor - 2*v.Offset
	y := FirstDataRow + n/(2*RowWidth)
	col := (n % (2 * RowWidth)) / 2

	switch mode {
	case TextMode:
		return int(TextColumn + col), int(y)
	default:
		x := HexColumn + col*3 + n%2
		if x >= hexGapColumn {
			x++
		}
		return int(x), int(y)
	}
}

// HexCellColumn is the screen column of the first hex digit of a byte
// within its row.
func HexCellColumn(col int) int {
	x := HexColumn + col*3
	if col >= 8 {
		x++
	}
	return x
}

// DataRows is the number of rows that hold at least one byte.
func (v *View) DataRows() int64 {
	return min(v.Rows, (v.Len-v.Offset+RowWidth-1)/RowWidth)
}

func clamp(x, lo, hi int64) int64 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}
