package editor

import (
	"errors"
	"fmt"
	"log"
	"os"
	"slices"
	"strconv"
	"strings"

	"hexed/internal/buffer"
	"hexed/internal/config"
	"hexed/internal/search"
	"hexed/internal/viewport"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"github.com/mattn/go-isatty"
)

var ErrNotATerminal = errors.New("not a terminal")

const (
	screenWidth  = 80
	columnLabels = "00 01 02 03 04 05 06 07  08 09 0a 0b 0c 0d 0e 0f"
)

// PromptPurpose says what a submitted prompt line is used for.
type PromptPurpose int

const (
	PromptNone PromptPurpose = iota
	PromptJump
	PromptSearch
	PromptQuit
	PromptOverwrite
)

var promptPrefixes = map[PromptPurpose]string{
	PromptJump:      "j ",
	PromptSearch:    "/",
	PromptQuit:      "quit without saving? ",
	PromptOverwrite: "file changed on disk, overwrite? ",
}

// Prompt is the pending command. With PromptNone the editor is taking
// edit keys; otherwise keys go to Input until it is submitted or cancelled.
type Prompt struct {
	Purpose PromptPurpose
	Input   textinput.Model
}

func (p Prompt) Active() bool {
	return p.Purpose != PromptNone
}

func (p Prompt) Text() string {
	return p.Input.Value()
}

type Model struct {
	buf     *buffer.Buffer
	view    viewport.View
	mode    viewport.Mode
	prompt  Prompt
	results *search.Results
	opts    config.Options
	styles  *config.Styles

	width    int
	height   int
	quitting bool

	statusMsg string
	statusErr bool
}

func NewModel(filename string, opts config.Options, r *lipgloss.Renderer) (*Model, error) {
	buf, err := buffer.Open(filename)
	if err != nil {
		return nil, err
	}
	buf.SetHistoryLimit(opts.HistoryLimit)

	return &Model{
		buf:    buf,
		view:   viewport.View{Len: buf.Size(), Rows: 1},
		mode:   viewport.HexMode,
		opts:   opts,
		styles: config.NewStyles(r, &opts.Theme),
	}, nil
}

// Run opens filename in a full screen session. The terminal is restored on
// every return path by the program runner.
func Run(filename string, opts config.Options) error {
	if !isatty.IsTerminal(os.Stdout.Fd()) || !isatty.IsTerminal(os.Stdin.Fd()) {
		return ErrNotATerminal
	}

	m, err := NewModel(filename, opts, lipgloss.DefaultRenderer())
	if err != nil {
		return err
	}

	p := tea.NewProgram(m, tea.WithAltScreen())
	_, err = p.Run()
	return err
}

func (m *Model) Init() tea.Cmd {
	return nil
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.view.Rows = viewport.VisibleRows(msg.Height)

	case tea.KeyMsg:
		if m.prompt.Active() {
			cmd = m.handlePromptKey(msg)
		} else {
			m.statusMsg = ""
			m.statusErr = false
			cmd = m.handleEditKey(msg)
		}

	default:
		if m.prompt.Active() {
			m.prompt.Input, cmd = m.prompt.Input.Update(msg)
		}
	}

	m.view.Fit()
	return m, cmd
}

func (m *Model) handleEditKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.Type {
	case tea.KeyRight:
		m.view.Move(m.mode, viewport.Right)
	case tea.KeyLeft, tea.KeyBackspace:
		m.view.Move(m.mode, viewport.Left)
	case tea.KeyDown:
		m.view.Move(m.mode, viewport.Down)
	case tea.KeyUp:
		m.view.Move(m.mode, viewport.Up)
	case tea.KeyPgDown:
		m.view.Move(m.mode, viewport.PageDown)
	case tea.KeyPgUp:
		m.view.Move(m.mode, viewport.PageUp)
	case tea.KeyTab:
		m.mode = m.view.SetMode(m.mode, m.mode.Next())
	case tea.KeyEsc:
		m.mode = m.view.SetMode(m.mode, viewport.HexMode)
	case tea.KeyCtrlS:
		return m.trySave()
	case tea.KeyCtrlC:
		return m.tryQuit()
	case tea.KeySpace:
		if m.mode == viewport.TextMode {
			m.write(' ')
		}
	case tea.KeyRunes:
		for _, r := range msg.Runes {
			if cmd := m.handleRune(r); cmd != nil {
				return cmd
			}
		}
	}
	return nil
}

func (m *Model) handleRune(r rune) tea.Cmd {
	if m.mode == viewport.TextMode {
		if r >= ' ' && r <= '~' {
			m.write(byte(r))
		}
		return nil
	}

	if n, ok := hexNibble(r); ok {
		m.write(n)
		return nil
	}

	switch r {
	case 'u', 'z':
		if pos, ok := m.buf.Undo(); ok {
			m.view.Cursor = 2 * pos
		}
	case 'r':
		if pos, ok := m.buf.Redo(); ok {
			m.view.Cursor = 2 * pos
		}
	case 'w':
		return m.trySave()
	case 'j':
		return m.openPrompt(PromptJump)
	case '/':
		m.results = nil
		return m.openPrompt(PromptSearch)
	case 'n':
		if m.results != nil {
			m.view.JumpTo(m.results.Next())
		}
	case 'm':
		if m.results != nil {
			m.view.JumpTo(m.results.Prev())
		}
	case 'q':
		return m.tryQuit()
	}
	return nil
}

// write stores v at the cursor with the granularity of the current mode and
// advances the cursor.
func (m *Model) write(v byte) {
	var err error
	switch m.mode.Granularity() {
	case viewport.WriteNibble:
		err = m.buf.WriteNibble(m.view.Cursor, v)
	default:
		err = m.buf.WriteByteAt(m.view.Cursor, v)
	}
	if err != nil {
		m.setError(err)
		return
	}
	m.view.Move(m.mode, viewport.Right)
}

func (m *Model) openPrompt(purpose PromptPurpose) tea.Cmd {
	ti := textinput.New()
	ti.Prompt = promptPrefixes[purpose]
	if m.width > 0 {
		ti.Width = max(m.width-len(ti.Prompt)-1, 1)
	}
	cmd := ti.Focus()
	m.prompt = Prompt{Purpose: purpose, Input: ti}
	return cmd
}

func (m *Model) closePrompt() {
	m.prompt = Prompt{}
}

func (m *Model) handlePromptKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.Type {
	case tea.KeyEsc:
		m.closePrompt()
		return nil
	case tea.KeyBackspace:
		if m.prompt.Text() == "" {
			m.closePrompt()
			return nil
		}
	case tea.KeyEnter:
		purpose, text := m.prompt.Purpose, m.prompt.Text()
		m.closePrompt()
		return m.submit(purpose, text)
	}

	var cmd tea.Cmd
	m.prompt.Input, cmd = m.prompt.Input.Update(msg)
	return cmd
}

func (m *Model) submit(purpose PromptPurpose, text string) tea.Cmd {
	switch purpose {
	case PromptJump:
		if addr, ok := parseAddress(text); ok {
			m.view.JumpTo(addr)
		}
	case PromptSearch:
		m.results = search.Search(m.buf.Data(), text)
		if m.results != nil {
			log.Printf("search %q: %d matches", text, m.results.Len())
			m.view.JumpTo(m.results.Current())
		} else {
			log.Printf("search %q: no match", text)
		}
	case PromptQuit:
		if confirmed(text) {
			m.quitting = true
			return tea.Quit
		}
	case PromptOverwrite:
		if confirmed(text) {
			m.save()
		}
	}
	return nil
}

func (m *Model) tryQuit() tea.Cmd {
	if !m.buf.IsModified() {
		m.quitting = true
		return tea.Quit
	}
	return m.openPrompt(PromptQuit)
}

func (m *Model) trySave() tea.Cmd {
	changed, err := m.buf.HasChangedOnDisk()
	if err == nil && changed {
		return m.openPrompt(PromptOverwrite)
	}
	m.save()
	return nil
}

func (m *Model) save() {
	if err := m.buf.Save(); err != nil {
		log.Printf("save %s: %v", m.buf.Filename(), err)
		m.setError(fmt.Errorf("unable to save file: %w", err))
		return
	}
	log.Printf("saved %s (%d bytes)", m.buf.Filename(), m.buf.Size())
	m.statusMsg = "written"
}

func (m *Model) setError(err error) {
	m.statusMsg = err.Error()
	m.statusErr = true
}

func (m *Model) View() string {
	if m.quitting {
		return ""
	}
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}
	if m.height < viewport.MinHeight {
		return "terminal too small"
	}

	c := newCanvas(m.width, m.height-1)
	m.drawGrid(c)
	if !m.prompt.Active() {
		x, y := m.view.Coords(m.mode)
		c.setStyle(x, y, styleCursor)
	}

	return c.render(m.styles) + "\n" + m.statusLine()
}

func (m *Model) drawGrid(c *canvas) {
	mode := m.mode.String()
	c.put(screenWidth-len(mode), 0, mode, styleMode)
	c.put(viewport.HexColumn, 1, columnLabels, styleHeader)

	v := m.view
	data := m.buf.ReadWindow(v.Offset, int(viewport.RowWidth*v.Rows))
	dataRows := v.DataRows()

	for row := int64(0); row < v.Rows; row++ {
		y := int(row) + viewport.FirstDataRow
		if row < dataRows {
			c.put(viewport.AddressColumn, y, fmt.Sprintf("%08x", v.Offset+row*viewport.RowWidth), styleAddress)
		}

		for col := 0; col < viewport.RowWidth; col++ {
			i := int(row)*viewport.RowWidth + col
			if i >= len(data) {
				break
			}
			offset := v.Offset + int64(i)
			b := data[i]

			style, matchLen := m.matchStyle(offset)
			c.put(viewport.TextColumn+col, y, string(m.opts.Glyph(b)), style)

			x := viewport.HexCellColumn(col)
			x = c.put(x, y, fmt.Sprintf("%02x", b), style)
			if style != styleNone && col != viewport.RowWidth-1 && matchLen > 1 {
				if next, _ := m.matchStyle(offset + 1); next == style {
					// carry the highlight across the separator into the next cell
					c.setStyle(x, y, style)
					if col == 7 {
						c.setStyle(x+1, y, style)
					}
				}
			}
		}
	}
}

// matchStyle returns the style of the byte at offset and the length of the
// match run from there. Bytes inside the selected match get styleCurrent.
func (m *Model) matchStyle(offset int64) (styleID, int64) {
	if m.results == nil || !m.opts.Highlight {
		return styleNone, 0
	}
	n, ok := m.results.MatchLen(offset)
	if !ok {
		return styleNone, 0
	}
	if slices.Contains(m.results.Covering(offset), m.results.Current()) {
		return styleCurrent, n
	}
	return styleHighlight, n
}

func (m *Model) statusLine() string {
	if m.prompt.Active() {
		return m.prompt.Input.View()
	}

	var b strings.Builder
	fmt.Fprintf(&b, "[%s] %s", m.buf.Filename(), humanize.Bytes(uint64(m.buf.Size())))
	if m.buf.IsModified() {
		b.WriteString(" ")
		b.WriteString(m.styles.Unsaved.Render("[+]"))
	}
	if m.results != nil {
		fmt.Fprintf(&b, " [%d/%d]", m.results.Index()+1, m.results.Len())
	}
	if m.statusMsg != "" {
		b.WriteString(" ")
		if m.statusErr {
			b.WriteString(m.styles.Error.Render(m.statusMsg))
		} else {
			b.WriteString(m.statusMsg)
		}
	}
	return b.String()
}

func hexNibble(r rune) (byte, bool) {
	switch {
	case r >= '0' && r <= '9':
		return byte(r - '0'), true
	case r >= 'a' && r <= 'f':
		return byte(r-'a') + 10, true
	case r >= 'A' && r <= 'F':
		return byte(r-'A') + 10, true
	}
	return 0, false
}

// parseAddress reads a hex byte address with an optional 0x prefix.
func parseAddress(s string) (int64, bool) {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(strings.ToLower(s), "0x")
	addr, err := strconv.ParseInt(s, 16, 62)
	if err != nil || addr < 0 {
		return 0, false
	}
	return addr, true
}

func confirmed(s string) bool {
	s = strings.TrimSpace(s)
	return strings.EqualFold(s, "y") || strings.EqualFold(s, "yes")
}
