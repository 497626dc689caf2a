package buffer

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"
)

var (
	ErrEmpty      = errors.New("file is empty")
	ErrOutOfRange = errors.New("position out of range")
)

// Edit records a single overwritten byte. Prev is always the value held at
// Position immediately before the write.
type Edit struct {
	Position int64
	Prev     byte
	New      byte
}

type Buffer struct {
	filename     string
	data         []byte
	originalHash string
	modified     bool
	undoStack    []Edit
	redoStack    []Edit
	historyLimit int
}

// Open reads the whole file into memory. Zero-length files are rejected
// because no cursor address exists in them.
func Open(filename string) (*Buffer, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", filename, err)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("%s: %w", filename, ErrEmpty)
	}

	return &Buffer{
		filename:     filename,
		data:         data,
		originalHash: hashOf(data),
	}, nil
}

// SetHistoryLimit caps the undo stack. Zero or less means unbounded. When
// the cap is exceeded the oldest edits are dropped.
func (b *Buffer) SetHistoryLimit(n int) {
	b.historyLimit = n
	b.trimHistory()
}

func (b *Buffer) Filename() string {
	return b.filename
}

func (b *Buffer) IsModified() bool {
	return b.modified
}

func (b *Buffer) Size() int64 {
	return int64(len(b.data))
}

func (b *Buffer) Data() []byte {
	return b.data
}

func (b *Buffer) GetByte(offset int64) (byte, bool) {
	if offset < 0 || offset >= int64(len(b.data)) {
		return 0, false
	}
	return b.data[offset], true
}

// ReadWindow returns up to n bytes starting at offset. Near the end of the
// buffer the slice is shorter than requested; it is never padded.
func (b *Buffer) ReadWindow(offset int64, n int) []byte {
	if offset < 0 || offset >= int64(len(b.data)) || n <= 0 {
		return nil
	}
	end := offset + int64(n)
	if end > int64(len(b.data)) {
		end = int64(len(b.data))
	}
	return b.data[offset:end]
}

// WriteNibble overwrites the high nibble of byte cursor/2 when cursor is
// even and the low nibble when it is odd.
func (b *Buffer) WriteNibble(cursor int64, nibble byte) error {
	pos := cursor / 2
	old, ok := b.GetByte(pos)
	if cursor < 0 || !ok {
		return fmt.Errorf("nibble %d: %w", cursor, ErrOutOfRange)
	}

	var nb byte
	if cursor%2 == 0 {
		nb = (old & 0x0F) | (nibble << 4)
	} else {
		nb = (old & 0xF0) | (nibble & 0x0F)
	}
	b.apply(pos, old, nb)
	return nil
}

// WriteByteAt overwrites the whole byte at cursor/2.
func (b *Buffer) WriteByteAt(cursor int64, value byte) error {
	pos := cursor / 2
	old, ok := b.GetByte(pos)
	if cursor < 0 || !ok {
		return fmt.Errorf("nibble %d: %w", cursor, ErrOutOfRange)
	}
	b.apply(pos, old, value)
	return nil
}

func (b *Buffer) apply(pos int64, old, nb byte) {
	b.undoStack = append(b.undoStack, Edit{Position: pos, Prev: old, New: nb})
	b.redoStack = nil
	b.trimHistory()

	b.data[pos] = nb
	b.modified = true
}

func (b *Buffer) trimHistory() {
	if b.historyLimit <= 0 || len(b.undoStack) <= b.historyLimit {
		return
	}
	excess := len(b.undoStack) - b.historyLimit
	b.undoStack = append([]Edit(nil), b.undoStack[excess:]...)
}

// Undo restores the previous value of the most recent edit and returns the
// byte position it touched.
func (b *Buffer) Undo() (int64, bool) {
	if len(b.undoStack) == 0 {
		return 0, false
	}

	e := b.undoStack[len(b.undoStack)-1]
	b.undoStack = b.undoStack[:len(b.undoStack)-1]

	b.data[e.Position] = e.Prev
	b.redoStack = append(b.redoStack, e)
	b.modified = true
	return e.Position, true
}

func (b *Buffer) Redo() (int64, bool) {
	if len(b.redoStack) == 0 {
		return 0, false
	}

	e := b.redoStack[len(b.redoStack)-1]
	b.redoStack = b.redoStack[:len(b.redoStack)-1]

	b.data[e.Position] = e.New
	b.undoStack = append(b.undoStack, e)
	b.modified = true
	return e.Position, true
}

// HasChangedOnDisk reports whether the file no longer matches what was
// loaded or last saved.
func (b *Buffer) HasChangedOnDisk() (bool, error) {
	data, err := os.ReadFile(b.filename)
	if err != nil {
		return false, err
	}
	return hashOf(data) != b.originalHash, nil
}

// Save overwrites the original file with the whole buffer. On failure the
// dirty flag is left set.
func (b *Buffer) Save() error {
	if err := os.WriteFile(b.filename, b.data, 0644); err != nil {
		return err
	}

	b.originalHash = hashOf(b.data)
	b.modified = false
	return nil
}

func hashOf(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
