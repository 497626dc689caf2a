package buffer

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func newTestBuffer(t *testing.T, data []byte) *Buffer {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.bin")
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatal(err)
	}
	b, err := Open(path)
	if err != nil {
		t.Fatal(err)
	}
	return b
}

func TestOpenMissingFile(t *testing.T) {
	_, err := Open(filepath.Join(t.TempDir(), "missing.bin"))
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("expected ErrNotExist, got %v", err)
	}
}

func TestOpenEmptyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.bin")
	if err := os.WriteFile(path, nil, 0644); err != nil {
		t.Fatal(err)
	}
	_, err := Open(path)
	if !errors.Is(err, ErrEmpty) {
		t.Errorf("expected ErrEmpty, got %v", err)
	}
}

func TestWriteNibble(t *testing.T) {
	tests := []struct {
		name   string
		cursor int64
		nibble byte
		want   byte
	}{
		{"high nibble", 2, 0xA, 0xA2},
		{"low nibble", 3, 0xB, 0x1B},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := newTestBuffer(t, []byte{0x00, 0x12, 0x34})
			if err := b.WriteNibble(tt.cursor, tt.nibble); err != nil {
				t.Fatal(err)
			}
			if val, _ := b.GetByte(1); val != tt.want {
				t.Errorf("expected %02X, got %02X", tt.want, val)
			}
			if !b.IsModified() {
				t.Error("expected buffer to be modified")
			}
		})
	}
}

func TestWriteOutOfRange(t *testing.T) {
	b := newTestBuffer(t, []byte{0x01, 0x02})

	if err := b.WriteNibble(4, 0x1); !errors.Is(err, ErrOutOfRange) {
		t.Errorf("expected ErrOutOfRange, got %v", err)
	}
	if err := b.WriteByteAt(-1, 0x41); !errors.Is(err, ErrOutOfRange) {
		t.Errorf("expected ErrOutOfRange, got %v", err)
	}
	if b.IsModified() || len(b.undoStack) > 0 {
		t.Error("failed write must not change state")
	}
}

func TestUndoRestoresWholeByte(t *testing.T) {
	b := newTestBuffer(t, []byte{0x00, 0x12, 0x34})

	b.WriteNibble(2, 0xF)
	b.WriteNibble(3, 0xF)
	if val, _ := b.GetByte(1); val != 0xFF {
		t.Fatalf("expected FF, got %02X", val)
	}

	pos, ok := b.Undo()
	if !ok || pos != 1 {
		t.Fatalf("expected undo at 1, got %d %v", pos, ok)
	}
	if val, _ := b.GetByte(1); val != 0xF2 {
		t.Errorf("expected F2 after first undo, got %02X", val)
	}

	b.Undo()
	if !bytes.Equal(b.Data(), []byte{0x00, 0x12, 0x34}) {
		t.Errorf("expected original data, got % X", b.Data())
	}

	if _, ok := b.Undo(); ok {
		t.Error("expected undo on empty stack to report false")
	}
}

func TestRedo(t *testing.T) {
	b := newTestBuffer(t, []byte{0x41, 0x42})
	b.WriteByteAt(2, 0x5A)
	b.Undo()

	if len(b.redoStack) != 1 {
		t.Fatalf("expected one redo entry, got %d", len(b.redoStack))
	}

	pos, ok := b.Redo()
	if !ok || pos != 1 {
		t.Fatalf("expected redo at 1, got %d %v", pos, ok)
	}
	if val, _ := b.GetByte(1); val != 0x5A {
		t.Errorf("expected 5A after redo, got %02X", val)
	}

	if _, ok := b.Redo(); ok {
		t.Error("expected redo on empty stack to report false")
	}
}

func TestWriteAfterUndoClearsRedo(t *testing.T) {
	b := newTestBuffer(t, []byte{0x00, 0x00, 0x00})
	b.WriteByteAt(0, 0x01)
	b.WriteByteAt(2, 0x02)
	b.Undo()
	b.Undo()

	b.WriteByteAt(4, 0x03)
	if len(b.redoStack) > 0 {
		t.Error("expected redo stack to be cleared by a new write")
	}
	if !bytes.Equal(b.Data(), []byte{0x00, 0x00, 0x03}) {
		t.Errorf("unexpected data % X", b.Data())
	}
}

func TestHistoryLimitDropsOldest(t *testing.T) {
	b := newTestBuffer(t, []byte{0x00, 0x00, 0x00})
	b.SetHistoryLimit(2)

	b.WriteByteAt(0, 0x01)
	b.WriteByteAt(2, 0x02)
	b.WriteByteAt(4, 0x03)

	b.Undo()
	b.Undo()
	if _, ok := b.Undo(); ok {
		t.Error("expected oldest edit to have been evicted")
	}
	if !bytes.Equal(b.Data(), []byte{0x01, 0x00, 0x00}) {
		t.Errorf("unexpected data % X", b.Data())
	}
}

func TestReadWindow(t *testing.T) {
	b := newTestBuffer(t, []byte{0x01, 0x02, 0x03, 0x04, 0x05})

	tests := []struct {
		offset int64
		n      int
		want   []byte
	}{
		{1, 3, []byte{0x02, 0x03, 0x04}},
		{3, 16, []byte{0x04, 0x05}},
		{5, 16, nil},
		{-1, 2, nil},
	}
	for _, tt := range tests {
		got := b.ReadWindow(tt.offset, tt.n)
		if !bytes.Equal(got, tt.want) {
			t.Errorf("ReadWindow(%d, %d) = % X, want % X", tt.offset, tt.n, got, tt.want)
		}
	}
}

func TestSave(t *testing.T) {
	b := newTestBuffer(t, []byte{0x01, 0x02, 0x03, 0x04, 0x05})

	b.WriteByteAt(4, 0xFF)
	if err := b.Save(); err != nil {
		t.Fatal(err)
	}
	if b.IsModified() {
		t.Error("expected save to clear modified flag")
	}

	b2, err := Open(b.Filename())
	if err != nil {
		t.Fatal(err)
	}
	if b2.Size() != 5 {
		t.Errorf("expected size 5, got %d", b2.Size())
	}
	if val, _ := b2.GetByte(2); val != 0xFF {
		t.Errorf("expected 0xFF at offset 2, got %02X", val)
	}
}

func TestSaveFailureKeepsDirty(t *testing.T) {
	b := newTestBuffer(t, []byte{0x01, 0x02})
	b.WriteByteAt(0, 0x10)

	b.filename = filepath.Join(t.TempDir(), "missing", "dir", "file.bin")
	if err := b.Save(); err == nil {
		t.Fatal("expected save to fail")
	}
	if !b.IsModified() {
		t.Error("expected modified flag to stay set")
	}
	if val, _ := b.GetByte(0); val != 0x10 {
		t.Errorf("expected in-memory edit to survive, got %02X", val)
	}
}

func TestHasChangedOnDisk(t *testing.T) {
	b := newTestBuffer(t, []byte{0x01, 0x02})

	changed, err := b.HasChangedOnDisk()
	if err != nil || changed {
		t.Fatalf("expected unchanged, got %v %v", changed, err)
	}

	if err := os.WriteFile(b.Filename(), []byte{0x09, 0x09}, 0644); err != nil {
		t.Fatal(err)
	}
	changed, err = b.HasChangedOnDisk()
	if err != nil || !changed {
		t.Errorf("expected changed, got %v %v", changed, err)
	}

	if err := b.Save(); err != nil {
		t.Fatal(err)
	}
	if changed, _ := b.HasChangedOnDisk(); changed {
		t.Error("expected save to reset the on-disk hash")
	}
}
