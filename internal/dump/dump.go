// Package dump prints a plain hex/ASCII table of a file. The column layout
// matches the interactive view and is relied on by scripts, so it must not
// change.
package dump

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"hexed/internal/config"
)

const (
	bytesPerRow = 16
	Header      = "            00 01 02 03 04 05 06 07  08 09 0a 0b 0c 0d 0e 0f"
)

// File reads path and writes its dump to w.
func File(w io.Writer, path string, opts config.Options) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return Write(w, data, opts)
}

func Write(w io.Writer, data []byte, opts config.Options) error {
	bw := bufio.NewWriter(w)

	fmt.Fprintf(bw, "%s\n\n", Header)

	for row := 0; row*bytesPerRow < len(data); row++ {
		start := row * bytesPerRow
		fmt.Fprintf(bw, " %08x   ", start)

		for col := 0; col < bytesPerRow; col++ {
			if col == 8 {
				bw.WriteByte(' ')
			}
			if start+col >= len(data) {
				bw.WriteString("   ")
			} else {
				fmt.Fprintf(bw, "%02x ", data[start+col])
			}
		}

		bw.WriteString("  ")

		end := min(start+bytesPerRow, len(data))
		for _, b := range data[start:end] {
			bw.WriteRune(opts.Glyph(b))
		}
		bw.WriteByte('\n')
	}

	return bw.Flush()
}
