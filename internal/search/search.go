// Package search finds every occurrence of a byte pattern in a buffer,
// overlapping occurrences included, and answers per-offset highlight
// queries against the result.
package search

import (
	"bytes"
	"encoding/hex"
	"errors"
	"fmt"
	"sort"
	"strings"
)

// LiteralMarker prefixes a query whose remainder is searched as raw bytes.
const LiteralMarker = "/"

var ErrInvalidQuery = errors.New("invalid search query")

type Pattern []byte

// Compile turns a query into a byte pattern. Queries starting with
// LiteralMarker are taken verbatim; anything else must be an even number of
// hex digits.
func Compile(query string) (Pattern, error) {
	var p []byte
	if rest, ok := strings.CutPrefix(query, LiteralMarker); ok {
		p = []byte(rest)
	} else {
		var err error
		p, err = hex.DecodeString(query)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidQuery, err)
		}
	}
	if len(p) == 0 {
		return nil, fmt.Errorf("%w: empty pattern", ErrInvalidQuery)
	}
	return p, nil
}

// FindAll returns every start offset where pattern occurs, in ascending
// order. Overlapping occurrences are each reported.
func FindAll(data []byte, pattern Pattern) []int64 {
	if len(pattern) == 0 {
		return nil
	}

	var offsets []int64
	base := 0
	for base <= len(data)-len(pattern) {
		i := bytes.Index(data[base:], pattern)
		if i < 0 {
			break
		}
		offsets = append(offsets, int64(base+i))
		base += i + 1
	}
	return offsets
}

type Results struct {
	offsets []int64
	size    int64
	i       int
}

// Search compiles query and finds it in data. It returns nil both for an
// invalid query and for a query with no matches.
func Search(data []byte, query string) *Results {
	p, err := Compile(query)
	if err != nil {
		return nil
	}
	return NewResults(FindAll(data, p), len(p))
}

// NewResults returns nil when offsets is empty.
func NewResults(offsets []int64, size int) *Results {
	if len(offsets) == 0 {
		return nil
	}
	return &Results{offsets: offsets, size: int64(size)}
}

// lastStart returns the index of the last match starting at or before
// offset, or -1.
func (r *Results) lastStart(offset int64) int {
	return sort.Search(len(r.offsets), func(i int) bool {
		return r.offsets[i] > offset
	}) - 1
}

// MatchLen reports how many bytes from offset to the end of the match
// covering it. When several overlapping matches cover offset, the one
// reaching furthest is used so highlighted runs stay contiguous.
func (r *Results) MatchLen(offset int64) (int64, bool) {
	i := r.lastStart(offset)
	if i < 0 {
		return 0, false
	}
	end := r.offsets[i] + r.size
	if offset >= end {
		return 0, false
	}
	return end - offset, true
}

// Covering returns the start of every match whose span contains offset.
func (r *Results) Covering(offset int64) []int64 {
	var starts []int64
	for i := r.lastStart(offset); i >= 0; i-- {
		if offset >= r.offsets[i]+r.size {
			break
		}
		starts = append(starts, r.offsets[i])
	}
	for l, h := 0, len(starts)-1; l < h; l, h = l+1, h-1 {
		starts[l], starts[h] = starts[h], starts[l]
	}
	return starts
}

func (r *Results) Next() int64 {
	r.i = min(len(r.offsets)-1, r.i+1)
	return r.offsets[r.i]
}

func (r *Results) Prev() int64 {
	r.i = max(0, r.i-1)
	return r.offsets[r.i]
}

func (r *Results) Current() int64 {
	return r.offsets[r.i]
}

// Index is the zero-based position of the selected match.
func (r *Results) Index() int {
	return r.i
}

func (r *Results) Len() int {
	return len(r.offsets)
}
