package viewport

type Mode int

const (
	HexMode Mode = iota
	TextMode
)

type Granularity int

const (
	WriteNibble Granularity = iota
	WriteByte
)

type modeSpec struct {
	name  string
	step  int64
	write Granularity
}

var modeSpecs = [...]modeSpec{
	HexMode:  {name: "normal", step: 1, write: WriteNibble},
	TextMode: {name: "text", step: 2, write: WriteByte},
}

// Next is the transition used by the mode toggle key.
func (m Mode) Next() Mode {
	if m == HexMode {
		return TextMode
	}
	return HexMode
}

// Step is the horizontal cursor movement in nibbles.
func (m Mode) Step() int64 {
	return modeSpecs[m].step
}

func (m Mode) Granularity() Granularity {
	return modeSpecs[m].write
}

func (m Mode) String() string {
	return modeSpecs[m].name
}
