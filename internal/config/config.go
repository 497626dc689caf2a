package config

import (
	"os"
	"path/filepath"
	"unicode/utf8"

	"github.com/BurntSushi/toml"
)

const (
	DefaultReplacement = '.'
	UnicodeReplacement = utf8.RuneError
)

type Theme struct {
	HighlightBackground string `toml:"highlight_background"`
	HighlightForeground string `toml:"highlight_foreground"`
	CurrentBackground   string `toml:"current_background"`
	CurrentForeground   string `toml:"current_foreground"`
	AddressColor        string `toml:"address_color"`
	HeaderColor         string `toml:"header_color"`
	ModeColor           string `toml:"mode_color"`
	UnsavedColor        string `toml:"unsaved_color"`
	ErrorColor          string `toml:"error_color"`
}

type Editor struct {
	ReplacementChar string `toml:"replacement_char"`
	Highlight       bool   `toml:"highlight"`
	HistoryLimit    int    `toml:"history_limit"`
}

type Config struct {
	Theme  Theme  `toml:"theme"`
	Editor Editor `toml:"editor"`
}

func DefaultConfig() *Config {
	return &Config{
		Theme: Theme{
			HighlightBackground: "#FFFF00",
			HighlightForeground: "#000000",
			CurrentBackground:   "#FF8700",
			CurrentForeground:   "#000000",
			AddressColor:        "#888888",
			HeaderColor:         "#888888",
			ModeColor:           "#FF00FF",
			UnsavedColor:        "#FF0000",
			ErrorColor:          "#FF0000",
		},
		Editor: Editor{
			ReplacementChar: string(DefaultReplacement),
			Highlight:       true,
		},
	}
}

func ConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "hexed.toml"
	}
	return filepath.Join(home, ".config", "hexed", "hexed.toml")
}

// Load reads the config file at path, or ConfigPath when path is empty. A
// missing file yields the defaults.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		path = ConfigPath()
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}

	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return cfg, err
	}

	return cfg, nil
}

func (c *Config) Save(path string) error {
	if path == "" {
		path = ConfigPath()
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	return toml.NewEncoder(f).Encode(c)
}

// Options is the immutable run configuration shared by the dump writer and
// the interactive editor.
type Options struct {
	Replacement  rune
	Highlight    bool
	HistoryLimit int
	Theme        Theme
}

// Overrides carries command line flags. Unset flags leave the file value.
type Overrides struct {
	UnicodeReplacement bool
	NoHighlight        bool
}

func (c *Config) Options(o Overrides) Options {
	opts := Options{
		Replacement:  DefaultReplacement,
		Highlight:    c.Editor.Highlight,
		HistoryLimit: c.Editor.HistoryLimit,
		Theme:        c.Theme,
	}
	if r, size := utf8.DecodeRuneInString(c.Editor.ReplacementChar); r != utf8.RuneError || size > 1 {
		opts.Replacement = r
	}
	if o.UnicodeReplacement {
		opts.Replacement = UnicodeReplacement
	}
	if o.NoHighlight {
		opts.Highlight = false
	}
	return opts
}

// Printable reports whether b is shown as itself in the ASCII column.
func Printable(b byte) bool {
	return b >= 32 && b <= 126
}

// Glyph returns the character shown for b in the ASCII column.
func (o Options) Glyph(b byte) rune {
	if Printable(b) {
		return rune(b)
	}
	return o.Replacement
}
