package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	"hexed/internal/config"
	"hexed/internal/dump"
	"hexed/internal/editor"

	tea "github.com/charmbracelet/bubbletea"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	var (
		dumpMode    bool
		unicodeRepl bool
		noHighlight bool
		writeConfig bool
		configPath  string
	)
	fs := flag.NewFlagSet("hexed", flag.ContinueOnError)
	fs.BoolVar(&dumpMode, "d", false, "print a hex dump instead of opening the editor")
	fs.BoolVar(&unicodeRepl, "u", false, "use the unicode replacement character instead of a dot for non-printable bytes")
	fs.BoolVar(&noHighlight, "n", false, "disable search match highlighting")
	fs.BoolVar(&writeConfig, "write-config", false, "write the effective configuration to the config file and exit")
	fs.StringVar(&configPath, "config", "", "path to configuration file")
	fs.Usage = func() {
		fmt.Fprintf(fs.Output(), "Usage: hexed [flags] FILE\n")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: loading config: %v\n", err)
		return 1
	}

	if writeConfig {
		if err := cfg.Save(configPath); err != nil {
			fmt.Fprintf(os.Stderr, "Error: writing config: %v\n", err)
			return 1
		}
		return 0
	}

	if fs.NArg() != 1 {
		fs.Usage()
		return 2
	}
	file := fs.Arg(0)

	opts := cfg.Options(config.Overrides{
		UnicodeReplacement: unicodeRepl,
		NoHighlight:        noHighlight,
	})

	if dumpMode {
		if err := dump.File(os.Stdout, file, opts); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return 1
		}
		return 0
	}

	if path := os.Getenv("HEXED_DEBUG"); path != "" {
		f, err := tea.LogToFile(path, "hexed")
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return 1
		}
		defer f.Close()
	} else {
		log.SetOutput(io.Discard)
	}

	if err := editor.Run(file, opts); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}
