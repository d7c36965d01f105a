// Package main is the entry point for pted, a batch piece-table editor.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/dshills/pted/internal/engine"
)

var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

func main() {
	os.Exit(run())
}

type options struct {
	file        string
	scriptPath  string
	output      string
	write       bool
	showVersion bool
	showHelp    bool
}

func run() int {
	opts := parseFlags()

	if opts.showHelp {
		flag.Usage()
		return 0
	}
	if opts.showVersion {
		fmt.Printf("pted %s\ncommit: %s\nbuilt: %s\n", version, commit, date)
		return 0
	}

	ed, err := engine.Load(opts.file)
	if err != nil {
		fmt.Fprintf(os.Stderr, "pted: load %s: %v\n", opts.file, err)
		return 1
	}
	defer ed.Close()

	script, err := openScript(opts.scriptPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "pted: %v\n", err)
		return 1
	}
	defer script.Close()

	if err := applyScript(ed, script); err != nil {
		fmt.Fprintf(os.Stderr, "pted: %v\n", err)
		return 1
	}

	switch {
	case opts.write:
		if err := ed.Save(opts.file); err != nil {
			fmt.Fprintf(os.Stderr, "pted: save %s: %v\n", opts.file, err)
			return 1
		}
	case opts.output != "":
		if err := ed.Save(opts.output); err != nil {
			fmt.Fprintf(os.Stderr, "pted: save %s: %v\n", opts.output, err)
			return 1
		}
	default:
		os.Stdout.Write(ed.Bytes())
	}

	return 0
}

func parseFlags() options {
	var opts options

	flag.StringVar(&opts.file, "file", "", "Path to the file to edit (required)")
	flag.StringVar(&opts.file, "f", "", "Path to the file to edit (shorthand)")
	flag.StringVar(&opts.scriptPath, "script", "", "Edit script to apply (default stdin)")
	flag.StringVar(&opts.output, "o", "", "Write the result to this path instead of stdout")
	flag.BoolVar(&opts.write, "write", false, "Save the result back to -file")
	flag.BoolVar(&opts.write, "w", false, "Save the result back to -file (shorthand)")
	flag.BoolVar(&opts.showVersion, "version", false, "Show version information")
	flag.BoolVar(&opts.showHelp, "help", false, "Show help message")
	flag.BoolVar(&opts.showHelp, "h", false, "Show help message (shorthand)")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "pted - batch piece-table text editor\n\n")
		fmt.Fprintf(os.Stderr, "Usage: pted -file PATH [options] < script\n\n")
		fmt.Fprintf(os.Stderr, "Script lines:\n")
		fmt.Fprintf(os.Stderr, "  i POS TEXT      insert TEXT at byte offset POS\n")
		fmt.Fprintf(os.Stderr, "  d POS LEN       delete LEN bytes starting at POS\n")
		fmt.Fprintf(os.Stderr, "  r POS TEXT      replace len(TEXT) bytes at POS with TEXT\n")
		fmt.Fprintf(os.Stderr, "  s               snapshot: close the current undo action\n")
		fmt.Fprintf(os.Stderr, "  u               undo\n")
		fmt.Fprintf(os.Stderr, "  R               redo\n")
		fmt.Fprintf(os.Stderr, "  # ...           comment\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
	}

	flag.Parse()

	if !opts.showHelp && !opts.showVersion && opts.file == "" {
		fmt.Fprintf(os.Stderr, "pted: -file is required\n")
		flag.Usage()
		os.Exit(2)
	}

	return opts
}

func openScript(path string) (io.ReadCloser, error) {
	if path == "" || path == "-" {
		return io.NopCloser(os.Stdin), nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open script %s: %w", path, err)
	}
	return f, nil
}

// applyScript reads one edit command per line and applies it to ed. It is
// grounded on a minimal line-oriented format rather than a full parser:
// each line is either a comment, blank, a bare "<op>" (s, u, R), or
// "<op> <pos> [text...]" (i, d, r).
func applyScript(ed *engine.Editor, r io.Reader) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)

	line := 0
	for scanner.Scan() {
		line++
		text := scanner.Text()
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}

		fields := strings.SplitN(text, " ", 3)
		op := fields[0]

		switch op {
		case "s":
			ed.Snapshot()
		case "u":
			ed.Undo()
		case "R":
			ed.Redo()
		case "i", "d", "r":
			if len(fields) < 2 {
				return fmt.Errorf("script line %d: missing position", line)
			}
			pos, err := strconv.Atoi(fields[1])
			if err != nil {
				return fmt.Errorf("script line %d: invalid position %q: %w", line, fields[1], err)
			}
			arg := ""
			if len(fields) == 3 {
				arg = fields[2]
			}
			switch op {
			case "i":
				err = ed.Insert(pos, []byte(arg))
			case "r":
				err = ed.Replace(pos, []byte(arg))
			case "d":
				length, lerr := strconv.Atoi(arg)
				if lerr != nil {
					return fmt.Errorf("script line %d: invalid length %q: %w", line, arg, lerr)
				}
				err = ed.Delete(pos, length)
			}
			if err != nil {
				return fmt.Errorf("script line %d: %w", line, err)
			}
		default:
			return fmt.Errorf("script line %d: unknown op %q", line, op)
		}
	}
	return scanner.Err()
}
