// Command rdfc canonicalizes, compares and stores RDF datasets.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/geoknoesis/rdfstore/rdf"
)

const (
	exitOK       = 0
	exitMismatch = 1
	exitError    = 2
)

type command struct {
	name    string
	usage   string
	summary string
	run     func(ctx context.Context, env *env, args []string) (int, error)
}

// commands is populated in init to break the initialization cycle through
// newFlagSet, which itself consults commands.
var commands []command

func init() {
	commands = []command{
		{"canon", "[-labels] [-hash SHA256|SHA384] [-max-work n] file", "print the canonical N-Quads of a dataset", runCanon},
		{"equal", "[-budget n] a b", "report whether two graphs are isomorphic", runEqual},
		{"diff", "a b", "summarize the difference between two graphs", runDiff},
		{"stats", "[-no-index] file", "print triple collection statistics per graph", runStats},
		{"store", "file...", "load datasets into a content-addressed store", runStore},
	}
}

// env carries what every command needs.
type env struct {
	stdout io.Writer
	stderr io.Writer
	logger *slog.Logger
	format string
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("rdfc", flag.ContinueOnError)
	fs.SetOutput(stderr)
	var verbose bool
	var format string
	fs.BoolVar(&verbose, "v", false, "verbose mode (debug logging on stderr)")
	fs.StringVar(&format, "format", "", "input format (ntriples, nquads, jsonld); guessed from the file extension when empty")
	fs.Usage = func() {
		fmt.Fprintf(stderr, "Usage: rdfc [options] <command> [arguments]\n\n")
		fmt.Fprintf(stderr, "Options:\n")
		fs.PrintDefaults()
		fmt.Fprintf(stderr, "\nCommands:\n")
		for _, c := range commands {
			fmt.Fprintf(stderr, "  %-6s %s\n", c.name, c.summary)
			fmt.Fprintf(stderr, "         rdfc %s %s\n", c.name, c.usage)
		}
	}
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return exitOK
		}
		return exitError
	}
	if fs.NArg() == 0 {
		fs.Usage()
		return exitError
	}

	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	e := &env{
		stdout: stdout,
		stderr: stderr,
		logger: slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level})),
		format: format,
	}

	name := fs.Arg(0)
	for _, c := range commands {
		if c.name != name {
			continue
		}
		code, err := c.run(context.Background(), e, fs.Args()[1:])
		if errors.Is(err, flag.ErrHelp) {
			return exitOK
		}
		if err != nil {
			fmt.Fprintf(stderr, "rdfc %s: %v\n", name, err)
			if code == exitOK {
				code = exitError
			}
		}
		return code
	}
	fmt.Fprintf(stderr, "rdfc: unknown command %q\n", name)
	fs.Usage()
	return exitError
}

// newFlagSet creates the flag set of a sub-command.
func (e *env) newFlagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet("rdfc "+name, flag.ContinueOnError)
	fs.SetOutput(e.stderr)
	for _, c := range commands {
		if c.name == name {
			c := c
			fs.Usage = func() {
				fmt.Fprintf(e.stderr, "Usage: rdfc %s %s\n", c.name, c.usage)
				fs.PrintDefaults()
			}
		}
	}
	return fs
}

// load reads every quad of the file at path.
func (e *env) load(ctx context.Context, path string) ([]rdf.Quad, error) {
	format, err := e.formatFor(path)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	quads, err := rdf.ReadAll(ctx, f, format)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	e.logger.Debug("loaded input", "path", path, "format", format, "quads", len(quads))
	return quads, nil
}

func (e *env) formatFor(path string) (rdf.Format, error) {
	if e.format != "" {
		f, ok := rdf.ParseFormat(e.format)
		if !ok {
			return "", fmt.Errorf("unknown format %q", e.format)
		}
		return f, nil
	}
	if f, ok := rdf.FormatForPath(path); ok {
		return f, nil
	}
	return "", fmt.Errorf("cannot guess the format of %s; use -format", path)
}

func shorten(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}

func plural(n int, word string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, word)
	}
	return fmt.Sprintf("%d %ss", n, word)
}
