package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/vmunix/tanko/internal/assemble"
)

// terminalConfirmer answers import prompts interactively. Anything but
// an explicit yes declines.
type terminalConfirmer struct {
	in  *bufio.Reader
	out io.Writer
}

func newTerminalConfirmer(in io.Reader, out io.Writer) *terminalConfirmer {
	return &terminalConfirmer{in: bufio.NewReader(in), out: out}
}

func (t *terminalConfirmer) ConfirmMismatch(_ context.Context, volume string, res assemble.MatchResult) (bool, error) {
	declared := len(res.Matched) + len(res.Missing)
	fmt.Fprintf(t.out, "\n%s: %d of %d declared pages found", volume, len(res.Matched), declared)
	if len(res.Extra) > 0 {
		fmt.Fprintf(t.out, ", %d unclaimed files", len(res.Extra))
	}
	fmt.Fprintln(t.out)

	for i, m := range res.Missing {
		if i == 5 {
			fmt.Fprintf(t.out, "  ... and %d more\n", len(res.Missing)-i)
			break
		}
		line := "  missing " + m.Path
		if m.Closest != "" {
			line += " (closest: " + m.Closest + ")"
		}
		fmt.Fprintln(t.out, line)
	}
	return t.ask("Import anyway?")
}

func (t *terminalConfirmer) ConfirmImageOnly(_ context.Context, series []string, volumes int) (bool, error) {
	fmt.Fprintf(t.out, "\nNo OCR metadata for %d volume(s) in %s.\n", volumes, strings.Join(series, ", "))
	fmt.Fprintln(t.out, "They would be readable but have no selectable text.")
	return t.ask("Import as image-only?")
}

func (t *terminalConfirmer) ask(question string) (bool, error) {
	fmt.Fprintf(t.out, "%s [y/N]: ", question)
	line, err := t.in.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return false, err
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true, nil
	}
	return false, nil
}

// autoConfirmer accepts every prompt, for --yes runs and auto_confirm
// configs.
type autoConfirmer struct{}

func (autoConfirmer) ConfirmMismatch(context.Context, string, assemble.MatchResult) (bool, error) {
	return true, nil
}

func (autoConfirmer) ConfirmImageOnly(context.Context, []string, int) (bool, error) {
	return true, nil
}
