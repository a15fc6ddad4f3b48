package termrec

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"golang.org/x/term"
)

// ErrNotTerminal is returned when stdin is not an interactive terminal.
var ErrNotTerminal = errors.New("stdin is not a terminal")

const (
	focusReportingOn  = "\x1b[?1004h"
	focusReportingOff = "\x1b[?1004l"
)

// RecordTerminal puts in into raw mode with focus reporting and runs a
// session on it. The terminal is restored before returning.
func RecordTerminal(ctx context.Context, in *os.File, out io.Writer, label, initial string) (Result, error) {
	fd := int(in.Fd())
	if !term.IsTerminal(fd) {
		return Result{}, ErrNotTerminal
	}
	state, err := term.MakeRaw(fd)
	if err != nil {
		return Result{}, fmt.Errorf("enable raw mode: %w", err)
	}
	fmt.Fprint(out, focusReportingOn)
	defer func() {
		fmt.Fprint(out, focusReportingOff)
		_ = term.Restore(fd, state)
	}()

	return NewSession(in, out, label, initial).Run(ctx)
}
