// pkg/console/console.go - blocking prompts that keep the window open.

package console

import (
	"bufio"
	"fmt"
	"io"
)

// Prompter writes a message and waits for the user to press Enter.
type Prompter struct {
	in       *bufio.Reader
	out      io.Writer
	disabled bool
}

// NewPrompter creates a prompter on in and out. A disabled prompter prints
// the message but does not wait.
func NewPrompter(in io.Reader, out io.Writer, disabled bool) *Prompter {
	return &Prompter{
		in:       bufio.NewReader(in),
		out:      out,
		disabled: disabled,
	}
}

// Pause prints message and blocks until a line (or EOF) is read. There is
// no timeout.
func (p *Prompter) Pause(message string) {
	if message != "" {
		fmt.Fprintln(p.out, message)
	}
	if p.disabled {
		return
	}
	// EOF counts as acknowledgement so closed stdin never hangs the run.
	_, _ = p.in.ReadString('\n')
}
