package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/huh"
	"golang.org/x/term"
)

// PromptConfirmer asks on the terminal with a huh confirm. When stdin is not a
// terminal it reads a y/N answer line instead.
type PromptConfirmer struct {
	in          io.Reader
	out         io.Writer
	interactive bool
}

func NewPromptConfirmer(in *os.File, out io.Writer) *PromptConfirmer {
	return &PromptConfirmer{
		in:          in,
		out:         out,
		interactive: term.IsTerminal(int(in.Fd())),
	}
}

// NewLineConfirmer reads answers from in without a terminal UI.
func NewLineConfirmer(in io.Reader, out io.Writer) *PromptConfirmer {
	return &PromptConfirmer{in: in, out: out}
}

func (p *PromptConfirmer) Confirm(prompt string) (bool, error) {
	if p.interactive {
		var ok bool
		err := huh.NewConfirm().
			Title(prompt).
			Affirmative("Yes").
			Negative("No").
			Value(&ok).
			WithTheme(huh.ThemeDracula()).
			Run()
		if errors.Is(err, huh.ErrUserAborted) {
			return false, nil
		}
		return ok, err
	}

	fmt.Fprintf(p.out, "%s [y/N]: ", prompt)
	response, err := bufio.NewReader(p.in).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return false, err
	}
	response = strings.TrimSpace(strings.ToLower(response))
	return response == "y" || response == "yes", nil
}
