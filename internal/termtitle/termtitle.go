// Package termtitle shows what the prompt is suggesting from in the terminal
// window title.
package termtitle

import (
	"io"
	"strings"

	"github.com/muesli/termenv"
)

const maxTitleLength = 255

// Env is the part of the environment used to decide whether titles work.
type Env struct {
	Term        string // TERM
	TermProgram string // TERM_PROGRAM
}

// Supported reports whether the terminal is expected to honor OSC 2.
func (e Env) Supported() bool {
	term := strings.ToLower(e.Term)
	if term == "" || term == "dumb" {
		return false
	}
	if e.TermProgram != "" {
		return true
	}
	return strings.HasPrefix(term, "xterm") ||
		strings.HasPrefix(term, "screen") ||
		strings.HasPrefix(term, "tmux") ||
		strings.HasPrefix(term, "rxvt") ||
		strings.Contains(term, "color")
}

// Terminal sets the window title, or does nothing when the terminal is not
// expected to support it.
type Terminal struct {
	output    *termenv.Output
	supported bool
	set       bool
}

func New(w io.Writer, env Env) *Terminal {
	return &Terminal{
		output:    termenv.NewOutput(w),
		supported: env.Supported(),
	}
}

// Set replaces the window title. It reports whether anything was written.
func (t *Terminal) Set(title string) bool {
	if !t.supported {
		return false
	}
	t.output.SetWindowTitle(sanitize(title))
	t.set = true
	return true
}

// Reset clears a title previously set by Set.
func (t *Terminal) Reset() {
	if !t.set {
		return
	}
	t.output.SetWindowTitle("")
	t.set = false
}

// sanitize drops control characters and limits the title length.
func sanitize(title string) string {
	var sanitized strings.Builder
	sanitized.Grow(len(title))

	for _, r := range title {
		switch {
		case r == '\t':
			sanitized.WriteRune(' ')
		case r >= 32 && r != 127:
			sanitized.WriteRune(r)
		}
	}

	runes := []rune(sanitized.String())
	if len(runes) > maxTitleLength {
		runes = runes[:maxTitleLength]
	}
	return string(runes)
}
