// Package termcolor serializes coloured spans into terminal escape sequences
// and decides which colour mode a run uses.
package termcolor

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/muesli/termenv"
	"golang.org/x/term"

	"github.com/zjrosen/cate/internal/log"
)

// Mode is the escape flavour used for a whole run.
type Mode int

const (
	// Off writes text without escapes.
	Off Mode = iota
	// TrueColor writes 24-bit colour escapes.
	TrueColor
	// Indexed maps colours onto the xterm 256-colour palette.
	Indexed
)

func (m Mode) String() string {
	switch m {
	case Off:
		return "off"
	case TrueColor:
		return "truecolor"
	case Indexed:
		return "256"
	default:
		return "unknown"
	}
}

// Choice is the user's --color setting.
type Choice string

const (
	ChoiceAuto   Choice = "auto"
	ChoiceAlways Choice = "always"
	ChoiceNever  Choice = "never"
)

// ErrInvalidChoice is returned by ParseChoice for unrecognised values.
var ErrInvalidChoice = errors.New("invalid color choice")

// ParseChoice parses auto, always or never. The empty string means auto.
func ParseChoice(s string) (Choice, error) {
	switch c := Choice(strings.ToLower(strings.TrimSpace(s))); c {
	case "":
		return ChoiceAuto, nil
	case ChoiceAuto, ChoiceAlways, ChoiceNever:
		return c, nil
	default:
		return "", fmt.Errorf("%w: %q (want auto, always or never)", ErrInvalidChoice, s)
	}
}

// OSEnviron reads the process environment.
type OSEnviron struct{}

func (OSEnviron) Environ() []string { return os.Environ() }
func (OSEnviron) Getenv(key string) string { return os.Getenv(key) }

// EnvMap is a fixed environment, handy for tests.
type EnvMap map[string]string

func (e EnvMap) Environ() []string {
	out := make([]string, 0, len(e))
	for k, v := range e {
		out = append(out, k+"="+v)
	}
	return out
}

func (e EnvMap) Getenv(key string) string { return e[key] }

// DetectMode picks the colour mode the terminal described by environ
// supports. Only a true-colour profile gets TrueColor.
func DetectMode(environ termenv.Environ) Mode {
	if environ == nil {
		environ = OSEnviron{}
	}
	out := termenv.NewOutput(io.Discard, termenv.WithEnvironment(environ), termenv.WithTTY(true))
	if out.ColorProfile() == termenv.TrueColor {
		return TrueColor
	}
	return Indexed
}

// ResolveMode combines the colour choice with what is known about the output.
// With auto, colour is used only on a terminal and only when NO_COLOR is unset.
func ResolveMode(choice Choice, isTTY bool, environ termenv.Environ) Mode {
	if environ == nil {
		environ = OSEnviron{}
	}

	var mode Mode
	switch choice {
	case ChoiceNever:
		mode = Off
	case ChoiceAlways:
		mode = DetectMode(environ)
	default:
		if !isTTY || environ.Getenv("NO_COLOR") != "" {
			mode = Off
		} else {
			mode = DetectMode(environ)
		}
	}

	log.Debug(log.CatRender, "Colour mode resolved", "choice", string(choice), "tty", isTTY, "mode", mode.String())
	return mode
}

// IsTerminal reports whether f is attached to a terminal.
func IsTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}
