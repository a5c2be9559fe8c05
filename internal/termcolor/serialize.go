package termcolor

import (
	"io"
	"strconv"
	"strings"

	"github.com/zjrosen/cate/internal/highlight"
)

const (
	csi       = "\x1b["
	reset     = csi + "0m"
	defaultFg = csi + "39m"
)

// Serialize writes one line of spans to w in a single Write call.
func Serialize(w io.Writer, spans []highlight.Span, mode Mode) error {
	_, err := io.WriteString(w, String(spans, mode))
	return err
}

// String renders one line of spans. Span texts are never altered.
//
// TrueColor sets the foreground per span and resets once, before the line
// terminator. Indexed wraps every coloured span in its own escape and reset.
// Spans without a colour are written bare in both modes.
func String(spans []highlight.Span, mode Mode) string {
	var b strings.Builder
	switch mode {
	case TrueColor:
		writeTrueColor(&b, spans)
	case Indexed:
		writeIndexed(&b, spans)
	default:
		for _, s := range spans {
			b.WriteString(s.Text)
		}
	}
	return b.String()
}

func writeTrueColor(b *strings.Builder, spans []highlight.Span) {
	coloured, active := false, false
	for i, s := range spans {
		text, term := s.Text, ""
		if i == len(spans)-1 {
			text, term = cutTerminator(text)
		}

		switch {
		case s.Colour.IsSet():
			b.WriteString(csi + "38;2;")
			b.WriteString(strconv.Itoa(int(s.Colour.Red())))
			b.WriteByte(';')
			b.WriteString(strconv.Itoa(int(s.Colour.Green())))
			b.WriteByte(';')
			b.WriteString(strconv.Itoa(int(s.Colour.Blue())))
			b.WriteByte('m')
			coloured, active = true, true
		case active:
			b.WriteString(defaultFg)
			active = false
		}

		b.WriteString(text)
		if i == len(spans)-1 && coloured {
			b.WriteString(reset)
		}
		b.WriteString(term)
	}
}

func writeIndexed(b *strings.Builder, spans []highlight.Span) {
	for _, s := range spans {
		if !s.Colour.IsSet() {
			b.WriteString(s.Text)
			continue
		}
		n := Nearest256(s.Colour.Red(), s.Colour.Green(), s.Colour.Blue())
		b.WriteString(csi + "38;5;")
		b.WriteString(strconv.Itoa(int(n)))
		b.WriteByte('m')
		b.WriteString(s.Text)
		b.WriteString(reset)
	}
}

// cutTerminator splits a trailing "\n" or "\r\n" off text.
func cutTerminator(text string) (body, term string) {
	if strings.HasSuffix(text, "\r\n") {
		return text[:len(text)-2], "\r\n"
	}
	if strings.HasSuffix(text, "\n") {
		return text[:len(text)-1], "\n"
	}
	return text, ""
}
