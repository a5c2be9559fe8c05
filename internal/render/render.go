// Package render streams a decoded document to an output sink, one line at a
// time, with optional syntax highlighting and line numbers.
package render

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"syscall"
	"unicode/utf8"

	"github.com/alecthomas/chroma/v2"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/zjrosen/cate/internal/highlight"
	"github.com/zjrosen/cate/internal/log"
	"github.com/zjrosen/cate/internal/syntax"
	"github.com/zjrosen/cate/internal/termcolor"
)

// StreamingNumberWidth is the minimum gutter width in streaming mode.
const StreamingNumberWidth = 6

// gutterSeparator follows every line number.
const gutterSeparator = "  "

// NumberMode selects how line-number columns are sized.
type NumberMode int

const (
	// NumberStreaming right-aligns in a fixed minimum width that grows as needed.
	NumberStreaming NumberMode = iota
	// NumberDocument sizes the column to the document's total line count.
	NumberDocument
)

func (m NumberMode) String() string {
	switch m {
	case NumberStreaming:
		return "streaming"
	case NumberDocument:
		return "document"
	default:
		return "unknown"
	}
}

// ErrInvalidNumberMode is returned by ParseNumberMode.
var ErrInvalidNumberMode = errors.New("invalid number mode")

// ParseNumberMode parses "streaming" or "document". Empty means streaming.
func ParseNumberMode(s string) (NumberMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "streaming":
		return NumberStreaming, nil
	case "document":
		return NumberDocument, nil
	default:
		return NumberStreaming, fmt.Errorf("%w: %q (want streaming or document)", ErrInvalidNumberMode, s)
	}
}

// Options configures a Renderer.
type Options struct {
	// Directory supplies grammars. Highlighting is skipped when nil.
	Directory *syntax.Directory
	Theme     syntax.Theme
	Mode      termcolor.Mode
	Highlight bool

	// Language forces a grammar by name, alias or extension.
	Language string
	// Path is used for grammar selection only; it is never opened.
	Path string

	LineNumbers bool
	NumberMode  NumberMode
	// TotalLines sizes the gutter in NumberDocument mode.
	TotalLines int
}

// Result summarises one Render call.
type Result struct {
	Lines int
	// Grammar is the selected grammar name, empty when highlighting was off.
	Grammar         string
	HighlightErrors int
	// Lossy is set when the text contained replacement characters.
	Lossy bool
	// SinkClosed is set when the output went away before the input ended.
	SinkClosed bool
}

// Renderer writes documents to one sink.
type Renderer struct {
	w      io.Writer
	opts   Options
	gutter lipgloss.Style
	styled bool
}

// New creates a Renderer writing to w.
func New(w io.Writer, opts Options) *Renderer {
	r := &Renderer{w: w, opts: opts}
	if opts.LineNumbers && opts.Mode != termcolor.Off {
		r.gutter = gutterStyle(opts.Theme, opts.Mode)
		r.styled = true
	}
	return r
}

// gutterStyle colours line numbers like comments in the theme, or dims them
// when the theme has no comment colour.
func gutterStyle(theme syntax.Theme, mode termcolor.Mode) lipgloss.Style {
	lr := lipgloss.NewRenderer(io.Discard)
	if mode == termcolor.TrueColor {
		lr.SetColorProfile(termenv.TrueColor)
	} else {
		lr.SetColorProfile(termenv.ANSI256)
	}

	style := lr.NewStyle()
	if c := theme.Colour(chroma.Comment); c.IsSet() {
		return style.Foreground(lipgloss.Color(c.String()))
	}
	return style.Faint(true)
}

// Render copies src to the sink line by line. Lines keep their terminators;
// a final unterminated line is written as is. Output already written is never
// buffered beyond the current line.
func (r *Renderer) Render(ctx context.Context, src io.Reader) (Result, error) {
	var (
		res Result
		doc *highlight.Document
	)
	highlighting := r.opts.Highlight && r.opts.Mode != termcolor.Off && r.opts.Directory != nil

	br := bufio.NewReader(src)
	for {
		if err := ctx.Err(); err != nil {
			return r.finish(res, doc), err
		}

		line, readErr := br.ReadString('\n')
		if readErr != nil && !errors.Is(readErr, io.EOF) {
			return r.finish(res, doc), fmt.Errorf("reading input: %w", readErr)
		}
		if line == "" {
			break
		}

		// The grammar is chosen once, with the first line available for
		// shebang detection.
		if highlighting && doc == nil {
			g := syntax.Select(r.opts.Directory, r.opts.Language, r.opts.Path, line)
			doc = highlight.Begin(g, r.opts.Theme)
			res.Grammar = g.Name
		}

		if !res.Lossy && strings.ContainsRune(line, utf8.RuneError) {
			res.Lossy = true
		}

		var b strings.Builder
		if r.opts.LineNumbers {
			b.WriteString(r.gutterText(res.Lines + 1))
		}
		if doc != nil {
			b.WriteString(termcolor.String(doc.HighlightLine(line), r.opts.Mode))
		} else {
			b.WriteString(line)
		}

		if _, err := io.WriteString(r.w, b.String()); err != nil {
			if IsClosedSink(err) {
				log.Debug(log.CatRender, "Output closed, stopping", "path", r.opts.Path, "lines", res.Lines)
				res.SinkClosed = true
				return r.finish(res, doc), nil
			}
			return r.finish(res, doc), fmt.Errorf("writing output: %w", err)
		}
		res.Lines++

		if readErr != nil {
			break
		}
	}

	return r.finish(res, doc), nil
}

func (r *Renderer) finish(res Result, doc *highlight.Document) Result {
	if doc != nil {
		res.HighlightErrors = doc.Errors()
	}
	log.Debug(log.CatRender, "Render finished",
		"path", r.opts.Path,
		"lines", res.Lines,
		"grammar", res.Grammar,
		"highlight_errors", res.HighlightErrors,
		"lossy", res.Lossy)
	return res
}

func (r *Renderer) gutterText(n int) string {
	width := StreamingNumberWidth
	if r.opts.NumberMode == NumberDocument {
		width = len(strconv.Itoa(max(r.opts.TotalLines, 1)))
	}

	num := strconv.Itoa(n)
	if pad := width - len(num); pad > 0 {
		num = strings.Repeat(" ", pad) + num
	}
	if r.styled {
		num = r.gutter.Render(num)
	}
	return num + gutterSeparator
}

// IsClosedSink reports whether err means the reader of our output has gone.
func IsClosedSink(err error) bool {
	return errors.Is(err, syscall.EPIPE) ||
		errors.Is(err, io.ErrClosedPipe) ||
		errors.Is(err, os.ErrClosed)
}

// CountLines counts lines the way Render emits them: every terminated line
// plus a final unterminated one.
func CountLines(text string) int {
	n := strings.Count(text, "\n")
	if text != "" && !strings.HasSuffix(text, "\n") {
		n++
	}
	return n
}
