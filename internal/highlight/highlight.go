// Package highlight turns lines of a document into coloured spans, carrying
// the tokenizer state from each line to the next.
package highlight

import (
	"fmt"

	"github.com/alecthomas/chroma/v2"

	"github.com/zjrosen/cate/internal/log"
	"github.com/zjrosen/cate/internal/syntax"
)

// MaxLineBytes is the longest line that is tokenized. Longer lines are passed
// through unstyled.
const MaxLineBytes = 16 * 1024

// Span is a run of text with one foreground colour. An unset Colour means the
// text is written without escapes.
type Span struct {
	Text   string
	Colour chroma.Colour
}

// Document highlights one document. It is not safe for concurrent use and
// lines must be supplied in order.
type Document struct {
	grammar *syntax.Grammar
	theme   syntax.Theme
	state   syntax.State
	line    int
	errors  int
}

// Begin starts highlighting a document with grammar g and theme.
func Begin(g *syntax.Grammar, theme syntax.Theme) *Document {
	return &Document{grammar: g, theme: theme}
}

// Grammar returns the grammar the document was started with.
func (d *Document) Grammar() *syntax.Grammar {
	return d.grammar
}

// Errors returns how many lines fell back to unstyled output.
func (d *Document) Errors() int {
	return d.errors
}

// HighlightLine returns the spans for the next line, terminator included.
// The span texts always concatenate to line.
func (d *Document) HighlightLine(line string) []Span {
	d.line++

	if d.grammar.IsPlain() {
		return unstyled(line)
	}

	if len(line) > MaxLineBytes {
		log.Debug(log.CatHighlight, "Line too long, skipping highlighting", "line", d.line, "bytes", len(line))
		// Keep the state moving as if an empty line went by.
		if _, err := d.tokenize("\n"); err != nil {
			d.fail(err)
		}
		return unstyled(line)
	}

	tokens, err := d.tokenize(line)
	if err != nil {
		d.fail(err)
		return unstyled(line)
	}

	spans := make([]Span, 0, len(tokens))
	for _, tok := range tokens {
		c := d.theme.Colour(tok.Type)
		if n := len(spans); n > 0 && spans[n-1].Colour == c {
			spans[n-1].Text += tok.Text
			continue
		}
		spans = append(spans, Span{Text: tok.Text, Colour: c})
	}
	return spans
}

func (d *Document) tokenize(line string) (tokens []syntax.Token, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("tokenizer panic: %v", r)
		}
	}()

	tokens, next, err := d.grammar.Tokenize(d.state, line)
	if err != nil {
		return nil, err
	}
	d.state = next
	return tokens, nil
}

func (d *Document) fail(err error) {
	d.errors++
	log.ErrorErr(log.CatHighlight, "Highlighting failed, line left unstyled", err,
		"grammar", d.grammar.Name, "line", d.line)
}

func unstyled(line string) []Span {
	return []Span{{Text: line}}
}
