// Package syntax holds the grammar and theme directory and grammar selection.
//
// A Grammar is a line tokenizer with explicit state: Tokenize takes the state
// left by the previous line and returns the state for the next one, so
// multi-line constructs such as block comments continue across calls.
package syntax

import (
	"fmt"
	"strings"
	"time"

	"github.com/alecthomas/chroma/v2"
	"github.com/dlclark/regexp2"
)

// MatchTimeout bounds a single regex match attempt.
const MatchTimeout = 250 * time.Millisecond

// PlainTextName is the name of the fallback grammar.
const PlainTextName = "Plain Text"

// State is the opaque tokenizer state carried from one line to the next.
// The zero value is the start-of-document state.
type State struct {
	region int // 1-based index of the open region pattern, 0 when none
}

// InRegion reports whether a multi-line construct is still open.
func (s State) InRegion() bool {
	return s.region != 0
}

type patternKind int

const (
	kindMatch patternKind = iota
	kindRegion
	kindWord
)

type pattern struct {
	kind  patternKind
	token chroma.TokenType
	match *regexp2.Regexp // kindMatch, kindWord; opening delimiter for kindRegion
	end   *regexp2.Regexp // kindRegion only
}

// Grammar is an immutable tokenization ruleset for one language.
type Grammar struct {
	Name       string
	Aliases    []string
	Extensions []string
	Filenames  []string

	plain      bool
	firstLine  *regexp2.Regexp
	ignoreCase bool
	keywords   map[string]chroma.TokenType
	patterns   []pattern
}

// IsPlain reports whether g is the plain-text grammar, which never tokenizes.
func (g *Grammar) IsPlain() bool {
	return g == nil || g.plain
}

// MatchesFirstLine reports whether line matches the grammar's shebang pattern.
func (g *Grammar) MatchesFirstLine(line string) bool {
	if g.firstLine == nil {
		return false
	}
	ok, err := g.firstLine.MatchString(line)
	return err == nil && ok
}

func (g *Grammar) keyword(word string) chroma.TokenType {
	if g.ignoreCase {
		word = strings.ToLower(word)
	}
	if tt, ok := g.keywords[word]; ok {
		return tt
	}
	return chroma.Text
}

// Tokenize splits line into tokens starting from state and returns the state
// for the following line. The concatenated token texts always equal line.
// Lines must be supplied in document order, each with its terminator.
func (g *Grammar) Tokenize(state State, line string) ([]Token, State, error) {
	if g.IsPlain() {
		return []Token{{Type: chroma.Text, Text: line}}, State{}, nil
	}

	runes := []rune(line)
	b := tokenBuilder{runes: runes}
	pos := 0

	// Continue a region left open by an earlier line.
	if state.region > 0 {
		if state.region > len(g.patterns) {
			return nil, state, fmt.Errorf("%s: invalid state %d", g.Name, state.region)
		}
		p := g.patterns[state.region-1]
		m, err := p.end.FindRunesMatchStartingAt(runes, 0)
		if err != nil {
			return nil, state, fmt.Errorf("%s: %w", g.Name, err)
		}
		if m == nil {
			b.emit(p.token, 0, len(runes))
			return b.tokens, state, nil
		}
		pos = m.Index + m.Length
		b.emit(p.token, 0, pos)
		state = State{}
	}

	// Leftmost match wins; ties go to the earlier pattern. Each pattern's
	// next match is cached until the scan position passes its start.
	next := make([]*regexp2.Match, len(g.patterns))
	searched := make([]bool, len(g.patterns))

	for pos < len(runes) {
		best := -1
		for i := range g.patterns {
			if !searched[i] || (next[i] != nil && next[i].Index < pos) {
				m, err := g.findFrom(i, runes, pos)
				if err != nil {
					return nil, state, err
				}
				next[i], searched[i] = m, true
			}
			if next[i] != nil && (best < 0 || next[i].Index < next[best].Index) {
				best = i
			}
		}
		if best < 0 {
			break
		}

		m := next[best]
		start, end := m.Index, m.Index+m.Length
		if end == start {
			// Empty matches make no progress; look again one rune later.
			nm, err := g.findFrom(best, runes, start+1)
			if err != nil {
				return nil, state, err
			}
			next[best] = nm
			continue
		}

		b.emit(chroma.Text, pos, start)
		p := g.patterns[best]
		switch p.kind {
		case kindWord:
			b.emit(g.keyword(string(runes[start:end])), start, end)
			pos = end
		case kindMatch:
			b.emit(p.token, start, end)
			pos = end
		case kindRegion:
			em, err := p.end.FindRunesMatchStartingAt(runes, end)
			if err != nil {
				return nil, state, fmt.Errorf("%s: %w", g.Name, err)
			}
			if em == nil {
				b.emit(p.token, start, len(runes))
				pos = len(runes)
				state = State{region: best + 1}
			} else {
				pos = em.Index + em.Length
				b.emit(p.token, start, pos)
			}
		}
	}

	b.emit(chroma.Text, pos, len(runes))
	return b.tokens, state, nil
}

func (g *Grammar) findFrom(i int, runes []rune, pos int) (*regexp2.Match, error) {
	if pos > len(runes) {
		return nil, nil
	}
	m, err := g.patterns[i].match.FindRunesMatchStartingAt(runes, pos)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", g.Name, err)
	}
	return m, nil
}

// tokenBuilder accumulates tokens, merging neighbours of the same type.
type tokenBuilder struct {
	runes  []rune
	tokens []Token
}

func (b *tokenBuilder) emit(tt chroma.TokenType, start, end int) {
	if end <= start {
		return
	}
	text := string(b.runes[start:end])
	if n := len(b.tokens); n > 0 && b.tokens[n-1].Type == tt {
		b.tokens[n-1].Text += text
		return
	}
	b.tokens = append(b.tokens, Token{Type: tt, Text: text})
}

// compile builds a regexp with the package match timeout.
func compile(expr string, ignoreCase bool) (*regexp2.Regexp, error) {
	opts := regexp2.None
	if ignoreCase {
		opts |= regexp2.IgnoreCase
	}
	re, err := regexp2.Compile(expr, opts)
	if err != nil {
		return nil, err
	}
	re.MatchTimeout = MatchTimeout
	return re, nil
}
