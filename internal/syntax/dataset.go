package syntax

import (
	_ "embed"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/styles"
	"gopkg.in/yaml.v3"

	"github.com/zjrosen/cate/internal/log"
)

//go:embed grammars.yaml
var bundledGrammars []byte

// defaultWord matches identifiers for keyword lookup.
const defaultWord = `\b[A-Za-z_][A-Za-z0-9_]*\b`

type datasetFile struct {
	Grammars []grammarSpec `yaml:"grammars"`
}

type grammarSpec struct {
	Name       string              `yaml:"name"`
	Aliases    []string            `yaml:"aliases"`
	Extensions []string            `yaml:"extensions"`
	Filenames  []string            `yaml:"filenames"`
	FirstLine  string              `yaml:"first_line"`
	Plain      bool                `yaml:"plain"`
	IgnoreCase bool                `yaml:"ignore_case"`
	Word       string              `yaml:"word"`
	Keywords   map[string][]string `yaml:"keywords"`
	Patterns   []patternSpec       `yaml:"patterns"`
}

type patternSpec struct {
	Token string `yaml:"token"`
	Match string `yaml:"match"`
	Begin string `yaml:"begin"`
	End   string `yaml:"end"`
}

// ParseGrammars decodes a YAML grammar dataset.
func ParseGrammars(data []byte) ([]*Grammar, error) {
	var file datasetFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parsing grammar dataset: %w", err)
	}

	grammars := make([]*Grammar, 0, len(file.Grammars))
	for i, spec := range file.Grammars {
		g, err := spec.build()
		if err != nil {
			return nil, fmt.Errorf("grammar %d (%s): %w", i, spec.Name, err)
		}
		grammars = append(grammars, g)
	}
	return grammars, nil
}

func (s grammarSpec) build() (*Grammar, error) {
	if s.Name == "" {
		return nil, fmt.Errorf("name is required")
	}

	g := &Grammar{
		Name:       s.Name,
		Aliases:    s.Aliases,
		Extensions: s.Extensions,
		Filenames:  s.Filenames,
		plain:      s.Plain,
		ignoreCase: s.IgnoreCase,
		keywords:   make(map[string]chroma.TokenType),
	}

	if s.FirstLine != "" {
		re, err := compile(s.FirstLine, false)
		if err != nil {
			return nil, fmt.Errorf("first_line: %w", err)
		}
		g.firstLine = re
	}

	if g.plain {
		return g, nil
	}

	for i, ps := range s.Patterns {
		p, err := ps.build(s.IgnoreCase)
		if err != nil {
			return nil, fmt.Errorf("pattern %d: %w", i, err)
		}
		g.patterns = append(g.patterns, p)
	}

	// Sorted so duplicate words resolve the same way on every load.
	scopes := make([]string, 0, len(s.Keywords))
	for scope := range s.Keywords {
		scopes = append(scopes, scope)
	}
	sort.Strings(scopes)
	for _, scope := range scopes {
		tt, err := ParseTokenType(scope)
		if err != nil {
			return nil, fmt.Errorf("keywords: %w", err)
		}
		for _, w := range s.Keywords[scope] {
			if s.IgnoreCase {
				w = strings.ToLower(w)
			}
			if _, dup := g.keywords[w]; !dup {
				g.keywords[w] = tt
			}
		}
	}

	if len(g.keywords) > 0 {
		expr := s.Word
		if expr == "" {
			expr = defaultWord
		}
		re, err := compile(expr, false)
		if err != nil {
			return nil, fmt.Errorf("word: %w", err)
		}
		g.patterns = append(g.patterns, pattern{kind: kindWord, match: re})
	}

	return g, nil
}

func (ps patternSpec) build(ignoreCase bool) (pattern, error) {
	tt, err := ParseTokenType(ps.Token)
	if err != nil {
		return pattern{}, err
	}

	switch {
	case ps.Match != "" && ps.Begin == "" && ps.End == "":
		re, err := compile(ps.Match, ignoreCase)
		if err != nil {
			return pattern{}, fmt.Errorf("match: %w", err)
		}
		return pattern{kind: kindMatch, token: tt, match: re}, nil
	case ps.Match == "" && ps.Begin != "" && ps.End != "":
		begin, err := compile(ps.Begin, ignoreCase)
		if err != nil {
			return pattern{}, fmt.Errorf("begin: %w", err)
		}
		end, err := compile(ps.End, ignoreCase)
		if err != nil {
			return pattern{}, fmt.Errorf("end: %w", err)
		}
		return pattern{kind: kindRegion, token: tt, match: begin, end: end}, nil
	default:
		return pattern{}, fmt.Errorf("need either match or begin/end")
	}
}

// BundledThemes returns every style registered with chroma, sorted by name.
func BundledThemes() []*chroma.Style {
	names := styles.Names()
	out := make([]*chroma.Style, 0, len(names))
	for _, name := range names {
		if s, ok := styles.Registry[name]; ok {
			out = append(out, s)
		}
	}
	return out
}

// Load parses the bundled grammar dataset and chroma's themes into a new Directory.
func Load() (*Directory, error) {
	grammars, err := ParseGrammars(bundledGrammars)
	if err != nil {
		return nil, err
	}
	themes := BundledThemes()
	log.Debug(log.CatSyntax, "Loaded bundled dataset", "grammars", len(grammars), "themes", len(themes))
	return NewDirectory(grammars, themes), nil
}

var (
	defaultDir     *Directory
	defaultDirErr  error
	defaultDirOnce sync.Once
)

// Default returns the process-wide directory, loading it on first use.
// Later calls return the same read-only instance.
func Default() (*Directory, error) {
	defaultDirOnce.Do(func() {
		defaultDir, defaultDirErr = Load()
	})
	return defaultDir, defaultDirErr
}
