package syntax

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/alecthomas/chroma/v2"
)

// ErrUnknownTheme is returned by Directory.Theme for unregistered names.
var ErrUnknownTheme = errors.New("theme not found")

// Directory is a read-only registry of grammars and themes, safe to share.
type Directory struct {
	grammars   []*Grammar
	plain      *Grammar
	byName     map[string]*Grammar
	byExt      map[string]*Grammar
	byFilename map[string]*Grammar
	themes     map[string]Theme
	themeNames []string
}

// NewDirectory indexes grammars and themes. When two grammars claim the same
// key the earlier one wins. A plain-text grammar is synthesized if none of
// grammars is marked plain.
func NewDirectory(grammars []*Grammar, themes []*chroma.Style) *Directory {
	d := &Directory{
		byName:     make(map[string]*Grammar),
		byExt:      make(map[string]*Grammar),
		byFilename: make(map[string]*Grammar),
		themes:     make(map[string]Theme),
	}

	for _, g := range grammars {
		if g.plain && d.plain == nil {
			d.plain = g
		}
		d.grammars = append(d.grammars, g)
		addKey(d.byName, strings.ToLower(g.Name), g)
		for _, a := range g.Aliases {
			addKey(d.byName, strings.ToLower(a), g)
		}
		for _, e := range g.Extensions {
			addKey(d.byExt, strings.ToLower(strings.TrimPrefix(e, ".")), g)
		}
		for _, f := range g.Filenames {
			addKey(d.byFilename, f, g)
		}
	}
	if d.plain == nil {
		d.plain = &Grammar{Name: PlainTextName, plain: true}
		d.grammars = append(d.grammars, d.plain)
		addKey(d.byName, strings.ToLower(PlainTextName), d.plain)
	}

	for _, s := range themes {
		key := strings.ToLower(s.Name)
		if _, dup := d.themes[key]; dup {
			continue
		}
		d.themes[key] = NewTheme(s)
		d.themeNames = append(d.themeNames, s.Name)
	}
	sort.Strings(d.themeNames)

	return d
}

func addKey(m map[string]*Grammar, key string, g *Grammar) {
	if key == "" {
		return
	}
	if _, ok := m[key]; !ok {
		m[key] = g
	}
}

// Grammars returns all grammars in registration order.
func (d *Directory) Grammars() []*Grammar {
	return append([]*Grammar(nil), d.grammars...)
}

// Plain returns the plain-text grammar.
func (d *Directory) Plain() *Grammar {
	return d.plain
}

// LookupByName finds a grammar by name or alias, case-insensitively.
func (d *Directory) LookupByName(name string) *Grammar {
	return d.byName[strings.ToLower(name)]
}

// LookupByExtension finds a grammar by file extension, with or without the dot.
func (d *Directory) LookupByExtension(ext string) *Grammar {
	return d.byExt[strings.ToLower(strings.TrimPrefix(ext, "."))]
}

// LookupByFilename finds a grammar that claims the exact base name.
func (d *Directory) LookupByFilename(base string) *Grammar {
	return d.byFilename[base]
}

// LookupByShebang returns the first grammar whose first-line pattern matches line.
func (d *Directory) LookupByShebang(line string) *Grammar {
	for _, g := range d.grammars {
		if g.MatchesFirstLine(line) {
			return g
		}
	}
	return nil
}

// Theme looks up a theme by name, case-insensitively.
func (d *Directory) Theme(name string) (Theme, error) {
	t, ok := d.themes[strings.ToLower(name)]
	if !ok {
		return Theme{}, fmt.Errorf("%w: %s", ErrUnknownTheme, name)
	}
	return t, nil
}

// ThemeNames returns the registered theme names, sorted.
func (d *Directory) ThemeNames() []string {
	return append([]string(nil), d.themeNames...)
}
