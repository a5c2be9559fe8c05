package cmd

import (
	"bufio"
	"strings"

	"github.com/zjrosen/cate/internal/syntax"
)

func (a *app) writeLists(dir *syntax.Directory, themes, syntaxes bool) error {
	w := bufio.NewWriter(a.out)

	if themes {
		w.WriteString("Available themes:\n")
		for _, name := range dir.ThemeNames() {
			w.WriteString("  " + name + "\n")
		}
	}

	if syntaxes {
		if themes {
			w.WriteString("\n")
		}
		w.WriteString("Available syntaxes:\n")
		for _, g := range dir.Grammars() {
			line := "  " + g.Name
			if len(g.Extensions) > 0 {
				line += " [" + strings.Join(g.Extensions, ", ") + "]"
			}
			w.WriteString(line + "\n")
		}
	}

	return w.Flush()
}
