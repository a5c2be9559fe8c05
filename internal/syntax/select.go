package syntax

import (
	"path/filepath"
	"strings"

	"github.com/zjrosen/cate/internal/log"
)

// Select picks the grammar for one document. Precedence: explicit language
// (name, alias or extension), file extension, exact file name, well-known
// build file names, shebang on the first line, plain text.
func Select(d *Directory, language, path, firstLine string) *Grammar {
	if language != "" {
		if g := d.LookupByName(language); g != nil {
			return selected(g, "language", language)
		}
		if g := d.LookupByExtension(language); g != nil {
			return selected(g, "language", language)
		}
		log.Warn(log.CatSyntax, "Unknown language, falling back to detection", "language", language)
	}

	if path != "" {
		base := filepath.Base(path)
		if ext := filepath.Ext(base); ext != "" && ext != base {
			if g := d.LookupByExtension(ext); g != nil {
				return selected(g, "extension", ext)
			}
		}
		if g := d.LookupByFilename(base); g != nil {
			return selected(g, "filename", base)
		}
		if g := d.byName[strings.ToLower(base)]; g != nil && g.Name == base {
			return selected(g, "filename", base)
		}
		switch strings.ToLower(base) {
		case "makefile", "gnumakefile":
			if g := d.LookupByName("Makefile"); g != nil {
				return selected(g, "filename", base)
			}
		case "dockerfile":
			if g := d.LookupByName("Dockerfile"); g != nil {
				return selected(g, "filename", base)
			}
		}
	}

	if strings.HasPrefix(firstLine, "#!") {
		if g := d.LookupByShebang(strings.TrimRight(firstLine, "\r\n")); g != nil {
			return selected(g, "shebang", strings.TrimSpace(firstLine))
		}
	}

	return selected(d.Plain(), "fallback", "")
}

func selected(g *Grammar, by, key string) *Grammar {
	log.Debug(log.CatSyntax, "Grammar selected", "grammar", g.Name, "by", by, "key", key)
	return g
}
