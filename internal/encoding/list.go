package encoding

import (
	"fmt"
	"io"
)

// Group is a family of commonly used encodings shown by --list-encodings.
type Group struct {
	Title  string
	Labels []string
}

// List returns the commonly used encodings grouped by script.
func List() []Group {
	return []Group{
		{Title: "Unicode", Labels: []string{"utf-8", "utf-16le", "utf-16be"}},
		{Title: "Chinese", Labels: []string{"gbk (Simplified Chinese)", "big5 (Traditional Chinese)"}},
		{Title: "Japanese", Labels: []string{"shift-jis (Shift_JIS)"}},
		{Title: "Western European", Labels: []string{"windows-1252", "iso-8859-1"}},
		{Title: "Other", Labels: []string{
			"Any WHATWG encoding label",
			"(e.g., euc-jp, iso-8859-2, koi8-r, etc.)",
		}},
	}
}

// WriteList prints List to w.
func WriteList(w io.Writer) error {
	if _, err := fmt.Fprintln(w, "Supported encodings:"); err != nil {
		return err
	}
	for _, g := range List() {
		if _, err := fmt.Fprintf(w, "\n%s:\n", g.Title); err != nil {
			return err
		}
		for _, l := range g.Labels {
			if _, err := fmt.Fprintf(w, "  %s\n", l); err != nil {
				return err
			}
		}
	}
	return nil
}
