// Package encoding resolves the byte encoding of a document and decodes it to UTF-8.
//
// Resolution follows a fixed priority chain: byte-order mark, then valid
// UTF-8, then the user's hint, then the platform default. Decoding never fails;
// malformed input becomes U+FFFD and is reported as a flag, not an error.
package encoding

import (
	"errors"
	"fmt"
	"strings"

	xencoding "golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/encoding/japanese"
	"golang.org/x/text/encoding/simplifiedchinese"
	"golang.org/x/text/encoding/traditionalchinese"
	"golang.org/x/text/encoding/unicode"
)

// ErrUnknownEncoding is returned by Parse for labels that name no known encoding.
var ErrUnknownEncoding = errors.New("unsupported encoding")

// Encoding is a named text encoding.
type Encoding struct {
	Name string
	enc  xencoding.Encoding
}

// Well-known encodings.
var (
	UTF8        = Encoding{Name: "UTF-8", enc: unicode.UTF8}
	UTF16LE     = Encoding{Name: "UTF-16LE", enc: unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM)}
	UTF16BE     = Encoding{Name: "UTF-16BE", enc: unicode.UTF16(unicode.BigEndian, unicode.IgnoreBOM)}
	GBK         = Encoding{Name: "GBK", enc: simplifiedchinese.GBK}
	ShiftJIS    = Encoding{Name: "Shift_JIS", enc: japanese.ShiftJIS}
	Big5        = Encoding{Name: "Big5", enc: traditionalchinese.Big5}
	Windows1252 = Encoding{Name: "windows-1252", enc: charmap.Windows1252}
)

// aliases maps lower-cased user labels to encodings. Labels not listed here
// fall through to the WHATWG label table.
var aliases = map[string]Encoding{
	"utf-8":        UTF8,
	"utf8":         UTF8,
	"utf-16le":     UTF16LE,
	"utf16le":      UTF16LE,
	"utf-16be":     UTF16BE,
	"utf16be":      UTF16BE,
	"gbk":          GBK,
	"cp936":        GBK,
	"shift-jis":    ShiftJIS,
	"shift_jis":    ShiftJIS,
	"sjis":         ShiftJIS,
	"big5":         Big5,
	"cp950":        Big5,
	"cp1252":       Windows1252,
	"windows-1252": Windows1252,
	// ISO-8859-1 is approximated by its windows-1252 superset.
	"iso-8859-1": Windows1252,
	"latin1":     Windows1252,
}

// Parse looks up an encoding by label, case-insensitively.
func Parse(label string) (Encoding, error) {
	key := strings.ToLower(strings.TrimSpace(label))
	if e, ok := aliases[key]; ok {
		return e, nil
	}

	enc, err := htmlindex.Get(key)
	if err != nil || enc == nil {
		return Encoding{}, fmt.Errorf("%w: %s", ErrUnknownEncoding, label)
	}
	name, err := htmlindex.Name(enc)
	if err != nil {
		name = key
	}
	return Encoding{Name: name, enc: enc}, nil
}

// IsZero reports whether e is the zero Encoding.
func (e Encoding) IsZero() bool {
	return e.enc == nil
}

func (e Encoding) String() string {
	return e.Name
}

// Confidence is the qualitative certainty attached to a resolved encoding.
type Confidence int

const (
	// Certain is reached only through a byte-order mark or an explicit hint.
	Certain Confidence = iota
	// High is reached only when BOM-less input is valid UTF-8.
	High
	// Low is reached only through the platform default.
	Low
)

func (c Confidence) String() string {
	switch c {
	case Certain:
		return "Certain"
	case High:
		return "High"
	case Low:
		return "Low"
	default:
		return "Unknown"
	}
}
