package encoding

import (
	"bytes"
	"strings"
	"unicode/utf8"

	"github.com/zjrosen/cate/internal/log"
)

// Resolved is the outcome of encoding resolution for one document.
type Resolved struct {
	Encoding   Encoding
	Confidence Confidence
	// BOMLength is the number of leading bytes Decode strips.
	BOMLength int
}

type bom struct {
	prefix []byte
	enc    Encoding
}

// boms is checked in order; the UTF-8 mark is the longest and goes first.
var boms = []bom{
	{prefix: []byte{0xEF, 0xBB, 0xBF}, enc: UTF8},
	{prefix: []byte{0xFF, 0xFE}, enc: UTF16LE},
	{prefix: []byte{0xFE, 0xFF}, enc: UTF16BE},
}

// Resolve picks the decode encoding for raw. hint may be nil.
func Resolve(raw []byte, hint *Encoding) Resolved {
	return resolve(raw, hint, SystemDefault)
}

func resolve(raw []byte, hint *Encoding, fallback func() Encoding) Resolved {
	for _, b := range boms {
		if bytes.HasPrefix(raw, b.prefix) {
			log.Debug(log.CatEncoding, "BOM detected", "encoding", b.enc.Name)
			return Resolved{Encoding: b.enc, Confidence: Certain, BOMLength: len(b.prefix)}
		}
	}

	if utf8.Valid(raw) {
		log.Debug(log.CatEncoding, "Valid UTF-8 detected")
		return Resolved{Encoding: UTF8, Confidence: High}
	}

	if hint != nil && !hint.IsZero() {
		log.Debug(log.CatEncoding, "Using user-specified encoding", "encoding", hint.Name)
		return Resolved{Encoding: *hint, Confidence: Certain}
	}

	def := fallback()
	log.Debug(log.CatEncoding, "Falling back to system encoding", "encoding", def.Name)
	return Resolved{Encoding: def, Confidence: Low}
}

// Decode converts raw to UTF-8 text using r, stripping any BOM.
// It never fails: malformed sequences become U+FFFD and hadErrors is set.
func Decode(raw []byte, r Resolved) (text string, hadErrors bool) {
	body := raw[min(r.BOMLength, len(raw)):]

	// Unmarked valid UTF-8 needs no transformation.
	if r.Confidence == High {
		return string(body), false
	}

	enc := r.Encoding
	if enc.IsZero() {
		enc = UTF8
	}

	out, err := enc.enc.NewDecoder().Bytes(body)
	if err != nil {
		log.ErrorErr(log.CatEncoding, "Decoder failed, replacing invalid sequences", err, "encoding", enc.Name)
		return strings.ToValidUTF8(string(body), string(utf8.RuneError)), true
	}

	hadErrors = bytes.ContainsRune(out, utf8.RuneError)
	if hadErrors {
		log.Debug(log.CatEncoding, "Some characters could not be decoded properly", "encoding", enc.Name)
	}
	return string(out), hadErrors
}
