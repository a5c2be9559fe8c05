package syntax

import (
	"fmt"

	"github.com/alecthomas/chroma/v2"
)

// Token is one tokenized slice of a line.
type Token struct {
	Type chroma.TokenType
	Text string
}

// tokenNames maps the dotted scope names used by the grammar dataset to
// chroma token types, which themes are keyed on.
var tokenNames = map[string]chroma.TokenType{
	"text": chroma.Text,

	"keyword":             chroma.Keyword,
	"keyword.constant":    chroma.KeywordConstant,
	"keyword.declaration": chroma.KeywordDeclaration,
	"keyword.namespace":   chroma.KeywordNamespace,
	"keyword.reserved":    chroma.KeywordReserved,
	"keyword.type":        chroma.KeywordType,

	"name":           chroma.Name,
	"name.attribute": chroma.NameAttribute,
	"name.builtin":   chroma.NameBuiltin,
	"name.class":     chroma.NameClass,
	"name.constant":  chroma.NameConstant,
	"name.decorator": chroma.NameDecorator,
	"name.entity":    chroma.NameEntity,
	"name.function":  chroma.NameFunction,
	"name.label":     chroma.NameLabel,
	"name.tag":       chroma.NameTag,
	"name.variable":  chroma.NameVariable,

	"literal.string":          chroma.LiteralString,
	"literal.string.backtick": chroma.LiteralStringBacktick,
	"literal.string.char":     chroma.LiteralStringChar,
	"literal.string.doc":      chroma.LiteralStringDoc,
	"literal.string.escape":   chroma.LiteralStringEscape,
	"literal.string.heredoc":  chroma.LiteralStringHeredoc,
	"literal.string.regex":    chroma.LiteralStringRegex,
	"literal.number":          chroma.LiteralNumber,
	"literal.number.bin":      chroma.LiteralNumberBin,
	"literal.number.float":    chroma.LiteralNumberFloat,
	"literal.number.hex":      chroma.LiteralNumberHex,
	"literal.number.integer":  chroma.LiteralNumberInteger,
	"literal.number.oct":      chroma.LiteralNumberOct,

	"comment":           chroma.Comment,
	"comment.hashbang":  chroma.CommentHashbang,
	"comment.multiline": chroma.CommentMultiline,
	"comment.preproc":   chroma.CommentPreproc,
	"comment.single":    chroma.CommentSingle,

	"operator":      chroma.Operator,
	"operator.word": chroma.OperatorWord,
	"punctuation":   chroma.Punctuation,

	"generic.deleted":    chroma.GenericDeleted,
	"generic.emph":       chroma.GenericEmph,
	"generic.heading":    chroma.GenericHeading,
	"generic.inserted":   chroma.GenericInserted,
	"generic.strong":     chroma.GenericStrong,
	"generic.subheading": chroma.GenericSubheading,
}

// ParseTokenType resolves a dotted scope name such as "comment.multiline".
func ParseTokenType(name string) (chroma.TokenType, error) {
	tt, ok := tokenNames[name]
	if !ok {
		return chroma.Text, fmt.Errorf("unknown token type %q", name)
	}
	return tt, nil
}
