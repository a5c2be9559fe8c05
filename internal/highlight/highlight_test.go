package highlight

import (
	"strings"
	"testing"

	"github.com/alecthomas/chroma/v2"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/zjrosen/cate/internal/syntax"
)

var (
	white = chroma.MustParseColour("#ffffff")
	red   = chroma.MustParseColour("#ff0000")
	green = chroma.MustParseColour("#00ff00")
)

func fixtureTheme() syntax.Theme {
	return syntax.NewTheme(chroma.MustNewStyle("fixture", chroma.StyleEntries{
		chroma.Text:    "#ffffff",
		chroma.Keyword: "#ff0000",
		chroma.Comment: "#00ff00",
	}))
}

func goGrammar(t *testing.T) *syntax.Grammar {
	t.Helper()
	d, err := syntax.Default()
	require.NoError(t, err)
	g := d.LookupByName("Go")
	require.NotNil(t, g)
	return g
}

func join(spans []Span) string {
	var b strings.Builder
	for _, s := range spans {
		b.WriteString(s.Text)
	}
	return b.String()
}

func TestHighlightLine_Keywords(t *testing.T) {
	doc := Begin(goGrammar(t), fixtureTheme())

	spans := doc.HighlightLine("package main\n")
	require.Equal(t, []Span{
		{Text: "package", Colour: red},
		{Text: " main\n", Colour: white},
	}, spans)
	require.Zero(t, doc.Errors())
}

func TestHighlightLine_MergesEqualColours(t *testing.T) {
	doc := Begin(goGrammar(t), fixtureTheme())

	// Keyword categories share one colour in the fixture theme.
	spans := doc.HighlightLine("func\n")
	require.Equal(t, []Span{
		{Text: "func", Colour: red},
		{Text: "\n", Colour: white},
	}, spans)

	spans = doc.HighlightLine("x := y\n")
	require.Equal(t, []Span{{Text: "x := y\n", Colour: white}}, spans)
}

func TestHighlightLine_StateCarriesAcrossLines(t *testing.T) {
	doc := Begin(goGrammar(t), fixtureTheme())

	doc.HighlightLine("/* start\n")
	spans := doc.HighlightLine("if inside\n")
	require.Equal(t, []Span{{Text: "if inside\n", Colour: green}}, spans)

	spans = doc.HighlightLine("*/ if\n")
	require.Equal(t, []Span{
		{Text: "*/", Colour: green},
		{Text: " ", Colour: white},
		{Text: "if", Colour: red},
		{Text: "\n", Colour: white},
	}, spans)
}

func TestHighlightLine_OrderSensitive(t *testing.T) {
	opener, closer := "/* open\n", "if x */ if\n"

	forward := Begin(goGrammar(t), fixtureTheme())
	forward.HighlightLine(opener)
	inOrder := forward.HighlightLine(closer)

	reversed := Begin(goGrammar(t), fixtureTheme())
	outOfOrder := reversed.HighlightLine(closer)
	reversed.HighlightLine(opener)

	require.Equal(t, Span{Text: "if x */", Colour: green}, inOrder[0])
	require.Equal(t, Span{Text: "if", Colour: red}, outOfOrder[0])
	require.NotEqual(t, inOrder, outOfOrder)
	require.Equal(t, closer, join(inOrder))
	require.Equal(t, closer, join(outOfOrder))
}

func TestHighlightLine_Plain(t *testing.T) {
	d, err := syntax.Default()
	require.NoError(t, err)
	doc := Begin(d.Plain(), fixtureTheme())

	spans := doc.HighlightLine("func main() {}\n")
	require.Equal(t, []Span{{Text: "func main() {}\n"}}, spans)
	require.False(t, spans[0].Colour.IsSet())
}

func TestHighlightLine_LongLine(t *testing.T) {
	doc := Begin(goGrammar(t), fixtureTheme())

	long := strings.Repeat("if ", MaxLineBytes/3+1) + "\n"
	require.Greater(t, len(long), MaxLineBytes)

	spans := doc.HighlightLine(long)
	require.Equal(t, []Span{{Text: long}}, spans)

	spans = doc.HighlightLine("if\n")
	require.Equal(t, red, spans[0].Colour)
	require.Zero(t, doc.Errors())
}

func TestHighlightLine_LongLineInsideComment(t *testing.T) {
	doc := Begin(goGrammar(t), fixtureTheme())

	doc.HighlightLine("/* open\n")
	doc.HighlightLine(strings.Repeat("x", MaxLineBytes+1) + "\n")

	spans := doc.HighlightLine("still */\n")
	require.Equal(t, green, spans[0].Colour, "comment continues past the skipped line")
}

func TestHighlightLine_ErrorFallsBackToUnstyled(t *testing.T) {
	grammars, err := syntax.ParseGrammars([]byte(`
grammars:
  - name: Slow
    patterns:
      - {token: keyword, match: '(a+)+$'}
`))
	require.NoError(t, err)
	doc := Begin(grammars[0], fixtureTheme())

	line := strings.Repeat("a", 40) + "!\n"
	spans := doc.HighlightLine(line)
	require.Equal(t, []Span{{Text: line}}, spans)
	require.Equal(t, 1, doc.Errors())

	spans = doc.HighlightLine("b\n")
	require.Equal(t, "b\n", join(spans))
	require.Equal(t, 1, doc.Errors())
}

// Property: spans reproduce the line and neighbouring spans differ in colour.
func TestHighlightLine_Property(t *testing.T) {
	g := goGrammar(t)
	theme := fixtureTheme()
	alphabet := []rune("if x/*\"`'1 \t\\")

	rapid.Check(t, func(rt *rapid.T) {
		doc := Begin(g, theme)
		lines := rapid.SliceOfN(rapid.StringOf(rapid.RuneFrom(alphabet)), 1, 8).Draw(rt, "lines")
		for _, line := range lines {
			line += "\n"
			spans := doc.HighlightLine(line)
			if join(spans) != line {
				rt.Fatalf("spans %q do not reproduce %q", join(spans), line)
			}
			for i := 1; i < len(spans); i++ {
				if spans[i].Colour == spans[i-1].Colour {
					rt.Fatalf("unmerged spans in %q", line)
				}
			}
		}
		if doc.Errors() != 0 {
			rt.Fatalf("unexpected highlight errors: %d", doc.Errors())
		}
	})
}
