package tui

import (
	"strings"

	"github.com/alecthomas/chroma/v2"
	chromastyles "github.com/alecthomas/chroma/v2/styles"
	"github.com/charmbracelet/glamour"
	glamourstyles "github.com/charmbracelet/glamour/styles"
)

// codeTheme is the chroma style used for fenced code in descriptions.
const codeTheme = "taskman"

func init() {
	chromastyles.Register(chroma.MustNewStyle(codeTheme, chroma.StyleEntries{
		chroma.Text:            "#dfe6e9",
		chroma.Error:           "#d63031",
		chroma.Comment:         "#636e72 italic",
		chroma.Keyword:         "#a29bfe bold",
		chroma.KeywordType:     "#fdcb6e",
		chroma.Operator:        "#81ecec",
		chroma.Punctuation:     "#b2bec3",
		chroma.Name:            "#dfe6e9",
		chroma.NameFunction:    "#74b9ff",
		chroma.NameBuiltin:     "#ff7675",
		chroma.LiteralString:   "#00b894",
		chroma.LiteralNumber:   "#fab1a0",
		chroma.GenericDeleted:  "#d63031",
		chroma.GenericInserted: "#00b894",
		chroma.GenericHeading:  "#6c5ce7 bold",
		chroma.Background:      "bg:#2d3436",
	}))
}

// renderMarkdown renders a task description for the detail view.
// Rendering failures fall back to the raw text.
func renderMarkdown(text string, width int, plain bool) string {
	if strings.TrimSpace(text) == "" {
		return ""
	}
	if width < 20 {
		width = 20
	}

	style := glamourstyles.DarkStyleConfig
	if plain {
		style = glamourstyles.ASCIIStyleConfig
	}
	style.CodeBlock.Theme = codeTheme

	r, err := glamour.NewTermRenderer(
		glamour.WithStyles(style),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return text
	}
	out, err := r.Render(text)
	if err != nil {
		return text
	}
	return strings.Trim(out, "\n")
}
