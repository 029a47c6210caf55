package api

import (
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Text flattens an HTML fragment (mail bodies, blog posts) into plain text.
// Block elements become line breaks and script or style contents are dropped.
func Text(fragment string) string {
	tokenizer := html.NewTokenizer(strings.NewReader(fragment))

	var (
		b    strings.Builder
		skip int
	)

	for {
		switch tokenizer.Next() {
		case html.ErrorToken:
			return tidy(b.String())
		case html.TextToken:
			if skip == 0 {
				b.WriteString(strings.Map(flatten, string(tokenizer.Text())))
			}
		case html.StartTagToken, html.SelfClosingTagToken:
			name, _ := tokenizer.TagName()
			switch a := atom.Lookup(name); {
			case a == atom.Script || a == atom.Style:
				skip++
			case breaks(a):
				b.WriteByte('\n')
			}
		case html.EndTagToken:
			name, _ := tokenizer.TagName()
			switch a := atom.Lookup(name); {
			case a == atom.Script || a == atom.Style:
				if skip > 0 {
					skip--
				}
			case breaks(a) && a != atom.Br:
				b.WriteByte('\n')
			}
		}
	}
}

// flatten turns source line breaks into spaces, only tags break lines.
func flatten(r rune) rune {
	if r == '\n' || r == '\r' || r == '\t' {
		return ' '
	}
	return r
}

func breaks(a atom.Atom) bool {
	switch a {
	case atom.Br, atom.P, atom.Div, atom.Li, atom.Tr, atom.Blockquote,
		atom.H1, atom.H2, atom.H3, atom.H4, atom.H5, atom.H6:
		return true
	default:
		return false
	}
}

// tidy collapses runs of spaces and keeps at most one blank line between paragraphs.
func tidy(s string) string {
	lines := strings.Split(s, "\n")
	out := make([]string, 0, len(lines))
	blank := true

	for _, line := range lines {
		line = strings.Join(strings.Fields(line), " ")
		if line == "" {
			if !blank {
				out = append(out, "")
			}
			blank = true
			continue
		}
		out = append(out, line)
		blank = false
	}

	return strings.TrimSpace(strings.Join(out, "\n"))
}
