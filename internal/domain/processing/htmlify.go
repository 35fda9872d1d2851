package processing

import (
	"fmt"
	"regexp"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/addonhub/devhub/internal/domain"
)

var urlPattern = regexp.MustCompile(`(?i)\b(?:https?://|www\.)[^\s<>"']+`)

// HtmlifyValidation turns message, description and signing_help into safe
// HTML with URLs linked. description and signing_help always end up as lists.
func HtmlifyValidation(r *domain.Result) {
	for _, m := range r.Messages {
		if m == nil {
			continue
		}
		if v, ok := m[domain.FieldMessage]; ok {
			m[domain.FieldMessage] = LinkifyEscape(textOf(v))
		}
		for _, field := range []string{domain.FieldDescription, domain.FieldSigningHelp} {
			v, ok := m[field]
			if !ok {
				continue
			}
			items := listOf(v)
			out := make([]string, len(items))
			for i, item := range items {
				out[i] = LinkifyEscape(textOf(item))
			}
			m[field] = out
		}
	}
}

// LinkifyEscape HTML-escapes text and wraps URLs in anchors. Only the text is
// escaped; the anchors are built as nodes and rendered, so markup in the input
// can never reach the output unescaped.
func LinkifyEscape(text string) string {
	var b strings.Builder
	last := 0
	for _, loc := range urlPattern.FindAllStringIndex(text, -1) {
		start := loc[0]
		end := start + len(trimURL(text[start:loc[1]]))
		if end == start {
			continue
		}
		b.WriteString(html.EscapeString(text[last:start]))
		writeAnchor(&b, text[start:end])
		last = end
	}
	b.WriteString(html.EscapeString(text[last:]))
	return b.String()
}

func writeAnchor(b *strings.Builder, raw string) {
	href := raw
	if !strings.Contains(strings.ToLower(raw), "://") {
		href = "http://" + raw
	}
	a := &html.Node{
		Type:     html.ElementNode,
		Data:     "a",
		DataAtom: atom.A,
		Attr: []html.Attribute{
			{Key: "href", Val: href},
			{Key: "rel", Val: "nofollow"},
		},
	}
	a.AppendChild(&html.Node{Type: html.TextNode, Data: raw})
	// Rendering to a strings.Builder cannot fail.
	_ = html.Render(b, a)
}

// trimURL drops trailing punctuation that usually ends a sentence rather than
// a URL.
func trimURL(s string) string {
	return strings.TrimRight(s, ".,;:!?)]}")
}

func textOf(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	}
	return fmt.Sprint(v)
}

func listOf(v any) []any {
	switch l := v.(type) {
	case []any:
		return l
	case []string:
		out := make([]any, len(l))
		for i, s := range l {
			out[i] = s
		}
		return out
	}
	return []any{v}
}
