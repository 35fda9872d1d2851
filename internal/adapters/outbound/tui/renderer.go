package tui

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/addonhub/devhub/internal/domain"
)

// ── warm palette ──
var (
	accent  = lipgloss.Color("#D97706") // amber
	fg      = lipgloss.Color("#E8E6E3") // warm light gray
	dim     = lipgloss.Color("#6B7280") // muted gray
	faint   = lipgloss.Color("#3F3F46") // very dim
	success = lipgloss.Color("#22C55E") // green
	danger  = lipgloss.Color("#EF4444") // red
	warning = lipgloss.Color("#F59E0B") // amber-yellow
	info    = lipgloss.Color("#8B949E") // soft blue-gray
)

var (
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(accent).
			Align(lipgloss.Center)

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(accent).
			Padding(1, 4).
			Align(lipgloss.Center).
			Width(68)

	dimStyle      = lipgloss.NewStyle().Foreground(dim)
	faintStyle    = lipgloss.NewStyle().Foreground(faint)
	passStyle     = lipgloss.NewStyle().Foreground(success)
	failStyle     = lipgloss.NewStyle().Foreground(danger)
	errorTagStyle = lipgloss.NewStyle().Foreground(danger).Bold(true)
	warnTagStyle  = lipgloss.NewStyle().Foreground(warning).Bold(true)
	infoTagStyle  = lipgloss.NewStyle().Foreground(info)
	fileStyle     = lipgloss.NewStyle().Foreground(dim)
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(fg)
	separatorLine = faintStyle.Render(strings.Repeat("─", 64))
)

// RenderResult formats a display-ready validation result for the terminal.
// Message text is expected to be HTML escaped; tags are stripped for display.
func RenderResult(r *domain.Result) string {
	var b strings.Builder

	// ── Header ──
	title := headerStyle.Render("devhub")
	subtitle := dimStyle.Render("Validation Result")
	verdict := failStyle.Bold(true).Render("FAILED")
	if r.Success {
		verdict = passStyle.Bold(true).Render("PASSED")
	}
	b.WriteString(boxStyle.Render(title + "\n" + subtitle + "\n\n" + verdict))
	b.WriteString("\n\n")

	// ── Totals ──
	b.WriteString("  ")
	b.WriteString(errorTagStyle.Render(fmt.Sprintf("%d errors", r.Errors)))
	b.WriteString("  ")
	b.WriteString(warnTagStyle.Render(fmt.Sprintf("%d warnings", r.Warnings)))
	b.WriteString("  ")
	b.WriteString(infoTagStyle.Render(fmt.Sprintf("%d notices", r.Notices)))
	b.WriteString("  ")
	b.WriteString(dimStyle.Render(fmt.Sprintf("tier %d", r.EndingTier)))
	b.WriteString("\n")

	if r.SigningSummary != nil {
		renderSigning(&b, r)
	}

	b.WriteString("\n")
	b.WriteString("  " + separatorLine)
	b.WriteString("\n\n")

	// ── Messages ──
	if len(r.Messages) == 0 {
		b.WriteString("  " + passStyle.Render("No messages.") + "\n")
	}
	for _, m := range r.Messages {
		renderMessage(&b, m)
	}

	b.WriteString("\n")
	return b.String()
}

func renderSigning(b *strings.Builder, r *domain.Result) {
	var ignored domain.SigningSummary
	if r.SigningIgnoredSummary != nil {
		ignored = *r.SigningIgnoredSummary
	}
	parts := make([]string, 0, len(domain.SigningSeverities))
	for _, sev := range domain.SigningSeverities {
		parts = append(parts, fmt.Sprintf("%s %d/%d", sev, r.SigningSummary.Get(sev), ignored.Get(sev)))
	}
	b.WriteString("  ")
	b.WriteString(titleStyle.Render("Signing"))
	b.WriteString("  ")
	b.WriteString(dimStyle.Render(strings.Join(parts, "  ")))
	b.WriteString("  ")
	b.WriteString(faintStyle.Render("(counted/ignored)"))
	b.WriteString("\n")

	if r.PassedAutoValidation != nil {
		status := failStyle.Render("manual review required")
		if *r.PassedAutoValidation {
			status = passStyle.Render("passed auto-validation")
		}
		b.WriteString("  " + status + "\n")
	}
}

func renderMessage(b *strings.Builder, m domain.Message) {
	tag := typeTag(m.Type())
	text := PlainText(fmt.Sprint(m[domain.FieldMessage]))
	if m.Ignored() {
		text += "  " + faintStyle.Render("(ignored)")
	}
	if sev, ok := m.SigningSeverity(); ok {
		text += "  " + faintStyle.Render("signing:"+sev)
	}

	if file, _ := m[domain.FieldFile].(string); file != "" {
		fmt.Fprintf(b, "    %s %s\n", tag, fileStyle.Render(file))
		fmt.Fprintf(b, "         %s\n", dimStyle.Render(text))
	} else {
		fmt.Fprintf(b, "    %s %s\n", tag, dimStyle.Render(text))
	}
}

func typeTag(msgType string) string {
	switch msgType {
	case domain.TypeError:
		return errorTagStyle.Render("error")
	case domain.TypeWarning:
		return warnTagStyle.Render("warn ")
	default:
		return infoTagStyle.Render("note ")
	}
}

// PlainText strips markup from an HTML fragment, keeping only its text.
func PlainText(fragment string) string {
	nodes, err := html.ParseFragment(strings.NewReader(fragment), &html.Node{
		Type:     html.ElementNode,
		Data:     "div",
		DataAtom: atom.Div,
	})
	if err != nil {
		return fragment
	}
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	for _, n := range nodes {
		walk(n)
	}
	return b.String()
}

// RenderHistory lists the stored validations of one add-on, newest first.
func RenderHistory(validations []domain.StoredValidation) string {
	if len(validations) == 0 {
		return "  " + dimStyle.Render("No stored validations found.") + "\n"
	}

	sorted := make([]domain.StoredValidation, len(validations))
	copy(sorted, validations)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Sequence > sorted[j].Sequence })

	var b strings.Builder
	b.WriteString("\n")
	b.WriteString("  " + titleStyle.Render("Validation History") + "\n")
	b.WriteString("  " + faintStyle.Render(strings.Repeat("─", 50)) + "\n\n")

	for _, v := range sorted {
		hash := v.FileHash
		if len(hash) > 12 {
			hash = hash[:12]
		}
		status := dimStyle.Render("pending ")
		if v.Approved {
			status = passStyle.Render("approved")
		}
		errors := 0
		if v.Result != nil {
			errors = v.Result.Errors
		}
		fmt.Fprintf(&b, "  %s  %s  %s  %s  %s\n",
			faintStyle.Render(fmt.Sprintf("#%d", v.Sequence)),
			padRight(v.Version, 12),
			faintStyle.Render(hash),
			status,
			dimStyle.Render(fmt.Sprintf("%d errors", errors)),
		)
	}
	return b.String()
}

func padRight(s string, width int) string {
	if len(s) >= width {
		return s
	}
	return s + strings.Repeat(" ", width-len(s))
}
