package pipeline

import (
	"encoding/json"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/gomarkdown/markdown"
	mdhtml "github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"
	"github.com/ppiankov/posterior/internal/llm"
	"github.com/ppiankov/posterior/internal/model"
)

// Output formats
const (
	FormatText     = "text"
	FormatJSON     = "json"
	FormatMarkdown = "markdown"
	FormatHTML     = "html"
)

// wallPadding is added to the longest hypothesis to get the border width
const wallPadding = 30

// Renderer turns reports into their output formats
type Renderer struct {
	includeFooter bool
}

// NewRenderer creates a new renderer
func NewRenderer(includeFooter bool) *Renderer {
	return &Renderer{includeFooter: includeFooter}
}

// Render dispatches on format
func (r *Renderer) Render(report *model.Report, format string) ([]byte, error) {
	switch format {
	case FormatText, "":
		return []byte(r.Text(report)), nil
	case FormatJSON:
		return r.JSON(report)
	case FormatMarkdown:
		return []byte(r.Markdown(report)), nil
	case FormatHTML:
		return r.HTML(report), nil
	default:
		return nil, fmt.Errorf("unknown output format: %s (supported: text, json, markdown, html)", format)
	}
}

// Text renders the bordered plain-text report
func (r *Renderer) Text(report *model.Report) string {
	width := wallPadding + report.Longest
	var b strings.Builder

	// Thesis
	wall(&b, '▓', width)
	fmt.Fprintf(&b, ">> \"%s\"\n", report.Thesis)

	// Facts
	wall(&b, '▓', width)
	b.WriteString("Considering the facts:\n")
	for _, fact := range report.Facts {
		fmt.Fprintf(&b, "— \"%s\"\n", fact)
	}

	// Outcomes, padded so the percentages line up
	wall(&b, '░', width)
	for _, o := range report.Outcomes {
		pad := report.Longest - utf8.RuneCountInString(o.Hypothesis)
		if pad < 0 {
			pad = 0
		}
		fmt.Fprintf(&b, "• «%s» %swill have a chance: %d%%\n", o.Hypothesis, strings.Repeat(" ", pad), o.Percentage)
	}

	wall(&b, '▓', width)

	if report.LLM != nil && report.LLM.Enabled && report.LLM.SummaryMD != "" {
		b.WriteString("\n")
		b.WriteString(report.LLM.SummaryMD)
		b.WriteString("\n")
	}
	return b.String()
}

func wall(b *strings.Builder, c rune, n int) {
	b.WriteString(strings.Repeat(string(c), n))
	b.WriteByte('\n')
}

// JSON renders the full report, breakdown included
func (r *Renderer) JSON(report *model.Report) ([]byte, error) {
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal JSON: %w", err)
	}
	return append(data, '\n'), nil
}

// Markdown renders the report with the calculation breakdown and signals
func (r *Renderer) Markdown(report *model.Report) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# %s\n\n", escapeMarkdown(report.Thesis))

	b.WriteString("## Facts considered\n\n")
	for i, fact := range report.Facts {
		fmt.Fprintf(&b, "%d. %s\n", i+1, escapeMarkdown(fact))
	}

	b.WriteString("\n## Posterior\n\n")
	b.WriteString("| Hypothesis | Prior | Score | Posterior | Chance |\n")
	b.WriteString("|---|---:|---:|---:|---:|\n")
	for _, o := range report.Outcomes {
		fmt.Fprintf(&b, "| %s | %.4g | %.4g | %.4f | **%d%%** |\n",
			escapeTable(o.Hypothesis), o.Chance, o.Score, o.Posterior, o.Percentage)
	}
	fmt.Fprintf(&b, "\nTotal score: %.6g. Percentages add up to %d%%.\n", report.Score.Total, report.Score.PercentSum)

	if len(report.Score.Signals) > 0 {
		b.WriteString("\n## Signals\n\n")
		for _, s := range report.Score.Signals {
			fmt.Fprintf(&b, "- **%s** (%s): %s\n", s.Type, s.Severity, escapeMarkdown(s.Description))
		}
	}

	if md := llm.RenderSeparateMarkdown(report.LLM); md != "" {
		b.WriteString("\n")
		// Demote the standalone title to a section
		b.WriteString(strings.Replace(md, "# LLM Summary", "## LLM Summary", 1))
	}

	if r.includeFooter {
		b.WriteString("\n---\n\n")
		fmt.Fprintf(&b, "_Report %s generated %s from %s._\n",
			report.ID, report.GeneratedAt.Format("2006-01-02 15:04:05 MST"), report.Source)
	}
	return b.String()
}

// HTML renders the Markdown report as a standalone page
func (r *Renderer) HTML(report *model.Report) []byte {
	p := parser.NewWithExtensions(parser.CommonExtensions | parser.AutoHeadingIDs)
	doc := p.Parse([]byte(r.Markdown(report)))

	renderer := mdhtml.NewRenderer(mdhtml.RendererOptions{
		Flags: mdhtml.CommonFlags | mdhtml.CompletePage | mdhtml.HrefTargetBlank,
		Title: report.Thesis,
	})
	return markdown.Render(doc, renderer)
}

var markdownEscaper = strings.NewReplacer(
	`\`, `\\`, "*", `\*`, "_", `\_`, "`", "\\`", "[", `\[`, "]", `\]`, "<", "&lt;", ">", "&gt;",
)

func escapeMarkdown(s string) string {
	return markdownEscaper.Replace(s)
}

func escapeTable(s string) string {
	return strings.ReplaceAll(escapeMarkdown(s), "|", `\|`)
}
