package report

import (
	"bytes"
	"fmt"
	"html/template"
	"sort"
	"strings"
	"time"

	"covidash/domain/core"
	"covidash/domain/dataset"
	"covidash/internal/charts"

	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Title heads every report
const Title = "COVID-19 Dashboard Insights"

// Report collects dataset status and chart insights at one point in time
type Report struct {
	GeneratedAt time.Time
	Datasets    []dataset.Summary
	Charts      []*charts.Chart
	Failures    map[core.ChartID]error
}

// Renderer turns reports into Markdown or HTML. Printers and casers are
// stateful, so each render builds its own.
type Renderer struct {
	tag language.Tag
}

// NewRenderer creates a renderer formatting numbers for the given locale
func NewRenderer(tag language.Tag) *Renderer {
	return &Renderer{tag: tag}
}

// Markdown renders the report as a Markdown document
func (r *Renderer) Markdown(rep *Report) string {
	printer := message.NewPrinter(r.tag)
	title := cases.Title(r.tag)

	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", Title)
	fmt.Fprintf(&b, "_Generated %s_\n\n", core.NewTimestamp(rep.GeneratedAt))

	b.WriteString("## Datasets\n\n")
	b.WriteString("| Dataset | Status | Records | Read | Dropped | Imputed |\n")
	b.WriteString("|---|---|---:|---:|---:|---:|\n")
	for _, s := range rep.Datasets {
		status := string(s.Status)
		if s.Error != "" {
			status += " (" + escapeCell(s.Error) + ")"
		}
		b.WriteString(printer.Sprintf("| %s | %s | %d | %d | %d | %d |\n",
			s.Name, status, s.Records, s.Stats.RowsRead, s.Stats.RowsDropped, s.Stats.RowsImputed))
	}
	b.WriteString("\n")

	var current core.DatasetName
	for _, c := range rep.Charts {
		if c.Dataset != current {
			current = c.Dataset
			fmt.Fprintf(&b, "## %s\n\n", title.String(string(current)))
		}
		fmt.Fprintf(&b, "### %s\n\n", c.Title)
		if c.Insight == "" {
			b.WriteString("No insight available for the current data.\n\n")
			continue
		}
		fmt.Fprintf(&b, "%s\n\n", groupNumbers(printer, c.Insight))
	}

	if len(rep.Failures) > 0 {
		b.WriteString("## Unavailable charts\n\n")
		ids := make([]string, 0, len(rep.Failures))
		for id := range rep.Failures {
			ids = append(ids, string(id))
		}
		sort.Strings(ids)
		for _, id := range ids {
			fmt.Fprintf(&b, "- `%s`: %v\n", id, rep.Failures[core.ChartID(id)])
		}
	}
	return b.String()
}

// HTML renders the report as a standalone HTML page
func (r *Renderer) HTML(rep *Report) ([]byte, error) {
	p := parser.NewWithExtensions(parser.CommonExtensions | parser.AutoHeadingIDs)
	renderer := html.NewRenderer(html.RendererOptions{Flags: html.CommonFlags | html.HrefTargetBlank})
	body := markdown.ToHTML([]byte(r.Markdown(rep)), p, renderer)

	var buf bytes.Buffer
	err := pageTemplate.Execute(&buf, struct {
		Title string
		Body  template.HTML
	}{Title, template.HTML(body)})
	if err != nil {
		return nil, fmt.Errorf("rendering report page: %w", err)
	}
	return buf.Bytes(), nil
}

// groupNumbers regroups long integer runs in an insight using the locale's
// digit grouping
func groupNumbers(printer *message.Printer, text string) string {
	fields := strings.Fields(text)
	for i, f := range fields {
		digits := strings.TrimRight(f, ".,)%")
		suffix := f[len(digits):]
		prefix := ""
		if strings.HasPrefix(digits, "(") {
			prefix, digits = "(", digits[1:]
		}
		if len(digits) < 5 || !allDigits(digits) {
			continue
		}
		var n int64
		if _, err := fmt.Sscan(digits, &n); err != nil {
			continue
		}
		fields[i] = prefix + printer.Sprintf("%d", n) + suffix
	}
	return strings.Join(fields, " ")
}

func allDigits(s string) bool {
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}

func escapeCell(s string) string {
	return strings.ReplaceAll(s, "|", "\\|")
}

var pageTemplate = template.Must(template.New("report").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
</head>
<body>
{{.Body}}
</body>
</html>
`))
