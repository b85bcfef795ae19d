package rendering

import (
	_ "embed"
	"fmt"
	"os"
	"strings"
	"text/template"

	"github.com/jonathan/resume-optimizer/internal/types"
)

//go:embed template.tex
var defaultTemplate string

// TemplateData represents the data structure passed to the LaTeX template
type TemplateData struct {
	Name     string
	Email    string
	Phone    string
	Sections []SectionBlock
}

// SectionBlock is one rendered resume section. Body is already valid LaTeX;
// the template inserts it verbatim.
type SectionBlock struct {
	Title string
	Body  string
}

// RenderLaTeX renders a resume record to LaTeX source. An empty templatePath
// selects the embedded default template. Sections with no content are omitted
// from the document.
func RenderLaTeX(record *types.ResumeRecord, templatePath string) (string, error) {
	tmpl, err := parseTemplate(templatePath)
	if err != nil {
		return "", err
	}

	data := buildTemplateData(record)

	var result strings.Builder
	if err := tmpl.Execute(&result, data); err != nil {
		return "", &TemplateError{
			Message: "failed to execute template",
			Cause:   err,
		}
	}

	return result.String(), nil
}

// parseTemplate loads the LaTeX template, falling back to the embedded default.
func parseTemplate(templatePath string) (*template.Template, error) {
	content := defaultTemplate
	if templatePath != "" {
		raw, err := os.ReadFile(templatePath)
		if err != nil {
			return nil, &TemplateError{
				Message: fmt.Sprintf("failed to read template file: %s", templatePath),
				Cause:   err,
			}
		}
		content = string(raw)
	}

	tmpl, err := template.New("resume").Funcs(template.FuncMap{
		"escape": EscapeLaTeX,
	}).Parse(content)
	if err != nil {
		return nil, &TemplateError{
			Message: "failed to parse template",
			Cause:   err,
		}
	}

	return tmpl, nil
}

// buildTemplateData converts the record into renderable section blocks in
// canonical section order.
func buildTemplateData(record *types.ResumeRecord) *TemplateData {
	data := &TemplateData{
		Name:  EscapeLaTeX(record.Name),
		Email: EscapeLaTeX(record.Email),
		Phone: EscapeLaTeX(record.Phone),
	}

	for _, name := range types.SectionNames() {
		content := strings.TrimSpace(record.Section(name))
		if content == "" {
			continue
		}

		var body string
		switch name {
		case types.SectionSummary:
			body = EscapeLaTeX(content)
		case types.SectionSkills:
			body = FormatSkills(content)
		default:
			body = FormatBullets(content)
		}

		data.Sections = append(data.Sections, SectionBlock{
			Title: sectionTitle(name),
			Body:  body,
		})
	}

	return data
}

// sectionTitle renders a section key as a document heading.
func sectionTitle(name string) string {
	words := strings.Split(name, "_")
	for i, word := range words {
		if word != "" {
			words[i] = strings.ToUpper(word[:1]) + word[1:]
		}
	}
	return strings.Join(words, " ")
}

// FormatSkills formats the skills section as a bulleted list. Lines in the
// form "Category: item, item" get a bold category label.
func FormatSkills(text string) string {
	var items []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if category, rest, found := strings.Cut(line, ":"); found {
			items = append(items, fmt.Sprintf(`\item \textbf{%s:} %s`,
				EscapeLaTeX(strings.TrimSpace(category)), EscapeLaTeX(strings.TrimSpace(rest))))
		} else {
			items = append(items, `\item `+EscapeLaTeX(line))
		}
	}
	if len(items) == 0 {
		return ""
	}
	return "\\begin{itemize}\n" + strings.Join(items, "\n") + "\n\\end{itemize}"
}

// FormatBullets renders free-form section text as one bullet per non-empty line.
func FormatBullets(text string) string {
	var items []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		items = append(items, `\item `+EscapeLaTeX(line))
	}
	if len(items) == 0 {
		return ""
	}
	return "\\begin{itemize}\n" + strings.Join(items, "\n") + "\n\\end{itemize}"
}
