package todo

import (
	"bufio"
	"strings"

	"gopkg.in/yaml.v3"
)

// Frontmatter holds item fields parsed from a markdown document's YAML front
// matter. Missing or malformed front matter produces zero values.
type Frontmatter struct {
	Title    string `yaml:"title"`
	Schedule string `yaml:"schedule"`
	Date     string `yaml:"date"`
	RemindAt string `yaml:"remind_at"`
}

// ParseDocument splits a markdown document into its front matter and body.
// Front matter must be delimited by "---" on its own line at the start of the
// document. Without it the whole document is the body.
func ParseDocument(content string) (Frontmatter, string) {
	scanner := bufio.NewScanner(strings.NewReader(content))

	if !scanner.Scan() || strings.TrimSpace(scanner.Text()) != "---" {
		return Frontmatter{}, strings.TrimSpace(content)
	}

	var (
		header []string
		body   []string
		closed bool
	)
	for scanner.Scan() {
		line := scanner.Text()
		if !closed {
			if strings.TrimSpace(line) == "---" {
				closed = true
				continue
			}
			header = append(header, line)
			continue
		}
		body = append(body, line)
	}

	var fm Frontmatter
	if len(header) > 0 {
		_ = yaml.Unmarshal([]byte(strings.Join(header, "\n")), &fm)
	}

	return fm, strings.TrimSpace(strings.Join(body, "\n"))
}

// CreateInput converts a parsed document into item fields. A title in the
// front matter wins over the first markdown heading of the body.
func (fm Frontmatter) CreateInput(body string) CreateInput {
	title := fm.Title
	if title == "" {
		title, body = splitHeading(body)
	}
	return CreateInput{
		Title:    title,
		Details:  body,
		Schedule: Schedule{Choice: ScheduleChoice(fm.Schedule), Date: fm.Date},
	}
}

func splitHeading(body string) (string, string) {
	first, rest, _ := strings.Cut(body, "\n")
	if h, ok := strings.CutPrefix(strings.TrimSpace(first), "# "); ok {
		return strings.TrimSpace(h), strings.TrimSpace(rest)
	}
	return "", body
}
