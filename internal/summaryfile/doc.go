// Package summaryfile reads and writes the on-disk summary document: YAML
// front matter for header metadata, markdown sections for content, and a
// version-log table. Documents live under a project's .chronicle directory
// with immutable per-version snapshots alongside.
package summaryfile

import (
	"fmt"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/ganot/chronicle/internal/domain/summary"
)

const (
	// MarkerDir is the per-project directory that marks a tracked project.
	MarkerDir = ".chronicle"
	// SummaryFile is the summary document file name inside MarkerDir.
	SummaryFile = "SUMMARY.md"
	// HistoryDir holds immutable snapshots inside MarkerDir.
	HistoryDir = "history"

	frontMatterDelimiter = "---"
	dateFormat           = "2006-01-02"

	sectionCurrentState = "Current State"
	sectionDecisions    = "Key Decisions"
	sectionNextSteps    = "Next Steps"
	sectionVersionLog   = "Version Log"
)

type frontMatter struct {
	Name        string `yaml:"name"`
	Version     int    `yaml:"version"`
	LastUpdated string `yaml:"last_updated"`
}

// Parse deserializes a raw summary document. Missing front matter, a
// non-positive version, or an absent Current State section make the
// document malformed.
func Parse(raw []byte) (*summary.Record, error) {
	s := string(raw)
	if !strings.HasPrefix(s, frontMatterDelimiter+"\n") {
		return nil, fmt.Errorf("missing front matter")
	}
	rest := s[len(frontMatterDelimiter)+1:]
	end := strings.Index(rest, "\n"+frontMatterDelimiter)
	if end == -1 {
		return nil, fmt.Errorf("unclosed front matter")
	}

	var meta frontMatter
	if err := yaml.Unmarshal([]byte(rest[:end]), &meta); err != nil {
		return nil, fmt.Errorf("front matter: %w", err)
	}
	if meta.Version < 1 {
		return nil, fmt.Errorf("missing or invalid version")
	}

	rec := &summary.Record{
		Name:    meta.Name,
		Version: meta.Version,
	}
	if meta.LastUpdated != "" {
		t, err := time.Parse(dateFormat, meta.LastUpdated)
		if err != nil {
			return nil, fmt.Errorf("last_updated: %w", err)
		}
		rec.LastUpdated = t
	}

	body := rest[end+len("\n"+frontMatterDelimiter):]
	if err := parseSections(body, rec); err != nil {
		return nil, err
	}
	return rec, nil
}

var knownSections = map[string]bool{
	sectionCurrentState: true,
	sectionDecisions:    true,
	sectionNextSteps:    true,
	sectionVersionLog:   true,
}

// parseSections splits the body on the known section headings. Any other
// "## " line is user content and stays in the section it appears in, so
// hand-added headings survive the load/persist round trip instead of
// truncating the document.
func parseSections(body string, rec *summary.Record) error {
	sections := make(map[string][]string)
	seen := make(map[string]bool)
	var current string
	for _, line := range strings.Split(body, "\n") {
		if heading, ok := strings.CutPrefix(line, "## "); ok {
			name := strings.TrimSpace(heading)
			if knownSections[name] {
				current = name
				seen[name] = true
				continue
			}
		}
		if current != "" {
			sections[current] = append(sections[current], line)
		}
	}

	if !seen[sectionCurrentState] {
		return fmt.Errorf("missing %s section", sectionCurrentState)
	}
	rec.CurrentState = strings.TrimSpace(strings.Join(sections[sectionCurrentState], "\n"))

	rec.Decisions = parseItems(sections[sectionDecisions])
	rec.NextSteps = parseItems(sections[sectionNextSteps])

	log, err := parseVersionLog(sections[sectionVersionLog])
	if err != nil {
		return err
	}
	rec.VersionLog = log
	return nil
}

func parseItems(lines []string) []string {
	var items []string
	for _, line := range lines {
		if item, ok := strings.CutPrefix(strings.TrimSpace(line), "- "); ok {
			items = append(items, item)
		}
	}
	return items
}

func parseVersionLog(lines []string) ([]summary.LogEntry, error) {
	var entries []summary.LogEntry
	for _, line := range lines {
		row := strings.TrimSpace(line)
		if !strings.HasPrefix(row, "|") {
			continue
		}
		cells := splitRow(row)
		if len(cells) != 3 {
			continue
		}
		// Skip the header and separator rows.
		if cells[0] == "Version" || strings.HasPrefix(cells[0], "---") {
			continue
		}
		var version int
		if _, err := fmt.Sscanf(cells[0], "%d", &version); err != nil {
			return nil, fmt.Errorf("version log row %q: %w", row, err)
		}
		date, err := time.Parse(dateFormat, cells[1])
		if err != nil {
			return nil, fmt.Errorf("version log row %q: %w", row, err)
		}
		entries = append(entries, summary.LogEntry{
			Version: version,
			Date:    date,
			Summary: cells[2],
		})
	}
	return entries, nil
}

// splitRow splits a markdown table row into exactly three cells; pipes in
// the summary cell are preserved.
func splitRow(row string) []string {
	row = strings.TrimPrefix(row, "|")
	row = strings.TrimSuffix(row, "|")
	parts := strings.SplitN(row, "|", 3)
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts
}

// Render serializes a record back to its on-disk byte representation.
func Render(rec *summary.Record) ([]byte, error) {
	meta := frontMatter{
		Name:    rec.Name,
		Version: rec.Version,
	}
	if !rec.LastUpdated.IsZero() {
		meta.LastUpdated = rec.LastUpdated.Format(dateFormat)
	}
	metaBytes, err := yaml.Marshal(&meta)
	if err != nil {
		return nil, fmt.Errorf("front matter: %w", err)
	}

	var sb strings.Builder
	sb.WriteString(frontMatterDelimiter + "\n")
	sb.Write(metaBytes)
	sb.WriteString(frontMatterDelimiter + "\n")

	writeSection(&sb, sectionCurrentState)
	if rec.CurrentState != "" {
		sb.WriteString(rec.CurrentState + "\n")
	}

	writeSection(&sb, sectionDecisions)
	writeItems(&sb, rec.Decisions)

	writeSection(&sb, sectionNextSteps)
	writeItems(&sb, rec.NextSteps)

	writeSection(&sb, sectionVersionLog)
	sb.WriteString("| Version | Date | Summary |\n")
	sb.WriteString("|---------|------|---------|\n")
	for _, e := range rec.VersionLog {
		fmt.Fprintf(&sb, "| %d | %s | %s |\n", e.Version, e.Date.Format(dateFormat), oneLine(e.Summary))
	}

	return []byte(sb.String()), nil
}

func writeSection(sb *strings.Builder, name string) {
	sb.WriteString("\n## " + name + "\n\n")
}

func writeItems(sb *strings.Builder, items []string) {
	for _, item := range items {
		sb.WriteString("- " + oneLine(item) + "\n")
	}
}

func oneLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
