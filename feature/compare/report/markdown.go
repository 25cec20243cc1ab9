package report

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"schema-compare/core/schema"
)

// Markdown renders results as a markdown document: an overview table followed
// by one section per result.
func Markdown(results []*schema.CompareResult, generatedAt time.Time) []byte {
	var b strings.Builder

	b.WriteString("# Table Structure Comparison\n\n")
	fmt.Fprintf(&b, "Generated at %s.\n\n", generatedAt.UTC().Format(time.RFC3339))

	if len(results) == 0 {
		b.WriteString("No comparison results.\n")
		return []byte(b.String())
	}

	b.WriteString("| Task | Source | Target | Result | Critical | Warning | Notice | Acceptable |\n")
	b.WriteString("|---|---|---|---|---|---|---|---|\n")
	for _, r := range results {
		fmt.Fprintf(&b, "| %s | %s | %s | %s | %d | %d | %d | %d |\n",
			cell(r.TaskName), cell(tableLabel(r.Source)), cell(tableLabel(r.Target)), Verdict(r),
			r.SeverityCounts[schema.Critical], r.SeverityCounts[schema.Warning],
			r.SeverityCounts[schema.Notice], r.SeverityCounts[schema.Acceptable])
	}

	for _, r := range results {
		fmt.Fprintf(&b, "\n## %s\n\n", r.TaskName)
		fmt.Fprintf(&b, "- Source: `%s`\n", tableLabel(r.Source))
		fmt.Fprintf(&b, "- Target: `%s`\n", tableLabel(r.Target))
		if r.RunID != "" {
			fmt.Fprintf(&b, "- Run: `%s`\n", r.RunID)
		}
		fmt.Fprintf(&b, "- Result: **%s**\n", Verdict(r))

		if !r.HasDifferences() {
			continue
		}

		if len(r.TableDifferences) > 0 {
			b.WriteString("\n### Table properties\n\n| Level | Property | Source | Target |\n|---|---|---|---|\n")
			for _, d := range r.TableDifferences {
				fmt.Fprintf(&b, "| %s | %s | %s | %s |\n", d.Level, cell(d.Property), cell(display(d.Source)), cell(display(d.Target)))
			}
		}
		if len(r.ColumnDifferences) > 0 {
			b.WriteString("\n### Columns\n\n| Level | Column | Kind | Details |\n|---|---|---|---|\n")
			for _, d := range r.ColumnDifferences {
				fmt.Fprintf(&b, "| %s | %s | %s | %s |\n", d.Level, cell(d.Column), d.Kind, cell(details(d.Description, d.Properties)))
			}
		}
		if len(r.IndexDifferences) > 0 {
			b.WriteString("\n### Indexes\n\n| Level | Index | Kind | Details |\n|---|---|---|---|\n")
			for _, d := range r.IndexDifferences {
				fmt.Fprintf(&b, "| %s | %s | %s | %s |\n", d.Level, cell(d.Index), d.Kind, cell(details(d.Description, d.Properties)))
			}
		}
	}
	return []byte(b.String())
}

// WriteMarkdownFile renders results to path, creating parent directories.
func WriteMarkdownFile(path string, results []*schema.CompareResult, generatedAt time.Time) ([]byte, error) {
	data := Markdown(results, generatedAt)
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create report directory: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return nil, fmt.Errorf("write report %s: %w", path, err)
	}
	return data, nil
}

func details(description string, props []schema.PropertyDifference) string {
	if len(props) == 0 {
		return description
	}
	parts := make([]string, len(props))
	for i, p := range props {
		parts[i] = fmt.Sprintf("%s: %s → %s", p.Property, display(p.Source), display(p.Target))
	}
	return strings.Join(parts, "; ")
}

// cell escapes a value for a markdown table cell.
func cell(s string) string {
	s = strings.ReplaceAll(s, "|", `\|`)
	return strings.ReplaceAll(s, "\n", " ")
}
