package report

import (
	"fmt"
	"strings"

	"schema-compare/core/schema"

	"go.uber.org/zap"
)

// Verdict returns the one-line outcome of a result, e.g. "MATCHED (100%)".
func Verdict(r *schema.CompareResult) string {
	if r.FullyMatched {
		return "MATCHED (100%)"
	}
	return fmt.Sprintf("DIFFERENCES FOUND (%.2f%%)", r.MatchPercentage)
}

// Summary renders the text block logged for a result that has differences,
// listing the ignore rules the result was compared under.
func Summary(r *schema.CompareResult, verbose bool) string {
	var b strings.Builder

	fmt.Fprintf(&b, "\n=== Table Comparison: %s ===\n", r.TaskName)
	fmt.Fprintf(&b, "Source Table: %s\n", tableLabel(r.Source))
	fmt.Fprintf(&b, "Target Table: %s\n", tableLabel(r.Target))
	if len(r.IgnoredFields) > 0 {
		fmt.Fprintf(&b, "Ignored Fields: %s\n", strings.Join(r.IgnoredFields, ", "))
	}
	if len(r.IgnoredCategories) > 0 {
		fmt.Fprintf(&b, "Ignored Types: %s\n", strings.Join(r.IgnoredCategories, ", "))
	}

	if n := len(r.ColumnDifferences); n > 0 {
		fmt.Fprintf(&b, "\nColumn Differences (%d):\n", n)
		for _, d := range r.ColumnDifferences {
			level := "[" + d.Level.String() + "]"
			switch d.Kind {
			case schema.ColumnMissing:
				side := "target"
				if d.Source == nil {
					side = "source"
				}
				fmt.Fprintf(&b, "  %s Column missing in %s: %s\n", level, side, d.Column)
			default:
				writeProperties(&b, level, "Column", d.Column, d.Properties, verbose)
			}
		}
	}

	if n := len(r.IndexDifferences); n > 0 {
		fmt.Fprintf(&b, "\nIndex Differences (%d):\n", n)
		for _, d := range r.IndexDifferences {
			level := "[" + d.Level.String() + "]"
			switch d.Kind {
			case schema.IndexMissing:
				side := "target"
				if d.Source == nil {
					side = "source"
				}
				fmt.Fprintf(&b, "  %s Index missing in %s: %s\n", level, side, d.Index)
			default:
				writeProperties(&b, level, "Index", d.Index, d.Properties, verbose)
			}
		}
	}

	if n := len(r.TableDifferences); n > 0 {
		fmt.Fprintf(&b, "\nTable Property Differences (%d):\n", n)
		for _, d := range r.TableDifferences {
			fmt.Fprintf(&b, "  [%s] Property '%s': %s → %s\n", d.Level, d.Property, display(d.Source), display(d.Target))
		}
	}

	b.WriteString("\nComparison Result: ")
	if r.FullyMatched {
		b.WriteString("FULLY MATCHED (100%)")
	} else {
		fmt.Fprintf(&b, "DIFFERENCES FOUND (%.2f%%)", r.MatchPercentage)
		switch {
		case r.HasCritical():
			b.WriteString(" [CRITICAL DIFFERENCES]")
		case r.HasWarnings():
			b.WriteString(" [WARNINGS]")
		}
	}
	return b.String()
}

func writeProperties(b *strings.Builder, level, kind, name string, props []schema.PropertyDifference, verbose bool) {
	if !verbose || len(props) == 0 {
		fmt.Fprintf(b, "  %s %s '%s' has different properties\n", level, kind, name)
		return
	}
	fmt.Fprintf(b, "  %s %s '%s' differences:\n", level, kind, name)
	for _, p := range props {
		fmt.Fprintf(b, "    - %s: %s → %s\n", p.Property, display(p.Source), display(p.Target))
	}
}

// Log writes one line per result, the summary block of every result with
// differences, and a closing line naming the worst outcome.
func Log(logger *zap.Logger, results []*schema.CompareResult, verbose bool) {
	if len(results) == 0 {
		logger.Warn("No table structure comparison results")
		return
	}

	var critical, warnings bool
	for _, r := range results {
		logger.Info(fmt.Sprintf("Table comparison '%s': %s", r.TaskName, Verdict(r)),
			zap.String("task", r.TaskName),
			zap.String("run_id", r.RunID),
			zap.Float64("match_percentage", r.MatchPercentage),
		)
		if r.FullyMatched {
			continue
		}
		logger.Info(Summary(r, verbose))

		switch {
		case r.HasCritical():
			critical = true
		case r.HasWarnings():
			warnings = true
		}
	}

	switch {
	case critical:
		logger.Error("TABLE STRUCTURE COMPARISON FOUND CRITICAL DIFFERENCES!")
	case warnings:
		logger.Warn("Table structure comparison found warnings")
	default:
		logger.Info("Table structure comparison completed successfully")
	}
}

func tableLabel(t *schema.TableStructure) string {
	if t == nil {
		return "-"
	}
	return string(t.System) + "." + t.Name
}

func display(v any) string {
	switch x := v.(type) {
	case nil:
		return "null"
	case *string:
		if x == nil {
			return "null"
		}
		return *x
	case *int:
		if x == nil {
			return "null"
		}
		return fmt.Sprint(*x)
	default:
		return fmt.Sprint(x)
	}
}
