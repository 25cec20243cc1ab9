package schema

import (
	"fmt"
	"strings"
	"time"
)

// Severity ranks a difference by operational risk.
type Severity int

const (
	Acceptable Severity = iota
	Notice
	Warning
	Critical
)

var severityNames = map[Severity]string{
	Acceptable: "ACCEPTABLE",
	Notice:     "NOTICE",
	Warning:    "WARNING",
	Critical:   "CRITICAL",
}

func (s Severity) String() string {
	if name, ok := severityNames[s]; ok {
		return name
	}
	return fmt.Sprintf("SEVERITY(%d)", int(s))
}

// ParseSeverity resolves a severity name (case-insensitive).
func ParseSeverity(name string) (Severity, error) {
	upper := strings.ToUpper(strings.TrimSpace(name))
	for s, n := range severityNames {
		if n == upper {
			return s, nil
		}
	}
	return Acceptable, fmt.Errorf("unknown severity %q", name)
}

// MarshalText encodes the severity by name, which also makes it usable as a JSON map key.
func (s Severity) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText decodes a severity name.
func (s *Severity) UnmarshalText(text []byte) error {
	parsed, err := ParseSeverity(string(text))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// Severities lists all levels from most to least severe.
func Severities() []Severity {
	return []Severity{Critical, Warning, Notice, Acceptable}
}

// DifferenceType classifies what kind of divergence was found.
type DifferenceType string

const (
	ColumnMissing           DifferenceType = "COLUMN_MISSING"
	ColumnTypeDifferent     DifferenceType = "COLUMN_TYPE_DIFFERENT"
	ColumnPropertyDifferent DifferenceType = "COLUMN_PROPERTY_DIFFERENT"
	IndexMissing            DifferenceType = "INDEX_MISSING"
	IndexStructureDifferent DifferenceType = "INDEX_STRUCTURE_DIFFERENT"
	TablePropertyDifferent  DifferenceType = "TABLE_PROPERTY_DIFFERENT"
)

// PropertyDifference is a single attribute that differs on an otherwise matched column or index.
type PropertyDifference struct {
	Property string   `json:"property"`
	Source   any      `json:"source"`
	Target   any      `json:"target"`
	Level    Severity `json:"level"`
}

// TableDifference is a divergence on a table-level attribute.
type TableDifference struct {
	Property    string         `json:"property"`
	Kind        DifferenceType `json:"kind"`
	Source      any            `json:"source"`
	Target      any            `json:"target"`
	Description string         `json:"description"`
	Level       Severity       `json:"level"`
}

// ColumnDifference is a divergence on one column.
type ColumnDifference struct {
	Column      string               `json:"column"`
	Kind        DifferenceType       `json:"kind"`
	Source      *ColumnStructure     `json:"source,omitempty"`
	Target      *ColumnStructure     `json:"target,omitempty"`
	Description string               `json:"description"`
	Level       Severity             `json:"level"`
	Properties  []PropertyDifference `json:"properties,omitempty"`
}

// IndexDifference is a divergence on one index.
type IndexDifference struct {
	Index       string               `json:"index"`
	Kind        DifferenceType       `json:"kind"`
	Source      *IndexStructure      `json:"source,omitempty"`
	Target      *IndexStructure      `json:"target,omitempty"`
	Description string               `json:"description"`
	Level       Severity             `json:"level"`
	Properties  []PropertyDifference `json:"properties,omitempty"`
}

// CompareResult is the outcome of comparing two structures.
type CompareResult struct {
	RunID      string    `json:"run_id,omitempty"`
	TaskName   string    `json:"task_name"`
	ComparedAt time.Time `json:"compared_at"`

	Source *TableStructure `json:"source"`
	Target *TableStructure `json:"target"`

	IgnoredFields     []string `json:"ignored_fields,omitempty"`
	IgnoredCategories []string `json:"ignored_categories,omitempty"`

	TableDifferences  []TableDifference  `json:"table_differences"`
	ColumnDifferences []ColumnDifference `json:"column_differences"`
	IndexDifferences  []IndexDifference  `json:"index_differences"`

	SeverityCounts  map[Severity]int `json:"severity_counts"`
	MatchPercentage float64          `json:"match_percentage"`
	FullyMatched    bool             `json:"fully_matched"`
}

// NewCompareResult returns an empty result for the given pair.
func NewCompareResult(taskName string, source, target *TableStructure) *CompareResult {
	counts := make(map[Severity]int, 4)
	for _, s := range Severities() {
		counts[s] = 0
	}
	return &CompareResult{
		TaskName:          taskName,
		Source:            source,
		Target:            target,
		TableDifferences:  []TableDifference{},
		ColumnDifferences: []ColumnDifference{},
		IndexDifferences:  []IndexDifference{},
		SeverityCounts:    counts,
	}
}

// Count increments the counter for a severity.
func (r *CompareResult) Count(level Severity) {
	if r.SeverityCounts == nil {
		r.SeverityCounts = make(map[Severity]int)
	}
	r.SeverityCounts[level]++
}

// HasDifferences reports whether any difference was recorded.
func (r *CompareResult) HasDifferences() bool {
	return len(r.TableDifferences)+len(r.ColumnDifferences)+len(r.IndexDifferences) > 0
}

// HasCritical reports whether at least one CRITICAL difference was found.
func (r *CompareResult) HasCritical() bool {
	return r.SeverityCounts[Critical] > 0
}

// HasWarnings reports whether at least one WARNING difference was found.
func (r *CompareResult) HasWarnings() bool {
	return r.SeverityCounts[Warning] > 0
}

// HighestSeverity returns the most severe level present, and false when the
// result holds no counted difference.
func (r *CompareResult) HighestSeverity() (Severity, bool) {
	for _, s := range Severities() {
		if r.SeverityCounts[s] > 0 {
			return s, true
		}
	}
	return Acceptable, false
}
