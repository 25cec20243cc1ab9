package compare

import (
	"fmt"
	"slices"
	"strings"
)

// Category names a class of checks that a task can switch off.
type Category string

const (
	CategoryIndex         Category = "INDEX"
	CategoryIndexDetail   Category = "INDEX_DETAIL"
	CategoryComment       Category = "COMMENT"
	CategoryDefault       Category = "DEFAULT"
	CategoryNullable      Category = "NULLABLE"
	CategoryAutoIncrement Category = "AUTO_INCREMENT"
	CategoryLength        Category = "LENGTH"
	CategoryPrecision     Category = "PRECISION"
	CategoryScale         Category = "SCALE"
	CategoryUnique        Category = "UNIQUE"
	CategoryIndexType     Category = "INDEX_TYPE"
)

var knownCategories = []Category{
	CategoryIndex, CategoryIndexDetail, CategoryComment, CategoryDefault, CategoryNullable,
	CategoryAutoIncrement, CategoryLength, CategoryPrecision, CategoryScale, CategoryUnique, CategoryIndexType,
}

// ParseCategory resolves a category name (case-insensitive, '-' accepted for '_').
func ParseCategory(name string) (Category, error) {
	c := Category(strings.ReplaceAll(strings.ToUpper(strings.TrimSpace(name)), "-", "_"))
	if slices.Contains(knownCategories, c) {
		return c, nil
	}
	return "", fmt.Errorf("unknown ignore category %q", name)
}

// Categories returns every category the classifier understands.
func Categories() []Category {
	return slices.Clone(knownCategories)
}

// TaskConfig carries the per-comparison ignore rules.
type TaskConfig struct {
	Name              string     `json:"name" yaml:"name"`
	IgnoredFields     []string   `json:"ignored_fields,omitempty" yaml:"ignored_fields"`
	IgnoredCategories []Category `json:"ignored_categories,omitempty" yaml:"ignored_categories"`
}

// IsFieldIgnored reports whether a column name is excluded from comparison.
func (t *TaskConfig) IsFieldIgnored(name string) bool {
	return t != nil && slices.Contains(t.IgnoredFields, name)
}

// IsIgnored reports whether a category of checks is switched off.
func (t *TaskConfig) IsIgnored(c Category) bool {
	return t != nil && slices.Contains(t.IgnoredCategories, c)
}

// ignoresKey reports whether an extended-property key names an ignored category.
func (t *TaskConfig) ignoresKey(key string) bool {
	return t.IsIgnored(Category(strings.ToUpper(key)))
}

// TableRef points at one table of a named data source.
type TableRef struct {
	Source string `json:"source"`
	Table  string `json:"table"`
}

func (r TableRef) String() string {
	return r.Source + "." + r.Table
}

// Task is a configured comparison between two tables.
type Task struct {
	TaskConfig
	Source TableRef `json:"source"`
	Target TableRef `json:"target"`
}
