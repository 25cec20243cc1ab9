package schema

import (
	"encoding/json"
	"maps"
	"slices"
	"strings"
)

// TypeSet is a set of native type spellings, stored lowercase.
type TypeSet map[string]struct{}

// NewTypeSet builds a set from the given spellings.
func NewTypeSet(types ...string) TypeSet {
	s := make(TypeSet, len(types))
	for _, t := range types {
		s.Add(t)
	}
	return s
}

// Add inserts a spelling.
func (s TypeSet) Add(t string) {
	t = strings.ToLower(strings.TrimSpace(t))
	if t != "" {
		s[t] = struct{}{}
	}
}

// Contains reports whether the set holds the spelling (case-insensitive).
func (s TypeSet) Contains(t string) bool {
	_, ok := s[strings.ToLower(strings.TrimSpace(t))]
	return ok
}

// Intersects reports whether both sets share at least one spelling.
func (s TypeSet) Intersects(other TypeSet) bool {
	small, large := s, other
	if len(large) < len(small) {
		small, large = large, small
	}
	for t := range small {
		if _, ok := large[t]; ok {
			return true
		}
	}
	return false
}

// Sorted returns the spellings in lexical order.
func (s TypeSet) Sorted() []string {
	out := make([]string, 0, len(s))
	for t := range s {
		out = append(out, t)
	}
	slices.Sort(out)
	return out
}

// MarshalJSON encodes the set as a sorted array.
func (s TypeSet) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.Sorted())
}

// UnmarshalJSON decodes an array of spellings.
func (s *TypeSet) UnmarshalJSON(data []byte) error {
	var list []string
	if err := json.Unmarshal(data, &list); err != nil {
		return err
	}
	*s = NewTypeSet(list...)
	return nil
}

// PropAutoRandom marks a column whose values TiDB assigns with AUTO_RANDOM.
const PropAutoRandom = "is_auto_random"

// ColumnStructure describes one column or field.
type ColumnStructure struct {
	Name          string         `json:"name"`
	Type          string         `json:"type"`
	FullType      string         `json:"full_type,omitempty"`
	Nullable      bool           `json:"nullable"`
	Default       *string        `json:"default,omitempty"`
	AutoIncrement bool           `json:"auto_increment"`
	Length        *int           `json:"length,omitempty"`
	Precision     *int           `json:"precision,omitempty"`
	Scale         *int           `json:"scale,omitempty"`
	Comment       *string        `json:"comment,omitempty"`
	Position      int            `json:"position"`
	Properties    map[string]any `json:"properties,omitempty"`

	// TypeMappings lists, per foreign system, the native types this column is
	// compatible with.
	TypeMappings map[SystemTag]TypeSet `json:"type_mappings,omitempty"`
}

// MappingFor returns the compatible spellings declared for the given system.
func (c *ColumnStructure) MappingFor(tag SystemTag) (TypeSet, bool) {
	if c.TypeMappings == nil {
		return nil, false
	}
	set, ok := c.TypeMappings[tag]
	return set, ok && len(set) > 0
}

// AddTypeMapping records compatible spellings for a foreign system.
func (c *ColumnStructure) AddTypeMapping(tag SystemTag, types ...string) {
	if len(types) == 0 {
		return
	}
	if c.TypeMappings == nil {
		c.TypeMappings = make(map[SystemTag]TypeSet)
	}
	set, ok := c.TypeMappings[tag]
	if !ok {
		set = make(TypeSet)
		c.TypeMappings[tag] = set
	}
	for _, t := range types {
		set.Add(t)
	}
}

// SetProperty stores an extended attribute.
func (c *ColumnStructure) SetProperty(key string, value any) {
	if c.Properties == nil {
		c.Properties = make(map[string]any)
	}
	c.Properties[key] = value
}

// IndexColumn is one member of an index.
type IndexColumn struct {
	Name      string `json:"name"`
	Position  int    `json:"position"`
	Direction string `json:"direction,omitempty"`
}

// IndexStructure describes one index.
type IndexStructure struct {
	Name       string         `json:"name"`
	Type       string         `json:"type"`
	Primary    bool           `json:"primary"`
	Unique     bool           `json:"unique"`
	Columns    []IndexColumn  `json:"columns"`
	Properties map[string]any `json:"properties,omitempty"`
}

// ColumnNames returns the member column names in index order.
func (i *IndexStructure) ColumnNames() []string {
	cols := slices.Clone(i.Columns)
	slices.SortStableFunc(cols, func(a, b IndexColumn) int { return a.Position - b.Position })
	names := make([]string, len(cols))
	for n, c := range cols {
		names[n] = c.Name
	}
	return names
}

// SameColumns reports whether both indexes cover the same set of column
// names, ignoring order.
func (i *IndexStructure) SameColumns(other *IndexStructure) bool {
	a := columnSet(i.Columns)
	b := columnSet(other.Columns)
	if len(a) != len(b) {
		return false
	}
	for name := range a {
		if _, ok := b[name]; !ok {
			return false
		}
	}
	return true
}

func columnSet(cols []IndexColumn) map[string]struct{} {
	set := make(map[string]struct{}, len(cols))
	for _, c := range cols {
		set[c.Name] = struct{}{}
	}
	return set
}

// TableStructure describes one table, index or struct.
type TableStructure struct {
	Name       string             `json:"name"`
	System     SystemTag          `json:"system"`
	Comment    *string            `json:"comment,omitempty"`
	Columns    []*ColumnStructure `json:"columns"`
	Indexes    []*IndexStructure  `json:"indexes"`
	Properties map[string]any     `json:"properties,omitempty"`
}

// NewTable creates an empty structure for the given system.
func NewTable(name string, system SystemTag) *TableStructure {
	return &TableStructure{
		Name:       name,
		System:     system,
		Columns:    []*ColumnStructure{},
		Indexes:    []*IndexStructure{},
		Properties: map[string]any{},
	}
}

// AddColumn appends a column unless one with the same name exists already.
// It returns false when the column was dropped as a duplicate.
func (t *TableStructure) AddColumn(col *ColumnStructure) bool {
	if t.Column(col.Name) != nil {
		return false
	}
	if col.Position == 0 {
		col.Position = len(t.Columns) + 1
	}
	t.Columns = append(t.Columns, col)
	return true
}

// Column returns the first column with the given name, or nil.
func (t *TableStructure) Column(name string) *ColumnStructure {
	for _, c := range t.Columns {
		if c.Name == name {
			return c
		}
	}
	return nil
}

// ColumnMap indexes the columns by name. The first occurrence of a name wins.
func (t *TableStructure) ColumnMap() map[string]*ColumnStructure {
	m := make(map[string]*ColumnStructure, len(t.Columns))
	for _, c := range t.Columns {
		if _, dup := m[c.Name]; !dup {
			m[c.Name] = c
		}
	}
	return m
}

// AddIndex appends an index.
func (t *TableStructure) AddIndex(idx *IndexStructure) {
	t.Indexes = append(t.Indexes, idx)
}

// PrimaryIndex returns the primary index, or nil.
func (t *TableStructure) PrimaryIndex() *IndexStructure {
	for _, idx := range t.Indexes {
		if idx.Primary {
			return idx
		}
	}
	return nil
}

// SetProperty stores a table-level attribute.
func (t *TableStructure) SetProperty(key string, value any) {
	if t.Properties == nil {
		t.Properties = make(map[string]any)
	}
	t.Properties[key] = value
}

// Clone returns a deep copy. Property values are copied shallowly.
func (t *TableStructure) Clone() *TableStructure {
	out := *t
	out.Comment = clonePtr(t.Comment)
	out.Properties = maps.Clone(t.Properties)
	out.Columns = make([]*ColumnStructure, len(t.Columns))
	for i, col := range t.Columns {
		c := *col
		c.Default = clonePtr(col.Default)
		c.Length = clonePtr(col.Length)
		c.Precision = clonePtr(col.Precision)
		c.Scale = clonePtr(col.Scale)
		c.Comment = clonePtr(col.Comment)
		c.Properties = maps.Clone(col.Properties)
		if col.TypeMappings != nil {
			c.TypeMappings = make(map[SystemTag]TypeSet, len(col.TypeMappings))
			for tag, set := range col.TypeMappings {
				c.TypeMappings[tag] = maps.Clone(set)
			}
		}
		out.Columns[i] = &c
	}
	out.Indexes = make([]*IndexStructure, len(t.Indexes))
	for i, idx := range t.Indexes {
		x := *idx
		x.Columns = slices.Clone(idx.Columns)
		x.Properties = maps.Clone(idx.Properties)
		out.Indexes[i] = &x
	}
	return &out
}

func clonePtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

// Ptr returns a pointer to v. It is a convenience for optional fields.
func Ptr[T any](v T) *T {
	return &v
}
