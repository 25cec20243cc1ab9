package schema

import "strings"

// SystemTag identifies the system a structure was extracted from.
type SystemTag string

const (
	SystemMySQL         SystemTag = "mysql"
	SystemTiDB          SystemTag = "tidb"
	SystemPostgres      SystemTag = "postgres"
	SystemSQLServer     SystemTag = "sqlserver"
	SystemOracle        SystemTag = "oracle"
	SystemSQLite        SystemTag = "sqlite"
	SystemElasticsearch SystemTag = "elasticsearch"
	SystemGoStruct      SystemTag = "gostruct"
)

var systemAliases = map[string]SystemTag{
	"mysql":         SystemMySQL,
	"mariadb":       SystemMySQL,
	"tidb":          SystemTiDB,
	"postgres":      SystemPostgres,
	"postgresql":    SystemPostgres,
	"pg":            SystemPostgres,
	"sqlserver":     SystemSQLServer,
	"mssql":         SystemSQLServer,
	"oracle":        SystemOracle,
	"sqlite":        SystemSQLite,
	"sqlite3":       SystemSQLite,
	"elasticsearch": SystemElasticsearch,
	"es":            SystemElasticsearch,
	"gostruct":      SystemGoStruct,
	"struct":        SystemGoStruct,
	"go":            SystemGoStruct,
}

// ParseSystemTag resolves a tag or one of its aliases. The second return
// value is false for unknown names.
func ParseSystemTag(name string) (SystemTag, bool) {
	tag, ok := systemAliases[strings.ToLower(strings.TrimSpace(name))]
	return tag, ok
}

// IsRelational reports whether the tag belongs to the relational family.
func (t SystemTag) IsRelational() bool {
	switch t {
	case SystemMySQL, SystemTiDB, SystemPostgres, SystemSQLServer, SystemOracle, SystemSQLite:
		return true
	default:
		return false
	}
}

// IsMySQLFamily reports whether the tag speaks the MySQL wire protocol.
func (t SystemTag) IsMySQLFamily() bool {
	return t == SystemMySQL || t == SystemTiDB
}

// IsDocumentSearch reports whether the tag is a search engine.
func (t SystemTag) IsDocumentSearch() bool {
	return t == SystemElasticsearch
}

// IsLanguageNative reports whether the tag describes in-process type definitions.
func (t SystemTag) IsLanguageNative() bool {
	return t == SystemGoStruct
}

// IsSparse reports whether the system carries only field-level metadata
// (no constraints, defaults or secondary indexes worth comparing).
func (t SystemTag) IsSparse() bool {
	return t.IsDocumentSearch() || t.IsLanguageNative()
}

func (t SystemTag) String() string {
	return string(t)
}
