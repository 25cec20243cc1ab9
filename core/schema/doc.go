// Package schema defines the structural metadata model shared by extractors,
// the comparison engine and the reporters.
//
// # Structures
//
// A TableStructure describes one table, search index or Go struct as seen by
// its originating system. It carries ordered ColumnStructure values, a list of
// IndexStructure values and a free-form property map for attributes that have
// no common representation across systems (TiDB sharding, Elasticsearch shard
// counts, ...).
//
// Each ColumnStructure carries a type-mapping table: for every other system it
// lists the native type spellings the column is known to be compatible with.
// Extractors fill this table from the static dictionaries in core/compare.
//
// # Results
//
// CompareResult is the output of a single comparison. It holds three
// difference lists (table, column, index), a count of differences per
// Severity and the weighted match percentage.
//
// # System tags
//
// SystemTag identifies where a structure came from. Tags are grouped in three
// families: relational (mysql, tidb, postgres, sqlserver, oracle, sqlite),
// document-search (elasticsearch) and language-native (gostruct).
package schema
