// Package extract reads table structures out of the systems being compared.
//
// Every source implements Extractor and is bound to a data source kind in a
// Registry. The registry fills each column's cross-system type mappings
// after extraction, so the comparison engine never sees a raw structure.
//
// # Sources
//
//   - mysql, tidb, sqlite: GORM catalog queries (information_schema, PRAGMA).
//   - postgres, sqlserver, oracle: database/sql catalog queries.
//   - elasticsearch: index settings and top-level mapping fields.
//   - gostruct: registered Go struct types, reflected once per type.
//   - mysql_ddl: CREATE TABLE statements from a file or a storage object.
//
// Relational sources share CatalogExtractor, which turns catalog rows into
// columns and indexes. TiDB adds a Decorate hook for its clustering and
// AUTO_RANDOM attributes.
//
// Cache wraps any Extractor with a TTL and collapses concurrent extractions
// of the same table.
package extract
