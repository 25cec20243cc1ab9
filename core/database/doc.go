// Package database handles database connections and catalog inspection.
//
// Two connection paths exist side by side:
//
//   - Connect opens a GORM connection for the MySQL family (MySQL, TiDB) and
//     SQLite. Catalog queries on these go through GORM's Raw/Scan, which keeps
//     them testable with go-sqlmock.
//   - OpenSQL opens a plain database/sql pool for PostgreSQL (lib/pq),
//     SQL Server (go-mssqldb) and Oracle (go-ora).
//
// # Catalog Inspection
//
// GetTableColumns, GetTableIndexes and GetTableInfo read information_schema
// on MySQL and TiDB and the PRAGMA interface on SQLite. They return raw
// catalog rows; turning those into schema structures is the extractor's job.
//
// # Usage
//
//	db, err := database.Connect(cfg.Database)
//	if err != nil {
//	    log.Fatal("Database connection failed", err)
//	}
//
//	columns, err := database.GetTableColumns(db, "users")
package database
