// Package database handles connections to the media index and schema inspection.
//
// It wraps GORM so the index can be served from MySQL (a shared device-wide
// index) or from a local SQLite file (single host deployments and tests).
//
// # Connect
//
// Connect picks the dialector from Config.Driver. SQLite connections are
// limited to a single open connection so that ":memory:" databases are shared
// by every query issued through the pool.
//
// # Schema Inspection
//
// GetTableColumns lists the columns of a table for both dialects, with names
// and types lower-cased. ColumnNames reduces that to a set, which is what the
// media gateway checks an externally managed index against.
//
// # Usage
//
//	db, err := database.Connect(cfg.Database)
//	if err != nil {
//	    log.Fatal("Database connection failed", err)
//	}
//
//	columns, err := database.GetTableColumns(db, "files")
package database
