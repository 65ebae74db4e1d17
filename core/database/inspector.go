package database

import (
	"fmt"
	"strings"

	"gorm.io/gorm"
)

// Column describes one column of an index table. Names and types are
// lower-cased so MySQL and SQLite tables compare equal.
type Column struct {
	Name       string
	Type       string
	PrimaryKey bool
}

// GetTableColumns lists the columns of table. An unknown table yields no
// columns on SQLite and an error on MySQL.
func GetTableColumns(db *gorm.DB, table string) ([]Column, error) {
	var (
		columns []Column
		err     error
	)
	if db.Dialector.Name() == "sqlite" {
		columns, err = sqliteColumns(db, table)
	} else {
		columns, err = mysqlColumns(db, table)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get columns for table %s: %w", table, err)
	}
	return columns, nil
}

// ColumnNames returns the set of column names of table.
func ColumnNames(db *gorm.DB, table string) (map[string]struct{}, error) {
	columns, err := GetTableColumns(db, table)
	if err != nil {
		return nil, err
	}
	names := make(map[string]struct{}, len(columns))
	for _, col := range columns {
		names[col.Name] = struct{}{}
	}
	return names, nil
}

func sqliteColumns(db *gorm.DB, table string) ([]Column, error) {
	type tableInfo struct {
		Name string
		Type string
		Pk   int
	}
	var rows []tableInfo
	if err := db.Raw(fmt.Sprintf("PRAGMA table_info('%s')", table)).Scan(&rows).Error; err != nil {
		return nil, err
	}
	columns := make([]Column, 0, len(rows))
	for _, r := range rows {
		columns = append(columns, Column{
			Name:       strings.ToLower(r.Name),
			Type:       strings.ToLower(r.Type),
			PrimaryKey: r.Pk > 0,
		})
	}
	return columns, nil
}

func mysqlColumns(db *gorm.DB, table string) ([]Column, error) {
	type showColumn struct {
		Field string
		Type  string
		Key   string
	}
	var rows []showColumn
	if err := db.Raw(fmt.Sprintf("SHOW COLUMNS FROM `%s`", table)).Scan(&rows).Error; err != nil {
		return nil, err
	}
	columns := make([]Column, 0, len(rows))
	for _, r := range rows {
		columns = append(columns, Column{
			Name:       strings.ToLower(r.Field),
			Type:       strings.ToLower(r.Type),
			PrimaryKey: r.Key == "PRI",
		})
	}
	return columns, nil
}
