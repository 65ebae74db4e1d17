package mediastore

import (
	"fmt"

	"media-manager/core/database"
	"media-manager/core/media"

	"gorm.io/gorm"
)

// RequiredColumns are the columns the gateway reads from the index.
var RequiredColumns = []string{"_id", "_data", "mime_type", "media_type", "datetaken", "date_added"}

// Migrate creates or updates the index table. An empty table means the
// default locator.
func Migrate(db *gorm.DB, table string) error {
	if err := db.Table(locator(table)).AutoMigrate(&media.Row{}); err != nil {
		return fmt.Errorf("failed to migrate media index %s: %w", locator(table), err)
	}
	return nil
}

// VerifySchema checks that table exposes every required column and returns
// the missing ones.
func VerifySchema(db *gorm.DB, table string) ([]string, error) {
	present, err := database.ColumnNames(db, locator(table))
	if err != nil {
		return nil, err
	}

	var missing []string
	for _, name := range RequiredColumns {
		if _, ok := present[name]; !ok {
			missing = append(missing, name)
		}
	}
	return missing, nil
}
