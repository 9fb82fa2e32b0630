package database

import "gorm.io/gorm"

// RunMigrations applies AutoMigrate for the given models. Intended for
// development; production schema changes go through reviewed migrations.
func RunMigrations(db *gorm.DB, models ...interface{}) error {
	return db.AutoMigrate(models...)
}
