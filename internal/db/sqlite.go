package db

import (
  "fmt"
  "gorm.io/driver/sqlite"
  "gorm.io/gorm"
  "gorm.io/gorm/logger"
)

// OpenSQLite opens a sqlite database at path ("file::memory:?cache=shared"
// style DSNs work too) and migrates the full schema. Tests use this to run
// the real repos and services without a Postgres.
func OpenSQLite(path string) (*gorm.DB, error) {
  gormDB, err := gorm.Open(sqlite.Open(path), &gorm.Config{
    Logger: logger.Default.LogMode(logger.Silent),
  })
  if err != nil {
    return nil, fmt.Errorf("Failed to open sqlite at %s: %w", path, err)
  }
  if err := AutoMigrate(gormDB); err != nil {
    return nil, fmt.Errorf("Failed to migrate sqlite schema: %w", err)
  }
  return gormDB, nil
}
