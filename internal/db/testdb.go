package db

import (
  "fmt"
  "sync/atomic"

  "gorm.io/driver/sqlite"
  "gorm.io/gorm"
  gormlogger "gorm.io/gorm/logger"
)

var testDBSeq atomic.Int64

// NewTestDB opens a private in-memory sqlite database with the full
// schema migrated, so repo and service tests run without a postgres.
// Each call gets its own database; the shared cache only spans the
// connection pool of one *gorm.DB.
func NewTestDB() (*gorm.DB, error) {
  name := fmt.Sprintf("file:testdb_%d?mode=memory&cache=shared", testDBSeq.Add(1))
  gdb, err := gorm.Open(sqlite.Open(name), &gorm.Config{
    Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
    TranslateError: true,
  })
  if err != nil {
    return nil, fmt.Errorf("failed to open sqlite test db: %w", err)
  }
  if err := gdb.AutoMigrate(AllModels()...); err != nil {
    return nil, fmt.Errorf("failed to migrate sqlite test db: %w", err)
  }
  return gdb, nil
}
