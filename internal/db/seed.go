package db

import (
  "fmt"
  "os"
  "time"

  "github.com/google/uuid"
  "gopkg.in/yaml.v3"
  "gorm.io/gorm"
  "gorm.io/gorm/clause"

  "github.com/anchorhealth/anchor-backend/internal/logger"
  "github.com/anchorhealth/anchor-backend/internal/types"
)

type catalogFile struct {
  Addictions []catalogEntry `yaml:"addictions"`
}

type catalogEntry struct {
  Slug        string `yaml:"slug"`
  Name        string `yaml:"name"`
  Icon        string `yaml:"icon"`
  Description string `yaml:"description"`
  Active      *bool  `yaml:"active"`
}

// SeedAddictionCatalog upserts the addiction catalog from a YAML file.
// Existing rows are matched by slug so ids stay stable across restarts.
func SeedAddictionCatalog(gdb *gorm.DB, log *logger.Logger, path string) error {
  seedLog := log.With("component", "AddictionCatalogSeed")

  raw, err := os.ReadFile(path)
  if err != nil {
    return fmt.Errorf("failed to read addiction catalog %s: %w", path, err)
  }
  var catalog catalogFile
  if err := yaml.Unmarshal(raw, &catalog); err != nil {
    return fmt.Errorf("failed to parse addiction catalog %s: %w", path, err)
  }
  if len(catalog.Addictions) == 0 {
    return fmt.Errorf("addiction catalog %s is empty", path)
  }

  rows := make([]*types.Addiction, 0, len(catalog.Addictions))
  for _, entry := range catalog.Addictions {
    if entry.Slug == "" || entry.Name == "" {
      return fmt.Errorf("addiction catalog entry missing slug or name")
    }
    active := true
    if entry.Active != nil {
      active = *entry.Active
    }
    rows = append(rows, &types.Addiction{
      ID:          uuid.New(),
      Slug:        entry.Slug,
      Name:        entry.Name,
      Icon:        entry.Icon,
      Description: entry.Description,
      Active:      active,
      CreatedAt:   time.Now(),
      UpdatedAt:   time.Now(),
    })
  }

  if err := gdb.Clauses(clause.OnConflict{
    Columns:   []clause.Column{{Name: "slug"}},
    DoUpdates: clause.AssignmentColumns([]string{"name", "icon", "description", "active", "updated_at"}),
  }).Create(&rows).Error; err != nil {
    return fmt.Errorf("failed to upsert addiction catalog: %w", err)
  }
  seedLog.Info("Addiction catalog seeded", "count", len(rows))
  return nil
}
