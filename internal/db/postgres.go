package db

import (
  "fmt"
  "gorm.io/driver/postgres"
  "gorm.io/gorm"
  "github.com/anchorhealth/anchor-backend/internal/types"
  "github.com/anchorhealth/anchor-backend/internal/utils"
  "github.com/anchorhealth/anchor-backend/internal/logger"
)

type PostgresService struct {
  db  *gorm.DB
  log *logger.Logger
}

func NewPostgresService(log *logger.Logger) (*PostgresService, error) {
  serviceLog := log.With("service", "PostgresService")

  postgresHost := utils.GetEnv("POSTGRES_HOST", "localhost", log)
  postgresPort := utils.GetEnv("POSTGRES_PORT", "5432", log)
  postgresUser := utils.GetEnv("POSTGRES_USER", "postgres", log)
  postgresPassword := utils.GetEnv("POSTGRES_PASSWORD", "", log)
  postgresName := utils.GetEnv("POSTGRES_NAME", "anchor", log)

  dsn := fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable", postgresUser, postgresPassword, postgresHost, postgresPort, postgresName)

  serviceLog.Info("Connecting to Postgres...")
  gdb, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
    DisableForeignKeyConstraintWhenMigrating: true,
    TranslateError:                           true,
  })
  if err != nil {
    serviceLog.Error("Failed to connect to Postgres", "error", err)
    return nil, fmt.Errorf("failed to connect to postgres: %w", err)
  }

  if err := gdb.Exec(`CREATE EXTENSION IF NOT EXISTS "uuid-ossp";`).Error; err != nil {
    serviceLog.Error("Failed to enable uuid-ossp extension", "error", err)
    return nil, fmt.Errorf("failed to enable uuid-ossp extension: %w", err)
  }

  return &PostgresService{db: gdb, log: serviceLog}, nil
}

func (s *PostgresService) AutoMigrateAll() error {
  s.log.Info("Auto migrating postgres tables...")
  if err := s.db.AutoMigrate(AllModels()...); err != nil {
    s.log.Error("Auto migration failed for postgres tables", "error", err)
    return err
  }
  s.log.Info("Configuring foreign key relationships for postgres tables...")
  fks := []struct {
    table, name, column, refTable, refColumn, onDelete string
  }{
    {"user_token", "fk_user_token_user_id", "user_id", "user", "id", "CASCADE"},
    {"enrollment", "fk_enrollment_user_id", "user_id", "user", "id", "CASCADE"},
    {"enrollment", "fk_enrollment_addiction_id", "addiction_id", "addiction", "id", "RESTRICT"},
    {"recovery_event", "fk_recovery_event_enrollment_id", "enrollment_id", "enrollment", "id", "CASCADE"},
    {"craving_log", "fk_craving_log_enrollment_id", "enrollment_id", "enrollment", "id", "CASCADE"},
    {"mood_log", "fk_mood_log_user_id", "user_id", "user", "id", "CASCADE"},
    {"post", "fk_post_user_id", "user_id", "user", "id", "CASCADE"},
    {"comment", "fk_comment_post_id", "post_id", "post", "id", "CASCADE"},
    {"reaction", "fk_reaction_post_id", "post_id", "post", "id", "CASCADE"},
    {"message", "fk_message_sender_id", "sender_id", "user", "id", "CASCADE"},
    {"message", "fk_message_recipient_id", "recipient_id", "user", "id", "CASCADE"},
    {"feedback", "fk_feedback_user_id", "user_id", "user", "id", "CASCADE"},
    {"activity_event", "fk_activity_event_user_id", "user_id", "user", "id", "CASCADE"},
  }
  for _, fk := range fks {
    stmt := fmt.Sprintf(`
      ALTER TABLE %q DROP CONSTRAINT IF EXISTS %q;
      ALTER TABLE %q ADD CONSTRAINT %q
      FOREIGN KEY (%q) REFERENCES %q(%q) ON DELETE %s
    `, fk.table, fk.name, fk.table, fk.name, fk.column, fk.refTable, fk.refColumn, fk.onDelete)
    if err := s.db.Exec(stmt).Error; err != nil {
      return fmt.Errorf("failed to add %s: %w", fk.name, err)
    }
  }
  return nil
}

func (s *PostgresService) DB() *gorm.DB {
  return s.db
}

func AllModels() []interface{} {
  return []interface{}{
    &types.User{},
    &types.UserToken{},
    &types.Addiction{},
    &types.Enrollment{},
    &types.RecoveryEvent{},
    &types.CravingLog{},
    &types.MoodLog{},
    &types.Post{},
    &types.Comment{},
    &types.Reaction{},
    &types.Message{},
    &types.Feedback{},
    &types.ActivityEvent{},
  }
}
