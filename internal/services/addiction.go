package services

import (
  "context"
  "gorm.io/gorm"
  "github.com/anchorhealth/anchor-backend/internal/apierr"
  "github.com/anchorhealth/anchor-backend/internal/logger"
  "github.com/anchorhealth/anchor-backend/internal/repos"
  "github.com/anchorhealth/anchor-backend/internal/types"
)

type AddictionService interface {
  ListCatalog(ctx context.Context) ([]*types.Addiction, error)
}

type addictionService struct {
  db            *gorm.DB
  log           *logger.Logger
  addictionRepo repos.AddictionRepo
}

func NewAddictionService(db *gorm.DB, log *logger.Logger, addictionRepo repos.AddictionRepo) AddictionService {
  return &addictionService{db: db, log: log.With("service", "AddictionService"), addictionRepo: addictionRepo}
}

func (as *addictionService) ListCatalog(ctx context.Context) ([]*types.Addiction, error) {
  addictions, err := as.addictionRepo.ListActive(ctx, nil)
  if err != nil {
    return nil, apierr.From(err)
  }
  return addictions, nil
}
