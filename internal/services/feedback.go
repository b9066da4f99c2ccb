package services

import (
  "context"
  "strings"
  "gorm.io/gorm"
  "github.com/google/uuid"
  "github.com/anchorhealth/anchor-backend/internal/apierr"
  "github.com/anchorhealth/anchor-backend/internal/logger"
  "github.com/anchorhealth/anchor-backend/internal/repos"
  "github.com/anchorhealth/anchor-backend/internal/types"
  "github.com/anchorhealth/anchor-backend/internal/utils"
)

var feedbackCategories = map[string]bool{
  "bug":     true,
  "feature": true,
  "content": true,
  "other":   true,
}

type FeedbackService interface {
  Submit(ctx context.Context, category, body string, rating *int) (*types.Feedback, error)
}

type feedbackService struct {
  db           *gorm.DB
  log          *logger.Logger
  feedbackRepo repos.FeedbackRepo
}

func NewFeedbackService(db *gorm.DB, log *logger.Logger, feedbackRepo repos.FeedbackRepo) FeedbackService {
  return &feedbackService{db: db, log: log.With("service", "FeedbackService"), feedbackRepo: feedbackRepo}
}

func (fs *feedbackService) Submit(ctx context.Context, category, body string, rating *int) (*types.Feedback, error) {
  userID, err := currentUserID(ctx)
  if err != nil {
    return nil, err
  }
  category = strings.ToLower(strings.TrimSpace(category))
  if !feedbackCategories[category] {
    return nil, apierr.Validation("category must be one of bug, feature, content, other")
  }
  body = strings.TrimSpace(body)
  if body == "" {
    return nil, apierr.Validation("Feedback body cannot be empty")
  }
  if rating != nil {
    if err := utils.ValidateRange("rating", *rating, 1, 5); err != nil {
      return nil, err
    }
  }
  row := &types.Feedback{
    ID:       uuid.New(),
    UserID:   userID,
    Category: category,
    Body:     body,
    Rating:   rating,
  }
  if _, err := fs.feedbackRepo.Create(ctx, nil, []*types.Feedback{row}); err != nil {
    return nil, apierr.From(err)
  }
  return row, nil
}
