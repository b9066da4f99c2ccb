package services

import (
  "context"
  "golang.org/x/sync/errgroup"
  "gorm.io/gorm"
  "github.com/google/uuid"
  "github.com/anchorhealth/anchor-backend/internal/apierr"
  "github.com/anchorhealth/anchor-backend/internal/insights"
  "github.com/anchorhealth/anchor-backend/internal/logger"
  "github.com/anchorhealth/anchor-backend/internal/normalization"
  "github.com/anchorhealth/anchor-backend/internal/repos"
  "github.com/anchorhealth/anchor-backend/internal/types"
)

// The trigger breakdown never returns more than this many rows.
const maxTopTriggers = 10

// TriggerReport pairs the grouped trigger stats with the size of the
// grouped set the percentages were computed over.
type TriggerReport struct {
  Triggers []insights.TriggerStat `json:"triggers"`
  Total    int                    `json:"total"`
}

type PatternReport struct {
  Patterns   []insights.Pattern `json:"patterns"`
  Disclaimer string             `json:"disclaimer"`
}

// InsightSummary is the single-call dashboard payload.
type InsightSummary struct {
  Heatmap    map[string][24]float64 `json:"heatmap"`
  Triggers   TriggerReport          `json:"triggers"`
  Patterns   []insights.Pattern     `json:"patterns"`
  SlipStats  insights.SlipStats     `json:"slip_stats"`
  Disclaimer string                 `json:"disclaimer"`
}

type InsightService interface {
  CravingHeatmap(ctx context.Context, days int, enrollmentID *uuid.UUID) (map[string][24]float64, error)
  Triggers(ctx context.Context, days, limit int) (*TriggerReport, error)
  Patterns(ctx context.Context, days int) (*PatternReport, error)
  Summary(ctx context.Context, days int) (*InsightSummary, error)
}

type insightService struct {
  db          *gorm.DB
  log         *logger.Logger
  cravingRepo repos.CravingLogRepo
  eventRepo   repos.RecoveryEventRepo
}

func NewInsightService(
  db *gorm.DB,
  log *logger.Logger,
  cravingRepo repos.CravingLogRepo,
  eventRepo repos.RecoveryEventRepo,
) InsightService {
  return &insightService{
    db:          db,
    log:         log.With("service", "InsightService"),
    cravingRepo: cravingRepo,
    eventRepo:   eventRepo,
  }
}

func cravingPoints(logs []*types.CravingLog) []insights.CravingPoint {
  points := make([]insights.CravingPoint, 0, len(logs))
  for _, entry := range logs {
    trigger := ""
    if entry.Trigger != nil {
      trigger = normalization.NormalizeTrigger(*entry.Trigger)
    }
    points = append(points, insights.CravingPoint{
      At:        entry.CreatedAt,
      Intensity: entry.Intensity,
      Mood:      entry.Mood,
      Trigger:   trigger,
    })
  }
  return points
}

func slipPoints(rows []repos.SlipRow) []insights.SlipPoint {
  points := make([]insights.SlipPoint, 0, len(rows))
  for _, row := range rows {
    severity := defaultSlipSeverity
    if row.Severity != nil {
      severity = *row.Severity
    }
    trigger := ""
    if row.Trigger != nil {
      trigger = normalization.NormalizeTrigger(*row.Trigger)
    }
    points = append(points, insights.SlipPoint{
      At:          row.EventDate,
      Severity:    severity,
      Trigger:     trigger,
      AddictionID: row.AddictionID,
    })
  }
  return points
}

func (is *insightService) cravings(ctx context.Context, userID uuid.UUID, days int, enrollmentID *uuid.UUID) ([]insights.CravingPoint, error) {
  logs, err := is.cravingRepo.ListByUser(ctx, nil, userID, windowStart(days), enrollmentID, 0)
  if err != nil {
    return nil, apierr.From(err)
  }
  return cravingPoints(logs), nil
}

func (is *insightService) CravingHeatmap(ctx context.Context, days int, enrollmentID *uuid.UUID) (map[string][24]float64, error) {
  userID, err := currentUserID(ctx)
  if err != nil {
    return nil, err
  }
  points, err := is.cravings(ctx, userID, days, enrollmentID)
  if err != nil {
    return nil, err
  }
  return insights.Heatmap(points), nil
}

func (is *insightService) Triggers(ctx context.Context, days, limit int) (*TriggerReport, error) {
  userID, err := currentUserID(ctx)
  if err != nil {
    return nil, err
  }
  if limit <= 0 {
    limit = topTriggerLimit
  }
  if limit > maxTopTriggers {
    limit = maxTopTriggers
  }
  points, err := is.cravings(ctx, userID, days, nil)
  if err != nil {
    return nil, err
  }
  stats, total := insights.TopTriggers(points, limit)
  return &TriggerReport{Triggers: stats, Total: total}, nil
}

func (is *insightService) Patterns(ctx context.Context, days int) (*PatternReport, error) {
  userID, err := currentUserID(ctx)
  if err != nil {
    return nil, err
  }
  points, err := is.cravings(ctx, userID, days, nil)
  if err != nil {
    return nil, err
  }
  return &PatternReport{
    Patterns:   insights.Patterns(points),
    Disclaimer: insights.Disclaimer,
  }, nil
}

// Summary loads craving and slip history in parallel and derives every
// insight view from one round trip each.
func (is *insightService) Summary(ctx context.Context, days int) (*InsightSummary, error) {
  userID, err := currentUserID(ctx)
  if err != nil {
    return nil, err
  }
  var (
    cravings []insights.CravingPoint
    slips    []insights.SlipPoint
  )
  group, groupCtx := errgroup.WithContext(ctx)
  group.Go(func() error {
    points, err := is.cravings(groupCtx, userID, days, nil)
    if err != nil {
      return err
    }
    cravings = points
    return nil
  })
  group.Go(func() error {
    rows, err := is.eventRepo.ListSlipsByUser(groupCtx, nil, userID, windowStart(days))
    if err != nil {
      return apierr.From(err)
    }
    slips = slipPoints(rows)
    return nil
  })
  if err := group.Wait(); err != nil {
    return nil, err
  }
  triggers, total := insights.TopTriggers(cravings, topTriggerLimit)
  return &InsightSummary{
    Heatmap:    insights.Heatmap(cravings),
    Triggers:   TriggerReport{Triggers: triggers, Total: total},
    Patterns:   insights.Patterns(cravings),
    SlipStats:  insights.ComputeSlipStats(slips, topTriggerLimit),
    Disclaimer: insights.Disclaimer,
  }, nil
}
