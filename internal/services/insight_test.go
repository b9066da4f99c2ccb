package services

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/anchorhealth/anchor-backend/internal/types"
)

func newInsight(te *testEnv) InsightService {
	return NewInsightService(te.db, te.log, te.cravingRepo, te.eventRepo)
}

func (te *testEnv) createCraving(t *testing.T, enrollment *types.Enrollment, at time.Time, intensity int, mood *int, trigger *string) {
	t.Helper()
	entry := &types.CravingLog{
		ID:           uuid.New(),
		EnrollmentID: enrollment.ID,
		UserID:       enrollment.UserID,
		Intensity:    intensity,
		Mood:         mood,
		Trigger:      trigger,
		CreatedAt:    at,
	}
	require.NoError(t, te.db.Create(entry).Error)
}

func TestCravingHeatmapDense(t *testing.T) {
	te := newTestEnv(t)
	svc := newInsight(te)
	user := te.createUser(t, "heatmap@example.com")
	addiction := te.createAddiction(t, "nicotine")
	enrollment := te.createEnrollment(t, user.ID, addiction.ID, daysAgo(30))
	ctx := authedCtx(user)

	// Two entries in the same cell average; the matrix stays dense.
	now := time.Now().UTC()
	monday := now.AddDate(0, 0, -int((now.Weekday()+6)%7))
	monday21 := time.Date(monday.Year(), monday.Month(), monday.Day(), 21, 30, 0, 0, time.UTC)
	if monday21.After(now) {
		monday21 = monday21.AddDate(0, 0, -7)
	}
	te.createCraving(t, enrollment, monday21, 8, nil, nil)
	te.createCraving(t, enrollment, monday21.Add(10*time.Minute), 6, nil, nil)

	heatmap, err := svc.CravingHeatmap(ctx, 30, nil)
	require.NoError(t, err)
	require.Len(t, heatmap, 7)
	require.InDelta(t, 7.0, heatmap["Mon"][21], 0.01)
	require.Zero(t, heatmap["Tue"][21])
}

func TestTriggerGrouping(t *testing.T) {
	te := newTestEnv(t)
	svc := newInsight(te)
	user := te.createUser(t, "triggers@example.com")
	addiction := te.createAddiction(t, "alcohol")
	enrollment := te.createEnrollment(t, user.ID, addiction.ID, daysAgo(30))
	ctx := authedCtx(user)

	now := time.Now()
	te.createCraving(t, enrollment, now.Add(-1*time.Hour), 8, nil, strPtr("Stress"))
	te.createCraving(t, enrollment, now.Add(-2*time.Hour), 6, nil, strPtr("stress"))
	te.createCraving(t, enrollment, now.Add(-3*time.Hour), 4, nil, strPtr("boredom"))
	te.createCraving(t, enrollment, now.Add(-4*time.Hour), 5, nil, nil)

	report, err := svc.Triggers(ctx, 30, 5)
	require.NoError(t, err)
	// The untagged entry is excluded from the grouped set.
	require.Equal(t, 3, report.Total)
	require.Len(t, report.Triggers, 2)
	require.Equal(t, "stress", report.Triggers[0].Trigger)
	require.Equal(t, 2, report.Triggers[0].Count)
	require.Equal(t, 67, report.Triggers[0].Percentage)
	require.InDelta(t, 7.0, report.Triggers[0].AvgIntensity, 0.01)
}

func TestTriggersLimitCapped(t *testing.T) {
	te := newTestEnv(t)
	svc := newInsight(te)
	user := te.createUser(t, "manytriggers@example.com")
	addiction := te.createAddiction(t, "sugar")
	enrollment := te.createEnrollment(t, user.ID, addiction.ID, daysAgo(30))
	ctx := authedCtx(user)

	triggers := []string{
		"stress", "boredom", "loneliness", "anger", "fatigue", "hunger",
		"parties", "conflict", "insomnia", "deadlines", "traffic", "rain",
	}
	for i, trigger := range triggers {
		te.createCraving(t, enrollment, time.Now().Add(-time.Duration(i+1)*time.Hour), 5, nil, strPtr(trigger))
	}

	report, err := svc.Triggers(ctx, 30, 50)
	require.NoError(t, err)
	require.Len(t, report.Triggers, 10)
	require.Equal(t, len(triggers), report.Total)
}

func TestInsightSummary(t *testing.T) {
	te := newTestEnv(t)
	svc := newInsight(te)
	user := te.createUser(t, "summary@example.com")
	addiction := te.createAddiction(t, "gambling")
	enrollment := te.createEnrollment(t, user.ID, addiction.ID, daysAgo(30))
	ctx := authedCtx(user)

	te.createCraving(t, enrollment, time.Now().Add(-1*time.Hour), 8, intPtr(2), strPtr("stress"))
	slipDate := daysAgo(2)
	_, err := te.eventRepo.Create(ctx, nil, []*types.RecoveryEvent{{
		ID:           uuid.New(),
		EnrollmentID: enrollment.ID,
		UserID:       user.ID,
		Kind:         types.EventKindSlip,
		EventDate:    slipDate,
		Severity:     intPtr(4),
	}})
	require.NoError(t, err)

	summary, err := svc.Summary(ctx, 30)
	require.NoError(t, err)
	require.Len(t, summary.Heatmap, 7)
	require.Equal(t, 1, summary.SlipStats.TotalSlips)
	require.InDelta(t, 4.0, summary.SlipStats.AverageSeverity, 0.01)
	require.NotEmpty(t, summary.Disclaimer)
}

func TestPatternsEmptyWindow(t *testing.T) {
	te := newTestEnv(t)
	svc := newInsight(te)
	user := te.createUser(t, "nopatterns@example.com")

	report, err := svc.Patterns(authedCtx(user), 30)
	require.NoError(t, err)
	require.Empty(t, report.Patterns)
	require.NotEmpty(t, report.Disclaimer)
}
