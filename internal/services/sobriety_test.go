package services

import (
	"net/http"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/anchorhealth/anchor-backend/internal/apierr"
	"github.com/anchorhealth/anchor-backend/internal/types"
)

func newSobriety(te *testEnv) SobrietyService {
	return NewSobrietyService(te.db, te.log, te.enrollmentRepo, te.eventRepo)
}

func TestEnroll(t *testing.T) {
	te := newTestEnv(t)
	svc := newSobriety(te)
	user := te.createUser(t, "enroll@example.com")
	addiction := te.createAddiction(t, "alcohol")
	ctx := authedCtx(user)

	enrollment, err := svc.Enroll(ctx, addiction.ID, nil)
	require.NoError(t, err)
	require.True(t, enrollment.Active)
	require.Equal(t, user.ID, enrollment.UserID)

	// Enrolling again while active conflicts.
	_, err = svc.Enroll(ctx, addiction.ID, nil)
	require.Error(t, err)
	require.Equal(t, http.StatusConflict, apierr.StatusOf(err))

	// Deactivating and re-enrolling reactivates in place.
	require.NoError(t, svc.Deactivate(ctx, enrollment.ID))
	reactivated, err := svc.Enroll(ctx, addiction.ID, nil)
	require.NoError(t, err)
	require.Equal(t, enrollment.ID, reactivated.ID)
	require.True(t, reactivated.Active)
}

func TestEnrollWithStartDate(t *testing.T) {
	te := newTestEnv(t)
	svc := newSobriety(te)
	user := te.createUser(t, "startdate@example.com")
	addiction := te.createAddiction(t, "nicotine")

	start := daysAgo(45)
	enrollment, err := svc.Enroll(authedCtx(user), addiction.ID, &start)
	require.NoError(t, err)
	require.WithinDuration(t, start, enrollment.StartDate, time.Second)
}

func TestDeactivateUnknownEnrollment(t *testing.T) {
	te := newTestEnv(t)
	svc := newSobriety(te)
	user := te.createUser(t, "deact@example.com")

	err := svc.Deactivate(authedCtx(user), uuid.New())
	require.Error(t, err)
	require.Equal(t, http.StatusNotFound, apierr.StatusOf(err))
}

func TestLogEventValidation(t *testing.T) {
	te := newTestEnv(t)
	svc := newSobriety(te)
	user := te.createUser(t, "logval@example.com")
	addiction := te.createAddiction(t, "gambling")
	enrollment := te.createEnrollment(t, user.ID, addiction.ID, daysAgo(30))
	ctx := authedCtx(user)

	tests := []struct {
		name  string
		input LogEventInput
	}{
		{"unknown kind", LogEventInput{EnrollmentID: enrollment.ID, Kind: "relapse"}},
		{"severity out of range", LogEventInput{EnrollmentID: enrollment.ID, Kind: types.EventKindSlip, Severity: intPtr(6)}},
		{"severity on clean entry", LogEventInput{EnrollmentID: enrollment.ID, Kind: types.EventKindClean, Severity: intPtr(2)}},
		{"mood before out of range", LogEventInput{EnrollmentID: enrollment.ID, Kind: types.EventKindSlip, MoodBefore: intPtr(0)}},
		{"negative duration", LogEventInput{EnrollmentID: enrollment.ID, Kind: types.EventKindSlip, DurationMinutes: intPtr(-5)}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.LogEvent(ctx, tc.input)
			require.Error(t, err)
			require.Equal(t, http.StatusBadRequest, apierr.StatusOf(err))
		})
	}
}

func TestLogEventDefaultsSlipSeverity(t *testing.T) {
	te := newTestEnv(t)
	svc := newSobriety(te)
	user := te.createUser(t, "sevdefault@example.com")
	addiction := te.createAddiction(t, "cannabis")
	enrollment := te.createEnrollment(t, user.ID, addiction.ID, daysAgo(30))

	event, err := svc.LogEvent(authedCtx(user), LogEventInput{
		EnrollmentID: enrollment.ID,
		Kind:         types.EventKindSlip,
	})
	require.NoError(t, err)
	require.NotNil(t, event.Severity)
	require.Equal(t, 3, *event.Severity)
}

func TestLogEventForeignEnrollment(t *testing.T) {
	te := newTestEnv(t)
	svc := newSobriety(te)
	owner := te.createUser(t, "owner@example.com")
	intruder := te.createUser(t, "intruder@example.com")
	addiction := te.createAddiction(t, "opioids")
	enrollment := te.createEnrollment(t, owner.ID, addiction.ID, daysAgo(30))

	_, err := svc.LogEvent(authedCtx(intruder), LogEventInput{
		EnrollmentID: enrollment.ID,
		Kind:         types.EventKindSlip,
	})
	require.Error(t, err)
	require.Equal(t, http.StatusNotFound, apierr.StatusOf(err))
}

func TestLogEventByAddiction(t *testing.T) {
	te := newTestEnv(t)
	svc := newSobriety(te)
	user := te.createUser(t, "byaddiction@example.com")
	addiction := te.createAddiction(t, "caffeine")
	enrollment := te.createEnrollment(t, user.ID, addiction.ID, daysAgo(10))
	ctx := authedCtx(user)

	// The addiction id resolves to the caller's active enrollment.
	event, err := svc.LogEvent(ctx, LogEventInput{
		AddictionID: &addiction.ID,
		Kind:        types.EventKindSlip,
	})
	require.NoError(t, err)
	require.Equal(t, enrollment.ID, event.EnrollmentID)

	other := uuid.New()
	_, err = svc.LogEvent(ctx, LogEventInput{
		AddictionID: &other,
		Kind:        types.EventKindSlip,
	})
	require.Error(t, err)
	require.Equal(t, http.StatusNotFound, apierr.StatusOf(err))

	_, err = svc.LogEvent(ctx, LogEventInput{Kind: types.EventKindSlip})
	require.Error(t, err)
	require.Equal(t, http.StatusBadRequest, apierr.StatusOf(err))
}

func TestGetStreak(t *testing.T) {
	te := newTestEnv(t)
	svc := newSobriety(te)
	user := te.createUser(t, "streak@example.com")
	addiction := te.createAddiction(t, "stimulants")
	enrollment := te.createEnrollment(t, user.ID, addiction.ID, daysAgo(20))
	ctx := authedCtx(user)

	info, err := svc.GetStreak(ctx, enrollment.ID)
	require.NoError(t, err)
	require.Equal(t, 20, info.Days)
	require.Nil(t, info.LastSlip)

	slipDate := daysAgo(10)
	_, err = svc.LogEvent(ctx, LogEventInput{
		EnrollmentID: enrollment.ID,
		Kind:         types.EventKindSlip,
		EventDate:    &slipDate,
	})
	require.NoError(t, err)

	info, err = svc.GetStreak(ctx, enrollment.ID)
	require.NoError(t, err)
	require.Equal(t, 10, info.Days)
	require.NotNil(t, info.LastSlip)

	// Clean entries never move the baseline.
	cleanDate := daysAgo(2)
	_, err = svc.LogEvent(ctx, LogEventInput{
		EnrollmentID: enrollment.ID,
		Kind:         types.EventKindClean,
		EventDate:    &cleanDate,
	})
	require.NoError(t, err)
	info, err = svc.GetStreak(ctx, enrollment.ID)
	require.NoError(t, err)
	require.Equal(t, 10, info.Days)
}

func TestListStreaks(t *testing.T) {
	te := newTestEnv(t)
	svc := newSobriety(te)
	user := te.createUser(t, "streaks@example.com")
	alcohol := te.createAddiction(t, "alcohol")
	nicotine := te.createAddiction(t, "nicotine")
	first := te.createEnrollment(t, user.ID, alcohol.ID, daysAgo(15))
	te.createEnrollment(t, user.ID, nicotine.ID, daysAgo(5))
	ctx := authedCtx(user)

	slipDate := daysAgo(3)
	_, err := svc.LogEvent(ctx, LogEventInput{
		EnrollmentID: first.ID,
		Kind:         types.EventKindSlip,
		EventDate:    &slipDate,
	})
	require.NoError(t, err)

	entries, err := svc.ListStreaks(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	byName := map[string]StreakListEntry{}
	for _, entry := range entries {
		byName[entry.AddictionName] = entry
	}
	require.Equal(t, 3, byName["alcohol"].StreakDays)
	require.Equal(t, 5, byName["nicotine"].StreakDays)
}

func TestSlipStats(t *testing.T) {
	te := newTestEnv(t)
	svc := newSobriety(te)
	user := te.createUser(t, "slipstats@example.com")
	alcohol := te.createAddiction(t, "alcohol")
	nicotine := te.createAddiction(t, "nicotine")
	alcoholEnrollment := te.createEnrollment(t, user.ID, alcohol.ID, daysAgo(60))
	nicotineEnrollment := te.createEnrollment(t, user.ID, nicotine.ID, daysAgo(60))
	ctx := authedCtx(user)

	for i, tc := range []struct {
		enrollmentID uuid.UUID
		severity     *int
		trigger      *string
	}{
		{alcoholEnrollment.ID, intPtr(4), strPtr("Stress")},
		{alcoholEnrollment.ID, intPtr(2), strPtr("stress ")},
		{nicotineEnrollment.ID, nil, strPtr("boredom")},
	} {
		eventDate := daysAgo(i + 1)
		_, err := svc.LogEvent(ctx, LogEventInput{
			EnrollmentID: tc.enrollmentID,
			Kind:         types.EventKindSlip,
			EventDate:    &eventDate,
			Severity:     tc.severity,
			Trigger:      tc.trigger,
		})
		require.NoError(t, err)
	}

	stats, err := svc.SlipStats(ctx, 30, nil)
	require.NoError(t, err)
	require.Equal(t, 3, stats.TotalSlips)
	require.InDelta(t, 3.0, stats.AverageSeverity, 0.01)
	require.Equal(t, 2, stats.ByAddiction[alcohol.ID])
	require.Equal(t, 1, stats.ByAddiction[nicotine.ID])
	require.NotEmpty(t, stats.TopTriggers)
	require.Equal(t, "stress", stats.TopTriggers[0].Trigger)
	require.Equal(t, 2, stats.TopTriggers[0].Count)

	// Filter narrows totals but keeps the full breakdown.
	filtered, err := svc.SlipStats(ctx, 30, &alcohol.ID)
	require.NoError(t, err)
	require.Equal(t, 2, filtered.TotalSlips)
	require.InDelta(t, 3.0, filtered.AverageSeverity, 0.01)
	require.Equal(t, 1, filtered.ByAddiction[nicotine.ID])
}

func TestSlipStatsEmpty(t *testing.T) {
	te := newTestEnv(t)
	svc := newSobriety(te)
	user := te.createUser(t, "noslips@example.com")

	stats, err := svc.SlipStats(authedCtx(user), 30, nil)
	require.NoError(t, err)
	require.Equal(t, 0, stats.TotalSlips)
	require.Zero(t, stats.AverageSeverity)
	require.NotNil(t, stats.TopTriggers)
	require.NotNil(t, stats.ByAddiction)
}
