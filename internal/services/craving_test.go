package services

import (
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/anchorhealth/anchor-backend/internal/apierr"
)

func newCraving(te *testEnv) CravingService {
	return NewCravingService(te.db, te.log, te.enrollmentRepo, te.cravingRepo)
}

func TestLogCraving(t *testing.T) {
	te := newTestEnv(t)
	svc := newCraving(te)
	user := te.createUser(t, "craving@example.com")
	addiction := te.createAddiction(t, "nicotine")
	enrollment := te.createEnrollment(t, user.ID, addiction.ID, daysAgo(10))

	entry, err := svc.LogCraving(authedCtx(user), LogCravingInput{
		EnrollmentID: enrollment.ID,
		Intensity:    7,
		Mood:         intPtr(3),
		Trigger:      strPtr("  After WORK  "),
	})
	require.NoError(t, err)
	require.Equal(t, 7, entry.Intensity)
	require.NotNil(t, entry.Trigger)
	require.Equal(t, "after work", *entry.Trigger)
}

func TestLogCravingValidation(t *testing.T) {
	te := newTestEnv(t)
	svc := newCraving(te)
	user := te.createUser(t, "cravingval@example.com")
	addiction := te.createAddiction(t, "gaming")
	enrollment := te.createEnrollment(t, user.ID, addiction.ID, daysAgo(10))
	ctx := authedCtx(user)

	tests := []struct {
		name  string
		input LogCravingInput
	}{
		{"intensity too high", LogCravingInput{EnrollmentID: enrollment.ID, Intensity: 11}},
		{"intensity too low", LogCravingInput{EnrollmentID: enrollment.ID, Intensity: 0}},
		{"mood out of range", LogCravingInput{EnrollmentID: enrollment.ID, Intensity: 5, Mood: intPtr(6)}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.LogCraving(ctx, tc.input)
			require.Error(t, err)
			require.Equal(t, http.StatusBadRequest, apierr.StatusOf(err))
		})
	}
}

func TestLogCravingForeignEnrollment(t *testing.T) {
	te := newTestEnv(t)
	svc := newCraving(te)
	owner := te.createUser(t, "cowner@example.com")
	intruder := te.createUser(t, "cintruder@example.com")
	addiction := te.createAddiction(t, "shopping")
	enrollment := te.createEnrollment(t, owner.ID, addiction.ID, daysAgo(10))

	_, err := svc.LogCraving(authedCtx(intruder), LogCravingInput{
		EnrollmentID: enrollment.ID,
		Intensity:    5,
	})
	require.Error(t, err)
	require.Equal(t, http.StatusNotFound, apierr.StatusOf(err))
}

func TestListCravingsFiltered(t *testing.T) {
	te := newTestEnv(t)
	svc := newCraving(te)
	user := te.createUser(t, "cravinglist@example.com")
	alcohol := te.createAddiction(t, "alcohol")
	gaming := te.createAddiction(t, "gaming")
	alcoholEnrollment := te.createEnrollment(t, user.ID, alcohol.ID, daysAgo(10))
	gamingEnrollment := te.createEnrollment(t, user.ID, gaming.ID, daysAgo(10))
	ctx := authedCtx(user)

	for _, enrollmentID := range []uuid.UUID{alcoholEnrollment.ID, alcoholEnrollment.ID, gamingEnrollment.ID} {
		_, err := svc.LogCraving(ctx, LogCravingInput{EnrollmentID: enrollmentID, Intensity: 5})
		require.NoError(t, err)
	}

	all, err := svc.ListCravings(ctx, 30, nil, 0)
	require.NoError(t, err)
	require.Len(t, all, 3)

	filtered, err := svc.ListCravings(ctx, 30, &gamingEnrollment.ID, 0)
	require.NoError(t, err)
	require.Len(t, filtered, 1)

	limited, err := svc.ListCravings(ctx, 30, nil, 2)
	require.NoError(t, err)
	require.Len(t, limited, 2)
}
