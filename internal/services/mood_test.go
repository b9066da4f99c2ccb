package services

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/anchorhealth/anchor-backend/internal/apierr"
)

func TestLogMood(t *testing.T) {
	te := newTestEnv(t)
	svc := NewMoodService(te.db, te.log, te.moodRepo)
	user := te.createUser(t, "mood@example.com")
	ctx := authedCtx(user)

	entry, err := svc.LogMood(ctx, 4, strPtr("slept well"))
	require.NoError(t, err)
	require.Equal(t, 4, entry.Mood)

	for _, bad := range []int{0, 6} {
		_, err := svc.LogMood(ctx, bad, nil)
		require.Error(t, err)
		require.Equal(t, http.StatusBadRequest, apierr.StatusOf(err))
	}

	entries, err := svc.ListMoods(ctx, 30, 0)
	require.NoError(t, err)
	require.Len(t, entries, 1)
}

func TestListMoodsScopedToUser(t *testing.T) {
	te := newTestEnv(t)
	svc := NewMoodService(te.db, te.log, te.moodRepo)
	alice := te.createUser(t, "malice@example.com")
	bob := te.createUser(t, "mbob@example.com")

	_, err := svc.LogMood(authedCtx(alice), 2, nil)
	require.NoError(t, err)

	entries, err := svc.ListMoods(authedCtx(bob), 30, 0)
	require.NoError(t, err)
	require.Empty(t, entries)
}
