package services

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/anchorhealth/anchor-backend/internal/db"
	"github.com/anchorhealth/anchor-backend/internal/logger"
	"github.com/anchorhealth/anchor-backend/internal/repos"
	"github.com/anchorhealth/anchor-backend/internal/requestdata"
	"github.com/anchorhealth/anchor-backend/internal/types"
	"github.com/anchorhealth/anchor-backend/internal/utils"
)

type testEnv struct {
	db             *gorm.DB
	log            *logger.Logger
	userRepo       repos.UserRepo
	userTokenRepo  repos.UserTokenRepo
	addictionRepo  repos.AddictionRepo
	enrollmentRepo repos.EnrollmentRepo
	eventRepo      repos.RecoveryEventRepo
	cravingRepo    repos.CravingLogRepo
	moodRepo       repos.MoodLogRepo
	postRepo       repos.PostRepo
	commentRepo    repos.CommentRepo
	reactionRepo   repos.ReactionRepo
	messageRepo    repos.MessageRepo
	feedbackRepo   repos.FeedbackRepo
	activityRepo   repos.ActivityEventRepo
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gdb, err := db.NewTestDB()
	require.NoError(t, err)
	log, err := logger.New("test")
	require.NoError(t, err)
	return &testEnv{
		db:             gdb,
		log:            log,
		userRepo:       repos.NewUserRepo(gdb, log),
		userTokenRepo:  repos.NewUserTokenRepo(gdb, log),
		addictionRepo:  repos.NewAddictionRepo(gdb, log),
		enrollmentRepo: repos.NewEnrollmentRepo(gdb, log),
		eventRepo:      repos.NewRecoveryEventRepo(gdb, log),
		cravingRepo:    repos.NewCravingLogRepo(gdb, log),
		moodRepo:       repos.NewMoodLogRepo(gdb, log),
		postRepo:       repos.NewPostRepo(gdb, log),
		commentRepo:    repos.NewCommentRepo(gdb, log),
		reactionRepo:   repos.NewReactionRepo(gdb, log),
		messageRepo:    repos.NewMessageRepo(gdb, log),
		feedbackRepo:   repos.NewFeedbackRepo(gdb, log),
		activityRepo:   repos.NewActivityEventRepo(gdb, log),
	}
}

func (te *testEnv) createUser(t *testing.T, email string) *types.User {
	t.Helper()
	hashed, err := utils.HashPassword("password123")
	require.NoError(t, err)
	user := &types.User{
		ID:        uuid.New(),
		Email:     email,
		Password:  hashed,
		FirstName: "Test",
		LastName:  "User",
		Role:      types.RoleMember,
	}
	_, err = te.userRepo.Create(context.Background(), nil, []*types.User{user})
	require.NoError(t, err)
	return user
}

func (te *testEnv) createAddiction(t *testing.T, slug string) *types.Addiction {
	t.Helper()
	addiction := &types.Addiction{
		ID:     uuid.New(),
		Slug:   slug,
		Name:   slug,
		Icon:   "icon-" + slug,
		Active: true,
	}
	require.NoError(t, te.db.Create(addiction).Error)
	return addiction
}

func (te *testEnv) createEnrollment(t *testing.T, userID, addictionID uuid.UUID, startDate time.Time) *types.Enrollment {
	t.Helper()
	enrollment := &types.Enrollment{
		ID:          uuid.New(),
		UserID:      userID,
		AddictionID: addictionID,
		StartDate:   startDate,
		Active:      true,
	}
	_, err := te.enrollmentRepo.Create(context.Background(), nil, []*types.Enrollment{enrollment})
	require.NoError(t, err)
	return enrollment
}

func authedCtx(user *types.User) context.Context {
	return requestdata.WithRequestData(context.Background(), &requestdata.RequestData{
		UserID: user.ID,
		Role:   user.Role,
	})
}

func intPtr(v int) *int          { return &v }
func strPtr(v string) *string    { return &v }
func daysAgo(n int) time.Time    { return time.Now().AddDate(0, 0, -n) }
