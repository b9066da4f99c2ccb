package services

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/anchorhealth/anchor-backend/internal/apierr"
	"github.com/anchorhealth/anchor-backend/internal/sse"
	"github.com/anchorhealth/anchor-backend/internal/types"
)

func newCommunity(te *testEnv) CommunityService {
	return newCommunityWithBus(te, nil)
}

func newCommunityWithBus(te *testEnv, bus Publisher) CommunityService {
	return NewCommunityService(te.db, te.log, te.postRepo, te.commentRepo, te.reactionRepo, bus)
}

func TestCreatePostValidation(t *testing.T) {
	te := newTestEnv(t)
	svc := newCommunity(te)
	user := te.createUser(t, "poster@example.com")
	ctx := authedCtx(user)

	_, err := svc.CreatePost(ctx, "   ", nil)
	require.Error(t, err)
	require.Equal(t, http.StatusBadRequest, apierr.StatusOf(err))

	post, err := svc.CreatePost(ctx, "30 days clean today", intPtr(30))
	require.NoError(t, err)
	require.Equal(t, "30 days clean today", post.Body)
	require.Equal(t, 30, *post.Milestone)
}

func TestReactionsIdempotent(t *testing.T) {
	te := newTestEnv(t)
	svc := newCommunity(te)
	author := te.createUser(t, "author@example.com")
	fan := te.createUser(t, "fan@example.com")
	post, err := svc.CreatePost(authedCtx(author), "one week!", intPtr(7))
	require.NoError(t, err)
	fanCtx := authedCtx(fan)

	// Reacting twice with the same kind stays a single reaction.
	require.NoError(t, svc.React(fanCtx, post.ID, types.ReactionHeart))
	require.NoError(t, svc.React(fanCtx, post.ID, types.ReactionHeart))
	require.NoError(t, svc.React(fanCtx, post.ID, types.ReactionStrength))

	detail, err := svc.GetPost(fanCtx, post.ID)
	require.NoError(t, err)
	require.Equal(t, 1, detail.Reactions[types.ReactionHeart])
	require.Equal(t, 1, detail.Reactions[types.ReactionStrength])
	require.ElementsMatch(t, []string{types.ReactionHeart, types.ReactionStrength}, detail.MyReactions)

	// Removing an absent reaction still succeeds.
	require.NoError(t, svc.Unreact(fanCtx, post.ID, types.ReactionHug))
	require.NoError(t, svc.Unreact(fanCtx, post.ID, types.ReactionHeart))

	detail, err = svc.GetPost(fanCtx, post.ID)
	require.NoError(t, err)
	require.Zero(t, detail.Reactions[types.ReactionHeart])
	require.Equal(t, 1, detail.Reactions[types.ReactionStrength])
}

func TestReactUnknownKind(t *testing.T) {
	te := newTestEnv(t)
	svc := newCommunity(te)
	user := te.createUser(t, "kinds@example.com")
	ctx := authedCtx(user)
	post, err := svc.CreatePost(ctx, "hello", nil)
	require.NoError(t, err)

	err = svc.React(ctx, post.ID, "thumbsup")
	require.Error(t, err)
	require.Equal(t, http.StatusBadRequest, apierr.StatusOf(err))
}

func TestCommentsAndCounts(t *testing.T) {
	te := newTestEnv(t)
	svc := newCommunity(te)
	author := te.createUser(t, "cauthor@example.com")
	commenter := te.createUser(t, "commenter@example.com")
	authorCtx := authedCtx(author)
	post, err := svc.CreatePost(authorCtx, "struggling today", nil)
	require.NoError(t, err)

	comment, err := svc.AddComment(authedCtx(commenter), post.ID, "hang in there")
	require.NoError(t, err)
	require.Equal(t, commenter.ID, comment.UserID)

	views, err := svc.ListPosts(authorCtx, 10, 0)
	require.NoError(t, err)
	require.Len(t, views, 1)
	require.Equal(t, 1, views[0].CommentCount)

	// Only the comment's author can delete it.
	err = svc.DeleteComment(authorCtx, comment.ID)
	require.Error(t, err)
	require.Equal(t, http.StatusNotFound, apierr.StatusOf(err))
	require.NoError(t, svc.DeleteComment(authedCtx(commenter), comment.ID))
}

func TestDeletePostOwnership(t *testing.T) {
	te := newTestEnv(t)
	svc := newCommunity(te)
	author := te.createUser(t, "downer@example.com")
	other := te.createUser(t, "dother@example.com")
	post, err := svc.CreatePost(authedCtx(author), "my post", nil)
	require.NoError(t, err)

	err = svc.DeletePost(authedCtx(other), post.ID)
	require.Error(t, err)
	require.Equal(t, http.StatusNotFound, apierr.StatusOf(err))

	require.NoError(t, svc.DeletePost(authedCtx(author), post.ID))

	_, err = svc.GetPost(authedCtx(author), post.ID)
	require.Error(t, err)
	require.Equal(t, http.StatusNotFound, apierr.StatusOf(err))
}

func TestCommunityEventsReachPostOwner(t *testing.T) {
	te := newTestEnv(t)
	bus := &capturingBus{}
	svc := newCommunityWithBus(te, bus)
	author := te.createUser(t, "cauthor@example.com")
	fan := te.createUser(t, "cfan@example.com")
	post, err := svc.CreatePost(authedCtx(author), "two weeks today", intPtr(14))
	require.NoError(t, err)

	require.NoError(t, svc.React(authedCtx(fan), post.ID, types.ReactionStrength))
	require.Len(t, bus.messages, 1)
	require.Equal(t, sse.EventPostReacted, bus.messages[0].Event)
	require.Equal(t, sse.UserChannel(author.ID), bus.messages[0].Channel)

	_, err = svc.AddComment(authedCtx(fan), post.ID, "keep going")
	require.NoError(t, err)
	require.Len(t, bus.messages, 2)
	require.Equal(t, sse.EventPostCommented, bus.messages[1].Event)
	require.Equal(t, sse.UserChannel(author.ID), bus.messages[1].Channel)

	// Activity on your own post is not announced back to you.
	_, err = svc.AddComment(authedCtx(author), post.ID, "thanks all")
	require.NoError(t, err)
	require.Len(t, bus.messages, 2)
}
