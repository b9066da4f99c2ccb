package services

import (
  "context"
  "errors"
  "strings"
  "gorm.io/gorm"
  "github.com/google/uuid"
  "github.com/anchorhealth/anchor-backend/internal/apierr"
  "github.com/anchorhealth/anchor-backend/internal/logger"
  "github.com/anchorhealth/anchor-backend/internal/repos"
  "github.com/anchorhealth/anchor-backend/internal/sse"
  "github.com/anchorhealth/anchor-backend/internal/types"
)

const maxPostBodyLen = 5000

// PostView decorates a post with aggregate counts and the viewer's own
// reactions.
type PostView struct {
  Post          *types.Post    `json:"post"`
  CommentCount  int            `json:"comment_count"`
  Reactions     map[string]int `json:"reactions"`
  MyReactions   []string       `json:"my_reactions"`
}

type PostDetail struct {
  PostView
  Comments []*types.Comment `json:"comments"`
}

type CommunityService interface {
  CreatePost(ctx context.Context, body string, milestone *int) (*types.Post, error)
  ListPosts(ctx context.Context, limit, offset int) ([]PostView, error)
  GetPost(ctx context.Context, postID uuid.UUID) (*PostDetail, error)
  DeletePost(ctx context.Context, postID uuid.UUID) error
  AddComment(ctx context.Context, postID uuid.UUID, body string) (*types.Comment, error)
  DeleteComment(ctx context.Context, commentID uuid.UUID) error
  React(ctx context.Context, postID uuid.UUID, kind string) error
  Unreact(ctx context.Context, postID uuid.UUID, kind string) error
}

type communityService struct {
  db           *gorm.DB
  log          *logger.Logger
  postRepo     repos.PostRepo
  commentRepo  repos.CommentRepo
  reactionRepo repos.ReactionRepo
  bus          Publisher
}

func NewCommunityService(
  db *gorm.DB,
  log *logger.Logger,
  postRepo repos.PostRepo,
  commentRepo repos.CommentRepo,
  reactionRepo repos.ReactionRepo,
  bus Publisher,
) CommunityService {
  return &communityService{
    db:           db,
    log:          log.With("service", "CommunityService"),
    postRepo:     postRepo,
    commentRepo:  commentRepo,
    reactionRepo: reactionRepo,
    bus:          bus,
  }
}

// notifyOwner fans an activity event out to the post owner's channel.
// Self-activity is not announced and delivery is best effort.
func (cs *communityService) notifyOwner(ctx context.Context, ownerID, actorID uuid.UUID, event sse.Event, data interface{}) {
  if cs.bus == nil || ownerID == actorID {
    return
  }
  err := cs.bus.Publish(ctx, sse.Message{
    Channel: sse.UserChannel(ownerID),
    Event:   event,
    Data:    data,
  })
  if err != nil {
    cs.log.Warn("Failed to publish community event", "error", err, "event", event, "owner_id", ownerID)
  }
}

func validReactionKind(kind string) bool {
  switch kind {
  case types.ReactionHeart, types.ReactionStrength, types.ReactionHug:
    return true
  }
  return false
}

func (cs *communityService) CreatePost(ctx context.Context, body string, milestone *int) (*types.Post, error) {
  userID, err := currentUserID(ctx)
  if err != nil {
    return nil, err
  }
  body = strings.TrimSpace(body)
  if body == "" {
    return nil, apierr.Validation("Post body cannot be empty")
  }
  if len(body) > maxPostBodyLen {
    return nil, apierr.Validation("Post body exceeds %d characters", maxPostBodyLen)
  }
  if milestone != nil && *milestone < 0 {
    return nil, apierr.Validation("milestone cannot be negative")
  }
  post := &types.Post{
    ID:        uuid.New(),
    UserID:    userID,
    Body:      body,
    Milestone: milestone,
  }
  if _, err := cs.postRepo.Create(ctx, nil, []*types.Post{post}); err != nil {
    return nil, apierr.From(err)
  }
  return post, nil
}

func (cs *communityService) ListPosts(ctx context.Context, limit, offset int) ([]PostView, error) {
  userID, err := currentUserID(ctx)
  if err != nil {
    return nil, err
  }
  posts, err := cs.postRepo.List(ctx, nil, limit, offset)
  if err != nil {
    return nil, apierr.From(err)
  }
  views, err := cs.decorate(ctx, userID, posts)
  if err != nil {
    return nil, err
  }
  return views, nil
}

func (cs *communityService) GetPost(ctx context.Context, postID uuid.UUID) (*PostDetail, error) {
  userID, err := currentUserID(ctx)
  if err != nil {
    return nil, err
  }
  post, err := cs.postRepo.GetByID(ctx, nil, postID)
  if err != nil {
    if errors.Is(err, gorm.ErrRecordNotFound) {
      return nil, apierr.NotFound("Post not found")
    }
    return nil, apierr.From(err)
  }
  comments, err := cs.commentRepo.ListByPost(ctx, nil, postID)
  if err != nil {
    return nil, apierr.From(err)
  }
  views, err := cs.decorate(ctx, userID, []*types.Post{post})
  if err != nil {
    return nil, err
  }
  return &PostDetail{PostView: views[0], Comments: comments}, nil
}

// decorate folds batched comment and reaction counts onto the posts.
func (cs *communityService) decorate(ctx context.Context, userID uuid.UUID, posts []*types.Post) ([]PostView, error) {
  postIDs := make([]uuid.UUID, 0, len(posts))
  for _, post := range posts {
    postIDs = append(postIDs, post.ID)
  }
  commentCounts, err := cs.commentRepo.CountByPosts(ctx, nil, postIDs)
  if err != nil {
    return nil, apierr.From(err)
  }
  reactionCounts, err := cs.reactionRepo.CountByPosts(ctx, nil, postIDs)
  if err != nil {
    return nil, apierr.From(err)
  }
  mine, err := cs.reactionRepo.ListByUserAndPosts(ctx, nil, userID, postIDs)
  if err != nil {
    return nil, apierr.From(err)
  }
  commentsByPost := map[uuid.UUID]int{}
  for _, row := range commentCounts {
    commentsByPost[row.PostID] = row.Count
  }
  reactionsByPost := map[uuid.UUID]map[string]int{}
  for _, row := range reactionCounts {
    if reactionsByPost[row.PostID] == nil {
      reactionsByPost[row.PostID] = map[string]int{}
    }
    reactionsByPost[row.PostID][row.Kind] = row.Count
  }
  mineByPost := map[uuid.UUID][]string{}
  for _, reaction := range mine {
    mineByPost[reaction.PostID] = append(mineByPost[reaction.PostID], reaction.Kind)
  }
  views := make([]PostView, 0, len(posts))
  for _, post := range posts {
    reactions := reactionsByPost[post.ID]
    if reactions == nil {
      reactions = map[string]int{}
    }
    myReactions := mineByPost[post.ID]
    if myReactions == nil {
      myReactions = []string{}
    }
    views = append(views, PostView{
      Post:         post,
      CommentCount: commentsByPost[post.ID],
      Reactions:    reactions,
      MyReactions:  myReactions,
    })
  }
  return views, nil
}

func (cs *communityService) DeletePost(ctx context.Context, postID uuid.UUID) error {
  userID, err := currentUserID(ctx)
  if err != nil {
    return err
  }
  affected, err := cs.postRepo.DeleteOwned(ctx, nil, userID, postID)
  if err != nil {
    return apierr.From(err)
  }
  if affected == 0 {
    return apierr.NotFound("Post not found")
  }
  return nil
}

func (cs *communityService) AddComment(ctx context.Context, postID uuid.UUID, body string) (*types.Comment, error) {
  userID, err := currentUserID(ctx)
  if err != nil {
    return nil, err
  }
  body = strings.TrimSpace(body)
  if body == "" {
    return nil, apierr.Validation("Comment body cannot be empty")
  }
  var comment *types.Comment
  var ownerID uuid.UUID
  err = cs.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
    post, err := cs.postRepo.GetByID(ctx, tx, postID)
    if err != nil {
      if errors.Is(err, gorm.ErrRecordNotFound) {
        return apierr.NotFound("Post not found")
      }
      return err
    }
    ownerID = post.UserID
    created := &types.Comment{
      ID:     uuid.New(),
      PostID: postID,
      UserID: userID,
      Body:   body,
    }
    if _, err := cs.commentRepo.Create(ctx, tx, []*types.Comment{created}); err != nil {
      return err
    }
    comment = created
    return nil
  })
  if err != nil {
    return nil, apierr.From(err)
  }
  cs.notifyOwner(ctx, ownerID, userID, sse.EventPostCommented, comment)
  return comment, nil
}

func (cs *communityService) DeleteComment(ctx context.Context, commentID uuid.UUID) error {
  userID, err := currentUserID(ctx)
  if err != nil {
    return err
  }
  affected, err := cs.commentRepo.DeleteOwned(ctx, nil, userID, commentID)
  if err != nil {
    return apierr.From(err)
  }
  if affected == 0 {
    return apierr.NotFound("Comment not found")
  }
  return nil
}

func (cs *communityService) React(ctx context.Context, postID uuid.UUID, kind string) error {
  userID, err := currentUserID(ctx)
  if err != nil {
    return err
  }
  if !validReactionKind(kind) {
    return apierr.Validation("kind must be one of %q, %q, %q", types.ReactionHeart, types.ReactionStrength, types.ReactionHug)
  }
  var ownerID uuid.UUID
  err = cs.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
    post, err := cs.postRepo.GetByID(ctx, tx, postID)
    if err != nil {
      if errors.Is(err, gorm.ErrRecordNotFound) {
        return apierr.NotFound("Post not found")
      }
      return apierr.From(err)
    }
    ownerID = post.UserID
    reaction := &types.Reaction{
      ID:     uuid.New(),
      PostID: postID,
      UserID: userID,
      Kind:   kind,
    }
    if err := cs.reactionRepo.Upsert(ctx, tx, reaction); err != nil {
      return apierr.From(err)
    }
    return nil
  })
  if err != nil {
    return err
  }
  cs.notifyOwner(ctx, ownerID, userID, sse.EventPostReacted, map[string]interface{}{
    "post_id": postID,
    "kind":    kind,
    "user_id": userID,
  })
  return nil
}

// Unreact is idempotent: removing a reaction that never existed still
// succeeds.
func (cs *communityService) Unreact(ctx context.Context, postID uuid.UUID, kind string) error {
  userID, err := currentUserID(ctx)
  if err != nil {
    return err
  }
  if !validReactionKind(kind) {
    return apierr.Validation("kind must be one of %q, %q, %q", types.ReactionHeart, types.ReactionStrength, types.ReactionHug)
  }
  if _, err := cs.reactionRepo.Delete(ctx, nil, userID, postID, kind); err != nil {
    return apierr.From(err)
  }
  return nil
}
