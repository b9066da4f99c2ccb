package handlers

import (
  "github.com/gin-gonic/gin"
  "github.com/anchorhealth/anchor-backend/internal/apierr"
  "github.com/anchorhealth/anchor-backend/internal/services"
)

type CommunityHandler struct {
  communityService services.CommunityService
}

func NewCommunityHandler(communityService services.CommunityService) *CommunityHandler {
  return &CommunityHandler{communityService: communityService}
}

func (ch *CommunityHandler) CreatePost(c *gin.Context) {
  var req struct {
    Body      string `json:"body"`
    Milestone *int   `json:"milestone"`
  }
  if err := c.ShouldBindJSON(&req); err != nil {
    RespondError(c, apierr.Validation("invalid request body"))
    return
  }
  post, err := ch.communityService.CreatePost(c.Request.Context(), req.Body, req.Milestone)
  if err != nil {
    RespondError(c, err)
    return
  }
  RespondCreated(c, post)
}

func (ch *CommunityHandler) ListPosts(c *gin.Context) {
  limit := queryInt(c, "limit", defaultPageLimit, 1, maxPageLimit)
  offset := queryInt(c, "offset", 0, 0, 10000)
  posts, err := ch.communityService.ListPosts(c.Request.Context(), limit, offset)
  if err != nil {
    RespondError(c, err)
    return
  }
  RespondOK(c, gin.H{"posts": posts})
}

func (ch *CommunityHandler) GetPost(c *gin.Context) {
  postID, err := pathUUID(c, "postId")
  if err != nil {
    RespondError(c, err)
    return
  }
  detail, err := ch.communityService.GetPost(c.Request.Context(), postID)
  if err != nil {
    RespondError(c, err)
    return
  }
  RespondOK(c, detail)
}

func (ch *CommunityHandler) DeletePost(c *gin.Context) {
  postID, err := pathUUID(c, "postId")
  if err != nil {
    RespondError(c, err)
    return
  }
  if err := ch.communityService.DeletePost(c.Request.Context(), postID); err != nil {
    RespondError(c, err)
    return
  }
  RespondOK(c, gin.H{"message": "post deleted"})
}

func (ch *CommunityHandler) AddComment(c *gin.Context) {
  postID, err := pathUUID(c, "postId")
  if err != nil {
    RespondError(c, err)
    return
  }
  var req struct {
    Body string `json:"body"`
  }
  if err := c.ShouldBindJSON(&req); err != nil {
    RespondError(c, apierr.Validation("invalid request body"))
    return
  }
  comment, err := ch.communityService.AddComment(c.Request.Context(), postID, req.Body)
  if err != nil {
    RespondError(c, err)
    return
  }
  RespondCreated(c, comment)
}

func (ch *CommunityHandler) DeleteComment(c *gin.Context) {
  commentID, err := pathUUID(c, "commentId")
  if err != nil {
    RespondError(c, err)
    return
  }
  if err := ch.communityService.DeleteComment(c.Request.Context(), commentID); err != nil {
    RespondError(c, err)
    return
  }
  RespondOK(c, gin.H{"message": "comment deleted"})
}

func (ch *CommunityHandler) React(c *gin.Context) {
  postID, err := pathUUID(c, "postId")
  if err != nil {
    RespondError(c, err)
    return
  }
  var req struct {
    Kind string `json:"kind"`
  }
  if err := c.ShouldBindJSON(&req); err != nil {
    RespondError(c, apierr.Validation("invalid request body"))
    return
  }
  if err := ch.communityService.React(c.Request.Context(), postID, req.Kind); err != nil {
    RespondError(c, err)
    return
  }
  RespondOK(c, gin.H{"message": "reaction added"})
}

func (ch *CommunityHandler) Unreact(c *gin.Context) {
  postID, err := pathUUID(c, "postId")
  if err != nil {
    RespondError(c, err)
    return
  }
  kind := c.Query("kind")
  if err := ch.communityService.Unreact(c.Request.Context(), postID, kind); err != nil {
    RespondError(c, err)
    return
  }
  RespondOK(c, gin.H{"message": "reaction removed"})
}
