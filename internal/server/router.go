package server

import (
  "github.com/gin-contrib/cors"
  "github.com/gin-gonic/gin"
  "go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
  "github.com/anchorhealth/anchor-backend/internal/handlers"
  "github.com/anchorhealth/anchor-backend/internal/middleware"
)

type RouterConfig struct {
  AuthMiddleware   *middleware.AuthMiddleware
  AuthHandler      *handlers.AuthHandler
  UserHandler      *handlers.UserHandler
  AddictionHandler *handlers.AddictionHandler
  SobrietyHandler  *handlers.SobrietyHandler
  CravingHandler   *handlers.CravingHandler
  MoodHandler      *handlers.MoodHandler
  InsightHandler   *handlers.InsightHandler
  CommunityHandler *handlers.CommunityHandler
  MessageHandler   *handlers.MessageHandler
  FeedbackHandler  *handlers.FeedbackHandler
  AdminHandler     *handlers.AdminHandler
  StreamHandler    *handlers.StreamHandler
  AllowOrigins     []string
}

func NewRouter(cfg RouterConfig) *gin.Engine {
  router := gin.Default()

  router.Use(otelgin.Middleware("anchor-backend"))

  origins := cfg.AllowOrigins
  if len(origins) == 0 {
    origins = []string{"http://localhost:3000"}
  }
  router.Use(cors.New(cors.Config{
    AllowOrigins:     origins,
    AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"},
    AllowHeaders:     []string{"Authorization", "Content-Type", "X-Requested-With"},
    AllowCredentials: true,
  }))

  // ===============
  // || Public    ||
  // ===============
  router.GET("/healthcheck", handlers.HealthCheck)
  router.POST("/register", cfg.AuthHandler.Register)
  router.POST("/login", cfg.AuthHandler.Login)
  router.POST("/refresh", cfg.AuthHandler.Refresh)

  // ===============
  // || Protected ||
  // ===============
  protected := router.Group("/")
  protected.Use(cfg.AuthMiddleware.RequireAuth())
  // Auth
  protected.POST("/logout", cfg.AuthHandler.Logout)
  // User
  protected.GET("/user", cfg.UserHandler.GetMe)
  protected.PATCH("/user", cfg.UserHandler.UpdateProfile)
  protected.DELETE("/user", cfg.UserHandler.DeleteAccount)
  // Addiction catalog
  protected.GET("/addictions", cfg.AddictionHandler.ListCatalog)
  // Sobriety tracking
  protected.POST("/sobriety/enroll", cfg.SobrietyHandler.Enroll)
  protected.GET("/sobriety/enrollments", cfg.SobrietyHandler.ListEnrollments)
  protected.DELETE("/sobriety/enrollments/:enrollmentId", cfg.SobrietyHandler.Deactivate)
  protected.POST("/sobriety/log", cfg.SobrietyHandler.LogEvent)
  protected.GET("/sobriety/log/:enrollmentId", cfg.SobrietyHandler.ListEvents)
  protected.GET("/sobriety/streak/:enrollmentId", cfg.SobrietyHandler.GetStreak)
  protected.GET("/sobriety/streaks", cfg.SobrietyHandler.ListStreaks)
  // Slips
  protected.POST("/slips", cfg.SobrietyHandler.LogSlip)
  protected.GET("/slips/stats", cfg.SobrietyHandler.SlipStats)
  // Cravings
  protected.POST("/cravings", cfg.CravingHandler.LogCraving)
  protected.GET("/cravings", cfg.CravingHandler.ListCravings)
  // Moods
  protected.POST("/moods", cfg.MoodHandler.LogMood)
  protected.GET("/moods", cfg.MoodHandler.ListMoods)
  // Insights
  protected.GET("/insights/craving-heatmap", cfg.InsightHandler.CravingHeatmap)
  protected.GET("/insights/triggers", cfg.InsightHandler.Triggers)
  protected.GET("/insights/patterns", cfg.InsightHandler.Patterns)
  protected.GET("/insights/summary", cfg.InsightHandler.Summary)
  // Community
  protected.POST("/posts", cfg.CommunityHandler.CreatePost)
  protected.GET("/posts", cfg.CommunityHandler.ListPosts)
  protected.GET("/posts/:postId", cfg.CommunityHandler.GetPost)
  protected.DELETE("/posts/:postId", cfg.CommunityHandler.DeletePost)
  protected.POST("/posts/:postId/comments", cfg.CommunityHandler.AddComment)
  protected.DELETE("/comments/:commentId", cfg.CommunityHandler.DeleteComment)
  protected.POST("/posts/:postId/reactions", cfg.CommunityHandler.React)
  protected.DELETE("/posts/:postId/reactions", cfg.CommunityHandler.Unreact)
  // Messages
  protected.POST("/messages", cfg.MessageHandler.Send)
  protected.GET("/conversations", cfg.MessageHandler.Conversations)
  protected.GET("/messages/:partnerId", cfg.MessageHandler.Conversation)
  protected.POST("/messages/:partnerId/read", cfg.MessageHandler.MarkRead)
  // Feedback
  protected.POST("/feedback", cfg.FeedbackHandler.Submit)
  // Activity tracking
  protected.POST("/events", cfg.AdminHandler.Track)
  // Stream
  protected.GET("/stream", cfg.StreamHandler.Stream)

  // ===============
  // || Admin     ||
  // ===============
  admin := router.Group("/admin")
  admin.Use(cfg.AuthMiddleware.RequireAuth(), cfg.AuthMiddleware.RequireAdmin())
  admin.GET("/overview", cfg.AdminHandler.Overview)
  admin.GET("/feedback", cfg.AdminHandler.ListFeedback)

  return router
}
