package main

import (
  "context"
  "fmt"
  "os"
  "strings"
  "time"
  "github.com/joho/godotenv"
  "github.com/anchorhealth/anchor-backend/internal/clients/redis"
  "github.com/anchorhealth/anchor-backend/internal/db"
  "github.com/anchorhealth/anchor-backend/internal/handlers"
  "github.com/anchorhealth/anchor-backend/internal/logger"
  "github.com/anchorhealth/anchor-backend/internal/middleware"
  "github.com/anchorhealth/anchor-backend/internal/observability"
  "github.com/anchorhealth/anchor-backend/internal/repos"
  "github.com/anchorhealth/anchor-backend/internal/server"
  "github.com/anchorhealth/anchor-backend/internal/services"
  "github.com/anchorhealth/anchor-backend/internal/sse"
  "github.com/anchorhealth/anchor-backend/internal/utils"
)

func main() {
  _ = godotenv.Load()

  // Logger
  logMode := os.Getenv("LOG_MODE")
  if logMode == "" {
    logMode = "development"
  }
  log, err := logger.New(logMode)
  if err != nil {
    fmt.Printf("Failed to init logger: %v\n", err)
    os.Exit(1)
  }
  defer log.Sync()

  // Env
  log.Info("Loading environment variables from main...")
  jwtSecretKey := utils.GetEnv("JWT_SECRET_KEY", "", log)
  if jwtSecretKey == "" {
    log.Fatal("JWT_SECRET_KEY is required")
  }
  accessTokenTTL := utils.GetEnvAsInt("ACCESS_TOKEN_TTL", 3600, log)
  refreshTokenTTL := utils.GetEnvAsInt("REFRESH_TOKEN_TTL", 2592000, log)
  catalogPath := utils.GetEnv("ADDICTION_CATALOG_PATH", "config/addictions.yaml", log)

  // Tracing
  otelShutdown := observability.InitOTel(context.Background(), log, observability.OtelConfig{
    ServiceName: "anchor-backend",
    Environment: utils.GetEnv("APP_ENV", "development", log),
    Version:     utils.GetEnv("APP_VERSION", "dev", log),
  })
  if otelShutdown != nil {
    defer func() {
      ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
      defer cancel()
      _ = otelShutdown(ctx)
    }()
  }

  // Postgres
  postgresService, err := db.NewPostgresService(log)
  if err != nil {
    log.Fatal("Postgres init failed", "error", err)
  }
  if err = postgresService.AutoMigrateAll(); err != nil {
    log.Fatal("Postgres auto migration failed", "error", err)
  }
  thePG := postgresService.DB()
  if err := db.SeedAddictionCatalog(thePG, log, catalogPath); err != nil {
    log.Warn("Addiction catalog seed failed", "error", err)
  }

  // Repos
  log.Info("Setting up Repos from main...")
  userRepo := repos.NewUserRepo(thePG, log)
  userTokenRepo := repos.NewUserTokenRepo(thePG, log)
  addictionRepo := repos.NewAddictionRepo(thePG, log)
  enrollmentRepo := repos.NewEnrollmentRepo(thePG, log)
  eventRepo := repos.NewRecoveryEventRepo(thePG, log)
  cravingRepo := repos.NewCravingLogRepo(thePG, log)
  moodRepo := repos.NewMoodLogRepo(thePG, log)
  postRepo := repos.NewPostRepo(thePG, log)
  commentRepo := repos.NewCommentRepo(thePG, log)
  reactionRepo := repos.NewReactionRepo(thePG, log)
  messageRepo := repos.NewMessageRepo(thePG, log)
  feedbackRepo := repos.NewFeedbackRepo(thePG, log)
  activityRepo := repos.NewActivityEventRepo(thePG, log)

  // SSE
  log.Info("Setting up SSE hub now...")
  sseHub := sse.NewHub(log)
  var bus redis.Bus
  if strings.TrimSpace(os.Getenv("REDIS_ADDR")) != "" {
    bus, err = redis.NewBus(log)
    if err != nil {
      log.Warn("Redis bus init failed; realtime fanout disabled", "error", err)
    } else {
      defer bus.Close()
      if err := bus.StartForwarder(context.Background(), sseHub.Broadcast); err != nil {
        log.Warn("Redis forwarder failed to start", "error", err)
      }
    }
  }

  // Services
  log.Info("Setting up Services from main...")
  authService := services.NewAuthService(thePG, log, userRepo, userTokenRepo, jwtSecretKey, time.Duration(accessTokenTTL)*time.Second, time.Duration(refreshTokenTTL)*time.Second)
  userService := services.NewUserService(thePG, log, userRepo)
  addictionService := services.NewAddictionService(thePG, log, addictionRepo)
  sobrietyService := services.NewSobrietyService(thePG, log, enrollmentRepo, eventRepo)
  cravingService := services.NewCravingService(thePG, log, enrollmentRepo, cravingRepo)
  moodService := services.NewMoodService(thePG, log, moodRepo)
  insightService := services.NewInsightService(thePG, log, cravingRepo, eventRepo)
  var publisher services.Publisher
  if bus != nil {
    publisher = bus
  }
  communityService := services.NewCommunityService(thePG, log, postRepo, commentRepo, reactionRepo, publisher)
  messageService := services.NewMessageService(thePG, log, userRepo, messageRepo, publisher)
  feedbackService := services.NewFeedbackService(thePG, log, feedbackRepo)
  adminService := services.NewAdminService(thePG, log, userRepo, enrollmentRepo, eventRepo, cravingRepo, feedbackRepo, activityRepo)

  // Handlers
  log.Info("Setting up handlers from main...")
  authHandler := handlers.NewAuthHandler(authService)
  userHandler := handlers.NewUserHandler(userService)
  addictionHandler := handlers.NewAddictionHandler(addictionService)
  sobrietyHandler := handlers.NewSobrietyHandler(sobrietyService)
  cravingHandler := handlers.NewCravingHandler(cravingService)
  moodHandler := handlers.NewMoodHandler(moodService)
  insightHandler := handlers.NewInsightHandler(insightService)
  communityHandler := handlers.NewCommunityHandler(communityService)
  messageHandler := handlers.NewMessageHandler(messageService)
  feedbackHandler := handlers.NewFeedbackHandler(feedbackService)
  adminHandler := handlers.NewAdminHandler(adminService)
  streamHandler := handlers.NewStreamHandler(log, sseHub)

  // Middleware
  log.Info("Setting up middleware from main...")
  authMiddleware := middleware.NewAuthMiddleware(log, authService)

  // Router
  log.Info("Setting up router from main...")
  var allowOrigins []string
  if raw := utils.GetEnv("CORS_ALLOW_ORIGINS", "", log); raw != "" {
    for _, origin := range strings.Split(raw, ",") {
      if origin = strings.TrimSpace(origin); origin != "" {
        allowOrigins = append(allowOrigins, origin)
      }
    }
  }
  router := server.NewRouter(server.RouterConfig{
    AuthMiddleware:   authMiddleware,
    AuthHandler:      authHandler,
    UserHandler:      userHandler,
    AddictionHandler: addictionHandler,
    SobrietyHandler:  sobrietyHandler,
    CravingHandler:   cravingHandler,
    MoodHandler:      moodHandler,
    InsightHandler:   insightHandler,
    CommunityHandler: communityHandler,
    MessageHandler:   messageHandler,
    FeedbackHandler:  feedbackHandler,
    AdminHandler:     adminHandler,
    StreamHandler:    streamHandler,
    AllowOrigins:     allowOrigins,
  })

  port := utils.GetEnv("PORT", "8080", log)
  fmt.Printf("Server listening on :%s\n", port)
  if err := router.Run(":" + port); err != nil {
    log.Fatal("Server failed", "error", err)
  }
}
