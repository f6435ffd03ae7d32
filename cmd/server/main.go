package main

import (
	"log"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/pokerun/leaderboard/internal/broker"
	"github.com/pokerun/leaderboard/internal/config"
	"github.com/pokerun/leaderboard/internal/database"
	"github.com/pokerun/leaderboard/internal/handler"
	"github.com/pokerun/leaderboard/internal/middleware"
	"github.com/pokerun/leaderboard/internal/repository"
	"github.com/pokerun/leaderboard/internal/service"
	"github.com/pokerun/leaderboard/pkg/logger"
)

func main() {
	cfg := config.Load()

	if err := logger.Init(!cfg.IsProduction()); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	database.Connect(cfg)
	database.Migrate()

	// Redis backs the live run feed and the auth rate limiter; both are
	// optional and the service runs without them.
	var runEvents broker.RunEventBroker
	var redisBroker *broker.RedisRunEventBroker
	if cfg.RedisURL != "" {
		var err error
		redisBroker, err = broker.NewRedisRunEventBroker(cfg.RedisURL)
		if err != nil {
			log.Fatalf("Failed to connect to redis: %v", err)
		}
		defer redisBroker.Close()
		runEvents = redisBroker
	} else {
		log.Println("REDIS_URL not set; live feed and rate limiting disabled")
	}

	// Repositories
	userRepo := repository.NewUserRepository(database.DB)
	runRepo := repository.NewRunRepository(database.DB)
	resetRepo := repository.NewResetTokenRepository(database.DB)

	// Services
	authService := service.NewAuthService(userRepo, resetRepo, cfg.JWTSecret, cfg.JWTExpiry)
	runService := service.NewRunService(runRepo, runEvents)

	// Handlers
	authHandler := handler.NewAuthHandler(authService)
	runHandler := handler.NewRunHandler(runService)
	adminHandler := handler.NewAdminHandler(authService)

	// Router
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.Default()

	router.Use(cors.New(cors.Config{
		AllowAllOrigins:  true,
		AllowMethods:     []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		AllowCredentials: false,
	}))
	router.Use(middleware.SecurityHeadersMiddleware())
	router.Use(middleware.HSTSMiddleware(cfg.IsProduction()))

	api := router.Group("/api")

	// Credential endpoints, rate limited when redis is available
	auth := api.Group("/auth")
	if redisBroker != nil {
		limiter := middleware.NewRateLimiter(redisBroker.Client(), middleware.RateLimiterConfig{
			MaxRequests: cfg.RateLimitMaxRequests,
			Window:      cfg.RateLimitWindow,
		})
		auth.Use(limiter.Middleware())
	}
	auth.POST("/register", authHandler.Register)
	auth.POST("/login", authHandler.Login)
	auth.POST("/forgot-password", authHandler.ForgotPassword)
	auth.POST("/reset-password", authHandler.ResetPassword)

	// Public run reads
	api.GET("/runs", runHandler.GetAllRuns)
	api.GET("/runs/fastest", runHandler.GetFastestRuns)
	api.GET("/runs/pokedex", runHandler.GetByPokedexStatus)
	api.GET("/runs/team", runHandler.GetByPokemonInTeam)
	api.GET("/runs/stats/count-by-game", runHandler.GetRunsCountByGame)
	api.GET("/runs/stats/avg-time-by-game", runHandler.GetAvgRunTimeByGame)
	api.GET("/runs/stats/top-pokemons", runHandler.GetTopPokemonsUsed)
	api.GET("/runs/export/csv", runHandler.ExportRunsToCsv)
	api.GET("/runs/game/:game", runHandler.GetRunsByGame)
	api.GET("/runs/:id", runHandler.GetRunByID)

	// Live feed of newly submitted runs
	if runEvents != nil {
		feedHandler := handler.NewFeedHandler(runEvents)
		if err := feedHandler.Start(); err != nil {
			log.Fatalf("Failed to start run feed: %v", err)
		}
		api.GET("/ws/feed", feedHandler.HandleFeed)
	}

	// Authenticated routes
	protected := api.Group("")
	protected.Use(middleware.AuthMiddleware(cfg.JWTSecret, userRepo))
	{
		protected.PATCH("/auth/change-password", authHandler.ChangePassword)
		protected.POST("/runs", runHandler.CreateRun)
		protected.GET("/runs/me", runHandler.GetMyRuns)
		protected.PATCH("/runs/:id", runHandler.UpdateRun)
		protected.DELETE("/runs/:id", runHandler.DeleteRun)
	}

	// Admin routes
	admin := api.Group("/admin")
	admin.Use(middleware.AuthMiddleware(cfg.JWTSecret, userRepo), middleware.AdminMiddleware())
	{
		admin.GET("/users", adminHandler.ListUsers)
		admin.DELETE("/users/:id", adminHandler.DeleteUser)
	}

	log.Printf("Server starting on %s", cfg.ServerPort)
	if err := router.Run(cfg.ServerPort); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
