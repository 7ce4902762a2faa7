package main

import (
	"log"
	"time"

	"match-service/internal/clock"
	"match-service/internal/config"
	"match-service/internal/db"
	"match-service/internal/event"
	"match-service/internal/handlers"
	"match-service/internal/repository"
	"match-service/internal/scoring"
	"match-service/internal/selection"
	"match-service/internal/service"
	"match-service/internal/session"
	"match-service/internal/ws"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	// Load env
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system env")
	}
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Config error: %v", err)
	}

	db.InitMongo(cfg.MongoURI)
	database := db.Client.Database(cfg.MongoDB)

	// RabbitMQ event publisher
	var publisher *event.EventPublisher
	if cfg.RabbitURI != "" && cfg.RabbitExchange != "" {
		publisher, err = event.NewEventPublisher(cfg.RabbitURI, cfg.RabbitExchange)
		if err != nil {
			log.Fatalf("Failed to connect to RabbitMQ: %v", err)
		}
		defer publisher.Close()
	} else {
		log.Println("RabbitMQ not configured, lifecycle events will not be published")
	}

	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:3000"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Content-Type", "Content-Length", "Accept-Encoding", "Authorization", "accept", "origin", "Cache-Control", "X-Requested-With"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// Repositories
	matchRepo := repository.NewMatchRepository(database)
	questionRepo := repository.NewQuestionRepository(database)
	answerRepo := repository.NewAnswerRepository(database)
	themeRepo := repository.NewThemeRepository(database)

	// Broadcast gateway
	hub := ws.NewHub(cfg.RateLimitEvents, cfg.RateLimitWindow)

	// Orchestrator and matchmaker
	clk := clock.New()
	rule := scoring.Rule{MaxPoints: cfg.MaxPoints, TimeBonusWeight: cfg.TimeBonusWeight}
	selector := selection.NewSelector(questionRepo)
	registry := session.NewRegistry()

	var sysPub service.SystemPublisher
	if publisher != nil {
		sysPub = publisher
	}

	matchService := service.NewMatchService(
		matchRepo,
		answerRepo,
		selector,
		registry,
		hub,
		sysPub,
		clk,
		rule,
		service.Options{
			QuestionsPerMatch: cfg.QuestionsPerMatch,
			QuestionTimeLimit: cfg.QuestionTimeLimit,
			TickInterval:      cfg.TickInterval,
			InterQuestionGap:  cfg.InterQuestionGap,
		},
	)
	matchmaker := service.NewMatchmakerService(
		matchRepo,
		themeRepo,
		matchService,
		hub,
		sysPub,
		clk,
		cfg.MatchStartDelay,
	)
	ws.NewGameDispatcher(hub, matchmaker, matchService)

	// Admin services and handlers
	themeService := service.NewThemeService(themeRepo)
	themeHandler := handlers.NewThemeHandler(themeService, selector, cfg.QuestionsPerMatch)

	questionService := service.NewQuestionService(questionRepo)
	questionHandler := handlers.NewQuestionHandler(questionService)

	answerService := service.NewAnswerService(answerRepo)
	answerHandler := handlers.NewAnswerHandler(answerService)

	matchHandler := handlers.NewMatchHandler(matchService)
	wsHandler := handlers.NewWsHandler(hub)

	r.GET("/ws", wsHandler.Serve)
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok", "live_matches": registry.Len()})
	})

	publicTheme := r.Group("/public/match/theme")
	{
		publicTheme.GET("/", themeHandler.ListThemes)
		publicTheme.GET("/:id", themeHandler.GetTheme)
		publicTheme.GET("/:id/readiness", themeHandler.ThemeReadiness)
	}

	protectedTheme := r.Group("/protected/match/theme")
	{
		protectedTheme.POST("/", themeHandler.CreateTheme)
		protectedTheme.PUT("/:id", themeHandler.UpdateTheme)
		protectedTheme.DELETE("/:id", themeHandler.DeleteTheme)
	}

	protectedQuestion := r.Group("/protected/match/question")
	{
		protectedQuestion.GET("/theme/:themeId", questionHandler.ListByTheme)
		protectedQuestion.GET("/:id", questionHandler.GetQuestion)
		protectedQuestion.POST("/", questionHandler.CreateQuestion)
		protectedQuestion.PUT("/:id", questionHandler.UpdateQuestion)
		protectedQuestion.DELETE("/:id", questionHandler.DeleteQuestion)
	}

	publicMatch := r.Group("/public/match")
	{
		publicMatch.GET("/:id", matchHandler.GetMatch)
	}

	protectedMatch := r.Group("/protected/match")
	{
		protectedMatch.POST("/:id/cancel", matchHandler.CancelMatch)
		protectedMatch.GET("/:id/answers", answerHandler.GetAnswersByMatch)
	}

	r.Run(":" + cfg.Port)
}
