package server

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"kanboard/internal/auth"
	"kanboard/internal/config"
	"kanboard/internal/handler"
	"kanboard/internal/middleware"
	"kanboard/internal/model"
	"kanboard/internal/notify"
	"kanboard/internal/realtime"
	"kanboard/internal/repository"
	"kanboard/internal/service"
	"kanboard/internal/workspace"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/rs/cors"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

type Server struct {
	Engine  *gin.Engine
	Handler http.Handler
	DB      *gorm.DB
	Config  *config.Config
	Kanban  *service.Kanban

	hub    *realtime.Hub
	redis  *notify.RedisPublisher
	cancel context.CancelFunc
}

func Init(cfg *config.Config) (*Server, error) {
	ctx, cancel := context.WithCancel(context.Background())
	s := &Server{Config: cfg, cancel: cancel}

	if err := s.init(ctx); err != nil {
		s.Close()
		return nil, err
	}
	return s, nil
}

func (s *Server) init(ctx context.Context) error {
	cfg := s.Config

	s.hub = realtime.NewHub()
	go s.hub.Run(ctx)

	notifiers := []notify.Notifier{notify.LogNotifier{}, s.hub}
	if cfg.RedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		if err := rdb.Ping(pingCtx).Err(); err != nil {
			rdb.Close()
			return fmt.Errorf("❌ failed to connect to redis: %w", err)
		}
		log.Println("✅ Connected to redis")

		s.redis = notify.NewRedisPublisher(rdb, cfg.RedisChannelPrefix)
		notifiers = append(notifiers, s.redis)
	}

	opts := []service.Option{service.WithNotifier(notify.Multi(notifiers...))}
	var userRepo repository.UserRepositoryInterface

	switch cfg.Storage {
	case config.StoragePostgres:
		db, err := gorm.Open(postgres.Open(cfg.DSN()), &gorm.Config{})
		if err != nil {
			return fmt.Errorf("❌ failed to connect to DB: %w", err)
		}
		log.Println("✅ Connected to database")
		s.DB = db

		userRepo = repository.NewUserRepository(db)
		opts = append(opts, service.WithPersistence(
			repository.NewWorkspaceRepository(db),
			repository.NewBoardRepository(db),
		))
	case config.StorageMemory:
		log.Println("⚠️  Using in-memory storage, changes are lost on restart")
		userRepo = repository.NewMemoryUserRepository()
	default:
		return fmt.Errorf("❌ unknown storage %q", cfg.Storage)
	}

	s.Kanban = service.New(opts...)

	var seed []model.Workspace
	if cfg.SeedSampleData {
		seed = workspace.Sample(time.Now())
	}
	if err := s.Kanban.Load(ctx, seed); err != nil {
		return fmt.Errorf("❌ failed to load workspaces: %w", err)
	}

	if s.redis != nil {
		if s.DB == nil {
			log.Println("⚠️  Redis relay without postgres storage forwards notifications only, boards are not shared")
		}
		go s.relay(ctx)
	}

	s.Engine = NewRouter(cfg, s.Kanban, userRepo, s.hub)
	s.Handler = cors.New(cors.Options{
		AllowedOrigins:   cfg.CORSAllowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		AllowCredentials: true,
	}).Handler(s.Engine)
	return nil
}

// relay applies changes made by other instances before handing their
// notifications to local websocket clients.
func (s *Server) relay(ctx context.Context) {
	err := s.redis.Subscribe(ctx, func(n notify.Notification) {
		if err := s.Kanban.Apply(ctx, n); err != nil {
			log.Printf("⚠️  Failed to apply %s from another instance: %v", n.Kind, err)
		}
		s.hub.Notify(n)
	})
	if err != nil {
		log.Printf("⚠️  Notification relay stopped: %v", err)
	}
}

// NewRouter registers every HTTP and websocket route.
func NewRouter(cfg *config.Config, kanban *service.Kanban, userRepo repository.UserRepositoryInterface, hub *realtime.Hub) *gin.Engine {
	r := gin.New()
	r.Use(middleware.AccessLogger(gin.DefaultWriter), gin.Recovery())

	tokens := auth.NewTokenManager(cfg.JWTSecret, cfg.JWTExpiry())

	userHandler := handler.NewUserHandler(userRepo, tokens)
	workspaceHandler := handler.NewWorkspaceHandler(kanban)
	boardHandler := handler.NewBoardHandler(kanban)
	cardHandler := handler.NewCardHandler(kanban, userRepo)
	wsHandler := realtime.NewHandler(kanban, hub, cfg.CORSAllowedOrigins)

	// Public routes
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	r.POST("/register", userHandler.Register)
	r.POST("/login", userHandler.Login)
	r.GET("/boards/:board_id/ws", middleware.WebSocketAuthMiddleware(tokens), wsHandler.ServeWS)

	// Protected routes - require authentication
	authorized := r.Group("/")
	authorized.Use(middleware.JWTAuthMiddleware(tokens))
	{
		authorized.GET("/users", userHandler.List)

		// Workspace routes
		authorized.GET("/workspaces", workspaceHandler.GetAll)
		authorized.POST("/workspaces", workspaceHandler.Create)
		authorized.GET("/workspaces/current", workspaceHandler.GetCurrent)
		authorized.GET("/workspaces/:id", workspaceHandler.GetByID)
		authorized.PUT("/workspaces/:id", workspaceHandler.Update)
		authorized.DELETE("/workspaces/:id", workspaceHandler.Delete)
		authorized.POST("/workspaces/:id/current", workspaceHandler.SetCurrent)

		// Board routes
		authorized.POST("/workspaces/:id/boards", boardHandler.Create)
		authorized.DELETE("/workspaces/:id/boards/:board_id", boardHandler.Delete)
		authorized.GET("/boards/:board_id", boardHandler.GetByID)
		authorized.PUT("/boards/:board_id", boardHandler.Update)

		// List routes
		authorized.POST("/boards/:board_id/lists", boardHandler.AddList)
		authorized.PUT("/boards/:board_id/lists/:list_id", boardHandler.UpdateList)
		authorized.DELETE("/boards/:board_id/lists/:list_id", boardHandler.DeleteList)
		authorized.PUT("/boards/:board_id/lists/:list_id/cover", boardHandler.UpdateListCover)
		authorized.POST("/boards/:board_id/lists/:list_id/move", boardHandler.MoveList)

		// Card routes
		authorized.POST("/boards/:board_id/lists/:list_id/cards", cardHandler.Create)
		authorized.POST("/boards/:board_id/cards/:card_id/move", cardHandler.Move)

		card := authorized.Group("/boards/:board_id/lists/:list_id/cards/:card_id")
		card.GET("", cardHandler.GetByID)
		card.PUT("", cardHandler.Update)
		card.DELETE("", cardHandler.Delete)
		card.POST("/comments", cardHandler.AddComment)
		card.DELETE("/comments/:comment_id", cardHandler.DeleteComment)
		card.POST("/checklists", cardHandler.AddChecklist)
		card.DELETE("/checklists/:checklist_id", cardHandler.DeleteChecklist)
		card.POST("/checklists/:checklist_id/items", cardHandler.AddChecklistItem)
		card.PUT("/checklists/:checklist_id/items/:item_id", cardHandler.UpdateChecklistItem)
		card.DELETE("/checklists/:checklist_id/items/:item_id", cardHandler.DeleteChecklistItem)
		card.POST("/labels", cardHandler.AddLabel)
		card.DELETE("/labels/:label_id", cardHandler.DeleteLabel)
		card.POST("/assignees", cardHandler.AssignUser)
		card.DELETE("/assignees/:user_id", cardHandler.UnassignUser)
		card.PUT("/due-date", cardHandler.UpdateDueDate)
		card.POST("/attachments", cardHandler.AddAttachment)
		card.DELETE("/attachments/:attachment_id", cardHandler.DeleteAttachment)
		card.PUT("/cover", cardHandler.UpdateCover)
	}
	return r
}

func (s *Server) Run() {
	srv := &http.Server{
		Addr:    ":" + s.Config.ServerPort,
		Handler: s.Handler,
	}

	go func() {
		log.Printf("🚀 Server running on port %s\n", s.Config.ServerPort)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("❌ Failed to listen: %s\n", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("🛑 Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("❌ Server forced to shutdown: %s", err)
	}
	s.Close()

	log.Println("✅ Server exited properly")
}

// Close stops the hub and releases the redis and database connections.
func (s *Server) Close() {
	s.cancel()
	if s.redis != nil {
		if err := s.redis.Close(); err != nil {
			log.Printf("⚠️  Failed to close redis: %v", err)
		}
	}
	if s.DB != nil {
		if sqlDB, err := s.DB.DB(); err == nil {
			sqlDB.Close()
		}
	}
}
