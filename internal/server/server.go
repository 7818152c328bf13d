package server

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"join/internal/config"
	"join/internal/handler"
	"join/internal/middleware"
	"join/internal/model"
	"join/internal/repository"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

type Server struct {
	Engine *gin.Engine
	DB     *gorm.DB
	Redis  *redis.Client
	Config *config.Config
}

// Repositories groups the storage the routes are served from.
type Repositories struct {
	Users      repository.UserRepositoryInterface
	Tasks      repository.TaskRepositoryInterface
	Subtasks   repository.SubtaskRepositoryInterface
	Contacts   repository.ContactRepositoryInterface
	Categories repository.CategoryRepositoryInterface
}

func Init(cfg *config.Config) (*Server, error) {
	// Setup GORM
	dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		cfg.DBHost, cfg.DBPort, cfg.DBUser, cfg.DBPassword, cfg.DBName,
	)
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("❌ failed to connect to DB: %w", err)
	}
	log.Info("✅ Connected to database")

	if err := migrate(db); err != nil {
		return nil, fmt.Errorf("❌ failed to migrate schema: %w", err)
	}

	repos := Repositories{
		Users:      repository.NewUserRepository(db),
		Tasks:      repository.NewTaskRepository(db),
		Subtasks:   repository.NewSubtaskRepository(db),
		Contacts:   repository.NewContactRepository(db),
		Categories: repository.NewCategoryRepository(db),
	}

	var rdb *redis.Client
	if cfg.RedisAddr != "" {
		rdb = redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		if err := rdb.Ping(context.Background()).Err(); err != nil {
			log.WithError(err).Warn("⚠️  Redis unreachable, categories are served uncached")
			_ = rdb.Close()
			rdb = nil
		} else {
			repos.Categories = repository.NewCategoryCache(repos.Categories, rdb, cfg.CategoryCacheTTL)
			log.Info("✅ Connected to redis")
		}
	}

	return &Server{
		Engine: NewRouter(cfg, repos),
		DB:     db,
		Redis:  rdb,
		Config: cfg,
	}, nil
}

// NewRouter wires every route onto a fresh gin engine.
func NewRouter(cfg *config.Config, repos Repositories) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestLogger(log.StandardLogger()))

	userHandler := handler.NewUserHandler(repos.Users, cfg.JWTSecret, cfg.TokenTTL)
	taskHandler := handler.NewTaskHandler(repos.Tasks, repos.Subtasks, repos.Contacts, repos.Categories)
	subtaskHandler := handler.NewSubtaskHandler(repos.Subtasks)
	contactHandler := handler.NewContactHandler(repos.Contacts)
	categoryHandler := handler.NewCategoryHandler(repos.Categories)

	// Public routes
	r.POST("/signup/", userHandler.Signup)
	r.POST("/login/", userHandler.Login)
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Protected routes - require authentication
	authorized := r.Group("/")
	authorized.Use(middleware.JWTAuthMiddleware(cfg.JWTSecret))
	{
		// Task routes
		authorized.GET("/tasks/", taskHandler.List)
		authorized.POST("/tasks/", taskHandler.Create)
		authorized.GET("/tasks/:id/", taskHandler.GetByID)
		authorized.PUT("/tasks/:id/", taskHandler.Update)
		authorized.DELETE("/tasks/:id/", taskHandler.Delete)

		// Subtask routes
		authorized.GET("/subtasks/", subtaskHandler.List)
		authorized.POST("/subtasks/", subtaskHandler.Create)
		authorized.GET("/subtasks/:id/", subtaskHandler.GetByID)
		authorized.PUT("/subtasks/:id/", subtaskHandler.Update)
		authorized.DELETE("/subtasks/:id/", subtaskHandler.Delete)

		// Contact routes
		authorized.GET("/contacts/", contactHandler.List)
		authorized.POST("/contacts/", contactHandler.Create)
		authorized.GET("/contacts/:id/", contactHandler.GetByID)
		authorized.PUT("/contacts/:id/", contactHandler.Update)
		authorized.DELETE("/contacts/:id/", contactHandler.Delete)

		// Category routes
		authorized.GET("/categories/", categoryHandler.List)
		authorized.POST("/categories/", categoryHandler.Create)
		authorized.GET("/categories/:id/", categoryHandler.GetByID)
	}
	return r
}

func migrate(db *gorm.DB) error {
	if err := db.Exec(`CREATE EXTENSION IF NOT EXISTS "uuid-ossp"`).Error; err != nil {
		return err
	}
	return db.AutoMigrate(
		&model.User{},
		&model.Category{},
		&model.Contact{},
		&model.Subtask{},
		&model.Task{},
	)
}

func (s *Server) Run() {
	srv := &http.Server{
		Addr:    ":" + s.Config.ServerPort,
		Handler: s.Engine,
	}

	go func() {
		log.Infof("🚀 Server running on port %s", s.Config.ServerPort)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("❌ Failed to listen: %s", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("🛑 Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("❌ Server forced to shutdown: %s", err)
	}
	if s.Redis != nil {
		_ = s.Redis.Close()
	}

	log.Info("✅ Server exited properly")
}
