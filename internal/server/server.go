package server

import (
	"context"
	"log"
	"strings"
	"time"

	"github.com/campusgrid/studentportal/internal/config"
	"github.com/campusgrid/studentportal/internal/handler"
	"github.com/campusgrid/studentportal/internal/middleware"
	"github.com/campusgrid/studentportal/internal/model"
	"github.com/campusgrid/studentportal/internal/repository"
	"github.com/campusgrid/studentportal/internal/service"
	"github.com/campusgrid/studentportal/internal/token"
	"github.com/campusgrid/studentportal/pkg/storage"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

const orphanSweepInterval = 12 * time.Hour

type Server struct {
	engine *gin.Engine
	db     *gorm.DB
}

func New(cfg *config.Config, db *gorm.DB) (*Server, error) {
	fileStorage, err := storage.NewLocalStorage(cfg.UploadDir)
	if err != nil {
		return nil, err
	}

	tokens := token.NewService(cfg.JWTSecret, cfg.TokenTTL)

	userRepo := repository.NewUserRepository(db)
	authService := service.NewAuthService(userRepo, tokens)
	authHandler := handler.NewAuthHandler(authService, tokens)

	studentRepo := repository.NewStudentRepository(db)
	studentService := service.NewStudentService(studentRepo, fileStorage)
	studentHandler := handler.NewStudentHandler(studentService)

	// Orphan file sweep (background)
	go func() {
		ticker := time.NewTicker(orphanSweepInterval)
		defer ticker.Stop()

		for range ticker.C {
			if err := studentService.CleanupOrphanFiles(context.Background()); err != nil {
				log.Printf("Error cleaning up orphan files: %v", err)
			}
		}
	}()

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(gin.Logger())
	setupCORS(router, cfg)

	authMiddleware := middleware.NewAuthMiddleware(tokens)

	api := router.Group("/api")

	// Public routes
	auth := api.Group("/auth")
	{
		auth.POST("/register", authHandler.Register)
		auth.POST("/login", authHandler.Login)
	}

	// Protected routes
	protected := api.Group("")
	protected.Use(authMiddleware.RequireAuth())
	{
		protected.GET("/auth/verify", authHandler.Verify)
		protected.POST("/auth/refresh", authHandler.Refresh)

		protected.GET("/students", studentHandler.GetStudents)
		protected.GET("/students/files/*filepath", studentHandler.DownloadFile)
		protected.GET("/students/:id", studentHandler.GetStudentByID)

		// Mutations are faculty-only, enforced here rather than left to
		// the client.
		faculty := protected.Group("")
		faculty.Use(authMiddleware.RequireRole(model.RoleFaculty))
		{
			faculty.POST("/students", studentHandler.CreateStudent)
			faculty.PUT("/students/:id", studentHandler.UpdateStudent)
			faculty.DELETE("/students/:id", studentHandler.DeleteStudent)
		}
	}

	return &Server{
		engine: router,
		db:     db,
	}, nil
}

func (s *Server) Run(addr string) error {
	return s.engine.Run(addr)
}

func setupCORS(router *gin.Engine, cfg *config.Config) {
	origins := strings.Split(cfg.AllowedOrigins, ",")

	router.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "HEAD", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
}
