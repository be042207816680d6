package http

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	appsvc "portfolio-api/internal/app"
	"portfolio-api/internal/bootstrap"
	"portfolio-api/internal/platform/filestore"
	"portfolio-api/internal/transport/http/handler"
	"portfolio-api/internal/transport/http/middleware"
	"portfolio-api/internal/transport/http/response"
)

func NewRouter(app *bootstrap.App) *gin.Engine {
	gin.SetMode(app.Config.App.GinMode)
	response.UseJSONFieldNames()

	router := gin.New()
	router.Use(middleware.RequestID(), gin.Logger(), gin.Recovery(), corsMiddleware(app.Config.App.CORSOrigins))
	router.MaxMultipartMemory = 8 << 20

	if local, ok := app.Files.(*filestore.LocalStore); ok {
		router.Static("/uploads", local.Dir())
	}

	var publisher appsvc.EventPublisher
	if app.Events != nil {
		publisher = app.Events
	}

	authService := appsvc.NewAuthService(app.Users, app.Hasher, app.Tokens)
	userService := appsvc.NewUserService(app.Users)
	projectService := appsvc.NewProjectService(app.Projects, app.Tasks, app.Tx, publisher, app.Files, app.Config.Upload.MaxFileSize)
	taskService := appsvc.NewTaskService(app.Tasks, app.Projects)
	analyticsService := appsvc.NewAnalyticsService(app.Projects, app.Tasks)

	healthHandler := handler.NewHealthHandler(app)
	authHandler := handler.NewAuthHandler(authService)
	userHandler := handler.NewUserHandler(userService)
	projectHandler := handler.NewProjectHandler(projectService, app.Config.Upload.MaxFileSize)
	taskHandler := handler.NewTaskHandler(taskService)
	analyticsHandler := handler.NewAnalyticsHandler(analyticsService)

	requireAuth := middleware.AuthJWT(app.Tokens)

	api := router.Group("/api")
	api.GET("/health", healthHandler.Check)

	authGroup := api.Group("/auth")
	authGroup.POST("/register", middleware.RateLimitLogin(app.LoginLimiter), authHandler.Register)
	authGroup.POST("/login", middleware.RateLimitLogin(app.LoginLimiter), authHandler.Login)
	authGroup.GET("/me", requireAuth, authHandler.Me)

	userGroup := api.Group("/users")
	userGroup.Use(requireAuth)
	userGroup.POST("", userHandler.Create)
	userGroup.GET("", userHandler.List)
	userGroup.GET("/:id", userHandler.Get)
	userGroup.PUT("/:id", userHandler.Update)

	projectGroup := api.Group("/projects")
	projectGroup.Use(requireAuth)
	projectGroup.POST("", projectHandler.Create)
	projectGroup.GET("", projectHandler.List)
	projectGroup.GET("/:id", projectHandler.Get)
	projectGroup.PUT("/:id", projectHandler.Update)
	projectGroup.DELETE("/:id", projectHandler.Delete)
	projectGroup.POST("/:id/tasks", taskHandler.Create)
	projectGroup.GET("/:id/tasks", taskHandler.List)
	projectGroup.POST("/:id/upload", projectHandler.Upload)

	taskGroup := api.Group("/tasks")
	taskGroup.Use(requireAuth)
	taskGroup.PUT("/:id", taskHandler.Update)
	taskGroup.DELETE("/:id", taskHandler.Delete)

	api.GET("/analytics/dashboard", requireAuth, analyticsHandler.Dashboard)

	if app.Config.App.EnableDemo {
		demoHandler := handler.NewDemoHandler(appsvc.NewDemoService(app.Users, app.Hasher))
		api.POST("/demo/create-users", demoHandler.CreateUsers)
	}

	return router
}

func corsMiddleware(origins []string) gin.HandlerFunc {
	cfg := cors.DefaultConfig()
	cfg.AllowHeaders = append(cfg.AllowHeaders, "Authorization", middleware.HeaderRequestID)
	cfg.ExposeHeaders = []string{middleware.HeaderRequestID}

	allowAll := len(origins) == 0
	for _, origin := range origins {
		if origin == "*" {
			allowAll = true
		}
	}
	if allowAll {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = origins
		cfg.AllowCredentials = true
	}
	return cors.New(cfg)
}
