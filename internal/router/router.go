package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/astrotrack/astrotrack/docs"
	"github.com/astrotrack/astrotrack/internal/config"
	"github.com/astrotrack/astrotrack/internal/middleware"
	"github.com/astrotrack/astrotrack/internal/modules/handler"
	"github.com/astrotrack/astrotrack/internal/modules/serializer"
	"github.com/astrotrack/astrotrack/internal/telemetry"
)

type RouterDeps struct {
	Config            *config.Config
	Log               *zap.Logger
	Sessions          middleware.SessionResolver
	AuthHandler       *handler.AuthHandler
	ProjectHandler    *handler.ProjectHandler
	SessionHandler    *handler.SessionHandler
	EquipmentHandler  *handler.EquipmentHandler
	CatalogueHandler  *handler.CatalogueHandler
	CollectionHandler *handler.CollectionHandler
	UserHandler       *handler.UserHandler
}

func NewRouter(d RouterDeps) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	if d.Config.Telemetry.Enabled && d.Config.Telemetry.OtlpEndpoint != "" {
		r.Use(telemetry.GinMiddleware(d.Config.App.Name))
		r.Use(telemetry.TraceIDMiddleware())
	}

	r.Use(middleware.ZapLogger(d.Log))

	// health
	r.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, serializer.Message("ok")) })

	// swagger
	r.GET("/swagger", func(c *gin.Context) {
		c.Redirect(http.StatusMovedPermanently, "/swagger/index.html")
	})
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	cookie := d.Config.Auth.CookieName
	required := middleware.RequireAuth(cookie, d.Sessions)
	optional := middleware.OptionalAuth(cookie, d.Sessions, d.Log)

	api := r.Group("/api")
	{
		auth := api.Group("/auth")
		{
			auth.POST("/login", d.AuthHandler.Login)
			auth.POST("/logout", d.AuthHandler.Logout)
			auth.POST("/clear-expired", d.AuthHandler.ClearExpired)
			auth.GET("/me", optional, d.AuthHandler.Me)
		}

		projects := api.Group("/projects")
		{
			projects.GET("", required, d.ProjectHandler.ListProjects)
			projects.POST("", required, d.ProjectHandler.CreateProject)
			projects.GET("/:id", optional, d.ProjectHandler.GetProject)
			projects.PUT("/:id", required, d.ProjectHandler.UpdateProject)
			projects.DELETE("/:id", required, d.ProjectHandler.DeleteProject)
			projects.GET("/:id/stats", optional, d.ProjectHandler.GetProjectStats)

			sessions := projects.Group("/:id/sessions")
			{
				sessions.GET("", optional, d.SessionHandler.ListSessions)
				sessions.POST("", required, d.SessionHandler.CreateSession)
				sessions.GET("/:date", optional, d.SessionHandler.GetSession)
				sessions.PUT("/:date", required, d.SessionHandler.UpdateSession)
				sessions.DELETE("/:date", required, d.SessionHandler.DeleteSession)
			}
		}

		equipment := api.Group("/equipment", required)
		{
			equipment.GET("", d.EquipmentHandler.ListEquipment)
			equipment.POST("", d.EquipmentHandler.CreateEquipment)
			equipment.GET("/:id", d.EquipmentHandler.GetEquipment)
			equipment.PUT("/:id", d.EquipmentHandler.UpdateEquipment)
			equipment.DELETE("/:id", d.EquipmentHandler.DeleteEquipment)
		}

		catalogues := api.Group("/catalogues")
		{
			catalogues.GET("", required, d.CatalogueHandler.ListCatalogues)
			catalogues.POST("", required, d.CatalogueHandler.CreateCatalogue)
			catalogues.GET("/:id", optional, d.CatalogueHandler.GetCatalogue)
			catalogues.PUT("/:id", required, d.CatalogueHandler.UpdateCatalogue)
			catalogues.DELETE("/:id", required, d.CatalogueHandler.DeleteCatalogue)
		}

		collections := api.Group("/collections")
		{
			collections.GET("", required, d.CollectionHandler.ListCollections)
			collections.POST("", required, d.CollectionHandler.CreateCollection)
			collections.GET("/:id", optional, d.CollectionHandler.GetCollection)
			collections.PUT("/:id", required, d.CollectionHandler.UpdateCollection)
			collections.DELETE("/:id", required, d.CollectionHandler.DeleteCollection)
		}

		users := api.Group("/users/me", required)
		{
			users.GET("", d.UserHandler.GetMe)
			users.PUT("", d.UserHandler.UpdateMe)
			users.PUT("/favorites/:projectId", d.UserHandler.AddFavorite)
			users.DELETE("/favorites/:projectId", d.UserHandler.RemoveFavorite)
		}
	}
	return r
}
