package http

import (
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/armandusbasson/KSA-PSMS/internal/http/middleware"
)

// Handlers bundles the per-domain handlers the router mounts.
type Handlers struct {
	Auth      *AuthHandler
	Sites     *SiteHandler
	Staff     *StaffHandler
	Vehicles  *VehicleHandler
	Contracts *ContractHandler
	Meetings  *MeetingHandler
}

func NewRouter(environment string, log zerolog.Logger, uploadsDir string, handlers Handlers, authMiddleware gin.HandlerFunc) *gin.Engine {
	if environment != "development" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(middleware.RequestLogger(log), gin.Recovery())

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowAllOrigins = true
	corsConfig.AllowHeaders = append(corsConfig.AllowHeaders, "Authorization")
	router.Use(cors.New(corsConfig))

	router.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "KSA Power Station Management System API"})
	})
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	router.Static("/uploads", uploadsDir)

	api := router.Group("/api")
	handlers.Auth.Register(api, authMiddleware)
	handlers.Sites.Register(api)
	handlers.Staff.Register(api)
	handlers.Vehicles.Register(api)
	handlers.Contracts.Register(api)
	handlers.Meetings.Register(api)

	return router
}
