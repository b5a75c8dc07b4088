package http

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/Molza01/Communicaton-Web-App/internal/config"
)

func SetupRouter(signalingController *SignalingController, tokenController *TokenController, cfg *config.Config) *gin.Engine {
	router := gin.Default()

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = cfg.CORS.AllowedOrigins
	corsConfig.AllowCredentials = true
	corsConfig.AllowHeaders = []string{
		"Authorization",
		"Content-Type",
		"Origin",
		"Accept",
	}
	corsConfig.AllowMethods = []string{"GET", "POST"}
	router.Use(cors.New(corsConfig))

	router.GET("/healthz", func(ctx *gin.Context) {
		ctx.JSON(200, gin.H{"status": "ok"})
	})

	api := router.Group("/api")

	if tokenController != nil {
		tokens := api.Group("/token")
		tokens.POST("/generate", tokenController.Generate)
		tokens.POST("/verify", tokenController.Verify)
	}

	if signalingController != nil {
		api.GET("/webrtc/config", signalingController.ICEConfig)
		router.GET("/ws", signalingController.Serve)
	}

	return router
}
