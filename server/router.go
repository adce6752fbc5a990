package server

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// Router builds the gin engine with all routes registered.
func (s *Server) Router() *gin.Engine {
	r := gin.Default()

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = []string{s.cfg.FrontendURL}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Content-Type", "Authorization", HeaderPayment, HeaderWalletAddress}
	corsConfig.AllowCredentials = true
	r.Use(cors.New(corsConfig))

	api := r.Group("/api")

	contentGroup := api.Group("/content")
	{
		contentGroup.GET("", s.listContent)
		contentGroup.GET("/meta/categories", s.getCategories)
		contentGroup.GET("/:id/preview", s.getPreview)
		contentGroup.GET("/:id", s.getFullContent)
		contentGroup.POST("", s.createContent)
	}

	userGroup := api.Group("/user")
	{
		userGroup.GET("/unlocked", s.getUnlockedContents)
		userGroup.GET("/stats", s.getStats)
		userGroup.GET("/profile", s.getProfile)
		userGroup.GET("/check-unlock/:contentId", s.checkUnlock)
	}

	paymentGroup := api.Group("/payment")
	{
		paymentGroup.GET("/status", s.paymentStatus)
		paymentGroup.POST("/verify", s.verifyPayment)
		paymentGroup.GET("/config", s.paymentConfig)
	}

	return r
}
