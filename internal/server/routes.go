package server

import (
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// RegisterRoutes builds the gin engine with middleware and all routes
func (s *Server) RegisterRoutes() http.Handler {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(RequestIDMiddleware())
	r.Use(LoggingMiddleware(s.Logger))
	if s.Metrics != nil {
		r.Use(MetricsMiddleware(s.Metrics))
	}

	r.Use(cors.New(cors.Config{
		AllowOrigins:     s.CORSOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS", "PATCH"},
		AllowHeaders:     []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		ExposeHeaders:    []string{"X-Request-ID"},
		AllowCredentials: true,
	}))

	r.GET("/health", s.healthHandler)
	if s.Metrics != nil {
		r.GET("/metrics", gin.WrapH(s.Metrics.Handler()))
	}

	postRoutes := r.Group("/posts")
	{
		postRoutes.GET("", s.listPostsHandler)
		postRoutes.POST("", s.createPostHandler)
		postRoutes.GET("/:id", s.getPostHandler)
		postRoutes.POST("/:id/like", s.toggleLikeHandler)
		postRoutes.GET("/:id/comments", s.listCommentsHandler)
		postRoutes.POST("/:id/comments", s.submitCommentHandler)
	}

	feedRoutes := r.Group("/feed")
	{
		feedRoutes.GET("", s.feedSnapshotHandler)
		feedRoutes.POST("/next", s.loadNextHandler)
		feedRoutes.POST("/retry", s.retryHandler)
		feedRoutes.POST("/reset", s.resetHandler)
	}

	profileRoutes := r.Group("/profile")
	{
		profileRoutes.GET("", s.getProfileHandler)
		profileRoutes.PUT("", s.updateProfileHandler)
		profileRoutes.POST("/tags/:tag", s.toggleTagHandler)
		profileRoutes.POST("/:kind", s.uploadProfileImageHandler)
	}

	r.POST("/uploads/url", s.uploadURLHandler)

	return r
}

func (s *Server) healthHandler(c *gin.Context) {
	ctx := c.Request.Context()
	response := gin.H{"status": "up"}
	code := http.StatusOK

	if s.KV != nil {
		if err := s.KV.Health(ctx); err != nil {
			response["kv"] = gin.H{"status": "down", "error": err.Error()}
			response["status"] = "degraded"
			code = http.StatusServiceUnavailable
		} else {
			response["kv"] = gin.H{"status": "up"}
		}
	}

	if s.Storage != nil {
		if err := s.Storage.Health(ctx); err != nil {
			response["storage"] = gin.H{"status": "down", "error": err.Error()}
		} else {
			response["storage"] = gin.H{"status": "up"}
		}
	}

	c.JSON(code, response)
}
