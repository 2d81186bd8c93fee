package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// registerRoutes sets up all API routes on the gin router.
func (s *Server) registerRoutes(router *gin.Engine) {
	api := router.Group("/api")

	// Follow-up suggestions.
	api.GET("/follow-ups/generate/:threadId", s.handleGenerateFollowUp)
	api.POST("/follow-ups/generate/:threadId", s.handleGenerateFollowUp)
	api.PATCH("/follow-ups/:id", s.handleResolveFollowUp)
	api.POST("/follow-ups/:id/convert", s.handleConvertFollowUp)

	// Threads.
	api.GET("/threads", s.handleListThreads)
	api.POST("/threads", s.handleCreateThread)
	api.GET("/threads/:id", s.handleGetThread)
	api.POST("/threads/:id/emails", s.handleIngestEmail)

	// Decisions.
	api.GET("/decisions", s.handleListDecisions)
	api.POST("/decisions", s.handleLogDecision)
	api.GET("/decisions/:id", s.handleGetDecision)

	// Tasks.
	api.GET("/tasks", s.handleListTasks)
	api.POST("/tasks", s.handleCreateTask)
	api.PATCH("/tasks/:id", s.handleUpdateTask)

	// Notifications and push subscriptions.
	api.GET("/notifications", s.handleListNotifications)
	api.POST("/notifications", s.handleCreateNotification)
	api.PATCH("/notifications/read-all", s.handleMarkAllRead)
	api.PATCH("/notifications/:id", s.handleMarkRead)
	api.POST("/notifications/subscribe", s.handleSubscribe)
	api.DELETE("/notifications/subscribe", s.handleUnsubscribe)

	test := api.Group("/notifications/test", s.requireTestToken)
	test.GET("", s.handleTestNotification)
	test.POST("", s.handleTestNotification)
	test.DELETE("", s.handleTestNotification)
}

// requireTestToken gates the debug delivery endpoints behind a bearer token
// when one is configured. With no token configured the endpoints are open,
// which is only sane on a loopback deployment.
func (s *Server) requireTestToken(c *gin.Context) {
	if s.cfg.TestToken == "" {
		c.Next()
		return
	}
	if c.GetHeader("Authorization") != "Bearer "+s.cfg.TestToken {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
			"success": false,
			"message": "unauthorized",
		})
		return
	}
	c.Next()
}
