package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/kingcader/attache/internal/fault"
	"github.com/kingcader/attache/internal/models"
	"github.com/kingcader/attache/internal/push"
)

func (s *Server) handleListNotifications(c *gin.Context) {
	notes, err := s.store.ListNotifications(c.Request.Context(), c.Query("unread") == "true")
	if err != nil {
		s.respondError(c, err)
		return
	}

	views := make([]notificationView, 0, len(notes))
	for _, n := range notes {
		views = append(views, renderNotification(n))
	}
	respond(c, http.StatusOK, gin.H{"notifications": views})
}

// handleCreateNotification dispatches a manual notification through the
// same pipeline as lifecycle events.
func (s *Server) handleCreateNotification(c *gin.Context) {
	var req struct {
		Title    string  `json:"title"`
		Body     string  `json:"body"`
		Kind     string  `json:"kind"`
		ThreadID *string `json:"thread_id"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "invalid request body"})
		return
	}
	if strings.TrimSpace(req.Title) == "" {
		s.respondError(c, fault.Validation("Title is required and must be a non-empty string"))
		return
	}
	kind := req.Kind
	if kind == "" {
		kind = models.NoteTask
	}
	switch kind {
	case models.NoteFollowUp, models.NoteWaiting, models.NoteTask, models.NoteTest:
	default:
		s.respondError(c, fault.Enum("kind", kind,
			models.NoteFollowUp, models.NoteWaiting, models.NoteTask, models.NoteTest))
		return
	}

	receipt, err := s.dispatcher.Dispatch(c.Request.Context(), push.Note{
		Title:    req.Title,
		Body:     req.Body,
		Kind:     kind,
		ThreadID: req.ThreadID,
	})
	if err != nil {
		s.respondError(c, err)
		return
	}
	respond(c, http.StatusCreated, gin.H{"receipt": receipt})
}

func (s *Server) handleMarkRead(c *gin.Context) {
	var req struct {
		Action string `json:"action"`
	}
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "invalid request body"})
			return
		}
	}
	if req.Action == "mark_all_read" {
		s.markAllRead(c)
		return
	}

	if err := s.store.MarkNotificationRead(c.Request.Context(), c.Param("id")); err != nil {
		s.respondError(c, err)
		return
	}
	respond(c, http.StatusOK, gin.H{})
}

func (s *Server) handleMarkAllRead(c *gin.Context) {
	s.markAllRead(c)
}

func (s *Server) markAllRead(c *gin.Context) {
	if err := s.store.MarkAllNotificationsRead(c.Request.Context()); err != nil {
		s.respondError(c, err)
		return
	}
	respond(c, http.StatusOK, gin.H{})
}

func (s *Server) handleSubscribe(c *gin.Context) {
	var req struct {
		Endpoint string `json:"endpoint"`
		Keys     struct {
			P256dh string `json:"p256dh"`
			Auth   string `json:"auth"`
		} `json:"keys"`
		DeviceName string `json:"device_name"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "invalid request body"})
		return
	}

	sub, err := s.registry.Register(c.Request.Context(), push.RegisterInput{
		Endpoint:   req.Endpoint,
		P256dh:     req.Keys.P256dh,
		Auth:       req.Keys.Auth,
		DeviceName: req.DeviceName,
	})
	if err != nil {
		s.respondError(c, err)
		return
	}
	respond(c, http.StatusCreated, gin.H{"subscription": renderSubscription(*sub)})
}

func (s *Server) handleUnsubscribe(c *gin.Context) {
	var req struct {
		Endpoint string `json:"endpoint"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "invalid request body"})
		return
	}

	if err := s.registry.Remove(c.Request.Context(), req.Endpoint); err != nil {
		s.respondError(c, err)
		return
	}
	respond(c, http.StatusOK, gin.H{})
}

func (s *Server) handleTestNotification(c *gin.Context) {
	receipt, err := s.dispatcher.DispatchTest(c.Request.Context())
	if err != nil {
		s.respondError(c, err)
		return
	}
	respond(c, http.StatusOK, gin.H{"receipt": receipt})
}
