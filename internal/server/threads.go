package server

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/kingcader/attache/internal/classify"
	"github.com/kingcader/attache/internal/fault"
	"github.com/kingcader/attache/internal/models"
)

func (s *Server) handleListThreads(c *gin.Context) {
	if waiting := c.Query("waiting"); waiting != "true" {
		s.respondError(c, fault.Enum("waiting", waiting, "true"))
		return
	}

	threads, err := s.store.ListWaitingThreads(c.Request.Context())
	if err != nil {
		s.respondError(c, err)
		return
	}

	now := s.now()
	views := make([]threadView, 0, len(threads))
	for _, t := range threads {
		views = append(views, renderThread(t, now, true))
	}
	respond(c, http.StatusOK, gin.H{"threads": views})
}

func (s *Server) handleGetThread(c *gin.Context) {
	thread, err := s.store.ThreadWithEmails(c.Request.Context(), c.Param("id"))
	if err != nil {
		s.respondError(c, err)
		return
	}
	respond(c, http.StatusOK, gin.H{"thread": renderThread(*thread, s.now(), true)})
}

func (s *Server) handleCreateThread(c *gin.Context) {
	var req struct {
		ID      string `json:"id"`
		Subject string `json:"subject"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "invalid request body"})
		return
	}
	if strings.TrimSpace(req.Subject) == "" {
		s.respondError(c, fault.Validation("Subject is required and must be a non-empty string"))
		return
	}

	thread := &models.Thread{
		ID:      req.ID,
		Subject: strings.TrimSpace(req.Subject),
	}
	if thread.ID == "" {
		thread.ID = uuid.NewString()
	}
	if err := s.store.CreateThread(c.Request.Context(), thread); err != nil {
		s.respondError(c, err)
		return
	}
	respond(c, http.StatusCreated, gin.H{"thread": renderThread(*thread, s.now(), false)})
}

// handleIngestEmail appends a message to a thread and re-derives the cached
// waiting state from the full history. Emails are append-only.
func (s *Server) handleIngestEmail(c *gin.Context) {
	var req struct {
		Sender     string `json:"sender"`
		Recipient  string `json:"recipient"`
		Body       string `json:"body"`
		Direction  string `json:"direction"`
		ReceivedAt string `json:"received_at"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "invalid request body"})
		return
	}

	ctx := c.Request.Context()
	threadID := c.Param("id")

	if strings.TrimSpace(req.Sender) == "" {
		s.respondError(c, fault.Validation("Sender is required and must be a non-empty string"))
		return
	}
	if req.Direction != models.DirectionInbound && req.Direction != models.DirectionOutbound {
		s.respondError(c, fault.Enum("direction", req.Direction,
			models.DirectionInbound, models.DirectionOutbound))
		return
	}
	receivedAt := s.now()
	if req.ReceivedAt != "" {
		ts, err := time.Parse(time.RFC3339, req.ReceivedAt)
		if err != nil {
			s.respondError(c, fault.Validationf("invalid received_at %q: use RFC 3339", req.ReceivedAt))
			return
		}
		receivedAt = ts
	}

	if _, err := s.store.ThreadWithEmails(ctx, threadID); err != nil {
		s.respondError(c, err)
		return
	}

	email := &models.Email{
		ID:         uuid.NewString(),
		ThreadID:   threadID,
		Sender:     req.Sender,
		Recipient:  req.Recipient,
		Body:       req.Body,
		Direction:  req.Direction,
		ReceivedAt: receivedAt,
	}
	if err := s.store.AppendEmail(ctx, email); err != nil {
		s.respondError(c, err)
		return
	}

	// Re-derive the cached waiting fields from the full history.
	thread, err := s.store.ThreadWithEmails(ctx, threadID)
	if err != nil {
		s.respondError(c, err)
		return
	}
	status := classify.Classify(thread.Emails)
	if err := s.store.SetThreadWaiting(ctx, threadID, status.WaitingOn, status.WaitingSince); err != nil {
		s.respondError(c, err)
		return
	}
	thread.WaitingOnEmail = status.WaitingOn
	thread.WaitingSince = status.WaitingSince

	respond(c, http.StatusCreated, gin.H{"thread": renderThread(*thread, s.now(), true)})
}
