package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/kingcader/attache/internal/task"
)

func (s *Server) handleGenerateFollowUp(c *gin.Context) {
	sug, err := s.followups.Generate(c.Request.Context(), c.Param("threadId"))
	if err != nil {
		s.respondError(c, err)
		return
	}
	respond(c, http.StatusCreated, gin.H{"suggestion": renderSuggestion(*sug)})
}

func (s *Server) handleResolveFollowUp(c *gin.Context) {
	var req struct {
		Action string `json:"action"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "invalid request body"})
		return
	}

	sug, err := s.followups.Resolve(c.Request.Context(), c.Param("id"), req.Action)
	if err != nil {
		s.respondError(c, err)
		return
	}
	respond(c, http.StatusOK, gin.H{"suggestion": renderSuggestion(*sug)})
}

func (s *Server) handleConvertFollowUp(c *gin.Context) {
	var req struct {
		Title    string `json:"title"`
		Priority string `json:"priority"`
		DueDate  string `json:"due_date"`
	}
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "invalid request body"})
			return
		}
	}

	created, err := s.tasks.PromoteSuggestion(c.Request.Context(), c.Param("id"), task.PromoteInput{
		Title:    req.Title,
		Priority: req.Priority,
		DueDate:  req.DueDate,
	})
	if err != nil {
		s.respondError(c, err)
		return
	}
	respond(c, http.StatusCreated, gin.H{"task": renderTask(*created)})
}
