package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/kingcader/attache/internal/decision"
	"github.com/kingcader/attache/internal/store"
)

func (s *Server) handleListDecisions(c *gin.Context) {
	filter := store.DecisionFilter{
		IncludeSuperseded: c.Query("superseded") == "true",
		Query:             c.Query("q"),
		ProjectID:         c.Query("project_id"),
	}
	decisions, err := s.decisions.List(c.Request.Context(), filter)
	if err != nil {
		s.respondError(c, err)
		return
	}

	views := make([]decisionView, 0, len(decisions))
	for _, d := range decisions {
		views = append(views, renderDecision(d))
	}
	respond(c, http.StatusOK, gin.H{"decisions": views})
}

func (s *Server) handleLogDecision(c *gin.Context) {
	var req struct {
		Decision     string  `json:"decision"` // accepted alias for decision_text
		DecisionText string  `json:"decision_text"`
		Rationale    string  `json:"rationale"`
		SupersedesID *string `json:"supersedes_id"`
		ProjectID    string  `json:"project_id"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "invalid request body"})
		return
	}
	text := req.DecisionText
	if text == "" {
		text = req.Decision
	}

	logged, err := s.decisions.Log(c.Request.Context(), decision.LogInput{
		Text:         text,
		Rationale:    req.Rationale,
		SupersedesID: req.SupersedesID,
		ProjectID:    req.ProjectID,
	})
	if err != nil {
		s.respondError(c, err)
		return
	}
	respond(c, http.StatusCreated, gin.H{"decision": renderDecision(*logged)})
}

func (s *Server) handleGetDecision(c *gin.Context) {
	d, err := s.decisions.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		s.respondError(c, err)
		return
	}
	respond(c, http.StatusOK, gin.H{"decision": renderDecision(*d)})
}
