package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/kingcader/attache/internal/task"
)

func (s *Server) handleListTasks(c *gin.Context) {
	tasks, err := s.tasks.List(c.Request.Context(), c.Query("status"), c.Query("due"))
	if err != nil {
		s.respondError(c, err)
		return
	}

	views := make([]taskView, 0, len(tasks))
	for _, t := range tasks {
		views = append(views, renderTask(t))
	}
	respond(c, http.StatusOK, gin.H{"tasks": views})
}

func (s *Server) handleCreateTask(c *gin.Context) {
	var req struct {
		Title       string `json:"title"`
		Description string `json:"description"`
		Priority    string `json:"priority"`
		Status      string `json:"status"`
		DueDate     string `json:"due_date"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "invalid request body"})
		return
	}

	created, err := s.tasks.Create(c.Request.Context(), task.CreateInput{
		Title:       req.Title,
		Description: req.Description,
		Priority:    req.Priority,
		Status:      req.Status,
		DueDate:     req.DueDate,
	})
	if err != nil {
		s.respondError(c, err)
		return
	}
	respond(c, http.StatusCreated, gin.H{"task": renderTask(*created)})
}

func (s *Server) handleUpdateTask(c *gin.Context) {
	var req struct {
		Title       *string `json:"title"`
		Description *string `json:"description"`
		Priority    *string `json:"priority"`
		DueDate     *string `json:"due_date"`
		Status      *string `json:"status"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "invalid request body"})
		return
	}

	updated, err := s.tasks.Update(c.Request.Context(), c.Param("id"), task.Patch{
		Title:       req.Title,
		Description: req.Description,
		Priority:    req.Priority,
		DueDate:     req.DueDate,
		Status:      req.Status,
	})
	if err != nil {
		s.respondError(c, err)
		return
	}
	respond(c, http.StatusOK, gin.H{"task": renderTask(*updated)})
}
