package server

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/kingcader/attache/internal/classify"
	"github.com/kingcader/attache/internal/fault"
	"github.com/kingcader/attache/internal/models"
	"go.uber.org/zap"
)

// respond writes the success envelope with the given payload keys.
func respond(c *gin.Context, status int, payload gin.H) {
	body := gin.H{"success": true}
	for k, v := range payload {
		body[k] = v
	}
	c.JSON(status, body)
}

// respondError maps a service error onto the failure envelope. Unclassified
// errors are logged and rendered as a generic 500; internals never leak.
func (s *Server) respondError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	message := err.Error()

	switch {
	case fault.IsValidation(err):
		status = http.StatusBadRequest
	case fault.IsNotFound(err):
		status = http.StatusNotFound
	case fault.IsConflict(err):
		status = http.StatusConflict
	case fault.IsUpstream(err):
		status = http.StatusInternalServerError
	default:
		s.log.Error("request failed",
			zap.String("path", c.FullPath()),
			zap.Error(err))
		message = "internal error"
	}

	c.JSON(status, gin.H{"success": false, "message": message})
}

type emailView struct {
	ID         string    `json:"id"`
	Sender     string    `json:"sender"`
	Recipient  string    `json:"recipient,omitempty"`
	Body       string    `json:"body"`
	Direction  string    `json:"direction"`
	ReceivedAt time.Time `json:"received_at"`
}

type threadView struct {
	ID             string      `json:"id"`
	Subject        string      `json:"subject"`
	WaitingOnEmail *string     `json:"waiting_on_email"`
	WaitingSince   *time.Time  `json:"waiting_since"`
	DaysWaiting    *int        `json:"days_waiting,omitempty"`
	CreatedAt      time.Time   `json:"created_at"`
	Emails         []emailView `json:"emails,omitempty"`
}

func renderThread(t models.Thread, now time.Time, withDays bool) threadView {
	v := threadView{
		ID:             t.ID,
		Subject:        t.Subject,
		WaitingOnEmail: t.WaitingOnEmail,
		WaitingSince:   t.WaitingSince,
		CreatedAt:      t.CreatedAt,
	}
	if withDays && t.WaitingSince != nil {
		days := classify.DaysWaiting(now, *t.WaitingSince)
		v.DaysWaiting = &days
	}
	for _, e := range t.Emails {
		v.Emails = append(v.Emails, emailView{
			ID:         e.ID,
			Sender:     e.Sender,
			Recipient:  e.Recipient,
			Body:       e.Body,
			Direction:  e.Direction,
			ReceivedAt: e.ReceivedAt,
		})
	}
	return v
}

type suggestionView struct {
	ID           string    `json:"id"`
	ThreadID     string    `json:"thread_id"`
	DraftSubject string    `json:"draft_subject"`
	DraftBody    string    `json:"draft_body"`
	Tone         string    `json:"tone"`
	Status       string    `json:"status"`
	Reasoning    string    `json:"reasoning,omitempty"`
	AIModelUsed  string    `json:"ai_model_used,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

func renderSuggestion(s models.FollowUpSuggestion) suggestionView {
	return suggestionView{
		ID:           s.ID,
		ThreadID:     s.ThreadID,
		DraftSubject: s.DraftSubject,
		DraftBody:    s.DraftBody,
		Tone:         s.Tone,
		Status:       s.Status,
		Reasoning:    s.Reasoning,
		AIModelUsed:  s.AIModelUsed,
		CreatedAt:    s.CreatedAt,
	}
}

type decisionView struct {
	ID           string    `json:"id"`
	DecisionText string    `json:"decision_text"`
	Rationale    string    `json:"rationale,omitempty"`
	SupersedesID *string   `json:"supersedes_id"`
	ProjectID    string    `json:"project_id,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

func renderDecision(d models.Decision) decisionView {
	return decisionView{
		ID:           d.ID,
		DecisionText: d.DecisionText,
		Rationale:    d.Rationale,
		SupersedesID: d.SupersedesID,
		ProjectID:    d.ProjectID,
		CreatedAt:    d.CreatedAt,
	}
}

type taskView struct {
	ID           string     `json:"id"`
	Title        string     `json:"title"`
	Description  string     `json:"description,omitempty"`
	Priority     string     `json:"priority"`
	Status       string     `json:"status"`
	DueDate      *time.Time `json:"due_date"`
	SuggestionID *string    `json:"suggestion_id,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

func renderTask(t models.Task) taskView {
	return taskView{
		ID:           t.ID,
		Title:        t.Title,
		Description:  t.Description,
		Priority:     t.Priority,
		Status:       t.Status,
		DueDate:      t.DueDate,
		SuggestionID: t.SuggestionID,
		CreatedAt:    t.CreatedAt,
		UpdatedAt:    t.UpdatedAt,
	}
}

type notificationView struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Body      string    `json:"body"`
	Kind      string    `json:"kind"`
	ThreadID  *string   `json:"thread_id,omitempty"`
	Read      bool      `json:"read"`
	CreatedAt time.Time `json:"created_at"`
}

func renderNotification(n models.Notification) notificationView {
	return notificationView{
		ID:        n.ID,
		Title:     n.Title,
		Body:      n.Body,
		Kind:      n.Kind,
		ThreadID:  n.ThreadID,
		Read:      n.Read,
		CreatedAt: n.CreatedAt,
	}
}

type subscriptionView struct {
	ID         string `json:"id"`
	Endpoint   string `json:"endpoint"`
	DeviceName string `json:"device_name,omitempty"`
	Active     bool   `json:"active"`
}

func renderSubscription(s models.PushSubscription) subscriptionView {
	return subscriptionView{
		ID:         s.ID,
		Endpoint:   s.Endpoint,
		DeviceName: s.DeviceName,
		Active:     s.Active,
	}
}
