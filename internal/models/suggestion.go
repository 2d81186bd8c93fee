package models

import "time"

// Follow-up draft tones. Anything else coming back from a generation
// backend is coerced to professional.
const (
	ToneProfessional = "professional"
	ToneFriendly     = "friendly"
	ToneUrgent       = "urgent"
)

// Suggestion statuses. Approved and rejected are terminal.
const (
	SuggestionPending  = "pending"
	SuggestionApproved = "approved"
	SuggestionRejected = "rejected"
)

// FollowUpSuggestion is an AI-drafted follow-up email awaiting human review.
type FollowUpSuggestion struct {
	ID           string `gorm:"primaryKey;size:36"`
	ThreadID     string `gorm:"size:36;not null;index"`
	DraftSubject string `gorm:"size:256;not null"`
	DraftBody    string `gorm:"type:text;not null"`
	Tone         string `gorm:"size:16;default:professional"`
	Status       string `gorm:"size:16;default:pending;index"`
	Reasoning    string `gorm:"type:text"`
	AIModelUsed  string `gorm:"size:64"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
