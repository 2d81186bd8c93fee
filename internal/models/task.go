package models

import "time"

// Task statuses. All states are mutually reachable; re-opening a completed
// task is an explicit status set, not a separate operation.
const (
	TaskTodo       = "todo"
	TaskInProgress = "in_progress"
	TaskCompleted  = "completed"
	TaskCancelled  = "cancelled"
)

// Task priorities. Priority is an axis independent of status.
const (
	PriorityLow    = "low"
	PriorityMedium = "medium"
	PriorityHigh   = "high"
)

// Task is a tracked work item, created manually or promoted from a
// follow-up suggestion.
type Task struct {
	ID           string     `gorm:"primaryKey;size:36"`
	Title        string     `gorm:"size:256;not null"`
	Description  string     `gorm:"type:text"`
	Priority     string     `gorm:"size:8;default:medium;index"`
	Status       string     `gorm:"size:16;default:todo;index"`
	DueDate      *time.Time `gorm:"index"`
	SuggestionID *string    `gorm:"size:36"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
