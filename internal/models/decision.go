package models

import "time"

// Decision is an immutable log entry. Superseding a decision creates a new
// row pointing back at the old one; nothing is ever updated or deleted.
type Decision struct {
	ID           string  `gorm:"primaryKey;size:36"`
	DecisionText string  `gorm:"type:text;not null"`
	Rationale    string  `gorm:"type:text"`
	SupersedesID *string `gorm:"size:36;index"`
	ProjectID    string  `gorm:"size:64;index"`
	CreatedAt    time.Time

	Supersedes *Decision `gorm:"foreignKey:SupersedesID"`
}
