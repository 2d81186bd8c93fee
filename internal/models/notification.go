package models

import "time"

// Notification kinds.
const (
	NoteFollowUp = "follow_up"
	NoteWaiting  = "waiting_reminder"
	NoteTask     = "task"
	NoteTest     = "test"
)

// Notification is an in-app notification record. A row is committed before
// any push delivery referencing it is attempted.
type Notification struct {
	ID        string  `gorm:"primaryKey;size:36"`
	Title     string  `gorm:"size:256;not null"`
	Body      string  `gorm:"type:text"`
	Kind      string  `gorm:"size:24;index"`
	ThreadID  *string `gorm:"size:36;index"`
	Read      bool    `gorm:"default:false;index"`
	CreatedAt time.Time
}

// PushSubscription is a registered Web Push endpoint. Endpoint is unique;
// registering the same endpoint again updates keys and device metadata in
// place. Inactive subscriptions are kept for audit but skipped on dispatch.
type PushSubscription struct {
	ID         string `gorm:"primaryKey;size:36"`
	Endpoint   string `gorm:"size:512;not null;uniqueIndex"`
	P256dh     string `gorm:"size:256;not null"`
	Auth       string `gorm:"size:128;not null"`
	DeviceName string `gorm:"size:128"`
	Active     bool   `gorm:"default:true;index"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
