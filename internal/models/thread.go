package models

import "time"

// Email direction relative to the mailbox owner.
const (
	DirectionInbound  = "inbound"
	DirectionOutbound = "outbound"
)

// Thread is an email conversation. WaitingOnEmail and WaitingSince are
// derived caches of the classifier output, re-computed on every ingest.
type Thread struct {
	ID             string     `gorm:"primaryKey;size:36"`
	Subject        string     `gorm:"size:256;not null"`
	WaitingOnEmail *string    `gorm:"size:256;index"`
	WaitingSince   *time.Time `gorm:"index"`
	CreatedAt      time.Time
	UpdatedAt      time.Time

	Emails []Email `gorm:"foreignKey:ThreadID"`
}

// Email is a single message within a thread. Rows are append-only and
// never mutated after creation; ReceivedAt strictly orders the thread.
type Email struct {
	ID         string    `gorm:"primaryKey;size:36"`
	ThreadID   string    `gorm:"size:36;not null;index"`
	Sender     string    `gorm:"size:256;not null"`
	Recipient  string    `gorm:"size:256"`
	Body       string    `gorm:"type:text"`
	Direction  string    `gorm:"size:8;not null"`
	ReceivedAt time.Time `gorm:"not null;index"`
	CreatedAt  time.Time
}
