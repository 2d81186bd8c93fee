// Package classify derives a thread's waiting-on status from its email
// history. Classification is a pure function over the supplied emails; it
// never touches the clock or the store.
package classify

import (
	"sort"
	"time"

	"github.com/kingcader/attache/internal/models"
)

// Status is the classifier verdict for a thread.
type Status struct {
	Waiting      bool
	WaitingSince *time.Time
	WaitingOn    *string
}

// Classify inspects a thread's emails and reports whether the owner is
// waiting on a reply. The rule: the thread is waiting iff the most recent
// email (by ReceivedAt) is outbound. Any inbound email as the latest entry
// clears the waiting state regardless of earlier history, and an empty
// thread is never waiting.
func Classify(emails []models.Email) Status {
	if len(emails) == 0 {
		return Status{}
	}

	latest := emails[0]
	for _, e := range emails[1:] {
		if e.ReceivedAt.After(latest.ReceivedAt) {
			latest = e
		}
	}

	if latest.Direction != models.DirectionOutbound {
		return Status{}
	}

	since := latest.ReceivedAt
	recipient := latest.Recipient
	return Status{
		Waiting:      true,
		WaitingSince: &since,
		WaitingOn:    &recipient,
	}
}

// DaysWaiting returns the whole days elapsed since the waiting started,
// floored, never rounded.
func DaysWaiting(now, since time.Time) int {
	d := now.Sub(since)
	if d < 0 {
		return 0
	}
	return int(d / (24 * time.Hour))
}

// Sorted returns the emails ordered by ReceivedAt ascending. The input
// slice is not modified.
func Sorted(emails []models.Email) []models.Email {
	out := make([]models.Email, len(emails))
	copy(out, emails)
	sort.Slice(out, func(i, j int) bool {
		return out[i].ReceivedAt.Before(out[j].ReceivedAt)
	})
	return out
}
