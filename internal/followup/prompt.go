package followup

import (
	"fmt"
	"strings"

	"github.com/kingcader/attache/internal/classify"
	"github.com/kingcader/attache/internal/models"
)

// systemPrompt is the fixed instruction sent to every generation backend.
// The response contract matches what ParseDraft accepts.
const systemPrompt = `You are an assistant that drafts polite follow-up emails for conversations awaiting a reply.

Given the email history of a thread, draft a short follow-up nudging the recipient to respond. The subject should start with "Follow up:".

Respond with ONLY a JSON object, no other text:
{
  "subject": "the email subject line",
  "body": "the full email body",
  "tone": "professional | friendly | urgent",
  "reasoning": "one sentence on why this tone and angle"
}`

// maxBodyChars bounds how much of each email body goes into the prompt.
const maxBodyChars = 500

// buildContext assembles the user message for a waiting thread: one entry
// per email with sender, date, and a bounded body excerpt, oldest first.
func buildContext(thread *models.Thread, daysWaiting int) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Thread: %s\n", thread.Subject)
	if thread.WaitingOnEmail != nil {
		fmt.Fprintf(&sb, "Waiting on a reply from %s for %d day(s).\n", *thread.WaitingOnEmail, daysWaiting)
	}
	sb.WriteString("\nEmail history:\n")
	for _, e := range classify.Sorted(thread.Emails) {
		fmt.Fprintf(&sb, "\n--- %s on %s (%s)\n%s\n",
			e.Sender, e.ReceivedAt.Format("Jan 2, 2006"), e.Direction, truncate(e.Body, maxBodyChars))
	}
	return sb.String()
}

// truncate shortens s to at most n characters, appending an ellipsis
// marker when anything was cut.
func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n]) + "…"
}
