package followup

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/kingcader/attache/internal/models"
)

// ErrInvalidDraft marks a generation result that failed validation, as
// opposed to a network or provider failure.
var ErrInvalidDraft = errors.New("generation result failed validation")

// Draft is the validated output of a generation backend. Only these four
// fields are ever read from backend output; everything else is discarded.
type Draft struct {
	Subject   string
	Body      string
	Tone      string
	Reasoning string
}

// ParseDraft extracts and validates a draft from raw backend output.
// Backends are instructed to return a bare JSON object but routinely wrap
// it in prose or code fences, so the parser locates the outermost object
// before decoding.
//
// Validation is fail-closed: a missing or empty subject or body rejects
// the entire result. Tone alone degrades gracefully, coercing to
// professional when absent or unrecognized. Reasoning is optional and
// becomes the empty string when absent or not a string.
func ParseDraft(raw string) (*Draft, error) {
	obj := extractJSON(raw)
	if obj == "" {
		return nil, fmt.Errorf("followup: no JSON object in output: %w", ErrInvalidDraft)
	}

	var fields map[string]interface{}
	if err := json.Unmarshal([]byte(obj), &fields); err != nil {
		return nil, fmt.Errorf("followup: malformed JSON in output: %w", ErrInvalidDraft)
	}

	subject := strings.TrimSpace(stringField(fields, "subject"))
	body := strings.TrimSpace(stringField(fields, "body"))
	if subject == "" {
		return nil, fmt.Errorf("followup: draft subject missing or empty: %w", ErrInvalidDraft)
	}
	if body == "" {
		return nil, fmt.Errorf("followup: draft body missing or empty: %w", ErrInvalidDraft)
	}

	tone := stringField(fields, "tone")
	switch tone {
	case models.ToneProfessional, models.ToneFriendly, models.ToneUrgent:
	default:
		tone = models.ToneProfessional
	}

	return &Draft{
		Subject:   subject,
		Body:      body,
		Tone:      tone,
		Reasoning: stringField(fields, "reasoning"),
	}, nil
}

// stringField returns the named field if it is a string, else "".
func stringField(fields map[string]interface{}, name string) string {
	if v, ok := fields[name].(string); ok {
		return v
	}
	return ""
}

// extractJSON returns the outermost {...} object in raw, or "" if none.
func extractJSON(raw string) string {
	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start < 0 || end <= start {
		return ""
	}
	return raw[start : end+1]
}
