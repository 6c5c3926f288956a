package ai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"
)

// Bounds applied to captured estimates, in minutes.
const (
	MinEstimateMins     = 5
	MaxEstimateMins     = 480
	DefaultEstimateMins = 30

	maxTitleRunes = 120
)

// KnownContexts are the task contexts a draft may carry.
var KnownContexts = []string{"Deep Work", "Admin", "Calls", "Errands", "Personal"}

var validPriorities = map[string]bool{"LOW": true, "MEDIUM": true, "HIGH": true, "URGENT": true}

var (
	// ErrEmptyCapture is returned for blank input.
	ErrEmptyCapture = errors.New("capture text is empty")

	// ErrInvalidDraft is returned when the model reply is not a usable draft.
	ErrInvalidDraft = errors.New("model returned an invalid task draft")
)

// TaskDraft is a task proposed from free text. It is not persisted.
type TaskDraft struct {
	Title        string `json:"title"`
	Notes        string `json:"notes,omitempty"`
	EstimateMins int    `json:"estimateMins"`
	Priority     string `json:"priority"`
	Context      string `json:"context,omitempty"`
}

// CaptureService turns free text into a task draft with an LLM.
type CaptureService struct {
	llm LLMService
}

// NewCaptureService creates a CaptureService.
func NewCaptureService(llm LLMService) *CaptureService {
	return &CaptureService{llm: llm}
}

const captureSystemPrompt = `You turn a short note into a single task for a productivity app.
Current time: %s (Asia/Kolkata).
Reply with one JSON object and nothing else, using these keys:
  "title": short imperative title
  "notes": extra details from the note, or ""
  "estimateMins": integer minutes the task will take
  "priority": one of LOW, MEDIUM, HIGH, URGENT
  "context": one of %s, or ""`

// Capture asks the model for a draft and normalises it.
func (s *CaptureService) Capture(ctx context.Context, text string, now time.Time) (*TaskDraft, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, ErrEmptyCapture
	}

	prompt := fmt.Sprintf(captureSystemPrompt, now.Format(time.RFC3339), strings.Join(quoted(KnownContexts), ", "))
	reply, err := s.llm.ChatJSON(ctx, FormatMessages(prompt, text, nil))
	if err != nil {
		return nil, fmt.Errorf("failed to capture task: %w", err)
	}

	draft, err := parseDraft(reply)
	if err != nil {
		return nil, err
	}
	return normalizeDraft(draft, text), nil
}

// parseDraft decodes a reply, tolerating a surrounding markdown code fence.
func parseDraft(reply string) (*TaskDraft, error) {
	reply = strings.TrimSpace(reply)
	if strings.HasPrefix(reply, "```") {
		reply = strings.TrimPrefix(reply, "```json")
		reply = strings.TrimPrefix(reply, "```")
		reply = strings.TrimSuffix(strings.TrimSpace(reply), "```")
	}

	// estimateMins may arrive as a number or a numeric string.
	var raw struct {
		TaskDraft
		EstimateMins json.Number `json:"estimateMins"`
	}
	if err := json.Unmarshal([]byte(reply), &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidDraft, err)
	}
	draft := raw.TaskDraft
	if raw.EstimateMins != "" {
		f, err := raw.EstimateMins.Float64()
		if err != nil {
			return nil, fmt.Errorf("%w: estimateMins %q", ErrInvalidDraft, raw.EstimateMins)
		}
		draft.EstimateMins = int(f + 0.5)
	}
	return &draft, nil
}

func normalizeDraft(d *TaskDraft, source string) *TaskDraft {
	d.Title = strings.TrimSpace(d.Title)
	if d.Title == "" {
		d.Title = firstLine(source)
	}
	d.Title = truncateRunes(d.Title, maxTitleRunes)
	d.Notes = strings.TrimSpace(d.Notes)

	d.Priority = strings.ToUpper(strings.TrimSpace(d.Priority))
	if !validPriorities[d.Priority] {
		d.Priority = "MEDIUM"
	}

	switch {
	case d.EstimateMins <= 0:
		d.EstimateMins = DefaultEstimateMins
	case d.EstimateMins < MinEstimateMins:
		d.EstimateMins = MinEstimateMins
	case d.EstimateMins > MaxEstimateMins:
		d.EstimateMins = MaxEstimateMins
	}

	d.Context = canonicalContext(d.Context)
	return d
}

// canonicalContext maps a context case-insensitively to its known spelling,
// or "" when unknown.
func canonicalContext(c string) string {
	c = strings.TrimSpace(c)
	for _, known := range KnownContexts {
		if strings.EqualFold(c, known) {
			return known
		}
	}
	return ""
}

func firstLine(s string) string {
	line, _, _ := strings.Cut(s, "\n")
	return strings.TrimSpace(line)
}

func truncateRunes(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n])
}

func quoted(values []string) []string {
	out := make([]string, len(values))
	for i, v := range values {
		out[i] = `"` + v + `"`
	}
	return out
}
