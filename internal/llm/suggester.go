package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/javiermolinar/roster/internal/schedule"
)

const suggestSystemPrompt = `You are a professional school timetable scheduler.
Build a weekly lesson timetable and return it as JSON only (no markdown, no explanation).

Hard rules:
1. NO CONFLICT: a teacher never teaches two classes at the same (day, period).
2. DISTRIBUTION: spread each teacher's hours over the week instead of stacking them on one day.
3. VALIDITY: a teacher only teaches subjects listed for them.
4. Every entry has a valid day, period, className, subject and teacherName.
5. Use teacher names exactly as given.

JSON schema:
{
  "slots": [
    {
      "day": "string (one of the school days)",
      "period": integer,
      "className": "string",
      "subject": "string",
      "teacherName": "string"
    }
  ]
}`

// SuggestRequest is the context sent to the suggestion generator.
type SuggestRequest struct {
	Teachers []schedule.Teacher
	Classes  []string
	Days     []string
	Periods  []float64
}

// Limits caps the size of a suggestion request.
type Limits struct {
	MaxTeachers int
	MaxClasses  int
	MaxPeriods  int
}

// NewSuggestRequest shapes a request: only teachers with teaching hours,
// heaviest load first, and at most the configured number of teachers,
// classes and periods (periods are numbered 1..MaxPeriods).
func NewSuggestRequest(dir *schedule.Directory, classes, days []string, limits Limits) SuggestRequest {
	req := SuggestRequest{
		Teachers: dir.ActiveTeachers(limits.MaxTeachers),
		Classes:  append([]string(nil), classes...),
		Days:     append([]string(nil), days...),
	}
	if limits.MaxClasses > 0 && len(req.Classes) > limits.MaxClasses {
		req.Classes = req.Classes[:limits.MaxClasses]
	}
	for p := 1; p <= limits.MaxPeriods; p++ {
		req.Periods = append(req.Periods, float64(p))
	}
	return req
}

// Suggestion is one generated lesson before teacher resolution.
type Suggestion struct {
	Day         string  `json:"day"`
	Period      float64 `json:"period"`
	ClassName   string  `json:"className"`
	Subject     string  `json:"subject"`
	TeacherName string  `json:"teacherName"`
}

// Generator produces candidate lessons for a request.
type Generator interface {
	Suggest(ctx context.Context, req SuggestRequest) ([]Suggestion, error)
}

// Suggester asks an LLM for a timetable draft.
type Suggester struct {
	client   Client
	provider string
}

// NewSuggester creates a Suggester with the given LLM client.
// provider is only used in error messages.
func NewSuggester(client Client, provider string) *Suggester {
	return &Suggester{client: client, provider: provider}
}

// Suggest returns the generated lessons.
// Any failure is returned as a *GenerationError; the suggestion batch is
// all or nothing.
func (s *Suggester) Suggest(ctx context.Context, req SuggestRequest) ([]Suggestion, error) {
	if s.client == nil {
		return nil, &GenerationError{Provider: s.provider, Err: ErrMissingCredentials}
	}

	var raw json.RawMessage
	if err := s.client.ChatJSON(ctx, BuildSuggestMessages(req), &raw); err != nil {
		return nil, &GenerationError{Provider: s.provider, Err: err}
	}

	suggestions, err := parseSuggestions(raw)
	if err != nil {
		return nil, &GenerationError{Provider: s.provider, Err: err}
	}
	return suggestions, nil
}

// BuildSuggestMessages renders the prompt for a request.
func BuildSuggestMessages(req SuggestRequest) []Message {
	type teacherData struct {
		Name     string   `json:"name"`
		Subjects []string `json:"subjects"`
		Load     int      `json:"load"`
	}
	teachers := make([]teacherData, len(req.Teachers))
	for i, t := range req.Teachers {
		teachers[i] = teacherData{Name: t.Name, Subjects: t.Subjects, Load: t.TeachingHours}
	}

	var sb strings.Builder
	sb.WriteString("Teachers and weekly load:\n")
	sb.WriteString(mustJSON(teachers))
	sb.WriteString("\n\nClasses to schedule:\n")
	sb.WriteString(mustJSON(req.Classes))
	sb.WriteString("\n\nSchool days: ")
	sb.WriteString(mustJSON(req.Days))
	sb.WriteString("\nPeriods per day: ")
	sb.WriteString(mustJSON(req.Periods))

	return []Message{
		SystemMessage(suggestSystemPrompt),
		UserMessage(sb.String()),
	}
}

// parseSuggestions accepts either a bare array or an object holding the
// array under "slots" or "schedule".
func parseSuggestions(raw json.RawMessage) ([]Suggestion, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil, nil
	}

	if trimmed[0] == '[' {
		var list []Suggestion
		if err := json.Unmarshal(trimmed, &list); err != nil {
			return nil, fmt.Errorf("parsing suggestions: %w", err)
		}
		return list, nil
	}

	var wrapped struct {
		Slots    []Suggestion `json:"slots"`
		Schedule []Suggestion `json:"schedule"`
	}
	if err := json.Unmarshal(trimmed, &wrapped); err != nil {
		return nil, fmt.Errorf("parsing suggestions: %w", err)
	}
	if wrapped.Slots == nil && wrapped.Schedule == nil {
		return nil, errors.New("parsing suggestions: response has no slots")
	}
	return append(wrapped.Slots, wrapped.Schedule...), nil
}

func mustJSON(v any) string {
	b, err := json.Marshal(v)
	if err != nil {
		return "[]"
	}
	return string(b)
}
