package domain

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// Priority of a task.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
	PriorityUrgent Priority = "urgent"
)

// Valid reports whether p is a known priority.
func (p Priority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityUrgent:
		return true
	}
	return false
}

// EventType classifies a schedule entry.
type EventType string

const (
	EventGeneric  EventType = "event"
	EventMeeting  EventType = "meeting"
	EventDeadline EventType = "deadline"
	EventClass    EventType = "class"
	EventExam     EventType = "exam"
	EventTask     EventType = "task"
)

// Valid reports whether t is a known event type.
func (t EventType) Valid() bool {
	switch t {
	case EventGeneric, EventMeeting, EventDeadline, EventClass, EventExam, EventTask:
		return true
	}
	return false
}

// Frequency of a habit.
type Frequency string

const (
	FrequencyDaily         Frequency = "daily"
	FrequencyWeekly        Frequency = "weekly"
	FrequencyMonthly       Frequency = "monthly"
	FrequencyEveryOtherDay Frequency = "every_other_day"
	FrequencyWeekdays      Frequency = "weekdays"
	FrequencyWeekends      Frequency = "weekends"
)

// Valid reports whether f is a known frequency.
func (f Frequency) Valid() bool {
	switch f {
	case FrequencyDaily, FrequencyWeekly, FrequencyMonthly,
		FrequencyEveryOtherDay, FrequencyWeekdays, FrequencyWeekends:
		return true
	}
	return false
}

// ParameterSet is the typed field bundle for one action kind.
type ParameterSet interface {
	// Kind returns the action kind this variant belongs to.
	Kind() ActionKind

	// Validate returns a *ValidationError when a required field is missing
	// or malformed.
	Validate() error
}

// TaskParams creates a task.
type TaskParams struct {
	Title       string     `json:"title" yaml:"title"`
	Description string     `json:"description,omitempty" yaml:"description,omitempty"`
	DueDate     *time.Time `json:"due_date,omitempty" yaml:"due_date,omitempty"`
	Priority    Priority   `json:"priority" yaml:"priority"`
	Category    string     `json:"category,omitempty" yaml:"category,omitempty"`
}

func (TaskParams) Kind() ActionKind { return ActionCreateTask }

func (p TaskParams) Validate() error {
	if strings.TrimSpace(p.Title) == "" {
		return invalid("title", "must not be empty")
	}
	if !p.Priority.Valid() {
		return invalid("priority", fmt.Sprintf("%q is not a known priority", p.Priority))
	}
	return nil
}

// ScheduleParams creates a schedule entry.
type ScheduleParams struct {
	Title       string     `json:"title" yaml:"title"`
	Description string     `json:"description,omitempty" yaml:"description,omitempty"`
	StartTime   *time.Time `json:"start_time,omitempty" yaml:"start_time,omitempty"`
	EndTime     *time.Time `json:"end_time,omitempty" yaml:"end_time,omitempty"`
	Type        EventType  `json:"type" yaml:"type"`
	Location    string     `json:"location,omitempty" yaml:"location,omitempty"`
}

func (ScheduleParams) Kind() ActionKind { return ActionCreateSchedule }

func (p ScheduleParams) Validate() error {
	if strings.TrimSpace(p.Title) == "" {
		return invalid("title", "must not be empty")
	}
	if p.StartTime == nil {
		return invalid("start_time", "is required")
	}
	if p.EndTime == nil || !p.EndTime.After(*p.StartTime) {
		return invalid("end_time", "must be after start_time")
	}
	if !p.Type.Valid() {
		return invalid("type", fmt.Sprintf("%q is not a known event type", p.Type))
	}
	return nil
}

// HabitParams creates a habit.
type HabitParams struct {
	Name        string    `json:"name" yaml:"name"`
	Description string    `json:"description,omitempty" yaml:"description,omitempty"`
	Frequency   Frequency `json:"frequency" yaml:"frequency"`
	Icon        string    `json:"icon" yaml:"icon"`
	Color       string    `json:"color" yaml:"color"`
}

func (HabitParams) Kind() ActionKind { return ActionCreateHabit }

func (p HabitParams) Validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return invalid("name", "must not be empty")
	}
	if !p.Frequency.Valid() {
		return invalid("frequency", fmt.Sprintf("%q is not a known frequency", p.Frequency))
	}
	return nil
}

// NoteParams creates a note.
type NoteParams struct {
	Title   string `json:"title" yaml:"title"`
	Content string `json:"content" yaml:"content"`
}

func (NoteParams) Kind() ActionKind { return ActionCreateNote }

func (p NoteParams) Validate() error {
	if strings.TrimSpace(p.Title) == "" {
		return invalid("title", "must not be empty")
	}
	if strings.TrimSpace(p.Content) == "" {
		return invalid("content", "must not be empty")
	}
	return nil
}

// EncodeParameters serializes a ParameterSet for storage.
func EncodeParameters(p ParameterSet) ([]byte, error) {
	if p == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(p)
}

// DecodeParameters restores the ParameterSet variant for kind from data.
func DecodeParameters(kind ActionKind, data []byte) (ParameterSet, error) {
	if len(data) == 0 {
		data = []byte("{}")
	}
	var (
		p   ParameterSet
		err error
	)
	switch kind {
	case ActionCreateTask:
		var v TaskParams
		err = json.Unmarshal(data, &v)
		p = v
	case ActionCreateSchedule:
		var v ScheduleParams
		err = json.Unmarshal(data, &v)
		p = v
	case ActionCreateHabit:
		var v HabitParams
		err = json.Unmarshal(data, &v)
		p = v
	case ActionCreateNote:
		var v NoteParams
		err = json.Unmarshal(data, &v)
		p = v
	default:
		return nil, fmt.Errorf("unknown action kind %q", kind)
	}
	if err != nil {
		return nil, fmt.Errorf("decode %s parameters: %w", kind, err)
	}
	return p, nil
}
