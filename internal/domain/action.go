package domain

import (
	"strings"
	"time"
)

// ActionKind identifies what a detected intent asks the system to do.
type ActionKind string

const (
	ActionCreateTask     ActionKind = "create_task"
	ActionCreateSchedule ActionKind = "create_schedule"
	ActionCreateHabit    ActionKind = "create_habit"
	ActionCreateNote     ActionKind = "create_note"
)

// EntityKind is the domain record type an action produces.
type EntityKind string

const (
	EntityTask     EntityKind = "task"
	EntitySchedule EntityKind = "schedule"
	EntityHabit    EntityKind = "habit"
	EntityNote     EntityKind = "note"
)

var actionEntities = map[ActionKind]EntityKind{
	ActionCreateTask:     EntityTask,
	ActionCreateSchedule: EntitySchedule,
	ActionCreateHabit:    EntityHabit,
	ActionCreateNote:     EntityNote,
}

// Entity returns the entity kind created by k.
func (k ActionKind) Entity() (EntityKind, bool) {
	e, ok := actionEntities[k]
	return e, ok
}

// Valid reports whether e is one of the four supported entity kinds.
func (e EntityKind) Valid() bool {
	switch e {
	case EntityTask, EntitySchedule, EntityHabit, EntityNote:
		return true
	}
	return false
}

// Label returns the capitalized display name ("Task", "Schedule", ...).
func (e EntityKind) Label() string {
	if e == "" {
		return ""
	}
	return strings.ToUpper(string(e[:1])) + string(e[1:])
}

// Status is the lifecycle state of an ActionRecord.
type Status string

const (
	StatusRequested Status = "requested"
	StatusApproved  Status = "approved"
	StatusRejected  Status = "rejected"
	StatusCompleted Status = "completed"
	StatusFailed    Status = "failed"
)

// transitions lists the only forward moves. Anything absent is rejected.
var transitions = map[Status][]Status{
	StatusRequested: {StatusApproved, StatusRejected},
	StatusApproved:  {StatusCompleted, StatusFailed},
}

// CanTransition reports whether a record in from may move to to.
func CanTransition(from, to Status) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// Terminal reports whether no further transition is possible from s.
func (s Status) Terminal() bool {
	switch s {
	case StatusCompleted, StatusFailed, StatusRejected:
		return true
	}
	return false
}

// ActionIntent is a classified and parameterized request inferred from one
// chat turn. It is consumed once to create an ActionRecord.
type ActionIntent struct {
	Kind          ActionKind
	Target        EntityKind
	Parameters    ParameterSet
	SourceMessage string
	// SourceReply is empty when no assistant reply was available.
	SourceReply string
}

// Entity summarizes a record created in the domain store.
type Entity struct {
	ID        string     `json:"id" yaml:"id"`
	Kind      EntityKind `json:"kind" yaml:"kind"`
	Title     string     `json:"title" yaml:"title"`
	CreatedAt time.Time  `json:"created_at" yaml:"created_at"`
}

// ExecutionResult is the uniform outcome of executing or rejecting an action.
type ExecutionResult struct {
	Success bool    `json:"success" yaml:"success"`
	Message string  `json:"message" yaml:"message"`
	Data    *Entity `json:"data,omitempty" yaml:"data,omitempty"`
}

// ActionRecord is the persisted, auditable lifecycle of one detected intent.
type ActionRecord struct {
	// ID is the auto-increment primary key (assigned on insert).
	ID int64

	OwnerID        string
	ConversationID string

	Kind   ActionKind
	Target EntityKind

	Parameters ParameterSet

	Status Status

	// CreatedResultRef is the id of the created entity. It is set only when
	// Status is StatusCompleted.
	CreatedResultRef string

	// Result is nil until the record reaches a terminal state.
	Result *ExecutionResult

	SourceMessage string
	SourceReply   string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Hints is advisory conversational context used to improve extraction.
type Hints struct {
	RecentTopics   []string
	PreferredStyle string
}
