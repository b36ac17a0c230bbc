// Package policy decides which detected actions may run without an explicit
// approval from the user.
package policy

import (
	"strings"

	"nathanbeddoewebdev/chatact/internal/domain"
)

// Rule reports whether parameters are complete enough to run unattended.
type Rule func(params domain.ParameterSet) bool

// Policy is a table of auto-execution rules keyed by action kind. Kinds
// without a rule always wait for approval.
type Policy struct {
	rules map[domain.ActionKind]Rule
}

// New returns a policy over rules. The map is copied.
func New(rules map[domain.ActionKind]Rule) *Policy {
	p := &Policy{rules: make(map[domain.ActionKind]Rule, len(rules))}
	for k, r := range rules {
		p.rules[k] = r
	}
	return p
}

// Default returns the policy in effect for chat sessions: habits with a
// name and schedules with a title and start time run immediately. Tasks
// and notes always wait for approval.
func Default() *Policy {
	return New(map[domain.ActionKind]Rule{
		domain.ActionCreateHabit:    habitNamed,
		domain.ActionCreateSchedule: scheduleTimed,
	})
}

// ShouldAutoExecute reports whether an action of kind with params may run
// without approval.
func (p *Policy) ShouldAutoExecute(kind domain.ActionKind, params domain.ParameterSet) bool {
	if p == nil || params == nil {
		return false
	}
	rule, ok := p.rules[kind]
	if !ok {
		return false
	}
	return rule(params)
}

func habitNamed(params domain.ParameterSet) bool {
	h, ok := params.(domain.HabitParams)
	return ok && strings.TrimSpace(h.Name) != ""
}

func scheduleTimed(params domain.ParameterSet) bool {
	s, ok := params.(domain.ScheduleParams)
	return ok && strings.TrimSpace(s.Title) != "" && s.StartTime != nil
}
