// Package assemble composes the temporal resolver and field extractors into
// a complete parameter set for each action kind.
//
// Every field is mined from the user message first and the assistant reply
// second. Reply-only patterns that recognise the assistant's structured
// confirmations ("Saya akan membuat tugas 'X'") run last and override what
// the extractors found. Required fields always get a value.
package assemble

import (
	"regexp"
	"strings"
	"time"

	"nathanbeddoewebdev/chatact/internal/domain"
	"nathanbeddoewebdev/chatact/internal/extract"
	"nathanbeddoewebdev/chatact/internal/temporal"
)

// Input is one chat turn plus advisory context.
type Input struct {
	Message string
	// Reply is the assistant reply. It may be empty.
	Reply string
	// Now is the reference time for relative dates.
	Now time.Time
	// Hints may be nil.
	Hints *domain.Hints
}

func (in Input) sources() []string {
	return []string{in.Message, in.Reply}
}

// instant resolves the first temporal expression in s.
func (in Input) instant(s string) (time.Time, bool) {
	r := temporal.Resolve(s, in.Now)
	return r.Instant, r.OK
}

// fallbackTitle derives a title from the message, or returns def for a
// blank message.
func (in Input) fallbackTitle(def string) string {
	if t := extract.FallbackTitle(in.Message); t != "" {
		return t
	}
	return def
}

// replyRule is a structured confirmation pattern applied to the assistant
// reply alone. apply receives the submatches and may overwrite fields.
type replyRule[P any] struct {
	pattern *regexp.Regexp
	apply   func(p *P, m []string, in Input)
}

func applyReply[P any](rules []replyRule[P], in Input, p *P) {
	if in.Reply == "" {
		return
	}
	for _, r := range rules {
		if m := r.pattern.FindStringSubmatch(in.Reply); m != nil {
			r.apply(p, m, in)
		}
	}
}

// Intent assembles the parameters for kind and wraps them with the
// source text.
func Intent(kind domain.ActionKind, in Input) domain.ActionIntent {
	var params domain.ParameterSet
	switch kind {
	case domain.ActionCreateTask:
		params = Task(in)
	case domain.ActionCreateSchedule:
		params = Schedule(in)
	case domain.ActionCreateHabit:
		params = Habit(in)
	case domain.ActionCreateNote:
		params = Note(in)
	}
	target, _ := kind.Entity()
	return domain.ActionIntent{
		Kind:          kind,
		Target:        target,
		Parameters:    params,
		SourceMessage: in.Message,
		SourceReply:   in.Reply,
	}
}

var taskReplyRules = []replyRule[domain.TaskParams]{
	{
		pattern: regexp.MustCompile(`(?i)(?:akan|telah|sudah)\s+(?:membuat|menambahkan|mencatat)\s+tugas\s+['"]([^'"]+)['"]`),
		apply:   func(p *domain.TaskParams, m []string, _ Input) { p.Title = extract.FormatTitle(m[1]) },
	},
	{
		pattern: regexp.MustCompile(`(?i)\btugas\s+['"]([^'"]+)['"]\s+(?:telah|berhasil|sudah)\s+dibuat`),
		apply:   func(p *domain.TaskParams, m []string, _ Input) { p.Title = extract.FormatTitle(m[1]) },
	},
	{
		pattern: regexp.MustCompile(`(?i)dengan deadline\s+(?:tanggal|pada)\s+([^.!,]+)`),
		apply: func(p *domain.TaskParams, m []string, in Input) {
			if due, ok := in.instant(m[1]); ok {
				p.DueDate = &due
			}
		},
	},
	{
		pattern: regexp.MustCompile(`(?i)\b(?:untuk|pada|dalam)\s+(?:mata kuliah|mk|kategori|pelajaran)\s+[^.!,]+`),
		apply: func(p *domain.TaskParams, m []string, _ Input) {
			if c, ok := extract.Category(m[0]); ok {
				p.Category = c
			}
		},
	},
	{
		pattern: regexp.MustCompile(`(?i)dengan prioritas (tinggi|rendah)|prioritas:\s*(tinggi|rendah)`),
		apply: func(p *domain.TaskParams, m []string, _ Input) {
			if strings.EqualFold(m[1]+m[2], "tinggi") {
				p.Priority = domain.PriorityHigh
			} else {
				p.Priority = domain.PriorityLow
			}
		},
	},
}

// Task assembles the parameters for a new task.
func Task(in Input) domain.TaskParams {
	sources := in.sources()
	p := domain.TaskParams{Priority: domain.PriorityMedium}

	p.Title, _ = extract.First(sources, extract.Title)
	p.Category, _ = extract.First(sources, extract.Category)
	if due, ok := extract.First(sources, in.instant); ok {
		p.DueDate = &due
	}
	if pr, ok := extract.First(sources, extract.MatchPriority); ok {
		p.Priority = pr
	}
	// Replies restate the request, so only the message is mined for a
	// description.
	p.Description, _ = extract.Description(in.Message)

	applyReply(taskReplyRules, in, &p)

	if p.Category == "" {
		p.Category = in.recentTopic()
	}
	if p.Title == "" {
		p.Title = in.fallbackTitle("Tugas Baru")
	}
	return p
}

// recentTopic returns the first recent topic that the message mentions.
func (in Input) recentTopic() string {
	if in.Hints == nil {
		return ""
	}
	tokens := strings.Fields(strings.ToLower(in.Message))
	for _, topic := range in.Hints.RecentTopics {
		for _, tok := range tokens {
			if strings.Trim(tok, ",.!?;:'\"()") == strings.ToLower(topic) {
				return topic
			}
		}
	}
	return ""
}
