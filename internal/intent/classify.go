// Package intent decides which kind of action, if any, a chat turn asks for.
package intent

import (
	"slices"
	"strings"

	"nathanbeddoewebdev/chatact/internal/domain"
)

// keywordSet is the phrase list that identifies one action kind in a
// user message.
type keywordSet struct {
	kind    domain.ActionKind
	phrases []string
}

// keywordSets are tested in order; the first set with a matching phrase
// decides the kind.
var keywordSets = []keywordSet{
	{domain.ActionCreateTask, []string{
		"buat tugas", "tambahkan tugas", "jadwalkan tugas", "ingatkan saya", "bikin task",
		"catat tugas", "tolong buat tugas", "bisakah kamu membuat tugas", "saya perlu mengerjakan",
		"tambah pr", "tambahkan pr", "ada pr", "ada tugas", "deadline", "mengerjakan pr",
		"mengerjakan tugas", "tambahkan to-do", "tambah to-do", "to do", "todo", "bikin tugas",
		"buatkan tugas", "tambah tugas", "tugas baru", "assignment", "pekerjaan rumah",
		"pr", "task", "tolong ingatkan", "reminder", "jangan lupa",
		"remind me", "create task", "add task", "homework",
	}},
	{domain.ActionCreateSchedule, []string{
		"jadwalkan", "buat jadwal", "tambahkan jadwal", "buat event", "tambahkan event",
		"bisakah kamu menjadwalkan", "tolong jadwalkan", "buat janji", "tambahkan janji",
		"jadwalkan meeting", "jadwal kegiatan", "buat acara", "tambahkan acara", "rapat",
		"ada rapat", "akan ada", "akan diadakan", "jadwal", "janji temu", "event",
		"acara", "meeting", "pertemuan", "agenda", "schedule", "bikin jadwal",
		"buatkan jadwal", "tambah jadwal", "jadwal baru", "appointment", "kelas",
		"kuliah", "ujian", "seminar", "workshop", "webinar", "presentasi",
	}},
	{domain.ActionCreateHabit, []string{
		"buat kebiasaan", "tambahkan kebiasaan", "catat kebiasaan", "track kebiasaan",
		"bisakah kamu membuat kebiasaan", "tolong buat kebiasaan", "saya ingin memulai kebiasaan",
		"ingin membiasakan diri", "kebiasaan baru", "kebiasaan baik", "habit baru", "rutin",
		"habit", "kebiasaan", "rutinitas", "bikin kebiasaan", "buatkan kebiasaan",
		"tambah kebiasaan", "tracking kebiasaan", "membiasakan", "biasakan", "daily habit",
		"weekly habit", "monthly habit", "kebiasaan harian", "kebiasaan mingguan",
		"kebiasaan bulanan", "mulai kebiasaan", "memulai kebiasaan", "membiasakan diri",
		"habit tracker", "kebiasaan sehat", "healthy habit", "kebiasaan produktif",
		"new habit",
	}},
	{domain.ActionCreateNote, []string{
		"buat catatan", "catat", "tulis catatan", "tolong catat", "ingat ini",
		"tolong ingat", "simpan catatan", "catat ini", "bisakah kamu mencatat",
		"catat poin", "simpan poin", "buat note", "tolong buat note", "note",
		"catatan", "memo", "bikin catatan", "buatkan catatan", "tambah catatan",
		"catatan baru", "catat poin-poin", "catat informasi", "simpan informasi",
	}},
}

// replyRule recognises an action kind from the assistant reply when the
// user message matched nothing. A rule matches when the reply contains
// every term in all and at least one term in any.
type replyRule struct {
	kind domain.ActionKind
	all  []string
	any  []string
}

var replyRules = []replyRule{
	{kind: domain.ActionCreateTask, all: []string{"tugas"}, any: []string{"akan membuat", "saya akan", "akan saya"}},
	{kind: domain.ActionCreateSchedule, any: []string{"jadwal", "event"}},
	{kind: domain.ActionCreateHabit, any: []string{"kebiasaan", "habit"}},
	{kind: domain.ActionCreateNote, any: []string{"catatan", "note"}},
}

// Classify returns the action kind requested by message, falling back to
// the assistant reply. ok is false when the turn asks for nothing.
func Classify(message, reply string) (kind domain.ActionKind, ok bool) {
	tokens := Tokens(message)
	for _, set := range keywordSets {
		for _, phrase := range set.phrases {
			if matchPhrase(tokens, phrase) {
				return set.kind, true
			}
		}
	}

	lower := strings.ToLower(reply)
	for _, r := range replyRules {
		if r.matches(lower) {
			return r.kind, true
		}
	}
	return "", false
}

func (r replyRule) matches(reply string) bool {
	for _, term := range r.all {
		if !strings.Contains(reply, term) {
			return false
		}
	}
	for _, term := range r.any {
		if strings.Contains(reply, term) {
			return true
		}
	}
	return len(r.any) == 0
}

const punctuation = `,.!?;:'"()[]{}`

// Tokens lowercases text, replaces punctuation with spaces and splits it
// into words.
func Tokens(text string) []string {
	cleaned := strings.Map(func(r rune) rune {
		if strings.ContainsRune(punctuation, r) {
			return ' '
		}
		return r
	}, strings.ToLower(text))
	return strings.Fields(cleaned)
}

// matchPhrase reports whether every word of phrase is a token of the
// message. Adjacent words are a special case of this, so a phrase also
// matches when its words are split up or reordered.
func matchPhrase(tokens []string, phrase string) bool {
	words := strings.Fields(phrase)
	if len(words) == 0 {
		return false
	}
	for _, w := range words {
		if !slices.Contains(tokens, w) {
			return false
		}
	}
	return true
}
