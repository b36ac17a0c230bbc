package assemble

import (
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"nathanbeddoewebdev/chatact/internal/domain"
	"nathanbeddoewebdev/chatact/internal/extract"
	"nathanbeddoewebdev/chatact/internal/temporal"
)

// defaultStartHour is used when only a day was given.
const defaultStartHour = 9

// defaultEventLength is the length of an event without a duration or end.
const defaultEventLength = time.Hour

// descriptionMinRunes is the message length above which the message itself
// becomes the event description.
const descriptionMinRunes = 30

var scheduleTitles = map[domain.EventType]string{
	domain.EventMeeting:  "Rapat",
	domain.EventDeadline: "Tenggat Waktu",
	domain.EventClass:    "Kelas",
	domain.EventExam:     "Ujian",
	domain.EventTask:     "Tugas",
	domain.EventGeneric:  "Acara Baru",
}

var scheduleReplyRules = []replyRule[domain.ScheduleParams]{
	{
		pattern: regexp.MustCompile(`(?i)(?:saya akan|baik|akan saya)\s+(?:jadwalkan|menjadwalkan|buat|membuat|tambahkan|menambahkan)\s+(?:(?:jadwal|acara|event|meeting|rapat)\s*)?["']([^"']+)["']`),
		apply:   func(p *domain.ScheduleParams, m []string, _ Input) { p.Title = extract.FormatTitle(m[1]) },
	},
	{
		pattern: regexp.MustCompile(`(?i)\b(?:bertempat|berlokasi)\s+di\s+["']?([^,.!?"'\n]+)`),
		apply:   func(p *domain.ScheduleParams, m []string, _ Input) { p.Location = strings.TrimSpace(m[1]) },
	},
}

// Schedule assembles the parameters for a new schedule entry.
func Schedule(in Input) domain.ScheduleParams {
	sources := in.sources()
	p := domain.ScheduleParams{Type: domain.EventGeneric}

	p.Title, _ = extract.First(sources, extract.ScheduleTitle)
	p.Location, _ = extract.First(sources, extract.Location)
	if t, ok := extract.First(sources, extract.EventType); ok {
		p.Type = t
	}
	if start, end, ok := in.eventWindow(); ok {
		p.StartTime, p.EndTime = &start, &end
	}

	applyReply(scheduleReplyRules, in, &p)

	if p.Title == "" {
		p.Title = in.fallbackTitle(scheduleTitles[p.Type])
	}
	if utf8.RuneCountInString(in.Message) > descriptionMinRunes {
		p.Description = in.Message
	} else {
		p.Description = typeLabel(p.Type) + ": " + p.Title
	}
	return p
}

// eventWindow resolves the start and end of an event. A date without a
// clock starts at 09:00. The end is start plus one hour, start plus an
// explicit duration, or an explicit end clock on the start's day, in
// increasing precedence. An end that is not after the start falls back
// to start plus one hour.
func (in Input) eventWindow() (start, end time.Time, ok bool) {
	sources := in.sources()
	res, ok := extract.First(sources, func(s string) (temporal.Resolution, bool) {
		r := temporal.Resolve(s, in.Now)
		return r, r.OK
	})
	if !ok {
		return time.Time{}, time.Time{}, false
	}

	start = res.Instant
	if res.DateOnly {
		start = temporal.At(start, defaultStartHour, 0)
	}

	end = start.Add(defaultEventLength)
	if d, ok := extract.First(sources, temporal.Duration); ok {
		end = start.Add(d)
	}
	if c, ok := extract.First(sources, endClock); ok {
		end = temporal.At(start, c.hour, c.minute)
	}
	if !end.After(start) {
		end = start.Add(defaultEventLength)
	}
	return start, end, true
}

type clock struct{ hour, minute int }

func endClock(s string) (clock, bool) {
	h, m, ok := temporal.EndClock(s)
	return clock{h, m}, ok
}

func typeLabel(t domain.EventType) string {
	s := string(t)
	if s == "" {
		return ""
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
