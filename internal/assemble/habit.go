package assemble

import (
	"regexp"
	"strings"

	"nathanbeddoewebdev/chatact/internal/domain"
	"nathanbeddoewebdev/chatact/internal/extract"
)

var habitReplyRules = []replyRule[domain.HabitParams]{
	{
		pattern: regexp.MustCompile(`(?i)(?:saya akan|baik|akan saya)\s+(?:buat|buatkan|membuat|tambahkan|menambahkan|catat|mencatat)\s+(?:(?:kebiasaan|habit)\s*)?["']([^"']+)["']`),
		apply:   func(p *domain.HabitParams, m []string, _ Input) { p.Name = extract.FormatTitle(m[1]) },
	},
}

// Habit assembles the parameters for a new habit.
func Habit(in Input) domain.HabitParams {
	sources := in.sources()
	p := domain.HabitParams{
		Frequency: domain.FrequencyDaily,
		Icon:      extract.DefaultHabitTheme.Icon,
		Color:     extract.DefaultHabitTheme.Color,
	}

	p.Name, _ = extract.First(sources, extract.HabitName)
	p.Description, _ = extract.First(sources, extract.HabitPurpose)
	if f, ok := extract.First(sources, extract.Frequency); ok {
		p.Frequency = f
	}
	if theme, ok := extract.First(sources, extract.HabitTheme); ok {
		p.Icon, p.Color = theme.Icon, theme.Color
	}

	applyReply(habitReplyRules, in, &p)

	if p.Name == "" {
		p.Name = in.fallbackTitle("Kebiasaan Baru")
	}
	if strings.TrimSpace(p.Description) == "" {
		p.Description = extract.HabitDescription(p.Frequency, p.Name)
	}
	return p
}
