package assemble

import (
	"regexp"
	"strings"

	"nathanbeddoewebdev/chatact/internal/domain"
	"nathanbeddoewebdev/chatact/internal/extract"
)

var noteReplyRules = []replyRule[domain.NoteParams]{
	{
		pattern: regexp.MustCompile(`(?i)(?:akan|telah|sudah)\s+(?:membuat|menyimpan|mencatat|menambahkan)\s+catatan\s+["']([^"']+)["']`),
		apply:   func(p *domain.NoteParams, m []string, _ Input) { p.Title = extract.FormatTitle(m[1]) },
	},
}

// Note assembles the parameters for a new note. Only the message carries
// note content; the reply can confirm a title.
func Note(in Input) domain.NoteParams {
	var p domain.NoteParams
	p.Title, p.Content, _ = extract.NoteTitle(in.Message)

	applyReply(noteReplyRules, in, &p)

	if p.Title == "" {
		p.Title = in.fallbackTitle("Catatan Baru")
	}
	if p.Content == "" {
		p.Content = strings.TrimSpace(in.Message)
	}
	if p.Content == "" {
		p.Content = p.Title
	}
	return p
}
