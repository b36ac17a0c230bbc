// Package tui renders actions for the terminal and runs the interactive
// approval form.
package tui

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/huh"

	"nathanbeddoewebdev/chatact/internal/domain"
	"nathanbeddoewebdev/chatact/internal/tui/styles"
)

// ErrAborted is returned when a user cancels the interactive flow.
var ErrAborted = errors.New("review aborted by user")

// ReviewAction asks the user whether record should run. It returns true to
// approve and false to reject.
func ReviewAction(record domain.ActionRecord) (bool, error) {
	accessible := os.Getenv("ACCESSIBLE") != ""

	approve := false
	summary := huh.NewNote().
		Title(fmt.Sprintf("Action #%d: %s", record.ID, record.Kind)).
		Description(Summary(record))

	confirm := huh.NewConfirm().
		Title(fmt.Sprintf("Create this %s?", record.Target)).
		Affirmative("Approve").
		Negative("Reject").
		Value(&approve)

	err := huh.NewForm(huh.NewGroup(summary, confirm)).WithAccessible(accessible).Run()
	if err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			return false, ErrAborted
		}
		return false, err
	}
	return approve, nil
}

// Summary lists the parameters of record, one "Field: value" per line.
// Empty optional fields are left out.
func Summary(record domain.ActionRecord) string {
	var b strings.Builder
	line := func(label, value string) {
		if value != "" {
			fmt.Fprintf(&b, "%s: %s\n", label, value)
		}
	}

	switch p := record.Parameters.(type) {
	case domain.TaskParams:
		line("Title", p.Title)
		line("Description", p.Description)
		line("Due", formatTime(p.DueDate))
		line("Priority", string(p.Priority))
		line("Category", p.Category)
	case domain.ScheduleParams:
		line("Title", p.Title)
		line("Type", string(p.Type))
		line("Start", formatTime(p.StartTime))
		line("End", formatTime(p.EndTime))
		line("Location", p.Location)
		line("Description", p.Description)
	case domain.HabitParams:
		line("Name", strings.TrimSpace(p.Icon+" "+p.Name))
		line("Frequency", string(p.Frequency))
		line("Description", p.Description)
	case domain.NoteParams:
		line("Title", p.Title)
		line("Content", p.Content)
	}
	if record.SourceMessage != "" {
		line("From", fmt.Sprintf("%q", record.SourceMessage))
	}

	return strings.TrimSpace(b.String())
}

// Detail renders record as a styled block for terminal output.
func Detail(record domain.ActionRecord) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s  %s\n",
		styles.Title.Render(fmt.Sprintf("#%d %s", record.ID, record.Kind)),
		styles.StatusIndicator(string(record.Status)),
	)
	for _, row := range strings.Split(Summary(record), "\n") {
		label, value, ok := strings.Cut(row, ": ")
		if !ok {
			continue
		}
		fmt.Fprintf(&b, "  %s %s\n", styles.Label.Render(label+":"), styles.Value.Render(value))
	}
	if record.Result != nil {
		style := styles.SuccessText
		if !record.Result.Success {
			style = styles.ErrorText
		}
		fmt.Fprintf(&b, "  %s\n", style.Render(record.Result.Message))
	}
	return strings.TrimRight(b.String(), "\n")
}

func formatTime(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format("Mon 02 Jan 2006 15:04")
}
