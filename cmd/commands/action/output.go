package action

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"
	"time"

	"nathanbeddoewebdev/chatact/internal/domain"
	"nathanbeddoewebdev/chatact/internal/tui"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// recordView is the serialized form of an action record.
type recordView struct {
	ID               int64                   `json:"id" yaml:"id"`
	OwnerID          string                  `json:"owner_id" yaml:"owner_id"`
	ConversationID   string                  `json:"conversation_id" yaml:"conversation_id"`
	Kind             domain.ActionKind       `json:"kind" yaml:"kind"`
	Target           domain.EntityKind       `json:"target" yaml:"target"`
	Status           domain.Status           `json:"status" yaml:"status"`
	Parameters       domain.ParameterSet     `json:"parameters" yaml:"parameters"`
	CreatedResultRef string                  `json:"created_result_ref,omitempty" yaml:"created_result_ref,omitempty"`
	Result           *domain.ExecutionResult `json:"result,omitempty" yaml:"result,omitempty"`
	SourceMessage    string                  `json:"source_message" yaml:"source_message"`
	SourceReply      string                  `json:"source_reply,omitempty" yaml:"source_reply,omitempty"`
	CreatedAt        time.Time               `json:"created_at" yaml:"created_at"`
	UpdatedAt        time.Time               `json:"updated_at" yaml:"updated_at"`
}

func newRecordView(r domain.ActionRecord) recordView {
	return recordView{
		ID:               r.ID,
		OwnerID:          r.OwnerID,
		ConversationID:   r.ConversationID,
		Kind:             r.Kind,
		Target:           r.Target,
		Status:           r.Status,
		Parameters:       r.Parameters,
		CreatedResultRef: r.CreatedResultRef,
		Result:           r.Result,
		SourceMessage:    r.SourceMessage,
		SourceReply:      r.SourceReply,
		CreatedAt:        r.CreatedAt,
		UpdatedAt:        r.UpdatedAt,
	}
}

func checkFormat(format string) error {
	switch format {
	case "table", "json", "yaml":
		return nil
	}
	return fmt.Errorf("unsupported output format %q", format)
}

// encode writes v as indented JSON or YAML.
func encode(cmd *cobra.Command, format string, v any) error {
	if format == "yaml" {
		enc := yaml.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	}
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// printRecord prints one record as a detail block or encoded document.
func printRecord(cmd *cobra.Command, format string, record *domain.ActionRecord) error {
	if format != "table" {
		return encode(cmd, format, newRecordView(*record))
	}
	fmt.Fprintln(cmd.OutOrStdout(), tui.Detail(*record))
	return nil
}

// printRecords prints a list of records as a table or encoded document.
func printRecords(cmd *cobra.Command, format string, records []domain.ActionRecord) error {
	if format != "table" {
		views := make([]recordView, 0, len(records))
		for _, r := range records {
			views = append(views, newRecordView(r))
		}
		return encode(cmd, format, views)
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tKIND\tSTATUS\tTITLE\tCREATED")
	fmt.Fprintln(w, "--\t----\t------\t-----\t-------")
	for _, r := range records {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\n",
			r.ID,
			r.Kind,
			r.Status,
			title(r.Parameters),
			r.CreatedAt.Local().Format("2006-01-02 15:04"),
		)
	}
	return w.Flush()
}

func title(p domain.ParameterSet) string {
	switch v := p.(type) {
	case domain.TaskParams:
		return v.Title
	case domain.ScheduleParams:
		return v.Title
	case domain.HabitParams:
		return v.Name
	case domain.NoteParams:
		return v.Title
	}
	return "-"
}
