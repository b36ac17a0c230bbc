package auditlog

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"nathanbeddoewebdev/chatact/internal/database"
)

// timeLayout is fixed-width so stored timestamps sort lexically.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// Repository defines the persistence interface for audit entries.
type Repository interface {
	Save(ctx context.Context, entry *AuditEntry) error
	List(ctx context.Context, limit int) ([]AuditEntry, error)
	ListByAction(ctx context.Context, actionID int64, limit int) ([]AuditEntry, error)
	Prune(ctx context.Context, olderThan time.Duration) (int64, error)
	Close() error
}

// SQLiteRepository implements Repository backed by a local SQLite database.
type SQLiteRepository struct {
	db    *sql.DB
	owned bool
}

// Open creates or opens the audit repository at the default path.
func Open() (*SQLiteRepository, error) {
	path, err := database.DefaultPath()
	if err != nil {
		return nil, fmt.Errorf("auditlog: %w", err)
	}
	return OpenAt(path)
}

// OpenAt creates or opens a SQLite database at the given path.
func OpenAt(path string) (*SQLiteRepository, error) {
	db, err := database.Open(path)
	if err != nil {
		return nil, fmt.Errorf("auditlog: %w", err)
	}

	r, err := New(db)
	if err != nil {
		db.Close()
		return nil, err
	}
	r.owned = true
	return r, nil
}

// New migrates and wraps a shared database handle. Close does not close db.
func New(db *sql.DB) (*SQLiteRepository, error) {
	r := &SQLiteRepository{db: db}
	if err := r.migrate(); err != nil {
		return nil, err
	}
	return r, nil
}

func (r *SQLiteRepository) migrate() error {
	const ddl = `
        CREATE TABLE IF NOT EXISTS audit_log (
            id              INTEGER PRIMARY KEY AUTOINCREMENT,
            timestamp       TEXT    NOT NULL,
            action_id       INTEGER NOT NULL,
            owner_id        TEXT    NOT NULL DEFAULT '',
            conversation_id TEXT    NOT NULL DEFAULT '',
            event           TEXT    NOT NULL,
            kind            TEXT    NOT NULL DEFAULT '',
            from_status     TEXT    NOT NULL DEFAULT '',
            to_status       TEXT    NOT NULL DEFAULT '',
            actor           TEXT    NOT NULL DEFAULT '',
            command         TEXT    NOT NULL DEFAULT '',
            outcome         TEXT    NOT NULL DEFAULT '',
            detail          TEXT    NOT NULL DEFAULT ''
        );
        CREATE INDEX IF NOT EXISTS idx_audit_log_timestamp ON audit_log(timestamp);
        CREATE INDEX IF NOT EXISTS idx_audit_log_action ON audit_log(action_id);
    `
	if err := database.Migrate(r.db, ddl); err != nil {
		return fmt.Errorf("auditlog: %w", err)
	}
	return nil
}

// Save inserts a new audit entry.
func (r *SQLiteRepository) Save(ctx context.Context, entry *AuditEntry) error {
	if entry.Timestamp.IsZero() {
		entry.Timestamp = time.Now().UTC()
	}

	result, err := r.db.ExecContext(ctx, `
        INSERT INTO audit_log (timestamp, action_id, owner_id, conversation_id, event, kind,
               from_status, to_status, actor, command, outcome, detail)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		entry.Timestamp.UTC().Format(timeLayout), entry.ActionID, entry.OwnerID, entry.ConversationID,
		entry.Event, entry.Kind, entry.FromStatus, entry.ToStatus, entry.Actor, entry.Command,
		entry.Outcome, entry.Detail,
	)
	if err != nil {
		return fmt.Errorf("auditlog: insert failed: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("auditlog: failed to get last insert ID: %w", err)
	}
	entry.ID = id
	return nil
}

const selectColumns = `
        SELECT id, timestamp, action_id, owner_id, conversation_id, event, kind,
               from_status, to_status, actor, command, outcome, detail
        FROM audit_log`

// List returns the most recent n audit entries.
func (r *SQLiteRepository) List(ctx context.Context, limit int) ([]AuditEntry, error) {
	rows, err := r.db.QueryContext(ctx, selectColumns+` ORDER BY timestamp DESC, id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("auditlog: query failed: %w", err)
	}
	defer rows.Close()
	return scanRows(rows)
}

// ListByAction returns the most recent n audit entries for one action record.
func (r *SQLiteRepository) ListByAction(ctx context.Context, actionID int64, limit int) ([]AuditEntry, error) {
	rows, err := r.db.QueryContext(ctx, selectColumns+`
        WHERE action_id = ? ORDER BY timestamp DESC, id DESC LIMIT ?`, actionID, limit)
	if err != nil {
		return nil, fmt.Errorf("auditlog: query failed: %w", err)
	}
	defer rows.Close()
	return scanRows(rows)
}

// Prune deletes entries older than the given duration.
func (r *SQLiteRepository) Prune(ctx context.Context, olderThan time.Duration) (int64, error) {
	cutoff := time.Now().UTC().Add(-olderThan).Format(timeLayout)
	result, err := r.db.ExecContext(ctx, `DELETE FROM audit_log WHERE timestamp < ?`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("auditlog: delete failed: %w", err)
	}
	return result.RowsAffected()
}

// Close releases database resources when the repository owns them.
func (r *SQLiteRepository) Close() error {
	if !r.owned {
		return nil
	}
	return r.db.Close()
}

func scanRows(rows *sql.Rows) ([]AuditEntry, error) {
	var entries []AuditEntry
	for rows.Next() {
		var entry AuditEntry
		var timestampStr string
		err := rows.Scan(
			&entry.ID, &timestampStr, &entry.ActionID, &entry.OwnerID, &entry.ConversationID,
			&entry.Event, &entry.Kind, &entry.FromStatus, &entry.ToStatus, &entry.Actor,
			&entry.Command, &entry.Outcome, &entry.Detail,
		)
		if err != nil {
			return nil, fmt.Errorf("auditlog: scan failed: %w", err)
		}
		entry.Timestamp, _ = time.Parse(timeLayout, timestampStr)
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}
