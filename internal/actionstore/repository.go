// Package actionstore persists action records.
//
// The status column is the single-execution gate: CompareAndSetStatus only
// moves a record whose stored status still equals the expected one, so of
// two concurrent writers leaving the same state exactly one succeeds.
package actionstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"nathanbeddoewebdev/chatact/internal/database"
	"nathanbeddoewebdev/chatact/internal/domain"
)

// timeLayout is fixed-width so stored timestamps sort lexically.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// Repository defines the persistence interface for action records.
type Repository interface {
	// Insert stores a new record and assigns its ID.
	Insert(ctx context.Context, record *domain.ActionRecord) error

	// Get retrieves a single record by ID. It returns nil, nil when the
	// record does not exist.
	Get(ctx context.Context, id int64) (*domain.ActionRecord, error)

	// CompareAndSetStatus moves record id from one status to another,
	// storing result and ref. It reports false when the stored status no
	// longer equals from.
	CompareAndSetStatus(ctx context.Context, id int64, from, to domain.Status, result *domain.ExecutionResult, ref string) (bool, error)

	// ListByStatus returns the owner's records in status, newest first.
	// A limit of zero or less means no limit.
	ListByStatus(ctx context.Context, ownerID string, status domain.Status, limit int) ([]domain.ActionRecord, error)

	// ListByConversation returns every record of a conversation, newest first.
	ListByConversation(ctx context.Context, conversationID string) ([]domain.ActionRecord, error)

	// DeleteOlderThan removes terminal records last updated before now-d.
	DeleteOlderThan(ctx context.Context, d time.Duration) (int64, error)

	// Close releases database resources.
	Close() error
}

// SQLiteRepository implements Repository backed by a local SQLite database.
type SQLiteRepository struct {
	db    *sql.DB
	owned bool
}

// Open creates or opens the action repository at the default path.
func Open() (*SQLiteRepository, error) {
	path, err := database.DefaultPath()
	if err != nil {
		return nil, fmt.Errorf("actionstore: %w", err)
	}
	return OpenAt(path)
}

// OpenAt creates or opens a SQLite database at the given path. The
// repository owns the handle and closes it on Close.
func OpenAt(path string) (*SQLiteRepository, error) {
	db, err := database.Open(path)
	if err != nil {
		return nil, fmt.Errorf("actionstore: %w", err)
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
		CREATE TABLE IF NOT EXISTS action_records (
			id                 INTEGER PRIMARY KEY AUTOINCREMENT,
			owner_id           TEXT    NOT NULL,
			conversation_id    TEXT    NOT NULL DEFAULT '',
			kind               TEXT    NOT NULL,
			target_entity      TEXT    NOT NULL,
			parameters         TEXT    NOT NULL DEFAULT '{}',
			status             TEXT    NOT NULL DEFAULT 'requested',
			created_result_ref TEXT    NOT NULL DEFAULT '',
			result             TEXT    NOT NULL DEFAULT '',
			source_message     TEXT    NOT NULL DEFAULT '',
			source_reply       TEXT    NOT NULL DEFAULT '',
			created_at         TEXT    NOT NULL,
			updated_at         TEXT    NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_action_records_owner_status ON action_records(owner_id, status);
		CREATE INDEX IF NOT EXISTS idx_action_records_conversation ON action_records(conversation_id);
	`
	if err := database.Migrate(r.db, ddl); err != nil {
		return fmt.Errorf("actionstore: %w", err)
	}
	return nil
}

// Insert stores a new record and assigns its ID. CreatedAt defaults to now.
func (r *SQLiteRepository) Insert(ctx context.Context, record *domain.ActionRecord) error {
	params, err := domain.EncodeParameters(record.Parameters)
	if err != nil {
		return fmt.Errorf("actionstore: encode parameters: %w", err)
	}
	result, err := encodeResult(record.Result)
	if err != nil {
		return err
	}

	if record.CreatedAt.IsZero() {
		record.CreatedAt = time.Now().UTC()
	}
	record.UpdatedAt = record.CreatedAt

	res, err := r.db.ExecContext(ctx, `
		INSERT INTO action_records (owner_id, conversation_id, kind, target_entity, parameters, status,
		       created_result_ref, result, source_message, source_reply, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		record.OwnerID, record.ConversationID, string(record.Kind), string(record.Target), string(params),
		string(record.Status), record.CreatedResultRef, result, record.SourceMessage, record.SourceReply,
		formatTime(record.CreatedAt), formatTime(record.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("actionstore: insert failed: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("actionstore: failed to get last insert ID: %w", err)
	}
	record.ID = id
	return nil
}

const selectColumns = `
		SELECT id, owner_id, conversation_id, kind, target_entity, parameters, status,
		       created_result_ref, result, source_message, source_reply, created_at, updated_at
		FROM action_records`

// Get retrieves a single record by ID.
func (r *SQLiteRepository) Get(ctx context.Context, id int64) (*domain.ActionRecord, error) {
	row := r.db.QueryRowContext(ctx, selectColumns+` WHERE id = ?`, id)

	record, err := scan(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("actionstore: query failed: %w", err)
	}
	return record, nil
}

// CompareAndSetStatus moves record id from one status to another.
func (r *SQLiteRepository) CompareAndSetStatus(ctx context.Context, id int64, from, to domain.Status, result *domain.ExecutionResult, ref string) (bool, error) {
	encoded, err := encodeResult(result)
	if err != nil {
		return false, err
	}
	res, err := r.db.ExecContext(ctx, `
		UPDATE action_records SET status = ?, result = ?, created_result_ref = ?, updated_at = ?
		WHERE id = ? AND status = ?`,
		string(to), encoded, ref, formatTime(time.Now().UTC()), id, string(from),
	)
	if err != nil {
		return false, fmt.Errorf("actionstore: update failed: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("actionstore: update failed: %w", err)
	}
	return n == 1, nil
}

// ListByStatus returns the owner's records in status, newest first.
func (r *SQLiteRepository) ListByStatus(ctx context.Context, ownerID string, status domain.Status, limit int) ([]domain.ActionRecord, error) {
	if limit <= 0 {
		limit = -1
	}
	rows, err := r.db.QueryContext(ctx, selectColumns+`
		WHERE owner_id = ? AND status = ? ORDER BY created_at DESC, id DESC LIMIT ?`,
		ownerID, string(status), limit)
	if err != nil {
		return nil, fmt.Errorf("actionstore: query failed: %w", err)
	}
	defer rows.Close()
	return scanRows(rows)
}

// ListByConversation returns every record of a conversation, newest first.
func (r *SQLiteRepository) ListByConversation(ctx context.Context, conversationID string) ([]domain.ActionRecord, error) {
	rows, err := r.db.QueryContext(ctx, selectColumns+`
		WHERE conversation_id = ? ORDER BY created_at DESC, id DESC`, conversationID)
	if err != nil {
		return nil, fmt.Errorf("actionstore: query failed: %w", err)
	}
	defer rows.Close()
	return scanRows(rows)
}

// DeleteOlderThan removes terminal records last updated before now-d.
func (r *SQLiteRepository) DeleteOlderThan(ctx context.Context, d time.Duration) (int64, error) {
	cutoff := formatTime(time.Now().UTC().Add(-d))
	res, err := r.db.ExecContext(ctx, `
		DELETE FROM action_records WHERE status IN (?, ?, ?) AND updated_at < ?`,
		string(domain.StatusCompleted), string(domain.StatusFailed), string(domain.StatusRejected), cutoff)
	if err != nil {
		return 0, fmt.Errorf("actionstore: delete failed: %w", err)
	}
	return res.RowsAffected()
}

// Close releases database resources when the repository owns them.
func (r *SQLiteRepository) Close() error {
	if !r.owned {
		return nil
	}
	return r.db.Close()
}

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func encodeResult(result *domain.ExecutionResult) (string, error) {
	if result == nil {
		return "", nil
	}
	b, err := json.Marshal(result)
	if err != nil {
		return "", fmt.Errorf("actionstore: encode result: %w", err)
	}
	return string(b), nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scan(s scanner) (*domain.ActionRecord, error) {
	var (
		record                               domain.ActionRecord
		kind, target, params, status, result string
		createdStr, updatedStr               string
	)
	err := s.Scan(
		&record.ID, &record.OwnerID, &record.ConversationID, &kind, &target, &params, &status,
		&record.CreatedResultRef, &result, &record.SourceMessage, &record.SourceReply,
		&createdStr, &updatedStr,
	)
	if err != nil {
		return nil, err
	}

	record.Kind = domain.ActionKind(kind)
	record.Target = domain.EntityKind(target)
	record.Status = domain.Status(status)
	record.Parameters, err = domain.DecodeParameters(record.Kind, []byte(params))
	if err != nil {
		return nil, fmt.Errorf("decode parameters of action %d: %w", record.ID, err)
	}
	if result != "" {
		record.Result = &domain.ExecutionResult{}
		if err := json.Unmarshal([]byte(result), record.Result); err != nil {
			return nil, fmt.Errorf("decode result of action %d: %w", record.ID, err)
		}
	}
	record.CreatedAt, _ = time.Parse(timeLayout, createdStr)
	record.UpdatedAt, _ = time.Parse(timeLayout, updatedStr)
	return &record, nil
}

func scanRows(rows *sql.Rows) ([]domain.ActionRecord, error) {
	var records []domain.ActionRecord
	for rows.Next() {
		record, err := scan(rows)
		if err != nil {
			return nil, fmt.Errorf("actionstore: scan failed: %w", err)
		}
		records = append(records, *record)
	}
	return records, rows.Err()
}
