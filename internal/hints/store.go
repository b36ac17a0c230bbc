// Package hints keeps per-owner conversational context: the topics the owner
// recently talked about and their preferred reply style.
package hints

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"time"

	"nathanbeddoewebdev/chatact/internal/database"
	"nathanbeddoewebdev/chatact/internal/domain"
	"nathanbeddoewebdev/chatact/internal/intent"
)

// MaxRecentTopics caps the stored topic list.
const MaxRecentTopics = 10

// topicKeywords maps a message token to the topic it signals.
// Order decides the order of topics found in one message.
var topicKeywords = []struct{ keyword, topic string }{
	{"tugas", "tugas"},
	{"jadwal", "jadwal"},
	{"kebiasaan", "kebiasaan"},
	{"habit", "kebiasaan"},
	{"catatan", "catatan"},
	{"note", "catatan"},
	{"kuliah", "pendidikan"},
	{"sekolah", "pendidikan"},
	{"belajar", "pendidikan"},
	{"rapat", "meeting"},
	{"meeting", "meeting"},
	{"pengingat", "pengingat"},
	{"reminder", "pengingat"},
	{"deadline", "deadline"},
	{"target", "target"},
	{"tujuan", "tujuan"},
	{"goal", "tujuan"},
}

// Topics returns the distinct topics mentioned in message.
func Topics(message string) []string {
	tokens := intent.Tokens(message)
	var topics []string
	for _, kw := range topicKeywords {
		if slices.Contains(tokens, kw.keyword) && !slices.Contains(topics, kw.topic) {
			topics = append(topics, kw.topic)
		}
	}
	return topics
}

// SQLiteStore implements the pipeline's context store backed by SQLite.
type SQLiteStore struct {
	db    *sql.DB
	owned bool
}

// OpenAt creates or opens a store at path. The store owns the handle.
func OpenAt(path string) (*SQLiteStore, error) {
	db, err := database.Open(path)
	if err != nil {
		return nil, fmt.Errorf("hints: %w", err)
	}
	s, err := New(db)
	if err != nil {
		db.Close()
		return nil, err
	}
	s.owned = true
	return s, nil
}

// New migrates and wraps a shared database handle. Close does not close db.
func New(db *sql.DB) (*SQLiteStore, error) {
	const ddl = `
		CREATE TABLE IF NOT EXISTS user_context (
			owner_id         TEXT PRIMARY KEY,
			recent_topics    TEXT NOT NULL DEFAULT '[]',
			preferred_style  TEXT NOT NULL DEFAULT '',
			last_query       TEXT NOT NULL DEFAULT '',
			last_interaction TEXT NOT NULL DEFAULT ''
		);
	`
	if err := database.Migrate(db, ddl); err != nil {
		return nil, fmt.Errorf("hints: %w", err)
	}
	return &SQLiteStore{db: db}, nil
}

// Hints returns the owner's context. An owner with no history gets empty
// hints, not an error.
func (s *SQLiteStore) Hints(ctx context.Context, ownerID string) (*domain.Hints, error) {
	var topics, style string
	err := s.db.QueryRowContext(ctx,
		`SELECT recent_topics, preferred_style FROM user_context WHERE owner_id = ?`, ownerID,
	).Scan(&topics, &style)
	if errors.Is(err, sql.ErrNoRows) {
		return &domain.Hints{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("hints: query failed: %w", err)
	}

	h := &domain.Hints{PreferredStyle: style}
	if err := json.Unmarshal([]byte(topics), &h.RecentTopics); err != nil {
		return nil, fmt.Errorf("hints: decode topics of %s: %w", ownerID, err)
	}
	return h, nil
}

// RecordConversation remembers message as the owner's last query and moves
// the topics it mentions to the front of the recent topic list.
func (s *SQLiteStore) RecordConversation(ctx context.Context, ownerID, message string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("hints: begin: %w", err)
	}
	defer tx.Rollback()

	var stored string
	err = tx.QueryRowContext(ctx,
		`SELECT recent_topics FROM user_context WHERE owner_id = ?`, ownerID,
	).Scan(&stored)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("hints: query failed: %w", err)
	}
	var existing []string
	if stored != "" {
		if err := json.Unmarshal([]byte(stored), &existing); err != nil {
			return fmt.Errorf("hints: decode topics of %s: %w", ownerID, err)
		}
	}

	encoded, err := json.Marshal(mergeTopics(Topics(message), existing))
	if err != nil {
		return fmt.Errorf("hints: encode topics: %w", err)
	}
	_, err = tx.ExecContext(ctx, `
		INSERT INTO user_context (owner_id, recent_topics, last_query, last_interaction)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(owner_id) DO UPDATE SET
			recent_topics = excluded.recent_topics,
			last_query = excluded.last_query,
			last_interaction = excluded.last_interaction`,
		ownerID, string(encoded), message, time.Now().UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("hints: upsert failed: %w", err)
	}
	return tx.Commit()
}

// SetPreferredStyle stores the owner's preferred reply style.
func (s *SQLiteStore) SetPreferredStyle(ctx context.Context, ownerID, style string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO user_context (owner_id, preferred_style) VALUES (?, ?)
		ON CONFLICT(owner_id) DO UPDATE SET preferred_style = excluded.preferred_style`,
		ownerID, style,
	)
	if err != nil {
		return fmt.Errorf("hints: upsert failed: %w", err)
	}
	return nil
}

// Close releases database resources when the store owns them.
func (s *SQLiteStore) Close() error {
	if !s.owned {
		return nil
	}
	return s.db.Close()
}

// mergeTopics puts fresh in front of existing, drops repeats and caps the
// result at MaxRecentTopics.
func mergeTopics(fresh, existing []string) []string {
	merged := make([]string, 0, len(fresh)+len(existing))
	for _, t := range slices.Concat(fresh, existing) {
		if !slices.Contains(merged, t) {
			merged = append(merged, t)
		}
	}
	if len(merged) > MaxRecentTopics {
		merged = merged[:MaxRecentTopics]
	}
	return merged
}
