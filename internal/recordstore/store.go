// Package recordstore persists the tasks, schedules, habits and notes that
// executed actions create.
package recordstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"nathanbeddoewebdev/chatact/internal/database"
	"nathanbeddoewebdev/chatact/internal/domain"
	"nathanbeddoewebdev/chatact/internal/extract"
)

// timeLayout is fixed-width so stored timestamps sort lexically.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// DefaultNoteColor is the color given to every new note.
const DefaultNoteColor = "#F59E0B"

// SQLiteStore implements executor.DomainStore backed by SQLite.
type SQLiteStore struct {
	db    *sql.DB
	owned bool
	now   func() time.Time
}

// OpenAt creates or opens a store at path. The store owns the handle.
func OpenAt(path string) (*SQLiteStore, error) {
	db, err := database.Open(path)
	if err != nil {
		return nil, fmt.Errorf("recordstore: %w", err)
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
		CREATE TABLE IF NOT EXISTS tasks (
			id          TEXT PRIMARY KEY,
			owner_id    TEXT NOT NULL,
			title       TEXT NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			due_date    TEXT NOT NULL DEFAULT '',
			priority    TEXT NOT NULL DEFAULT 'medium',
			labels      TEXT NOT NULL DEFAULT '[]',
			status      TEXT NOT NULL DEFAULT 'pending',
			created_at  TEXT NOT NULL
		);
		CREATE TABLE IF NOT EXISTS schedules (
			id          TEXT PRIMARY KEY,
			owner_id    TEXT NOT NULL,
			title       TEXT NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			start_time  TEXT NOT NULL,
			end_time    TEXT NOT NULL,
			is_all_day  INTEGER NOT NULL DEFAULT 0,
			type        TEXT NOT NULL DEFAULT 'event',
			location    TEXT NOT NULL DEFAULT '',
			priority    TEXT NOT NULL DEFAULT 'medium',
			status      TEXT NOT NULL DEFAULT 'scheduled',
			color       TEXT NOT NULL,
			created_at  TEXT NOT NULL
		);
		CREATE TABLE IF NOT EXISTS habits (
			id             TEXT PRIMARY KEY,
			owner_id       TEXT NOT NULL,
			name           TEXT NOT NULL,
			description    TEXT NOT NULL DEFAULT '',
			frequency      TEXT NOT NULL DEFAULT 'daily',
			icon           TEXT NOT NULL,
			color          TEXT NOT NULL,
			streak         INTEGER NOT NULL DEFAULT 0,
			longest_streak INTEGER NOT NULL DEFAULT 0,
			created_at     TEXT NOT NULL
		);
		CREATE TABLE IF NOT EXISTS notes (
			id         TEXT PRIMARY KEY,
			owner_id   TEXT NOT NULL,
			title      TEXT NOT NULL,
			content    TEXT NOT NULL,
			color      TEXT NOT NULL,
			created_at TEXT NOT NULL
		);
	`
	if err := database.Migrate(db, ddl); err != nil {
		return nil, fmt.Errorf("recordstore: %w", err)
	}
	return &SQLiteStore{db: db, now: time.Now}, nil
}

// Create validates params and inserts the matching record for ownerID.
func (s *SQLiteStore) Create(ctx context.Context, kind domain.EntityKind, ownerID string, params domain.ParameterSet) (*domain.Entity, error) {
	if params == nil {
		return nil, fmt.Errorf("recordstore: missing parameters: %w", domain.ErrValidation)
	}
	if want, _ := params.Kind().Entity(); want != kind {
		return nil, fmt.Errorf("recordstore: %s parameters cannot create a %s: %w", params.Kind(), kind, domain.ErrValidation)
	}
	if err := params.Validate(); err != nil {
		return nil, fmt.Errorf("recordstore: %w", err)
	}

	entity := &domain.Entity{
		ID:        uuid.NewString(),
		Kind:      kind,
		CreatedAt: s.now().UTC(),
	}
	created := formatTime(entity.CreatedAt)

	var err error
	switch p := params.(type) {
	case domain.TaskParams:
		entity.Title = p.Title
		err = s.insertTask(ctx, entity.ID, ownerID, p, created)
	case domain.ScheduleParams:
		entity.Title = p.Title
		_, err = s.db.ExecContext(ctx, `
			INSERT INTO schedules (id, owner_id, title, description, start_time, end_time, type, location, color, created_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			entity.ID, ownerID, p.Title, p.Description, formatTime(*p.StartTime), formatTime(*p.EndTime),
			string(p.Type), p.Location, extract.ScheduleColor(p.Type), created,
		)
	case domain.HabitParams:
		entity.Title = p.Name
		err = s.insertHabit(ctx, entity.ID, ownerID, p, created)
	case domain.NoteParams:
		entity.Title = p.Title
		_, err = s.db.ExecContext(ctx, `
			INSERT INTO notes (id, owner_id, title, content, color, created_at) VALUES (?, ?, ?, ?, ?, ?)`,
			entity.ID, ownerID, p.Title, p.Content, DefaultNoteColor, created,
		)
	default:
		return nil, fmt.Errorf("recordstore: unsupported parameters %T: %w", params, domain.ErrValidation)
	}
	if err != nil {
		return nil, fmt.Errorf("recordstore: insert %s failed: %w", kind, err)
	}
	return entity, nil
}

func (s *SQLiteStore) insertTask(ctx context.Context, id, ownerID string, p domain.TaskParams, created string) error {
	labels := []string{}
	if p.Category != "" {
		labels = append(labels, p.Category)
	}
	encoded, err := json.Marshal(labels)
	if err != nil {
		return err
	}
	due := ""
	if p.DueDate != nil {
		due = formatTime(*p.DueDate)
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO tasks (id, owner_id, title, description, due_date, priority, labels, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		id, ownerID, p.Title, p.Description, due, string(p.Priority), string(encoded), created,
	)
	return err
}

func (s *SQLiteStore) insertHabit(ctx context.Context, id, ownerID string, p domain.HabitParams, created string) error {
	if p.Icon == "" {
		p.Icon = extract.DefaultHabitTheme.Icon
	}
	if p.Color == "" {
		p.Color = extract.DefaultHabitTheme.Color
	}
	if p.Description == "" {
		p.Description = extract.HabitDescription(p.Frequency, p.Name)
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO habits (id, owner_id, name, description, frequency, icon, color, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		id, ownerID, p.Name, p.Description, string(p.Frequency), p.Icon, p.Color, created,
	)
	return err
}

// tables maps each entity kind to its table and title column.
var tables = map[domain.EntityKind]struct{ table, title string }{
	domain.EntityTask:     {"tasks", "title"},
	domain.EntitySchedule: {"schedules", "title"},
	domain.EntityHabit:    {"habits", "name"},
	domain.EntityNote:     {"notes", "title"},
}

// Get returns the entity summary for id. It returns nil, nil when no record
// of that kind exists.
func (s *SQLiteStore) Get(ctx context.Context, kind domain.EntityKind, id string) (*domain.Entity, error) {
	t, ok := tables[kind]
	if !ok {
		return nil, fmt.Errorf("recordstore: unknown entity kind %q: %w", kind, domain.ErrValidation)
	}

	entity := domain.Entity{Kind: kind}
	var created string
	err := s.db.QueryRowContext(ctx,
		`SELECT id, `+t.title+`, created_at FROM `+t.table+` WHERE id = ?`, id,
	).Scan(&entity.ID, &entity.Title, &created)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("recordstore: query failed: %w", err)
	}
	entity.CreatedAt, _ = time.Parse(timeLayout, created)
	return &entity, nil
}

// Task is the stored form of a task, as returned by GetTask.
type Task struct {
	ID          string
	OwnerID     string
	Title       string
	Description string
	DueDate     *time.Time
	Priority    domain.Priority
	Labels      []string
	Status      string
}

// GetTask returns the full task row for id, or nil, nil when absent.
func (s *SQLiteStore) GetTask(ctx context.Context, id string) (*Task, error) {
	var (
		task        Task
		due, labels string
		priority    string
	)
	err := s.db.QueryRowContext(ctx, `
		SELECT id, owner_id, title, description, due_date, priority, labels, status
		FROM tasks WHERE id = ?`, id,
	).Scan(&task.ID, &task.OwnerID, &task.Title, &task.Description, &due, &priority, &labels, &task.Status)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("recordstore: query failed: %w", err)
	}
	task.Priority = domain.Priority(priority)
	if due != "" {
		t, err := time.Parse(timeLayout, due)
		if err == nil {
			task.DueDate = &t
		}
	}
	if err := json.Unmarshal([]byte(labels), &task.Labels); err != nil {
		return nil, fmt.Errorf("recordstore: decode labels of task %s: %w", id, err)
	}
	return &task, nil
}

// Close releases database resources when the store owns them.
func (s *SQLiteStore) Close() error {
	if !s.owned {
		return nil
	}
	return s.db.Close()
}

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}
