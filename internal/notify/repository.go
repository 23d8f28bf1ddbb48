package notify

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"sync"
	"time"
)

// Page size bounds for List.
const (
	defaultListLimit = 20
	maxListLimit     = 200
)

// timeLayout is fixed-width so created_at sorts correctly as text.
const timeLayout = "2006-01-02T15:04:05.000000000Z"

// Repository stores notifications.
type Repository interface {
	Create(ctx context.Context, n *Notification) error
	List(ctx context.Context, limit int) ([]Notification, error)
}

func clampLimit(limit int) int {
	if limit <= 0 {
		return defaultListLimit
	}
	if limit > maxListLimit {
		return maxListLimit
	}
	return limit
}

// SQLiteRepository stores notifications in the notifications table.
type SQLiteRepository struct {
	db *sql.DB
}

// NewSQLiteRepository creates a repository over an open, migrated database.
func NewSQLiteRepository(db *sql.DB) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

// Create inserts a notification. ID and CreatedAt are filled in if empty.
func (r *SQLiteRepository) Create(ctx context.Context, n *Notification) error {
	if n.ID == "" {
		n.ID = newID()
	}
	if n.CreatedAt.IsZero() {
		n.CreatedAt = time.Now().UTC()
	}

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO notifications (id, level, message, device_id, created_at)
		 VALUES (?, ?, ?, ?, ?)`,
		n.ID, string(n.Level), n.Message, nullableString(n.DeviceID),
		n.CreatedAt.UTC().Format(timeLayout),
	)
	if err != nil {
		return fmt.Errorf("inserting notification: %w", err)
	}
	return nil
}

// nullableString maps "" to NULL.
func nullableString(s string) any {
	if s == "" {
		return nil
	}
	return s
}

// List returns up to limit notifications, newest first.
func (r *SQLiteRepository) List(ctx context.Context, limit int) ([]Notification, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, level, message, device_id, created_at
		 FROM notifications
		 ORDER BY created_at DESC, rowid DESC
		 LIMIT ?`,
		clampLimit(limit),
	)
	if err != nil {
		return nil, fmt.Errorf("querying notifications: %w", err)
	}
	defer rows.Close()

	out := []Notification{}
	for rows.Next() {
		var n Notification
		var level, createdAt string
		var deviceID sql.NullString

		if err := rows.Scan(&n.ID, &level, &n.Message, &deviceID, &createdAt); err != nil {
			return nil, fmt.Errorf("scanning notification: %w", err)
		}
		n.Level = Level(level)
		if deviceID.Valid {
			n.DeviceID = deviceID.String
		}
		t, err := time.Parse(timeLayout, createdAt)
		if err != nil {
			return nil, fmt.Errorf("parsing notification timestamp %q: %w", createdAt, err)
		}
		n.CreatedAt = t

		out = append(out, n)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating notifications: %w", err)
	}
	return out, nil
}

// MemoryRepository keeps notifications in memory. It is used when the
// database is disabled.
type MemoryRepository struct {
	mu    sync.Mutex
	items []Notification
}

// NewMemoryRepository creates an empty in-memory repository.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{}
}

// Create appends a notification. ID and CreatedAt are filled in if empty.
func (r *MemoryRepository) Create(_ context.Context, n *Notification) error {
	if n.ID == "" {
		n.ID = newID()
	}
	if n.CreatedAt.IsZero() {
		n.CreatedAt = time.Now().UTC()
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.items = append(r.items, *n)
	return nil
}

// List returns up to limit notifications, newest first.
func (r *MemoryRepository) List(_ context.Context, limit int) ([]Notification, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]Notification, len(r.items))
	copy(out, r.items)
	// Reverse insertion order first so equal timestamps keep newest first.
	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })

	if n := clampLimit(limit); len(out) > n {
		out = out[:n]
	}
	return out, nil
}
