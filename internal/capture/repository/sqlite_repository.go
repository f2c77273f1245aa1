package repository

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"sortie-backend/internal/capture/domain"

	_ "modernc.org/sqlite"
)

const captureSchema = `
CREATE TABLE IF NOT EXISTS captures (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	remote_id TEXT NOT NULL DEFAULT '',
	owner_id TEXT NOT NULL,
	event_label TEXT NOT NULL DEFAULT '',
	image_payload BLOB,
	audio_payload BLOB,
	photo_url TEXT NOT NULL DEFAULT '',
	audio_url TEXT NOT NULL DEFAULT '',
	audio_duration_seconds REAL NOT NULL DEFAULT 0,
	name TEXT NOT NULL DEFAULT '',
	company TEXT NOT NULL DEFAULT '',
	email TEXT NOT NULL DEFAULT '',
	phone TEXT NOT NULL DEFAULT '',
	notes TEXT NOT NULL DEFAULT '',
	transcription_text TEXT NOT NULL DEFAULT '',
	transcription_source TEXT NOT NULL DEFAULT '',
	email_draft_text TEXT NOT NULL DEFAULT '',
	status TEXT NOT NULL,
	processing_error TEXT NOT NULL DEFAULT '',
	created_at TEXT NOT NULL,
	updated_at TEXT NOT NULL,
	synced_at TEXT
);
CREATE INDEX IF NOT EXISTS idx_captures_owner_status ON captures(owner_id, status);
CREATE INDEX IF NOT EXISTS idx_captures_status ON captures(status);
`

// SQLiteCaptureRepository implements LocalCaptureRepository on a local
// SQLite file, the device-side durable store.
type SQLiteCaptureRepository struct {
	db *sql.DB
}

// NewSQLiteCaptureRepository opens (creating if needed) baseDir/captures.db.
// The baseDir parameter allows tests to use t.TempDir().
func NewSQLiteCaptureRepository(baseDir string) (*SQLiteCaptureRepository, error) {
	if err := os.MkdirAll(baseDir, 0o700); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	dbPath := filepath.Join(baseDir, "captures.db")
	dsn := dbPath + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if _, err := db.Exec(captureSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}

	return &SQLiteCaptureRepository{db: db}, nil
}

func (r *SQLiteCaptureRepository) Close() error { return r.db.Close() }

const captureColumns = `id, remote_id, owner_id, event_label, image_payload, audio_payload,
	photo_url, audio_url, audio_duration_seconds,
	name, company, email, phone, notes,
	transcription_text, transcription_source, email_draft_text,
	status, processing_error, created_at, updated_at, synced_at`

func (r *SQLiteCaptureRepository) Create(c *domain.Capture) error {
	if c.CreatedAt.IsZero() {
		c.CreatedAt = time.Now()
	}
	c.UpdatedAt = time.Now()
	if c.Status == "" {
		c.Status = domain.StatusCaptured
	}

	res, err := r.db.Exec(`INSERT INTO captures (
		remote_id, owner_id, event_label, image_payload, audio_payload,
		photo_url, audio_url, audio_duration_seconds,
		name, company, email, phone, notes,
		transcription_text, transcription_source, email_draft_text,
		status, processing_error, created_at, updated_at, synced_at
	) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		c.RemoteID, c.OwnerID, c.EventLabel, c.ImagePayload, c.AudioPayload,
		c.PhotoURL, c.AudioURL, c.AudioDurationSeconds,
		c.Name, c.Company, c.Email, c.Phone, c.Notes,
		c.TranscriptionText, string(c.TranscriptionSource), c.EmailDraftText,
		string(c.Status), c.ProcessingError,
		formatTime(c.CreatedAt), formatTime(c.UpdatedAt), formatTimePtr(c.SyncedAt))
	if err != nil {
		return fmt.Errorf("failed to insert capture: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	c.ID = id
	return nil
}

func (r *SQLiteCaptureRepository) FindByID(id int64) (*domain.Capture, error) {
	row := r.db.QueryRow(`SELECT `+captureColumns+` FROM captures WHERE id = ?`, id)
	c, err := scanCapture(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return c, nil
}

func (r *SQLiteCaptureRepository) FindByOwnerAndStatus(ownerID string, statuses []domain.CaptureStatus) ([]*domain.Capture, error) {
	where, args := statusFilter(statuses)
	args = append([]interface{}{ownerID}, args...)

	rows, err := r.db.Query(`SELECT `+captureColumns+` FROM captures
		WHERE owner_id = ?`+where+` ORDER BY created_at ASC`, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanCaptures(rows)
}

func (r *SQLiteCaptureRepository) FindByStatus(statuses []domain.CaptureStatus) ([]*domain.Capture, error) {
	where, args := statusFilter(statuses)
	if where == "" {
		return nil, fmt.Errorf("at least one status is required")
	}
	// Drop the leading AND: this filter stands alone.
	rows, err := r.db.Query(`SELECT `+captureColumns+` FROM captures
		WHERE `+strings.TrimPrefix(where, " AND ")+` ORDER BY created_at ASC`, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanCaptures(rows)
}

func (r *SQLiteCaptureRepository) Update(c *domain.Capture) error {
	c.UpdatedAt = time.Now()
	_, err := r.db.Exec(`UPDATE captures SET
		remote_id = ?, event_label = ?, image_payload = ?, audio_payload = ?,
		photo_url = ?, audio_url = ?, audio_duration_seconds = ?,
		name = ?, company = ?, email = ?, phone = ?, notes = ?,
		transcription_text = ?, transcription_source = ?, email_draft_text = ?,
		status = ?, processing_error = ?, updated_at = ?, synced_at = ?
		WHERE id = ?`,
		c.RemoteID, c.EventLabel, c.ImagePayload, c.AudioPayload,
		c.PhotoURL, c.AudioURL, c.AudioDurationSeconds,
		c.Name, c.Company, c.Email, c.Phone, c.Notes,
		c.TranscriptionText, string(c.TranscriptionSource), c.EmailDraftText,
		string(c.Status), c.ProcessingError,
		formatTime(c.UpdatedAt), formatTimePtr(c.SyncedAt), c.ID)
	if err != nil {
		return fmt.Errorf("failed to update capture %d: %w", c.ID, err)
	}
	return nil
}

func statusFilter(statuses []domain.CaptureStatus) (string, []interface{}) {
	if len(statuses) == 0 {
		return "", nil
	}
	placeholders := make([]string, len(statuses))
	args := make([]interface{}, len(statuses))
	for i, s := range statuses {
		placeholders[i] = "?"
		args[i] = string(s)
	}
	return " AND status IN (" + strings.Join(placeholders, ", ") + ")", args
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanCapture(row rowScanner) (*domain.Capture, error) {
	var c domain.Capture
	var source string
	var status string
	var createdAt, updatedAt string
	var syncedAt sql.NullString

	err := row.Scan(&c.ID, &c.RemoteID, &c.OwnerID, &c.EventLabel,
		&c.ImagePayload, &c.AudioPayload,
		&c.PhotoURL, &c.AudioURL, &c.AudioDurationSeconds,
		&c.Name, &c.Company, &c.Email, &c.Phone, &c.Notes,
		&c.TranscriptionText, &source, &c.EmailDraftText,
		&status, &c.ProcessingError, &createdAt, &updatedAt, &syncedAt)
	if err != nil {
		return nil, err
	}

	c.TranscriptionSource = domain.TranscriptionSource(source)
	c.Status = domain.CaptureStatus(status)
	c.CreatedAt = parseTime(createdAt)
	c.UpdatedAt = parseTime(updatedAt)
	if syncedAt.Valid && syncedAt.String != "" {
		t := parseTime(syncedAt.String)
		c.SyncedAt = &t
	}
	return &c, nil
}

func scanCaptures(rows *sql.Rows) ([]*domain.Capture, error) {
	var out []*domain.Capture
	for rows.Next() {
		c, err := scanCapture(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func formatTime(t time.Time) string { return t.UTC().Format(time.RFC3339Nano) }

func formatTimePtr(t *time.Time) interface{} {
	if t == nil {
		return nil
	}
	return formatTime(*t)
}

func parseTime(s string) time.Time {
	t, _ := time.Parse(time.RFC3339Nano, s)
	return t
}
