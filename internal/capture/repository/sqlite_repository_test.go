package repository

import (
	"testing"
	"time"

	"sortie-backend/internal/capture/domain"
)

func newTestRepo(t *testing.T) *SQLiteCaptureRepository {
	t.Helper()
	repo, err := NewSQLiteCaptureRepository(t.TempDir())
	if err != nil {
		t.Fatalf("NewSQLiteCaptureRepository failed: %v", err)
	}
	t.Cleanup(func() { repo.Close() })
	return repo
}

func TestSQLiteCreateAndFind(t *testing.T) {
	repo := newTestRepo(t)

	syncedAt := time.Date(2026, 8, 28, 10, 30, 0, 0, time.UTC)
	c := &domain.Capture{
		RemoteID:             "remote-1",
		OwnerID:              "user-1",
		EventLabel:           "GopherCon",
		ImagePayload:         []byte{0xff, 0xd8, 0xff},
		AudioPayload:         []byte{0x1a, 0x45},
		PhotoURL:             "https://store.example/p.jpg",
		AudioDurationSeconds: 12.5,
		Name:                 "Jane Doe",
		Company:              "Acme",
		Notes:                "Met at booth",
		TranscriptionText:    "hello",
		TranscriptionSource:  domain.SourceWhisper,
		Status:               domain.StatusReady,
		SyncedAt:             &syncedAt,
	}
	if err := repo.Create(c); err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if c.ID == 0 {
		t.Fatal("Create did not assign an ID")
	}

	got, err := repo.FindByID(c.ID)
	if err != nil {
		t.Fatalf("FindByID failed: %v", err)
	}
	if got == nil {
		t.Fatal("FindByID returned nil for existing record")
	}
	if got.RemoteID != "remote-1" || got.OwnerID != "user-1" || got.Name != "Jane Doe" {
		t.Errorf("fields lost in round trip: %+v", got)
	}
	if string(got.ImagePayload) != string(c.ImagePayload) {
		t.Error("image payload lost in round trip")
	}
	if got.AudioDurationSeconds != 12.5 {
		t.Errorf("AudioDurationSeconds = %v", got.AudioDurationSeconds)
	}
	if got.TranscriptionSource != domain.SourceWhisper {
		t.Errorf("TranscriptionSource = %q", got.TranscriptionSource)
	}
	if got.SyncedAt == nil || !got.SyncedAt.Equal(syncedAt) {
		t.Errorf("SyncedAt = %v, want %v", got.SyncedAt, syncedAt)
	}
}

func TestSQLiteFindByIDMissing(t *testing.T) {
	repo := newTestRepo(t)

	got, err := repo.FindByID(42)
	if err != nil {
		t.Fatalf("FindByID failed: %v", err)
	}
	if got != nil {
		t.Fatalf("FindByID = %+v, want nil for missing record", got)
	}
}

func TestSQLiteCreateDefaultsStatus(t *testing.T) {
	repo := newTestRepo(t)

	c := &domain.Capture{OwnerID: "user-1"}
	if err := repo.Create(c); err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	got, err := repo.FindByID(c.ID)
	if err != nil {
		t.Fatalf("FindByID failed: %v", err)
	}
	if got.Status != domain.StatusCaptured {
		t.Errorf("Status = %q, want captured by default", got.Status)
	}
}

func TestSQLiteUpdate(t *testing.T) {
	repo := newTestRepo(t)

	c := &domain.Capture{
		OwnerID:      "user-1",
		ImagePayload: []byte("blob"),
		Status:       domain.StatusCaptured,
	}
	if err := repo.Create(c); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	c.ImagePayload = nil
	c.PhotoURL = "https://store.example/p.jpg"
	c.Status = domain.StatusReady
	c.RemoteID = "remote-7"
	now := time.Now().UTC()
	c.SyncedAt = &now
	if err := repo.Update(c); err != nil {
		t.Fatalf("Update failed: %v", err)
	}

	got, err := repo.FindByID(c.ID)
	if err != nil {
		t.Fatalf("FindByID failed: %v", err)
	}
	if got.ImagePayload != nil {
		t.Error("cleared payload should stay cleared")
	}
	if got.PhotoURL != "https://store.example/p.jpg" || got.Status != domain.StatusReady || got.RemoteID != "remote-7" {
		t.Errorf("updated fields lost: %+v", got)
	}
	if got.SyncedAt == nil {
		t.Error("SyncedAt not persisted")
	}
}

func TestSQLiteFindByOwnerAndStatus(t *testing.T) {
	repo := newTestRepo(t)

	mustCreate := func(owner string, status domain.CaptureStatus) {
		t.Helper()
		if err := repo.Create(&domain.Capture{OwnerID: owner, Status: status}); err != nil {
			t.Fatalf("Create failed: %v", err)
		}
	}
	mustCreate("user-1", domain.StatusCaptured)
	mustCreate("user-1", domain.StatusError)
	mustCreate("user-1", domain.StatusReady)
	mustCreate("user-2", domain.StatusCaptured)

	pending, err := repo.FindByOwnerAndStatus("user-1", domain.PendingStatuses)
	if err != nil {
		t.Fatalf("FindByOwnerAndStatus failed: %v", err)
	}
	if len(pending) != 2 {
		t.Fatalf("pending = %d, want 2", len(pending))
	}
	for _, c := range pending {
		if c.OwnerID != "user-1" {
			t.Errorf("wrong owner in result: %q", c.OwnerID)
		}
		if c.Status == domain.StatusReady {
			t.Error("ready capture returned by pending filter")
		}
	}

	all, err := repo.FindByOwnerAndStatus("user-1", nil)
	if err != nil {
		t.Fatalf("FindByOwnerAndStatus failed: %v", err)
	}
	if len(all) != 3 {
		t.Errorf("all = %d, want 3 (no status filter)", len(all))
	}
}

func TestSQLiteFindByStatus(t *testing.T) {
	repo := newTestRepo(t)

	if err := repo.Create(&domain.Capture{OwnerID: "user-1", Status: domain.StatusError}); err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if err := repo.Create(&domain.Capture{OwnerID: "user-2", Status: domain.StatusReady}); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	got, err := repo.FindByStatus([]domain.CaptureStatus{domain.StatusError})
	if err != nil {
		t.Fatalf("FindByStatus failed: %v", err)
	}
	if len(got) != 1 || got[0].Status != domain.StatusError {
		t.Errorf("got %d rows, want the single error capture", len(got))
	}

	if _, err := repo.FindByStatus(nil); err == nil {
		t.Error("FindByStatus without statuses should error, not return everything")
	}
}
