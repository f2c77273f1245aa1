package repository

import "sortie-backend/internal/capture/domain"

// LocalCaptureRepository is the durable device-side store of captures.
// It is the only mutable shared resource in the sync engine; every write
// is a full-record update keyed by id.
type LocalCaptureRepository interface {
	// Create inserts a new capture and assigns its local id.
	Create(c *domain.Capture) error

	// FindByID returns the capture, or (nil, nil) if it does not exist.
	FindByID(id int64) (*domain.Capture, error)

	// FindByOwnerAndStatus returns an owner's captures in any of the given
	// statuses, oldest first.
	FindByOwnerAndStatus(ownerID string, statuses []domain.CaptureStatus) ([]*domain.Capture, error)

	// FindByStatus returns captures in any of the given statuses across all
	// owners, oldest first. Used by the retry scheduler.
	FindByStatus(statuses []domain.CaptureStatus) ([]*domain.Capture, error)

	// Update writes the full record keyed by c.ID.
	Update(c *domain.Capture) error
}

// RemoteCaptureRepository is the server-side record store, upsertable by
// remote id. Insert returns the newly assigned id; Update is keyed by that
// id and idempotent.
type RemoteCaptureRepository interface {
	Insert(rc *domain.RemoteCapture) (string, error)
	Update(id string, rc *domain.RemoteCapture) error

	// List returns remote rows for the admin view, newest first.
	List(limit, offset int) ([]*domain.RemoteCapture, int64, error)
}
