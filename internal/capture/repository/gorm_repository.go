package repository

import (
	"time"

	"sortie-backend/internal/capture/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// gormRemoteCaptureRepository implements RemoteCaptureRepository using GORM
type gormRemoteCaptureRepository struct {
	db *gorm.DB
}

// NewGormRemoteCaptureRepository creates a new GORM-based RemoteCaptureRepository
func NewGormRemoteCaptureRepository(db *gorm.DB) RemoteCaptureRepository {
	return &gormRemoteCaptureRepository{db: db}
}

func (r *gormRemoteCaptureRepository) Insert(rc *domain.RemoteCapture) (string, error) {
	if rc.ID == "" {
		rc.ID = uuid.New().String()
	}
	if rc.CreatedAt.IsZero() {
		rc.CreatedAt = time.Now()
	}
	rc.UpdatedAt = time.Now()
	if err := r.db.Create(rc).Error; err != nil {
		return "", err
	}
	return rc.ID, nil
}

func (r *gormRemoteCaptureRepository) Update(id string, rc *domain.RemoteCapture) error {
	rc.ID = id
	rc.UpdatedAt = time.Now()
	return r.db.Save(rc).Error
}

func (r *gormRemoteCaptureRepository) List(limit, offset int) ([]*domain.RemoteCapture, int64, error) {
	var rows []*domain.RemoteCapture
	var total int64

	query := r.db.Model(&domain.RemoteCapture{})
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.Order("created_at DESC").Limit(limit).Offset(offset).Find(&rows).Error
	return rows, total, err
}
