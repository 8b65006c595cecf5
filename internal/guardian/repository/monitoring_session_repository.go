package repository

import (
	"context"
	"errors"

	"golang-portfolio-guardian/internal/entity"
	"golang-portfolio-guardian/pkg/utils"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// MonitoringSessionRepository persists scan session bookkeeping so active
// sessions can be resumed after a restart.
type MonitoringSessionRepository interface {
	Upsert(ctx context.Context, session *entity.MonitoringSession) error
	FindByUserID(ctx context.Context, userID uint) (*entity.MonitoringSession, error)
	FindActive(ctx context.Context) ([]entity.MonitoringSession, error)
	MarkStopped(ctx context.Context, userID uint) error
	TouchLastScan(ctx context.Context, userID uint) error
}

// NewMonitoringSessionRepository creates a new GORM-based session
// repository.
func NewMonitoringSessionRepository(db *gorm.DB) MonitoringSessionRepository {
	return &monitoringSessionRepository{db: db}
}

type monitoringSessionRepository struct {
	db *gorm.DB
}

func (r *monitoringSessionRepository) Upsert(ctx context.Context, session *entity.MonitoringSession) error {
	session.UpdatedAt = utils.TimeNowUTC()
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"is_active", "interval_seconds", "started_at", "stopped_at", "updated_at",
		}),
	}).Create(session).Error
}

func (r *monitoringSessionRepository) FindByUserID(ctx context.Context, userID uint) (*entity.MonitoringSession, error) {
	var session entity.MonitoringSession
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&session).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &session, nil
}

func (r *monitoringSessionRepository) FindActive(ctx context.Context) ([]entity.MonitoringSession, error) {
	var sessions []entity.MonitoringSession
	if err := r.db.WithContext(ctx).Where("is_active = ?", true).Find(&sessions).Error; err != nil {
		return nil, err
	}
	return sessions, nil
}

func (r *monitoringSessionRepository) MarkStopped(ctx context.Context, userID uint) error {
	now := utils.TimeNowUTC()
	return r.db.WithContext(ctx).Model(&entity.MonitoringSession{}).
		Where("user_id = ?", userID).
		Updates(map[string]interface{}{
			"is_active":  false,
			"stopped_at": now,
			"updated_at": now,
		}).Error
}

func (r *monitoringSessionRepository) TouchLastScan(ctx context.Context, userID uint) error {
	now := utils.TimeNowUTC()
	return r.db.WithContext(ctx).Model(&entity.MonitoringSession{}).
		Where("user_id = ?", userID).
		Updates(map[string]interface{}{
			"last_scan_at": now,
			"updated_at":   now,
		}).Error
}
