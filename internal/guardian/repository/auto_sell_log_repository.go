package repository

import (
	"context"

	"golang-portfolio-guardian/internal/entity"

	"gorm.io/gorm"
)

// AutoSellLogRepository defines the interface for the append-only audit
// trail. There is no update or delete.
type AutoSellLogRepository interface {
	Create(ctx context.Context, log *entity.AutoSellLog) error
	// FindByUserID returns the newest entries first, at most limit rows.
	FindByUserID(ctx context.Context, userID uint, limit int) ([]entity.AutoSellLog, error)
	FindByOrderID(ctx context.Context, orderID string) ([]entity.AutoSellLog, error)
}

// NewAutoSellLogRepository creates a new GORM-based audit log repository.
func NewAutoSellLogRepository(db *gorm.DB) AutoSellLogRepository {
	return &autoSellLogRepository{db: db}
}

type autoSellLogRepository struct {
	db *gorm.DB
}

func (r *autoSellLogRepository) Create(ctx context.Context, log *entity.AutoSellLog) error {
	return r.db.WithContext(ctx).Create(log).Error
}

func (r *autoSellLogRepository) FindByUserID(ctx context.Context, userID uint, limit int) ([]entity.AutoSellLog, error) {
	var logs []entity.AutoSellLog
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at desc, id desc").
		Limit(limit).
		Find(&logs).Error
	if err != nil {
		return nil, err
	}
	return logs, nil
}

func (r *autoSellLogRepository) FindByOrderID(ctx context.Context, orderID string) ([]entity.AutoSellLog, error) {
	var logs []entity.AutoSellLog
	err := r.db.WithContext(ctx).
		Where("order_id = ?", orderID).
		Order("created_at asc, id asc").
		Find(&logs).Error
	if err != nil {
		return nil, err
	}
	return logs, nil
}
