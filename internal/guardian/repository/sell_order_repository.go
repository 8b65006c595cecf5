package repository

import (
	"context"
	"errors"

	"golang-portfolio-guardian/internal/entity"

	"gorm.io/gorm"
)

// SellOrderRepository defines the interface for pending sell order data
// operations. Orders are never deleted; terminal transitions go through
// TransitionStatus so a lost race shows up as zero rows changed.
type SellOrderRepository interface {
	Create(ctx context.Context, order *entity.PendingSellOrder) error
	FindByID(ctx context.Context, id string) (*entity.PendingSellOrder, error)
	// FindOpenByUserAndTicker returns the pending or confirmed order for
	// the pair, or nil when there is none.
	FindOpenByUserAndTicker(ctx context.Context, userID uint, ticker string) (*entity.PendingSellOrder, error)
	FindByUserID(ctx context.Context, userID uint, statuses []string) ([]entity.PendingSellOrder, error)
	FindAllPending(ctx context.Context) ([]entity.PendingSellOrder, error)
	// TransitionStatus applies fields only while the order still is in
	// fromStatus. The bool reports whether the row was changed.
	TransitionStatus(ctx context.Context, id, fromStatus string, fields map[string]interface{}) (bool, error)
	UpdateNotificationFlags(ctx context.Context, id string, emailSent, inAppSent bool) error
}

// NewSellOrderRepository creates a new GORM-based sell order repository.
func NewSellOrderRepository(db *gorm.DB) SellOrderRepository {
	return &sellOrderRepository{db: db}
}

type sellOrderRepository struct {
	db *gorm.DB
}

func (r *sellOrderRepository) Create(ctx context.Context, order *entity.PendingSellOrder) error {
	return r.db.WithContext(ctx).Create(order).Error
}

func (r *sellOrderRepository) FindByID(ctx context.Context, id string) (*entity.PendingSellOrder, error) {
	var order entity.PendingSellOrder
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&order).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, entity.ErrOrderNotFound
		}
		return nil, err
	}
	return &order, nil
}

func (r *sellOrderRepository) FindOpenByUserAndTicker(ctx context.Context, userID uint, ticker string) (*entity.PendingSellOrder, error) {
	var order entity.PendingSellOrder
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND ticker = ? AND status IN ?", userID, ticker, entity.OpenOrderStatuses).
		First(&order).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &order, nil
}

func (r *sellOrderRepository) FindByUserID(ctx context.Context, userID uint, statuses []string) ([]entity.PendingSellOrder, error) {
	query := r.db.WithContext(ctx).Where("user_id = ?", userID)
	if len(statuses) > 0 {
		query = query.Where("status IN ?", statuses)
	}

	var orders []entity.PendingSellOrder
	if err := query.Order("created_at desc").Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

func (r *sellOrderRepository) FindAllPending(ctx context.Context) ([]entity.PendingSellOrder, error) {
	var orders []entity.PendingSellOrder
	err := r.db.WithContext(ctx).Where("status = ?", entity.OrderStatusPending).Find(&orders).Error
	if err != nil {
		return nil, err
	}
	return orders, nil
}

func (r *sellOrderRepository) TransitionStatus(ctx context.Context, id, fromStatus string, fields map[string]interface{}) (bool, error) {
	result := r.db.WithContext(ctx).Model(&entity.PendingSellOrder{}).
		Where("id = ? AND status = ?", id, fromStatus).
		Updates(fields)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *sellOrderRepository) UpdateNotificationFlags(ctx context.Context, id string, emailSent, inAppSent bool) error {
	return r.db.WithContext(ctx).Model(&entity.PendingSellOrder{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"email_sent":  emailSent,
			"in_app_sent": inAppSent,
		}).Error
}
