package repository

import (
	"context"
	"errors"

	"golang-portfolio-guardian/internal/entity"
	"golang-portfolio-guardian/pkg/utils"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// StopLossConfigRepository defines the interface for stop-loss threshold
// data operations. One config per (user, ticker); Upsert replaces.
type StopLossConfigRepository interface {
	Upsert(ctx context.Context, config *entity.StopLossConfig) error
	FindByUserID(ctx context.Context, userID uint) ([]entity.StopLossConfig, error)
	FindActiveByUserID(ctx context.Context, userID uint) ([]entity.StopLossConfig, error)
	FindByUserAndTicker(ctx context.Context, userID uint, ticker string) (*entity.StopLossConfig, error)
	Delete(ctx context.Context, userID uint, ticker string) error
}

// NewStopLossConfigRepository creates a new GORM-based stop-loss config
// repository.
func NewStopLossConfigRepository(db *gorm.DB) StopLossConfigRepository {
	return &stopLossConfigRepository{db: db}
}

type stopLossConfigRepository struct {
	db *gorm.DB
}

func (r *stopLossConfigRepository) Upsert(ctx context.Context, config *entity.StopLossConfig) error {
	config.UpdatedAt = utils.TimeNowUTC()
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}, {Name: "ticker"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"stop_loss_price", "stop_loss_percent", "is_active", "updated_at",
		}),
	}).Create(config).Error
}

func (r *stopLossConfigRepository) FindByUserID(ctx context.Context, userID uint) ([]entity.StopLossConfig, error) {
	var configs []entity.StopLossConfig
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).Order("ticker asc").Find(&configs).Error; err != nil {
		return nil, err
	}
	return configs, nil
}

func (r *stopLossConfigRepository) FindActiveByUserID(ctx context.Context, userID uint) ([]entity.StopLossConfig, error) {
	var configs []entity.StopLossConfig
	if err := r.db.WithContext(ctx).Where("user_id = ? AND is_active = ?", userID, true).Find(&configs).Error; err != nil {
		return nil, err
	}
	return configs, nil
}

func (r *stopLossConfigRepository) FindByUserAndTicker(ctx context.Context, userID uint, ticker string) (*entity.StopLossConfig, error) {
	var config entity.StopLossConfig
	err := r.db.WithContext(ctx).Where("user_id = ? AND ticker = ?", userID, ticker).First(&config).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &config, nil
}

func (r *stopLossConfigRepository) Delete(ctx context.Context, userID uint, ticker string) error {
	result := r.db.WithContext(ctx).Where("user_id = ? AND ticker = ?", userID, ticker).
		Delete(&entity.StopLossConfig{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return entity.ErrConfigNotFound
	}
	return nil
}
