package repository

import (
	"context"
	"errors"

	"golang-portfolio-guardian/internal/entity"

	"gorm.io/gorm"
)

// HoldingRepository defines the interface for portfolio holding data
// operations. Quantity mutations happen only here so the sell path has a
// single write side.
type HoldingRepository interface {
	FindByUserID(ctx context.Context, userID uint) ([]entity.Holding, error)
	FindByUserAndTicker(ctx context.Context, userID uint, ticker string) (*entity.Holding, error)
	UpdateCurrentPrice(ctx context.Context, id uint, price float64) error
	// ReduceQuantity subtracts soldQuantity and removes the row once the
	// position hits zero.
	ReduceQuantity(ctx context.Context, id uint, soldQuantity float64) error
}

// NewHoldingRepository creates a new GORM-based holding repository.
func NewHoldingRepository(db *gorm.DB) HoldingRepository {
	return &holdingRepository{db: db}
}

type holdingRepository struct {
	db *gorm.DB
}

func (r *holdingRepository) FindByUserID(ctx context.Context, userID uint) ([]entity.Holding, error) {
	var holdings []entity.Holding
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).Order("ticker asc").Find(&holdings).Error; err != nil {
		return nil, err
	}
	return holdings, nil
}

func (r *holdingRepository) FindByUserAndTicker(ctx context.Context, userID uint, ticker string) (*entity.Holding, error) {
	var holding entity.Holding
	err := r.db.WithContext(ctx).Where("user_id = ? AND ticker = ?", userID, ticker).First(&holding).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, entity.ErrHoldingNotFound
		}
		return nil, err
	}
	return &holding, nil
}

func (r *holdingRepository) UpdateCurrentPrice(ctx context.Context, id uint, price float64) error {
	return r.db.WithContext(ctx).Model(&entity.Holding{}).Where("id = ?", id).
		Update("current_price", price).Error
}

func (r *holdingRepository) ReduceQuantity(ctx context.Context, id uint, soldQuantity float64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var holding entity.Holding
		if err := tx.First(&holding, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return entity.ErrHoldingNotFound
			}
			return err
		}

		remaining := holding.Quantity - soldQuantity
		if remaining <= 0 {
			return tx.Delete(&holding).Error
		}
		return tx.Model(&holding).Update("quantity", remaining).Error
	})
}
