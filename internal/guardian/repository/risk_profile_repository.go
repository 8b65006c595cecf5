package repository

import (
	"context"
	"errors"

	"golang-portfolio-guardian/internal/entity"
	"golang-portfolio-guardian/pkg/utils"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// RiskProfileRepository defines the interface for risk profile data
// operations. FindByUserID returns nil when the user never configured one;
// the service layer substitutes the default profile.
type RiskProfileRepository interface {
	FindByUserID(ctx context.Context, userID uint) (*entity.RiskProfile, error)
	Upsert(ctx context.Context, profile *entity.RiskProfile) error
}

// NewRiskProfileRepository creates a new GORM-based risk profile repository.
func NewRiskProfileRepository(db *gorm.DB) RiskProfileRepository {
	return &riskProfileRepository{db: db}
}

type riskProfileRepository struct {
	db *gorm.DB
}

func (r *riskProfileRepository) FindByUserID(ctx context.Context, userID uint) (*entity.RiskProfile, error) {
	var profile entity.RiskProfile
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&profile).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &profile, nil
}

func (r *riskProfileRepository) Upsert(ctx context.Context, profile *entity.RiskProfile) error {
	profile.UpdatedAt = utils.TimeNowUTC()
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"risk_level", "max_portfolio_loss_percent", "auto_sell_enabled",
			"confirmation_window_minutes", "sustained_drop_minutes",
			"high_value_threshold_percent", "high_value_threshold_amount",
			"whitelist", "blacklist", "updated_at",
		}),
	}).Create(profile).Error
}
