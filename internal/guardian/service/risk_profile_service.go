package service

import (
	"context"
	"encoding/json"
	"strings"

	"golang-portfolio-guardian/internal/entity"
	"golang-portfolio-guardian/internal/guardian/dto"
	"golang-portfolio-guardian/internal/guardian/repository"
	"golang-portfolio-guardian/pkg/logger"

	"gorm.io/datatypes"
)

// RiskProfileService reads and updates a user's risk profile. Users who
// never configured one get the default profile with auto-sell disabled.
type RiskProfileService interface {
	GetRiskProfile(ctx context.Context, userID uint) (*entity.RiskProfile, error)
	// UpdateRiskProfile applies a partial update. Nil request fields keep
	// their current value.
	UpdateRiskProfile(ctx context.Context, userID uint, req *dto.UpdateRiskProfileRequest) (*entity.RiskProfile, error)
}

// NewRiskProfileService creates a new risk profile service.
func NewRiskProfileService(
	riskProfileRepo repository.RiskProfileRepository,
	logger *logger.Logger,
) RiskProfileService {
	return &riskProfileService{
		riskProfileRepo: riskProfileRepo,
		logger:          logger,
	}
}

type riskProfileService struct {
	riskProfileRepo repository.RiskProfileRepository
	logger          *logger.Logger
}

func (s *riskProfileService) GetRiskProfile(ctx context.Context, userID uint) (*entity.RiskProfile, error) {
	profile, err := s.riskProfileRepo.FindByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if profile == nil {
		return entity.DefaultRiskProfile(userID), nil
	}
	return profile, nil
}

func (s *riskProfileService) UpdateRiskProfile(ctx context.Context, userID uint, req *dto.UpdateRiskProfileRequest) (*entity.RiskProfile, error) {
	profile, err := s.riskProfileRepo.FindByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if profile == nil {
		profile = entity.DefaultRiskProfile(userID)
	}

	if req.RiskLevel != nil {
		level := strings.ToLower(strings.TrimSpace(*req.RiskLevel))
		switch level {
		case entity.RiskLevelConservative, entity.RiskLevelModerate, entity.RiskLevelAggressive:
			profile.RiskLevel = level
		default:
			return nil, entity.NewValidationError("risk_level", "must be conservative, moderate or aggressive")
		}
	}
	if req.MaxPortfolioLossPercent != nil {
		if *req.MaxPortfolioLossPercent < 0 {
			return nil, entity.NewValidationError("max_portfolio_loss_percent", "must not be negative")
		}
		profile.MaxPortfolioLossPercent = *req.MaxPortfolioLossPercent
	}
	if req.AutoSellEnabled != nil {
		profile.AutoSellEnabled = *req.AutoSellEnabled
	}
	if req.ConfirmationWindowMinutes != nil {
		if *req.ConfirmationWindowMinutes < 0 {
			return nil, entity.NewValidationError("confirmation_window_minutes", "must not be negative")
		}
		profile.ConfirmationWindowMinutes = *req.ConfirmationWindowMinutes
	}
	if req.SustainedDropMinutes != nil {
		if *req.SustainedDropMinutes < 0 {
			return nil, entity.NewValidationError("sustained_drop_minutes", "must not be negative")
		}
		profile.SustainedDropMinutes = *req.SustainedDropMinutes
	}
	if req.HighValueThresholdPercent != nil {
		if *req.HighValueThresholdPercent < 0 {
			return nil, entity.NewValidationError("high_value_threshold_percent", "must not be negative")
		}
		profile.HighValueThresholdPercent = *req.HighValueThresholdPercent
	}
	if req.HighValueThresholdAmount != nil {
		if *req.HighValueThresholdAmount < 0 {
			return nil, entity.NewValidationError("high_value_threshold_amount", "must not be negative")
		}
		profile.HighValueThresholdAmount = *req.HighValueThresholdAmount
	}
	if req.Whitelist != nil {
		profile.Whitelist = encodeTickerList(*req.Whitelist)
	}
	if req.Blacklist != nil {
		profile.Blacklist = encodeTickerList(*req.Blacklist)
	}

	if err := s.riskProfileRepo.Upsert(ctx, profile); err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "Risk profile updated",
		logger.Field("user_id", userID),
		logger.StringField("risk_level", profile.RiskLevel),
		logger.BoolField("auto_sell_enabled", profile.AutoSellEnabled))
	return profile, nil
}

func encodeTickerList(tickers []string) datatypes.JSON {
	normalized := make([]string, 0, len(tickers))
	for _, t := range tickers {
		t = strings.ToUpper(strings.TrimSpace(t))
		if t != "" {
			normalized = append(normalized, t)
		}
	}
	raw, err := json.Marshal(normalized)
	if err != nil {
		return nil
	}
	return datatypes.JSON(raw)
}
