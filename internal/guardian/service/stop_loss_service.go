package service

import (
	"context"
	"strings"

	"golang-portfolio-guardian/internal/entity"
	"golang-portfolio-guardian/internal/guardian/dto"
	"golang-portfolio-guardian/internal/guardian/repository"
	"golang-portfolio-guardian/pkg/logger"
)

// StopLossService manages per-ticker stop-loss configuration.
type StopLossService interface {
	// SetStopLoss creates or replaces the config for (user, ticker).
	// Exactly one of price and percent must be supplied.
	SetStopLoss(ctx context.Context, userID uint, ticker string, req *dto.UpsertStopLossRequest) (*entity.StopLossConfig, error)
	RemoveStopLoss(ctx context.Context, userID uint, ticker string) error
	GetStopLossConfigs(ctx context.Context, userID uint) ([]entity.StopLossConfig, error)
}

// NewStopLossService creates a new stop-loss configuration service.
func NewStopLossService(
	stopLossConfigRepo repository.StopLossConfigRepository,
	logger *logger.Logger,
) StopLossService {
	return &stopLossService{
		stopLossConfigRepo: stopLossConfigRepo,
		logger:             logger,
	}
}

type stopLossService struct {
	stopLossConfigRepo repository.StopLossConfigRepository
	logger             *logger.Logger
}

func (s *stopLossService) SetStopLoss(ctx context.Context, userID uint, ticker string, req *dto.UpsertStopLossRequest) (*entity.StopLossConfig, error) {
	ticker = normalizeTicker(ticker)
	if ticker == "" {
		return nil, entity.NewValidationError("ticker", "is required")
	}

	if req.StopLossPrice == nil && req.StopLossPercent == nil {
		return nil, entity.NewValidationError("stop_loss_price", "either stop_loss_price or stop_loss_percent must be provided")
	}
	if req.StopLossPrice != nil && req.StopLossPercent != nil {
		return nil, entity.NewValidationError("stop_loss_price", "stop_loss_price and stop_loss_percent are mutually exclusive")
	}
	if req.StopLossPrice != nil && *req.StopLossPrice <= 0 {
		return nil, entity.NewValidationError("stop_loss_price", "must be greater than zero")
	}
	if req.StopLossPercent != nil && (*req.StopLossPercent <= 0 || *req.StopLossPercent >= 100) {
		return nil, entity.NewValidationError("stop_loss_percent", "must be between 0 and 100")
	}

	config := &entity.StopLossConfig{
		UserID:          userID,
		Ticker:          ticker,
		StopLossPrice:   req.StopLossPrice,
		StopLossPercent: req.StopLossPercent,
		IsActive:        true,
	}
	if req.IsActive != nil {
		config.IsActive = *req.IsActive
	}

	if err := s.stopLossConfigRepo.Upsert(ctx, config); err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "Stop-loss config saved",
		logger.Field("user_id", userID),
		logger.StringField("ticker", ticker),
		logger.BoolField("is_active", config.IsActive))
	return config, nil
}

func (s *stopLossService) RemoveStopLoss(ctx context.Context, userID uint, ticker string) error {
	ticker = normalizeTicker(ticker)
	if ticker == "" {
		return entity.NewValidationError("ticker", "is required")
	}

	if err := s.stopLossConfigRepo.Delete(ctx, userID, ticker); err != nil {
		return err
	}

	s.logger.InfoContext(ctx, "Stop-loss config removed",
		logger.Field("user_id", userID), logger.StringField("ticker", ticker))
	return nil
}

func (s *stopLossService) GetStopLossConfigs(ctx context.Context, userID uint) ([]entity.StopLossConfig, error) {
	return s.stopLossConfigRepo.FindByUserID(ctx, userID)
}

func normalizeTicker(ticker string) string {
	return strings.ToUpper(strings.TrimSpace(ticker))
}
