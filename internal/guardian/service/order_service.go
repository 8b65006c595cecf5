package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"golang-portfolio-guardian/internal/entity"
	"golang-portfolio-guardian/internal/guardian/config"
	"golang-portfolio-guardian/internal/guardian/dto"
	"golang-portfolio-guardian/internal/guardian/repository"
	"golang-portfolio-guardian/pkg/common"
	"golang-portfolio-guardian/pkg/logger"
	"golang-portfolio-guardian/pkg/redis"
	"golang-portfolio-guardian/pkg/utils"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	defaultOrderLockTTL      = 10 * time.Second
	defaultRestoreGraceDelay = 30 * time.Second
)

// OrderService owns the sell order lifecycle: creation out of an actionable
// breach, the confirm/cancel/expire transitions, and the delayed
// auto-execution timers for single-step orders.
type OrderService interface {
	// HandleTriggeredSell turns an actionable breach into a pending sell
	// order and routes it per the confirmation policy. Returns nil, nil
	// when an open order for the (user, ticker) already exists.
	HandleTriggeredSell(ctx context.Context, params *dto.SellTriggerParams) (*entity.PendingSellOrder, error)
	// ConfirmOrder moves a pending order to confirmed on behalf of its
	// owner and immediately attempts execution.
	ConfirmOrder(ctx context.Context, orderID string, userID uint) (*entity.PendingSellOrder, error)
	// CancelOrder moves a pending order to cancelled. No execution occurs.
	CancelOrder(ctx context.Context, orderID string, userID uint) (*entity.PendingSellOrder, error)
	// ExpireOrder moves a pending order to expired. Orders never expire on
	// their own; this is for callers that enforce a calendar rule.
	ExpireOrder(ctx context.Context, orderID string) error
	// GetOrdersForUser lists a user's orders, optionally filtered by status.
	GetOrdersForUser(ctx context.Context, userID uint, statuses []string) ([]entity.PendingSellOrder, error)
	// RestorePendingTimers re-arms auto-execution timers for single-step
	// pending orders after a restart. Overdue orders fire after a short
	// grace delay instead of immediately.
	RestorePendingTimers(ctx context.Context) error
	// StopTimers stops every armed timer. Shutdown only; restored on boot.
	StopTimers()
}

// NewOrderService creates a new order lifecycle service.
func NewOrderService(
	cfg *config.Config,
	sellOrderRepo repository.SellOrderRepository,
	auditService AuditService,
	notificationService NotificationService,
	executionService ExecutionService,
	redisClient *redis.Client,
	logger *logger.Logger,
) OrderService {
	return &orderService{
		cfg:                 cfg,
		sellOrderRepo:       sellOrderRepo,
		auditService:        auditService,
		notificationService: notificationService,
		executionService:    executionService,
		redisClient:         redisClient,
		logger:              logger,
		timers:              make(map[string]*time.Timer),
	}
}

type orderService struct {
	cfg                 *config.Config
	sellOrderRepo       repository.SellOrderRepository
	auditService        AuditService
	notificationService NotificationService
	executionService    ExecutionService
	redisClient         *redis.Client
	logger              *logger.Logger

	timersMu sync.Mutex
	timers   map[string]*time.Timer
}

func (s *orderService) HandleTriggeredSell(ctx context.Context, params *dto.SellTriggerParams) (*entity.PendingSellOrder, error) {
	holding := params.Holding
	profile := params.Profile

	lockKey := fmt.Sprintf(common.RedisKeyOrderLock, holding.UserID, holding.Ticker)
	acquired, err := s.redisClient.AcquireLock(ctx, lockKey, s.lockTTL())
	if err != nil {
		s.logger.WarnContext(ctx, "Failed to acquire order creation lock, relying on store constraint",
			logger.ErrorField(err), logger.StringField("ticker", holding.Ticker))
	} else if !acquired {
		s.logger.DebugContext(ctx, "Order creation already in progress",
			logger.Field("user_id", holding.UserID), logger.StringField("ticker", holding.Ticker))
		return nil, nil
	} else {
		defer func() {
			if err := s.redisClient.ReleaseLock(ctx, lockKey); err != nil {
				s.logger.WarnContext(ctx, "Failed to release order creation lock", logger.ErrorField(err))
			}
		}()
	}

	existing, err := s.sellOrderRepo.FindOpenByUserAndTicker(ctx, holding.UserID, holding.Ticker)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		s.logger.DebugContext(ctx, "Open sell order already exists, skipping",
			logger.StringField("order_id", existing.ID), logger.StringField("ticker", holding.Ticker))
		return nil, nil
	}

	now := utils.TimeNowUTC()
	window := time.Duration(profile.ConfirmationWindowMinutes) * time.Minute
	requiresConfirmation := params.PortfolioPercent > profile.HighValueThresholdPercent ||
		params.MarketValue > profile.HighValueThresholdAmount

	order := &entity.PendingSellOrder{
		ID:                   uuid.NewString(),
		UserID:               holding.UserID,
		Ticker:               holding.Ticker,
		Exchange:             holding.Exchange,
		Quantity:             holding.Quantity,
		TriggerPrice:         params.CurrentPrice,
		StopLossPrice:        params.EffectiveStopPrice,
		PercentChange:        params.PercentChange,
		MarketValue:          params.MarketValue,
		PortfolioPercent:     params.PortfolioPercent,
		RequiresConfirmation: requiresConfirmation,
		Status:               entity.OrderStatusPending,
		Reason:               fmt.Sprintf("stop-loss breach: price %.2f <= stop %.2f", params.CurrentPrice, params.EffectiveStopPrice),
		PreSellState:         buildPreSellState(params),
		CreatedAt:            now,
	}
	if window > 0 {
		expiresAt := now.Add(window)
		order.ExpiresAt = &expiresAt
	}

	if err := s.sellOrderRepo.Create(ctx, order); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			s.logger.DebugContext(ctx, "Open sell order already exists, store rejected duplicate",
				logger.StringField("ticker", holding.Ticker))
			return nil, nil
		}
		return nil, fmt.Errorf("failed to create sell order for %s: %w", holding.Ticker, err)
	}

	s.auditService.Record(ctx, &entity.AutoSellLog{
		OrderID: order.ID,
		UserID:  order.UserID,
		Ticker:  order.Ticker,
		Action:  entity.AuditActionTriggered,
		Actor:   common.ActorSystem,
		Details: AuditDetails(map[string]interface{}{
			"trigger_price":         order.TriggerPrice,
			"stop_loss_price":       order.StopLossPrice,
			"percent_change":        order.PercentChange,
			"market_value":          order.MarketValue,
			"portfolio_percent":     order.PortfolioPercent,
			"requires_confirmation": order.RequiresConfirmation,
		}),
	})

	emailSent, inAppSent := s.notificationService.NotifyOrderCreated(ctx, order)
	if emailSent || inAppSent {
		if err := s.sellOrderRepo.UpdateNotificationFlags(ctx, order.ID, emailSent, inAppSent); err != nil {
			s.logger.WarnContext(ctx, "Failed to record notification flags",
				logger.ErrorField(err), logger.StringField("order_id", order.ID))
		}
		order.EmailSent = emailSent
		order.InAppSent = inAppSent
	}

	s.logger.InfoContext(ctx, "Sell order created",
		logger.StringField("order_id", order.ID),
		logger.StringField("ticker", order.Ticker),
		logger.Float64Field("trigger_price", order.TriggerPrice),
		logger.BoolField("requires_confirmation", order.RequiresConfirmation))

	switch {
	case requiresConfirmation:
		// High-value position: waits for a manual confirm or cancel.
	case window > 0:
		s.scheduleAutoExecution(order.ID, window)
	case profile.InWhitelist(order.Ticker):
		if err := s.executionService.ExecuteSellOrder(ctx, order.ID, common.ActorSystem); err != nil {
			s.logger.WarnContext(ctx, "Immediate execution failed",
				logger.ErrorField(err), logger.StringField("order_id", order.ID))
		}
		if updated, err := s.sellOrderRepo.FindByID(ctx, order.ID); err == nil {
			order = updated
		}
	default:
		// No window, not whitelisted: stays pending until the user acts.
	}

	return order, nil
}

func (s *orderService) ConfirmOrder(ctx context.Context, orderID string, userID uint) (*entity.PendingSellOrder, error) {
	order, err := s.sellOrderRepo.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.UserID != userID {
		return nil, entity.ErrOrderNotFound
	}

	now := utils.TimeNowUTC()
	ok, err := s.sellOrderRepo.TransitionStatus(ctx, order.ID, entity.OrderStatusPending, map[string]interface{}{
		"status":       entity.OrderStatusConfirmed,
		"confirmed_at": now,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to confirm order %s: %w", order.ID, err)
	}
	if !ok {
		return nil, s.invalidState(ctx, order.ID, "confirm")
	}

	s.stopTimer(order.ID)

	s.auditService.Record(ctx, &entity.AutoSellLog{
		OrderID: order.ID,
		UserID:  order.UserID,
		Ticker:  order.Ticker,
		Action:  entity.AuditActionConfirmed,
		Actor:   common.ActorUser,
		Details: AuditDetails(map[string]interface{}{"user_action": "manual_confirm"}),
	})

	s.logger.InfoContext(ctx, "Sell order confirmed",
		logger.StringField("order_id", order.ID), logger.StringField("ticker", order.Ticker))

	if err := s.executionService.ExecuteSellOrder(ctx, order.ID, common.ActorUser); err != nil {
		return nil, err
	}
	return s.sellOrderRepo.FindByID(ctx, order.ID)
}

func (s *orderService) CancelOrder(ctx context.Context, orderID string, userID uint) (*entity.PendingSellOrder, error) {
	order, err := s.sellOrderRepo.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.UserID != userID {
		return nil, entity.ErrOrderNotFound
	}

	now := utils.TimeNowUTC()
	ok, err := s.sellOrderRepo.TransitionStatus(ctx, order.ID, entity.OrderStatusPending, map[string]interface{}{
		"status":       entity.OrderStatusCancelled,
		"cancelled_at": now,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to cancel order %s: %w", order.ID, err)
	}
	if !ok {
		return nil, s.invalidState(ctx, order.ID, "cancel")
	}

	s.stopTimer(order.ID)
	order.Status = entity.OrderStatusCancelled
	order.CancelledAt = &now

	s.auditService.Record(ctx, &entity.AutoSellLog{
		OrderID: order.ID,
		UserID:  order.UserID,
		Ticker:  order.Ticker,
		Action:  entity.AuditActionCancelled,
		Actor:   common.ActorUser,
		Details: AuditDetails(map[string]interface{}{"user_action": "manual_cancel"}),
	})

	s.notificationService.NotifyOrderCancelled(ctx, order)

	s.logger.InfoContext(ctx, "Sell order cancelled",
		logger.StringField("order_id", order.ID), logger.StringField("ticker", order.Ticker))

	return order, nil
}

func (s *orderService) ExpireOrder(ctx context.Context, orderID string) error {
	order, err := s.sellOrderRepo.FindByID(ctx, orderID)
	if err != nil {
		return err
	}

	ok, err := s.sellOrderRepo.TransitionStatus(ctx, order.ID, entity.OrderStatusPending, map[string]interface{}{
		"status": entity.OrderStatusExpired,
	})
	if err != nil {
		return fmt.Errorf("failed to expire order %s: %w", order.ID, err)
	}
	if !ok {
		return s.invalidState(ctx, order.ID, "expire")
	}

	s.stopTimer(order.ID)
	order.Status = entity.OrderStatusExpired

	s.auditService.Record(ctx, &entity.AutoSellLog{
		OrderID: order.ID,
		UserID:  order.UserID,
		Ticker:  order.Ticker,
		Action:  entity.AuditActionExpired,
		Actor:   common.ActorSystem,
	})

	s.notificationService.NotifyOrderExpired(ctx, order)

	s.logger.InfoContext(ctx, "Sell order expired",
		logger.StringField("order_id", order.ID), logger.StringField("ticker", order.Ticker))

	return nil
}

func (s *orderService) GetOrdersForUser(ctx context.Context, userID uint, statuses []string) ([]entity.PendingSellOrder, error) {
	return s.sellOrderRepo.FindByUserID(ctx, userID, statuses)
}

func (s *orderService) RestorePendingTimers(ctx context.Context) error {
	orders, err := s.sellOrderRepo.FindAllPending(ctx)
	if err != nil {
		return fmt.Errorf("failed to load pending orders: %w", err)
	}

	now := utils.TimeNowUTC()
	restored := 0
	for i := range orders {
		if !utils.ShouldContinue(ctx) {
			return ctx.Err()
		}
		order := &orders[i]
		// Two-step and windowless orders wait for the user, not a timer.
		if order.RequiresConfirmation || order.ExpiresAt == nil {
			continue
		}
		delay := order.ExpiresAt.Sub(now)
		if delay <= 0 {
			delay = s.graceDelay()
		}
		s.scheduleAutoExecution(order.ID, delay)
		restored++
	}

	s.logger.InfoContext(ctx, "Restored auto-execution timers",
		logger.IntField("pending_orders", len(orders)), logger.IntField("timers", restored))
	return nil
}

func (s *orderService) StopTimers() {
	s.timersMu.Lock()
	defer s.timersMu.Unlock()
	for id, timer := range s.timers {
		timer.Stop()
		delete(s.timers, id)
	}
}

func (s *orderService) scheduleAutoExecution(orderID string, delay time.Duration) {
	s.timersMu.Lock()
	if existing, ok := s.timers[orderID]; ok {
		existing.Stop()
	}
	s.timers[orderID] = time.AfterFunc(delay, func() {
		s.runAutoExecution(orderID)
	})
	s.timersMu.Unlock()

	s.logger.Info("Scheduled auto-execution",
		logger.StringField("order_id", orderID),
		logger.StringField("delay", delay.String()))
}

// runAutoExecution is the timer callback. The order may have been confirmed
// or cancelled since scheduling, so it re-reads state before acting. Errors
// stay inside: they are already captured on the order and the audit trail.
func (s *orderService) runAutoExecution(orderID string) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("Auto-execution timer panicked",
				logger.StringField("order_id", orderID), logger.Field("panic", r))
		}
	}()
	s.removeTimer(orderID)

	ctx := context.Background()
	order, err := s.sellOrderRepo.FindByID(ctx, orderID)
	if err != nil {
		s.logger.Error("Failed to load order for auto-execution",
			logger.ErrorField(err), logger.StringField("order_id", orderID))
		return
	}
	if order.Status != entity.OrderStatusPending {
		s.logger.Debug("Order no longer pending, auto-execution skipped",
			logger.StringField("order_id", orderID), logger.StringField("status", order.Status))
		return
	}

	if err := s.executionService.ExecuteSellOrder(ctx, orderID, common.ActorTimer); err != nil {
		s.logger.Warn("Auto-execution failed",
			logger.ErrorField(err), logger.StringField("order_id", orderID))
	}
}

func (s *orderService) stopTimer(orderID string) {
	s.timersMu.Lock()
	defer s.timersMu.Unlock()
	if timer, ok := s.timers[orderID]; ok {
		timer.Stop()
		delete(s.timers, orderID)
	}
}

func (s *orderService) removeTimer(orderID string) {
	s.timersMu.Lock()
	defer s.timersMu.Unlock()
	delete(s.timers, orderID)
}

// invalidState reloads the order so the returned error carries the status
// that won the race.
func (s *orderService) invalidState(ctx context.Context, orderID, action string) error {
	status := "unknown"
	if current, err := s.sellOrderRepo.FindByID(ctx, orderID); err == nil {
		status = current.Status
	}
	return &entity.InvalidStateError{OrderID: orderID, Status: status, Action: action}
}

func (s *orderService) lockTTL() time.Duration {
	if s.cfg.Guardian.OrderLockTTL > 0 {
		return s.cfg.Guardian.OrderLockTTL
	}
	return defaultOrderLockTTL
}

func (s *orderService) graceDelay() time.Duration {
	if s.cfg.Guardian.RestoreGraceDelay > 0 {
		return s.cfg.Guardian.RestoreGraceDelay
	}
	return defaultRestoreGraceDelay
}

func buildPreSellState(params *dto.SellTriggerParams) datatypes.JSON {
	state := dto.PreSellState{TotalPortfolioValue: params.TotalPortfolioValue}
	for _, h := range params.PortfolioHoldings {
		state.Holdings = append(state.Holdings, dto.HoldingSnapshot{
			Ticker:       h.Ticker,
			Quantity:     h.Quantity,
			CurrentPrice: h.CurrentPrice,
			MarketValue:  h.MarketValue(),
		})
	}
	raw, err := json.Marshal(state)
	if err != nil {
		return nil
	}
	return datatypes.JSON(raw)
}
