package service

import (
	"context"
	"fmt"

	"golang-portfolio-guardian/internal/entity"
	"golang-portfolio-guardian/internal/guardian/config"
	"golang-portfolio-guardian/internal/guardian/repository"
	"golang-portfolio-guardian/pkg/common"
	"golang-portfolio-guardian/pkg/logger"
	"golang-portfolio-guardian/pkg/redis"
	"golang-portfolio-guardian/pkg/utils"
)

// ExecutionService submits triggered sell orders to the brokerage and
// settles the outcome back onto the order, the holding and the audit trail.
type ExecutionService interface {
	// ExecuteSellOrder runs the full execution flow for an order that is
	// pending or confirmed. actor records who initiated it (system, user
	// or auto_timer). A market-closed or rejected trade moves the order
	// to failed and returns a typed error.
	ExecuteSellOrder(ctx context.Context, orderID string, actor string) error
}

// NewExecutionService creates a new execution service.
func NewExecutionService(
	cfg *config.Config,
	sellOrderRepo repository.SellOrderRepository,
	holdingRepo repository.HoldingRepository,
	marketDataRepo repository.MarketDataRepository,
	brokerageRepo repository.BrokerageRepository,
	auditService AuditService,
	notificationService NotificationService,
	redisClient *redis.Client,
	logger *logger.Logger,
) ExecutionService {
	return &executionService{
		cfg:                 cfg,
		sellOrderRepo:       sellOrderRepo,
		holdingRepo:         holdingRepo,
		marketDataRepo:      marketDataRepo,
		brokerageRepo:       brokerageRepo,
		auditService:        auditService,
		notificationService: notificationService,
		redisClient:         redisClient,
		logger:              logger,
	}
}

type executionService struct {
	cfg                 *config.Config
	sellOrderRepo       repository.SellOrderRepository
	holdingRepo         repository.HoldingRepository
	marketDataRepo      repository.MarketDataRepository
	brokerageRepo       repository.BrokerageRepository
	auditService        AuditService
	notificationService NotificationService
	redisClient         *redis.Client
	logger              *logger.Logger
}

func (s *executionService) ExecuteSellOrder(ctx context.Context, orderID string, actor string) error {
	order, err := s.sellOrderRepo.FindByID(ctx, orderID)
	if err != nil {
		return err
	}

	if !order.IsOpen() {
		return &entity.InvalidStateError{OrderID: order.ID, Status: order.Status, Action: "execute"}
	}

	marketStatus, err := s.marketDataRepo.GetMarketStatus(ctx, order.Exchange)
	if err != nil {
		// Market status unknown: leave the order as-is so a later attempt
		// can retry instead of burning it to failed.
		return fmt.Errorf("failed to get market status for order %s: %w", order.ID, err)
	}

	if !marketStatus.IsOpen {
		s.markFailed(ctx, order, actor, marketStatus.Message, map[string]interface{}{
			"retryable": true,
			"next_open": marketStatus.NextOpen,
		})
		return &entity.MarketClosedError{Exchange: order.Exchange, NextOpen: marketStatus.NextOpen}
	}

	refPrice := order.TriggerPrice
	if quote, err := s.marketDataRepo.GetQuote(ctx, order.Ticker); err != nil {
		s.logger.WarnContext(ctx, "Failed to refresh quote before execution, using trigger price",
			logger.ErrorField(err), logger.StringField("ticker", order.Ticker))
	} else {
		refPrice = quote.Price
	}

	execution, err := s.brokerageRepo.SubmitMarketSell(ctx, order.Ticker, order.Quantity, refPrice)
	if err != nil {
		s.markFailed(ctx, order, actor, err.Error(), map[string]interface{}{"retryable": false})
		return &entity.TradeFailedError{OrderID: order.ID, Reason: err.Error()}
	}
	if !execution.Success {
		s.markFailed(ctx, order, actor, execution.Error, map[string]interface{}{
			"retryable": execution.Retryable,
		})
		return &entity.TradeFailedError{OrderID: order.ID, Reason: execution.Error}
	}

	executedAt := utils.TimeNowUTC()
	fields := map[string]interface{}{
		"status":            entity.OrderStatusExecuted,
		"trade_id":          execution.TradeID,
		"executed_price":    execution.ExecutedPrice,
		"executed_quantity": execution.ExecutedQuantity,
		"slippage":          execution.Slippage,
		"partial_fill":      execution.PartialFill,
		"executed_at":       executedAt,
	}
	ok, err := s.sellOrderRepo.TransitionStatus(ctx, order.ID, order.Status, fields)
	if err != nil {
		return fmt.Errorf("failed to record execution of order %s: %w", order.ID, err)
	}
	if !ok {
		// The trade went through but the order moved under us. Surface it
		// loudly: reconciliation needs the trade id.
		s.logger.ErrorContext(ctx, "Order state changed during execution",
			logger.StringField("order_id", order.ID),
			logger.StringField("trade_id", execution.TradeID))
		return &entity.InvalidStateError{OrderID: order.ID, Status: order.Status, Action: "execute"}
	}

	order.Status = entity.OrderStatusExecuted
	order.TradeID = &execution.TradeID
	order.ExecutedPrice = &execution.ExecutedPrice
	order.ExecutedQuantity = &execution.ExecutedQuantity
	order.Slippage = &execution.Slippage
	order.PartialFill = execution.PartialFill
	order.ExecutedAt = &executedAt

	s.settleHolding(ctx, order, execution.ExecutedQuantity)

	if err := s.redisClient.HSet(ctx, common.RedisKeyLastPrice, order.Ticker, execution.ExecutedPrice).Err(); err != nil {
		s.logger.WarnContext(ctx, "Failed to cache executed price",
			logger.ErrorField(err), logger.StringField("ticker", order.Ticker))
	}

	auditFields := map[string]interface{}{
		"trade_id":          execution.TradeID,
		"executed_price":    execution.ExecutedPrice,
		"executed_quantity": execution.ExecutedQuantity,
		"slippage":          execution.Slippage,
		"partial_fill":      execution.PartialFill,
	}
	if actor == common.ActorTimer {
		auditFields["user_action"] = "auto_execute"
	}
	s.auditService.Record(ctx, &entity.AutoSellLog{
		OrderID: order.ID,
		UserID:  order.UserID,
		Ticker:  order.Ticker,
		Action:  entity.AuditActionExecuted,
		Actor:   actor,
		Details: AuditDetails(auditFields),
	})

	s.notificationService.NotifyOrderExecuted(ctx, order)

	s.logger.InfoContext(ctx, "Sell order executed",
		logger.StringField("order_id", order.ID),
		logger.StringField("ticker", order.Ticker),
		logger.StringField("trade_id", execution.TradeID),
		logger.Float64Field("executed_price", execution.ExecutedPrice),
		logger.Float64Field("executed_quantity", execution.ExecutedQuantity),
		logger.BoolField("partial_fill", execution.PartialFill))

	return nil
}

// settleHolding reduces the position by the executed quantity. Failure here
// is logged only: the trade already happened and must not be rolled back.
func (s *executionService) settleHolding(ctx context.Context, order *entity.PendingSellOrder, executedQuantity float64) {
	holding, err := s.holdingRepo.FindByUserAndTicker(ctx, order.UserID, order.Ticker)
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to load holding after execution",
			logger.ErrorField(err),
			logger.StringField("order_id", order.ID),
			logger.StringField("ticker", order.Ticker))
		return
	}
	if err := s.holdingRepo.ReduceQuantity(ctx, holding.ID, executedQuantity); err != nil {
		s.logger.ErrorContext(ctx, "Failed to reduce holding after execution",
			logger.ErrorField(err),
			logger.StringField("order_id", order.ID),
			logger.StringField("ticker", order.Ticker))
	}
}

func (s *executionService) markFailed(ctx context.Context, order *entity.PendingSellOrder, actor, reason string, details map[string]interface{}) {
	fields := map[string]interface{}{
		"status": entity.OrderStatusFailed,
		"reason": reason,
	}
	ok, err := s.sellOrderRepo.TransitionStatus(ctx, order.ID, order.Status, fields)
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to mark order failed",
			logger.ErrorField(err), logger.StringField("order_id", order.ID))
		return
	}
	if !ok {
		s.logger.WarnContext(ctx, "Order left its open state before failure was recorded",
			logger.StringField("order_id", order.ID))
		return
	}

	order.Status = entity.OrderStatusFailed
	order.Reason = reason

	details["reason"] = reason
	if actor == common.ActorTimer {
		details["user_action"] = "auto_execute"
	}
	s.auditService.Record(ctx, &entity.AutoSellLog{
		OrderID: order.ID,
		UserID:  order.UserID,
		Ticker:  order.Ticker,
		Action:  entity.AuditActionFailed,
		Actor:   actor,
		Details: AuditDetails(details),
	})

	s.notificationService.NotifyOrderFailed(ctx, order)

	s.logger.WarnContext(ctx, "Sell order failed",
		logger.StringField("order_id", order.ID),
		logger.StringField("ticker", order.Ticker),
		logger.StringField("reason", reason))
}
