package service

import (
	"context"
	"fmt"
	"strings"
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

	"github.com/robfig/cron/v3"
)

const (
	defaultMonitorInterval = time.Minute
	lastPriceCacheTTL      = 10 * time.Minute
)

// MonitorService runs the periodic stop-loss scans. Each monitored user has
// one cron entry; scans are independent across users. Stopping a session
// only halts future scans, armed per-order timers keep running.
type MonitorService interface {
	// StartMonitoring begins periodic scans for the user. Idempotent.
	StartMonitoring(ctx context.Context, userID uint) error
	// StopMonitoring halts future scans for the user. Idempotent. Already
	// scheduled auto-execution timers are left untouched.
	StopMonitoring(ctx context.Context, userID uint) error
	// GetMonitoringStatus describes the user's session, active or not.
	GetMonitoringStatus(ctx context.Context, userID uint) (*dto.MonitoringStatusResponse, error)
	// ResumeActiveSessions re-registers scans for sessions that were active
	// before a restart.
	ResumeActiveSessions(ctx context.Context) error
	// Shutdown stops the scan scheduler and waits for running scans.
	Shutdown()
}

// NewMonitorService creates the monitor and starts its scheduler.
func NewMonitorService(
	cfg *config.Config,
	userRepo repository.UserRepository,
	holdingRepo repository.HoldingRepository,
	stopLossConfigRepo repository.StopLossConfigRepository,
	riskProfileRepo repository.RiskProfileRepository,
	monitoringSessionRepo repository.MonitoringSessionRepository,
	marketDataRepo repository.MarketDataRepository,
	orderService OrderService,
	redisClient *redis.Client,
	logger *logger.Logger,
) MonitorService {
	s := &monitorService{
		cfg:                   cfg,
		userRepo:              userRepo,
		holdingRepo:           holdingRepo,
		stopLossConfigRepo:    stopLossConfigRepo,
		riskProfileRepo:       riskProfileRepo,
		monitoringSessionRepo: monitoringSessionRepo,
		marketDataRepo:        marketDataRepo,
		orderService:          orderService,
		redisClient:           redisClient,
		logger:                logger,
		cron:                  cron.New(),
		entries:               make(map[uint]cron.EntryID),
	}
	s.cron.Start()
	return s
}

type monitorService struct {
	cfg                   *config.Config
	userRepo              repository.UserRepository
	holdingRepo           repository.HoldingRepository
	stopLossConfigRepo    repository.StopLossConfigRepository
	riskProfileRepo       repository.RiskProfileRepository
	monitoringSessionRepo repository.MonitoringSessionRepository
	marketDataRepo        repository.MarketDataRepository
	orderService          OrderService
	redisClient           *redis.Client
	logger                *logger.Logger

	cron      *cron.Cron
	entriesMu sync.Mutex
	entries   map[uint]cron.EntryID
}

func (s *monitorService) StartMonitoring(ctx context.Context, userID uint) error {
	if _, err := s.userRepo.FindByID(ctx, userID); err != nil {
		return err
	}

	registered, err := s.registerScan(userID)
	if err != nil {
		return err
	}
	if !registered {
		s.logger.DebugContext(ctx, "Monitoring already active", logger.Field("user_id", userID))
		return nil
	}

	interval := s.interval()
	now := utils.TimeNowUTC()
	session := &entity.MonitoringSession{
		UserID:          userID,
		IsActive:        true,
		IntervalSeconds: int(interval / time.Second),
		StartedAt:       now,
	}
	if err := s.monitoringSessionRepo.Upsert(ctx, session); err != nil {
		s.logger.ErrorContext(ctx, "Failed to persist monitoring session",
			logger.ErrorField(err), logger.Field("user_id", userID))
	}

	// First protective scan right away instead of one interval out.
	utils.GoSafe(func() {
		s.scanUser(userID)
	})

	s.logger.InfoContext(ctx, "Monitoring started",
		logger.Field("user_id", userID), logger.StringField("interval", interval.String()))
	return nil
}

func (s *monitorService) StopMonitoring(ctx context.Context, userID uint) error {
	s.entriesMu.Lock()
	entryID, ok := s.entries[userID]
	if ok {
		s.cron.Remove(entryID)
		delete(s.entries, userID)
	}
	s.entriesMu.Unlock()

	if err := s.monitoringSessionRepo.MarkStopped(ctx, userID); err != nil {
		return fmt.Errorf("failed to stop monitoring session: %w", err)
	}

	if ok {
		s.logger.InfoContext(ctx, "Monitoring stopped", logger.Field("user_id", userID))
	}
	return nil
}

func (s *monitorService) GetMonitoringStatus(ctx context.Context, userID uint) (*dto.MonitoringStatusResponse, error) {
	session, err := s.monitoringSessionRepo.FindByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return &dto.MonitoringStatusResponse{UserID: userID, Active: false}, nil
	}

	resp := &dto.MonitoringStatusResponse{
		UserID:     userID,
		Active:     session.IsActive,
		LastScanAt: session.LastScanAt,
	}
	if session.IsActive {
		resp.IntervalSeconds = session.IntervalSeconds
		resp.StartedAt = &session.StartedAt
	}
	return resp, nil
}

func (s *monitorService) ResumeActiveSessions(ctx context.Context) error {
	sessions, err := s.monitoringSessionRepo.FindActive(ctx)
	if err != nil {
		return fmt.Errorf("failed to load active monitoring sessions: %w", err)
	}

	resumed := 0
	for _, session := range sessions {
		if !utils.ShouldContinue(ctx) {
			return ctx.Err()
		}
		registered, err := s.registerScan(session.UserID)
		if err != nil {
			s.logger.ErrorContext(ctx, "Failed to resume monitoring session",
				logger.ErrorField(err), logger.Field("user_id", session.UserID))
			continue
		}
		if registered {
			resumed++
		}
	}

	s.logger.InfoContext(ctx, "Resumed monitoring sessions", logger.IntField("count", resumed))
	return nil
}

func (s *monitorService) Shutdown() {
	<-s.cron.Stop().Done()
}

// registerScan adds the user's cron entry. Returns false when one already
// exists.
func (s *monitorService) registerScan(userID uint) (bool, error) {
	s.entriesMu.Lock()
	defer s.entriesMu.Unlock()

	if _, ok := s.entries[userID]; ok {
		return false, nil
	}

	entryID, err := s.cron.AddFunc(fmt.Sprintf("@every %s", s.interval()), func() {
		s.scanUser(userID)
	})
	if err != nil {
		return false, fmt.Errorf("failed to schedule scan: %w", err)
	}
	s.entries[userID] = entryID
	return true, nil
}

// scanUser runs one full evaluation cycle for one user. Failures on a single
// holding are logged and never abort the rest of the scan.
func (s *monitorService) scanUser(userID uint) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("Portfolio scan panicked",
				logger.Field("user_id", userID), logger.Field("panic", r))
		}
	}()

	ctx := context.Background()
	s.logger.DebugContext(ctx, "Starting portfolio scan", logger.Field("user_id", userID))

	lockKey := fmt.Sprintf(common.RedisKeyMonitorLock, userID)
	acquired, err := s.redisClient.AcquireLock(ctx, lockKey, s.interval())
	if err != nil {
		s.logger.WarnContext(ctx, "Failed to acquire scan lock, proceeding",
			logger.ErrorField(err), logger.Field("user_id", userID))
	} else if !acquired {
		s.logger.DebugContext(ctx, "Scan already running for user", logger.Field("user_id", userID))
		return
	} else {
		defer func() {
			if err := s.redisClient.ReleaseLock(ctx, lockKey); err != nil {
				s.logger.WarnContext(ctx, "Failed to release scan lock", logger.ErrorField(err))
			}
		}()
	}

	profile, err := s.riskProfileRepo.FindByUserID(ctx, userID)
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to load risk profile",
			logger.ErrorField(err), logger.Field("user_id", userID))
		return
	}
	if profile == nil {
		profile = entity.DefaultRiskProfile(userID)
	}

	if !profile.AutoSellEnabled {
		s.logger.DebugContext(ctx, "Auto-sell disabled, scan skipped", logger.Field("user_id", userID))
		s.touchLastScan(ctx, userID)
		return
	}

	holdings, err := s.holdingRepo.FindByUserID(ctx, userID)
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to load holdings",
			logger.ErrorField(err), logger.Field("user_id", userID))
		return
	}
	if len(holdings) == 0 {
		s.touchLastScan(ctx, userID)
		return
	}

	configs, err := s.stopLossConfigRepo.FindActiveByUserID(ctx, userID)
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to load stop-loss configs",
			logger.ErrorField(err), logger.Field("user_id", userID))
		return
	}
	configByTicker := make(map[string]*entity.StopLossConfig, len(configs))
	for i := range configs {
		configByTicker[strings.ToUpper(configs[i].Ticker)] = &configs[i]
	}

	s.refreshPrices(ctx, holdings)

	totalValue := 0.0
	for i := range holdings {
		totalValue += holdings[i].MarketValue()
	}

	for i := range holdings {
		holding := &holdings[i]

		cfg, ok := configByTicker[strings.ToUpper(holding.Ticker)]
		if !ok {
			continue
		}
		if profile.InBlacklist(holding.Ticker) {
			continue
		}

		stopPrice := cfg.EffectiveStopPrice(holding.PurchasePrice)
		if stopPrice <= 0 || holding.CurrentPrice > stopPrice {
			continue
		}

		if profile.SustainedDropMinutes > 0 &&
			!s.isSustainedDrop(ctx, holding.Ticker, profile.SustainedDropMinutes, stopPrice) {
			s.logger.DebugContext(ctx, "Breach not sustained, skipping",
				logger.StringField("ticker", holding.Ticker),
				logger.Float64Field("current_price", holding.CurrentPrice),
				logger.Float64Field("stop_price", stopPrice))
			continue
		}

		marketValue := holding.MarketValue()
		portfolioPercent := 0.0
		if totalValue > 0 {
			portfolioPercent = marketValue / totalValue * 100
		}

		order, err := s.orderService.HandleTriggeredSell(ctx, &dto.SellTriggerParams{
			Holding:             holding,
			Config:              cfg,
			Profile:             profile,
			CurrentPrice:        holding.CurrentPrice,
			EffectiveStopPrice:  stopPrice,
			PercentChange:       (holding.CurrentPrice - stopPrice) / stopPrice * 100,
			MarketValue:         marketValue,
			PortfolioPercent:    portfolioPercent,
			TotalPortfolioValue: totalValue,
			PortfolioHoldings:   holdings,
		})
		if err != nil {
			s.logger.ErrorContext(ctx, "Failed to handle triggered sell",
				logger.ErrorField(err), logger.StringField("ticker", holding.Ticker))
			continue
		}
		if order != nil {
			s.logger.InfoContext(ctx, "Stop-loss breach triggered sell order",
				logger.StringField("order_id", order.ID),
				logger.StringField("ticker", holding.Ticker),
				logger.Float64Field("current_price", holding.CurrentPrice),
				logger.Float64Field("stop_price", stopPrice))
		}
	}

	s.touchLastScan(ctx, userID)
}

// refreshPrices pulls a fresh quote per holding, updating both the holding
// rows and the shared last-price cache. A failed quote keeps the last
// observed price.
func (s *monitorService) refreshPrices(ctx context.Context, holdings []entity.Holding) {
	pipe := s.redisClient.Pipeline()
	cached := 0
	for i := range holdings {
		holding := &holdings[i]

		quote, err := s.marketDataRepo.GetQuote(ctx, holding.Ticker)
		if err != nil {
			s.logger.WarnContext(ctx, "Failed to fetch quote, using last observed price",
				logger.ErrorField(err), logger.StringField("ticker", holding.Ticker))
			continue
		}

		holding.CurrentPrice = quote.Price
		if err := s.holdingRepo.UpdateCurrentPrice(ctx, holding.ID, quote.Price); err != nil {
			s.logger.WarnContext(ctx, "Failed to persist refreshed price",
				logger.ErrorField(err), logger.StringField("ticker", holding.Ticker))
		}
		pipe.HSet(ctx, common.RedisKeyLastPrice, holding.Ticker, quote.Price)
		cached++
	}

	if cached > 0 {
		pipe.Expire(ctx, common.RedisKeyLastPrice, lastPriceCacheTTL)
		if _, err := pipe.Exec(ctx); err != nil {
			s.logger.WarnContext(ctx, "Failed to cache last prices", logger.ErrorField(err))
		}
	}
}

// isSustainedDrop requires every sample in the lookback window to sit at or
// below the stop price. A failed lookup fails open and counts as sustained.
func (s *monitorService) isSustainedDrop(ctx context.Context, ticker string, minutes int, stopPrice float64) bool {
	prices, err := s.marketDataRepo.GetHistoricalPrices(ctx, ticker, minutes)
	if err != nil {
		s.logger.WarnContext(ctx, "Historical price lookup failed, treating drop as sustained",
			logger.ErrorField(err), logger.StringField("ticker", ticker))
		return true
	}
	for _, quote := range prices {
		if quote.Price > stopPrice {
			return false
		}
	}
	return true
}

func (s *monitorService) touchLastScan(ctx context.Context, userID uint) {
	if err := s.monitoringSessionRepo.TouchLastScan(ctx, userID); err != nil {
		s.logger.WarnContext(ctx, "Failed to record scan time",
			logger.ErrorField(err), logger.Field("user_id", userID))
	}
}

func (s *monitorService) interval() time.Duration {
	if s.cfg.Guardian.MonitorInterval > 0 {
		return s.cfg.Guardian.MonitorInterval
	}
	return defaultMonitorInterval
}
