package service

import (
	"context"
	"sync"
	"time"

	"golang-portfolio-guardian/internal/entity"
	"golang-portfolio-guardian/internal/guardian/config"
	"golang-portfolio-guardian/internal/guardian/dto"
	"golang-portfolio-guardian/pkg/logger"
	"golang-portfolio-guardian/pkg/redis"
	"golang-portfolio-guardian/pkg/utils"

	goredis "github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// newTestRedis returns a client pointed at a dead address with tiny
// timeouts. Lock and cache calls fail fast, which the services treat as
// best-effort misses.
func newTestRedis() *redis.Client {
	return &redis.Client{Client: goredis.NewClient(&goredis.Options{
		Addr:         "127.0.0.1:1",
		DialTimeout:  20 * time.Millisecond,
		ReadTimeout:  20 * time.Millisecond,
		WriteTimeout: 20 * time.Millisecond,
		MaxRetries:   -1,
	})}
}

func newTestLogger() *logger.Logger {
	return logger.NewNop()
}

func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.Guardian.OrderLockTTL = 5 * time.Second
	cfg.Guardian.RestoreGraceDelay = 10 * time.Second
	cfg.Guardian.AppBaseURL = "http://localhost:8080"
	return cfg
}

// --- sell order store ---

type fakeSellOrderRepo struct {
	mu        sync.Mutex
	orders    map[string]*entity.PendingSellOrder
	createErr error
	// beforeTransition runs before TransitionStatus takes the lock, letting a
	// test race another actor against the caller.
	beforeTransition func(id, fromStatus string)
}

func newFakeSellOrderRepo() *fakeSellOrderRepo {
	return &fakeSellOrderRepo{orders: make(map[string]*entity.PendingSellOrder)}
}

func (f *fakeSellOrderRepo) put(order *entity.PendingSellOrder) {
	f.mu.Lock()
	defer f.mu.Unlock()
	clone := *order
	f.orders[order.ID] = &clone
}

func (f *fakeSellOrderRepo) get(id string) *entity.PendingSellOrder {
	f.mu.Lock()
	defer f.mu.Unlock()
	if o, ok := f.orders[id]; ok {
		clone := *o
		return &clone
	}
	return nil
}

func (f *fakeSellOrderRepo) Create(ctx context.Context, order *entity.PendingSellOrder) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return f.createErr
	}
	for _, existing := range f.orders {
		if existing.UserID == order.UserID && existing.Ticker == order.Ticker && existing.IsOpen() {
			return gorm.ErrDuplicatedKey
		}
	}
	clone := *order
	f.orders[order.ID] = &clone
	return nil
}

func (f *fakeSellOrderRepo) FindByID(ctx context.Context, id string) (*entity.PendingSellOrder, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	o, ok := f.orders[id]
	if !ok {
		return nil, entity.ErrOrderNotFound
	}
	clone := *o
	return &clone, nil
}

func (f *fakeSellOrderRepo) FindOpenByUserAndTicker(ctx context.Context, userID uint, ticker string) (*entity.PendingSellOrder, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, o := range f.orders {
		if o.UserID == userID && o.Ticker == ticker && o.IsOpen() {
			clone := *o
			return &clone, nil
		}
	}
	return nil, nil
}

func (f *fakeSellOrderRepo) FindByUserID(ctx context.Context, userID uint, statuses []string) ([]entity.PendingSellOrder, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []entity.PendingSellOrder
	for _, o := range f.orders {
		if o.UserID != userID {
			continue
		}
		if len(statuses) > 0 && !utils.ContainsString(statuses, o.Status) {
			continue
		}
		out = append(out, *o)
	}
	return out, nil
}

func (f *fakeSellOrderRepo) FindAllPending(ctx context.Context) ([]entity.PendingSellOrder, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []entity.PendingSellOrder
	for _, o := range f.orders {
		if o.Status == entity.OrderStatusPending {
			out = append(out, *o)
		}
	}
	return out, nil
}

func (f *fakeSellOrderRepo) TransitionStatus(ctx context.Context, id, fromStatus string, fields map[string]interface{}) (bool, error) {
	if f.beforeTransition != nil {
		f.beforeTransition(id, fromStatus)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	o, ok := f.orders[id]
	if !ok || o.Status != fromStatus {
		return false, nil
	}
	applyOrderFields(o, fields)
	return true, nil
}

func (f *fakeSellOrderRepo) UpdateNotificationFlags(ctx context.Context, id string, emailSent, inAppSent bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if o, ok := f.orders[id]; ok {
		o.EmailSent = emailSent
		o.InAppSent = inAppSent
	}
	return nil
}

func applyOrderFields(o *entity.PendingSellOrder, fields map[string]interface{}) {
	for key, value := range fields {
		switch key {
		case "status":
			o.Status = value.(string)
		case "reason":
			o.Reason = value.(string)
		case "confirmed_at":
			t := value.(time.Time)
			o.ConfirmedAt = &t
		case "cancelled_at":
			t := value.(time.Time)
			o.CancelledAt = &t
		case "executed_at":
			t := value.(time.Time)
			o.ExecutedAt = &t
		case "trade_id":
			s := value.(string)
			o.TradeID = &s
		case "executed_price":
			v := value.(float64)
			o.ExecutedPrice = &v
		case "executed_quantity":
			v := value.(float64)
			o.ExecutedQuantity = &v
		case "slippage":
			v := value.(float64)
			o.Slippage = &v
		case "partial_fill":
			o.PartialFill = value.(bool)
		}
	}
}

// --- audit ---

type fakeAuditService struct {
	mu      sync.Mutex
	entries []entity.AutoSellLog
}

func (f *fakeAuditService) Record(ctx context.Context, entry *entity.AutoSellLog) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.entries = append(f.entries, *entry)
}

func (f *fakeAuditService) GetLogs(ctx context.Context, userID uint, limit int) ([]entity.AutoSellLog, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]entity.AutoSellLog(nil), f.entries...), nil
}

func (f *fakeAuditService) GetOrderTrail(ctx context.Context, orderID string) ([]entity.AutoSellLog, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []entity.AutoSellLog
	for _, e := range f.entries {
		if e.OrderID == orderID {
			out = append(out, e)
		}
	}
	return out, nil
}

func (f *fakeAuditService) actions() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, 0, len(f.entries))
	for _, e := range f.entries {
		out = append(out, e.Action)
	}
	return out
}

func (f *fakeAuditService) countAction(action string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, e := range f.entries {
		if e.Action == action {
			n++
		}
	}
	return n
}

func (f *fakeAuditService) lastEntry() *entity.AutoSellLog {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.entries) == 0 {
		return nil
	}
	e := f.entries[len(f.entries)-1]
	return &e
}

// --- notifications ---

type fakeNotificationService struct {
	mu          sync.Mutex
	emailResult bool
	inAppResult bool
	created     []string
	executed    []string
	failed      []string
	cancelled   []string
	expired     []string
}

func newFakeNotificationService() *fakeNotificationService {
	return &fakeNotificationService{emailResult: true, inAppResult: true}
}

func (f *fakeNotificationService) NotifyOrderCreated(ctx context.Context, order *entity.PendingSellOrder) (bool, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.created = append(f.created, order.ID)
	return f.emailResult, f.inAppResult
}

func (f *fakeNotificationService) NotifyOrderExecuted(ctx context.Context, order *entity.PendingSellOrder) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.executed = append(f.executed, order.ID)
}

func (f *fakeNotificationService) NotifyOrderFailed(ctx context.Context, order *entity.PendingSellOrder) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failed = append(f.failed, order.ID)
}

func (f *fakeNotificationService) NotifyOrderCancelled(ctx context.Context, order *entity.PendingSellOrder) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.cancelled = append(f.cancelled, order.ID)
}

func (f *fakeNotificationService) NotifyOrderExpired(ctx context.Context, order *entity.PendingSellOrder) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.expired = append(f.expired, order.ID)
}

// --- execution ---

type executionCall struct {
	orderID string
	actor   string
}

// fakeExecutionService records calls and, when wired to the order store,
// marks the order executed on success like the real engine would.
type fakeExecutionService struct {
	mu    sync.Mutex
	calls []executionCall
	err   error
	repo  *fakeSellOrderRepo
}

func (f *fakeExecutionService) ExecuteSellOrder(ctx context.Context, orderID string, actor string) error {
	f.mu.Lock()
	f.calls = append(f.calls, executionCall{orderID: orderID, actor: actor})
	err := f.err
	repo := f.repo
	f.mu.Unlock()

	if err != nil {
		return err
	}
	if repo != nil {
		repo.TransitionStatus(ctx, orderID, entity.OrderStatusPending, map[string]interface{}{"status": entity.OrderStatusExecuted})
		repo.TransitionStatus(ctx, orderID, entity.OrderStatusConfirmed, map[string]interface{}{"status": entity.OrderStatusExecuted})
	}
	return nil
}

func (f *fakeExecutionService) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

func (f *fakeExecutionService) lastCall() *executionCall {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.calls) == 0 {
		return nil
	}
	c := f.calls[len(f.calls)-1]
	return &c
}

// --- market data ---

type fakeMarketDataRepo struct {
	mu         sync.Mutex
	quotes     map[string]float64
	quoteErr   error
	history    map[string][]float64
	historyErr error
	status     *dto.MarketStatus
	statusErr  error
}

func newFakeMarketDataRepo() *fakeMarketDataRepo {
	return &fakeMarketDataRepo{
		quotes:  make(map[string]float64),
		history: make(map[string][]float64),
	}
}

func (f *fakeMarketDataRepo) GetQuote(ctx context.Context, ticker string) (*dto.Quote, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.quoteErr != nil {
		return nil, f.quoteErr
	}
	price, ok := f.quotes[ticker]
	if !ok {
		price = 100
	}
	return &dto.Quote{Ticker: ticker, Price: price, Timestamp: time.Now().UTC()}, nil
}

func (f *fakeMarketDataRepo) GetHistoricalPrices(ctx context.Context, ticker string, minutes int) ([]dto.Quote, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.historyErr != nil {
		return nil, f.historyErr
	}
	samples := f.history[ticker]
	out := make([]dto.Quote, 0, len(samples))
	at := time.Now().UTC().Add(-time.Duration(len(samples)) * time.Minute)
	for i, price := range samples {
		out = append(out, dto.Quote{Ticker: ticker, Price: price, Timestamp: at.Add(time.Duration(i) * time.Minute)})
	}
	return out, nil
}

func (f *fakeMarketDataRepo) GetMarketStatus(ctx context.Context, exchange string) (*dto.MarketStatus, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.statusErr != nil {
		return nil, f.statusErr
	}
	if f.status != nil {
		return f.status, nil
	}
	return &dto.MarketStatus{Exchange: exchange, IsOpen: true, Message: "Market is open"}, nil
}

// --- brokerage ---

type brokerageCall struct {
	ticker   string
	quantity float64
	refPrice float64
}

type fakeBrokerageRepo struct {
	mu     sync.Mutex
	calls  []brokerageCall
	result *dto.TradeExecution
	err    error
}

func (f *fakeBrokerageRepo) SubmitMarketSell(ctx context.Context, ticker string, quantity, refPrice float64) (*dto.TradeExecution, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, brokerageCall{ticker: ticker, quantity: quantity, refPrice: refPrice})
	if f.err != nil {
		return nil, f.err
	}
	if f.result != nil {
		return f.result, nil
	}
	return &dto.TradeExecution{
		Success:          true,
		TradeID:          "sim-test",
		ExecutedPrice:    refPrice,
		ExecutedQuantity: quantity,
	}, nil
}

// --- holdings ---

type reductionCall struct {
	holdingID uint
	quantity  float64
}

type fakeHoldingRepo struct {
	mu         sync.Mutex
	holdings   map[uint]*entity.Holding
	reductions []reductionCall
}

func newFakeHoldingRepo(holdings ...*entity.Holding) *fakeHoldingRepo {
	f := &fakeHoldingRepo{holdings: make(map[uint]*entity.Holding)}
	for _, h := range holdings {
		clone := *h
		f.holdings[h.ID] = &clone
	}
	return f
}

func (f *fakeHoldingRepo) FindByUserID(ctx context.Context, userID uint) ([]entity.Holding, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []entity.Holding
	for _, h := range f.holdings {
		if h.UserID == userID {
			out = append(out, *h)
		}
	}
	return out, nil
}

func (f *fakeHoldingRepo) FindByUserAndTicker(ctx context.Context, userID uint, ticker string) (*entity.Holding, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, h := range f.holdings {
		if h.UserID == userID && h.Ticker == ticker {
			clone := *h
			return &clone, nil
		}
	}
	return nil, entity.ErrHoldingNotFound
}

func (f *fakeHoldingRepo) UpdateCurrentPrice(ctx context.Context, id uint, price float64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if h, ok := f.holdings[id]; ok {
		h.CurrentPrice = price
	}
	return nil
}

func (f *fakeHoldingRepo) ReduceQuantity(ctx context.Context, id uint, soldQuantity float64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.reductions = append(f.reductions, reductionCall{holdingID: id, quantity: soldQuantity})
	if h, ok := f.holdings[id]; ok {
		h.Quantity -= soldQuantity
		if h.Quantity <= 0 {
			delete(f.holdings, id)
		}
	}
	return nil
}

// --- users ---

type fakeUserRepo struct {
	mu    sync.Mutex
	users map[uint]*entity.User
}

func newFakeUserRepo(users ...*entity.User) *fakeUserRepo {
	f := &fakeUserRepo{users: make(map[uint]*entity.User)}
	for _, u := range users {
		clone := *u
		f.users[u.ID] = &clone
	}
	return f
}

func (f *fakeUserRepo) FindByID(ctx context.Context, id uint) (*entity.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[id]
	if !ok {
		return nil, entity.ErrUserNotFound
	}
	clone := *u
	return &clone, nil
}

// --- stop-loss configs ---

type fakeStopLossConfigRepo struct {
	mu       sync.Mutex
	configs  []entity.StopLossConfig
	upserted []entity.StopLossConfig
}

func (f *fakeStopLossConfigRepo) Upsert(ctx context.Context, config *entity.StopLossConfig) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.upserted = append(f.upserted, *config)
	for i := range f.configs {
		if f.configs[i].UserID == config.UserID && f.configs[i].Ticker == config.Ticker {
			f.configs[i] = *config
			return nil
		}
	}
	f.configs = append(f.configs, *config)
	return nil
}

func (f *fakeStopLossConfigRepo) FindByUserID(ctx context.Context, userID uint) ([]entity.StopLossConfig, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []entity.StopLossConfig
	for _, c := range f.configs {
		if c.UserID == userID {
			out = append(out, c)
		}
	}
	return out, nil
}

func (f *fakeStopLossConfigRepo) FindActiveByUserID(ctx context.Context, userID uint) ([]entity.StopLossConfig, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []entity.StopLossConfig
	for _, c := range f.configs {
		if c.UserID == userID && c.IsActive {
			out = append(out, c)
		}
	}
	return out, nil
}

func (f *fakeStopLossConfigRepo) FindByUserAndTicker(ctx context.Context, userID uint, ticker string) (*entity.StopLossConfig, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, c := range f.configs {
		if c.UserID == userID && c.Ticker == ticker {
			clone := c
			return &clone, nil
		}
	}
	return nil, nil
}

func (f *fakeStopLossConfigRepo) Delete(ctx context.Context, userID uint, ticker string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, c := range f.configs {
		if c.UserID == userID && c.Ticker == ticker {
			f.configs = append(f.configs[:i], f.configs[i+1:]...)
			return nil
		}
	}
	return entity.ErrConfigNotFound
}

// --- risk profiles ---

type fakeRiskProfileRepo struct {
	mu       sync.Mutex
	profiles map[uint]*entity.RiskProfile
	upserted *entity.RiskProfile
}

func newFakeRiskProfileRepo(profiles ...*entity.RiskProfile) *fakeRiskProfileRepo {
	f := &fakeRiskProfileRepo{profiles: make(map[uint]*entity.RiskProfile)}
	for _, p := range profiles {
		clone := *p
		f.profiles[p.UserID] = &clone
	}
	return f
}

func (f *fakeRiskProfileRepo) FindByUserID(ctx context.Context, userID uint) (*entity.RiskProfile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.profiles[userID]
	if !ok {
		return nil, nil
	}
	clone := *p
	return &clone, nil
}

func (f *fakeRiskProfileRepo) Upsert(ctx context.Context, profile *entity.RiskProfile) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	clone := *profile
	f.profiles[profile.UserID] = &clone
	f.upserted = &clone
	return nil
}

// --- monitoring sessions ---

type fakeMonitoringSessionRepo struct {
	mu       sync.Mutex
	sessions map[uint]*entity.MonitoringSession
	stopped  []uint
	touched  []uint
}

func newFakeMonitoringSessionRepo() *fakeMonitoringSessionRepo {
	return &fakeMonitoringSessionRepo{sessions: make(map[uint]*entity.MonitoringSession)}
}

func (f *fakeMonitoringSessionRepo) Upsert(ctx context.Context, session *entity.MonitoringSession) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	clone := *session
	f.sessions[session.UserID] = &clone
	return nil
}

func (f *fakeMonitoringSessionRepo) FindByUserID(ctx context.Context, userID uint) (*entity.MonitoringSession, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.sessions[userID]
	if !ok {
		return nil, nil
	}
	clone := *s
	return &clone, nil
}

func (f *fakeMonitoringSessionRepo) FindActive(ctx context.Context) ([]entity.MonitoringSession, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []entity.MonitoringSession
	for _, s := range f.sessions {
		if s.IsActive {
			out = append(out, *s)
		}
	}
	return out, nil
}

func (f *fakeMonitoringSessionRepo) MarkStopped(ctx context.Context, userID uint) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.stopped = append(f.stopped, userID)
	if s, ok := f.sessions[userID]; ok {
		s.IsActive = false
		now := time.Now().UTC()
		s.StoppedAt = &now
	}
	return nil
}

func (f *fakeMonitoringSessionRepo) TouchLastScan(ctx context.Context, userID uint) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.touched = append(f.touched, userID)
	if s, ok := f.sessions[userID]; ok {
		now := time.Now().UTC()
		s.LastScanAt = &now
	}
	return nil
}

// --- order service (for monitor tests) ---

type fakeOrderService struct {
	mu               sync.Mutex
	triggers         []dto.SellTriggerParams
	triggerErr       error
	stopTimersCalled bool
}

func (f *fakeOrderService) HandleTriggeredSell(ctx context.Context, params *dto.SellTriggerParams) (*entity.PendingSellOrder, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.triggerErr != nil {
		err := f.triggerErr
		f.triggerErr = nil
		return nil, err
	}
	f.triggers = append(f.triggers, *params)
	return &entity.PendingSellOrder{
		ID:     "order-" + params.Holding.Ticker,
		UserID: params.Holding.UserID,
		Ticker: params.Holding.Ticker,
		Status: entity.OrderStatusPending,
	}, nil
}

func (f *fakeOrderService) ConfirmOrder(ctx context.Context, orderID string, userID uint) (*entity.PendingSellOrder, error) {
	return nil, nil
}

func (f *fakeOrderService) CancelOrder(ctx context.Context, orderID string, userID uint) (*entity.PendingSellOrder, error) {
	return nil, nil
}

func (f *fakeOrderService) ExpireOrder(ctx context.Context, orderID string) error {
	return nil
}

func (f *fakeOrderService) GetOrdersForUser(ctx context.Context, userID uint, statuses []string) ([]entity.PendingSellOrder, error) {
	return nil, nil
}

func (f *fakeOrderService) RestorePendingTimers(ctx context.Context) error {
	return nil
}

func (f *fakeOrderService) StopTimers() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.stopTimersCalled = true
}

func (f *fakeOrderService) triggerCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.triggers)
}

func (f *fakeOrderService) lastTrigger() *dto.SellTriggerParams {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.triggers) == 0 {
		return nil
	}
	p := f.triggers[len(f.triggers)-1]
	return &p
}
