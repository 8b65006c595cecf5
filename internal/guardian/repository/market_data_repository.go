package repository

import (
	"context"
	"fmt"
	"hash/fnv"
	"math/rand"
	"time"

	"golang-portfolio-guardian/internal/guardian/config"
	"golang-portfolio-guardian/internal/guardian/dto"
	"golang-portfolio-guardian/pkg/logger"
	"golang-portfolio-guardian/pkg/market"
	"golang-portfolio-guardian/pkg/ratelimit"
	"golang-portfolio-guardian/pkg/utils"

	"github.com/patrickmn/go-cache"
	"golang.org/x/time/rate"
)

// MarketDataRepository is the price feed port.
type MarketDataRepository interface {
	GetQuote(ctx context.Context, ticker string) (*dto.Quote, error)
	// GetHistoricalPrices returns one sample per minute covering the past
	// `minutes` minutes, oldest first. The final sample is the current price.
	GetHistoricalPrices(ctx context.Context, ticker string, minutes int) ([]dto.Quote, error)
	GetMarketStatus(ctx context.Context, exchange string) (*dto.MarketStatus, error)
}

// Reference prices the simulation anchors each ticker's walk to.
var basePrices = map[string]float64{
	"AAPL": 225.10,
	"MSFT": 420.55,
	"GOOG": 176.30,
	"AMZN": 185.20,
	"NVDA": 122.40,
	"TSLA": 248.80,
	"META": 512.70,
	"AMD":  158.35,
	"NFLX": 655.40,
	"INTC": 30.85,
}

const (
	quoteCacheKeyFormat = "quote:%s"
	dailyAmplitude      = 0.03
	minuteAmplitude     = 0.008
)

// simulatedMarketDataRepository serves deterministic pseudo-random prices:
// the same ticker and minute always produce the same price, so a historical
// series agrees with the quotes observed while it was being written.
type simulatedMarketDataRepository struct {
	cfg            *config.Config
	logger         *logger.Logger
	inmemoryCache  *cache.Cache
	requestLimiter *rate.Limiter
	tokenLimiter   *ratelimit.TokenLimiter
	clock          *market.Clock
	seed           int64
}

// NewSimulatedMarketDataRepository creates the simulated price feed.
func NewSimulatedMarketDataRepository(cfg *config.Config, log *logger.Logger) (MarketDataRepository, error) {
	maxPerMinute := cfg.MarketData.MaxRequestPerMinute
	if maxPerMinute <= 0 {
		maxPerMinute = 120
	}
	secondsPerRequest := time.Minute / time.Duration(maxPerMinute)

	cacheTTL := cfg.MarketData.QuoteCacheTTL
	if cacheTTL <= 0 {
		cacheTTL = 15 * time.Second
	}

	seed := cfg.MarketData.Seed
	if seed == 0 {
		seed = 42
	}

	return &simulatedMarketDataRepository{
		cfg:            cfg,
		logger:         log,
		inmemoryCache:  cache.New(cacheTTL, 2*cacheTTL),
		requestLimiter: rate.NewLimiter(rate.Every(secondsPerRequest), 1),
		tokenLimiter:   ratelimit.NewTokenLimiter(maxPerMinute),
		clock:          market.NewClock(),
		seed:           seed,
	}, nil
}

func (r *simulatedMarketDataRepository) GetQuote(ctx context.Context, ticker string) (*dto.Quote, error) {
	key := fmt.Sprintf(quoteCacheKeyFormat, ticker)
	if cached, found := r.inmemoryCache.Get(key); found {
		quote := cached.(dto.Quote)
		return &quote, nil
	}

	if err := r.requestLimiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("failed to wait for request limit: %w", err)
	}
	if err := r.tokenLimiter.Wait(ctx, 1); err != nil {
		return nil, fmt.Errorf("failed to wait for quote budget: %w", err)
	}

	now := utils.TimeNowUTC()
	quote := dto.Quote{
		Ticker:    ticker,
		Price:     r.priceAt(ticker, now),
		Timestamp: now,
	}
	r.inmemoryCache.Set(key, quote, cache.DefaultExpiration)

	r.logger.DebugContext(ctx, "Serving simulated quote",
		logger.StringField("ticker", ticker),
		logger.Float64Field("price", quote.Price))

	return &quote, nil
}

func (r *simulatedMarketDataRepository) GetHistoricalPrices(ctx context.Context, ticker string, minutes int) ([]dto.Quote, error) {
	if minutes <= 0 {
		return nil, nil
	}

	if err := r.requestLimiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("failed to wait for request limit: %w", err)
	}
	if err := r.tokenLimiter.Wait(ctx, 2); err != nil {
		return nil, fmt.Errorf("failed to wait for quote budget: %w", err)
	}

	now := utils.TimeNowUTC()
	series := make([]dto.Quote, 0, minutes+1)
	for i := minutes; i >= 0; i-- {
		at := now.Add(-time.Duration(i) * time.Minute)
		series = append(series, dto.Quote{
			Ticker:    ticker,
			Price:     r.priceAt(ticker, at),
			Timestamp: at,
		})
	}
	return series, nil
}

func (r *simulatedMarketDataRepository) GetMarketStatus(ctx context.Context, exchange string) (*dto.MarketStatus, error) {
	now := utils.TimeNowUTC()
	status := r.clock.Status(now)

	result := &dto.MarketStatus{
		Exchange: exchange,
		IsOpen:   status.Open,
	}
	if status.Open {
		result.Message = fmt.Sprintf("%s is open, closes %s", exchange, status.NextClose.Format(time.RFC3339))
	} else {
		result.NextOpen = utils.ToPointer(status.NextOpen)
		result.Message = fmt.Sprintf("%s is closed, next open %s", exchange, status.NextOpen.Format(time.RFC3339))
	}
	return result, nil
}

// priceAt layers a slow daily drift and minute-level noise on the ticker's
// base price. Both components hash from (seed, ticker, bucket), which keeps
// the series stable across calls and restarts.
func (r *simulatedMarketDataRepository) priceAt(ticker string, at time.Time) float64 {
	base, ok := basePrices[ticker]
	if !ok {
		base = 20 + float64(tickerHash(ticker)%48000)/100
	}

	day := at.Unix() / 86400
	minute := at.Unix() / 60

	daily := r.noise(ticker, day) * dailyAmplitude
	intraday := r.noise(ticker, minute) * minuteAmplitude

	price := base * (1 + daily + intraday)
	return float64(int(price*100)) / 100
}

func (r *simulatedMarketDataRepository) noise(ticker string, bucket int64) float64 {
	src := rand.NewSource(r.seed ^ int64(tickerHash(ticker)) ^ bucket)
	return rand.New(src).Float64()*2 - 1
}

func tickerHash(ticker string) uint32 {
	h := fnv.New32a()
	_, _ = h.Write([]byte(ticker))
	return h.Sum32()
}
