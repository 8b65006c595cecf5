package repository

import (
	"context"
	"math"
	"math/rand"
	"sync"
	"time"

	"golang-portfolio-guardian/internal/guardian/config"
	"golang-portfolio-guardian/internal/guardian/dto"
	"golang-portfolio-guardian/pkg/logger"

	"github.com/google/uuid"
)

// BrokerageRepository is the trade execution port. Business rejections come
// back inside the TradeExecution; an error return means the submission
// itself could not happen.
type BrokerageRepository interface {
	SubmitMarketSell(ctx context.Context, ticker string, quantity, refPrice float64) (*dto.TradeExecution, error)
}

var rejectionReasons = []string{
	"insufficient liquidity at venue",
	"order rejected by venue",
	"brokerage internal error",
}

// simulatedBrokerageRepository fills market sells around the reference
// price with downward slippage, occasional partial fills and rare
// rejections. The rng is seedable so tests get reproducible fills.
type simulatedBrokerageRepository struct {
	cfg    *config.Config
	logger *logger.Logger
	mu     sync.Mutex
	rng    *rand.Rand
}

// NewSimulatedBrokerageRepository creates the simulated execution venue.
func NewSimulatedBrokerageRepository(cfg *config.Config, log *logger.Logger) BrokerageRepository {
	seed := cfg.Brokerage.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &simulatedBrokerageRepository{
		cfg:    cfg,
		logger: log,
		rng:    rand.New(rand.NewSource(seed)),
	}
}

func (r *simulatedBrokerageRepository) SubmitMarketSell(ctx context.Context, ticker string, quantity, refPrice float64) (*dto.TradeExecution, error) {
	if quantity <= 0 || refPrice <= 0 {
		return &dto.TradeExecution{
			Success: false,
			Error:   "invalid quantity or reference price",
		}, nil
	}

	rejectionRate := r.cfg.Brokerage.RejectionRate
	if rejectionRate <= 0 {
		rejectionRate = 0.02
	}
	partialFillRate := r.cfg.Brokerage.PartialFillRate
	if partialFillRate <= 0 {
		partialFillRate = 0.10
	}
	maxSlippage := r.cfg.Brokerage.MaxSlippagePercent
	if maxSlippage <= 0 {
		maxSlippage = 0.5
	}

	r.mu.Lock()
	reject := r.rng.Float64() < rejectionRate
	reason := rejectionReasons[r.rng.Intn(len(rejectionReasons))]
	slippagePercent := r.rng.Float64() * maxSlippage
	partial := r.rng.Float64() < partialFillRate
	fillRatio := 0.80 + r.rng.Float64()*0.19
	r.mu.Unlock()

	if reject {
		r.logger.DebugContext(ctx, "Simulated brokerage rejected sell",
			logger.StringField("ticker", ticker),
			logger.StringField("reason", reason))
		return &dto.TradeExecution{
			Success: false,
			Error:   reason,
		}, nil
	}

	executedQuantity := quantity
	if partial {
		executedQuantity = roundQuantity(quantity * fillRatio)
	}
	executedPrice := roundPrice(refPrice * (1 - slippagePercent/100))

	execution := &dto.TradeExecution{
		Success:          true,
		TradeID:          "sim-" + uuid.NewString(),
		ExecutedPrice:    executedPrice,
		ExecutedQuantity: executedQuantity,
		PartialFill:      partial,
		Slippage:         roundPrice(refPrice - executedPrice),
	}

	r.logger.DebugContext(ctx, "Simulated brokerage filled sell",
		logger.StringField("ticker", ticker),
		logger.StringField("trade_id", execution.TradeID),
		logger.Float64Field("executed_price", execution.ExecutedPrice),
		logger.Float64Field("executed_quantity", execution.ExecutedQuantity),
		logger.BoolField("partial_fill", execution.PartialFill))

	return execution, nil
}

func roundPrice(v float64) float64 {
	return math.Round(v*100) / 100
}

func roundQuantity(v float64) float64 {
	return math.Round(v*10000) / 10000
}
