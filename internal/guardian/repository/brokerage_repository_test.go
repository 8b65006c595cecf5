package repository

import (
	"context"
	"strings"
	"testing"

	"golang-portfolio-guardian/internal/guardian/config"
	"golang-portfolio-guardian/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newBrokerageForTest(rejectionRate, partialFillRate float64, seed int64) BrokerageRepository {
	cfg := &config.Config{}
	cfg.Brokerage.RejectionRate = rejectionRate
	cfg.Brokerage.PartialFillRate = partialFillRate
	cfg.Brokerage.MaxSlippagePercent = 0.5
	cfg.Brokerage.Seed = seed
	return NewSimulatedBrokerageRepository(cfg, logger.NewNop())
}

func TestSubmitMarketSell_FullFill(t *testing.T) {
	repo := newBrokerageForTest(1e-9, 1e-9, 1)

	result, err := repo.SubmitMarketSell(context.Background(), "AAPL", 10, 100)

	require.NoError(t, err)
	require.True(t, result.Success)
	assert.True(t, strings.HasPrefix(result.TradeID, "sim-"))
	assert.Equal(t, 10.0, result.ExecutedQuantity)
	assert.False(t, result.PartialFill)

	// Slippage only ever pushes the fill below the reference price, bounded
	// by the configured maximum.
	assert.LessOrEqual(t, result.ExecutedPrice, 100.0)
	assert.GreaterOrEqual(t, result.ExecutedPrice, 100.0*(1-0.5/100)-0.01)
	assert.InDelta(t, 100.0-result.ExecutedPrice, result.Slippage, 0.011)
	assert.GreaterOrEqual(t, result.Slippage, 0.0)
}

func TestSubmitMarketSell_AlwaysRejected(t *testing.T) {
	repo := newBrokerageForTest(1, 0.1, 7)

	result, err := repo.SubmitMarketSell(context.Background(), "AAPL", 10, 100)

	require.NoError(t, err)
	assert.False(t, result.Success)
	assert.Contains(t, rejectionReasons, result.Error)
	assert.Empty(t, result.TradeID)
}

func TestSubmitMarketSell_PartialFill(t *testing.T) {
	repo := newBrokerageForTest(1e-9, 1, 1)

	result, err := repo.SubmitMarketSell(context.Background(), "AAPL", 10, 100)

	require.NoError(t, err)
	require.True(t, result.Success)
	assert.True(t, result.PartialFill)
	// Fill ratio sits in [0.80, 0.99).
	assert.Less(t, result.ExecutedQuantity, 10.0)
	assert.GreaterOrEqual(t, result.ExecutedQuantity, 8.0)
}

func TestSubmitMarketSell_InvalidInput(t *testing.T) {
	repo := newBrokerageForTest(1e-9, 1e-9, 1)

	for _, tc := range []struct {
		quantity float64
		refPrice float64
	}{
		{quantity: 0, refPrice: 100},
		{quantity: -1, refPrice: 100},
		{quantity: 10, refPrice: 0},
	} {
		result, err := repo.SubmitMarketSell(context.Background(), "AAPL", tc.quantity, tc.refPrice)
		require.NoError(t, err)
		assert.False(t, result.Success)
		assert.Equal(t, "invalid quantity or reference price", result.Error)
	}
}

func TestSubmitMarketSell_SeededDeterminism(t *testing.T) {
	first, err := newBrokerageForTest(0.5, 0.5, 123).SubmitMarketSell(context.Background(), "AAPL", 10, 100)
	require.NoError(t, err)
	second, err := newBrokerageForTest(0.5, 0.5, 123).SubmitMarketSell(context.Background(), "AAPL", 10, 100)
	require.NoError(t, err)

	assert.Equal(t, first.Success, second.Success)
	assert.Equal(t, first.ExecutedPrice, second.ExecutedPrice)
	assert.Equal(t, first.ExecutedQuantity, second.ExecutedQuantity)
	assert.Equal(t, first.PartialFill, second.PartialFill)
}
