package service

import (
	"context"
	"testing"

	"golang-portfolio-guardian/internal/entity"
	"golang-portfolio-guardian/internal/guardian/dto"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func float64Ptr(v float64) *float64 { return &v }
func boolPtr(v bool) *bool          { return &v }
func intPtr(v int) *int             { return &v }
func stringPtr(v string) *string    { return &v }

func TestSetStopLoss_Price(t *testing.T) {
	repo := &fakeStopLossConfigRepo{}
	svc := NewStopLossService(repo, newTestLogger())

	cfg, err := svc.SetStopLoss(context.Background(), 7, " aapl ", &dto.UpsertStopLossRequest{StopLossPrice: float64Ptr(150)})

	require.NoError(t, err)
	assert.Equal(t, "AAPL", cfg.Ticker)
	assert.Equal(t, 150.0, *cfg.StopLossPrice)
	assert.Nil(t, cfg.StopLossPercent)
	assert.True(t, cfg.IsActive)
	require.Len(t, repo.upserted, 1)
}

func TestSetStopLoss_PercentDisabled(t *testing.T) {
	repo := &fakeStopLossConfigRepo{}
	svc := NewStopLossService(repo, newTestLogger())

	cfg, err := svc.SetStopLoss(context.Background(), 7, "MSFT", &dto.UpsertStopLossRequest{
		StopLossPercent: float64Ptr(8),
		IsActive:        boolPtr(false),
	})

	require.NoError(t, err)
	assert.Equal(t, 8.0, *cfg.StopLossPercent)
	assert.False(t, cfg.IsActive)
}

func TestSetStopLoss_Validation(t *testing.T) {
	tests := []struct {
		name      string
		ticker    string
		req       *dto.UpsertStopLossRequest
		wantField string
	}{
		{name: "blank ticker", ticker: "  ", req: &dto.UpsertStopLossRequest{StopLossPrice: float64Ptr(10)}, wantField: "ticker"},
		{name: "neither price nor percent", ticker: "AAPL", req: &dto.UpsertStopLossRequest{}, wantField: "stop_loss_price"},
		{name: "both price and percent", ticker: "AAPL", req: &dto.UpsertStopLossRequest{StopLossPrice: float64Ptr(10), StopLossPercent: float64Ptr(5)}, wantField: "stop_loss_price"},
		{name: "zero price", ticker: "AAPL", req: &dto.UpsertStopLossRequest{StopLossPrice: float64Ptr(0)}, wantField: "stop_loss_price"},
		{name: "negative price", ticker: "AAPL", req: &dto.UpsertStopLossRequest{StopLossPrice: float64Ptr(-5)}, wantField: "stop_loss_price"},
		{name: "zero percent", ticker: "AAPL", req: &dto.UpsertStopLossRequest{StopLossPercent: float64Ptr(0)}, wantField: "stop_loss_percent"},
		{name: "percent of one hundred", ticker: "AAPL", req: &dto.UpsertStopLossRequest{StopLossPercent: float64Ptr(100)}, wantField: "stop_loss_percent"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &fakeStopLossConfigRepo{}
			svc := NewStopLossService(repo, newTestLogger())

			_, err := svc.SetStopLoss(context.Background(), 7, tt.ticker, tt.req)

			var valErr *entity.ValidationError
			require.ErrorAs(t, err, &valErr)
			assert.Equal(t, tt.wantField, valErr.Field)
			assert.Empty(t, repo.upserted)
		})
	}
}

func TestSetStopLoss_ReplacesExisting(t *testing.T) {
	repo := &fakeStopLossConfigRepo{}
	svc := NewStopLossService(repo, newTestLogger())

	_, err := svc.SetStopLoss(context.Background(), 7, "AAPL", &dto.UpsertStopLossRequest{StopLossPrice: float64Ptr(150)})
	require.NoError(t, err)
	_, err = svc.SetStopLoss(context.Background(), 7, "aapl", &dto.UpsertStopLossRequest{StopLossPercent: float64Ptr(5)})
	require.NoError(t, err)

	configs, err := svc.GetStopLossConfigs(context.Background(), 7)
	require.NoError(t, err)
	require.Len(t, configs, 1)
	assert.Nil(t, configs[0].StopLossPrice)
	assert.Equal(t, 5.0, *configs[0].StopLossPercent)
}

func TestRemoveStopLoss(t *testing.T) {
	repo := &fakeStopLossConfigRepo{}
	svc := NewStopLossService(repo, newTestLogger())

	_, err := svc.SetStopLoss(context.Background(), 7, "AAPL", &dto.UpsertStopLossRequest{StopLossPrice: float64Ptr(150)})
	require.NoError(t, err)

	require.NoError(t, svc.RemoveStopLoss(context.Background(), 7, "aapl"))

	configs, err := svc.GetStopLossConfigs(context.Background(), 7)
	require.NoError(t, err)
	assert.Empty(t, configs)
}

func TestRemoveStopLoss_NotFound(t *testing.T) {
	svc := NewStopLossService(&fakeStopLossConfigRepo{}, newTestLogger())

	err := svc.RemoveStopLoss(context.Background(), 7, "AAPL")

	assert.ErrorIs(t, err, entity.ErrConfigNotFound)
}
