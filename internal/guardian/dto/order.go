package dto

// OrderActionRequest identifies the user acting on an order.
type OrderActionRequest struct {
	UserID uint `json:"user_id"`
}

// UpsertStopLossRequest sets the stop-loss threshold for one holding.
// Exactly one of price and percent must be provided.
type UpsertStopLossRequest struct {
	StopLossPrice   *float64 `json:"stop_loss_price,omitempty"`
	StopLossPercent *float64 `json:"stop_loss_percent,omitempty"`
	IsActive        *bool    `json:"is_active,omitempty"`
}

// UpdateRiskProfileRequest carries a partial risk profile update. Nil
// fields keep their current value.
type UpdateRiskProfileRequest struct {
	RiskLevel                 *string   `json:"risk_level,omitempty"`
	MaxPortfolioLossPercent   *float64  `json:"max_portfolio_loss_percent,omitempty"`
	AutoSellEnabled           *bool     `json:"auto_sell_enabled,omitempty"`
	ConfirmationWindowMinutes *int      `json:"confirmation_window_minutes,omitempty"`
	SustainedDropMinutes      *int      `json:"sustained_drop_minutes,omitempty"`
	HighValueThresholdPercent *float64  `json:"high_value_threshold_percent,omitempty"`
	HighValueThresholdAmount  *float64  `json:"high_value_threshold_amount,omitempty"`
	Whitelist                 *[]string `json:"whitelist,omitempty"`
	Blacklist                 *[]string `json:"blacklist,omitempty"`
}

// HoldingSnapshot captures one position at order creation time.
type HoldingSnapshot struct {
	Ticker       string  `json:"ticker"`
	Quantity     float64 `json:"quantity"`
	CurrentPrice float64 `json:"current_price"`
	MarketValue  float64 `json:"market_value"`
}

// PreSellState is the portfolio snapshot stored on each sell order so the
// pre-trade situation stays reconstructable.
type PreSellState struct {
	TotalPortfolioValue float64           `json:"total_portfolio_value"`
	Holdings            []HoldingSnapshot `json:"holdings"`
}
