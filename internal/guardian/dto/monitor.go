package dto

import (
	"time"

	"golang-portfolio-guardian/internal/entity"
)

// SellTriggerParams carries an actionable stop-loss breach into order
// creation: the breach itself plus the portfolio context the confirmation
// policy already computed.
type SellTriggerParams struct {
	Holding             *entity.Holding
	Config              *entity.StopLossConfig
	Profile             *entity.RiskProfile
	CurrentPrice        float64
	EffectiveStopPrice  float64
	PercentChange       float64
	MarketValue         float64
	PortfolioPercent    float64
	TotalPortfolioValue float64
	// PortfolioHoldings is the full set of the user's holdings at trigger
	// time, snapshotted onto the order as pre-sell state.
	PortfolioHoldings []entity.Holding
}

// MonitoringStatusResponse describes a user's scan session.
type MonitoringStatusResponse struct {
	UserID          uint       `json:"user_id"`
	Active          bool       `json:"active"`
	IntervalSeconds int        `json:"interval_seconds,omitempty"`
	StartedAt       *time.Time `json:"started_at,omitempty"`
	LastScanAt      *time.Time `json:"last_scan_at,omitempty"`
}
