package entity

import (
	"time"

	"gorm.io/datatypes"
)

// Sell order lifecycle states. pending and confirmed are the open states;
// everything else is terminal.
const (
	OrderStatusPending   = "pending"
	OrderStatusConfirmed = "confirmed"
	OrderStatusCancelled = "cancelled"
	OrderStatusExecuted  = "executed"
	OrderStatusFailed    = "failed"
	OrderStatusExpired   = "expired"
)

// OpenOrderStatuses are the states in which an order blocks creation of a
// new one for the same (user, ticker).
var OpenOrderStatuses = []string{OrderStatusPending, OrderStatusConfirmed}

// PendingSellOrder is a stop-loss sell awaiting its outcome. Rows are never
// deleted; terminal states keep the full history queryable.
type PendingSellOrder struct {
	ID                   string         `gorm:"primaryKey" json:"id"`
	UserID               uint           `gorm:"not null;index" json:"user_id"`
	Ticker               string         `gorm:"not null" json:"ticker"`
	Exchange             string         `json:"exchange"`
	Quantity             float64        `gorm:"not null" json:"quantity"`
	TriggerPrice         float64        `gorm:"not null" json:"trigger_price"`
	StopLossPrice        float64        `gorm:"not null" json:"stop_loss_price"`
	PercentChange        float64        `json:"percent_change"`
	MarketValue          float64        `json:"market_value"`
	PortfolioPercent     float64        `json:"portfolio_percent"`
	RequiresConfirmation bool           `gorm:"not null" json:"requires_confirmation"`
	Status               string         `gorm:"not null;default:pending" json:"status"`
	Reason               string         `json:"reason"`
	EmailSent            bool           `json:"email_sent"`
	InAppSent            bool           `json:"in_app_sent"`
	TradeID              *string        `json:"trade_id,omitempty"`
	ExecutedPrice        *float64       `json:"executed_price,omitempty"`
	ExecutedQuantity     *float64       `json:"executed_quantity,omitempty"`
	Slippage             *float64       `json:"slippage,omitempty"`
	PartialFill          bool           `json:"partial_fill"`
	PreSellState         datatypes.JSON `gorm:"type:jsonb" json:"pre_sell_state,omitempty"`
	CreatedAt            time.Time      `gorm:"autoCreateTime" json:"created_at"`
	ExpiresAt            *time.Time     `json:"expires_at,omitempty"`
	ConfirmedAt          *time.Time     `json:"confirmed_at,omitempty"`
	CancelledAt          *time.Time     `json:"cancelled_at,omitempty"`
	ExecutedAt           *time.Time     `json:"executed_at,omitempty"`
}

func (PendingSellOrder) TableName() string {
	return "pending_sell_orders"
}

// IsOpen reports whether the order still blocks new orders for its ticker.
func (o *PendingSellOrder) IsOpen() bool {
	return o.Status == OrderStatusPending || o.Status == OrderStatusConfirmed
}
