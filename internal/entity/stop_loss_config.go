package entity

import "time"

// StopLossConfig holds an automatic sell threshold for one holding. Exactly
// one of StopLossPrice and StopLossPercent is set.
type StopLossConfig struct {
	ID              uint      `gorm:"primaryKey" json:"id"`
	UserID          uint      `gorm:"not null;uniqueIndex:idx_stop_loss_user_ticker" json:"user_id"`
	Ticker          string    `gorm:"not null;uniqueIndex:idx_stop_loss_user_ticker" json:"ticker"`
	StopLossPrice   *float64  `json:"stop_loss_price,omitempty"`
	StopLossPercent *float64  `json:"stop_loss_percent,omitempty"`
	IsActive        bool      `gorm:"not null;default:true" json:"is_active"`
	CreatedAt       time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt       time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (StopLossConfig) TableName() string {
	return "stop_loss_configs"
}

// EffectiveStopPrice resolves the trigger threshold. An absolute price wins;
// a percent is taken off the purchase price.
func (c *StopLossConfig) EffectiveStopPrice(purchasePrice float64) float64 {
	if c.StopLossPrice != nil {
		return *c.StopLossPrice
	}
	if c.StopLossPercent != nil {
		return purchasePrice * (1 - *c.StopLossPercent/100)
	}
	return 0
}
