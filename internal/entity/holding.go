package entity

import "time"

type Holding struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	UserID        uint      `gorm:"not null;index" json:"user_id"`
	Ticker        string    `gorm:"not null" json:"ticker"`
	CompanyName   string    `json:"company_name"`
	Exchange      string    `gorm:"not null" json:"exchange"`
	Quantity      float64   `gorm:"not null" json:"quantity"`
	PurchasePrice float64   `gorm:"not null" json:"purchase_price"`
	CurrentPrice  float64   `json:"current_price"`
	CreatedAt     time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Holding) TableName() string {
	return "holdings"
}

// MarketValue is the position value at the last observed price. Derived,
// never stored.
func (h *Holding) MarketValue() float64 {
	return h.Quantity * h.CurrentPrice
}

// UnrealizedPL is the absolute gain or loss versus the purchase price.
func (h *Holding) UnrealizedPL() float64 {
	return (h.CurrentPrice - h.PurchasePrice) * h.Quantity
}

// UnrealizedPLPercent is the gain or loss relative to the purchase price.
func (h *Holding) UnrealizedPLPercent() float64 {
	if h.PurchasePrice == 0 {
		return 0
	}
	return (h.CurrentPrice - h.PurchasePrice) / h.PurchasePrice * 100
}
