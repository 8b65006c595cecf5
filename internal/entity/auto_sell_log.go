package entity

import (
	"time"

	"gorm.io/datatypes"
)

// Audit actions, one per order lifecycle transition.
const (
	AuditActionTriggered = "triggered"
	AuditActionConfirmed = "confirmed"
	AuditActionCancelled = "cancelled"
	AuditActionExecuted  = "executed"
	AuditActionFailed    = "failed"
	AuditActionExpired   = "expired"
)

// AutoSellLog is one append-only audit entry. Details carries the
// transition specifics (prices, trade id, reason) as JSONB.
type AutoSellLog struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	OrderID   string         `gorm:"not null;index" json:"order_id"`
	UserID    uint           `gorm:"not null;index" json:"user_id"`
	Ticker    string         `gorm:"not null" json:"ticker"`
	Action    string         `gorm:"not null" json:"action"`
	Actor     string         `gorm:"not null" json:"actor"`
	Details   datatypes.JSON `gorm:"type:jsonb" json:"details,omitempty"`
	CreatedAt time.Time      `gorm:"autoCreateTime" json:"created_at"`
}

func (AutoSellLog) TableName() string {
	return "auto_sell_logs"
}
