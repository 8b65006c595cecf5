package entity

import "time"

// MonitoringSession records that a user's holdings are under periodic scan.
// Sessions survive restarts: active rows are resumed on boot.
type MonitoringSession struct {
	ID              uint       `gorm:"primaryKey" json:"id"`
	UserID          uint       `gorm:"not null;uniqueIndex" json:"user_id"`
	IsActive        bool       `gorm:"not null;default:true" json:"is_active"`
	IntervalSeconds int        `gorm:"not null" json:"interval_seconds"`
	StartedAt       time.Time  `gorm:"not null" json:"started_at"`
	StoppedAt       *time.Time `json:"stopped_at,omitempty"`
	LastScanAt      *time.Time `json:"last_scan_at,omitempty"`
	CreatedAt       time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt       time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
}

func (MonitoringSession) TableName() string {
	return "monitoring_sessions"
}
