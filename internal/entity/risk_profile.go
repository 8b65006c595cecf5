package entity

import (
	"encoding/json"
	"strings"
	"time"

	"gorm.io/datatypes"
)

const (
	RiskLevelConservative = "conservative"
	RiskLevelModerate     = "moderate"
	RiskLevelAggressive   = "aggressive"
)

// RiskProfile controls how aggressively the guardian may act for a user.
// Whitelist and Blacklist are JSONB string arrays of tickers.
type RiskProfile struct {
	ID                        uint           `gorm:"primaryKey" json:"id"`
	UserID                    uint           `gorm:"not null;uniqueIndex" json:"user_id"`
	RiskLevel                 string         `gorm:"not null;default:moderate" json:"risk_level"`
	MaxPortfolioLossPercent   float64        `gorm:"not null;default:10" json:"max_portfolio_loss_percent"`
	AutoSellEnabled           bool           `gorm:"not null;default:false" json:"auto_sell_enabled"`
	ConfirmationWindowMinutes int            `gorm:"not null;default:5" json:"confirmation_window_minutes"`
	SustainedDropMinutes      int            `gorm:"not null;default:0" json:"sustained_drop_minutes"`
	HighValueThresholdPercent float64        `gorm:"not null;default:10" json:"high_value_threshold_percent"`
	HighValueThresholdAmount  float64        `gorm:"not null;default:5000" json:"high_value_threshold_amount"`
	Whitelist                 datatypes.JSON `gorm:"type:jsonb" json:"whitelist,omitempty"`
	Blacklist                 datatypes.JSON `gorm:"type:jsonb" json:"blacklist,omitempty"`
	CreatedAt                 time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt                 time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
}

func (RiskProfile) TableName() string {
	return "risk_profiles"
}

// DefaultRiskProfile is the conservative stance applied to users who never
// configured one: monitoring works, but nothing sells automatically.
func DefaultRiskProfile(userID uint) *RiskProfile {
	return &RiskProfile{
		UserID:                    userID,
		RiskLevel:                 RiskLevelModerate,
		MaxPortfolioLossPercent:   10,
		AutoSellEnabled:           false,
		ConfirmationWindowMinutes: 5,
		SustainedDropMinutes:      0,
		HighValueThresholdPercent: 10,
		HighValueThresholdAmount:  5000,
	}
}

// WhitelistTickers decodes the whitelist. Malformed JSON reads as empty.
func (p *RiskProfile) WhitelistTickers() []string {
	return decodeTickerList(p.Whitelist)
}

// BlacklistTickers decodes the blacklist. Malformed JSON reads as empty.
func (p *RiskProfile) BlacklistTickers() []string {
	return decodeTickerList(p.Blacklist)
}

// InWhitelist reports whether ticker is whitelisted, ignoring case.
func (p *RiskProfile) InWhitelist(ticker string) bool {
	return containsTicker(p.WhitelistTickers(), ticker)
}

// InBlacklist reports whether ticker is blacklisted, ignoring case.
func (p *RiskProfile) InBlacklist(ticker string) bool {
	return containsTicker(p.BlacklistTickers(), ticker)
}

func decodeTickerList(raw datatypes.JSON) []string {
	if len(raw) == 0 {
		return nil
	}
	var tickers []string
	if err := json.Unmarshal(raw, &tickers); err != nil {
		return nil
	}
	return tickers
}

func containsTicker(tickers []string, target string) bool {
	for _, t := range tickers {
		if strings.EqualFold(t, target) {
			return true
		}
	}
	return false
}
