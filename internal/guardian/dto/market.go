package dto

import "time"

// Quote is one observed price for a ticker.
type Quote struct {
	Ticker    string    `json:"ticker"`
	Price     float64   `json:"price"`
	Timestamp time.Time `json:"timestamp"`
}

// MarketStatus reports whether an exchange is currently trading.
type MarketStatus struct {
	Exchange string     `json:"exchange"`
	IsOpen   bool       `json:"is_open"`
	NextOpen *time.Time `json:"next_open,omitempty"`
	Message  string     `json:"message,omitempty"`
}

// TradeExecution is the brokerage's answer to a market sell submission.
type TradeExecution struct {
	Success          bool    `json:"success"`
	TradeID          string  `json:"trade_id,omitempty"`
	ExecutedPrice    float64 `json:"executed_price,omitempty"`
	ExecutedQuantity float64 `json:"executed_quantity,omitempty"`
	PartialFill      bool    `json:"partial_fill,omitempty"`
	Slippage         float64 `json:"slippage,omitempty"`
	Error            string  `json:"error,omitempty"`
	Retryable        bool    `json:"retryable,omitempty"`
}
