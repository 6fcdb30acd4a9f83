package models

import "time"

// TechnicalIndicator is a daily indicator snapshot. Fields are opaque to this service.
type TechnicalIndicator struct {
	DateOnly       string  `json:"date_only"`
	SMA50          float64 `json:"sma_50"`
	RSI14          float64 `json:"rsi_14"`
	MACD           float64 `json:"macd"`
	MACDSignal     float64 `json:"macd_signal"`
	BollingerUpper float64 `json:"bollinger_upper"`
	BollingerLower float64 `json:"bollinger_lower"`
}

const (
	StatusHealthy      = "healthy"
	StatusUnhealthy    = "unhealthy"
	StatusConnected    = "connected"
	StatusDisconnected = "disconnected"
)

// HealthStatus reports backend and dependency reachability.
type HealthStatus struct {
	Status    string    `json:"status"`
	Database  string    `json:"database"`
	Redis     string    `json:"redis"`
	Timestamp time.Time `json:"timestamp"`
}
