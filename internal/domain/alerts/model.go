package alerts

import (
	"time"

	"github.com/yanqian/agri-advisor/internal/domain/advisory"
)

// AlertType classifies weather alerts.
type AlertType string

const (
	AlertRain        AlertType = "rain"
	AlertDrought     AlertType = "drought"
	AlertStorm       AlertType = "storm"
	AlertTemperature AlertType = "temperature"
)

// Severity grades how urgently a farmer should act.
type Severity string

const (
	SeverityLow    Severity = "low"
	SeverityMedium Severity = "medium"
	SeverityHigh   Severity = "high"
)

// WeatherAlert is an agricultural weather warning for a location.
type WeatherAlert struct {
	Location   advisory.Location `json:"location"`
	AlertType  AlertType         `json:"alertType"`
	Severity   Severity          `json:"severity"`
	Message    string            `json:"message"`
	ValidUntil time.Time         `json:"validUntil"`
}

// MarketPriceAlert reports a price movement at a market.
type MarketPriceAlert struct {
	CropName      string    `json:"cropName"`
	CurrentPrice  float64   `json:"currentPrice"`
	PreviousPrice float64   `json:"previousPrice"`
	ChangePercent float64   `json:"changePercent"`
	Market        string    `json:"market"`
	LastUpdated   time.Time `json:"lastUpdated"`
}
