package alerts

import (
	"context"
	"log/slog"
	"math"
	"strings"
	"time"

	"github.com/yanqian/agri-advisor/internal/domain/advisory"
	apperrors "github.com/yanqian/agri-advisor/pkg/errors"
)

// Service serves weather and market alerts.
// Data is canned until an upstream feed is integrated.
type Service interface {
	Weather(ctx context.Context, location string) ([]WeatherAlert, error)
	Market(ctx context.Context, crop, location string) ([]MarketPriceAlert, error)
}

type service struct {
	logger *slog.Logger
	now    func() time.Time
}

// NewService constructs the alerts service.
func NewService(logger *slog.Logger) Service {
	return &service{
		logger: logger.With("component", "alerts.service"),
		now:    time.Now,
	}
}

var defaultCoordinates = advisory.Coordinates{Latitude: 20.5937, Longitude: 78.9629}

func (s *service) Weather(ctx context.Context, location string) ([]WeatherAlert, error) {
	location = strings.TrimSpace(location)
	if location == "" {
		return nil, apperrors.Wrap(apperrors.CodeInvalidInput, "Missing required parameter: location", nil)
	}
	now := s.now().UTC()
	coords := defaultCoordinates
	loc := advisory.Location{
		Village:     location,
		State:       "Sample State",
		District:    "Sample District",
		Coordinates: &coords,
	}
	alerts := []WeatherAlert{
		{
			Location:   loc,
			AlertType:  AlertRain,
			Severity:   SeverityMedium,
			Message:    "Heavy rainfall expected in next 24 hours. Avoid irrigation and protect crops.",
			ValidUntil: now.Add(24 * time.Hour),
		},
		{
			Location:   loc,
			AlertType:  AlertTemperature,
			Severity:   SeverityHigh,
			Message:    "High temperature warning. Ensure adequate irrigation and shade for crops.",
			ValidUntil: now.Add(12 * time.Hour),
		},
	}
	s.logger.Info("weather alerts served", "location", location, "count", len(alerts))
	return alerts, nil
}

type marketQuote struct {
	crop     string
	current  float64
	previous float64
	market   string
}

var marketQuotes = []marketQuote{
	{crop: "Rice", current: 2500, previous: 2300, market: "Local Mandi"},
	{crop: "Wheat", current: 2200, previous: 2400, market: "Regional Market"},
	{crop: "Maize", current: 1800, previous: 1750, market: "State Market"},
}

func (s *service) Market(ctx context.Context, crop, location string) ([]MarketPriceAlert, error) {
	crop = strings.TrimSpace(crop)
	now := s.now().UTC()
	alerts := make([]MarketPriceAlert, 0, len(marketQuotes))
	for _, q := range marketQuotes {
		if crop != "" && !strings.EqualFold(q.crop, crop) {
			continue
		}
		alerts = append(alerts, MarketPriceAlert{
			CropName:      q.crop,
			CurrentPrice:  q.current,
			PreviousPrice: q.previous,
			ChangePercent: changePercent(q.previous, q.current),
			Market:        q.market,
			LastUpdated:   now,
		})
	}
	s.logger.Info("market alerts served", "crop", crop, "location", strings.TrimSpace(location), "count", len(alerts))
	return alerts, nil
}

// changePercent rounds the relative move to one decimal.
func changePercent(previous, current float64) float64 {
	if previous == 0 {
		return 0
	}
	return math.Round((current-previous)/previous*1000) / 10
}
