package alerts

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	apperrors "github.com/yanqian/agri-advisor/pkg/errors"
	"github.com/yanqian/agri-advisor/pkg/logger"
)

func TestWeatherRequiresLocation(t *testing.T) {
	svc := newTestService()
	_, err := svc.Weather(context.Background(), "  ")
	require.True(t, apperrors.IsCode(err, apperrors.CodeInvalidInput))
}

func TestWeatherAlerts(t *testing.T) {
	svc := newTestService()
	alerts, err := svc.Weather(context.Background(), "Khed")
	require.NoError(t, err)
	require.Len(t, alerts, 2)

	require.Equal(t, AlertRain, alerts[0].AlertType)
	require.Equal(t, SeverityMedium, alerts[0].Severity)
	require.Equal(t, "Khed", alerts[0].Location.Village)
	require.Equal(t, 20.5937, alerts[0].Location.Coordinates.Latitude)
	require.Equal(t, testNow().Add(24*time.Hour), alerts[0].ValidUntil)

	require.Equal(t, AlertTemperature, alerts[1].AlertType)
	require.Equal(t, SeverityHigh, alerts[1].Severity)
	require.Equal(t, testNow().Add(12*time.Hour), alerts[1].ValidUntil)
}

func TestMarketAlerts(t *testing.T) {
	svc := newTestService()

	all, err := svc.Market(context.Background(), "", "")
	require.NoError(t, err)
	require.Len(t, all, 3)
	require.Equal(t, 8.7, all[0].ChangePercent)
	require.Equal(t, -8.3, all[1].ChangePercent)
	require.Equal(t, 2.9, all[2].ChangePercent)
	require.Equal(t, "Local Mandi", all[0].Market)
	require.Equal(t, testNow(), all[0].LastUpdated)

	wheat, err := svc.Market(context.Background(), "wheat", "Pune")
	require.NoError(t, err)
	require.Len(t, wheat, 1)
	require.Equal(t, "Wheat", wheat[0].CropName)

	none, err := svc.Market(context.Background(), "cotton", "")
	require.NoError(t, err)
	require.Empty(t, none)
	require.NotNil(t, none)
}

func newTestService() *service {
	return &service{
		logger: logger.Discard(),
		now:    testNow,
	}
}

func testNow() time.Time {
	return time.Date(2024, 6, 1, 6, 0, 0, 0, time.UTC)
}
