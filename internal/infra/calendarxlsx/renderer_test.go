package calendarxlsx

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/yanqian/agri-advisor/internal/domain/advisory"
	"github.com/yanqian/agri-advisor/internal/domain/calendar"
)

func TestRenderWritesCalendar(t *testing.T) {
	data, err := NewRenderer().Render(context.Background(), calendar.Sheet{
		Title:       "Crop Calendar - Rice",
		Subtitle:    "Prepared for Asha",
		GeneratedAt: time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC),
		Rows: []advisory.CalendarEntry{
			{Period: "Week 1", Operation: "Land preparation", Details: "Plow and level the field, remove weeds"},
			{Period: "Week 2", Operation: "Seedling preparation", Details: "Prepare nursery bed, sow seeds"},
		},
	})
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	title, err := f.GetCellValue(SheetName, "A1")
	require.NoError(t, err)
	require.Equal(t, "Crop Calendar - Rice", title)

	generated, err := f.GetCellValue(SheetName, "C2")
	require.NoError(t, err)
	require.Equal(t, "Generated 2024-06-01", generated)

	rows, err := f.GetRows(SheetName)
	require.NoError(t, err)
	require.GreaterOrEqual(t, len(rows), 6)
	require.Equal(t, []string{"Period", "Operation", "Details", "Done"}, rows[3])
	require.Equal(t, "Week 1", rows[4][0])
	require.Equal(t, "Land preparation", rows[4][1])
	require.Equal(t, "Prepare nursery bed, sow seeds", rows[5][2])
}

func TestRenderHonoursCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewRenderer().Render(ctx, calendar.Sheet{})
	require.ErrorIs(t, err, context.Canceled)
}
