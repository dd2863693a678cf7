package calendar

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/yanqian/agri-advisor/internal/domain/advisory"
	apperrors "github.com/yanqian/agri-advisor/pkg/errors"
	"github.com/yanqian/agri-advisor/pkg/logger"
)

func TestExport(t *testing.T) {
	renderer := &stubRenderer{out: []byte("xlsx")}
	svc := newTestService(renderer)
	rows := []advisory.CalendarEntry{{Period: "Week 1", Operation: "Land preparation", Details: "Plow"}}

	file, err := svc.Export(context.Background(), Request{Calendar: rows, FarmerName: "Asha", CropName: "Basmati Rice"})
	require.NoError(t, err)
	require.Equal(t, "crop-calendar-basmati-rice.xlsx", file.Name)
	require.Equal(t, ContentTypeXLSX, file.ContentType)
	require.Equal(t, []byte("xlsx"), file.Data)

	require.Equal(t, "Crop Calendar - Basmati Rice", renderer.sheet.Title)
	require.Equal(t, "Prepared for Asha", renderer.sheet.Subtitle)
	require.Equal(t, rows, renderer.sheet.Rows)
	require.Equal(t, testNow(), renderer.sheet.GeneratedAt)
}

func TestExportErrors(t *testing.T) {
	svc := newTestService(&stubRenderer{})
	_, err := svc.Export(context.Background(), Request{})
	require.True(t, apperrors.IsCode(err, apperrors.CodeInvalidInput))

	svc = newTestService(&stubRenderer{err: errors.New("disk full")})
	_, err = svc.Export(context.Background(), Request{Calendar: []advisory.CalendarEntry{{Period: "Week 1"}}})
	require.True(t, apperrors.IsCode(err, apperrors.CodeExport))
}

func TestFileName(t *testing.T) {
	require.Equal(t, "crop-calendar.xlsx", fileName(""))
	require.Equal(t, "crop-calendar.xlsx", fileName("धान"))
	require.Equal(t, "crop-calendar-wheat.xlsx", fileName("Wheat"))
}

func newTestService(renderer Renderer) *service {
	return &service{
		renderer: renderer,
		logger:   logger.Discard(),
		now:      testNow,
	}
}

func testNow() time.Time {
	return time.Date(2024, 6, 1, 6, 0, 0, 0, time.UTC)
}

type stubRenderer struct {
	sheet Sheet
	out   []byte
	err   error
}

func (r *stubRenderer) Render(_ context.Context, sheet Sheet) ([]byte, error) {
	r.sheet = sheet
	return r.out, r.err
}
