package calendar

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/yanqian/agri-advisor/internal/domain/advisory"
	apperrors "github.com/yanqian/agri-advisor/pkg/errors"
)

// ContentTypeXLSX is the media type of exported workbooks.
const ContentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// Request carries the calendar to print.
type Request struct {
	Calendar   []advisory.CalendarEntry `json:"cropCalendar"`
	FarmerName string                   `json:"farmerName,omitempty"`
	CropName   string                   `json:"cropName,omitempty"`
}

// Sheet is the printable layout handed to a Renderer.
type Sheet struct {
	Title       string
	Subtitle    string
	GeneratedAt time.Time
	Rows        []advisory.CalendarEntry
}

// File is a rendered export.
type File struct {
	Name        string
	ContentType string
	Data        []byte
}

// Renderer turns a sheet into a workbook.
type Renderer interface {
	Render(ctx context.Context, sheet Sheet) ([]byte, error)
}

// Service exports crop calendars.
type Service interface {
	Export(ctx context.Context, req Request) (File, error)
}

type service struct {
	renderer Renderer
	logger   *slog.Logger
	now      func() time.Time
}

// NewService constructs the calendar export service.
func NewService(renderer Renderer, logger *slog.Logger) Service {
	return &service{
		renderer: renderer,
		logger:   logger.With("component", "calendar.service"),
		now:      time.Now,
	}
}

func (s *service) Export(ctx context.Context, req Request) (File, error) {
	if len(req.Calendar) == 0 {
		return File{}, apperrors.Wrap(apperrors.CodeInvalidInput, "cropCalendar cannot be empty", nil)
	}
	crop := strings.TrimSpace(req.CropName)
	title := "Crop Calendar"
	if crop != "" {
		title += " - " + crop
	}
	subtitle := ""
	if name := strings.TrimSpace(req.FarmerName); name != "" {
		subtitle = "Prepared for " + name
	}

	data, err := s.renderer.Render(ctx, Sheet{
		Title:       title,
		Subtitle:    subtitle,
		GeneratedAt: s.now().UTC(),
		Rows:        req.Calendar,
	})
	if err != nil {
		return File{}, apperrors.Wrap(apperrors.CodeExport, "failed to render crop calendar", err)
	}
	s.logger.Info("crop calendar exported", "rows", len(req.Calendar), "bytes", len(data))
	return File{
		Name:        fileName(crop),
		ContentType: ContentTypeXLSX,
		Data:        data,
	}, nil
}

func fileName(crop string) string {
	slug := strings.Trim(strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			return r
		case r >= 'A' && r <= 'Z':
			return r + ('a' - 'A')
		default:
			return '-'
		}
	}, crop), "-")
	if slug == "" {
		return "crop-calendar.xlsx"
	}
	return "crop-calendar-" + slug + ".xlsx"
}
