package calendarxlsx

import (
	"context"
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/yanqian/agri-advisor/internal/domain/calendar"
)

// SheetName is the worksheet holding the calendar.
const SheetName = "Calendar"

// headerRow is where the column headers live; data starts right below.
const headerRow = 4

// Renderer writes crop calendars as XLSX workbooks.
type Renderer struct{}

// NewRenderer constructs the renderer.
func NewRenderer() *Renderer {
	return &Renderer{}
}

// Render lays out the title block, the header row and one row per calendar entry.
func (r *Renderer) Render(ctx context.Context, sheet calendar.Sheet) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		return nil, fmt.Errorf("rename sheet: %w", err)
	}

	titleStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true, Size: 14}})
	if err != nil {
		return nil, fmt.Errorf("title style: %w", err)
	}
	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#DDEBD4"}, Pattern: 1},
	})
	if err != nil {
		return nil, fmt.Errorf("header style: %w", err)
	}
	wrapStyle, err := f.NewStyle(&excelize.Style{Alignment: &excelize.Alignment{WrapText: true, Vertical: "top"}})
	if err != nil {
		return nil, fmt.Errorf("wrap style: %w", err)
	}

	_ = f.SetCellValue(SheetName, "A1", sheet.Title)
	_ = f.SetCellStyle(SheetName, "A1", "A1", titleStyle)
	_ = f.SetCellValue(SheetName, "A2", sheet.Subtitle)
	_ = f.SetCellValue(SheetName, "C2", "Generated "+sheet.GeneratedAt.Format("2006-01-02"))

	headers := []string{"Period", "Operation", "Details", "Done"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, headerRow)
		_ = f.SetCellValue(SheetName, cell, h)
	}
	first, _ := excelize.CoordinatesToCellName(1, headerRow)
	last, _ := excelize.CoordinatesToCellName(len(headers), headerRow)
	_ = f.SetCellStyle(SheetName, first, last, headerStyle)

	for i, entry := range sheet.Rows {
		row := headerRow + 1 + i
		write := func(col int, v any) {
			cell, _ := excelize.CoordinatesToCellName(col, row)
			_ = f.SetCellValue(SheetName, cell, v)
		}
		write(1, entry.Period)
		write(2, entry.Operation)
		write(3, entry.Details)
		write(4, "")
	}
	if len(sheet.Rows) > 0 {
		top, _ := excelize.CoordinatesToCellName(3, headerRow+1)
		bottom, _ := excelize.CoordinatesToCellName(3, headerRow+len(sheet.Rows))
		_ = f.SetCellStyle(SheetName, top, bottom, wrapStyle)
	}

	_ = f.SetColWidth(SheetName, "A", "A", 14)
	_ = f.SetColWidth(SheetName, "B", "B", 26)
	_ = f.SetColWidth(SheetName, "C", "C", 60)
	_ = f.SetColWidth(SheetName, "D", "D", 8)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsx write: %w", err)
	}
	return buf.Bytes(), nil
}

var _ calendar.Renderer = (*Renderer)(nil)
