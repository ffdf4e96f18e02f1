package annotations

import (
	"fmt"

	"github.com/xuri/excelize/v2"
)

const (
	tooLongSheet  = "Routing Too Long"
	notFoundSheet = "Routing Not Found"
)

// ExcelReport collects findings and writes them to an .xlsx workbook with
// one sheet per finding kind. Rows appear in the order they were reported,
// which for a completed analysis pass is the ranked order.
type ExcelReport struct {
	Collector
}

// NewExcelReport creates an empty Excel report sink
func NewExcelReport() *ExcelReport { return &ExcelReport{} }

// Save writes the collected findings to path
func (r *ExcelReport) Save(path string) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := writeTooLongSheet(f, r.TooLong); err != nil {
		return err
	}
	if err := writeNotFoundSheet(f, r.NotFound); err != nil {
		return err
	}
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return err
	}
	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save report: %w", err)
	}
	return nil
}

func writeTooLongSheet(f *excelize.File, rows []TooLongRecord) error {
	index, err := f.NewSheet(tooLongSheet)
	if err != nil {
		return err
	}
	sw, err := f.NewStreamWriter(tooLongSheet)
	if err != nil {
		return err
	}
	headers := []interface{}{"Origin", "Destination", "Direct (m)", "Street (m)", "Ratio"}
	if err := sw.SetRow("A1", headers); err != nil {
		return err
	}
	for i, r := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		row := []interface{}{r.OriginID, r.DestID, r.DirectM, r.StreetM, r.Ratio}
		if err := sw.SetRow(cell, row); err != nil {
			return err
		}
	}
	if err := sw.Flush(); err != nil {
		return err
	}
	f.SetActiveSheet(index)
	return nil
}

func writeNotFoundSheet(f *excelize.File, rows []NotFoundRecord) error {
	if _, err := f.NewSheet(notFoundSheet); err != nil {
		return err
	}
	sw, err := f.NewStreamWriter(notFoundSheet)
	if err != nil {
		return err
	}
	headers := []interface{}{"Origin", "Destination", "Direct (m)"}
	if err := sw.SetRow("A1", headers); err != nil {
		return err
	}
	for i, r := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		row := []interface{}{r.OriginID, r.DestID, r.DirectM}
		if err := sw.SetRow(cell, row); err != nil {
			return err
		}
	}
	return sw.Flush()
}
