package httpapi

import (
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"

	"stark-security/internal/domain"
)

// SensorExportHeader column layout of the sensor export workbook.
var SensorExportHeader = []string{
	"Sensor ID",
	"Type",
	"Location",
	"Active",
	"Created At",
	"Last Check",
}

// GenerateSensorsExport builds an xlsx workbook with one row per sensor.
func GenerateSensorsExport(sensors []*domain.Sensor) ([]byte, error) {
	f := excelize.NewFile()

	sheetName := "Sensors"
	index, err := f.NewSheet(sheetName)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to create sheet: %w", err)
	}
	f.DeleteSheet("Sheet1")
	f.SetActiveSheet(index)

	for col, header := range SensorExportHeader {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			f.Close()
			return nil, fmt.Errorf("failed to compute header cell: %w", err)
		}
		if err := f.SetCellValue(sheetName, cell, header); err != nil {
			f.Close()
			return nil, fmt.Errorf("failed to write header: %w", err)
		}
	}

	for row, sensor := range sensors {
		lastCheck := ""
		if sensor.LastCheck != nil {
			lastCheck = sensor.LastCheck.Format(time.RFC3339)
		}
		values := []any{
			sensor.SensorID,
			string(sensor.Type),
			sensor.Location,
			sensor.Active,
			sensor.CreatedAt.Format(time.RFC3339),
			lastCheck,
		}
		for col, v := range values {
			cell, err := excelize.CoordinatesToCellName(col+1, row+2)
			if err != nil {
				f.Close()
				return nil, fmt.Errorf("failed to compute cell: %w", err)
			}
			if err := f.SetCellValue(sheetName, cell, v); err != nil {
				f.Close()
				return nil, fmt.Errorf("failed to write cell: %w", err)
			}
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to serialize workbook: %w", err)
	}
	if err := f.Close(); err != nil {
		return nil, fmt.Errorf("failed to close workbook: %w", err)
	}

	return buf.Bytes(), nil
}
