package serviceImp

import (
	"context"
	"fmt"

	"github.com/xuri/excelize/v2"
)

const exportSheet = "Plan"

// ExportXLSX writes one row per plan entry under a Title/Watched header,
// in plan order.
func (s *PlanSvc) ExportXLSX(ctx context.Context, userID int64) ([]byte, error) {
	items, err := s.repo.List(ctx, userID)
	if err != nil {
		return nil, err
	}

	x := excelize.NewFile()
	defer x.Close()

	if err := x.SetSheetName("Sheet1", exportSheet); err != nil {
		return nil, err
	}
	if err := x.SetSheetRow(exportSheet, "A1", &[]any{"Title", "Watched"}); err != nil {
		return nil, err
	}
	for i, it := range items {
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := x.SetSheetRow(exportSheet, cell, &[]any{it.Title, it.Watched}); err != nil {
			return nil, fmt.Errorf("export row %d: %w", i+2, err)
		}
	}
	_ = x.SetColWidth(exportSheet, "A", "A", 48)

	buf, err := x.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("export: %w", err)
	}
	return buf.Bytes(), nil
}
