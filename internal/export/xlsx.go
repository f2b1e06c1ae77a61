// Package export renders reports as Excel workbooks.
package export

import (
	"fmt"

	"rk-textiles/internal/core"

	"github.com/xuri/excelize/v2"
)

// ContentType is the MIME type of an .xlsx workbook.
const ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

const dateLayout = "2006-01-02"

// SalesWorkbook lays a sales report out over three sheets: Summary, By Fabric and By Business.
func SalesWorkbook(r *core.SalesReport) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", "Summary"); err != nil {
		return nil, err
	}

	w := &sheetWriter{f: f}
	w.rows("Summary", [][]any{
		{"From", r.Period.From.Format(dateLayout)},
		{"To", r.Period.To.Format(dateLayout)},
		{"Total Orders", r.Summary.TotalOrders},
		{"Total Revenue", r.Summary.TotalRevenue.InexactFloat64()},
		{"Average Order Value", r.Summary.AverageOrderValue.InexactFloat64()},
	})

	w.newSheet("By Fabric")
	fabric := [][]any{{"Fabric Type", "Quantity (m)", "Revenue", "Orders"}}
	for _, fs := range r.FabricBreakdown {
		fabric = append(fabric, []any{fs.FabricType, fs.QuantityMeters.InexactFloat64(), fs.Revenue.InexactFloat64(), fs.Orders})
	}
	w.rows("By Fabric", fabric)

	w.newSheet("By Business")
	business := [][]any{{"Business Type", "Orders", "Revenue"}}
	for _, bs := range r.BusinessBreakdown {
		business = append(business, []any{bs.BusinessType, bs.Orders, bs.Revenue.InexactFloat64()})
	}
	w.rows("By Business", business)

	if w.err != nil {
		return nil, fmt.Errorf("build sales workbook: %w", w.err)
	}
	return f, nil
}

// InventoryWorkbook lays an inventory report out over three sheets: Summary, Items and By Color.
func InventoryWorkbook(r *core.InventoryReport) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", "Summary"); err != nil {
		return nil, err
	}

	w := &sheetWriter{f: f}
	w.rows("Summary", [][]any{
		{"Total Items", r.Summary.TotalItems},
		{"Total Meters", r.Summary.TotalMeters.InexactFloat64()},
		{"Total Value", r.Summary.TotalValue.InexactFloat64()},
		{"In Stock", r.StockLevels.InStock},
		{"Low Stock", r.StockLevels.LowStock},
		{"Out of Stock", r.StockLevels.OutOfStock},
	})

	w.newSheet("Items")
	items := [][]any{{"ID", "Fabric Type", "Color", "Quantity (m)", "Rate / m", "Value", "Location", "Level"}}
	for _, it := range r.Items {
		items = append(items, []any{
			it.ID, it.FabricType, it.FabricColor,
			it.QuantityMeters.InexactFloat64(), it.RatePerMeter.InexactFloat64(), it.Value().Round(2).InexactFloat64(),
			it.Location, string(core.ClassifyStock(it.QuantityMeters)),
		})
	}
	w.rows("Items", items)

	w.newSheet("By Color")
	colors := [][]any{{"Color", "Quantity (m)", "Value"}}
	for _, c := range r.ColorBreakdown {
		colors = append(colors, []any{c.Color, c.QuantityMeters.InexactFloat64(), c.Value.InexactFloat64()})
	}
	w.rows("By Color", colors)

	if w.err != nil {
		return nil, fmt.Errorf("build inventory workbook: %w", w.err)
	}
	return f, nil
}

// Bytes serialises a workbook.
func Bytes(f *excelize.File) ([]byte, error) {
	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

// sheetWriter keeps the first error so the layout code reads straight through.
type sheetWriter struct {
	f   *excelize.File
	err error
}

func (w *sheetWriter) newSheet(name string) {
	if w.err != nil {
		return
	}
	_, w.err = w.f.NewSheet(name)
}

func (w *sheetWriter) rows(sheet string, rows [][]any) {
	for i, row := range rows {
		if w.err != nil {
			return
		}
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			w.err = err
			return
		}
		row := row
		w.err = w.f.SetSheetRow(sheet, cell, &row)
	}
}
