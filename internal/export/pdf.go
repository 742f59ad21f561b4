package export

import (
	"bytes"
	"fmt"

	"github.com/phpdave11/gofpdf"

	"github.com/langchou/fuelbook/internal/models"
	"github.com/langchou/fuelbook/internal/service"
)

// 表格列宽 (mm)，横版 A4
var pdfColumns = []struct {
	title string
	width float64
}{
	{"Date", 22},
	{"Route", 60},
	{"Purpose", 38},
	{"Km", 16},
	{"Fill-up", 20},
	{"Charge", 20},
	{"Rate", 18},
	{"Remaining", 30},
	{"Margin %", 20},
	{"Flags", 22},
}

// PDF 渲染年度台账 PDF 报表
func PDF(view *service.LedgerView) ([]byte, error) {
	pdf := gofpdf.New("L", "mm", "A4", "")
	pdf.SetTitle(fmt.Sprintf("Logbook %s %d", view.Vehicle.Name, view.Year), false)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(0, 10, fmt.Sprintf("Driving logbook %d - %s (%s)", view.Year, view.Vehicle.Name, view.Vehicle.LicensePlate))
	pdf.Ln(12)

	// 表头
	pdf.SetFont("Helvetica", "B", 9)
	pdf.SetFillColor(230, 230, 230)
	for _, col := range pdfColumns {
		pdf.CellFormat(col.width, 7, col.title, "1", 0, "C", true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Helvetica", "", 8)
	for _, trip := range view.Trips {
		tr := view.Result.Trips[trip.ID]
		if tr == nil {
			continue
		}

		rate := tr.FuelRate
		estimated := tr.FuelRateEstimated
		remaining := fmt.Sprintf("%.1f L", tr.FuelRemainingL)
		switch {
		case view.Vehicle.Drivetrain == models.DrivetrainHybrid:
			// 混动车两种能源都要体现
			remaining = fmt.Sprintf("%.1f L / %.1f kWh", tr.FuelRemainingL, tr.BatteryRemainingKwh)
		case !view.Vehicle.UsesFuel():
			rate = tr.EnergyRate
			estimated = tr.EnergyRateEstimated
			remaining = fmt.Sprintf("%.1f kWh", tr.BatteryRemainingKwh)
		}
		// 估算值带星号
		rateText := fmt.Sprintf("%.2f", rate)
		if estimated {
			rateText += " *"
		}

		var fill, charge string
		if trip.FuelAddedL != nil {
			fill = fmt.Sprintf("%.2f L", *trip.FuelAddedL)
			if trip.FuelFull {
				fill += " F"
			}
		}
		if trip.EnergyAddedKwh != nil {
			charge = fmt.Sprintf("%.1f kWh", *trip.EnergyAddedKwh)
			if trip.EnergyFull {
				charge += " F"
			}
		}

		var flags string
		if tr.LegalWarning {
			flags += "L"
		}
		if tr.OrderWarning {
			flags += "O"
		}
		if tr.LevelWarning {
			flags += "N"
		}
		if tr.ReceiptWarning {
			flags += "R"
		}

		cells := []string{
			trip.TripDate.Format("2006-01-02"),
			trip.Origin + " - " + trip.Destination,
			trip.Purpose,
			fmt.Sprintf("%.1f", trip.DistanceKm),
			fill,
			charge,
			rateText,
			remaining,
			fmt.Sprintf("%.1f", tr.MarginPercent),
			flags,
		}
		for i, cell := range cells {
			pdf.CellFormat(pdfColumns[i].width, 6, cell, "1", 0, "L", false, 0, "")
		}
		pdf.Ln(-1)
	}

	// 年度合计
	totals := view.Result.Totals
	pdf.Ln(4)
	pdf.SetFont("Helvetica", "B", 9)
	pdf.Cell(0, 6, fmt.Sprintf("Total: %.1f km, %d trips, %.2f L filled, %.1f kWh charged",
		totals.DistanceKm, totals.TripCount, totals.FuelAddedL, totals.EnergyAddedKwh))
	pdf.Ln(6)
	pdf.SetFont("Helvetica", "I", 8)
	pdf.Cell(0, 5, "* estimated rate (no full fill-up in period) | flags: L legal margin, O date order, N negative level, R missing receipt")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	return buf.Bytes(), nil
}
