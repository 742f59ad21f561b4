package export

import (
	"bytes"
	"fmt"
	"html/template"

	"github.com/langchou/fuelbook/internal/ledger"
	"github.com/langchou/fuelbook/internal/models"
	"github.com/langchou/fuelbook/internal/service"
)

// htmlRow 模板用的单行数据
type htmlRow struct {
	Trip   *models.Trip
	Result *ledger.TripResult
}

type htmlData struct {
	Vehicle  *models.Vehicle
	Year     int
	Rows     []htmlRow
	Totals   ledger.Totals
	UsesFuel bool
	Hybrid   bool
}

var htmlTemplate = template.Must(template.New("logbook").Funcs(template.FuncMap{
	"km":   func(v float64) string { return fmt.Sprintf("%.1f", v) },
	"rate": func(v float64) string { return fmt.Sprintf("%.2f", v) },
	"opt": func(v *float64) string {
		if v == nil {
			return ""
		}
		return fmt.Sprintf("%.2f", *v)
	},
}).Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>Logbook {{.Year}} - {{.Vehicle.Name}}</title>
<style>
body { font-family: sans-serif; font-size: 13px; }
table { border-collapse: collapse; width: 100%; }
th, td { border: 1px solid #999; padding: 3px 6px; text-align: left; }
th { background: #eee; }
.warn { background: #ffe0e0; }
.est { color: #777; }
</style>
</head>
<body>
<h1>Driving logbook {{.Year}} - {{.Vehicle.Name}} ({{.Vehicle.LicensePlate}})</h1>
<table>
<tr>
  <th>Date</th><th>Route</th><th>Purpose</th><th>Km</th>
  <th>Fill-up</th><th>Charge</th><th>Rate</th><th>Remaining</th>
  <th>Margin %</th><th>Flags</th>
</tr>
{{range .Rows}}
<tr{{if .Result.LegalWarning}} class="warn"{{end}}>
  <td>{{.Trip.TripDate.Format "2006-01-02"}}</td>
  <td>{{.Trip.Origin}} &rarr; {{.Trip.Destination}}</td>
  <td>{{.Trip.Purpose}}</td>
  <td>{{km .Trip.DistanceKm}}</td>
  <td>{{opt .Trip.FuelAddedL}}{{if .Trip.FuelFull}} F{{end}}</td>
  <td>{{opt .Trip.EnergyAddedKwh}}{{if .Trip.EnergyFull}} F{{end}}</td>
  {{if $.Hybrid}}
  <td{{if .Result.FuelRateEstimated}} class="est"{{end}}>{{rate .Result.FuelRate}}{{if .Result.FuelRateEstimated}} *{{end}}</td>
  <td>{{km .Result.FuelRemainingL}} L / {{km .Result.BatteryRemainingKwh}} kWh</td>
  {{else if $.UsesFuel}}
  <td{{if .Result.FuelRateEstimated}} class="est"{{end}}>{{rate .Result.FuelRate}}{{if .Result.FuelRateEstimated}} *{{end}}</td>
  <td>{{km .Result.FuelRemainingL}} L</td>
  {{else}}
  <td{{if .Result.EnergyRateEstimated}} class="est"{{end}}>{{rate .Result.EnergyRate}}{{if .Result.EnergyRateEstimated}} *{{end}}</td>
  <td>{{km .Result.BatteryRemainingKwh}} kWh</td>
  {{end}}
  <td>{{km .Result.MarginPercent}}</td>
  <td>{{if .Result.LegalWarning}}L{{end}}{{if .Result.OrderWarning}}O{{end}}{{if .Result.LevelWarning}}N{{end}}{{if .Result.ReceiptWarning}}R{{end}}</td>
</tr>
{{end}}
</table>
<p><b>Total:</b> {{km .Totals.DistanceKm}} km, {{.Totals.TripCount}} trips,
{{rate .Totals.FuelAddedL}} L filled, {{km .Totals.EnergyAddedKwh}} kWh charged</p>
<p><i>* estimated rate | flags: L legal margin, O date order, N negative level, R missing receipt</i></p>
</body>
</html>
`))

// HTML 渲染年度台账 HTML 报表（供浏览器打印）
func HTML(view *service.LedgerView) ([]byte, error) {
	data := htmlData{
		Vehicle:  view.Vehicle,
		Year:     view.Year,
		Totals:   view.Result.Totals,
		UsesFuel: view.Vehicle.UsesFuel(),
		Hybrid:   view.Vehicle.Drivetrain == models.DrivetrainHybrid,
	}
	for _, trip := range view.Trips {
		if tr := view.Result.Trips[trip.ID]; tr != nil {
			data.Rows = append(data.Rows, htmlRow{Trip: trip, Result: tr})
		}
	}

	var buf bytes.Buffer
	if err := htmlTemplate.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("render html: %w", err)
	}
	return buf.Bytes(), nil
}
