package export

import (
	"bytes"
	"testing"
	"time"

	"github.com/langchou/fuelbook/internal/ledger"
	"github.com/langchou/fuelbook/internal/models"
	"github.com/langchou/fuelbook/internal/service"
)

func testView(t *testing.T) *service.LedgerView {
	t.Helper()

	vehicle := &models.Vehicle{
		ID:               1,
		Name:             "Passat",
		LicensePlate:     "ABC-123",
		Drivetrain:       models.DrivetrainCombustion,
		TankCapacityL:    66,
		PassportFuelRate: 5.1,
		InitialFuelL:     40,
	}

	fill := 30.0
	trips := []*models.Trip{
		{
			ID: 1, VehicleID: 1, Year: 2025, SortOrder: 1,
			TripDate: time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC),
			Origin:   "Office", Destination: "Warehouse",
			Purpose: "delivery", DistanceKm: 120,
		},
		{
			ID: 2, VehicleID: 1, Year: 2025, SortOrder: 2,
			TripDate: time.Date(2025, 3, 14, 0, 0, 0, 0, time.UTC),
			Origin:   "Warehouse", Destination: "Office",
			Purpose: "return", DistanceKm: 118,
			FuelAddedL: &fill, FuelFull: true,
		},
	}

	result := ledger.Walk(vehicle, trips, map[int64]bool{2: true})

	return &service.LedgerView{
		Vehicle: vehicle,
		Year:    2025,
		Trips:   trips,
		Result:  result,
	}
}

func TestPDFRendersDocument(t *testing.T) {
	data, err := PDF(testView(t))
	if err != nil {
		t.Fatalf("PDF() error: %v", err)
	}
	if !bytes.HasPrefix(data, []byte("%PDF")) {
		t.Errorf("output does not start with PDF header")
	}
	if len(data) < 1000 {
		t.Errorf("PDF suspiciously small: %d bytes", len(data))
	}
}

func hybridView(t *testing.T) *service.LedgerView {
	t.Helper()

	vehicle := &models.Vehicle{
		ID:                 2,
		Name:               "Outlander",
		LicensePlate:       "HYB-456",
		Drivetrain:         models.DrivetrainHybrid,
		TankCapacityL:      50,
		BatteryCapacityKwh: 15,
		PassportFuelRate:   6.0,
		BaselineEnergyRate: 20,
		InitialFuelL:       40,
		InitialBatteryKwh:  5,
	}
	trips := []*models.Trip{
		{
			ID: 1, VehicleID: 2, Year: 2025, SortOrder: 1,
			TripDate: time.Date(2025, 4, 2, 0, 0, 0, 0, time.UTC),
			Origin:   "Office", Destination: "Client site",
			Purpose: "meeting", DistanceKm: 100,
		},
	}
	result := ledger.Walk(vehicle, trips, nil)

	return &service.LedgerView{Vehicle: vehicle, Year: 2025, Trips: trips, Result: result}
}

// 混动车报表必须同时给出剩余油量和剩余电量
func TestHTMLHybridShowsBothResources(t *testing.T) {
	data, err := HTML(hybridView(t))
	if err != nil {
		t.Fatalf("HTML() error: %v", err)
	}

	// 100km 行程：电行 25km 耗尽 5kWh，油行 75km 耗 4.5L
	if !bytes.Contains(data, []byte("35.5 L / 0.0 kWh")) {
		t.Errorf("hybrid row missing combined remaining levels:\n%s", data)
	}
}

func TestPDFHybridRenders(t *testing.T) {
	data, err := PDF(hybridView(t))
	if err != nil {
		t.Fatalf("PDF() error: %v", err)
	}
	if !bytes.HasPrefix(data, []byte("%PDF")) {
		t.Errorf("output does not start with PDF header")
	}
}

func TestHTMLRendersTable(t *testing.T) {
	data, err := HTML(testView(t))
	if err != nil {
		t.Fatalf("HTML() error: %v", err)
	}

	for _, want := range []string{"Warehouse", "ABC-123", "2025-03-10", "delivery"} {
		if !bytes.Contains(data, []byte(want)) {
			t.Errorf("output missing %q", want)
		}
	}
}
