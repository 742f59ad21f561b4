package ledger

import (
	"reflect"
	"testing"
	"time"

	"github.com/langchou/fuelbook/internal/models"
)

func day(d int) time.Time {
	return time.Date(2024, 3, d, 0, 0, 0, 0, time.UTC)
}

func fptr(v float64) *float64 { return &v }

func combustionVehicle() *models.Vehicle {
	return &models.Vehicle{
		ID:               1,
		Drivetrain:       models.DrivetrainCombustion,
		TankCapacityL:    66,
		PassportFuelRate: 6.0,
		InitialFuelL:     30,
	}
}

func TestWalkCalibration(t *testing.T) {
	vehicle := combustionVehicle()
	trips := []*models.Trip{
		{ID: 1, SortOrder: 1, TripDate: day(1), DistanceKm: 100},
		{ID: 2, SortOrder: 2, TripDate: day(2), DistanceKm: 200, FuelAddedL: fptr(20), FuelFull: true},
		{ID: 3, SortOrder: 3, TripDate: day(3), DistanceKm: 100},
	}
	matches := map[int64]bool{2: true}

	result := Walk(vehicle, trips, matches)

	// 首段：未标定，使用技术规范油耗
	r1 := result.Trips[1]
	if !r1.FuelRateEstimated || r1.FuelRate != 6.0 {
		t.Errorf("trip 1: rate %v estimated %v, want 6.0 estimated", r1.FuelRate, r1.FuelRateEstimated)
	}
	if !almostEqual(r1.FuelRemainingL, 24, 0.001) {
		t.Errorf("trip 1: remaining %v, want 24", r1.FuelRemainingL)
	}

	// 加满关闭周期：20L / 300km = 6.6667 L/100km
	r2 := result.Trips[2]
	if r2.FuelRateEstimated {
		t.Error("trip 2: rate should be calibrated")
	}
	if !almostEqual(r2.FuelRate, 6.6667, 0.001) {
		t.Errorf("trip 2: rate %v, want 6.6667", r2.FuelRate)
	}
	if !almostEqual(r2.FuelRemainingL, 24-200*r2.FuelRate/100+20, 0.001) {
		t.Errorf("trip 2: remaining %v", r2.FuelRemainingL)
	}
	if r2.LegalWarning {
		t.Error("trip 2: 11.1%% margin should be within legal limit")
	}
	if r2.ReceiptWarning {
		t.Error("trip 2: matched receipt should not be flagged")
	}

	// 新周期回到估算态
	r3 := result.Trips[3]
	if !r3.FuelRateEstimated || r3.FuelRate != 6.0 {
		t.Errorf("trip 3: rate %v estimated %v, want 6.0 estimated", r3.FuelRate, r3.FuelRateEstimated)
	}

	if result.Totals.DistanceKm != 400 || result.Totals.FuelAddedL != 20 || result.Totals.TripCount != 3 {
		t.Errorf("totals: %+v", result.Totals)
	}
}

func TestWalkLegalWarning(t *testing.T) {
	vehicle := combustionVehicle()
	// 30L / 300km = 10 L/100km，超出规范 66.7%
	trips := []*models.Trip{
		{ID: 1, SortOrder: 1, TripDate: day(1), DistanceKm: 300, FuelAddedL: fptr(30), FuelFull: true},
	}

	result := Walk(vehicle, trips, map[int64]bool{1: true})

	r := result.Trips[1]
	if !r.LegalWarning {
		t.Errorf("margin %v should exceed legal limit", r.MarginPercent)
	}
	if !almostEqual(r.MarginPercent, 66.6667, 0.001) {
		t.Errorf("margin = %v, want 66.6667", r.MarginPercent)
	}
}

func TestWalkWarningFlags(t *testing.T) {
	vehicle := combustionVehicle()
	trips := []*models.Trip{
		{ID: 1, SortOrder: 1, TripDate: day(5), DistanceKm: 100},
		// 排序在后但日期在前
		{ID: 2, SortOrder: 2, TripDate: day(3), DistanceKm: 50},
		// 加油无小票
		{ID: 3, SortOrder: 3, TripDate: day(6), DistanceKm: 50, FuelAddedL: fptr(10)},
		// 里程超出剩余油量可行驶范围
		{ID: 4, SortOrder: 4, TripDate: day(7), DistanceKm: 2000},
	}

	result := Walk(vehicle, trips, nil)

	if !result.Trips[2].OrderWarning {
		t.Error("trip 2: expected order warning")
	}
	if result.Trips[1].OrderWarning || result.Trips[3].OrderWarning {
		t.Error("unexpected order warnings")
	}
	if !result.Trips[3].ReceiptWarning {
		t.Error("trip 3: expected receipt warning")
	}
	if !result.Trips[4].LevelWarning {
		t.Error("trip 4: expected level warning")
	}
	if result.Trips[4].FuelRemainingL != 0 {
		t.Errorf("trip 4: remaining %v, want clamped to 0", result.Trips[4].FuelRemainingL)
	}
}

func TestWalkMarkerTrip(t *testing.T) {
	vehicle := combustionVehicle()
	// 里程 0 的标记行程：加油计入油量和周期总量，但不关闭周期、不进合计
	trips := []*models.Trip{
		{ID: 1, SortOrder: 1, TripDate: day(1), DistanceKm: 0, FuelAddedL: fptr(36), FuelFull: true},
		{ID: 2, SortOrder: 2, TripDate: day(2), DistanceKm: 100},
		{ID: 3, SortOrder: 3, TripDate: day(3), DistanceKm: 100, FuelAddedL: fptr(12), FuelFull: true},
	}
	matches := map[int64]bool{1: true, 3: true}

	result := Walk(vehicle, trips, matches)

	r1 := result.Trips[1]
	if !r1.FuelRateEstimated {
		t.Error("trip 1: marker must not close the period")
	}
	if r1.FuelRemainingL != 66 {
		t.Errorf("trip 1: remaining %v, want 66 (fill capped)", r1.FuelRemainingL)
	}

	// 标记行的 36L 计入周期总量：(36+12) / 200km = 24 L/100km
	r3 := result.Trips[3]
	if r3.FuelRateEstimated {
		t.Error("trip 3: expected calibrated rate")
	}
	if !almostEqual(r3.FuelRate, 24, 0.001) {
		t.Errorf("trip 3: rate %v, want 24", r3.FuelRate)
	}

	if result.Totals.DistanceKm != 200 {
		t.Errorf("totals distance %v, want 200 (marker excluded)", result.Totals.DistanceKm)
	}
	if result.Totals.FuelAddedL != 12 {
		t.Errorf("totals fuel added %v, want 12 (marker excluded)", result.Totals.FuelAddedL)
	}
}

func TestWalkElectricVehicle(t *testing.T) {
	vehicle := &models.Vehicle{
		ID:                 2,
		Drivetrain:         models.DrivetrainElectric,
		BatteryCapacityKwh: 60,
		BaselineEnergyRate: 16,
		InitialBatteryKwh:  48,
	}
	trips := []*models.Trip{
		{ID: 1, SortOrder: 1, TripDate: day(1), DistanceKm: 100},
		{ID: 2, SortOrder: 2, TripDate: day(2), DistanceKm: 100, EnergyAddedKwh: fptr(36), EnergyFull: true},
	}

	result := Walk(vehicle, trips, nil)

	r1 := result.Trips[1]
	if !r1.EnergyRateEstimated || r1.EnergyRate != 16 {
		t.Errorf("trip 1: rate %v estimated %v", r1.EnergyRate, r1.EnergyRateEstimated)
	}
	if !almostEqual(r1.BatteryRemainingKwh, 32, 0.001) {
		t.Errorf("trip 1: battery %v, want 32", r1.BatteryRemainingKwh)
	}

	// 36kWh / 200km = 18 kWh/100km
	r2 := result.Trips[2]
	if r2.EnergyRateEstimated || !almostEqual(r2.EnergyRate, 18, 0.001) {
		t.Errorf("trip 2: rate %v estimated %v, want 18 calibrated", r2.EnergyRate, r2.EnergyRateEstimated)
	}
	if !almostEqual(r2.BatteryPercent, r2.BatteryRemainingKwh/60*100, 0.001) {
		t.Errorf("trip 2: battery percent %v inconsistent", r2.BatteryPercent)
	}
	// 纯电车无加油，不应有小票告警
	if r1.ReceiptWarning || r2.ReceiptWarning {
		t.Error("unexpected receipt warnings for electric vehicle")
	}
}

func TestWalkHybridSplit(t *testing.T) {
	vehicle := &models.Vehicle{
		ID:                 3,
		Drivetrain:         models.DrivetrainHybrid,
		TankCapacityL:      50,
		BatteryCapacityKwh: 15,
		PassportFuelRate:   6.0,
		BaselineEnergyRate: 20,
		InitialFuelL:       40,
		InitialBatteryKwh:  5,
	}
	trips := []*models.Trip{
		{ID: 1, SortOrder: 1, TripDate: day(1), DistanceKm: 100},
	}

	result := Walk(vehicle, trips, nil)

	r := result.Trips[1]
	if !almostEqual(r.ElectricKm, 25, 0.001) || !almostEqual(r.FuelKm, 75, 0.001) {
		t.Errorf("split = %v electric / %v fuel, want 25/75", r.ElectricKm, r.FuelKm)
	}
	if !almostEqual(r.BatteryRemainingKwh, 0, 0.001) {
		t.Errorf("battery %v, want 0", r.BatteryRemainingKwh)
	}
	if !almostEqual(r.FuelRemainingL, 35.5, 0.001) {
		t.Errorf("fuel %v, want 35.5", r.FuelRemainingL)
	}
	if !almostEqual(result.Totals.EnergyUsedKwh, 5, 0.001) || !almostEqual(result.Totals.FuelUsedL, 4.5, 0.001) {
		t.Errorf("totals: %+v", result.Totals)
	}
}

func TestWalkBatteryOverride(t *testing.T) {
	vehicle := &models.Vehicle{
		ID:                 2,
		Drivetrain:         models.DrivetrainElectric,
		BatteryCapacityKwh: 60,
		BaselineEnergyRate: 16,
		InitialBatteryKwh:  48,
	}
	trips := []*models.Trip{
		{ID: 1, SortOrder: 1, TripDate: day(1), DistanceKm: 100, BatteryOverrideKwh: fptr(40)},
		{ID: 2, SortOrder: 2, TripDate: day(2), DistanceKm: 100},
	}

	result := Walk(vehicle, trips, nil)

	if result.Trips[1].BatteryRemainingKwh != 40 {
		t.Errorf("trip 1: battery %v, want override 40", result.Trips[1].BatteryRemainingKwh)
	}
	// 后续计算基于校正值
	if !almostEqual(result.Trips[2].BatteryRemainingKwh, 24, 0.001) {
		t.Errorf("trip 2: battery %v, want 24", result.Trips[2].BatteryRemainingKwh)
	}
}

// 同一份行程列表重复计算必须得到完全一致的结果
func TestWalkIdempotent(t *testing.T) {
	vehicle := combustionVehicle()
	trips := []*models.Trip{
		{ID: 1, SortOrder: 1, TripDate: day(1), DistanceKm: 120, FuelAddedL: fptr(8)},
		{ID: 2, SortOrder: 2, TripDate: day(2), DistanceKm: 340, FuelAddedL: fptr(29), FuelFull: true},
		{ID: 3, SortOrder: 3, TripDate: day(3), DistanceKm: 75},
	}
	matches := map[int64]bool{2: true}

	first := Walk(vehicle, trips, matches)
	second := Walk(vehicle, trips, matches)

	if !reflect.DeepEqual(first, second) {
		t.Error("repeated walks over unchanged trips differ")
	}
}

// 车辆缺失技术油耗时按参考值 0 处理，超耗与法规检查退化为零值
func TestWalkMissingReferenceRate(t *testing.T) {
	vehicle := combustionVehicle()
	vehicle.PassportFuelRate = 0
	trips := []*models.Trip{
		{ID: 1, SortOrder: 1, TripDate: day(1), DistanceKm: 200, FuelAddedL: fptr(30), FuelFull: true},
	}

	result := Walk(vehicle, trips, map[int64]bool{1: true})

	r := result.Trips[1]
	if r.MarginPercent != 0 {
		t.Errorf("margin %v, want 0 for missing reference rate", r.MarginPercent)
	}
	if r.LegalWarning {
		t.Error("legal warning must not fire without a reference rate")
	}
}
