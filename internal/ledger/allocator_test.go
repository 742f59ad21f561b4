package ledger

import (
	"math"
	"testing"
)

// 100km 行程、可用电量 5kWh、基准电耗 20kWh/100km、油耗 6L/100km：
// 电行 25km 耗尽 5kWh，余下 75km 用油，耗油 4.5L
func TestSplitTripBatteryFirst(t *testing.T) {
	split := SplitTrip(100, 5, 20, 40, 6, 15, 50)

	if !almostEqual(split.ElectricKm, 25, 0.001) {
		t.Errorf("ElectricKm = %v, want 25", split.ElectricKm)
	}
	if !almostEqual(split.FuelKm, 75, 0.001) {
		t.Errorf("FuelKm = %v, want 75", split.FuelKm)
	}
	if !almostEqual(split.EnergyUsed, 5, 0.001) {
		t.Errorf("EnergyUsed = %v, want 5", split.EnergyUsed)
	}
	if !almostEqual(split.FuelUsed, 4.5, 0.001) {
		t.Errorf("FuelUsed = %v, want 4.5", split.FuelUsed)
	}
	if !almostEqual(split.BatteryAfter, 0, 0.001) {
		t.Errorf("BatteryAfter = %v, want 0", split.BatteryAfter)
	}
	if !almostEqual(split.FuelAfter, 35.5, 0.001) {
		t.Errorf("FuelAfter = %v, want 35.5", split.FuelAfter)
	}
}

func TestSplitTripFullElectric(t *testing.T) {
	// 电量充足时全程用电，不耗油
	split := SplitTrip(50, 15, 20, 40, 6, 15, 50)

	if !almostEqual(split.ElectricKm, 50, 0.001) {
		t.Errorf("ElectricKm = %v, want 50", split.ElectricKm)
	}
	if split.FuelKm != 0 {
		t.Errorf("FuelKm = %v, want 0", split.FuelKm)
	}
	if split.FuelUsed != 0 {
		t.Errorf("FuelUsed = %v, want 0", split.FuelUsed)
	}
	if !almostEqual(split.BatteryAfter, 5, 0.001) {
		t.Errorf("BatteryAfter = %v, want 5", split.BatteryAfter)
	}
}

func TestSplitTripZeroEnergyRate(t *testing.T) {
	// 电耗率为 0 时无法折算电行里程，全程按燃油计
	split := SplitTrip(100, 10, 0, 40, 6, 15, 50)

	if split.ElectricKm != 0 {
		t.Errorf("ElectricKm = %v, want 0", split.ElectricKm)
	}
	if split.FuelKm != 100 {
		t.Errorf("FuelKm = %v, want 100", split.FuelKm)
	}
	if !almostEqual(split.FuelUsed, 6, 0.001) {
		t.Errorf("FuelUsed = %v, want 6", split.FuelUsed)
	}
}

// 分配后的两段里程之和必须等于总里程，消耗量不得为负
func TestSplitTripInvariants(t *testing.T) {
	cases := []struct{ distance, battery, eRate, fuel, fRate float64 }{
		{100, 5, 20, 40, 6},
		{0, 5, 20, 40, 6},
		{250, 0, 18, 10, 7.5},
		{30, 100, 15, 0, 5},
	}
	for _, c := range cases {
		split := SplitTrip(c.distance, c.battery, c.eRate, c.fuel, c.fRate, 15, 50)
		if math.Abs(split.ElectricKm+split.FuelKm-c.distance) > 1e-9 {
			t.Errorf("split of %v km does not sum up: %v + %v", c.distance, split.ElectricKm, split.FuelKm)
		}
		if split.EnergyUsed < 0 || split.FuelUsed < 0 {
			t.Errorf("negative consumption: energy %v fuel %v", split.EnergyUsed, split.FuelUsed)
		}
	}
}
