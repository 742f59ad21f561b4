package ledger

// TripSplit 插电混动车单次行程在两种能源间的分配结果
type TripSplit struct {
	ElectricKm   float64 `json:"electric_km"`   // 用电行驶里程
	FuelKm       float64 `json:"fuel_km"`       // 用油行驶里程
	EnergyUsed   float64 `json:"energy_used"`   // 消耗电量 (kWh)
	FuelUsed     float64 `json:"fuel_used"`     // 消耗油量 (L)
	BatteryAfter float64 `json:"battery_after"` // 行程后剩余电量
	FuelAfter    float64 `json:"fuel_after"`    // 行程后剩余油量
}

// SplitTrip 将混动车行程里程在电池和油箱之间分配。
// batteryLevel/fuelLevel 为本次充电/加油之后的可用量（已按容量截断）。
// 优先用电：按基准电耗计算全程所需电量，电池不足的部分改用燃油行驶。
func SplitTrip(distance, batteryLevel, energyRate, fuelLevel, fuelRate, batteryCapacity, tankCapacity float64) TripSplit {
	needed := AmountUsed(distance, energyRate)

	usedFromBattery := needed
	if usedFromBattery > batteryLevel {
		usedFromBattery = batteryLevel
	}
	if usedFromBattery < 0 {
		usedFromBattery = 0
	}

	// 电耗率为 0 时无法折算电行里程，全程按燃油计
	var electricKm float64
	if energyRate > 0 {
		electricKm = usedFromBattery * 100 / energyRate
	}
	if electricKm > distance {
		electricKm = distance
	}

	fuelKm := distance - electricKm
	fuelUsed := AmountUsed(fuelKm, fuelRate)

	return TripSplit{
		ElectricKm:   electricKm,
		FuelKm:       fuelKm,
		EnergyUsed:   usedFromBattery,
		FuelUsed:     fuelUsed,
		BatteryAfter: RemainingLevel(batteryLevel, usedFromBattery, 0, batteryCapacity),
		FuelAfter:    RemainingLevel(fuelLevel, fuelUsed, 0, tankCapacity),
	}
}
