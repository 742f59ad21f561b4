package models

import "time"

// 动力类型常量
const (
	DrivetrainCombustion = "combustion" // 燃油车
	DrivetrainElectric   = "electric"   // 纯电车
	DrivetrainHybrid     = "hybrid"     // 插电混动
)

// Vehicle 车辆信息
type Vehicle struct {
	ID           int64  `json:"id" db:"id"`
	Name         string `json:"name" db:"name"`
	LicensePlate string `json:"license_plate" db:"license_plate"`
	Drivetrain   string `json:"drivetrain" db:"drivetrain"`

	TankCapacityL      float64 `json:"tank_capacity_l" db:"tank_capacity_l"`           // 油箱容量 (L)
	BatteryCapacityKwh float64 `json:"battery_capacity_kwh" db:"battery_capacity_kwh"` // 电池容量 (kWh)

	PassportFuelRate   float64 `json:"passport_fuel_rate" db:"passport_fuel_rate"`     // 技术规范油耗 (L/100km)
	BaselineEnergyRate float64 `json:"baseline_energy_rate" db:"baseline_energy_rate"` // 基准电耗 (kWh/100km)

	InitialOdometerKm float64 `json:"initial_odometer_km" db:"initial_odometer_km"` // 初始里程表 (km)
	InitialFuelL      float64 `json:"initial_fuel_l" db:"initial_fuel_l"`           // 初始油量 (L)
	InitialBatteryKwh float64 `json:"initial_battery_kwh" db:"initial_battery_kwh"` // 初始电量 (kWh)

	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// UsesFuel 是否使用燃油
func (v *Vehicle) UsesFuel() bool {
	return v.Drivetrain == DrivetrainCombustion || v.Drivetrain == DrivetrainHybrid
}

// UsesElectricity 是否使用电力
func (v *Vehicle) UsesElectricity() bool {
	return v.Drivetrain == DrivetrainElectric || v.Drivetrain == DrivetrainHybrid
}
