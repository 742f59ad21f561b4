package models

import "time"

// Trip 行程记录
// 同一 (vehicle, year) 分区内按 sort_order 排序，sort_order 相同时按日期排序。
// distance_km = 0 的行程是标记行（如"期初记录"），不参与合计和消耗率标定。
type Trip struct {
	ID        int64     `json:"id" db:"id"`
	VehicleID int64     `json:"vehicle_id" db:"vehicle_id"`
	Year      int       `json:"year" db:"year"`
	SortOrder int       `json:"sort_order" db:"sort_order"` // 手动排序键
	TripDate  time.Time `json:"trip_date" db:"trip_date"`

	Origin      string  `json:"origin" db:"origin"`
	Destination string  `json:"destination" db:"destination"`
	Purpose     string  `json:"purpose" db:"purpose"`
	DistanceKm  float64 `json:"distance_km" db:"distance_km"`

	// 加油（可选）
	FuelAddedL *float64 `json:"fuel_added_l,omitempty" db:"fuel_added_l"` // 加油量 (L)
	FuelFull   bool     `json:"fuel_full" db:"fuel_full"`                 // 是否加满

	// 充电（可选）
	EnergyAddedKwh *float64 `json:"energy_added_kwh,omitempty" db:"energy_added_kwh"` // 充电量 (kWh)
	EnergyFull     bool     `json:"energy_full" db:"energy_full"`                     // 是否充满

	// 手动电量校正（可选）
	BatteryOverrideKwh *float64 `json:"battery_override_kwh,omitempty" db:"battery_override_kwh"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}
