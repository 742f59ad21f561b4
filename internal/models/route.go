package models

// Route 路线缓存（由行程记录派生，仅用于补偿建议的查找）
type Route struct {
	ID          int64   `json:"id" db:"id"`
	VehicleID   int64   `json:"vehicle_id" db:"vehicle_id"`
	Origin      string  `json:"origin" db:"origin"`
	Destination string  `json:"destination" db:"destination"`
	DistanceKm  float64 `json:"distance_km" db:"distance_km"`
	UsageCount  int     `json:"usage_count" db:"usage_count"`
}

// Receipt 加油小票
type Receipt struct {
	ID          int64   `json:"id" db:"id"`
	VehicleID   int64   `json:"vehicle_id" db:"vehicle_id"`
	ReceiptDate string  `json:"receipt_date" db:"receipt_date"` // YYYY-MM-DD
	AmountL     float64 `json:"amount_l" db:"amount_l"`
	Station     string  `json:"station" db:"station"`
}

// Setting 车辆级键值设置
type Setting struct {
	ID        int64  `json:"id" db:"id"`
	VehicleID int64  `json:"vehicle_id" db:"vehicle_id"`
	Key       string `json:"key" db:"key"`
	Value     string `json:"value" db:"value"`
}
