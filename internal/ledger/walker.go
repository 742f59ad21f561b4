package ledger

import (
	"time"

	"github.com/langchou/fuelbook/internal/models"
)

// TripResult 单条行程的台账计算结果
type TripResult struct {
	TripID int64 `json:"trip_id"`

	// 消耗率（所属测量周期的标定值或估算值）
	FuelRate            float64 `json:"fuel_rate"`           // L/100km
	FuelRateEstimated   bool    `json:"fuel_rate_estimated"` // 尚未标定，使用技术规范值
	EnergyRate          float64 `json:"energy_rate"`         // kWh/100km
	EnergyRateEstimated bool    `json:"energy_rate_estimated"`

	// 行程后剩余量
	FuelRemainingL      float64 `json:"fuel_remaining_l"`
	BatteryRemainingKwh float64 `json:"battery_remaining_kwh"`
	BatteryPercent      float64 `json:"battery_percent"`

	// 混动分配（仅插电混动车填写）
	ElectricKm float64 `json:"electric_km,omitempty"`
	FuelKm     float64 `json:"fuel_km,omitempty"`

	// 超耗与告警
	MarginPercent  float64 `json:"margin_percent"`
	LegalWarning   bool    `json:"legal_warning"`   // 超出法定 20% 上限
	OrderWarning   bool    `json:"order_warning"`   // 日期与排序不一致
	LevelWarning   bool    `json:"level_warning"`   // 剩余量在截断前为负
	ReceiptWarning bool    `json:"receipt_warning"` // 加油无对应小票
}

// Totals 年度合计（标记行程 distance = 0 不计入）
type Totals struct {
	DistanceKm     float64 `json:"distance_km"`
	FuelAddedL     float64 `json:"fuel_added_l"`
	EnergyAddedKwh float64 `json:"energy_added_kwh"`
	FuelUsedL      float64 `json:"fuel_used_l"`
	EnergyUsedKwh  float64 `json:"energy_used_kwh"`
	TripCount      int     `json:"trip_count"`

	FinalFuelL      float64 `json:"final_fuel_l"`
	FinalBatteryKwh float64 `json:"final_battery_kwh"`
}

// Result 一次台账重算的完整输出。每次读取都从行程列表全量重建，
// 调用方消费后即丢弃，Walker 本身不保留任何状态。
type Result struct {
	Trips  map[int64]*TripResult `json:"trips"`
	Totals Totals                `json:"totals"`
}

// resourcePeriod 单一能源（油或电）的测量周期累加器。
// 周期自上一次加满/充满事件开启，处于估算态（使用基准消耗率），
// 直到下一次加满/充满事件以实测 总量/总里程 标定并关闭。
type resourcePeriod struct {
	capacity float64
	baseRate float64

	level    float64 // 当前剩余量
	distance float64 // 当前周期累计里程
	amount   float64 // 当前周期累计添加量
}

func newResourcePeriod(capacity, baseRate, initial float64) *resourcePeriod {
	return &resourcePeriod{
		capacity: capacity,
		baseRate: baseRate,
		level:    RemainingLevel(initial, 0, 0, capacity),
	}
}

// observe 将一条行程计入周期，返回该行程适用的消耗率。
// full 且里程 > 0 时周期关闭：以周期总添加量/总里程标定消耗率，
// 随后重新进入估算态。标记行程（里程 0）只累加添加量，从不关闭周期。
func (p *resourcePeriod) observe(distance, added float64, full bool) (rate float64, estimated bool) {
	p.amount += added
	if distance <= 0 {
		return p.baseRate, true
	}
	p.distance += distance

	if full {
		rate = ConsumptionRate(p.amount, p.distance)
		p.distance = 0
		p.amount = 0
		return rate, false
	}
	return p.baseRate, true
}

// Walk 按顺序重放一个 (vehicle, year) 分区的行程列表，生成逐条计算结果。
// trips 必须已按 sort_order 排好；日期与排序冲突只打告警标记，从不重排。
// receiptMatches 为已匹配到小票的行程 id 集合（匹配在外部完成）。
// 所有算术均为全函数，Walk 永不失败，异常只体现为告警标记。
func Walk(vehicle *models.Vehicle, trips []*models.Trip, receiptMatches map[int64]bool) *Result {
	result := &Result{
		Trips: make(map[int64]*TripResult, len(trips)),
	}

	fuel := newResourcePeriod(vehicle.TankCapacityL, vehicle.PassportFuelRate, vehicle.InitialFuelL)
	energy := newResourcePeriod(vehicle.BatteryCapacityKwh, vehicle.BaselineEnergyRate, vehicle.InitialBatteryKwh)

	var prevDate time.Time
	havePrev := false

	for _, trip := range trips {
		tr := &TripResult{TripID: trip.ID}

		fuelAdded := 0.0
		if trip.FuelAddedL != nil {
			fuelAdded = *trip.FuelAddedL
		}
		energyAdded := 0.0
		if trip.EnergyAddedKwh != nil {
			energyAdded = *trip.EnergyAddedKwh
		}

		// 周期推进与消耗率判定
		if vehicle.UsesFuel() {
			tr.FuelRate, tr.FuelRateEstimated = fuel.observe(trip.DistanceKm, fuelAdded, trip.FuelFull)
		}
		if vehicle.UsesElectricity() {
			tr.EnergyRate, tr.EnergyRateEstimated = energy.observe(trip.DistanceKm, energyAdded, trip.EnergyFull)
		}

		// 资源消耗与剩余量
		switch {
		case vehicle.Drivetrain == models.DrivetrainHybrid:
			// 先按容量截断加油/充电后的可用量，再做两种能源的里程分配
			batteryAvail := RemainingLevel(energy.level, 0, energyAdded, energy.capacity)
			fuelAvail := RemainingLevel(fuel.level, 0, fuelAdded, fuel.capacity)
			split := SplitTrip(trip.DistanceKm, batteryAvail, tr.EnergyRate, fuelAvail, tr.FuelRate, energy.capacity, fuel.capacity)

			if fuelAvail-split.FuelUsed < 0 {
				tr.LevelWarning = true
			}
			fuel.level = split.FuelAfter
			energy.level = split.BatteryAfter
			tr.ElectricKm = split.ElectricKm
			tr.FuelKm = split.FuelKm
			result.Totals.FuelUsedL += split.FuelUsed
			result.Totals.EnergyUsedKwh += split.EnergyUsed

		case vehicle.UsesFuel():
			used := AmountUsed(trip.DistanceKm, tr.FuelRate)
			if fuel.level-used+fuelAdded < 0 {
				tr.LevelWarning = true
			}
			fuel.level = RemainingLevel(fuel.level, used, fuelAdded, fuel.capacity)
			result.Totals.FuelUsedL += used

		case vehicle.UsesElectricity():
			used := AmountUsed(trip.DistanceKm, tr.EnergyRate)
			if energy.level-used+energyAdded < 0 {
				tr.LevelWarning = true
			}
			energy.level = RemainingLevel(energy.level, used, energyAdded, energy.capacity)
			result.Totals.EnergyUsedKwh += used
		}

		// 手动电量校正优先于计算值
		if trip.BatteryOverrideKwh != nil && vehicle.UsesElectricity() {
			energy.level = RemainingLevel(*trip.BatteryOverrideKwh, 0, 0, energy.capacity)
		}

		tr.FuelRemainingL = fuel.level
		tr.BatteryRemainingKwh = energy.level
		if energy.capacity > 0 {
			tr.BatteryPercent = energy.level / energy.capacity * 100
		}

		// 超耗与法规检查：有油用油率对规范油耗，纯电用电耗率对基准电耗
		if vehicle.UsesFuel() {
			tr.MarginPercent = MarginPercent(tr.FuelRate, vehicle.PassportFuelRate)
		} else {
			tr.MarginPercent = MarginPercent(tr.EnergyRate, vehicle.BaselineEnergyRate)
		}
		tr.LegalWarning = !IsWithinLegalLimit(tr.MarginPercent)

		// 日期顺序检查：排序在后但日期在前的行程打告警
		if havePrev && trip.TripDate.Before(prevDate) {
			tr.OrderWarning = true
		}
		prevDate = trip.TripDate
		havePrev = true

		// 加油行程必须有匹配小票
		if trip.FuelAddedL != nil && !receiptMatches[trip.ID] {
			tr.ReceiptWarning = true
		}

		// 合计（标记行程不计入）
		if trip.DistanceKm > 0 {
			result.Totals.DistanceKm += trip.DistanceKm
			result.Totals.FuelAddedL += fuelAdded
			result.Totals.EnergyAddedKwh += energyAdded
			result.Totals.TripCount++
		}

		result.Trips[trip.ID] = tr
	}

	result.Totals.FinalFuelL = fuel.level
	result.Totals.FinalBatteryKwh = energy.level
	return result
}
