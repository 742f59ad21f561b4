package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/langchou/fuelbook/internal/models"
)

// vehicleRequest 车辆创建/更新请求
type vehicleRequest struct {
	Name               string  `json:"name" binding:"required"`
	LicensePlate       string  `json:"license_plate" binding:"required"`
	Drivetrain         string  `json:"drivetrain" binding:"required"`
	TankCapacityL      float64 `json:"tank_capacity_l"`
	BatteryCapacityKwh float64 `json:"battery_capacity_kwh"`
	PassportFuelRate   float64 `json:"passport_fuel_rate"`
	BaselineEnergyRate float64 `json:"baseline_energy_rate"`
	InitialOdometerKm  float64 `json:"initial_odometer_km"`
	InitialFuelL       float64 `json:"initial_fuel_l"`
	InitialBatteryKwh  float64 `json:"initial_battery_kwh"`
}

func (req *vehicleRequest) validate() string {
	switch req.Drivetrain {
	case models.DrivetrainCombustion, models.DrivetrainElectric, models.DrivetrainHybrid:
	default:
		return "Invalid drivetrain"
	}
	if req.TankCapacityL < 0 || req.BatteryCapacityKwh < 0 {
		return "Capacities must be non-negative"
	}
	if req.PassportFuelRate < 0 || req.BaselineEnergyRate < 0 {
		return "Rates must be non-negative"
	}
	return ""
}

func (req *vehicleRequest) apply(v *models.Vehicle) {
	v.Name = req.Name
	v.LicensePlate = req.LicensePlate
	v.Drivetrain = req.Drivetrain
	v.TankCapacityL = req.TankCapacityL
	v.BatteryCapacityKwh = req.BatteryCapacityKwh
	v.PassportFuelRate = req.PassportFuelRate
	v.BaselineEnergyRate = req.BaselineEnergyRate
	v.InitialOdometerKm = req.InitialOdometerKm
	v.InitialFuelL = req.InitialFuelL
	v.InitialBatteryKwh = req.InitialBatteryKwh

	// 纯燃油/纯电车只保留对应一组字段
	if !v.UsesElectricity() {
		v.BatteryCapacityKwh = 0
		v.BaselineEnergyRate = 0
		v.InitialBatteryKwh = 0
	}
	if !v.UsesFuel() {
		v.TankCapacityL = 0
		v.PassportFuelRate = 0
		v.InitialFuelL = 0
	}
}

// ListVehicles 获取车辆列表
func (h *Handler) ListVehicles(c *gin.Context) {
	vehicles, err := h.vehicleRepo.List(c.Request.Context())
	if err != nil {
		h.logger.Error("Failed to list vehicles", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list vehicles"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": vehicles})
}

// GetVehicle 获取车辆详情
func (h *Handler) GetVehicle(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	vehicle, err := h.vehicleRepo.GetByID(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Vehicle not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": vehicle})
}

// CreateVehicle 创建车辆
func (h *Handler) CreateVehicle(c *gin.Context) {
	if !h.requireWrite(c) {
		return
	}

	var req vehicleRequest
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}
	if msg := req.validate(); msg != "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": msg})
		return
	}

	vehicle := &models.Vehicle{}
	req.apply(vehicle)

	if err := h.vehicleRepo.Create(c.Request.Context(), vehicle); err != nil {
		h.logger.Error("Failed to create vehicle", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create vehicle"})
		return
	}

	h.logger.Info("Vehicle created",
		zap.Int64("vehicle_id", vehicle.ID),
		zap.String("drivetrain", vehicle.Drivetrain))
	c.JSON(http.StatusCreated, gin.H{"data": vehicle})
}

// UpdateVehicle 更新车辆
func (h *Handler) UpdateVehicle(c *gin.Context) {
	if !h.requireWrite(c) {
		return
	}

	id, ok := parseID(c)
	if !ok {
		return
	}

	vehicle, err := h.vehicleRepo.GetByID(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Vehicle not found"})
		return
	}

	var req vehicleRequest
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}
	if msg := req.validate(); msg != "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": msg})
		return
	}

	req.apply(vehicle)

	if err := h.vehicleRepo.Update(c.Request.Context(), vehicle); err != nil {
		h.logger.Error("Failed to update vehicle", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update vehicle"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": vehicle})
}
