package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/langchou/fuelbook/internal/models"
)

// tripRequest 行程创建/更新请求
type tripRequest struct {
	SortOrder          int      `json:"sort_order"`
	TripDate           string   `json:"trip_date" binding:"required"` // YYYY-MM-DD
	Origin             string   `json:"origin"`
	Destination        string   `json:"destination"`
	Purpose            string   `json:"purpose"`
	DistanceKm         float64  `json:"distance_km"`
	FuelAddedL         *float64 `json:"fuel_added_l"`
	FuelFull           bool     `json:"fuel_full"`
	EnergyAddedKwh     *float64 `json:"energy_added_kwh"`
	EnergyFull         bool     `json:"energy_full"`
	BatteryOverrideKwh *float64 `json:"battery_override_kwh"`
}

func (req *tripRequest) validate() (time.Time, string) {
	date, err := time.Parse("2006-01-02", req.TripDate)
	if err != nil {
		return time.Time{}, "Invalid trip_date, expected YYYY-MM-DD"
	}
	if req.DistanceKm < 0 {
		return time.Time{}, "Distance must be non-negative"
	}
	if req.FuelAddedL != nil && *req.FuelAddedL < 0 {
		return time.Time{}, "Fuel amount must be non-negative"
	}
	if req.EnergyAddedKwh != nil && *req.EnergyAddedKwh < 0 {
		return time.Time{}, "Energy amount must be non-negative"
	}
	return date, ""
}

func (req *tripRequest) apply(trip *models.Trip, date time.Time) {
	trip.SortOrder = req.SortOrder
	trip.TripDate = date
	trip.Year = date.Year()
	trip.Origin = req.Origin
	trip.Destination = req.Destination
	trip.Purpose = req.Purpose
	trip.DistanceKm = req.DistanceKm
	trip.FuelAddedL = req.FuelAddedL
	trip.FuelFull = req.FuelFull
	trip.EnergyAddedKwh = req.EnergyAddedKwh
	trip.EnergyFull = req.EnergyFull
	trip.BatteryOverrideKwh = req.BatteryOverrideKwh
}

// ListTrips 获取 (vehicle, year) 分区的行程列表（台账顺序）
func (h *Handler) ListTrips(c *gin.Context) {
	vehicleID, ok := parseID(c)
	if !ok {
		return
	}
	year := parseYear(c)

	trips, err := h.tripRepo.ListByVehicleYear(c.Request.Context(), vehicleID, year)
	if err != nil {
		h.logger.Error("Failed to list trips", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list trips"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": trips,
		"year": year,
	})
}

// CreateTrip 创建行程并维护路线缓存
func (h *Handler) CreateTrip(c *gin.Context) {
	if !h.requireWrite(c) {
		return
	}

	vehicleID, ok := parseID(c)
	if !ok {
		return
	}

	if _, err := h.vehicleRepo.GetByID(c.Request.Context(), vehicleID); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Vehicle not found"})
		return
	}

	var req tripRequest
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}
	date, msg := req.validate()
	if msg != "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": msg})
		return
	}

	trip := &models.Trip{VehicleID: vehicleID}
	req.apply(trip, date)

	if err := h.tripRepo.Create(c.Request.Context(), trip); err != nil {
		h.logger.Error("Failed to create trip", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create trip"})
		return
	}

	// 维护路线缓存（标记行程不入路线目录）
	if trip.DistanceKm > 0 && trip.Origin != "" && trip.Destination != "" {
		route := &models.Route{
			VehicleID:   vehicleID,
			Origin:      trip.Origin,
			Destination: trip.Destination,
			DistanceKm:  trip.DistanceKm,
		}
		if err := h.routeRepo.Upsert(c.Request.Context(), route); err != nil {
			h.logger.Warn("Failed to upsert route", zap.Error(err))
		}
	}

	h.wsHub.BroadcastLedgerRefresh(vehicleID, trip.Year)
	c.JSON(http.StatusCreated, gin.H{"data": trip})
}

// UpdateTrip 更新行程
func (h *Handler) UpdateTrip(c *gin.Context) {
	if !h.requireWrite(c) {
		return
	}

	id, ok := parseID(c)
	if !ok {
		return
	}

	trip, err := h.tripRepo.GetByID(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Trip not found"})
		return
	}

	var req tripRequest
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}
	date, msg := req.validate()
	if msg != "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": msg})
		return
	}

	req.apply(trip, date)

	if err := h.tripRepo.Update(c.Request.Context(), trip); err != nil {
		h.logger.Error("Failed to update trip", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update trip"})
		return
	}

	h.wsHub.BroadcastLedgerRefresh(trip.VehicleID, trip.Year)
	c.JSON(http.StatusOK, gin.H{"data": trip})
}

// DeleteTrip 删除行程
func (h *Handler) DeleteTrip(c *gin.Context) {
	if !h.requireWrite(c) {
		return
	}

	id, ok := parseID(c)
	if !ok {
		return
	}

	trip, err := h.tripRepo.GetByID(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Trip not found"})
		return
	}

	if err := h.tripRepo.Delete(c.Request.Context(), id); err != nil {
		h.logger.Error("Failed to delete trip", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete trip"})
		return
	}

	h.wsHub.BroadcastLedgerRefresh(trip.VehicleID, trip.Year)
	c.JSON(http.StatusOK, gin.H{"message": "Trip deleted"})
}
