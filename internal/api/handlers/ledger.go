package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/langchou/fuelbook/internal/export"
	"github.com/langchou/fuelbook/internal/models"
)

// GetLedger 获取某车某年的完整台账
func (h *Handler) GetLedger(c *gin.Context) {
	vehicleID, ok := parseID(c)
	if !ok {
		return
	}
	year := parseYear(c)

	view, err := h.logbook.BuildLedger(c.Request.Context(), vehicleID, year)
	if err != nil {
		h.logger.Error("Failed to build ledger", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to build ledger"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": view})
}

// GetSuggestion 获取补偿行程建议
func (h *Handler) GetSuggestion(c *gin.Context) {
	vehicleID, ok := parseID(c)
	if !ok {
		return
	}
	year := parseYear(c)
	location := c.Query("location")

	view, err := h.suggestions.Suggest(c.Request.Context(), vehicleID, year, location)
	if err != nil {
		h.logger.Error("Failed to generate suggestion", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate suggestion"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": view})
}

// ListRoutes 获取车辆的路线目录
func (h *Handler) ListRoutes(c *gin.Context) {
	vehicleID, ok := parseID(c)
	if !ok {
		return
	}

	routes, err := h.routeRepo.ListByVehicleID(c.Request.Context(), vehicleID)
	if err != nil {
		h.logger.Error("Failed to list routes", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list routes"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": routes})
}

// ListReceipts 获取车辆某年的小票
func (h *Handler) ListReceipts(c *gin.Context) {
	vehicleID, ok := parseID(c)
	if !ok {
		return
	}
	year := parseYear(c)

	receipts, err := h.receiptRepo.ListByVehicleYear(c.Request.Context(), vehicleID, year)
	if err != nil {
		h.logger.Error("Failed to list receipts", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list receipts"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": receipts, "year": year})
}

// receiptRequest 小票登记请求
type receiptRequest struct {
	ReceiptDate string  `json:"receipt_date" binding:"required"` // YYYY-MM-DD
	AmountL     float64 `json:"amount_l" binding:"required"`
	Station     string  `json:"station"`
}

// CreateReceipt 登记加油小票
func (h *Handler) CreateReceipt(c *gin.Context) {
	if !h.requireWrite(c) {
		return
	}

	vehicleID, ok := parseID(c)
	if !ok {
		return
	}

	var req receiptRequest
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}
	if _, err := time.Parse("2006-01-02", req.ReceiptDate); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid receipt_date, expected YYYY-MM-DD"})
		return
	}
	if req.AmountL <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Amount must be positive"})
		return
	}

	receipt := &models.Receipt{
		VehicleID:   vehicleID,
		ReceiptDate: req.ReceiptDate,
		AmountL:     req.AmountL,
		Station:     req.Station,
	}

	if err := h.receiptRepo.Create(c.Request.Context(), receipt); err != nil {
		h.logger.Error("Failed to create receipt", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create receipt"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": receipt})
}

// ExportPDF 导出年度台账 PDF
func (h *Handler) ExportPDF(c *gin.Context) {
	vehicleID, ok := parseID(c)
	if !ok {
		return
	}
	year := parseYear(c)

	view, err := h.logbook.BuildLedger(c.Request.Context(), vehicleID, year)
	if err != nil {
		h.logger.Error("Failed to build ledger for export", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to build ledger"})
		return
	}

	data, err := export.PDF(view)
	if err != nil {
		h.logger.Error("Failed to render PDF", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to render PDF"})
		return
	}

	filename := fmt.Sprintf("logbook-%d-%d.pdf", vehicleID, year)
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, "application/pdf", data)
}

// ExportHTML 导出年度台账 HTML 报表
func (h *Handler) ExportHTML(c *gin.Context) {
	vehicleID, ok := parseID(c)
	if !ok {
		return
	}
	year := parseYear(c)

	view, err := h.logbook.BuildLedger(c.Request.Context(), vehicleID, year)
	if err != nil {
		h.logger.Error("Failed to build ledger for export", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to build ledger"})
		return
	}

	data, err := export.HTML(view)
	if err != nil {
		h.logger.Error("Failed to render HTML", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to render HTML"})
		return
	}

	c.Data(http.StatusOK, "text/html; charset=utf-8", data)
}
