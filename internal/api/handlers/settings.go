package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// GetSetting 读取车辆级设置，不存在时返回空值
func (h *Handler) GetSetting(c *gin.Context) {
	vehicleID, ok := parseID(c)
	if !ok {
		return
	}
	key := c.Param("key")

	value, err := h.settingRepo.Get(c.Request.Context(), vehicleID, key, "")
	if err != nil {
		h.logger.Error("Failed to get setting", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get setting"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"key": key, "value": value})
}

// SetSetting 写入车辆级设置
func (h *Handler) SetSetting(c *gin.Context) {
	if !h.requireWrite(c) {
		return
	}

	vehicleID, ok := parseID(c)
	if !ok {
		return
	}
	key := c.Param("key")

	var req struct {
		Value string `json:"value"`
	}
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	if err := h.settingRepo.Set(c.Request.Context(), vehicleID, key, req.Value); err != nil {
		h.logger.Error("Failed to set setting", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to set setting"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"key": key, "value": req.Value})
}
