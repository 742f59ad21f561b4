package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/langchou/fuelbook/internal/appmode"
	"github.com/langchou/fuelbook/internal/repository"
	"github.com/langchou/fuelbook/internal/service"
	"github.com/langchou/fuelbook/pkg/ws"
)

// Handler HTTP 处理器
type Handler struct {
	logger      *zap.Logger
	vehicleRepo *repository.VehicleRepository
	tripRepo    *repository.TripRepository
	routeRepo   *repository.RouteRepository
	receiptRepo *repository.ReceiptRepository
	settingRepo *repository.SettingsRepository
	logbook     *service.LogbookService
	suggestions *service.SuggestionService
	mode        *appmode.Machine
	wsHub       *ws.Hub
	upgrader    websocket.Upgrader
}

// NewHandler 创建处理器
func NewHandler(
	logger *zap.Logger,
	vehicleRepo *repository.VehicleRepository,
	tripRepo *repository.TripRepository,
	routeRepo *repository.RouteRepository,
	receiptRepo *repository.ReceiptRepository,
	settingRepo *repository.SettingsRepository,
	logbook *service.LogbookService,
	suggestions *service.SuggestionService,
	mode *appmode.Machine,
	wsHub *ws.Hub,
) *Handler {
	return &Handler{
		logger:      logger,
		vehicleRepo: vehicleRepo,
		tripRepo:    tripRepo,
		routeRepo:   routeRepo,
		receiptRepo: receiptRepo,
		settingRepo: settingRepo,
		logbook:     logbook,
		suggestions: suggestions,
		mode:        mode,
		wsHub:       wsHub,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true // 本地单用户工具，允许所有来源
			},
		},
	}
}

// RegisterRoutes 注册路由
func (h *Handler) RegisterRoutes(r *gin.Engine) {
	// API 路由
	api := r.Group("/api")
	{
		// 车辆
		api.GET("/vehicles", h.ListVehicles)
		api.POST("/vehicles", h.CreateVehicle)
		api.GET("/vehicles/:id", h.GetVehicle)
		api.PUT("/vehicles/:id", h.UpdateVehicle)

		// 行程
		api.GET("/vehicles/:id/trips", h.ListTrips)
		api.POST("/vehicles/:id/trips", h.CreateTrip)
		api.PUT("/trips/:id", h.UpdateTrip)
		api.DELETE("/trips/:id", h.DeleteTrip)

		// 台账
		api.GET("/vehicles/:id/ledger", h.GetLedger)
		api.GET("/vehicles/:id/suggestion", h.GetSuggestion)

		// 路线与小票
		api.GET("/vehicles/:id/routes", h.ListRoutes)
		api.GET("/vehicles/:id/receipts", h.ListReceipts)
		api.POST("/vehicles/:id/receipts", h.CreateReceipt)

		// 设置
		api.GET("/vehicles/:id/settings/:key", h.GetSetting)
		api.PUT("/vehicles/:id/settings/:key", h.SetSetting)

		// 导出
		api.GET("/vehicles/:id/export/pdf", h.ExportPDF)
		api.GET("/vehicles/:id/export/html", h.ExportHTML)

		// 应用模式
		api.GET("/mode", h.GetMode)
	}

	// WebSocket
	r.GET("/ws", h.HandleWebSocket)

	// 健康检查
	r.GET("/health", h.HealthCheck)
}

// requireWrite 只读模式下拒绝写操作
func (h *Handler) requireWrite(c *gin.Context) bool {
	if h.mode.CanWrite() {
		return true
	}
	status := h.mode.Status()
	c.JSON(http.StatusConflict, gin.H{
		"error":  "Application is in read-only mode",
		"reason": status.Reason,
	})
	return false
}

// parseID 解析路径中的 id 参数
func parseID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid ID"})
		return 0, false
	}
	return id, true
}

// parseYear 解析 year 查询参数，缺省为当前年
func parseYear(c *gin.Context) int {
	year, err := strconv.Atoi(c.DefaultQuery("year", ""))
	if err != nil || year <= 0 {
		return time.Now().Year()
	}
	return year
}

// GetMode 获取当前读写模式
func (h *Handler) GetMode(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"data": h.mode.Status()})
}

// HandleWebSocket WebSocket 处理
func (h *Handler) HandleWebSocket(c *gin.Context) {
	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Error("Failed to upgrade websocket", zap.Error(err))
		return
	}

	client := ws.NewClient(h.wsHub, conn)
	client.Register()

	// 启动读写协程
	go client.ReadPump()
	go client.WritePump()
}

// HealthCheck 健康检查
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":     "ok",
		"mode":       h.mode.Status().Mode,
		"ws_clients": h.wsHub.ClientCount(),
	})
}
