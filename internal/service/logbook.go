package service

import (
	"context"
	"fmt"
	"math"

	"go.uber.org/zap"

	"github.com/langchou/fuelbook/internal/ledger"
	"github.com/langchou/fuelbook/internal/models"
	"github.com/langchou/fuelbook/internal/repository"
)

// 小票匹配容差：日期相同且加油量相差不超过 0.01L 视为同一笔
const receiptAmountTolerance = 0.01

// LogbookService 台账服务：加载 (vehicle, year) 快照并驱动台账引擎。
// 服务本身无状态，不同车辆可并发调用
type LogbookService struct {
	logger      *zap.Logger
	vehicleRepo *repository.VehicleRepository
	tripRepo    *repository.TripRepository
	receiptRepo *repository.ReceiptRepository
}

// NewLogbookService 创建台账服务
func NewLogbookService(
	logger *zap.Logger,
	vehicleRepo *repository.VehicleRepository,
	tripRepo *repository.TripRepository,
	receiptRepo *repository.ReceiptRepository,
) *LogbookService {
	return &LogbookService{
		logger:      logger,
		vehicleRepo: vehicleRepo,
		tripRepo:    tripRepo,
		receiptRepo: receiptRepo,
	}
}

// LedgerView 一次台账重算的完整视图，交给表格/导出层消费后丢弃
type LedgerView struct {
	Vehicle *models.Vehicle `json:"vehicle"`
	Year    int             `json:"year"`
	Trips   []*models.Trip  `json:"trips"`
	Result  *ledger.Result  `json:"result"`
}

// BuildLedger 全量重算某车某年的台账。
// 每次读取都从完整行程列表重建，计算为线性扫描，代价可忽略
func (s *LogbookService) BuildLedger(ctx context.Context, vehicleID int64, year int) (*LedgerView, error) {
	vehicle, err := s.vehicleRepo.GetByID(ctx, vehicleID)
	if err != nil {
		return nil, fmt.Errorf("load vehicle: %w", err)
	}

	trips, err := s.tripRepo.ListByVehicleYear(ctx, vehicleID, year)
	if err != nil {
		return nil, fmt.Errorf("load trips: %w", err)
	}

	receipts, err := s.receiptRepo.ListByVehicleYear(ctx, vehicleID, year)
	if err != nil {
		return nil, fmt.Errorf("load receipts: %w", err)
	}

	matches := matchReceipts(trips, receipts)
	result := ledger.Walk(vehicle, trips, matches)

	s.logger.Debug("Ledger rebuilt",
		zap.Int64("vehicle_id", vehicleID),
		zap.Int("year", year),
		zap.Int("trips", len(trips)),
		zap.Float64("distance_km", result.Totals.DistanceKm))

	return &LedgerView{
		Vehicle: vehicle,
		Year:    year,
		Trips:   trips,
		Result:  result,
	}, nil
}

// matchReceipts 按日期 + 加油量把小票分配给加油行程，一张小票只用一次
func matchReceipts(trips []*models.Trip, receipts []*models.Receipt) map[int64]bool {
	matches := make(map[int64]bool)
	used := make(map[int64]bool)

	for _, trip := range trips {
		if trip.FuelAddedL == nil {
			continue
		}
		tripDate := trip.TripDate.Format("2006-01-02")
		for _, receipt := range receipts {
			if used[receipt.ID] || receipt.ReceiptDate != tripDate {
				continue
			}
			if math.Abs(receipt.AmountL-*trip.FuelAddedL) <= receiptAmountTolerance {
				matches[trip.ID] = true
				used[receipt.ID] = true
				break
			}
		}
	}

	return matches
}
