package service

import (
	"context"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/langchou/fuelbook/internal/config"
	"github.com/langchou/fuelbook/internal/ledger"
	"github.com/langchou/fuelbook/internal/repository"
)

// SuggestionService 补偿行程建议服务
type SuggestionService struct {
	cfg       *config.Config
	logger    *zap.Logger
	logbook   *LogbookService
	routeRepo *repository.RouteRepository

	mu  sync.Mutex
	rng *rand.Rand
}

// NewSuggestionService 创建建议服务
func NewSuggestionService(
	cfg *config.Config,
	logger *zap.Logger,
	logbook *LogbookService,
	routeRepo *repository.RouteRepository,
) *SuggestionService {
	return &SuggestionService{
		cfg:       cfg,
		logger:    logger,
		logbook:   logbook,
		routeRepo: routeRepo,
		rng:       rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// SuggestionView 建议结果及其计算依据，供录入界面展示
type SuggestionView struct {
	Suggestion   *ledger.Suggestion `json:"suggestion"`
	BufferKm     float64            `json:"buffer_km"`     // 目标补偿里程
	TargetMargin float64            `json:"target_margin"` // 本次抽取的目标超耗比例
	CurrentRate  float64            `json:"current_rate"`  // 年度实测消耗率
}

// Suggest 生成补偿行程建议。
// 以年度累计加注量/里程对技术规范值计算补偿里程，目标超耗在
// [16%, 19%] 内随机抽取，优先复用里程相近的历史路线
func (s *SuggestionService) Suggest(ctx context.Context, vehicleID int64, year int, currentLocation string) (*SuggestionView, error) {
	view, err := s.logbook.BuildLedger(ctx, vehicleID, year)
	if err != nil {
		return nil, err
	}

	totals := view.Result.Totals

	// 有油车按油量算补偿里程，纯电车按电量
	amountFilled := totals.FuelAddedL
	referenceRate := view.Vehicle.PassportFuelRate
	if !view.Vehicle.UsesFuel() {
		amountFilled = totals.EnergyAddedKwh
		referenceRate = view.Vehicle.BaselineEnergyRate
	}

	s.mu.Lock()
	targetMargin := ledger.RandomTargetMargin(s.rng)
	s.mu.Unlock()

	bufferKm := ledger.BufferDistance(amountFilled, totals.DistanceKm, referenceRate, targetMargin)

	routes, err := s.routeRepo.ListByVehicleID(ctx, vehicleID)
	if err != nil {
		return nil, fmt.Errorf("load routes: %w", err)
	}

	suggestion := ledger.Suggest(bufferKm, routes, currentLocation, s.cfg.BufferTripPurpose)

	s.logger.Info("Compensation suggestion generated",
		zap.Int64("vehicle_id", vehicleID),
		zap.Int("year", year),
		zap.Float64("buffer_km", bufferKm),
		zap.Float64("target_margin", targetMargin),
		zap.Bool("synthetic", suggestion.Synthetic))

	return &SuggestionView{
		Suggestion:   suggestion,
		BufferKm:     bufferKm,
		TargetMargin: targetMargin,
		CurrentRate:  ledger.ConsumptionRate(amountFilled, totals.DistanceKm),
	}, nil
}
