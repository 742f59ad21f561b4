package ledger

import (
	"math"
	"math/rand"
	"strings"

	"github.com/langchou/fuelbook/internal/models"
)

// 目标超耗区间：补偿里程按 [16%, 19%] 内随机抽取的目标值计算，
// 避免每次生成完全相同的补偿里程
const (
	targetMarginMin = 0.16
	targetMarginMax = 0.19
)

// 路线匹配容差：路线里程与目标补偿里程偏差 ±10% 以内视为可用
const routeMatchTolerance = 0.10

// Suggestion 补偿行程建议，由行程录入界面作为预填草稿消费
type Suggestion struct {
	Origin      string  `json:"origin"`
	Destination string  `json:"destination"`
	DistanceKm  float64 `json:"distance_km"`
	Purpose     string  `json:"purpose"`
	RouteID     *int64  `json:"route_id,omitempty"` // 命中的历史路线，合成行程时为空
	Synthetic   bool    `json:"synthetic"`          // 是否为合成的"缓冲行程"
}

// RandomTargetMargin 在 [0.16, 0.19] 区间均匀抽取目标超耗比例。
// 随机源由调用方注入，便于测试时使用固定种子
func RandomTargetMargin(r *rand.Rand) float64 {
	return targetMarginMin + r.Float64()*(targetMarginMax-targetMarginMin)
}

// Suggest 生成补偿行程建议。
// 在路线目录中寻找里程与目标补偿里程偏差 ±10% 以内且差值最小的路线
// （差值相同时取先出现的）；命中则复用该路线，用途取起点的首个词；
// 未命中则合成一条起终点均为当前位置、里程恰为目标值的缓冲行程。
func Suggest(bufferKm float64, routes []*models.Route, currentLocation, defaultPurpose string) *Suggestion {
	var best *models.Route
	bestDiff := math.MaxFloat64

	for _, route := range routes {
		diff := math.Abs(route.DistanceKm - bufferKm)
		if diff > bufferKm*routeMatchTolerance {
			continue
		}
		if diff < bestDiff {
			best = route
			bestDiff = diff
		}
	}

	if best != nil {
		purpose := defaultPurpose
		if fields := strings.Fields(best.Origin); len(fields) > 0 {
			purpose = fields[0]
		}
		id := best.ID
		return &Suggestion{
			Origin:      best.Origin,
			Destination: best.Destination,
			DistanceKm:  best.DistanceKm,
			Purpose:     purpose,
			RouteID:     &id,
		}
	}

	return &Suggestion{
		Origin:      currentLocation,
		Destination: currentLocation,
		DistanceKm:  bufferKm,
		Purpose:     defaultPurpose,
		Synthetic:   true,
	}
}
