package repository

import (
	"context"
	"fmt"

	"github.com/langchou/fuelbook/internal/models"
)

// RouteRepository 路线缓存仓库
type RouteRepository struct {
	db *DB
}

// NewRouteRepository 创建路线仓库
func NewRouteRepository(db *DB) *RouteRepository {
	return &RouteRepository{db: db}
}

// Upsert 记录一次路线使用：已存在则使用次数 +1
func (r *RouteRepository) Upsert(ctx context.Context, route *models.Route) error {
	query := `
		INSERT INTO routes (vehicle_id, origin, destination, distance_km)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (vehicle_id, origin, destination, distance_km)
		DO UPDATE SET usage_count = routes.usage_count + 1
		RETURNING id, usage_count
	`
	err := r.db.Pool.QueryRow(ctx, query,
		route.VehicleID,
		route.Origin,
		route.Destination,
		route.DistanceKm,
	).Scan(&route.ID, &route.UsageCount)

	if err != nil {
		return fmt.Errorf("upsert route: %w", err)
	}
	return nil
}

// ListByVehicleID 获取车辆的路线目录（按创建顺序，保证匹配结果确定）
func (r *RouteRepository) ListByVehicleID(ctx context.Context, vehicleID int64) ([]*models.Route, error) {
	query := `
		SELECT id, vehicle_id, origin, destination, distance_km, usage_count
		FROM routes WHERE vehicle_id = $1 ORDER BY id
	`
	rows, err := r.db.Pool.Query(ctx, query, vehicleID)
	if err != nil {
		return nil, fmt.Errorf("list routes: %w", err)
	}
	defer rows.Close()

	var routes []*models.Route
	for rows.Next() {
		route := &models.Route{}
		err := rows.Scan(
			&route.ID,
			&route.VehicleID,
			&route.Origin,
			&route.Destination,
			&route.DistanceKm,
			&route.UsageCount,
		)
		if err != nil {
			return nil, fmt.Errorf("scan route: %w", err)
		}
		routes = append(routes, route)
	}

	return routes, nil
}
