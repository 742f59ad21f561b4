package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/langchou/fuelbook/internal/models"
)

// TripRepository 行程数据仓库
type TripRepository struct {
	db *DB
}

// NewTripRepository 创建行程仓库
func NewTripRepository(db *DB) *TripRepository {
	return &TripRepository{db: db}
}

const tripColumns = `id, vehicle_id, year, sort_order, trip_date, origin, destination, purpose,
	distance_km, fuel_added_l, fuel_full, energy_added_kwh, energy_full, battery_override_kwh,
	created_at, updated_at`

func scanTrip(row pgx.Row) (*models.Trip, error) {
	t := &models.Trip{}
	err := row.Scan(
		&t.ID,
		&t.VehicleID,
		&t.Year,
		&t.SortOrder,
		&t.TripDate,
		&t.Origin,
		&t.Destination,
		&t.Purpose,
		&t.DistanceKm,
		&t.FuelAddedL,
		&t.FuelFull,
		&t.EnergyAddedKwh,
		&t.EnergyFull,
		&t.BatteryOverrideKwh,
		&t.CreatedAt,
		&t.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return t, nil
}

// Create 创建行程
func (r *TripRepository) Create(ctx context.Context, trip *models.Trip) error {
	// 未指定排序键时排到分区末尾
	if trip.SortOrder == 0 {
		query := `SELECT COALESCE(MAX(sort_order), 0) + 1 FROM trips WHERE vehicle_id = $1 AND year = $2`
		if err := r.db.Pool.QueryRow(ctx, query, trip.VehicleID, trip.Year).Scan(&trip.SortOrder); err != nil {
			return fmt.Errorf("next sort order: %w", err)
		}
	}

	query := `
		INSERT INTO trips (vehicle_id, year, sort_order, trip_date, origin, destination, purpose,
			distance_km, fuel_added_l, fuel_full, energy_added_kwh, energy_full, battery_override_kwh)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING id, created_at, updated_at
	`
	err := r.db.Pool.QueryRow(ctx, query,
		trip.VehicleID,
		trip.Year,
		trip.SortOrder,
		trip.TripDate,
		trip.Origin,
		trip.Destination,
		trip.Purpose,
		trip.DistanceKm,
		trip.FuelAddedL,
		trip.FuelFull,
		trip.EnergyAddedKwh,
		trip.EnergyFull,
		trip.BatteryOverrideKwh,
	).Scan(&trip.ID, &trip.CreatedAt, &trip.UpdatedAt)

	if err != nil {
		return fmt.Errorf("insert trip: %w", err)
	}
	return nil
}

// Update 更新行程
func (r *TripRepository) Update(ctx context.Context, trip *models.Trip) error {
	// year 必须随 trip_date 一起更新，否则跨年改期的行程会留在旧分区
	query := `
		UPDATE trips SET
			year = $1,
			sort_order = $2,
			trip_date = $3,
			origin = $4,
			destination = $5,
			purpose = $6,
			distance_km = $7,
			fuel_added_l = $8,
			fuel_full = $9,
			energy_added_kwh = $10,
			energy_full = $11,
			battery_override_kwh = $12,
			updated_at = NOW()
		WHERE id = $13
	`
	_, err := r.db.Pool.Exec(ctx, query,
		trip.Year,
		trip.SortOrder,
		trip.TripDate,
		trip.Origin,
		trip.Destination,
		trip.Purpose,
		trip.DistanceKm,
		trip.FuelAddedL,
		trip.FuelFull,
		trip.EnergyAddedKwh,
		trip.EnergyFull,
		trip.BatteryOverrideKwh,
		trip.ID,
	)
	if err != nil {
		return fmt.Errorf("update trip: %w", err)
	}
	return nil
}

// Delete 删除行程
func (r *TripRepository) Delete(ctx context.Context, id int64) error {
	if _, err := r.db.Pool.Exec(ctx, `DELETE FROM trips WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete trip: %w", err)
	}
	return nil
}

// GetByID 获取行程
func (r *TripRepository) GetByID(ctx context.Context, id int64) (*models.Trip, error) {
	query := `SELECT ` + tripColumns + ` FROM trips WHERE id = $1`
	trip, err := scanTrip(r.db.Pool.QueryRow(ctx, query, id))
	if err != nil {
		return nil, fmt.Errorf("get trip by id: %w", err)
	}
	return trip, nil
}

// ListByVehicleYear 按台账顺序获取 (vehicle, year) 分区内的全部行程。
// 排序键：手动排序优先，日期、id 兜底；台账计算依赖该顺序
func (r *TripRepository) ListByVehicleYear(ctx context.Context, vehicleID int64, year int) ([]*models.Trip, error) {
	query := `SELECT ` + tripColumns + ` FROM trips
		WHERE vehicle_id = $1 AND year = $2
		ORDER BY sort_order, trip_date, id`
	rows, err := r.db.Pool.Query(ctx, query, vehicleID, year)
	if err != nil {
		return nil, fmt.Errorf("list trips: %w", err)
	}
	defer rows.Close()

	var trips []*models.Trip
	for rows.Next() {
		trip, err := scanTrip(rows)
		if err != nil {
			return nil, fmt.Errorf("scan trip: %w", err)
		}
		trips = append(trips, trip)
	}

	return trips, nil
}
