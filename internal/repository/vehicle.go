package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/langchou/fuelbook/internal/models"
)

// VehicleRepository 车辆数据仓库
type VehicleRepository struct {
	db *DB
}

// NewVehicleRepository 创建车辆仓库
func NewVehicleRepository(db *DB) *VehicleRepository {
	return &VehicleRepository{db: db}
}

const vehicleColumns = `id, name, license_plate, drivetrain, tank_capacity_l, battery_capacity_kwh,
	passport_fuel_rate, baseline_energy_rate, initial_odometer_km, initial_fuel_l, initial_battery_kwh,
	created_at, updated_at`

func scanVehicle(row pgx.Row) (*models.Vehicle, error) {
	v := &models.Vehicle{}
	err := row.Scan(
		&v.ID,
		&v.Name,
		&v.LicensePlate,
		&v.Drivetrain,
		&v.TankCapacityL,
		&v.BatteryCapacityKwh,
		&v.PassportFuelRate,
		&v.BaselineEnergyRate,
		&v.InitialOdometerKm,
		&v.InitialFuelL,
		&v.InitialBatteryKwh,
		&v.CreatedAt,
		&v.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return v, nil
}

// Create 创建车辆
func (r *VehicleRepository) Create(ctx context.Context, vehicle *models.Vehicle) error {
	query := `
		INSERT INTO vehicles (name, license_plate, drivetrain, tank_capacity_l, battery_capacity_kwh,
			passport_fuel_rate, baseline_energy_rate, initial_odometer_km, initial_fuel_l, initial_battery_kwh)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id, created_at, updated_at
	`
	err := r.db.Pool.QueryRow(ctx, query,
		vehicle.Name,
		vehicle.LicensePlate,
		vehicle.Drivetrain,
		vehicle.TankCapacityL,
		vehicle.BatteryCapacityKwh,
		vehicle.PassportFuelRate,
		vehicle.BaselineEnergyRate,
		vehicle.InitialOdometerKm,
		vehicle.InitialFuelL,
		vehicle.InitialBatteryKwh,
	).Scan(&vehicle.ID, &vehicle.CreatedAt, &vehicle.UpdatedAt)

	if err != nil {
		return fmt.Errorf("insert vehicle: %w", err)
	}
	return nil
}

// GetByID 获取车辆
func (r *VehicleRepository) GetByID(ctx context.Context, id int64) (*models.Vehicle, error) {
	query := `SELECT ` + vehicleColumns + ` FROM vehicles WHERE id = $1`
	vehicle, err := scanVehicle(r.db.Pool.QueryRow(ctx, query, id))
	if err != nil {
		return nil, fmt.Errorf("get vehicle by id: %w", err)
	}
	return vehicle, nil
}

// List 获取车辆列表
func (r *VehicleRepository) List(ctx context.Context) ([]*models.Vehicle, error) {
	query := `SELECT ` + vehicleColumns + ` FROM vehicles ORDER BY id`
	rows, err := r.db.Pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list vehicles: %w", err)
	}
	defer rows.Close()

	var vehicles []*models.Vehicle
	for rows.Next() {
		vehicle, err := scanVehicle(rows)
		if err != nil {
			return nil, fmt.Errorf("scan vehicle: %w", err)
		}
		vehicles = append(vehicles, vehicle)
	}

	return vehicles, nil
}

// Update 更新车辆
func (r *VehicleRepository) Update(ctx context.Context, vehicle *models.Vehicle) error {
	query := `
		UPDATE vehicles SET
			name = $1,
			license_plate = $2,
			drivetrain = $3,
			tank_capacity_l = $4,
			battery_capacity_kwh = $5,
			passport_fuel_rate = $6,
			baseline_energy_rate = $7,
			initial_odometer_km = $8,
			initial_fuel_l = $9,
			initial_battery_kwh = $10,
			updated_at = NOW()
		WHERE id = $11
	`
	_, err := r.db.Pool.Exec(ctx, query,
		vehicle.Name,
		vehicle.LicensePlate,
		vehicle.Drivetrain,
		vehicle.TankCapacityL,
		vehicle.BatteryCapacityKwh,
		vehicle.PassportFuelRate,
		vehicle.BaselineEnergyRate,
		vehicle.InitialOdometerKm,
		vehicle.InitialFuelL,
		vehicle.InitialBatteryKwh,
		vehicle.ID,
	)
	if err != nil {
		return fmt.Errorf("update vehicle: %w", err)
	}
	return nil
}
