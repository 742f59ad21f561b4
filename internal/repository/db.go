package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// DB 数据库连接池封装
type DB struct {
	Pool *pgxpool.Pool
}

// New 创建数据库连接
func New(ctx context.Context, databaseURL string) (*DB, error) {
	config, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse database url: %w", err)
	}

	// 连接池配置
	config.MaxConns = 10
	config.MinConns = 2

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}

	// 测试连接
	if err := pool.Ping(ctx); err != nil {
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return &DB{Pool: pool}, nil
}

// Close 关闭连接池
func (db *DB) Close() {
	db.Pool.Close()
}

// Migrate 执行数据库迁移
func (db *DB) Migrate(ctx context.Context) error {
	migrations := []string{
		migrationCreateVehicles,
		migrationCreateTrips,
		migrationCreateRoutes,
		migrationCreateReceipts,
		migrationCreateSettings,
	}

	for _, m := range migrations {
		if _, err := db.Pool.Exec(ctx, m); err != nil {
			return fmt.Errorf("execute migration: %w", err)
		}
	}

	return nil
}

// 数据库迁移 SQL
const migrationCreateVehicles = `
CREATE TABLE IF NOT EXISTS vehicles (
    id BIGSERIAL PRIMARY KEY,
    name VARCHAR(255) NOT NULL,
    license_plate VARCHAR(20) NOT NULL UNIQUE,
    drivetrain VARCHAR(20) NOT NULL,
    tank_capacity_l DOUBLE PRECISION DEFAULT 0,
    battery_capacity_kwh DOUBLE PRECISION DEFAULT 0,
    passport_fuel_rate DOUBLE PRECISION DEFAULT 0,
    baseline_energy_rate DOUBLE PRECISION DEFAULT 0,
    initial_odometer_km DOUBLE PRECISION DEFAULT 0,
    initial_fuel_l DOUBLE PRECISION DEFAULT 0,
    initial_battery_kwh DOUBLE PRECISION DEFAULT 0,
    created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
    updated_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
);
`

const migrationCreateTrips = `
CREATE TABLE IF NOT EXISTS trips (
    id BIGSERIAL PRIMARY KEY,
    vehicle_id BIGINT NOT NULL REFERENCES vehicles(id),
    year INT NOT NULL,
    sort_order INT NOT NULL DEFAULT 0,
    trip_date TIMESTAMP WITH TIME ZONE NOT NULL,
    origin VARCHAR(255) NOT NULL DEFAULT '',
    destination VARCHAR(255) NOT NULL DEFAULT '',
    purpose VARCHAR(255) NOT NULL DEFAULT '',
    distance_km DOUBLE PRECISION NOT NULL DEFAULT 0,
    fuel_added_l DOUBLE PRECISION,
    fuel_full BOOLEAN NOT NULL DEFAULT false,
    energy_added_kwh DOUBLE PRECISION,
    energy_full BOOLEAN NOT NULL DEFAULT false,
    battery_override_kwh DOUBLE PRECISION,
    created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
    updated_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS idx_trips_vehicle_year ON trips(vehicle_id, year);
CREATE INDEX IF NOT EXISTS idx_trips_sort ON trips(vehicle_id, year, sort_order);
`

const migrationCreateRoutes = `
CREATE TABLE IF NOT EXISTS routes (
    id BIGSERIAL PRIMARY KEY,
    vehicle_id BIGINT NOT NULL REFERENCES vehicles(id),
    origin VARCHAR(255) NOT NULL,
    destination VARCHAR(255) NOT NULL,
    distance_km DOUBLE PRECISION NOT NULL,
    usage_count INT NOT NULL DEFAULT 1,
    UNIQUE (vehicle_id, origin, destination, distance_km)
);
CREATE INDEX IF NOT EXISTS idx_routes_vehicle_id ON routes(vehicle_id);
`

const migrationCreateReceipts = `
CREATE TABLE IF NOT EXISTS receipts (
    id BIGSERIAL PRIMARY KEY,
    vehicle_id BIGINT NOT NULL REFERENCES vehicles(id),
    receipt_date DATE NOT NULL,
    amount_l DOUBLE PRECISION NOT NULL,
    station VARCHAR(255) NOT NULL DEFAULT ''
);
CREATE INDEX IF NOT EXISTS idx_receipts_vehicle_id ON receipts(vehicle_id);
`

const migrationCreateSettings = `
CREATE TABLE IF NOT EXISTS settings (
    id BIGSERIAL PRIMARY KEY,
    vehicle_id BIGINT NOT NULL REFERENCES vehicles(id),
    key VARCHAR(100) NOT NULL,
    value TEXT NOT NULL DEFAULT '',
    UNIQUE (vehicle_id, key)
);
`
