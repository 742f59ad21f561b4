package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
)

// SettingsRepository 车辆键值设置仓库
type SettingsRepository struct {
	db *DB
}

// NewSettingsRepository 创建设置仓库
func NewSettingsRepository(db *DB) *SettingsRepository {
	return &SettingsRepository{db: db}
}

// Get 读取设置，不存在时返回默认值
func (r *SettingsRepository) Get(ctx context.Context, vehicleID int64, key, defaultValue string) (string, error) {
	var value string
	query := `SELECT value FROM settings WHERE vehicle_id = $1 AND key = $2`
	err := r.db.Pool.QueryRow(ctx, query, vehicleID, key).Scan(&value)
	if err == pgx.ErrNoRows {
		return defaultValue, nil
	}
	if err != nil {
		return "", fmt.Errorf("get setting: %w", err)
	}
	return value, nil
}

// Set 写入设置
func (r *SettingsRepository) Set(ctx context.Context, vehicleID int64, key, value string) error {
	query := `
		INSERT INTO settings (vehicle_id, key, value)
		VALUES ($1, $2, $3)
		ON CONFLICT (vehicle_id, key) DO UPDATE SET value = $3
	`
	if _, err := r.db.Pool.Exec(ctx, query, vehicleID, key, value); err != nil {
		return fmt.Errorf("set setting: %w", err)
	}
	return nil
}
