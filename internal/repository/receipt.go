package repository

import (
	"context"
	"fmt"

	"github.com/langchou/fuelbook/internal/models"
)

// ReceiptRepository 加油小票仓库
type ReceiptRepository struct {
	db *DB
}

// NewReceiptRepository 创建小票仓库
func NewReceiptRepository(db *DB) *ReceiptRepository {
	return &ReceiptRepository{db: db}
}

// Create 登记小票
func (r *ReceiptRepository) Create(ctx context.Context, receipt *models.Receipt) error {
	query := `
		INSERT INTO receipts (vehicle_id, receipt_date, amount_l, station)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`
	err := r.db.Pool.QueryRow(ctx, query,
		receipt.VehicleID,
		receipt.ReceiptDate,
		receipt.AmountL,
		receipt.Station,
	).Scan(&receipt.ID)

	if err != nil {
		return fmt.Errorf("insert receipt: %w", err)
	}
	return nil
}

// ListByVehicleYear 获取车辆某年的小票
func (r *ReceiptRepository) ListByVehicleYear(ctx context.Context, vehicleID int64, year int) ([]*models.Receipt, error) {
	query := `
		SELECT id, vehicle_id, to_char(receipt_date, 'YYYY-MM-DD'), amount_l, station
		FROM receipts
		WHERE vehicle_id = $1 AND EXTRACT(YEAR FROM receipt_date) = $2
		ORDER BY receipt_date, id
	`
	rows, err := r.db.Pool.Query(ctx, query, vehicleID, year)
	if err != nil {
		return nil, fmt.Errorf("list receipts: %w", err)
	}
	defer rows.Close()

	var receipts []*models.Receipt
	for rows.Next() {
		receipt := &models.Receipt{}
		err := rows.Scan(
			&receipt.ID,
			&receipt.VehicleID,
			&receipt.ReceiptDate,
			&receipt.AmountL,
			&receipt.Station,
		)
		if err != nil {
			return nil, fmt.Errorf("scan receipt: %w", err)
		}
		receipts = append(receipts, receipt)
	}

	return receipts, nil
}
