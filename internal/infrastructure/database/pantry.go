package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"meal-planner/internal/core/pantry"
	"meal-planner/internal/pkg/common"
)

const pantryColumns = `id, user_id, name, quantity, unit, category, low_stock_threshold, created_at, updated_at`

// ListPantryItems 依分類、名稱排序列出庫存
func (d *DB) ListPantryItems(ctx context.Context, userID string) ([]pantry.Item, error) {
	rows, err := d.SQL.QueryContext(ctx, d.rebind(`SELECT `+pantryColumns+`
		FROM pantry_items WHERE user_id = ? ORDER BY category, name, id`), userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query pantry items: %w", err)
	}
	defer rows.Close()

	items := make([]pantry.Item, 0)
	for rows.Next() {
		item, err := scanPantryItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *item)
	}
	return items, rows.Err()
}

// GetPantryItem 取得單一庫存項目
func (d *DB) GetPantryItem(ctx context.Context, userID, itemID string) (*pantry.Item, error) {
	row := d.SQL.QueryRowContext(ctx, d.rebind(`SELECT `+pantryColumns+`
		FROM pantry_items WHERE id = ? AND user_id = ?`), itemID, userID)

	item, err := scanPantryItem(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrPantryItemNotFound
	}
	return item, err
}

// CreatePantryItem 新增庫存項目
func (d *DB) CreatePantryItem(ctx context.Context, item *pantry.Item) error {
	_, err := d.SQL.ExecContext(ctx, d.rebind(`INSERT INTO pantry_items (`+pantryColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`),
		item.ID, item.UserID, item.Name, item.Quantity, item.Unit, item.Category,
		nullFloat(item.LowStockThreshold), item.CreatedAt, item.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert pantry item: %w", err)
	}
	return nil
}

// UpdatePantryItem 更新庫存項目
func (d *DB) UpdatePantryItem(ctx context.Context, item *pantry.Item) error {
	res, err := d.SQL.ExecContext(ctx, d.rebind(`UPDATE pantry_items
		SET name = ?, quantity = ?, unit = ?, category = ?, low_stock_threshold = ?, updated_at = ?
		WHERE id = ? AND user_id = ?`),
		item.Name, item.Quantity, item.Unit, item.Category, nullFloat(item.LowStockThreshold), item.UpdatedAt,
		item.ID, item.UserID,
	)
	if err != nil {
		return fmt.Errorf("failed to update pantry item: %w", err)
	}
	return requireAffected(res, common.ErrPantryItemNotFound)
}

// DeletePantryItem 刪除庫存項目
func (d *DB) DeletePantryItem(ctx context.Context, userID, itemID string) error {
	res, err := d.SQL.ExecContext(ctx, d.rebind(`DELETE FROM pantry_items WHERE id = ? AND user_id = ?`), itemID, userID)
	if err != nil {
		return fmt.Errorf("failed to delete pantry item: %w", err)
	}
	return requireAffected(res, common.ErrPantryItemNotFound)
}

func scanPantryItem(row rowScanner) (*pantry.Item, error) {
	var item pantry.Item
	var threshold sql.NullFloat64
	err := row.Scan(&item.ID, &item.UserID, &item.Name, &item.Quantity, &item.Unit, &item.Category,
		&threshold, &item.CreatedAt, &item.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan pantry item: %w", err)
	}
	if threshold.Valid {
		v := threshold.Float64
		item.LowStockThreshold = &v
	}
	return &item, nil
}

func nullFloat(v *float64) sql.NullFloat64 {
	if v == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *v, Valid: true}
}
