package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"meal-planner/internal/core/shopping"
	"meal-planner/internal/pkg/common"
)

const shoppingListColumns = `id, user_id, meal_plan_id, items, created_at`

// CreateShoppingList 新增購物清單
func (d *DB) CreateShoppingList(ctx context.Context, list *shopping.ShoppingList) error {
	items, err := encodeItems(list.Items)
	if err != nil {
		return err
	}

	_, err = d.SQL.ExecContext(ctx, d.rebind(`INSERT INTO shopping_lists (`+shoppingListColumns+`)
		VALUES (?, ?, ?, ?, ?)`),
		list.ID, list.UserID, list.MealPlanID, items, list.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert shopping list: %w", err)
	}
	return nil
}

// ListShoppingLists 列出使用者的購物清單，新的在前
func (d *DB) ListShoppingLists(ctx context.Context, userID string) ([]shopping.ShoppingList, error) {
	rows, err := d.SQL.QueryContext(ctx, d.rebind(`SELECT `+shoppingListColumns+`
		FROM shopping_lists WHERE user_id = ? ORDER BY created_at DESC, id DESC`), userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query shopping lists: %w", err)
	}
	defer rows.Close()

	lists := make([]shopping.ShoppingList, 0)
	for rows.Next() {
		list, err := scanShoppingList(rows)
		if err != nil {
			return nil, err
		}
		lists = append(lists, *list)
	}
	return lists, rows.Err()
}

// GetShoppingList 取得單一購物清單
func (d *DB) GetShoppingList(ctx context.Context, userID, listID string) (*shopping.ShoppingList, error) {
	row := d.SQL.QueryRowContext(ctx, d.rebind(`SELECT `+shoppingListColumns+`
		FROM shopping_lists WHERE id = ? AND user_id = ?`), listID, userID)

	list, err := scanShoppingList(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrShoppingListNotFound
	}
	return list, err
}

// SetItemChecked 在交易中切換單一項目的勾選狀態
func (d *DB) SetItemChecked(ctx context.Context, userID, listID string, index int, checked bool) (*shopping.ShoppingList, error) {
	tx, err := d.SQL.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	row := tx.QueryRowContext(ctx, d.rebind(`SELECT `+shoppingListColumns+`
		FROM shopping_lists WHERE id = ? AND user_id = ?`+d.forUpdate()), listID, userID)
	list, err := scanShoppingList(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrShoppingListNotFound
	}
	if err != nil {
		return nil, err
	}

	if index < 0 || index >= len(list.Items) {
		return nil, common.ErrInvalidItemIndex
	}
	list.Items[index].Checked = checked

	items, err := encodeItems(list.Items)
	if err != nil {
		return nil, err
	}
	if _, err := tx.ExecContext(ctx, d.rebind(`UPDATE shopping_lists SET items = ? WHERE id = ?`), items, listID); err != nil {
		return nil, fmt.Errorf("failed to update shopping list: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return list, nil
}

// DeleteShoppingList 刪除購物清單
func (d *DB) DeleteShoppingList(ctx context.Context, userID, listID string) error {
	res, err := d.SQL.ExecContext(ctx, d.rebind(`DELETE FROM shopping_lists WHERE id = ? AND user_id = ?`), listID, userID)
	if err != nil {
		return fmt.Errorf("failed to delete shopping list: %w", err)
	}
	return requireAffected(res, common.ErrShoppingListNotFound)
}

func scanShoppingList(row rowScanner) (*shopping.ShoppingList, error) {
	var list shopping.ShoppingList
	var items string
	if err := row.Scan(&list.ID, &list.UserID, &list.MealPlanID, &items, &list.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan shopping list: %w", err)
	}
	if err := json.Unmarshal([]byte(items), &list.Items); err != nil {
		return nil, fmt.Errorf("failed to decode items of shopping list %s: %w", list.ID, err)
	}
	if list.Items == nil {
		list.Items = []shopping.Item{}
	}
	return &list, nil
}

func encodeItems(items []shopping.Item) (string, error) {
	if items == nil {
		items = []shopping.Item{}
	}
	data, err := json.Marshal(items)
	if err != nil {
		return "", fmt.Errorf("failed to encode shopping list items: %w", err)
	}
	return string(data), nil
}
