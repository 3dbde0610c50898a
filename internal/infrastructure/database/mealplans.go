package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"meal-planner/internal/core/mealplan"
	"meal-planner/internal/pkg/common"
)

const mealPlanColumns = `id, user_id, plan_type, goal, start_date, end_date, days, dietary_preferences, cooking_methods, created_at`

// CreateMealPlan 新增計畫
func (d *DB) CreateMealPlan(ctx context.Context, plan *mealplan.MealPlan) error {
	days, err := json.Marshal(plan.Days)
	if err != nil {
		return fmt.Errorf("failed to encode days: %w", err)
	}
	prefs, err := json.Marshal(nonNil(plan.DietaryPreferences))
	if err != nil {
		return fmt.Errorf("failed to encode dietary preferences: %w", err)
	}
	methods, err := json.Marshal(nonNil(plan.CookingMethods))
	if err != nil {
		return fmt.Errorf("failed to encode cooking methods: %w", err)
	}

	_, err = d.SQL.ExecContext(ctx, d.rebind(`INSERT INTO meal_plans (`+mealPlanColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`),
		plan.ID, plan.UserID, plan.PlanType, plan.Goal, plan.StartDate, plan.EndDate,
		string(days), string(prefs), string(methods), plan.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert meal plan: %w", err)
	}
	return nil
}

// ListMealPlans 列出使用者的計畫，新的在前
func (d *DB) ListMealPlans(ctx context.Context, userID string) ([]mealplan.MealPlan, error) {
	rows, err := d.SQL.QueryContext(ctx, d.rebind(`SELECT `+mealPlanColumns+`
		FROM meal_plans WHERE user_id = ? ORDER BY created_at DESC, id DESC`), userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query meal plans: %w", err)
	}
	defer rows.Close()

	plans := make([]mealplan.MealPlan, 0)
	for rows.Next() {
		plan, err := scanMealPlan(rows)
		if err != nil {
			return nil, err
		}
		plans = append(plans, *plan)
	}
	return plans, rows.Err()
}

// GetMealPlan 取得使用者的單一計畫
func (d *DB) GetMealPlan(ctx context.Context, userID, planID string) (*mealplan.MealPlan, error) {
	row := d.SQL.QueryRowContext(ctx, d.rebind(`SELECT `+mealPlanColumns+`
		FROM meal_plans WHERE id = ? AND user_id = ?`), planID, userID)

	plan, err := scanMealPlan(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrPlanNotFound
	}
	return plan, err
}

// UpdateMealPlanDays 取代計畫的日期內容
func (d *DB) UpdateMealPlanDays(ctx context.Context, userID, planID string, days []mealplan.Day) error {
	data, err := json.Marshal(days)
	if err != nil {
		return fmt.Errorf("failed to encode days: %w", err)
	}

	res, err := d.SQL.ExecContext(ctx, d.rebind(`UPDATE meal_plans SET days = ? WHERE id = ? AND user_id = ?`),
		string(data), planID, userID)
	if err != nil {
		return fmt.Errorf("failed to update meal plan: %w", err)
	}
	return requireAffected(res, common.ErrPlanNotFound)
}

// DeleteMealPlan 在同一個交易中刪除計畫與引用它的購物清單
func (d *DB) DeleteMealPlan(ctx context.Context, userID, planID string) error {
	tx, err := d.SQL.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, d.rebind(`DELETE FROM meal_plans WHERE id = ? AND user_id = ?`), planID, userID)
	if err != nil {
		return fmt.Errorf("failed to delete meal plan: %w", err)
	}
	if err := requireAffected(res, common.ErrPlanNotFound); err != nil {
		return err
	}

	if _, err := tx.ExecContext(ctx, d.rebind(`DELETE FROM shopping_lists WHERE meal_plan_id = ? AND user_id = ?`), planID, userID); err != nil {
		return fmt.Errorf("failed to delete shopping lists: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanMealPlan(row rowScanner) (*mealplan.MealPlan, error) {
	var plan mealplan.MealPlan
	var days, prefs, methods string
	err := row.Scan(&plan.ID, &plan.UserID, &plan.PlanType, &plan.Goal, &plan.StartDate, &plan.EndDate,
		&days, &prefs, &methods, &plan.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan meal plan: %w", err)
	}

	if err := json.Unmarshal([]byte(days), &plan.Days); err != nil {
		return nil, fmt.Errorf("failed to decode days of meal plan %s: %w", plan.ID, err)
	}
	if err := json.Unmarshal([]byte(prefs), &plan.DietaryPreferences); err != nil {
		return nil, fmt.Errorf("failed to decode dietary preferences: %w", err)
	}
	if err := json.Unmarshal([]byte(methods), &plan.CookingMethods); err != nil {
		return nil, fmt.Errorf("failed to decode cooking methods: %w", err)
	}
	return &plan, nil
}

// requireAffected 沒有列被影響時回傳 notFound
func requireAffected(res sql.Result, notFound error) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if n == 0 {
		return notFound
	}
	return nil
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
