package database

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"meal-planner/internal/infrastructure/config"
	"meal-planner/internal/pkg/common"

	_ "github.com/lib/pq"
	"go.uber.org/zap"
	_ "modernc.org/sqlite"
)

// 支援的資料庫驅動
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// DB 資料庫連線，同時實作各個領域的 Repository
type DB struct {
	SQL    *sql.DB
	driver string
}

// Open 開啟資料庫、確認連線並建立資料表
func Open(ctx context.Context, cfg config.DatabaseConfig) (*DB, error) {
	switch cfg.Driver {
	case DriverPostgres:
	case DriverSQLite:
		if dir := filepath.Dir(cfg.DSN); cfg.DSN != ":memory:" && dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("failed to create database directory: %w", err)
			}
		}
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}

	sqlDB, err := sql.Open(cfg.Driver, cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite 只允許單一寫入者
	if cfg.Driver == DriverSQLite {
		sqlDB.SetMaxOpenConns(1)
	}

	if err := sqlDB.PingContext(ctx); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	db := &DB{SQL: sqlDB, driver: cfg.Driver}
	if err := db.CreateSchema(ctx); err != nil {
		sqlDB.Close()
		return nil, err
	}

	common.LogInfo("Database ready", zap.String("driver", cfg.Driver))
	return db, nil
}

// Ping 檢查連線
func (d *DB) Ping(ctx context.Context) error {
	return d.SQL.PingContext(ctx)
}

// Driver 驅動名稱
func (d *DB) Driver() string {
	return d.driver
}

// Close 關閉連線
func (d *DB) Close() error {
	return d.SQL.Close()
}

// CreateSchema 建立所有資料表，可重複執行
func (d *DB) CreateSchema(ctx context.Context) error {
	for _, stmt := range schema {
		if _, err := d.SQL.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to create schema: %w", err)
		}
	}
	return nil
}

// rebind 將 ? 佔位符轉為 postgres 的 $n
func (d *DB) rebind(query string) string {
	if d.driver != DriverPostgres {
		return query
	}
	var b strings.Builder
	b.Grow(len(query) + 8)
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// forUpdate postgres 在交易中鎖定讀取的列
func (d *DB) forUpdate() string {
	if d.driver == DriverPostgres {
		return " FOR UPDATE"
	}
	return ""
}

var schema = []string{
	`CREATE TABLE IF NOT EXISTS meal_plans (
    id TEXT PRIMARY KEY,
    user_id TEXT NOT NULL,
    plan_type TEXT NOT NULL,
    goal TEXT NOT NULL DEFAULT '',
    start_date TEXT NOT NULL,
    end_date TEXT NOT NULL,
    days TEXT NOT NULL,
    dietary_preferences TEXT NOT NULL DEFAULT '[]',
    cooking_methods TEXT NOT NULL DEFAULT '[]',
    created_at TEXT NOT NULL
)`,
	`CREATE INDEX IF NOT EXISTS idx_meal_plans_user ON meal_plans (user_id, created_at)`,
	`CREATE TABLE IF NOT EXISTS pantry_items (
    id TEXT PRIMARY KEY,
    user_id TEXT NOT NULL,
    name TEXT NOT NULL,
    quantity DOUBLE PRECISION NOT NULL DEFAULT 0 CHECK (quantity >= 0),
    unit TEXT NOT NULL,
    category TEXT NOT NULL DEFAULT 'Other',
    low_stock_threshold DOUBLE PRECISION,
    created_at TEXT NOT NULL,
    updated_at TEXT NOT NULL
)`,
	`CREATE INDEX IF NOT EXISTS idx_pantry_items_user ON pantry_items (user_id, category, name)`,
	`CREATE TABLE IF NOT EXISTS shopping_lists (
    id TEXT PRIMARY KEY,
    user_id TEXT NOT NULL,
    meal_plan_id TEXT NOT NULL,
    items TEXT NOT NULL,
    created_at TEXT NOT NULL
)`,
	`CREATE INDEX IF NOT EXISTS idx_shopping_lists_user ON shopping_lists (user_id, created_at)`,
	`CREATE INDEX IF NOT EXISTS idx_shopping_lists_plan ON shopping_lists (meal_plan_id)`,
}
