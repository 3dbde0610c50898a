package pantry

// Item 食材庫存項目
type Item struct {
	ID                string   `json:"id"`
	UserID            string   `json:"user_id"`
	Name              string   `json:"name"`
	Quantity          float64  `json:"quantity"`
	Unit              string   `json:"unit"`
	Category          string   `json:"category"`
	LowStockThreshold *float64 `json:"low_stock_threshold,omitempty"`
	CreatedAt         string   `json:"created_at"`
	UpdatedAt         string   `json:"updated_at"`
}

// IsLowStock 是否低於低庫存門檻
func (i Item) IsLowStock() bool {
	return i.LowStockThreshold != nil && i.Quantity <= *i.LowStockThreshold
}

// CreateInput 新增庫存的輸入
type CreateInput struct {
	Name              string   `json:"name" binding:"required"`
	Quantity          float64  `json:"quantity"`
	Unit              string   `json:"unit" binding:"required"`
	Category          string   `json:"category"`
	LowStockThreshold *float64 `json:"low_stock_threshold"`
}

// UpdateInput 部分更新庫存的輸入，nil 欄位保持不變
type UpdateInput struct {
	Name              *string  `json:"name"`
	Quantity          *float64 `json:"quantity"`
	Unit              *string  `json:"unit"`
	Category          *string  `json:"category"`
	LowStockThreshold *float64 `json:"low_stock_threshold"`

	// ClearLowStockThreshold 移除低庫存門檻；不可與 LowStockThreshold 同時指定
	ClearLowStockThreshold bool `json:"clear_low_stock_threshold"`
}
