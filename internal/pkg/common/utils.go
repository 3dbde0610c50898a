package common

import (
	"math"
	"time"

	"github.com/google/uuid"
)

// GenerateUUID 生成 UUID
func GenerateUUID() string {
	return uuid.New().String()
}

// TimeLayout 固定寬度的 RFC3339 格式，字串排序即時間排序
const TimeLayout = "2006-01-02T15:04:05.000000Z07:00"

// FormatTime 以 UTC 與 TimeLayout 格式化時間
func FormatTime(t time.Time) string {
	return t.UTC().Format(TimeLayout)
}

// NowISO 目前時間
func NowISO() string {
	return FormatTime(time.Now())
}

// Round2 四捨五入至小數點後兩位
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}
