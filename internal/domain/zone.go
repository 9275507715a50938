package domain

import (
	"slices"
	"time"
)

type Zone struct {
	ID            int64     `json:"id"`
	Name          string    `json:"name"`
	Description   string    `json:"description"`
	RecurringDays []int32   `json:"recurringDays"` // 片区每周固定的服务日（1~7）
	CreatedAt     time.Time `json:"createdAt"`
	Version       int32     `json:"-"`
}

// 判断某一天是固定服务日还是特殊服务日
// 这个分类只用于提示调用方，不做任何强制约束
func (z *Zone) IsRecurringDay(day int32) bool {
	return slices.Contains(z.RecurringDays, day)
}
