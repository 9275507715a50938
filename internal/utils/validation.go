package utils

import (
	"errors"
	"time"
)

// ValidateServiceTimeRange 检查服务时间段的格式和先后顺序
func ValidateServiceTimeRange(start string, end string) error {
	startTime, err := time.Parse("15:04:05", start)
	if err != nil {
		return errors.New("服务开始时间格式错误")
	}
	endTime, err := time.Parse("15:04:05", end)
	if err != nil {
		return errors.New("服务结束时间格式错误")
	}
	if !endTime.After(startTime) {
		return errors.New("服务结束时间必须晚于开始时间")
	}
	return nil
}
