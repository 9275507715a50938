package utils

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestValidateServiceTimeRange(t *testing.T) {
	tests := []struct {
		name    string
		start   string
		end     string
		wantErr bool
	}{
		{name: "合法时间段", start: "08:00:00", end: "12:00:00", wantErr: false},
		{name: "跨分钟的合法时间段", start: "08:30:00", end: "08:31:00", wantErr: false},
		{name: "开始时间格式错误", start: "8点", end: "12:00:00", wantErr: true},
		{name: "结束时间格式错误", start: "08:00:00", end: "12:00", wantErr: true},
		{name: "结束时间早于开始时间", start: "12:00:00", end: "08:00:00", wantErr: true},
		{name: "结束时间等于开始时间", start: "08:00:00", end: "08:00:00", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateServiceTimeRange(tt.start, tt.end)
			if tt.wantErr {
				require.Error(t, err)
			} else {
				require.NoError(t, err)
			}
		})
	}
}
