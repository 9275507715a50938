package domain

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

const complaintWindow = 24 * time.Hour

func newAdjudicatedEntry(status ServiceStatus, decidedAt time.Time) *ServiceScheduleEntry {
	return &ServiceScheduleEntry{
		ID:                  1,
		ZoneID:              1,
		SupervisorID:        2,
		VehicleID:           3,
		ServiceDay:          1,
		ServiceStart:        "08:00:00",
		ServiceEnd:          "12:00:00",
		SupervisorStatus:    &status,
		SupervisorDecidedAt: &decidedAt,
	}
}

func TestAwaitingSupervisor(t *testing.T) {
	entry := &ServiceScheduleEntry{}
	require.False(t, entry.AwaitingSupervisor())

	status := ServiceStatusNotComplete
	entry.ChiefReportStatus = &status
	require.True(t, entry.AwaitingSupervisor())

	entry.SupervisorStatus = &status
	require.False(t, entry.AwaitingSupervisor())
}

func TestIsVisibleTo(t *testing.T) {
	decidedAt := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		entry    *ServiceScheduleEntry
		clientID int64
		now      time.Time
		want     bool
	}{
		{
			name:     "未裁定的记录永远可见",
			entry:    &ServiceScheduleEntry{},
			clientID: 10,
			now:      decidedAt.Add(365 * 24 * time.Hour),
			want:     true,
		},
		{
			name:     "裁定为未完成的记录永远可见",
			entry:    newAdjudicatedEntry(ServiceStatusNotComplete, decidedAt),
			clientID: 10,
			now:      decidedAt.Add(365 * 24 * time.Hour),
			want:     true,
		},
		{
			name:     "裁定为已完成后窗口内可见",
			entry:    newAdjudicatedEntry(ServiceStatusComplete, decidedAt),
			clientID: 10,
			now:      decidedAt.Add(time.Hour),
			want:     true,
		},
		{
			name:     "窗口边界时刻仍然可见",
			entry:    newAdjudicatedEntry(ServiceStatusComplete, decidedAt),
			clientID: 10,
			now:      decidedAt.Add(complaintWindow),
			want:     true,
		},
		{
			name:     "窗口经过后不可见",
			entry:    newAdjudicatedEntry(ServiceStatusComplete, decidedAt),
			clientID: 10,
			now:      decidedAt.Add(complaintWindow + time.Second),
			want:     false,
		},
		{
			name: "已提异议的客户在窗口外仍然可见",
			entry: func() *ServiceScheduleEntry {
				e := newAdjudicatedEntry(ServiceStatusComplete, decidedAt)
				e.ComplainedClientIDs = []int64{10}
				return e
			}(),
			clientID: 10,
			now:      decidedAt.Add(365 * 24 * time.Hour),
			want:     true,
		},
		{
			name: "其他客户在窗口外不可见",
			entry: func() *ServiceScheduleEntry {
				e := newAdjudicatedEntry(ServiceStatusComplete, decidedAt)
				e.ComplainedClientIDs = []int64{10}
				return e
			}(),
			clientID: 11,
			now:      decidedAt.Add(complaintWindow + time.Second),
			want:     false,
		},
		{
			name: "裁定为已完成但缺失裁定时间时保守可见",
			entry: func() *ServiceScheduleEntry {
				status := ServiceStatusComplete
				return &ServiceScheduleEntry{SupervisorStatus: &status}
			}(),
			clientID: 10,
			now:      decidedAt,
			want:     true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, tt.entry.IsVisibleTo(tt.clientID, tt.now, complaintWindow))
		})
	}
}

func TestCanComplain(t *testing.T) {
	decidedAt := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		entry    *ServiceScheduleEntry
		clientID int64
		now      time.Time
		want     bool
	}{
		{
			name:     "未裁定的记录不能提异议",
			entry:    &ServiceScheduleEntry{},
			clientID: 10,
			now:      decidedAt,
			want:     false,
		},
		{
			name:     "裁定为未完成的记录不能提异议",
			entry:    newAdjudicatedEntry(ServiceStatusNotComplete, decidedAt),
			clientID: 10,
			now:      decidedAt.Add(time.Hour),
			want:     false,
		},
		{
			name:     "窗口内可以提异议",
			entry:    newAdjudicatedEntry(ServiceStatusComplete, decidedAt),
			clientID: 10,
			now:      decidedAt.Add(time.Hour),
			want:     true,
		},
		{
			name:     "窗口边界时刻仍然可以提异议",
			entry:    newAdjudicatedEntry(ServiceStatusComplete, decidedAt),
			clientID: 10,
			now:      decidedAt.Add(complaintWindow),
			want:     true,
		},
		{
			name:     "窗口经过后不能提异议",
			entry:    newAdjudicatedEntry(ServiceStatusComplete, decidedAt),
			clientID: 10,
			now:      decidedAt.Add(complaintWindow + time.Second),
			want:     false,
		},
		{
			name: "同一客户不能重复提异议",
			entry: func() *ServiceScheduleEntry {
				e := newAdjudicatedEntry(ServiceStatusComplete, decidedAt)
				e.ComplainedClientIDs = []int64{10}
				return e
			}(),
			clientID: 10,
			now:      decidedAt.Add(time.Hour),
			want:     false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, tt.entry.CanComplain(tt.clientID, tt.now, complaintWindow))
		})
	}
}

func TestValidateComplaint(t *testing.T) {
	decidedAt := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		entry    *ServiceScheduleEntry
		clientID int64
		now      time.Time
		wantErr  error
	}{
		{
			name:     "未裁定",
			entry:    &ServiceScheduleEntry{},
			clientID: 10,
			now:      decidedAt,
			wantErr:  ErrNotAdjudicatedComplete,
		},
		{
			name:     "裁定为未完成",
			entry:    newAdjudicatedEntry(ServiceStatusNotComplete, decidedAt),
			clientID: 10,
			now:      decidedAt.Add(time.Hour),
			wantErr:  ErrNotAdjudicatedComplete,
		},
		{
			name: "重复异议",
			entry: func() *ServiceScheduleEntry {
				e := newAdjudicatedEntry(ServiceStatusComplete, decidedAt)
				e.ComplainedClientIDs = []int64{10}
				return e
			}(),
			clientID: 10,
			now:      decidedAt.Add(time.Hour),
			wantErr:  ErrAlreadyComplained,
		},
		{
			name:     "窗口已经关闭",
			entry:    newAdjudicatedEntry(ServiceStatusComplete, decidedAt),
			clientID: 10,
			now:      decidedAt.Add(complaintWindow + time.Second),
			wantErr:  ErrComplaintWindowClosed,
		},
		{
			name:     "窗口内合法",
			entry:    newAdjudicatedEntry(ServiceStatusComplete, decidedAt),
			clientID: 10,
			now:      decidedAt.Add(time.Hour),
			wantErr:  nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.entry.ValidateComplaint(tt.clientID, tt.now, complaintWindow)
			if tt.wantErr == nil {
				require.NoError(t, err)
				return
			}
			require.True(t, errors.Is(err, tt.wantErr))
		})
	}
}
