package domain

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestIsRecurringDay(t *testing.T) {
	zone := &Zone{RecurringDays: []int32{1, 3, 5}}

	require.True(t, zone.IsRecurringDay(1))
	require.True(t, zone.IsRecurringDay(5))
	require.False(t, zone.IsRecurringDay(2))
	require.False(t, zone.IsRecurringDay(7))
}

func TestBelongsToZone(t *testing.T) {
	admin := &User{Role: RoleAdmin}
	require.False(t, admin.BelongsToZone(1))

	zoneID := int64(1)
	chief := &User{Role: RoleChief, ZoneID: &zoneID}
	require.True(t, chief.BelongsToZone(1))
	require.False(t, chief.BelongsToZone(2))
}
