package utils

import (
	"testing"

	"github.com/fieldops-dev/zone-service-manager/backend/internal/domain"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestGenerateRandomRecurringDays(t *testing.T) {
	for i := 0; i < 100; i++ {
		days := GenerateRandomRecurringDays()
		require.NotEmpty(t, days)
		require.LessOrEqual(t, len(days), 7)

		seen := make(map[int32]bool)
		for _, day := range days {
			require.GreaterOrEqual(t, day, int32(1))
			require.LessOrEqual(t, day, int32(7))
			require.False(t, seen[day])
			seen[day] = true
		}
	}
}

func TestGenerateRandomUser(t *testing.T) {
	zoneID := int64(1)
	user, err := GenerateRandomUser(domain.RoleChief, &zoneID, "test-password", "example.com")
	require.NoError(t, err)
	require.NotEmpty(t, user.Username)
	require.NotEmpty(t, user.FullName)
	require.Equal(t, domain.RoleChief, user.Role)
	require.Equal(t, user.Username+"@example.com", user.Email)
	require.True(t, user.BelongsToZone(zoneID))
	require.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("test-password")))
}

func TestGenerateRandomScheduleEntry(t *testing.T) {
	zone := &domain.Zone{ID: 1}
	supervisor := &domain.User{ID: 2}
	vehicle := &domain.Vehicle{ID: 3, ZoneID: 1}
	driverID := int64(4)
	assignment := &domain.VehicleAssignment{
		VehicleID:   3,
		DriverID:    &driverID,
		ManpowerIDs: []int64{5, 6},
	}

	for i := 0; i < 100; i++ {
		entry := GenerateRandomScheduleEntry(zone, supervisor, vehicle, assignment)
		require.Equal(t, zone.ID, entry.ZoneID)
		require.Equal(t, supervisor.ID, entry.SupervisorID)
		require.Equal(t, vehicle.ID, entry.VehicleID)
		require.Equal(t, assignment.DriverID, entry.DriverID)
		require.Equal(t, assignment.ManpowerIDs, entry.ManpowerIDs)
		require.GreaterOrEqual(t, entry.ServiceDay, int32(1))
		require.LessOrEqual(t, entry.ServiceDay, int32(7))
		require.NoError(t, ValidateServiceTimeRange(entry.ServiceStart, entry.ServiceEnd))
	}
}
