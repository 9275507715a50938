package repository

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"strings"
	"testing"

	"github.com/fieldops-dev/zone-service-manager/backend/internal/config"
	"github.com/fieldops-dev/zone-service-manager/backend/internal/domain"
	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/stretchr/testify/require"
)

// newTestRepository 连接 TEST_DATABASE_DSN 指向的数据库，应用迁移并清空所有表
// 没有设置这个环境变量时跳过测试
func newTestRepository(t *testing.T) *Repository {
	t.Helper()

	dsn := os.Getenv("TEST_DATABASE_DSN")
	if dsn == "" {
		t.Skip("未设置 TEST_DATABASE_DSN，跳过数据库测试")
	}

	migrator, err := migrate.New("file://../../migrations", strings.Replace(dsn, "postgres://", "pgx5://", 1))
	require.NoError(t, err)
	if err := migrator.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		t.Fatal(err)
	}
	srcErr, dbErr := migrator.Close()
	require.NoError(t, srcErr)
	require.NoError(t, dbErr)

	dbpool, err := sql.Open("pgx", dsn)
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = dbpool.Close()
	})

	_, err = dbpool.Exec(`TRUNCATE zones, users RESTART IDENTITY CASCADE`)
	require.NoError(t, err)

	cfg := &config.Config{}
	cfg.Database.QueryTimeout = 10
	cfg.Database.TransactionTimeout = 20

	return NewRepository(cfg, dbpool)
}

func createTestZone(t *testing.T, r *Repository, name string) *domain.Zone {
	t.Helper()

	zone := &domain.Zone{Name: name, Description: "测试片区"}
	require.NoError(t, r.CreateZone(zone))
	return zone
}

func createTestSupervisor(t *testing.T, r *Repository, zone *domain.Zone, username string) *domain.User {
	t.Helper()

	supervisor := &domain.User{
		Username:     username,
		PasswordHash: "not-a-real-hash",
		FullName:     "测试主管",
		Email:        fmt.Sprintf("%s@example.com", username),
		Role:         domain.RoleSupervisor,
		ZoneID:       &zone.ID,
	}
	require.NoError(t, r.CreateUser(supervisor))
	return supervisor
}

func createTestVehicle(t *testing.T, r *Repository, zone *domain.Zone, plateNumber string) *domain.Vehicle {
	t.Helper()

	vehicle := &domain.Vehicle{ZoneID: zone.ID, PlateNumber: plateNumber, Model: "测试车型"}
	require.NoError(t, r.CreateVehicle(vehicle))
	return vehicle
}

func createTestDriver(t *testing.T, r *Repository, zone *domain.Zone, fullName string) *domain.Driver {
	t.Helper()

	driver := &domain.Driver{ZoneID: zone.ID, FullName: fullName, Phone: "13800000000"}
	require.NoError(t, r.CreateDriver(driver))
	return driver
}

func createTestManpower(t *testing.T, r *Repository, zone *domain.Zone, fullName string) *domain.Manpower {
	t.Helper()

	manpower := &domain.Manpower{ZoneID: zone.ID, FullName: fullName, Phone: "13900000000"}
	require.NoError(t, r.CreateManpower(manpower))
	return manpower
}

func createTestEntry(t *testing.T, r *Repository, zone *domain.Zone, supervisor *domain.User, vehicle *domain.Vehicle, driverID *int64, manpowerIDs []int64) *domain.ServiceScheduleEntry {
	t.Helper()

	entry := &domain.ServiceScheduleEntry{
		ZoneID:       zone.ID,
		SupervisorID: supervisor.ID,
		VehicleID:    vehicle.ID,
		DriverID:     driverID,
		ServiceDay:   3,
		ServiceStart: "08:00:00",
		ServiceEnd:   "12:00:00",
		ManpowerIDs:  manpowerIDs,
	}
	require.NoError(t, r.CreateServiceScheduleEntry(entry))
	return entry
}
