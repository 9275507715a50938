package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"log/slog"
	"math/rand"
	"os"
	"time"

	"github.com/fieldops-dev/zone-service-manager/backend/internal/config"
	"github.com/fieldops-dev/zone-service-manager/backend/internal/domain"
	"github.com/fieldops-dev/zone-service-manager/backend/internal/repository"
	"github.com/fieldops-dev/zone-service-manager/backend/internal/seed"
	"github.com/fieldops-dev/zone-service-manager/backend/internal/utils"

	_ "github.com/jackc/pgx/v5/stdlib"
)

var zoneRoles = []domain.Role{
	domain.RoleSupervisor,
	domain.RoleChief,
	domain.RoleClient,
}

func main() {
	var op int
	var n int
	var zoneID int64

	flag.IntVar(&op, "op", 0, "要执行的操作 (1: 插入随机片区, 2: 插入随机用户, 3: 插入随机车辆和人员, 4: 插入随机排班记录, 5: 导入片区名录)")
	flag.IntVar(&n, "n", 5, "要插入的记录数量")
	flag.Int64Var(&zoneID, "zone-id", 0, "操作 2~4 的目标片区 ID")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))

	// 读取配置文件
	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("无法读取配置文件", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// 创建数据库连接池
	dbpool, err := sql.Open("pgx", cfg.Database.DSN)
	if err != nil {
		logger.Error("无法创建数据库连接池", "error", err)
		return
	}
	defer dbpool.Close()

	dbpool.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	dbpool.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	dbpool.SetConnMaxIdleTime(time.Duration(cfg.Database.MaxIdleTime) * time.Second)

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Database.ConnectTimeout)*time.Second)
	defer cancel()

	// sql.Open 只是创建数据库连接池对象，并不会立即连接到数据库，因此需要显式地 ping 一下
	if err := dbpool.PingContext(ctx); err != nil {
		logger.Error("无法连接到数据库", "error", err)
		return
	}

	// 创建 repository
	repo := repository.NewRepository(cfg, dbpool)

	// 执行操作
	switch op {
	case 0:
		slog.Error("未指定操作")
	case 1:
		if n <= 0 {
			slog.Error("请输入合法的片区数量")
			return
		}

		cnt := n
		for i := 0; i < n; i++ {
			zone := utils.GenerateRandomZone()
			if err := repo.CreateZone(zone); err != nil {
				slog.Error("无法插入片区", slog.String("error", err.Error()))
				continue
			}
			if err := repo.SetZoneServiceDays(zone.ID, zone.RecurringDays); err != nil {
				slog.Error("无法设置固定服务日", slog.String("error", err.Error()))
				continue
			}

			cnt--
		}

		slog.Info("插入片区成功", slog.Int("count", n-cnt))
	case 2:
		if n <= 0 {
			slog.Error("请输入合法的用户数量")
			return
		}
		if zoneID <= 0 {
			slog.Error("请输入合法的片区 ID")
			return
		}

		cnt := n
		for i := 0; i < n; i++ {
			role := zoneRoles[rand.Intn(len(zoneRoles))]
			user, err := utils.GenerateRandomUser(role, &zoneID, cfg.Seed.User.Password, cfg.Email.UserDomain)
			if err != nil {
				slog.Error("无法生成随机用户", slog.String("error", err.Error()))
				continue
			}

			if err := repo.CreateUser(user); err != nil {
				slog.Error("无法插入用户", slog.String("error", err.Error()))
				continue
			}

			cnt--
		}

		slog.Info("插入用户成功", slog.Int("count", n-cnt))
	case 3:
		if n <= 0 {
			slog.Error("请输入合法的记录数量")
			return
		}
		if zoneID <= 0 {
			slog.Error("请输入合法的片区 ID")
			return
		}

		// 先插入司机和勤务员，再插入车辆并为每辆车配置固定班底
		drivers := make([]*domain.Driver, 0, n)
		for i := 0; i < n; i++ {
			driver := utils.GenerateRandomDriver(zoneID)
			if err := repo.CreateDriver(driver); err != nil {
				slog.Error("无法插入司机", slog.String("error", err.Error()))
				continue
			}
			drivers = append(drivers, driver)
		}

		manpower := make([]*domain.Manpower, 0, n)
		for i := 0; i < n; i++ {
			m := utils.GenerateRandomManpower(zoneID)
			if err := repo.CreateManpower(m); err != nil {
				slog.Error("无法插入勤务员", slog.String("error", err.Error()))
				continue
			}
			manpower = append(manpower, m)
		}

		cnt := 0
		for i := 0; i < n; i++ {
			vehicle := utils.GenerateRandomVehicle(zoneID)
			if err := repo.CreateVehicle(vehicle); err != nil {
				slog.Error("无法插入车辆", slog.String("error", err.Error()))
				continue
			}

			assignment := &domain.VehicleAssignment{
				VehicleID:   vehicle.ID,
				ManpowerIDs: make([]int64, 0),
			}
			if len(drivers) > 0 {
				assignment.DriverID = &drivers[rand.Intn(len(drivers))].ID
			}
			for _, m := range manpower {
				if rand.Intn(2) == 0 {
					assignment.ManpowerIDs = append(assignment.ManpowerIDs, m.ID)
				}
			}

			if err := repo.SetVehicleAssignment(assignment); err != nil {
				slog.Error("无法配置固定班底", slog.String("error", err.Error()))
				continue
			}

			cnt++
		}

		slog.Info("插入车辆和人员成功", slog.Int("count", cnt))
	case 4:
		if n <= 0 {
			slog.Error("请输入合法的排班记录数量")
			return
		}
		if zoneID <= 0 {
			slog.Error("请输入合法的片区 ID")
			return
		}

		zone, err := repo.GetZoneByID(zoneID)
		if err != nil {
			switch {
			case errors.Is(err, sql.ErrNoRows):
				slog.Error("指定的片区不存在", slog.Int64("zone_id", zoneID))
			default:
				slog.Error("无法获取片区", slog.String("error", err.Error()))
			}
			return
		}

		supervisors, err := repo.GetUsersByZoneIDAndRole(zoneID, domain.RoleSupervisor)
		if err != nil {
			slog.Error("无法获取片区主管", slog.String("error", err.Error()))
			return
		}
		if len(supervisors) == 0 {
			slog.Error("片区中没有主管，请先插入用户", slog.Int64("zone_id", zoneID))
			return
		}

		vehicles, err := repo.GetVehiclesByZoneID(zoneID)
		if err != nil {
			slog.Error("无法获取片区车辆", slog.String("error", err.Error()))
			return
		}
		if len(vehicles) == 0 {
			slog.Error("片区中没有车辆，请先插入车辆", slog.Int64("zone_id", zoneID))
			return
		}

		cnt := 0
		for i := 0; i < n; i++ {
			supervisor := supervisors[rand.Intn(len(supervisors))]
			vehicle := vehicles[rand.Intn(len(vehicles))]

			assignment, err := repo.GetVehicleAssignment(vehicle.ID)
			if err != nil {
				slog.Error("无法获取固定班底", slog.String("error", err.Error()))
				continue
			}

			entry := utils.GenerateRandomScheduleEntry(zone, supervisor, vehicle, assignment)
			if err := repo.CreateServiceScheduleEntry(entry); err != nil {
				slog.Error("无法插入排班记录", slog.String("error", err.Error()))
				continue
			}

			cnt++
		}

		slog.Info("插入排班记录成功", slog.Int("count", cnt))
	case 5:
		seed.SeedZoneDirectory(repo)
	default:
		slog.Error("指定的操作非法")
	}
}
