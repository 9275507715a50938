package seed

import (
	"encoding/csv"
	"io"
	"log/slog"
	"os"
	"slices"
	"strconv"
	"strings"

	"github.com/fieldops-dev/zone-service-manager/backend/internal/domain"
	"github.com/fieldops-dev/zone-service-manager/backend/internal/repository"
)

var requiredHeaders = []string{"片区", "固定服务日", "类型", "姓名", "电话", "车牌号", "车型"}

// SeedZoneDirectory 从花名册 CSV 中导入片区名录
// 每一行是一个片区下的司机、勤务员或车辆，片区在第一次出现时创建
func SeedZoneDirectory(r *repository.Repository) {
	file, err := os.Open("./internal/seed/data/roster.csv")
	if err != nil {
		slog.Error("打开文件失败", "error", err)
		return
	}
	defer file.Close()

	reader := csv.NewReader(file)

	// 读取表头
	headers, err := reader.Read()
	if err != nil {
		slog.Error("读取表头失败", "error", err)
		return
	}

	for _, header := range requiredHeaders {
		if !slices.Contains(headers, header) {
			slog.Error("没有找到表头列", "header", header)
			return
		}
	}

	// 读取数据
	var records []map[string]string
	for {
		row, err := reader.Read()
		if err != nil {
			if err == io.EOF {
				break
			}
			slog.Error("读取文件失败", "error", err)
			return
		}

		record := make(map[string]string)
		for i, value := range row {
			record[headers[i]] = value
		}
		records = append(records, record)
	}

	// 本次导入中已创建的片区，按名称索引
	zones := make(map[string]*domain.Zone)

	for _, record := range records {
		zoneName := record["片区"]
		if zoneName == "" {
			slog.Error("没有找到片区名称", "record", record)
			continue
		}

		zone, ok := zones[zoneName]
		if !ok {
			zone = &domain.Zone{
				Name:        zoneName,
				Description: "从花名册导入",
			}

			if err := r.CreateZone(zone); err != nil {
				slog.Error("插入片区失败", "zone", zoneName, "error", err)
				continue
			}

			// 固定服务日格式形如 "1, 3, 5"
			days := make([]int32, 0)
			for _, day := range strings.Split(record["固定服务日"], ", ") {
				if day == "" {
					continue
				}

				dayInt, err := strconv.Atoi(day)
				if err != nil {
					slog.Error("转换服务日失败", "day", day)
					continue
				}

				days = append(days, int32(dayInt))
			}

			if len(days) > 0 {
				if err := r.SetZoneServiceDays(zone.ID, days); err != nil {
					slog.Error("设置固定服务日失败", "zone", zoneName, "error", err)
				}
			}

			zones[zoneName] = zone
		}

		switch record["类型"] {
		case "司机":
			driver := &domain.Driver{
				ZoneID:   zone.ID,
				FullName: record["姓名"],
				Phone:    record["电话"],
			}
			if err := r.CreateDriver(driver); err != nil {
				slog.Error("插入司机失败", "name", driver.FullName, "error", err)
			}
		case "勤务员":
			manpower := &domain.Manpower{
				ZoneID:   zone.ID,
				FullName: record["姓名"],
				Phone:    record["电话"],
			}
			if err := r.CreateManpower(manpower); err != nil {
				slog.Error("插入勤务员失败", "name", manpower.FullName, "error", err)
			}
		case "车辆":
			vehicle := &domain.Vehicle{
				ZoneID:      zone.ID,
				PlateNumber: record["车牌号"],
				Model:       record["车型"],
			}
			if err := r.CreateVehicle(vehicle); err != nil {
				slog.Error("插入车辆失败", "plate", vehicle.PlateNumber, "error", err)
			}
		default:
			slog.Error("未知的记录类型", "type", record["类型"])
		}
	}

	slog.Info("导入片区名录完成")
}
