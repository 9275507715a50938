package domain

import "time"

// 司机和勤务员是片区的人员名录，只作为车辆固定班底和排班记录的引用对象
// 他们不登录系统，因此不放在 users 表中

type Driver struct {
	ID        int64     `json:"id"`
	ZoneID    int64     `json:"zoneID"`
	FullName  string    `json:"fullName"`
	Phone     string    `json:"phone"`
	CreatedAt time.Time `json:"createdAt"`
	Version   int32     `json:"-"`
}

type Manpower struct {
	ID        int64     `json:"id"`
	ZoneID    int64     `json:"zoneID"`
	FullName  string    `json:"fullName"`
	Phone     string    `json:"phone"`
	CreatedAt time.Time `json:"createdAt"`
	Version   int32     `json:"-"`
}
