package domain

import (
	"time"
)

type Role string

const (
	RoleAdmin      Role = "管理员"
	RoleSupervisor Role = "片区主管"
	RoleChief      Role = "片区队长"
	RoleClient     Role = "客户"
)

type User struct {
	ID           int64     `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	FullName     string    `json:"fullName"`
	Email        string    `json:"email"`
	Role         Role      `json:"role"`
	ZoneID       *int64    `json:"zoneID"` // 管理员不属于任何片区，此时为 nil
	IsActive     bool      `json:"isActive"`
	CreatedAt    time.Time `json:"createdAt"`
	Version      int32     `json:"-"`
}

// 判断用户是否属于指定的片区
func (u *User) BelongsToZone(zoneID int64) bool {
	return u.ZoneID != nil && *u.ZoneID == zoneID
}
