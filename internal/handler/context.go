package handler

type ContextKey string

var (
	RoleCtxKey       ContextKey = "role"
	SubCtxKey        ContextKey = "sub"
	MyInfoCtx        ContextKey = "myInfo"
	UserInfoCtx      ContextKey = "userInfo"
	ZoneCtx          ContextKey = "zone"
	VehicleCtx       ContextKey = "vehicle"
	ScheduleEntryCtx ContextKey = "scheduleEntry"
)
