package constants

const (
	EnvDevelopment = "development"
	EnvTest        = "test"
	EnvProduction  = "production"

	DefaultPage     = 1
	DefaultPageSize = 20
	MaxPageSize     = 100
	LogsPageSize    = 50

	HeaderXRequestID = "X-Request-ID"

	// Context keys set by middleware
	ContextKeyUserID    = "user_id"
	ContextKeyUserRole  = "user_role"
	ContextKeyRequestID = "request_id"

	TableWebsites   = "websites"
	TableAdminLogs  = "admin_logs"
	TableUsageLogs  = "usage_logs"
	TableStaffUsers = "staff_users"
	TableCasbinRule = "casbin_rule"

	ErrMsgInternalServerError = "Internal server error occurred"
)
