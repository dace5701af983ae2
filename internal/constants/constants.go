package constants

// 购物车状态常量
const (
	CartStatusActive    = "active"
	CartStatusAbandoned = "abandoned"
)

// 异步任务类型常量
const (
	TaskCartAbandonSweep   = "cart:abandon_sweep"
	TaskCartRetentionSweep = "cart:retention_sweep"
)

// 队列名称常量
const (
	QueueDefault = "default"
)
