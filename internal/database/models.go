// Package database 定义本地数据库的数据模型
package database

import (
	"time"

	"gorm.io/gorm"
)

// 操作类型常量
const (
	ActionAddProperty    = "add_property"    // 添加属性
	ActionRemoveProperty = "remove_property" // 删除属性
	ActionBulkUpdateText = "bulk_update"     // 批量更新文本
	ActionExport         = "export"          // 导出数据库
)

// 操作状态常量
const (
	StatusSuccess = "success" // 成功
	StatusFailed  = "failed"  // 失败
)

// OperationLog 操作审计日志模型
// 记录每一次对Notion数据库的变更操作，用于追踪与问题排查
type OperationLog struct {
	ID           uint           `gorm:"primarykey" json:"id"`                 // 主键ID，自增
	RequestID    string         `gorm:"size:36;index" json:"request_id"`      // 触发操作的请求ID（UUID格式）
	Action       string         `gorm:"not null;size:30;index" json:"action"` // 操作类型：add_property、remove_property、bulk_update、export
	DatabaseID   string         `gorm:"not null;size:64;index" json:"database_id"` // 目标Notion数据库ID
	PropertyName string         `gorm:"size:200" json:"property_name"`        // 涉及的属性名称（属性操作时填写）
	Status       string         `gorm:"not null;size:20" json:"status"`       // 操作状态：success、failed
	Detail       string         `gorm:"type:text" json:"detail"`              // 操作结果描述或错误信息
	SuccessCount int            `json:"success_count"`                        // 批量操作的成功条数
	Duration     int64          `json:"duration"`                             // 操作耗时，单位为毫秒
	CreatedAt    time.Time      `json:"created_at"`                           // 日志创建时间
	UpdatedAt    time.Time      `json:"updated_at"`                           // 日志最后更新时间
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`                       // 软删除时间戳
}

// TableName 指定OperationLog模型对应的数据库表名
func (OperationLog) TableName() string {
	return "operation_logs"
}

// PageSnapshot 页面快照模型
// 保存最近一次内容拉取的原始页面JSON，任何变更操作都会使对应数据库的快照失效
type PageSnapshot struct {
	ID         uint      `gorm:"primarykey" json:"id"`                                          // 主键ID，自增
	DatabaseID string    `gorm:"not null;size:64;uniqueIndex:idx_snapshot_db_page" json:"database_id"` // 所属Notion数据库ID
	PageID     string    `gorm:"not null;size:64;uniqueIndex:idx_snapshot_db_page" json:"page_id"`     // 页面ID
	Payload    string    `gorm:"type:text" json:"payload"`                                      // 页面原始JSON
	FetchedAt  time.Time `gorm:"index" json:"fetched_at"`                                       // 拉取时间
}

// TableName 指定PageSnapshot模型对应的数据库表名
func (PageSnapshot) TableName() string {
	return "page_snapshots"
}
