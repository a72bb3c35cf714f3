package model

import "time"

// 注文ステータス更新、キャンセルなど。
type AuditAction string

const (
	//決済ステータスを更新した操作。
	AuditActionUpdatePaymentStatus AuditAction = "UPDATE_PAYMENT_STATUS"
	//金額・クーポンを更新した操作。
	AuditActionUpdateOrder AuditAction = "UPDATE_ORDER"
	//出荷ステータスを更新した操作。
	AuditActionUpdateSubOrderStatus AuditAction = "UPDATE_SUBORDER_STATUS"
	AuditActionCancelOrder          AuditAction = "CANCEL_ORDER"
	AuditActionDeleteOrder          AuditAction = "DELETE_ORDER"
)

// 何に対する操作か
type AuditResourceType string

const (
	AuditResourceOrder    AuditResourceType = "order"
	AuditResourceSubOrder AuditResourceType = "suborder"
)

// 監査ログ。
// 「誰が」「何を」「どの対象に」「どう変えたか」を残す。
type AuditLog struct {
	ID int64 `gorm:"primaryKey;autoIncrement" json:"id"`

	//操作したユーザーのID（システム操作は0）。
	ActorUserID int64 `gorm:"not null;index" json:"actor_user_id"`

	Action AuditAction `gorm:"type:varchar(50);not null;index" json:"action"`

	ResourceType AuditResourceType `gorm:"type:varchar(50);not null;index" json:"resource_type"`

	ResourceID int64 `gorm:"not null;index" json:"resource_id"`

	//JSON文字列で保存する。
	BeforeJSON string `gorm:"type:text" json:"before_json"`

	AfterJSON string `gorm:"type:text" json:"after_json"`

	CreatedAt time.Time `gorm:"not null;index" json:"created_at"`
}
