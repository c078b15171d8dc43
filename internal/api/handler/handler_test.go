package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"campuscard/backend/config"
	"campuscard/backend/internal/dto"
	"campuscard/backend/internal/model"
	"campuscard/backend/internal/service"
	"campuscard/backend/pkg/response"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// ═══════════════════════════════════════════════════════════
// Mock Services
// ═══════════════════════════════════════════════════════════

// ── Mock AuthService ──

type mockAuthService struct {
	loginResult      *dto.TokenResponse
	loginErr         error
	refreshResult    *dto.TokenResponse
	refreshErr       error
	logoutErr        error
	logoutRefresh    string
	getCurrentResult *dto.UserDetailResponse
	getCurrentErr    error
	changePassErr    error
}

func (m *mockAuthService) Login(_ context.Context, _ *dto.LoginRequest) (*dto.TokenResponse, error) {
	return m.loginResult, m.loginErr
}
func (m *mockAuthService) RefreshToken(_ context.Context, _ string) (*dto.TokenResponse, error) {
	return m.refreshResult, m.refreshErr
}
func (m *mockAuthService) Logout(_ context.Context, _ string, _ time.Time, refreshToken string) error {
	m.logoutRefresh = refreshToken
	return m.logoutErr
}
func (m *mockAuthService) GetCurrentUser(_ context.Context, _ string) (*dto.UserDetailResponse, error) {
	return m.getCurrentResult, m.getCurrentErr
}
func (m *mockAuthService) ChangePassword(_ context.Context, _ string, _ *dto.ChangePasswordRequest) error {
	return m.changePassErr
}

// ── Mock StudentService ──

type mockStudentService struct {
	createResult *dto.CreateStudentResponse
	createErr    error
	getResult    *dto.UserResponse
	getErr       error
	listResult   []dto.UserResponse
	listTotal    int64
	listErr      error
	updateResult *dto.UserResponse
	updateErr    error
	deleteErr    error
	resetResult  *dto.ResetPasswordResponse
	resetErr     error
	revealResult *dto.RevealTempPasswordResponse
	revealErr    error
	setPhotoErr  error
	parseResult  []service.ImportStudentRow
	parseErr     error
	importResult *dto.ImportStudentResponse
	importErr    error
}

func (m *mockStudentService) Create(_ context.Context, _ *dto.CreateStudentRequest, _ string) (*dto.CreateStudentResponse, error) {
	return m.createResult, m.createErr
}
func (m *mockStudentService) GetByID(_ context.Context, _ string) (*dto.UserResponse, error) {
	return m.getResult, m.getErr
}
func (m *mockStudentService) List(_ context.Context, _ *dto.StudentListRequest) ([]dto.UserResponse, int64, error) {
	return m.listResult, m.listTotal, m.listErr
}
func (m *mockStudentService) Update(_ context.Context, _ string, _ *dto.UpdateStudentRequest, _, _ string) (*dto.UserResponse, error) {
	return m.updateResult, m.updateErr
}
func (m *mockStudentService) Delete(_ context.Context, _ string, _ string) error {
	return m.deleteErr
}
func (m *mockStudentService) ResetPassword(_ context.Context, _ string, _ string) (*dto.ResetPasswordResponse, error) {
	return m.resetResult, m.resetErr
}
func (m *mockStudentService) RevealTempPassword(_ context.Context, _ string) (*dto.RevealTempPasswordResponse, error) {
	return m.revealResult, m.revealErr
}
func (m *mockStudentService) SetPhoto(_ context.Context, _, _, _ string) error {
	return m.setPhotoErr
}
func (m *mockStudentService) ParseImportFile(_ io.Reader) ([]service.ImportStudentRow, error) {
	return m.parseResult, m.parseErr
}
func (m *mockStudentService) ImportStudents(_ context.Context, _ []service.ImportStudentRow, _ string) (*dto.ImportStudentResponse, error) {
	return m.importResult, m.importErr
}

// ── Mock PaymentService ──

type mockPaymentService struct {
	submitResult *dto.PaymentResponse
	submitErr    error
	getResult    *dto.PaymentResponse
	getErr       error
	listResult   []dto.PaymentResponse
	listTotal    int64
	listErr      error
	mineResult   []dto.PaymentResponse
	mineErr      error
	reviewResult *dto.ReviewPaymentResponse
	reviewErr    error
}

func (m *mockPaymentService) Submit(_ context.Context, _ string, _ *dto.SubmitPaymentRequest) (*dto.PaymentResponse, error) {
	return m.submitResult, m.submitErr
}
func (m *mockPaymentService) GetByID(_ context.Context, _ string, _, _ string) (*dto.PaymentResponse, error) {
	return m.getResult, m.getErr
}
func (m *mockPaymentService) List(_ context.Context, _ *dto.PaymentListRequest) ([]dto.PaymentResponse, int64, error) {
	return m.listResult, m.listTotal, m.listErr
}
func (m *mockPaymentService) ListMine(_ context.Context, _ string) ([]dto.PaymentResponse, error) {
	return m.mineResult, m.mineErr
}
func (m *mockPaymentService) Review(_ context.Context, _ string, _ *dto.ReviewPaymentRequest, _ string) (*dto.ReviewPaymentResponse, error) {
	return m.reviewResult, m.reviewErr
}

// ── Mock CardService ──

type mockCardService struct {
	getResult    *dto.CardResponse
	getErr       error
	listResult   []dto.CardResponse
	listTotal    int64
	listErr      error
	mineResult   []dto.CardResponse
	mineErr      error
	updateResult *dto.CardResponse
	updateErr    error
}

func (m *mockCardService) GetByID(_ context.Context, _ string, _, _ string) (*dto.CardResponse, error) {
	return m.getResult, m.getErr
}
func (m *mockCardService) List(_ context.Context, _ *dto.CardListRequest) ([]dto.CardResponse, int64, error) {
	return m.listResult, m.listTotal, m.listErr
}
func (m *mockCardService) ListMine(_ context.Context, _ string) ([]dto.CardResponse, error) {
	return m.mineResult, m.mineErr
}
func (m *mockCardService) UpdateStatus(_ context.Context, _ string, _ *dto.UpdateCardStatusRequest, _ string) (*dto.CardResponse, error) {
	return m.updateResult, m.updateErr
}

// ── Mock ExportService ──

type mockExportService struct {
	buf      *bytes.Buffer
	filename string
	err      error
}

func (m *mockExportService) ExportStudents(_ context.Context, _ *dto.StudentListRequest) (*bytes.Buffer, string, error) {
	return m.buf, m.filename, m.err
}
func (m *mockExportService) ExportPayments(_ context.Context, _ *dto.PaymentListRequest) (*bytes.Buffer, string, error) {
	return m.buf, m.filename, m.err
}

// ═══════════════════════════════════════════════════════════
// Test Helpers
// ═══════════════════════════════════════════════════════════

func setupGin() (*gin.Engine, *gin.Context, *httptest.ResponseRecorder) {
	w := httptest.NewRecorder()
	c, r := gin.CreateTestContext(w)
	return r, c, w
}

func setAuth(c *gin.Context) {
	c.Set("user_id", "test-user-id")
	c.Set("role", model.RoleAdmin)
	c.Set("matricule", "AD2026001")
	c.Set("token_jti", "test-jti")
	c.Set("token_exp", time.Now().Add(15*time.Minute))
}

func setStudentAuth(c *gin.Context) {
	c.Set("user_id", "student-user-id")
	c.Set("role", model.RoleStudent)
	c.Set("matricule", "ET2026001")
}

func jsonBody(v interface{}) io.Reader {
	b, _ := json.Marshal(v)
	return bytes.NewReader(b)
}

func parseResponse(w *httptest.ResponseRecorder) response.Response {
	var resp response.Response
	json.Unmarshal(w.Body.Bytes(), &resp)
	return resp
}

// ═══════════════════════════════════════════════════════════
// AuthHandler Tests
// ═══════════════════════════════════════════════════════════

func TestAuthHandler_Login_Success(t *testing.T) {
	mock := &mockAuthService{
		loginResult: &dto.TokenResponse{
			AccessToken:  "test-access-token",
			RefreshToken: "test-refresh-token",
			ExpiresIn:    900,
		},
	}
	h := NewAuthHandler(mock)

	_, _, w := setupGin()
	req := httptest.NewRequest("POST", "/auth/login", jsonBody(dto.LoginRequest{
		Identifier: "ET2026001",
		Password:   "motdepasse1",
	}))
	req.Header.Set("Content-Type", "application/json")

	r := gin.New()
	r.POST("/auth/login", h.Login)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", w.Code)
	}
	resp := parseResponse(w)
	if resp.Code != 0 {
		t.Errorf("expected code 0, got %d", resp.Code)
	}
}

func TestAuthHandler_Login_BadJSON(t *testing.T) {
	mock := &mockAuthService{}
	h := NewAuthHandler(mock)

	_, _, w := setupGin()
	req := httptest.NewRequest("POST", "/auth/login", bytes.NewReader([]byte("invalid json")))
	req.Header.Set("Content-Type", "application/json")

	r := gin.New()
	r.POST("/auth/login", h.Login)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
}

// 账号不存在与密码错误折叠为同一响应，防止账号枚举
func TestAuthHandler_Login_CredentialErrorsCollapsed(t *testing.T) {
	for _, svcErr := range []error{
		service.ErrUserNotFound,
		service.ErrInvalidPassword,
		service.ErrInvalidCredentials,
	} {
		mock := &mockAuthService{loginErr: svcErr}
		h := NewAuthHandler(mock)

		_, _, w := setupGin()
		req := httptest.NewRequest("POST", "/auth/login", jsonBody(dto.LoginRequest{
			Identifier: "ET2026001",
			Password:   "wrong",
		}))
		req.Header.Set("Content-Type", "application/json")

		r := gin.New()
		r.POST("/auth/login", h.Login)
		r.ServeHTTP(w, req)

		if w.Code != http.StatusUnauthorized {
			t.Errorf("err=%v: expected 401, got %d", svcErr, w.Code)
		}
		resp := parseResponse(w)
		if resp.Code != 11001 {
			t.Errorf("err=%v: expected error code 11001, got %d", svcErr, resp.Code)
		}
		if resp.Message != service.ErrInvalidCredentials.Error() {
			t.Errorf("err=%v: message should not leak cause, got %q", svcErr, resp.Message)
		}
	}
}

func TestAuthHandler_Login_AccountNotConfigured(t *testing.T) {
	mock := &mockAuthService{loginErr: service.ErrAccountNotConfigured}
	h := NewAuthHandler(mock)

	_, _, w := setupGin()
	req := httptest.NewRequest("POST", "/auth/login", jsonBody(dto.LoginRequest{
		Identifier: "ET2026001",
		Password:   "motdepasse1",
	}))
	req.Header.Set("Content-Type", "application/json")

	r := gin.New()
	r.POST("/auth/login", h.Login)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", w.Code)
	}
	resp := parseResponse(w)
	if resp.Code != 11002 {
		t.Errorf("expected error code 11002, got %d", resp.Code)
	}
}

func TestAuthHandler_RefreshToken_Success(t *testing.T) {
	mock := &mockAuthService{
		refreshResult: &dto.TokenResponse{
			AccessToken:  "new-access",
			RefreshToken: "new-refresh",
			ExpiresIn:    900,
		},
	}
	h := NewAuthHandler(mock)

	_, _, w := setupGin()
	req := httptest.NewRequest("POST", "/auth/refresh", jsonBody(dto.RefreshTokenRequest{
		RefreshToken: "old-refresh",
	}))
	req.Header.Set("Content-Type", "application/json")

	r := gin.New()
	r.POST("/auth/refresh", h.RefreshToken)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", w.Code)
	}
}

func TestAuthHandler_RefreshToken_MissingToken(t *testing.T) {
	mock := &mockAuthService{}
	h := NewAuthHandler(mock)

	_, _, w := setupGin()
	req := httptest.NewRequest("POST", "/auth/refresh", jsonBody(map[string]string{}))
	req.Header.Set("Content-Type", "application/json")

	r := gin.New()
	r.POST("/auth/refresh", h.RefreshToken)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
}

func TestAuthHandler_GetCurrentUser_Unauthenticated(t *testing.T) {
	mock := &mockAuthService{}
	h := NewAuthHandler(mock)

	_, _, w := setupGin()
	req := httptest.NewRequest("GET", "/auth/me", nil)

	r := gin.New()
	r.GET("/auth/me", h.GetCurrentUser)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", w.Code)
	}
}

func TestAuthHandler_ChangePassword_SameAsOld(t *testing.T) {
	mock := &mockAuthService{changePassErr: service.ErrSameAsOldPassword}
	h := NewAuthHandler(mock)

	_, _, w := setupGin()
	req := httptest.NewRequest("PUT", "/auth/password", jsonBody(dto.ChangePasswordRequest{
		OldPassword: "ancien-mdp",
		NewPassword: "ancien-mdp",
	}))
	req.Header.Set("Content-Type", "application/json")

	r := gin.New()
	r.PUT("/auth/password", func(c *gin.Context) {
		setAuth(c)
		h.ChangePassword(c)
	})
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
	resp := parseResponse(w)
	if resp.Code != 11005 {
		t.Errorf("expected error code 11005, got %d", resp.Code)
	}
}

func TestAuthHandler_Logout_Success(t *testing.T) {
	mock := &mockAuthService{}
	h := NewAuthHandler(mock)

	_, _, w := setupGin()
	req := httptest.NewRequest("POST", "/auth/logout", nil)

	r := gin.New()
	r.POST("/auth/logout", func(c *gin.Context) {
		setAuth(c)
		h.Logout(c)
	})
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", w.Code)
	}
}

func TestAuthHandler_Logout_ForwardsRefreshToken(t *testing.T) {
	mock := &mockAuthService{}
	h := NewAuthHandler(mock)

	_, _, w := setupGin()
	req := httptest.NewRequest("POST", "/auth/logout",
		jsonBody(map[string]string{"refresh_token": "some-refresh-token"}))
	req.Header.Set("Content-Type", "application/json")

	r := gin.New()
	r.POST("/auth/logout", func(c *gin.Context) {
		setAuth(c)
		h.Logout(c)
	})
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", w.Code)
	}
	if mock.logoutRefresh != "some-refresh-token" {
		t.Errorf("expected refresh token forwarded to service, got %q", mock.logoutRefresh)
	}
}

// ═══════════════════════════════════════════════════════════
// StudentHandler Tests
// ═══════════════════════════════════════════════════════════

func newTestStudentHandler(mock *mockStudentService) *StudentHandler {
	cfg := &config.Config{}
	cfg.Storage.PhotoDir = "/tmp/photos"
	cfg.Storage.MaxPhotoSize = 2 << 20
	return NewStudentHandler(cfg, mock)
}

func TestStudentHandler_Create_Success(t *testing.T) {
	mock := &mockStudentService{
		createResult: &dto.CreateStudentResponse{
			User:         &dto.UserResponse{ID: "user-001", Matricule: "ET2026001"},
			TempPassword: "a1b2c3d4e5",
		},
	}
	h := newTestStudentHandler(mock)

	_, _, w := setupGin()
	req := httptest.NewRequest("POST", "/students", jsonBody(dto.CreateStudentRequest{
		Matricule: "ET2026001",
		FirstName: "Alice",
		LastName:  "Mballa",
		Email:     "alice@campus.test",
	}))
	req.Header.Set("Content-Type", "application/json")

	r := gin.New()
	r.POST("/students", func(c *gin.Context) {
		setAuth(c)
		h.CreateStudent(c)
	})
	r.ServeHTTP(w, req)

	if w.Code != http.StatusCreated {
		t.Errorf("expected 201, got %d", w.Code)
	}
}

func TestStudentHandler_Create_DuplicateMatricule(t *testing.T) {
	mock := &mockStudentService{createErr: service.ErrMatriculeExists}
	h := newTestStudentHandler(mock)

	_, _, w := setupGin()
	req := httptest.NewRequest("POST", "/students", jsonBody(dto.CreateStudentRequest{
		Matricule: "ET2026001",
		FirstName: "Alice",
		LastName:  "Mballa",
		Email:     "alice@campus.test",
	}))
	req.Header.Set("Content-Type", "application/json")

	r := gin.New()
	r.POST("/students", func(c *gin.Context) {
		setAuth(c)
		h.CreateStudent(c)
	})
	r.ServeHTTP(w, req)

	if w.Code != http.StatusConflict {
		t.Errorf("expected 409, got %d", w.Code)
	}
	resp := parseResponse(w)
	if resp.Code != 12002 {
		t.Errorf("expected error code 12002, got %d", resp.Code)
	}
}

// 学生查询他人资料被拦在 Handler 层
func TestStudentHandler_Get_ForbiddenForOtherStudent(t *testing.T) {
	mock := &mockStudentService{
		getResult: &dto.UserResponse{ID: "user-001"},
	}
	h := newTestStudentHandler(mock)

	_, _, w := setupGin()
	req := httptest.NewRequest("GET", "/students/user-001", nil)

	r := gin.New()
	r.GET("/students/:id", func(c *gin.Context) {
		setStudentAuth(c)
		h.GetStudent(c)
	})
	r.ServeHTTP(w, req)

	if w.Code != http.StatusForbidden {
		t.Errorf("expected 403, got %d", w.Code)
	}
	resp := parseResponse(w)
	if resp.Code != 10003 {
		t.Errorf("expected error code 10003, got %d", resp.Code)
	}
}

func TestStudentHandler_Get_SelfAllowed(t *testing.T) {
	mock := &mockStudentService{
		getResult: &dto.UserResponse{ID: "student-user-id", Matricule: "ET2026001"},
	}
	h := newTestStudentHandler(mock)

	_, _, w := setupGin()
	req := httptest.NewRequest("GET", "/students/student-user-id", nil)

	r := gin.New()
	r.GET("/students/:id", func(c *gin.Context) {
		setStudentAuth(c)
		h.GetStudent(c)
	})
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", w.Code)
	}
}

func TestStudentHandler_Delete_SelfRefused(t *testing.T) {
	mock := &mockStudentService{deleteErr: service.ErrSelfDelete}
	h := newTestStudentHandler(mock)

	_, _, w := setupGin()
	req := httptest.NewRequest("DELETE", "/students/test-user-id", nil)

	r := gin.New()
	r.DELETE("/students/:id", func(c *gin.Context) {
		setAuth(c)
		h.DeleteStudent(c)
	})
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
	resp := parseResponse(w)
	if resp.Code != 12004 {
		t.Errorf("expected error code 12004, got %d", resp.Code)
	}
}

func TestStudentHandler_RevealTempPassword_Gone(t *testing.T) {
	mock := &mockStudentService{revealErr: service.ErrTempPasswordGone}
	h := newTestStudentHandler(mock)

	_, _, w := setupGin()
	req := httptest.NewRequest("GET", "/students/user-001/temp-password", nil)

	r := gin.New()
	r.GET("/students/:id/temp-password", func(c *gin.Context) {
		setAuth(c)
		h.RevealTempPassword(c)
	})
	r.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", w.Code)
	}
}

// ═══════════════════════════════════════════════════════════
// PaymentHandler Tests
// ═══════════════════════════════════════════════════════════

func TestPaymentHandler_Submit_Success(t *testing.T) {
	mock := &mockPaymentService{
		submitResult: &dto.PaymentResponse{
			ID:     "pay-001",
			Status: model.PaymentPending,
		},
	}
	h := NewPaymentHandler(mock)

	_, _, w := setupGin()
	req := httptest.NewRequest("POST", "/payments", jsonBody(dto.SubmitPaymentRequest{
		Method:    "mobile_money",
		Reference: "MM-12345",
	}))
	req.Header.Set("Content-Type", "application/json")

	r := gin.New()
	r.POST("/payments", func(c *gin.Context) {
		setStudentAuth(c)
		h.SubmitPayment(c)
	})
	r.ServeHTTP(w, req)

	if w.Code != http.StatusCreated {
		t.Errorf("expected 201, got %d", w.Code)
	}
}

func TestPaymentHandler_Submit_PhotoRequired(t *testing.T) {
	mock := &mockPaymentService{submitErr: service.ErrPhotoRequired}
	h := NewPaymentHandler(mock)

	_, _, w := setupGin()
	req := httptest.NewRequest("POST", "/payments", jsonBody(dto.SubmitPaymentRequest{
		Method: "cash",
	}))
	req.Header.Set("Content-Type", "application/json")

	r := gin.New()
	r.POST("/payments", func(c *gin.Context) {
		setStudentAuth(c)
		h.SubmitPayment(c)
	})
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
	resp := parseResponse(w)
	if resp.Code != 14005 {
		t.Errorf("expected error code 14005, got %d", resp.Code)
	}
}

func TestPaymentHandler_Review_AlreadyReviewed(t *testing.T) {
	mock := &mockPaymentService{reviewErr: service.ErrPaymentAlreadyReviewed}
	h := NewPaymentHandler(mock)

	_, _, w := setupGin()
	req := httptest.NewRequest("POST", "/payments/pay-001/review", jsonBody(dto.ReviewPaymentRequest{
		Decision: "approve",
	}))
	req.Header.Set("Content-Type", "application/json")

	r := gin.New()
	r.POST("/payments/:id/review", func(c *gin.Context) {
		setAuth(c)
		h.ReviewPayment(c)
	})
	r.ServeHTTP(w, req)

	if w.Code != http.StatusConflict {
		t.Errorf("expected 409, got %d", w.Code)
	}
	resp := parseResponse(w)
	if resp.Code != 14003 {
		t.Errorf("expected error code 14003, got %d", resp.Code)
	}
}

func TestPaymentHandler_Review_BadDecision(t *testing.T) {
	mock := &mockPaymentService{}
	h := NewPaymentHandler(mock)

	_, _, w := setupGin()
	req := httptest.NewRequest("POST", "/payments/pay-001/review", jsonBody(map[string]string{
		"decision": "peut-être",
	}))
	req.Header.Set("Content-Type", "application/json")

	r := gin.New()
	r.POST("/payments/:id/review", func(c *gin.Context) {
		setAuth(c)
		h.ReviewPayment(c)
	})
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
}

// ═══════════════════════════════════════════════════════════
// CardHandler Tests
// ═══════════════════════════════════════════════════════════

func TestCardHandler_UpdateStatus_Success(t *testing.T) {
	mock := &mockCardService{
		updateResult: &dto.CardResponse{
			ID:     "card-001",
			Status: model.CardPrinted,
		},
	}
	h := NewCardHandler(mock)

	_, _, w := setupGin()
	req := httptest.NewRequest("PUT", "/cards/card-001/status", jsonBody(dto.UpdateCardStatusRequest{
		Status: model.CardPrinted,
	}))
	req.Header.Set("Content-Type", "application/json")

	r := gin.New()
	r.PUT("/cards/:id/status", func(c *gin.Context) {
		setAuth(c)
		h.UpdateCardStatus(c)
	})
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", w.Code)
	}
}

func TestCardHandler_UpdateStatus_BadTransition(t *testing.T) {
	mock := &mockCardService{updateErr: service.ErrCardBadTransition}
	h := NewCardHandler(mock)

	_, _, w := setupGin()
	req := httptest.NewRequest("PUT", "/cards/card-001/status", jsonBody(dto.UpdateCardStatusRequest{
		Status: model.CardDelivered,
	}))
	req.Header.Set("Content-Type", "application/json")

	r := gin.New()
	r.PUT("/cards/:id/status", func(c *gin.Context) {
		setAuth(c)
		h.UpdateCardStatus(c)
	})
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
	resp := parseResponse(w)
	if resp.Code != 15002 {
		t.Errorf("expected error code 15002, got %d", resp.Code)
	}
}

func TestCardHandler_Get_NotFound(t *testing.T) {
	mock := &mockCardService{getErr: service.ErrCardNotFound}
	h := NewCardHandler(mock)

	_, _, w := setupGin()
	req := httptest.NewRequest("GET", "/cards/absent", nil)

	r := gin.New()
	r.GET("/cards/:id", func(c *gin.Context) {
		setAuth(c)
		h.GetCard(c)
	})
	r.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", w.Code)
	}
}

// ═══════════════════════════════════════════════════════════
// ExportHandler Tests
// ═══════════════════════════════════════════════════════════

func TestExportHandler_ExportStudents_Success(t *testing.T) {
	mock := &mockExportService{
		buf:      bytes.NewBufferString("fake-xlsx-content"),
		filename: "etudiants_20260901.xlsx",
	}
	h := NewExportHandler(mock)

	_, _, w := setupGin()
	req := httptest.NewRequest("GET", "/export/students", nil)

	r := gin.New()
	r.GET("/export/students", func(c *gin.Context) {
		setAuth(c)
		h.ExportStudents(c)
	})
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", w.Code)
	}
	cd := w.Header().Get("Content-Disposition")
	if cd == "" || !bytes.Contains([]byte(cd), []byte("etudiants_20260901.xlsx")) {
		t.Errorf("Content-Disposition should carry filename, got %q", cd)
	}
	if w.Body.String() != "fake-xlsx-content" {
		t.Error("body should carry the file content")
	}
}
