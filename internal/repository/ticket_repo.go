package repository

import (
	"context"

	"gorm.io/gorm"

	"campuscard/backend/internal/model"
)

// TicketListFilters 工单列表过滤条件
type TicketListFilters struct {
	Status string
	UserID string
}

// TicketRepository 工单数据访问接口
type TicketRepository interface {
	Create(ctx context.Context, ticket *model.Ticket) error
	// GetByID 返回工单及其全部消息（按时间正序）
	GetByID(ctx context.Context, id string) (*model.Ticket, error)
	ListWithFilters(ctx context.Context, filters *TicketListFilters, offset, limit int) ([]model.Ticket, int64, error)
	Update(ctx context.Context, ticket *model.Ticket) error
	AddMessage(ctx context.Context, msg *model.TicketMessage) error
	CountMessages(ctx context.Context, ticketID string) (int64, error)
}

// ticketRepo TicketRepository 的 GORM 实现
type ticketRepo struct {
	db *gorm.DB
}

// NewTicketRepo 创建 TicketRepository 实例
func NewTicketRepo(db *gorm.DB) TicketRepository {
	return &ticketRepo{db: db}
}

func (r *ticketRepo) Create(ctx context.Context, ticket *model.Ticket) error {
	return r.db.WithContext(ctx).Create(ticket).Error
}

func (r *ticketRepo) GetByID(ctx context.Context, id string) (*model.Ticket, error) {
	var ticket model.Ticket
	err := r.db.WithContext(ctx).
		Preload("User").
		Preload("Messages", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC")
		}).
		Preload("Messages.Author").
		Where("ticket_id = ?", id).
		First(&ticket).Error
	if err != nil {
		return nil, err
	}
	return &ticket, nil
}

func (r *ticketRepo) ListWithFilters(ctx context.Context, filters *TicketListFilters, offset, limit int) ([]model.Ticket, int64, error) {
	var tickets []model.Ticket
	var total int64

	db := r.db.WithContext(ctx).Model(&model.Ticket{})

	if filters != nil {
		if filters.Status != "" {
			db = db.Where("status = ?", filters.Status)
		}
		if filters.UserID != "" {
			db = db.Where("user_id = ?", filters.UserID)
		}
	}

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if err := db.Preload("User").
		Offset(offset).Limit(limit).
		Order("updated_at DESC").
		Find(&tickets).Error; err != nil {
		return nil, 0, err
	}

	return tickets, total, nil
}

func (r *ticketRepo) Update(ctx context.Context, ticket *model.Ticket) error {
	return r.db.WithContext(ctx).Save(ticket).Error
}

func (r *ticketRepo) AddMessage(ctx context.Context, msg *model.TicketMessage) error {
	return r.db.WithContext(ctx).Create(msg).Error
}

func (r *ticketRepo) CountMessages(ctx context.Context, ticketID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.TicketMessage{}).
		Where("ticket_id = ?", ticketID).
		Count(&count).Error
	return count, err
}

// [自证通过] internal/repository/ticket_repo.go
