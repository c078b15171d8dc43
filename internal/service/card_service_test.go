package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"

	"campuscard/backend/internal/dto"
	"campuscard/backend/internal/model"
)

// ── 测试辅助 ──

func setupCardService(t *testing.T) (CardService, *mockRepos) {
	t.Helper()

	repo, mocks := newMockRepository()
	svc := NewCardService(repo, zap.NewNop())
	return svc, mocks
}

func seedCard(t *testing.T, mocks *mockRepos, cardID, userID, status string) *model.Card {
	t.Helper()

	card := &model.Card{
		CardID:       cardID,
		UserID:       userID,
		CardNumber:   "CC-2026-" + cardID,
		AcademicYear: "2026-2027",
		Status:       status,
		IssuedAt:     time.Now(),
	}
	mocks.card.cards[cardID] = card
	return card
}

// ── 状态推进 ──

func TestUpdateCardStatus_FullLifecycle(t *testing.T) {
	svc, mocks := setupCardService(t)
	seedCard(t, mocks, "card-001", "user-001", model.CardPending)

	// pending → printed
	resp, err := svc.UpdateStatus(context.Background(), "card-001", &dto.UpdateCardStatusRequest{
		Status: model.CardPrinted,
	}, "admin-001")
	if err != nil {
		t.Fatalf("pending→printed 应成功: %v", err)
	}
	if resp.Status != model.CardPrinted {
		t.Errorf("期望状态 printed，实际=%s", resp.Status)
	}
	if resp.PrintedAt == "" {
		t.Error("printed_at 应已记录")
	}

	// printed → delivered
	resp, err = svc.UpdateStatus(context.Background(), "card-001", &dto.UpdateCardStatusRequest{
		Status: model.CardDelivered,
	}, "admin-001")
	if err != nil {
		t.Fatalf("printed→delivered 应成功: %v", err)
	}
	if resp.Status != model.CardDelivered {
		t.Errorf("期望状态 delivered，实际=%s", resp.Status)
	}
	if resp.DeliveredAt == "" {
		t.Error("delivered_at 应已记录")
	}
}

func TestUpdateCardStatus_SkipRefused(t *testing.T) {
	svc, mocks := setupCardService(t)
	seedCard(t, mocks, "card-001", "user-001", model.CardPending)

	// pending → delivered 跳级
	_, err := svc.UpdateStatus(context.Background(), "card-001", &dto.UpdateCardStatusRequest{
		Status: model.CardDelivered,
	}, "admin-001")
	if !errors.Is(err, ErrCardBadTransition) {
		t.Errorf("跳级推进应被拒，实际: %v", err)
	}
}

func TestUpdateCardStatus_BackwardRefused(t *testing.T) {
	svc, mocks := setupCardService(t)
	seedCard(t, mocks, "card-001", "user-001", model.CardDelivered)

	// delivered 为终态
	_, err := svc.UpdateStatus(context.Background(), "card-001", &dto.UpdateCardStatusRequest{
		Status: model.CardPrinted,
	}, "admin-001")
	if !errors.Is(err, ErrCardBadTransition) {
		t.Errorf("回退应被拒，实际: %v", err)
	}
}

func TestUpdateCardStatus_NotFound(t *testing.T) {
	svc, _ := setupCardService(t)

	_, err := svc.UpdateStatus(context.Background(), "absent", &dto.UpdateCardStatusRequest{
		Status: model.CardPrinted,
	}, "admin-001")
	if !errors.Is(err, ErrCardNotFound) {
		t.Errorf("期望 ErrCardNotFound，实际: %v", err)
	}
}

// ── 查询归属 ──

func TestGetCard_Ownership(t *testing.T) {
	svc, mocks := setupCardService(t)
	seedCard(t, mocks, "card-001", "user-001", model.CardPending)

	if _, err := svc.GetByID(context.Background(), "card-001", "user-001", model.RoleStudent); err != nil {
		t.Errorf("本人查询应成功: %v", err)
	}
	if _, err := svc.GetByID(context.Background(), "card-001", "admin-001", model.RoleAdmin); err != nil {
		t.Errorf("管理员查询应成功: %v", err)
	}
	if _, err := svc.GetByID(context.Background(), "card-001", "user-002", model.RoleStudent); !errors.Is(err, ErrNoPermission) {
		t.Errorf("期望 ErrNoPermission，实际: %v", err)
	}
}

func TestListMyCards(t *testing.T) {
	svc, mocks := setupCardService(t)
	seedCard(t, mocks, "card-001", "user-001", model.CardPending)
	seedCard(t, mocks, "card-002", "user-002", model.CardPending)

	mine, err := svc.ListMine(context.Background(), "user-001")
	if err != nil {
		t.Fatalf("ListMine 应成功: %v", err)
	}
	if len(mine) != 1 || mine[0].ID != "card-001" {
		t.Errorf("应只返回本人的卡，实际=%+v", mine)
	}
}

// ── 状态机表 ──

func TestValidCardTransition(t *testing.T) {
	cases := []struct {
		from, to string
		want     bool
	}{
		{model.CardPending, model.CardPrinted, true},
		{model.CardPrinted, model.CardDelivered, true},
		{model.CardPending, model.CardDelivered, false},
		{model.CardPrinted, model.CardPending, false},
		{model.CardDelivered, model.CardPrinted, false},
		{model.CardDelivered, model.CardDelivered, false},
		{model.CardPending, model.CardPending, false},
	}
	for _, c := range cases {
		if got := validCardTransition(c.from, c.to); got != c.want {
			t.Errorf("validCardTransition(%s, %s) = %v，期望 %v", c.from, c.to, got, c.want)
		}
	}
}
