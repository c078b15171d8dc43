package service

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"

	"campuscard/backend/internal/dto"
	"campuscard/backend/internal/model"
)

// ── 测试辅助 ──

func setupDepartmentService(t *testing.T) (DepartmentService, *mockRepos) {
	t.Helper()

	repo, mocks := newMockRepository()
	svc := NewDepartmentService(repo, zap.NewNop())
	return svc, mocks
}

// ── Create ──

func TestCreateDepartment(t *testing.T) {
	svc, _ := setupDepartmentService(t)

	resp, err := svc.Create(context.Background(), &dto.CreateDepartmentRequest{
		Name:        "Mathématiques",
		Description: "Département de mathématiques",
	}, "admin-001")
	if err != nil {
		t.Fatalf("Create 应成功: %v", err)
	}
	if resp.Name != "Mathématiques" {
		t.Errorf("期望 Name=Mathématiques，实际=%s", resp.Name)
	}
	if !resp.IsActive {
		t.Error("新建院系应为启用状态")
	}
}

func TestCreateDepartment_DuplicateName(t *testing.T) {
	svc, _ := setupDepartmentService(t)

	// 预置数据中已有 Informatique
	_, err := svc.Create(context.Background(), &dto.CreateDepartmentRequest{
		Name: "Informatique",
	}, "admin-001")
	if !errors.Is(err, ErrDepartmentNameExists) {
		t.Errorf("期望 ErrDepartmentNameExists，实际: %v", err)
	}
}

// ── GetByID / List ──

func TestGetDepartment_WithStudentCount(t *testing.T) {
	svc, mocks := setupDepartmentService(t)

	deptID := "dept-info"
	mocks.user.users["user-001"] = &model.User{
		UserID: "user-001", Matricule: "ET2026001", Role: model.RoleStudent, DepartmentID: &deptID,
	}
	mocks.user.users["user-002"] = &model.User{
		UserID: "user-002", Matricule: "ET2026002", Role: model.RoleStudent, DepartmentID: &deptID,
	}

	resp, err := svc.GetByID(context.Background(), "dept-info")
	if err != nil {
		t.Fatalf("GetByID 应成功: %v", err)
	}
	if resp.StudentCount != 2 {
		t.Errorf("期望 StudentCount=2，实际=%d", resp.StudentCount)
	}

	if _, err := svc.GetByID(context.Background(), "absent"); !errors.Is(err, ErrDepartmentNotFound) {
		t.Errorf("期望 ErrDepartmentNotFound，实际: %v", err)
	}
}

func TestListDepartments_InactiveFiltered(t *testing.T) {
	svc, mocks := setupDepartmentService(t)

	mocks.dept.departments["dept-old"] = &model.Department{
		DepartmentID: "dept-old", Name: "Ancien département", IsActive: false,
	}

	active, err := svc.List(context.Background(), false)
	if err != nil {
		t.Fatalf("List 应成功: %v", err)
	}
	for _, d := range active {
		if !d.IsActive {
			t.Errorf("默认列表不应含停用院系: %s", d.Name)
		}
	}

	all, err := svc.List(context.Background(), true)
	if err != nil {
		t.Fatalf("List(includeInactive) 应成功: %v", err)
	}
	if len(all) != len(active)+1 {
		t.Errorf("含停用院系的列表应多 1 项，实际 active=%d all=%d", len(active), len(all))
	}
}

// ── Update / Delete ──

func TestUpdateDepartment(t *testing.T) {
	svc, _ := setupDepartmentService(t)

	desc := "Informatique et réseaux"
	inactive := false
	resp, err := svc.Update(context.Background(), "dept-info", &dto.UpdateDepartmentRequest{
		Description: &desc,
		IsActive:    &inactive,
	}, "admin-001")
	if err != nil {
		t.Fatalf("Update 应成功: %v", err)
	}
	if resp.Description != desc {
		t.Errorf("描述未更新，实际=%s", resp.Description)
	}
	if resp.IsActive {
		t.Error("院系应已停用")
	}
}

func TestDeleteDepartment_BlockedByStudents(t *testing.T) {
	svc, mocks := setupDepartmentService(t)

	deptID := "dept-info"
	mocks.user.users["user-001"] = &model.User{
		UserID: "user-001", Matricule: "ET2026001", Role: model.RoleStudent, DepartmentID: &deptID,
	}

	if err := svc.Delete(context.Background(), "dept-info", "admin-001"); !errors.Is(err, ErrDepartmentHasStudents) {
		t.Errorf("期望 ErrDepartmentHasStudents，实际: %v", err)
	}

	// 学生清空后可删除
	delete(mocks.user.users, "user-001")
	if err := svc.Delete(context.Background(), "dept-info", "admin-001"); err != nil {
		t.Errorf("无学生的院系应可删除: %v", err)
	}
}
