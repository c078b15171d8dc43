package errors

import (
	"errors"

	"gorm.io/gorm"
)

// ErrOptimisticLock 乐观锁冲突：记录已被其他操作修改
var ErrOptimisticLock = errors.New("la fiche a été modifiée par une autre opération")

// IsDuplicateKey 判断是否为数据库唯一约束冲突
// 业务层先做尽力而为的唯一性预检，最终一致性仍由数据库约束保证，
// 并发写入时以此判定映射为"已存在"类业务错误
func IsDuplicateKey(err error) bool {
	return errors.Is(err, gorm.ErrDuplicatedKey)
}
