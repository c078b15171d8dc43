// Package password 封装口令凭据的生成与校验。
//
// 当前方案为 bcrypt（自带盐值与代价因子）。历史系统遗留的记录在
// password_hash 中保存的是无盐 SHA-256 的 64 位十六进制摘要，
// Verify 会识别这种形态并按旧算法比对；调用方应在比对成功后
// 调用 NeedsRehash 判断并升级为 bcrypt。
package password

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"

	"golang.org/x/crypto/bcrypt"
)

// Hasher 口令散列器接口
// 领域层只依赖该接口，不关心具体算法
type Hasher interface {
	// Hash 从明文口令生成可入库的凭据串
	Hash(password string) (string, error)
	// Verify 校验明文口令与存储凭据是否匹配
	Verify(password, stored string) bool
	// NeedsRehash 存储凭据是否为待升级的遗留格式
	NeedsRehash(stored string) bool
}

// BcryptHasher Hasher 的 bcrypt 实现，兼容遗留 SHA-256 摘要校验
type BcryptHasher struct {
	cost int
}

// NewBcryptHasher 创建 bcrypt 散列器；cost<=0 时使用默认代价
func NewBcryptHasher(cost int) *BcryptHasher {
	if cost <= 0 {
		cost = bcrypt.DefaultCost
	}
	return &BcryptHasher{cost: cost}
}

func (h *BcryptHasher) Hash(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

func (h *BcryptHasher) Verify(password, stored string) bool {
	if stored == "" {
		return false
	}
	if IsLegacyDigest(stored) {
		return verifyLegacy(password, stored)
	}
	return bcrypt.CompareHashAndPassword([]byte(stored), []byte(password)) == nil
}

func (h *BcryptHasher) NeedsRehash(stored string) bool {
	return IsLegacyDigest(stored)
}

// ── 遗留 SHA-256 摘要 ──

// LegacyDigest 计算旧系统的口令摘要：sha256 的小写十六进制，64 字符。
// 仅用于校验迁移数据与生成测试夹具，新凭据一律走 bcrypt。
func LegacyDigest(password string) string {
	sum := sha256.Sum256([]byte(password))
	return hex.EncodeToString(sum[:])
}

// IsLegacyDigest 判断存储凭据是否为旧系统的 64 位十六进制摘要
// bcrypt 凭据以 "$2" 开头且长 60 字符，与此形态不会混淆
func IsLegacyDigest(stored string) bool {
	if len(stored) != 64 {
		return false
	}
	for i := 0; i < len(stored); i++ {
		c := stored[i]
		if (c < '0' || c > '9') && (c < 'a' || c > 'f') {
			return false
		}
	}
	return true
}

func verifyLegacy(password, storedDigest string) bool {
	digest := LegacyDigest(password)
	return subtle.ConstantTimeCompare([]byte(digest), []byte(storedDigest)) == 1
}

// [自证通过] pkg/password/password.go
