package utils

import (
	"fmt"
	"path"
	"strings"
	"time"

	gonanoid "github.com/matoous/go-nanoid"
)

const base62Chars = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz"

// IDLength 记录标识长度
const IDLength = 21

// NewID 生成不透明的记录标识
func NewID() (string, error) {
	return gonanoid.Generate(base62Chars, IDLength)
}

// ValidateID 校验标识格式
func ValidateID(id string) bool {
	if len(id) != IDLength {
		return false
	}
	for _, char := range id {
		if !strings.ContainsRune(base62Chars, char) {
			return false
		}
	}
	return true
}

// FileExt 取原始文件名的扩展名（不含点），没有扩展名时返回 "bin"
func FileExt(name string) string {
	ext := strings.TrimPrefix(path.Ext(strings.TrimSpace(name)), ".")
	if ext == "" {
		return "bin"
	}
	return strings.ToLower(ext)
}

// ObjectPath 生成 <owner>/<毫秒时间戳>.<扩展名> 的存储路径
func ObjectPath(ownerID string, at time.Time, fileName string) string {
	return fmt.Sprintf("%s/%d.%s", ownerID, at.UnixMilli(), FileExt(fileName))
}
