package models

import (
	"errors"
	"fmt"
)

var (
	ErrValidation        = errors.New("validation failed")
	ErrUnauthorized      = errors.New("unauthorized")
	ErrForbidden         = errors.New("forbidden")
	ErrNotFound          = errors.New("not found")
	ErrConflict          = errors.New("conflict")
	ErrInvalidTransition = errors.New("invalid status transition")
)

// 拒绝访问的原因代码
const (
	CodeAccessRestricted = "ACCESS_RESTRICTED"
	CodeNotAParty        = "NOT_A_PARTY"
	CodeRoleMismatch     = "ROLE_MISMATCH"
	CodeNotOwner         = "NOT_OWNER"
)

// ValidationError 表单字段校验失败，在调用存储之前返回
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

// Invalid 构造字段校验错误
func Invalid(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}

// AccessError 角色或归属不满足
type AccessError struct {
	Code    string
	Message string
}

func (e *AccessError) Error() string {
	if e == nil {
		return ""
	}
	return e.Code
}

func (e *AccessError) Unwrap() error {
	return ErrForbidden
}

// Restricted 构造拒绝访问错误
func Restricted(code, message string) error {
	return &AccessError{Code: code, Message: message}
}

// TransitionError 非法状态迁移
type TransitionError struct {
	From ContractStatus
	To   ContractStatus
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("cannot move contract from %s to %s", e.From, e.To)
}

func (e *TransitionError) Unwrap() error {
	return ErrInvalidTransition
}

// IsAccessError 取出 AccessError
func IsAccessError(err error) (*AccessError, bool) {
	var access *AccessError
	if errors.As(err, &access) {
		return access, true
	}
	return nil, false
}
