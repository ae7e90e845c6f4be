package models

import (
	"time"
)

// Role 平台角色
type Role string

// 角色常量
const (
	RoleFarmer Role = "farmer"
	RoleBuyer  Role = "buyer"
)

// Valid 仅 farmer 和 buyer 是有效角色
func (r Role) Valid() bool {
	return r == RoleFarmer || r == RoleBuyer
}

// Counterpart 返回合同另一方的角色
func (r Role) Counterpart() Role {
	switch r {
	case RoleFarmer:
		return RoleBuyer
	case RoleBuyer:
		return RoleFarmer
	}
	return ""
}

// Profile 平台参与者。角色在注册后不可修改
type Profile struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	Role         Role      `json:"role"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

// PartySummary 列表中展示的对方信息
type PartySummary struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Session 当前请求的身份上下文，由中间件生成后显式传入各个操作
type Session struct {
	UserID string
	Name   string
	Email  string
	Role   Role
}

// NewSession 由资料生成会话
func NewSession(p *Profile) Session {
	return Session{UserID: p.ID, Name: p.Name, Email: p.Email, Role: p.Role}
}

// Authenticated 是否已登录
func (s Session) Authenticated() bool {
	return s.UserID != ""
}

// IsFarmer 已登录且为农户
func (s Session) IsFarmer() bool {
	return s.Authenticated() && s.Role == RoleFarmer
}

// IsBuyer 已登录且为采购方
func (s Session) IsBuyer() bool {
	return s.Authenticated() && s.Role == RoleBuyer
}
