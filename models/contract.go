package models

import (
	"time"
)

// ContractStatus 合同状态
type ContractStatus string

const (
	StatusPending   ContractStatus = "pending"
	StatusApproved  ContractStatus = "approved"
	StatusRejected  ContractStatus = "rejected"
	StatusCompleted ContractStatus = "completed"
)

// transitions 完整的状态迁移表；未列出的迁移一律非法
var transitions = map[ContractStatus][]ContractStatus{
	StatusPending:   {StatusApproved, StatusRejected},
	StatusApproved:  {StatusCompleted},
	StatusRejected:  nil,
	StatusCompleted: nil,
}

// ParseContractStatus 解析状态字符串
func ParseContractStatus(s string) (ContractStatus, bool) {
	st := ContractStatus(s)
	_, ok := transitions[st]
	return st, ok
}

// Valid 是否为已知状态
func (s ContractStatus) Valid() bool {
	_, ok := transitions[s]
	return ok
}

// Next 返回可直接迁移到的状态
func (s ContractStatus) Next() []ContractStatus {
	next := transitions[s]
	out := make([]ContractStatus, len(next))
	copy(out, next)
	return out
}

// IsTerminal rejected 和 completed 为终态
func (s ContractStatus) IsTerminal() bool {
	return s.Valid() && len(transitions[s]) == 0
}

// CanTransition 判断 from -> to 是否为合法迁移
func CanTransition(from, to ContractStatus) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// Contract 一名农户与一名采购方之间的合同
type Contract struct {
	ID        string         `json:"id"`
	FarmerID  string         `json:"farmer_id"`
	BuyerID   string         `json:"buyer_id"`
	Crop      string         `json:"crop"`
	Acreage   *float64       `json:"acreage"`
	Quantity  *int           `json:"quantity"`
	Price     float64        `json:"price"`
	StartDate Date           `json:"start_date"`
	EndDate   Date           `json:"end_date"`
	Status    ContractStatus `json:"status"`
	CreatedAt time.Time      `json:"created_at"`
}

// HasParty 用户是否为合同一方
func (c *Contract) HasParty(userID string) bool {
	return userID != "" && (c.FarmerID == userID || c.BuyerID == userID)
}

// ContractDetail 合同及双方展示信息
type ContractDetail struct {
	Contract
	Farmer PartySummary `json:"farmer_profile"`
	Buyer  PartySummary `json:"buyer_profile"`
}

// ContractView 面向某一方的合同视图
type ContractView struct {
	ContractDetail
	Counterparty PartySummary     `json:"counterparty"`
	Transitions  []ContractStatus `json:"available_transitions"`
	// 终态合同不再接受任何迁移
	Final        bool             `json:"final"`
}

// ContractTerms 创建合同时的条款
type ContractTerms struct {
	Crop      string
	Price     float64
	StartDate Date
	EndDate   Date
	Acreage   *float64
	Quantity  *int
}

// ContractParty 创建方式：农户发起或采购方发起
type ContractParty interface {
	// InitiatorRole 发起方应有的角色
	InitiatorRole() Role
	// CounterpartyID 对方标识
	CounterpartyID() string
	// Resolve 以发起人自身标识补全双方
	Resolve(self string) (farmerID, buyerID string)
}

// FarmerInitiated 农户发起，只需指定采购方
type FarmerInitiated struct {
	BuyerID string
}

func (p FarmerInitiated) InitiatorRole() Role    { return RoleFarmer }
func (p FarmerInitiated) CounterpartyID() string { return p.BuyerID }
func (p FarmerInitiated) Resolve(self string) (string, string) {
	return self, p.BuyerID
}

// BuyerInitiated 采购方发起，只需指定农户
type BuyerInitiated struct {
	FarmerID string
}

func (p BuyerInitiated) InitiatorRole() Role    { return RoleBuyer }
func (p BuyerInitiated) CounterpartyID() string { return p.FarmerID }
func (p BuyerInitiated) Resolve(self string) (string, string) {
	return p.FarmerID, self
}

// PartyFor 按发起人角色构造创建方式，无有效角色时返回 nil
func PartyFor(role Role, counterpartyID string) ContractParty {
	switch role {
	case RoleFarmer:
		return FarmerInitiated{BuyerID: counterpartyID}
	case RoleBuyer:
		return BuyerInitiated{FarmerID: counterpartyID}
	}
	return nil
}

// ContractForm 按角色决定的创建表单结构
type ContractForm struct {
	// 发起方固定为自己
	SelfField string `json:"self_field"`
	// 需要选择的对方字段
	CounterpartyField string      `json:"counterparty_field"`
	CounterpartyRole  Role        `json:"counterparty_role"`
	Fields            []FormField `json:"fields"`
}

// FormField 表单字段
type FormField struct {
	Name     string `json:"name"`
	Required bool   `json:"required"`
}

// ContractFormFor 农户的表单不含农户选择，采购方相反
func ContractFormFor(role Role) (ContractForm, bool) {
	if !role.Valid() {
		return ContractForm{}, false
	}
	counter := role.Counterpart()
	counterField := string(counter) + "_id"
	return ContractForm{
		SelfField:         string(role) + "_id",
		CounterpartyField: counterField,
		CounterpartyRole:  counter,
		Fields: []FormField{
			{Name: "crop", Required: true},
			{Name: "price", Required: true},
			{Name: "acreage"},
			{Name: "quantity"},
			{Name: counterField, Required: true},
			{Name: "start_date", Required: true},
			{Name: "end_date", Required: true},
		},
	}, true
}
