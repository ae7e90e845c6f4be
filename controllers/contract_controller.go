package controllers

import (
	"strings"

	"github.com/gin-gonic/gin"

	"go-farmlink/middleware"
	"go-farmlink/models"
	"go-farmlink/services"
	"go-farmlink/utils"
)

// ContractController 合同
type ContractController struct {
	Contracts *services.ContractService
}

// NewContractController 创建一个新的ContractController实例
func NewContractController(contracts *services.ContractService) *ContractController {
	return &ContractController{Contracts: contracts}
}

// ContractRequest 创建合同请求。对方可以用 counterparty_id 或按角色的 farmer_id / buyer_id 指定，自己一方的字段被忽略
type ContractRequest struct {
	Crop           string      `json:"crop"`
	Price          float64     `json:"price"`
	Acreage        *float64    `json:"acreage"`
	Quantity       *int        `json:"quantity"`
	StartDate      models.Date `json:"start_date"`
	EndDate        models.Date `json:"end_date"`
	CounterpartyID string      `json:"counterparty_id"`
	FarmerID       string      `json:"farmer_id"`
	BuyerID        string      `json:"buyer_id"`
}

// counterparty 按发起人角色取对方标识
func (r ContractRequest) counterparty(role models.Role) string {
	if id := strings.TrimSpace(r.CounterpartyID); id != "" {
		return id
	}
	switch role {
	case models.RoleFarmer:
		return r.BuyerID
	case models.RoleBuyer:
		return r.FarmerID
	}
	return ""
}

// StatusRequest 状态迁移请求
type StatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// List 当前用户参与的合同
func (c *ContractController) List(ctx *gin.Context) {
	views, err := c.Contracts.ListForUser(ctx.Request.Context(), middleware.SessionFrom(ctx))
	if err != nil {
		utils.Fail(ctx, "fetch contracts", err)
		return
	}
	utils.Success(ctx, views)
}

// Form 创建表单结构
func (c *ContractController) Form(ctx *gin.Context) {
	form, err := c.Contracts.Form(middleware.SessionFrom(ctx))
	if err != nil {
		utils.Fail(ctx, "load contract form", err)
		return
	}
	utils.Success(ctx, form)
}

// Create 创建合同
func (c *ContractController) Create(ctx *gin.Context) {
	var req ContractRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(ctx, err.Error())
		return
	}

	session := middleware.SessionFrom(ctx)
	terms := models.ContractTerms{
		Crop:      req.Crop,
		Price:     req.Price,
		StartDate: req.StartDate,
		EndDate:   req.EndDate,
		Acreage:   req.Acreage,
		Quantity:  req.Quantity,
	}
	party := models.PartyFor(session.Role, req.counterparty(session.Role))

	contract, err := c.Contracts.Create(ctx.Request.Context(), session, terms, party)
	if err != nil {
		utils.Fail(ctx, "create contract", err)
		return
	}
	utils.Created(ctx, contract)
}

// UpdateStatus 合同状态迁移
func (c *ContractController) UpdateStatus(ctx *gin.Context) {
	var req StatusRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(ctx, err.Error())
		return
	}

	id := ctx.Param("id")
	if !utils.ValidateID(id) {
		utils.NotFound(ctx, "Not found")
		return
	}
	status, ok := models.ParseContractStatus(strings.TrimSpace(req.Status))
	if !ok {
		utils.BadRequest(ctx, "status: unknown status")
		return
	}

	contract, err := c.Contracts.SetStatus(ctx.Request.Context(), middleware.SessionFrom(ctx), id, status)
	if err != nil {
		utils.Fail(ctx, "update contract", err)
		return
	}
	utils.Success(ctx, contract)
}
