package controllers

import (
	"github.com/gin-gonic/gin"

	"go-farmlink/middleware"
	"go-farmlink/models"
	"go-farmlink/services"
	"go-farmlink/utils"
)

// RFQController 采购方询价
type RFQController struct {
	RFQs *services.RFQService
}

// NewRFQController 创建一个新的RFQController实例
func NewRFQController(rfqs *services.RFQService) *RFQController {
	return &RFQController{RFQs: rfqs}
}

// RFQRequest 发布询价请求
type RFQRequest struct {
	Crop         string       `json:"crop" binding:"required"`
	Grade        models.Grade `json:"grade" binding:"required"`
	Quantity     int          `json:"quantity" binding:"required"`
	DeliveryDate models.Date  `json:"delivery_date"`
	Description  string       `json:"description"`
}

// Create 发布询价
func (c *RFQController) Create(ctx *gin.Context) {
	var req RFQRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(ctx, err.Error())
		return
	}

	rfq, err := c.RFQs.Create(ctx.Request.Context(), middleware.SessionFrom(ctx), services.RFQInput{
		Crop:         req.Crop,
		Grade:        req.Grade,
		Quantity:     req.Quantity,
		DeliveryDate: req.DeliveryDate,
		Description:  req.Description,
	})
	if err != nil {
		utils.Fail(ctx, "create RFQ", err)
		return
	}
	utils.Created(ctx, rfq)
}

// ListMine 当前采购方的询价
func (c *RFQController) ListMine(ctx *gin.Context) {
	rfqs, err := c.RFQs.ListMine(ctx.Request.Context(), middleware.SessionFrom(ctx))
	if err != nil {
		utils.Fail(ctx, "fetch RFQs", err)
		return
	}
	utils.Success(ctx, rfqs)
}

// Delete 删除询价
func (c *RFQController) Delete(ctx *gin.Context) {
	id := ctx.Param("id")
	if !utils.ValidateID(id) {
		utils.NotFound(ctx, "Not found")
		return
	}
	err := c.RFQs.Delete(ctx.Request.Context(), middleware.SessionFrom(ctx), id)
	if err != nil {
		utils.Fail(ctx, "delete RFQ", err)
		return
	}
	utils.NoContent(ctx)
}
