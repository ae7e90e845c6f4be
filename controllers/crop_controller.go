package controllers

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"go-farmlink/middleware"
	"go-farmlink/models"
	"go-farmlink/services"
	"go-farmlink/utils"
)

// CropController 作物发布与市场
type CropController struct {
	Crops *services.CropService
}

// NewCropController 创建一个新的CropController实例
func NewCropController(crops *services.CropService) *CropController {
	return &CropController{Crops: crops}
}

// CropRequest 发布作物请求
type CropRequest struct {
	Name        string       `json:"name" binding:"required"`
	Grade       models.Grade `json:"grade" binding:"required"`
	Quantity    int          `json:"quantity" binding:"required"`
	Price       float64      `json:"price" binding:"required"`
	Location    string       `json:"location"`
	Description string       `json:"description"`
}

// Create 发布作物
func (c *CropController) Create(ctx *gin.Context) {
	var req CropRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(ctx, err.Error())
		return
	}

	crop, err := c.Crops.Create(ctx.Request.Context(), middleware.SessionFrom(ctx), services.CropInput{
		Name:        req.Name,
		Grade:       req.Grade,
		Quantity:    req.Quantity,
		Price:       req.Price,
		Location:    req.Location,
		Description: req.Description,
	})
	if err != nil {
		utils.Fail(ctx, "create crop", err)
		return
	}
	utils.Created(ctx, crop)
}

// ListMine 当前农户的作物
func (c *CropController) ListMine(ctx *gin.Context) {
	crops, err := c.Crops.ListMine(ctx.Request.Context(), middleware.SessionFrom(ctx))
	if err != nil {
		utils.Fail(ctx, "fetch crops", err)
		return
	}
	utils.Success(ctx, crops)
}

// Delete 删除作物
func (c *CropController) Delete(ctx *gin.Context) {
	id := ctx.Param("id")
	if !utils.ValidateID(id) {
		utils.NotFound(ctx, "Not found")
		return
	}
	err := c.Crops.Delete(ctx.Request.Context(), middleware.SessionFrom(ctx), id)
	if err != nil {
		utils.Fail(ctx, "delete crop", err)
		return
	}
	utils.NoContent(ctx)
}

// Marketplace 市场列表，支持 search、grade、location、limit
func (c *CropController) Marketplace(ctx *gin.Context) {
	grade, ok := models.ParseGrade(ctx.Query("grade"))
	if !ok {
		utils.BadRequest(ctx, "grade: must be one of Premium, Grade A, Grade B, Organic")
		return
	}
	filter := services.MarketFilter{
		Search:   ctx.Query("search"),
		Grade:    grade,
		Location: ctx.Query("location"),
	}
	if raw := ctx.Query("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 0 {
			utils.BadRequest(ctx, "limit: must be a non-negative integer")
			return
		}
		filter.Limit = limit
	}

	listings, err := c.Crops.Marketplace(ctx.Request.Context(), filter)
	if err != nil {
		utils.Fail(ctx, "fetch crops", err)
		return
	}
	utils.Success(ctx, listings)
}
