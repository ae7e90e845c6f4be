package controllers

import (
	"github.com/gin-gonic/gin"

	"go-farmlink/middleware"
	"go-farmlink/models"
	"go-farmlink/services"
	"go-farmlink/utils"
)

// ProfileController 当前用户与用户列表
type ProfileController struct {
	Profiles *services.ProfileService
}

// NewProfileController 创建一个新的ProfileController实例
func NewProfileController(profiles *services.ProfileService) *ProfileController {
	return &ProfileController{Profiles: profiles}
}

// Me 当前用户资料
func (c *ProfileController) Me(ctx *gin.Context) {
	session := middleware.SessionFrom(ctx)
	profile, err := c.Profiles.Get(ctx.Request.Context(), session.UserID)
	if err != nil {
		utils.Fail(ctx, "fetch profile", err)
		return
	}
	utils.Success(ctx, profile)
}

// Navigation 当前角色可见的导航
func (c *ProfileController) Navigation(ctx *gin.Context) {
	session := middleware.SessionFrom(ctx)
	utils.Success(ctx, models.NavigationFor(session.Role))
}

// List 其他用户，?role=farmer|buyer 过滤
func (c *ProfileController) List(ctx *gin.Context) {
	session := middleware.SessionFrom(ctx)
	profiles, err := c.Profiles.ListOthers(ctx.Request.Context(), session, models.Role(ctx.Query("role")))
	if err != nil {
		utils.Fail(ctx, "fetch profiles", err)
		return
	}
	utils.Success(ctx, profiles)
}
