package controllers

import (
	"errors"

	"github.com/gin-gonic/gin"

	"go-farmlink/models"
	"go-farmlink/services"
	"go-farmlink/utils"
)

// AuthController 处理用户认证相关的请求
type AuthController struct {
	Auth *services.AuthService
}

// NewAuthController 创建一个新的AuthController实例
func NewAuthController(auth *services.AuthService) *AuthController {
	return &AuthController{Auth: auth}
}

// RegisterRequest 注册请求
type RegisterRequest struct {
	Name     string      `json:"name" binding:"required"`
	Email    string      `json:"email" binding:"required"`
	Password string      `json:"password" binding:"required"`
	Role     models.Role `json:"role" binding:"required"`
}

// LoginRequest 登录请求
type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// AuthResponse 登录与注册的返回
type AuthResponse struct {
	Token   string          `json:"token"`
	Profile *models.Profile `json:"profile"`
}

// Register 用户注册
func (c *AuthController) Register(ctx *gin.Context) {
	var req RegisterRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(ctx, err.Error())
		return
	}

	profile, token, err := c.Auth.Register(ctx.Request.Context(), services.RegisterInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Role:     req.Role,
	})
	if err != nil {
		utils.Fail(ctx, "register", err)
		return
	}
	utils.Created(ctx, AuthResponse{Token: token, Profile: profile})
}

// Login 用户登录
func (c *AuthController) Login(ctx *gin.Context) {
	var req LoginRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(ctx, err.Error())
		return
	}

	profile, token, err := c.Auth.Login(ctx.Request.Context(), req.Email, req.Password)
	if errors.Is(err, models.ErrUnauthorized) {
		utils.Unauthorized(ctx, "Invalid email or password")
		return
	}
	if err != nil {
		utils.Fail(ctx, "log in", err)
		return
	}
	utils.Success(ctx, AuthResponse{Token: token, Profile: profile})
}
