package controllers

import (
	"errors"
	"mime"
	"net/http"
	"path"
	"strings"

	"github.com/gin-gonic/gin"

	"go-farmlink/middleware"
	"go-farmlink/models"
	"go-farmlink/services"
	"go-farmlink/utils"
)

// SoilController 处理土壤检测上传与建议
type SoilController struct {
	Soil *services.SoilService
	// 上传大小上限，字节
	MaxUploadSize int64
}

// NewSoilController 创建一个新的SoilController实例
func NewSoilController(soil *services.SoilService, maxUploadSize int64) *SoilController {
	return &SoilController{Soil: soil, MaxUploadSize: maxUploadSize}
}

// Upload 上传检测文件，表单字段 file
func (c *SoilController) Upload(ctx *gin.Context) {
	if c.MaxUploadSize > 0 {
		ctx.Request.Body = http.MaxBytesReader(ctx.Writer, ctx.Request.Body, c.MaxUploadSize)
	}
	header, err := ctx.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			ctx.JSON(http.StatusRequestEntityTooLarge, utils.Response{
				Code:    http.StatusRequestEntityTooLarge,
				Message: "file: exceeds the upload size limit",
			})
			return
		}
		utils.BadRequest(ctx, "file: is required")
		return
	}
	file, err := header.Open()
	if err != nil {
		utils.Fail(ctx, "upload soil test", err)
		return
	}
	defer file.Close()

	test, err := c.Soil.Upload(ctx.Request.Context(), middleware.SessionFrom(ctx), header.Filename, file)
	if err != nil {
		utils.Fail(ctx, "upload soil test", err)
		return
	}
	utils.Created(ctx, test)
}

// List 当前农户的检测记录
func (c *SoilController) List(ctx *gin.Context) {
	tests, err := c.Soil.ListMine(ctx.Request.Context(), middleware.SessionFrom(ctx))
	if err != nil {
		utils.Fail(ctx, "fetch soil tests", err)
		return
	}
	utils.Success(ctx, tests)
}

// ServeFile 按公开地址读取已上传文件
func (c *SoilController) ServeFile(ctx *gin.Context) {
	objectPath := strings.TrimPrefix(ctx.Param("path"), "/")
	f, err := c.Soil.Open(objectPath)
	if errors.Is(err, models.ErrNotFound) || errors.Is(err, models.ErrValidation) {
		utils.NotFound(ctx, "File not found")
		return
	}
	if err != nil {
		utils.Fail(ctx, "fetch file", err)
		return
	}
	defer f.Close()

	contentType := mime.TypeByExtension(path.Ext(objectPath))
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	ctx.DataFromReader(http.StatusOK, -1, contentType, f, nil)
}
