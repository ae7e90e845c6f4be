package routes

import (
	"github.com/gin-gonic/gin"

	"go-farmlink/controllers"
	"go-farmlink/middleware"
	"go-farmlink/models"
	"go-farmlink/services"
	"go-farmlink/storage"
	"go-farmlink/utils"
)

// Dependencies 路由所需的服务
type Dependencies struct {
	Auth      *services.AuthService
	Profiles  *services.ProfileService
	Crops     *services.CropService
	RFQs      *services.RFQService
	Contracts *services.ContractService
	Soil      *services.SoilService

	// 登录、注册与上传的限流器，为 nil 时不限流
	Limiter        middleware.Limiter
	MaxUploadSize  int64
	// 可信代理，为空时客户端地址只取连接地址
	TrustedProxies []string
}

// SetupRouter 配置所有路由
func SetupRouter(deps Dependencies) (*gin.Engine, error) {
	r := gin.New()
	if err := r.SetTrustedProxies(deps.TrustedProxies); err != nil {
		return nil, err
	}
	r.Use(gin.Recovery(), middleware.RequestID(), middleware.RequestLogger())

	limited := func(h gin.HandlerFunc) []gin.HandlerFunc {
		if deps.Limiter == nil {
			return []gin.HandlerFunc{h}
		}
		return []gin.HandlerFunc{middleware.RateLimit(deps.Limiter), h}
	}

	// 创建控制器实例
	authController := controllers.NewAuthController(deps.Auth)
	profileController := controllers.NewProfileController(deps.Profiles)
	cropController := controllers.NewCropController(deps.Crops)
	rfqController := controllers.NewRFQController(deps.RFQs)
	contractController := controllers.NewContractController(deps.Contracts)
	soilController := controllers.NewSoilController(deps.Soil, deps.MaxUploadSize)

	// 公共路由
	public := r.Group("/")
	{
		public.POST("/register", limited(authController.Register)...)
		public.POST("/login", limited(authController.Login)...)
		public.GET("/healthz", func(c *gin.Context) { utils.Success(c, gin.H{"status": "ok"}) })

		public.GET("/marketplace/crops", cropController.Marketplace)
		public.GET("/files/"+storage.SoilTestsBucket+"/*path", soilController.ServeFile)
	}

	// 需要认证的路由
	protected := r.Group("/")
	protected.Use(middleware.AuthMiddleware(deps.Auth))
	{
		protected.GET("/me", profileController.Me)
		protected.GET("/me/navigation", profileController.Navigation)
		protected.GET("/profiles", profileController.List)

		// 合同对两种角色开放，角色校验在服务内完成
		protected.GET("/contracts", contractController.List)
		protected.GET("/contracts/form", contractController.Form)
		protected.POST("/contracts", contractController.Create)
		protected.PATCH("/contracts/:id/status", contractController.UpdateStatus)
	}

	farmer := protected.Group("/")
	farmer.Use(middleware.RequireRole("This area is only available to farmers.", models.RoleFarmer))
	{
		farmer.POST("/crops", cropController.Create)
		farmer.GET("/crops", cropController.ListMine)
		farmer.DELETE("/crops/:id", cropController.Delete)
	}

	buyer := protected.Group("/")
	buyer.Use(middleware.RequireRole("This area is only available to buyers.", models.RoleBuyer))
	{
		buyer.POST("/rfqs", rfqController.Create)
		buyer.GET("/rfqs", rfqController.ListMine)
		buyer.DELETE("/rfqs/:id", rfqController.Delete)
	}

	// 测土建议只对农户开放，提示文本由服务返回
	protected.POST("/soil-tests", limited(soilController.Upload)...)
	protected.GET("/soil-tests", soilController.List)

	return r, nil
}
