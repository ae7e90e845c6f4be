package cmd

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"go-farmlink/config"
	"go-farmlink/logger"
	"go-farmlink/middleware"
	"go-farmlink/repository/memory"
	"go-farmlink/repository/mysql"
	"go-farmlink/routes"
	"go-farmlink/services"
	"go-farmlink/storage"
)

type repositories struct {
	profiles  services.ProfileRepository
	crops     services.CropRepository
	rfqs      services.RFQRepository
	contracts services.ContractRepository
	soilTests services.SoilTestRepository
}

// newRouter 按配置组装存储、服务与路由，返回的 cleanup 释放连接
func newRouter(ctx context.Context, conf *config.Config) (router *gin.Engine, cleanup func(), err error) {
	log := logger.NewSublogger("app")
	var closers []func()
	cleanup = func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}
	defer func() {
		if err != nil {
			cleanup()
		}
	}()

	var repos repositories
	switch conf.Database.Driver {
	case "memory":
		log.Warn("Using in-memory storage, data is lost on restart")
		store := memory.NewStore()
		repos = repositories{store.Profiles(), store.Crops(), store.RFQs(), store.Contracts(), store.SoilTests()}
	case "mysql", "":
		var db *sql.DB
		db, err = config.ConnectDB(ctx, conf.Database)
		if err != nil {
			return
		}
		closers = append(closers, func() { db.Close() })
		if err = config.Migrate(ctx, db, logger.NewSublogger("migrate")); err != nil {
			return
		}
		m := mysql.New(db)
		repos = repositories{m.Profiles, m.Crops, m.RFQs, m.Contracts, m.SoilTests}
	default:
		err = fmt.Errorf("unknown database driver %q", conf.Database.Driver)
		return
	}

	bucket, err := storage.NewDiskBucket(conf.Storage.Dir, storage.SoilTestsBucket, conf.Storage.PublicBaseURL)
	if err != nil {
		return
	}

	var limiter middleware.Limiter
	switch conf.RateLimit.Backend {
	case "redis":
		client := redis.NewClient(&redis.Options{
			Addr:     conf.RateLimit.RedisAddr,
			Password: conf.RateLimit.RedisPassword,
			DB:       conf.RateLimit.RedisDB,
		})
		closers = append(closers, func() { client.Close() })
		limiter = middleware.NewRedisLimiter(client, conf.RateLimit.Requests, conf.RateLimit.Window)
	case "memory", "":
		limiter = middleware.NewMemoryLimiter(conf.RateLimit.Requests, conf.RateLimit.Window)
	case "none":
	default:
		err = fmt.Errorf("unknown rate limit backend %q", conf.RateLimit.Backend)
		return
	}

	if !conf.IsDevelopment {
		gin.SetMode(gin.ReleaseMode)
	}
	router, err = routes.SetupRouter(routes.Dependencies{
		Auth:           services.NewAuthService(repos.profiles, conf.Auth.Secret, conf.Auth.TokenTTL),
		Profiles:       services.NewProfileService(repos.profiles),
		Crops:          services.NewCropService(repos.crops),
		RFQs:           services.NewRFQService(repos.rfqs),
		Contracts:      services.NewContractService(repos.contracts, repos.profiles),
		Soil:           services.NewSoilService(repos.soilTests, bucket),
		Limiter:        limiter,
		MaxUploadSize:  conf.Storage.MaxUploadSize,
		TrustedProxies: conf.TrustedProxies,
	})
	return
}
