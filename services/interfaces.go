package services

import (
	"context"

	"go-farmlink/models"
)

// ProfileRepository 用户资料存储。邮箱重复时 Create 返回 models.ErrConflict
type ProfileRepository interface {
	Create(ctx context.Context, profile *models.Profile) error
	GetByID(ctx context.Context, id string) (*models.Profile, error)
	GetByEmail(ctx context.Context, email string) (*models.Profile, error)
	// ListExcluding 列出除 id 以外的资料，role 为空时不过滤
	ListExcluding(ctx context.Context, id string, role models.Role) ([]models.Profile, error)
}

// CropRepository 作物存储，列表按创建时间倒序
type CropRepository interface {
	Create(ctx context.Context, crop *models.Crop) error
	ListByFarmer(ctx context.Context, farmerID string) ([]models.Crop, error)
	ListAll(ctx context.Context) ([]models.CropListing, error)
	// Delete 只删除属于 farmerID 的记录，否则返回 models.ErrNotFound
	Delete(ctx context.Context, id, farmerID string) error
}

// RFQRepository 询价存储，列表按创建时间倒序
type RFQRepository interface {
	Create(ctx context.Context, rfq *models.RFQ) error
	ListByBuyer(ctx context.Context, buyerID string) ([]models.RFQ, error)
	Delete(ctx context.Context, id, buyerID string) error
}

// ContractRepository 合同存储，没有删除操作
type ContractRepository interface {
	Create(ctx context.Context, contract *models.Contract) error
	Get(ctx context.Context, id string) (*models.Contract, error)
	// ListForParty 返回 farmer_id 或 buyer_id 等于 userID 的合同，按创建时间倒序
	ListForParty(ctx context.Context, userID string) ([]models.ContractDetail, error)
	// UpdateStatus 只修改 status 字段
	UpdateStatus(ctx context.Context, id string, status models.ContractStatus) error
}

// SoilTestRepository 土壤检测记录存储
type SoilTestRepository interface {
	Create(ctx context.Context, test *models.SoilTest) error
	ListByFarmer(ctx context.Context, farmerID string) ([]models.SoilTest, error)
}
