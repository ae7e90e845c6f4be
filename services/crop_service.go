package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"go-farmlink/logger"
	"go-farmlink/models"
	"go-farmlink/utils"
)

// CropInput 发布作物的表单
type CropInput struct {
	Name        string
	Grade       models.Grade
	Quantity    int
	Price       float64
	Location    string
	Description string
}

// MarketFilter 市场筛选条件，全部为空时返回所有作物
type MarketFilter struct {
	Search   string
	Grade    models.Grade
	Location string
	Limit    int
}

// CropService 农户作物发布与市场浏览
type CropService struct {
	crops CropRepository
	log   *logrus.Entry

	now   func() time.Time
	newID func() (string, error)
}

// NewCropService 创建一个新的CropService实例
func NewCropService(crops CropRepository) *CropService {
	return &CropService{
		crops: crops,
		log:   logger.NewSublogger("crops"),
		now:   time.Now,
		newID: utils.NewID,
	}
}

// Create 农户发布一条作物
func (s *CropService) Create(ctx context.Context, session models.Session, in CropInput) (*models.Crop, error) {
	if err := requireFarmer(session, "Crop listings can only be managed by farmers."); err != nil {
		return nil, err
	}
	in.Name = strings.TrimSpace(in.Name)
	if in.Name == "" {
		return nil, models.Invalid("name", "is required")
	}
	if !in.Grade.Valid() {
		return nil, models.Invalid("grade", "must be one of Premium, Grade A, Grade B, Organic")
	}
	if in.Quantity <= 0 {
		return nil, models.Invalid("quantity", "must be positive")
	}
	if in.Price <= 0 {
		return nil, models.Invalid("price", "must be positive")
	}
	if !centPrecision(in.Price) {
		return nil, models.Invalid("price", "must have at most two decimal places")
	}

	id, err := s.newID()
	if err != nil {
		return nil, fmt.Errorf("generate crop id: %w", err)
	}
	crop := &models.Crop{
		ID:          id,
		FarmerID:    session.UserID,
		Name:        in.Name,
		Grade:       in.Grade,
		Quantity:    in.Quantity,
		Price:       in.Price,
		Location:    strings.TrimSpace(in.Location),
		Description: strings.TrimSpace(in.Description),
		CreatedAt:   s.now().UTC(),
	}
	if err := s.crops.Create(ctx, crop); err != nil {
		return nil, fmt.Errorf("insert crop: %w", err)
	}
	s.log.WithField("crop", crop.ID).Debug("Crop listed")
	return crop, nil
}

// ListMine 当前农户的作物
func (s *CropService) ListMine(ctx context.Context, session models.Session) ([]models.Crop, error) {
	if err := requireFarmer(session, "Crop listings can only be managed by farmers."); err != nil {
		return nil, err
	}
	crops, err := s.crops.ListByFarmer(ctx, session.UserID)
	if err != nil {
		return nil, fmt.Errorf("list crops: %w", err)
	}
	return crops, nil
}

// Delete 删除自己的作物
func (s *CropService) Delete(ctx context.Context, session models.Session, id string) error {
	if err := requireFarmer(session, "Crop listings can only be managed by farmers."); err != nil {
		return err
	}
	return s.crops.Delete(ctx, id, session.UserID)
}

// Marketplace 所有作物（含农户信息），按条件筛选
func (s *CropService) Marketplace(ctx context.Context, filter MarketFilter) ([]models.CropListing, error) {
	listings, err := s.crops.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list marketplace: %w", err)
	}
	return FilterListings(listings, filter), nil
}

// FilterListings 搜索词匹配名称或产地（不区分大小写），等级精确匹配，产地子串匹配
func FilterListings(listings []models.CropListing, filter MarketFilter) []models.CropListing {
	search := strings.ToLower(strings.TrimSpace(filter.Search))
	location := strings.ToLower(strings.TrimSpace(filter.Location))

	out := make([]models.CropListing, 0, len(listings))
	for _, l := range listings {
		if filter.Limit > 0 && len(out) >= filter.Limit {
			break
		}
		name := strings.ToLower(l.Name)
		loc := strings.ToLower(l.Location)
		if search != "" && !strings.Contains(name, search) && !strings.Contains(loc, search) {
			continue
		}
		if filter.Grade != "" && l.Grade != filter.Grade {
			continue
		}
		if location != "" && !strings.Contains(loc, location) {
			continue
		}
		out = append(out, l)
	}
	return out
}

func requireFarmer(session models.Session, message string) error {
	if !session.Authenticated() {
		return models.ErrUnauthorized
	}
	if session.Role != models.RoleFarmer {
		return models.Restricted(models.CodeAccessRestricted, message)
	}
	return nil
}

func requireBuyer(session models.Session, message string) error {
	if !session.Authenticated() {
		return models.ErrUnauthorized
	}
	if session.Role != models.RoleBuyer {
		return models.Restricted(models.CodeAccessRestricted, message)
	}
	return nil
}
