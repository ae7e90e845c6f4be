package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go-farmlink/models"
	"go-farmlink/utils"
)

// RFQInput 发布询价的表单
type RFQInput struct {
	Crop         string
	Grade        models.Grade
	Quantity     int
	DeliveryDate models.Date
	Description  string
}

// RFQService 采购方询价
type RFQService struct {
	rfqs RFQRepository

	now   func() time.Time
	newID func() (string, error)
}

// NewRFQService 创建一个新的RFQService实例
func NewRFQService(rfqs RFQRepository) *RFQService {
	return &RFQService{rfqs: rfqs, now: time.Now, newID: utils.NewID}
}

const rfqRestricted = "Requests for quote can only be managed by buyers."

// Create 采购方发布询价
func (s *RFQService) Create(ctx context.Context, session models.Session, in RFQInput) (*models.RFQ, error) {
	if err := requireBuyer(session, rfqRestricted); err != nil {
		return nil, err
	}
	in.Crop = strings.TrimSpace(in.Crop)
	if in.Crop == "" {
		return nil, models.Invalid("crop", "is required")
	}
	if !in.Grade.Valid() {
		return nil, models.Invalid("grade", "must be one of Premium, Grade A, Grade B, Organic")
	}
	if in.Quantity <= 0 {
		return nil, models.Invalid("quantity", "must be positive")
	}
	if in.DeliveryDate.IsZero() {
		return nil, models.Invalid("delivery_date", "is required")
	}

	id, err := s.newID()
	if err != nil {
		return nil, fmt.Errorf("generate rfq id: %w", err)
	}
	rfq := &models.RFQ{
		ID:           id,
		BuyerID:      session.UserID,
		Crop:         in.Crop,
		Grade:        in.Grade,
		Quantity:     in.Quantity,
		DeliveryDate: in.DeliveryDate,
		Description:  strings.TrimSpace(in.Description),
		CreatedAt:    s.now().UTC(),
	}
	if err := s.rfqs.Create(ctx, rfq); err != nil {
		return nil, fmt.Errorf("insert rfq: %w", err)
	}
	return rfq, nil
}

// ListMine 当前采购方的询价
func (s *RFQService) ListMine(ctx context.Context, session models.Session) ([]models.RFQ, error) {
	if err := requireBuyer(session, rfqRestricted); err != nil {
		return nil, err
	}
	rfqs, err := s.rfqs.ListByBuyer(ctx, session.UserID)
	if err != nil {
		return nil, fmt.Errorf("list rfqs: %w", err)
	}
	return rfqs, nil
}

// Delete 删除自己的询价
func (s *RFQService) Delete(ctx context.Context, session models.Session, id string) error {
	if err := requireBuyer(session, rfqRestricted); err != nil {
		return err
	}
	return s.rfqs.Delete(ctx, id, session.UserID)
}
