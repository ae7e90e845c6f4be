package services

import (
	"context"
	"fmt"

	"go-farmlink/models"
)

// ProfileService 资料查询
type ProfileService struct {
	profiles ProfileRepository
}

// NewProfileService 创建一个新的ProfileService实例
func NewProfileService(profiles ProfileRepository) *ProfileService {
	return &ProfileService{profiles: profiles}
}

// Get 按标识读取资料
func (s *ProfileService) Get(ctx context.Context, id string) (*models.Profile, error) {
	return s.profiles.GetByID(ctx, id)
}

// ListOthers 列出除自己以外的用户，供选择合同对方
func (s *ProfileService) ListOthers(ctx context.Context, session models.Session, role models.Role) ([]models.Profile, error) {
	if !session.Authenticated() {
		return nil, models.ErrUnauthorized
	}
	if role != "" && !role.Valid() {
		return nil, models.Invalid("role", "must be farmer or buyer")
	}
	profiles, err := s.profiles.ListExcluding(ctx, session.UserID, role)
	if err != nil {
		return nil, fmt.Errorf("list profiles: %w", err)
	}
	return profiles, nil
}
