// Package memory 提供与 MySQL 实现语义一致的内存存储，用于开发模式和测试
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"go-farmlink/models"
)

// Store 所有表共享一把锁
type Store struct {
	mu        sync.RWMutex
	profiles  []models.Profile
	crops     []models.Crop
	rfqs      []models.RFQ
	contracts []models.Contract
	soilTests []models.SoilTest
}

// NewStore 创建空存储
func NewStore() *Store {
	return &Store{}
}

func (s *Store) Profiles() *ProfileRepository   { return &ProfileRepository{s} }
func (s *Store) Crops() *CropRepository         { return &CropRepository{s} }
func (s *Store) RFQs() *RFQRepository           { return &RFQRepository{s} }
func (s *Store) Contracts() *ContractRepository { return &ContractRepository{s} }
func (s *Store) SoilTests() *SoilTestRepository { return &SoilTestRepository{s} }

// newestFirst 按创建时间倒序，时间相同时后插入的在前
func newestFirst[T any](items []T, createdAt func(T) time.Time) []T {
	out := make([]T, 0, len(items))
	for i := len(items) - 1; i >= 0; i-- {
		out = append(out, items[i])
	}
	sort.SliceStable(out, func(i, j int) bool {
		return createdAt(out[i]).After(createdAt(out[j]))
	})
	return out
}

func (s *Store) summary(id string) models.PartySummary {
	for _, p := range s.profiles {
		if p.ID == id {
			return models.PartySummary{ID: p.ID, Name: p.Name, Email: p.Email}
		}
	}
	return models.PartySummary{ID: id}
}

// ProfileRepository 资料
type ProfileRepository struct{ s *Store }

func (r *ProfileRepository) Create(ctx context.Context, profile *models.Profile) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, p := range r.s.profiles {
		if p.ID == profile.ID || strings.EqualFold(p.Email, profile.Email) {
			return models.ErrConflict
		}
	}
	r.s.profiles = append(r.s.profiles, *profile)
	return nil
}

func (r *ProfileRepository) GetByID(ctx context.Context, id string) (*models.Profile, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, p := range r.s.profiles {
		if p.ID == id {
			out := p
			return &out, nil
		}
	}
	return nil, models.ErrNotFound
}

func (r *ProfileRepository) GetByEmail(ctx context.Context, email string) (*models.Profile, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, p := range r.s.profiles {
		if strings.EqualFold(p.Email, email) {
			out := p
			return &out, nil
		}
	}
	return nil, models.ErrNotFound
}

func (r *ProfileRepository) ListExcluding(ctx context.Context, id string, role models.Role) ([]models.Profile, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := make([]models.Profile, 0, len(r.s.profiles))
	for _, p := range r.s.profiles {
		if p.ID == id || (role != "" && p.Role != role) {
			continue
		}
		out = append(out, p)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// CropRepository 作物
type CropRepository struct{ s *Store }

func (r *CropRepository) Create(ctx context.Context, crop *models.Crop) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.crops = append(r.s.crops, *crop)
	return nil
}

func (r *CropRepository) ListByFarmer(ctx context.Context, farmerID string) ([]models.Crop, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var mine []models.Crop
	for _, c := range r.s.crops {
		if c.FarmerID == farmerID {
			mine = append(mine, c)
		}
	}
	return newestFirst(mine, func(c models.Crop) time.Time { return c.CreatedAt }), nil
}

func (r *CropRepository) ListAll(ctx context.Context) ([]models.CropListing, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	listings := make([]models.CropListing, 0, len(r.s.crops))
	for _, c := range r.s.crops {
		listings = append(listings, models.CropListing{Crop: c, Farmer: r.s.summary(c.FarmerID)})
	}
	return newestFirst(listings, func(l models.CropListing) time.Time { return l.CreatedAt }), nil
}

func (r *CropRepository) Delete(ctx context.Context, id, farmerID string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for i, c := range r.s.crops {
		if c.ID == id && c.FarmerID == farmerID {
			r.s.crops = append(r.s.crops[:i], r.s.crops[i+1:]...)
			return nil
		}
	}
	return models.ErrNotFound
}

// RFQRepository 询价
type RFQRepository struct{ s *Store }

func (r *RFQRepository) Create(ctx context.Context, rfq *models.RFQ) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.rfqs = append(r.s.rfqs, *rfq)
	return nil
}

func (r *RFQRepository) ListByBuyer(ctx context.Context, buyerID string) ([]models.RFQ, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var mine []models.RFQ
	for _, q := range r.s.rfqs {
		if q.BuyerID == buyerID {
			mine = append(mine, q)
		}
	}
	return newestFirst(mine, func(q models.RFQ) time.Time { return q.CreatedAt }), nil
}

func (r *RFQRepository) Delete(ctx context.Context, id, buyerID string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for i, q := range r.s.rfqs {
		if q.ID == id && q.BuyerID == buyerID {
			r.s.rfqs = append(r.s.rfqs[:i], r.s.rfqs[i+1:]...)
			return nil
		}
	}
	return models.ErrNotFound
}

// ContractRepository 合同
type ContractRepository struct{ s *Store }

func (r *ContractRepository) Create(ctx context.Context, contract *models.Contract) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, c := range r.s.contracts {
		if c.ID == contract.ID {
			return models.ErrConflict
		}
	}
	r.s.contracts = append(r.s.contracts, *contract)
	return nil
}

func (r *ContractRepository) Get(ctx context.Context, id string) (*models.Contract, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, c := range r.s.contracts {
		if c.ID == id {
			out := c
			return &out, nil
		}
	}
	return nil, models.ErrNotFound
}

func (r *ContractRepository) ListForParty(ctx context.Context, userID string) ([]models.ContractDetail, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var details []models.ContractDetail
	for _, c := range r.s.contracts {
		if c.FarmerID != userID && c.BuyerID != userID {
			continue
		}
		details = append(details, models.ContractDetail{
			Contract: c,
			Farmer:   r.s.summary(c.FarmerID),
			Buyer:    r.s.summary(c.BuyerID),
		})
	}
	return newestFirst(details, func(d models.ContractDetail) time.Time { return d.CreatedAt }), nil
}

func (r *ContractRepository) UpdateStatus(ctx context.Context, id string, status models.ContractStatus) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for i := range r.s.contracts {
		if r.s.contracts[i].ID == id {
			r.s.contracts[i].Status = status
			return nil
		}
	}
	return models.ErrNotFound
}

// SoilTestRepository 土壤检测
type SoilTestRepository struct{ s *Store }

func (r *SoilTestRepository) Create(ctx context.Context, test *models.SoilTest) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.soilTests = append(r.s.soilTests, *test)
	return nil
}

func (r *SoilTestRepository) ListByFarmer(ctx context.Context, farmerID string) ([]models.SoilTest, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var mine []models.SoilTest
	for _, t := range r.s.soilTests {
		if t.FarmerID == farmerID {
			mine = append(mine, t)
		}
	}
	return newestFirst(mine, func(t models.SoilTest) time.Time { return t.CreatedAt }), nil
}
