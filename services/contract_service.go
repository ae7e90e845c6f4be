package services

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"go-farmlink/logger"
	"go-farmlink/models"
	"go-farmlink/utils"
)

// ContractService 合同生命周期：创建、状态迁移、按当事人列出
type ContractService struct {
	contracts ContractRepository
	profiles  ProfileRepository
	log       *logrus.Entry

	now   func() time.Time
	newID func() (string, error)
}

// NewContractService 创建一个新的ContractService实例
func NewContractService(contracts ContractRepository, profiles ProfileRepository) *ContractService {
	return &ContractService{
		contracts: contracts,
		profiles:  profiles,
		log:       logger.NewSublogger("contracts"),
		now:       time.Now,
		newID:     utils.NewID,
	}
}

// Form 返回当前角色可见的创建表单
func (s *ContractService) Form(session models.Session) (models.ContractForm, error) {
	if !session.Authenticated() {
		return models.ContractForm{}, models.ErrUnauthorized
	}
	form, ok := models.ContractFormFor(session.Role)
	if !ok {
		return models.ContractForm{}, restrictedContracts()
	}
	return form, nil
}

// Create 以当前用户为一方创建 pending 合同。自己一方的标识只取自会话
func (s *ContractService) Create(ctx context.Context, session models.Session, terms models.ContractTerms, party models.ContractParty) (*models.Contract, error) {
	if !session.Authenticated() {
		return nil, models.ErrUnauthorized
	}
	if !session.Role.Valid() {
		return nil, restrictedContracts()
	}
	counterField := string(session.Role.Counterpart()) + "_id"
	if party == nil {
		return nil, models.Invalid(counterField, "is required")
	}
	if party.InitiatorRole() != session.Role {
		return nil, models.Restricted(models.CodeRoleMismatch, fmt.Sprintf("a %s cannot create a contract on behalf of a %s", session.Role, party.InitiatorRole()))
	}
	if err := validateTerms(&terms); err != nil {
		return nil, err
	}

	counterID := strings.TrimSpace(party.CounterpartyID())
	if counterID == "" {
		return nil, models.Invalid(counterField, "is required")
	}
	if counterID == session.UserID {
		return nil, models.Invalid(counterField, "cannot be yourself")
	}

	counterparty, err := s.profiles.GetByID(ctx, counterID)
	if errors.Is(err, models.ErrNotFound) {
		return nil, models.Invalid(counterField, "unknown user")
	}
	if err != nil {
		return nil, fmt.Errorf("load counterparty: %w", err)
	}
	if counterparty.Role != session.Role.Counterpart() {
		return nil, models.Invalid(counterField, fmt.Sprintf("must reference a %s", session.Role.Counterpart()))
	}

	id, err := s.newID()
	if err != nil {
		return nil, fmt.Errorf("generate contract id: %w", err)
	}
	farmerID, buyerID := models.PartyFor(session.Role, counterID).Resolve(session.UserID)
	contract := &models.Contract{
		ID:        id,
		FarmerID:  farmerID,
		BuyerID:   buyerID,
		Crop:      terms.Crop,
		Acreage:   terms.Acreage,
		Quantity:  terms.Quantity,
		Price:     terms.Price,
		StartDate: terms.StartDate,
		EndDate:   terms.EndDate,
		Status:    models.StatusPending,
		CreatedAt: s.now().UTC(),
	}
	if err := s.contracts.Create(ctx, contract); err != nil {
		return nil, fmt.Errorf("insert contract: %w", err)
	}

	s.log.WithFields(logrus.Fields{
		"contract": contract.ID,
		"farmer":   contract.FarmerID,
		"buyer":    contract.BuyerID,
	}).Info("Contract created")
	return contract, nil
}

// SetStatus 执行一次状态迁移。迁移表检查在任何写操作之前完成
func (s *ContractService) SetStatus(ctx context.Context, session models.Session, contractID string, target models.ContractStatus) (*models.Contract, error) {
	if !session.Authenticated() {
		return nil, models.ErrUnauthorized
	}
	if !target.Valid() {
		return nil, models.Invalid("status", "unknown status")
	}

	contract, err := s.contracts.Get(ctx, contractID)
	if err != nil {
		return nil, err
	}
	if !contract.HasParty(session.UserID) {
		return nil, models.Restricted(models.CodeNotAParty, "only the farmer or buyer on this contract can change its status")
	}
	if !models.CanTransition(contract.Status, target) {
		return nil, &models.TransitionError{From: contract.Status, To: target}
	}

	if err := s.contracts.UpdateStatus(ctx, contract.ID, target); err != nil {
		return nil, fmt.Errorf("update contract status: %w", err)
	}

	s.log.WithFields(logrus.Fields{
		"contract": contract.ID,
		"from":     contract.Status,
		"to":       target,
		"by":       session.UserID,
	}).Info("Contract status changed")

	contract.Status = target
	return contract, nil
}

// ListForUser 列出当前用户作为任一方的合同，附带对方信息与可执行的迁移
func (s *ContractService) ListForUser(ctx context.Context, session models.Session) ([]models.ContractView, error) {
	if !session.Authenticated() {
		return nil, models.ErrUnauthorized
	}
	details, err := s.contracts.ListForParty(ctx, session.UserID)
	if err != nil {
		return nil, fmt.Errorf("list contracts: %w", err)
	}

	views := make([]models.ContractView, 0, len(details))
	for _, d := range details {
		if !d.HasParty(session.UserID) {
			continue
		}
		view := models.ContractView{
			ContractDetail: d,
			Counterparty:   d.Buyer,
			Transitions:    d.Status.Next(),
			Final:          d.Status.IsTerminal(),
		}
		if d.BuyerID == session.UserID {
			view.Counterparty = d.Farmer
		}
		views = append(views, view)
	}
	return views, nil
}

func validateTerms(terms *models.ContractTerms) error {
	terms.Crop = strings.TrimSpace(terms.Crop)
	if terms.Crop == "" {
		return models.Invalid("crop", "is required")
	}
	if terms.Price <= 0 {
		return models.Invalid("price", "must be positive")
	}
	if !centPrecision(terms.Price) {
		return models.Invalid("price", "must have at most two decimal places")
	}
	if terms.StartDate.IsZero() {
		return models.Invalid("start_date", "is required")
	}
	if terms.EndDate.IsZero() {
		return models.Invalid("end_date", "is required")
	}
	if terms.EndDate.Before(terms.StartDate) {
		return models.Invalid("end_date", "must not be before start_date")
	}
	if terms.Acreage != nil && *terms.Acreage <= 0 {
		return models.Invalid("acreage", "must be positive")
	}
	if terms.Acreage != nil && !centPrecision(*terms.Acreage) {
		return models.Invalid("acreage", "must have at most two decimal places")
	}
	if terms.Quantity != nil && *terms.Quantity <= 0 {
		return models.Invalid("quantity", "must be positive")
	}
	return nil
}

// centPrecision 金额与面积按 DECIMAL(12,2) 存储
func centPrecision(v float64) bool {
	cents := v * 100
	return math.Abs(cents-math.Round(cents)) < 1e-6
}

func restrictedContracts() error {
	return models.Restricted(models.CodeAccessRestricted, "Contracts are only available to farmer and buyer accounts.")
}
