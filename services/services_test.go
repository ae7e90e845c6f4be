package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go-farmlink/models"
	"go-farmlink/repository/memory"
)

var testClock = time.Date(2026, time.May, 4, 9, 0, 0, 0, time.UTC)

// sequentialIDs 返回可预测的标识
func sequentialIDs(prefix string) func() (string, error) {
	n := 0
	return func() (string, error) {
		n++
		return fmt.Sprintf("%s%d", prefix, n), nil
	}
}

// seedProfile 直接写入资料并返回其会话
func seedProfile(store *memory.Store, id, name string, role models.Role) models.Session {
	p := &models.Profile{ID: id, Name: name, Email: id + "@example.com", Role: role, CreatedAt: testClock}
	if err := store.Profiles().Create(context.Background(), p); err != nil {
		panic(err)
	}
	return models.NewSession(p)
}

// countingContracts 记录写操作次数
type countingContracts struct {
	ContractRepository
	updates int
	creates int
}

func (c *countingContracts) Create(ctx context.Context, contract *models.Contract) error {
	c.creates++
	return c.ContractRepository.Create(ctx, contract)
}

func (c *countingContracts) UpdateStatus(ctx context.Context, id string, status models.ContractStatus) error {
	c.updates++
	return c.ContractRepository.UpdateStatus(ctx, id, status)
}

var errStoreDown = errors.New("connection reset")

// brokenContracts 读操作正常，写操作全部失败
type brokenContracts struct {
	ContractRepository
}

func (brokenContracts) Create(ctx context.Context, contract *models.Contract) error {
	return errStoreDown
}

func (brokenContracts) UpdateStatus(ctx context.Context, id string, status models.ContractStatus) error {
	return errStoreDown
}

func ptrFloat(v float64) *float64 { return &v }
func ptrInt(v int) *int           { return &v }
