package services

import (
	"context"
	"fmt"
	"io"
	"math/rand"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"go-farmlink/logger"
	"go-farmlink/models"
	"go-farmlink/storage"
	"go-farmlink/utils"
)

const advisoryRestricted = "Advisory services are only available to farmers. Please log in with a farmer account to access this feature."

// SoilService 土壤检测上传与建议
type SoilService struct {
	tests  SoilTestRepository
	bucket storage.Bucket
	log    *logrus.Entry

	now   func() time.Time
	newID func() (string, error)
	// pick 返回 [0, n) 内的下标
	pick func(n int) int
}

// NewSoilService 创建一个新的SoilService实例
func NewSoilService(tests SoilTestRepository, bucket storage.Bucket) *SoilService {
	return &SoilService{
		tests:  tests,
		bucket: bucket,
		log:    logger.NewSublogger("advisory"),
		now:    time.Now,
		newID:  utils.NewID,
		pick:   rand.Intn,
	}
}

// Upload 保存文件并写入检测记录，记录写入失败时删除已上传的文件
func (s *SoilService) Upload(ctx context.Context, session models.Session, fileName string, content io.Reader) (*models.SoilTest, error) {
	if err := requireFarmer(session, advisoryRestricted); err != nil {
		return nil, err
	}
	fileName = strings.TrimSpace(fileName)
	if fileName == "" || content == nil {
		return nil, models.Invalid("file", "is required")
	}

	now := s.now().UTC()
	objectPath := utils.ObjectPath(session.UserID, now, fileName)
	if err := s.bucket.Upload(ctx, objectPath, content); err != nil {
		return nil, fmt.Errorf("upload soil test file: %w", err)
	}

	id, err := s.newID()
	if err != nil {
		s.discard(objectPath)
		return nil, fmt.Errorf("generate soil test id: %w", err)
	}
	advice := models.AdviceOptions[s.pick(len(models.AdviceOptions))]
	test := &models.SoilTest{
		ID:        id,
		FarmerID:  session.UserID,
		FileURL:   s.bucket.PublicURL(objectPath),
		FileName:  fileName,
		Advice:    &advice,
		CreatedAt: now,
	}
	if err := s.tests.Create(ctx, test); err != nil {
		s.discard(objectPath)
		return nil, fmt.Errorf("insert soil test: %w", err)
	}

	s.log.WithFields(logrus.Fields{
		"soil_test": test.ID,
		"bucket":    s.bucket.Name(),
		"object":    objectPath,
	}).Info("Soil test uploaded")
	return test, nil
}

// ListMine 当前农户的检测记录
func (s *SoilService) ListMine(ctx context.Context, session models.Session) ([]models.SoilTest, error) {
	if err := requireFarmer(session, advisoryRestricted); err != nil {
		return nil, err
	}
	tests, err := s.tests.ListByFarmer(ctx, session.UserID)
	if err != nil {
		return nil, fmt.Errorf("list soil tests: %w", err)
	}
	return tests, nil
}

// Open 读取桶内对象
func (s *SoilService) Open(objectPath string) (io.ReadCloser, error) {
	return s.bucket.Open(objectPath)
}

func (s *SoilService) discard(objectPath string) {
	// 请求可能已取消，清理不沿用请求的 ctx
	if err := s.bucket.Remove(context.Background(), objectPath); err != nil {
		s.log.WithError(err).WithField("object", objectPath).Warn("Failed to remove orphaned upload")
	}
}
