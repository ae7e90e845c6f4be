package services

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-farmlink/models"
	"go-farmlink/repository/memory"
	"go-farmlink/storage"
)

type failingSoilTests struct{}

func (failingSoilTests) Create(ctx context.Context, test *models.SoilTest) error {
	return errors.New("insert failed")
}

func (failingSoilTests) ListByFarmer(ctx context.Context, farmerID string) ([]models.SoilTest, error) {
	return nil, nil
}

func newSoilService(t *testing.T, tests SoilTestRepository) (*SoilService, *storage.DiskBucket) {
	bucket, err := storage.NewDiskBucket(t.TempDir(), storage.SoilTestsBucket, "http://files.test")
	require.NoError(t, err)
	s := NewSoilService(tests, bucket)
	s.now = func() time.Time { return testClock }
	s.newID = sequentialIDs("soil-")
	return s, bucket
}

func TestSoilUploadAttachesAdvice(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	farmer := seedProfile(store, "farmer-1", "Farah", models.RoleFarmer)
	service, _ := newSoilService(t, store.SoilTests())

	test, err := service.Upload(ctx, farmer, "Report.PDF", strings.NewReader("ph=6.4"))
	require.NoError(t, err)
	require.NotNil(t, test.Advice)
	assert.Contains(t, models.AdviceOptions, *test.Advice)
	assert.Equal(t, "Report.PDF", test.FileName)

	objectPath := "farmer-1/1777885200000.pdf"
	assert.Equal(t, "http://files.test/soil-tests/"+objectPath, test.FileURL)

	f, err := service.Open(objectPath)
	require.NoError(t, err)
	defer f.Close()
	body, err := io.ReadAll(f)
	require.NoError(t, err)
	assert.Equal(t, "ph=6.4", string(body))

	mine, err := service.ListMine(ctx, farmer)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, test.ID, mine[0].ID)
}

func TestSoilUploadPicksEachAdvice(t *testing.T) {
	store := memory.NewStore()
	farmer := seedProfile(store, "farmer-1", "Farah", models.RoleFarmer)
	service, _ := newSoilService(t, store.SoilTests())

	for i := range models.AdviceOptions {
		idx := i
		service.pick = func(n int) int { return idx }
		service.now = func() time.Time { return testClock.Add(time.Duration(idx) * time.Millisecond) }
		test, err := service.Upload(context.Background(), farmer, "r.csv", strings.NewReader("x"))
		require.NoError(t, err)
		assert.Equal(t, models.AdviceOptions[idx], *test.Advice)
	}
}

func TestSoilUploadRemovesOrphanOnInsertFailure(t *testing.T) {
	store := memory.NewStore()
	farmer := seedProfile(store, "farmer-1", "Farah", models.RoleFarmer)
	service, bucket := newSoilService(t, failingSoilTests{})

	_, err := service.Upload(context.Background(), farmer, "r.pdf", strings.NewReader("x"))
	require.Error(t, err)

	_, err = bucket.Open("farmer-1/1777885200000.pdf")
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestSoilUploadRestrictedToFarmers(t *testing.T) {
	store := memory.NewStore()
	buyer := seedProfile(store, "buyer-1", "Bea", models.RoleBuyer)
	service, _ := newSoilService(t, store.SoilTests())

	_, err := service.Upload(context.Background(), buyer, "r.pdf", strings.NewReader("x"))
	accessErr, ok := models.IsAccessError(err)
	require.True(t, ok)
	assert.Equal(t, advisoryRestricted, accessErr.Message)

	_, err = service.ListMine(context.Background(), models.Session{})
	assert.ErrorIs(t, err, models.ErrUnauthorized)
}
