package mysql

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	driver "github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-farmlink/models"
)

func newMock(t *testing.T) (*Repositories, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return New(db), mock
}

func TestProfileCreateDuplicateEmail(t *testing.T) {
	repos, mock := newMock(t)
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO profiles")).
		WillReturnError(&driver.MySQLError{Number: 1062, Message: "Duplicate entry"})

	err := repos.Profiles.Create(context.Background(), &models.Profile{ID: "p1", Email: "a@b.c"})
	assert.ErrorIs(t, err, models.ErrConflict)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestProfileGetMissing(t *testing.T) {
	repos, mock := newMock(t)
	mock.ExpectQuery(regexp.QuoteMeta("FROM profiles WHERE id = ?")).
		WithArgs("nope").
		WillReturnError(sql.ErrNoRows)

	_, err := repos.Profiles.GetByID(context.Background(), "nope")
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestProfileListExcludingFiltersRole(t *testing.T) {
	repos, mock := newMock(t)
	now := time.Now()
	mock.ExpectQuery(regexp.QuoteMeta("FROM profiles WHERE id <> ? AND role = ? ORDER BY name")).
		WithArgs("me", "buyer").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "email", "password_hash", "role", "created_at"}).
			AddRow("b1", "Bea", "bea@example.com", "hash", "buyer", now))

	profiles, err := repos.Profiles.ListExcluding(context.Background(), "me", models.RoleBuyer)
	require.NoError(t, err)
	require.Len(t, profiles, 1)
	assert.Equal(t, models.RoleBuyer, profiles[0].Role)
	assert.Equal(t, "Bea", profiles[0].Name)
}

func TestCropListAllJoinsFarmer(t *testing.T) {
	repos, mock := newMock(t)
	now := time.Now()
	mock.ExpectQuery(regexp.QuoteMeta("JOIN profiles p ON p.id = c.farmer_id")).
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "farmer_id", "name", "grade", "quantity", "price", "location", "description", "created_at", "name", "email",
		}).AddRow("c1", "f1", "Wheat", "Organic", 100, 20.5, "Nashik", nil, now, "Farah", "farah@example.com"))

	listings, err := repos.Crops.ListAll(context.Background())
	require.NoError(t, err)
	require.Len(t, listings, 1)
	assert.Equal(t, models.GradeOrganic, listings[0].Grade)
	assert.Equal(t, "", listings[0].Description)
	assert.Equal(t, models.PartySummary{ID: "f1", Name: "Farah", Email: "farah@example.com"}, listings[0].Farmer)
}

func TestCropDeleteNotOwned(t *testing.T) {
	repos, mock := newMock(t)
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM crops WHERE id = ? AND farmer_id = ?")).
		WithArgs("c1", "other").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repos.Crops.Delete(context.Background(), "c1", "other")
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestRFQCreateWritesDeliveryDate(t *testing.T) {
	repos, mock := newMock(t)
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO rfqs")).
		WithArgs("q1", "b1", "Rice", "Grade A", 50, "2026-03-01", "", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repos.RFQs.Create(context.Background(), &models.RFQ{
		ID: "q1", BuyerID: "b1", Crop: "Rice", Grade: models.GradeA, Quantity: 50,
		DeliveryDate: models.NewDate(2026, time.March, 1), CreatedAt: time.Now(),
	})
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestContractGetNullableTerms(t *testing.T) {
	repos, mock := newMock(t)
	now := time.Now()
	mock.ExpectQuery(regexp.QuoteMeta("FROM contracts WHERE id = ?")).
		WithArgs("k1").
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "farmer_id", "buyer_id", "crop", "acreage", "quantity", "price", "start_date", "end_date", "status", "created_at",
		}).AddRow("k1", "f1", "b1", "Wheat", nil, 10, 99.5, "2026-01-01", "2026-06-30", "pending", now))

	c, err := repos.Contracts.Get(context.Background(), "k1")
	require.NoError(t, err)
	assert.Nil(t, c.Acreage)
	require.NotNil(t, c.Quantity)
	assert.Equal(t, 10, *c.Quantity)
	assert.Equal(t, models.StatusPending, c.Status)
	assert.Equal(t, "2026-06-30", c.EndDate.String())
}

func TestContractListForParty(t *testing.T) {
	repos, mock := newMock(t)
	now := time.Now()
	mock.ExpectQuery(regexp.QuoteMeta("WHERE c.farmer_id = ? OR c.buyer_id = ?")).
		WithArgs("f1", "f1").
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "farmer_id", "buyer_id", "crop", "acreage", "quantity", "price", "start_date", "end_date", "status", "created_at",
			"f_name", "f_email", "b_name", "b_email",
		}).AddRow("k1", "f1", "b1", "Wheat", 2.5, nil, 99.5, "2026-01-01", "2026-06-30", "approved", now,
			"Farah", "farah@example.com", "Bea", "bea@example.com"))

	details, err := repos.Contracts.ListForParty(context.Background(), "f1")
	require.NoError(t, err)
	require.Len(t, details, 1)
	assert.Equal(t, "Bea", details[0].Buyer.Name)
	assert.Equal(t, "b1", details[0].Buyer.ID)
	assert.Equal(t, "f1", details[0].Farmer.ID)
	require.NotNil(t, details[0].Acreage)
	assert.InDelta(t, 2.5, *details[0].Acreage, 0.0001)
	assert.Nil(t, details[0].Quantity)
}

func TestContractUpdateStatusMissing(t *testing.T) {
	repos, mock := newMock(t)
	mock.ExpectExec(regexp.QuoteMeta("UPDATE contracts SET status = ? WHERE id = ?")).
		WithArgs("approved", "missing").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repos.Contracts.UpdateStatus(context.Background(), "missing", models.StatusApproved)
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestSoilTestListKeepsNullAdvice(t *testing.T) {
	repos, mock := newMock(t)
	now := time.Now()
	mock.ExpectQuery(regexp.QuoteMeta("FROM soil_tests WHERE farmer_id = ?")).
		WithArgs("f1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "farmer_id", "file_url", "file_name", "advice", "created_at"}).
			AddRow("s1", "f1", "http://x/a.pdf", "a.pdf", nil, now).
			AddRow("s2", "f1", "http://x/b.pdf", "b.pdf", "Add lime", now))

	tests, err := repos.SoilTests.ListByFarmer(context.Background(), "f1")
	require.NoError(t, err)
	require.Len(t, tests, 2)
	assert.Nil(t, tests[0].Advice)
	require.NotNil(t, tests[1].Advice)
	assert.Equal(t, "Add lime", *tests[1].Advice)
}

func TestTranslatePassesThroughOtherErrors(t *testing.T) {
	boom := errors.New("boom")
	assert.Same(t, boom, translate(boom))
	assert.NoError(t, translate(nil))
}
