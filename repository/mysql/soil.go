package mysql

import (
	"context"
	"database/sql"

	"go-farmlink/models"
)

// SoilTestRepository soil_tests 表
type SoilTestRepository struct {
	DB *sql.DB
}

func (r *SoilTestRepository) Create(ctx context.Context, test *models.SoilTest) error {
	_, err := r.DB.ExecContext(ctx, `
		INSERT INTO soil_tests (id, farmer_id, file_url, file_name, advice, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, test.ID, test.FarmerID, test.FileURL, test.FileName, test.Advice, test.CreatedAt)
	return translate(err)
}

func (r *SoilTestRepository) ListByFarmer(ctx context.Context, farmerID string) ([]models.SoilTest, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT id, farmer_id, file_url, file_name, advice, created_at
		FROM soil_tests WHERE farmer_id = ? ORDER BY created_at DESC
	`, farmerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tests := []models.SoilTest{}
	for rows.Next() {
		var t models.SoilTest
		var advice sql.NullString
		if err := rows.Scan(&t.ID, &t.FarmerID, &t.FileURL, &t.FileName, &advice, &t.CreatedAt); err != nil {
			return nil, err
		}
		if advice.Valid {
			s := advice.String
			t.Advice = &s
		}
		tests = append(tests, t)
	}
	return tests, rows.Err()
}
