package mysql

import (
	"context"
	"database/sql"

	"go-farmlink/models"
)

// CropRepository crops 表
type CropRepository struct {
	DB *sql.DB
}

func (r *CropRepository) Create(ctx context.Context, crop *models.Crop) error {
	_, err := r.DB.ExecContext(ctx, `
		INSERT INTO crops (id, farmer_id, name, grade, quantity, price, location, description, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, crop.ID, crop.FarmerID, crop.Name, crop.Grade, crop.Quantity, crop.Price, crop.Location, crop.Description, crop.CreatedAt)
	return translate(err)
}

func (r *CropRepository) ListByFarmer(ctx context.Context, farmerID string) ([]models.Crop, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT id, farmer_id, name, grade, quantity, price, location, description, created_at
		FROM crops WHERE farmer_id = ? ORDER BY created_at DESC
	`, farmerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	crops := []models.Crop{}
	for rows.Next() {
		var c models.Crop
		var description sql.NullString
		if err := rows.Scan(&c.ID, &c.FarmerID, &c.Name, &c.Grade, &c.Quantity, &c.Price, &c.Location, &description, &c.CreatedAt); err != nil {
			return nil, err
		}
		c.Description = description.String
		crops = append(crops, c)
	}
	return crops, rows.Err()
}

func (r *CropRepository) ListAll(ctx context.Context) ([]models.CropListing, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT c.id, c.farmer_id, c.name, c.grade, c.quantity, c.price, c.location, c.description, c.created_at,
			p.name, p.email
		FROM crops c
		JOIN profiles p ON p.id = c.farmer_id
		ORDER BY c.created_at DESC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	listings := []models.CropListing{}
	for rows.Next() {
		var l models.CropListing
		var description sql.NullString
		if err := rows.Scan(
			&l.ID, &l.FarmerID, &l.Name, &l.Grade, &l.Quantity, &l.Price, &l.Location, &description, &l.CreatedAt,
			&l.Farmer.Name, &l.Farmer.Email,
		); err != nil {
			return nil, err
		}
		l.Description = description.String
		l.Farmer.ID = l.FarmerID
		listings = append(listings, l)
	}
	return listings, rows.Err()
}

func (r *CropRepository) Delete(ctx context.Context, id, farmerID string) error {
	res, err := r.DB.ExecContext(ctx, "DELETE FROM crops WHERE id = ? AND farmer_id = ?", id, farmerID)
	if err != nil {
		return err
	}
	return expectAffected(res)
}
