package mysql

import (
	"context"
	"database/sql"

	"go-farmlink/models"
)

// RFQRepository rfqs 表
type RFQRepository struct {
	DB *sql.DB
}

func (r *RFQRepository) Create(ctx context.Context, rfq *models.RFQ) error {
	_, err := r.DB.ExecContext(ctx, `
		INSERT INTO rfqs (id, buyer_id, crop, grade, quantity, delivery_date, description, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, rfq.ID, rfq.BuyerID, rfq.Crop, rfq.Grade, rfq.Quantity, rfq.DeliveryDate, rfq.Description, rfq.CreatedAt)
	return translate(err)
}

func (r *RFQRepository) ListByBuyer(ctx context.Context, buyerID string) ([]models.RFQ, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT id, buyer_id, crop, grade, quantity, delivery_date, description, created_at
		FROM rfqs WHERE buyer_id = ? ORDER BY created_at DESC
	`, buyerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	rfqs := []models.RFQ{}
	for rows.Next() {
		var q models.RFQ
		var description sql.NullString
		if err := rows.Scan(&q.ID, &q.BuyerID, &q.Crop, &q.Grade, &q.Quantity, &q.DeliveryDate, &description, &q.CreatedAt); err != nil {
			return nil, err
		}
		q.Description = description.String
		rfqs = append(rfqs, q)
	}
	return rfqs, rows.Err()
}

func (r *RFQRepository) Delete(ctx context.Context, id, buyerID string) error {
	res, err := r.DB.ExecContext(ctx, "DELETE FROM rfqs WHERE id = ? AND buyer_id = ?", id, buyerID)
	if err != nil {
		return err
	}
	return expectAffected(res)
}
