package mysql

import (
	"context"
	"database/sql"

	"go-farmlink/models"
)

// ContractRepository contracts 表
type ContractRepository struct {
	DB *sql.DB
}

func (r *ContractRepository) Create(ctx context.Context, contract *models.Contract) error {
	_, err := r.DB.ExecContext(ctx, `
		INSERT INTO contracts (id, farmer_id, buyer_id, crop, acreage, quantity, price, start_date, end_date, status, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		contract.ID, contract.FarmerID, contract.BuyerID, contract.Crop,
		contract.Acreage, contract.Quantity, contract.Price,
		contract.StartDate, contract.EndDate, contract.Status, contract.CreatedAt,
	)
	return translate(err)
}

func scanContract(row scanner, extra ...interface{}) (*models.Contract, error) {
	var c models.Contract
	var acreage sql.NullFloat64
	var quantity sql.NullInt64
	dest := []interface{}{
		&c.ID, &c.FarmerID, &c.BuyerID, &c.Crop, &acreage, &quantity,
		&c.Price, &c.StartDate, &c.EndDate, &c.Status, &c.CreatedAt,
	}
	if err := row.Scan(append(dest, extra...)...); err != nil {
		return nil, err
	}
	if acreage.Valid {
		v := acreage.Float64
		c.Acreage = &v
	}
	if quantity.Valid {
		v := int(quantity.Int64)
		c.Quantity = &v
	}
	return &c, nil
}

func (r *ContractRepository) Get(ctx context.Context, id string) (*models.Contract, error) {
	row := r.DB.QueryRowContext(ctx, `
		SELECT id, farmer_id, buyer_id, crop, acreage, quantity, price, start_date, end_date, status, created_at
		FROM contracts WHERE id = ?
	`, id)
	c, err := scanContract(row)
	return c, translate(err)
}

func (r *ContractRepository) ListForParty(ctx context.Context, userID string) ([]models.ContractDetail, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT c.id, c.farmer_id, c.buyer_id, c.crop, c.acreage, c.quantity, c.price,
			c.start_date, c.end_date, c.status, c.created_at,
			f.name, f.email, b.name, b.email
		FROM contracts c
		JOIN profiles f ON f.id = c.farmer_id
		JOIN profiles b ON b.id = c.buyer_id
		WHERE c.farmer_id = ? OR c.buyer_id = ?
		ORDER BY c.created_at DESC
	`, userID, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	details := []models.ContractDetail{}
	for rows.Next() {
		var d models.ContractDetail
		c, err := scanContract(rows, &d.Farmer.Name, &d.Farmer.Email, &d.Buyer.Name, &d.Buyer.Email)
		if err != nil {
			return nil, err
		}
		d.Contract = *c
		d.Farmer.ID = c.FarmerID
		d.Buyer.ID = c.BuyerID
		details = append(details, d)
	}
	return details, rows.Err()
}

func (r *ContractRepository) UpdateStatus(ctx context.Context, id string, status models.ContractStatus) error {
	res, err := r.DB.ExecContext(ctx, "UPDATE contracts SET status = ? WHERE id = ?", status, id)
	if err != nil {
		return err
	}
	return expectAffected(res)
}
