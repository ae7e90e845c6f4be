package mysql

import (
	"context"
	"database/sql"

	"go-farmlink/models"
)

// ProfileRepository profiles 表
type ProfileRepository struct {
	DB *sql.DB
}

const profileColumns = "id, name, email, password_hash, role, created_at"

func scanProfile(row scanner) (*models.Profile, error) {
	var p models.Profile
	if err := row.Scan(&p.ID, &p.Name, &p.Email, &p.PasswordHash, &p.Role, &p.CreatedAt); err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *ProfileRepository) Create(ctx context.Context, profile *models.Profile) error {
	_, err := r.DB.ExecContext(ctx,
		"INSERT INTO profiles ("+profileColumns+") VALUES (?, ?, ?, ?, ?, ?)",
		profile.ID, profile.Name, profile.Email, profile.PasswordHash, profile.Role, profile.CreatedAt,
	)
	return translate(err)
}

func (r *ProfileRepository) GetByID(ctx context.Context, id string) (*models.Profile, error) {
	row := r.DB.QueryRowContext(ctx, "SELECT "+profileColumns+" FROM profiles WHERE id = ?", id)
	p, err := scanProfile(row)
	return p, translate(err)
}

func (r *ProfileRepository) GetByEmail(ctx context.Context, email string) (*models.Profile, error) {
	row := r.DB.QueryRowContext(ctx, "SELECT "+profileColumns+" FROM profiles WHERE email = ?", email)
	p, err := scanProfile(row)
	return p, translate(err)
}

func (r *ProfileRepository) ListExcluding(ctx context.Context, id string, role models.Role) ([]models.Profile, error) {
	query := "SELECT " + profileColumns + " FROM profiles WHERE id <> ?"
	args := []interface{}{id}
	if role != "" {
		query += " AND role = ?"
		args = append(args, role)
	}
	query += " ORDER BY name"

	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	profiles := []models.Profile{}
	for rows.Next() {
		p, err := scanProfile(rows)
		if err != nil {
			return nil, err
		}
		profiles = append(profiles, *p)
	}
	return profiles, rows.Err()
}
