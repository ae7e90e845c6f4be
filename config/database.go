package config

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/go-sql-driver/mysql"
	"github.com/sirupsen/logrus"
)

// ConnectDB 连接数据库并检查连通性
func ConnectDB(ctx context.Context, conf Database) (*sql.DB, error) {
	db, err := sql.Open("mysql", conf.DSN())
	if err != nil {
		return nil, err
	}
	if conf.MaxOpenConns > 0 {
		db.SetMaxOpenConns(conf.MaxOpenConns)
	}

	pingCtx, cancel := context.WithTimeout(ctx, conf.PingTimeout)
	defer cancel()
	if err = db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	return db, nil
}

// Migration 迁移结构
type Migration struct {
	Name string
	SQL  string
}

// Migrate 执行尚未执行的迁移
func Migrate(ctx context.Context, db *sql.DB, log *logrus.Entry) error {
	if err := createMigrationsTable(ctx, db); err != nil {
		return fmt.Errorf("failed to create migrations table: %w", err)
	}

	for _, migration := range Migrations() {
		if err := runMigrationIfNotExists(ctx, db, migration, log); err != nil {
			return fmt.Errorf("failed to run migration %s: %w", migration.Name, err)
		}
	}
	return nil
}

func createMigrationsTable(ctx context.Context, db *sql.DB) error {
	_, err := db.ExecContext(ctx, `
	CREATE TABLE IF NOT EXISTS migrations (
		id INT AUTO_INCREMENT PRIMARY KEY,
		name VARCHAR(255) NOT NULL UNIQUE,
		executed_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	)
	`)
	return err
}

// Migrations 返回全部迁移，按执行顺序排列
func Migrations() []Migration {
	return []Migration{
		{
			Name: "001_create_profiles_table",
			SQL: `
			CREATE TABLE IF NOT EXISTS profiles (
				id VARCHAR(32) PRIMARY KEY,
				name VARCHAR(255) NOT NULL,
				email VARCHAR(255) NOT NULL UNIQUE,
				password_hash VARCHAR(255) NOT NULL,
				role VARCHAR(16) NOT NULL,
				created_at DATETIME(3) NOT NULL,
				INDEX idx_role (role)
			)
			`,
		},
		{
			Name: "002_create_crops_table",
			SQL: `
			CREATE TABLE IF NOT EXISTS crops (
				id VARCHAR(32) PRIMARY KEY,
				farmer_id VARCHAR(32) NOT NULL,
				name VARCHAR(255) NOT NULL,
				grade VARCHAR(32) NOT NULL,
				quantity INT NOT NULL,
				price DECIMAL(12,2) NOT NULL,
				location VARCHAR(255) NOT NULL DEFAULT '',
				description TEXT,
				created_at DATETIME(3) NOT NULL,
				INDEX idx_farmer_created (farmer_id, created_at),
				FOREIGN KEY (farmer_id) REFERENCES profiles(id) ON DELETE CASCADE
			)
			`,
		},
		{
			Name: "003_create_rfqs_table",
			SQL: `
			CREATE TABLE IF NOT EXISTS rfqs (
				id VARCHAR(32) PRIMARY KEY,
				buyer_id VARCHAR(32) NOT NULL,
				crop VARCHAR(255) NOT NULL,
				grade VARCHAR(32) NOT NULL,
				quantity INT NOT NULL,
				delivery_date DATE NOT NULL,
				description TEXT,
				created_at DATETIME(3) NOT NULL,
				INDEX idx_buyer_created (buyer_id, created_at),
				FOREIGN KEY (buyer_id) REFERENCES profiles(id) ON DELETE CASCADE
			)
			`,
		},
		{
			Name: "004_create_contracts_table",
			SQL: `
			CREATE TABLE IF NOT EXISTS contracts (
				id VARCHAR(32) PRIMARY KEY,
				farmer_id VARCHAR(32) NOT NULL,
				buyer_id VARCHAR(32) NOT NULL,
				crop VARCHAR(255) NOT NULL,
				acreage DECIMAL(12,2) NULL,
				quantity INT NULL,
				price DECIMAL(12,2) NOT NULL,
				start_date DATE NOT NULL,
				end_date DATE NOT NULL,
				status VARCHAR(16) NOT NULL DEFAULT 'pending',
				created_at DATETIME(3) NOT NULL,
				INDEX idx_farmer (farmer_id),
				INDEX idx_buyer (buyer_id),
				CONSTRAINT contracts_farmer_id_fkey FOREIGN KEY (farmer_id) REFERENCES profiles(id),
				CONSTRAINT contracts_buyer_id_fkey FOREIGN KEY (buyer_id) REFERENCES profiles(id)
			)
			`,
		},
		{
			Name: "005_create_soil_tests_table",
			SQL: `
			CREATE TABLE IF NOT EXISTS soil_tests (
				id VARCHAR(32) PRIMARY KEY,
				farmer_id VARCHAR(32) NOT NULL,
				file_url TEXT NOT NULL,
				file_name VARCHAR(255) NOT NULL,
				advice TEXT NULL,
				created_at DATETIME(3) NOT NULL,
				INDEX idx_farmer_created (farmer_id, created_at),
				FOREIGN KEY (farmer_id) REFERENCES profiles(id) ON DELETE CASCADE
			)
			`,
		},
	}
}

func runMigrationIfNotExists(ctx context.Context, db *sql.DB, migration Migration, log *logrus.Entry) error {
	var count int
	err := db.QueryRowContext(ctx, "SELECT COUNT(*) FROM migrations WHERE name = ?", migration.Name).Scan(&count)
	if err != nil {
		return err
	}

	if count > 0 {
		log.WithField("migration", migration.Name).Debug("Migration already executed, skipping")
		return nil
	}

	log.WithField("migration", migration.Name).Info("Running migration")
	if _, err := db.ExecContext(ctx, migration.SQL); err != nil {
		return err
	}

	_, err = db.ExecContext(ctx, "INSERT INTO migrations (name) VALUES (?)", migration.Name)
	return err
}
