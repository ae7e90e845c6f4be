// Package mysql 基于 database/sql 的 MySQL 存储实现
package mysql

import (
	"database/sql"
	"errors"

	driver "github.com/go-sql-driver/mysql"

	"go-farmlink/models"
)

const errDuplicateEntry = 1062

// Repositories 汇总所有表的存储
type Repositories struct {
	Profiles  *ProfileRepository
	Crops     *CropRepository
	RFQs      *RFQRepository
	Contracts *ContractRepository
	SoilTests *SoilTestRepository
}

// New 基于同一个连接池创建所有存储
func New(db *sql.DB) *Repositories {
	return &Repositories{
		Profiles:  &ProfileRepository{DB: db},
		Crops:     &CropRepository{DB: db},
		RFQs:      &RFQRepository{DB: db},
		Contracts: &ContractRepository{DB: db},
		SoilTests: &SoilTestRepository{DB: db},
	}
}

// translate 将驱动错误转换为领域错误
func translate(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return models.ErrNotFound
	}
	var mysqlErr *driver.MySQLError
	if errors.As(err, &mysqlErr) && mysqlErr.Number == errDuplicateEntry {
		return models.ErrConflict
	}
	return err
}

// expectAffected 没有命中任何行时返回 models.ErrNotFound
func expectAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return models.ErrNotFound
	}
	return nil
}

type scanner interface {
	Scan(dest ...interface{}) error
}
