package database

import (
	"context"
	"fmt"
	"time"

	"aptdeals/server/internal/models"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// DistrictCode is the sqlite row for one reference district
type DistrictCode struct {
	Code      string `gorm:"primaryKey;size:10"`
	Name      string `gorm:"not null;index"`
	Active    bool   `gorm:"not null;index"`
	UpdatedAt time.Time
}

type Database struct {
	db *gorm.DB
}

func NewDatabase(dbPath string) (*Database, error) {
	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	return &Database{db: db}, nil
}

func (d *Database) GetDB() *gorm.DB {
	return d.db
}

// ReplaceDistricts swaps the whole reference table in a single transaction.
func (d *Database) ReplaceDistricts(records []models.DistrictRecord) error {
	rows := make([]DistrictCode, 0, len(records))
	seen := make(map[string]bool, len(records))
	for _, r := range records {
		if seen[r.Code] {
			continue
		}
		seen[r.Code] = true
		rows = append(rows, DistrictCode{Code: r.Code, Name: r.Name, Active: r.Active})
	}

	return d.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&DistrictCode{}).Error; err != nil {
			return fmt.Errorf("failed to clear district codes: %w", err)
		}
		if len(rows) == 0 {
			return nil
		}
		if err := tx.CreateInBatches(rows, 500).Error; err != nil {
			return fmt.Errorf("failed to insert district codes: %w", err)
		}
		return nil
	})
}

// Load returns every stored district, making the database usable as a region source.
func (d *Database) Load(ctx context.Context) ([]models.DistrictRecord, error) {
	var rows []DistrictCode
	if err := d.db.WithContext(ctx).Order("code").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to query district codes: %w", err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("district table is empty")
	}

	records := make([]models.DistrictRecord, len(rows))
	for i, r := range rows {
		records[i] = models.DistrictRecord{Name: r.Name, Code: r.Code, Active: r.Active}
	}
	return records, nil
}

// CountDistricts returns the number of stored districts and how many are active.
func (d *Database) CountDistricts() (total int64, active int64, err error) {
	if err = d.db.Model(&DistrictCode{}).Count(&total).Error; err != nil {
		return 0, 0, err
	}
	if err = d.db.Model(&DistrictCode{}).Where("active = ?", true).Count(&active).Error; err != nil {
		return 0, 0, err
	}
	return total, active, nil
}

func (d *Database) Close() error {
	sqlDB, err := d.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
