package database

func (d *Database) RunMigrations() error {
	if err := d.db.AutoMigrate(&DistrictCode{}); err != nil {
		return err
	}

	// Substring lookups scan names, the active flag narrows them first
	return d.db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_district_codes_active_code
		ON district_codes(active, code);
	`).Error
}
