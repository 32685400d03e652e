package database

import (
	"gorm.io/gorm"
)

// MigrateConstraints adds critical database constraints for concurrency control
func MigrateConstraints(db *gorm.DB) error {
	// One section key per agreement, even under concurrent writers
	err := db.Exec(`
		ALTER TABLE sections
		ADD CONSTRAINT IF NOT EXISTS unique_section_key_per_agreement
		UNIQUE (agreement_id, key);
	`).Error
	if err != nil {
		return err
	}

	// Add index for ticket lookups during scanning
	err = db.Exec(`
		CREATE INDEX CONCURRENTLY IF NOT EXISTS idx_tickets_agreement_serial
		ON tickets (agreement_id, serial);
	`).Error
	if err != nil {
		return err
	}

	// Add index for ledger queries by agreement
	err = db.Exec(`
		CREATE INDEX CONCURRENTLY IF NOT EXISTS idx_ledger_entries_agreement_id
		ON ledger_entries (agreement_id);
	`).Error
	if err != nil {
		return err
	}

	return nil
}
