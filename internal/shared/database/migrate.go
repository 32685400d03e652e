package database

import (
	"nfticket/internal/agreement"
	"nfticket/internal/principals"

	"gorm.io/gorm"
)

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&principals.Principal{},
		&agreement.Agreement{},
		&agreement.Section{},
		&agreement.Ticket{},
		&agreement.LedgerEntry{},
	)
}
