package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"nfticket/internal/agreement"
	"nfticket/internal/principals"
	"nfticket/internal/shared/config"
	"nfticket/internal/shared/database"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

type Seeder struct {
	db *database.DB
}

func main() {
	fmt.Println("🌱 Starting NFTicket Database Seeder...")

	cfg := config.Load()

	db, err := database.InitDB(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	seeder := &Seeder{db: db}

	fmt.Println("\n🧹 Cleaning database...")
	if err := seeder.CleanDatabase(); err != nil {
		log.Fatalf("Failed to clean database: %v", err)
	}
	fmt.Println("✅ Database cleaned successfully")

	fmt.Println("\n🌱 Seeding database...")
	if err := seeder.SeedAll(); err != nil {
		log.Fatalf("Failed to seed database: %v", err)
	}
	fmt.Println("✅ Database seeded successfully")

	fmt.Println("\n🎉 Seeding completed! Database is ready for testing.")
}

// CleanDatabase truncates all tables in reverse dependency order.
func (s *Seeder) CleanDatabase() error {
	tables := []string{
		"ledger_entries",
		"tickets",
		"sections",
		"agreements",
		"principals",
	}

	tx := s.db.PostgreSQL.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()

	for _, table := range tables {
		fmt.Printf("  Truncating table: %s\n", table)
		if err := tx.Exec(fmt.Sprintf("TRUNCATE TABLE %s RESTART IDENTITY CASCADE", table)).Error; err != nil {
			tx.Rollback()
			return fmt.Errorf("failed to truncate table %s: %w", table, err)
		}
	}

	return tx.Commit().Error
}

// SeedAll seeds principals and a pair of demo agreements.
func (s *Seeder) SeedAll() error {
	ctx := context.Background()

	principalIDs, err := s.SeedPrincipals()
	if err != nil {
		return fmt.Errorf("failed to seed principals: %w", err)
	}

	if err := s.SeedAgreements(principalIDs); err != nil {
		return fmt.Errorf("failed to seed agreements: %w", err)
	}

	// Clear Redis so cached reads and locks start fresh.
	if s.db.Redis != nil {
		if err := s.db.Redis.FlushDB(ctx).Err(); err != nil {
			log.Printf("Warning: Failed to clear Redis: %v", err)
		}
	}

	return nil
}

// SeedPrincipals creates the platform owner, a venue, an entertainer and one
// plain attendee. All use the password "qwerty".
func (s *Seeder) SeedPrincipals() (map[string]uuid.UUID, error) {
	fmt.Println("  👤 Seeding principals...")

	principalIDs := make(map[string]uuid.UUID)

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte("qwerty"), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	principalsData := []struct {
		key           string
		firstName     string
		lastName      string
		email         string
		walletAccount string
	}{
		{"owner", "Olive", "Platform", "owner@nfticket.dev", "0.0.1001"},
		{"venue", "Grand", "Arena", "venue@nfticket.dev", "0.0.1002"},
		{"entertainer", "Ella", "Vox", "entertainer@nfticket.dev", "0.0.1003"},
		{"attendee", "Sam", "Fan", "attendee@nfticket.dev", "0.0.1004"},
	}

	for _, data := range principalsData {
		principal := principals.Principal{
			ID:            uuid.New(),
			FirstName:     data.firstName,
			LastName:      data.lastName,
			Email:         data.email,
			Password:      string(hashedPassword),
			WalletAccount: data.walletAccount,
			CreatedAt:     time.Now(),
			UpdatedAt:     time.Now(),
		}

		if err := s.db.PostgreSQL.Create(&principal).Error; err != nil {
			return nil, fmt.Errorf("failed to create principal %s: %w", data.email, err)
		}

		principalIDs[data.key] = principal.ID
		fmt.Printf("    ✅ Created principal: %s (%s)\n", principal.Email, principal.WalletAccount)
	}

	return principalIDs, nil
}

// SeedAgreements creates one fully negotiated, signed agreement ready for
// ticket sales and one agreement still in negotiation.
func (s *Seeder) SeedAgreements(principalIDs map[string]uuid.UUID) error {
	fmt.Println("  🎫 Seeding agreements...")

	owner := principalIDs["owner"]
	venue := principalIDs["venue"]
	entertainer := principalIDs["entertainer"]

	// Finalized agreement: sales already open, GA and VIP sections.
	finalized, err := agreement.NewAgreement(owner, venue, entertainer, 300)
	if err != nil {
		return err
	}

	now := time.Now().Unix()
	if err := finalized.SetEventDateTime(agreement.RoleEntertainer, now+30*24*3600); err != nil {
		return err
	}
	if err := finalized.SetSalesStart(agreement.RoleEntertainer, now-3600); err != nil {
		return err
	}
	if err := finalized.SetSalesEnd(agreement.RoleEntertainer, now+29*24*3600); err != nil {
		return err
	}
	if err := finalized.SetDefaultTicketPrice(agreement.RoleEntertainer, 1500); err != nil {
		return err
	}
	if err := finalized.SetVenueFeeBasisPoints(agreement.RoleEntertainer, 1500); err != nil {
		return err
	}

	ctr := &agreement.Contract{Agreement: *finalized}
	if _, err := ctr.AddSection(agreement.RoleVenue, "GA", 200); err != nil {
		return err
	}
	if _, err := ctr.AddSection(agreement.RoleVenue, "VIP", 20); err != nil {
		return err
	}
	if _, err := ctr.SetSectionTicketPrice(agreement.RoleVenue, "VIP", 5000); err != nil {
		return err
	}
	if err := ctr.Agreement.Sign(agreement.RoleVenue); err != nil {
		return err
	}
	if err := ctr.Agreement.Sign(agreement.RoleEntertainer); err != nil {
		return err
	}

	if err := s.db.PostgreSQL.Create(&ctr.Agreement).Error; err != nil {
		return fmt.Errorf("failed to create finalized agreement: %w", err)
	}
	for i := range ctr.Sections {
		if err := s.db.PostgreSQL.Create(&ctr.Sections[i]).Error; err != nil {
			return fmt.Errorf("failed to create section %s: %w", ctr.Sections[i].Key, err)
		}
	}
	fmt.Printf("    ✅ Created finalized agreement: %s (GA + VIP)\n", ctr.Agreement.ID)

	// Draft agreement: terms still under negotiation, nothing signed.
	draft, err := agreement.NewAgreement(owner, venue, entertainer, 300)
	if err != nil {
		return err
	}
	if err := draft.SetEventDateTime(agreement.RoleEntertainer, now+90*24*3600); err != nil {
		return err
	}

	if err := s.db.PostgreSQL.Create(draft).Error; err != nil {
		return fmt.Errorf("failed to create draft agreement: %w", err)
	}
	fmt.Printf("    ✅ Created draft agreement: %s\n", draft.ID)

	return nil
}
