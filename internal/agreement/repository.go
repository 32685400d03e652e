package agreement

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Repository interface defines the persistence contract for agreements and
// the sections, tickets and ledger entries they own.
type Repository interface {
	Create(ctx context.Context, a *Agreement) error
	GetByID(ctx context.Context, id uuid.UUID) (*Agreement, error)
	GetContract(ctx context.Context, id uuid.UUID) (*Contract, error)
	GetTicket(ctx context.Context, agreementID uuid.UUID, serial int64) (*Ticket, error)
	ListLedger(ctx context.Context, agreementID uuid.UUID) ([]LedgerEntry, error)

	SaveAgreement(ctx context.Context, a *Agreement) error
	CreateSection(ctx context.Context, sec *Section) error
	SaveSection(ctx context.Context, sec *Section) error
	DeleteSection(ctx context.Context, agreementID uuid.UUID, key string) error
	CreateTicket(ctx context.Context, tkt *Ticket) error
	SaveTicket(ctx context.Context, tkt *Ticket) error
	CreateLedgerEntry(ctx context.Context, entry *LedgerEntry) error

	// Transaction runs fn against a repository bound to one database
	// transaction; any error rolls the whole unit back.
	Transaction(ctx context.Context, fn func(tx Repository) error) error
}

type repository struct {
	db *gorm.DB
}

// NewRepository creates a new agreement repository backed by gorm.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, a *Agreement) error {
	return r.db.WithContext(ctx).Create(a).Error
}

func (r *repository) GetByID(ctx context.Context, id uuid.UUID) (*Agreement, error) {
	var a Agreement
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&a).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAgreementNotFound
		}
		return nil, err
	}
	return &a, nil
}

// GetContract loads the agreement with its sections (in insertion order) and
// tickets as one working copy.
func (r *repository) GetContract(ctx context.Context, id uuid.UUID) (*Contract, error) {
	a, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	var sections []Section
	if err := r.db.WithContext(ctx).
		Where("agreement_id = ?", id).
		Order("position ASC").
		Find(&sections).Error; err != nil {
		return nil, err
	}

	var tickets []Ticket
	if err := r.db.WithContext(ctx).
		Where("agreement_id = ?", id).
		Order("created_at ASC").
		Find(&tickets).Error; err != nil {
		return nil, err
	}

	return &Contract{Agreement: *a, Sections: sections, Tickets: tickets}, nil
}

func (r *repository) GetTicket(ctx context.Context, agreementID uuid.UUID, serial int64) (*Ticket, error) {
	var tkt Ticket
	err := r.db.WithContext(ctx).
		Where("agreement_id = ? AND serial = ?", agreementID, serial).
		First(&tkt).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTicketNotFound
		}
		return nil, err
	}
	return &tkt, nil
}

func (r *repository) ListLedger(ctx context.Context, agreementID uuid.UUID) ([]LedgerEntry, error) {
	var entries []LedgerEntry
	err := r.db.WithContext(ctx).
		Where("agreement_id = ?", agreementID).
		Order("created_at ASC").
		Find(&entries).Error
	return entries, err
}

func (r *repository) SaveAgreement(ctx context.Context, a *Agreement) error {
	return r.db.WithContext(ctx).Save(a).Error
}

func (r *repository) CreateSection(ctx context.Context, sec *Section) error {
	return r.db.WithContext(ctx).Create(sec).Error
}

func (r *repository) SaveSection(ctx context.Context, sec *Section) error {
	return r.db.WithContext(ctx).Save(sec).Error
}

func (r *repository) DeleteSection(ctx context.Context, agreementID uuid.UUID, key string) error {
	return r.db.WithContext(ctx).
		Where("agreement_id = ? AND key = ?", agreementID, key).
		Delete(&Section{}).Error
}

func (r *repository) CreateTicket(ctx context.Context, tkt *Ticket) error {
	return r.db.WithContext(ctx).Create(tkt).Error
}

func (r *repository) SaveTicket(ctx context.Context, tkt *Ticket) error {
	return r.db.WithContext(ctx).
		Model(&Ticket{}).
		Where("agreement_id = ? AND serial = ?", tkt.AgreementID, tkt.Serial).
		Select("scanned", "scanned_at").
		Updates(map[string]interface{}{"scanned": tkt.Scanned, "scanned_at": tkt.ScannedAt}).Error
}

func (r *repository) CreateLedgerEntry(ctx context.Context, entry *LedgerEntry) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

func (r *repository) Transaction(ctx context.Context, fn func(tx Repository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&repository{db: tx})
	})
}
