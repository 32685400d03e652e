package agreement

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"nfticket/internal/minting"
	"nfticket/internal/shared/redislock"
	"nfticket/pkg/logger"
)

// How long a single agreement operation may hold the serialization lock.
const agreementLockTTL = 30 * time.Second

// Service interface defines the contract for the agreement state machine:
// term negotiation, section management, bilateral signing, ticket sales,
// scanning and payout distribution.
type Service interface {
	CreateAgreement(ctx context.Context, callerID uuid.UUID, venueID, entertainerID uuid.UUID, serviceFeeBasisPoints int64) (*Agreement, error)
	GetAgreement(ctx context.Context, id uuid.UUID) (*Contract, error)

	SetEventDateTime(ctx context.Context, id, callerID uuid.UUID, ts int64) (*Agreement, error)
	SetSalesStart(ctx context.Context, id, callerID uuid.UUID, ts int64) (*Agreement, error)
	SetSalesEnd(ctx context.Context, id, callerID uuid.UUID, ts int64) (*Agreement, error)
	SetDefaultTicketPrice(ctx context.Context, id, callerID uuid.UUID, price int64) (*Agreement, error)
	SetVenueFeeBasisPoints(ctx context.Context, id, callerID uuid.UUID, bps int64) (*Agreement, error)

	AddSection(ctx context.Context, id, callerID uuid.UUID, key string, capacity int64) (*Section, error)
	SetSectionTicketPrice(ctx context.Context, id, callerID uuid.UUID, key string, price int64) (*Section, error)
	SetSectionCapacity(ctx context.Context, id, callerID uuid.UUID, key string, capacity int64) (*Section, error)
	RemoveSection(ctx context.Context, id, callerID uuid.UUID, key string) error
	GetSection(ctx context.Context, id uuid.UUID, key string) (*Section, error)
	ListSectionKeys(ctx context.Context, id uuid.UUID) ([]string, error)

	SignContract(ctx context.Context, id, callerID uuid.UUID) (*Agreement, error)
	CreateNft(ctx context.Context, id, callerID uuid.UUID, req *minting.CreateCollectionRequest) (string, error)
	PurchaseTicket(ctx context.Context, id, callerID uuid.UUID, buyerAccount string, sectionKey, metadata string, tendered int64) (*Ticket, error)
	GetTicket(ctx context.Context, id uuid.UUID, serial int64) (*Ticket, error)
	ScanTicket(ctx context.Context, id, callerID uuid.UUID, serial int64) (*Ticket, error)
	CollectPayout(ctx context.Context, id, callerID uuid.UUID) (*Payout, error)
	Deposit(ctx context.Context, id, callerID uuid.UUID, amount int64) (*Agreement, error)
	GetBalance(ctx context.Context, id uuid.UUID) (int64, error)
	ListLedger(ctx context.Context, id uuid.UUID) ([]LedgerEntry, error)
}

// service implements the Service interface.
type service struct {
	repo      Repository
	minter    minting.Minter
	publisher EventPublisher
	locker    *redislock.Locker
	log       *logger.Logger
}

// NewService creates a new agreement service instance.
func NewService(repo Repository, minter minting.Minter, publisher EventPublisher, locker *redislock.Locker, log *logger.Logger) Service {
	if publisher == nil {
		publisher = NopEventPublisher{}
	}
	return &service{
		repo:      repo,
		minter:    minter,
		publisher: publisher,
		locker:    locker,
		log:       log,
	}
}

// lock serializes mutating operations on one agreement across instances.
// Without Redis configured, operations run unserialized (single-instance
// deployments).
func (s *service) lock(ctx context.Context, id uuid.UUID) (func(), error) {
	if s.locker == nil {
		return func() {}, nil
	}

	token, err := s.locker.Acquire(ctx, id.String(), agreementLockTTL)
	if err != nil {
		return nil, err
	}
	return func() {
		if err := s.locker.Release(ctx, id.String(), token); err != nil {
			s.log.Warn("failed to release agreement lock",
				slog.String("agreement_id", id.String()),
				slog.Any("error", err),
			)
		}
	}, nil
}

// publish sends a lifecycle event, best effort. A consumer that misses an
// event can rebuild from the database; the agreement itself never fails
// because Kafka is down.
func (s *service) publish(ctx context.Context, eventType string, agreementID uuid.UUID, payload map[string]interface{}) {
	event := &LifecycleEvent{
		Type:        eventType,
		AgreementID: agreementID,
		Payload:     payload,
	}
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.log.Warn("failed to publish lifecycle event",
			slog.String("event_type", eventType),
			slog.String("agreement_id", agreementID.String()),
			slog.Any("error", err),
		)
	}
}

func (s *service) CreateAgreement(ctx context.Context, callerID uuid.UUID, venueID, entertainerID uuid.UUID, serviceFeeBasisPoints int64) (*Agreement, error) {
	a, err := NewAgreement(callerID, venueID, entertainerID, serviceFeeBasisPoints)
	if err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, a); err != nil {
		return nil, err
	}

	s.publish(ctx, EventAgreementCreated, a.ID, map[string]interface{}{
		"owner_id":       a.OwnerID.String(),
		"venue_id":       a.VenueID.String(),
		"entertainer_id": a.EntertainerID.String(),
	})
	s.log.LogAgreementCreated(ctx, a.ID.String(), a.VenueID.String(), a.EntertainerID.String())
	return a, nil
}

func (s *service) GetAgreement(ctx context.Context, id uuid.UUID) (*Contract, error) {
	return s.repo.GetContract(ctx, id)
}

// updateTerms runs one term registry mutation under the agreement lock and
// persists the result.
func (s *service) updateTerms(ctx context.Context, id, callerID uuid.UUID, mutate func(a *Agreement, caller Role) error) (*Agreement, error) {
	unlock, err := s.lock(ctx, id)
	if err != nil {
		return nil, err
	}
	defer unlock()

	a, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := mutate(a, a.RoleOf(callerID)); err != nil {
		return nil, err
	}

	if err := s.repo.SaveAgreement(ctx, a); err != nil {
		return nil, err
	}
	return a, nil
}

func (s *service) SetEventDateTime(ctx context.Context, id, callerID uuid.UUID, ts int64) (*Agreement, error) {
	return s.updateTerms(ctx, id, callerID, func(a *Agreement, caller Role) error {
		return a.SetEventDateTime(caller, ts)
	})
}

func (s *service) SetSalesStart(ctx context.Context, id, callerID uuid.UUID, ts int64) (*Agreement, error) {
	return s.updateTerms(ctx, id, callerID, func(a *Agreement, caller Role) error {
		return a.SetSalesStart(caller, ts)
	})
}

func (s *service) SetSalesEnd(ctx context.Context, id, callerID uuid.UUID, ts int64) (*Agreement, error) {
	return s.updateTerms(ctx, id, callerID, func(a *Agreement, caller Role) error {
		return a.SetSalesEnd(caller, ts)
	})
}

func (s *service) SetDefaultTicketPrice(ctx context.Context, id, callerID uuid.UUID, price int64) (*Agreement, error) {
	return s.updateTerms(ctx, id, callerID, func(a *Agreement, caller Role) error {
		return a.SetDefaultTicketPrice(caller, price)
	})
}

func (s *service) SetVenueFeeBasisPoints(ctx context.Context, id, callerID uuid.UUID, bps int64) (*Agreement, error) {
	return s.updateTerms(ctx, id, callerID, func(a *Agreement, caller Role) error {
		return a.SetVenueFeeBasisPoints(caller, bps)
	})
}

func (s *service) AddSection(ctx context.Context, id, callerID uuid.UUID, key string, capacity int64) (*Section, error) {
	unlock, err := s.lock(ctx, id)
	if err != nil {
		return nil, err
	}
	defer unlock()

	ctr, err := s.repo.GetContract(ctx, id)
	if err != nil {
		return nil, err
	}

	sec, err := ctr.AddSection(ctr.Agreement.RoleOf(callerID), key, capacity)
	if err != nil {
		return nil, err
	}

	err = s.repo.Transaction(ctx, func(tx Repository) error {
		if err := tx.CreateSection(ctx, sec); err != nil {
			return err
		}
		return tx.SaveAgreement(ctx, &ctr.Agreement)
	})
	if err != nil {
		return nil, err
	}
	return sec, nil
}

// updateSection runs one section mutation that touches an existing section.
func (s *service) updateSection(ctx context.Context, id, callerID uuid.UUID, mutate func(ctr *Contract, caller Role) (*Section, error)) (*Section, error) {
	unlock, err := s.lock(ctx, id)
	if err != nil {
		return nil, err
	}
	defer unlock()

	ctr, err := s.repo.GetContract(ctx, id)
	if err != nil {
		return nil, err
	}

	sec, err := mutate(ctr, ctr.Agreement.RoleOf(callerID))
	if err != nil {
		return nil, err
	}

	err = s.repo.Transaction(ctx, func(tx Repository) error {
		if err := tx.SaveSection(ctx, sec); err != nil {
			return err
		}
		return tx.SaveAgreement(ctx, &ctr.Agreement)
	})
	if err != nil {
		return nil, err
	}
	return sec, nil
}

func (s *service) SetSectionTicketPrice(ctx context.Context, id, callerID uuid.UUID, key string, price int64) (*Section, error) {
	return s.updateSection(ctx, id, callerID, func(ctr *Contract, caller Role) (*Section, error) {
		return ctr.SetSectionTicketPrice(caller, key, price)
	})
}

func (s *service) SetSectionCapacity(ctx context.Context, id, callerID uuid.UUID, key string, capacity int64) (*Section, error) {
	return s.updateSection(ctx, id, callerID, func(ctr *Contract, caller Role) (*Section, error) {
		return ctr.SetSectionCapacity(caller, key, capacity)
	})
}

func (s *service) RemoveSection(ctx context.Context, id, callerID uuid.UUID, key string) error {
	unlock, err := s.lock(ctx, id)
	if err != nil {
		return err
	}
	defer unlock()

	ctr, err := s.repo.GetContract(ctx, id)
	if err != nil {
		return err
	}

	if err := ctr.RemoveSection(ctr.Agreement.RoleOf(callerID), key); err != nil {
		return err
	}

	return s.repo.Transaction(ctx, func(tx Repository) error {
		if err := tx.DeleteSection(ctx, id, key); err != nil {
			return err
		}
		return tx.SaveAgreement(ctx, &ctr.Agreement)
	})
}

func (s *service) GetSection(ctx context.Context, id uuid.UUID, key string) (*Section, error) {
	ctr, err := s.repo.GetContract(ctx, id)
	if err != nil {
		return nil, err
	}
	sec := ctr.GetSection(key)
	return &sec, nil
}

func (s *service) ListSectionKeys(ctx context.Context, id uuid.UUID) ([]string, error) {
	ctr, err := s.repo.GetContract(ctx, id)
	if err != nil {
		return nil, err
	}
	return ctr.SectionKeys(), nil
}

func (s *service) SignContract(ctx context.Context, id, callerID uuid.UUID) (*Agreement, error) {
	unlock, err := s.lock(ctx, id)
	if err != nil {
		return nil, err
	}
	defer unlock()

	a, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := a.Sign(a.RoleOf(callerID)); err != nil {
		return nil, err
	}

	if err := s.repo.SaveAgreement(ctx, a); err != nil {
		return nil, err
	}

	if a.IsFinalized() {
		s.publish(ctx, EventAgreementFinalized, a.ID, nil)
		s.log.LogAgreementFinalized(ctx, a.ID.String())
	}
	return a, nil
}

func (s *service) CreateNft(ctx context.Context, id, callerID uuid.UUID, req *minting.CreateCollectionRequest) (string, error) {
	unlock, err := s.lock(ctx, id)
	if err != nil {
		return "", err
	}
	defer unlock()

	a, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return "", err
	}

	collectionID, err := a.CreateNft(ctx, a.RoleOf(callerID), s.minter, req)
	if err != nil {
		return "", err
	}

	if err := s.repo.SaveAgreement(ctx, a); err != nil {
		return "", err
	}

	s.publish(ctx, EventNftCollectionCreated, a.ID, map[string]interface{}{
		"collection_id": collectionID,
	})
	return collectionID, nil
}

func (s *service) PurchaseTicket(ctx context.Context, id, callerID uuid.UUID, buyerAccount string, sectionKey, metadata string, tendered int64) (*Ticket, error) {
	unlock, err := s.lock(ctx, id)
	if err != nil {
		return nil, err
	}
	defer unlock()

	ctr, err := s.repo.GetContract(ctx, id)
	if err != nil {
		return nil, err
	}

	if buyerAccount == "" {
		buyerAccount = callerID.String()
	}

	now := time.Now().Unix()
	tkt, sec, err := ctr.PurchaseTicket(ctx, buyerAccount, sectionKey, metadata, tendered, now, s.minter)
	if err != nil {
		return nil, err
	}

	serial := tkt.Serial
	err = s.repo.Transaction(ctx, func(tx Repository) error {
		if err := tx.SaveSection(ctx, sec); err != nil {
			return err
		}
		if err := tx.CreateTicket(ctx, tkt); err != nil {
			return err
		}
		if err := tx.SaveAgreement(ctx, &ctr.Agreement); err != nil {
			return err
		}
		return tx.CreateLedgerEntry(ctx, &LedgerEntry{
			AgreementID:  id,
			Kind:         LedgerKindTicketSale,
			Amount:       tendered,
			PrincipalID:  callerID,
			TicketSerial: &serial,
		})
	})
	if err != nil {
		return nil, err
	}

	s.publish(ctx, EventTicketIssued, id, map[string]interface{}{
		"serial":      serial,
		"section_key": sectionKey,
	})
	s.log.LogTicketIssued(ctx, id.String(), serial, sectionKey)
	return tkt, nil
}

func (s *service) GetTicket(ctx context.Context, id uuid.UUID, serial int64) (*Ticket, error) {
	return s.repo.GetTicket(ctx, id, serial)
}

func (s *service) ScanTicket(ctx context.Context, id, callerID uuid.UUID, serial int64) (*Ticket, error) {
	unlock, err := s.lock(ctx, id)
	if err != nil {
		return nil, err
	}
	defer unlock()

	ctr, err := s.repo.GetContract(ctx, id)
	if err != nil {
		return nil, err
	}

	tkt, err := ctr.ScanTicket(ctr.Agreement.RoleOf(callerID), serial)
	if err != nil {
		return nil, err
	}

	if err := s.repo.SaveTicket(ctx, tkt); err != nil {
		return nil, err
	}

	s.publish(ctx, EventTicketScanned, id, map[string]interface{}{"serial": serial})
	return tkt, nil
}

func (s *service) CollectPayout(ctx context.Context, id, callerID uuid.UUID) (*Payout, error) {
	unlock, err := s.lock(ctx, id)
	if err != nil {
		return nil, err
	}
	defer unlock()

	a, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	now := time.Now().Unix()
	var payout *Payout
	err = s.repo.Transaction(ctx, func(tx Repository) error {
		p, err := a.CollectPayout(ctx, a.RoleOf(callerID), now, &ledgerPayer{tx: tx, agreementID: id})
		if err != nil {
			return err
		}
		payout = p
		return tx.SaveAgreement(ctx, a)
	})
	if err != nil {
		return nil, err
	}

	s.publish(ctx, EventPayoutCollected, id, map[string]interface{}{
		"role":   string(payout.Role),
		"amount": payout.Amount,
	})
	s.log.LogPayoutCollected(ctx, id.String(), string(payout.Role), payout.Amount)
	return payout, nil
}

func (s *service) Deposit(ctx context.Context, id, callerID uuid.UUID, amount int64) (*Agreement, error) {
	unlock, err := s.lock(ctx, id)
	if err != nil {
		return nil, err
	}
	defer unlock()

	a, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	a.Deposit(amount)

	err = s.repo.Transaction(ctx, func(tx Repository) error {
		if err := tx.SaveAgreement(ctx, a); err != nil {
			return err
		}
		return tx.CreateLedgerEntry(ctx, &LedgerEntry{
			AgreementID: id,
			Kind:        LedgerKindDeposit,
			Amount:      amount,
			PrincipalID: callerID,
		})
	})
	if err != nil {
		return nil, err
	}
	return a, nil
}

func (s *service) GetBalance(ctx context.Context, id uuid.UUID) (int64, error) {
	a, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return 0, err
	}
	return a.Balance, nil
}

func (s *service) ListLedger(ctx context.Context, id uuid.UUID) ([]LedgerEntry, error) {
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		return nil, err
	}
	return s.repo.ListLedger(ctx, id)
}

// ledgerPayer records payout disbursements in the ledger within the same
// database transaction that fixes the collected flag.
type ledgerPayer struct {
	tx          Repository
	agreementID uuid.UUID
}

func (p *ledgerPayer) Pay(ctx context.Context, principalID uuid.UUID, amount int64) error {
	return p.tx.CreateLedgerEntry(ctx, &LedgerEntry{
		AgreementID: p.agreementID,
		Kind:        LedgerKindPayout,
		Amount:      -amount,
		PrincipalID: principalID,
	})
}
