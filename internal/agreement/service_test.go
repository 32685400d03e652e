package agreement

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nfticket/pkg/logger"
)

// memRepo is an in-memory Repository. Transaction runs the unit directly;
// rollback behavior is covered by the database, not these tests.
type memRepo struct {
	agreements map[uuid.UUID]*Agreement
	sections   map[uuid.UUID][]Section
	tickets    map[uuid.UUID][]Ticket
	ledger     map[uuid.UUID][]LedgerEntry
}

func newMemRepo() *memRepo {
	return &memRepo{
		agreements: make(map[uuid.UUID]*Agreement),
		sections:   make(map[uuid.UUID][]Section),
		tickets:    make(map[uuid.UUID][]Ticket),
		ledger:     make(map[uuid.UUID][]LedgerEntry),
	}
}

func (r *memRepo) Create(ctx context.Context, a *Agreement) error {
	copied := *a
	r.agreements[a.ID] = &copied
	return nil
}

func (r *memRepo) GetByID(ctx context.Context, id uuid.UUID) (*Agreement, error) {
	a, ok := r.agreements[id]
	if !ok {
		return nil, ErrAgreementNotFound
	}
	copied := *a
	return &copied, nil
}

func (r *memRepo) GetContract(ctx context.Context, id uuid.UUID) (*Contract, error) {
	a, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return &Contract{
		Agreement: *a,
		Sections:  append([]Section(nil), r.sections[id]...),
		Tickets:   append([]Ticket(nil), r.tickets[id]...),
	}, nil
}

func (r *memRepo) GetTicket(ctx context.Context, agreementID uuid.UUID, serial int64) (*Ticket, error) {
	for i := range r.tickets[agreementID] {
		if r.tickets[agreementID][i].Serial == serial {
			copied := r.tickets[agreementID][i]
			return &copied, nil
		}
	}
	return nil, ErrTicketNotFound
}

func (r *memRepo) ListLedger(ctx context.Context, agreementID uuid.UUID) ([]LedgerEntry, error) {
	return append([]LedgerEntry(nil), r.ledger[agreementID]...), nil
}

func (r *memRepo) SaveAgreement(ctx context.Context, a *Agreement) error {
	copied := *a
	r.agreements[a.ID] = &copied
	return nil
}

func (r *memRepo) CreateSection(ctx context.Context, sec *Section) error {
	r.sections[sec.AgreementID] = append(r.sections[sec.AgreementID], *sec)
	return nil
}

func (r *memRepo) SaveSection(ctx context.Context, sec *Section) error {
	list := r.sections[sec.AgreementID]
	for i := range list {
		if list[i].Key == sec.Key {
			list[i] = *sec
			return nil
		}
	}
	r.sections[sec.AgreementID] = append(list, *sec)
	return nil
}

func (r *memRepo) DeleteSection(ctx context.Context, agreementID uuid.UUID, key string) error {
	list := r.sections[agreementID]
	for i := range list {
		if list[i].Key == key {
			r.sections[agreementID] = append(list[:i], list[i+1:]...)
			return nil
		}
	}
	return nil
}

func (r *memRepo) CreateTicket(ctx context.Context, tkt *Ticket) error {
	r.tickets[tkt.AgreementID] = append(r.tickets[tkt.AgreementID], *tkt)
	return nil
}

func (r *memRepo) SaveTicket(ctx context.Context, tkt *Ticket) error {
	list := r.tickets[tkt.AgreementID]
	for i := range list {
		if list[i].Serial == tkt.Serial {
			list[i] = *tkt
			return nil
		}
	}
	return ErrTicketNotFound
}

func (r *memRepo) CreateLedgerEntry(ctx context.Context, entry *LedgerEntry) error {
	r.ledger[entry.AgreementID] = append(r.ledger[entry.AgreementID], *entry)
	return nil
}

func (r *memRepo) Transaction(ctx context.Context, fn func(tx Repository) error) error {
	return fn(r)
}

// recordingPublisher captures lifecycle events in order.
type recordingPublisher struct {
	events []*LifecycleEvent
}

func (p *recordingPublisher) Publish(ctx context.Context, event *LifecycleEvent) error {
	p.events = append(p.events, event)
	return nil
}

func (p *recordingPublisher) Close() error { return nil }

func (p *recordingPublisher) types() []string {
	types := make([]string, 0, len(p.events))
	for _, e := range p.events {
		types = append(types, e.Type)
	}
	return types
}

func newTestService(t *testing.T) (Service, *memRepo, *recordingPublisher, *fakeMinter) {
	t.Helper()
	repo := newMemRepo()
	publisher := &recordingPublisher{}
	minter := &fakeMinter{}
	svc := NewService(repo, minter, publisher, nil, logger.GetDefault())
	return svc, repo, publisher, minter
}

// prepareFinalized drives an agreement through negotiation, a GA section of
// the given capacity, signatures and collection creation, all via the service.
func prepareFinalized(t *testing.T, svc Service, capacity int64) uuid.UUID {
	t.Helper()
	ctx := context.Background()

	a, err := svc.CreateAgreement(ctx, ownerID, venueID, entertainerID, serviceFee)
	require.NoError(t, err)
	id := a.ID

	_, err = svc.AddSection(ctx, id, venueID, "GA", capacity)
	require.NoError(t, err)
	_, err = svc.SetEventDateTime(ctx, id, entertainerID, eventDate)
	require.NoError(t, err)
	_, err = svc.SetSalesStart(ctx, id, entertainerID, 1) // window open for wall-clock purchases
	require.NoError(t, err)
	_, err = svc.SetSalesEnd(ctx, id, entertainerID, 1<<50)
	require.NoError(t, err)
	_, err = svc.SetDefaultTicketPrice(ctx, id, entertainerID, defaultPrice)
	require.NoError(t, err)
	_, err = svc.SetVenueFeeBasisPoints(ctx, id, entertainerID, venueFee)
	require.NoError(t, err)

	_, err = svc.SignContract(ctx, id, venueID)
	require.NoError(t, err)
	_, err = svc.SignContract(ctx, id, entertainerID)
	require.NoError(t, err)

	_, err = svc.CreateNft(ctx, id, ownerID, nil)
	require.NoError(t, err)
	return id
}

func TestServiceCreateAgreement(t *testing.T) {
	svc, repo, publisher, _ := newTestService(t)

	a, err := svc.CreateAgreement(context.Background(), ownerID, venueID, entertainerID, serviceFee)
	require.NoError(t, err)

	stored, err := repo.GetByID(context.Background(), a.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusDraft, stored.Status())
	assert.Equal(t, []string{EventAgreementCreated}, publisher.types())
}

func TestServiceLifecycleEvents(t *testing.T) {
	svc, _, publisher, _ := newTestService(t)
	id := prepareFinalized(t, svc, 5)

	_, err := svc.PurchaseTicket(context.Background(), id, attendeeID, "", "GA", "seat", defaultPrice)
	require.NoError(t, err)

	assert.Equal(t, []string{
		EventAgreementCreated,
		EventAgreementFinalized,
		EventNftCollectionCreated,
		EventTicketIssued,
	}, publisher.types())
}

func TestServicePurchasePersistsEverything(t *testing.T) {
	svc, repo, _, minter := newTestService(t)
	id := prepareFinalized(t, svc, 5)
	ctx := context.Background()

	tkt, err := svc.PurchaseTicket(ctx, id, attendeeID, "0.0.1234", "GA", "seat", defaultPrice)
	require.NoError(t, err)
	assert.Equal(t, 1, minter.transfers)

	stored, err := svc.GetTicket(ctx, id, tkt.Serial)
	require.NoError(t, err)
	assert.Equal(t, "GA", stored.SectionKey)

	sec, err := svc.GetSection(ctx, id, "GA")
	require.NoError(t, err)
	assert.Equal(t, int64(4), sec.RemainingCapacity)

	balance, err := svc.GetBalance(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, defaultPrice, balance)

	entries, err := repo.ListLedger(ctx, id)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, LedgerKindTicketSale, entries[0].Kind)
	assert.Equal(t, defaultPrice, entries[0].Amount)
	require.NotNil(t, entries[0].TicketSerial)
	assert.Equal(t, tkt.Serial, *entries[0].TicketSerial)
}

func TestServicePurchaseFailureLeavesNoTrace(t *testing.T) {
	svc, repo, _, minter := newTestService(t)
	id := prepareFinalized(t, svc, 5)
	minter.mintErr = errors.New("mint down")

	_, err := svc.PurchaseTicket(context.Background(), id, attendeeID, "", "GA", "seat", defaultPrice)
	require.Error(t, err)

	balance, err := svc.GetBalance(context.Background(), id)
	require.NoError(t, err)
	assert.Zero(t, balance)

	entries, err := repo.ListLedger(context.Background(), id)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestServiceScanTicket(t *testing.T) {
	svc, _, publisher, _ := newTestService(t)
	id := prepareFinalized(t, svc, 5)
	ctx := context.Background()

	tkt, err := svc.PurchaseTicket(ctx, id, attendeeID, "", "GA", "seat", defaultPrice)
	require.NoError(t, err)

	scanned, err := svc.ScanTicket(ctx, id, venueID, tkt.Serial)
	require.NoError(t, err)
	assert.True(t, scanned.Scanned)

	// The scan survives a reload.
	stored, err := svc.GetTicket(ctx, id, tkt.Serial)
	require.NoError(t, err)
	assert.True(t, stored.Scanned)

	_, err = svc.ScanTicket(ctx, id, venueID, tkt.Serial)
	assert.ErrorIs(t, err, ErrTicketAlreadyScanned)

	assert.Contains(t, publisher.types(), EventTicketScanned)
}

func TestServiceDepositAndLedger(t *testing.T) {
	svc, _, _, _ := newTestService(t)
	id := prepareFinalized(t, svc, 5)
	ctx := context.Background()

	a, err := svc.Deposit(ctx, id, attendeeID, 250)
	require.NoError(t, err)
	assert.Equal(t, int64(250), a.Balance)

	entries, err := svc.ListLedger(ctx, id)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, LedgerKindDeposit, entries[0].Kind)
	assert.Equal(t, int64(250), entries[0].Amount)
}

func TestServiceRemoveSection(t *testing.T) {
	svc, _, _, _ := newTestService(t)
	id := prepareFinalized(t, svc, 5)
	ctx := context.Background()

	require.NoError(t, svc.RemoveSection(ctx, id, venueID, "GA"))

	keys, err := svc.ListSectionKeys(ctx, id)
	require.NoError(t, err)
	assert.Empty(t, keys)

	// The mutation unsigned the agreement.
	ctr, err := svc.GetAgreement(ctx, id)
	require.NoError(t, err)
	assert.False(t, ctr.Agreement.IsFinalized())
}

func TestServiceUnknownAgreement(t *testing.T) {
	svc, _, _, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.SignContract(ctx, uuid.New(), venueID)
	assert.ErrorIs(t, err, ErrAgreementNotFound)

	_, err = svc.GetBalance(ctx, uuid.New())
	assert.ErrorIs(t, err, ErrAgreementNotFound)
}
