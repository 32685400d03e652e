package agreement

import (
	"context"
	"testing"

	"nfticket/internal/minting"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

var (
	ownerID       = uuid.New()
	venueID       = uuid.New()
	entertainerID = uuid.New()
	attendeeID    = uuid.New()
)

const (
	eventDate   = int64(2_000_000)
	salesStart  = int64(1_000_000)
	salesEnd    = int64(1_500_000)
	duringSales = int64(1_200_000)
	afterSales  = int64(1_600_000)

	defaultPrice = int64(500)
	serviceFee   = int64(300)  // 3%
	venueFee     = int64(1500) // 15%
)

func newDraft(t *testing.T) *Agreement {
	t.Helper()
	a, err := NewAgreement(ownerID, venueID, entertainerID, serviceFee)
	require.NoError(t, err)
	return a
}

func setAllTerms(t *testing.T, a *Agreement) {
	t.Helper()
	require.NoError(t, a.SetEventDateTime(RoleEntertainer, eventDate))
	require.NoError(t, a.SetSalesStart(RoleEntertainer, salesStart))
	require.NoError(t, a.SetSalesEnd(RoleEntertainer, salesEnd))
	require.NoError(t, a.SetDefaultTicketPrice(RoleEntertainer, defaultPrice))
	require.NoError(t, a.SetVenueFeeBasisPoints(RoleEntertainer, venueFee))
}

func signBoth(t *testing.T, a *Agreement) {
	t.Helper()
	require.NoError(t, a.Sign(RoleVenue))
	require.NoError(t, a.Sign(RoleEntertainer))
}

func newFinalized(t *testing.T) *Agreement {
	t.Helper()
	a := newDraft(t)
	setAllTerms(t, a)
	signBoth(t, a)
	return a
}

// newFinalizedContract builds a finalized contract with one "GA" section of
// the given capacity and a collection already created.
func newFinalizedContract(t *testing.T, capacity int64) *Contract {
	t.Helper()
	a := newDraft(t)
	ctr := &Contract{Agreement: *a}
	_, err := ctr.AddSection(RoleVenue, "GA", capacity)
	require.NoError(t, err)
	setAllTerms(t, &ctr.Agreement)
	signBoth(t, &ctr.Agreement)
	ctr.Agreement.NftCollectionID = "0.0.5005"
	return ctr
}

// fakeMinter is an in-memory Minter with per-call failure injection and an
// optional hook invoked inside Mint, used to simulate a re-entering
// collaborator.
type fakeMinter struct {
	serial       int64
	creates      int
	mints        int
	associates   int
	transfers    int
	createErr    error
	mintErr      error
	associateErr error
	transferErr  error
	onMint       func(ctx context.Context)
}

func (m *fakeMinter) CreateCollection(ctx context.Context, req *minting.CreateCollectionRequest) (string, error) {
	m.creates++
	if m.createErr != nil {
		return "", m.createErr
	}
	return "0.0.7777", nil
}

func (m *fakeMinter) Mint(ctx context.Context, collectionID string, metadata string) (int64, error) {
	m.mints++
	if m.onMint != nil {
		m.onMint(ctx)
	}
	if m.mintErr != nil {
		return 0, m.mintErr
	}
	m.serial++
	return m.serial, nil
}

func (m *fakeMinter) Associate(ctx context.Context, account string, collectionID string) error {
	m.associates++
	return m.associateErr
}

func (m *fakeMinter) Transfer(ctx context.Context, collectionID string, serial int64, from, to string) error {
	m.transfers++
	return m.transferErr
}

// fakePayer records disbursements and can re-enter the agreement from inside
// Pay.
type fakePayer struct {
	payments []Payout
	err      error
	onPay    func(ctx context.Context)
}

func (p *fakePayer) Pay(ctx context.Context, principalID uuid.UUID, amount int64) error {
	if p.onPay != nil {
		p.onPay(ctx)
	}
	if p.err != nil {
		return p.err
	}
	p.payments = append(p.payments, Payout{PrincipalID: principalID, Amount: amount})
	return nil
}
