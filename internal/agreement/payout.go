package agreement

import (
	"context"

	"github.com/google/uuid"
)

// Payer moves funds out of the agreement's treasury to a principal. The
// production implementation records the disbursement in the ledger; tests
// inject fakes, including adversarial re-entering ones.
type Payer interface {
	Pay(ctx context.Context, principalID uuid.UUID, amount int64) error
}

// Payout is the result of one collection call.
type Payout struct {
	Role        Role      `json:"role"`
	PrincipalID uuid.UUID `json:"principal_id"`
	Amount      int64     `json:"amount"`
}

// CollectPayout pays the caller their share of the final balance. The split
// is computed once, against the balance observed at the first collection
// call, and cached; later callers get their slice of that same split rather
// than a recomputation against the shrinking balance.
//
// The caller's collected flag is set and the balance reduced before the payer
// runs, so a re-entrant collection attempt is rejected instead of paying
// twice.
func (a *Agreement) CollectPayout(ctx context.Context, caller Role, now int64, payer Payer) (*Payout, error) {
	var (
		principalID uuid.UUID
		amount      *int64
		collected   *bool
	)
	switch caller {
	case RoleOwner:
		principalID, amount, collected = a.OwnerID, &a.ServicePayout, &a.ServicePayoutCollected
	case RoleVenue:
		principalID, amount, collected = a.VenueID, &a.VenuePayout, &a.VenuePayoutCollected
	case RoleEntertainer:
		principalID, amount, collected = a.EntertainerID, &a.EntertainerPayout, &a.EntertainerPayoutCollected
	default:
		return nil, ErrUnauthorized
	}

	if now < a.SalesEnd {
		return nil, ErrSalesStillActive
	}

	if !a.PayoutsComputed {
		a.ServicePayout = a.Balance * a.ServiceFeeBasisPoints / basisPointsDenominator
		a.VenuePayout = a.Balance * a.VenueFeeBasisPoints / basisPointsDenominator
		a.EntertainerPayout = a.Balance - a.ServicePayout - a.VenuePayout
		a.PayoutsComputed = true
	}

	if *collected {
		return nil, ErrPayoutAlreadyCollected
	}
	*collected = true
	a.Balance -= *amount

	if err := payer.Pay(ctx, principalID, *amount); err != nil {
		return nil, err
	}

	return &Payout{Role: caller, PrincipalID: principalID, Amount: *amount}, nil
}

// Deposit records funds sent directly to the agreement, outside a ticket
// sale.
func (a *Agreement) Deposit(amount int64) {
	a.Balance += amount
}
