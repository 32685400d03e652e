package agreement

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fundedAgreement is finalized with a 5000 balance: at 3% service fee and 15%
// venue fee the split is 150 / 750 / 4100.
func fundedAgreement(t *testing.T) *Agreement {
	t.Helper()
	a := newFinalized(t)
	a.Deposit(5000)
	return a
}

func TestCollectPayout(t *testing.T) {
	ctx := context.Background()

	t.Run("attendee cannot collect", func(t *testing.T) {
		a := fundedAgreement(t)
		_, err := a.CollectPayout(ctx, RoleAttendee, afterSales, &fakePayer{})
		assert.ErrorIs(t, err, ErrUnauthorized)
	})

	t.Run("rejected while sales are still active", func(t *testing.T) {
		a := fundedAgreement(t)
		_, err := a.CollectPayout(ctx, RoleVenue, duringSales, &fakePayer{})
		assert.ErrorIs(t, err, ErrSalesStillActive)
	})

	t.Run("splits by role", func(t *testing.T) {
		a := fundedAgreement(t)
		payer := &fakePayer{}

		service, err := a.CollectPayout(ctx, RoleOwner, afterSales, payer)
		require.NoError(t, err)
		venue, err := a.CollectPayout(ctx, RoleVenue, afterSales, payer)
		require.NoError(t, err)
		entertainer, err := a.CollectPayout(ctx, RoleEntertainer, afterSales, payer)
		require.NoError(t, err)

		assert.Equal(t, int64(150), service.Amount)
		assert.Equal(t, ownerID, service.PrincipalID)
		assert.Equal(t, int64(750), venue.Amount)
		assert.Equal(t, venueID, venue.PrincipalID)
		assert.Equal(t, int64(4100), entertainer.Amount)
		assert.Equal(t, entertainerID, entertainer.PrincipalID)

		assert.Zero(t, a.Balance)
		assert.Len(t, payer.payments, 3)
	})

	t.Run("each party collects exactly once", func(t *testing.T) {
		a := fundedAgreement(t)
		payer := &fakePayer{}

		for _, caller := range []Role{RoleOwner, RoleVenue, RoleEntertainer} {
			_, err := a.CollectPayout(ctx, caller, afterSales, payer)
			require.NoError(t, err)
			_, err = a.CollectPayout(ctx, caller, afterSales, payer)
			assert.ErrorIs(t, err, ErrPayoutAlreadyCollected)
		}
		assert.Len(t, payer.payments, 3)
	})

	t.Run("split is fixed at the first collection", func(t *testing.T) {
		a := fundedAgreement(t)
		payer := &fakePayer{}

		_, err := a.CollectPayout(ctx, RoleOwner, afterSales, payer)
		require.NoError(t, err)

		// A later deposit must not change the cached shares.
		a.Deposit(10_000)

		venue, err := a.CollectPayout(ctx, RoleVenue, afterSales, payer)
		require.NoError(t, err)
		assert.Equal(t, int64(750), venue.Amount)
	})

	t.Run("payer failure keeps nothing paid but flags set", func(t *testing.T) {
		a := fundedAgreement(t)
		payer := &fakePayer{err: errors.New("transfer down")}

		_, err := a.CollectPayout(ctx, RoleVenue, afterSales, payer)
		require.Error(t, err)
		assert.Empty(t, payer.payments)
	})

	t.Run("re-entrant collection is refused", func(t *testing.T) {
		a := fundedAgreement(t)
		payer := &fakePayer{}
		var reentrantErr error
		entered := false
		payer.onPay = func(ctx context.Context) {
			if entered {
				return
			}
			entered = true
			_, reentrantErr = a.CollectPayout(ctx, RoleVenue, afterSales, payer)
		}

		payout, err := a.CollectPayout(ctx, RoleVenue, afterSales, payer)
		require.NoError(t, err)
		assert.Equal(t, int64(750), payout.Amount)
		assert.ErrorIs(t, reentrantErr, ErrPayoutAlreadyCollected)
		assert.Len(t, payer.payments, 1)
	})

	t.Run("zero balance pays zero shares", func(t *testing.T) {
		a := newFinalized(t)
		payer := &fakePayer{}

		payout, err := a.CollectPayout(ctx, RoleEntertainer, afterSales, payer)
		require.NoError(t, err)
		assert.Zero(t, payout.Amount)
	})
}

func TestDeposit(t *testing.T) {
	a := newDraft(t)
	a.Deposit(300)
	a.Deposit(200)
	assert.Equal(t, int64(500), a.Balance)
}
