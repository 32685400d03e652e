package agreement

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewAgreement(t *testing.T) {
	t.Run("creates draft with principals and service fee", func(t *testing.T) {
		a, err := NewAgreement(ownerID, venueID, entertainerID, serviceFee)
		require.NoError(t, err)

		assert.Equal(t, ownerID, a.OwnerID)
		assert.Equal(t, venueID, a.VenueID)
		assert.Equal(t, entertainerID, a.EntertainerID)
		assert.Equal(t, serviceFee, a.ServiceFeeBasisPoints)
		assert.Equal(t, StatusDraft, a.Status())
		assert.False(t, a.IsFinalized())
	})

	t.Run("requires a venue", func(t *testing.T) {
		_, err := NewAgreement(ownerID, uuid.Nil, entertainerID, serviceFee)
		assert.ErrorIs(t, err, ErrVenueAndEntertainerAreRequired)
	})

	t.Run("requires an entertainer", func(t *testing.T) {
		_, err := NewAgreement(ownerID, venueID, uuid.Nil, serviceFee)
		assert.ErrorIs(t, err, ErrVenueAndEntertainerAreRequired)
	})
}

func TestRoleOf(t *testing.T) {
	a := newDraft(t)

	assert.Equal(t, RoleOwner, a.RoleOf(ownerID))
	assert.Equal(t, RoleVenue, a.RoleOf(venueID))
	assert.Equal(t, RoleEntertainer, a.RoleOf(entertainerID))
	assert.Equal(t, RoleAttendee, a.RoleOf(attendeeID))
}

func TestStatus(t *testing.T) {
	a := newDraft(t)
	assert.Equal(t, StatusDraft, a.Status())

	setAllTerms(t, a)
	assert.Equal(t, StatusReadyToSign, a.Status())

	require.NoError(t, a.Sign(RoleVenue))
	assert.Equal(t, StatusPartiallySigned, a.Status())

	require.NoError(t, a.Sign(RoleEntertainer))
	assert.Equal(t, StatusFinalized, a.Status())
	assert.True(t, a.IsFinalized())
}

func TestEffectivePrice(t *testing.T) {
	a := newFinalized(t)

	t.Run("section override wins", func(t *testing.T) {
		sec := &Section{TicketPrice: 900}
		assert.Equal(t, int64(900), a.effectivePrice(sec))
	})

	t.Run("unset section price falls back to default", func(t *testing.T) {
		sec := &Section{}
		assert.Equal(t, defaultPrice, a.effectivePrice(sec))
	})

	t.Run("free sentinel resolves to zero owed", func(t *testing.T) {
		sec := &Section{TicketPrice: FreeTicketPrice}
		assert.Equal(t, int64(0), a.effectivePrice(sec))
	})

	t.Run("free default resolves to zero owed", func(t *testing.T) {
		free := newDraft(t)
		require.NoError(t, free.SetDefaultTicketPrice(RoleEntertainer, 0))
		assert.Equal(t, FreeTicketPrice, free.DefaultTicketPrice)
		assert.Equal(t, int64(0), free.effectivePrice(&Section{}))
	})
}

func TestSectionKeysOrder(t *testing.T) {
	ctr := &Contract{Agreement: *newDraft(t)}

	for _, key := range []string{"floor", "balcony", "vip"} {
		_, err := ctr.AddSection(RoleVenue, key, 10)
		require.NoError(t, err)
	}

	assert.Equal(t, []string{"floor", "balcony", "vip"}, ctr.SectionKeys())

	require.NoError(t, ctr.RemoveSection(RoleVenue, "balcony"))
	assert.Equal(t, []string{"floor", "vip"}, ctr.SectionKeys())
}
