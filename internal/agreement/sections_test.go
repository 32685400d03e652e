package agreement

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddSection(t *testing.T) {
	t.Run("venue only", func(t *testing.T) {
		ctr := &Contract{Agreement: *newDraft(t)}
		for _, caller := range []Role{RoleOwner, RoleEntertainer, RoleAttendee} {
			_, err := ctr.AddSection(caller, "GA", 10)
			assert.ErrorIs(t, err, ErrUnauthorized)
		}
	})

	t.Run("stores capacity and starts with full remaining", func(t *testing.T) {
		ctr := &Contract{Agreement: *newDraft(t)}
		sec, err := ctr.AddSection(RoleVenue, "GA", 10)
		require.NoError(t, err)

		assert.Equal(t, "GA", sec.Key)
		assert.Equal(t, int64(10), sec.MaxCapacity)
		assert.Equal(t, int64(10), sec.RemainingCapacity)
		assert.Zero(t, sec.TicketPrice)
	})

	t.Run("zero capacity means unlimited", func(t *testing.T) {
		ctr := &Contract{Agreement: *newDraft(t)}
		sec, err := ctr.AddSection(RoleVenue, "lawn", 0)
		require.NoError(t, err)
		assert.Equal(t, UnlimitedCapacity, sec.MaxCapacity)
		assert.Equal(t, UnlimitedCapacity, sec.RemainingCapacity)
	})

	t.Run("duplicate key rejected", func(t *testing.T) {
		ctr := &Contract{Agreement: *newDraft(t)}
		_, err := ctr.AddSection(RoleVenue, "GA", 10)
		require.NoError(t, err)
		_, err = ctr.AddSection(RoleVenue, "GA", 20)
		assert.ErrorIs(t, err, ErrSectionAlreadyExists)
	})

	t.Run("resets signatures", func(t *testing.T) {
		a := newFinalized(t)
		ctr := &Contract{Agreement: *a}
		_, err := ctr.AddSection(RoleVenue, "GA", 10)
		require.NoError(t, err)
		assert.False(t, ctr.Agreement.IsFinalized())
	})

	t.Run("never reuses a position after a removal", func(t *testing.T) {
		ctr := &Contract{Agreement: *newDraft(t)}
		_, err := ctr.AddSection(RoleVenue, "GA", 5)
		require.NoError(t, err)
		_, err = ctr.AddSection(RoleVenue, "VIP", 5)
		require.NoError(t, err)
		vipPos := ctr.GetSection("VIP").Position

		require.NoError(t, ctr.RemoveSection(RoleVenue, "GA"))

		sec, err := ctr.AddSection(RoleVenue, "lawn", 5)
		require.NoError(t, err)
		assert.Greater(t, sec.Position, vipPos)
		assert.Equal(t, []string{"VIP", "lawn"}, ctr.SectionKeys())
	})
}

func TestSetSectionTicketPrice(t *testing.T) {
	t.Run("entertainer only", func(t *testing.T) {
		ctr := &Contract{Agreement: *newDraft(t)}
		_, err := ctr.AddSection(RoleVenue, "GA", 10)
		require.NoError(t, err)

		_, err = ctr.SetSectionTicketPrice(RoleVenue, "GA", 900)
		assert.ErrorIs(t, err, ErrUnauthorized)
	})

	t.Run("unknown key rejected", func(t *testing.T) {
		ctr := &Contract{Agreement: *newDraft(t)}
		_, err := ctr.SetSectionTicketPrice(RoleEntertainer, "missing", 900)
		assert.ErrorIs(t, err, ErrSectionNotFound)
	})

	t.Run("sets override and resets signatures", func(t *testing.T) {
		ctr := newFinalizedContract(t, 10)
		sec, err := ctr.SetSectionTicketPrice(RoleEntertainer, "GA", 900)
		require.NoError(t, err)
		assert.Equal(t, int64(900), sec.TicketPrice)
		assert.False(t, ctr.Agreement.IsFinalized())
	})
}

func TestSetSectionCapacity(t *testing.T) {
	t.Run("venue only", func(t *testing.T) {
		ctr := &Contract{Agreement: *newDraft(t)}
		_, err := ctr.AddSection(RoleVenue, "GA", 10)
		require.NoError(t, err)

		_, err = ctr.SetSectionCapacity(RoleEntertainer, "GA", 20)
		assert.ErrorIs(t, err, ErrUnauthorized)
	})

	t.Run("resets remaining to new maximum", func(t *testing.T) {
		ctr := &Contract{Agreement: *newDraft(t)}
		sec, err := ctr.AddSection(RoleVenue, "GA", 10)
		require.NoError(t, err)
		sec.RemainingCapacity = 3

		sec, err = ctr.SetSectionCapacity(RoleVenue, "GA", 20)
		require.NoError(t, err)
		assert.Equal(t, int64(20), sec.MaxCapacity)
		assert.Equal(t, int64(20), sec.RemainingCapacity)
	})

	t.Run("zero means unlimited", func(t *testing.T) {
		ctr := &Contract{Agreement: *newDraft(t)}
		_, err := ctr.AddSection(RoleVenue, "GA", 10)
		require.NoError(t, err)

		sec, err := ctr.SetSectionCapacity(RoleVenue, "GA", 0)
		require.NoError(t, err)
		assert.Equal(t, UnlimitedCapacity, sec.RemainingCapacity)
	})
}

func TestRemoveSection(t *testing.T) {
	t.Run("venue only", func(t *testing.T) {
		ctr := newFinalizedContract(t, 10)
		assert.ErrorIs(t, ctr.RemoveSection(RoleEntertainer, "GA"), ErrUnauthorized)
	})

	t.Run("removes the section", func(t *testing.T) {
		ctr := newFinalizedContract(t, 10)
		require.NoError(t, ctr.RemoveSection(RoleVenue, "GA"))
		assert.Empty(t, ctr.SectionKeys())
	})

	t.Run("absent key succeeds but still resets signatures", func(t *testing.T) {
		ctr := newFinalizedContract(t, 10)
		require.True(t, ctr.Agreement.IsFinalized())

		require.NoError(t, ctr.RemoveSection(RoleVenue, "missing"))
		assert.Equal(t, []string{"GA"}, ctr.SectionKeys())
		assert.False(t, ctr.Agreement.IsFinalized())
	})

	t.Run("re-adding a removed key starts fresh", func(t *testing.T) {
		ctr := newFinalizedContract(t, 10)
		_, err := ctr.SetSectionTicketPrice(RoleEntertainer, "GA", 900)
		require.NoError(t, err)
		oldPos := ctr.GetSection("GA").Position

		require.NoError(t, ctr.RemoveSection(RoleVenue, "GA"))

		sec, err := ctr.AddSection(RoleVenue, "GA", 3)
		require.NoError(t, err)
		assert.Equal(t, int64(3), sec.MaxCapacity)
		assert.Equal(t, int64(3), sec.RemainingCapacity)
		assert.Zero(t, sec.TicketPrice)
		assert.Greater(t, sec.Position, oldPos)
	})
}

func TestGetSection(t *testing.T) {
	ctr := newFinalizedContract(t, 10)

	t.Run("round trips a stored section", func(t *testing.T) {
		sec := ctr.GetSection("GA")
		assert.Equal(t, int64(10), sec.MaxCapacity)
	})

	t.Run("absent key reads as the zero section", func(t *testing.T) {
		sec := ctr.GetSection("missing")
		assert.Zero(t, sec.MaxCapacity)
		assert.Zero(t, sec.RemainingCapacity)
		assert.Zero(t, sec.TicketPrice)
	})
}
