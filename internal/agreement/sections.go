package agreement

import "github.com/google/uuid"

// Section registry: the venue manages the section list and capacities, the
// entertainer prices them. Like the term setters, every successful mutation
// here resets both signature flags.

// AddSection creates a named section. A supplied capacity of zero means
// unlimited and is normalized to the sentinel. The price starts unset and
// falls back to the agreement default until the entertainer overrides it.
func (c *Contract) AddSection(caller Role, key string, capacity int64) (*Section, error) {
	if caller != RoleVenue {
		return nil, ErrUnauthorized
	}
	if c.section(key) != nil {
		return nil, ErrSectionAlreadyExists
	}
	if capacity == 0 {
		capacity = UnlimitedCapacity
	}

	c.Sections = append(c.Sections, Section{
		ID:                uuid.New(),
		AgreementID:       c.Agreement.ID,
		Key:               key,
		Position:          c.nextPosition(),
		MaxCapacity:       capacity,
		RemainingCapacity: capacity,
	})
	c.Agreement.resetSignatures()
	return &c.Sections[len(c.Sections)-1], nil
}

// nextPosition returns a position strictly above every live section's.
// Positions are never reused after a removal, so ordering by position always
// reproduces insertion order.
func (c *Contract) nextPosition() int {
	position := 0
	for i := range c.Sections {
		if c.Sections[i].Position >= position {
			position = c.Sections[i].Position + 1
		}
	}
	return position
}

// SetSectionTicketPrice overrides the ticket price for one section.
func (c *Contract) SetSectionTicketPrice(caller Role, key string, price int64) (*Section, error) {
	if caller != RoleEntertainer {
		return nil, ErrUnauthorized
	}
	sec := c.section(key)
	if sec == nil {
		return nil, ErrSectionNotFound
	}

	sec.TicketPrice = price
	c.Agreement.resetSignatures()
	return sec, nil
}

// SetSectionCapacity replaces a section's capacity. Any change resets the
// remaining capacity to the new maximum; tickets already issued keep their
// records but no longer count against the new capacity.
func (c *Contract) SetSectionCapacity(caller Role, key string, capacity int64) (*Section, error) {
	if caller != RoleVenue {
		return nil, ErrUnauthorized
	}
	sec := c.section(key)
	if sec == nil {
		return nil, ErrSectionNotFound
	}
	if capacity == 0 {
		capacity = UnlimitedCapacity
	}

	sec.MaxCapacity = capacity
	sec.RemainingCapacity = capacity
	c.Agreement.resetSignatures()
	return sec, nil
}

// RemoveSection deletes a section and its key from the ordered key list.
// Removing an absent key succeeds as a removal of nothing, but still counts
// as a mutation and resets the signatures.
func (c *Contract) RemoveSection(caller Role, key string) error {
	if caller != RoleVenue {
		return ErrUnauthorized
	}

	for i := range c.Sections {
		if c.Sections[i].Key == key {
			c.Sections = append(c.Sections[:i], c.Sections[i+1:]...)
			break
		}
	}
	c.Agreement.resetSignatures()
	return nil
}

// GetSection returns the section for the key. Mirroring the mapping
// semantics the purchase path relies on, an absent key reads as the zero
// section rather than an error.
func (c *Contract) GetSection(key string) Section {
	if sec := c.section(key); sec != nil {
		return *sec
	}
	return Section{AgreementID: c.Agreement.ID, Key: key}
}
