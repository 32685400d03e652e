package agreement

import "time"

// ScanTicket marks a ticket as checked in. Only venue staff scan; a second
// scan of the same serial is rejected rather than silently ignored, so the
// gate always learns about a duplicate.
func (c *Contract) ScanTicket(caller Role, serial int64) (*Ticket, error) {
	if caller != RoleVenue {
		return nil, ErrUnauthorized
	}

	tkt := c.ticket(serial)
	if tkt == nil {
		return nil, ErrTicketNotFound
	}
	if tkt.Scanned {
		return nil, ErrTicketAlreadyScanned
	}

	now := time.Now().UTC()
	tkt.Scanned = true
	tkt.ScannedAt = &now
	return tkt, nil
}
