package agreement

// Term registry: role-gated setters for the negotiable terms. Every setter is
// entertainer-only, including the venue fee rate, which the entertainer
// accepts on the venue's behalf. The service fee rate is fixed at
// construction and has no setter. Each successful mutation resets both
// signature flags.

// SetEventDateTime sets the event date, as unix seconds.
func (a *Agreement) SetEventDateTime(caller Role, ts int64) error {
	if caller != RoleEntertainer {
		return ErrUnauthorized
	}
	a.EventDateTime = ts
	a.resetSignatures()
	return nil
}

// SetSalesStart sets the opening of the ticket sales window.
func (a *Agreement) SetSalesStart(caller Role, ts int64) error {
	if caller != RoleEntertainer {
		return ErrUnauthorized
	}
	a.SalesStart = ts
	a.resetSignatures()
	return nil
}

// SetSalesEnd sets the close of the ticket sales window.
func (a *Agreement) SetSalesEnd(caller Role, ts int64) error {
	if caller != RoleEntertainer {
		return ErrUnauthorized
	}
	a.SalesEnd = ts
	a.resetSignatures()
	return nil
}

// SetDefaultTicketPrice sets the price charged for sections without an
// override. A supplied zero means the event is free and is stored as
// FreeTicketPrice so it cannot be confused with "not set yet".
func (a *Agreement) SetDefaultTicketPrice(caller Role, price int64) error {
	if caller != RoleEntertainer {
		return ErrUnauthorized
	}
	if price == 0 {
		price = FreeTicketPrice
	}
	a.DefaultTicketPrice = price
	a.resetSignatures()
	return nil
}

// SetVenueFeeBasisPoints sets the venue's cut of the final balance. The venue
// fee and the fixed service fee together may not exceed the whole, otherwise
// the entertainer's remainder would go negative at payout time.
func (a *Agreement) SetVenueFeeBasisPoints(caller Role, bps int64) error {
	if caller != RoleEntertainer {
		return ErrUnauthorized
	}
	if bps < 0 || bps+a.ServiceFeeBasisPoints > basisPointsDenominator {
		return ErrInvalidFeeBasisPoints
	}
	a.VenueFeeBasisPoints = bps
	a.resetSignatures()
	return nil
}

// Sign records the caller's signature. Only the venue and the entertainer can
// sign, all required terms must be set first, and signing a fully signed
// agreement is rejected rather than ignored.
func (a *Agreement) Sign(caller Role) error {
	if caller != RoleVenue && caller != RoleEntertainer {
		return ErrUnauthorized
	}
	if a.IsFinalized() {
		return ErrContractAlreadyFinalized
	}
	if !a.readyToSign() {
		return ErrContractNotReadyToSign
	}

	if caller == RoleVenue {
		a.VenueSigned = true
	} else {
		a.EntertainerSigned = true
	}
	return nil
}
