package agreement

import "errors"

// The closed error taxonomy of the agreement state machine. Every failed
// operation surfaces exactly one of these and leaves the agreement untouched;
// callers may correct and retry.
var (
	// Construction
	ErrVenueAndEntertainerAreRequired = errors.New("venue and entertainer are required")

	// Authorization
	ErrUnauthorized = errors.New("unauthorized")

	// Terms
	ErrInvalidFeeBasisPoints = errors.New("invalid fee basis points")

	// Section registry
	ErrSectionAlreadyExists = errors.New("section already exists")
	ErrSectionNotFound      = errors.New("section not found")

	// Lifecycle
	ErrContractNotReadyToSign   = errors.New("contract not ready to sign")
	ErrContractAlreadyFinalized = errors.New("contract already finalized")
	ErrContractNotFinalized     = errors.New("contract not finalized")
	ErrSalesNotActive           = errors.New("ticket sales not active")
	ErrSalesStillActive         = errors.New("ticket sales still active")

	// Sales
	ErrInsufficientPaymentAmount = errors.New("insufficient payment amount")
	ErrSeatUnavailable           = errors.New("seat unavailable")

	// Scanning
	ErrTicketNotFound       = errors.New("ticket not found")
	ErrTicketAlreadyScanned = errors.New("ticket already scanned")

	// Payout
	ErrPayoutAlreadyCollected = errors.New("payout already collected")

	// Lookup
	ErrAgreementNotFound = errors.New("agreement not found")
)
