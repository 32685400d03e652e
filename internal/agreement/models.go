package agreement

import (
	"time"

	"github.com/google/uuid"
)

// Sentinel values shared across terms and sections. A zero means "unset";
// the registries normalize zero input to the explicit sentinels below so a
// free ticket or an unlimited section is distinguishable from an untouched one.
const (
	FreeTicketPrice   int64 = -1
	UnlimitedCapacity int64 = -1
)

// Basis point denominator for the fee split (10,000 = 100%).
const basisPointsDenominator int64 = 10_000

// Role is the closed set of caller roles resolved per request against a
// specific agreement. There is no role claim in the token: the same principal
// can be the venue of one agreement and a plain attendee of another.
type Role string

const (
	RoleOwner       Role = "OWNER"
	RoleVenue       Role = "VENUE"
	RoleEntertainer Role = "ENTERTAINER"
	RoleAttendee    Role = "ATTENDEE"
)

// Agreement is the ticketing contract negotiated between a venue and an
// entertainer and brokered by the platform owner. Monetary amounts are in the
// smallest currency unit, timestamps are unix seconds, and a zero term means
// the term has not been set yet.
type Agreement struct {
	ID            uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	OwnerID       uuid.UUID `gorm:"type:uuid;not null;index" json:"owner_id"`
	VenueID       uuid.UUID `gorm:"type:uuid;not null;index" json:"venue_id"`
	EntertainerID uuid.UUID `gorm:"type:uuid;not null;index" json:"entertainer_id"`

	EventDateTime         int64 `json:"event_date_time"`
	SalesStart            int64 `json:"ticket_sales_start"`
	SalesEnd              int64 `json:"ticket_sales_end"`
	DefaultTicketPrice    int64 `json:"default_ticket_price"`
	ServiceFeeBasisPoints int64 `gorm:"not null" json:"service_fee_basis_points"`
	VenueFeeBasisPoints   int64 `json:"venue_fee_basis_points"`

	VenueSigned       bool `gorm:"not null;default:false" json:"venue_signed"`
	EntertainerSigned bool `gorm:"not null;default:false" json:"entertainer_signed"`

	// Handle of the NFT collection created by the minting service.
	NftCollectionID string `gorm:"type:varchar(100)" json:"nft_collection_id,omitempty"`

	// Funds currently held by the agreement, in the smallest currency unit.
	Balance int64 `gorm:"not null;default:0" json:"balance"`

	// Payout split, fixed against the balance observed at the first collection.
	PayoutsComputed            bool  `gorm:"not null;default:false" json:"payouts_computed"`
	ServicePayout              int64 `json:"service_payout"`
	VenuePayout                int64 `json:"venue_payout"`
	EntertainerPayout          int64 `json:"entertainer_payout"`
	ServicePayoutCollected     bool  `gorm:"not null;default:false" json:"service_payout_collected"`
	VenuePayoutCollected       bool  `gorm:"not null;default:false" json:"venue_payout_collected"`
	EntertainerPayoutCollected bool  `gorm:"not null;default:false" json:"entertainer_payout_collected"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Section is a named seating category owned by a single agreement. A zero
// TicketPrice falls back to the agreement default; UnlimitedCapacity disables
// capacity bookkeeping entirely.
type Section struct {
	ID          uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	AgreementID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_sections_agreement_key" json:"agreement_id"`
	Key         string    `gorm:"type:varchar(100);not null;uniqueIndex:idx_sections_agreement_key" json:"key"`

	// Insertion order within the agreement; the ordered key list is served
	// from this column.
	Position int `gorm:"not null" json:"position"`

	TicketPrice       int64 `json:"ticket_price"`
	MaxCapacity       int64 `json:"max_capacity"`
	RemainingCapacity int64 `json:"remaining_capacity"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Ticket is one issued seat, keyed by the serial the minting service assigned.
// Tickets are never deleted; Scanned flips false to true exactly once.
type Ticket struct {
	AgreementID uuid.UUID  `gorm:"type:uuid;primaryKey" json:"agreement_id"`
	Serial      int64      `gorm:"primaryKey;autoIncrement:false" json:"serial"`
	SectionKey  string     `gorm:"type:varchar(100);not null" json:"section_key"`
	Metadata    string     `json:"metadata,omitempty"`
	Scanned     bool       `gorm:"not null;default:false" json:"scanned"`
	CreatedAt   time.Time  `json:"created_at"`
	ScannedAt   *time.Time `json:"scanned_at,omitempty"`
}

// Ledger entry kinds.
const (
	LedgerKindDeposit    = "DEPOSIT"
	LedgerKindTicketSale = "TICKET_SALE"
	LedgerKindPayout     = "PAYOUT"
)

// LedgerEntry is the append-only money trail of an agreement. Amounts are
// positive for funds received and negative for funds disbursed.
type LedgerEntry struct {
	ID           uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	AgreementID  uuid.UUID `gorm:"type:uuid;not null;index" json:"agreement_id"`
	Kind         string    `gorm:"type:varchar(20);not null;check:kind IN ('DEPOSIT', 'TICKET_SALE', 'PAYOUT')" json:"kind"`
	Amount       int64     `gorm:"not null" json:"amount"`
	PrincipalID  uuid.UUID `gorm:"type:uuid" json:"principal_id"`
	TicketSerial *int64    `json:"ticket_serial,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

// TableName sets the table name for Agreement
func (Agreement) TableName() string {
	return "agreements"
}

// TableName sets the table name for Section
func (Section) TableName() string {
	return "sections"
}

// TableName sets the table name for Ticket
func (Ticket) TableName() string {
	return "tickets"
}

// TableName sets the table name for LedgerEntry
func (LedgerEntry) TableName() string {
	return "ledger_entries"
}

// NewAgreement constructs a draft agreement. Both principals are mandatory;
// the service fee rate is fixed here and has no setter.
func NewAgreement(owner, venue, entertainer uuid.UUID, serviceFeeBasisPoints int64) (*Agreement, error) {
	if venue == uuid.Nil || entertainer == uuid.Nil {
		return nil, ErrVenueAndEntertainerAreRequired
	}

	return &Agreement{
		ID:                    uuid.New(),
		OwnerID:               owner,
		VenueID:               venue,
		EntertainerID:         entertainer,
		ServiceFeeBasisPoints: serviceFeeBasisPoints,
	}, nil
}

// RoleOf resolves the caller's role for this agreement. Anyone who is not a
// named principal is an attendee.
func (a *Agreement) RoleOf(principalID uuid.UUID) Role {
	switch principalID {
	case a.OwnerID:
		return RoleOwner
	case a.VenueID:
		return RoleVenue
	case a.EntertainerID:
		return RoleEntertainer
	default:
		return RoleAttendee
	}
}

// IsFinalized reports whether both principals have signed and no mutation has
// invalidated their consent since.
func (a *Agreement) IsFinalized() bool {
	return a.VenueSigned && a.EntertainerSigned
}

// readyToSign reports whether every negotiable term required for signing has
// been set. A free default price is stored as FreeTicketPrice, so a zero here
// always means unset.
func (a *Agreement) readyToSign() bool {
	return a.EventDateTime != 0 &&
		a.SalesStart != 0 &&
		a.SalesEnd != 0 &&
		a.DefaultTicketPrice != 0
}

// Status derives the finalization state from the signature flags and terms.
func (a *Agreement) Status() Status {
	switch {
	case a.VenueSigned && a.EntertainerSigned:
		return StatusFinalized
	case a.VenueSigned || a.EntertainerSigned:
		return StatusPartiallySigned
	case a.readyToSign():
		return StatusReadyToSign
	default:
		return StatusDraft
	}
}

// salesActive reports whether now falls inside the half-open sales window.
func (a *Agreement) salesActive(now int64) bool {
	return now >= a.SalesStart && now < a.SalesEnd
}

// resetSignatures clears both signature flags. Every successful term or
// section mutation routes through here: renegotiation invalidates consent.
func (a *Agreement) resetSignatures() {
	a.VenueSigned = false
	a.EntertainerSigned = false
}

// effectivePrice resolves what a ticket in the given section costs. A zero
// section price falls back to the agreement default; the free sentinel in
// either place resolves to zero owed.
func (a *Agreement) effectivePrice(sec *Section) int64 {
	price := a.DefaultTicketPrice
	if sec != nil && sec.TicketPrice != 0 {
		price = sec.TicketPrice
	}
	if price < 0 {
		return 0
	}
	return price
}

// Contract is the working copy of an agreement together with the sections and
// tickets it owns, loaded and persisted as one unit. Operations mutate the
// copy in memory; nothing is observable until the service commits it.
type Contract struct {
	Agreement Agreement
	Sections  []Section
	Tickets   []Ticket
}

// section returns the section with the given key, or nil if absent.
func (c *Contract) section(key string) *Section {
	for i := range c.Sections {
		if c.Sections[i].Key == key {
			return &c.Sections[i]
		}
	}
	return nil
}

// ticket returns the ticket with the given serial, or nil if absent.
func (c *Contract) ticket(serial int64) *Ticket {
	for i := range c.Tickets {
		if c.Tickets[i].Serial == serial {
			return &c.Tickets[i]
		}
	}
	return nil
}

// SectionKeys returns the section keys in insertion order.
func (c *Contract) SectionKeys() []string {
	keys := make([]string, 0, len(c.Sections))
	for i := range c.Sections {
		keys = append(keys, c.Sections[i].Key)
	}
	return keys
}
