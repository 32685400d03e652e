package agreement

import (
	"context"

	"nfticket/internal/minting"
)

// CreateNft bootstraps the event's NFT collection through the minting
// service and records the returned handle. This is a one-time administrative
// step by the platform owner, not a per-ticket mint.
func (a *Agreement) CreateNft(ctx context.Context, caller Role, minter minting.Minter, req *minting.CreateCollectionRequest) (string, error) {
	if caller != RoleOwner {
		return "", ErrUnauthorized
	}
	if !a.IsFinalized() {
		return "", ErrContractNotFinalized
	}

	collectionID, err := minter.CreateCollection(ctx, req)
	if err != nil {
		return "", err
	}
	a.NftCollectionID = collectionID
	return collectionID, nil
}

// PurchaseTicket sells one seat in the given section to the buyer. The check
// order is fixed: finalization, sales window, capacity, payment. An unknown
// section reads as the zero section and therefore fails on capacity.
//
// Guard state (capacity, balance) is mutated before the minting service is
// invoked, so a re-entrant call arriving through the collaborator sees the
// seat already taken. Persistence is the caller's transactional boundary:
// on any error the in-memory mutations are simply never committed.
func (c *Contract) PurchaseTicket(ctx context.Context, buyerAccount string, sectionKey string, metadata string, tendered int64, now int64, minter minting.Minter) (*Ticket, *Section, error) {
	a := &c.Agreement

	if !a.IsFinalized() {
		return nil, nil, ErrContractNotFinalized
	}
	if !a.salesActive(now) {
		return nil, nil, ErrSalesNotActive
	}

	sec := c.section(sectionKey)
	remaining := int64(0)
	if sec != nil {
		remaining = sec.RemainingCapacity
	}
	if remaining == 0 {
		return nil, nil, ErrSeatUnavailable
	}

	if tendered < a.effectivePrice(sec) {
		return nil, nil, ErrInsufficientPaymentAmount
	}

	// State effects before the external interaction.
	if sec.RemainingCapacity != UnlimitedCapacity {
		sec.RemainingCapacity--
	}
	a.Balance += tendered

	serial, err := minter.Mint(ctx, a.NftCollectionID, metadata)
	if err != nil {
		return nil, nil, err
	}
	if err := minter.Associate(ctx, buyerAccount, a.NftCollectionID); err != nil {
		return nil, nil, err
	}
	if err := minter.Transfer(ctx, a.NftCollectionID, serial, a.TreasuryAccount(), buyerAccount); err != nil {
		return nil, nil, err
	}

	c.Tickets = append(c.Tickets, Ticket{
		AgreementID: a.ID,
		Serial:      serial,
		SectionKey:  sectionKey,
		Metadata:    metadata,
	})
	return &c.Tickets[len(c.Tickets)-1], sec, nil
}

// TreasuryAccount is the account the agreement holds minted tokens under
// until they are transferred to a buyer.
func (a *Agreement) TreasuryAccount() string {
	return a.ID.String()
}
