package agreement

type CreateAgreementRequest struct {
	VenueID               string `json:"venue_id" validate:"required,uuid"`
	EntertainerID         string `json:"entertainer_id" validate:"required,uuid"`
	ServiceFeeBasisPoints int64  `json:"service_fee_basis_points" validate:"gte=0,lte=10000"`
}

// SetTermRequest carries one term value. The pointer keeps an explicit zero
// (a free default price) distinguishable from an omitted field.
type SetTermRequest struct {
	Value *int64 `json:"value" validate:"required,gte=0"`
}

type AddSectionRequest struct {
	Key      string `json:"key" validate:"required,max=100"`
	Capacity int64  `json:"capacity" validate:"gte=0"`
}

type SetSectionPriceRequest struct {
	Price *int64 `json:"price" validate:"required,gte=0"`
}

type SetSectionCapacityRequest struct {
	Capacity *int64 `json:"capacity" validate:"required,gte=0"`
}

type CreateNftRequest struct {
	Name      string `json:"name" validate:"required,max=100"`
	Symbol    string `json:"symbol" validate:"required,max=10"`
	Memo      string `json:"memo" validate:"max=100"`
	MaxSupply int64  `json:"max_supply" validate:"gte=0"`
}

type PurchaseTicketRequest struct {
	SectionKey string `json:"section_key" validate:"max=100"`
	Metadata   string `json:"metadata" validate:"max=100"`
	Amount     int64  `json:"amount" validate:"gte=0"`

	// Wallet account to receive the NFT. Defaults to the wallet in the
	// caller's token, then to the caller's principal id.
	BuyerAccount string `json:"buyer_account"`
}

type DepositRequest struct {
	Amount int64 `json:"amount" validate:"required,gt=0"`
}
